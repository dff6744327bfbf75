// Package repos defines one repository per entity kind, giving handlers an
// explicit, typed storage boundary instead of ad hoc query helpers.
package repos

import (
	"time"

	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

// UserRepo covers account records and their photo gallery.
type UserRepo interface {
	Create(u *models.User) error
	Update(u *models.User) error
	FindByID(id uint) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByProvider(provider, providerID string) (*models.User, error)
	// ProfileByUsername loads a user together with posts and gallery.
	ProfileByUsername(username string) (*models.User, error)
	SearchByPrefix(prefix string, limit int) ([]models.User, error)
	ListLatest(limit int) ([]models.User, error)
	// ListAllWithContent loads every user with posts and note, for moderation.
	ListAllWithContent() ([]models.User, error)
	// SetPhoto updates the current photo and appends it to the gallery,
	// skipping duplicates.
	SetPhoto(userID uint, url string) error
	// DeleteCascade removes the user and everything they own in one
	// transaction: posts (with their comments and likes), comments, likes,
	// gallery entries and note.
	DeleteCascade(id uint) error
}

// PostRepo covers posts, their comments and the like set.
type PostRepo interface {
	Create(p *models.Post) error
	FindByID(id uint) (*models.Post, error)
	// FindDetail loads a post with author, comments and comment authors.
	FindDetail(id uint) (*models.Post, error)
	// ListFeed returns all posts, newest first, with authors and comments.
	ListFeed() ([]models.Post, error)
	// Delete removes the post together with its comments and likes.
	Delete(id uint) error
	// ToggleLike flips the acting user's membership in the post's like set
	// and reports the new state and total.
	ToggleLike(postID, userID uint) (liked bool, count int64, err error)
	LikeCount(postID uint) (int64, error)
}

// CommentRepo covers replies to posts.
type CommentRepo interface {
	Create(c *models.Comment) error
	FindWithUser(id uint) (*models.Comment, error)
}

// NoteRepo governs the ephemeral note lifecycle. All reads are lazy about
// expiry: an expired row is never returned even before the sweeper runs.
type NoteRepo interface {
	// Share creates the user's note or rewrites its body in place. The expiry
	// of a live note is deliberately left untouched so re-sharing cannot
	// extend the 24 hour window.
	Share(userID uint, body string, ttl time.Duration) (*models.Note, error)
	FindByUser(userID uint) (*models.Note, error)
	// ListLive returns all unexpired notes with their owners.
	ListLive() ([]models.Note, error)
	// DeleteByID removes a note by identity; deleting a missing note is not
	// an error.
	DeleteByID(id uint) error
	// DeleteExpired removes all rows past their expiry and reports how many.
	DeleteExpired() (int64, error)
}

// AdminRepo covers moderation identities.
type AdminRepo interface {
	FindByUsername(username string) (*models.Admin, error)
	// EnsureSeed creates the admin account when missing.
	EnsureSeed(username, name, passwordHash string) error
}

// Repositories bundles every repository over a single gorm handle.
type Repositories struct {
	Users    UserRepo
	Posts    PostRepo
	Comments CommentRepo
	Notes    NoteRepo
	Admins   AdminRepo
}

// New wires gorm-backed implementations for all entity kinds.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:    &userRepo{db: db},
		Posts:    &postRepo{db: db},
		Comments: &commentRepo{db: db},
		Notes:    &noteRepo{db: db},
		Admins:   &adminRepo{db: db},
	}
}
