package repos

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashokgiriii/tweet-nepal/models"
)

type postRepo struct {
	db *gorm.DB
}

func (r *postRepo) Create(p *models.Post) error {
	return r.db.Create(p).Error
}

func (r *postRepo) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) FindDetail(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("User").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	count, err := r.LikeCount(post.ID)
	if err != nil {
		return nil, err
	}
	post.LikesCount = count
	return &post, nil
}

func (r *postRepo) ListFeed() ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("User").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Comments.User").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	for i := range posts {
		count, err := r.LikeCount(posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].LikesCount = count
	}
	return posts, nil
}

func (r *postRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// ToggleLike is a conditional delete-then-insert against the unique
// (post_id, user_id) index, so concurrent toggles from the same user cannot
// produce duplicate likes.
func (r *postRepo) ToggleLike(postID, userID uint) (bool, int64, error) {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if res.Error != nil {
		return false, 0, res.Error
	}

	liked := false
	if res.RowsAffected == 0 {
		// Nothing removed: the user had not liked the post yet.
		err := r.db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PostLike{PostID: postID, UserID: userID}).Error
		if err != nil {
			return false, 0, err
		}
		liked = true
	}

	count, err := r.LikeCount(postID)
	if err != nil {
		return liked, 0, err
	}
	return liked, count, nil
}

func (r *postRepo) LikeCount(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
