package models

import "time"

// Post limits mirror the composer UI: short title, long-form body.
const (
	PostTitleMaxLen   = 70
	PostContentMaxLen = 4000
)

// Post represents a piece of content shared by a user, optionally with a picture.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index;not null" json:"user_id"`
	Title      string     `gorm:"size:70" json:"title"`
	Content    string     `gorm:"size:4000" json:"content"`
	PictureURL string     `gorm:"size:512" json:"picture"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	User       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments   []Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments"`
	Likes      []PostLike `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	LikesCount int64      `gorm:"-" json:"likes_count"`
}
