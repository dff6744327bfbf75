package models

import "time"

// PostLike marks that a user likes a post. The composite unique index makes
// the like toggle a single conditional write instead of a read-modify-write
// on an embedded list.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index:idx_post_user_like,unique;not null" json:"post_id"`
	UserID    uint      `gorm:"index:idx_post_user_like,unique;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
