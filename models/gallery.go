package models

import "time"

// GalleryPhoto is one entry in a user's photo history. Insertion order is the
// display order; the composite unique index enforces the dedup rule the
// storage layer would otherwise leave to the application.
type GalleryPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_user_gallery_url,unique;not null" json:"user_id"`
	URL       string    `gorm:"size:512;index:idx_user_gallery_url,unique;not null" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
