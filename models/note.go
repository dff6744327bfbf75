package models

import "time"

// NoteMaxWords caps a note body at 20 whitespace-separated tokens.
const NoteMaxWords = 20

// Note is an ephemeral status line. Each user owns at most one; replacing it
// rewrites the body in place without moving the expiry, so a note always dies
// 24 hours after it was first shared.
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Body      string    `gorm:"size:512;not null" json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
}

// Expired reports whether the note is past its expiry at the given instant.
func (n *Note) Expired(now time.Time) bool {
	return !n.ExpiresAt.After(now)
}
