package repos

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

type noteRepo struct {
	db *gorm.DB
}

func (r *noteRepo) Share(userID uint, body string, ttl time.Duration) (*models.Note, error) {
	now := time.Now()

	var note models.Note
	err := r.db.Where("user_id = ?", userID).First(&note).Error
	switch {
	case err == nil:
		note.Body = body
		updates := map[string]interface{}{"body": body, "updated_at": now}
		if note.Expired(now) {
			// A leftover expired row that the sweeper has not reached yet
			// counts as absent: the re-share opens a fresh window.
			note.ExpiresAt = now.Add(ttl)
			updates["expires_at"] = note.ExpiresAt
		}
		if err := r.db.Model(&models.Note{}).Where("id = ?", note.ID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
		note.UpdatedAt = now
		return &note, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		note = models.Note{
			UserID:    userID,
			Body:      body,
			ExpiresAt: now.Add(ttl),
		}
		if err := r.db.Create(&note).Error; err != nil {
			return nil, err
		}
		return &note, nil
	default:
		return nil, err
	}
}

func (r *noteRepo) FindByUser(userID uint) (*models.Note, error) {
	var note models.Note
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepo) ListLive() ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Preload("User").
		Where("expires_at > ?", time.Now()).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *noteRepo) DeleteByID(id uint) error {
	return r.db.Delete(&models.Note{}, id).Error
}

func (r *noteRepo) DeleteExpired() (int64, error) {
	res := r.db.Where("expires_at <= ?", time.Now()).Delete(&models.Note{})
	return res.RowsAffected, res.Error
}
