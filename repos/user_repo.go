package repos

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashokgiriii/tweet-nepal/models"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *userRepo) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *userRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByProvider(provider, providerID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ProfileByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).
		Preload("Posts", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Preload("Gallery", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) SearchByPrefix(prefix string, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("username LIKE ?", prefix+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListLatest(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (r *userRepo) ListAllWithContent() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Posts").Preload("Note").Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepo) SetPhoto(userID uint, url string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("photo_url", url).Error; err != nil {
			return err
		}
		// Gallery is an append-only ordered set; the unique index plus
		// do-nothing upsert enforces dedup at write time.
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.GalleryPhoto{UserID: userID, URL: url}).Error
	})
}

func (r *userRepo) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", id).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.GalleryPhoto{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}
