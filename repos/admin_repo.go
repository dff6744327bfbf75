package repos

import (
	"errors"

	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

type adminRepo struct {
	db *gorm.DB
}

func (r *adminRepo) FindByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) EnsureSeed(username, name, passwordHash string) error {
	var existing models.Admin
	err := r.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.Admin{
		Username:     username,
		Name:         name,
		PasswordHash: passwordHash,
	}).Error
}
