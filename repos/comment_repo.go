package repos

import (
	"gorm.io/gorm"

	"github.com/ashokgiriii/tweet-nepal/models"
)

type commentRepo struct {
	db *gorm.DB
}

func (r *commentRepo) Create(c *models.Comment) error {
	return r.db.Create(c).Error
}

func (r *commentRepo) FindWithUser(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}
