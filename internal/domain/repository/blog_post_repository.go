package repository

import (
	"medportal/internal/domain/entity"

	"gorm.io/gorm"
)

type BlogPostRepository interface {
	Create(db *gorm.DB, post *entity.BlogPost) error
	FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.BlogPost, error)
	FindPublishedByCategoryID(db *gorm.DB, categoryID uint) ([]entity.BlogPost, error)
}
