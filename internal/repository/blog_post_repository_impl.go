package repository

import (
	"medportal/internal/domain/entity"
	domainRepo "medportal/internal/domain/repository"

	"gorm.io/gorm"
)

type blogPostRepository struct{}

func NewBlogPostRepository() domainRepo.BlogPostRepository {
	return &blogPostRepository{}
}

func (r *blogPostRepository) Create(db *gorm.DB, post *entity.BlogPost) error {
	return db.Create(post).Error
}

func (r *blogPostRepository) FindByDoctorID(db *gorm.DB, doctorID uint) ([]entity.BlogPost, error) {
	var posts []entity.BlogPost
	err := db.Preload("Category").
		Where("doctor_id = ?", doctorID).
		Order("created_at").
		Find(&posts).Error
	return posts, err
}

func (r *blogPostRepository) FindPublishedByCategoryID(db *gorm.DB, categoryID uint) ([]entity.BlogPost, error) {
	var posts []entity.BlogPost
	err := db.Preload("Doctor").
		Where("category_id = ? AND is_draft = ?", categoryID, false).
		Order("created_at").
		Find(&posts).Error
	return posts, err
}
