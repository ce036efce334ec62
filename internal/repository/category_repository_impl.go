package repository

import (
	"medportal/internal/domain/entity"
	domainRepo "medportal/internal/domain/repository"

	"gorm.io/gorm"
)

type categoryRepository struct{}

func NewCategoryRepository() domainRepo.CategoryRepository {
	return &categoryRepository{}
}

func (r *categoryRepository) FindAll(db *gorm.DB) ([]entity.Category, error) {
	var categories []entity.Category
	err := db.Order("id").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) FindByID(db *gorm.DB, id uint) (*entity.Category, error) {
	var category entity.Category
	err := db.Where("id = ?", id).First(&category).Error
	return &category, err
}

func (r *categoryRepository) FirstOrCreateByName(db *gorm.DB, name string) error {
	var category entity.Category
	return db.Where(entity.Category{Name: name}).FirstOrCreate(&category).Error
}
