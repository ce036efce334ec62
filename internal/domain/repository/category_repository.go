package repository

import (
	"medportal/internal/domain/entity"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindAll(db *gorm.DB) ([]entity.Category, error)
	FindByID(db *gorm.DB, id uint) (*entity.Category, error)
	FirstOrCreateByName(db *gorm.DB, name string) error
}
