package repository

import (
	"gorm.io/gorm"

	"inkwell/models"
)

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) BySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Published() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("is_published = ?", true).Order("title ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}
