package repository

import (
	"gorm.io/gorm"

	"inkwell/models"
)

type locationRepository struct {
	db *gorm.DB
}

func (r *locationRepository) Published() ([]models.Location, error) {
	var locations []models.Location
	err := r.db.Where("is_published = ?", true).Order("name ASC").Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) Create(location *models.Location) error {
	return r.db.Create(location).Error
}
