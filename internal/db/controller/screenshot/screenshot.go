// Package screenshot provides CRUD operations for review screenshots.
package screenshot

import (
	"errors"

	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
)

var (
	// ErrScreenshotNotFound is returned when a screenshot is not found.
	ErrScreenshotNotFound = errors.New("screenshot not found")
	// ErrImageURLEmpty is returned when attempting to create a screenshot without an image URL.
	ErrImageURLEmpty = errors.New("screenshot image url cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a screenshot by its ID.
func Get(db *gorm.DB, id uint64) (*models.ReviewScreenshot, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var s models.ReviewScreenshot
	result := db.First(&s, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrScreenshotNotFound
		}
		return nil, result.Error
	}

	return &s, nil
}

// List retrieves all screenshots for the admin area.
func List(db *gorm.DB) ([]models.ReviewScreenshot, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var screenshots []models.ReviewScreenshot
	result := db.Order("sort_order ASC, id ASC").Find(&screenshots)
	if result.Error != nil {
		return nil, result.Error
	}

	return screenshots, nil
}

// ListPublic retrieves the active screenshots ordered for public display.
func ListPublic(db *gorm.DB) ([]models.ReviewScreenshot, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var screenshots []models.ReviewScreenshot
	result := db.Where("is_active = ?", true).Order("sort_order ASC, id ASC").Find(&screenshots)
	if result.Error != nil {
		return nil, result.Error
	}

	return screenshots, nil
}

// Create creates a new screenshot.
func Create(db *gorm.DB, s *models.ReviewScreenshot) (*models.ReviewScreenshot, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if s.ImageURL == "" {
		return nil, ErrImageURLEmpty
	}

	result := db.Create(s)
	if result.Error != nil {
		return nil, result.Error
	}

	return s, nil
}

// Update updates an existing screenshot by ID.
func Update(db *gorm.DB, id uint64, update *models.ReviewScreenshot) (*models.ReviewScreenshot, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if update.ImageURL == "" {
		return nil, ErrImageURLEmpty
	}

	var s models.ReviewScreenshot
	result := db.First(&s, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrScreenshotNotFound
		}
		return nil, result.Error
	}

	s.ImageURL = update.ImageURL
	s.Caption = update.Caption
	s.SortOrder = update.SortOrder
	s.IsActive = update.IsActive

	result = db.Save(&s)
	if result.Error != nil {
		return nil, result.Error
	}

	return &s, nil
}

// Delete deletes a screenshot by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.ReviewScreenshot{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrScreenshotNotFound
	}

	return nil
}
