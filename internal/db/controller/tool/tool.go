// Package tool provides CRUD operations for the tool catalog.
package tool

import (
	"errors"

	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
)

const (
	slugQueryPattern = "slug = ?"
)

var (
	// ErrToolNotFound is returned when a tool is not found.
	ErrToolNotFound = errors.New("tool not found")
	// ErrSlugAlreadyExists is returned when attempting to create a tool with a slug that is already taken.
	ErrSlugAlreadyExists = errors.New("a tool with this slug already exists")
	// ErrSlugEmpty is returned when attemping to create a tool without a slug.
	ErrSlugEmpty = errors.New("tool slug cannot be empty")
	// ErrNameEmpty is returned when attempting to create a tool without a name.
	ErrNameEmpty = errors.New("tool name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a tool by its ID.
func Get(db *gorm.DB, id uint64) (*models.Tool, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Tool
	result := db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, result.Error
	}

	return &t, nil
}

// GetBySlug retrieves a tool by its slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Tool, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if slug == "" {
		return nil, ErrSlugEmpty
	}

	var t models.Tool
	result := db.Where(slugQueryPattern, slug).First(&t)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, result.Error
	}

	return &t, nil
}

// List retrieves all tools ordered for the admin area.
func List(db *gorm.DB) ([]models.Tool, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tools []models.Tool
	result := db.Order("sort_order ASC, id ASC").Find(&tools)
	if result.Error != nil {
		return nil, result.Error
	}

	return tools, nil
}

// ListActive retrieves the active tools ordered for the public catalog.
func ListActive(db *gorm.DB) ([]models.Tool, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var tools []models.Tool
	result := db.Where("is_active = ?", true).Order("sort_order ASC, id ASC").Find(&tools)
	if result.Error != nil {
		return nil, result.Error
	}

	return tools, nil
}

// Create creates a new tool. The slug must be unique; a taken slug returns
// ErrSlugAlreadyExists so callers can map it to a descriptive client error.
func Create(db *gorm.DB, t *models.Tool) (*models.Tool, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if t.Slug == "" {
		return nil, ErrSlugEmpty
	}
	if t.Name == "" {
		return nil, ErrNameEmpty
	}

	// Check if the slug is already taken
	var existing models.Tool
	result := db.Where(slugQueryPattern, t.Slug).First(&existing)
	if result.Error == nil {
		return nil, ErrSlugAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	result = db.Create(t)
	if result.Error != nil {
		// The unique index is the backstop for concurrent creates.
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugAlreadyExists
		}
		return nil, result.Error
	}

	return t, nil
}

// Update updates an existing tool by ID.
func Update(db *gorm.DB, id uint64, update *models.Tool) (*models.Tool, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Tool
	result := db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, result.Error
	}

	// A slug change must not collide with another tool.
	if update.Slug != "" && update.Slug != t.Slug {
		var existing models.Tool
		result = db.Where(slugQueryPattern, update.Slug).First(&existing)
		if result.Error == nil {
			return nil, ErrSlugAlreadyExists
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}

		t.Slug = update.Slug
	}

	t.Name = update.Name
	t.Description = update.Description
	t.ShortDescription = update.ShortDescription
	t.Category = update.Category
	t.Icon = update.Icon
	t.ToolURL = update.ToolURL
	t.PriceMonthly = update.PriceMonthly
	t.IsActive = update.IsActive
	t.SortOrder = update.SortOrder

	result = db.Save(&t)
	if result.Error != nil {
		return nil, result.Error
	}

	return &t, nil
}

// Delete deletes a tool by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Tool{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrToolNotFound
	}

	return nil
}
