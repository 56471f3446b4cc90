// Package bundle provides CRUD operations for tool bundles.
package bundle

import (
	"errors"

	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
)

var (
	// ErrBundleNotFound is returned when a bundle is not found.
	ErrBundleNotFound = errors.New("bundle not found")
	// ErrNameEmpty is returned when attempting to create a bundle without a name.
	ErrNameEmpty = errors.New("bundle name cannot be empty")
	// ErrNoTools is returned when attempting to create a bundle without any tools.
	ErrNoTools = errors.New("bundle must reference at least one tool")
	// ErrToolMissing is returned when a referenced tool does not exist.
	ErrToolMissing = errors.New("bundle references a tool that does not exist")
	// ErrToolInactive is returned at checkout time when a bundled tool is no longer active.
	ErrToolInactive = errors.New("bundle references an inactive tool")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a bundle with its ordered tools preloaded.
func Get(db *gorm.DB, id uint64) (*models.Bundle, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var b models.Bundle
	result := db.Preload("Tools", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC, id ASC")
	}).Preload("Tools.Tool").First(&b, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, result.Error
	}

	return &b, nil
}

// ListActive retrieves the active bundles with tools preloaded, ordered for
// the public catalog.
func ListActive(db *gorm.DB) ([]models.Bundle, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var bundles []models.Bundle
	result := db.Where("is_active = ?", true).
		Preload("Tools", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("sort_order ASC, id ASC")
		}).
		Preload("Tools.Tool").
		Order("sort_order ASC, id ASC").
		Find(&bundles)
	if result.Error != nil {
		return nil, result.Error
	}

	return bundles, nil
}

// Create creates a bundle referencing the given tool IDs, preserving their
// order. All referenced tools must exist.
func Create(db *gorm.DB, b *models.Bundle, toolIDs []uint64) (*models.Bundle, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if b.Name == "" {
		return nil, ErrNameEmpty
	}
	if len(toolIDs) == 0 {
		return nil, ErrNoTools
	}

	var count int64
	if err := db.Model(&models.Tool{}).Where("id IN ?", toolIDs).Count(&count).Error; err != nil {
		return nil, err
	}

	if count != int64(len(toolIDs)) {
		return nil, ErrToolMissing
	}

	b.Tools = make([]models.BundleTool, 0, len(toolIDs))
	for i, toolID := range toolIDs {
		b.Tools = append(b.Tools, models.BundleTool{
			ToolID:    toolID,
			SortOrder: i,
		})
	}

	if err := db.Create(b).Error; err != nil {
		return nil, err
	}

	return Get(db, b.ID)
}

// CheckoutGet loads an active bundle for checkout and re-validates that every
// referenced tool still exists and is active. The re-fetch is deliberate: the
// catalog can change between browsing and checkout.
func CheckoutGet(db *gorm.DB, id uint64) (*models.Bundle, error) {
	b, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if !b.IsActive {
		return nil, ErrBundleNotFound
	}

	for i := range b.Tools {
		var t models.Tool
		result := db.First(&t, b.Tools[i].ToolID)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrToolMissing
		}
		if result.Error != nil {
			return nil, result.Error
		}
		if !t.IsActive {
			return nil, ErrToolInactive
		}
	}

	return b, nil
}

// Delete deletes a bundle and its join rows by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if err := db.Where("bundle_id = ?", id).Delete(&models.BundleTool{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.Bundle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBundleNotFound
	}

	return nil
}
