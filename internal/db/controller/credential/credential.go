// Package credential stores the encrypted session cookie blob per tool.
package credential

import (
	"errors"

	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
)

const (
	toolQueryPattern = "tool_id = ?"
)

var (
	// ErrCredentialNotFound is returned when no blob is stored for a tool.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrBlobEmpty is returned when attempting to store an empty blob.
	ErrBlobEmpty = errors.New("credential blob cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves the stored blob for a tool.
func Get(db *gorm.DB, toolID uint64) (*models.ToolCredential, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.ToolCredential
	result := db.Where(toolQueryPattern, toolID).First(&c)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// Set stores or replaces the blob for a tool (upsert operation).
func Set(db *gorm.DB, toolID uint64, blob string) (*models.ToolCredential, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if blob == "" {
		return nil, ErrBlobEmpty
	}

	var c models.ToolCredential
	result := db.Where(toolQueryPattern, toolID).First(&c)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		c = models.ToolCredential{
			ToolID: toolID,
			Blob:   blob,
		}

		result = db.Create(&c)
		if result.Error != nil {
			return nil, result.Error
		}

		return &c, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	c.Blob = blob
	result = db.Save(&c)
	if result.Error != nil {
		return nil, result.Error
	}

	return &c, nil
}

// Delete removes the stored blob for a tool.
func Delete(db *gorm.DB, toolID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(toolQueryPattern, toolID).Delete(&models.ToolCredential{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}

	return nil
}
