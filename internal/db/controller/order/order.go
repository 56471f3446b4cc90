// Package order provides database operations for subscriber orders.
package order

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/uniuri"
)

var (
	// ErrOrderNotFound is returned when the requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNoSubject is returned when neither a tool nor a bundle is referenced.
	ErrNoSubject = errors.New("order must reference a tool or a bundle")
	// ErrAmbiguousSubject is returned when both a tool and a bundle are referenced.
	ErrAmbiguousSubject = errors.New("order cannot reference both a tool and a bundle")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// referenceLen is the length of the generated order reference.
const referenceLen = 10

// Create persists a new pending order with a fresh random reference.
func Create(db *gorm.DB, o *models.Order) (*models.Order, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if o.ToolID == nil && o.BundleID == nil {
		return nil, ErrNoSubject
	}

	if o.ToolID != nil && o.BundleID != nil {
		return nil, ErrAmbiguousSubject
	}

	o.Reference = uniuri.NewLen(referenceLen)
	o.Status = models.OrderStatusPending

	if err := db.Create(o).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return o, nil
}

// GetByReference returns the order with the given reference.
func GetByReference(db *gorm.DB, reference string) (*models.Order, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var o models.Order

	err := db.Where("reference = ?", reference).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &o, nil
}

// ListByUser returns all orders of a user, newest first.
func ListByUser(db *gorm.DB, userID uint64) ([]models.Order, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var orders []models.Order

	err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// SetStatus updates an order's status.
func SetStatus(db *gorm.DB, id uint64, status models.OrderStatus) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update order status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
