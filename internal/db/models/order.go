package models

import "time"

// OrderStatus represents the state of an order.
type OrderStatus string

const (
	// OrderStatusPending indicates the order was created and is awaiting
	// payment, which is handled off-platform via the contact channels.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPaid indicates an admin marked the order as paid.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusCancelled indicates the order was cancelled.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order represents a subscriber's purchase of a tool or a bundle.
// Exactly one of ToolID and BundleID is set.
type Order struct {
	// ID is the unique identifier for the order.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Reference is the short human-readable order reference.
	Reference string `gorm:"unique;size:32;not null" json:"reference"`
	// UserID references the subscriber who placed the order.
	UserID uint64 `gorm:"not null;index" json:"userId"`
	// ToolID references the ordered tool, if a single tool was ordered.
	ToolID *uint64 `gorm:"index" json:"toolId,omitempty"`
	// BundleID references the ordered bundle, if a bundle was ordered.
	BundleID *uint64 `gorm:"index" json:"bundleId,omitempty"`
	// Amount is the monthly price at the time of ordering.
	Amount float64 `gorm:"not null" json:"amount"`
	// Status is the current order state.
	Status OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// CreatedAt is the timestamp when the order was placed (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the order was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}
