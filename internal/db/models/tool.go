package models

import "time"

// Tool represents a third-party subscription service the platform resells
// pooled access to.
type Tool struct {
	// ID is the unique identifier for the tool.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the tool.
	Name string `gorm:"size:255;not null" json:"name"`
	// Slug is the unique URL identifier for the tool.
	Slug string `gorm:"unique;size:255;not null" json:"slug"`
	// Description is the long-form description shown on the tool page.
	Description string `gorm:"type:text" json:"description"`
	// ShortDescription is the one-liner shown in the catalog.
	ShortDescription string `gorm:"size:500" json:"shortDescription"`
	// Category groups tools in the catalog (e.g., "writing", "design").
	Category string `gorm:"size:100" json:"category"`
	// Icon is the URL of the tool's icon.
	Icon string `gorm:"size:500" json:"icon"`
	// ToolURL is the upstream URL the shared session logs into.
	ToolURL string `gorm:"size:500" json:"toolUrl" validate:"omitempty,url"`
	// PriceMonthly is the monthly subscription price.
	PriceMonthly float64 `gorm:"not null" json:"priceMonthly" validate:"gte=0"`
	// IsActive controls whether the tool is visible and purchasable.
	IsActive bool `gorm:"default:true" json:"isActive"`
	// SortOrder orders tools in the catalog, ascending.
	SortOrder int `gorm:"default:0" json:"sortOrder" validate:"gte=0"`
	// CreatedAt is the timestamp when the tool was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the tool was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}
