package models

import "time"

// ReviewScreenshot represents a customer review screenshot shown on the
// storefront. Only active rows are rendered publicly, ordered by SortOrder
// ascending.
type ReviewScreenshot struct {
	// ID is the unique identifier for the screenshot.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// ImageURL is the URL of the screenshot image.
	ImageURL string `gorm:"size:500;not null" json:"imageUrl"`
	// Caption is the optional caption shown under the image.
	Caption string `gorm:"size:500" json:"caption"`
	// SortOrder orders screenshots for public display, ascending.
	SortOrder int `gorm:"default:0" json:"sortOrder"`
	// IsActive controls whether the screenshot is rendered publicly.
	IsActive bool `gorm:"default:true" json:"isActive"`
	// CreatedAt is the timestamp when the screenshot was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the screenshot was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}
