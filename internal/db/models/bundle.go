package models

import "time"

// Bundle represents a named, orderable collection of tools sold together at a
// combined price.
type Bundle struct {
	// ID is the unique identifier for the bundle.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name of the bundle.
	Name string `gorm:"size:255;not null" json:"name"`
	// PriceMonthly is the combined monthly price of the bundle.
	PriceMonthly float64 `gorm:"not null" json:"priceMonthly"`
	// IsActive controls whether the bundle is visible and purchasable.
	IsActive bool `gorm:"default:true" json:"isActive"`
	// SortOrder orders bundles in the catalog, ascending.
	SortOrder int `gorm:"default:0" json:"sortOrder"`
	// Tools are the ordered join rows referencing the bundled tools.
	Tools []BundleTool `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE" json:"tools"`
	// CreatedAt is the timestamp when the bundle was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the bundle was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// BundleTool is the ordered join row between a bundle and a tool.
type BundleTool struct {
	// ID is the unique identifier for the join row.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// BundleID references the owning bundle.
	BundleID uint64 `gorm:"not null;uniqueIndex:idx_bundle_tool" json:"bundleId"`
	// ToolID references the bundled tool.
	ToolID uint64 `gorm:"not null;uniqueIndex:idx_bundle_tool" json:"toolId"`
	// Tool is the referenced tool record.
	Tool Tool `gorm:"foreignKey:ToolID;references:ID" json:"tool"`
	// SortOrder orders the tools within the bundle, ascending.
	SortOrder int `gorm:"default:0" json:"sortOrder"`
}
