package models

import "time"

const (
	// WhereNameIs is the shared gorm query pattern for lookups by name.
	WhereNameIs = "name = ?"

	// RoleAdmin is the name of the administrative role.
	RoleAdmin = "admin"
	// RoleSubscriber is the name of the default subscriber role.
	RoleSubscriber = "subscriber"
)

// Role represents a role in the access control system.
// GrowTools only distinguishes administrators (catalog and credential
// management) from subscribers (storefront and dashboard).
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "admin", "subscriber").
	Name string `gorm:"unique;size:100;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
