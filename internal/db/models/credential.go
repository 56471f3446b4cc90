package models

import "time"

// ToolCredential stores the encrypted session cookie blob for a tool.
// The blob is an opaque string produced by the cookievault package; one row
// per tool, replaced whenever an admin refreshes the shared session.
type ToolCredential struct {
	// ID is the unique identifier for the credential row.
	ID uint64 `gorm:"primaryKey"`
	// ToolID references the tool this credential belongs to.
	ToolID uint64 `gorm:"not null;unique"`
	// Blob is the encrypted, base64 encoded cookie list.
	Blob string `gorm:"type:text;not null"`
	// UpdatedAt is the timestamp of the last refresh (managed by GORM).
	UpdatedAt time.Time
}
