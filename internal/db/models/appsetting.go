package models

// AppSetting represents a configuration setting stored in the database.
// Values can be overridden at resolution time by environment variables,
// see the settings package.
type AppSetting struct {
	ID uint64 `gorm:"primaryKey"`
	// Key is the unique settings key (e.g., "telegram_link", "meta_pixel_enabled").
	Key string `gorm:"unique;size:255;not null"`
	// Value is the stored value; nil means the key is present but unset.
	Value *string `gorm:"type:text"`
}

// TableName specifies the database table name for the AppSetting model.
func (AppSetting) TableName() string {
	return "app_settings"
}
