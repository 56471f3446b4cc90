// Package settings resolves runtime configuration values with a fixed
// precedence: the durable key/value settings table first, then an
// environment variable, then a built-in fallback.
//
// Resolution never fails: any database error (including a missing table
// before the schema is migrated) degrades to the next source so calling
// pages always render.
package settings

import (
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/db/controller/appsetting"
)

// Well-known settings keys.
const (
	KeyTelegramLink     = "telegram_link"
	KeyWhatsAppNumber   = "whatsapp_number"
	KeyMetaPixelEnabled = "meta_pixel_enabled"
	KeyMetaPixelID      = "meta_pixel_id"
)

// Environment variable fallbacks for the contact settings.
const (
	EnvTelegramLink   = "TELEGRAM_LINK"
	EnvWhatsAppNumber = "WHATSAPP_NUMBER"
)

// Built-in contact fallbacks used when neither the settings table nor the
// environment provides a value.
const (
	DefaultWhatsAppNumber  = "919155313223"
	DefaultWhatsAppMessage = "Hello! I need help."
)

// String resolves a string setting. The stored value wins when it is
// non-empty after trimming; otherwise the environment variable, then the
// fallback (which may be empty).
func String(db *gorm.DB, key, envVar, fallback string) string {
	if raw, ok := fromDB(db, key); ok {
		if value := strings.TrimSpace(raw); value != "" {
			return value
		}
	}

	if envVar != "" {
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			return value
		}
	}

	return fallback
}

// Bool resolves a boolean setting from the settings table. Only the stored
// literals "true", "1" and "yes" count as true; any other value (including
// "TRUE" or "on"), a missing row, or a database error yields false. The
// match is exact and case-sensitive.
func Bool(db *gorm.DB, key string) bool {
	value, ok := fromDB(db, key)
	if !ok {
		return false
	}

	switch value {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// fromDB reads a setting row and reports whether it holds a value.
func fromDB(db *gorm.DB, key string) (string, bool) {
	setting, err := appsetting.Get(db, key)
	if err != nil {
		// Missing rows are normal; anything else (missing table, broken
		// connection) degrades silently so pages keep rendering.
		if !errors.Is(err, appsetting.ErrSettingNotFound) && !errors.Is(err, appsetting.ErrDBNil) {
			log.Debug().Err(err).Str("key", key).Msg("settings lookup failed, falling back")
		}

		return "", false
	}

	if setting.Value == nil {
		return "", false
	}

	return *setting.Value, true
}
