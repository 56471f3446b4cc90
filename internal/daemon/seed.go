package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/appsetting"
	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/settings"
	"github.com/growtools/growtools/internal/uniuri"
)

// seed creates the system roles, a first admin account and the default
// application settings on an empty database.
func seed(_ *config.Config, db *gorm.DB) {
	seedRoles(db)
	seedAdmin(db)
	seedSettings(db)
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Catalog, settings and credential management", IsSystem: true},
		{Name: models.RoleSubscriber, Description: "Storefront and dashboard access", IsSystem: true},
	}

	for _, role := range roles {
		var existing models.Role

		err := db.Where(models.WhereNameIs, role.Name).First(&existing).Error
		if err == nil {
			continue
		}

		if err := db.Create(&role).Error; err != nil {
			log.Error().Err(err).Str("role", role.Name).Msg("failed to seed role")
		}
	}
}

// seedAdmin creates the first admin account with a random password. The
// password is logged exactly once; change it after the first login.
func seedAdmin(db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	var adminRole models.Role
	if err := db.Where(models.WhereNameIs, models.RoleAdmin).First(&adminRole).Error; err != nil {
		log.Error().Err(err).Msg("failed to load admin role for seeding")
		return
	}

	password := uniuri.New()

	user := models.User{
		Active:     true,
		Username:   "admin",
		Email:      "admin@localhost",
		Password:   models.HashPassword(password),
		RoleID:     adminRole.ID,
		AuthSource: models.AuthSourceLocal,
	}

	if err := db.Create(&user).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed admin user")
		return
	}

	log.Warn().
		Str("username", user.Username).
		Str("password", password).
		Msg("created initial admin user, change the password after first login")
}

// seedSettings inserts the default contact settings when absent, so the
// admin page shows the keys that matter.
func seedSettings(db *gorm.DB) {
	defaults := map[string]string{
		settings.KeyWhatsAppNumber:   settings.DefaultWhatsAppNumber,
		settings.KeyMetaPixelEnabled: "false",
	}

	for key, value := range defaults {
		if _, err := appsetting.Get(db, key); err == nil {
			continue
		}

		v := value
		if _, err := appsetting.Set(db, key, &v); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to seed setting")
		}
	}
}
