// Package configapi serves the public configuration endpoints consumed by
// the storefront pages and the browser extension. Every endpoint answers
// 200 with a usable value, falling back through environment variables to
// built-in defaults when nothing is configured.
package configapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/settings"
	"github.com/growtools/growtools/internal/web/handler"
)

const (
	// Path is the path prefix for the config endpoints.
	Path = "/api/config"
)

// Service is the config API handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the config API handler.
var Handler = Service{}

// Init initializes the config API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path+"/telegram", s.Telegram)
	app.Get(Path+"/whatsapp", s.WhatsApp)
	app.Get(Path+"/pixel", s.Pixel)
}

// Telegram returns the configured Telegram contact link, or null when none
// is set anywhere.
func (s *Service) Telegram(c *fiber.Ctx) error {
	link := settings.String(s.db, settings.KeyTelegramLink, settings.EnvTelegramLink, "")

	if link == "" {
		return c.JSON(fiber.Map{"link": nil})
	}

	return c.JSON(fiber.Map{"link": link})
}

// WhatsApp returns the WhatsApp contact number and the default message.
func (s *Service) WhatsApp(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"number": settings.String(
			s.db, settings.KeyWhatsAppNumber, settings.EnvWhatsAppNumber, settings.DefaultWhatsAppNumber,
		),
		"defaultMessage": settings.DefaultWhatsAppMessage,
	})
}

// Pixel returns the Meta pixel toggle and ID.
func (s *Service) Pixel(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"enabled": settings.Bool(s.db, settings.KeyMetaPixelEnabled),
		"id":      settings.String(s.db, settings.KeyMetaPixelID, "", ""),
	})
}
