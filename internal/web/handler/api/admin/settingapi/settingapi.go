// Package settingapi serves the admin JSON endpoints for the key/value
// application settings.
package settingapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/appsetting"
	"github.com/growtools/growtools/internal/web/handler"
)

const (
	// Path is the path prefix for the admin setting endpoints.
	Path = "/api/admin/settings"
)

// setRequest is the request body for storing a setting value.
type setRequest struct {
	Value *string `json:"value"`
}

// Service is the admin setting API handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the admin setting API handler.
var Handler = Service{}

// Init initializes the admin setting API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := auth.RequireAdmin(authService)

	app.Get(Path, gate, s.List)
	app.Get(Path+"/:key", gate, s.Get)
	app.Put(Path+"/:key", gate, s.Set)
	app.Delete(Path+"/:key", gate, s.Delete)
}

// List returns all settings ordered by key.
func (s *Service) List(c *fiber.Ctx) error {
	all, err := appsetting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list settings")

		return internalError(c)
	}

	return c.JSON(all)
}

// Get returns one setting by key.
func (s *Service) Get(c *fiber.Ctx) error {
	setting, err := appsetting.Get(s.db, c.Params("key"))
	if err != nil {
		if errors.Is(err, appsetting.ErrSettingNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Str("key", c.Params("key")).Msg("failed to load setting")

		return internalError(c)
	}

	return c.JSON(setting)
}

// Set creates or updates a setting.
func (s *Service) Set(c *fiber.Ctx) error {
	req := new(setRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	setting, err := appsetting.Set(s.db, c.Params("key"), req.Value)

	switch {
	case err == nil:
		return c.JSON(setting)
	case errors.Is(err, appsetting.ErrSettingKeyEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Str("key", c.Params("key")).Msg("failed to store setting")

		return internalError(c)
	}
}

// Delete removes a setting.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := appsetting.Delete(s.db, c.Params("key")); err != nil {
		if errors.Is(err, appsetting.ErrSettingNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Str("key", c.Params("key")).Msg("failed to delete setting")

		return internalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Setting not found",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal Server Error",
	})
}
