// Package screenshotapi serves the admin JSON endpoints for managing
// review screenshots.
package screenshotapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/screenshot"
	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/web/handler"
)

const (
	// Path is the path prefix for the admin screenshot endpoints.
	Path = "/api/admin/screenshots"
)

// Service is the admin screenshot API handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the admin screenshot API handler.
var Handler = Service{}

// Init initializes the admin screenshot API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := auth.RequireAdmin(authService)

	app.Get(Path, gate, s.List)
	app.Post(Path, gate, s.Create)
	app.Get(Path+"/:id", gate, s.Get)
	app.Put(Path+"/:id", gate, s.Update)
	app.Delete(Path+"/:id", gate, s.Delete)
}

// List returns all review screenshots, including inactive ones.
func (s *Service) List(c *fiber.Ctx) error {
	screenshots, err := screenshot.List(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list review screenshots")

		return internalError(c)
	}

	return c.JSON(screenshots)
}

// Create creates a review screenshot.
func (s *Service) Create(c *fiber.Ctx) error {
	sc := new(models.ReviewScreenshot)
	if err := c.BodyParser(sc); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	created, err := screenshot.Create(s.db, sc)

	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(created)
	case errors.Is(err, screenshot.ErrImageURLEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Msg("failed to create review screenshot")

		return internalError(c)
	}
}

// Get returns one review screenshot.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	sc, err := screenshot.Get(s.db, id)
	if err != nil {
		if errors.Is(err, screenshot.ErrScreenshotNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load review screenshot")

		return internalError(c)
	}

	return c.JSON(sc)
}

// Update updates a review screenshot.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	update := new(models.ReviewScreenshot)
	if err := c.BodyParser(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	updated, err := screenshot.Update(s.db, id, update)

	switch {
	case err == nil:
		return c.JSON(updated)
	case errors.Is(err, screenshot.ErrScreenshotNotFound):
		return notFound(c)
	case errors.Is(err, screenshot.ErrImageURLEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Uint64("id", id).Msg("failed to update review screenshot")

		return internalError(c)
	}
}

// Delete removes a review screenshot.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	if err := screenshot.Delete(s.db, id); err != nil {
		if errors.Is(err, screenshot.ErrScreenshotNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to delete review screenshot")

		return internalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return id, err == nil
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Screenshot not found",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal Server Error",
	})
}
