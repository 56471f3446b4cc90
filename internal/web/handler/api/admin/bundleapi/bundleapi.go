// Package bundleapi serves the admin JSON endpoints for managing bundles.
package bundleapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/bundle"
	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/web/handler"
)

const (
	// Path is the path prefix for the admin bundle endpoints.
	Path = "/api/admin/bundles"
)

// createRequest is the request body for creating a bundle.
type createRequest struct {
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"priceMonthly"`
	IsActive     *bool    `json:"isActive"`
	SortOrder    int      `json:"sortOrder"`
	ToolIDs      []uint64 `json:"toolIds"`
}

// Service is the admin bundle API handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the admin bundle API handler.
var Handler = Service{}

// Init initializes the admin bundle API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := auth.RequireAdmin(authService)

	app.Post(Path, gate, s.Create)
	app.Get(Path+"/:id", gate, s.Get)
	app.Delete(Path+"/:id", gate, s.Delete)
}

// Create creates a bundle from a name and an ordered list of tool IDs.
// The join rows preserve the posted order.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	b := &models.Bundle{
		Name:         req.Name,
		PriceMonthly: req.PriceMonthly,
		IsActive:     true,
		SortOrder:    req.SortOrder,
	}

	if req.IsActive != nil {
		b.IsActive = *req.IsActive
	}

	created, err := bundle.Create(s.db, b, req.ToolIDs)

	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(created)
	case errors.Is(err, bundle.ErrNameEmpty),
		errors.Is(err, bundle.ErrNoTools),
		errors.Is(err, bundle.ErrToolMissing):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Str("name", req.Name).Msg("failed to create bundle")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}
}

// Get returns one bundle with its ordered tools nested.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}

	b, err := bundle.Get(s.db, id)
	if err != nil {
		if errors.Is(err, bundle.ErrBundleNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load bundle")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}

	return c.JSON(b)
}

// Delete removes a bundle and its join rows.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}

	if err := bundle.Delete(s.db, id); err != nil {
		if errors.Is(err, bundle.ErrBundleNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to delete bundle")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal Server Error",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Bundle not found",
	})
}
