// Package toolapi serves the admin JSON endpoints for managing tools and
// their stored session cookies.
package toolapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/cookievault"
	"github.com/growtools/growtools/internal/db/controller/credential"
	"github.com/growtools/growtools/internal/db/controller/tool"
	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/web/handler"
)

const (
	// Path is the path prefix for the admin tool endpoints.
	Path = "/api/admin/tools"

	// ErrMsgDuplicateSlug is the user-facing message for a slug conflict.
	ErrMsgDuplicateSlug = "A tool with this slug already exists"
)

// Service is the admin tool API handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	vault     *cookievault.Vault
	validator *validator.Validate
}

// Handler is the admin tool API handler.
var Handler = Service{}

// Init initializes the admin tool API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.vault = cookievault.New(cfg.Webserver.CookiePassphrase)
	s.validator = validator.New()

	gate := auth.RequireAdmin(authService)

	app.Get(Path, gate, s.List)
	app.Post(Path, gate, s.Create)
	app.Get(Path+"/:id", gate, s.Get)
	app.Put(Path+"/:id", gate, s.Update)
	app.Delete(Path+"/:id", gate, s.Delete)
	app.Put(Path+"/:id/cookies", gate, s.PutCookies)
	app.Get(Path+"/:id/cookies", gate, s.GetCookies)
}

// List returns all tools, active or not.
func (s *Service) List(c *fiber.Ctx) error {
	tools, err := tool.List(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tools")

		return internalError(c)
	}

	return c.JSON(tools)
}

// Create creates a new tool. A duplicate slug maps to a 400 with a
// descriptive message; anything else unexpected maps to a 500.
func (s *Service) Create(c *fiber.Ctx) error {
	t := new(models.Tool)
	if err := c.BodyParser(t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := s.validate(t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	created, err := tool.Create(s.db, t)

	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(created)
	case errors.Is(err, tool.ErrSlugAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgDuplicateSlug,
		})
	case errors.Is(err, tool.ErrSlugEmpty), errors.Is(err, tool.ErrNameEmpty):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		log.Error().Err(err).Str("slug", t.Slug).Msg("failed to create tool")

		return internalError(c)
	}
}

// Get returns one tool by ID.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	t, err := tool.Get(s.db, id)
	if err != nil {
		if errors.Is(err, tool.ErrToolNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load tool")

		return internalError(c)
	}

	return c.JSON(t)
}

// Update updates a tool. The same slug conflict mapping as Create applies.
func (s *Service) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	update := new(models.Tool)
	if err := c.BodyParser(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := s.validate(update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updated, err := tool.Update(s.db, id, update)

	switch {
	case err == nil:
		return c.JSON(updated)
	case errors.Is(err, tool.ErrToolNotFound):
		return notFound(c)
	case errors.Is(err, tool.ErrSlugAlreadyExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgDuplicateSlug,
		})
	default:
		log.Error().Err(err).Uint64("id", id).Msg("failed to update tool")

		return internalError(c)
	}
}

// Delete removes a tool.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	if err := tool.Delete(s.db, id); err != nil {
		if errors.Is(err, tool.ErrToolNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to delete tool")

		return internalError(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PutCookies encrypts and stores the posted cookie list for a tool.
func (s *Service) PutCookies(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	if _, err := tool.Get(s.db, id); err != nil {
		if errors.Is(err, tool.ErrToolNotFound) {
			return notFound(c)
		}

		log.Error().Err(err).Uint64("id", id).Msg("failed to load tool for cookie update")

		return internalError(c)
	}

	var cookies []cookievault.Cookie
	if err := c.BodyParser(&cookies); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	blob, err := s.vault.Encrypt(cookies)
	if err != nil {
		log.Error().Err(err).Uint64("tool_id", id).Msg("failed to encrypt cookies")

		return internalError(c)
	}

	if _, err := credential.Set(s.db, id, blob); err != nil {
		log.Error().Err(err).Uint64("tool_id", id).Msg("failed to store cookie blob")

		return internalError(c)
	}

	return c.JSON(fiber.Map{"stored": len(cookies)})
}

// GetCookies returns the decrypted cookie list for a tool. A tool without
// stored cookies, and a blob that no longer decrypts, both yield an empty
// list.
func (s *Service) GetCookies(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return notFound(c)
	}

	cred, err := credential.Get(s.db, id)
	if err != nil {
		if errors.Is(err, credential.ErrCredentialNotFound) {
			return c.JSON([]cookievault.Cookie{})
		}

		log.Error().Err(err).Uint64("tool_id", id).Msg("failed to load cookie blob")

		return internalError(c)
	}

	return c.JSON(s.vault.Decrypt(cred.Blob))
}

// validate runs struct tag validation on a tool and collapses the failed
// fields into a single user-facing message.
func (s *Service) validate(t *models.Tool) error {
	err := s.validator.Struct(t)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		msgs[i] = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
	}

	return errors.New(strings.Join(msgs, "; "))
}

func parseID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return id, err == nil
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Tool not found",
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal Server Error",
	})
}
