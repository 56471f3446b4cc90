// Package storefront renders the public catalog and tool detail pages.
package storefront

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/bundle"
	"github.com/growtools/growtools/internal/db/controller/screenshot"
	"github.com/growtools/growtools/internal/db/controller/tool"
	"github.com/growtools/growtools/internal/settings"
	"github.com/growtools/growtools/internal/web/handler"
	"github.com/growtools/growtools/internal/web/navigation"
)

const (
	// ToolPath is the path prefix for tool detail pages.
	ToolPath = handler.RootPath + "tool"

	// CatalogTemplateName is the name of the catalog template.
	CatalogTemplateName = "storefront/catalog"

	// ToolTemplateName is the name of the tool detail template.
	ToolTemplateName = "storefront/tool"
)

// Service is the storefront handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the storefront handler.
var Handler = Service{}

// Init initializes the storefront handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(handler.RootPath, s.Catalog)
	app.Get(ToolPath+"/:slug", s.Tool)
}

// contactLinks resolves the storefront contact channels. Missing settings
// degrade to env values or the built-in fallbacks, never to an error.
func (s *Service) contactLinks() fiber.Map {
	return fiber.Map{
		"TelegramLink": settings.String(
			s.db, settings.KeyTelegramLink, settings.EnvTelegramLink, "",
		),
		"WhatsAppNumber": settings.String(
			s.db, settings.KeyWhatsAppNumber, settings.EnvWhatsAppNumber, settings.DefaultWhatsAppNumber,
		),
		"WhatsAppMessage": settings.DefaultWhatsAppMessage,
	}
}

// Catalog renders the public catalog: active tools, active bundles and
// public review screenshots. Every data source degrades to an empty list
// so the page always renders.
func (s *Service) Catalog(c *fiber.Ctx) error {
	nav := navigation.NewContext(s.cfg.Title, navigation.SectionStorefront, "catalog").
		AddBreadcrumb("Home", handler.RootPath, true)

	tools, err := tool.ListActive(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active tools")

		tools = nil
	}

	bundles, err := bundle.ListActive(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list active bundles")

		bundles = nil
	}

	screenshots, err := screenshot.ListPublic(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list public review screenshots")

		screenshots = nil
	}

	return c.Render(CatalogTemplateName, fiber.Map{
		"Navigation":  nav,
		"Tools":       tools,
		"Bundles":     bundles,
		"Screenshots": screenshots,
		"Contact":     s.contactLinks(),
		"PixelEnabled": settings.Bool(
			s.db, settings.KeyMetaPixelEnabled,
		),
		"PixelID": settings.String(
			s.db, settings.KeyMetaPixelID, "", "",
		),
	}, handler.BaseLayout)
}

// Tool renders the detail page for a single active tool.
func (s *Service) Tool(c *fiber.Ctx) error {
	slug := c.Params("slug")

	t, err := tool.GetBySlug(s.db, slug)
	if err != nil {
		if !errors.Is(err, tool.ErrToolNotFound) {
			log.Error().Err(err).Str("slug", slug).Msg("failed to load tool")
		}

		return s.notFound(c)
	}

	if !t.IsActive {
		return s.notFound(c)
	}

	nav := navigation.NewContext(t.Name, navigation.SectionStorefront, "tool").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb(t.Name, ToolPath+"/"+t.Slug, true)

	return c.Render(ToolTemplateName, fiber.Map{
		"Navigation": nav,
		"Tool":       t,
		"Contact":    s.contactLinks(),
	}, handler.BaseLayout)
}

func (s *Service) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{
		"Contact": s.contactLinks(),
	}, handler.BaseLayout)
}
