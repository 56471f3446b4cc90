// Package admin renders the admin shell page. The page lists the current
// catalog and settings; mutations go through the /api/admin endpoints.
package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/appsetting"
	"github.com/growtools/growtools/internal/db/controller/screenshot"
	"github.com/growtools/growtools/internal/db/controller/tool"
	"github.com/growtools/growtools/internal/web/handler"
	"github.com/growtools/growtools/internal/web/navigation"
)

const (
	// Path is the path to the admin page.
	Path = handler.RootPath + "admin"

	// TemplateName is the name of the admin template.
	TemplateName = "admin/admin"
)

// Service is the admin page handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the admin page handler.
var Handler = Service{}

// Init initializes the admin page handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, s.Get)
}

// Get handles the admin page rendering. The page auth middleware has
// already redirected everyone without the admin role.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Administration", navigation.SectionAdmin, "admin").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Admin", Path, true)

	tools, err := tool.List(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tools")

		tools = nil
	}

	screenshots, err := screenshot.List(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list review screenshots")

		screenshots = nil
	}

	appSettings, err := appsetting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list app settings")

		appSettings = nil
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation":  nav,
		"Tools":       tools,
		"Screenshots": screenshots,
		"Settings":    appSettings,
	}, handler.BaseLayout)
}
