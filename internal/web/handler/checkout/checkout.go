// Package checkout renders the checkout pages and creates pending orders.
//
// Payment capture happens off-platform: the payment page hands the
// subscriber over to the configured contact channels with their order
// reference.
package checkout

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/db/controller/bundle"
	"github.com/growtools/growtools/internal/db/controller/order"
	"github.com/growtools/growtools/internal/db/controller/tool"
	"github.com/growtools/growtools/internal/db/models"
	"github.com/growtools/growtools/internal/settings"
	"github.com/growtools/growtools/internal/web/handler"
	"github.com/growtools/growtools/internal/web/navigation"
)

const (
	// Path is the path prefix for checkout pages.
	Path = handler.RootPath + "checkout"

	// PaymentPath is the path prefix for the payment hand-off page.
	PaymentPath = handler.RootPath + "payment"

	// TemplateName is the name of the checkout template.
	TemplateName = "checkout/checkout"

	// PaymentTemplateName is the name of the payment hand-off template.
	PaymentTemplateName = "checkout/payment"
)

// Service is the checkout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the checkout handler.
var Handler = Service{}

// Init initializes the checkout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path+"/bundle/:id", s.GetBundle)
	app.Post(Path+"/bundle/:id", s.PostBundle)
	app.Get(Path+"/:slug", s.GetTool)
	app.Post(Path+"/:slug", s.PostTool)
	app.Get(PaymentPath+"/:reference", s.Payment)
}

// currentUser returns the session user placed in locals by the page auth
// middleware.
func currentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("CurrentUser").(models.User)
	return user, ok && user.ID > 0
}

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

// GetTool renders the checkout page for a single active tool.
func (s *Service) GetTool(c *fiber.Ctx) error {
	t, err := s.checkoutTool(c)
	if err != nil {
		return s.notFound(c)
	}

	nav := navigation.NewContext("Checkout", navigation.SectionStorefront, "checkout").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb(t.Name, "/tool/"+t.Slug, false).
		AddBreadcrumb("Checkout", Path+"/"+t.Slug, true)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Tool":       t,
		"Amount":     t.PriceMonthly,
		"ActionURL":  Path + "/" + t.Slug,
	}, handler.BaseLayout)
}

// PostTool creates a pending order for a tool and redirects to the payment
// hand-off page.
func (s *Service) PostTool(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	t, err := s.checkoutTool(c)
	if err != nil {
		return s.notFound(c)
	}

	o, err := order.Create(s.db, &models.Order{
		UserID: user.ID,
		ToolID: &t.ID,
		Amount: t.PriceMonthly,
	})
	if err != nil {
		log.Error().Err(err).Str("slug", t.Slug).Uint64("user_id", user.ID).
			Msg("failed to create tool order")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create order")
	}

	return c.Redirect(PaymentPath + "/" + o.Reference)
}

// checkoutTool loads the tool for the :slug param and validates it is
// active.
func (s *Service) checkoutTool(c *fiber.Ctx) (*models.Tool, error) {
	slug := c.Params("slug")

	t, err := tool.GetBySlug(s.db, slug)
	if err != nil {
		if !errors.Is(err, tool.ErrToolNotFound) {
			log.Error().Err(err).Str("slug", slug).Msg("failed to load checkout tool")
		}

		return nil, err
	}

	if !t.IsActive {
		return nil, tool.ErrToolNotFound
	}

	return t, nil
}

// GetBundle renders the checkout page for a bundle. The bundle's tools are
// re-fetched and must all exist and be active.
func (s *Service) GetBundle(c *fiber.Ctx) error {
	b, err := s.checkoutBundle(c)
	if err != nil {
		return s.notFound(c)
	}

	nav := navigation.NewContext("Checkout", navigation.SectionStorefront, "checkout").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb(b.Name, "#", false).
		AddBreadcrumb("Checkout", c.Path(), true)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Bundle":     b,
		"Amount":     b.PriceMonthly,
		"ActionURL":  c.Path(),
	}, handler.BaseLayout)
}

// PostBundle creates a pending order for a bundle and redirects to the
// payment hand-off page.
func (s *Service) PostBundle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	b, err := s.checkoutBundle(c)
	if err != nil {
		return s.notFound(c)
	}

	o, err := order.Create(s.db, &models.Order{
		UserID:   user.ID,
		BundleID: &b.ID,
		Amount:   b.PriceMonthly,
	})
	if err != nil {
		log.Error().Err(err).Uint64("bundle_id", b.ID).Uint64("user_id", user.ID).
			Msg("failed to create bundle order")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create order")
	}

	return c.Redirect(PaymentPath + "/" + o.Reference)
}

// checkoutBundle loads and validates the bundle for the :id param.
func (s *Service) checkoutBundle(c *fiber.Ctx) (*models.Bundle, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, bundle.ErrBundleNotFound
	}

	b, err := bundle.CheckoutGet(s.db, id)
	if err != nil {
		switch {
		case errors.Is(err, bundle.ErrBundleNotFound),
			errors.Is(err, bundle.ErrToolMissing),
			errors.Is(err, bundle.ErrToolInactive):
			// all render as not found
		default:
			log.Error().Err(err).Uint64("bundle_id", id).Msg("failed to load checkout bundle")
		}

		return nil, err
	}

	return b, nil
}

// Payment renders the payment hand-off page for an order. Subscribers may
// only see their own orders.
func (s *Service) Payment(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	reference := c.Params("reference")

	o, err := order.GetByReference(s.db, reference)
	if err != nil {
		if !errors.Is(err, order.ErrOrderNotFound) {
			log.Error().Err(err).Str("reference", reference).Msg("failed to load order")
		}

		return s.notFound(c)
	}

	if o.UserID != user.ID {
		return s.notFound(c)
	}

	nav := navigation.NewContext("Payment", navigation.SectionStorefront, "payment").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Payment", PaymentPath+"/"+o.Reference, true)

	return c.Render(PaymentTemplateName, fiber.Map{
		"Navigation": nav,
		"Order":      o,
		"Contact":    s.contactLinks(),
	}, handler.BaseLayout)
}

func (s *Service) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{
		"Contact": s.contactLinks(),
	}, handler.BaseLayout)
}
