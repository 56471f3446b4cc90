// Package login provides the login page and form handlers.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/config"
	"github.com/growtools/growtools/internal/web/handler"
	"github.com/growtools/growtools/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// form holds the parsed login form fields.
type form struct {
	Username string `form:"username"`
	Password string `form:"password"`
	TOTPCode string `form:"totp_code"`
}

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	local       *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.local = auth.NewLocalProvider(db)

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title":        s.cfg.Title,
		"oidc_enabled": s.cfg.OIDC.Enabled,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return s.renderError(c, "Invalid form data", false)
	}

	user, err := s.local.Authenticate(f.Username, f.Password, f.TOTPCode)

	switch {
	case err == nil:
		// fall through to session creation
	case errors.Is(err, auth.ErrTOTPRequired):
		// password was correct, ask for the second factor
		return c.Render(TemplateName, fiber.Map{
			"Title":        s.cfg.Title,
			"oidc_enabled": s.cfg.OIDC.Enabled,
			"totp_step":    true,
			"username":     f.Username,
		})
	case errors.Is(err, auth.ErrInvalidTOTPCode):
		return s.renderError(c, "Invalid one-time code", true)
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return s.renderError(c, "Account is disabled", false)
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		return s.renderError(c, "Invalid username or password", false)
	default:
		log.Error().Err(err).Msg("login failed")
		return s.renderError(c, "Internal server error", false)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, "Internal server error", false)
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, "Internal server error", false)
	}

	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	isAdmin, err := s.authService.IsAdmin(user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to resolve role after login")
	}

	if isAdmin {
		return c.Redirect("/admin")
	}

	return c.Redirect("/dashboard")
}

func (s *Service) renderError(c *fiber.Ctx, msg string, totpStep bool) error {
	return c.Render(TemplateName, fiber.Map{
		"Title":        s.cfg.Title,
		"oidc_enabled": s.cfg.OIDC.Enabled,
		"totp_step":    totpStep,
		"error":        msg,
	})
}
