package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/growtools/growtools/internal/auth"
	"github.com/growtools/growtools/internal/web/handler/login"
	"github.com/growtools/growtools/internal/web/session"
)

// protectedPrefixes are the page subtrees that require a session.
var protectedPrefixes = []string{"/dashboard", "/admin", "/checkout", "/payment"}

// PageAuth returns the page access control middleware.
//
// Unauthenticated requests to the protected subtrees redirect to the login
// page. Authenticated non-admins asking for /admin land on /dashboard, and
// admins asking for /dashboard land on /admin. An authenticated user on the
// login page is sent to their home page. API routes carry their own guards
// and are left alone here, as are the static files.
func PageAuth(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		originalURL := strings.ToLower(c.OriginalURL())
		if strings.HasPrefix(originalURL, "/static") || strings.HasPrefix(originalURL, "/api") {
			return c.Next()
		}

		var (
			isLoginPage = strings.HasPrefix(originalURL, login.Path)
			isProtected = isProtectedPage(originalURL)
		)

		loginCookie := c.Cookies("session")

		if loginCookie == "" {
			if isProtected {
				return c.Redirect(login.Path)
			}

			return c.Next()
		}

		sessData := new(session.Data)
		_ = sessData.Read(loginCookie)

		if sessData.User.ID == 0 {
			if isProtected {
				return c.Redirect(login.Path)
			}

			return c.Next()
		}

		c.Locals("CurrentUser", sessData.User)

		isAdmin, err := authService.IsAdmin(sessData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessData.User.ID).
				Msg("failed to resolve role for page access")
		}

		switch {
		case isLoginPage && isAdmin:
			return c.Redirect("/admin")
		case isLoginPage:
			return c.Redirect("/dashboard")
		case strings.HasPrefix(originalURL, "/admin") && !isAdmin:
			return c.Redirect("/dashboard")
		case strings.HasPrefix(originalURL, "/dashboard") && isAdmin:
			return c.Redirect("/admin")
		}

		return c.Next()
	}
}

func isProtectedPage(originalURL string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(originalURL, prefix) {
			return true
		}
	}

	return false
}
