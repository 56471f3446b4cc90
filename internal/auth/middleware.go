package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/growtools/growtools/internal/web/session"
)

// currentUserID resolves the user ID for the request's session cookie.
// It returns 0 when there is no cookie, the session is unknown, or the
// session data is invalid.
func currentUserID(c *fiber.Ctx) uint64 {
	sessionID := c.Cookies("session")
	if sessionID == "" {
		return 0
	}

	sessionData := new(session.Data)
	if err := sessionData.Read(sessionID); err != nil {
		return 0
	}

	return sessionData.User.ID
}

// RequireUser creates Fiber middleware that requires a valid session.
// Unauthenticated requests get a 401 JSON error.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := currentUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("userID", userID)

		return c.Next()
	}
}

// RequireAdmin creates Fiber middleware that requires a valid session whose
// user holds the admin role. Missing sessions and non-admin users both get a
// 401 JSON error; the response does not distinguish the two cases.
func RequireAdmin(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := currentUserID(c)
		if userID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		isAdmin, err := authService.IsAdmin(userID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", userID).Msg("failed to check admin role")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		}

		if !isAdmin {
			log.Warn().Uint64("user_id", userID).Str("path", c.Path()).
				Msg("non-admin user attempted admin route")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("userID", userID)

		return c.Next()
	}
}
