package middleware

import (
	"log"
	"strings"

	"game-tournament-api/models"
	"game-tournament-api/services"

	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "current_user"

// UserContext resolves the bearer token into a full user record and
// attaches it to the request context. It is mounted globally and never
// rejects on its own: requests without a valid token simply continue
// unauthenticated, and RequireUser / RequireAdmin gate the routes that
// need identity.
func UserContext(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}

		user, err := auth.Resolve(c.UserContext(), token)
		if err != nil {
			log.Printf("🚫 [AUTH] token rejected for %s: %v", c.Path(), err)
			return c.Next()
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// RequireUser rejects requests that did not present a valid token.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "could not validate credentials",
			})
		}
		return c.Next()
	}
}

// RequireAdmin gates a route on the administrator flag. Implies RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "could not validate credentials",
			})
		}
		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by UserContext, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		// no "Bearer " prefix — accept the raw value
		token = header
	}
	return strings.TrimSpace(token)
}
