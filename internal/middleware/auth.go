package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/washop/internal/session"
)

const userContextKey = "currentUserID"

// SessionCookie is the name of the session cookie.
const SessionCookie = "washop_session"

// RequireSession validates the session cookie and binds it to the resolved
// tenant: a well-formed token whose embedded shop id differs from the
// current tenant is rejected, which blocks cross-tenant session replay.
func RequireSession(codec session.Codec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		claims, err := codec.Verify(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		shop, ok := CurrentShop(c)
		if !ok || claims.ShopID != shop.ID {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		c.Locals(userContextKey, claims.UserID)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
