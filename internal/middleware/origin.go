package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/example/washop/internal/utils"
)

// CheckOrigin rejects mutating cross-origin requests. An absent Origin
// header is treated as same-origin since browsers omit it on same-origin
// navigation. The bootstrap path is exempt: at that point the admin UI may
// live on a different domain than the worker.
func CheckOrigin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete:
		default:
			return c.Next()
		}

		if isBootstrapPath(c.Path()) {
			return c.Next()
		}

		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next()
		}

		parsed, err := url.Parse(origin)
		if err != nil || utils.NormalizeHost(parsed.Host) != utils.NormalizeHost(c.Hostname()) {
			return fiber.NewError(fiber.StatusForbidden, "Invalid origin")
		}

		return c.Next()
	}
}
