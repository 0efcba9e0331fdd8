package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/utils"
)

const shopContextKey = "currentShop"

// BootstrapPath is the only route allowed to proceed without a resolved
// tenant: it creates the very first shop.
const BootstrapPath = "/api/admin/bootstrap"

// ResolveTenant maps the request's Host header to a shop and stashes it in
// request locals. Every tenant-owned query downstream must filter by the
// resolved shop id.
func ResolveTenant(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		host := utils.NormalizeHost(c.Hostname())

		var shop models.Shop
		err := db.First(&shop, "domain = ?", host).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if isBootstrapPath(c.Path()) {
				return c.Next()
			}
			return fiber.NewError(fiber.StatusNotFound, "Shop not found")
		}

		c.Locals(shopContextKey, &shop)
		return c.Next()
	}
}

// CurrentShop extracts the resolved tenant from context.
func CurrentShop(c *fiber.Ctx) (*models.Shop, bool) {
	shop, ok := c.Locals(shopContextKey).(*models.Shop)
	return shop, ok
}

func isBootstrapPath(path string) bool {
	return strings.TrimSuffix(path, "/") == BootstrapPath
}
