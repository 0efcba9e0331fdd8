package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/ratelimit"
	"github.com/example/washop/internal/session"
	"github.com/example/washop/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db      *gorm.DB
	codec   session.Codec
	limiter ratelimit.Limiter
	ttl     time.Duration
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, codec session.Codec, limiter ratelimit.Limiter, ttl time.Duration) *AuthHandler {
	return &AuthHandler{db: db, codec: codec, limiter: limiter, ttl: ttl}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user of the resolved tenant and issues a session
// cookie. Failures are reported with one generic message so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	if !h.limiter.Allow(clientAddr(c)) {
		return fiber.NewError(fiber.StatusTooManyRequests, "Too many attempts. Try again later.")
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	var user models.User
	if err := h.db.First(&user, "shop_id = ? AND email = ?", shop.ID, req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	now := time.Now()
	if err := h.db.Model(&user).Update("last_login_at", &now).Error; err != nil {
		return err
	}

	token, err := h.codec.Issue(user.ID, user.ShopID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to issue session")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{
		"userId": user.ID,
		"shopId": user.ShopID,
	}})
}

// Logout instructs the client to drop the session cookie. The token itself
// stays valid until expiry; there is no server-side session state to clear.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{}})
}

// Me returns the current user when the session is valid for this tenant.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	token := c.Cookies(middleware.SessionCookie)
	if token == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	claims, err := h.codec.Verify(token)
	if err != nil || claims.ShopID != shop.ID {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ? AND shop_id = ?", claims.UserID, shop.ID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	return c.JSON(fiber.Map{"ok": true, "data": user})
}

func clientAddr(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		return fwd
	}
	return c.IP()
}
