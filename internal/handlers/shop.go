package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/utils"
)

// ShopHandler covers tenant bootstrap and shop settings.
type ShopHandler struct {
	db *gorm.DB
}

// NewShopHandler constructs a ShopHandler.
func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{db: db}
}

type bootstrapRequest struct {
	Domain     string `json:"domain" validate:"required,max=255"`
	ShopNameLo string `json:"shop_name_lo" validate:"required,max=200"`
	ShopNameEn string `json:"shop_name_en" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
}

// Bootstrap creates the first shop and its owner user. It is a one-time
// global operation: permitted only while zero users exist anywhere.
func (h *ShopHandler) Bootstrap(c *fiber.Ctx) error {
	var count int64
	if err := h.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusForbidden, "Bootstrap is disabled. Users already exist.")
	}

	var req bootstrapRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	domain := utils.NormalizeDomain(req.Domain)
	if domain == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid domain")
	}

	var existing models.Shop
	if err := h.db.First(&existing, "domain = ?", domain).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Domain already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	shop := models.Shop{
		Domain: domain,
		NameLo: req.ShopNameLo,
		NameEn: req.ShopNameEn,
	}

	// Shop and owner are created atomically so a failed owner insert
	// cannot leave an orphaned shop behind.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}
		owner := models.User{
			ShopID:       shop.ID,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Role:         models.RoleOwner,
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{
		"shopId":  shop.ID,
		"message": "Bootstrap complete. Login to continue.",
	}})
}

// GetPublicShop returns the resolved tenant's storefront profile.
func (h *ShopHandler) GetPublicShop(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}
	return c.JSON(fiber.Map{"ok": true, "data": shop})
}

// GetShop returns the shop settings for the admin panel.
func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}
	return c.JSON(fiber.Map{"ok": true, "data": shop})
}

type shopUpdateRequest struct {
	NameLo         *string `json:"name_lo" validate:"omitempty,min=1,max=200"`
	NameEn         *string `json:"name_en" validate:"omitempty,min=1,max=200"`
	DescLo         *string `json:"desc_lo" validate:"omitempty,max=2000"`
	DescEn         *string `json:"desc_en" validate:"omitempty,max=2000"`
	AvatarKey      *string `json:"avatar_key" validate:"omitempty,max=500"`
	CoverKey       *string `json:"cover_key" validate:"omitempty,max=500"`
	ThemePrimary   *string `json:"theme_primary" validate:"omitempty,max=20"`
	ThemeSecondary *string `json:"theme_secondary" validate:"omitempty,max=20"`
	WaTemplate     *string `json:"wa_template" validate:"omitempty,max=2000"`
}

// UpdateShop applies a partial update to the shop settings.
func (h *ShopHandler) UpdateShop(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	var req shopUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{}
	if req.NameLo != nil {
		updates["name_lo"] = *req.NameLo
	}
	if req.NameEn != nil {
		updates["name_en"] = *req.NameEn
	}
	if req.DescLo != nil {
		updates["desc_lo"] = *req.DescLo
	}
	if req.DescEn != nil {
		updates["desc_en"] = *req.DescEn
	}
	if req.AvatarKey != nil {
		updates["avatar_key"] = *req.AvatarKey
	}
	if req.CoverKey != nil {
		updates["cover_key"] = *req.CoverKey
	}
	if req.ThemePrimary != nil {
		updates["theme_primary"] = *req.ThemePrimary
	}
	if req.ThemeSecondary != nil {
		updates["theme_secondary"] = *req.ThemeSecondary
	}
	if req.WaTemplate != nil {
		updates["wa_template"] = *req.WaTemplate
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.Shop{}).Where("id = ?", shop.ID).Updates(updates).Error; err != nil {
			return err
		}
	}

	var fresh models.Shop
	if err := h.db.First(&fresh, "id = ?", shop.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": fresh})
}
