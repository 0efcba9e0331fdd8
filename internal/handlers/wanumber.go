package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/utils"
)

// WaNumberHandler manages the shop's WhatsApp numbers.
type WaNumberHandler struct {
	db *gorm.DB
}

// NewWaNumberHandler constructs a WaNumberHandler.
func NewWaNumberHandler(db *gorm.DB) *WaNumberHandler {
	return &WaNumberHandler{db: db}
}

// List returns the shop's numbers, default first.
func (h *WaNumberHandler) List(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	var numbers []models.WaNumber
	if err := h.db.Where("shop_id = ?", shop.ID).
		Order("is_default desc, created_at").Find(&numbers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": numbers})
}

type waNumberRequest struct {
	Label     string `json:"label" validate:"required,max=100"`
	PhoneE164 string `json:"phone_e164" validate:"required,max=20"`
	IsDefault bool   `json:"is_default"`
	IsActive  *bool  `json:"is_active"`
}

// Create adds a number. Marking it default unsets every other default in
// the same transaction, keeping at most one per shop.
func (h *WaNumberHandler) Create(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	var req waNumberRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	number := models.WaNumber{
		ShopID:    shop.ID,
		Label:     req.Label,
		PhoneE164: req.PhoneE164,
		IsDefault: req.IsDefault,
		IsActive:  active,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.WaNumber{}).
				Where("shop_id = ?", shop.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&number).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": number})
}

type waNumberUpdateRequest struct {
	Label     *string `json:"label" validate:"omitempty,min=1,max=100"`
	PhoneE164 *string `json:"phone_e164" validate:"omitempty,min=1,max=20"`
	IsDefault *bool   `json:"is_default"`
	IsActive  *bool   `json:"is_active"`
}

// Update applies a partial update with the same default exclusivity rule.
func (h *WaNumberHandler) Update(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req waNumberUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := tx.Model(&models.WaNumber{}).
				Where("shop_id = ?", shop.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{}
		if req.Label != nil {
			updates["label"] = *req.Label
		}
		if req.PhoneE164 != nil {
			updates["phone_e164"] = *req.PhoneE164
		}
		if req.IsDefault != nil {
			updates["is_default"] = *req.IsDefault
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.WaNumber{}).
			Where("id = ? AND shop_id = ?", id, shop.ID).
			Updates(updates).Error
	})
	if err != nil {
		return err
	}

	var number models.WaNumber
	if err := h.db.First(&number, "id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "WhatsApp number not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": number})
}

// Delete removes a number.
func (h *WaNumberHandler) Delete(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.WaNumber{}, "id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{}})
}
