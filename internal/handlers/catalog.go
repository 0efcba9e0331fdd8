package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/utils"
)

// CategoryHandler manages shop categories.
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// ListPublic returns the tenant's categories for the storefront.
func (h *CategoryHandler) ListPublic(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	var categories []models.Category
	if err := h.db.Where("shop_id = ?", shop.ID).Order("sort_order").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": categories})
}

// List returns the tenant's categories for the admin panel.
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	var categories []models.Category
	if err := h.db.Where("shop_id = ?", shop.ID).Order("sort_order, created_at").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": categories})
}

type categoryRequest struct {
	NameLo    string `json:"name_lo" validate:"required,max=200"`
	NameEn    string `json:"name_en" validate:"required,max=200"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// Create persists a new category. Sort order defaults to the end of the list.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		if err := h.db.Model(&models.Category{}).Where("shop_id = ?", shop.ID).
			Select("COALESCE(MAX(sort_order), -1) + 1").Scan(&sortOrder).Error; err != nil {
			return err
		}
	}

	category := models.Category{
		ShopID:    shop.ID,
		NameLo:    req.NameLo,
		NameEn:    req.NameEn,
		SortOrder: sortOrder,
	}
	if err := h.db.Create(&category).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": category})
}

type categoryUpdateRequest struct {
	NameLo    *string `json:"name_lo" validate:"omitempty,min=1,max=200"`
	NameEn    *string `json:"name_en" validate:"omitempty,min=1,max=200"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
}

// Update applies a partial update to a category.
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req categoryUpdateRequest
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
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.Category{}).
			Where("id = ? AND shop_id = ?", id, shop.ID).
			Updates(updates).Error; err != nil {
			return err
		}
	}

	var category models.Category
	if err := h.db.First(&category, "id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": category})
}

// Delete removes a category. Products attached to it are detached, never
// deleted.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("category_id = ? AND shop_id = ?", id, shop.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "id = ? AND shop_id = ?", id, shop.ID).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{}})
}
