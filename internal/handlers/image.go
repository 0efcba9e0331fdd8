package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/utils"
)

// ProductImageHandler manages product image attachment and ordering.
type ProductImageHandler struct {
	db *gorm.DB
}

// NewProductImageHandler constructs a ProductImageHandler.
func NewProductImageHandler(db *gorm.DB) *ProductImageHandler {
	return &ProductImageHandler{db: db}
}

type imageAttachRequest struct {
	StorageKey string `json:"storage_key" validate:"required,max=500"`
}

// Attach links an uploaded object to a product at the end of its gallery.
func (h *ProductImageHandler) Attach(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req imageAttachRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var next int
	if err := h.db.Model(&models.ProductImage{}).
		Where("product_id = ? AND shop_id = ?", productID, shop.ID).
		Select("COALESCE(MAX(sort_order), -1) + 1").Scan(&next).Error; err != nil {
		return err
	}

	image := models.ProductImage{
		ShopID:     shop.ID,
		ProductID:  productID,
		StorageKey: req.StorageKey,
		SortOrder:  next,
	}
	if err := h.db.Create(&image).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": image})
}

type imageReorderRequest struct {
	ImageIDs []uuid.UUID `json:"image_ids" validate:"required"`
}

// Reorder rewrites sort_order from an explicit ordered id list.
func (h *ProductImageHandler) Reorder(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req imageReorderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for i, imageID := range req.ImageIDs {
			if err := tx.Model(&models.ProductImage{}).
				Where("id = ? AND product_id = ? AND shop_id = ?", imageID, productID, shop.ID).
				Update("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	var images []models.ProductImage
	if err := h.db.Where("product_id = ? AND shop_id = ?", productID, shop.ID).
		Order("sort_order").Find(&images).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": images})
}

// Delete removes an image, clearing any cover reference pointing at it.
func (h *ProductImageHandler) Delete(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("cover_image_id = ? AND shop_id = ?", id, shop.ID).
			Update("cover_image_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ProductImage{}, "id = ? AND shop_id = ?", id, shop.ID).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{}})
}
