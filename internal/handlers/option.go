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

// OptionHandler manages product option groups and their values.
type OptionHandler struct {
	db *gorm.DB
}

// NewOptionHandler constructs an OptionHandler.
func NewOptionHandler(db *gorm.DB) *OptionHandler {
	return &OptionHandler{db: db}
}

// List returns a product's option groups with ordered values.
func (h *OptionHandler) List(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var groups []models.OptionGroup
	if err := h.db.Where("product_id = ? AND shop_id = ?", productID, shop.ID).
		Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Order("sort_order").Find(&groups).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": groups})
}

type optionGroupRequest struct {
	NameLo     string `json:"name_lo" validate:"required,max=100"`
	NameEn     string `json:"name_en" validate:"required,max=100"`
	IsRequired bool   `json:"is_required"`
	SortOrder  *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

type optionValueRequest struct {
	ValueLo   string `json:"value_lo" validate:"required,max=100"`
	ValueEn   string `json:"value_en" validate:"required,max=100"`
	SortOrder *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

type optionCreateRequest struct {
	Group  optionGroupRequest   `json:"group"`
	Values []optionValueRequest `json:"values" validate:"dive"`
}

// Create adds an option group and its values to a product.
func (h *OptionHandler) Create(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req optionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req.Group); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	for _, v := range req.Values {
		if err := utils.ValidateStruct(v); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	sortOrder := 0
	if req.Group.SortOrder != nil {
		sortOrder = *req.Group.SortOrder
	} else {
		if err := h.db.Model(&models.OptionGroup{}).
			Where("product_id = ? AND shop_id = ?", productID, shop.ID).
			Select("COALESCE(MAX(sort_order), -1) + 1").Scan(&sortOrder).Error; err != nil {
			return err
		}
	}

	group := models.OptionGroup{
		ShopID:     shop.ID,
		ProductID:  productID,
		NameLo:     req.Group.NameLo,
		NameEn:     req.Group.NameEn,
		IsRequired: req.Group.IsRequired,
		SortOrder:  sortOrder,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		for i, v := range req.Values {
			order := i
			if v.SortOrder != nil {
				order = *v.SortOrder
			}
			value := models.OptionValue{
				ShopID:    shop.ID,
				GroupID:   group.ID,
				ValueLo:   v.ValueLo,
				ValueEn:   v.ValueEn,
				SortOrder: order,
			}
			if err := tx.Create(&value).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": h.loadGroup(group.ID, shop.ID)})
}

type optionGroupUpdateRequest struct {
	Group *struct {
		NameLo     *string `json:"name_lo" validate:"omitempty,min=1,max=100"`
		NameEn     *string `json:"name_en" validate:"omitempty,min=1,max=100"`
		IsRequired *bool   `json:"is_required"`
		SortOrder  *int    `json:"sort_order" validate:"omitempty,gte=0"`
	} `json:"group"`
	Values *[]optionValueRequest `json:"values"`
}

// Update changes group fields and, when a values array is supplied,
// replaces the whole value set.
func (h *OptionHandler) Update(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var group models.OptionGroup
	if err := h.db.First(&group, "id = ? AND shop_id = ?", groupID, shop.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Option group not found")
		}
		return err
	}

	var req optionGroupUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Values != nil {
		for _, v := range *req.Values {
			if err := utils.ValidateStruct(v); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.Group != nil {
			updates := map[string]interface{}{}
			if req.Group.NameLo != nil {
				updates["name_lo"] = *req.Group.NameLo
			}
			if req.Group.NameEn != nil {
				updates["name_en"] = *req.Group.NameEn
			}
			if req.Group.IsRequired != nil {
				updates["is_required"] = *req.Group.IsRequired
			}
			if req.Group.SortOrder != nil {
				updates["sort_order"] = *req.Group.SortOrder
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.OptionGroup{}).
					Where("id = ? AND shop_id = ?", groupID, shop.ID).
					Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		if req.Values != nil {
			if err := tx.Delete(&models.OptionValue{}, "group_id = ? AND shop_id = ?", groupID, shop.ID).Error; err != nil {
				return err
			}
			for i, v := range *req.Values {
				order := i
				if v.SortOrder != nil {
					order = *v.SortOrder
				}
				value := models.OptionValue{
					ShopID:    shop.ID,
					GroupID:   groupID,
					ValueLo:   v.ValueLo,
					ValueEn:   v.ValueEn,
					SortOrder: order,
				}
				if err := tx.Create(&value).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": h.loadGroup(groupID, shop.ID)})
}

// Delete removes an option group and its values.
func (h *OptionHandler) Delete(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	groupID, err := uuid.Parse(c.Params("groupId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OptionValue{}, "group_id = ? AND shop_id = ?", groupID, shop.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OptionGroup{}, "id = ? AND shop_id = ?", groupID, shop.ID).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{}})
}

func (h *OptionHandler) loadGroup(groupID, shopID uuid.UUID) *models.OptionGroup {
	var group models.OptionGroup
	if err := h.db.Preload("Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&group, "id = ? AND shop_id = ?", groupID, shopID).Error; err != nil {
		return nil
	}
	return &group
}
