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

// ProductHandler manages the product catalog.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

// productWithCover carries a product plus its resolved cover image key.
type productWithCover struct {
	models.Product
	CoverImage *string `json:"cover_image"`
}

// resolveCovers maps cover_image_id references to storage keys in one query.
func (h *ProductHandler) resolveCovers(shopID uuid.UUID, products []models.Product) ([]productWithCover, error) {
	coverIDs := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		if p.CoverImageID != nil {
			coverIDs = append(coverIDs, *p.CoverImageID)
		}
	}

	keys := map[uuid.UUID]string{}
	if len(coverIDs) > 0 {
		var images []models.ProductImage
		if err := h.db.Where("id IN ? AND shop_id = ?", coverIDs, shopID).Find(&images).Error; err != nil {
			return nil, err
		}
		for _, img := range images {
			keys[img.ID] = img.StorageKey
		}
	}

	out := make([]productWithCover, 0, len(products))
	for _, p := range products {
		item := productWithCover{Product: p}
		if p.CoverImageID != nil {
			if key, ok := keys[*p.CoverImageID]; ok {
				item.CoverImage = &key
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ListPublished returns the storefront catalog: published products only,
// optionally filtered by category or search term.
func (h *ProductHandler) ListPublished(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	query := h.db.Where("shop_id = ? AND status = ?", shop.ID, models.ProductPublished)

	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}
	if search := c.Query("search"); search != "" {
		q := "%" + search + "%"
		query = query.Where("name_lo LIKE ? OR name_en LIKE ?", q, q)
	}

	var products []models.Product
	if err := query.Order("updated_at desc").Find(&products).Error; err != nil {
		return err
	}

	items, err := h.resolveCovers(shop.ID, products)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": items})
}

// productDetail is a full product plus the shop's active WhatsApp numbers,
// which the storefront needs to offer an order target.
type productDetail struct {
	models.Product
	WaNumbers []models.WaNumber `json:"wa_numbers"`
}

// GetBySlug returns a published product with images, option groups and
// active WA numbers for the storefront detail page.
func (h *ProductHandler) GetBySlug(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	var product models.Product
	err := h.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("OptionGroups.Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&product, "shop_id = ? AND slug = ? AND status = ?", shop.ID, c.Params("slug"), models.ProductPublished).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	var waNumbers []models.WaNumber
	if err := h.db.Where("shop_id = ? AND is_active = ?", shop.ID, true).
		Order("is_default desc").Find(&waNumbers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": productDetail{Product: product, WaNumbers: waNumbers}})
}

// List returns paginated products for the admin panel.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)
	pg := utils.ParsePagination(c, 50)

	query := h.db.Model(&models.Product{}).Where("shop_id = ?", shop.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			query = query.Where("category_id = ?", id)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := query.Preload("Category").
		Order("updated_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&products).Error; err != nil {
		return err
	}

	items, err := h.resolveCovers(shop.ID, products)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{
		"items": items,
		"total": total,
		"page":  pg.Page,
		"limit": pg.Limit,
	}})
}

type productRequest struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Slug       string     `json:"slug" validate:"required,max=200,slug"`
	NameLo     string     `json:"name_lo" validate:"required,max=200"`
	NameEn     string     `json:"name_en" validate:"required,max=200"`
	DescLo     string     `json:"desc_lo" validate:"max=5000"`
	DescEn     string     `json:"desc_en" validate:"max=5000"`
	Price      float64    `json:"price" validate:"gte=0"`
	Status     string     `json:"status" validate:"omitempty,oneof=draft published"`
}

// Create persists a new product, enforcing slug uniqueness within the shop.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var existing models.Product
	if err := h.db.First(&existing, "shop_id = ? AND slug = ?", shop.ID, req.Slug).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	status := req.Status
	if status == "" {
		status = models.ProductDraft
	}

	product := models.Product{
		ShopID:     shop.ID,
		CategoryID: req.CategoryID,
		Slug:       req.Slug,
		NameLo:     req.NameLo,
		NameEn:     req.NameEn,
		DescLo:     req.DescLo,
		DescEn:     req.DescEn,
		Price:      req.Price,
		Status:     status,
	}
	if err := h.db.Create(&product).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": product})
}

// Get returns a product with images and option groups for editing.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	err = h.db.Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("OptionGroups", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("OptionGroups.Values", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&product, "id = ? AND shop_id = ?", id, shop.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": product})
}

type productUpdateRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Slug         *string    `json:"slug" validate:"omitempty,max=200,slug"`
	NameLo       *string    `json:"name_lo" validate:"omitempty,min=1,max=200"`
	NameEn       *string    `json:"name_en" validate:"omitempty,min=1,max=200"`
	DescLo       *string    `json:"desc_lo" validate:"omitempty,max=5000"`
	DescEn       *string    `json:"desc_en" validate:"omitempty,max=5000"`
	Price        *float64   `json:"price" validate:"omitempty,gte=0"`
	Status       *string    `json:"status" validate:"omitempty,oneof=draft published"`
	CoverImageID *uuid.UUID `json:"cover_image_id"`
}

// Update applies a partial update. A zero uuid clears a nullable reference.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.db.First(&product, "id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	var req productUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		if *req.CategoryID == uuid.Nil {
			updates["category_id"] = nil
		} else {
			updates["category_id"] = *req.CategoryID
		}
	}
	if req.Slug != nil && *req.Slug != product.Slug {
		var existing models.Product
		if err := h.db.First(&existing, "shop_id = ? AND slug = ?", shop.ID, *req.Slug).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Slug already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		updates["slug"] = *req.Slug
	}
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
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.CoverImageID != nil {
		if *req.CoverImageID == uuid.Nil {
			updates["cover_image_id"] = nil
		} else {
			updates["cover_image_id"] = *req.CoverImageID
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
	}

	var fresh models.Product
	if err := h.db.First(&fresh, "id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "data": fresh})
}

// Delete removes a product and everything hanging off it.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductImage{}, "product_id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
			return err
		}
		groupIDs := tx.Model(&models.OptionGroup{}).Select("id").
			Where("product_id = ? AND shop_id = ?", id, shop.ID)
		if err := tx.Where("group_id IN (?)", groupIDs).Delete(&models.OptionValue{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.OptionGroup{}, "product_id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ? AND shop_id = ?", id, shop.ID).Error
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{}})
}
