package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/services"
	"github.com/example/washop/internal/utils"
)

// OrderHandler covers public order submission and admin order management.
type OrderHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(db *gorm.DB, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, telegram: telegram}
}

type submitOrderRequest struct {
	ProductID       uuid.UUID         `json:"product_id" validate:"required"`
	WaNumberID      uuid.UUID         `json:"wa_number_id" validate:"required"`
	CustomerName    string            `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string            `json:"customer_phone" validate:"required,max=50"`
	CustomerAddress string            `json:"customer_address" validate:"max=500"`
	Qty             int               `json:"qty" validate:"required,gt=0,lte=999"`
	Note            string            `json:"note" validate:"max=1000"`
	SelectedOptions map[string]string `json:"selected_options"`
}

// Submit accepts a storefront order, renders the shop's WhatsApp template
// and answers with the deep link only. The rendered message is snapshotted
// on the order row so later template edits leave history intact.
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	shop, ok := middleware.CurrentShop(c)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Shop not found")
	}

	var req submitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Both references are re-verified against the resolved tenant; ids
	// lifted from another shop must not resolve.
	var product models.Product
	if err := h.db.First(&product, "id = ? AND shop_id = ?", req.ProductID, shop.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	var waNumber models.WaNumber
	if err := h.db.First(&waNumber, "id = ? AND shop_id = ? AND is_active = ?", req.WaNumberID, shop.ID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "WhatsApp number not found")
		}
		return err
	}

	productName := product.NameEn
	if productName == "" {
		productName = product.NameLo
	}

	message := services.RenderOrderMessage(shop.WaTemplate, services.OrderMessageData{
		ProductName:     productName,
		Qty:             req.Qty,
		Price:           product.Price,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Note:            req.Note,
		SelectedOptions: req.SelectedOptions,
	})
	waURL := services.BuildWaLink(waNumber.PhoneE164, message)

	selected := req.SelectedOptions
	if selected == nil {
		selected = map[string]string{}
	}
	selectedJSON, err := json.Marshal(selected)
	if err != nil {
		return err
	}

	order := models.Order{
		ShopID:          shop.ID,
		ProductID:       product.ID,
		WaNumberID:      waNumber.ID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Qty:             req.Qty,
		Note:            req.Note,
		SelectedOptions: string(selectedJSON),
		WaMessage:       message,
		Status:          models.OrderNew,
	}
	if err := h.db.Create(&order).Error; err != nil {
		return err
	}

	if h.telegram != nil {
		shopName := shop.NameEn
		if shopName == "" {
			shopName = shop.NameLo
		}
		go h.telegram.NotifyNewOrder(services.OrderNotification{
			ShopName:      shopName,
			ProductName:   productName,
			Qty:           req.Qty,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
		})
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{"wa_url": waURL}})
}

// List returns paginated orders for the admin panel.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)
	pg := utils.ParsePagination(c, 100)

	query := h.db.Model(&models.Order{}).Where("shop_id = ?", shop.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		q := "%" + search + "%"
		query = query.Where("customer_phone LIKE ? OR customer_name LIKE ?", q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Product").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{
		"items": orders,
		"total": total,
		"page":  pg.Page,
		"limit": pg.Limit,
	}})
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted done canceled"`
}

// UpdateStatus moves an order along the admin flow. Done and canceled are
// terminal: no transition leads out of them.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var order models.Order
	if err := h.db.First(&order, "id = ? AND shop_id = ?", id, shop.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found")
		}
		return err
	}

	if models.IsTerminalStatus(order.Status) && req.Status != order.Status {
		return fiber.NewError(fiber.StatusBadRequest, "Order status is final")
	}

	if err := h.db.Model(&order).Update("status", req.Status).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": order})
}

// ExportCSV streams the shop's orders as a CSV attachment.
func (h *OrderHandler) ExportCSV(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	query := h.db.Where("shop_id = ?", shop.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Preload("Product").Order("created_at desc").Find(&orders).Error; err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"id", "customer_name", "customer_phone", "customer_address", "qty", "note", "status", "created_at", "product_name"})
	for _, o := range orders {
		productName := ""
		if o.Product != nil {
			productName = o.Product.NameEn
		}
		_ = w.Write([]string{
			o.ID.String(),
			o.CustomerName,
			o.CustomerPhone,
			o.CustomerAddress,
			strconv.Itoa(o.Qty),
			o.Note,
			o.Status,
			o.CreatedAt.Format(time.RFC3339),
			productName,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=orders.csv`)
	return c.Send(buf.Bytes())
}
