package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/services"
)

// UploadHandler proxies image uploads through the API so storage keys
// always stay inside the calling shop's prefix.
type UploadHandler struct {
	store services.ObjectStore
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(store services.ObjectStore) *UploadHandler {
	return &UploadHandler{store: store}
}

type signUploadRequest struct {
	Ext string `json:"ext"`
}

// Sign allocates a tenant-scoped storage key and hands back the PUT
// target plus the public URL the object will be served from.
func (h *UploadHandler) Sign(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	// Body is optional; an absent or malformed body means default ext.
	var req signUploadRequest
	_ = c.BodyParser(&req)

	ext := strings.ToLower(strings.TrimPrefix(req.Ext, "."))
	if ext == "" {
		ext = "jpg"
	}

	rand := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	key := fmt.Sprintf("uploads/%s/%d-%s.%s", shop.ID, time.Now().UnixMilli(), rand, ext)

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{
		"uploadUrl":  c.BaseURL() + "/api/admin/uploads/put?key=" + url.QueryEscape(key),
		"storageKey": key,
		"publicUrl":  c.BaseURL() + "/api/public/images/" + key,
	}})
}

// Put stores the raw request body under a previously signed key. Keys
// outside the shop's own prefix are refused.
func (h *UploadHandler) Put(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	key := c.Query("key")
	prefix := fmt.Sprintf("uploads/%s/", shop.ID)
	if key == "" || !strings.HasPrefix(key, prefix) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid key")
	}

	contentType := c.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "image/jpeg"
	}

	body := c.Body()
	data := make([]byte, len(body))
	copy(data, body)

	if err := h.store.Put(key, contentType, data); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"ok": true, "data": fiber.Map{"storageKey": key}})
}

// Serve delivers a stored object on the storefront. Only objects under
// the resolved shop's prefix are visible through its domain.
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	shop, _ := middleware.CurrentShop(c)

	key, err := url.QueryUnescape(c.Params("*"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid key")
	}

	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[0] != "uploads" {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	}
	if parts[1] != shop.ID.String() {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}

	obj, err := h.store.Get(key)
	if err != nil {
		if errors.Is(err, services.ErrObjectNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Not found")
		}
		return err
	}

	c.Set(fiber.HeaderContentType, obj.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000")
	return c.Send(obj.Data)
}
