package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/washop/internal/models"
)

// doRaw sends a request with a raw, non-JSON body.
func (e *env) doRaw(method, path, host, contentType string, body []byte, mutators ...func(*http.Request)) *response {
	e.t.Helper()

	req := httptest.NewRequest(method, "http://"+host+path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}
	for _, m := range mutators {
		m(req)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw := new(bytes.Buffer)
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(e.t, err)

	out := &response{status: resp.StatusCode, raw: raw.Bytes(), header: resp.Header, cookies: resp.Cookies()}
	_ = json.Unmarshal(out.raw, &out.body)
	return out
}

func TestUploadSignScopesKeyToShop(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	resp := e.do("POST", "/api/admin/uploads/sign", "shop-a.test", fiber.Map{"ext": "png"}, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)

	key, _ := resp.data()["storageKey"].(string)
	assert.True(t, strings.HasPrefix(key, fmt.Sprintf("uploads/%s/", shop.ID)), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	uploadURL, _ := resp.data()["uploadUrl"].(string)
	assert.Contains(t, uploadURL, "/api/admin/uploads/put?key=")

	publicURL, _ := resp.data()["publicUrl"].(string)
	assert.Contains(t, publicURL, "/api/public/images/"+key)
}

func TestUploadSignDefaultsExtension(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	resp := e.do("POST", "/api/admin/uploads/sign", "shop-a.test", fiber.Map{}, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status)

	key, _ := resp.data()["storageKey"].(string)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
}

func TestUploadPutAndServeRoundTrip(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	key := fmt.Sprintf("uploads/%s/1-abc.png", shop.ID)
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	resp := e.doRaw("PUT", "/api/admin/uploads/put?key="+url.QueryEscape(key), "shop-a.test",
		"image/png", payload, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)

	resp = e.do("GET", "/api/public/images/"+key, "shop-a.test", nil)
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)
	assert.Equal(t, "image/png", resp.header.Get(fiber.HeaderContentType))
	assert.Equal(t, "public, max-age=31536000", resp.header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, payload, resp.raw)
}

func TestUploadPutRejectsForeignKey(t *testing.T) {
	e := newEnv(t)
	shopA := e.seedShop("shop-a.test")
	shopB := e.seedShop("shop-b.test")
	e.seedUser(shopA, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	key := fmt.Sprintf("uploads/%s/1-abc.png", shopB.ID)
	resp := e.doRaw("PUT", "/api/admin/uploads/put?key="+url.QueryEscape(key), "shop-a.test",
		"image/png", []byte("data"), withSession(token))
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "Invalid key", resp.errMsg())

	resp = e.doRaw("PUT", "/api/admin/uploads/put", "shop-a.test",
		"image/png", []byte("data"), withSession(token))
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestServeRejectsCrossTenantKey(t *testing.T) {
	e := newEnv(t)
	shopA := e.seedShop("shop-a.test")
	e.seedShop("shop-b.test")

	key := fmt.Sprintf("uploads/%s/1-abc.png", shopA.ID)
	require.NoError(t, e.db.Create(&models.StoredObject{
		ObjectKey: key, ContentType: "image/png", Data: []byte("secret"),
	}).Error)

	// Shop A's object is not reachable through shop B's domain.
	resp := e.do("GET", "/api/public/images/"+key, "shop-b.test", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.status)

	resp = e.do("GET", "/api/public/images/"+key, "shop-a.test", nil)
	assert.Equal(t, fiber.StatusOK, resp.status)
}

func TestServeUnknownObject(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")

	key := fmt.Sprintf("uploads/%s/missing.png", shop.ID)
	resp := e.do("GET", "/api/public/images/"+key, "shop-a.test", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestUploadPutOverwritesExistingKey(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	key := fmt.Sprintf("uploads/%s/1-abc.png", shop.ID)
	escaped := url.QueryEscape(key)

	resp := e.doRaw("PUT", "/api/admin/uploads/put?key="+escaped, "shop-a.test", "image/png", []byte("v1"), withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status)
	resp = e.doRaw("PUT", "/api/admin/uploads/put?key="+escaped, "shop-a.test", "image/png", []byte("v2"), withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)

	var obj models.StoredObject
	require.NoError(t, e.db.First(&obj, "object_key = ?", key).Error)
	assert.Equal(t, []byte("v2"), obj.Data)

	var count int64
	e.db.Model(&models.StoredObject{}).Where("object_key = ?", key).Count(&count)
	assert.Equal(t, int64(1), count)
}
