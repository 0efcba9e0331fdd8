package handlers_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/washop/internal/models"
)

func TestProductCreateDefaultsToDraft(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	resp := e.do("POST", "/api/admin/products", "shop-a.test", fiber.Map{
		"slug":    "iced-coffee",
		"name_lo": "ກາເຟເຢັນ",
		"name_en": "Iced Coffee",
		"price":   18000,
	}, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)
	assert.Equal(t, models.ProductDraft, resp.data()["status"])
}

func TestProductSlugUniquePerShop(t *testing.T) {
	e := newEnv(t)
	shopA := e.seedShop("shop-a.test")
	shopB := e.seedShop("shop-b.test")
	e.seedUser(shopA, "owner@shop-a.test", "password123")
	e.seedUser(shopB, "owner@shop-b.test", "password123")

	tokenA := e.login("shop-a.test", "owner@shop-a.test", "password123")
	tokenB := e.login("shop-b.test", "owner@shop-b.test", "password123")

	payload := fiber.Map{"slug": "coffee", "name_lo": "ກາເຟ", "name_en": "Coffee", "price": 10000}

	resp := e.do("POST", "/api/admin/products", "shop-a.test", payload, withSession(tokenA))
	require.Equal(t, fiber.StatusOK, resp.status)

	resp = e.do("POST", "/api/admin/products", "shop-a.test", payload, withSession(tokenA))
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "Slug already exists", resp.errMsg())

	// Same slug on another shop is fine.
	resp = e.do("POST", "/api/admin/products", "shop-b.test", payload, withSession(tokenB))
	assert.Equal(t, fiber.StatusOK, resp.status)
}

func TestProductCreateRejectsBadSlug(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	for _, slug := range []string{"Has Spaces", "UPPER", "ünïcode", "slash/y"} {
		resp := e.do("POST", "/api/admin/products", "shop-a.test", fiber.Map{
			"slug": slug, "name_lo": "ສິນຄ້າ", "name_en": "Item", "price": 1000,
		}, withSession(token))
		assert.Equal(t, fiber.StatusBadRequest, resp.status, "slug %q", slug)
	}
}

func TestPublicCatalogShowsOnlyPublished(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")

	require.NoError(t, e.db.Create(&models.Product{
		ShopID: shop.ID, Slug: "visible", NameEn: "Visible", Status: models.ProductPublished,
	}).Error)
	require.NoError(t, e.db.Create(&models.Product{
		ShopID: shop.ID, Slug: "hidden", NameEn: "Hidden", Status: models.ProductDraft,
	}).Error)

	resp := e.do("GET", "/api/public/products", "shop-a.test", nil)
	require.Equal(t, fiber.StatusOK, resp.status)

	items, ok := resp.body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "visible", items[0].(map[string]interface{})["slug"])
}

func TestPublicProductDetail(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")

	product := models.Product{
		ShopID: shop.ID, Slug: "coffee", NameEn: "Coffee",
		Price: 10000, Status: models.ProductPublished,
	}
	require.NoError(t, e.db.Create(&product).Error)
	require.NoError(t, e.db.Create(&models.WaNumber{
		ShopID: shop.ID, Label: "Main", PhoneE164: "+85620111222",
		IsDefault: true, IsActive: true,
	}).Error)
	require.NoError(t, e.db.Create(&models.WaNumber{
		ShopID: shop.ID, Label: "Off", PhoneE164: "+85620999888", IsActive: false,
	}).Error)

	resp := e.do("GET", "/api/public/products/coffee", "shop-a.test", nil)
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)
	assert.Equal(t, "Coffee", resp.data()["name_en"])

	// Only active numbers are offered as order targets.
	numbers, ok := resp.data()["wa_numbers"].([]interface{})
	require.True(t, ok)
	require.Len(t, numbers, 1)
	assert.Equal(t, "Main", numbers[0].(map[string]interface{})["label"])
}

func TestPublicProductDetailHidesDrafts(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	require.NoError(t, e.db.Create(&models.Product{
		ShopID: shop.ID, Slug: "wip", NameEn: "WIP", Status: models.ProductDraft,
	}).Error)

	resp := e.do("GET", "/api/public/products/wip", "shop-a.test", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestProductUpdateClearsCategoryWithZeroUUID(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	category := models.Category{ShopID: shop.ID, NameEn: "Food"}
	require.NoError(t, e.db.Create(&category).Error)
	product := models.Product{
		ShopID: shop.ID, CategoryID: &category.ID,
		Slug: "noodles", NameEn: "Noodles", Status: models.ProductDraft,
	}
	require.NoError(t, e.db.Create(&product).Error)

	resp := e.do("PUT", "/api/admin/products/"+product.ID.String(), "shop-a.test", fiber.Map{
		"category_id": "00000000-0000-0000-0000-000000000000",
	}, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)

	var fresh models.Product
	require.NoError(t, e.db.First(&fresh, "id = ?", product.ID).Error)
	assert.Nil(t, fresh.CategoryID)
}

func TestProductDeleteCascades(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	product := models.Product{ShopID: shop.ID, Slug: "coffee", NameEn: "Coffee"}
	require.NoError(t, e.db.Create(&product).Error)
	require.NoError(t, e.db.Create(&models.ProductImage{
		ShopID: shop.ID, ProductID: product.ID, StorageKey: "uploads/x/1.jpg",
	}).Error)
	group := models.OptionGroup{ShopID: shop.ID, ProductID: product.ID, NameEn: "Size"}
	require.NoError(t, e.db.Create(&group).Error)
	require.NoError(t, e.db.Create(&models.OptionValue{
		ShopID: shop.ID, GroupID: group.ID, ValueEn: "L",
	}).Error)

	resp := e.do("DELETE", "/api/admin/products/"+product.ID.String(), "shop-a.test", nil, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)

	var count int64
	e.db.Model(&models.ProductImage{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	e.db.Model(&models.OptionGroup{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Zero(t, count)
	e.db.Model(&models.OptionValue{}).Where("group_id = ?", group.ID).Count(&count)
	assert.Zero(t, count)
}

func TestAdminProductListPaginates(t *testing.T) {
	e := newEnv(t)
	shop := e.seedShop("shop-a.test")
	e.seedUser(shop, "owner@shop-a.test", "password123")
	token := e.login("shop-a.test", "owner@shop-a.test", "password123")

	for _, slug := range []string{"a", "b", "c"} {
		require.NoError(t, e.db.Create(&models.Product{
			ShopID: shop.ID, Slug: slug, NameEn: slug,
		}).Error)
	}

	resp := e.do("GET", "/api/admin/products?page=2&limit=2", "shop-a.test", nil, withSession(token))
	require.Equal(t, fiber.StatusOK, resp.status, "%s", resp.raw)
	assert.Equal(t, float64(3), resp.data()["total"])
	assert.Equal(t, float64(2), resp.data()["page"])

	items, ok := resp.data()["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
}
