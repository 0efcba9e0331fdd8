package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/washop/internal/config"
	"github.com/example/washop/internal/database"
	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/models"
	"github.com/example/washop/internal/routes"
	"github.com/example/washop/internal/utils"
)

// env is a full application instance on an isolated in-memory database.
type env struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newEnv(t *testing.T) *env {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})
	routes.Register(app, db, &config.Config{
		SessionSecret: "test-secret",
		SessionTTL:    time.Hour,
	})

	return &env{t: t, app: app, db: db}
}

func testErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(fiber.Map{"ok": false, "error": e.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok":    false,
		"error": "internal server error",
	})
}

type response struct {
	status  int
	body    map[string]interface{}
	raw     []byte
	header  http.Header
	cookies []*http.Cookie
}

func (r *response) data() map[string]interface{} {
	data, _ := r.body["data"].(map[string]interface{})
	return data
}

func (r *response) errMsg() string {
	msg, _ := r.body["error"].(string)
	return msg
}

func (e *env) do(method, path, host string, payload interface{}, mutators ...func(*http.Request)) *response {
	e.t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(e.t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, "http://"+host+path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for _, m := range mutators {
		m(req)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	out := &response{
		status:  resp.StatusCode,
		raw:     raw,
		header:  resp.Header,
		cookies: resp.Cookies(),
	}
	_ = json.Unmarshal(raw, &out.body)
	return out
}

func withSession(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}
}

func withHeader(key, value string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (e *env) seedShop(domain string) *models.Shop {
	e.t.Helper()
	shop := &models.Shop{Domain: domain, NameLo: "ຮ້ານ " + domain, NameEn: "Shop " + domain}
	require.NoError(e.t, e.db.Create(shop).Error)
	return shop
}

func (e *env) seedUser(shop *models.Shop, email, password string) *models.User {
	e.t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(e.t, err)
	user := &models.User{ShopID: shop.ID, Email: email, PasswordHash: hash, Role: models.RoleOwner}
	require.NoError(e.t, e.db.Create(user).Error)
	return user
}

func (e *env) login(host, email, password string) string {
	e.t.Helper()
	resp := e.do("POST", "/api/auth/login", host, fiber.Map{"email": email, "password": password})
	require.Equal(e.t, fiber.StatusOK, resp.status, "login failed: %s", resp.raw)
	for _, ck := range resp.cookies {
		if ck.Name == middleware.SessionCookie {
			return ck.Value
		}
	}
	e.t.Fatal("login response carried no session cookie")
	return ""
}
