package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/washop/internal/config"
	"github.com/example/washop/internal/handlers"
	"github.com/example/washop/internal/middleware"
	"github.com/example/washop/internal/ratelimit"
	"github.com/example/washop/internal/services"
	"github.com/example/washop/internal/session"
)

// Register wires every route group onto the app.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	codec := session.NewTokenCodec(cfg.SessionSecret, cfg.SessionTTL)
	limiter := ratelimit.NewMemory()
	store := services.NewDBObjectStore(db)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	shopHandler := handlers.NewShopHandler(db)
	authHandler := handlers.NewAuthHandler(db, codec, limiter, cfg.SessionTTL)
	categoryHandler := handlers.NewCategoryHandler(db)
	productHandler := handlers.NewProductHandler(db)
	imageHandler := handlers.NewProductImageHandler(db)
	optionHandler := handlers.NewOptionHandler(db)
	waNumberHandler := handlers.NewWaNumberHandler(db)
	orderHandler := handlers.NewOrderHandler(db, telegram)
	uploadHandler := handlers.NewUploadHandler(store)

	api := app.Group("/api", middleware.ResolveTenant(db), middleware.CheckOrigin())

	public := api.Group("/public")
	public.Get("/shop", shopHandler.GetPublicShop)
	public.Get("/categories", categoryHandler.ListPublic)
	public.Get("/products", productHandler.ListPublished)
	public.Get("/products/:slug", productHandler.GetBySlug)
	public.Post("/orders", orderHandler.Submit)
	public.Get("/images/*", uploadHandler.Serve)

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Get("/me", authHandler.Me)

	admin := api.Group("/admin")
	admin.Post("/bootstrap", shopHandler.Bootstrap)

	protected := admin.Group("", middleware.RequireSession(codec))
	protected.Get("/shop", shopHandler.GetShop)
	protected.Put("/shop", shopHandler.UpdateShop)

	protected.Get("/wa-numbers", waNumberHandler.List)
	protected.Post("/wa-numbers", waNumberHandler.Create)
	protected.Put("/wa-numbers/:id", waNumberHandler.Update)
	protected.Delete("/wa-numbers/:id", waNumberHandler.Delete)

	protected.Get("/categories", categoryHandler.List)
	protected.Post("/categories", categoryHandler.Create)
	protected.Put("/categories/:id", categoryHandler.Update)
	protected.Delete("/categories/:id", categoryHandler.Delete)

	protected.Get("/products", productHandler.List)
	protected.Post("/products", productHandler.Create)
	protected.Get("/products/:id", productHandler.Get)
	protected.Put("/products/:id", productHandler.Update)
	protected.Delete("/products/:id", productHandler.Delete)

	protected.Post("/products/:id/images", imageHandler.Attach)
	protected.Put("/products/:id/images/reorder", imageHandler.Reorder)
	protected.Delete("/product-images/:id", imageHandler.Delete)

	protected.Get("/products/:id/options", optionHandler.List)
	protected.Post("/products/:id/options", optionHandler.Create)
	protected.Put("/products/:id/options/:groupId", optionHandler.Update)
	protected.Delete("/products/:id/options/:groupId", optionHandler.Delete)

	protected.Post("/uploads/sign", uploadHandler.Sign)
	protected.Put("/uploads/put", uploadHandler.Put)

	protected.Get("/orders", orderHandler.List)
	protected.Get("/orders/export.csv", orderHandler.ExportCSV)
	protected.Put("/orders/:id", orderHandler.UpdateStatus)
}
