package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/washop/internal/config"
	"github.com/example/washop/internal/database"
	"github.com/example/washop/internal/metrics"
	"github.com/example/washop/internal/routes"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "washop",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	metrics.Register()
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	routes.Register(app, db, cfg)

	log.Printf("Server listening on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// errorHandler renders every error as the shared response envelope.
// Expected failures arrive as *fiber.Error; anything else is logged and
// masked as a 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"ok":    false,
			"error": fiberErr.Message,
		})
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok":    false,
		"error": "internal server error",
	})
}
