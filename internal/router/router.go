package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/demandcast/demandcast/internal/config"
	"github.com/demandcast/demandcast/internal/handlers"
	"github.com/demandcast/demandcast/internal/logging"
	"github.com/demandcast/demandcast/internal/middleware"
	"github.com/demandcast/demandcast/internal/queue"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, publisher queue.Publisher, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, publisher, cfg.Forecast)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Forecast Routes
	v1.Post("/forecast/weekly", h.WeeklyForecast)
	v1.Post("/forecast/monthly", h.MonthlyForecast)
	v1.Post("/forecast/stockout", h.StockoutEstimate)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, publisher queue.Publisher, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Demandcast API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, publisher, cfg)

	return app
}
