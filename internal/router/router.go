package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fluxlc/fluxlc/internal/catalog"
	"github.com/fluxlc/fluxlc/internal/config"
	"github.com/fluxlc/fluxlc/internal/handlers"
	"github.com/fluxlc/fluxlc/internal/logging"
	"github.com/fluxlc/fluxlc/internal/middleware"
	"github.com/fluxlc/fluxlc/internal/store"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, st *store.ObservationStore,
	catalogClient *catalog.Client, cfg *config.Config,
) *handlers.Handler {
	// Create handler instance
	h := handlers.New(logger, cfg, st, catalogClient)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Observation Management Routes
	v1.Post("/observations", h.OpenObservation)
	v1.Get("/observations", h.ListObservations)
	v1.Get("/observations/:obsid", h.GetObservation)
	v1.Delete("/observations/:obsid", h.DeleteObservation)

	// Analysis Routes
	v1.Get("/observations/:obsid/flares", h.FlareScan)
	v1.Get("/observations/:obsid/eclipses", h.EclipseScan)
	v1.Get("/observations/:obsid/period", h.Period)
	v1.Get("/observations/:obsid/series", h.GetSeries)

	// Catalog Routes
	v1.Post("/catalog/sync", h.SyncCatalog)
	v1.Get("/catalog/galaxies", h.ListGalaxies)
	v1.Get("/catalog/galaxies/:galaxy/files", h.GalaxyFiles)
	v1.Get("/catalog/search", h.SearchCatalog)
	v1.Post("/catalog/download", h.DownloadFiles)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, st *store.ObservationStore,
	catalogClient *catalog.Client, cfg *config.Config,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "FluxLC API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, st, catalogClient, cfg)

	return app
}
