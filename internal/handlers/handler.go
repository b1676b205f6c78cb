// Package handlers contains the HTTP handlers of the lightcurve API. Each
// handler parses the request, delegates to a service, and shapes the JSON
// response; analysis logic lives below the service layer.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/catalog"
	"github.com/fluxlc/fluxlc/internal/config"
	"github.com/fluxlc/fluxlc/internal/logging"
	"github.com/fluxlc/fluxlc/internal/models"
	"github.com/fluxlc/fluxlc/internal/services"
	"github.com/fluxlc/fluxlc/internal/store"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	cfg    *config.Config
	// Services
	observationService *services.ObservationService
	catalogService     *services.CatalogService
}

// New creates a new handler instance
func New(logger *logging.Logger, cfg *config.Config,
	st *store.ObservationStore, catalogClient *catalog.Client,
) *Handler {
	observationService := services.NewObservationService(logger, cfg, st)
	catalogService := services.NewCatalogService(logger, catalogClient, cfg.Data.RawDir)

	return &Handler{
		logger:             logger,
		cfg:                cfg,
		observationService: observationService,
		catalogService:     catalogService,
	}
}

// serviceError maps service error codes onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	svcErr, ok := err.(*services.ServiceError)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
	}

	status := fiber.StatusInternalServerError
	switch svcErr.Code {
	case "OBSERVATION_NOT_FOUND", "FILE_NOT_FOUND", "GALAXY_NOT_FOUND":
		status = fiber.StatusNotFound
	case "UNSUPPORTED_FORMAT", "MALFORMED_TABLE", "INVALID_SERIES_KIND",
		"INVALID_COORDINATES", "VALIDATION_ERROR":
		status = fiber.StatusBadRequest
	case "INDEX_NOT_SYNCED":
		status = fiber.StatusConflict
	case "SYNC_FAILED", "DOWNLOAD_FAILED":
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}

// validationError rejects a request before it reaches the service layer.
func validationError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: message,
		},
	})
}
