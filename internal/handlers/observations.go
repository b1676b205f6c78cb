package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/lightcurve"
	"github.com/fluxlc/fluxlc/internal/models"
)

// OpenObservation handles POST /v1/observations. It parses a raw lightcurve
// file, derives the observation aggregate, and caches it for analysis.
func (h *Handler) OpenObservation(c *fiber.Ctx) error {
	var req models.OpenObservationRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError(c, "Invalid request body")
	}
	if req.Path == "" {
		return validationError(c, "path is required")
	}

	lc, err := h.observationService.Open(c.Context(), req.Path)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(observationResponse(lc))
}

// ListObservations handles GET /v1/observations
func (h *Handler) ListObservations(c *fiber.Ctx) error {
	ids, err := h.observationService.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.ObservationListResponse{
		Observations: ids,
		Count:        len(ids),
	})
}

// GetObservation handles GET /v1/observations/:obsid
func (h *Handler) GetObservation(c *fiber.Ctx) error {
	lc, err := h.observationService.Get(c.Context(), c.Params("obsid"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(observationResponse(lc))
}

// DeleteObservation handles DELETE /v1/observations/:obsid
func (h *Handler) DeleteObservation(c *fiber.Ctx) error {
	obsID := c.Params("obsid")
	if err := h.observationService.Delete(c.Context(), obsID); err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.DeleteResponse{ObsID: obsID, Deleted: true})
}

func observationResponse(lc *lightcurve.Lightcurve) models.ObservationResponse {
	return models.ObservationResponse{
		ObsID:        lc.ObsID,
		SourceCoords: lc.SourceCoords,
		Path:         lc.Path,
		Samples:      lc.Len(),
		BinSeconds:   lc.BinSeconds,
		TotalTime:    lc.TotalTime,
		TotalCount:   lc.TotalCount,
		RatePerKS:    lc.RatePerKS,
		RatePerS:     lc.RatePerS,
	}
}
