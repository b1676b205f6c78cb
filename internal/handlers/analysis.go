package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/analytics/eclipse"
	"github.com/fluxlc/fluxlc/internal/analytics/flare"
)

// FlareScan handles GET /v1/observations/:obsid/flares. Query parameters
// bin_size, sigma, and cluster_threshold override the configured defaults.
func (h *Handler) FlareScan(c *fiber.Ctx) error {
	binSize, sigma, clusterThreshold := h.cfg.Analysis.FlareDefaults()

	scanCfg := flare.Config{
		BinSize:          c.QueryInt("bin_size", binSize),
		Sigma:            c.QueryFloat("sigma", sigma),
		ClusterThreshold: c.QueryFloat("cluster_threshold", clusterThreshold),
	}
	if scanCfg.BinSize < 1 {
		return validationError(c, "bin_size must be at least 1")
	}
	if scanCfg.Sigma <= 0 {
		return validationError(c, "sigma must be positive")
	}
	if scanCfg.ClusterThreshold <= 0 || scanCfg.ClusterThreshold > 1 {
		return validationError(c, "cluster_threshold must be in (0, 1]")
	}

	result, err := h.observationService.FlareScan(c.Context(), c.Params("obsid"), scanCfg)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// EclipseScan handles GET /v1/observations/:obsid/eclipses. Query parameters
// bin_size and max_slope override the configured defaults.
func (h *Handler) EclipseScan(c *fiber.Ctx) error {
	binSize, maxSlope := h.cfg.Analysis.EclipseDefaults()

	scanCfg := eclipse.Config{
		BinSize:  c.QueryInt("bin_size", binSize),
		MaxSlope: c.QueryFloat("max_slope", maxSlope),
	}
	if scanCfg.BinSize < 1 {
		return validationError(c, "bin_size must be at least 1")
	}

	result, err := h.observationService.EclipseScan(c.Context(), c.Params("obsid"), scanCfg)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}

// Period handles GET /v1/observations/:obsid/period
func (h *Handler) Period(c *fiber.Ctx) error {
	result, err := h.observationService.Period(c.Context(), c.Params("obsid"))
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(result)
}
