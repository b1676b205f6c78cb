package handlers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/downsampling"
	"github.com/fluxlc/fluxlc/internal/render"
	"github.com/fluxlc/fluxlc/internal/services"
)

// GetSeries handles GET /v1/observations/:obsid/series. The kind query
// parameter picks the series; binning, window, downsample, and threshold
// shape it. format=csv streams the series as a CSV attachment instead of
// JSON.
func (h *Handler) GetSeries(c *fiber.Ctx) error {
	mode := c.Query("downsample", string(downsampling.ModeAuto))
	if !downsampling.IsValid(mode) {
		return validationError(c, "Unknown downsample mode")
	}

	req := services.SeriesRequest{
		Kind:      c.Query("kind", render.KindCumulative),
		Binning:   c.QueryFloat("binning", 0),
		Window:    c.QueryInt("window", 0),
		Mode:      downsampling.Mode(mode),
		Threshold: c.QueryInt("threshold", 0),
	}
	if req.Window < 0 {
		return validationError(c, "window must not be negative")
	}

	obsID := c.Params("obsid")
	series, err := h.observationService.Series(c.Context(), obsID, req)
	if err != nil {
		return serviceError(c, err)
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		if err := render.WriteCSV(&buf, series); err != nil {
			return serviceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%s_%s.csv", obsID, series.Kind))
		return c.Send(buf.Bytes())
	}

	return c.JSON(series)
}
