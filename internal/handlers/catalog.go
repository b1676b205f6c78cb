package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxlc/fluxlc/internal/models"
)

// SyncCatalog handles POST /v1/catalog/sync
func (h *Handler) SyncCatalog(c *fiber.Ctx) error {
	fetched, err := h.catalogService.Sync(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SyncResponse{Fetched: fetched})
}

// ListGalaxies handles GET /v1/catalog/galaxies
func (h *Handler) ListGalaxies(c *fiber.Ctx) error {
	galaxies := h.catalogService.Galaxies(c.Context())

	return c.JSON(models.GalaxyListResponse{
		Galaxies: galaxies,
		Count:    len(galaxies),
	})
}

// GalaxyFiles handles GET /v1/catalog/galaxies/:galaxy/files
func (h *Handler) GalaxyFiles(c *fiber.Ctx) error {
	galaxy := c.Params("galaxy")
	files, err := h.catalogService.Files(c.Context(), galaxy)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.GalaxyFilesResponse{
		Galaxy: galaxy,
		Files:  files,
		Count:  len(files),
	})
}

// SearchCatalog handles GET /v1/catalog/search?coordinates=...
func (h *Handler) SearchCatalog(c *fiber.Ctx) error {
	coordinates := c.Query("coordinates")
	if coordinates == "" {
		return validationError(c, "coordinates query parameter is required")
	}

	matches, err := h.catalogService.Search(c.Context(), coordinates)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SearchResponse{
		Coordinates: coordinates,
		Matches:     matches,
		Count:       len(matches),
	})
}

// DownloadFiles handles POST /v1/catalog/download
func (h *Handler) DownloadFiles(c *fiber.Ctx) error {
	var req models.DownloadRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError(c, "Invalid request body")
	}

	result, err := h.catalogService.Download(c.Context(), req.Files)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
