package services

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/fluxlc/fluxlc/internal/catalog"
	"github.com/fluxlc/fluxlc/internal/coords"
	"github.com/fluxlc/fluxlc/internal/logging"
)

// CatalogService handles archive index and download business logic
type CatalogService struct {
	logger      *logging.Logger
	client      *catalog.Client
	downloadDir string
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(logger *logging.Logger, client *catalog.Client, downloadDir string) *CatalogService {
	return &CatalogService{
		logger:      logger,
		client:      client,
		downloadDir: downloadDir,
	}
}

// Sync downloads any galaxy indexes missing from disk and returns how many
// were fetched.
func (s *CatalogService) Sync(ctx context.Context) (int, error) {
	start := time.Now()

	fetched, err := s.client.SyncIndex(ctx)
	if err != nil {
		return fetched, &ServiceError{
			Code:    "SYNC_FAILED",
			Message: err.Error(),
			Details: map[string]interface{}{"fetched": fetched},
		}
	}

	s.logger.Info("Catalog index synced",
		"fetched", fetched, "duration", time.Since(start))
	return fetched, nil
}

// Galaxies returns every galaxy the archive covers.
func (s *CatalogService) Galaxies(ctx context.Context) []string {
	return catalog.DefaultGalaxies()
}

// Files returns the lightcurve filenames of one galaxy.
func (s *CatalogService) Files(ctx context.Context, galaxy string) ([]string, error) {
	files, err := s.client.Files(galaxy)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownGalaxy) {
			return nil, &ServiceError{
				Code:    "GALAXY_NOT_FOUND",
				Message: "Galaxy is not in the archive",
				Details: map[string]interface{}{"galaxy": galaxy},
			}
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ServiceError{
				Code:    "INDEX_NOT_SYNCED",
				Message: "Galaxy index is not synced; sync the catalog first",
				Details: map[string]interface{}{"galaxy": galaxy},
			}
		}
		return nil, &ServiceError{
			Code:    "INDEX_READ_FAILED",
			Message: err.Error(),
			Details: map[string]interface{}{"galaxy": galaxy},
		}
	}
	return files, nil
}

// Search returns the archive files whose source lies within the match window
// of the given J2000 coordinates.
func (s *CatalogService) Search(ctx context.Context, coordinates string) ([]string, error) {
	matches, err := s.client.Search(coordinates)
	if err != nil {
		if errors.Is(err, coords.ErrMalformedCoordinates) {
			return nil, &ServiceError{
				Code:    "INVALID_COORDINATES",
				Message: "Coordinates must follow the J2000 format",
				Details: map[string]interface{}{"coordinates": coordinates},
			}
		}
		return nil, &ServiceError{
			Code:    "SEARCH_FAILED",
			Message: err.Error(),
		}
	}
	return matches, nil
}

// Download fetches raw lightcurves into the configured download directory.
func (s *CatalogService) Download(ctx context.Context, files []string) (*catalog.DownloadResult, error) {
	if len(files) == 0 {
		return nil, &ServiceError{
			Code:    "VALIDATION_ERROR",
			Message: "No files requested",
		}
	}

	start := time.Now()

	result, err := s.client.Download(ctx, files, s.downloadDir)
	if err != nil {
		return nil, &ServiceError{
			Code:    "DOWNLOAD_FAILED",
			Message: err.Error(),
		}
	}

	s.logger.Info("Download batch completed",
		"batch_id", result.BatchID,
		"downloaded", len(result.Downloaded),
		"failed", len(result.Failed),
		"bytes", result.Bytes,
		"duration", time.Since(start))

	return result, nil
}
