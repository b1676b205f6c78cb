package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fluxlc/fluxlc/internal/analytics/eclipse"
	"github.com/fluxlc/fluxlc/internal/analytics/flare"
	"github.com/fluxlc/fluxlc/internal/analytics/spectral"
	"github.com/fluxlc/fluxlc/internal/config"
	"github.com/fluxlc/fluxlc/internal/downsampling"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
	"github.com/fluxlc/fluxlc/internal/loader"
	"github.com/fluxlc/fluxlc/internal/logging"
	"github.com/fluxlc/fluxlc/internal/render"
	"github.com/fluxlc/fluxlc/internal/store"
)

// ObservationService handles lightcurve derivation and analysis business logic.
// Derived lightcurves are cached in memory and persisted through the store;
// analyses never mutate a cached lightcurve, so concurrent scans are safe
// under the read lock.
type ObservationService struct {
	logger *logging.Logger
	cfg    *config.Config
	store  *store.ObservationStore

	mu   sync.RWMutex
	open map[string]*lightcurve.Lightcurve
}

// NewObservationService creates a new ObservationService
func NewObservationService(logger *logging.Logger, cfg *config.Config, st *store.ObservationStore) *ObservationService {
	return &ObservationService{
		logger: logger,
		cfg:    cfg,
		store:  st,
		open:   make(map[string]*lightcurve.Lightcurve),
	}
}

// FlareScanResult represents the outcome of one flare scan
type FlareScanResult struct {
	ObsID            string            `json:"obs_id"`
	BinSize          int               `json:"bin_size"`
	Sigma            float64           `json:"sigma"`
	ClusterThreshold float64           `json:"cluster_threshold"`
	Candidates       []flare.Candidate `json:"candidates"`
	Events           []float64         `json:"events"`
	Detected         bool              `json:"detected"`
}

// EclipseScanResult represents the outcome of one eclipse scan
type EclipseScanResult struct {
	ObsID    string      `json:"obs_id"`
	BinSize  int         `json:"bin_size"`
	MaxSlope float64     `json:"max_slope"`
	Clusters [][]float64 `json:"clusters"`
	Detected bool        `json:"detected"`
}

// PeriodResult represents a dominant period estimate
type PeriodResult struct {
	ObsID          string  `json:"obs_id"`
	DominantPeriod float64 `json:"dominant_period"`
	Scale          float64 `json:"scale"`
}

// Open parses a raw lightcurve file, derives the observation aggregate, and
// caches it for later analysis. Relative paths are resolved against the
// configured raw data directory.
func (s *ObservationService) Open(ctx context.Context, path string) (*lightcurve.Lightcurve, error) {
	start := time.Now()

	resolved := path
	if !filepath.IsAbs(resolved) {
		if _, err := os.Stat(resolved); err != nil {
			resolved = filepath.Join(s.cfg.Data.RawDir, path)
		}
	}
	if _, err := os.Stat(resolved); err != nil {
		return nil, &ServiceError{
			Code:    "FILE_NOT_FOUND",
			Message: "Lightcurve file not found",
			Details: map[string]interface{}{"path": path},
		}
	}

	lc, err := loader.Load(resolved, s.cfg.Instrument.BinSeconds)
	if err != nil {
		switch {
		case errors.Is(err, loader.ErrUnsupportedFormat):
			return nil, &ServiceError{
				Code:    "UNSUPPORTED_FORMAT",
				Message: "File is neither a text nor a FITS lightcurve",
				Details: map[string]interface{}{"path": path},
			}
		case errors.Is(err, loader.ErrMalformedTable):
			return nil, &ServiceError{
				Code:    "MALFORMED_TABLE",
				Message: err.Error(),
				Details: map[string]interface{}{"path": path},
			}
		default:
			return nil, &ServiceError{
				Code:    "DERIVE_FAILED",
				Message: err.Error(),
				Details: map[string]interface{}{"path": path},
			}
		}
	}

	if err := s.store.Save(lc); err != nil {
		return nil, &ServiceError{
			Code:    "CACHE_WRITE_FAILED",
			Message: "Failed to persist derived lightcurve",
			Details: map[string]interface{}{"error": err.Error()},
		}
	}

	s.mu.Lock()
	s.open[lc.ObsID] = lc
	s.mu.Unlock()

	s.logger.Info("Observation opened",
		"obs_id", lc.ObsID,
		"samples", lc.Len(),
		"total_time", lc.TotalTime,
		"duration", time.Since(start))

	return lc, nil
}

// Get returns the cached lightcurve for an observation ID, loading it from
// the persistent store when it is not in memory.
func (s *ObservationService) Get(ctx context.Context, obsID string) (*lightcurve.Lightcurve, error) {
	s.mu.RLock()
	lc, ok := s.open[obsID]
	s.mu.RUnlock()
	if ok {
		return lc, nil
	}

	lc, err := s.store.Load(obsID)
	if err != nil {
		if errors.Is(err, store.ErrNotCached) {
			return nil, &ServiceError{
				Code:    "OBSERVATION_NOT_FOUND",
				Message: "Observation is not cached; open it first",
				Details: map[string]interface{}{"obs_id": obsID},
			}
		}
		return nil, &ServiceError{
			Code:    "CACHE_READ_FAILED",
			Message: err.Error(),
			Details: map[string]interface{}{"obs_id": obsID},
		}
	}

	s.mu.Lock()
	s.open[obsID] = lc
	s.mu.Unlock()

	return lc, nil
}

// List returns the IDs of every cached observation.
func (s *ObservationService) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.List()
	if err != nil {
		return nil, &ServiceError{
			Code:    "CACHE_READ_FAILED",
			Message: err.Error(),
		}
	}
	return ids, nil
}

// Delete evicts an observation from memory and the persistent store.
func (s *ObservationService) Delete(ctx context.Context, obsID string) error {
	s.mu.Lock()
	delete(s.open, obsID)
	s.mu.Unlock()

	if err := s.store.Delete(obsID); err != nil {
		if errors.Is(err, store.ErrNotCached) {
			return &ServiceError{
				Code:    "OBSERVATION_NOT_FOUND",
				Message: "Observation is not cached",
				Details: map[string]interface{}{"obs_id": obsID},
			}
		}
		return &ServiceError{
			Code:    "CACHE_DELETE_FAILED",
			Message: err.Error(),
			Details: map[string]interface{}{"obs_id": obsID},
		}
	}
	return nil
}

// FlareScan runs a flare scan over a cached observation.
func (s *ObservationService) FlareScan(ctx context.Context, obsID string, scanCfg flare.Config) (*FlareScanResult, error) {
	lc, err := s.Get(ctx, obsID)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	candidates, err := flare.Candidates(lc, scanCfg)
	if err != nil {
		return nil, scanError(obsID, err)
	}
	events, err := flare.Clusters(lc, scanCfg)
	if err != nil {
		return nil, scanError(obsID, err)
	}

	s.logger.Debug("Flare scan completed",
		"obs_id", obsID,
		"candidates", len(candidates),
		"events", len(events),
		"duration", time.Since(start))

	return &FlareScanResult{
		ObsID:            obsID,
		BinSize:          scanCfg.BinSize,
		Sigma:            scanCfg.Sigma,
		ClusterThreshold: scanCfg.ClusterThreshold,
		Candidates:       candidates,
		Events:           events,
		Detected:         len(events) > 0,
	}, nil
}

// EclipseScan runs an eclipse scan over a cached observation.
func (s *ObservationService) EclipseScan(ctx context.Context, obsID string, scanCfg eclipse.Config) (*EclipseScanResult, error) {
	lc, err := s.Get(ctx, obsID)
	if err != nil {
		return nil, err
	}

	clusters, err := eclipse.Detect(lc, scanCfg)
	if err != nil {
		return nil, scanError(obsID, err)
	}

	return &EclipseScanResult{
		ObsID:    obsID,
		BinSize:  scanCfg.BinSize,
		MaxSlope: scanCfg.MaxSlope,
		Clusters: clusters,
		Detected: len(clusters) > 0,
	}, nil
}

// Period estimates the dominant period of a cached observation.
func (s *ObservationService) Period(ctx context.Context, obsID string) (*PeriodResult, error) {
	lc, err := s.Get(ctx, obsID)
	if err != nil {
		return nil, err
	}

	scale := s.cfg.Instrument.PeriodScale
	period, err := spectral.DominantPeriod(lc.RawPhotonCounts, scale)
	if err != nil {
		return nil, scanError(obsID, err)
	}

	return &PeriodResult{
		ObsID:          obsID,
		DominantPeriod: period,
		Scale:          scale,
	}, nil
}

// SeriesRequest selects and shapes one plottable series.
type SeriesRequest struct {
	Kind      string
	Binning   float64
	Window    int
	Mode      downsampling.Mode
	Threshold int
}

// Series renders one plottable series of a cached observation, downsampled
// per the request.
func (s *ObservationService) Series(ctx context.Context, obsID string, req SeriesRequest) (*render.Series, error) {
	lc, err := s.Get(ctx, obsID)
	if err != nil {
		return nil, err
	}

	binning := req.Binning
	if binning <= 0 {
		binning = s.cfg.Analysis.RateBinning
	}

	var series *render.Series
	switch req.Kind {
	case render.KindCumulative, "":
		series = render.Cumulative(lc)
	case render.KindBinnedRate:
		series, err = render.BinnedRate(lc, binning)
	case render.KindRunningAverage:
		series, err = render.RunningAverage(lc, binning, req.Window)
	case render.KindPeriodogram:
		series, err = render.Periodogram(lc)
	default:
		return nil, &ServiceError{
			Code:    "INVALID_SERIES_KIND",
			Message: "Unknown series kind",
			Details: map[string]interface{}{"kind": req.Kind},
		}
	}
	if err != nil {
		return nil, scanError(obsID, err)
	}

	mode := req.Mode
	if mode == "" {
		mode = downsampling.ModeAuto
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.cfg.Analysis.DownsampleThreshold
	}

	series, err = render.Downsample(series, mode, threshold)
	if err != nil {
		return nil, &ServiceError{
			Code:    "DOWNSAMPLE_FAILED",
			Message: err.Error(),
			Details: map[string]interface{}{"mode": string(mode), "threshold": threshold},
		}
	}
	return series, nil
}

// scanError wraps an analysis failure in a service error.
func scanError(obsID string, err error) *ServiceError {
	return &ServiceError{
		Code:    "ANALYSIS_FAILED",
		Message: err.Error(),
		Details: map[string]interface{}{"obs_id": obsID},
	}
}
