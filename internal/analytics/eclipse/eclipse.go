// Package eclipse finds stretches of a lightcurve where the count rate drops
// to near zero, seen as runs of low regression slopes over the cumulative
// counts.
package eclipse

import (
	"github.com/fluxlc/fluxlc/internal/analytics/flare"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// Config controls an eclipse scan.
type Config struct {
	// BinSize is the number of samples per regression bin. Eclipse scans use
	// much coarser bins than flare scans since eclipses span long stretches.
	BinSize int

	// MaxSlope is the slope at or below which a bin counts as an eclipse
	// candidate.
	MaxSlope float64
}

// DefaultConfig returns the scan parameters tuned for Chandra lightcurves.
func DefaultConfig() Config {
	return Config{
		BinSize:  300,
		MaxSlope: 1.0,
	}
}

// Detect returns clusters of consecutive low-slope bins, each cluster an
// ordered list of bin offsets in seconds. Isolated single-bin dips are
// discarded as noise.
func Detect(lc *lightcurve.Lightcurve, cfg Config) ([][]float64, error) {
	slopes, err := flare.Slopes(lc, cfg.BinSize)
	if err != nil {
		return nil, err
	}

	var clusters [][]float64
	var run []float64
	for i, s := range slopes {
		if s <= cfg.MaxSlope {
			run = append(run, float64(i)*float64(cfg.BinSize)*lc.BinSeconds)
			continue
		}
		if len(run) > 1 {
			clusters = append(clusters, run)
		}
		run = nil
	}
	if len(run) > 1 {
		clusters = append(clusters, run)
	}
	return clusters, nil
}
