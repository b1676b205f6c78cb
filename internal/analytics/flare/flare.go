// Package flare detects candidate flare events in a lightcurve by fitting a
// regression line to each bin of the cumulative-count series and flagging
// bins whose slope is a statistical outlier. Flagged bins are then merged
// into clusters, each cluster representing one flare event.
package flare

import (
	"math"

	"github.com/fluxlc/fluxlc/internal/analytics"
	"github.com/fluxlc/fluxlc/internal/analytics/binning"
	"github.com/fluxlc/fluxlc/internal/analytics/regression"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// Config controls a flare scan.
type Config struct {
	// BinSize is the number of samples per regression bin. It also sets the
	// clustering window: BinSize consecutive regression bins form one window.
	BinSize int

	// Sigma is how many population standard deviations a bin's slope must
	// deviate from the mean of all slopes to be flagged.
	Sigma float64

	// ClusterThreshold is the fraction of flagged bins a window needs to
	// count as one flare event, in (0, 1].
	ClusterThreshold float64
}

// DefaultConfig returns the scan parameters tuned for Chandra lightcurves.
func DefaultConfig() Config {
	return Config{
		BinSize:          10,
		Sigma:            2.0,
		ClusterThreshold: 0.3,
	}
}

// Candidate is one regression bin flagged as a slope outlier.
type Candidate struct {
	BinIndex      int     `json:"bin_index"`
	OffsetSeconds float64 `json:"offset_seconds"`
	Slope         float64 `json:"slope"`
}

// Slopes returns the per-bin regression slopes of cumulative counts against
// the time axis, one per whole bin of binsize samples. Both series are binned
// in lockstep so pairs stay aligned; undefined fits yield slope 0.
func Slopes(lc *lightcurve.Lightcurve, binsize int) ([]float64, error) {
	xBins, err := binning.Groups(lc.TimeAxis, binsize)
	if err != nil {
		return nil, err
	}
	yBins, err := binning.Groups(lc.CumulativeCounts, binsize)
	if err != nil {
		return nil, err
	}

	slopes := make([]float64, len(xBins))
	for i := range xBins {
		slopes[i] = regression.SlopeOrZero(xBins[i], yBins[i])
	}
	return slopes, nil
}

// Outliers returns the indexes of slopes whose absolute deviation from the
// mean is at least sigma population standard deviations. A zero standard
// deviation means no slope stands out and nothing is flagged.
func Outliers(slopes []float64, sigma float64) []int {
	if len(slopes) < 2 {
		return nil
	}

	mean := analytics.Mean(slopes)
	std := analytics.StdDev(slopes)
	if std == 0 {
		return nil
	}

	var out []int
	for i, s := range slopes {
		if math.Abs(s-mean) >= sigma*std {
			out = append(out, i)
		}
	}
	return out
}

// Candidates scans the lightcurve and returns the regression bins flagged as
// slope outliers. Each candidate's offset is bin_index * BinSize * BinSeconds,
// in seconds from the start of the observation.
func Candidates(lc *lightcurve.Lightcurve, cfg Config) ([]Candidate, error) {
	slopes, err := Slopes(lc, cfg.BinSize)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	for _, i := range Outliers(slopes, cfg.Sigma) {
		out = append(out, Candidate{
			BinIndex:      i,
			OffsetSeconds: float64(i) * float64(cfg.BinSize) * lc.BinSeconds,
			Slope:         slopes[i],
		})
	}
	return out, nil
}

// CandidateOffsets returns only the flagged time offsets for the given
// binsize, with the default thresholds otherwise.
func CandidateOffsets(lc *lightcurve.Lightcurve, binsize int) ([]float64, error) {
	cfg := DefaultConfig()
	cfg.BinSize = binsize

	candidates, err := Candidates(lc, cfg)
	if err != nil {
		return nil, err
	}

	offsets := make([]float64, len(candidates))
	for i, c := range candidates {
		offsets[i] = c.OffsetSeconds
	}
	return offsets, nil
}

// Clusters merges flagged bins into flare events. Regression bins are walked
// in windows of cfg.BinSize consecutive bins; a window whose flagged fraction
// reaches cfg.ClusterThreshold becomes one event, reported as the offset of
// its first bin in seconds.
func Clusters(lc *lightcurve.Lightcurve, cfg Config) ([]float64, error) {
	slopes, err := Slopes(lc, cfg.BinSize)
	if err != nil {
		return nil, err
	}

	flagged := make([]bool, len(slopes))
	for _, i := range Outliers(slopes, cfg.Sigma) {
		flagged[i] = true
	}

	var clusters []float64
	windows := len(flagged) / cfg.BinSize
	for w := 0; w < windows; w++ {
		start := w * cfg.BinSize
		count := 0
		for _, f := range flagged[start : start+cfg.BinSize] {
			if f {
				count++
			}
		}
		if float64(count)/float64(cfg.BinSize) >= cfg.ClusterThreshold {
			clusters = append(clusters, float64(start)*float64(cfg.BinSize)*lc.BinSeconds)
		}
	}
	return clusters, nil
}

// Detect reports whether at least one flare event survives clustering. Inputs
// too short to form two regression bins yield false rather than an error.
func Detect(lc *lightcurve.Lightcurve, cfg Config) (bool, error) {
	clusters, err := Clusters(lc, cfg)
	if err != nil {
		return false, err
	}
	return len(clusters) > 0, nil
}
