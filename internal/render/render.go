// Package render turns derived lightcurves into plottable x/y series: the
// cumulative count curve, binned count rates, running averages, and the
// periodogram. Series can be downsampled for transfer and written as CSV.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fluxlc/fluxlc/internal/analytics/spectral"
	"github.com/fluxlc/fluxlc/internal/downsampling"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// Series kinds.
const (
	KindCumulative     = "cumulative"
	KindBinnedRate     = "binned_rate"
	KindRunningAverage = "running_average"
	KindPeriodogram    = "periodogram"
)

// Series is one plottable x/y pair with axis labels.
type Series struct {
	Kind   string    `json:"kind"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	return len(s.X)
}

// Cumulative returns the cumulative photon count curve over time.
func Cumulative(lc *lightcurve.Lightcurve) *Series {
	return &Series{
		Kind:   KindCumulative,
		XLabel: "Time (ks)",
		YLabel: "Net Photon Counts",
		X:      lc.TimeAxis,
		Y:      lc.CumulativeCounts,
	}
}

// BinnedRate groups raw photon counts into intervals of binning seconds and
// returns the count rate per interval. Each x value is the interval's start
// in kiloseconds; a trailing partial interval is dropped.
func BinnedRate(lc *lightcurve.Lightcurve, binning float64) (*Series, error) {
	groupSize := int(binning / lc.BinSeconds)
	if groupSize < 1 {
		return nil, fmt.Errorf("render: binning %vs is below the sampling interval", binning)
	}

	groups := len(lc.RawPhotonCounts) / groupSize
	x := make([]float64, groups)
	y := make([]float64, groups)
	for i := 0; i < groups; i++ {
		sum := 0.0
		for _, v := range lc.RawPhotonCounts[i*groupSize : (i+1)*groupSize] {
			sum += v
		}
		x[i] = float64(i) * lc.BinSeconds / 1000 * float64(groupSize)
		y[i] = sum / (lc.BinSeconds * float64(groupSize))
	}

	return &Series{
		Kind:   KindBinnedRate,
		XLabel: "Time (ks)",
		YLabel: "Count Rate (c/s)",
		X:      x,
		Y:      y,
	}, nil
}

// RunningAverage smooths the binned rate with a centered window of plusMinus
// intervals on each side. The window shrinks at the series edges.
func RunningAverage(lc *lightcurve.Lightcurve, binning float64, plusMinus int) (*Series, error) {
	if plusMinus < 0 {
		return nil, fmt.Errorf("render: negative averaging window")
	}

	binned, err := BinnedRate(lc, binning)
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(binned.Y))
	for i := range binned.Y {
		lo := i - plusMinus
		if lo < 0 {
			lo = 0
		}
		hi := i + plusMinus + 1
		if hi > len(binned.Y) {
			hi = len(binned.Y)
		}

		sum := 0.0
		for _, v := range binned.Y[lo:hi] {
			sum += v
		}
		y[i] = sum / float64(hi-lo)
	}

	return &Series{
		Kind:   KindRunningAverage,
		XLabel: binned.XLabel,
		YLabel: binned.YLabel,
		X:      binned.X,
		Y:      y,
	}, nil
}

// Periodogram returns the lightcurve's one-sided power spectrum.
func Periodogram(lc *lightcurve.Lightcurve) (*Series, error) {
	freqs, power, err := spectral.Periodogram(lc.RawPhotonCounts)
	if err != nil {
		return nil, err
	}

	return &Series{
		Kind:   KindPeriodogram,
		XLabel: "Frequency (cycles/sample)",
		YLabel: "Power",
		X:      freqs,
		Y:      power,
	}, nil
}

// Downsample reduces the series to roughly threshold points using the given
// mode, returning a new series.
func Downsample(s *Series, mode downsampling.Mode, threshold int) (*Series, error) {
	x, y, err := downsampling.Apply(s.X, s.Y, mode, threshold)
	if err != nil {
		return nil, err
	}

	return &Series{
		Kind:   s.Kind,
		XLabel: s.XLabel,
		YLabel: s.YLabel,
		X:      x,
		Y:      y,
	}, nil
}

// WriteCSV writes the series as a two-column CSV with a label header row.
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{s.XLabel, s.YLabel}); err != nil {
		return fmt.Errorf("render: write header: %w", err)
	}
	for i := range s.X {
		record := []string{
			strconv.FormatFloat(s.X[i], 'g', -1, 64),
			strconv.FormatFloat(s.Y[i], 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("render: write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
