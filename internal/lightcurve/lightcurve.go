// Package lightcurve holds the immutable per-observation aggregate and its
// derivation from raw telescope records. A Lightcurve is built once from a
// loader's output and is read-only afterwards: every analysis engine takes it
// as input and returns new values.
package lightcurve

import (
	"errors"
	"math"
)

// DefaultBinSeconds is the Chandra instrument sampling interval in seconds.
// It is a configuration default rather than a hidden constant so the
// derivation can be reused across instrument modes.
const DefaultBinSeconds = 3.241039999999654

var (
	// ErrEmptyInput is returned when there are no records to derive from.
	ErrEmptyInput = errors.New("lightcurve: no records to derive from")

	// ErrDegenerateObservation is returned when the total observation time is
	// zero and rates are undefined.
	ErrDegenerateObservation = errors.New("lightcurve: zero total observation time")
)

// RawRecord is one telescope time bin as produced by the loader, ordered by
// acquisition time. Zero exposure marks a gap in the observation.
type RawRecord struct {
	Exposure float64 `json:"exposure"`
	Counts   float64 `json:"counts"`
}

// Metadata identifies the observation a lightcurve was extracted from.
type Metadata struct {
	ObsID        string `json:"obs_id"`
	SourceCoords string `json:"source_coords"`
	Path         string `json:"path"`
}

// Lightcurve is the derived per-observation aggregate.
type Lightcurve struct {
	Metadata

	// BinSeconds is the instrument sampling interval the time axis is built from.
	BinSeconds float64 `json:"bin_seconds"`

	// TimeAxis is BinSeconds*(i+1)/1000 per sample, in kiloseconds.
	TimeAxis []float64 `json:"time_axis"`

	// CumulativeCounts is the running photon total; gaps repeat the previous value.
	CumulativeCounts []float64 `json:"cumulative_counts"`

	// RawPhotonCounts carries the per-bin counts, zeroed where exposure is zero.
	RawPhotonCounts []float64 `json:"raw_photon_counts"`

	TotalTime  float64 `json:"total_time"` // ks, equals the last TimeAxis element
	TotalCount float64 `json:"total_count"`
	RatePerKS  float64 `json:"rate_per_ks"`
	RatePerS   float64 `json:"rate_per_s"`
}

// Derive builds a Lightcurve from ordered raw records in a single forward
// pass. A record with zero exposure contributes no counts but still advances
// the time axis and repeats the previous cumulative total, so no count is
// lost or duplicated across gaps.
func Derive(records []RawRecord, binSeconds float64, meta Metadata) (*Lightcurve, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	cumulative := make([]float64, len(records))
	raw := make([]float64, len(records))
	timeAxis := make([]float64, len(records))

	total := 0.0
	for i, rec := range records {
		if rec.Exposure > 0 {
			total += rec.Counts
			raw[i] = rec.Counts
		}
		cumulative[i] = total
		timeAxis[i] = binSeconds * float64(i+1) / 1000
	}

	totalTime := round(timeAxis[len(timeAxis)-1], 3)
	if totalTime <= 0 {
		return nil, ErrDegenerateObservation
	}

	return &Lightcurve{
		Metadata:         meta,
		BinSeconds:       binSeconds,
		TimeAxis:         timeAxis,
		CumulativeCounts: cumulative,
		RawPhotonCounts:  raw,
		TotalTime:        totalTime,
		TotalCount:       total,
		RatePerKS:        round(total/totalTime, 3),
		RatePerS:         round(total/(totalTime*1000), 5),
	}, nil
}

// Len returns the number of time bins.
func (lc *Lightcurve) Len() int {
	return len(lc.TimeAxis)
}

// round keeps the decimal precision the source reduction pipeline reports,
// so derived statistics stay comparable across tools.
func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
