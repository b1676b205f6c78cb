// Package analytics provides the shared statistics helpers used by the
// analysis engines (binning, flare, eclipse, spectral).
package analytics

import "math"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values (divisor n).
// The observatory pipeline uses the population convention and the outlier
// thresholds are calibrated against it.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	varianceSum := 0.0
	for _, v := range values {
		diff := v - mean
		sq := diff * diff
		varianceSum += sq
	}
	return math.Sqrt(varianceSum / float64(len(values)))
}
