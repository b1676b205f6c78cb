// Package regression fits ordinary least-squares lines to small point sets.
package regression

import (
	"errors"
	"math"
)

// ErrUndefinedFit is returned when no regression line exists for the input:
// fewer than two points, mismatched lengths, or zero variance in x.
var ErrUndefinedFit = errors.New("regression: fit is undefined for the given points")

// Fit computes the ordinary least-squares line through the (x, y) points and
// returns its slope and intercept.
func Fit(x, y []float64) (slope, intercept float64, err error) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, 0, ErrUndefinedFit
	}

	n := float64(len(x))
	sumX, sumY, sumXY, sumX2 := 0.0, 0.0, 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0, 0, ErrUndefinedFit
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, nil
}

// SlopeOrZero returns the OLS slope of the points, substituting 0 when the
// fit is undefined. NaN or infinite slopes never reach downstream outlier
// checks.
func SlopeOrZero(x, y []float64) float64 {
	slope, _, err := Fit(x, y)
	if err != nil || math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}
