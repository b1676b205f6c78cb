// Package binning aggregates ordered sequences into fixed-size groups, either
// summed (rate analysis) or kept as raw slices (regression input).
package binning

import "errors"

// ErrInvalidBinSize is returned when a bin size below 1 is requested.
var ErrInvalidBinSize = errors.New("binning: binsize must be at least 1")

// Sum walks seq in consecutive strides of binsize elements and returns the
// per-bin sums. Trailing elements that do not fill a whole bin are dropped;
// a binsize larger than the sequence yields an empty result, not an error.
func Sum(seq []float64, binsize int) ([]float64, error) {
	if binsize < 1 {
		return nil, ErrInvalidBinSize
	}

	bins := len(seq) / binsize
	out := make([]float64, bins)
	for j := 0; j < bins; j++ {
		start := j * binsize
		sum := 0.0
		for _, v := range seq[start : start+binsize] {
			sum += v
		}
		out[j] = sum
	}
	return out, nil
}

// Groups splits seq into consecutive bins of binsize elements and returns each
// bin unaggregated. Same stride walk and remainder policy as Sum, so parallel
// calls over equal-length sequences stay aligned bin for bin.
func Groups(seq []float64, binsize int) ([][]float64, error) {
	if binsize < 1 {
		return nil, ErrInvalidBinSize
	}

	bins := len(seq) / binsize
	out := make([][]float64, bins)
	for j := 0; j < bins; j++ {
		start := j * binsize
		bin := make([]float64, binsize)
		copy(bin, seq[start:start+binsize])
		out[j] = bin
	}
	return out, nil
}
