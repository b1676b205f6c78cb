// Package downsampling reduces lightcurve series to a target point count for
// plotting and transfer. All algorithms operate on parallel x/y slices and
// keep selected points in time order.
package downsampling

import (
	"fmt"
	"math"
)

// Mode represents the downsampling mode
type Mode string

const (
	// ModeNone means no downsampling
	ModeNone Mode = "none"
	// ModeAuto automatically determines if downsampling is needed
	ModeAuto Mode = "auto"
	// ModeLTTB uses Largest-Triangle-Three-Buckets algorithm
	ModeLTTB Mode = "lttb"
	// ModeMinMax keeps min and max values per bucket (preserves peaks/spikes)
	ModeMinMax Mode = "minmax"
	// ModeAverage uses average value per bucket
	ModeAverage Mode = "avg"
	// ModeM4 keeps First, Min, Max, Last per bucket (4 points per bucket)
	ModeM4 Mode = "m4"
)

// DefaultAutoThreshold is the default threshold for auto mode
const DefaultAutoThreshold = 1000

// MinLTTBThreshold is the minimum threshold for LTTB algorithm
const MinLTTBThreshold = 100

// ValidModes returns all valid downsampling modes
func ValidModes() []Mode {
	return []Mode{ModeNone, ModeAuto, ModeLTTB, ModeMinMax, ModeAverage, ModeM4}
}

// IsValid checks if a mode string is valid
func IsValid(mode string) bool {
	for _, m := range ValidModes() {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// Apply downsamples the (x, y) series to roughly threshold points.
// x: time axis values (kiloseconds), y: the measured series.
// mode: downsampling mode. threshold: target number of points.
func Apply(x, y []float64, mode Mode, threshold int) ([]float64, []float64, error) {
	if mode == ModeNone {
		return x, y, nil
	}

	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("time and value arrays must have same length")
	}

	if len(x) == 0 {
		return x, y, nil
	}

	// Determine if downsampling is needed
	if mode == ModeAuto {
		if threshold <= 0 {
			threshold = DefaultAutoThreshold
		}
		// Only downsample if we have more points than threshold
		if len(y) <= threshold {
			return x, y, nil
		}
		// Auto-detect best algorithm based on data characteristics
		mode = detectBestAlgorithm(y)
	}

	// Check threshold
	if threshold < 2 {
		threshold = 2
	}
	if len(y) <= threshold {
		// No need to downsample
		return x, y, nil
	}

	var sampledIndices []int

	switch mode {
	case ModeLTTB:
		if threshold < MinLTTBThreshold {
			threshold = MinLTTBThreshold
		}
		sampledIndices = lttb(x, y, threshold)

	case ModeMinMax:
		sampledIndices = minmax(y, threshold)

	case ModeAverage:
		// Average returns computed values, not indices
		return averageDownsample(x, y, threshold)

	case ModeM4:
		sampledIndices = m4(y, threshold)

	default:
		return x, y, fmt.Errorf("unknown downsampling mode: %s", mode)
	}

	outX := make([]float64, len(sampledIndices))
	outY := make([]float64, len(sampledIndices))
	for i, idx := range sampledIndices {
		outX[i] = x[idx]
		outY[i] = y[idx]
	}
	return outX, outY, nil
}

// detectBestAlgorithm analyzes data characteristics and selects the most appropriate algorithm
// Returns the recommended downsampling mode based on:
// - Spikiness: high variance/outliers → MinMax to preserve peaks (flares matter)
// - Smoothness: low variance → LTTB for visual accuracy
// - Large datasets: very high point count → Average for performance
func detectBestAlgorithm(y []float64) Mode {
	n := len(y)

	// For very large datasets, prefer Average for performance
	if n > 100000 {
		// But check if data has significant spikes first
		spikiness := calculateSpikiness(y)
		if spikiness > 0.2 {
			return ModeMinMax // Preserve important peaks
		}
		return ModeAverage // Fast for large smooth data
	}

	spikiness := calculateSpikiness(y)

	// High spikiness (many outliers/peaks) → MinMax to preserve peaks
	if spikiness > 0.2 {
		return ModeMinMax
	}

	// Medium spikiness → M4 for balanced visual representation
	if spikiness > 0.1 {
		return ModeM4
	}

	// Low spikiness (smooth data) → LTTB for best visual quality
	return ModeLTTB
}

// calculateSpikiness measures how "spiky" the data is
// Returns a value between 0 (smooth) and 1 (very spiky)
// Based on the ratio of points that deviate significantly from local trend
func calculateSpikiness(y []float64) float64 {
	if len(y) < 10 {
		return 0 // Not enough data to determine
	}

	sum := 0.0
	for _, v := range y {
		sum += v
	}
	mean := sum / float64(len(y))

	variance := 0.0
	for _, v := range y {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(y))
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0 // All values are the same
	}

	// Count "spikes" - points that deviate more than 2 standard deviations from mean
	// Also consider local changes (derivative spikes)
	spikeCount := 0
	derivativeSpikeCount := 0

	for i, v := range y {
		// Check absolute deviation
		if math.Abs(v-mean) > 2*stdDev {
			spikeCount++
		}

		// Check derivative (rate of change)
		if i > 0 {
			change := math.Abs(v - y[i-1])
			if change > stdDev {
				derivativeSpikeCount++
			}
		}
	}

	// Combine both measures
	absoluteSpikiness := float64(spikeCount) / float64(len(y))
	derivativeSpikiness := float64(derivativeSpikeCount) / float64(len(y)-1)

	// Weight derivative changes slightly higher (they're more visually important)
	spikiness := (absoluteSpikiness + 1.5*derivativeSpikiness) / 2.5

	// Clamp to [0, 1]
	if spikiness > 1 {
		spikiness = 1
	}

	return spikiness
}

// lttb implements the Largest-Triangle-Three-Buckets algorithm
// Returns indices of selected points in the original array
func lttb(x, y []float64, threshold int) []int {
	if len(y) <= threshold {
		indices := make([]int, len(y))
		for i := range y {
			indices[i] = i
		}
		return indices
	}

	if threshold <= 2 {
		// Edge case: return first and last
		if len(y) >= 2 {
			return []int{0, len(y) - 1}
		}
		return []int{0}
	}

	sampled := make([]int, 0, threshold)

	// Always include first point
	sampled = append(sampled, 0)

	// Bucket size (excluding first and last points)
	bucketSize := float64(len(y)-2) / float64(threshold-2)

	// Index of the point selected from the previous bucket
	a := 0

	for i := 0; i < threshold-2; i++ {
		// Calculate point average for next bucket
		avgRangeStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		avgRangeEnd := int(math.Floor(float64(i+2)*bucketSize)) + 1
		if avgRangeEnd >= len(y) {
			avgRangeEnd = len(y)
		}

		avgX := 0.0
		avgY := 0.0
		avgRangeLength := avgRangeEnd - avgRangeStart

		for ; avgRangeStart < avgRangeEnd; avgRangeStart++ {
			avgX += x[avgRangeStart]
			avgY += y[avgRangeStart]
		}
		avgX /= float64(avgRangeLength)
		avgY /= float64(avgRangeLength)

		// Get the range for this bucket
		rangeOffs := int(math.Floor(float64(i)*bucketSize)) + 1
		rangeTo := int(math.Floor(float64(i+1)*bucketSize)) + 1

		// Point a (previous selected point)
		pointAX := x[a]
		pointAY := y[a]

		maxArea := -1.0
		var maxAreaPoint int

		for ; rangeOffs < rangeTo; rangeOffs++ {
			// Calculate triangle area over three buckets
			area := math.Abs((pointAX-avgX)*(y[rangeOffs]-pointAY)-
				(pointAX-x[rangeOffs])*(avgY-pointAY)) * 0.5

			if area > maxArea {
				maxArea = area
				maxAreaPoint = rangeOffs
			}
		}

		sampled = append(sampled, maxAreaPoint)
		a = maxAreaPoint
	}

	// Always include last point
	sampled = append(sampled, len(y)-1)

	return sampled
}

// minmax implements Min-Max downsampling algorithm
// Returns both min and max indices for each bucket to preserve peaks and valleys
// Output size: ~2 * numBuckets (min + max per bucket)
func minmax(y []float64, threshold int) []int {
	if len(y) <= threshold {
		indices := make([]int, len(y))
		for i := range y {
			indices[i] = i
		}
		return indices
	}

	// Calculate number of buckets (we return 2 points per bucket: min and max)
	numBuckets := threshold / 2
	if numBuckets < 1 {
		numBuckets = 1
	}

	bucketSize := float64(len(y)) / float64(numBuckets)
	sampled := make([]int, 0, numBuckets*2)

	for i := 0; i < numBuckets; i++ {
		bucketStart := int(float64(i) * bucketSize)
		bucketEnd := int(float64(i+1) * bucketSize)
		if bucketEnd > len(y) {
			bucketEnd = len(y)
		}
		if bucketStart >= bucketEnd {
			continue
		}

		// Find min and max in this bucket
		minIdx := bucketStart
		maxIdx := bucketStart
		minVal := y[bucketStart]
		maxVal := y[bucketStart]

		for j := bucketStart + 1; j < bucketEnd; j++ {
			if y[j] < minVal {
				minVal = y[j]
				minIdx = j
			}
			if y[j] > maxVal {
				maxVal = y[j]
				maxIdx = j
			}
		}

		// Add in time order (min first if it comes before max)
		if minIdx <= maxIdx {
			sampled = append(sampled, minIdx)
			if minIdx != maxIdx {
				sampled = append(sampled, maxIdx)
			}
		} else {
			sampled = append(sampled, maxIdx)
			sampled = append(sampled, minIdx)
		}
	}

	return sampled
}

// averageDownsample computes average values per bucket
// Returns new x/y arrays with computed averages (not original values)
func averageDownsample(x, y []float64, threshold int) ([]float64, []float64, error) {
	if len(y) <= threshold {
		return x, y, nil
	}

	numBuckets := threshold
	bucketSize := float64(len(y)) / float64(numBuckets)

	outX := make([]float64, 0, numBuckets)
	outY := make([]float64, 0, numBuckets)

	for i := 0; i < numBuckets; i++ {
		bucketStart := int(float64(i) * bucketSize)
		bucketEnd := int(float64(i+1) * bucketSize)
		if bucketEnd > len(y) {
			bucketEnd = len(y)
		}
		if bucketStart >= bucketEnd {
			continue
		}

		sum := 0.0
		count := 0
		for j := bucketStart; j < bucketEnd; j++ {
			sum += y[j]
			count++
		}

		if count > 0 {
			avg := sum / float64(count)
			// Use the middle point's time as representative
			midIdx := bucketStart + count/2
			outX = append(outX, x[midIdx])
			outY = append(outY, avg)
		}
	}

	return outX, outY, nil
}

// m4 implements the M4 downsampling algorithm
// Returns First, Min, Max, Last indices for each bucket (up to 4 points per bucket)
// This preserves the visual shape better than simple min/max
func m4(y []float64, threshold int) []int {
	if len(y) <= threshold {
		indices := make([]int, len(y))
		for i := range y {
			indices[i] = i
		}
		return indices
	}

	// Calculate number of buckets (we return up to 4 points per bucket)
	numBuckets := threshold / 4
	if numBuckets < 1 {
		numBuckets = 1
	}

	bucketSize := float64(len(y)) / float64(numBuckets)
	sampled := make([]int, 0, numBuckets*4)

	for i := 0; i < numBuckets; i++ {
		bucketStart := int(float64(i) * bucketSize)
		bucketEnd := int(float64(i+1) * bucketSize)
		if bucketEnd > len(y) {
			bucketEnd = len(y)
		}
		if bucketStart >= bucketEnd {
			continue
		}

		firstIdx := bucketStart
		lastIdx := bucketEnd - 1
		minIdx := bucketStart
		maxIdx := bucketStart
		minVal := y[bucketStart]
		maxVal := y[bucketStart]

		// Find min and max in this bucket
		for j := bucketStart + 1; j < bucketEnd; j++ {
			if y[j] < minVal {
				minVal = y[j]
				minIdx = j
			}
			if y[j] > maxVal {
				maxVal = y[j]
				maxIdx = j
			}
		}

		// Collect unique indices in time order
		// Order: first, then min/max (in time order), then last
		indicesSet := make(map[int]bool)
		orderedIndices := make([]int, 0, 4)

		// Add first
		if !indicesSet[firstIdx] {
			orderedIndices = append(orderedIndices, firstIdx)
			indicesSet[firstIdx] = true
		}

		// Add min and max in time order (between first and last)
		midPoints := []int{}
		if minIdx != firstIdx && minIdx != lastIdx && !indicesSet[minIdx] {
			midPoints = append(midPoints, minIdx)
		}
		if maxIdx != firstIdx && maxIdx != lastIdx && !indicesSet[maxIdx] {
			midPoints = append(midPoints, maxIdx)
		}
		// Sort midPoints by index (time order)
		if len(midPoints) == 2 && midPoints[0] > midPoints[1] {
			midPoints[0], midPoints[1] = midPoints[1], midPoints[0]
		}
		for _, idx := range midPoints {
			if !indicesSet[idx] {
				orderedIndices = append(orderedIndices, idx)
				indicesSet[idx] = true
			}
		}

		// Add last
		if !indicesSet[lastIdx] {
			orderedIndices = append(orderedIndices, lastIdx)
			indicesSet[lastIdx] = true
		}

		sampled = append(sampled, orderedIndices...)
	}

	return sampled
}
