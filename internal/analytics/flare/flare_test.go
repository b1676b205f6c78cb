package flare

import (
	"math"
	"reflect"
	"testing"

	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// syntheticLightcurve builds a constant-rate observation of n samples at
// quiet counts per sample, with counts replaced by flareCounts over
// [flareStart, flareStart+flareLen).
func syntheticLightcurve(t *testing.T, n int, quiet, flareCounts float64, flareStart, flareLen int) *lightcurve.Lightcurve {
	t.Helper()

	records := make([]lightcurve.RawRecord, n)
	for i := range records {
		counts := quiet
		if i >= flareStart && i < flareStart+flareLen {
			counts = flareCounts
		}
		records[i] = lightcurve.RawRecord{Exposure: 1, Counts: counts}
	}

	lc, err := lightcurve.Derive(records, lightcurve.DefaultBinSeconds, lightcurve.Metadata{})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	return lc
}

func TestOutliers(t *testing.T) {
	slopes := []float64{0.1, 0.1, 0.1, 5.0, 0.1}
	got := Outliers(slopes, 2.0)
	want := []int{3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected outliers %v, got %v", want, got)
	}
}

func TestOutliers_TwoSided(t *testing.T) {
	// A deep dip deviates as far below the mean as a spike does above it.
	slopes := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, -40}
	got := Outliers(slopes, 2.0)
	if !reflect.DeepEqual(got, []int{9}) {
		t.Errorf("Expected negative outlier flagged, got %v", got)
	}
}

func TestOutliers_Degenerate(t *testing.T) {
	if got := Outliers([]float64{1, 1, 1, 1}, 2.0); got != nil {
		t.Errorf("Expected nil for zero-variance slopes, got %v", got)
	}
	if got := Outliers([]float64{7}, 2.0); got != nil {
		t.Errorf("Expected nil for a single slope, got %v", got)
	}
	if got := Outliers(nil, 2.0); got != nil {
		t.Errorf("Expected nil for empty slopes, got %v", got)
	}
}

func TestSlopes_Constant(t *testing.T) {
	lc := syntheticLightcurve(t, 100, 2, 2, 0, 0)

	slopes, err := Slopes(lc, 10)
	if err != nil {
		t.Fatalf("Slopes failed: %v", err)
	}
	if len(slopes) != 10 {
		t.Fatalf("Expected 10 regression bins, got %d", len(slopes))
	}

	// Constant rate: every bin's slope matches counts per kilosecond.
	want := 2 / (lightcurve.DefaultBinSeconds / 1000)
	for i, s := range slopes {
		if math.Abs(s-want) > 1e-6 {
			t.Errorf("Bin %d: expected slope %v, got %v", i, want, s)
		}
	}
}

func TestSlopes_BinSizeOne(t *testing.T) {
	lc := syntheticLightcurve(t, 20, 1, 1, 0, 0)

	slopes, err := Slopes(lc, 1)
	if err != nil {
		t.Fatalf("Slopes failed: %v", err)
	}
	// Single-point bins have no defined fit, so every slope is 0.
	for i, s := range slopes {
		if s != 0 {
			t.Errorf("Bin %d: expected slope 0 for single-point bin, got %v", i, s)
		}
	}
}

func TestCandidates_Offsets(t *testing.T) {
	lc := syntheticLightcurve(t, 2000, 1, 50, 1000, 100)

	candidates, err := Candidates(lc, DefaultConfig())
	if err != nil {
		t.Fatalf("Candidates failed: %v", err)
	}
	if len(candidates) != 10 {
		t.Fatalf("Expected 10 flagged bins, got %d", len(candidates))
	}

	for i, c := range candidates {
		wantIdx := 100 + i
		if c.BinIndex != wantIdx {
			t.Errorf("Candidate %d: expected bin index %d, got %d", i, wantIdx, c.BinIndex)
		}
		wantOffset := float64(wantIdx) * 10 * lc.BinSeconds
		if math.Abs(c.OffsetSeconds-wantOffset) > 1e-9 {
			t.Errorf("Candidate %d: expected offset %v, got %v", i, wantOffset, c.OffsetSeconds)
		}
		if c.Slope <= 0 {
			t.Errorf("Candidate %d: expected positive slope, got %v", i, c.Slope)
		}
	}
}

func TestDetect_Flare(t *testing.T) {
	lc := syntheticLightcurve(t, 2000, 1, 50, 1000, 100)

	found, err := Detect(lc, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if !found {
		t.Error("Expected a flare in the spiked lightcurve")
	}
}

func TestDetect_QuietSource(t *testing.T) {
	lc := syntheticLightcurve(t, 2000, 1, 1, 0, 0)

	found, err := Detect(lc, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if found {
		t.Error("Expected no flare in a constant-rate lightcurve")
	}
}

func TestDetect_ShortObservation(t *testing.T) {
	lc := syntheticLightcurve(t, 5, 1, 1, 0, 0)

	found, err := Detect(lc, DefaultConfig())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if found {
		t.Error("Expected no flare when the observation cannot fill a single bin")
	}
}

func TestClusters_FlarePosition(t *testing.T) {
	lc := syntheticLightcurve(t, 2000, 1, 50, 1000, 100)

	clusters, err := Clusters(lc, DefaultConfig())
	if err != nil {
		t.Fatalf("Clusters failed: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 flare cluster, got %d", len(clusters))
	}

	// Flagged bins 100..109 fill window 10 exactly; its first bin sits at
	// sample 1000.
	wantOffset := 100 * 10 * lc.BinSeconds
	if math.Abs(clusters[0]-wantOffset) > 1e-9 {
		t.Errorf("Expected cluster offset %v, got %v", wantOffset, clusters[0])
	}
}

func TestCandidateOffsets(t *testing.T) {
	lc := syntheticLightcurve(t, 2000, 1, 50, 1000, 100)

	offsets, err := CandidateOffsets(lc, 10)
	if err != nil {
		t.Fatalf("CandidateOffsets failed: %v", err)
	}
	if len(offsets) != 10 {
		t.Fatalf("Expected 10 offsets, got %d", len(offsets))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			t.Errorf("Offsets not strictly increasing at %d", i)
		}
	}
}
