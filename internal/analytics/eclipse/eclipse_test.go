package eclipse

import (
	"math"
	"testing"

	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// dippedLightcurve builds a bright observation whose counts drop to zero over
// [dipStart, dipStart+dipLen).
func dippedLightcurve(t *testing.T, n int, bright float64, dipStart, dipLen int) *lightcurve.Lightcurve {
	t.Helper()

	records := make([]lightcurve.RawRecord, n)
	for i := range records {
		counts := bright
		if i >= dipStart && i < dipStart+dipLen {
			counts = 0
		}
		records[i] = lightcurve.RawRecord{Exposure: 1, Counts: counts}
	}

	lc, err := lightcurve.Derive(records, lightcurve.DefaultBinSeconds, lightcurve.Metadata{})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	return lc
}

func TestDetect_Eclipse(t *testing.T) {
	cfg := Config{BinSize: 10, MaxSlope: 1.0}
	lc := dippedLightcurve(t, 500, 5, 100, 300)

	clusters, err := Detect(lc, cfg)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 eclipse cluster, got %d", len(clusters))
	}

	// Samples 100..399 span regression bins 10..39.
	run := clusters[0]
	if len(run) != 30 {
		t.Fatalf("Expected 30 low-slope bins in the cluster, got %d", len(run))
	}
	wantFirst := 10 * 10 * lc.BinSeconds
	if math.Abs(run[0]-wantFirst) > 1e-9 {
		t.Errorf("Expected first offset %v, got %v", wantFirst, run[0])
	}
	for i := 1; i < len(run); i++ {
		if run[i] <= run[i-1] {
			t.Errorf("Cluster offsets not strictly increasing at %d", i)
		}
	}
}

func TestDetect_IsolatedDipIgnored(t *testing.T) {
	cfg := Config{BinSize: 10, MaxSlope: 1.0}
	// A single low bin is noise, not an eclipse.
	lc := dippedLightcurve(t, 500, 5, 100, 10)

	clusters, err := Detect(lc, cfg)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(clusters) != 0 {
		t.Errorf("Expected no clusters for an isolated dip, got %v", clusters)
	}
}

func TestDetect_BrightSource(t *testing.T) {
	cfg := Config{BinSize: 10, MaxSlope: 1.0}
	lc := dippedLightcurve(t, 500, 5, 0, 0)

	clusters, err := Detect(lc, cfg)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(clusters) != 0 {
		t.Errorf("Expected no clusters for a steady bright source, got %v", clusters)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BinSize != 300 {
		t.Errorf("Expected bin size 300, got %d", cfg.BinSize)
	}
	if cfg.MaxSlope != 1.0 {
		t.Errorf("Expected max slope 1.0, got %v", cfg.MaxSlope)
	}
}
