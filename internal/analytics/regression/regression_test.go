package regression

import (
	"math"
	"testing"
)

func TestFit_ExactLine(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}

	slope, intercept, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if math.Abs(slope-2) > 1e-12 {
		t.Errorf("Expected slope 2, got %v", slope)
	}
	if math.Abs(intercept-1) > 1e-12 {
		t.Errorf("Expected intercept 1, got %v", intercept)
	}
}

func TestFit_FlatLine(t *testing.T) {
	slope, _, err := Fit([]float64{1, 2, 3}, []float64{7, 7, 7})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if slope != 0 {
		t.Errorf("Expected slope 0 for flat series, got %v", slope)
	}
}

func TestFit_Undefined(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"constant x", []float64{2, 2, 2}, []float64{1, 2, 3}},
		{"single point", []float64{1}, []float64{1}},
		{"empty", nil, nil},
		{"mismatched lengths", []float64{1, 2}, []float64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Fit(tt.x, tt.y); err != ErrUndefinedFit {
				t.Errorf("Expected ErrUndefinedFit, got %v", err)
			}
		})
	}
}

func TestSlopeOrZero(t *testing.T) {
	if got := SlopeOrZero([]float64{2, 2, 2}, []float64{1, 2, 3}); got != 0 {
		t.Errorf("Expected 0 for undefined fit, got %v", got)
	}
	if got := SlopeOrZero([]float64{0, 1, 2}, []float64{0, 3, 6}); math.Abs(got-3) > 1e-12 {
		t.Errorf("Expected slope 3, got %v", got)
	}
}
