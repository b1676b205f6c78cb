package binning

import (
	"reflect"
	"testing"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name    string
		seq     []float64
		binsize int
		want    []float64
	}{
		{"identity", []float64{1, 2, 3}, 1, []float64{1, 2, 3}},
		{"pairs", []float64{1, 2, 3, 4, 5}, 2, []float64{3, 7}},
		{"whole", []float64{1, 2, 3, 4}, 4, []float64{10}},
		{"oversized bin", []float64{1, 2, 3}, 5, []float64{}},
		{"empty input", nil, 3, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.seq, tt.binsize)
			if err != nil {
				t.Fatalf("Sum failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSum_PreservesTotal(t *testing.T) {
	seq := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	binned, err := Sum(seq, 4)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}

	var rawTotal, binnedTotal float64
	for _, v := range seq {
		rawTotal += v
	}
	for _, v := range binned {
		binnedTotal += v
	}
	if rawTotal != binnedTotal {
		t.Errorf("Expected total %v preserved, got %v", rawTotal, binnedTotal)
	}
}

func TestSum_InvalidBinSize(t *testing.T) {
	for _, binsize := range []int{0, -1} {
		if _, err := Sum([]float64{1, 2, 3}, binsize); err != ErrInvalidBinSize {
			t.Errorf("Expected ErrInvalidBinSize for binsize %d, got %v", binsize, err)
		}
	}
}

func TestGroups(t *testing.T) {
	got, err := Groups([]float64{1, 2, 3, 4, 5, 6, 7}, 3)
	if err != nil {
		t.Fatalf("Groups failed: %v", err)
	}

	want := [][]float64{{1, 2, 3}, {4, 5, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGroups_InvalidBinSize(t *testing.T) {
	if _, err := Groups([]float64{1}, 0); err != ErrInvalidBinSize {
		t.Errorf("Expected ErrInvalidBinSize, got %v", err)
	}
}
