package lightcurve

import (
	"math"
	"reflect"
	"testing"
)

func TestDerive_KnownObservation(t *testing.T) {
	records := []RawRecord{
		{Exposure: 1, Counts: 5},
		{Exposure: 1, Counts: 3},
		{Exposure: 0, Counts: 10}, // gap: counts ignored, axis still advances
	}

	lc, err := Derive(records, 1000, Metadata{ObsID: "1575"})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	wantCumulative := []float64{5, 8, 8}
	if !reflect.DeepEqual(lc.CumulativeCounts, wantCumulative) {
		t.Errorf("Expected cumulative counts %v, got %v", wantCumulative, lc.CumulativeCounts)
	}

	wantAxis := []float64{1, 2, 3}
	if !reflect.DeepEqual(lc.TimeAxis, wantAxis) {
		t.Errorf("Expected time axis %v, got %v", wantAxis, lc.TimeAxis)
	}

	wantRaw := []float64{5, 3, 0}
	if !reflect.DeepEqual(lc.RawPhotonCounts, wantRaw) {
		t.Errorf("Expected raw photon counts %v, got %v", wantRaw, lc.RawPhotonCounts)
	}

	if lc.TotalCount != 8 {
		t.Errorf("Expected total count 8, got %v", lc.TotalCount)
	}
	if lc.TotalTime != 3.0 {
		t.Errorf("Expected total time 3.0, got %v", lc.TotalTime)
	}
	if lc.RatePerKS != 2.667 {
		t.Errorf("Expected rate 2.667/ks, got %v", lc.RatePerKS)
	}
	if lc.RatePerS != 0.00267 {
		t.Errorf("Expected rate 0.00267/s, got %v", lc.RatePerS)
	}
	if lc.ObsID != "1575" {
		t.Errorf("Expected ObsID '1575', got '%s'", lc.ObsID)
	}
}

func TestDerive_Invariants(t *testing.T) {
	records := []RawRecord{
		{Exposure: 0.8, Counts: 2},
		{Exposure: 0, Counts: 7},
		{Exposure: 1, Counts: 0},
		{Exposure: 0.5, Counts: 4},
		{Exposure: 0, Counts: 1},
	}

	lc, err := Derive(records, DefaultBinSeconds, Metadata{})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if len(lc.TimeAxis) != len(records) || len(lc.CumulativeCounts) != len(records) || len(lc.RawPhotonCounts) != len(records) {
		t.Fatalf("Expected all series to have %d samples, got %d/%d/%d",
			len(records), len(lc.TimeAxis), len(lc.CumulativeCounts), len(lc.RawPhotonCounts))
	}

	for i := 1; i < lc.Len(); i++ {
		if lc.TimeAxis[i] <= lc.TimeAxis[i-1] {
			t.Errorf("Time axis not strictly increasing at %d: %v <= %v", i, lc.TimeAxis[i], lc.TimeAxis[i-1])
		}
		if lc.CumulativeCounts[i] < lc.CumulativeCounts[i-1] {
			t.Errorf("Cumulative counts decreasing at %d", i)
		}
	}

	// Last cumulative value equals the sum of counts over exposed bins only.
	exposedSum := 0.0
	for _, rec := range records {
		if rec.Exposure > 0 {
			exposedSum += rec.Counts
		}
	}
	last := lc.CumulativeCounts[lc.Len()-1]
	if last != exposedSum {
		t.Errorf("Expected final cumulative %v, got %v", exposedSum, last)
	}

	if math.Abs(lc.TotalTime-lc.TimeAxis[lc.Len()-1]) > 0.0005 {
		t.Errorf("Total time %v does not match last axis value %v", lc.TotalTime, lc.TimeAxis[lc.Len()-1])
	}
}

func TestDerive_Idempotent(t *testing.T) {
	records := []RawRecord{
		{Exposure: 1, Counts: 3},
		{Exposure: 1, Counts: 1},
		{Exposure: 0, Counts: 2},
		{Exposure: 1, Counts: 8},
	}

	first, err := Derive(records, DefaultBinSeconds, Metadata{ObsID: "790"})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}
	second, err := Derive(records, DefaultBinSeconds, Metadata{ObsID: "790"})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected bit-identical lightcurves from identical inputs")
	}
}

func TestDerive_EmptyInput(t *testing.T) {
	if _, err := Derive(nil, 1000, Metadata{}); err != ErrEmptyInput {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
}

func TestDerive_DegenerateObservation(t *testing.T) {
	records := []RawRecord{{Exposure: 1, Counts: 5}}
	if _, err := Derive(records, 0, Metadata{}); err != ErrDegenerateObservation {
		t.Errorf("Expected ErrDegenerateObservation, got %v", err)
	}
}
