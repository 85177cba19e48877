package stats

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		expect float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5.0}, 5.0},
		{"multiple", []float64{1, 2, 3, 4, 5}, 3.0},
		{"all_same", []float64{7, 7, 7}, 7.0},
		{"negative", []float64{-2, 0, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.input)
			if !approxEqual(got, tt.expect) {
				t.Errorf("Mean(%v) = %f, want %f", tt.input, got, tt.expect)
			}
		})
	}
}

func TestVariance(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		expect float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5.0}, 0},
		{"uniform", []float64{3, 3, 3}, 0},
		{"simple", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 4.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Variance(tt.input)
			if !approxEqual(got, tt.expect) {
				t.Errorf("Variance(%v) = %f, want %f", tt.input, got, tt.expect)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		expect float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5.0}, 0},
		{"simple", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2.0},
		// two pooled seeds after percentage scaling: population std of
		// [90, 80] is 5
		{"two_seeds", []float64{90, 80}, 5.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StdDev(tt.input)
			if !approxEqual(got, tt.expect) {
				t.Errorf("StdDev(%v) = %f, want %f", tt.input, got, tt.expect)
			}
		})
	}
}

func TestConfidenceInterval95(t *testing.T) {
	t.Run("fewer_than_two", func(t *testing.T) {
		lo, hi := ConfidenceInterval95([]float64{42})
		if !approxEqual(lo, 42) || !approxEqual(hi, 42) {
			t.Errorf("CI95([42]) = (%f, %f), want (42, 42)", lo, hi)
		}
	})
	t.Run("symmetric", func(t *testing.T) {
		lo, hi := ConfidenceInterval95([]float64{80, 90})
		m := 85.0
		if !approxEqual(m-lo, hi-m) {
			t.Errorf("CI95 not symmetric around mean: (%f, %f)", lo, hi)
		}
		if lo >= hi {
			t.Errorf("CI95 lower %f >= upper %f", lo, hi)
		}
	})
}

func TestBootstrapCI_Deterministic(t *testing.T) {
	values := []float64{70, 80, 90, 95}
	a := BootstrapCIWithSeed(values, 0.95, 7)
	b := BootstrapCIWithSeed(values, 0.95, 7)
	if a != b {
		t.Errorf("same seed produced different intervals: %+v vs %+v", a, b)
	}
	if a.Lower > a.Mean || a.Upper < a.Mean {
		t.Errorf("mean %f outside interval (%f, %f)", a.Mean, a.Lower, a.Upper)
	}
	if a.NumBootstraps != DefaultBootstrapIterations {
		t.Errorf("NumBootstraps = %d", a.NumBootstraps)
	}
}

func TestBootstrapCI_DegenerateInput(t *testing.T) {
	ci := BootstrapCI([]float64{85}, 0.95)
	if !approxEqual(ci.Lower, 85) || !approxEqual(ci.Upper, 85) {
		t.Errorf("single sample should collapse to the mean: %+v", ci)
	}
	if ci.NumBootstraps != 0 {
		t.Errorf("NumBootstraps = %d, want 0", ci.NumBootstraps)
	}
}
