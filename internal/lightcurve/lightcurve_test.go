package lightcurve

import (
	"math"
	"testing"
)

func uniformTimes(n int, dt float64) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * dt
	}
	return times
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		time    []float64
		flux    []float64
		wantErr bool
	}{
		{"valid", []float64{0, 1, 2}, []float64{1, 2, 3}, false},
		{"length mismatch", []float64{0, 1, 2}, []float64{1, 2}, true},
		{"too short", []float64{0}, []float64{1}, true},
		{"non-increasing", []float64{0, 2, 2}, []float64{1, 2, 3}, true},
		{"decreasing", []float64{0, 2, 1}, []float64{1, 2, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.time, tt.flux)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMostCommonSpacing(t *testing.T) {
	// Uniform cadence of 0.5 with two larger gaps: the mode must ignore
	// the gaps where a mean would not.
	times := []float64{0, 0.5, 1, 1.5, 5, 5.5, 6, 9, 9.5}
	flux := make([]float64, len(times))
	lc, err := New(times, flux)
	if err != nil {
		t.Fatal(err)
	}
	if got := lc.MostCommonSpacing(); got != 0.5 {
		t.Errorf("MostCommonSpacing() = %g, want 0.5", got)
	}
}

func TestNyquistUniform(t *testing.T) {
	dt := 0.02
	lc, err := New(uniformTimes(100, dt), make([]float64, 100))
	if err != nil {
		t.Fatal(err)
	}
	want := 1 / (2 * dt)
	if got := lc.Nyquist(); math.Abs(got-want) > 1e-9 {
		t.Errorf("Nyquist() = %g, want %g", got, want)
	}
}

func TestWithFluxSharesTimeAxis(t *testing.T) {
	lc, err := New([]float64{0, 1, 2}, []float64{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	residual := lc.WithFlux([]float64{0, 0, 0})
	if &residual.Time[0] != &lc.Time[0] {
		t.Error("WithFlux() should share the time slice")
	}
	if lc.Flux[0] != 1 {
		t.Error("WithFlux() must not touch the original flux")
	}
}

func TestDirName(t *testing.T) {
	tests := []struct {
		time []float64
		want string
	}{
		{[]float64{7.9, 20, 57.3}, "007_057"},
		{[]float64{0.1, 1, 2.9}, "000_002"},
		{[]float64{123.4, 200, 456.7}, "123_456"},
	}
	for _, tt := range tests {
		lc, err := New(tt.time, make([]float64, len(tt.time)))
		if err != nil {
			t.Fatal(err)
		}
		if got := lc.DirName(); got != tt.want {
			t.Errorf("DirName() = %q, want %q", got, tt.want)
		}
	}
}

func TestMeanAndVariance(t *testing.T) {
	lc, err := New([]float64{0, 1, 2, 3}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := lc.Mean(); got != 2.5 {
		t.Errorf("Mean() = %g, want 2.5", got)
	}
	if got := lc.Variance(); got != 1.25 {
		t.Errorf("Variance() = %g, want 1.25", got)
	}
}
