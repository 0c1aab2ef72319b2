// Package testutil provides shared test utilities for numeric comparisons.
//
// This package centralises common test helpers to reduce code duplication
// across test files.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta checks that got is within delta of want.
func AssertInDelta(t *testing.T, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("value = %g, want %g (±%g)", got, want, delta)
	}
}

// AssertInRelative checks that got is within a relative fraction of want.
func AssertInRelative(t *testing.T, got, want, fraction float64) {
	t.Helper()
	if want == 0 {
		t.Fatal("AssertInRelative needs a non-zero reference value")
	}
	if math.IsNaN(got) || math.Abs(got-want)/math.Abs(want) > fraction {
		t.Errorf("value = %g, want within %.2g%% of %g", got, fraction*100, want)
	}
}

// SineSeries builds a uniformly sampled time axis of n points over span
// time units and the corresponding flux of amp*sin(2*pi*freq*t + phase).
func SineSeries(n int, span, amp, freq, phase float64) (times, flux []float64) {
	times = make([]float64, n)
	flux = make([]float64, n)
	dt := span / float64(n-1)
	for i := range times {
		t := float64(i) * dt
		times[i] = t
		flux[i] = amp * math.Sin(2*math.Pi*freq*t+phase)
	}
	return times, flux
}

// AddSine adds amp*sin(2*pi*freq*t + phase) evaluated at times onto flux in
// place.
func AddSine(times, flux []float64, amp, freq, phase float64) {
	for i, t := range times {
		flux[i] += amp * math.Sin(2*math.Pi*freq*t+phase)
	}
}
