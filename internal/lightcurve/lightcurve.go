// Package lightcurve holds the time-domain representation of a photometric
// dataset and the sampling analysis derived from it.
package lightcurve

import (
	"fmt"
	"math"
	"sort"
)

// LightCurve is an ordered pair of equal-length time and flux samples.
// Time is strictly increasing. A LightCurve is never mutated in place:
// each prewhitening round produces a new one via WithFlux.
type LightCurve struct {
	Time []float64
	Flux []float64
}

// New validates and wraps the given time/flux samples.
func New(time, flux []float64) (*LightCurve, error) {
	if len(time) != len(flux) {
		return nil, fmt.Errorf("time and flux length mismatch: %d != %d", len(time), len(flux))
	}
	if len(time) < 2 {
		return nil, fmt.Errorf("light curve needs at least 2 samples, got %d", len(time))
	}
	for i := 1; i < len(time); i++ {
		if time[i] <= time[i-1] {
			return nil, fmt.Errorf("time axis not strictly increasing at index %d (%g after %g)", i, time[i], time[i-1])
		}
	}
	return &LightCurve{Time: time, Flux: flux}, nil
}

// Len returns the number of samples.
func (lc *LightCurve) Len() int { return len(lc.Time) }

// Span returns the first and last time values.
func (lc *LightCurve) Span() (start, end float64) {
	return lc.Time[0], lc.Time[len(lc.Time)-1]
}

// WithFlux returns a new LightCurve sharing the time axis with lc but
// carrying the given flux values. The time slice is not copied; callers
// must not modify it.
func (lc *LightCurve) WithFlux(flux []float64) *LightCurve {
	return &LightCurve{Time: lc.Time, Flux: flux}
}

// MostCommonSpacing returns the mode of the consecutive time differences.
// For a mostly uniform cadence with a few gaps this recovers the nominal
// sampling interval, which the mean would not.
func (lc *LightCurve) MostCommonSpacing() float64 {
	diffs := make([]float64, lc.Len()-1)
	for i := 1; i < lc.Len(); i++ {
		diffs[i-1] = lc.Time[i] - lc.Time[i-1]
	}
	sort.Float64s(diffs)

	// Walk runs of equal values; equality is exact, matching the cadence
	// values as they were read from the input.
	best := diffs[0]
	bestCount := 0
	cur := diffs[0]
	curCount := 0
	for _, d := range diffs {
		if d == cur {
			curCount++
		} else {
			cur = d
			curCount = 1
		}
		if curCount > bestCount {
			bestCount = curCount
			best = cur
		}
	}
	return best
}

// Nyquist returns the highest frequency resolvable given the most common
// sampling interval: 1 / (2 * spacing).
func (lc *LightCurve) Nyquist() float64 {
	return 1 / (2 * lc.MostCommonSpacing())
}

// Mean returns the mean flux value.
func (lc *LightCurve) Mean() float64 {
	sum := 0.0
	for _, f := range lc.Flux {
		sum += f
	}
	return sum / float64(len(lc.Flux))
}

// Variance returns the population variance of the flux about its mean.
func (lc *LightCurve) Variance() float64 {
	mean := lc.Mean()
	sum := 0.0
	for _, f := range lc.Flux {
		d := f - mean
		sum += d * d
	}
	return sum / float64(len(lc.Flux))
}

// DirName returns the per-dataset result directory name, encoding the
// integer-truncated start and end times ("results/007_057").
func (lc *LightCurve) DirName() string {
	start, end := lc.Span()
	return fmt.Sprintf("%03d_%03d", int(math.Trunc(start)), int(math.Trunc(end)))
}
