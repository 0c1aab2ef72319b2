package periodogram

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// PeakTolerance is the floating tolerance used when locating the peak index
// for the signal-to-noise scan.
const PeakTolerance = 1e-6

// NoMinimaFoundError reports a spectrum too short to bracket its peak with
// local minima.
type NoMinimaFoundError struct {
	Len int
}

func (e *NoMinimaFoundError) Error() string {
	return fmt.Sprintf("spectrum with %d samples is too short to find minima around its peak", e.Len)
}

// SignalToNoise computes the ratio of the spectral peak to a local noise
// floor. The noise floor is the mean power over two windows of width
// windowSize (in frequency units) placed just outside the nearest local
// minima bracketing the peak. Window indices that would fall outside the
// spectrum are clamped to its bounds.
func SignalToNoise(s *Spectrum, windowSize float64) (float64, error) {
	if s.Len() < 3 {
		return 0, &NoMinimaFoundError{Len: s.Len()}
	}

	lower, upper, err := adjacentMinima(s.Power)
	if err != nil {
		return 0, err
	}

	halfWindow := int(math.Round(windowSize / s.MeanStep()))
	if halfWindow < 1 {
		halfWindow = 1
	}

	lo := lower - halfWindow
	if lo < 0 {
		lo = 0
	}
	hi := upper + halfWindow
	if hi > s.Len() {
		hi = s.Len()
	}

	var sum float64
	var count int
	for i := lo; i < lower; i++ {
		sum += s.Power[i]
		count++
	}
	for i := upper; i < hi; i++ {
		sum += s.Power[i]
		count++
	}
	noise := sum / float64(count)

	maxP := floats.Max(s.Power)
	var peak float64
	for _, p := range s.Power {
		if math.Abs(p-maxP) < PeakTolerance {
			peak = p
			break
		}
	}
	return peak / noise, nil
}

// adjacentMinima scans outward from the peak of power, one step per side at
// a time, for the nearest interior local minima. When a scan direction
// reaches the array boundary before finding one, the boundary index stands
// in for the minimum.
func adjacentMinima(power []float64) (lower, upper int, err error) {
	maxP := floats.Max(power)
	peak := -1
	for i, p := range power {
		if math.Abs(p-maxP) < PeakTolerance {
			peak = i
			break
		}
	}

	lower, upper = -1, -1
	for counter := 1; lower == -1 || upper == -1; counter++ {
		if counter > len(power) {
			// Cannot happen once both directions fall back to the
			// boundary, but the contract guards against spinning forever.
			return 0, 0, &NoMinimaFoundError{Len: len(power)}
		}

		if lower == -1 {
			k := peak - counter
			if k <= 0 {
				lower = 0
			} else if isMinimum(power, k) {
				lower = k
			}
		}
		if upper == -1 {
			k := peak + counter
			if k >= len(power)-1 {
				upper = len(power) - 1
			} else if isMinimum(power, k) {
				upper = k
			}
		}
	}
	return lower, upper, nil
}

func isMinimum(power []float64, k int) bool {
	return power[k] < power[k-1] && power[k] < power[k+1]
}
