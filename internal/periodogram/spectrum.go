// Package periodogram computes least-squares amplitude spectra of light
// curves and estimates the significance of spectral peaks.
package periodogram

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/stellapse/prewhiten/internal/lightcurve"
	"github.com/stellapse/prewhiten/internal/monitoring"
)

// SamplesPerPeak is the oversampling factor of the frequency grid: the
// number of grid points per natural resolution unit 1/T.
const SamplesPerPeak = 100

// MaxPowerTolerance is the floating tolerance used when locating the
// spectral maximum. Periodogram maxima are floating-point approximate, so
// exact equality would be wrong here.
const MaxPowerTolerance = 1e-4

// Band is an inclusive frequency range for spectrum computation.
type Band struct {
	Min float64
	Max float64
}

// DefaultBand covers 0 to 50 cycles per time unit, the usual window for
// space-photometry pulsation searches.
var DefaultBand = Band{Min: 0, Max: 50}

// InvalidRangeError reports a frequency band whose minimum exceeds its
// maximum.
type InvalidRangeError struct {
	Min, Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid frequency range: min %g exceeds max %g", e.Min, e.Max)
}

// Spectrum is an amplitude spectrum: equal-length, strictly increasing
// frequencies with non-negative power values. Read-only once produced.
type Spectrum struct {
	Frequency []float64
	Power     []float64
}

// Len returns the number of spectral samples.
func (s *Spectrum) Len() int { return len(s.Frequency) }

// MeanStep returns the mean spacing of the frequency grid.
func (s *Spectrum) MeanStep() float64 {
	n := len(s.Frequency)
	return (s.Frequency[n-1] - s.Frequency[0]) / float64(n-1)
}

// MaxPower returns the maximum power value and the frequency of the first
// sample within MaxPowerTolerance of it.
func (s *Spectrum) MaxPower() (power, frequency float64) {
	maxP := floats.Max(s.Power)
	for i, p := range s.Power {
		if math.Abs(p-maxP) < MaxPowerTolerance {
			return maxP, s.Frequency[i]
		}
	}
	// Unreachable: the maximum itself always satisfies the tolerance.
	return maxP, s.Frequency[floats.MaxIdx(s.Power)]
}

// Compute evaluates a floating-mean Lomb-Scargle periodogram of lc over the
// given band, rescaled so the power at a pure sinusoid's frequency equals
// its amplitude. The upper bound is clipped to the Nyquist frequency of the
// cadence; clipping logs a warning instead of failing. The first grid
// sample and any samples at or above the nominal upper bound are dropped.
func Compute(lc *lightcurve.LightCurve, band Band) (*Spectrum, error) {
	if band.Min > band.Max {
		return nil, &InvalidRangeError{Min: band.Min, Max: band.Max}
	}

	nyquist := lc.Nyquist()
	fmax := band.Max
	if band.Max > nyquist {
		monitoring.Logf("upper frequency bound %g exceeds Nyquist frequency, using Nyquist at %g", band.Max, nyquist)
		fmax = nyquist
	}

	start, end := lc.Span()
	baseline := end - start
	df := 1 / (SamplesPerPeak * baseline)
	n := 1 + int(math.Round((fmax-band.Min)/df))

	freq := make([]float64, n)
	power := make([]float64, n)
	for i := range freq {
		freq[i] = band.Min + float64(i)*df
	}
	lombScargle(lc, freq, power)

	// PSD power to amplitude units.
	scale := math.Sqrt(4 / float64(lc.Len()))
	for i, p := range power {
		power[i] = scale * math.Sqrt(p)
	}

	// Drop the zero/lowest-frequency edge artifact, then apply the nominal
	// upper bound exactly even if the grid ran slightly beyond it.
	freq, power = freq[1:], power[1:]
	cut := len(freq)
	for i, f := range freq {
		if f >= band.Max {
			cut = i
			break
		}
	}
	return &Spectrum{Frequency: freq[:cut], Power: power[:cut]}, nil
}

// lombScargle fills power with the unnormalised (PSD) generalised
// Lomb-Scargle power of lc at each frequency. The floating-mean form is
// used: the model includes a constant offset fitted alongside the sinusoid.
func lombScargle(lc *lightcurve.LightCurve, freq, power []float64) {
	n := float64(lc.Len())
	mean := lc.Mean()

	yc := make([]float64, lc.Len())
	for i, f := range lc.Flux {
		yc[i] = f - mean
	}
	yy := floats.Dot(yc, yc) / n
	if yy == 0 {
		// Flat input: no variance, no power anywhere.
		return
	}

	for k, f := range freq {
		omega := 2 * math.Pi * f

		var c, s, yC, yS, cc, cs float64
		for i, t := range lc.Time {
			sin, cos := math.Sincos(omega * t)
			c += cos
			s += sin
			yC += yc[i] * cos
			yS += yc[i] * sin
			cc += cos * cos
			cs += cos * sin
		}
		c /= n
		s /= n
		yC /= n
		yS /= n
		cc /= n
		cs /= n
		ss := 1 - cc

		cc -= c * c
		ss -= s * s
		cs -= c * s

		d := cc*ss - cs*cs
		if d <= 0 {
			continue
		}
		p := (ss*yC*yC + cc*yS*yS - 2*cs*yC*yS) / (yy * d)
		power[k] = 0.5 * n * yy * p
	}
}
