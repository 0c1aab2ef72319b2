// Package sinefit fits single sinusoids to light curves by nonlinear least
// squares and subtracts them, producing the residual curve for the next
// prewhitening round.
package sinefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/stellapse/prewhiten/internal/lightcurve"
	"github.com/stellapse/prewhiten/internal/monitoring"
)

// Fit holds the parameters of the model amp*sin(2*pi*freq*t + phase).
// After FitAndSubtract, Amplitude and Frequency are non-negative.
type Fit struct {
	Amplitude float64
	Frequency float64
	Phase     float64
}

// Eval returns the model value at time t.
func (f Fit) Eval(t float64) float64 {
	return f.Amplitude * math.Sin(2*math.Pi*f.Frequency*t+f.Phase)
}

// FitDivergenceError reports an optimizer that failed to converge on the
// peak at the given frequency. Fatal to the extraction session; the caller
// must not retry with a different seed.
type FitDivergenceError struct {
	Frequency float64
	Err       error
}

func (e *FitDivergenceError) Error() string {
	return fmt.Sprintf("failed to find a good fit for frequency %g: %v", e.Frequency, e.Err)
}

func (e *FitDivergenceError) Unwrap() error { return e.Err }

// FitAndSubtract fits a sinusoid to lc seeded at the given spectral peak
// (amplitude = peak power, frequency = peak frequency, zero phase) and
// returns the fit together with the residual light curve.
//
// The sinusoid model is invariant under flipping the signs of amplitude and
// frequency together with a pi phase shift, so the optimizer can converge
// onto either branch. While the fitted amplitude or frequency is negative,
// both are canonicalized to their absolute values, the phase is shifted by
// pi toward (-pi, pi], and the fit is re-run from the corrected triple. At
// most one correction is needed.
func FitAndSubtract(lc *lightcurve.LightCurve, peakPower, peakFrequency float64) (Fit, *lightcurve.LightCurve, error) {
	seed := Fit{Amplitude: peakPower, Frequency: peakFrequency}

	fit, err := solve(lc, seed)
	if err != nil {
		monitoring.Logf("failed to find a good fit for frequency %g", peakFrequency)
		return Fit{}, nil, &FitDivergenceError{Frequency: peakFrequency, Err: err}
	}
	for fit.Amplitude < 0 || fit.Frequency < 0 {
		fit.Amplitude = math.Abs(fit.Amplitude)
		fit.Frequency = math.Abs(fit.Frequency)
		if fit.Phase > math.Pi {
			fit.Phase -= math.Pi
		} else {
			fit.Phase += math.Pi
		}
		fit, err = solve(lc, fit)
		if err != nil {
			monitoring.Logf("failed to find a good fit for frequency %g", peakFrequency)
			return Fit{}, nil, &FitDivergenceError{Frequency: peakFrequency, Err: err}
		}
	}

	residual := make([]float64, lc.Len())
	for i, t := range lc.Time {
		residual[i] = lc.Flux[i] - fit.Eval(t)
	}
	return fit, lc.WithFlux(residual), nil
}

// solve minimises the sum of squared residuals of the sinusoid model over
// (amplitude, frequency, phase) starting from seed.
func solve(lc *lightcurve.LightCurve, seed Fit) (Fit, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			amp, freq, phase := x[0], x[1], x[2]
			var sum float64
			for i, t := range lc.Time {
				r := amp*math.Sin(2*math.Pi*freq*t+phase) - lc.Flux[i]
				sum += r * r
			}
			return sum
		},
		Grad: func(grad, x []float64) {
			amp, freq, phase := x[0], x[1], x[2]
			grad[0], grad[1], grad[2] = 0, 0, 0
			for i, t := range lc.Time {
				sin, cos := math.Sincos(2*math.Pi*freq*t + phase)
				r := amp*sin - lc.Flux[i]
				grad[0] += 2 * r * sin
				grad[1] += 2 * r * amp * cos * 2 * math.Pi * t
				grad[2] += 2 * r * amp * cos
			}
		},
	}

	x0 := []float64{seed.Amplitude, seed.Frequency, seed.Phase}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.BFGS{})
	if err != nil {
		return Fit{}, err
	}
	if result.Status == optimize.Failure || result.Status == optimize.NotTerminated {
		return Fit{}, fmt.Errorf("optimizer stopped without converging: %v", result.Status)
	}
	return Fit{Amplitude: result.X[0], Frequency: result.X[1], Phase: result.X[2]}, nil
}
