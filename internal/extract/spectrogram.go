package extract

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/stellapse/prewhiten/internal/lightcurve"
	"github.com/stellapse/prewhiten/internal/periodogram"
)

// spectrogramTimeSamples is the number of time-axis points each staged
// spectrum is replicated across, so one dataset occupies a visible band in
// the stacked spectrogram.
const spectrogramTimeSamples = 5

func spectrumBaseName(n int) string {
	return fmt.Sprintf("amplitude_spectrum_f_%d", n)
}

// stage prepares the round's spectrum for spectrogram stacking and stores
// the result on res. Intensity vectors are padded with zeros or truncated
// to the session's running maximum length so rows from different rounds
// (and datasets) stack into one matrix.
func (s *Session) stage(res *Result, spec *periodogram.Spectrum, lc *lightcurve.LightCurve) {
	start, end := lc.Span()

	intensity := spec.Power
	if s.maxSpectrogramLen == 0 {
		s.maxSpectrogramLen = len(intensity)
	} else if s.maxSpectrogramLen > len(intensity) {
		padded := make([]float64, s.maxSpectrogramLen)
		copy(padded, intensity)
		intensity = padded
	} else {
		intensity = intensity[:s.maxSpectrogramLen]
	}

	times := linspace(math.Trunc(start), math.Trunc(end), spectrogramTimeSamples)
	matrix := mat.NewDense(spectrogramTimeSamples, s.maxSpectrogramLen, nil)
	for row := 0; row < spectrogramTimeSamples; row++ {
		matrix.SetRow(row, intensity)
	}

	res.SpectrogramFrequencies = spec.Frequency
	res.SpectrogramTimes = times
	res.SpectrogramIntensity = matrix
}

func linspace(start, end float64, n int) []float64 {
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
