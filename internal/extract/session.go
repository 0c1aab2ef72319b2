// Package extract runs the iterative prewhitening loop: compute a spectrum,
// check peak significance, fit and subtract the dominant sinusoid, repeat
// until the residual peak drops below the signal-to-noise cutoff.
package extract

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/stellapse/prewhiten/internal/lightcurve"
	"github.com/stellapse/prewhiten/internal/monitoring"
	"github.com/stellapse/prewhiten/internal/periodogram"
	"github.com/stellapse/prewhiten/internal/sinefit"
)

// Mode selects when the per-round spectrum is persisted.
type Mode string

const (
	// ModeFull persists the spectrum of every round.
	ModeFull Mode = "Full"
	// ModeNormal persists the first round's spectrum during the loop and
	// the final spectrum once more after the loop exits.
	ModeNormal Mode = "Normal"
)

// State is the terminal state of an extraction session.
type State int

const (
	// StopSNR: the residual peak fell below the signal-to-noise cutoff.
	StopSNR State = iota
	// StopOscillation: the last few extracted frequencies were nearly
	// identical, so the decomposition stopped making progress.
	StopOscillation
	// Interrupted: the session was cancelled externally; accumulated
	// results are partial but valid.
	Interrupted
)

func (s State) String() string {
	switch s {
	case StopSNR:
		return "stop-snr"
	case StopOscillation:
		return "stop-oscillation"
	case Interrupted:
		return "interrupted"
	}
	return "unknown"
}

// FrequencyRecord is one extracted frequency with the signal-to-noise of
// the spectrum it was extracted from. Records are append-only and never
// mutated once appended.
type FrequencyRecord struct {
	Frequency float64
	SNR       float64
	Amplitude float64
	Phase     float64
}

// SpectrumSaver persists a round's spectrum under dir/base. Implementations
// are synchronous and side-effecting; the loop treats them as opaque.
type SpectrumSaver interface {
	Save(spec *periodogram.Spectrum, dir, base string) error
}

// Result carries everything a finished (or interrupted) session produced.
// The spectrogram fields are unset when no round staged a spectrum.
type Result struct {
	State   State
	Records []FrequencyRecord

	SpectrogramFrequencies []float64
	SpectrogramTimes       []float64
	SpectrogramIntensity   *mat.Dense
}

// Interrupted reports whether the session was cancelled. The batch driver
// uses it to abort processing of further datasets.
func (r *Result) Interrupted() bool { return r.State == Interrupted }

// StagedSpectrum reconstructs the last staged spectrum from the spectrogram
// staging arrays, or nil when no round staged one. The intensity row may
// have been padded or truncated relative to the frequency axis; the shorter
// of the two lengths wins.
func (r *Result) StagedSpectrum() *periodogram.Spectrum {
	if r.SpectrogramIntensity == nil || len(r.SpectrogramFrequencies) == 0 {
		return nil
	}
	row := r.SpectrogramIntensity.RawRowView(0)
	n := len(r.SpectrogramFrequencies)
	if len(row) < n {
		n = len(row)
	}
	return &periodogram.Spectrum{
		Frequency: r.SpectrogramFrequencies[:n],
		Power:     row[:n],
	}
}

// Session owns one dataset's extraction loop: the evolving residual light
// curve, the growing frequency record, and the spectrogram staging state.
type Session struct {
	Band                    periodogram.Band
	SNRCriterion            float64
	WindowSize              float64
	Mode                    Mode
	SimilarFrequenciesCount int
	SimilarityStdDev        float64

	// Saver receives per-round spectra; nil disables persistence.
	Saver   SpectrumSaver
	SaveDir string

	// maxSpectrogramLen is the running maximum intensity-vector length
	// used to pad or truncate staged spectra so they stack into a matrix.
	maxSpectrogramLen int
}

// Run executes extraction rounds against lc until a terminal state is
// reached. Cancellation of ctx is observed at the top of each round and
// returns the partial result with State == Interrupted. Numerical errors
// (invalid band, fit divergence, degenerate spectra) abort the session.
func (s *Session) Run(ctx context.Context, lc *lightcurve.LightCurve) (*Result, error) {
	res := &Result{}

	// Seeded above any finite cutoff so the loop runs at least once.
	snr := math.Inf(1)

	var spec *periodogram.Spectrum
	round := 0
	for {
		select {
		case <-ctx.Done():
			monitoring.Logf("extraction interrupted after %d rounds", round)
			res.State = Interrupted
			return res, nil
		default:
		}
		round++

		var err error
		spec, err = periodogram.Compute(lc, s.Band)
		if err != nil {
			return nil, err
		}
		snr, err = periodogram.SignalToNoise(spec, s.WindowSize)
		if err != nil {
			return nil, err
		}

		peakPower, peakFreq := spec.MaxPower()
		fit, residual, err := sinefit.FitAndSubtract(lc, peakPower, peakFreq)
		if err != nil {
			return nil, err
		}
		lc = residual

		res.Records = append(res.Records, FrequencyRecord{
			Frequency: fit.Frequency,
			SNR:       snr,
			Amplitude: fit.Amplitude,
			Phase:     fit.Phase,
		})
		monitoring.Logf("round %d: f=%g amp=%g phase=%g snr=%g", round, fit.Frequency, fit.Amplitude, fit.Phase, snr)

		// The first round's spectrum is always persisted and staged;
		// ModeFull extends that to every round.
		if round == 1 || s.Mode == ModeFull {
			if s.Saver != nil {
				base := spectrumBaseName(len(res.Records))
				if err := s.Saver.Save(spec, s.SaveDir, base); err != nil {
					return nil, err
				}
			}
			s.stage(res, spec, lc)
		}

		if s.oscillating(res.Records) {
			res.State = StopOscillation
			break
		}
		// The stop check runs after the round's fit has been appended, so
		// the boundary round contributes one final record even though its
		// signal-to-noise is already at or below the cutoff.
		if snr <= s.SNRCriterion {
			res.State = StopSNR
			break
		}
	}

	if s.Saver != nil && s.Mode == ModeNormal && spec != nil {
		base := spectrumBaseName(len(res.Records))
		if err := s.Saver.Save(spec, s.SaveDir, base); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// oscillating reports whether the last SimilarFrequenciesCount extracted
// frequencies are nearly identical, which means the extractor keeps
// re-fitting the same residual frequency instead of converging.
func (s *Session) oscillating(records []FrequencyRecord) bool {
	n := s.SimilarFrequenciesCount
	if n <= 0 || len(records) < n {
		return false
	}
	last := make([]float64, n)
	for i, rec := range records[len(records)-n:] {
		last[i] = rec.Frequency
	}
	sd := popStdDev(last)
	if sd < s.SimilarityStdDev {
		monitoring.Logf("last %d frequencies too similar (std dev %g); stopping analysis for this set", n, sd)
		return true
	}
	return false
}

// popStdDev is the population standard deviation (divisor n, not n-1),
// matching how the similarity threshold is calibrated.
func popStdDev(xs []float64) float64 {
	mean := stat.Mean(xs, nil)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}
