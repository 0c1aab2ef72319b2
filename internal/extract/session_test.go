package extract

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellapse/prewhiten/internal/lightcurve"
	"github.com/stellapse/prewhiten/internal/monitoring"
	"github.com/stellapse/prewhiten/internal/periodogram"
	"github.com/stellapse/prewhiten/internal/testutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func records(freqs ...float64) []FrequencyRecord {
	recs := make([]FrequencyRecord, len(freqs))
	for i, f := range freqs {
		recs[i] = FrequencyRecord{Frequency: f}
	}
	return recs
}

func TestOscillating(t *testing.T) {
	s := &Session{SimilarFrequenciesCount: 3, SimilarityStdDev: 0.01}

	tests := []struct {
		name string
		recs []FrequencyRecord
		want bool
	}{
		{"nearly identical", records(5.000, 5.001, 5.0005), true},
		{"distinct", records(5.0, 6.0, 7.0), false},
		{"too few records", records(5.000, 5.001), false},
		{"only last three count", records(1.0, 9.0, 5.000, 5.001, 5.0005), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.oscillating(tt.recs))
		})
	}
}

func TestPopStdDev(t *testing.T) {
	// population std dev, divisor n
	assert.InDelta(t, 0.8164965809, popStdDev([]float64{1, 2, 3}), 1e-9)
	assert.Equal(t, 0.0, popStdDev([]float64{4, 4, 4}))
}

func TestRunCancelledBeforeFirstRound(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	times, flux := testutil.SineSeries(100, 10, 1, 2, 0)
	lc, err := lightcurve.New(times, flux)
	require.NoError(t, err)

	s := &Session{
		Band:         periodogram.Band{Min: 0, Max: 4},
		SNRCriterion: 4,
		WindowSize:   1,
	}
	res, err := s.Run(ctx, lc)
	require.NoError(t, err)
	assert.Equal(t, Interrupted, res.State)
	assert.True(t, res.Interrupted())
	assert.Empty(t, res.Records)
}

// fakeSaver records Save calls without touching the filesystem.
type fakeSaver struct {
	dirs  []string
	bases []string
}

func (f *fakeSaver) Save(spec *periodogram.Spectrum, dir, base string) error {
	f.dirs = append(f.dirs, dir)
	f.bases = append(f.bases, base)
	return nil
}

func TestRunStopsAtBoundaryRound(t *testing.T) {
	// An infinite criterion makes the very first round the boundary round:
	// its fit must still be appended before the loop stops.
	times, flux := testutil.SineSeries(200, 20, 2, 1.5, 0.3)
	lc, err := lightcurve.New(times, flux)
	require.NoError(t, err)

	saver := &fakeSaver{}
	s := &Session{
		Band:         periodogram.Band{Min: 0, Max: 4},
		SNRCriterion: math.Inf(1),
		WindowSize:   0.5,
		Mode:         ModeNormal,
		Saver:        saver,
		SaveDir:      "out",
	}
	res, err := s.Run(context.Background(), lc)
	require.NoError(t, err)

	assert.Equal(t, StopSNR, res.State)
	require.Len(t, res.Records, 1)
	assert.InDelta(t, 1.5, res.Records[0].Frequency, 0.02)
	assert.InDelta(t, 2.0, res.Records[0].Amplitude, 0.05)

	// round 1 save plus the Normal-mode final save
	assert.Equal(t, []string{"out", "out"}, saver.dirs)
	assert.Equal(t, []string{"amplitude_spectrum_f_1", "amplitude_spectrum_f_1"}, saver.bases)

	// round 1 always stages the spectrogram
	require.NotNil(t, res.SpectrogramIntensity)
	assert.NotEmpty(t, res.SpectrogramFrequencies)
	assert.Len(t, res.SpectrogramTimes, 5)
	require.NotNil(t, res.StagedSpectrum())
}

func TestRunFullModeSavesEveryRound(t *testing.T) {
	times, flux := testutil.SineSeries(200, 20, 2, 1.5, 0)
	lc, err := lightcurve.New(times, flux)
	require.NoError(t, err)

	saver := &fakeSaver{}
	s := &Session{
		Band:         periodogram.Band{Min: 0, Max: 4},
		SNRCriterion: math.Inf(1),
		WindowSize:   0.5,
		Mode:         ModeFull,
		Saver:        saver,
		SaveDir:      "out",
	}
	res, err := s.Run(context.Background(), lc)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	// ModeFull saves each round but skips the Normal-mode final save.
	assert.Equal(t, []string{"out"}, saver.dirs)
}

func TestRunExtractsTwoSinusoids(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping extraction loop test in short mode")
	}

	// Two known signals plus small noise, sampled at 1000 uniform points
	// over 50 time units.
	rng := rand.New(rand.NewSource(42))
	times, flux := testutil.SineSeries(1000, 50, 3, 2.5, 0)
	testutil.AddSine(times, flux, 1, 7.1, 0.5)
	for i := range flux {
		flux[i] += rng.NormFloat64() * 0.05
	}
	lc, err := lightcurve.New(times, flux)
	require.NoError(t, err)

	s := &Session{
		Band:                    periodogram.Band{Min: 0, Max: 8},
		SNRCriterion:            4,
		WindowSize:              2,
		SimilarFrequenciesCount: 10,
		SimilarityStdDev:        0.05,
	}
	res, err := s.Run(context.Background(), lc)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Records), 2)

	assert.InDelta(t, 2.5, res.Records[0].Frequency, 0.025)
	assert.InDelta(t, 3.0, res.Records[0].Amplitude, 0.15)
	assert.InDelta(t, 7.1, res.Records[1].Frequency, 0.071)
	assert.InDelta(t, 1.0, res.Records[1].Amplitude, 0.1)

	// Both real signals must clear the significance cutoff by a wide
	// margin.
	assert.Greater(t, res.Records[0].SNR, 4.0)
	assert.Greater(t, res.Records[1].SNR, 4.0)
}
