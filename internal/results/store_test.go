package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellapse/prewhiten/internal/extract"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := OpenStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStoreRoundTrip(t *testing.T) {
	st := openTestStore(t)

	runID, err := st.CreateRun("042_017.csv")
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	records := []extract.FrequencyRecord{
		{Frequency: 2.5, SNR: 12.3, Amplitude: 3.0, Phase: 0.4},
		{Frequency: 7.1, SNR: 6.8, Amplitude: 1.0, Phase: -1.2},
	}
	require.NoError(t, st.RecordFrequencies(runID, records))
	require.NoError(t, st.FinishRun(runID, extract.StopSNR.String()))

	got, err := st.RunFrequencies(runID)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	var state string
	require.NoError(t, st.QueryRow(
		`SELECT state FROM runs WHERE run_id = ?`, runID,
	).Scan(&state))
	assert.Equal(t, "stop-snr", state)
}

func TestStoreSeparatesRuns(t *testing.T) {
	st := openTestStore(t)

	first, err := st.CreateRun("a.csv")
	require.NoError(t, err)
	second, err := st.CreateRun("b.csv")
	require.NoError(t, err)

	require.NoError(t, st.RecordFrequencies(first, []extract.FrequencyRecord{{Frequency: 1}}))
	require.NoError(t, st.RecordFrequencies(second, []extract.FrequencyRecord{{Frequency: 2}, {Frequency: 3}}))

	got, err := st.RunFrequencies(second)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Frequency)
	assert.Equal(t, 3.0, got[1].Frequency)
}

func TestStoreReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	st, err := OpenStore(path)
	require.NoError(t, err)
	runID, err := st.CreateRun("c.csv")
	require.NoError(t, err)
	require.NoError(t, st.RecordFrequencies(runID, []extract.FrequencyRecord{{Frequency: 4.2}}))
	require.NoError(t, st.Close())

	// reopen: migrations are a no-op, data survives
	st, err = OpenStore(path)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.RunFrequencies(runID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4.2, got[0].Frequency)
}

func TestRunFrequenciesEmptyRun(t *testing.T) {
	st := openTestStore(t)
	runID, err := st.CreateRun("empty.csv")
	require.NoError(t, err)

	got, err := st.RunFrequencies(runID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
