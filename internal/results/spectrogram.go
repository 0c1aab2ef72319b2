package results

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/stellapse/prewhiten/internal/fsutil"
)

// WriteSpectrogram writes combined spectrogram arrays as CSV: a header row
// of frequencies, then one row per time sample holding the time value
// followed by that row's intensities.
func WriteSpectrogram(fs fsutil.FileSystem, path string, frequency, time []float64, intensity *mat.Dense) error {
	rows, cols := intensity.Dims()
	if rows != len(time) {
		return fmt.Errorf("spectrogram shape mismatch: %d intensity rows, %d time samples", rows, len(time))
	}

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := make([]string, cols+1)
	header[0] = "time"
	for i := 0; i < cols; i++ {
		if i < len(frequency) {
			header[i+1] = strconv.FormatFloat(frequency[i], 'g', -1, 64)
		} else {
			// padded columns beyond the last staged frequency axis
			header[i+1] = ""
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rec := make([]string, cols+1)
	for r := 0; r < rows; r++ {
		rec[0] = strconv.FormatFloat(time[r], 'g', -1, 64)
		row := intensity.RawRowView(r)
		for c := 0; c < cols; c++ {
			rec[c+1] = strconv.FormatFloat(row[c], 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}
