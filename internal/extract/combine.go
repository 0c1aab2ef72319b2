package extract

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// EmptyInputError reports an aggregation call with an empty input
// collection.
type EmptyInputError struct {
	Which string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("cannot combine datasets: %s list is empty", e.Which)
}

// Combine merges the spectrogram staging output of independent extraction
// runs: the frequency axis is taken from the first run (all runs are
// assumed to share it), time axes are concatenated end to end, and the
// intensity matrices are stacked row-wise. Shape consistency across runs is
// the caller's responsibility and is not validated here.
func Combine(freqs [][]float64, times [][]float64, intensities []*mat.Dense) ([]float64, []float64, *mat.Dense, error) {
	switch {
	case len(freqs) == 0:
		return nil, nil, nil, &EmptyInputError{Which: "frequency"}
	case len(times) == 0:
		return nil, nil, nil, &EmptyInputError{Which: "time"}
	case len(intensities) == 0:
		return nil, nil, nil, &EmptyInputError{Which: "intensity"}
	}

	frequency := freqs[0]

	var time []float64
	for _, t := range times {
		time = append(time, t...)
	}

	rows := 0
	_, cols := intensities[0].Dims()
	for _, m := range intensities {
		r, _ := m.Dims()
		rows += r
	}
	intensity := mat.NewDense(rows, cols, nil)
	offset := 0
	for _, m := range intensities {
		r, _ := m.Dims()
		for i := 0; i < r; i++ {
			intensity.SetRow(offset+i, m.RawRowView(i))
		}
		offset += r
	}

	return frequency, time, intensity, nil
}
