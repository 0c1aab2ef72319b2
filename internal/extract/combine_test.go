package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCombine(t *testing.T) {
	freqs := [][]float64{{1, 2, 3}}
	times := [][]float64{{0, 1}, {2, 3}}
	intensities := []*mat.Dense{
		mat.NewDense(1, 2, []float64{0.1, 0.2}),
		mat.NewDense(1, 2, []float64{0.3, 0.4}),
	}

	f, tm, intensity, err := Combine(freqs, times, intensities)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, f)
	assert.Equal(t, []float64{0, 1, 2, 3}, tm)

	rows, cols := intensity.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, 2, cols)
	assert.Equal(t, []float64{0.1, 0.2}, intensity.RawRowView(0))
	assert.Equal(t, []float64{0.3, 0.4}, intensity.RawRowView(1))
}

func TestCombineEmptyInputs(t *testing.T) {
	freqs := [][]float64{{1}}
	times := [][]float64{{0}}
	intensities := []*mat.Dense{mat.NewDense(1, 1, []float64{1})}

	tests := []struct {
		name string
		call func() error
	}{
		{"no frequencies", func() error {
			_, _, _, err := Combine(nil, times, intensities)
			return err
		}},
		{"no times", func() error {
			_, _, _, err := Combine(freqs, nil, intensities)
			return err
		}},
		{"no intensities", func() error {
			_, _, _, err := Combine(freqs, times, nil)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var emptyErr *EmptyInputError
			require.ErrorAs(t, err, &emptyErr)
		})
	}
}

func TestCombineMultipleRowBlocks(t *testing.T) {
	intensities := []*mat.Dense{
		mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		mat.NewDense(1, 3, []float64{7, 8, 9}),
	}
	_, _, intensity, err := Combine([][]float64{{1, 2, 3}}, [][]float64{{0}, {1}}, intensities)
	require.NoError(t, err)

	rows, _ := intensity.Dims()
	require.Equal(t, 3, rows)
	assert.Equal(t, []float64{4, 5, 6}, intensity.RawRowView(1))
	assert.Equal(t, []float64{7, 8, 9}, intensity.RawRowView(2))
}
