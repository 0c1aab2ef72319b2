package lightcurve

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a two-column light curve (time, flux) from r. A header row
// is skipped when its first field does not parse as a number. Extra columns
// are ignored so TESS/Kepler-style exports with quality flags still load.
func ReadCSV(r io.Reader) (*LightCurve, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var times, fluxes []float64
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read light curve: %w", err)
		}
		line++
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: need at least 2 columns, got %d", line, len(rec))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if err != nil {
			if line == 1 {
				// header row
				continue
			}
			return nil, fmt.Errorf("line %d: bad time value %q", line, rec[0])
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad flux value %q", line, rec[1])
		}
		times = append(times, t)
		fluxes = append(fluxes, f)
	}
	return New(times, fluxes)
}

// WriteCSV writes the light curve as two columns with a header row.
func WriteCSV(w io.Writer, lc *LightCurve) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "flux"}); err != nil {
		return err
	}
	for i := range lc.Time {
		rec := []string{
			strconv.FormatFloat(lc.Time[i], 'g', -1, 64),
			strconv.FormatFloat(lc.Flux[i], 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
