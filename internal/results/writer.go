// Package results persists extraction output: per-round spectrum data and
// plots, a sqlite store of extracted frequencies, and an HTML batch report.
package results

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stellapse/prewhiten/internal/fsutil"
	"github.com/stellapse/prewhiten/internal/periodogram"
)

// SpectrumWriter writes a spectrum as a CSV data file plus a rendered PNG
// line plot into a per-dataset directory.
type SpectrumWriter struct {
	FS fsutil.FileSystem
}

// NewSpectrumWriter returns a writer backed by the real filesystem.
func NewSpectrumWriter() *SpectrumWriter {
	return &SpectrumWriter{FS: fsutil.OSFileSystem{}}
}

// Save writes dir/base.csv and dir/base.png, creating dir as needed.
func (w *SpectrumWriter) Save(spec *periodogram.Spectrum, dir, base string) error {
	if err := w.FS.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create result dir: %w", err)
	}
	if err := w.writeCSV(spec, filepath.Join(dir, base+".csv")); err != nil {
		return err
	}
	return w.writePlot(spec, filepath.Join(dir, base+".png"))
}

func (w *SpectrumWriter) writeCSV(spec *periodogram.Spectrum, path string) error {
	f, err := w.FS.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"frequency", "amplitude"}); err != nil {
		return err
	}
	for i := range spec.Frequency {
		rec := []string{
			strconv.FormatFloat(spec.Frequency[i], 'g', -1, 64),
			strconv.FormatFloat(spec.Power[i], 'g', -1, 64),
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

func (w *SpectrumWriter) writePlot(spec *periodogram.Spectrum, path string) error {
	p := plot.New()
	p.Title.Text = "Amplitude spectrum"
	p.X.Label.Text = "Frequency"
	p.Y.Label.Text = "Amplitude"

	pts := make(plotter.XYs, spec.Len())
	for i := range spec.Frequency {
		pts[i] = plotter.XY{X: spec.Frequency[i], Y: spec.Power[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build spectrum line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	wt, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render spectrum plot: %w", err)
	}
	f, err := w.FS.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
