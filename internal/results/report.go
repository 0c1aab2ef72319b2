package results

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/stellapse/prewhiten/internal/extract"
	"github.com/stellapse/prewhiten/internal/fsutil"
	"github.com/stellapse/prewhiten/internal/periodogram"
)

// ReportWriter renders an HTML summary of a batch: the last spectrum of
// each dataset and the extracted frequencies plotted as amplitude vs
// frequency.
type ReportWriter struct {
	FS fsutil.FileSystem
}

// NewReportWriter returns a writer backed by the real filesystem.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{FS: fsutil.OSFileSystem{}}
}

// DatasetResult pairs a dataset label with its extraction output for
// reporting.
type DatasetResult struct {
	Label    string
	Spectrum *periodogram.Spectrum
	Records  []extract.FrequencyRecord
}

// Write renders the report for the given datasets to path.
func (rw *ReportWriter) Write(path string, datasets []DatasetResult) error {
	page := components.NewPage()
	for _, ds := range datasets {
		if ds.Spectrum != nil {
			page.AddCharts(spectrumChart(ds))
		}
		if len(ds.Records) > 0 {
			page.AddCharts(frequencyChart(ds))
		}
	}

	f, err := rw.FS.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return f.Close()
}

func spectrumChart(ds DatasetResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: residual amplitude spectrum", ds.Label),
			Subtitle: fmt.Sprintf("%d samples", ds.Spectrum.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Frequency"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Amplitude"}),
	)

	xs := make([]string, ds.Spectrum.Len())
	ys := make([]opts.LineData, ds.Spectrum.Len())
	for i := range ds.Spectrum.Frequency {
		xs[i] = fmt.Sprintf("%.4f", ds.Spectrum.Frequency[i])
		ys[i] = opts.LineData{Value: ds.Spectrum.Power[i]}
	}
	line.SetXAxis(xs).AddSeries("amplitude", ys)
	return line
}

func frequencyChart(ds DatasetResult) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: extracted frequencies", ds.Label),
			Subtitle: fmt.Sprintf("%d significant frequencies", len(ds.Records)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Frequency"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Amplitude"}),
	)

	data := make([]opts.ScatterData, len(ds.Records))
	for i, rec := range ds.Records {
		data[i] = opts.ScatterData{Value: []interface{}{rec.Frequency, rec.Amplitude, rec.SNR}}
	}
	scatter.AddSeries("frequencies", data,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	return scatter
}
