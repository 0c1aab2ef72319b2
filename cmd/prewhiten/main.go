// Command prewhiten extracts significant periodic signals from one or more
// light-curve CSV files by iterative prewhitening. Each input file is
// processed as an independent dataset; results are written under the output
// directory and recorded in a sqlite store.
//
// Usage:
//
//	prewhiten [flags] lightcurve.csv [more.csv ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gonum.org/v1/gonum/mat"

	"github.com/stellapse/prewhiten/internal/config"
	"github.com/stellapse/prewhiten/internal/extract"
	"github.com/stellapse/prewhiten/internal/lightcurve"
	"github.com/stellapse/prewhiten/internal/periodogram"
	"github.com/stellapse/prewhiten/internal/results"
	"github.com/stellapse/prewhiten/internal/version"
)

var (
	configPath = flag.String("config", "", "Path to a JSON run config (defaults apply when empty)")
	mode       = flag.String("mode", "", "Override persistence mode: Full or Normal")
	snr        = flag.Float64("snr", 0, "Override the SNR stop criterion (0 keeps the config value)")
	window     = flag.Float64("window", 0, "Override the noise window size in frequency units (0 keeps the config value)")
	outDir     = flag.String("out", "", "Override the output directory")
	storePath  = flag.String("store", "", "Override the sqlite store path")
	noStore    = flag.Bool("no-store", false, "Skip recording runs in the sqlite store")
	showVer    = flag.Bool("version", false, "Print version information and exit")
)

func main() {
	flag.Parse()
	if *showVer {
		fmt.Printf("prewhiten %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: prewhiten [flags] lightcurve.csv [more.csv ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := loadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *results.Store
	if !*noStore {
		var err error
		store, err = results.OpenStore(cfg.GetStorePath())
		if err != nil {
			log.Fatalf("Failed to open results store: %v", err)
		}
		defer store.Close()
	}

	writer := results.NewSpectrumWriter()
	band := periodogram.Band{Min: cfg.GetFrequencyMin(), Max: cfg.GetFrequencyMax()}

	var (
		freqLists      [][]float64
		timeLists      [][]float64
		intensityLists []*mat.Dense
		report         []results.DatasetResult
		interrupted    bool
	)

	for _, path := range files {
		lc, err := loadLightCurve(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}

		session := &extract.Session{
			Band:                    band,
			SNRCriterion:            cfg.GetSNRCriterion(),
			WindowSize:              cfg.GetWindowSize(),
			Mode:                    extract.Mode(cfg.GetMode()),
			SimilarFrequenciesCount: cfg.GetSimilarFrequenciesCount(),
			SimilarityStdDev:        cfg.GetSimilarityStdDev(),
			Saver:                   writer,
			SaveDir:                 filepath.Join(cfg.GetOutputDir(), "results", lc.DirName()),
		}

		var runID string
		if store != nil {
			if runID, err = store.CreateRun(path); err != nil {
				log.Fatalf("Failed to create run for %s: %v", path, err)
			}
		}

		res, err := session.Run(ctx, lc)
		if err != nil {
			// Numerical failures are fatal to one dataset, not the batch.
			log.Printf("Extraction failed for %s: %v", path, err)
			if store != nil {
				if err := store.FinishRun(runID, "failed"); err != nil {
					log.Printf("Failed to record run state: %v", err)
				}
			}
			continue
		}

		log.Printf("%s: %d frequencies, %s", path, len(res.Records), res.State)
		if store != nil {
			if err := store.RecordFrequencies(runID, res.Records); err != nil {
				log.Printf("Failed to record frequencies for %s: %v", path, err)
			}
			if err := store.FinishRun(runID, res.State.String()); err != nil {
				log.Printf("Failed to record run state: %v", err)
			}
		}

		if res.SpectrogramIntensity != nil {
			freqLists = append(freqLists, res.SpectrogramFrequencies)
			timeLists = append(timeLists, res.SpectrogramTimes)
			intensityLists = append(intensityLists, res.SpectrogramIntensity)
		}
		report = append(report, results.DatasetResult{
			Label:    filepath.Base(path),
			Spectrum: res.StagedSpectrum(),
			Records:  res.Records,
		})

		if res.Interrupted() {
			log.Printf("Interrupted run; aborting remaining datasets")
			interrupted = true
			break
		}
	}

	if len(intensityLists) > 0 {
		f, t, intensity, err := extract.Combine(freqLists, timeLists, intensityLists)
		if err != nil {
			log.Fatalf("Failed to combine datasets: %v", err)
		}
		path := filepath.Join(cfg.GetOutputDir(), "spectrogram.csv")
		if err := results.WriteSpectrogram(writer.FS, path, f, t, intensity); err != nil {
			log.Fatalf("Failed to write spectrogram: %v", err)
		}
	}

	if len(report) > 0 {
		path := filepath.Join(cfg.GetOutputDir(), "report.html")
		if err := results.NewReportWriter().Write(path, report); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}

	if interrupted {
		os.Exit(130)
	}
}

func loadConfig() *config.RunConfig {
	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *mode != "" {
		cfg.Mode = mode
	}
	if *snr > 0 {
		cfg.SNRCriterion = snr
	}
	if *window > 0 {
		cfg.WindowSize = window
	}
	if *outDir != "" {
		cfg.OutputDir = outDir
	}
	if *storePath != "" {
		cfg.StorePath = storePath
	}
	return cfg
}

func loadLightCurve(path string) (*lightcurve.LightCurve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return lightcurve.ReadCSV(f)
}
