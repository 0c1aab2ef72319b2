// Package config loads run configuration for the extraction pipeline. The
// JSON schema uses pointer-typed optional fields so a config file only
// needs to name the values it overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// RunConfig holds the tunable parameters of an extraction batch.
type RunConfig struct {
	// Mode controls spectrum persistence: "Full" saves every round,
	// "Normal" saves the first round plus the final spectrum.
	Mode *string `json:"mode,omitempty"`

	// Frequency band forwarded to spectrum computation every round.
	FrequencyMin *float64 `json:"frequency_min,omitempty"`
	FrequencyMax *float64 `json:"frequency_max,omitempty"`

	// Extraction stops once the residual peak's signal-to-noise ratio
	// drops to this value or below.
	SNRCriterion *float64 `json:"snr_criterion,omitempty"`

	// Width (in frequency units) of each noise-floor window beside the
	// peak's bracketing minima.
	WindowSize *float64 `json:"window_size,omitempty"`

	// Oscillation guard: stop when the last similar_frequencies_count
	// extracted frequencies have a standard deviation below
	// similarity_std_dev.
	SimilarFrequenciesCount *int     `json:"similar_frequencies_count,omitempty"`
	SimilarityStdDev        *float64 `json:"similarity_std_dev,omitempty"`

	// Output locations.
	OutputDir *string `json:"output_dir,omitempty"`
	StorePath *string `json:"store_path,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultRunConfig returns a config with every field set to its default.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Mode:                    ptrString("Normal"),
		FrequencyMin:            ptrFloat64(0),
		FrequencyMax:            ptrFloat64(50),
		SNRCriterion:            ptrFloat64(4),
		WindowSize:              ptrFloat64(2),
		SimilarFrequenciesCount: ptrInt(10),
		SimilarityStdDev:        ptrFloat64(0.05),
		OutputDir:               ptrString("."),
		StorePath:               ptrString("prewhiten.db"),
	}
}

// LoadRunConfig reads a JSON config file and overlays it onto the defaults.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var overrides RunConfig
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := DefaultRunConfig()
	cfg.merge(&overrides)
	return cfg, nil
}

func (c *RunConfig) merge(o *RunConfig) {
	if o.Mode != nil {
		c.Mode = o.Mode
	}
	if o.FrequencyMin != nil {
		c.FrequencyMin = o.FrequencyMin
	}
	if o.FrequencyMax != nil {
		c.FrequencyMax = o.FrequencyMax
	}
	if o.SNRCriterion != nil {
		c.SNRCriterion = o.SNRCriterion
	}
	if o.WindowSize != nil {
		c.WindowSize = o.WindowSize
	}
	if o.SimilarFrequenciesCount != nil {
		c.SimilarFrequenciesCount = o.SimilarFrequenciesCount
	}
	if o.SimilarityStdDev != nil {
		c.SimilarityStdDev = o.SimilarityStdDev
	}
	if o.OutputDir != nil {
		c.OutputDir = o.OutputDir
	}
	if o.StorePath != nil {
		c.StorePath = o.StorePath
	}
}

// Getter methods with defaults for nil fields.

func (c *RunConfig) GetMode() string {
	if c.Mode == nil {
		return "Normal"
	}
	return *c.Mode
}

func (c *RunConfig) GetFrequencyMin() float64 {
	if c.FrequencyMin == nil {
		return 0
	}
	return *c.FrequencyMin
}

func (c *RunConfig) GetFrequencyMax() float64 {
	if c.FrequencyMax == nil {
		return 50
	}
	return *c.FrequencyMax
}

func (c *RunConfig) GetSNRCriterion() float64 {
	if c.SNRCriterion == nil {
		return 4
	}
	return *c.SNRCriterion
}

func (c *RunConfig) GetWindowSize() float64 {
	if c.WindowSize == nil {
		return 2
	}
	return *c.WindowSize
}

func (c *RunConfig) GetSimilarFrequenciesCount() int {
	if c.SimilarFrequenciesCount == nil {
		return 10
	}
	return *c.SimilarFrequenciesCount
}

func (c *RunConfig) GetSimilarityStdDev() float64 {
	if c.SimilarityStdDev == nil {
		return 0.05
	}
	return *c.SimilarityStdDev
}

func (c *RunConfig) GetOutputDir() string {
	if c.OutputDir == nil {
		return "."
	}
	return *c.OutputDir
}

func (c *RunConfig) GetStorePath() string {
	if c.StorePath == nil {
		return "prewhiten.db"
	}
	return *c.StorePath
}
