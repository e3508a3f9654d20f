// Package config handles application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range values.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config defines the structure for all application configuration.
type Config struct {
	LogLevel     string         `yaml:"log_level"`
	Seed         uint64         `yaml:"seed"`
	Days         int            `yaml:"days"`
	StartDate    Date           `yaml:"start_date"`
	ForecastDays int            `yaml:"forecast_days"`
	OutputDir    string         `yaml:"output_dir"`
	Hypothesis   HypothesisConf `yaml:"hypothesis"`
	Chart        ChartConf      `yaml:"chart"`
}

// HypothesisConf holds configuration for the weekday/weekend mean test.
type HypothesisConf struct {
	Alpha         float64  `yaml:"alpha"`
	EqualVariance FlexBool `yaml:"equal_variance"` // false selects Welch's test
}

// ChartConf holds configuration for the exploratory chart.
type ChartConf struct {
	Enabled FlexBool `yaml:"enabled"`
	DPI     int      `yaml:"dpi"`
}

// Output file names, relative to OutputDir.
const (
	ChartFile    = "analise_exploratoria.png"
	DatasetFile  = "dados_acai_analisados.csv"
	ForecastFile = "previsao_proximos_dias.csv"
)

// Default returns the configuration of the reference run.
func Default() *Config {
	start, _ := ParseDate("2024-01-01")
	return &Config{
		LogLevel:     "info",
		Seed:         42,
		Days:         60,
		StartDate:    start,
		ForecastDays: 7,
		OutputDir:    ".",
		Hypothesis: HypothesisConf{
			Alpha:         0.05,
			EqualVariance: true,
		},
		Chart: ChartConf{
			Enabled: true,
			DPI:     300,
		},
	}
}

// LoadConfig loads configuration from the specified YAML file path
// and environment variables. An empty path yields the defaults plus
// environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	// Overrides from environment variables
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if seed := os.Getenv("STUDY_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: STUDY_SEED=%q is not an unsigned integer", ErrInvalidConfig, seed)
		}
		cfg.Seed = v
	}
	if outDir := os.Getenv("STUDY_OUTPUT_DIR"); outDir != "" {
		cfg.OutputDir = outDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the study cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Days <= 0:
		return fmt.Errorf("%w: days must be positive, got %d", ErrInvalidConfig, c.Days)
	case c.ForecastDays <= 0:
		return fmt.Errorf("%w: forecast_days must be positive, got %d", ErrInvalidConfig, c.ForecastDays)
	case c.Hypothesis.Alpha <= 0 || c.Hypothesis.Alpha >= 1:
		return fmt.Errorf("%w: hypothesis.alpha must be in (0, 1), got %v", ErrInvalidConfig, c.Hypothesis.Alpha)
	case c.Chart.DPI <= 0:
		return fmt.Errorf("%w: chart.dpi must be positive, got %d", ErrInvalidConfig, c.Chart.DPI)
	case c.StartDate.IsZero():
		return fmt.Errorf("%w: start_date is required", ErrInvalidConfig)
	}
	return nil
}

// OutputPath joins name onto the configured output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.OutputDir, name)
}
