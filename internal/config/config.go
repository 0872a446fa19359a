// Package config loads sweep configuration from YAML. Flags from the
// CLI override file values; missing fields fall back to the defaults
// of the original driver.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"curie/internal/model"
	"curie/internal/sweep"
)

const DefaultOutputFile = "data_monte_carlo_ising.csv"

type TemperatureRange struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

type Config struct {
	LatticeSize int              `yaml:"lattice_size"`
	Temperature TemperatureRange `yaml:"temperature"`

	// Pointers distinguish an explicit zero, a valid degenerate run,
	// from an absent key that should take the default.
	ThermalizationSweeps *int `yaml:"thermalization_sweeps"`
	DecorrelationSweeps  *int `yaml:"decorrelation_sweeps"`

	BinningLevels int    `yaml:"binning_levels"`
	Seed          int64  `yaml:"seed"`
	Workers       int    `yaml:"workers"`
	Output        string `yaml:"output"`
}

// Default mirrors the reference driver: a 32x32 lattice swept from
// T=3.0 down to T=2.0 in steps of 0.1, with 10^6 thermalization
// sweeps, 10^3 decorrelation sweeps and 2^16 measurements.
func Default() *Config {
	return &Config{
		LatticeSize:          32,
		Temperature:          TemperatureRange{Start: 3.0, Stop: 2.0, Step: -0.1},
		ThermalizationSweeps: intPtr(1_000_000),
		DecorrelationSweeps:  intPtr(1_000),
		BinningLevels:        16,
		Seed:                 1,
		Output:               DefaultOutputFile,
	}
}

func intPtr(v int) *int {
	return &v
}

// LoadFromPath loads config from a specific path and fills missing
// fields with defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LatticeSize == 0 {
		c.LatticeSize = def.LatticeSize
	}
	if c.Temperature == (TemperatureRange{}) {
		c.Temperature = def.Temperature
	}
	if c.ThermalizationSweeps == nil {
		c.ThermalizationSweeps = def.ThermalizationSweeps
	}
	if c.DecorrelationSweeps == nil {
		c.DecorrelationSweeps = def.DecorrelationSweeps
	}
	if c.BinningLevels == 0 {
		c.BinningLevels = def.BinningLevels
	}
	if c.Output == "" {
		c.Output = def.Output
	}
}

// SweepConfig converts to the persisted sweep configuration record.
func (c *Config) SweepConfig() model.SweepConfig {
	return model.SweepConfig{
		LatticeSize:          c.LatticeSize,
		TemperatureStart:     c.Temperature.Start,
		TemperatureStop:      c.Temperature.Stop,
		TemperatureStep:      c.Temperature.Step,
		ThermalizationSweeps: *c.ThermalizationSweeps,
		DecorrelationSweeps:  *c.DecorrelationSweeps,
		BinningLevels:        c.BinningLevels,
		Seed:                 c.Seed,
		Workers:              c.Workers,
	}
}

// Validate rejects configurations the simulation core would refuse.
func (c *Config) Validate() error {
	return sweep.Validate(c.SweepConfig())
}
