// Package config loads swesoc run configuration from YAML files and
// environment variables. Order: defaults → file → SWESOC_* environment
// overrides → Validate.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/BBenyamini/swesoc"
)

// RunConfig describes one complete simulation run: the compartment model,
// the scaling-function bindings, the discretization, where the driver
// series come from, and where the results go.
type RunConfig struct {
	// Logging configures the CLI's operational output.
	Logging LoggingConfig `yaml:"logging"`

	// Run fixes the discretization.
	Run StepConfig `yaml:"run"`

	// Model declares the compartment system.
	Model ModelConfig `yaml:"model"`

	// Scaling binds named scaling functions to driver channels. Empty is
	// valid: ξ ≡ 1 and the kinetics run unmodified.
	Scaling []BindingConfig `yaml:"scaling"`

	// Drivers names the CSV file and the column each channel reads.
	Drivers DriverConfig `yaml:"drivers"`

	// Output controls persistence and export of the trajectory.
	Output OutputConfig `yaml:"output"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `yaml:"level"`
}

// StepConfig fixes the discretization of the run.
type StepConfig struct {
	// StepSize is Δt in the model's time unit (years for annual models).
	StepSize float64 `yaml:"step_size"`

	// Steps is the simulation horizon.
	Steps int `yaml:"steps"`
}

// ModelConfig declares the compartment system, field for field the
// swesoc.CompartmentModel it builds.
type ModelConfig struct {
	Pools       int         `yaml:"pools"`
	Initial     []float64   `yaml:"initial"`
	Input       []float64   `yaml:"input"`
	Kinetics    [][]float64 `yaml:"kinetics"`
	NonNegative bool        `yaml:"non_negative"`
}

// BindingConfig attaches one scaling function to one driver channel.
type BindingConfig struct {
	Channel  string             `yaml:"channel"`
	Function string             `yaml:"function"`
	Params   map[string]float64 `yaml:"params"`
}

// DriverConfig names the driver-series source.
type DriverConfig struct {
	// File is the CSV path holding the driver series.
	File string `yaml:"file"`

	// Columns maps each bound channel to its CSV column name. A channel
	// absent from the map reads the column named after the channel.
	Columns map[string]string `yaml:"columns"`
}

// OutputConfig controls what happens to a completed trajectory.
type OutputConfig struct {
	// Store is the SQLite database runs are recorded in; empty disables
	// persistence.
	Store string `yaml:"store"`

	// Export is the file the trajectory is written to; empty disables
	// export.
	Export string `yaml:"export"`

	// Format is "csv" or "parquet"; inferred from the Export extension
	// when empty.
	Format string `yaml:"format"`

	// Label tags the run in the store.
	Label string `yaml:"label"`
}

// Default returns a two-pool ICBM run with the published arable defaults
// and a century of annual steps - a configuration that validates and runs
// as-is once a driver file is supplied (or scaling is left empty).
func Default() *RunConfig {
	return &RunConfig{
		Logging: LoggingConfig{Level: "info"},
		Run:     StepConfig{StepSize: 1, Steps: 100},
		Model: ModelConfig{
			Pools:   2,
			Initial: []float64{4.0, 50.0},
			Input:   []float64{0.3, 0},
			Kinetics: [][]float64{
				{0.8, 0},
				{0.13 * 0.8, 0.006},
			},
		},
		Output: OutputConfig{Label: "run"},
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
// and applies environment overrides. Unknown YAML fields are errors - a
// silently ignored typo would run the wrong model.
func LoadFromFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate checks the whole configuration eagerly, model invariants
// included, so a malformed run never reaches the engine.
func (c *RunConfig) Validate() error {
	if err := c.Model.toModel().Validate(); err != nil {
		return err
	}
	if !(c.Run.StepSize > 0) {
		return fmt.Errorf("run.step_size must be positive, got %g", c.Run.StepSize)
	}
	if c.Run.Steps < 1 {
		return fmt.Errorf("run.steps must be at least 1, got %d", c.Run.Steps)
	}
	for i, b := range c.Scaling {
		if b.Channel == "" {
			return fmt.Errorf("scaling[%d]: channel is required", i)
		}
		// Build validates the name and every parameter.
		if _, err := swesoc.Build(b.Function, b.Params); err != nil {
			return fmt.Errorf("scaling[%d] (%s): %w", i, b.Channel, err)
		}
	}
	if len(c.Scaling) > 0 && c.Drivers.File == "" {
		return fmt.Errorf("drivers.file is required when scaling functions are bound")
	}
	switch c.Output.Format {
	case "", "csv", "parquet":
	default:
		return fmt.Errorf("output.format must be csv or parquet, got %q", c.Output.Format)
	}
	return nil
}

// CompartmentModel builds the swesoc model the configuration declares.
func (c *RunConfig) CompartmentModel() swesoc.CompartmentModel {
	return c.Model.toModel()
}

// Bindings builds the swesoc channel bindings the configuration declares.
func (c *RunConfig) Bindings() []swesoc.Binding {
	out := make([]swesoc.Binding, len(c.Scaling))
	for i, b := range c.Scaling {
		out[i] = swesoc.Binding{Channel: b.Channel, Function: b.Function, Params: b.Params}
	}
	return out
}

// SimConfig builds the engine discretization the configuration declares.
func (c *RunConfig) SimConfig() swesoc.SimConfig {
	return swesoc.SimConfig{StepSize: c.Run.StepSize, Steps: c.Run.Steps}
}

// Column resolves the CSV column a channel reads: the mapped name when one
// is configured, the channel name otherwise.
func (c *RunConfig) Column(channel string) string {
	if col, ok := c.Drivers.Columns[channel]; ok {
		return col
	}
	return channel
}

func (m ModelConfig) toModel() swesoc.CompartmentModel {
	return swesoc.CompartmentModel{
		Pools:       m.Pools,
		Initial:     m.Initial,
		Input:       m.Input,
		Kinetics:    m.Kinetics,
		NonNegative: m.NonNegative,
	}
}

// applyEnvOverrides applies SWESOC_* environment overrides to the config.
func applyEnvOverrides(cfg *RunConfig) {
	if v := os.Getenv("SWESOC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SWESOC_STORE"); v != "" {
		cfg.Output.Store = v
	}
	if v := os.Getenv("SWESOC_EXPORT"); v != "" {
		cfg.Output.Export = v
	}
	if v := os.Getenv("SWESOC_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.Steps = n
		}
	}
}
