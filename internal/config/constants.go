// Package config resolves the compiler's configuration knobs (spec.md
// §6, SPEC_FULL.md §4.10): CLI flags override an optional funxyc.yaml
// project file, which overrides built-in defaults. Loading is a pure
// parse step — nothing here mutates the constraint graph or reads the
// source tree being compiled.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// IntegerWidth is the bit width the emitter should assume for the
// Int class (spec.md §6; the original tool's `-l/--long` flag).
type IntegerWidth int

const (
	Width32 IntegerWidth = 32
	Width64 IntegerWidth = 64
)

// Config holds every resolved knob for one compiler run.
type Config struct {
	IntegerWidth        IntegerWidth `yaml:"integer_width"`
	AssumeBoundsChecked bool         `yaml:"assume_bounds_checked"`
	AssertionsEnabled   bool         `yaml:"assertions_enabled"`

	// DebugLevel 0-3 (the original tool's `-d`). It is resolved and
	// carried here only; no other package reads it, so no level adds
	// tracing or changes the analysis.
	DebugLevel int `yaml:"debug_level"`

	// MaxIterations bounds the driver's build/propagate/specialize/IFA
	// outer loop (spec.md §5).
	MaxIterations int `yaml:"max_iterations"`

	GraphDB string `yaml:"-"`
	EmitRPC string `yaml:"-"`
	Silent  bool   `yaml:"-"`
}

// Defaults returns the built-in configuration before any YAML file or
// CLI flag has been applied.
func Defaults() Config {
	return Config{
		IntegerWidth:        Width64,
		AssumeBoundsChecked: false,
		AssertionsEnabled:   true,
		DebugLevel:          0,
		MaxIterations:       30,
	}
}

// LoadYAML reads a funxyc.yaml project file, if present, and overlays
// it onto base. A missing file is not an error — funxyc.yaml is
// optional (SPEC_FULL.md §4.10).
func LoadYAML(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return base, err
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return base, err
	}
	return base, nil
}

// Flags carries the subset of knobs the CLI can override; a nil
// pointer field means "not passed on the command line, defer to the
// YAML file or the built-in default" (spec.md §6 precedence: CLI >
// funxyc.yaml > defaults).
type Flags struct {
	IntegerWidth        *IntegerWidth
	AssumeBoundsChecked *bool
	AssertionsEnabled   *bool
	DebugLevel          *int
	MaxIterations       *int
	GraphDB             string
	EmitRPC             string
	Silent              bool
}

// Apply overlays f onto base, honoring the CLI-wins-over-file
// precedence (SPEC_FULL.md §4.10).
func (f Flags) Apply(base Config) Config {
	if f.IntegerWidth != nil {
		base.IntegerWidth = *f.IntegerWidth
	}
	if f.AssumeBoundsChecked != nil {
		base.AssumeBoundsChecked = *f.AssumeBoundsChecked
	}
	if f.AssertionsEnabled != nil {
		base.AssertionsEnabled = *f.AssertionsEnabled
	}
	if f.DebugLevel != nil {
		base.DebugLevel = *f.DebugLevel
	}
	if f.MaxIterations != nil {
		base.MaxIterations = *f.MaxIterations
	}
	base.GraphDB = f.GraphDB
	base.EmitRPC = f.EmitRPC
	base.Silent = f.Silent
	return base
}

// Resolve is the entry point cmd/funxyc calls: defaults, overlaid by
// an optional YAML file, overlaid by parsed CLI flags.
func Resolve(yamlPath string, flags Flags) (Config, error) {
	cfg := Defaults()
	if yamlPath != "" {
		var err error
		cfg, err = LoadYAML(cfg, yamlPath)
		if err != nil {
			return cfg, err
		}
	}
	return flags.Apply(cfg), nil
}
