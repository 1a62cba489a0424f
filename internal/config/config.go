// Package config loads multitex settings from an optional YAML file, the
// environment and built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/multitex/internal/cleanup"
	"git.home.luguber.info/inful/multitex/internal/compiler"
	"git.home.luguber.info/inful/multitex/internal/levels"
	"git.home.luguber.info/inful/multitex/internal/outdir"
)

// DefaultPath is the configuration file picked up from the working directory
// when no path is given.
const DefaultPath = "multitex.yaml"

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Config represents the application configuration.
type Config struct {
	Compile CompileConfig `yaml:"compile"`
	Output  OutputConfig  `yaml:"output"`
	Scan    ScanConfig    `yaml:"scan"`
	Cleanup CleanupConfig `yaml:"cleanup"`
	Logging LoggingConfig `yaml:"logging"`
	History HistoryConfig `yaml:"history"`
}

// CompileConfig controls the external LaTeX engine.
type CompileConfig struct {
	// Enabled defaults to true when omitted.
	Enabled *bool         `yaml:"enabled,omitempty"`
	Engine  string        `yaml:"engine,omitempty"`
	Args    []string      `yaml:"args,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	Passes  int           `yaml:"passes,omitempty"`
}

// IsEnabled reports whether variants should be compiled.
func (c CompileConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// OutputConfig controls output directory handling.
type OutputConfig struct {
	Prepare outdir.Policy `yaml:"prepare,omitempty"`
}

// ScanConfig controls marker discovery.
type ScanConfig struct {
	Pattern         string       `yaml:"pattern,omitempty"`
	AssignmentOrder levels.Order `yaml:"assignment_order,omitempty"`
}

// CleanupConfig lists byproduct extensions removed after a run.
type CleanupConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
}

// HistoryConfig enables the run history database when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Compile.Engine == "" {
		c.Compile.Engine = compiler.DefaultEngine
	}
	if c.Compile.Args == nil {
		c.Compile.Args = append([]string(nil), compiler.DefaultArgs...)
	}
	if c.Compile.Passes == 0 {
		c.Compile.Passes = 1
	}
	if c.Output.Prepare == "" {
		c.Output.Prepare = outdir.PolicyClean
	}
	if c.Scan.AssignmentOrder == "" {
		c.Scan.AssignmentOrder = levels.OrderSorted
	}
	c.Cleanup.Extensions = cleanup.NormalizeExtensions(c.Cleanup.Extensions)
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

// Load reads the configuration file at path, expands environment variables in
// it, applies environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path when set. With an empty path it loads DefaultPath
// if present and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultPath)
	if errors.Is(err, ErrNotFound) {
		cfg = Default()
		applyEnvOverrides(cfg)
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// Parse decodes YAML configuration without touching the filesystem.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
