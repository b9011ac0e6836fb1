// Package config loads the settings of the tracecfg command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/tracecfg/translate"
)

var f = translate.From

var (
	ErrFormat  = errors.New(f("output format unknown"))
	ErrEntry   = errors.New(f("entry address invalid"))
	ErrVerbose = errors.New(f("verbose setting invalid"))
)

// Format is the output format of a built graph.
type Format string

const (
	FormatListing Format = "listing" // Block listings, newest block first.
	FormatDot     Format = "dot"     // Graphviz DOT.
)

// ConfigFile is the project-level configuration file.
const ConfigFile = ".tracecfg.yaml"

// Config holds the settings of the tracecfg command.
//
// The env tags name the environment variables applied over the file
// settings by Load and LoadFromFile.
type Config struct {
	// Entry is the entry point used when a trace does not name one.
	Entry *int `yaml:"entry,omitempty" env:"TRACECFG_ENTRY"`

	// Format selects the output of the build.
	Format Format `yaml:"format" env:"TRACECFG_FORMAT"`

	// GraphName is the name of the DOT digraph.
	GraphName string `yaml:"graph_name" env:"TRACECFG_GRAPH_NAME"`

	// Verbose enables logging of the parser and builder.
	Verbose bool `yaml:"verbose" env:"TRACECFG_VERBOSE"`

	// Predefine holds equates given to every text trace.
	Predefine map[string]string `yaml:"predefine,omitempty"`
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() *Config {
	return &Config{
		Format:    FormatListing,
		GraphName: "cfg",
	}
}

// Load reads the project-level config (./.tracecfg.yaml) when present,
// then applies environment overrides.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(ConfigFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", ConfigFile, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path, then
// applies environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TRACECFG_ENTRY"); v != "" {
		entry, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return fmt.Errorf("TRACECFG_ENTRY=%s: %w", v, ErrEntry)
		}
		e := int(entry)
		cfg.Entry = &e
	}
	if v := os.Getenv("TRACECFG_FORMAT"); v != "" {
		cfg.Format = Format(v)
	}
	if v := os.Getenv("TRACECFG_GRAPH_NAME"); v != "" {
		cfg.GraphName = v
	}
	if v := os.Getenv("TRACECFG_VERBOSE"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRACECFG_VERBOSE=%s: %w", v, ErrVerbose)
		}
		cfg.Verbose = verbose
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatListing, FormatDot:
	default:
		return fmt.Errorf("format %q: %w", c.Format, ErrFormat)
	}
	return nil
}
