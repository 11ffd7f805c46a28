// Package config loads the small on-disk settings file the command-line
// entry point reads before building an architecture: which one to run
// by default, how many cycles to allow before giving up, and whether to
// turn on the fetch/cycle tracing the interpreter and architectures both
// honor via their ttyOut flag.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level settings document.
type Config struct {
	Architecture string `yaml:"architecture"`
	MaxCycles    uint64 `yaml:"max_cycles"`
	TTYOut       bool   `yaml:"tty_out"`
}

// Default returns the settings used when no config file is present.
func Default() Config {
	return Config{Architecture: "pipe_std", MaxCycles: 100000, TTYOut: false}
}

// Load reads and parses a YAML config file at path, filling in defaults
// for any field the file omits.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
