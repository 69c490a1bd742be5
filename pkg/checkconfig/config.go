// Package checkconfig loads checkir's optional .checkir.yaml options file,
// mirroring the shape of a rule-based analyzer's project config: a
// versioned document with a lore choice and global settings, found
// by walking up from a starting directory and merged over a built-in
// default (spec.md §4.8's occurrence-checking toggle is one such setting).
package checkconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFileName = ".checkir.yaml"

// Config is checkir's effective configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Lore     string         `yaml:"lore"`
	Settings SettingsConfig `yaml:"settings"`
}

// SettingsConfig holds the global knobs every run respects.
type SettingsConfig struct {
	// CheckOccurrences selects CheckProg (true) or CheckProgNoUniqueness
	// (false); spec.md §4.8's toggle.
	CheckOccurrences bool `yaml:"check_occurrences"`
	// Exclude lists glob patterns of IR program files to skip when
	// checking a whole directory.
	Exclude []string `yaml:"exclude"`
	// FailOn lists the error-case names (see checker.ErrorCase) that
	// ShouldFailOn reports as failing. An empty list means every case
	// fails. The check command does not consult it: every unit is checked,
	// and any finding makes the run exit non-zero.
	FailOn []string `yaml:"fail_on,omitempty"`
}

// DefaultConfig returns checkir's built-in defaults: full occurrence
// checking, the core lore, and the conventional exclusions for generated
// or vendored IR.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Lore:    "core",
		Settings: SettingsConfig{
			CheckOccurrences: true,
			Exclude: []string{
				"vendor/**",
				"**/*.generated.json",
			},
		},
	}
}

// LoadConfig reads and parses a config file from an exact path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// FindConfig searches startDir and its parents for .checkir.yaml,
// returning "" if none is found anywhere up to the filesystem root.
func FindConfig(startDir string) (string, error) {
	dir := startDir
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadConfigWithDefaults loads the nearest .checkir.yaml above
// projectRoot, if any, merged over DefaultConfig.
func LoadConfigWithDefaults(projectRoot string) (*Config, error) {
	cfg := DefaultConfig()

	path, err := FindConfig(projectRoot)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	override, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return MergeConfigs(cfg, override), nil
}

// MergeConfigs layers override on top of base: a zero-value field in
// override leaves base's value in place.
func MergeConfigs(base, override *Config) *Config {
	result := &Config{
		Version:  base.Version,
		Lore:     base.Lore,
		Settings: base.Settings,
	}
	if override.Version != 0 {
		result.Version = override.Version
	}
	if override.Lore != "" {
		result.Lore = override.Lore
	}
	if len(override.Settings.Exclude) > 0 {
		result.Settings.Exclude = override.Settings.Exclude
	}
	if len(override.Settings.FailOn) > 0 {
		result.Settings.FailOn = override.Settings.FailOn
	}
	result.Settings.CheckOccurrences = override.Settings.CheckOccurrences
	return result
}

// ShouldExclude reports whether path matches one of the configured
// exclusion globs, tried against both the full path and its base name.
func (c *Config) ShouldExclude(path string) bool {
	for _, pattern := range c.Settings.Exclude {
		if matched, err := filepath.Match(pattern, path); err == nil && matched {
			return true
		}
		if matched, err := filepath.Match(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}

// ShouldFailOn reports whether a given error-case name is listed as
// failing. An empty FailOn list means every case fails.
func (c *Config) ShouldFailOn(caseName string) bool {
	if len(c.Settings.FailOn) == 0 {
		return true
	}
	for _, n := range c.Settings.FailOn {
		if n == caseName {
			return true
		}
	}
	return false
}
