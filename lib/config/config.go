// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Hash algorithm names accepted in [HasherConfig].Algorithm.
const (
	AlgorithmRapidHash = "rapidhash"
	AlgorithmXXH64     = "xxh64"
	AlgorithmBLAKE3    = "blake3"
	AlgorithmExec      = "exec"
)

// Config is the master configuration for the portal tools.
type Config struct {
	// Registry configures the identifier registry build.
	Registry RegistryConfig `yaml:"registry" json:"registry"`

	// Hasher selects the identifier hash function.
	Hasher HasherConfig `yaml:"hasher" json:"hasher"`

	// Inspect configures the property buffer inspector.
	Inspect InspectConfig `yaml:"inspect" json:"inspect"`
}

// RegistryConfig configures source scanning and artifact output.
type RegistryConfig struct {
	// Root is the source tree to scan.
	Root string `yaml:"root" json:"root"`

	// Output is the generated registry artifact path.
	Output string `yaml:"output" json:"output"`

	// Extensions lists the file extensions treated as compilable
	// source. Default: .cpp, .h, .hpp
	Extensions []string `yaml:"extensions" json:"extensions"`

	// ExcludeSuffixes lists file name suffixes of test sources, which
	// are never scanned. Default: tests.cpp
	ExcludeSuffixes []string `yaml:"exclude_suffixes" json:"exclude_suffixes"`

	// Marker is the identifier declaration macro whose single string
	// literal argument is registered. Default: STRING_ID
	Marker string `yaml:"marker" json:"marker"`

	// Workers bounds the number of files scanned and hashed
	// concurrently. Default: number of CPUs.
	Workers int `yaml:"workers" json:"workers"`

	// Cache is an optional build cache path. Empty disables caching.
	Cache string `yaml:"cache" json:"cache"`
}

// HasherConfig selects the identifier hash function.
type HasherConfig struct {
	// Algorithm is one of rapidhash, xxh64, blake3 or exec.
	// Default: rapidhash
	Algorithm string `yaml:"algorithm" json:"algorithm"`

	// Command is the hashing executable for the exec algorithm. It is
	// run once per string with the string as its last argument.
	Command string `yaml:"command" json:"command"`

	// Args are passed to Command before the string.
	Args []string `yaml:"args" json:"args"`
}

// InspectConfig configures the inspector.
type InspectConfig struct {
	// Mappings are identifier mapping files loaded in order before any
	// given on the command line.
	Mappings []string `yaml:"mappings" json:"mappings"`

	// Color is auto, always or never. Default: auto
	Color string `yaml:"color" json:"color"`
}

// Default returns the default configuration. Loaded files are merged
// over it, so any field a file leaves out keeps its default.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Extensions:      []string{".cpp", ".h", ".hpp"},
			ExcludeSuffixes: []string{"tests.cpp"},
			Marker:          "STRING_ID",
			Workers:         runtime.NumCPU(),
		},
		Hasher: HasherConfig{
			Algorithm: AlgorithmRapidHash,
		},
		Inspect: InspectConfig{
			Color: "auto",
		},
	}
}

// Load loads configuration from the PORTAL_CONFIG environment variable.
// There is no fallback: if PORTAL_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("PORTAL_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("PORTAL_CONFIG environment variable not set; " +
			"set it to the path of your portal.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// Resolve loads the configuration named by path, or by PORTAL_CONFIG
// when path is empty. With neither set it returns the defaults, so
// every command works without a config file.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PORTAL_CONFIG")
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		absolute = path
	}
	cfg.expandVariables(filepath.Dir(absolute))

	return cfg, nil
}

// loadFile merges a single configuration file into c.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables(configDir string) {
	vars := map[string]string{
		"CONFIG_DIR": configDir,
		"HOME":       os.Getenv("HOME"),
	}

	c.Registry.Root = expandVars(c.Registry.Root, vars)
	c.Registry.Output = expandVars(c.Registry.Output, vars)
	c.Registry.Cache = expandVars(c.Registry.Cache, vars)
	c.Hasher.Command = expandVars(c.Hasher.Command, vars)
	for index, mapping := range c.Inspect.Mappings {
		c.Inspect.Mappings[index] = expandVars(mapping, vars)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// markerPattern matches a C-style identifier.
var markerPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the configuration for errors. Every problem is
// reported, not just the first.
func (c *Config) Validate() error {
	var errs []error

	switch c.Hasher.Algorithm {
	case AlgorithmRapidHash, AlgorithmXXH64, AlgorithmBLAKE3:
	case AlgorithmExec:
		if c.Hasher.Command == "" {
			errs = append(errs, fmt.Errorf("hasher.command is required for the exec algorithm"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid hasher.algorithm: %q", c.Hasher.Algorithm))
	}

	if !markerPattern.MatchString(c.Registry.Marker) {
		errs = append(errs, fmt.Errorf("registry.marker must be an identifier, got %q", c.Registry.Marker))
	}
	if c.Registry.Workers < 1 {
		errs = append(errs, fmt.Errorf("registry.workers must be at least 1, got %d", c.Registry.Workers))
	}
	if len(c.Registry.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("registry.extensions must not be empty"))
	}

	switch c.Inspect.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("invalid inspect.color: %q", c.Inspect.Color))
	}

	return errors.Join(errs...)
}
