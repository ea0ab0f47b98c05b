// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Registry.Marker != "STRING_ID" {
		t.Errorf("expected marker=STRING_ID, got %s", cfg.Registry.Marker)
	}
	if cfg.Hasher.Algorithm != AlgorithmRapidHash {
		t.Errorf("expected algorithm=rapidhash, got %s", cfg.Hasher.Algorithm)
	}
	if cfg.Registry.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Registry.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresPortalConfig(t *testing.T) {
	t.Setenv("PORTAL_CONFIG", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when PORTAL_CONFIG not set, got nil")
	}

	expectedMsg := "PORTAL_CONFIG environment variable not set"
	if !strings.HasPrefix(err.Error(), expectedMsg) {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoad_WithPortalConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "portal.yaml")
	configContent := `
registry:
  root: ${CONFIG_DIR}/engine
  output: ${CONFIG_DIR}/build/string_registry.inc
hasher:
  algorithm: exec
  command: ${CONFIG_DIR}/bin/rapidhash_runner
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("PORTAL_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	dir := filepath.Dir(configPath)
	if cfg.Registry.Root != filepath.Join(dir, "engine") {
		t.Errorf("expected root under config dir, got %s", cfg.Registry.Root)
	}
	if cfg.Hasher.Command != dir+"/bin/rapidhash_runner" {
		t.Errorf("expected expanded command, got %s", cfg.Hasher.Command)
	}
	// Fields the file leaves out keep their defaults.
	if cfg.Registry.Marker != "STRING_ID" {
		t.Errorf("expected default marker to survive, got %s", cfg.Registry.Marker)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "portal.jsonc")
	configContent := `{
  // Scan only headers.
  "registry": {
    "extensions": [".h",],
    "marker": "NAME_ID",
    "workers": 2,
  },
  "inspect": {"mappings": ["${HOME}/ids.txt"], "color": "never"},
}`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("HOME", "/home/portal")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if len(cfg.Registry.Extensions) != 1 || cfg.Registry.Extensions[0] != ".h" {
		t.Errorf("extensions = %v, want [.h]", cfg.Registry.Extensions)
	}
	if cfg.Registry.Marker != "NAME_ID" || cfg.Registry.Workers != 2 {
		t.Errorf("registry = %+v", cfg.Registry)
	}
	if len(cfg.Inspect.Mappings) != 1 || cfg.Inspect.Mappings[0] != "/home/portal/ids.txt" {
		t.Errorf("mappings = %v", cfg.Inspect.Mappings)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("PORTAL_TEST_VAR", "from-env")

	tests := []struct {
		input string
		vars  map[string]string
		want  string
	}{
		{"${CONFIG_DIR}/out", map[string]string{"CONFIG_DIR": "/repo"}, "/repo/out"},
		{"${PORTAL_TEST_VAR}/x", nil, "from-env/x"},
		{"${PORTAL_UNSET_VAR:-fallback}", nil, "fallback"},
		{"plain/path", nil, "plain/path"},
	}

	for _, tt := range tests {
		if got := expandVars(tt.input, tt.vars); got != tt.want {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"exec without command", func(c *Config) { c.Hasher.Algorithm = AlgorithmExec }, "hasher.command"},
		{"unknown algorithm", func(c *Config) { c.Hasher.Algorithm = "md5" }, "hasher.algorithm"},
		{"bad marker", func(c *Config) { c.Registry.Marker = "STRING ID(" }, "registry.marker"},
		{"zero workers", func(c *Config) { c.Registry.Workers = 0 }, "registry.workers"},
		{"no extensions", func(c *Config) { c.Registry.Extensions = nil }, "registry.extensions"},
		{"bad color", func(c *Config) { c.Inspect.Color = "rainbow" }, "inspect.color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Setenv("PORTAL_CONFIG", "")
	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve without config: %v", err)
	}
	if cfg.Registry.Marker != "STRING_ID" {
		t.Errorf("expected defaults without a config file, got marker %s", cfg.Registry.Marker)
	}

	configPath := filepath.Join(t.TempDir(), "portal.yaml")
	if err := os.WriteFile(configPath, []byte("registry:\n  marker: NAME_ID\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("PORTAL_CONFIG", configPath)
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve from PORTAL_CONFIG: %v", err)
	}
	if cfg.Registry.Marker != "NAME_ID" {
		t.Errorf("expected marker from PORTAL_CONFIG, got %s", cfg.Registry.Marker)
	}

	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for an explicit missing config path")
	}
}
