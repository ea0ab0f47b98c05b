// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the portal tools.
//
// Configuration is loaded from a single file specified by either the
// PORTAL_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no automatic file search. Files ending in
// .json or .jsonc are parsed as JSONC (JSON with comments and trailing
// commas); everything else is parsed as YAML.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${CONFIG_DIR} (the directory holding the config file), and
// ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Registry, Hasher, Inspect
//   - [Default] -- returns a Config with every field populated
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other portal packages.
package config
