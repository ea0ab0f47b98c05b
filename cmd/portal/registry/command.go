// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	"github.com/JonatanNevo/portal-framework/lib/config"
	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

// Command returns the "registry" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "registry",
		Summary: "Build and query the identifier registry",
		Description: `Build the identifier registry from marker strings in a source tree,
and work with identifier hashes.

The registry artifact holds one "{ <hash>ull, "name" }" entry per
distinct identifier, in first-discovery order. Lookups read that artifact, or
any mapping file of "KEY = NAME" lines.`,
		Subcommands: []*cli.Command{
			buildCommand(),
			hashCommand(),
			lookupCommand(),
			cacheCommand(),
		},
	}
}

// HasherParams selects the hash function, overriding the config. It is
// exported so flag binding can reach its fields through embedding.
type HasherParams struct {
	Hasher      string   `flag:"hasher"       desc:"hash algorithm: rapidhash, xxh64, blake3 or exec (default: from config)"`
	HashCommand string   `flag:"hash-command" desc:"hashing executable for --hasher=exec"`
	HashArgs    []string `flag:"hash-arg"     desc:"argument passed to the hashing executable before the string (repeatable)"`
}

// apply overlays the flags that were set onto cfg.
func (p *HasherParams) apply(cfg *config.HasherConfig) {
	if p.Hasher != "" {
		cfg.Algorithm = p.Hasher
	}
	if p.HashCommand != "" {
		cfg.Command = p.HashCommand
		if p.Hasher == "" {
			cfg.Algorithm = config.AlgorithmExec
		}
	}
	if len(p.HashArgs) > 0 {
		cfg.Args = p.HashArgs
	}
}

// resolveHasher loads the config named by configPath, applies the
// hasher flags, and returns the config with its hasher.
func resolveHasher(configPath string, params *HasherParams) (*config.Config, stringid.Hasher, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, nil, cli.Validation("%w", err)
	}
	params.apply(&cfg.Hasher)
	hasher, err := stringid.NewHasher(cfg.Hasher)
	if err != nil {
		return nil, nil, cli.Validation("%w", err)
	}
	return cfg, hasher, nil
}
