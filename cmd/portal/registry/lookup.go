// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	"github.com/JonatanNevo/portal-framework/lib/config"
	"github.com/JonatanNevo/portal-framework/lib/inspect"
)

// lookupParams holds the parameters for "portal registry lookup".
type lookupParams struct {
	cli.JSONOutput
	cli.Verbosity

	Config string   `flag:"config"   desc:"config file (default: $PORTAL_CONFIG)"`
	Maps   []string `flag:"map,m"    desc:"identifier mapping file (repeatable)"`
	Inline []string `flag:"inline,i" desc:"inline mapping KEY=NAME (repeatable)"`
}

// lookupEntry is one line of "registry lookup" output.
type lookupEntry struct {
	Hash  uint64 `json:"hash"`
	Name  string `json:"name,omitempty"`
	Found bool   `json:"found"`
}

func lookupCommand() *cli.Command {
	var params lookupParams

	return &cli.Command{
		Name:    "lookup",
		Summary: "Resolve identifier hashes to names",
		Description: `Look each HASH up in the mapping files and print its name. HASH is
decimal or 0x-prefixed hex.

Mapping files are the configured inspect.mappings followed by each
--map, later files overriding earlier ones; --inline entries override
every file. Registry artifacts produced by "registry build" are
mapping files too. The command exits 1 if any hash is unknown.`,
		Usage: "portal registry lookup [flags] HASH...",
		Examples: []cli.Example{
			{
				Description: "Name a hash seen in a crash dump",
				Command:     "portal registry lookup -m build/ids.txt 0x9b7c6d8a52b6f1e0",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("lookup", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runLookup(&params, args, os.Stdout, logger)
		},
	}
}

func runLookup(params *lookupParams, args []string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return cli.Validation("lookup requires at least one HASH")
	}
	hashes := make([]uint64, len(args))
	for index, argument := range args {
		hash, err := strconv.ParseUint(argument, 0, 64)
		if err != nil {
			return cli.Validation("invalid hash %q: %w", argument, err)
		}
		hashes[index] = hash
	}

	cfg, err := config.Resolve(params.Config)
	if err != nil {
		return cli.Validation("%w", err)
	}
	files := append(append([]string(nil), cfg.Inspect.Mappings...), params.Maps...)
	registry, _, err := inspect.LoadMappings(files, params.Inline, logger)
	if err != nil {
		return cli.Validation("%w", err)
	}

	entries := make([]lookupEntry, len(hashes))
	missing := 0
	for index, hash := range hashes {
		name, found := registry.Lookup(hash)
		entries[index] = lookupEntry{Hash: hash, Name: name, Found: found}
		if !found {
			missing++
		}
	}

	if done, err := params.EmitJSON(stdout, entries); done {
		if err != nil {
			return err
		}
	} else {
		for _, entry := range entries {
			if entry.Found {
				fmt.Fprintf(stdout, "0x%016x  %s\n", entry.Hash, strconv.Quote(entry.Name))
			} else {
				fmt.Fprintf(stdout, "0x%016x  %s\n", entry.Hash, "<unknown>")
			}
		}
	}

	if missing > 0 {
		logger.Debug("unresolved hashes", "missing", missing, "total", len(hashes))
		return &cli.ExitError{Code: 1}
	}
	return nil
}
