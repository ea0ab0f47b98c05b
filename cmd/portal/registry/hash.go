// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
)

// hashParams holds the parameters for "portal registry hash".
type hashParams struct {
	cli.JSONOutput
	HasherParams

	Config string `flag:"config" desc:"config file (default: $PORTAL_CONFIG)"`
	Hex    bool   `flag:"hex,x"  desc:"print hashes as 0x-prefixed hex instead of decimal"`
}

// hashEntry is one line of "registry hash" output.
type hashEntry struct {
	Name string `json:"name"`
	Hash uint64 `json:"hash"`
}

func hashCommand() *cli.Command {
	var params hashParams

	return &cli.Command{
		Name:    "hash",
		Summary: "Print the identifier hash of strings",
		Description: `Hash each STRING with the configured hash function and print the
result, one per line, in base 10 unless --hex is given.

With the default rapidhash hasher this is the value a STRING_ID marker
for that string resolves to in the engine, and the KEY a mapping file
line would use for it. Other hashers produce registries that only
match buffers written with the same hasher.`,
		Usage: "portal registry hash [flags] STRING...",
		Examples: []cli.Example{
			{
				Description: "Hash an identifier with the default hasher",
				Command:     "portal registry hash Foo",
			},
			{
				Description: "Produce a mapping line for inspect",
				Command:     `echo "$(portal registry hash Foo) = Foo" >> ids.txt`,
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("hash", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runHash(ctx, &params, args, os.Stdout)
		},
	}
}

func runHash(ctx context.Context, params *hashParams, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return cli.Validation("hash requires at least one STRING")
	}
	_, hasher, err := resolveHasher(params.Config, &params.HasherParams)
	if err != nil {
		return err
	}

	entries := make([]hashEntry, 0, len(args))
	for _, name := range args {
		hash, err := hasher.Hash(ctx, name)
		if err != nil {
			return cli.Internal("hashing %q: %w", name, err)
		}
		entries = append(entries, hashEntry{Name: name, Hash: hash})
	}

	if done, err := params.EmitJSON(stdout, entries); done {
		return err
	}
	for _, entry := range entries {
		if params.Hex {
			fmt.Fprintf(stdout, "0x%016x\n", entry.Hash)
		} else {
			fmt.Fprintf(stdout, "%d\n", entry.Hash)
		}
	}
	return nil
}
