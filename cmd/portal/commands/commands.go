// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete portal CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	inspectcmd "github.com/JonatanNevo/portal-framework/cmd/portal/inspect"
	propertycmd "github.com/JonatanNevo/portal-framework/cmd/portal/property"
	registrycmd "github.com/JonatanNevo/portal-framework/cmd/portal/registry"
	"github.com/JonatanNevo/portal-framework/lib/version"
)

// versionParams holds the parameters for "portal version".
type versionParams struct {
	Digest bool `flag:"digest" desc:"also print the BLAKE3 digest of this binary"`
}

// Root builds and returns the complete portal CLI command tree.
func Root() *cli.Command {
	var params versionParams

	return &cli.Command{
		Name: "portal",
		Description: `Portal: tooling for the engine's property buffers and identifiers.

Decode and inspect "PS" property buffers, build the identifier registry
from STRING_ID markers in the source tree, and produce buffers for
tests and reproductions.`,
		Subcommands: []*cli.Command{
			inspectcmd.Command(),
			registrycmd.Command(),
			propertycmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Flags: func() *pflag.FlagSet {
					return cli.FlagsFromParams("version", &params)
				},
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("portal %s\n", version.Full())
					if !params.Digest {
						return nil
					}
					digest, path, err := version.SelfDigest()
					if err != nil {
						return cli.Internal("%w", err)
					}
					fmt.Printf("  Binary: %s\n  BLAKE3: %s\n", path, digest)
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Inspect a captured buffer with names from the registry",
				Command:     "portal inspect capture.txt -m build/string_registry.inc",
			},
			{
				Description: "Regenerate the identifier registry",
				Command:     "portal registry build --root engine --output build/string_registry.inc",
			},
			{
				Description: "Hash an identifier",
				Command:     "portal registry hash Foo",
			},
			{
				Description: "Encode a test fixture as a hex dump",
				Command:     "portal property encode --hex fixture.json",
			},
		},
	}
}
