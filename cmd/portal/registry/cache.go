// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	"github.com/JonatanNevo/portal-framework/lib/registrybuild"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Print a build cache in CBOR diagnostic notation",
		Description: `Print the contents of a registry build cache (the file named by
registry.cache or --cache) in CBOR diagnostic notation. The cache maps
source files to their content digest and marker strings, and strings
to their hashes.`,
		Usage: "portal registry cache PATH",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return runCache(args, os.Stdout)
		},
	}
}

func runCache(args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return cli.Validation("cache takes exactly one PATH argument, got %d", len(args))
	}
	diagnostic, err := registrybuild.Dump(args[0])
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.NotFound("build cache %s does not exist", args[0])
		}
		return cli.Internal("reading build cache: %w", err)
	}
	_, err = fmt.Fprintln(stdout, diagnostic)
	return err
}
