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

	"github.com/spf13/pflag"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	"github.com/JonatanNevo/portal-framework/lib/registrybuild"
	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

// buildParams holds the parameters for "portal registry build".
type buildParams struct {
	cli.JSONOutput
	cli.Verbosity
	HasherParams

	Config  string `flag:"config"  desc:"config file (default: $PORTAL_CONFIG)"`
	Root    string `flag:"root"    desc:"source tree to scan (default: from config, else .)"`
	Output  string `flag:"output,o" desc:"registry artifact path (default: from config)"`
	Marker  string `flag:"marker"  desc:"identifier marker macro (default: STRING_ID)"`
	Workers int    `flag:"workers" desc:"files scanned concurrently (default: from config, else CPU count)"`
	Cache   string `flag:"cache"   desc:"build cache path (default: from config, none if unset)"`
	NoCache bool   `flag:"no-cache" desc:"ignore any configured build cache"`
	Check   bool   `flag:"check"   desc:"verify the artifact is up to date without writing it; exit 1 if stale"`
}

// buildSummary is the --json output of a build.
type buildSummary struct {
	Output      string   `json:"output"`
	Identifiers int      `json:"identifiers"`
	Files       int      `json:"files"`
	Occurrences int      `json:"occurrences"`
	Hashed      int      `json:"hashed"`
	CachedFiles int      `json:"cached_files"`
	Written     bool     `json:"written"`
	UpToDate    bool     `json:"up_to_date"`
	Warnings    []string `json:"warnings"`
}

func buildCommand() *cli.Command {
	var params buildParams

	return &cli.Command{
		Name:    "build",
		Summary: "Generate the registry artifact from a source tree",
		Description: `Scan the source tree for marker strings (STRING_ID("name") by default),
hash each one, and write the registry artifact.

Only files with a configured extension are scanned, and test sources
(names ending in tests.cpp by default) are skipped. The artifact is
rewritten only when its content changes, so build systems that track
modification times do not rebuild needlessly. Unreadable files and
strings the hasher fails on are reported as warnings and skipped. Two
different names with the same hash fail the build.

With --check nothing is written: the command exits 0 when the artifact
is current and 1 when it is stale or missing.`,
		Usage: "portal registry build [flags]",
		Examples: []cli.Example{
			{
				Description: "Build using portal.yaml from $PORTAL_CONFIG",
				Command:     "portal registry build",
			},
			{
				Description: "Build with an external hashing tool",
				Command:     "portal registry build --root engine --output build/string_registry.inc --hash-command ./rapidhash_runner",
			},
			{
				Description: "Fail CI when the checked-in artifact is stale",
				Command:     "portal registry build --check",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("build", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("build takes no positional arguments, got %q", args[0])
			}
			return runBuild(ctx, &params, os.Stdout, logger)
		},
	}
}

func runBuild(ctx context.Context, params *buildParams, stdout io.Writer, logger *slog.Logger) error {
	cfg, hasher, err := resolveHasher(params.Config, &params.HasherParams)
	if err != nil {
		return err
	}
	registryConfig := cfg.Registry
	if params.Root != "" {
		registryConfig.Root = params.Root
	}
	if params.Output != "" {
		registryConfig.Output = params.Output
	}
	if params.Marker != "" {
		registryConfig.Marker = params.Marker
	}
	if params.Workers != 0 {
		registryConfig.Workers = params.Workers
	}
	if params.Cache != "" {
		registryConfig.Cache = params.Cache
	}
	if params.NoCache {
		registryConfig.Cache = ""
	}
	cfg.Registry = registryConfig
	if err := cfg.Validate(); err != nil {
		return cli.Validation("%w", err)
	}
	if registryConfig.Output == "" {
		return cli.Validation("no output path: set registry.output in the config or pass --output")
	}

	logger = logger.With("command", "registry/build", "root", registryConfig.Root, "hasher", hasher.Name())
	builder := &registrybuild.Builder{
		Config: registryConfig,
		Hasher: hasher,
		Logger: logger,
	}
	if registryConfig.Cache != "" {
		builder.Cache = registrybuild.OpenCache(registryConfig.Cache, hasher.Name(), registryConfig.Marker, logger)
	}

	summary := buildSummary{Output: registryConfig.Output}
	var result *registrybuild.Result
	if params.Check {
		result, summary.UpToDate, err = builder.Check(ctx, registryConfig.Output)
	} else {
		result, summary.Written, err = builder.Generate(ctx, registryConfig.Output)
		summary.UpToDate = err == nil
	}
	if err != nil {
		var collision *stringid.CollisionError
		if errors.As(err, &collision) {
			return cli.Validation("%w", err)
		}
		if errors.Is(err, os.ErrNotExist) {
			return cli.NotFound("%w", err)
		}
		return cli.Internal("%w", err)
	}

	if builder.Cache != nil {
		if err := builder.Cache.Save(); err != nil {
			logger.Warn("saving build cache failed", "path", registryConfig.Cache, "error", err)
		}
	}

	summary.Identifiers = result.Registry.Len()
	summary.Files = len(result.Files)
	summary.Occurrences = result.Occurrences
	summary.Hashed = result.Hashed
	summary.CachedFiles = result.CachedFiles
	summary.Warnings = make([]string, len(result.Warnings))
	for index, warning := range result.Warnings {
		summary.Warnings[index] = warning.Error()
	}

	if done, err := params.EmitJSON(stdout, summary); done {
		if err != nil {
			return err
		}
	} else {
		writeBuildSummary(stdout, params.Check, summary)
	}

	if params.Check && !summary.UpToDate {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

func writeBuildSummary(w io.Writer, check bool, summary buildSummary) {
	for _, warning := range summary.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	var state string
	switch {
	case check && summary.UpToDate:
		state = "up to date"
	case check:
		state = "stale"
	case summary.Written:
		state = "written"
	default:
		state = "unchanged"
	}
	fmt.Fprintf(w, "%s: %s (%d identifiers from %d files, %d hashed, %d files cached)\n",
		summary.Output, state, summary.Identifiers, summary.Files, summary.Hashed, summary.CachedFiles)
}
