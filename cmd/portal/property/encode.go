// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	"github.com/JonatanNevo/portal-framework/lib/config"
	"github.com/JonatanNevo/portal-framework/lib/hexdump"
	libproperty "github.com/JonatanNevo/portal-framework/lib/property"
	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

// encodeParams holds the parameters for "portal property encode".
type encodeParams struct {
	cli.Verbosity

	Config   string `flag:"config"    desc:"config file (default: $PORTAL_CONFIG)"`
	Hasher   string `flag:"hasher"    desc:"hash algorithm for identifier names (default: from config)"`
	Wide     bool   `flag:"wide"      desc:"write 8-byte element counts"`
	Packed   bool   `flag:"packed"    desc:"omit element counts of vector and matrix properties"`
	NoHeader bool   `flag:"no-header" desc:"write properties only, without the PS header"`
	Hex      bool   `flag:"hex,x"     desc:"write a hex dump instead of raw bytes"`
	Output   string `flag:"output,o"  desc:"write to a file instead of stdout"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Encode a JSON property list",
		Description: `Read a JSON list of properties from FILE (or stdin) and write the
encoded buffer. Each entry names a container and a value kind and gives
its data:

  [
    {"container": "scalar",  "value": "i64",     "data": "Foo"},
    {"container": "vector",  "value": "f32",     "data": [1, 2, 3]},
    {"container": "cstring", "value": "cstring", "data": "mesh"},
    {"container": "array",   "value": "binary",  "data": "deadbeef"},
    {"container": "array",   "value": "object",  "count": 2}
  ]

Integer64 data that is not a number is an identifier name and is
hashed. Character data is a string, binary data a hex string, and
integer128 data a decimal or 0x-prefixed hex string. Nothing is
written if any property is invalid.`,
		Usage: "portal property encode [FILE] [flags]",
		Examples: []cli.Example{
			{
				Description: "Round-trip a fixture through the inspector",
				Command:     "portal property encode --hex fixture.json | portal inspect",
			},
			{
				Description: "Write a packed headerless buffer",
				Command:     "portal property encode --packed --no-header -o capture.bin fixture.json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runEncode(ctx, &params, args, os.Stdin, os.Stdout, logger)
		},
	}
}

func runEncode(ctx context.Context, params *encodeParams, args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	if len(args) > 1 {
		return cli.Validation("encode takes at most one file argument, got %d", len(args))
	}

	cfg, err := config.Resolve(params.Config)
	if err != nil {
		return cli.Validation("%w", err)
	}
	if params.Hasher != "" {
		cfg.Hasher.Algorithm = params.Hasher
	}
	hasher, err := stringid.NewHasher(cfg.Hasher)
	if err != nil {
		return cli.Validation("%w", err)
	}

	input := stdin
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return cli.NotFound("input file %s does not exist", args[0])
			}
			return cli.Internal("opening input: %w", err)
		}
		defer file.Close()
		input = file
	}
	data, err := io.ReadAll(input)
	if err != nil {
		return cli.Internal("reading input: %w", err)
	}

	properties, err := parseDescriptions(ctx, data, hasher)
	if err != nil {
		return cli.Validation("%w", err)
	}
	encoded, err := libproperty.Encode(properties, libproperty.EncodeOptions{
		WideCount:      params.Wide,
		PackedElements: params.Packed,
		OmitHeader:     params.NoHeader,
	})
	if err != nil {
		return cli.Validation("%w", err)
	}
	logger.Debug("encoded property buffer", "properties", len(properties), "bytes", len(encoded), "hasher", hasher.Name())

	if params.Hex {
		encoded = []byte(hexdump.Format(encoded, hexdump.DefaultWidth))
	}
	if params.Output != "" {
		if err := os.WriteFile(params.Output, encoded, 0o644); err != nil {
			return cli.Internal("writing %s: %w", params.Output, err)
		}
		return nil
	}
	if _, err := stdout.Write(encoded); err != nil {
		return cli.Internal("writing output: %w", err)
	}
	return nil
}
