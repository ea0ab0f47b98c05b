// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	"github.com/JonatanNevo/portal-framework/lib/config"
	libinspect "github.com/JonatanNevo/portal-framework/lib/inspect"
	"github.com/JonatanNevo/portal-framework/lib/property"
	"github.com/JonatanNevo/portal-framework/lib/tui"
)

// inspectParams holds the parameters for "portal inspect".
type inspectParams struct {
	cli.JSONOutput
	cli.Verbosity

	Config   string   `flag:"config"      desc:"config file (default: $PORTAL_CONFIG)"`
	Maps     []string `flag:"map,m"       desc:"identifier mapping file, later files override earlier ones (repeatable)"`
	Inline   []string `flag:"inline,i"    desc:"inline mapping KEY=NAME, overrides every file (repeatable)"`
	Raw      bool     `flag:"raw"         desc:"input is raw bytes rather than a hex dump"`
	Packed   bool     `flag:"packed"      desc:"vector and matrix properties carry no element count"`
	Shape    []int    `flag:"shape"       desc:"element counts of packed vector/matrix properties, in stream order"`
	NoHeader bool     `flag:"no-header"   desc:"buffer was written without the PS header"`
	Wide     bool     `flag:"wide"        desc:"headerless buffer uses 8-byte element counts"`
	Color    string   `flag:"color"       desc:"color output: auto, always or never (default: from config)"`
}

// Command returns the "inspect" command.
func Command() *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Decode and print a property buffer",
		Description: `Decode a property buffer and print every property: its index,
offset, container, value kind and formatted value. Integer64 values
that match a known identifier are shown by name.

Input is read from FILE, or stdin when FILE is omitted. By default the
input is a hex dump: anything up to the first ':' on a line is treated
as an address and skipped, and only two-digit hex tokens are kept. Use
--raw for binary input. zstd and lz4 frames are decompressed first.

Properties decoded before a truncation are always printed. The command
then reports where decoding stopped and exits with status 1.`,
		Usage: "portal inspect [FILE] [flags]",
		Examples: []cli.Example{
			{
				Description: "Inspect a hex dump with names from the build registry",
				Command:     "portal inspect dump.txt -m build/string_registry.inc",
			},
			{
				Description: "Name one identifier without a mapping file",
				Command:     "portal inspect --raw capture.bin -i 0x0000000000000001=Foo",
			},
			{
				Description: "Inspect a packed buffer holding a vec3 and a 4x4 matrix",
				Command:     "portal inspect --raw --packed --shape 3,16 capture.bin",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return run(ctx, &params, args, os.Stdin, os.Stdout, logger)
		},
	}
}

func run(_ context.Context, params *inspectParams, args []string, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	if len(args) > 1 {
		return cli.Validation("inspect takes at most one file argument, got %d", len(args))
	}
	if params.Wide && !params.NoHeader {
		return cli.Validation("--wide only applies with --no-header; the header carries the count width")
	}

	cfg, err := config.Resolve(params.Config)
	if err != nil {
		return cli.Validation("%w", err)
	}
	color := params.Color
	if color == "" {
		color = cfg.Inspect.Color
	}

	shapes := make([]uint64, 0, len(params.Shape))
	for _, count := range params.Shape {
		if count < 0 {
			return cli.Validation("--shape: element count %d is negative", count)
		}
		shapes = append(shapes, uint64(count))
	}
	if len(shapes) > 0 && !params.Packed {
		logger.Warn("--shape has no effect without --packed")
	}

	files := append(append([]string(nil), cfg.Inspect.Mappings...), params.Maps...)
	registry, _, err := libinspect.LoadMappings(files, params.Inline, logger)
	if err != nil {
		return cli.Validation("%w", err)
	}

	data, err := readInput(args, stdin, params.Raw)
	if err != nil {
		return err
	}
	logger.Debug("read property buffer", "bytes", len(data), "identifiers", registry.Len())

	report, err := libinspect.Inspect(data, libinspect.Options{
		Resolver: registry,
		Decode: property.DecodeOptions{
			PackedElements: params.Packed,
			Shapes:         shapes,
			NoHeader:       params.NoHeader,
			WideCount:      params.Wide,
		},
	})
	if err != nil {
		var formatErr *property.FormatError
		if errors.As(err, &formatErr) {
			return cli.Validation("%w (use --no-header for headerless buffers)", err)
		}
		return cli.Internal("%w", err)
	}

	if done, err := params.EmitJSON(stdout, report); done {
		if err != nil {
			return err
		}
		return exitStatus(report)
	}

	renderer, err := tui.NewRenderer(stdout, color)
	if err != nil {
		return cli.Validation("%w", err)
	}
	if err := report.WriteText(stdout, libinspect.NewStyles(renderer, tui.DefaultTheme)); err != nil {
		return cli.Internal("writing report: %w", err)
	}
	return exitStatus(report)
}

// exitStatus turns an early stop into a silent non-zero exit; the
// report has already described it.
func exitStatus(report *libinspect.Report) error {
	if report.Complete() {
		return nil
	}
	return &cli.ExitError{Code: 1}
}

// readInput reads the buffer from the file named by args, or stdin.
func readInput(args []string, stdin io.Reader, raw bool) ([]byte, error) {
	source := stdin
	if len(args) == 1 {
		file, err := os.Open(args[0])
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, cli.NotFound("input file %s does not exist", args[0])
			}
			return nil, cli.Internal("opening input: %w", err)
		}
		defer file.Close()
		source = file
	}
	data, err := libinspect.ReadInput(source, raw)
	if err != nil {
		return nil, cli.Internal("reading input: %w", err)
	}
	if len(data) == 0 {
		return nil, cli.Validation("empty input: expected a property buffer")
	}
	return data, nil
}
