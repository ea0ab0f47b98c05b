// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/JonatanNevo/portal-framework/cmd/portal/cli"
	libproperty "github.com/JonatanNevo/portal-framework/lib/property"
)

// Command returns the "property" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "property",
		Summary: "Produce property buffers",
		Description: `Produce property buffers in the "PS" binary format.

"encode" turns a JSON description into a buffer; "kinds" lists the
container and value kinds with their wire codes.`,
		Subcommands: []*cli.Command{
			encodeCommand(),
			kindsCommand(),
		},
	}
}

func kindsCommand() *cli.Command {
	return &cli.Command{
		Name:    "kinds",
		Summary: "List container and value kinds",
		Usage:   "portal property kinds",
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("kinds takes no arguments")
			}
			return writeKinds(os.Stdout)
		},
	}
}

func writeKinds(w io.Writer) error {
	writer := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "CONTAINER\tCODE")
	for code := range 8 {
		kind := libproperty.ContainerKind(code)
		fmt.Fprintf(writer, "%s\t0x%02X\n", kind, code)
	}
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "VALUE\tLABEL\tCODE\tWIDTH")
	for code := range 256 {
		kind := libproperty.ValueKind(code)
		if !kind.Known() {
			continue
		}
		width := "-"
		if kind.Width() > 0 {
			width = fmt.Sprint(kind.Width())
		}
		fmt.Fprintf(writer, "%s\t%s\t0x%02X\t%s\n", kind, libproperty.ValueLabel(kind), code, width)
	}
	return writer.Flush()
}
