// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// logLevel is shared by every logger from [NewCommandLogger] so that
// --verbose, parsed after the logger exists, still takes effect.
var logLevel = new(slog.LevelVar)

// NewCommandLogger creates a structured logger for CLI command operations.
// When stderr is a terminal, uses slog.TextHandler for human-readable output.
// When stderr is piped or redirected (CI, build systems, scripts), uses
// slog.JSONHandler for machine-parseable output.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("command", "registry/build", "root", root)
func NewCommandLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: logLevel}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}

// Verbosity is an embeddable params struct adding -v/--verbose, which
// lowers the command logger's level to debug.
type Verbosity struct{}

// AddFlags registers --verbose.
func (*Verbosity) AddFlags(flagSet *pflag.FlagSet) {
	flag := flagSet.VarPF(verboseValue{}, "verbose", "v", "log debug detail")
	flag.NoOptDefVal = "true"
}

// verboseValue is a boolean pflag.Value backed by logLevel.
type verboseValue struct{}

func (verboseValue) String() string {
	return strconv.FormatBool(logLevel.Level() <= slog.LevelDebug)
}

func (verboseValue) Set(value string) error {
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	if enabled {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
	return nil
}

func (verboseValue) Type() string { return "bool" }
