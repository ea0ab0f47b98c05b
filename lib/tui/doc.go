// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui holds the terminal styling shared by portal's
// human-readable reports: a color [Theme] and construction of a
// lipgloss renderer bound to an output stream under a --color mode.
//
// Reports style through a renderer tied to their own writer, never the
// process-global default, so output piped to a file or a test buffer
// is plain unless color is forced.
package tui
