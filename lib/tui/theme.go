// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for portal's terminal reports. All
// colors are ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Report chrome: header lines, separators, summaries.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color

	// Per-record columns.
	IndexForeground     lipgloss.Color
	OffsetForeground    lipgloss.Color
	ContainerForeground lipgloss.Color
	KindForeground      lipgloss.Color

	// IdentifierForeground marks values resolved to a registry name.
	IdentifierForeground lipgloss.Color

	// Diagnostics.
	WarningForeground lipgloss.Color
	ErrorForeground   lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),

	IndexForeground:     lipgloss.Color("241"),
	OffsetForeground:    lipgloss.Color("75"),  // blue
	ContainerForeground: lipgloss.Color("141"), // light purple
	KindForeground:      lipgloss.Color("114"), // green

	IdentifierForeground: lipgloss.Color("220"), // amber

	WarningForeground: lipgloss.Color("208"), // orange
	ErrorForeground:   lipgloss.Color("196"), // bright red
}
