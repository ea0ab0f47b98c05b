// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color modes accepted by [NewRenderer].
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// NewRenderer returns a lipgloss renderer writing to w. In auto mode
// the color profile is detected from w and the environment (NO_COLOR,
// TERM, whether w is a terminal). Always forces 256 colors; never
// forces plain ASCII.
func NewRenderer(w io.Writer, mode string) (*lipgloss.Renderer, error) {
	switch mode {
	case "", ColorAuto:
		return lipgloss.NewRenderer(w), nil
	case ColorAlways:
		// SetColorProfile is required: the renderer otherwise
		// re-detects from the environment and ignores the option.
		renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
		renderer.SetColorProfile(termenv.ANSI256)
		return renderer, nil
	case ColorNever:
		renderer := lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
		renderer.SetColorProfile(termenv.Ascii)
		return renderer, nil
	default:
		return nil, fmt.Errorf("invalid color mode %q (want %s, %s or %s)", mode, ColorAuto, ColorAlways, ColorNever)
	}
}
