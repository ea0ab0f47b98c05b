// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonatanNevo/portal-framework/lib/property"
	"github.com/JonatanNevo/portal-framework/lib/tui"
)

// Styles styles the parts of a text report. The zero value renders
// plain text.
type Styles struct {
	Header     lipgloss.Style
	Separator  lipgloss.Style
	Index      lipgloss.Style
	Offset     lipgloss.Style
	Container  lipgloss.Style
	Kind       lipgloss.Style
	Value      lipgloss.Style
	Identifier lipgloss.Style
	Note       lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
}

// NewStyles builds report styles from theme, bound to renderer.
func NewStyles(renderer *lipgloss.Renderer, theme tui.Theme) Styles {
	return Styles{
		Header:     renderer.NewStyle().Foreground(theme.HeaderForeground).Bold(true),
		Separator:  renderer.NewStyle().Foreground(theme.BorderColor),
		Index:      renderer.NewStyle().Foreground(theme.IndexForeground),
		Offset:     renderer.NewStyle().Foreground(theme.OffsetForeground),
		Container:  renderer.NewStyle().Foreground(theme.ContainerForeground),
		Kind:       renderer.NewStyle().Foreground(theme.KindForeground),
		Value:      renderer.NewStyle().Foreground(theme.NormalText),
		Identifier: renderer.NewStyle().Foreground(theme.IdentifierForeground),
		Note:       renderer.NewStyle().Foreground(theme.FaintText),
		Warning:    renderer.NewStyle().Foreground(theme.WarningForeground),
		Error:      renderer.NewStyle().Foreground(theme.ErrorForeground).Bold(true),
	}
}

// WriteText writes the human-readable report:
//
//	Parsed 21 bytes
//	Header: magic="PS", version=1, wide_count=false
//	--------------------------------------------------------------------------------
//	[  0] 0x0004: scalar          i64          = "Foo" (0x0000000000000001)
//	...
//
// Records are always written before the condition that ended
// decoding.
func (r *Report) WriteText(w io.Writer, styles Styles) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Parsed %d bytes\n", r.Length)
	if r.Header.Present {
		b.WriteString(styles.Header.Render(fmt.Sprintf("Header: magic=%q, version=%d, wide_count=%t",
			r.Header.Magic, r.Header.Version, r.Header.WideCount)))
	} else {
		b.WriteString(styles.Header.Render(fmt.Sprintf("Header: none, wide_count=%t", r.Header.WideCount)))
	}
	b.WriteByte('\n')
	b.WriteString(styles.Separator.Render(strings.Repeat("-", 80)))
	b.WriteByte('\n')

	for _, record := range r.Records {
		valueStyle := styles.Value
		if record.Resolved {
			valueStyle = styles.Identifier
		}
		// Pad before styling: escape sequences would count toward the
		// field width.
		fmt.Fprintf(&b, "%s %s %s %s = %s\n",
			styles.Index.Render(fmt.Sprintf("[%3d]", record.Index)),
			styles.Offset.Render(fmt.Sprintf("0x%04X:", record.Offset)),
			styles.Container.Render(fmt.Sprintf("%-15s", record.Container)),
			styles.Kind.Render(fmt.Sprintf("%-12s", record.Value)),
			valueStyle.Render(record.Formatted),
		)
	}

	if r.Padding > 0 {
		b.WriteString(styles.Note.Render(fmt.Sprintf("[Offset 0x%04X] Padding: %d bytes of 0x%02X",
			r.PaddingOffset, r.Padding, property.PaddingByte)))
		b.WriteByte('\n')
	}
	for _, warning := range r.Warnings {
		b.WriteString(styles.Warning.Render("warning: " + warning.Error()))
		b.WriteByte('\n')
	}
	if r.Termination != nil {
		var truncated *property.TruncatedInputError
		prefix := "Error"
		if errors.As(r.Termination, &truncated) {
			prefix = "End of data"
		}
		b.WriteString(styles.Error.Render(fmt.Sprintf("%s at offset 0x%04X: %v",
			prefix, r.TerminationOffset, r.Termination)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(styles.Note.Render(fmt.Sprintf("Found %d properties", len(r.Records))))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// MarshalJSON adds the warnings and the terminating condition as
// strings.
func (r *Report) MarshalJSON() ([]byte, error) {
	type plain Report
	warnings := make([]string, len(r.Warnings))
	for index, warning := range r.Warnings {
		warnings[index] = warning.Error()
	}
	encoded := struct {
		*plain
		Warnings          []string `json:"warnings"`
		Termination       string   `json:"termination,omitempty"`
		TerminationOffset *int     `json:"termination_offset,omitempty"`
	}{plain: (*plain)(r), Warnings: warnings}
	if r.Termination != nil {
		encoded.Termination = r.Termination.Error()
		encoded.TerminationOffset = &r.TerminationOffset
	}
	return json.Marshal(encoded)
}
