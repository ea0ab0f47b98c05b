// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package hexdump converts between byte buffers and the textual hex
// dumps that engine logs and debuggers print.
package hexdump

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DefaultWidth is the number of bytes per line written by [Format].
const DefaultWidth = 16

// Parse reconstructs bytes from a hex dump. Each line may start with
// an offset prefix ending in ':' (everything up to the first colon is
// dropped). The rest is split on whitespace and every two-character
// hex token becomes one byte. Blank lines and any other token are
// skipped silently, so ASCII side columns and stray annotations do not
// need to be removed first.
func Parse(text string) []byte {
	var result []byte
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, rest, found := strings.Cut(line, ":"); found {
			line = rest
		}
		for _, token := range strings.Fields(line) {
			if len(token) != 2 {
				continue
			}
			value, err := hex.DecodeString(token)
			if err != nil {
				continue
			}
			result = append(result, value[0])
		}
	}
	return result
}

// Format writes data as a hex dump that [Parse] reads back:
//
//	0000: 50 53 01 80 01 04 ef be ad de 00 00 00 00 00 00
//	0010: 00
//
// width is the number of bytes per line; values below 1 use
// [DefaultWidth]. The output ends with a newline unless data is empty.
func Format(data []byte, width int) string {
	if width < 1 {
		width = DefaultWidth
	}
	var builder strings.Builder
	for offset := 0; offset < len(data); offset += width {
		end := min(offset+width, len(data))
		fmt.Fprintf(&builder, "%04x:", offset)
		for _, value := range data[offset:end] {
			builder.WriteByte(' ')
			builder.WriteString(hex.EncodeToString([]byte{value}))
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}
