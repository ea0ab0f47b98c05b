// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Resolver maps interned identifier hashes back to their source
// strings. A nil Resolver resolves nothing.
type Resolver interface {
	Lookup(id uint64) (string, bool)
}

// ContainerLabel returns the short container label used in reports:
// "scalar", "vecN", "array[N]", "cstring", or "<kind>[N]".
func ContainerLabel(p Property) string {
	switch p.Container {
	case ContainerScalar:
		return "scalar"
	case ContainerVector:
		return fmt.Sprintf("vec%d", p.Count)
	case ContainerArray:
		return fmt.Sprintf("array[%d]", p.Count)
	case ContainerNullTerminatedString:
		return "cstring"
	default:
		return fmt.Sprintf("%s[%d]", p.Container, p.Count)
	}
}

// ValueLabel returns the short value kind label: "i8" through "i128",
// "f32", "f64", and the plain name for the rest.
func ValueLabel(kind ValueKind) string {
	if !kind.Known() {
		return fmt.Sprintf("invalid(0x%02x)", uint8(kind))
	}
	return shortValueName(kind.String())
}

func shortValueName(name string) string {
	name = strings.Replace(name, "integer", "i", 1)
	return strings.Replace(name, "floating", "f", 1)
}

// FormatValue renders the payload of p for display. Integer64 values
// are looked up in resolver and shown by name when known.
func FormatValue(p Property, resolver Resolver) string {
	data := p.Payload
	if len(data) == 0 {
		return "<empty>"
	}

	switch p.Value {
	case ValueInt8:
		return formatElements(p, func(element []byte) string {
			return strconv.FormatInt(int64(int8(element[0])), 10)
		})
	case ValueInt16:
		return formatElements(p, func(element []byte) string {
			return strconv.FormatInt(int64(int16(binary.LittleEndian.Uint16(element))), 10)
		})
	case ValueInt32:
		return formatElements(p, func(element []byte) string {
			return strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(element))), 10)
		})
	case ValueInt64:
		return formatIdentifiers(p, resolver)
	case ValueInt128:
		return formatElements(p, func(element []byte) string {
			low := binary.LittleEndian.Uint64(element)
			high := binary.LittleEndian.Uint64(element[8:])
			return fmt.Sprintf("0x%016x%016x", high, low)
		})
	case ValueFloat32:
		return formatElements(p, func(element []byte) string {
			return fmt.Sprintf("%.6g", math.Float32frombits(binary.LittleEndian.Uint32(element)))
		})
	case ValueFloat64:
		return formatElements(p, func(element []byte) string {
			return fmt.Sprintf("%.10g", math.Float64frombits(binary.LittleEndian.Uint64(element)))
		})
	case ValueBool:
		return formatElements(p, func(element []byte) string {
			return strconv.FormatBool(element[0] != 0)
		})
	case ValueChar, ValueString:
		return quoteText(data)
	case ValueNullTerminatedString:
		if terminator := strings.IndexByte(string(data), 0); terminator >= 0 {
			data = data[:terminator]
		}
		return quoteText(data)
	default:
		return hex.EncodeToString(data)
	}
}

// formatElements renders one element bare, or several as a list.
func formatElements(p Property, render func(element []byte) string) string {
	width := p.Value.Width()
	count := len(p.Payload) / width
	if count == 1 {
		return render(p.Payload)
	}
	parts := make([]string, count)
	for index := range count {
		parts[index] = render(p.Payload[index*width:])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatIdentifiers renders integer64 elements as hex, resolving
// known identifiers. A single resolved value keeps its hex alongside
// the name; list entries show the name alone.
func formatIdentifiers(p Property, resolver Resolver) string {
	lookup := func(id uint64) (string, bool) {
		if resolver == nil {
			return "", false
		}
		return resolver.Lookup(id)
	}

	count := len(p.Payload) / 8
	if count == 1 {
		id := binary.LittleEndian.Uint64(p.Payload)
		if name, ok := lookup(id); ok {
			return fmt.Sprintf("%s (0x%016x)", strconv.Quote(name), id)
		}
		return fmt.Sprintf("0x%016x", id)
	}
	parts := make([]string, count)
	for index := range count {
		id := binary.LittleEndian.Uint64(p.Payload[index*8:])
		if name, ok := lookup(id); ok {
			parts[index] = strconv.Quote(name)
		} else {
			parts[index] = fmt.Sprintf("0x%016x", id)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// quoteText quotes valid UTF-8 as a string literal and anything else
// as escaped raw bytes.
func quoteText(data []byte) string {
	if utf8.Valid(data) {
		return strconv.Quote(string(data))
	}
	return "b" + strconv.Quote(string(data))
}
