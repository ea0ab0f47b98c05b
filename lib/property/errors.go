// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"errors"
	"fmt"
)

// Encode-time validation failures. Property indexes are added by
// wrapping, so callers match these with errors.Is.
var (
	// ErrScalarCount is returned for a scalar property whose element
	// count is not 1.
	ErrScalarCount = errors.New("scalar property must have exactly one element")

	// ErrPayloadSize is returned when a fixed-width payload is not
	// element count × value width bytes long.
	ErrPayloadSize = errors.New("payload size does not match element count")

	// ErrTerminator is returned for a null-terminated string payload
	// that does not end in its only zero byte.
	ErrTerminator = errors.New("null-terminated string payload must end with its only zero byte")

	// ErrUnframedPayload is returned for a non-empty payload on a
	// value kind the format gives no framing to (object, string and
	// unknown kinds). A reader could not find where it ends.
	ErrUnframedPayload = errors.New("value kind has no payload framing")
)

// FormatError reports a buffer whose header is not a current-version
// Portal header. It is the only error that rejects a buffer before
// any property is read.
type FormatError struct {
	Reason string
	Header Header
	Length int
}

func (e *FormatError) Error() string {
	if e.Length < HeaderSize {
		return fmt.Sprintf("property format: %s (%d bytes)", e.Reason, e.Length)
	}
	return fmt.Sprintf("property format: %s (magic %q, version %d)",
		e.Reason, e.Header.Magic[:], e.Header.Version)
}

// TruncatedInputError reports a read that would pass the end of the
// buffer. Decoding stops; properties before Index are kept.
type TruncatedInputError struct {
	// Index is the sequential number of the property being read.
	Index int
	// Offset is where that property starts.
	Offset int
	// Position is where the failed read started.
	Position int
	// Need is the number of bytes the read required.
	Need uint64
	// Remaining is the number of bytes left at Position.
	Remaining int
}

func (e *TruncatedInputError) Error() string {
	return fmt.Sprintf("property %d at offset 0x%04X: need %d bytes at 0x%04X, only %d remaining",
		e.Index, e.Offset, e.Need, e.Position, e.Remaining)
}

// UnknownTypeError is a non-fatal warning for a property whose
// container or value byte is outside the defined set. The property
// is still returned, tagged with the raw byte.
type UnknownTypeError struct {
	Index     int
	Offset    int
	Container ContainerKind
	Value     ValueKind
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("property %d at offset 0x%04X: unrecognized type (container %s, value %s)",
		e.Index, e.Offset, e.Container, e.Value)
}

// ShapeError reports a packed vector or matrix property whose element
// count was not supplied by the caller. The count is not in the
// stream, so decoding cannot continue past it.
type ShapeError struct {
	Index     int
	Offset    int
	Container ContainerKind
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("property %d at offset 0x%04X: packed %s has no element count (no shape supplied)",
		e.Index, e.Offset, e.Container)
}

// CountOverflowError reports an element count that does not fit the
// narrow 2-byte count field. Counts are never truncated: the caller
// must enable wide counts instead.
type CountOverflowError struct {
	Count uint64
	Max   uint64
}

func (e *CountOverflowError) Error() string {
	return fmt.Sprintf("element count %d exceeds narrow count limit %d (enable wide counts)", e.Count, e.Max)
}
