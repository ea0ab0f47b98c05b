// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"bytes"
	"encoding/binary"
	"io"
)

// DecodeOptions configures the reader side of the format.
type DecodeOptions struct {
	// PackedElements must match the writer: vector and matrix
	// properties carry no element count and take theirs from Shapes.
	PackedElements bool

	// Shapes supplies element counts for packed vector and matrix
	// properties, consumed in stream order. Decoding stops with a
	// [*ShapeError] when a packed property finds none left.
	Shapes []uint64

	// NoHeader reads a buffer written with EncodeOptions.OmitHeader.
	// WideCount then stands in for the header's flag.
	NoHeader  bool
	WideCount bool
}

// Decoded is the result of [Decode]: everything read before decoding
// stopped.
type Decoded struct {
	Header     Header
	Properties []Property
	// Offsets holds the byte offset of each property.
	Offsets []int
	// Padding is the length of the trailing 0xCD run, if any.
	Padding int
	// Warnings holds one [*UnknownTypeError] per property with an
	// unrecognized kind byte.
	Warnings []error
}

// Decode reads every property in data. A [*FormatError] is returned
// with a nil result. A [*TruncatedInputError] or [*ShapeError] is
// returned together with the properties decoded before it.
func Decode(data []byte, options DecodeOptions) (*Decoded, error) {
	decoder, err := NewDecoder(data, options)
	if err != nil {
		return nil, err
	}

	result := &Decoded{Header: decoder.Header()}
	for {
		offset := decoder.Offset()
		property, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Padding = decoder.Padding()
			result.Warnings = decoder.Warnings()
			return result, err
		}
		result.Properties = append(result.Properties, property)
		result.Offsets = append(result.Offsets, offset)
	}
	result.Padding = decoder.Padding()
	result.Warnings = decoder.Warnings()
	return result, nil
}

// Decoder reads properties one at a time from an in-memory buffer
// with a single forward cursor.
type Decoder struct {
	data     []byte
	cursor   int
	header   Header
	wide     bool
	options  DecodeOptions
	shapes   int
	index    int
	padding  int
	warnings []error
	err      error
}

// NewDecoder validates the header (unless options.NoHeader) and
// positions the cursor at the first property.
func NewDecoder(data []byte, options DecodeOptions) (*Decoder, error) {
	decoder := &Decoder{data: data, options: options}
	if options.NoHeader {
		decoder.wide = options.WideCount
		return decoder, nil
	}
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	decoder.header = header
	decoder.wide = header.WideCount()
	decoder.cursor = HeaderSize
	return decoder, nil
}

// Header returns the parsed header. It is the zero Header when the
// decoder was created with NoHeader.
func (d *Decoder) Header() Header { return d.header }

// Offset returns the cursor position.
func (d *Decoder) Offset() int { return d.cursor }

// Padding returns the length of the trailing fill run found, or 0.
func (d *Decoder) Padding() int { return d.padding }

// Warnings returns the unknown-type warnings collected so far.
func (d *Decoder) Warnings() []error { return d.warnings }

// Next decodes the property at the cursor. It returns io.EOF at the
// end of the buffer or at a trailing fill run. After any other error
// the decoder is finished and keeps returning that error.
func (d *Decoder) Next() (Property, error) {
	if d.err != nil {
		return Property{}, d.err
	}
	if d.cursor >= len(d.data) {
		return Property{}, io.EOF
	}
	if d.atPadding() {
		d.padding = len(d.data) - d.cursor
		d.cursor = len(d.data)
		return Property{}, io.EOF
	}

	start := d.cursor
	property, err := d.readProperty(start)
	if err != nil {
		d.err = err
		return Property{}, err
	}
	if !property.Container.Known() || !property.Value.Known() {
		d.warnings = append(d.warnings, &UnknownTypeError{
			Index:     d.index,
			Offset:    start,
			Container: property.Container,
			Value:     property.Value,
		})
	}
	d.index++
	return property, nil
}

// atPadding reports whether the rest of the buffer is fill bytes.
func (d *Decoder) atPadding() bool {
	if d.data[d.cursor] != PaddingByte {
		return false
	}
	for _, b := range d.data[d.cursor:] {
		if b != PaddingByte {
			return false
		}
	}
	return true
}

func (d *Decoder) readProperty(start int) (Property, error) {
	kinds, err := d.read(start, 2)
	if err != nil {
		return Property{}, err
	}
	property := Property{
		Container: ContainerKind(kinds[0]),
		Value:     ValueKind(kinds[1]),
		Count:     1,
	}

	switch {
	case property.Container == ContainerScalar:
	case property.Container.countImplicit(d.options.PackedElements):
		if d.shapes >= len(d.options.Shapes) {
			return Property{}, &ShapeError{Index: d.index, Offset: start, Container: property.Container}
		}
		property.Count = d.options.Shapes[d.shapes]
		d.shapes++
	case d.wide:
		field, err := d.read(start, 8)
		if err != nil {
			return Property{}, err
		}
		property.Count = binary.LittleEndian.Uint64(field)
	default:
		field, err := d.read(start, 2)
		if err != nil {
			return Property{}, err
		}
		property.Count = uint64(binary.LittleEndian.Uint16(field))
	}

	switch width := uint64(property.Value.Width()); {
	case property.Value == ValueNullTerminatedString:
		terminator := bytes.IndexByte(d.data[d.cursor:], 0)
		if terminator < 0 {
			return Property{}, d.truncated(start, uint64(len(d.data)-d.cursor)+1)
		}
		property.Payload, _ = d.read(start, uint64(terminator)+1)
	case width > 0:
		remaining := uint64(len(d.data) - d.cursor)
		if property.Count > remaining/width {
			return Property{}, d.truncated(start, saturatingMultiply(property.Count, width))
		}
		property.Payload, _ = d.read(start, property.Count*width)
	}
	return property, nil
}

// read advances the cursor by n bytes and returns them, or returns a
// [*TruncatedInputError] without moving.
func (d *Decoder) read(start int, n uint64) ([]byte, error) {
	if n > uint64(len(d.data)-d.cursor) {
		return nil, d.truncated(start, n)
	}
	end := d.cursor + int(n)
	field := d.data[d.cursor:end:end]
	d.cursor = end
	return field, nil
}

func (d *Decoder) truncated(start int, need uint64) error {
	return &TruncatedInputError{
		Index:     d.index,
		Offset:    start,
		Position:  d.cursor,
		Need:      need,
		Remaining: len(d.data) - d.cursor,
	}
}

func saturatingMultiply(a, b uint64) uint64 {
	if a != 0 && b > ^uint64(0)/a {
		return ^uint64(0)
	}
	return a * b
}
