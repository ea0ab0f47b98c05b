// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// EncodeOptions configures the writer side of the format. Readers
// must be configured with the matching packed-elements setting; the
// wide-count setting travels in the header.
type EncodeOptions struct {
	// WideCount writes explicit element counts as uint64 instead of
	// uint16, and sets the header's wide-count flag.
	WideCount bool

	// PackedElements omits the element count of vector and matrix
	// properties. Readers must supply the shapes out of band.
	PackedElements bool

	// OmitHeader writes properties only, without the 4-byte header.
	OmitHeader bool
}

// Encode returns the header (unless omitted) followed by every
// property in order. Nothing is returned if any property is invalid;
// the error names the first offending property's index.
func Encode(properties []Property, options EncodeOptions) ([]byte, error) {
	var buffer []byte
	if !options.OmitHeader {
		buffer = NewHeader(options.WideCount).AppendTo(buffer)
	}
	for index, property := range properties {
		var err error
		buffer, err = AppendProperty(buffer, property, options)
		if err != nil {
			return nil, fmt.Errorf("encoding property %d: %w", index, err)
		}
	}
	return buffer, nil
}

// AppendProperty validates p and appends its encoding to dst. On
// error dst is returned unchanged.
func AppendProperty(dst []byte, p Property, options EncodeOptions) ([]byte, error) {
	if err := Validate(p, options); err != nil {
		return dst, err
	}

	dst = append(dst, byte(p.Container), byte(p.Value))
	if !p.Container.countImplicit(options.PackedElements) {
		if options.WideCount {
			dst = binary.LittleEndian.AppendUint64(dst, p.Count)
		} else {
			dst = binary.LittleEndian.AppendUint16(dst, uint16(p.Count))
		}
	}
	return append(dst, p.Payload...), nil
}

// Validate reports whether p can be written under options such that
// decoding yields p back unchanged.
func Validate(p Property, options EncodeOptions) error {
	if p.Container == ContainerScalar && p.Count != 1 {
		return fmt.Errorf("%w (got %d)", ErrScalarCount, p.Count)
	}
	if !p.Container.countImplicit(options.PackedElements) && !options.WideCount && p.Count > math.MaxUint16 {
		return &CountOverflowError{Count: p.Count, Max: math.MaxUint16}
	}

	if p.Value == ValueNullTerminatedString {
		terminator := bytes.IndexByte(p.Payload, 0)
		if terminator < 0 || terminator != len(p.Payload)-1 {
			return ErrTerminator
		}
		return nil
	}

	width := uint64(p.Value.Width())
	if width == 0 {
		if len(p.Payload) != 0 {
			return fmt.Errorf("%w: %s with %d payload bytes", ErrUnframedPayload, p.Value, len(p.Payload))
		}
		return nil
	}
	if p.Count > uint64(len(p.Payload))/width || p.Count*width != uint64(len(p.Payload)) {
		return fmt.Errorf("%w: %d × %s needs %d bytes, got %d",
			ErrPayloadSize, p.Count, p.Value, p.Count*width, len(p.Payload))
	}
	return nil
}

// Encoder writes a property stream to an io.Writer. The header is
// written when the Encoder is created.
type Encoder struct {
	writer  io.Writer
	options EncodeOptions
	scratch []byte
	count   int
}

// NewEncoder writes the header (unless omitted) to w and returns an
// Encoder for the properties that follow.
func NewEncoder(w io.Writer, options EncodeOptions) (*Encoder, error) {
	encoder := &Encoder{writer: w, options: options}
	if !options.OmitHeader {
		if _, err := w.Write(NewHeader(options.WideCount).AppendTo(nil)); err != nil {
			return nil, fmt.Errorf("writing property header: %w", err)
		}
	}
	return encoder, nil
}

// Encode writes one property. Invalid properties are rejected before
// any byte is written.
func (e *Encoder) Encode(p Property) error {
	var err error
	e.scratch, err = AppendProperty(e.scratch[:0], p, e.options)
	if err != nil {
		return fmt.Errorf("encoding property %d: %w", e.count, err)
	}
	if _, err := e.writer.Write(e.scratch); err != nil {
		return fmt.Errorf("writing property %d: %w", e.count, err)
	}
	e.count++
	return nil
}
