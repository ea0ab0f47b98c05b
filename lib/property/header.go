// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

// Magic identifies a Portal property buffer ("PS").
var Magic = [2]byte{'P', 'S'}

const (
	// Version is the only format version this package reads or writes.
	Version uint8 = 1

	// HeaderSize is the encoded size of [Header].
	HeaderSize = 4

	// FlagWideCount selects 8-byte element counts instead of 2-byte.
	FlagWideCount uint8 = 1 << 0

	// FlagHeaderPresent is always set on written headers. No container
	// kind reaches bit 7, so a reader can tell an encoded header from
	// a headerless buffer that starts with a property.
	FlagHeaderPresent uint8 = 1 << 7

	// PaddingByte fills uninitialized memory in captured buffers. A
	// run of it reaching the end of the buffer is not property data.
	PaddingByte byte = 0xCD
)

// Header is the fixed 4-byte prefix of a property buffer:
// magic (2 bytes), version (1 byte), flags (1 byte).
type Header struct {
	Magic   [2]byte
	Version uint8
	Flags   uint8
}

// NewHeader returns a current-version header with the header-present
// flag set and the wide-count flag set when wide is true.
func NewHeader(wide bool) Header {
	header := Header{Magic: Magic, Version: Version, Flags: FlagHeaderPresent}
	if wide {
		header.Flags |= FlagWideCount
	}
	return header
}

// WideCount reports whether explicit element counts are 8 bytes wide.
func (header Header) WideCount() bool {
	return header.Flags&FlagWideCount != 0
}

// Present reports whether the header-present flag is set.
func (header Header) Present() bool {
	return header.Flags&FlagHeaderPresent != 0
}

// AppendTo appends the encoded header to dst.
func (header Header) AppendTo(dst []byte) []byte {
	return append(dst, header.Magic[0], header.Magic[1], header.Version, header.Flags)
}

// ParseHeader reads and validates the header at the start of data.
// Any magic or version mismatch, or a buffer too short to hold a
// header, returns a [*FormatError].
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, &FormatError{Reason: "buffer shorter than header", Length: len(data)}
	}
	header := Header{
		Magic:   [2]byte{data[0], data[1]},
		Version: data[2],
		Flags:   data[3],
	}
	if header.Magic != Magic {
		return header, &FormatError{Reason: "invalid magic", Header: header, Length: len(data)}
	}
	if header.Version != Version {
		return header, &FormatError{Reason: "unsupported version", Header: header, Length: len(data)}
	}
	return header, nil
}
