// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Property is one self-describing value in a buffer: a container
// kind, a value kind, an element count and the raw payload bytes.
//
// Payloads returned by [Decode] alias the decoded buffer.
type Property struct {
	Container ContainerKind
	Value     ValueKind
	Count     uint64
	Payload   []byte
}

// Int128 is a 128-bit integer element, stored low half first.
type Int128 struct {
	Low  uint64
	High uint64
}

// Element is the set of Go types with a fixed-width value kind.
// uint64 maps to integer64 so interned identifiers can be written
// without conversion.
type Element interface {
	int8 | int16 | int32 | int64 | uint64 | float32 | float64 | bool | Int128
}

// kindOf returns the value kind for an element type.
func kindOf[T Element]() ValueKind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return ValueInt8
	case int16:
		return ValueInt16
	case int32:
		return ValueInt32
	case int64, uint64:
		return ValueInt64
	case Int128:
		return ValueInt128
	case float32:
		return ValueFloat32
	case float64:
		return ValueFloat64
	case bool:
		return ValueBool
	}
	return ValueInvalid
}

// appendElement appends the little-endian encoding of value.
func appendElement[T Element](dst []byte, value T) []byte {
	switch typed := any(value).(type) {
	case int8:
		return append(dst, byte(typed))
	case int16:
		return binary.LittleEndian.AppendUint16(dst, uint16(typed))
	case int32:
		return binary.LittleEndian.AppendUint32(dst, uint32(typed))
	case int64:
		return binary.LittleEndian.AppendUint64(dst, uint64(typed))
	case uint64:
		return binary.LittleEndian.AppendUint64(dst, typed)
	case Int128:
		dst = binary.LittleEndian.AppendUint64(dst, typed.Low)
		return binary.LittleEndian.AppendUint64(dst, typed.High)
	case float32:
		return binary.LittleEndian.AppendUint32(dst, math.Float32bits(typed))
	case float64:
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(typed))
	case bool:
		if typed {
			return append(dst, 1)
		}
		return append(dst, 0)
	}
	panic(fmt.Sprintf("property: unsupported element type %T", value))
}

// readElement decodes one element from the front of data, which must
// hold at least the element's width.
func readElement[T Element](data []byte) T {
	var result T
	switch target := any(&result).(type) {
	case *int8:
		*target = int8(data[0])
	case *int16:
		*target = int16(binary.LittleEndian.Uint16(data))
	case *int32:
		*target = int32(binary.LittleEndian.Uint32(data))
	case *int64:
		*target = int64(binary.LittleEndian.Uint64(data))
	case *uint64:
		*target = binary.LittleEndian.Uint64(data)
	case *Int128:
		target.Low = binary.LittleEndian.Uint64(data)
		target.High = binary.LittleEndian.Uint64(data[8:])
	case *float32:
		*target = math.Float32frombits(binary.LittleEndian.Uint32(data))
	case *float64:
		*target = math.Float64frombits(binary.LittleEndian.Uint64(data))
	case *bool:
		*target = data[0] != 0
	}
	return result
}

func newFixed[T Element](container ContainerKind, values []T) Property {
	kind := kindOf[T]()
	payload := make([]byte, 0, len(values)*kind.Width())
	for _, value := range values {
		payload = appendElement(payload, value)
	}
	return Property{
		Container: container,
		Value:     kind,
		Count:     uint64(len(values)),
		Payload:   payload,
	}
}

// Scalar returns a single-element property.
func Scalar[T Element](value T) Property {
	return newFixed(ContainerScalar, []T{value})
}

// Array returns an array property with an explicit element count.
func Array[T Element](values ...T) Property {
	return newFixed(ContainerArray, values)
}

// Vector returns a vector property. In packed mode its element count
// is not written and readers must know the shape.
func Vector[T Element](values ...T) Property {
	return newFixed(ContainerVector, values)
}

// Matrix returns a matrix property holding values in storage order.
// Like [Vector], its count is omitted in packed mode.
func Matrix[T Element](values ...T) Property {
	return newFixed(ContainerMatrix, values)
}

// Bytes returns a binary array property.
func Bytes(data []byte) Property {
	payload := make([]byte, len(data))
	copy(payload, data)
	return Property{
		Container: ContainerArray,
		Value:     ValueBinary,
		Count:     uint64(len(data)),
		Payload:   payload,
	}
}

// Text returns a string container of character elements, the
// encoding used for sized strings.
func Text(text string) Property {
	return Property{
		Container: ContainerString,
		Value:     ValueChar,
		Count:     uint64(len(text)),
		Payload:   []byte(text),
	}
}

// CString returns a null-terminated string property. text must not
// contain a zero byte; [Encode] rejects it otherwise.
func CString(text string) Property {
	payload := make([]byte, len(text)+1)
	copy(payload, text)
	return Property{
		Container: ContainerNullTerminatedString,
		Value:     ValueNullTerminatedString,
		Count:     uint64(len(payload)),
		Payload:   payload,
	}
}

// Elements decodes the payload of p as a slice of T. The value kind
// must match T (uint64 and int64 both read integer64 payloads).
func Elements[T Element](p Property) ([]T, error) {
	kind := kindOf[T]()
	if p.Value != kind {
		return nil, fmt.Errorf("property holds %s, not %s", p.Value, kind)
	}
	width := kind.Width()
	if len(p.Payload)%width != 0 {
		return nil, fmt.Errorf("%s payload of %d bytes is not a whole number of elements", kind, len(p.Payload))
	}
	values := make([]T, 0, len(p.Payload)/width)
	for offset := 0; offset < len(p.Payload); offset += width {
		values = append(values, readElement[T](p.Payload[offset:]))
	}
	return values, nil
}

// Text returns the payload as a string. Null-terminated strings stop
// at their first zero byte.
func (p Property) Text() string {
	if p.Value == ValueNullTerminatedString {
		for index, b := range p.Payload {
			if b == 0 {
				return string(p.Payload[:index])
			}
		}
	}
	return string(p.Payload)
}
