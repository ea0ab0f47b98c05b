// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeHeader(t *testing.T) {
	tests := []struct {
		name    string
		options EncodeOptions
		want    []byte
	}{
		{name: "narrow", options: EncodeOptions{}, want: []byte{'P', 'S', 0x01, 0x80}},
		{name: "wide", options: EncodeOptions{WideCount: true}, want: []byte{'P', 'S', 0x01, 0x81}},
		{name: "omitted", options: EncodeOptions{OmitHeader: true}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(nil, tt.options)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		name     string
		property Property
		options  EncodeOptions
		want     []byte
	}{
		{
			name:     "scalar writes no count",
			property: Scalar(int32(-2)),
			want:     []byte{0x01, 0x03, 0xfe, 0xff, 0xff, 0xff},
		},
		{
			name:     "array narrow count",
			property: Array(int16(1), int16(2)),
			want:     []byte{0x02, 0x02, 0x02, 0x00, 0x01, 0x00, 0x02, 0x00},
		},
		{
			name:     "array wide count",
			property: Array(int8(7)),
			options:  EncodeOptions{WideCount: true},
			want:     []byte{0x02, 0x01, 0x01, 0, 0, 0, 0, 0, 0, 0, 0x07},
		},
		{
			name:     "vector unpacked carries count",
			property: Vector(int8(1), int8(2)),
			want:     []byte{0x05, 0x01, 0x02, 0x00, 0x01, 0x02},
		},
		{
			name:     "vector packed omits count",
			property: Vector(int8(1), int8(2)),
			options:  EncodeOptions{PackedElements: true},
			want:     []byte{0x05, 0x01, 0x01, 0x02},
		},
		{
			name:     "packed mode keeps array count",
			property: Array(int8(1)),
			options:  EncodeOptions{PackedElements: true},
			want:     []byte{0x02, 0x01, 0x01, 0x00, 0x01},
		},
		{
			name:     "null-terminated string",
			property: CString("hi"),
			want:     []byte{0x04, 0x0b, 0x03, 0x00, 'h', 'i', 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppendProperty(nil, tt.property, tt.options)
			if err != nil {
				t.Fatalf("AppendProperty: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got % x, want % x", got, tt.want)
			}
		})
	}
}

func TestEncodeRejectsInvalidProperties(t *testing.T) {
	tests := []struct {
		name     string
		property Property
		want     error
	}{
		{
			name:     "scalar with two elements",
			property: Property{Container: ContainerScalar, Value: ValueInt8, Count: 2, Payload: []byte{1, 2}},
			want:     ErrScalarCount,
		},
		{
			name:     "short fixed payload",
			property: Property{Container: ContainerArray, Value: ValueInt32, Count: 2, Payload: []byte{1, 2, 3, 4}},
			want:     ErrPayloadSize,
		},
		{
			name:     "huge count with small payload",
			property: Property{Container: ContainerArray, Value: ValueInt64, Count: 1 << 62, Payload: make([]byte, 8)},
			want:     ErrPayloadSize,
		},
		{
			name:     "unterminated string",
			property: Property{Container: ContainerNullTerminatedString, Value: ValueNullTerminatedString, Count: 2, Payload: []byte("hi")},
			want:     ErrTerminator,
		},
		{
			name:     "embedded zero",
			property: CString("a\x00b"),
			want:     ErrTerminator,
		},
		{
			name:     "object payload",
			property: Property{Container: ContainerObject, Value: ValueObject, Count: 1, Payload: []byte{1}},
			want:     ErrUnframedPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode([]Property{tt.property}, EncodeOptions{WideCount: true})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Encode error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeNarrowCountOverflow(t *testing.T) {
	values := make([]int8, 70000)
	_, err := Encode([]Property{Array(values...)}, EncodeOptions{})

	var overflow *CountOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("Encode error = %v, want *CountOverflowError", err)
	}
	if overflow.Count != 70000 || overflow.Max != 65535 {
		t.Errorf("overflow = %+v, want count 70000 max 65535", overflow)
	}

	// Packed vectors have no count field, so no limit applies.
	if _, err := Encode([]Property{Vector(values...)}, EncodeOptions{PackedElements: true}); err != nil {
		t.Errorf("packed vector: %v", err)
	}
}

func TestEncoderMatchesEncode(t *testing.T) {
	properties := []Property{
		Scalar(uint64(0x0db85f495cb4e4b0)),
		Text("name"),
		Matrix(float32(1), 0, 0, 1),
	}
	options := EncodeOptions{WideCount: true}

	want, err := Encode(properties, options)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var buffer bytes.Buffer
	encoder, err := NewEncoder(&buffer, options)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	for _, property := range properties {
		if err := encoder.Encode(property); err != nil {
			t.Fatalf("Encoder.Encode: %v", err)
		}
	}

	if !bytes.Equal(buffer.Bytes(), want) {
		t.Errorf("stream encoding % x differs from Encode % x", buffer.Bytes(), want)
	}
}

func TestEncoderRejectsWithoutWriting(t *testing.T) {
	var buffer bytes.Buffer
	encoder, err := NewEncoder(&buffer, EncodeOptions{OmitHeader: true})
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := encoder.Encode(CString("bad\x00string")); err == nil {
		t.Fatal("expected error for embedded zero byte")
	}
	if buffer.Len() != 0 {
		t.Errorf("rejected property wrote %d bytes", buffer.Len())
	}
}
