// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// equalProperties compares the fields the format round-trips.
func equalProperties(t *testing.T, got, want []Property) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("decoded %d properties, want %d", len(got), len(want))
	}
	for index := range want {
		g, w := got[index], want[index]
		if g.Container != w.Container || g.Value != w.Value || g.Count != w.Count || !bytes.Equal(g.Payload, w.Payload) {
			t.Errorf("property %d = {%s %s %d % x}, want {%s %s %d % x}", index,
				g.Container, g.Value, g.Count, g.Payload,
				w.Container, w.Value, w.Count, w.Payload)
		}
	}
}

func sampleProperties() []Property {
	return []Property{
		Scalar(int8(-7)),
		Scalar(int16(1234)),
		Scalar(int32(-100000)),
		Scalar(int64(math.MinInt64)),
		Scalar(uint64(0x0db85f495cb4e4b0)),
		Scalar(Int128{Low: 1, High: 2}),
		Scalar(float32(3.5)),
		Scalar(math.Pi),
		Scalar(true),
		Array(int32(1), 2, 3, 4),
		Array[int8](),
		Vector(float32(1), 2, 3),
		Matrix(float64(1), 0, 0, 1),
		Bytes([]byte{0xde, 0xad, 0xbe, 0xef}),
		Text("portal"),
		CString("identifier"),
		CString(""),
		{Container: ContainerObject, Value: ValueObject, Count: 3},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, options := range []EncodeOptions{
		{},
		{WideCount: true},
		{OmitHeader: true},
		{OmitHeader: true, WideCount: true},
	} {
		data, err := Encode(sampleProperties(), options)
		if err != nil {
			t.Fatalf("Encode(%+v): %v", options, err)
		}

		decoded, err := Decode(data, DecodeOptions{NoHeader: options.OmitHeader, WideCount: options.WideCount})
		if err != nil {
			t.Fatalf("Decode(%+v): %v", options, err)
		}
		equalProperties(t, decoded.Properties, sampleProperties())
		if len(decoded.Warnings) != 0 {
			t.Errorf("unexpected warnings: %v", decoded.Warnings)
		}
		if !options.OmitHeader && decoded.Header.WideCount() != options.WideCount {
			t.Errorf("header wide-count = %v, want %v", decoded.Header.WideCount(), options.WideCount)
		}
	}
}

func TestRoundTripPackedWithShapes(t *testing.T) {
	properties := []Property{
		Vector(float32(1), 2, 3),
		Array(int16(9), 8),
		Matrix(int32(1), 2, 3, 4),
		Scalar(true),
	}
	data, err := Encode(properties, EncodeOptions{PackedElements: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data, DecodeOptions{PackedElements: true, Shapes: []uint64{3, 4}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	equalProperties(t, decoded.Properties, properties)
}

func TestDecodePackedWithoutShape(t *testing.T) {
	properties := []Property{Scalar(int8(1)), Vector(float32(1), 2)}
	data, err := Encode(properties, EncodeOptions{PackedElements: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data, DecodeOptions{PackedElements: true})
	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Decode error = %v, want *ShapeError", err)
	}
	if shapeErr.Index != 1 || shapeErr.Offset != 7 {
		t.Errorf("shape error at property %d offset %d, want 1 and 7", shapeErr.Index, shapeErr.Offset)
	}
	equalProperties(t, decoded.Properties, properties[:1])
}

func TestDecodeRejectsBadHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "wrong magic", data: []byte{'P', 'X', 0x01, 0x80, 0x01, 0x01, 0x05}},
		{name: "wrong version", data: []byte{'P', 'S', 0x02, 0x80, 0x01, 0x01, 0x05}},
		{name: "short buffer", data: []byte{'P', 'S'}},
		{name: "empty", data: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.data, DecodeOptions{})
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("Decode error = %v, want *FormatError", err)
			}
			if decoded != nil {
				t.Errorf("got %d properties alongside a format error", len(decoded.Properties))
			}
		})
	}
}

func TestDecodePaddingTermination(t *testing.T) {
	for _, padding := range []int{1, 3, 64} {
		data := NewHeader(false).AppendTo(nil)
		data = append(data, bytes.Repeat([]byte{PaddingByte}, padding)...)

		decoded, err := Decode(data, DecodeOptions{})
		if err != nil {
			t.Fatalf("Decode with %d padding bytes: %v", padding, err)
		}
		if len(decoded.Properties) != 0 {
			t.Errorf("decoded %d properties from padding", len(decoded.Properties))
		}
		if decoded.Padding != padding {
			t.Errorf("Padding = %d, want %d", decoded.Padding, padding)
		}
	}
}

func TestDecodePaddingAfterProperties(t *testing.T) {
	data, err := Encode([]Property{Scalar(int32(5))}, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data = append(data, PaddingByte, PaddingByte)

	decoded, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	equalProperties(t, decoded.Properties, []Property{Scalar(int32(5))})
	if decoded.Padding != 2 {
		t.Errorf("Padding = %d, want 2", decoded.Padding)
	}
}

func TestDecodeFillByteInsideDataIsNotPadding(t *testing.T) {
	// A property whose kind byte is 0xCD is data when anything other
	// than fill follows it.
	data := NewHeader(false).AppendTo(nil)
	data = append(data, 0xCD, 0xCD, 0x00, 0x00, byte(ContainerScalar), byte(ValueBool), 0x01)

	decoded, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Properties) != 2 {
		t.Fatalf("decoded %d properties, want 2", len(decoded.Properties))
	}
	if decoded.Properties[0].Container.Known() {
		t.Error("container 0xCD reported as known")
	}
}

func TestWideCountLargeArray(t *testing.T) {
	values := make([]int8, 70000)
	for index := range values {
		values[index] = int8(index)
	}
	properties := []Property{Array(values...)}

	data, err := Encode(properties, EncodeOptions{WideCount: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	equalProperties(t, decoded.Properties, properties)

	got, err := Elements[int8](decoded.Properties[0])
	if err != nil {
		t.Fatalf("Elements: %v", err)
	}
	// 69999 wraps to 111 in int8.
	if len(got) != 70000 || got[69999] != 111 {
		t.Errorf("element 69999 = %d, want 111", got[69999])
	}
}

func TestDecodeUnknownTypeResilience(t *testing.T) {
	data, err := Encode([]Property{Scalar(int32(42))}, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// Second property: scalar container, unused value kind 0x2a.
	data = append(data, byte(ContainerScalar), 0x2a)

	decoded, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Properties) != 2 {
		t.Fatalf("decoded %d properties, want 2", len(decoded.Properties))
	}

	first, err := Elements[int32](decoded.Properties[0])
	if err != nil || len(first) != 1 || first[0] != 42 {
		t.Errorf("first property = %v (%v), want [42]", first, err)
	}

	second := decoded.Properties[1]
	if second.Value.Known() || second.Value != ValueKind(0x2a) {
		t.Errorf("second property value kind = %s, want unknown(0x2a)", second.Value)
	}
	if len(decoded.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(decoded.Warnings))
	}
	var unknown *UnknownTypeError
	if !errors.As(decoded.Warnings[0], &unknown) || unknown.Index != 1 {
		t.Errorf("warning = %v, want *UnknownTypeError for property 1", decoded.Warnings[0])
	}
}

func TestDecodeTruncation(t *testing.T) {
	complete, err := Encode([]Property{Scalar(int32(1)), Scalar(int64(2))}, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	tests := []struct {
		name string
		cut  int
	}{
		{name: "inside payload", cut: len(complete) - 3},
		{name: "after kind bytes", cut: len(complete) - 8},
		{name: "between kind bytes", cut: len(complete) - 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(complete[:tt.cut], DecodeOptions{})
			var truncated *TruncatedInputError
			if !errors.As(err, &truncated) {
				t.Fatalf("Decode error = %v, want *TruncatedInputError", err)
			}
			if truncated.Index != 1 || truncated.Offset != 10 {
				t.Errorf("truncated at property %d offset %d, want 1 and 10", truncated.Index, truncated.Offset)
			}
			equalProperties(t, decoded.Properties, []Property{Scalar(int32(1))})
		})
	}
}

func TestDecodeTruncatedCountField(t *testing.T) {
	data := NewHeader(true).AppendTo(nil)
	data = append(data, byte(ContainerArray), byte(ValueInt8), 0x01, 0x00)

	_, err := Decode(data, DecodeOptions{})
	var truncated *TruncatedInputError
	if !errors.As(err, &truncated) {
		t.Fatalf("Decode error = %v, want *TruncatedInputError", err)
	}
	if truncated.Need != 8 || truncated.Remaining != 2 {
		t.Errorf("need %d remaining %d, want 8 and 2", truncated.Need, truncated.Remaining)
	}
}

func TestDecodeHugeCountDoesNotOverflow(t *testing.T) {
	data := NewHeader(true).AppendTo(nil)
	data = append(data, byte(ContainerArray), byte(ValueInt128))
	data = append(data, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00)

	_, err := Decode(data, DecodeOptions{})
	var truncated *TruncatedInputError
	if !errors.As(err, &truncated) {
		t.Fatalf("Decode error = %v, want *TruncatedInputError", err)
	}
}

func TestDecodeUnterminatedString(t *testing.T) {
	data := NewHeader(false).AppendTo(nil)
	data = append(data, byte(ContainerNullTerminatedString), byte(ValueNullTerminatedString), 0x03, 0x00, 'a', 'b')

	decoded, err := Decode(data, DecodeOptions{})
	var truncated *TruncatedInputError
	if !errors.As(err, &truncated) {
		t.Fatalf("Decode error = %v, want *TruncatedInputError", err)
	}
	if len(decoded.Properties) != 0 {
		t.Errorf("decoded %d properties, want 0", len(decoded.Properties))
	}
}

func TestDecodeStringIgnoresCountForSizing(t *testing.T) {
	data := NewHeader(false).AppendTo(nil)
	// Count field says 1, the payload runs to the zero byte.
	data = append(data, byte(ContainerNullTerminatedString), byte(ValueNullTerminatedString), 0x01, 0x00, 'a', 'b', 'c', 0x00)
	data = append(data, byte(ContainerScalar), byte(ValueBool), 0x01)

	decoded, err := Decode(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Properties) != 2 {
		t.Fatalf("decoded %d properties, want 2", len(decoded.Properties))
	}
	if text := decoded.Properties[0].Text(); text != "abc" {
		t.Errorf("Text() = %q, want %q", text, "abc")
	}
	if decoded.Offsets[1] != 12 {
		t.Errorf("second offset = %d, want 12", decoded.Offsets[1])
	}
}

func TestDecoderStopsAfterError(t *testing.T) {
	data := NewHeader(false).AppendTo(nil)
	data = append(data, byte(ContainerScalar))

	decoder, err := NewDecoder(data, DecodeOptions{})
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	_, first := decoder.Next()
	_, second := decoder.Next()
	if first == nil || first != second {
		t.Errorf("Next errors = %v then %v, want the same error twice", first, second)
	}
}
