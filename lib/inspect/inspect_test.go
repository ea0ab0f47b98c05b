// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/JonatanNevo/portal-framework/lib/property"
	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

func encode(t *testing.T, options property.EncodeOptions, properties ...property.Property) []byte {
	t.Helper()
	data, err := property.Encode(properties, options)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestInspectResolvesIdentifiers(t *testing.T) {
	registry := stringid.New()
	registry.Set(0x1, "Foo")
	data := encode(t, property.EncodeOptions{}, property.Scalar(int64(1)), property.Scalar(int64(2)))

	report, err := Inspect(data, Options{Resolver: registry})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(report.Records) != 2 {
		t.Fatalf("Records = %d, want 2", len(report.Records))
	}
	first := report.Records[0]
	if !strings.Contains(first.Formatted, `"Foo"`) || !first.Resolved {
		t.Errorf("record 0 = %+v, want resolved \"Foo\"", first)
	}
	second := report.Records[1]
	if second.Formatted != "0x0000000000000002" || second.Resolved {
		t.Errorf("record 1 = %+v, want unresolved hex", second)
	}
	if first.Container != "scalar" || first.Value != "i64" || first.Offset != property.HeaderSize {
		t.Errorf("record 0 labels = %q %q at %d", first.Container, first.Value, first.Offset)
	}
}

func TestInspectKeepsPartialResults(t *testing.T) {
	data := encode(t, property.EncodeOptions{},
		property.Scalar(int32(7)),
		property.Vector(float32(1), float32(2), float32(3)),
	)
	data = data[:len(data)-2]

	report, err := Inspect(data, Options{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(report.Records) != 1 || report.Records[0].Formatted != "7" {
		t.Fatalf("Records = %+v, want the scalar before the damage", report.Records)
	}
	var truncated *property.TruncatedInputError
	if !errors.As(report.Termination, &truncated) {
		t.Fatalf("Termination = %v, want TruncatedInputError", report.Termination)
	}
	if report.TerminationOffset != 10 {
		t.Errorf("TerminationOffset = %d, want 10", report.TerminationOffset)
	}
	if report.Complete() {
		t.Error("truncated report claims to be complete")
	}
}

func TestInspectBadHeader(t *testing.T) {
	_, err := Inspect([]byte("XX\x01\x80"), Options{})
	var formatErr *property.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Inspect error = %v, want FormatError", err)
	}
}

func TestInspectPaddingAndWarnings(t *testing.T) {
	data := encode(t, property.EncodeOptions{}, property.Scalar(true))
	data = append(data, byte(property.ContainerScalar), 0x2a)
	data = append(data, 0xcd, 0xcd, 0xcd)

	report, err := Inspect(data, Options{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if report.Padding != 3 || report.PaddingOffset != len(data)-3 {
		t.Errorf("Padding = %d at %d, want 3 at %d", report.Padding, report.PaddingOffset, len(data)-3)
	}
	if len(report.Records) != 2 || report.Records[1].Value != "invalid(0x2a)" {
		t.Fatalf("Records = %+v, want an invalid-tagged second record", report.Records)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one", report.Warnings)
	}
	if !report.Complete() {
		t.Errorf("Termination = %v, want nil", report.Termination)
	}
}

func TestInspectHeaderless(t *testing.T) {
	options := property.EncodeOptions{OmitHeader: true, WideCount: true}
	data := encode(t, options, property.Array(int16(1), int16(-1)))

	report, err := Inspect(data, Options{Decode: property.DecodeOptions{NoHeader: true, WideCount: true}})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if report.Header.Present || !report.Header.WideCount {
		t.Errorf("Header = %+v, want absent with wide counts", report.Header)
	}
	if len(report.Records) != 1 || report.Records[0].Formatted != "[1, -1]" || report.Records[0].Container != "array[2]" {
		t.Errorf("Records = %+v", report.Records)
	}
}

func TestWriteText(t *testing.T) {
	registry := stringid.New()
	registry.Set(1, "Foo")
	data := encode(t, property.EncodeOptions{},
		property.Scalar(int64(1)),
		property.Vector(float32(1.5), float32(-2), float32(0.25)),
		property.CString("mesh"),
	)
	data = append(data, byte(property.ContainerArray), byte(property.ValueInt32), 0x05, 0x00, 0x01)

	report, err := Inspect(data, Options{Resolver: registry})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	var output bytes.Buffer
	if err := report.WriteText(&output, Styles{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	text := output.String()

	for _, want := range []string{
		"Parsed 44 bytes",
		`Header: magic="PS", version=1, wide_count=false`,
		strings.Repeat("-", 80),
		`[  0] 0x0004: scalar          i64          = "Foo" (0x0000000000000001)`,
		`[  1] 0x000E: vec3            f32          = [1.5, -2, 0.25]`,
		`[  2] 0x001E: cstring         null_term_string = "mesh"`,
		"End of data at offset 0x0027:",
		"Found 3 properties",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, "[  2]") > strings.Index(text, "End of data") {
		t.Error("terminating condition printed before the records")
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("zero Styles produced escape sequences")
	}
}

func TestReportJSON(t *testing.T) {
	data := encode(t, property.EncodeOptions{}, property.Scalar(int8(-3)))
	data = append(data, byte(property.ContainerArray))
	report, err := Inspect(data, Options{})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	encoded, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		Length     int `json:"length"`
		Properties []struct {
			Value     string `json:"value"`
			ValueKind string `json:"value_kind"`
		} `json:"properties"`
		Warnings          []string `json:"warnings"`
		Termination       string   `json:"termination"`
		TerminationOffset *int     `json:"termination_offset"`
	}
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, encoded)
	}
	if decoded.Length != len(data) || len(decoded.Properties) != 1 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if decoded.Properties[0].Value != "-3" || decoded.Properties[0].ValueKind != "i8" {
		t.Errorf("property = %+v", decoded.Properties[0])
	}
	if decoded.Termination == "" || decoded.TerminationOffset == nil || *decoded.TerminationOffset != 7 {
		t.Errorf("termination = %q at %v", decoded.Termination, decoded.TerminationOffset)
	}
}
