// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"errors"

	"github.com/JonatanNevo/portal-framework/lib/property"
)

// Options configures [Inspect].
type Options struct {
	// Resolver names Int64 values. Nil resolves nothing.
	Resolver property.Resolver

	// Decode is passed to the property decoder. Packed buffers need
	// Shapes; headerless buffers need NoHeader and WideCount.
	Decode property.DecodeOptions
}

// Record is one decoded property as shown in a report.
type Record struct {
	Index  int `json:"index"`
	Offset int `json:"offset"`

	// Container and Value are the short labels ("vec3", "f32").
	Container string `json:"container"`
	Value     string `json:"value_kind"`
	Count     uint64 `json:"count"`

	// Formatted is the rendered payload.
	Formatted string `json:"value"`

	// Resolved is true when an Int64 value matched the resolver.
	Resolved bool `json:"resolved,omitempty"`

	Property property.Property `json:"-"`
}

// HeaderSummary describes the buffer header in a report.
type HeaderSummary struct {
	// Present is false for buffers decoded with NoHeader.
	Present   bool   `json:"present"`
	Magic     string `json:"magic,omitempty"`
	Version   uint8  `json:"version,omitempty"`
	WideCount bool   `json:"wide_count"`
}

// Report is the result of inspecting one buffer.
type Report struct {
	// Length is the size of the inspected buffer in bytes.
	Length  int           `json:"length"`
	Header  HeaderSummary `json:"header"`
	Records []Record      `json:"properties"`

	// Padding is the length of the trailing 0xCD run and
	// PaddingOffset where it starts. Both are 0 without padding.
	Padding       int `json:"padding,omitempty"`
	PaddingOffset int `json:"padding_offset,omitempty"`

	// Warnings holds the unknown-type warnings.
	Warnings []error `json:"-"`

	// Termination is the condition that stopped decoding early: a
	// *property.TruncatedInputError or *property.ShapeError. Nil when
	// the whole buffer decoded.
	Termination error `json:"-"`

	// TerminationOffset is where the failing property starts.
	TerminationOffset int `json:"-"`
}

// Inspect decodes data and builds a report. The only error returned
// is a *property.FormatError for a bad header; every other condition
// is recorded in the report alongside the properties decoded before
// it.
func Inspect(data []byte, options Options) (*Report, error) {
	decoded, err := property.Decode(data, options.Decode)
	if decoded == nil {
		return nil, err
	}

	report := &Report{
		Length:      len(data),
		Padding:     decoded.Padding,
		Warnings:    decoded.Warnings,
		Termination: err,
		Records:     make([]Record, len(decoded.Properties)),
	}
	if options.Decode.NoHeader {
		report.Header = HeaderSummary{WideCount: options.Decode.WideCount}
	} else {
		report.Header = HeaderSummary{
			Present:   true,
			Magic:     string(decoded.Header.Magic[:]),
			Version:   decoded.Header.Version,
			WideCount: decoded.Header.WideCount(),
		}
	}
	if decoded.Padding > 0 {
		report.PaddingOffset = len(data) - decoded.Padding
	}

	for index, p := range decoded.Properties {
		report.Records[index] = Record{
			Index:     index,
			Offset:    decoded.Offsets[index],
			Container: property.ContainerLabel(p),
			Value:     property.ValueLabel(p.Value),
			Count:     p.Count,
			Formatted: property.FormatValue(p, options.Resolver),
			Resolved:  resolves(p, options.Resolver),
			Property:  p,
		}
	}

	var truncated *property.TruncatedInputError
	var shape *property.ShapeError
	switch {
	case errors.As(err, &truncated):
		report.TerminationOffset = truncated.Offset
	case errors.As(err, &shape):
		report.TerminationOffset = shape.Offset
	}
	return report, nil
}

// resolves reports whether any Int64 element of p has a name.
func resolves(p property.Property, resolver property.Resolver) bool {
	if resolver == nil || p.Value != property.ValueInt64 {
		return false
	}
	ids, err := property.Elements[uint64](p)
	if err != nil {
		return false
	}
	for _, id := range ids {
		if _, ok := resolver.Lookup(id); ok {
			return true
		}
	}
	return false
}

// Complete reports whether the whole buffer decoded.
func (r *Report) Complete() bool {
	return r.Termination == nil
}
