// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	libproperty "github.com/JonatanNevo/portal-framework/lib/property"
	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

// description is one property in the JSON input of "property encode".
type description struct {
	Container string          `json:"container"`
	Value     string          `json:"value"`
	Data      json.RawMessage `json:"data"`
	// Count overrides the element count. Object and string value
	// kinds carry no payload and take their count from here.
	Count *uint64 `json:"count"`
}

// parseDescriptions decodes the JSON list and builds the properties.
// Identifier strings in integer64 data are hashed with hasher.
func parseDescriptions(ctx context.Context, data []byte, hasher stringid.Hasher) ([]libproperty.Property, error) {
	var descriptions []description
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&descriptions); err != nil {
		return nil, fmt.Errorf("decoding property list: %w", err)
	}

	properties := make([]libproperty.Property, len(descriptions))
	for index, d := range descriptions {
		p, err := d.build(ctx, hasher)
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", index, err)
		}
		properties[index] = p
	}
	return properties, nil
}

func (d description) build(ctx context.Context, hasher stringid.Hasher) (libproperty.Property, error) {
	container, err := libproperty.ParseContainerKind(d.Container)
	if err != nil {
		return libproperty.Property{}, err
	}
	value, err := libproperty.ParseValueKind(d.Value)
	if err != nil {
		return libproperty.Property{}, err
	}

	var p libproperty.Property
	switch value {
	case libproperty.ValueInt8:
		p, err = integers[int8](d.Data, 8)
	case libproperty.ValueInt16:
		p, err = integers[int16](d.Data, 16)
	case libproperty.ValueInt32:
		p, err = integers[int32](d.Data, 32)
	case libproperty.ValueInt64:
		p, err = identifiers(ctx, d.Data, hasher)
	case libproperty.ValueInt128:
		p, err = wideIntegers(d.Data)
	case libproperty.ValueFloat32:
		p, err = floats[float32](d.Data, 32)
	case libproperty.ValueFloat64:
		p, err = floats[float64](d.Data, 64)
	case libproperty.ValueBool:
		var values []bool
		if err = unmarshalList(d.Data, &values); err == nil {
			p = libproperty.Array(values...)
		}
	case libproperty.ValueChar:
		var text string
		if err = unmarshalText(d.Data, &text); err == nil {
			p = libproperty.Text(text)
		}
	case libproperty.ValueNullTerminatedString:
		var text string
		if err = unmarshalText(d.Data, &text); err == nil {
			if strings.IndexByte(text, 0) >= 0 {
				err = fmt.Errorf("null-terminated string contains a zero byte")
			}
			p = libproperty.CString(text)
		}
	case libproperty.ValueBinary:
		var text string
		if err = unmarshalText(d.Data, &text); err == nil {
			var raw []byte
			raw, err = hex.DecodeString(strings.Join(strings.Fields(text), ""))
			p = libproperty.Bytes(raw)
		}
	default:
		if len(d.Data) > 0 && string(d.Data) != "null" {
			err = fmt.Errorf("value kind %s carries no data", value)
		}
		p = libproperty.Property{Value: value}
	}
	if err != nil {
		return libproperty.Property{}, fmt.Errorf("%s data: %w", value, err)
	}

	p.Container = container
	switch {
	case d.Count != nil:
		p.Count = *d.Count
	case container == libproperty.ContainerScalar && value.Width() == 0:
		p.Count = 1
	}
	return p, nil
}

// unmarshalList accepts a single JSON value or a list of them.
func unmarshalList[T any](raw json.RawMessage, values *[]T) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("missing data")
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, values)
	}
	var single T
	if err := json.Unmarshal(raw, &single); err != nil {
		return err
	}
	*values = []T{single}
	return nil
}

func unmarshalText(raw json.RawMessage, text *string) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Errorf("missing data")
	}
	return json.Unmarshal(raw, text)
}

// numbers decodes data as a list of JSON numbers or numeric strings.
func numbers(raw json.RawMessage) ([]string, error) {
	var items []any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("missing data")
	}
	if trimmed[0] == '[' {
		if err := decoder.Decode(&items); err != nil {
			return nil, err
		}
	} else {
		var item any
		if err := decoder.Decode(&item); err != nil {
			return nil, err
		}
		items = []any{item}
	}

	result := make([]string, len(items))
	for index, item := range items {
		switch typed := item.(type) {
		case json.Number:
			result[index] = typed.String()
		case string:
			result[index] = typed
		default:
			return nil, fmt.Errorf("element %d: expected a number, got %T", index, item)
		}
	}
	return result, nil
}

func integers[T int8 | int16 | int32](raw json.RawMessage, bits int) (libproperty.Property, error) {
	items, err := numbers(raw)
	if err != nil {
		return libproperty.Property{}, err
	}
	values := make([]T, len(items))
	for index, item := range items {
		parsed, err := strconv.ParseInt(item, 0, bits)
		if err != nil {
			return libproperty.Property{}, fmt.Errorf("element %d: %w", index, err)
		}
		values[index] = T(parsed)
	}
	return libproperty.Array(values...), nil
}

func floats[T float32 | float64](raw json.RawMessage, bits int) (libproperty.Property, error) {
	items, err := numbers(raw)
	if err != nil {
		return libproperty.Property{}, err
	}
	values := make([]T, len(items))
	for index, item := range items {
		parsed, err := strconv.ParseFloat(item, bits)
		if err != nil {
			return libproperty.Property{}, fmt.Errorf("element %d: %w", index, err)
		}
		values[index] = T(parsed)
	}
	return libproperty.Array(values...), nil
}

// identifiers decodes integer64 data. Numbers (decimal, 0x hex, or
// negative) are taken as-is; any other string is an identifier name
// and is hashed.
func identifiers(ctx context.Context, raw json.RawMessage, hasher stringid.Hasher) (libproperty.Property, error) {
	items, err := numbers(raw)
	if err != nil {
		return libproperty.Property{}, err
	}
	values := make([]uint64, len(items))
	for index, item := range items {
		if parsed, err := strconv.ParseUint(item, 0, 64); err == nil {
			values[index] = parsed
			continue
		}
		if parsed, err := strconv.ParseInt(item, 0, 64); err == nil {
			values[index] = uint64(parsed)
			continue
		}
		hash, err := hasher.Hash(ctx, item)
		if err != nil {
			return libproperty.Property{}, fmt.Errorf("element %d: hashing %q: %w", index, item, err)
		}
		values[index] = hash
	}
	return libproperty.Array(values...), nil
}

var int128Modulus = new(big.Int).Lsh(big.NewInt(1), 128)

// wideIntegers decodes integer128 data. Negative values are stored in
// two's complement.
func wideIntegers(raw json.RawMessage) (libproperty.Property, error) {
	items, err := numbers(raw)
	if err != nil {
		return libproperty.Property{}, err
	}
	limit := new(big.Int).Rsh(int128Modulus, 1)
	mask := new(big.Int).SetUint64(^uint64(0))
	values := make([]libproperty.Int128, len(items))
	for index, item := range items {
		value, ok := new(big.Int).SetString(item, 0)
		if !ok {
			return libproperty.Property{}, fmt.Errorf("element %d: invalid integer %q", index, item)
		}
		if value.Cmp(int128Modulus) >= 0 || value.Cmp(new(big.Int).Neg(limit)) < 0 {
			return libproperty.Property{}, fmt.Errorf("element %d: %s does not fit 128 bits", index, item)
		}
		if value.Sign() < 0 {
			value.Add(value, int128Modulus)
		}
		values[index] = libproperty.Int128{
			Low:  new(big.Int).And(value, mask).Uint64(),
			High: new(big.Int).Rsh(value, 64).Uint64(),
		}
	}
	return libproperty.Array(values...), nil
}
