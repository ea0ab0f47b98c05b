// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package property

import "fmt"

// ContainerKind describes the shape of a property's payload. Values
// are protocol constants: changing them breaks every existing buffer.
//
// A ContainerKind decoded from an unrecognized byte keeps that byte;
// [ContainerKind.Known] reports false and it renders as invalid, so
// a scan can continue past type codes added by newer writers.
type ContainerKind uint8

const (
	ContainerInvalid              ContainerKind = 0
	ContainerScalar               ContainerKind = 1
	ContainerArray                ContainerKind = 2
	ContainerString               ContainerKind = 3
	ContainerNullTerminatedString ContainerKind = 4
	ContainerVector               ContainerKind = 5
	ContainerMatrix               ContainerKind = 6
	ContainerObject               ContainerKind = 7
)

var containerNames = map[ContainerKind]string{
	ContainerInvalid:              "invalid",
	ContainerScalar:               "scalar",
	ContainerArray:                "array",
	ContainerString:               "string",
	ContainerNullTerminatedString: "null_term_string",
	ContainerVector:               "vector",
	ContainerMatrix:               "matrix",
	ContainerObject:               "object",
}

// Known reports whether kind is one of the defined container kinds.
func (kind ContainerKind) Known() bool {
	_, ok := containerNames[kind]
	return ok
}

// String returns the container kind's name, or "unknown(0xNN)" for
// bytes outside the defined set.
func (kind ContainerKind) String() string {
	if name, ok := containerNames[kind]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(kind))
}

// countImplicit reports whether the element count is left out of the
// stream for this container kind.
func (kind ContainerKind) countImplicit(packed bool) bool {
	switch kind {
	case ContainerScalar:
		return true
	case ContainerVector, ContainerMatrix:
		return packed
	default:
		return false
	}
}

// ParseContainerKind resolves a container name as produced by
// [ContainerKind.String]. "cstring" and "vec" are accepted as aliases.
func ParseContainerKind(name string) (ContainerKind, error) {
	switch name {
	case "cstring":
		return ContainerNullTerminatedString, nil
	case "vec":
		return ContainerVector, nil
	}
	for kind, candidate := range containerNames {
		if candidate == name {
			return kind, nil
		}
	}
	return ContainerInvalid, fmt.Errorf("unknown container kind %q", name)
}

// ValueKind describes the element type of a property's payload. Like
// [ContainerKind], unrecognized bytes are preserved and report false
// from [ValueKind.Known].
type ValueKind uint8

const (
	ValueBinary               ValueKind = 0
	ValueInt8                 ValueKind = 1
	ValueInt16                ValueKind = 2
	ValueInt32                ValueKind = 3
	ValueInt64                ValueKind = 4
	ValueInt128               ValueKind = 5
	ValueFloat32              ValueKind = 6
	ValueFloat64              ValueKind = 7
	ValueChar                 ValueKind = 8
	ValueBool                 ValueKind = 9
	ValueObject               ValueKind = 10
	ValueNullTerminatedString ValueKind = 11
	ValueString               ValueKind = 12
	ValueInvalid              ValueKind = 255
)

type valueInfo struct {
	name  string
	width int
}

var valueKinds = map[ValueKind]valueInfo{
	ValueBinary:               {"binary", 1},
	ValueInt8:                 {"integer8", 1},
	ValueInt16:                {"integer16", 2},
	ValueInt32:                {"integer32", 4},
	ValueInt64:                {"integer64", 8},
	ValueInt128:               {"integer128", 16},
	ValueFloat32:              {"floating32", 4},
	ValueFloat64:              {"floating64", 8},
	ValueChar:                 {"character", 1},
	ValueBool:                 {"boolean", 1},
	ValueObject:               {"object", 0},
	ValueNullTerminatedString: {"null_term_string", 0},
	ValueString:               {"string", 0},
	ValueInvalid:              {"invalid", 0},
}

// Known reports whether kind is one of the defined value kinds.
// ValueInvalid (255) is defined and therefore known.
func (kind ValueKind) Known() bool {
	_, ok := valueKinds[kind]
	return ok
}

// Width returns the per-element byte width. Variable-length and
// unknown kinds have width 0.
func (kind ValueKind) Width() int {
	return valueKinds[kind].width
}

// String returns the value kind's name, or "unknown(0xNN)".
func (kind ValueKind) String() string {
	if info, ok := valueKinds[kind]; ok {
		return info.name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(kind))
}

// ParseValueKind resolves a value kind name. Both the long names
// ("integer32") and the short labels ("i32", "f64") are accepted.
func ParseValueKind(name string) (ValueKind, error) {
	for kind, info := range valueKinds {
		if info.name == name || shortValueName(info.name) == name {
			return kind, nil
		}
	}
	switch name {
	case "char":
		return ValueChar, nil
	case "bool":
		return ValueBool, nil
	case "cstring":
		return ValueNullTerminatedString, nil
	}
	return ValueInvalid, fmt.Errorf("unknown value kind %q", name)
}
