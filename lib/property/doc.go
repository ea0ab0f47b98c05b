// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package property implements Portal's binary property format: a
// 4-byte header followed by a flat, ordered list of self-describing
// typed values.
//
// Each property is written as:
//
//	[1 byte container kind][1 byte value kind][element count?][payload]
//
// The element count is omitted for scalars (always one element) and,
// in packed mode, for vectors and matrices. Otherwise it is a
// little-endian uint16, or a uint64 when the header's wide-count flag
// is set. Payloads are raw little-endian elements of the value kind's
// fixed width, except null-terminated strings which run up to and
// including a single zero byte.
//
// [Encode] and [Decode] are exact inverses for every property that
// [Encode] accepts. Decoding favors partial results: a truncated
// buffer ends decoding with a [*TruncatedInputError] but keeps every
// property read so far, unknown kind bytes become Invalid-tagged
// properties with an [*UnknownTypeError] warning, and a trailing run
// of 0xCD fill bytes ends decoding cleanly. Only a bad header
// ([*FormatError]) rejects the buffer outright.
//
// [FormatValue] renders a property for humans. Interned identifiers
// (64-bit hashes) are resolved through a caller-supplied [Resolver];
// there is no process-wide identifier table.
package property
