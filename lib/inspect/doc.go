// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspect decodes captured property buffers without a schema
// and renders what it finds for a human.
//
// The inspector knows nothing about the buffer in advance: every
// property's shape comes from the bytes. [Inspect] returns a [Report]
// with one [Record] per decoded property, the trailing padding, the
// unknown-type warnings, and the condition that ended decoding. Only a
// bad header is an error; everything after it is reported, and a
// truncated buffer still yields every property before the damage.
//
// Int64 values are resolved against a registry of interned
// identifiers, built with [LoadMappings] from mapping files and
// inline command-line entries.
//
// Captures arrive as hex dumps (the default) or raw bytes, and either
// may be zstd or lz4 framed; [ReadInput] handles all of these.
package inspect
