// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspect implements the "portal inspect" command, which
// decodes a property buffer and prints one line per property with
// interned identifiers resolved to their names.
//
// The buffer comes from a file argument or stdin, as a hex dump by
// default or as raw bytes with --raw. Compressed captures (zstd, lz4)
// are detected by magic and expanded first. Identifier names come
// from mapping files (the configured ones, then each --map in order)
// and from --inline entries, which take precedence over every file.
package inspect
