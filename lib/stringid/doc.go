// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package stringid interns human-readable identifiers as 64-bit
// hashes and maps the hashes back to names for offline debugging.
//
// A [Hasher] is the narrow string-to-uint64 capability the rest of the
// system depends on. [RapidHash] is the engine's own identifier hash
// and the default. [XXH64] and [BLAKE3] are alternates, and
// [ExecHasher] delegates to an external executable that prints the
// hash in base 10. [NewHasher] picks one from configuration.
//
// A [Registry] is an ordered hash-to-name table. It is built once by
// the registry builder (see lib/registrybuild), rendered as a
// generated artifact with [RenderArtifact], and written with
// [WriteIfChanged] so an unchanged table never touches the file.
// Inspection tools load registries back from mapping files with
// [LoadMappingFile], which also accepts several hand-written
// key/value syntaxes, and pass them explicitly to whatever formats
// identifier values.
package stringid
