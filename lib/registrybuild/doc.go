// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package registrybuild generates the identifier registry artifact
// from a source tree.
//
// A [Builder] walks the configured root in lexical order, keeps files
// whose extension marks them as compilable source, and drops test
// sources by file name suffix. Every MARKER("literal") occurrence is
// extracted textually, hashed with the configured [stringid.Hasher],
// and added to a [stringid.Registry] in first-discovery order.
//
// Files are scanned and hashed by a bounded pool of workers. Results
// are merged in file, line and column order, so the registry is the
// same as a sequential build regardless of scheduling.
//
// Failures are partial: an unreadable file is logged and skipped, a
// failed hash drops that one string, and both are kept in
// [Result].Warnings. Only a hash collision between two different
// strings aborts the build.
//
// [Builder.Generate] renders the registry and writes the artifact only
// when its bytes change. An optional [Cache] lets unchanged files skip
// rescanning and known strings skip the hasher between builds.
package registrybuild
