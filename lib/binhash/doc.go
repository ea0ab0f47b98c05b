// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes BLAKE3 content digests of files. The
// registry build cache uses them to tell whether a source file changed
// since the last build without trusting modification times.
package binhash
