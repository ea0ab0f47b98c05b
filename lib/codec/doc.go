// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration shared by portal's
// on-disk state, currently the registry build cache.
//
// The encoder uses Core Deterministic Encoding, so a cache built from
// the same sources is byte-identical across runs and machines. Types
// stored through this package use `cbor` struct tags only; they never
// appear in JSON output.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
package codec
