// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package stringid

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"

	"github.com/JonatanNevo/portal-framework/lib/config"
)

// Hasher maps a UTF-8 string to its 64-bit identifier. Implementations
// are pure functions of the string: the same input always produces the
// same hash, and calls are independent of each other.
type Hasher interface {
	// Name identifies the algorithm and its parameters. Hashes from
	// hashers with different names are not comparable.
	Name() string

	// Hash returns the identifier for s.
	Hash(ctx context.Context, s string) (uint64, error)
}

// XXH64 hashes with 64-bit xxHash, seed 0.
type XXH64 struct{}

// Name returns "xxh64".
func (XXH64) Name() string { return config.AlgorithmXXH64 }

// Hash returns the xxHash64 of s.
func (XXH64) Hash(_ context.Context, s string) (uint64, error) {
	return xxhash.Sum64String(s), nil
}

// blake3DomainKey keys the BLAKE3 identifier hash. Changing it changes
// every identifier. The bytes are the ASCII domain name, zero-padded.
var blake3DomainKey = [32]byte{
	'p', 'o', 'r', 't', 'a', 'l', '.', 's', 't', 'r', 'i', 'n', 'g', '-', 'i', 'd',
	'.', 'v', '1', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// BLAKE3 hashes with keyed BLAKE3 and keeps the first 8 digest bytes,
// read little-endian.
type BLAKE3 struct{}

// Name returns "blake3".
func (BLAKE3) Name() string { return config.AlgorithmBLAKE3 }

// Hash returns the truncated keyed BLAKE3 digest of s.
func (BLAKE3) Hash(_ context.Context, s string) (uint64, error) {
	hasher, err := blake3.NewKeyed(blake3DomainKey[:])
	if err != nil {
		return 0, fmt.Errorf("blake3 keyed hash initialization: %w", err)
	}
	hasher.Write([]byte(s))
	return binary.LittleEndian.Uint64(hasher.Sum(nil)), nil
}

// NewHasher returns the hasher selected by cfg.
func NewHasher(cfg config.HasherConfig) (Hasher, error) {
	switch cfg.Algorithm {
	case "", config.AlgorithmRapidHash:
		return RapidHash{}, nil
	case config.AlgorithmXXH64:
		return XXH64{}, nil
	case config.AlgorithmBLAKE3:
		return BLAKE3{}, nil
	case config.AlgorithmExec:
		if cfg.Command == "" {
			return nil, fmt.Errorf("exec hasher requires a command")
		}
		return &ExecHasher{Command: cfg.Command, Args: cfg.Args}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q (want %s)", cfg.Algorithm,
			strings.Join([]string{config.AlgorithmRapidHash, config.AlgorithmXXH64, config.AlgorithmBLAKE3, config.AlgorithmExec}, ", "))
	}
}
