// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package stringid

import (
	"context"
	"encoding/binary"
	"math/bits"

	"github.com/JonatanNevo/portal-framework/lib/config"
)

// rapidSecret is the default rapidhash V3 secret.
var rapidSecret = [8]uint64{
	0x2d358dccaa6c78a5,
	0x8bb84b93962eacc9,
	0x4b33a62ed433d4a3,
	0x4d5a2da51de1aa47,
	0xa0761d6478bd642f,
	0xe7037ed1a0b428db,
	0x90ed1765281c388c,
	0xaaaaaaaaaaaaaaaa,
}

// RapidHash hashes with rapidhash V3, seed 0 and the default secret.
// This is the function the engine's STRING_ID macro evaluates, so its
// hashes match identifiers embedded in captured buffers.
type RapidHash struct{}

// Name returns "rapidhash".
func (RapidHash) Name() string { return config.AlgorithmRapidHash }

// Hash returns the rapidhash V3 of s.
func (RapidHash) Hash(_ context.Context, s string) (uint64, error) {
	return Rapidhash([]byte(s), 0), nil
}

// rapidMum returns the low and high halves of the 128-bit product a*b.
func rapidMum(a, b uint64) (uint64, uint64) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi
}

func rapidMix(a, b uint64) uint64 {
	lo, hi := rapidMum(a, b)
	return lo ^ hi
}

func read64(p []byte) uint64 { return binary.LittleEndian.Uint64(p) }

func read32(p []byte) uint64 { return uint64(binary.LittleEndian.Uint32(p)) }

// Rapidhash computes rapidhash V3 of data with the given seed.
func Rapidhash(data []byte, seed uint64) uint64 {
	secret := &rapidSecret
	length := uint64(len(data))
	p := data
	seed ^= rapidMix(seed^secret[2], secret[1])

	var a, b uint64
	remaining := length
	if length <= 16 {
		switch {
		case length >= 8:
			seed ^= length
			a = read64(p)
			b = read64(p[length-8:])
		case length >= 4:
			seed ^= length
			a = read32(p)
			b = read32(p[length-4:])
		case length > 0:
			a = uint64(p[0])<<45 | uint64(p[length-1])
			b = uint64(p[length>>1])
		}
	} else {
		if length > 112 {
			see1, see2, see3, see4, see5, see6 := seed, seed, seed, seed, seed, seed
			for {
				seed = rapidMix(read64(p)^secret[0], read64(p[8:])^seed)
				see1 = rapidMix(read64(p[16:])^secret[1], read64(p[24:])^see1)
				see2 = rapidMix(read64(p[32:])^secret[2], read64(p[40:])^see2)
				see3 = rapidMix(read64(p[48:])^secret[3], read64(p[56:])^see3)
				see4 = rapidMix(read64(p[64:])^secret[4], read64(p[72:])^see4)
				see5 = rapidMix(read64(p[80:])^secret[5], read64(p[88:])^see5)
				see6 = rapidMix(read64(p[96:])^secret[6], read64(p[104:])^see6)
				p = p[112:]
				remaining -= 112
				if remaining <= 112 {
					break
				}
			}
			seed ^= see1
			see2 ^= see3
			see4 ^= see5
			seed ^= see6
			see2 ^= see4
			seed ^= see2
		}
		// Tail blocks of 16 bytes, each step only when that much input
		// remains.
		tail := [6]int{2, 2, 1, 1, 2, 1}
		for block := 0; block < len(tail) && remaining > uint64(16*(block+1)); block++ {
			offset := 16 * block
			seed = rapidMix(read64(p[offset:])^secret[tail[block]], read64(p[offset+8:])^seed)
		}
		a = read64(p[remaining-16:]) ^ remaining
		b = read64(p[remaining-8:])
	}

	a ^= secret[1]
	b ^= seed
	a, b = rapidMum(a, b)
	return rapidMix(a^secret[7], b^secret[1]^remaining)
}
