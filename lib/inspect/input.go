// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/JonatanNevo/portal-framework/lib/hexdump"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// maxDecompressedSize bounds decompressed captures.
const maxDecompressedSize = 256 << 20

// ReadInput reads a capture from r and returns the property buffer.
// zstd and lz4 frames are detected by their magic numbers and
// decompressed first. The result is then parsed as a hex dump, or
// used as-is when raw is true.
func ReadInput(r io.Reader, raw bool) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	data, err = Decompress(data)
	if err != nil {
		return nil, err
	}
	if raw {
		return data, nil
	}
	return hexdump.Parse(string(data)), nil
}

// Decompress returns data unchanged unless it starts with a zstd or
// lz4 frame, in which case it returns the decompressed content.
func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecompressedSize))
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer decoder.Close()
		decompressed, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing zstd capture: %w", err)
		}
		return decompressed, nil
	case bytes.HasPrefix(data, lz4Magic):
		reader := lz4.NewReader(bytes.NewReader(data))
		decompressed, err := io.ReadAll(io.LimitReader(reader, maxDecompressedSize+1))
		if err != nil {
			return nil, fmt.Errorf("decompressing lz4 capture: %w", err)
		}
		if len(decompressed) > maxDecompressedSize {
			return nil, fmt.Errorf("lz4 capture exceeds %d bytes decompressed", maxDecompressedSize)
		}
		return decompressed, nil
	default:
		return data, nil
	}
}
