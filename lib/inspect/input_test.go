// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/JonatanNevo/portal-framework/lib/hexdump"
)

var capture = []byte{'P', 'S', 0x01, 0x80, 0x01, 0x09, 0x01, 0xcd, 0xcd}

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil)
}

func lz4Compress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		t.Fatalf("lz4 Write: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("lz4 Close: %v", err)
	}
	return buffer.Bytes()
}

func TestReadInput(t *testing.T) {
	dump := []byte(hexdump.Format(capture, 4))
	tests := []struct {
		name  string
		input []byte
		raw   bool
	}{
		{name: "hex dump", input: dump},
		{name: "raw", input: capture, raw: true},
		{name: "zstd hex dump", input: zstdCompress(t, dump)},
		{name: "zstd raw", input: zstdCompress(t, capture), raw: true},
		{name: "lz4 hex dump", input: lz4Compress(t, dump)},
		{name: "lz4 raw", input: lz4Compress(t, capture), raw: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ReadInput(bytes.NewReader(test.input), test.raw)
			if err != nil {
				t.Fatalf("ReadInput: %v", err)
			}
			if !bytes.Equal(got, capture) {
				t.Errorf("ReadInput = % x, want % x", got, capture)
			}
		})
	}
}

func TestDecompressCorruptFrame(t *testing.T) {
	corrupt := append(bytes.Clone(zstdMagic), 0xff, 0xff, 0xff, 0xff)
	if _, err := Decompress(corrupt); err == nil {
		t.Error("Decompress accepted a corrupt zstd frame")
	}
}

func TestLoadMappingsPrecedence(t *testing.T) {
	directory := t.TempDir()
	first := filepath.Join(directory, "first.map")
	second := filepath.Join(directory, "second.map")
	if err := os.WriteFile(first, []byte("0x1 = \"FromFirst\"\n0x2 = Two\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(second, []byte("1: FromSecond\n3 Three\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	missing := filepath.Join(directory, "missing.map")

	registry, warnings, err := LoadMappings(
		[]string{first, missing, second},
		[]string{"0x3=FromFlag"},
		slog.New(slog.DiscardHandler),
	)
	if err != nil {
		t.Fatalf("LoadMappings: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for the missing file", warnings)
	}
	for id, want := range map[uint64]string{1: "FromSecond", 2: "Two", 3: "FromFlag"} {
		if got, _ := registry.Lookup(id); got != want {
			t.Errorf("Lookup(%d) = %q, want %q", id, got, want)
		}
	}

	if _, _, err := LoadMappings(nil, []string{"nonsense"}, nil); err == nil {
		t.Error("LoadMappings accepted an invalid inline mapping")
	}
}
