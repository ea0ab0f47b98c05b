// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package stringid

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RenderArtifact renders the registry as C++ initializer entries, one
// per line in registry order:
//
//	{ 994927812739401904ull, "SomeTypeName" },
//	{ 1234ull, "Other" }
//
// The last entry has no trailing separator. An empty registry renders
// as the empty string.
func RenderArtifact(registry *Registry) string {
	entries := registry.Entries()
	if len(entries) == 0 {
		return ""
	}
	var builder strings.Builder
	for index, entry := range entries {
		if index > 0 {
			builder.WriteString(",\n")
		}
		builder.WriteString("{ ")
		builder.WriteString(strconv.FormatUint(entry.ID, 10))
		builder.WriteString(`ull, "`)
		builder.WriteString(entry.Name)
		builder.WriteString(`" }`)
	}
	return builder.String()
}

// WriteIfChanged writes content to path unless the file already holds
// exactly those bytes. It reports whether a write happened. Parent
// directories are created as needed. The decision is logged at info.
func WriteIfChanged(path string, content []byte, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			logger.Info("artifact up to date, skipping write", "path", path)
			return false, nil
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, fmt.Errorf("reading existing artifact %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating artifact directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("writing artifact %s: %w", path, err)
	}
	logger.Info("artifact updated", "path", path, "bytes", len(content))
	return true, nil
}
