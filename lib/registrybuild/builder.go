// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package registrybuild

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/JonatanNevo/portal-framework/lib/binhash"
	"github.com/JonatanNevo/portal-framework/lib/config"
	"github.com/JonatanNevo/portal-framework/lib/stringid"
)

// Builder scans a source tree and builds the identifier registry.
type Builder struct {
	// Config selects the root, file filters, marker and worker count.
	// Zero-valued fields take the defaults from [config.Default].
	Config config.RegistryConfig

	// Hasher computes identifier hashes. Required.
	Hasher stringid.Hasher

	// Logger receives per-file and per-string diagnostics. Nil
	// discards them.
	Logger *slog.Logger

	// Cache, when set, is consulted and updated during Build. The
	// caller saves it.
	Cache *Cache
}

// Occurrence is one marker string found in a source file.
type Occurrence struct {
	// File is relative to the scan root, with forward slashes.
	File string
	// Line and Column are 1-based. Column counts bytes.
	Line   int
	Column int
	Text   string
}

// Result is the outcome of a build.
type Result struct {
	Registry *stringid.Registry

	// Files lists the scanned source files relative to the root, in
	// scan order.
	Files []string

	// Occurrences counts marker strings found, duplicates included.
	Occurrences int

	// Hashed counts hasher invocations. Cached strings are not hashed.
	Hashed int

	// CachedFiles counts files whose strings came from the cache.
	CachedFiles int

	// Warnings holds every *stringid.SourceIOError and
	// *stringid.ExternalToolError that was skipped, in scan order.
	Warnings []error
}

// markerPattern matches MARKER("literal") with the literal captured.
// The literal cannot contain a double quote.
func markerPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(marker) + `\("([^"]*)"\)`)
}

// fileResult is what one worker produces for one file.
type fileResult struct {
	strings []hashedOccurrence
	cached  bool
	hashed  int
	err     error
}

type hashedOccurrence struct {
	Occurrence
	hash uint64
	err  error
}

// Build scans the tree and returns the registry. The returned error is
// non-nil only for a missing root, a cancelled context, or a
// [*stringid.CollisionError]; everything else is a warning.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	if b.Hasher == nil {
		return nil, errors.New("registry build requires a hasher")
	}
	cfg := b.effectiveConfig()
	logger := b.logger()

	files, walkWarnings, err := collectSources(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("collected source files", "root", cfg.Root, "count", len(files))

	pattern := markerPattern(cfg.Marker)
	results := make([]fileResult, len(files))
	jobs := make(chan int)

	var workers sync.WaitGroup
	for range min(cfg.Workers, max(len(files), 1)) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for index := range jobs {
				results[index] = b.scanFile(ctx, cfg.Root, files[index], pattern)
			}
		}()
	}

feed:
	for index := range files {
		select {
		case jobs <- index:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	workers.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Registry: stringid.New(),
		Files:    files,
		Warnings: walkWarnings,
	}
	for index, file := range results {
		if file.err != nil {
			logger.Warn("skipping unreadable source file", "file", files[index], "error", file.err)
			result.Warnings = append(result.Warnings, file.err)
			continue
		}
		if file.cached {
			result.CachedFiles++
		}
		result.Hashed += file.hashed
		for _, occurrence := range file.strings {
			result.Occurrences++
			if occurrence.err != nil {
				var toolErr *stringid.ExternalToolError
				if errors.As(occurrence.err, &toolErr) {
					logger.Warn("hashing failed, string omitted",
						"file", occurrence.File,
						"line", occurrence.Line,
						"string", occurrence.Text,
						"exit_code", toolErr.ExitCode,
						"stderr", toolErr.Stderr,
					)
				} else {
					logger.Warn("hashing failed, string omitted",
						"file", occurrence.File,
						"line", occurrence.Line,
						"string", occurrence.Text,
						"error", occurrence.err,
					)
				}
				result.Warnings = append(result.Warnings, occurrence.err)
				continue
			}
			if _, err := result.Registry.Add(occurrence.hash, occurrence.Text); err != nil {
				return nil, fmt.Errorf("%s:%d:%d: %w", occurrence.File, occurrence.Line, occurrence.Column, err)
			}
		}
	}

	if b.Cache != nil {
		b.Cache.Retain(files)
	}
	logger.Info("registry built",
		"files", len(files),
		"occurrences", result.Occurrences,
		"entries", result.Registry.Len(),
		"hashed", result.Hashed,
		"cached_files", result.CachedFiles,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// Generate builds the registry and writes the rendered artifact to
// outputPath if its content changed. It reports whether the file was
// written.
func (b *Builder) Generate(ctx context.Context, outputPath string) (*Result, bool, error) {
	result, err := b.Build(ctx)
	if err != nil {
		return nil, false, err
	}
	content := stringid.RenderArtifact(result.Registry)
	written, err := stringid.WriteIfChanged(outputPath, []byte(content), b.logger())
	if err != nil {
		return result, false, err
	}
	return result, written, nil
}

// Check builds the registry and reports whether the artifact at
// outputPath already holds the rendered content. Nothing is written.
func (b *Builder) Check(ctx context.Context, outputPath string) (*Result, bool, error) {
	result, err := b.Build(ctx)
	if err != nil {
		return nil, false, err
	}
	existing, err := os.ReadFile(outputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return result, false, nil
	}
	if err != nil {
		return result, false, fmt.Errorf("reading artifact %s: %w", outputPath, err)
	}
	return result, string(existing) == stringid.RenderArtifact(result.Registry), nil
}

func (b *Builder) effectiveConfig() config.RegistryConfig {
	cfg := b.Config
	defaults := config.Default().Registry
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = defaults.Extensions
	}
	if cfg.ExcludeSuffixes == nil {
		cfg.ExcludeSuffixes = defaults.ExcludeSuffixes
	}
	if cfg.Marker == "" {
		cfg.Marker = defaults.Marker
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

// collectSources walks root in lexical order and returns the source
// files to scan, relative to root with forward slashes. Unreadable
// directories become warnings; a missing root is an error.
func collectSources(cfg config.RegistryConfig, logger *slog.Logger) ([]string, []error, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, nil, &stringid.SourceIOError{Path: cfg.Root, Err: err}
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("source root %s is not a directory", cfg.Root)
	}

	var files []string
	var warnings []error
	err = filepath.WalkDir(cfg.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			warning := &stringid.SourceIOError{Path: path, Err: err}
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			warnings = append(warnings, warning)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !isSource(entry.Name(), cfg) {
			return nil
		}
		relative, err := filepath.Rel(cfg.Root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(relative))
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}
	return files, warnings, nil
}

func isSource(name string, cfg config.RegistryConfig) bool {
	if !slices.Contains(cfg.Extensions, filepath.Ext(name)) {
		return false
	}
	for _, suffix := range cfg.ExcludeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// scanFile extracts and hashes the marker strings of one file.
func (b *Builder) scanFile(ctx context.Context, root, relative string, pattern *regexp.Regexp) fileResult {
	path := filepath.Join(root, filepath.FromSlash(relative))

	content, err := os.ReadFile(path)
	if err != nil {
		return fileResult{err: &stringid.SourceIOError{Path: relative, Err: err}}
	}

	// The digest covers the bytes that were scanned, so a cached entry
	// always matches its occurrences.
	var digest binhash.Digest
	var occurrences []Occurrence
	cached := false
	if b.Cache != nil {
		digest = binhash.HashBytes(content)
		occurrences, cached = b.Cache.lookupFile(relative, digest)
	}
	if !cached {
		occurrences = extract(relative, string(content), pattern)
		if b.Cache != nil {
			b.Cache.storeFile(relative, digest, occurrences)
		}
	}

	result := fileResult{cached: cached, strings: make([]hashedOccurrence, 0, len(occurrences))}
	for _, occurrence := range occurrences {
		if ctx.Err() != nil {
			return result
		}
		hashed := hashedOccurrence{Occurrence: occurrence}
		if hash, ok := b.Cache.lookupHash(occurrence.Text); ok {
			hashed.hash = hash
		} else {
			hashed.hash, hashed.err = b.Hasher.Hash(ctx, occurrence.Text)
			result.hashed++
			if hashed.err == nil {
				b.Cache.storeHash(occurrence.Text, hashed.hash)
			}
		}
		result.strings = append(result.strings, hashed)
	}
	return result
}

// extract returns every marker occurrence in content, in line then
// column order.
func extract(file, content string, pattern *regexp.Regexp) []Occurrence {
	var occurrences []Occurrence
	for lineIndex, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		for _, match := range pattern.FindAllStringSubmatchIndex(line, -1) {
			occurrences = append(occurrences, Occurrence{
				File:   file,
				Line:   lineIndex + 1,
				Column: match[0] + 1,
				Text:   line[match[2]:match[3]],
			})
		}
	}
	return occurrences
}
