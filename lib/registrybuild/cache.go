// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package registrybuild

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/JonatanNevo/portal-framework/lib/binhash"
	"github.com/JonatanNevo/portal-framework/lib/codec"
)

// cacheVersion is bumped when the on-disk layout changes. A cache with
// a different version is discarded.
const cacheVersion = 1

// Cache remembers, between builds, the marker strings of each source
// file (keyed by the file's BLAKE3 digest) and the hash of each string.
// A cache belongs to one hasher and one marker: opening it with either
// changed starts empty. Results are identical with or without a cache.
//
// Cache is safe for concurrent use by the build workers.
type Cache struct {
	path string

	mu    sync.Mutex
	state cacheState
	dirty bool
}

type cacheState struct {
	Version int                   `cbor:"version"`
	Hasher  string                `cbor:"hasher"`
	Marker  string                `cbor:"marker"`
	Files   map[string]cachedFile `cbor:"files"`
	Hashes  map[string]uint64     `cbor:"hashes"`
}

type cachedFile struct {
	Digest  []byte         `cbor:"digest"`
	Strings []cachedString `cbor:"strings"`
}

type cachedString struct {
	Line   int    `cbor:"line"`
	Column int    `cbor:"column"`
	Text   string `cbor:"text"`
}

// OpenCache loads the cache at path for the given hasher and marker.
// A missing file, an unreadable file, or one written for a different
// hasher, marker or layout version yields an empty cache; the reason
// is logged.
func OpenCache(path, hasherName, marker string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache := &Cache{path: path, state: emptyState(hasherName, marker)}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cache
	}
	if err != nil {
		logger.Warn("ignoring unreadable build cache", "path", path, "error", err)
		return cache
	}
	var state cacheState
	if err := codec.Unmarshal(data, &state); err != nil {
		logger.Warn("ignoring corrupt build cache", "path", path, "error", err)
		return cache
	}
	if state.Version != cacheVersion || state.Hasher != hasherName || state.Marker != marker {
		logger.Info("discarding stale build cache",
			"path", path,
			"cached_hasher", state.Hasher,
			"hasher", hasherName,
			"cached_marker", state.Marker,
			"marker", marker,
		)
		cache.dirty = true
		return cache
	}
	if state.Files == nil {
		state.Files = make(map[string]cachedFile)
	}
	if state.Hashes == nil {
		state.Hashes = make(map[string]uint64)
	}
	cache.state = state
	return cache
}

func emptyState(hasherName, marker string) cacheState {
	return cacheState{
		Version: cacheVersion,
		Hasher:  hasherName,
		Marker:  marker,
		Files:   make(map[string]cachedFile),
		Hashes:  make(map[string]uint64),
	}
}

// Len returns the number of cached files and cached string hashes.
func (c *Cache) Len() (files, hashes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Files), len(c.state.Hashes)
}

func (c *Cache) lookupFile(file string, digest binhash.Digest) ([]Occurrence, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.state.Files[file]
	if !ok || !slices.Equal(entry.Digest, digest[:]) {
		return nil, false
	}
	occurrences := make([]Occurrence, len(entry.Strings))
	for index, cached := range entry.Strings {
		occurrences[index] = Occurrence{File: file, Line: cached.Line, Column: cached.Column, Text: cached.Text}
	}
	return occurrences, true
}

func (c *Cache) storeFile(file string, digest binhash.Digest, occurrences []Occurrence) {
	entry := cachedFile{Digest: slices.Clone(digest[:]), Strings: make([]cachedString, len(occurrences))}
	for index, occurrence := range occurrences {
		entry.Strings[index] = cachedString{Line: occurrence.Line, Column: occurrence.Column, Text: occurrence.Text}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Files[file] = entry
	c.dirty = true
}

func (c *Cache) lookupHash(s string) (uint64, bool) {
	if c == nil {
		return 0, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	hash, ok := c.state.Hashes[s]
	return hash, ok
}

func (c *Cache) storeHash(s string, hash uint64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Hashes[s] = hash
	c.dirty = true
}

// Retain drops cached files not in files, and cached hashes for strings
// no retained file contains.
func (c *Cache) Retain(files []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keep := make(map[string]bool, len(files))
	for _, file := range files {
		keep[file] = true
	}
	live := make(map[string]bool)
	for file, entry := range c.state.Files {
		if !keep[file] {
			delete(c.state.Files, file)
			c.dirty = true
			continue
		}
		for _, cached := range entry.Strings {
			live[cached.Text] = true
		}
	}
	for s := range c.state.Hashes {
		if !live[s] {
			delete(c.state.Hashes, s)
			c.dirty = true
		}
	}
}

// Save writes the cache if it changed since it was opened. The file is
// replaced atomically.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data, err := codec.Marshal(c.state)
	if err != nil {
		return fmt.Errorf("encoding build cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating build cache directory: %w", err)
	}
	temporary, err := os.CreateTemp(filepath.Dir(c.path), ".portal-cache-*")
	if err != nil {
		return fmt.Errorf("creating build cache: %w", err)
	}
	defer os.Remove(temporary.Name())
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing build cache: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("writing build cache: %w", err)
	}
	if err := os.Rename(temporary.Name(), c.path); err != nil {
		return fmt.Errorf("replacing build cache: %w", err)
	}
	c.dirty = false
	return nil
}

// Dump returns the CBOR diagnostic notation of the cache file at path.
func Dump(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return codec.Diagnose(data)
}
