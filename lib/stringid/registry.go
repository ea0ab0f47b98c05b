// Copyright 2026 The Portal Authors
// SPDX-License-Identifier: Apache-2.0

package stringid

import "fmt"

// Entry is one interned identifier.
type Entry struct {
	ID   uint64
	Name string
}

// Registry is an ordered table from identifier hash to source string.
// Entries keep the position of their first insertion. A nil *Registry
// is an empty table for lookups.
type Registry struct {
	entries []Entry
	index   map[uint64]int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{index: make(map[uint64]int)}
}

// Add inserts id → name at the end of the table. Adding an id that is
// already present with the same name is a no-op and returns false; a
// different name is a [*CollisionError] and the table is unchanged.
func (r *Registry) Add(id uint64, name string) (bool, error) {
	if position, exists := r.index[id]; exists {
		if existing := r.entries[position].Name; existing != name {
			return false, &CollisionError{ID: id, Existing: existing, Incoming: name}
		}
		return false, nil
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, Entry{ID: id, Name: name})
	return true, nil
}

// Set inserts or replaces the name for id. A replaced entry keeps its
// position. Used for mapping files, where later entries win.
func (r *Registry) Set(id uint64, name string) {
	if position, exists := r.index[id]; exists {
		r.entries[position].Name = name
		return
	}
	r.index[id] = len(r.entries)
	r.entries = append(r.entries, Entry{ID: id, Name: name})
}

// Merge sets every entry of other into r, in other's order.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for _, entry := range other.entries {
		r.Set(entry.ID, entry.Name)
	}
}

// Lookup returns the name interned as id.
func (r *Registry) Lookup(id uint64) (string, bool) {
	if r == nil {
		return "", false
	}
	position, ok := r.index[id]
	if !ok {
		return "", false
	}
	return r.entries[position].Name, true
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Entries returns a copy of the table in insertion order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// CollisionError reports two different strings with the same hash.
// This is a failure of the hash function for the corpus, not something
// the registry can represent.
type CollisionError struct {
	ID       uint64
	Existing string
	Incoming string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("identifier hash collision: %q and %q both hash to %d (0x%016x)",
		e.Existing, e.Incoming, e.ID, e.ID)
}
