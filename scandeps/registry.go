// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

// ErrRegistryFull is returned when a path can't be added to a Registry.
var ErrRegistryFull = errors.New("registry full")

// PathEntry is a path given as input, kept as is.
type PathEntry struct {
	Path string
}

// Len returns length of the path.
func (e PathEntry) Len() int {
	return len(e.Path)
}

func (e PathEntry) String() string {
	return e.Path
}

// Registry holds known paths in the order they were added.
// Entries are never removed.
type Registry struct {
	limit   int
	entries []PathEntry
}

// NewRegistry creates a registry holding at most limit paths.
// limit <= 0 means no limit.
func NewRegistry(limit int) *Registry {
	return &Registry{limit: limit}
}

// Add adds path to the registry.
// The same path may be added more than once.
func (r *Registry) Add(path string) (PathEntry, error) {
	if r.limit > 0 && len(r.entries) >= r.limit {
		return PathEntry{}, fmt.Errorf("can't add %q to %d paths: %w", path, len(r.entries), ErrRegistryFull)
	}
	e := PathEntry{Path: path}
	r.entries = append(r.entries, e)
	return e, nil
}

// Len returns the number of paths in the registry.
func (r *Registry) Len() int {
	return len(r.entries)
}

// All iterates over all paths, most recently added first.
func (r *Registry) All() iter.Seq[PathEntry] {
	return func(yield func(PathEntry) bool) {
		for i := len(r.entries) - 1; i >= 0; i-- {
			if !yield(r.entries[i]) {
				return
			}
		}
	}
}

// Declared iterates over all paths in the order they were added.
func (r *Registry) Declared() iter.Seq[PathEntry] {
	return slices.Values(r.entries)
}
