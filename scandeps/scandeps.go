// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/itmm/gendeps/o11y/clog"
)

// ErrCannotOpen is returned when a file to scan can't be opened.
var ErrCannotOpen = errors.New("cannot open")

// FS opens files to scan.
type FS interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DepsWriter receives a deps line for each scanned file.
type DepsWriter interface {
	Target(target string) error
	Input(input string) error
	End() error
}

// Option is an option for Scanner.
type Option struct {
	// MaxNameLen is the maximum length of an include name.
	// Default to DefaultMaxNameLen.
	MaxNameLen int
}

// Scanner scans files for local includes and resolves them
// against a Registry.
type Scanner struct {
	paths      *Registry
	maxNameLen int
}

// New creates a new Scanner resolving includes against paths.
// paths must not be modified while scanning.
func New(paths *Registry, opt Option) *Scanner {
	maxNameLen := opt.MaxNameLen
	if maxNameLen <= 0 {
		maxNameLen = DefaultMaxNameLen
	}
	return &Scanner{
		paths:      paths,
		maxNameLen: maxNameLen,
	}
}

// Scan scans the file of entry in fsys and writes its deps line,
// `<path>: <match> ...`, to w.
// On error, a partial line may have been written.
func (s *Scanner) Scan(ctx context.Context, fsys FS, entry PathEntry, w DepsWriter) error {
	started := time.Now()
	r, err := fsys.Open(ctx, entry.Path)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrCannotOpen, entry.Path, err)
	}
	defer r.Close()

	err = w.Target(entry.Path)
	if err != nil {
		return err
	}
	n := 0
	err = s.ScanIncludes(ctx, r, func(name string) error {
		n++
		for _, p := range s.Resolve(ctx, name) {
			err := w.Input(p)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if clog.V(ctx) {
		clog.Debugf(ctx, "scan %s: %d includes in %s", entry.Path, n, time.Since(started))
	}
	return w.End()
}

// ScanIncludes calls fn with each include name found in r, in order.
// It stops at the first error returned by fn.
func (s *Scanner) ScanIncludes(ctx context.Context, r io.Reader, fn func(name string) error) error {
	return scanIncludes(r, s.maxNameLen, fn)
}

// Resolve returns the registered paths matching name, most recently
// added first. It warns if no path or more than one path matches.
func (s *Scanner) Resolve(ctx context.Context, name string) []string {
	var paths []string
	for e := range s.paths.All() {
		if !HasSuffix(e.Path, name) {
			continue
		}
		paths = append(paths, e.Path)
		if len(paths) == 2 {
			clog.Warningf(ctx, "multiple sources found for %q", name)
		}
	}
	if len(paths) == 0 {
		clog.Warningf(ctx, "no file for %q found", name)
	}
	if clog.V(ctx) {
		clog.Debugf(ctx, "include %q -> %q", name, paths)
	}
	return paths
}
