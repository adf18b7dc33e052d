// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package osfs provides OS Filesystem access.
package osfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/itmm/gendeps/o11y/clog"
)

// OSFS provides OS Filesystem access relative to a directory.
// It counts I/O operations and bytes.
type OSFS struct {
	dir string

	opens    atomic.Int64
	openErrs atomic.Int64
	rBytes   atomic.Int64
	rErrs    atomic.Int64
	wBytes   atomic.Int64
	wErrs    atomic.Int64
}

// Stats holds I/O counters of OSFS.
type Stats struct {
	// Number of opened or created files.
	Opens int64
	// Number of open or create errors.
	OpenErrs int64

	// Number of read bytes.
	RBytes int64
	// Number of read errors.
	RErrs int64

	// Number of written bytes.
	WBytes int64
	// Number of write errors.
	WErrs int64
}

// New creates new OSFS that resolves relative names in dir.
// Empty dir means the current directory.
func New(dir string) *OSFS {
	return &OSFS{dir: dir}
}

// Path returns the OS path for name.
func (fs *OSFS) Path(name string) string {
	if fs.dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fs.dir, name)
}

func logSlow(ctx context.Context, name string, dur time.Duration, err error) {
	buf := make([]byte, 4*1024)
	n := runtime.Stack(buf, false)
	clog.Warningf(ctx, "slow op %s: %s %v\n%s", name, dur, err, buf[:n])
}

func (fs *OSFS) openDone(err error) {
	fs.opens.Add(1)
	if err != nil {
		fs.openErrs.Add(1)
	}
}

func (fs *OSFS) readDone(n int, err error) {
	fs.rBytes.Add(int64(n))
	if err != nil && err != io.EOF {
		fs.rErrs.Add(1)
	}
}

func (fs *OSFS) writeDone(n int, err error) {
	fs.wBytes.Add(int64(n))
	if err != nil {
		fs.wErrs.Add(1)
	}
}

// Stats returns the snapshot of the I/O counters.
func (fs *OSFS) Stats() Stats {
	return Stats{
		Opens:    fs.opens.Load(),
		OpenErrs: fs.openErrs.Load(),
		RBytes:   fs.rBytes.Load(),
		RErrs:    fs.rErrs.Load(),
		WBytes:   fs.wBytes.Load(),
		WErrs:    fs.wErrs.Load(),
	}
}

// Open opens the named file for reading.
func (fs *OSFS) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	started := time.Now()
	f, err := os.Open(fs.Path(name))
	fs.openDone(err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	if err != nil {
		return nil, err
	}
	return &file{ctx: ctx, file: f, started: started, fs: fs}, nil
}

// Create creates or truncates the named file for writing.
func (fs *OSFS) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	started := time.Now()
	f, err := os.Create(fs.Path(name))
	fs.openDone(err)
	if dur := time.Since(started); dur > 1*time.Minute {
		logSlow(ctx, name, dur, err)
	}
	if err != nil {
		return nil, err
	}
	return &file{ctx: ctx, file: f, started: started, fs: fs}, nil
}

type file struct {
	ctx     context.Context
	file    *os.File
	started time.Time
	fs      *OSFS
}

func (f *file) Read(buf []byte) (int, error) {
	n, err := f.file.Read(buf)
	f.fs.readDone(n, err)
	return n, err
}

func (f *file) Write(buf []byte) (int, error) {
	n, err := f.file.Write(buf)
	f.fs.writeDone(n, err)
	return n, err
}

func (f *file) Close() error {
	name := f.file.Name()
	err := f.file.Close()
	if dur := time.Since(f.started); dur > 1*time.Minute {
		logSlow(f.ctx, name, dur, err)
	}
	return err
}
