// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makeutil

import (
	"bufio"
	"io"
)

// Writer writes deps contents one rule at a time.
//
//	<target>: <input> <input> ...
//
// Names are written as given, without escaping.
// Output is buffered; call Flush when done.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Target starts a new rule for target.
func (w *Writer) Target(target string) error {
	_, err := w.w.WriteString(target)
	if err != nil {
		return err
	}
	return w.w.WriteByte(':')
}

// Input appends input to the current rule.
func (w *Writer) Input(input string) error {
	err := w.w.WriteByte(' ')
	if err != nil {
		return err
	}
	_, err = w.w.WriteString(input)
	return err
}

// End terminates the current rule.
func (w *Writer) End() error {
	return w.w.WriteByte('\n')
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
