// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxNameLen is the default limit of include name length.
const DefaultMaxNameLen = 64

var (
	// ErrNameTooLong is returned when an include name exceeds the limit.
	ErrNameTooLong = errors.New("name too long")

	// ErrInvalidInclude is returned when an include name is not closed
	// by '"' before whitespace or end of file.
	ErrInvalidInclude = errors.New("invalid include statement")
)

const (
	includeToken = "#include"

	eof = -1
)

// includeScanner reads a byte stream with one byte lookahead.
// ch is the current byte, or eof.
type includeScanner struct {
	r   *bufio.Reader
	ch  int
	err error

	maxNameLen int
	name       []byte
}

func newIncludeScanner(r io.Reader, maxNameLen int) *includeScanner {
	s := &includeScanner{
		r:          bufio.NewReader(r),
		maxNameLen: maxNameLen,
		name:       make([]byte, 0, min(maxNameLen, DefaultMaxNameLen)),
	}
	s.next()
	return s
}

func (s *includeScanner) next() {
	b, err := s.r.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		s.ch = eof
		return
	}
	s.ch = int(b)
}

func isSpace(ch int) bool {
	return ch != eof && ch <= ' '
}

// skipSpaces skips whitespaces including newlines and
// returns the number of skipped bytes.
func (s *includeScanner) skipSpaces() int {
	n := 0
	for isSpace(s.ch) {
		n++
		s.next()
	}
	return n
}

// matchToken consumes bytes while they match token.
// On mismatch, the bytes consumed so far are not put back.
func (s *includeScanner) matchToken(token string) bool {
	for i := 0; i < len(token); i++ {
		if s.ch != int(token[i]) {
			return false
		}
		s.next()
	}
	return true
}

// quoted reads a name after the opening '"' and consumes the closing '"'.
func (s *includeScanner) quoted() (string, error) {
	s.name = s.name[:0]
	for s.ch != eof && s.ch != '"' && s.ch > ' ' {
		if len(s.name) == s.maxNameLen {
			return "", fmt.Errorf("name longer than %d bytes: %q...: %w", s.maxNameLen, s.name, ErrNameTooLong)
		}
		s.name = append(s.name, byte(s.ch))
		s.next()
	}
	if s.err != nil {
		return "", s.err
	}
	if s.ch != '"' {
		return "", fmt.Errorf("%w: unterminated name %q", ErrInvalidInclude, s.name)
	}
	s.next()
	return string(s.name), nil
}

// skipLine skips the rest of the line, leaving the newline.
func (s *includeScanner) skipLine() {
	for s.ch != eof && s.ch != '\n' && s.ch != '\r' {
		s.next()
	}
}

// include tries to read `#include "name"` at the current position.
func (s *includeScanner) include() (string, bool, error) {
	if !s.matchToken(includeToken) {
		return "", false, nil
	}
	if s.skipSpaces() == 0 || s.ch != '"' {
		return "", false, nil
	}
	s.next()
	name, err := s.quoted()
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

// scanIncludes calls fn for each include name in r, in order.
func scanIncludes(r io.Reader, maxNameLen int, fn func(name string) error) error {
	s := newIncludeScanner(r, maxNameLen)
	for s.ch != eof {
		s.skipSpaces()
		name, ok, err := s.include()
		if err != nil {
			return err
		}
		if ok {
			err = fn(name)
			if err != nil {
				return err
			}
		}
		s.skipLine()
	}
	return s.err
}
