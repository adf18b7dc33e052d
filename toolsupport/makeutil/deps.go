// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil provides utilities for make.
package makeutil

import (
	"bytes"
	"strings"
)

// Rule is a make rule without recipe: a target and its inputs.
type Rule struct {
	Target string
	Inputs []string
}

// ParseRules parses deps contents and returns its rules in order.
// Lines without ':' are ignored.
func ParseRules(b []byte) []Rule {
	// deps contents
	// <output>: <input> ...
	// <input> is space separated
	// '\'+newline is space
	// '\'+space is escaped space (not separator)
	var rules []Rule
	for len(b) > 0 {
		var line []byte
		line, b = nextLine(b)
		i := bytes.IndexByte(line, ':')
		if i < 0 {
			continue
		}
		target, _ := nextToken(line[:i])
		rule := Rule{Target: target}
		var token string
		for s := line[i+1:]; len(s) > 0; {
			token, s = nextToken(s)
			if token != "" {
				rule.Inputs = append(rule.Inputs, token)
			}
		}
		rules = append(rules, rule)
	}
	return rules
}

// nextLine returns the first logical line of s, joining lines
// continued by '\'+newline.
func nextLine(s []byte) ([]byte, []byte) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+2 < len(s) && s[i+1] == '\r' && s[i+2] == '\n' {
				i += 2
				continue
			}
			i++
		case '\n':
			return s[:i], s[i+1:]
		}
	}
	return s, nil
}

func isMakeSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// nextToken returns the first word of s and the rest after it.
// '\'+space is a space in the word, '\'+newline separates words,
// and other '\' sequences are kept as is.
func nextToken(s []byte) (string, []byte) {
	var sb strings.Builder
	for len(s) > 0 {
		c := s[0]
		if c == '\\' && len(s) > 1 {
			switch s[1] {
			case ' ':
				sb.WriteByte(' ')
			case '\r', '\n':
				if sb.Len() > 0 {
					return sb.String(), s[2:]
				}
			default:
				sb.Write(s[:2])
			}
			s = s[2:]
			continue
		}
		s = s[1:]
		if isMakeSpace(c) {
			if sb.Len() > 0 {
				return sb.String(), s
			}
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}
