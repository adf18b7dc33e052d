// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package scandeps provides a simple dependency scanner for local
// includes. It only checks the following form of #include
//
//	#include "foo.h"
//
// with at least one whitespace between `#include` and the quote.
// Angle bracket includes, macros and conditionals are not processed.
//
// An include name is resolved against a Registry of the known file
// paths, not against the filesystem: a path matches if it ends with
// the name at a path separator boundary, e.g. "lib/foo.h" and
// "foo.h" match "foo.h" but "libfoo.h" does not.
//
// Scanning reads the file once, one byte at a time, and always skips
// the rest of the line after a directive or a non-directive token.
// Whitespace includes newlines, so
//
//	#include
//	"foo.h"
//
// is an include of "foo.h".
package scandeps
