// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package scandeps

import "strings"

// HasSuffix reports whether path ends with name at a path component
// boundary, i.e. name is the whole path or preceded by '/'.
// It compares bytes as is; "./" or "//" are not cleaned.
func HasSuffix(path, name string) bool {
	if !strings.HasSuffix(path, name) {
		return false
	}
	i := len(path) - len(name)
	return i == 0 || path[i-1] == '/'
}
