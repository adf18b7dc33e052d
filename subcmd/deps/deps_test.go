// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package deps

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/itmm/gendeps/o11y/clog"
	"github.com/itmm/gendeps/scandeps"
	"github.com/itmm/gendeps/toolsupport/makeutil"
)

func setupFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for fname, content := range files {
		fname := filepath.Join(dir, fname)
		err := os.MkdirAll(filepath.Dir(fname), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(fname, []byte(content), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newRun(t *testing.T, flags ...string) *run {
	t.Helper()
	c := &run{}
	c.init()
	c.Flags.SetOutput(io.Discard)
	err := c.Flags.Parse(flags)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRun(t *testing.T) {
	dir := setupFiles(t, map[string]string{
		"a.h":     "",
		"main.c":  "#include \"a.h\"\n",
		"lib/a.h": "",
		"lib/b.h": "#include <stdio.h>\n#include \"a.h\"\n#include \"missing.h\"\n",
	})
	var logBuf bytes.Buffer
	ctx := clog.NewContext(context.Background(), clog.New(&logBuf))

	c := newRun(t, "-C", dir)
	var out bytes.Buffer
	err := c.run(ctx, []string{"a.h", "main.c", "lib/a.h", "lib/b.h"}, &out)
	if err != nil {
		t.Fatalf("run=%v; want nil err", err)
	}
	want := `a.h:
main.c: lib/a.h a.h
lib/a.h:
lib/b.h: lib/a.h a.h
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output diff -want +got:\n%s", diff)
	}
	wantRules := []makeutil.Rule{
		{Target: "a.h"},
		{Target: "main.c", Inputs: []string{"lib/a.h", "a.h"}},
		{Target: "lib/a.h"},
		{Target: "lib/b.h", Inputs: []string{"lib/a.h", "a.h"}},
	}
	if diff := cmp.Diff(wantRules, makeutil.ParseRules(out.Bytes())); diff != "" {
		t.Errorf("ParseRules(output) diff -want +got:\n%s", diff)
	}

	logs := logBuf.String()
	for _, w := range []string{
		`warn `,
		`multiple sources found for "a.h"`,
		`no file for "missing.h" found`,
	} {
		if !strings.Contains(logs, w) {
			t.Errorf("logs=%q; want %q", logs, w)
		}
	}
}

func TestRunOutput(t *testing.T) {
	dir := setupFiles(t, map[string]string{
		"a.h":    "",
		"main.c": "#include \"a.h\"\n",
	})
	ctx := clog.NewContext(context.Background(), clog.New(io.Discard))

	c := newRun(t, "-C", dir, "-o", "deps.d")
	var out bytes.Buffer
	err := c.run(ctx, []string{"a.h", "main.c"}, &out)
	if err != nil {
		t.Fatalf("run=%v; want nil err", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout=%q; want empty", out.String())
	}
	b, err := os.ReadFile(filepath.Join(dir, "deps.d"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), "a.h:\nmain.c: a.h\n"; got != want {
		t.Errorf("deps.d=%q; want %q", got, want)
	}
}

func TestRunFatal(t *testing.T) {
	dir := setupFiles(t, map[string]string{
		"a.h":    "",
		"bad.c":  "#include \"a.h\"\n#include   \"missing_quote.h",
		"main.c": "#include \"a.h\"\n",
		"long.c": "#include \"" + strings.Repeat("x", 65) + "\"\n",
	})
	for _, tc := range []struct {
		name    string
		flags   []string
		args    []string
		want    string
		wantErr error
	}{
		{
			name:    "invalid",
			args:    []string{"a.h", "bad.c", "main.c"},
			want:    "a.h:\nbad.c: a.h",
			wantErr: scandeps.ErrInvalidInclude,
		},
		{
			name:    "toolong",
			args:    []string{"long.c", "a.h"},
			want:    "long.c:",
			wantErr: scandeps.ErrNameTooLong,
		},
		{
			name:    "cannotopen",
			args:    []string{"a.h", "missing.c"},
			want:    "a.h:\n",
			wantErr: scandeps.ErrCannotOpen,
		},
		{
			name:    "registryfull",
			flags:   []string{"-max_paths", "2"},
			args:    []string{"a.h", "main.c", "bad.c"},
			wantErr: scandeps.ErrRegistryFull,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			ctx := clog.NewContext(context.Background(), clog.New(&logBuf))
			c := newRun(t, append([]string{"-C", dir}, tc.flags...)...)
			var out bytes.Buffer
			err := c.run(ctx, tc.args, &out)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("run=%v; want %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.want, out.String()); diff != "" {
				t.Errorf("output diff -want +got:\n%s", diff)
			}
			if got := exitCode(ctx, err); got != ExitFatal {
				t.Errorf("exitCode(ctx, %v)=%d; want %d", err, got, ExitFatal)
			}
			if !strings.HasPrefix(logBuf.String(), "ERROR ") {
				t.Errorf("logs=%q; want ERROR", logBuf.String())
			}
		})
	}
}

func TestRunMaxNameLen(t *testing.T) {
	name := strings.Repeat("x", 65) + ".h"
	dir := setupFiles(t, map[string]string{
		name:     "",
		"main.c": "#include \"" + name + "\"\n",
	})
	ctx := clog.NewContext(context.Background(), clog.New(io.Discard))
	c := newRun(t, "-C", dir, "-max_name_len", "80")
	var out bytes.Buffer
	err := c.run(ctx, []string{name, "main.c"}, &out)
	if err != nil {
		t.Fatalf("run=%v; want nil err", err)
	}
	if got, want := out.String(), name+":\nmain.c: "+name+"\n"; got != want {
		t.Errorf("output=%q; want %q", got, want)
	}

	c = newRun(t, "-max_name_len", "0")
	err = c.run(ctx, []string{"main.c"}, &out)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("run with -max_name_len=0: %v; want %v", err, flag.ErrHelp)
	}
}

func TestRunHugeMaxNameLen(t *testing.T) {
	dir := setupFiles(t, map[string]string{
		"a.h":    "",
		"main.c": "#include \"a.h\"\n",
	})
	ctx := clog.NewContext(context.Background(), clog.New(io.Discard))
	c := newRun(t, "-C", dir, "-max_name_len", "4611686018427387904")
	var out bytes.Buffer
	err := c.run(ctx, []string{"a.h", "main.c"}, &out)
	if err != nil {
		t.Fatalf("run=%v; want nil err", err)
	}
	if got, want := out.String(), "a.h:\nmain.c: a.h\n"; got != want {
		t.Errorf("output=%q; want %q", got, want)
	}
}

func TestExitCode(t *testing.T) {
	ctx := clog.NewContext(context.Background(), clog.New(io.Discard))
	for _, tc := range []struct {
		name string
		err  error
		want int
	}{
		{name: "ok", want: 0},
		{name: "fatal", err: fatalError{err: scandeps.ErrInvalidInclude}, want: ExitFatal},
		{name: "other", err: errors.New("permission denied"), want: 1},
	} {
		if got := exitCode(ctx, tc.err); got != tc.want {
			t.Errorf("%s: exitCode(ctx, %v)=%d; want %d", tc.name, tc.err, got, tc.want)
		}
	}
}
