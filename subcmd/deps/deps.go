// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package deps is deps subcommand to generate make compatible
// dependencies for local #include directives.
package deps

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"github.com/itmm/gendeps/o11y/clog"
	"github.com/itmm/gendeps/osfs"
	"github.com/itmm/gendeps/scandeps"
	"github.com/itmm/gendeps/toolsupport/makeutil"
)

// ExitFatal is the exit code when a file can't be registered or scanned.
const ExitFatal = 10

const usage = `generate make compatible dependencies

 $ gendeps --cmd=deps [-C <dir>] [-o <output>] <file>...

For each <file>, it prints a line

 <file>: <dep>...

where each <dep> is one of the given files whose path ends with
the name of a local include of <file>, i.e. ` + "`#include \"name\"`" + `.
A <dep> matches "name" if <dep> is "name", or ends with "/name".

Lines are printed in the order of the files. Warnings are printed
for includes that match no file or more than one file.
`

// Cmd returns the Command for the `deps` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "deps [-C <dir>] [-o <output>] <file>...",
		ShortDesc: "generate deps for local includes (default command)",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	dir        string
	output     string
	maxNameLen int
	maxPaths   int
	verbose    bool
}

func (c *run) init() {
	c.Flags.StringVar(&c.dir, "C", "", "run as if started in this directory. <file> and -o are relative to it")
	c.Flags.StringVar(&c.output, "o", "", "write deps to this file instead of stdout")
	c.Flags.IntVar(&c.maxNameLen, "max_name_len", scandeps.DefaultMaxNameLen, "maximum length of an include name. longer name is an error")
	c.Flags.IntVar(&c.maxPaths, "max_paths", 0, "maximum number of <file>s. 0 means no limit")
	c.Flags.BoolVar(&c.verbose, "v", false, "print debug logs")
}

// fatalError is an error to register or scan a file.
type fatalError struct {
	err error
}

func (e fatalError) Error() string { return e.err.Error() }

func (e fatalError) Unwrap() error { return e.err }

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args, os.Stdout)
	return exitCode(ctx, err)
}

func exitCode(ctx context.Context, err error) int {
	var fe fatalError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &fe):
		clog.Errorf(ctx, "%v", err)
		return ExitFatal
	case errors.Is(err, flag.ErrHelp):
		fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		return 1
	default:
		clog.Errorf(ctx, "%v", err)
		return 1
	}
}

func (c *run) run(ctx context.Context, args []string, stdout io.Writer) (err error) {
	if c.verbose {
		clog.FromContext(ctx).SetLevel(log.DebugLevel)
	}
	if c.maxNameLen <= 0 {
		return fmt.Errorf("-max_name_len=%d must be positive: %w", c.maxNameLen, flag.ErrHelp)
	}
	paths := scandeps.NewRegistry(c.maxPaths)
	for _, arg := range args {
		_, err := paths.Add(arg)
		if err != nil {
			return fatalError{err: fmt.Errorf("can't create node for %q: %w", arg, err)}
		}
	}

	fsys := osfs.New(c.dir)
	out := stdout
	if c.output != "" {
		f, cerr := fsys.Create(ctx, c.output)
		if cerr != nil {
			return cerr
		}
		defer func() {
			cerr := f.Close()
			if err == nil {
				err = cerr
			}
		}()
		out = f
	}
	w := makeutil.NewWriter(out)
	s := scandeps.New(paths, scandeps.Option{MaxNameLen: c.maxNameLen})
	for e := range paths.Declared() {
		err := s.Scan(ctx, fsys, e, w)
		if err != nil {
			// partial output stays as is.
			ferr := w.Flush()
			if ferr != nil {
				clog.Warningf(ctx, "flush: %v", ferr)
			}
			return fatalError{err: fmt.Errorf("errors while parsing %q: %w", e.Path, err)}
		}
	}
	err = w.Flush()
	if err != nil {
		return err
	}
	if clog.V(ctx) {
		st := fsys.Stats()
		clog.Debugf(ctx, "%d files: opens=%d (errs=%d) read=%d bytes write=%d bytes", paths.Len(), st.Opens, st.OpenErrs, st.RBytes, st.WBytes)
	}
	return nil
}
