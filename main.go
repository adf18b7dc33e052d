// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Gendeps generates make compatible dependencies for local #include
// directives in the given files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"github.com/itmm/gendeps/o11y/clog"
	"github.com/itmm/gendeps/subcmd/deps"
	"github.com/itmm/gendeps/subcmd/help"
	"github.com/itmm/gendeps/subcmd/version"
)

const gendepsVersion = "gendeps v1.0.0"

const usage = `Syntax: gendeps [-h|--help|<file>...]

Generates make compatible dependencies for local #include directives
in the given files. Each file is printed with the given files its
#include "name" lines refer to:

 <file>: <dep>...

Every argument is a file, unless the first argument is --cmd=<command>:

 gendeps --cmd=deps [flags] <file>...
 gendeps --cmd=help [<command>]
 gendeps --cmd=version
`

func main() {
	os.Exit(gendepsMain(os.Args[1:]))
}

func gendepsMain(args []string) int {
	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			fmt.Fprintf(os.Stderr, "panic: %v\n%s", r, buf)
			os.Exit(2)
		}
	}()

	app := getApplication()
	if len(args) == 0 || wantHelp(args) {
		printUsage(os.Stdout, app)
		return 0
	}
	return subcommands.Run(app, commandArgs(args))
}

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "gendeps",
		Title: "generate make compatible dependencies for local #include directives",
		Context: func(ctx context.Context) context.Context {
			return clog.NewContext(ctx, clog.New(os.Stderr))
		},
		Commands: []*subcommands.Command{
			deps.Cmd(),
			help.Cmd(),
			version.Cmd(gendepsVersion),
		},
	}
}

// wantHelp reports whether args has -h or --help anywhere.
func wantHelp(args []string) bool {
	return slices.Contains(args, "-h") || slices.Contains(args, "--help")
}

// cmdPrefix marks the first argument as a command name.
const cmdPrefix = "--cmd="

// commandArgs returns args for subcommands.Run.
// Unless args starts with cmdPrefix, all args are files
// for the deps command.
func commandArgs(args []string) []string {
	if name, ok := strings.CutPrefix(args[0], cmdPrefix); ok {
		return append([]string{name}, args[1:]...)
	}
	return append([]string{"deps", "--"}, args...)
}

func printUsage(w io.Writer, app subcommands.Application) {
	fmt.Fprint(w, usage)
	fmt.Fprintln(w)
	subcommands.Usage(w, app, false)
}
