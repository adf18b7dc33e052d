// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package help provides help subcommand.
package help

import (
	"fmt"

	"github.com/maruel/subcommands"
)

// Cmd returns the Command for the `help` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "help [<command>]",
		ShortDesc: "prints help about a command",
		LongDesc:  "Prints commands, or help about a specific command.",
		CommandRun: func() subcommands.CommandRun {
			return &helpCmdRun{}
		},
	}
}

type helpCmdRun struct {
	subcommands.CommandRunBase
}

func (h *helpCmdRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	// For top-level help, print subcommands.Usage and how files
	// are passed without command.
	if len(args) == 0 {
		subcommands.Usage(a.GetOut(), a, true)
		fmt.Fprintf(a.GetOut(), "Pass <command> as --cmd=<command>. Without it, all arguments are files for %q.\n", "deps")
		return 0
	}

	// Use default subcommands.CmdHelp for all other cases.
	helpInit := subcommands.CmdHelp.CommandRun()
	return helpInit.Run(a, args, env)
}
