// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/invctl/internal/command"
	"github.com/staranto/invctl/internal/config"
	mylog "github.com/staranto/invctl/internal/log"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version)
			return 0
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands a named argument set. "@name" anywhere after the
// command pulls the list at <command>.<name> from the config file into its
// place; without one, <command>.defaults is used and inserted after the
// snapshot file, if any.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	preamble := make([]string, 2)
	copy(preamble, args[:2])

	// Short-circuit for --help/-h. If help is requested, just keep the preamble
	// and add --help flag.
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return append(preamble, "--help")
		}
	}

	rest := append([]string{}, args[2:]...)

	idx := 0
	if len(rest) > 0 && (rest[0] == "-" || !strings.HasPrefix(rest[0], "-")) && !strings.HasPrefix(rest[0], "@") {
		idx = 1
	}

	// See if there is a @set specified. If so, that becomes the insertion point
	// and the @set entry is removed from args.
	set := "defaults"
	for i, a := range rest {
		if strings.HasPrefix(a, "@") {
			set = a[1:]
			idx = i
			rest = append(rest[:i], rest[i+1:]...)
			break
		}
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	var expanded []string
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}

	out := append(preamble, rest[:idx]...)
	out = append(out, expanded...)
	out = append(out, rest[idx:]...)

	log.Debugf("idx=%d, set=%s, args=%v", idx, set, out)
	return out
}
