// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT
package command

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/config"
	"github.com/staranto/invctl/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	// The arg[1] immediately following the binary (arg[0]) is the invctl
	// subcommand and also represents the namespace key to be used when retrieving
	// config values. arg[1] could be -h/--help, so ignore it if it appears to be
	// a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}

	cfg, _ := config.Load(ns)
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	// The arg following the command is the snapshot file unless it looks like a
	// flag. A lone "-" is stdin.
	if len(args) > 2 && (args[2] == "-" || !strings.HasPrefix(args[2], "-")) {
		meta.File = args[2]
	}
	log.Debugf("meta: ns=%s file=%s cfg=%s", ns, meta.File, cfg.Source)

	app := &cli.Command{
		Name:  "invctl",
		Usage: "Inventory Control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "invctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		BrowseCommandBuilder(app, meta),
		DiffCommandBuilder(app, meta),
		ExportCommandBuilder(app, meta),
		LsCommandBuilder(app, meta),
		SummaryCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
