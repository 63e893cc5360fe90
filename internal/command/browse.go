// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/invctl/internal/browser"
	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/meta"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/tableview"
)

var browseExamples = [][2]string{
	{"invctl browse inventory.json", "browse every resource"},
	{"invctl browse inventory.json -f region=us-east-1 -s name", "browse one region sorted by name"},
	{"invctl browse inventory.json --export-format json", "x exports the current view as json"},
}

// isTerminal is swapped out by tests.
var isTerminal = func(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// BrowseCommandAction is the action handler for the "browse" subcommand. It
// runs the interactive browser, or falls back to ls style text when stdout
// is not a terminal.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &RecordActionRunner{
		CommandName:    "browse",
		DefaultColumns: DefaultColumns,
		Emit: func(ctx context.Context, cmd *cli.Command, records []*record.Record, cols columns.List) error {
			view := output.ViewFromCommand(cmd)

			if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
				log.Debug("not a terminal, falling back to text output")
				view.Output = "text"
				return output.SliceDiceSpit(records, cols, view, writer(cmd))
			}

			path, _ := SnapshotPath(cmd)
			cfg := browserConfig(cmd, records, cols, view)
			cfg.Title = fmt.Sprintf("invctl: %s", path)
			return browser.Run(ctx, cfg, os.Stdin, os.Stdout)
		},
	}
	return runner.Run(ctx, cmd)
}

// browserConfig maps the command's flags onto a browser.Config.
func browserConfig(cmd *cli.Command, records []*record.Record, cols columns.List, view output.View) browser.Config {
	styles := tableview.DefaultStyles()
	if _, ok := os.LookupEnv("NO_COLOR"); ok || (cmd.IsSet("color") && !cmd.Bool("color")) {
		styles = tableview.PlainStyles()
	}

	primary, caseSensitive, rest := output.SplitSort(view.Sort, cols)
	return browser.Config{
		Records:           records,
		Columns:           cols,
		Filter:            view.Filter,
		Sort:              primary,
		SortCaseSensitive: caseSensitive,
		SortRest:          rest,
		ShowActions:       view.ShowActions,
		Styles:            styles,
		Dates:             view.Dates,
		ExportFile:        cmd.String("export-file"),
		ExportFormat:      cmd.String("export-format"),
	}
}

// BrowseCommandBuilder constructs the cli.Command for "browse", wiring
// metadata, flags, and action/validator handlers.
func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "browse",
		Usage:     "interactive inventory browser",
		UsageText: `invctl browse FILE [options]`,
		Flags: []cli.Flag{
			NameSpacedValueChainFlagFromConfigFile("browse", meta.Config.Source, &cli.StringFlag{
				Name:    "export-file",
				Usage:   "file written by the export key",
				Sources: cli.NewValueSourceChain(),
			}),
			NameSpacedValueChainFlagFromConfigFile("browse", meta.Config.Source, &cli.StringFlag{
				Name:    "export-format",
				Usage:   "format written by the export key",
				Sources: cli.NewValueSourceChain(),
				Value:   "csv",
				Validator: func(value string) error {
					return FlagValidators(value, ExportFormatValidator)
				},
			}),
		},
		Examples: browseExamples,
		Action:   BrowseCommandAction,
		Meta:     meta,
	}).Build()
}
