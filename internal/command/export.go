// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/meta"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
)

var exportExamples = [][2]string{
	{"invctl export inventory.json --format csv --out inventory.csv", "the whole snapshot as csv"},
	{"invctl export inventory.json -f region=eu-west-1 --format yaml", "one region as yaml on stdout"},
}

// createFile opens --out for writing. Tests swap it out.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// ExportCommandAction is the action handler for the "export" subcommand. It
// writes what the browser's export key would write for the same view.
func ExportCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &RecordActionRunner{
		CommandName:    "export",
		DefaultColumns: DefaultColumns,
		Emit: func(ctx context.Context, cmd *cli.Command, records []*record.Record, cols columns.List) (err error) {
			prepared := output.Prepare(records, cols, cmd.String("filter"), cmd.String("sort"))

			out := cmd.String("out")
			if out == "" || out == "-" {
				return output.Export(prepared, cols, cmd.String("format"), writer(cmd))
			}

			f, err := createFile(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			defer func() {
				if cerr := f.Close(); err == nil && cerr != nil {
					err = fmt.Errorf("failed to write %s: %w", out, cerr)
				}
			}()
			log.Debugf("exporting %d records to %s", len(prepared), out)

			return output.Export(prepared, cols, cmd.String("format"), f)
		},
	}
	return runner.Run(ctx, cmd)
}

// ExportCommandBuilder constructs the cli.Command for "export", wiring
// metadata, flags, and action/validator handlers.
func ExportCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "export",
		Usage:     "export inventory records",
		UsageText: `invctl export FILE --format csv|json|yaml [--out path] [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "export format",
				Value: "csv",
				Validator: func(value string) error {
					return FlagValidators(value, ExportFormatValidator)
				},
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "file to write, stdout when empty or -",
			},
		},
		Examples: exportExamples,
		Action:   ExportCommandAction,
		Meta:     meta,
	}).Build()
}
