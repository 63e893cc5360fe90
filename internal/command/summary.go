// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/meta"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/summary"
)

var summaryExamples = [][2]string{
	{"invctl summary inventory.json", "counts by type, account, region and status"},
	{"invctl summary inventory.json -f group=type -s=-count", "resource types, most common first"},
	{"invctl summary inventory.json -o json --top 3", "the summary document with the top 3 accounts and regions"},
}

// SummaryCommandAction is the action handler for the "summary" subcommand.
// json and yaml emit the summary document itself; the other formats emit it
// flattened into group/key/name/count rows.
func SummaryCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &RecordActionRunner{
		CommandName: "summary",
		Emit: func(ctx context.Context, cmd *cli.Command, records []*record.Record, _ columns.List) error {
			s := summary.Calculate(records, int(cmd.Int("top")))
			w := writer(cmd)

			switch view := output.ViewFromCommand(cmd); view.Output {
			case "json":
				b, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal summary: %w", err)
				}
				_, err = fmt.Fprintln(w, string(b))
				return err
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(s); err != nil {
					return fmt.Errorf("failed to marshal summary: %w", err)
				}
				return enc.Close()
			default:
				return output.SliceDiceSpit(s.Records(), summary.Columns(), view, w)
			}
		},
	}
	return runner.Run(ctx, cmd)
}

// SummaryCommandBuilder constructs the cli.Command for "summary", wiring
// metadata, flags, and action/validator handlers.
func SummaryCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "summary",
		Usage:     "inventory metrics summary",
		UsageText: `invctl summary FILE [options]`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "accounts and regions to list",
				Value: summary.DefaultTop,
			},
		},
		Examples: summaryExamples,
		Action:   SummaryCommandAction,
		Meta:     meta,
	}).Build()
}
