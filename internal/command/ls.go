// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/meta"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
)

var lsExamples = [][2]string{
	{"invctl ls inventory.json", "list every resource with the default columns"},
	{"invctl ls inventory.json -s=-createdAt -t", "newest first, with titles"},
	{"invctl ls inventory.json -f resourceType=EC2Instance,status!=terminated", "live EC2 instances"},
	{"invctl ls inventory.json -a instanceType,tags.env:env -o csv", "extra columns as csv"},
}

// LsCommandAction is the action handler for the "ls" subcommand. It filters
// and sorts the snapshot and emits it per the common output flags.
func LsCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &RecordActionRunner{
		CommandName:    "ls",
		DefaultColumns: DefaultColumns,
		Emit: func(ctx context.Context, cmd *cli.Command, records []*record.Record, cols columns.List) error {
			return output.SliceDiceSpit(records, cols, output.ViewFromCommand(cmd), writer(cmd))
		},
	}
	return runner.Run(ctx, cmd)
}

// LsCommandBuilder constructs the cli.Command for "ls", wiring metadata,
// flags, and action/validator handlers.
func LsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "ls",
		Usage:     "list inventory records",
		UsageText: `invctl ls FILE [options]`,
		Examples:  lsExamples,
		Action:    LsCommandAction,
		Meta:      meta,
	}).Build()
}
