// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/differ"
	"github.com/staranto/invctl/internal/meta"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/snapshot"
)

var diffExamples = [][2]string{
	{"invctl diff monday.json tuesday.json", "what was added, removed or changed"},
	{"invctl diff snapshots/", "the two newest snapshots in a directory"},
	{"invctl diff monday.json tuesday.json -f change=changed --verbose", "changed records with their deltas"},
	{"invctl diff old.json new.json --key instanceId --ignore lastUpdated,tags", "match on instance id, ignoring noisy fields"},
}

// DiffCommandAction is the action handler for the "diff" subcommand. It
// compares two snapshots record by record.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	var oldPath, newPath string
	switch {
	case cmd.Args().Len() >= 2:
		oldPath, newPath = cmd.Args().Get(0), cmd.Args().Get(1)
	case cmd.Args().Len() == 1 && snapshot.IsDir(cmd.Args().First()):
		var err error
		if oldPath, newPath, err = snapshot.Latest(cmd.Args().First()); err != nil {
			return err
		}
	default:
		return errors.New("diff needs two snapshot files or a snapshot directory")
	}
	log.Debugf("diff %s %s", oldPath, newPath)

	before, err := LoadSnapshot(ctx, cmd, oldPath, nil)
	if err != nil {
		return err
	}
	after, err := LoadSnapshot(ctx, cmd, newPath, nil)
	if err != nil {
		return err
	}

	opts := differ.Options{
		Key:     cmd.String("key"),
		Verbose: cmd.Bool("verbose"),
	}
	if ignore := cmd.String("ignore"); ignore != "" {
		opts.Ignore = strings.Split(ignore, ",")
	}

	res, err := differ.Compare(before, after, opts)
	if err != nil {
		return err
	}
	log.Debugf("diff: +%d -%d ~%d =%d skipped=%d",
		len(res.Added), len(res.Removed), len(res.Changed), res.Unchanged, res.Skipped)

	w := writer(cmd)
	if res.Empty() {
		_, err := fmt.Fprintln(w, "no differences")
		return err
	}

	view := output.ViewFromCommand(cmd)
	if err := output.SliceDiceSpit(res.Records(opts.Key), differ.Columns(), view, w); err != nil {
		return err
	}

	if opts.Verbose {
		// Deltas follow the rows that survived the filter, in display order.
		deltas := make(map[string]string, len(res.Changed))
		for _, c := range res.Changed {
			deltas[c.Key] = c.Delta
		}
		for _, row := range output.Prepare(res.Records(opts.Key), differ.Columns(), view.Filter, view.Sort) {
			if record.GetCell(row, "change").String() != differ.Changed {
				continue
			}
			k := record.GetCell(row, "key").String()
			if _, err := fmt.Fprintf(w, "\n%s\n%s", k, deltas[k]); err != nil {
				return err
			}
		}
	}
	return nil
}

// DiffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and action/validator handlers.
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&CommandBuilder{
		Name:      "diff",
		Usage:     "compare two inventory snapshots",
		UsageText: `invctl diff OLD NEW | DIR [options]`,
		Flags: []cli.Flag{
			NameSpacedValueChainFlagFromConfigFile("diff", meta.Config.Source, &cli.StringFlag{
				Name:    "key",
				Usage:   "field identifying a record",
				Sources: cli.NewValueSourceChain(),
				Value:   differ.DefaultKey,
			}),
			&cli.StringFlag{
				Name:  "ignore",
				Usage: "comma-separated fields left out of the comparison",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("INVCTL_DIFF_IGNORE"),
				),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print a delta for every changed record",
				Value: false,
			},
		},
		Examples: diffExamples,
		Action:   DiffCommandAction,
		Meta:     meta,
	}).Build()
}
