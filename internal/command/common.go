// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/loader"
	"github.com/staranto/invctl/internal/meta"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/snapshot"
)

// DefaultColumns are shown when neither --columns nor the config names any.
var DefaultColumns = []string{
	"resourceType:type",
	"tags.Name:name",
	"region",
	"accountId:account",
	"status::status",
	"createdAt:created:date",
}

// ErrNoSnapshot is returned when no snapshot file was named.
var ErrNoSnapshot = errors.New("no snapshot file given, pass one or set --file/INVCTL_FILE")

// ShortCircuitTLDR checks the --tldr flag and, if present and available,
// runs `tldr invctl <subcmd>` and returns true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if cmd.Bool("tldr") {
		if _, err := exec.LookPath("tldr"); err == nil {
			c := exec.CommandContext(ctx, "tldr", "invctl", subcmd)
			c.Stdout = os.Stdout
			c.Stderr = os.Stderr
			_ = c.Run()
		}
		return true
	}
	return false
}

// BuildColumns constructs a column list with defaults and optional extras from
// --columns, then applies the global transform spec.
func BuildColumns(cmd *cli.Command, defaults ...string) (columns.List, error) {
	specs := append([]string{}, defaults...)
	if extras := cmd.String("columns"); extras != "" {
		specs = append(specs, extras)
	}
	return columns.Parse(specs...)
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// SnapshotPath resolves the snapshot to read: the first positional argument,
// then --file, then whatever InitApp saw on the command line.
func SnapshotPath(cmd *cli.Command) (string, error) {
	if p := cmd.Args().First(); p != "" {
		return p, nil
	}
	if p := cmd.String("file"); p != "" {
		return p, nil
	}
	if p := GetMeta(cmd).File; p != "" {
		return p, nil
	}
	return "", ErrNoSnapshot
}

// LoadSnapshot reads the snapshot at path using the loader flags of cmd. path
// may name a snapshot directory, see snapshot.Resolve. Dotted keys in cols are
// drilled out of every record.
func LoadSnapshot(ctx context.Context, cmd *cli.Command, path string, cols columns.List) ([]*record.Record, error) {
	path, err := snapshot.Resolve(path)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, path, loader.Options{
		Format:      cmd.String("input"),
		Parent:      cmd.String("parent"),
		Columns:     cols,
		SkipMetrics: true,
	})
}

// writer is where a command emits its results.
func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// CommandBuilder is a helper that constructs a cli.Command for the record
// subcommands using a consistent pattern. The builder wires metadata, adds
// the tldr/examples flags, applies global flags, and sets up validators.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Examples  [][2]string
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: append(cb.Flags, append([]cli.Flag{
			tldrFlag,
			examplesFlag,
		}, NewGlobalFlags(cb.Name)...)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if ShortCircuitTLDR(ctx, c, cb.Name) {
				return nil
			}
			if c.Bool("examples") {
				output.DumpExamples(writer(c), cb.Examples)
				return nil
			}
			return cb.Action(ctx, c)
		},
	}
}

// RecordActionRunner encapsulates the common action pattern of the record
// subcommands: resolve columns, load the snapshot and hand the records to
// Emit.
type RecordActionRunner struct {
	CommandName    string
	DefaultColumns []string
	Emit           func(context.Context, *cli.Command, []*record.Record, columns.List) error
}

// Run executes the action with the provided context and command.
func (r *RecordActionRunner) Run(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	cols, err := BuildColumns(cmd, r.DefaultColumns...)
	if err != nil {
		return err
	}
	log.Debugf("columns: %s", cols.String())

	path, err := SnapshotPath(cmd)
	if err != nil {
		return err
	}

	records, err := LoadSnapshot(ctx, cmd, path, cols)
	if err != nil {
		return err
	}

	return r.Emit(ctx, cmd, records, cols)
}
