// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/invctl/internal/summary"
)

// run builds the app for args and runs it, capturing what it emits. Config
// lookups are pointed at an empty directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	empty := t.TempDir()
	t.Setenv("INVCTL_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", empty)
	t.Setenv("APPDATA", empty)
	t.Setenv("HOME", empty)
	t.Setenv("TZ", "UTC")

	args = append([]string{"invctl"}, args...)
	app, err := InitApp(context.Background(), args)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err = app.Run(context.Background(), args)
	return buf.String(), err
}

func TestLsText(t *testing.T) {
	out, err := run(t, "ls", "-s", "resourceType", "-t", "testdata/inventory.json")
	require.NoError(t, err)

	ebs := strings.Index(out, "EBSVolume")
	ec2 := strings.Index(out, "EC2Instance")
	rds := strings.Index(out, "RDSInstance")
	require.True(t, ebs >= 0 && ec2 >= 0 && rds >= 0, out)
	assert.Less(t, ebs, ec2)
	assert.Less(t, ec2, rds)

	assert.Contains(t, out, "type ▲")
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "1/15/2024, 10:00:00 AM")
	// Status is synthesized from instanceState and volumeState.
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "deleted")
}

func TestLsDescending(t *testing.T) {
	out, err := run(t, "ls", "-s=-resourceType", "-t", "testdata/inventory.json")
	require.NoError(t, err)

	assert.Contains(t, out, "type ▼")
	assert.Less(t, strings.Index(out, "RDSInstance"), strings.Index(out, "EBSVolume"))
}

func TestLsFilterJSON(t *testing.T) {
	out, err := run(t, "ls", "-f", "resourceType=RDSInstance", "-o", "json", "testdata/inventory.json")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "RDSInstance", got[0]["resourceType"])
	assert.Equal(t, "available", got[0]["status"])
	assert.Nil(t, got[0]["tags.Name"])
}

func TestLsExtraColumns(t *testing.T) {
	out, err := run(t, "ls", "-a", "tags.env:env,arnService:service", "-o", "csv", "-s", "resourceType", "testdata/inventory.json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "resourceType,tags.Name,region,accountId,status,createdAt,tags.env,arnService", lines[0])
	assert.Contains(t, lines[2], "prod")
	assert.Contains(t, lines[3], "rds")
}

func TestLsFileFlag(t *testing.T) {
	out, err := run(t, "ls", "--file", "testdata/inventory.json", "-o", "csv")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestLsNoSnapshot(t *testing.T) {
	t.Setenv("INVCTL_FILE", "")
	_, err := run(t, "ls", "-o", "json")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLsMissingFile(t *testing.T) {
	_, err := run(t, "ls", "testdata/nope.json")
	assert.Error(t, err)
}

func TestLsActionsNeedText(t *testing.T) {
	_, err := run(t, "ls", "--actions", "-o", "json", "testdata/inventory.json")
	assert.ErrorContains(t, err, "--actions")
}

func TestLsActions(t *testing.T) {
	out, err := run(t, "ls", "--actions", "-t", "testdata/inventory.json")
	require.NoError(t, err)
	assert.Contains(t, out, "Actions")
	assert.Equal(t, 3, strings.Count(out, "[view]"))
}

func TestLsExamples(t *testing.T) {
	out, err := run(t, "ls", "--examples")
	require.NoError(t, err)
	assert.Contains(t, out, "invctl ls inventory.json")
}

func TestBrowseFallsBackWithoutTerminal(t *testing.T) {
	saved := isTerminal
	isTerminal = func(*os.File) bool { return false }
	t.Cleanup(func() { isTerminal = saved })

	out, err := run(t, "browse", "-o", "json", "testdata/inventory.json")
	require.NoError(t, err)
	assert.Contains(t, out, "web-1")
	assert.NotContains(t, out, "{")
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	out, err := run(t, "export", "--format", "csv", "--out", path, "-s", "region", "testdata/inventory.json")
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "resourceType,tags.Name,region,accountId,status,createdAt", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "EBSVolume,"), lines[1])
}

type failingClose struct {
	bytes.Buffer
}

func (f *failingClose) Close() error { return errors.New("disk full") }

func TestExportReportsCloseError(t *testing.T) {
	saved := createFile
	var f failingClose
	createFile = func(string) (io.WriteCloser, error) { return &f, nil }
	t.Cleanup(func() { createFile = saved })

	_, err := run(t, "export", "--out", "inventory.csv", "testdata/inventory.json")
	assert.ErrorContains(t, err, "disk full")
	assert.Contains(t, f.String(), "resourceType,")
}

func TestExportYAMLToStdout(t *testing.T) {
	out, err := run(t, "export", "--format", "yaml", "-f", "region=eu-west-1", "testdata/inventory.json")
	require.NoError(t, err)
	assert.Contains(t, out, "resourceType: EBSVolume")
	assert.NotContains(t, out, "EC2Instance")
}

func TestExportBadFormat(t *testing.T) {
	_, err := run(t, "export", "--format", "xml", "testdata/inventory.json")
	assert.Error(t, err)
}

func TestSummaryJSON(t *testing.T) {
	out, err := run(t, "summary", "-o", "json", "testdata/inventory.json")
	require.NoError(t, err)

	var s summary.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 3, s.TotalResources)
	require.NotNil(t, s.EC2)
	assert.Equal(t, 1, s.EC2.Running)
}

func TestSummaryText(t *testing.T) {
	out, err := run(t, "summary", "-f", "group=type", "testdata/inventory.json")
	require.NoError(t, err)
	assert.Contains(t, out, "EC2Instance")
	assert.NotContains(t, out, "us-east-1")
}

func TestDiff(t *testing.T) {
	out, err := run(t, "diff", "-o", "csv", "testdata/inventory.json", "testdata/after.json")
	require.NoError(t, err)

	assert.Contains(t, out, "added,111111111111-us-east-1-EC2Instance-i-0def,EC2Instance,")
	assert.Contains(t, out, "removed,222222222222-eu-west-1-EBSVolume-vol-9,EBSVolume,")
	assert.Contains(t, out, "changed,111111111111-us-east-1-RDSInstance-orders,RDSInstance,status")
	// lastUpdated is ignored by default.
	assert.NotContains(t, out, "i-0abc")
}

func TestDiffVerbose(t *testing.T) {
	out, err := run(t, "diff", "--verbose", "-f", "change=changed", "testdata/inventory.json", "testdata/after.json")
	require.NoError(t, err)
	assert.Contains(t, out, "available")
	assert.Contains(t, out, "stopped")
}

func TestDiffVerboseNeedsText(t *testing.T) {
	for _, o := range []string{"json", "yaml", "csv", "raw"} {
		_, err := run(t, "diff", "-o", o, "--verbose", "testdata/inventory.json", "testdata/after.json")
		assert.ErrorContains(t, err, "--verbose", o)
	}
}

func TestDiffVerboseFollowsFilter(t *testing.T) {
	out, err := run(t, "diff", "--verbose", "-f", "change=added", "testdata/inventory.json", "testdata/after.json")
	require.NoError(t, err)
	assert.Contains(t, out, "EC2Instance")
	assert.NotContains(t, out, "RDSInstance")
	assert.NotContains(t, out, "available")
}

func TestSnapshotDirectory(t *testing.T) {
	dir := t.TempDir()
	for i, name := range []string{"inventory.json", "after.json"} {
		b, err := os.ReadFile(filepath.Join("testdata", name))
		require.NoError(t, err)
		p := filepath.Join(dir, fmt.Sprintf("%d-%s", i, name))
		require.NoError(t, os.WriteFile(p, b, 0o644))
		mt := time.Now().Add(time.Duration(i-2) * time.Hour)
		require.NoError(t, os.Chtimes(p, mt, mt))
	}

	out, err := run(t, "diff", "-o", "csv", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "removed,222222222222-eu-west-1-EBSVolume-vol-9")

	// The newest snapshot no longer has the volume, the one before does.
	out, err = run(t, "ls", "-o", "csv", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "EBSVolume")

	out, err = run(t, "ls", "-o", "csv", dir+"~1")
	require.NoError(t, err)
	assert.Contains(t, out, "EBSVolume")
}

func TestDiffSame(t *testing.T) {
	out, err := run(t, "diff", "testdata/inventory.json", "testdata/inventory.json")
	require.NoError(t, err)
	assert.Equal(t, "no differences\n", out)
}

func TestDiffNeedsTwoFiles(t *testing.T) {
	_, err := run(t, "diff", "testdata/inventory.json")
	assert.ErrorContains(t, err, "two snapshot files")
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _invctl invctl")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "compdef _invctl invctl")
}
