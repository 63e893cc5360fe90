// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/invctl/internal/config"
)

func TestMangleArguments(t *testing.T) {
	t.Setenv("INVCTL_CFG", "testdata/invctl.yaml")
	_, err := config.Load()
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults after file",
			args: []string{"invctl", "ls", "inv.json", "-o", "json"},
			want: []string{"invctl", "ls", "inv.json", "-t", "-c", "-o", "json"},
		},
		{
			name: "defaults without file",
			args: []string{"invctl", "ls", "-o", "json"},
			want: []string{"invctl", "ls", "-t", "-c", "-o", "json"},
		},
		{
			name: "named set replaces defaults",
			args: []string{"invctl", "ls", "inv.json", "@ec2"},
			want: []string{"invctl", "ls", "inv.json", "-f", "resourceType=EC2Instance", "-s", "tags.Name"},
		},
		{
			name: "named set before file",
			args: []string{"invctl", "ls", "@ec2", "inv.json"},
			want: []string{"invctl", "ls", "-f", "resourceType=EC2Instance", "-s", "tags.Name", "inv.json"},
		},
		{
			name: "unknown set is dropped",
			args: []string{"invctl", "ls", "inv.json", "@nope"},
			want: []string{"invctl", "ls", "inv.json"},
		},
		{
			name: "stdin",
			args: []string{"invctl", "ls", "-"},
			want: []string{"invctl", "ls", "-", "-t", "-c"},
		},
		{
			name: "no sets for command",
			args: []string{"invctl", "diff", "a.json", "b.json"},
			want: []string{"invctl", "diff", "a.json", "b.json"},
		},
		{
			name: "help",
			args: []string{"invctl", "ls", "inv.json", "-h"},
			want: []string{"invctl", "ls", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}
