// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/meta"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator FlagValidatorType
		value     any
		wantErr   bool
	}{
		{"output text", OutputValidator, "text", false},
		{"output csv", OutputValidator, "csv", false},
		{"output xml", OutputValidator, "xml", true},
		{"export yaml", ExportFormatValidator, "yaml", false},
		{"export raw", ExportFormatValidator, "raw", true},
		{"input detect", InputValidator, "", false},
		{"input jsonl", InputValidator, "jsonl", false},
		{"input csv", InputValidator, "csv", true},
		{"jammed", JammedFlagValidator, "--titles", true},
		{"not jammed", JammedFlagValidator, "-name", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FlagValidators(tt.value, tt.validator)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlagValidatorsStopsAtFirstError(t *testing.T) {
	calls := 0
	count := func(any) error { calls++; return nil }

	err := FlagValidators("--x", count, JammedFlagValidator, count)
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGetMeta(t *testing.T) {
	assert.Equal(t, meta.Meta{}, GetMeta(nil))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{}))
	assert.Equal(t, meta.Meta{}, GetMeta(&cli.Command{Metadata: map[string]any{"meta": "nope"}}))

	m := meta.Meta{File: "inventory.json"}
	assert.Equal(t, m, GetMeta(&cli.Command{Metadata: map[string]any{"meta": m}}))
}
