// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
		wantCount int
	}{
		{
			name:      "empty spec",
			spec:      "",
			wantCount: 0,
		},
		{
			name:      "single exact match filter",
			spec:      "name=my-resource",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "my-resource", Negate: false},
			},
		},
		{
			name:      "prefix match filter",
			spec:      "resourceType^EBS",
			wantCount: 1,
			want: []Filter{
				{Key: "resourceType", Operand: "^", Target: "EBS", Negate: false},
			},
		},
		{
			name:      "regex match filter",
			spec:      "tags~^env-",
			wantCount: 1,
			want: []Filter{
				{Key: "tags", Operand: "~", Target: "^env-", Negate: false},
			},
		},
		{
			name:      "negated exact match",
			spec:      "name!=test",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "test", Negate: true},
			},
		},
		{
			name:      "negated prefix match",
			spec:      "type!^aws_",
			wantCount: 1,
			want: []Filter{
				{Key: "resourceType", Operand: "^", Target: "EBS", Negate: true},
			},
		},
		{
			name:      "multiple filters",
			spec:      "name=test,resourceType^EBS",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "test", Negate: false},
				{Key: "resourceType", Operand: "^", Target: "EBS", Negate: false},
			},
		},
		{
			name:      "greater than numeric",
			spec:      "count>5",
			wantCount: 1,
			want: []Filter{
				{Key: "count", Operand: ">", Target: "5", Negate: false},
			},
		},
		{
			name:      "less than numeric",
			spec:      "count<10",
			wantCount: 1,
			want: []Filter{
				{Key: "count", Operand: "<", Target: "10", Negate: false},
			},
		},
		{
			name:      "contains operand",
			spec:      "name@test",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "@", Target: "test", Negate: false},
			},
		},
		{
			name:      "regex operand",
			spec:      "name/^test.*",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "/", Target: "^test.*", Negate: false},
			},
		},
		{
			name:      "invalid filter skipped",
			spec:      "name=test,invalid-filter,resourceType^EBS",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "test", Negate: false},
				{Key: "resourceType", Operand: "^", Target: "EBS", Negate: false},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "name=test|resourceType^EBS",
			delimiter: "|",
			wantCount: 2,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "test", Negate: false},
				{Key: "resourceType", Operand: "^", Target: "EBS", Negate: false},
			},
		},
		{
			name:      "key with dots",
			spec:      "tags.Name=us-west-2",
			wantCount: 1,
			want: []Filter{
				{Key: "tags.Name", Operand: "=", Target: "us-west-2", Negate: false},
			},
		},
		{
			name:      "empty target",
			spec:      "name=",
			wantCount: 1,
			want: []Filter{
				{Key: "name", Operand: "=", Target: "", Negate: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("INVCTL_FILTER_DELIM", tt.delimiter)
			}

			got := BuildFilters(tt.spec)
			assert.Len(t, got, tt.wantCount)
			if tt.want != nil {
				for i, filter := range tt.want {
					assert.Equal(t, filter.Key, got[i].Key)
					assert.Equal(t, filter.Operand, got[i].Operand)
					assert.Equal(t, filter.Target, got[i].Target)
					assert.Equal(t, filter.Negate, got[i].Negate)
				}
			}
		})
	}
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  "test",
			filter: Filter{Operand: "=", Target: "test", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  "test",
			filter: Filter{Operand: "=", Target: "other", Negate: false},
			want:   false,
		},
		{
			name:   "negated exact match true",
			value:  "test",
			filter: Filter{Operand: "=", Target: "other", Negate: true},
			want:   true,
		},
		{
			name:   "negated exact match false",
			value:  "test",
			filter: Filter{Operand: "=", Target: "test", Negate: true},
			want:   false,
		},
		{
			name:   "prefix match true",
			value:  "aws_instance",
			filter: Filter{Operand: "^", Target: "EBS", Negate: false},
			want:   true,
		},
		{
			name:   "prefix match false",
			value:  "gcp_instance",
			filter: Filter{Operand: "^", Target: "EBS", Negate: false},
			want:   false,
		},
		{
			name:   "case insensitive match true",
			value:  "TEST",
			filter: Filter{Operand: "~", Target: "test", Negate: false},
			want:   true,
		},
		{
			name:   "case insensitive match false",
			value:  "testing",
			filter: Filter{Operand: "~", Target: "test", Negate: false},
			want:   false,
		},
		{
			name:   "contains true",
			value:  "my-test-resource",
			filter: Filter{Operand: "@", Target: "test", Negate: false},
			want:   true,
		},
		{
			name:   "contains false",
			value:  "my-resource",
			filter: Filter{Operand: "@", Target: "test", Negate: false},
			want:   false,
		},
		{
			name:   "negated contains true",
			value:  "my-resource",
			filter: Filter{Operand: "@", Target: "test", Negate: true},
			want:   true,
		},
		{
			name:   "regex match true",
			value:  "aws_instance_v1",
			filter: Filter{Operand: "/", Target: "^aws_.*_v\\d+$", Negate: false},
			want:   true,
		},
		{
			name:   "regex match false",
			value:  "instance",
			filter: Filter{Operand: "/", Target: "^aws_.*", Negate: false},
			want:   false,
		},
		{
			name:   "negated regex match",
			value:  "instance",
			filter: Filter{Operand: "/", Target: "^aws_.*", Negate: true},
			want:   true,
		},
		{
			name:   "greater than string true",
			value:  "z",
			filter: Filter{Operand: ">", Target: "a", Negate: false},
			want:   true,
		},
		{
			name:   "greater than string false",
			value:  "a",
			filter: Filter{Operand: ">", Target: "z", Negate: false},
			want:   false,
		},
		{
			name:   "less than string true",
			value:  "a",
			filter: Filter{Operand: "<", Target: "z", Negate: false},
			want:   true,
		},
		{
			name:   "invalid regex",
			value:  "test",
			filter: Filter{Operand: "/", Target: "[invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  "test",
			filter: Filter{Operand: "?", Target: "test", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkStringOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{
			name:   "exact match true",
			value:  42,
			filter: Filter{Operand: "=", Target: "42", Negate: false},
			want:   true,
		},
		{
			name:   "exact match false",
			value:  42,
			filter: Filter{Operand: "=", Target: "40", Negate: false},
			want:   false,
		},
		{
			name:   "negated equal true",
			value:  42,
			filter: Filter{Operand: "=", Target: "40", Negate: true},
			want:   true,
		},
		{
			name:   "negated equal false",
			value:  42,
			filter: Filter{Operand: "=", Target: "42", Negate: true},
			want:   false,
		},
		{
			name:   "greater than true",
			value:  50,
			filter: Filter{Operand: ">", Target: "42", Negate: false},
			want:   true,
		},
		{
			name:   "greater than false",
			value:  42,
			filter: Filter{Operand: ">", Target: "50", Negate: false},
			want:   false,
		},
		{
			name:   "less than true",
			value:  42,
			filter: Filter{Operand: "<", Target: "50", Negate: false},
			want:   true,
		},
		{
			name:   "less than false",
			value:  50,
			filter: Filter{Operand: "<", Target: "42", Negate: false},
			want:   false,
		},
		{
			name:   "float value with integer target",
			value:  42.5,
			filter: Filter{Operand: ">", Target: "42", Negate: false},
			want:   true,
		},
		{
			name:   "invalid target",
			value:  42,
			filter: Filter{Operand: "=", Target: "invalid", Negate: false},
			want:   false,
		},
		{
			name:   "unsupported operand",
			value:  42,
			filter: Filter{Operand: "^", Target: "42", Negate: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkNumericOperand(tt.value, tt.filter)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		filter Filter
		want   bool
	}{
		{name: "array contains true", raw: `["a","b","c"]`, filter: Filter{Operand: "@", Target: "b"}, want: true},
		{name: "array contains false", raw: `["a","b","c"]`, filter: Filter{Operand: "@", Target: "d"}, want: false},
		{name: "array not contains true", raw: `["a","b","c"]`, filter: Filter{Operand: "@", Target: "d", Negate: true}, want: true},
		{name: "array not contains false", raw: `["a","b","c"]`, filter: Filter{Operand: "@", Target: "b", Negate: true}, want: false},
		{name: "numeric array element", raw: `[22,443]`, filter: Filter{Operand: "@", Target: "443"}, want: true},
		{name: "object key exists true", raw: `{"Name":"web","env":"prod"}`, filter: Filter{Operand: "@", Target: "env"}, want: true},
		{name: "object key exists false", raw: `{"Name":"web"}`, filter: Filter{Operand: "@", Target: "env"}, want: false},
		{name: "object key not exists true", raw: `{"Name":"web"}`, filter: Filter{Operand: "@", Target: "env", Negate: true}, want: true},
		{name: "object dotted key is literal", raw: `{"a.b":1}`, filter: Filter{Operand: "@", Target: "a.b"}, want: true},
		{name: "unsupported scalar", raw: `123`, filter: Filter{Operand: "@", Target: "1"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkContainsOperand(tt.raw, tt.filter))
		})
	}
}

func TestApplyFilters(t *testing.T) {
	candidate := record.FromMap(map[string]any{
		"id":           "vol-123",
		"name":         "data-volume",
		"resourceType": "EBSVolume",
		"region":       "us-east-1",
		"volumeSize":   500,
		"encrypted":    true,
		"tags":         []any{"prod", "db"},
		"metadata":     map[string]any{"env": "production"},
		"description":  nil,
	})

	tests := []struct {
		name    string
		filters []Filter
		want    bool
	}{
		{name: "no filters", filters: []Filter{}, want: true},
		{name: "single filter match", filters: []Filter{{Key: "name", Operand: "=", Target: "data-volume"}}, want: true},
		{name: "single filter no match", filters: []Filter{{Key: "name", Operand: "=", Target: "other"}}, want: false},
		{
			name: "multiple filters all match",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "data-volume"},
				{Key: "resourceType", Operand: "^", Target: "EBS"},
			},
			want: true,
		},
		{
			name: "multiple filters one fails",
			filters: []Filter{
				{Key: "name", Operand: "=", Target: "data-volume"},
				{Key: "resourceType", Operand: "^", Target: "RDS"},
			},
			want: false,
		},
		{name: "numeric comparison", filters: []Filter{{Key: "volumeSize", Operand: ">", Target: "100"}}, want: true},
		{name: "numeric negated equals", filters: []Filter{{Key: "volumeSize", Operand: "=", Target: "500", Negate: true}}, want: false},
		{name: "numeric contains uses text", filters: []Filter{{Key: "volumeSize", Operand: "@", Target: "50"}}, want: true},
		{name: "bool as text", filters: []Filter{{Key: "encrypted", Operand: "=", Target: "true"}}, want: true},
		{name: "missing field fails", filters: []Filter{{Key: "nonexistent", Operand: "=", Target: "value"}}, want: false},
		{name: "null value filter fails", filters: []Filter{{Key: "description", Operand: "=", Target: "value"}}, want: false},
		{name: "composite with equals passes", filters: []Filter{{Key: "metadata", Operand: "=", Target: "value"}}, want: true},
		{name: "composite with contains", filters: []Filter{{Key: "metadata", Operand: "@", Target: "env"}}, want: true},
		{name: "array contains", filters: []Filter{{Key: "tags", Operand: "@", Target: "db"}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyFilters(candidate, tt.filters))
		})
	}
}

func TestFilterDataset(t *testing.T) {
	candidates := []*record.Record{
		record.FromMap(map[string]any{"id": "i-1", "name": "web-1", "resourceType": "EC2Instance", "status": "running"}),
		record.FromMap(map[string]any{"id": "db-1", "name": "orders", "resourceType": "RDSInstance", "status": "available"}),
		record.FromMap(map[string]any{"id": "i-2", "name": "web-2", "resourceType": "EC2Instance", "status": "stopped"}),
	}

	cols := columns.List{
		{Key: "name", Label: "Name", Include: true},
		{Key: "resourceType", Label: "Type", Include: true},
	}

	tests := []struct {
		name    string
		spec    string
		wantIDs []string
	}{
		{name: "no filters", spec: "", wantIDs: []string{"i-1", "db-1", "i-2"}},
		{name: "prefix filter by key", spec: "resourceType^EC2", wantIDs: []string{"i-1", "i-2"}},
		{name: "filter by label", spec: "Type=RDSInstance", wantIDs: []string{"db-1"}},
		{name: "filter by field outside columns", spec: "status~RUNNING", wantIDs: []string{"i-1"}},
		{name: "no matches", spec: "name=nonexistent", wantIDs: nil},
		{name: "multiple filters", spec: "resourceType^EC2,name@2", wantIDs: []string{"i-2"}},
		{name: "unknown key ignored", spec: "colour=red,name^web", wantIDs: []string{"i-1", "i-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterDataset(candidates, cols, tt.spec)
			var ids []string
			for _, r := range got {
				ids = append(ids, record.GetCell(r, "id").String())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
	assert.Len(t, candidates, 3, "input must not be modified")
}
