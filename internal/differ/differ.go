// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ compares two inventory snapshots record by record.
package differ

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

// DefaultKey identifies a record across snapshots.
const DefaultKey = "id"

// DefaultIgnore are bookkeeping fields the collector rewrites on every run.
var DefaultIgnore = []string{"lastUpdated", "updatedAt"}

// Change kinds.
const (
	Added   = "added"
	Removed = "removed"
	Changed = "changed"
)

// Options control a comparison.
type Options struct {
	// Key is the identifying field. Empty means DefaultKey.
	Key string
	// Ignore lists fields left out of the comparison. Nil means DefaultIgnore.
	Ignore []string
	// Verbose renders an ASCII delta for every change.
	Verbose bool
}

// Change describes one record present in both snapshots that differs.
type Change struct {
	Key    string
	Old    *record.Record
	New    *record.Record
	Fields []string
	// Delta is the rendered difference, set only when Verbose.
	Delta string
}

// Result of Compare. Slices are ordered by key.
type Result struct {
	Added     []*record.Record
	Removed   []*record.Record
	Changed   []Change
	Unchanged int
	// Skipped counts records without the key field.
	Skipped int
}

// Empty reports whether the snapshots hold the same records.
func (r Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Compare matches records by key and reports what was added, removed or
// changed going from before to after.
func Compare(before, after []*record.Record, opts Options) (Result, error) {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Ignore == nil {
		opts.Ignore = DefaultIgnore
	}

	var res Result
	oldIndex, skipped := index(before, opts.Key)
	res.Skipped += skipped
	newIndex, skipped := index(after, opts.Key)
	res.Skipped += skipped

	differ := gojsondiff.New()

	for _, k := range sortedKeys(newIndex) {
		n := newIndex[k]
		o, ok := oldIndex[k]
		if !ok {
			res.Added = append(res.Added, n)
			continue
		}

		left := stripped(o, opts.Ignore)
		right := stripped(n, opts.Ignore)
		d := differ.CompareObjects(left, right)
		if !d.Modified() {
			res.Unchanged++
			continue
		}

		c := Change{Key: k, Old: o, New: n, Fields: changedFields(d)}
		if opts.Verbose {
			f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
				ShowArrayIndex: true,
			})
			text, err := f.Format(d)
			if err != nil {
				return Result{}, fmt.Errorf("failed to format delta for %s: %w", k, err)
			}
			c.Delta = text
		}
		res.Changed = append(res.Changed, c)
	}

	for _, k := range sortedKeys(oldIndex) {
		if _, ok := newIndex[k]; !ok {
			res.Removed = append(res.Removed, oldIndex[k])
		}
	}

	log.Debugf("diff: +%d -%d ~%d =%d", len(res.Added), len(res.Removed), len(res.Changed), res.Unchanged)
	return res, nil
}

// index maps key values to records. Later duplicates win.
func index(records []*record.Record, key string) (map[string]*record.Record, int) {
	m := make(map[string]*record.Record, len(records))
	skipped := 0
	for _, r := range records {
		k := record.GetCell(r, key).String()
		if k == "" {
			skipped++
			continue
		}
		if _, dup := m[k]; dup {
			log.Debugf("duplicate key %s=%s", key, k)
		}
		m[k] = r
	}
	return m, skipped
}

func stripped(r *record.Record, ignore []string) map[string]interface{} {
	m := r.Map()
	for _, k := range ignore {
		delete(m, k)
	}
	return m
}

// changedFields names the top level fields a diff touches.
func changedFields(d gojsondiff.Diff) []string {
	var fields []string
	for _, delta := range d.Deltas() {
		switch v := delta.(type) {
		case gojsondiff.PostDelta:
			fields = append(fields, v.PostPosition().String())
		case gojsondiff.PreDelta:
			fields = append(fields, v.PrePosition().String())
		}
	}
	sort.Strings(fields)
	return fields
}

func sortedKeys(m map[string]*record.Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Columns describe the rows produced by Records.
func Columns() columns.List {
	return columns.List{
		{Key: "change", Label: "CHANGE", Type: columns.TypeText, Include: true},
		{Key: "key", Label: "KEY", Include: true},
		{Key: "resourceType", Label: "TYPE", Include: true},
		{Key: "fields", Label: "FIELDS", Include: true},
	}
}

// Records flattens the result into rows for the output package.
func (r Result) Records(key string) []*record.Record {
	if key == "" {
		key = DefaultKey
	}
	var out []*record.Record
	add := func(change string, rec *record.Record, k string, fields []string) {
		row := record.New()
		row.Set("change", record.String(change))
		row.Set("key", record.String(k))
		row.Set("resourceType", record.GetCell(rec, "resourceType"))
		row.Set("fields", record.String(strings.Join(fields, ",")))
		out = append(out, row)
	}
	for _, rec := range r.Added {
		add(Added, rec, record.GetCell(rec, key).String(), nil)
	}
	for _, rec := range r.Removed {
		add(Removed, rec, record.GetCell(rec, key).String(), nil)
	}
	for _, c := range r.Changed {
		add(Changed, c.New, c.Key, c.Fields)
	}
	return out
}
