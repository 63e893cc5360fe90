// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package loader reads inventory snapshots from local files into records.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

// ErrUnsupportedFormat is returned when a snapshot is not JSON, JSON lines
// or YAML.
var ErrUnsupportedFormat = errors.New("unsupported snapshot format")

// Snapshot formats.
const (
	FormatAuto  = ""
	FormatJSON  = "json"
	FormatLines = "jsonl"
	FormatYAML  = "yaml"
)

// defaultParents are tried, in order, when a JSON document is an object.
// Items is what a DynamoDB scan dump carries.
var defaultParents = []string{"Items", "items", "records", "resources", "data"}

// Options control how a snapshot is read.
type Options struct {
	// Format forces a snapshot format. Empty detects it.
	Format string
	// Parent is the gjson path of the record array inside an object document.
	Parent string
	// Columns with dotted keys are drilled out of each record.
	Columns columns.List
	// SkipMetrics drops the collector's metric summary records.
	SkipMetrics bool
}

// Load reads the snapshot at path. "-" reads stdin.
func Load(ctx context.Context, path string, opts Options) ([]*record.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(bufio.NewReader(os.Stdin))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Format == FormatAuto {
		opts.Format = formatFromExtension(path)
	}

	records, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("loaded %d records from %s", len(records), path)
	return records, nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".jsonl", ".ndjson":
		return FormatLines
	case ".json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// Parse decodes a snapshot held in memory.
func Parse(data []byte, opts Options) ([]*record.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	format := opts.Format
	if format == FormatAuto {
		format = sniff(data)
	}

	var items []gjson.Result
	switch format {
	case FormatJSON:
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("%w: invalid json", ErrUnsupportedFormat)
		}
		items = documentItems(gjson.ParseBytes(data), opts.Parent)
	case FormatLines:
		var err error
		if items, err = lineItems(data); err != nil {
			return nil, err
		}
	case FormatYAML:
		doc, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		items = documentItems(gjson.ParseBytes(doc), opts.Parent)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	records := make([]*record.Record, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			log.Debugf("skipping item %d: not an object", i)
			continue
		}
		if opts.SkipMetrics && item.Get("isMetric").Bool() {
			continue
		}
		records = append(records, buildRecord(item, opts.Columns))
	}
	return records, nil
}

// sniff guesses the format of unnamed input.
func sniff(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	switch trimmed[0] {
	case '[':
		return FormatJSON
	case '{':
		if gjson.ValidBytes(trimmed) {
			return FormatJSON
		}
		return FormatLines
	default:
		return FormatYAML
	}
}

// documentItems finds the record array in a parsed document. An object with
// no recognised array is a single record.
func documentItems(doc gjson.Result, parent string) []gjson.Result {
	if parent != "" {
		doc = doc.Get(parent)
	}
	if doc.IsArray() {
		return doc.Array()
	}
	if !doc.IsObject() {
		return nil
	}
	if parent == "" {
		for _, p := range defaultParents {
			if r := doc.Get(p); r.IsArray() {
				log.Debugf("records found under %s", p)
				return r.Array()
			}
		}
	}
	return []gjson.Result{doc}
}

func lineItems(data []byte) ([]gjson.Result, error) {
	var items []gjson.Result
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !gjson.ValidBytes(line) {
			return nil, fmt.Errorf("%w: invalid json on line %d", ErrUnsupportedFormat, n)
		}
		// ParseBytes keeps no reference to line, which the scanner reuses.
		items = append(items, gjson.ParseBytes(line))
	}
	return items, scanner.Err()
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share the
// gjson based record building.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	v := record.FromValue(doc)
	if v.Kind() != record.KindRaw {
		return nil, fmt.Errorf("%w: yaml document is not a list or mapping", ErrUnsupportedFormat)
	}
	return []byte(v.String()), nil
}
