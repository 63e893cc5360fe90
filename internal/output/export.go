// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

// ErrUnsupportedFormat is returned for an unknown export or output format.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ExportFormats are the formats accepted by Export.
var ExportFormats = []string{"csv", "json", "yaml"}

// exportKeys are the included column keys, or every field seen across the
// records when no column is included.
func exportKeys(records []*record.Record, cols columns.List) []string {
	if keys := cols.Included().Keys(); len(keys) > 0 {
		return keys
	}
	seen := map[string]bool{}
	var keys []string
	for _, r := range records {
		for _, k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// project keeps only keys, in order. Missing fields become null.
func project(r *record.Record, keys []string) *record.Record {
	out := record.New()
	for _, k := range keys {
		v, ok := r.Lookup(k)
		if !ok {
			v = record.Null()
		}
		out.Set(k, v)
	}
	return out
}

// Export writes records projected onto cols. Values are written unformatted
// so the output can be read back.
func Export(records []*record.Record, cols columns.List, format string, w io.Writer) error {
	keys := exportKeys(records, cols)

	switch strings.ToLower(format) {
	case "json":
		projected := make([]*record.Record, len(records))
		for i, r := range records {
			projected[i] = project(r, keys)
		}
		b, err := json.MarshalIndent(projected, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err

	case "yaml":
		docs := make([]yaml.MapSlice, len(records))
		for i, r := range records {
			ms := make(yaml.MapSlice, 0, len(keys))
			for _, k := range keys {
				v, _ := r.Lookup(k)
				ms = append(ms, yaml.MapItem{Key: k, Value: v.Interface()})
			}
			docs[i] = ms
		}
		b, err := yaml.Marshal(docs)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err

	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(keys); err != nil {
			return err
		}
		for _, r := range records {
			row := make([]string, len(keys))
			for i, k := range keys {
				row[i] = record.GetCell(r, k).String()
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// writeRaw emits the source documents of records as a JSON array.
func writeRaw(records []*record.Record, w io.Writer) error {
	docs := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		if raw := r.Raw(); raw != "" {
			docs = append(docs, json.RawMessage(raw))
			continue
		}
		b, err := r.MarshalJSON()
		if err != nil {
			return err
		}
		docs = append(docs, b)
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
