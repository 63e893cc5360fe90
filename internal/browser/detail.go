// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

var dateSuffixes = []string{"at", "time", "date", "updated"}

func (m Model) isDateField(key string) bool {
	if c, ok := m.cfg.Columns.Find(key); ok {
		return c.Type == columns.TypeDate
	}
	lower := strings.ToLower(key)
	for _, s := range dateSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// renderDetail lists every field of r. Dates show the formatted value and
// how long ago it was; composites are pretty printed.
func (m Model) renderDetail(r *record.Record) string {
	keys := r.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	var b strings.Builder
	for _, k := range keys {
		v := record.GetCell(r, k)
		fmt.Fprintf(&b, "%-*s  %s\n", width, k, m.detailValue(k, v, width+2))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) detailValue(key string, v record.Value, indent int) string {
	switch {
	case v.Kind() == record.KindRaw:
		pretty := gjson.Parse(v.String()).Get("@pretty").String()
		pretty = strings.TrimRight(pretty, "\n")
		return strings.ReplaceAll(pretty, "\n", "\n"+strings.Repeat(" ", indent))

	case v.Kind() == record.KindTime || (m.isDateField(key) && !v.IsEmpty()):
		t, ok := v.Time()
		if !ok {
			parsed, err := m.cfg.Dates.Parse(v.String())
			if err != nil {
				return v.String()
			}
			t = parsed
		}
		formatted, err := m.cfg.Dates.FormatValue(record.Time(t))
		if err != nil {
			return v.String()
		}
		return fmt.Sprintf("%s (%s)", formatted, humanize.RelTime(t, m.now(), "ago", "from now"))

	default:
		return v.String()
	}
}
