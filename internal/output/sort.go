// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"cmp"
	"sort"
	"strings"
	"time"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/format"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/tableview"
)

type sortKey struct {
	key           string
	descending    bool
	caseSensitive bool
	date          bool
}

// parseSortSpec reads a comma separated list of keys. A leading "-" sorts
// descending and a leading "!" compares case sensitively. Labels resolve to
// their column key.
func parseSortSpec(spec string, cols columns.List) []sortKey {
	var keys []sortKey
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		var sk sortKey
		for len(part) > 0 && (part[0] == '-' || part[0] == '!') {
			if part[0] == '-' {
				sk.descending = true
			} else {
				sk.caseSensitive = true
			}
			part = part[1:]
		}
		if part == "" {
			continue
		}
		sk.key = part
		if c, ok := cols.Find(part); ok {
			sk.key = c.Key
			sk.date = c.Type == columns.TypeDate
		}
		keys = append(keys, sk)
	}
	return keys
}

// SplitSort breaks spec into its primary key, resolved to a column key where
// one matches, and the remaining keys in spec syntax. caseSensitive reports a
// "!" on the primary key.
func SplitSort(spec string, cols columns.List) (primary tableview.SortState, caseSensitive bool, rest string) {
	parts := strings.Split(spec, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		name := strings.TrimLeft(part, "-!")
		if name == "" {
			continue
		}

		primary = tableview.ParseSortState(part)
		caseSensitive = strings.Contains(part[:len(part)-len(name)], "!")
		if c, ok := cols.Find(name); ok {
			primary.Column = c.Key
		}

		var tail []string
		for _, p := range parts[i+1:] {
			if p = strings.TrimSpace(p); strings.TrimLeft(p, "-!") != "" {
				tail = append(tail, p)
			}
		}
		return primary, caseSensitive, strings.Join(tail, ",")
	}
	return tableview.SortState{}, false, ""
}

// SortDataset orders records in place according to spec. The sort is stable
// so an empty spec leaves the order unchanged. Numbers compare numerically,
// times and date columns chronologically, everything else as text. Mixed
// kinds group by kind, see rankOf.
func SortDataset(records []*record.Record, cols columns.List, spec string) {
	keys := parseSortSpec(spec, cols)
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(records, func(i, j int) bool {
		for _, k := range keys {
			c := compareValues(
				record.GetCell(records[i], k.key),
				record.GetCell(records[j], k.key),
				k)
			if c == 0 {
				continue
			}
			if k.descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// Values of different kinds never compare by content: empty values sort
// first, then numbers, then times, then text.
const (
	rankEmpty = iota
	rankNumber
	rankTime
	rankText
)

func rankOf(v record.Value, k sortKey) int {
	switch {
	case v.IsEmpty():
		return rankEmpty
	case v.Kind() == record.KindNumber:
		return rankNumber
	}
	if _, ok := asTime(v, k.date); ok {
		return rankTime
	}
	return rankText
}

func compareValues(a, b record.Value, k sortKey) int {
	ra, rb := rankOf(a, k), rankOf(b, k)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch ra {
	case rankNumber:
		x, _ := a.Float()
		y, _ := b.Float()
		return compareOrdered(x, y)
	case rankTime:
		ta, _ := asTime(a, k.date)
		tb, _ := asTime(b, k.date)
		return ta.Compare(tb)
	}

	sa, sb := a.String(), b.String()
	if !k.caseSensitive {
		sa, sb = strings.ToLower(sa), strings.ToLower(sb)
	}
	return strings.Compare(sa, sb)
}

// asTime reads v as a time. Strings are parsed only for date columns.
func asTime(v record.Value, parse bool) (time.Time, bool) {
	if t, ok := v.Time(); ok {
		return t, true
	}
	if !parse || v.IsEmpty() {
		return time.Time{}, false
	}
	t, err := format.DateFormatter{Location: time.UTC}.Parse(v.String())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func compareOrdered(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
