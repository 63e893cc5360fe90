// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

// filterRegex is the pattern used to parse filter expressions into key, operator, and target components.
// It matches: key + operator + target, where operator can be negated with !
// Operators are one of = ^ ~ < > @ or /, optionally prefixed with '!'.
// This allows forms like '=', '!=', '^', '!^', etc.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter represents a single parsed --filter expression including the key,
// operand, optional negation and target value.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Invalid specs (unsupported operand or malformed expression) are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override.
	delim := ","
	if d, ok := os.LookupEnv("INVCTL_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		parts := filterRegex.FindStringSubmatch(filterSpec)

		// If a supported operand was not found, log an error and throw it away.
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		// parts[2] is the operand. It may have a leading negation. If so, trim it
		// and just use the remainder as the working operand.
		negate := strings.HasPrefix(parts[2], "!")
		if negate {
			parts[2] = strings.TrimPrefix(parts[2], "!")
		}

		filters = append(filters, Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: parts[2],
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset returns the records matching every filter in spec. Filter
// keys may name a column by key or label, or any record field. A key that
// matches neither a column nor a field of any record is reported and
// ignored. The input slice is not modified.
func FilterDataset(candidates []*record.Record, cols columns.List, spec string) []*record.Record {
	filters := resolveFilters(candidates, cols, BuildFilters(spec))

	//nolint:prealloc // Don't prealloc because we don't know what len will be.
	var filtered []*record.Record
	for _, candidate := range candidates {
		if applyFilters(candidate, filters) {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// resolveFilters maps column labels to record keys and drops filters whose
// key cannot be found anywhere.
func resolveFilters(candidates []*record.Record, cols columns.List, filters []Filter) []Filter {
	resolved := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if c, ok := cols.Find(f.Key); ok {
			f.Key = c.Key
			resolved = append(resolved, f)
			continue
		}

		found := false
		for _, r := range candidates {
			if _, ok := r.Lookup(f.Key); ok {
				found = true
				break
			}
		}
		if !found {
			msg := fmt.Sprintf("filter key not found: %s", f.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}
		resolved = append(resolved, f)
	}
	return resolved
}

// applyFilters returns true if the candidate record matches all of the
// provided filters.
func applyFilters(candidate *record.Record, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := candidate.Lookup(filter.Key)
		if !ok || value.IsNull() {
			return false
		}

		result := true
		switch value.Kind() {
		case record.KindString, record.KindTime:
			result = checkStringOperand(value.String(), filter)
		case record.KindBool:
			result = checkStringOperand(value.String(), filter)
		case record.KindNumber:
			if strings.ContainsAny(filter.Operand, "=<>") {
				n, _ := value.Float()
				result = checkNumericOperand(n, filter)
			} else {
				result = checkStringOperand(value.String(), filter)
			}
		case record.KindRaw:
			if filter.Operand == "@" {
				result = checkContainsOperand(value.String(), filter)
			}
		}

		if !result {
			return false
		}
	}

	return true
}

// checkContainsOperand evaluates a membership style filter (operand '@')
// against a JSON array or object.
func checkContainsOperand(raw string, filter Filter) bool {
	doc := gjson.Parse(raw)
	switch {
	case doc.IsArray():
		for _, item := range doc.Array() {
			if item.String() == filter.Target {
				return !filter.Negate
			}
		}
		return filter.Negate
	case doc.IsObject():
		found := doc.Get(gjson.Escape(filter.Target)).Exists()
		return found == !filter.Negate
	default:
		log.Error(fmt.Sprintf("unsupported value for contains filtering: %s", raw))
		return false
	}
}

// checkNumericOperand compares a numeric value against the filter target using
// numeric semantics. Supported operands: =, >, < and the negated form via
// filter.Negate (e.g., != is represented as Negate + "=").
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Target == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Target) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Target) == !filter.Negate
	case ">":
		return value > filter.Target == !filter.Negate
	case "<":
		return value < filter.Target == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Target) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
