// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package columns

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
)

// Column type tags. They decide how a cell is formatted.
const (
	TypeText   = ""
	TypeDate   = "date"
	TypeStatus = "status"
	TypeNumber = "number"
	TypeBool   = "bool"
)

var knownTypes = map[string]string{
	"":       TypeText,
	"text":   TypeText,
	"date":   TypeDate,
	"time":   TypeDate,
	"status": TypeStatus,
	"number": TypeNumber,
	"bool":   TypeBool,
}

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Column describes one renderable record field.
type Column struct {
	// The record field to display.
	Key string `yaml:"key"`
	// Column title. Set defaults it to the last segment of Key.
	Label string `yaml:"label"`
	// Type tag, one of the Type* constants.
	Type string `yaml:"type"`
	// Should this Column be displayed or is it just intended for filtering and
	// sorting?
	Include bool `yaml:"include"`
	// Case and length transformation applied to the rendered cell text.
	TransformSpec string `yaml:"transformSpec"`
}

// Title is the header text for the column.
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Key
}

// Transform applies the case and length rules of TransformSpec to rendered
// cell text. "u"/"l" upper or lower case, whichever appears last wins. A
// number truncates; a negative number elides the middle.
func (c Column) Transform(result string) string {
	lastL := strings.LastIndexAny(c.TransformSpec, "lL")
	lastU := strings.LastIndexAny(c.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	if c.TransformSpec == "" {
		return result
	}

	// Take the last (overriding) match so a column spec beats a global one.
	match := lengthRegex.FindAllString(c.TransformSpec, -1)
	if len(match) == 0 {
		return result
	}
	l, _ := strconv.Atoi(match[len(match)-1])
	abs := int(math.Abs(float64(l)))
	runes := []rune(result)
	if abs == 0 || len(runes) <= abs {
		return result
	}
	if l > 0 {
		return string(runes[:l])
	}
	half := abs/2 - 1
	if half < 1 {
		return string(runes[:abs])
	}
	return string(runes[:half]) + ".." + string(runes[len(runes)-half:])
}

type List []Column

// String returns the list in the same form accepted by Set.
func (a *List) String() string {
	result := make([]string, 0, len(*a))
	for _, c := range *a {
		key := c.Key
		if !c.Include && key != "*" {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s:%s", key, c.Label, c.Type, c.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses a comma separated list of column specs and merges them into the
// list. Each spec is key[:label[:type[:transform]]]. A leading ! keeps the
// column for filtering and sorting only.
func (a *List) Set(value string) error {
	if value == "" {
		return nil
	}

	const (
		keyIdx = iota
		labelIdx
		typeIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		col := Column{Include: true}
		fields := strings.Split(spec, ":")

		col.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(col.Key, "!") {
			col.Include = false
			col.Key = col.Key[1:]
		}
		if col.Key == "" {
			return fmt.Errorf("column spec %q has no key", spec)
		}
		if col.Key == "*" {
			col.Include = false
		}

		if len(fields) > labelIdx && strings.TrimSpace(fields[labelIdx]) != "" {
			col.Label = strings.TrimSpace(fields[labelIdx])
		} else {
			segments := strings.Split(col.Key, ".")
			col.Label = segments[len(segments)-1]
		}

		if len(fields) > typeIdx {
			typ, ok := knownTypes[strings.ToLower(strings.TrimSpace(fields[typeIdx]))]
			if !ok {
				return fmt.Errorf("column %s: unknown type %q", col.Key, fields[typeIdx])
			}
			col.Type = typ
		}

		if len(fields) > transformIdx {
			col.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// Re-specifying an existing column (a default or a double entry) updates
		// it in place so its position is kept.
		for i := range *a {
			if (*a)[i].Key == col.Key {
				(*a)[i].Include = col.Include
				if len(fields) > labelIdx {
					(*a)[i].Label = col.Label
				}
				if len(fields) > typeIdx {
					(*a)[i].Type = col.Type
				}
				if len(fields) > transformIdx {
					(*a)[i].TransformSpec = col.TransformSpec
				}
				log.Debugf("column %s respecified", col.Key)
				continue specloop
			}
		}

		*a = append(*a, col)
	}

	return nil
}

// SetGlobalTransformSpec prepends the transform of the "*" column, if any, to
// every column so that column specific transforms take precedence.
func (a *List) SetGlobalTransformSpec() error {
	spec := ""
	for _, c := range *a {
		if c.Key == "*" {
			spec = c.TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for i := range *a {
		if (*a)[i].Key == "*" {
			continue
		}
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

func (a *List) Type() string {
	return "list"
}

// Included returns the displayable columns in order. The "*" pseudo column is
// never included.
func (a List) Included() List {
	out := make(List, 0, len(a))
	for _, c := range a {
		if c.Include && c.Key != "*" {
			out = append(out, c)
		}
	}
	return out
}

// Keys returns the record keys of every real column.
func (a List) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, c := range a {
		if c.Key != "*" {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// Find looks a column up by key or label.
func (a List) Find(name string) (Column, bool) {
	for _, c := range a {
		if c.Key == name || c.Label == name {
			return c, true
		}
	}
	return Column{}, false
}

// Parse builds a list from defaults and then extra specs, then applies the
// global transform.
func Parse(specs ...string) (List, error) {
	var l List
	for _, s := range specs {
		if err := l.Set(s); err != nil {
			return nil, err
		}
	}
	if err := l.SetGlobalTransformSpec(); err != nil {
		return nil, err
	}
	return l, nil
}
