// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var segmentRegex = regexp.MustCompile(`^(.*?)\[(\d+)\]$`)

type segment struct {
	key   string
	index int
}

// Driller walks raw along path and returns the value found there, or an empty
// gjson.Result when any segment is missing. Arrays holding exactly one element
// are drilled through transparently, so "volumes.id" works whether volumes is
// an object or a one element list.
func Driller(raw string, path string) gjson.Result {
	current := gjson.Parse(raw)

	for _, seg := range splitPath(path) {
		if seg.index < 0 && !(current.IsArray() && isIndex(seg.key)) {
			current = unwrap(current)
		}

		current = current.Get(gjson.Escape(seg.key))
		if !current.Exists() {
			return gjson.Result{}
		}

		if seg.index >= 0 {
			if !current.IsArray() {
				return gjson.Result{}
			}
			items := current.Array()
			if seg.index >= len(items) {
				return gjson.Result{}
			}
			current = items[seg.index]
		}
	}

	return unwrap(current)
}

func unwrap(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if items := r.Array(); len(items) == 1 {
			return items[0]
		}
	}
	return r
}

// isIndex reports whether key addresses an array element, as in
// "securityGroups.0".
func isIndex(key string) bool {
	_, err := strconv.Atoi(key)
	return err == nil
}

func splitPath(path string) []segment {
	parts := strings.Split(path, ".")
	segments := make([]segment, 0, len(parts))
	for _, p := range parts {
		if m := segmentRegex.FindStringSubmatch(p); m != nil {
			i, _ := strconv.Atoi(m[2])
			segments = append(segments, segment{key: m[1], index: i})
			continue
		}
		segments = append(segments, segment{key: p, index: -1})
	}
	return segments
}
