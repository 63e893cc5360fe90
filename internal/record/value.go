// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindTime
	KindNull
	// KindRaw holds a composite (object or array) as its JSON text.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindNull:
		return "null"
	case KindRaw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged scalar or display value. The zero Value is the empty
// string, which is what a missing cell renders as.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
	t    time.Time
}

// Empty is the value returned for absent cells.
var Empty = Value{}

func String(s string) Value     { return Value{kind: KindString, s: s} }
func Number(n float64) Value    { return Value{kind: KindNumber, n: n} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value    { return Value{kind: KindTime, t: t} }
func Null() Value               { return Value{kind: KindNull} }
func Raw(jsonText string) Value { return Value{kind: KindRaw, s: jsonText} }
func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) Equal(o Value) bool {
	return v == o || (v.kind == KindTime && o.kind == KindTime && v.t.Equal(o.t))
}

// IsEmpty reports whether the value renders as nothing.
func (v Value) IsEmpty() bool {
	return v.kind == KindNull || (v.kind == KindString && v.s == "")
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindString, KindRaw:
		return v.s
	case KindNumber:
		if v.n == math.Trunc(v.n) && math.Abs(v.n) < 1e15 {
			return strconv.FormatInt(int64(v.n), 10)
		}
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Float returns the numeric payload.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}

// Time returns the time payload.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// Bool returns the boolean payload.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Interface converts the value back to a plain Go value suitable for json and
// yaml encoders. Raw composites are decoded so they nest instead of being
// emitted as quoted strings.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindNumber:
		return v.n
	case KindBool:
		return v.b
	case KindTime:
		return v.t.Format(time.RFC3339Nano)
	case KindRaw:
		var decoded any
		if err := json.Unmarshal([]byte(v.s), &decoded); err != nil {
			return v.s
		}
		return decoded
	default:
		return nil
	}
}

// FromValue converts a decoded JSON or YAML value into a Value.
func FromValue(x any) Value {
	switch n := x.(type) {
	case nil:
		return Null()
	case Value:
		return n
	case string:
		return String(n)
	case bool:
		return Bool(n)
	case float64:
		return Number(n)
	case float32:
		return Number(float64(n))
	case int:
		return Number(float64(n))
	case int32:
		return Number(float64(n))
	case int64:
		return Number(float64(n))
	case uint:
		return Number(float64(n))
	case uint64:
		return Number(float64(n))
	case time.Time:
		return Time(n)
	default:
		b, err := json.Marshal(normalize(x))
		if err != nil {
			return String(fmt.Sprintf("%v", x))
		}
		return Raw(string(b))
	}
}

// normalize converts yaml.v2 style map[interface{}]interface{} trees into
// something encoding/json accepts.
func normalize(x any) any {
	switch v := x.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = normalize(val)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, val := range v {
			s[i] = normalize(val)
		}
		return s
	default:
		return v
	}
}
