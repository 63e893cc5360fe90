// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package record

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Record is one row of inventory data: an ordered mapping from field name to
// Value. Records are shared by pointer and are never mutated by renderers.
type Record struct {
	fields map[string]Value
	keys   []string
	raw    string
}

// New returns an empty record.
func New() *Record {
	return &Record{fields: map[string]Value{}}
}

// FromMap builds a record from a decoded document. Keys are ordered
// lexically since Go maps carry no order.
func FromMap(m map[string]any) *Record {
	r := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.Set(k, FromValue(m[k]))
	}
	return r
}

// Set stores v under key, keeping the first insertion position.
func (r *Record) Set(key string, v Value) {
	if r.fields == nil {
		r.fields = map[string]Value{}
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
}

// Lookup returns the stored value and whether the key is present.
func (r *Record) Lookup(key string) (Value, bool) {
	if r == nil {
		return Empty, false
	}
	v, ok := r.fields[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Raw is the source document the record was loaded from, if any.
func (r *Record) Raw() string     { return r.raw }
func (r *Record) SetRaw(s string) { r.raw = s }

// Map returns the record as plain Go values.
func (r *Record) Map() map[string]any {
	m := make(map[string]any, r.Len())
	if r == nil {
		return m
	}
	for _, k := range r.keys {
		m[k] = r.fields[k].Interface()
	}
	return m
}

// MarshalJSON emits the fields in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.fields[k].Interface())
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GetCell returns the value stored under key, or Empty when the record is
// nil, the key is empty, or the field is missing or null. Present values are
// returned unchanged.
func GetCell(r *Record, key string) Value {
	if r == nil || key == "" {
		return Empty
	}
	v, ok := r.fields[key]
	if !ok || v.IsNull() {
		return Empty
	}
	return v
}
