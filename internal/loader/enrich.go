// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"strings"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/tidwall/gjson"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/driller"
	"github.com/staranto/invctl/internal/record"
)

// StatusFields are the per-type state fields the collector writes. The first
// one present becomes the record's status when it has none.
var StatusFields = []string{
	"status",
	"state",
	"instanceState",
	"volumeState",
	"snapshotState",
	"imageState",
	"dbInstanceStatus",
	"connectionState",
	"virtualInterfaceState",
}

// Derived ARN fields.
const (
	FieldARNService  = "arnService"
	FieldARNAccount  = "arnAccount"
	FieldARNRegion   = "arnRegion"
	FieldARNResource = "arnResource"
)

// buildRecord converts one document into a record, keeping document order,
// then adds drilled columns, a status and the ARN fields.
func buildRecord(item gjson.Result, cols columns.List) *record.Record {
	r := record.New()
	item.ForEach(func(key, value gjson.Result) bool {
		r.Set(key.String(), fromResult(value))
		return true
	})
	r.SetRaw(item.Raw)

	drill(r, item.Raw, cols)
	synthesizeStatus(r)
	decomposeARN(r)
	return r
}

func fromResult(v gjson.Result) record.Value {
	switch v.Type {
	case gjson.String:
		return record.String(v.Str)
	case gjson.Number:
		return record.Number(v.Num)
	case gjson.True:
		return record.Bool(true)
	case gjson.False:
		return record.Bool(false)
	case gjson.JSON:
		return record.Raw(v.Raw)
	default:
		return record.Null()
	}
}

// drill stores the value of every dotted column key under the full key.
func drill(r *record.Record, raw string, cols columns.List) {
	for _, key := range cols.Keys() {
		if !strings.ContainsAny(key, ".[") {
			continue
		}
		if _, ok := r.Lookup(key); ok {
			continue
		}
		if v := driller.Driller(raw, key); v.Exists() {
			r.Set(key, fromResult(v))
		}
	}
}

func synthesizeStatus(r *record.Record) {
	if v, ok := r.Lookup("status"); ok && !v.IsEmpty() {
		return
	}
	for _, f := range StatusFields[1:] {
		v, ok := r.Lookup(f)
		if !ok || v.IsEmpty() || v.Kind() != record.KindString {
			continue
		}
		r.Set("status", v)
		return
	}
}

// decomposeARN splits the first ARN valued field. Fields already present are
// never overwritten.
func decomposeARN(r *record.Record) {
	for _, k := range r.Keys() {
		if !strings.HasSuffix(strings.ToLower(k), "arn") {
			continue
		}
		v := record.GetCell(r, k)
		if v.Kind() != record.KindString || !arn.IsARN(v.String()) {
			continue
		}
		parsed, err := arn.Parse(v.String())
		if err != nil {
			log.Debugf("bad arn in %s: %v", k, err)
			continue
		}
		setIfAbsent(r, FieldARNService, parsed.Service)
		setIfAbsent(r, FieldARNAccount, parsed.AccountID)
		setIfAbsent(r, FieldARNRegion, parsed.Region)
		setIfAbsent(r, FieldARNResource, parsed.Resource)
		return
	}
}

func setIfAbsent(r *record.Record, key, value string) {
	if value == "" {
		return
	}
	if _, ok := r.Lookup(key); ok {
		return
	}
	r.Set(key, record.String(value))
}
