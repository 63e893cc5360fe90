// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tableview

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/format"
	"github.com/staranto/invctl/internal/record"
)

// recorder counts every request it receives.
type recorder struct {
	sorts   []string
	details []*record.Record
	exports int
}

func (r *recorder) Sort(key string)                { r.sorts = append(r.sorts, key) }
func (r *recorder) ViewDetails(rec *record.Record) { r.details = append(r.details, rec) }
func (r *recorder) ExportData()                    { r.exports++ }

func testColumns() columns.List {
	return columns.List{
		{Key: "id", Label: "ID", Include: true},
		{Key: "name", Label: "Name", Include: true},
		{Key: "status", Label: "Status", Type: columns.TypeStatus, Include: true},
		{Key: "createdAt", Label: "Created", Type: columns.TypeDate, Include: true},
		{Key: "region", Include: false},
	}
}

func testRecords() []*record.Record {
	return []*record.Record{
		record.FromMap(map[string]any{"id": 7, "name": "x", "status": "RUNNING", "createdAt": "2024-01-15T10:00:00Z"}),
		record.FromMap(map[string]any{"id": 8, "name": "y", "status": "stopped", "createdAt": nil}),
		record.FromMap(map[string]any{"id": 9, "name": nil, "status": "", "createdAt": "not a date"}),
	}
}

func testOptions() Options {
	return Options{Dates: format.DateFormatter{Location: time.UTC}}
}

func TestActivateHeaderEmitsOneSort(t *testing.T) {
	rec := &recorder{}
	props := Props{Records: testRecords(), Columns: testColumns(), Sort: SortState{Column: "id", Direction: Descending}}
	w := New(props, rec, testOptions())

	w.ActivateHeader("name")

	assert.Equal(t, []string{"name"}, rec.sorts)
	assert.Equal(t, "id", w.Props().Sort.Column, "widget must not change its own sort state")
	assert.Equal(t, Descending, w.Props().Sort.Direction)
	assert.Equal(t, "7", w.Rows()[0][0].Text, "widget must not reorder rows")
	assert.Zero(t, rec.exports)
	assert.Empty(t, rec.details)
}

func TestActivateHeaderIgnoresUnknownColumns(t *testing.T) {
	rec := &recorder{}
	w := New(Props{Records: testRecords(), Columns: testColumns()}, rec, testOptions())

	w.ActivateHeader("nope")
	w.ActivateHeader("region")
	w.ActivateHeader("")

	assert.Empty(t, rec.sorts)
}

func TestRequestDetailsPassesSameRecord(t *testing.T) {
	rec := &recorder{}
	target := record.FromMap(map[string]any{"id": 7, "name": "x"})
	w := New(Props{Records: []*record.Record{target}, Columns: testColumns()}, rec, testOptions())

	w.RequestDetails(0)

	require.Len(t, rec.details, 1)
	assert.Same(t, target, rec.details[0])
	assert.Empty(t, rec.sorts)
	assert.Zero(t, rec.exports)

	w.RequestDetails(1)
	w.RequestDetails(-1)
	assert.Len(t, rec.details, 1, "out of range rows are ignored")
}

func TestRequestExportEmitsOnce(t *testing.T) {
	rec := &recorder{}
	w := New(Props{Records: testRecords(), Columns: testColumns()}, rec, testOptions())

	w.RequestExport()

	assert.Equal(t, 1, rec.exports)
	assert.Empty(t, rec.sorts)
	assert.Empty(t, rec.details)
}

func TestHandlers(t *testing.T) {
	var sorted string
	var exported bool
	h := Handlers{
		OnSort:   func(k string) { sorted = k },
		OnExport: func() { exported = true },
	}
	w := New(Props{Records: testRecords(), Columns: testColumns()}, h, testOptions())

	w.ActivateHeader("status")
	w.RequestExport()
	assert.NotPanics(t, func() { w.RequestDetails(0) })

	assert.Equal(t, "status", sorted)
	assert.True(t, exported)
}

func TestNilListener(t *testing.T) {
	w := New(Props{Records: testRecords(), Columns: testColumns()}, nil, testOptions())
	assert.NotPanics(t, func() {
		w.ActivateHeader("id")
		w.RequestDetails(0)
		w.RequestExport()
	})
}

func TestHeaders(t *testing.T) {
	tests := []struct {
		name    string
		sort    SortState
		actions bool
		want    []string
	}{
		{
			name: "unsorted",
			want: []string{"ID", "Name", "Status", "Created"},
		},
		{
			name: "ascending",
			sort: SortState{Column: "name"},
			want: []string{"ID", "Name ▲", "Status", "Created"},
		},
		{
			name: "descending by label",
			sort: SortState{Column: "Created", Direction: Descending},
			want: []string{"ID", "Name", "Status", "Created ▼"},
		},
		{
			name:    "actions column",
			sort:    SortState{Column: "id", Direction: Descending},
			actions: true,
			want:    []string{"ID ▼", "Name", "Status", "Created", "Actions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(Props{Records: testRecords(), Columns: testColumns(), Sort: tt.sort, ShowActions: tt.actions}, nil, testOptions())
			var got []string
			for _, h := range w.Headers() {
				got = append(got, h.Text())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRows(t *testing.T) {
	w := New(Props{Records: testRecords(), Columns: testColumns(), ShowActions: true}, nil, testOptions())

	rows := w.Rows()
	require.Len(t, rows, 3)

	assert.Equal(t, []Cell{
		{Text: "7"},
		{Text: "x"},
		{Text: "RUNNING", Class: format.ClassActive},
		{Text: "1/15/2024, 10:00:00 AM"},
		{Text: DefaultActionsLabel},
	}, rows[0])

	assert.Equal(t, Cell{Text: "stopped", Class: format.ClassInactive}, rows[1][2])
	assert.Equal(t, Cell{}, rows[1][3], "null date renders empty")
	assert.Equal(t, Cell{}, rows[2][1], "null renders empty")
	assert.Equal(t, Cell{}, rows[2][2], "empty status has no class")
	assert.Equal(t, format.InvalidDate, rows[2][3].Text)
}

func TestCellClass(t *testing.T) {
	w := New(Props{Records: testRecords(), Columns: testColumns()}, nil, testOptions())

	assert.Equal(t, format.ClassActive, w.CellClass(0, 2))
	assert.Equal(t, "", w.CellClass(0, 1))
	assert.Equal(t, "", w.CellClass(2, 2))
	assert.Equal(t, "", w.CellClass(99, 0))
}

func TestPlaceholderAndTransform(t *testing.T) {
	cols := columns.List{{Key: "name", Include: true, TransformSpec: "u3"}, {Key: "missing", Include: true}}
	opts := testOptions()
	opts.Placeholder = "-"
	w := New(Props{Records: []*record.Record{record.FromMap(map[string]any{"name": "webserver"})}, Columns: cols}, nil, opts)

	rows := w.Rows()
	assert.Equal(t, "WEB", rows[0][0].Text)
	assert.Equal(t, "-", rows[0][1].Text)
}

func TestCheckStrictDates(t *testing.T) {
	opts := testOptions()
	w := New(Props{Records: testRecords()[:2], Columns: testColumns()}, nil, opts)
	assert.NoError(t, w.Check())

	opts.Dates.Strict = true
	w = New(Props{Records: testRecords(), Columns: testColumns()}, nil, opts)
	err := w.Check()
	require.Error(t, err)
	assert.True(t, errors.Is(err, format.ErrInvalidDate))
	assert.Contains(t, err.Error(), "createdAt row 2")
}

func TestSortState(t *testing.T) {
	tests := []struct {
		spec string
		want SortState
		back string
	}{
		{spec: "", want: SortState{}, back: ""},
		{spec: "name", want: SortState{Column: "name"}, back: "name"},
		{spec: "-name", want: SortState{Column: "name", Direction: Descending}, back: "-name"},
		{spec: "!-name,id", want: SortState{Column: "name", Direction: Descending}, back: "-name"},
		{spec: " !region ", want: SortState{Column: "region"}, back: "region"},
		{spec: "-", want: SortState{}, back: ""},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got := ParseSortState(tt.spec)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.back, got.Spec())
		})
	}
}

func TestSortStateNext(t *testing.T) {
	s := SortState{}
	s = s.Next("name")
	assert.Equal(t, SortState{Column: "name", Direction: Ascending}, s)
	s = s.Next("name")
	assert.Equal(t, SortState{Column: "name", Direction: Descending}, s)
	s = s.Next("name")
	assert.Equal(t, Ascending, s.Direction)
	s = s.Next("id")
	assert.Equal(t, SortState{Column: "id", Direction: Ascending}, s)
}
