// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tableview

import (
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/format"
	"github.com/staranto/invctl/internal/record"
)

// Direction of the caller's sort.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Glyph is the header indicator for d.
func (d Direction) Glyph() string {
	if d == Descending {
		return "▼"
	}
	return "▲"
}

func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// SortState is owned by the widget's parent. An empty Column means unsorted.
type SortState struct {
	Column    string
	Direction Direction
}

// Spec renders the state in the --sort flag syntax.
func (s SortState) Spec() string {
	if s.Column == "" {
		return ""
	}
	if s.Direction == Descending {
		return "-" + s.Column
	}
	return s.Column
}

// ParseSortState reads the primary key of a --sort spec. Case sensitivity
// markers are dropped since they do not affect the glyph.
func ParseSortState(spec string) SortState {
	first := strings.TrimSpace(strings.Split(spec, ",")[0])
	var s SortState
	for len(first) > 0 && (first[0] == '-' || first[0] == '!') {
		if first[0] == '-' {
			s.Direction = Descending
		}
		first = first[1:]
	}
	s.Column = first
	if s.Column == "" {
		s.Direction = Ascending
	}
	return s
}

// Next is the state after the user activates key: the same column flips
// direction, a new column starts ascending.
func (s SortState) Next(key string) SortState {
	if key == s.Column {
		return SortState{Column: key, Direction: s.Direction.Flip()}
	}
	return SortState{Column: key, Direction: Ascending}
}

// Listener receives the widget's requests. Calls are synchronous.
type Listener interface {
	Sort(columnKey string)
	ViewDetails(r *record.Record)
	ExportData()
}

// Handlers adapts plain funcs to a Listener. Nil funcs are ignored.
type Handlers struct {
	OnSort        func(columnKey string)
	OnViewDetails func(r *record.Record)
	OnExport      func()
}

func (h Handlers) Sort(columnKey string) {
	if h.OnSort != nil {
		h.OnSort(columnKey)
	}
}

func (h Handlers) ViewDetails(r *record.Record) {
	if h.OnViewDetails != nil {
		h.OnViewDetails(r)
	}
}

func (h Handlers) ExportData() {
	if h.OnExport != nil {
		h.OnExport()
	}
}

// Props are the widget inputs.
type Props struct {
	Records     []*record.Record
	Columns     columns.List
	Sort        SortState
	ShowActions bool
}

// Options tune cell rendering.
type Options struct {
	// Dates formats date typed columns.
	Dates format.DateFormatter
	// Placeholder replaces empty cells.
	Placeholder string
	// ActionsTitle and ActionsLabel fill the actions column.
	ActionsTitle string
	ActionsLabel string
}

const (
	DefaultActionsTitle = "Actions"
	DefaultActionsLabel = "[view]"
)

// Header is one rendered column title.
type Header struct {
	Key   string
	Title string
	// Glyph is the sort indicator, empty unless this is the sorted column.
	Glyph   string
	Actions bool
}

// Text is the title with its glyph.
func (h Header) Text() string {
	if h.Glyph == "" {
		return h.Title
	}
	return h.Title + " " + h.Glyph
}

// Cell is one rendered value.
type Cell struct {
	Text  string
	Class string
}

// Widget renders Props. It holds no state beyond its inputs.
type Widget struct {
	props    Props
	visible  columns.List
	listener Listener
	opts     Options
}

// New builds a widget. A nil listener drops every request.
func New(p Props, l Listener, opts Options) *Widget {
	if l == nil {
		l = Handlers{}
	}
	if opts.ActionsTitle == "" {
		opts.ActionsTitle = DefaultActionsTitle
	}
	if opts.ActionsLabel == "" {
		opts.ActionsLabel = DefaultActionsLabel
	}
	w := &Widget{listener: l, opts: opts}
	w.SetProps(p)
	return w
}

// SetProps replaces the inputs. The parent calls this after it has acted on
// a request.
func (w *Widget) SetProps(p Props) {
	w.props = p
	w.visible = p.Columns.Included()
}

func (w *Widget) Props() Props { return w.props }

// Len is the number of rows.
func (w *Widget) Len() int { return len(w.props.Records) }

// Columns are the displayed columns, not counting actions.
func (w *Widget) Columns() columns.List { return w.visible }

// Headers returns the column titles, with the sort glyph on the sorted
// column and the actions column last when enabled.
func (w *Widget) Headers() []Header {
	headers := make([]Header, 0, len(w.visible)+1)
	for _, c := range w.visible {
		h := Header{Key: c.Key, Title: c.Title()}
		if w.isSorted(c) {
			h.Glyph = w.props.Sort.Direction.Glyph()
		}
		headers = append(headers, h)
	}
	if w.props.ShowActions {
		headers = append(headers, Header{Title: w.opts.ActionsTitle, Actions: true})
	}
	return headers
}

func (w *Widget) isSorted(c columns.Column) bool {
	s := w.props.Sort.Column
	return s != "" && (s == c.Key || s == c.Label)
}

// Cell renders one value. It fails only for malformed dates under a strict
// formatter, in which case the text is format.InvalidDate.
func (w *Widget) Cell(row, col int) (Cell, error) {
	if row < 0 || row >= len(w.props.Records) {
		return Cell{}, fmt.Errorf("row %d out of range", row)
	}
	if w.props.ShowActions && col == len(w.visible) {
		return Cell{Text: w.opts.ActionsLabel}, nil
	}
	if col < 0 || col >= len(w.visible) {
		return Cell{}, fmt.Errorf("column %d out of range", col)
	}

	c := w.visible[col]
	v := record.GetCell(w.props.Records[row], c.Key)

	var (
		cell Cell
		err  error
	)
	switch c.Type {
	case columns.TypeDate:
		if v.IsEmpty() {
			break
		}
		cell.Text, err = w.opts.Dates.FormatValue(v)
		if err != nil {
			cell.Text = format.InvalidDate
			err = fmt.Errorf("%s row %d: %w", c.Key, row, err)
		}
	case columns.TypeStatus:
		cell.Text = v.String()
		cell.Class = format.StatusClass(cell.Text)
	default:
		cell.Text = v.String()
	}

	cell.Text = c.Transform(cell.Text)
	if cell.Text == "" {
		cell.Text = w.opts.Placeholder
	}
	return cell, err
}

// CellClass is the status class of a cell, or "" for unclassed cells.
func (w *Widget) CellClass(row, col int) string {
	cell, _ := w.Cell(row, col)
	return cell.Class
}

// Rows renders every cell. Strict date failures render as InvalidDate; use
// Check to surface them.
func (w *Widget) Rows() [][]Cell {
	width := len(w.visible)
	if w.props.ShowActions {
		width++
	}
	rows := make([][]Cell, len(w.props.Records))
	for r := range w.props.Records {
		rows[r] = make([]Cell, width)
		for c := 0; c < width; c++ {
			rows[r][c], _ = w.Cell(r, c)
		}
	}
	return rows
}

// Check returns the first cell error, if any.
func (w *Widget) Check() error {
	for r := range w.props.Records {
		for c, col := range w.visible {
			if col.Type != columns.TypeDate {
				continue
			}
			if _, err := w.Cell(r, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// ActivateHeader asks the parent to sort by key. Keys that are not displayed
// columns are ignored.
func (w *Widget) ActivateHeader(key string) {
	for _, c := range w.visible {
		if c.Key == key {
			log.Debugf("sort requested: %s", key)
			w.listener.Sort(key)
			return
		}
	}
	log.Debugf("ignoring sort on unknown column %q", key)
}

// RequestDetails asks the parent to show the record at row.
func (w *Widget) RequestDetails(row int) {
	if row < 0 || row >= len(w.props.Records) {
		log.Debugf("ignoring details for row %d", row)
		return
	}
	w.listener.ViewDetails(w.props.Records[row])
}

// RequestExport asks the parent to export the current rows.
func (w *Widget) RequestExport() {
	w.listener.ExportData()
}
