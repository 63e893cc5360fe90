// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tableview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/invctl/internal/record"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelKeysBecomeRequests(t *testing.T) {
	rec := &recorder{}
	records := testRecords()
	m := NewModel(New(Props{Records: records, Columns: testColumns()}, rec, testOptions()), PlainStyles())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(runes("s"))
	assert.Equal(t, []string{"name"}, rec.sorts)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, rec.details, 1)
	assert.Same(t, records[1], rec.details[0])

	m, _ = m.Update(runes("x"))
	assert.Equal(t, 1, rec.exports)
	assert.Equal(t, 1, m.Cursor())
	assert.Equal(t, 1, m.Focus())
}

func TestModelCursorBounds(t *testing.T) {
	m := NewModel(New(Props{Records: testRecords(), Columns: testColumns()}, nil, testOptions()), PlainStyles())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())

	m, _ = m.Update(runes("G"))
	assert.Equal(t, 2, m.Cursor())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor())

	m, _ = m.Update(runes("g"))
	assert.Equal(t, 0, m.Cursor())

	for i := 0; i < 10; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	assert.Equal(t, 3, m.Focus())

	m.SetProps(Props{Records: testRecords()[:1], Columns: testColumns()[:2]})
	assert.Equal(t, 1, m.Focus())
}

func TestModelSetPropsClampsCursor(t *testing.T) {
	m := NewModel(New(Props{Records: testRecords(), Columns: testColumns()}, nil, testOptions()), PlainStyles())
	m, _ = m.Update(runes("G"))
	require.Equal(t, 2, m.Cursor())

	m.SetProps(Props{Records: testRecords()[:1], Columns: testColumns()})
	assert.Equal(t, 0, m.Cursor())

	m.SetProps(Props{Columns: testColumns()})
	assert.Equal(t, 0, m.Cursor())
}

func TestModelView(t *testing.T) {
	props := Props{Records: testRecords(), Columns: testColumns(), Sort: SortState{Column: "name", Direction: Descending}}
	m := NewModel(New(props, nil, testOptions()), PlainStyles())

	view := m.View()
	assert.Contains(t, view, "Name ▼")
	assert.Contains(t, view, "RUNNING")
	assert.Contains(t, view, "1/15/2024, 10:00:00 AM")
	assert.Contains(t, view, "─")
}

func TestModelViewScrolls(t *testing.T) {
	var records []*record.Record
	for i := 0; i < 20; i++ {
		records = append(records, record.FromMap(map[string]any{"id": i, "name": "n"}))
	}
	m := NewModel(New(Props{Records: records, Columns: testColumns()[:2]}, nil, testOptions()), PlainStyles())
	m.SetSize(80, 8)

	lines := strings.Split(m.View(), "\n")
	assert.Contains(t, lines[2], "0")

	m, _ = m.Update(runes("G"))
	view := m.View()
	assert.Contains(t, view, "19")
	assert.NotContains(t, view, "\n0 ")
}

func TestModelViewEmpty(t *testing.T) {
	m := NewModel(New(Props{Columns: testColumns()}, nil, testOptions()), PlainStyles())
	assert.Contains(t, m.View(), "No records")
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc…", fit("abcdefgh", 4))
	assert.Equal(t, "abcd", fit("abcd", 4))
}
