// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tableview

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// MaxColumnWidth caps a column; longer cells are truncated with an ellipsis.
const MaxColumnWidth = 48

const columnGap = "  "

// Model drives a Widget from the keyboard. It tracks the cursor and the
// focused header, and turns key presses into widget requests. Rows are
// rendered by hand because styled cells break bubbles/table width math.
type Model struct {
	widget   *Widget
	keys     KeyMap
	help     help.Model
	helpKeys help.KeyMap
	styles   Styles

	cursor int
	offset int
	focus  int

	width  int
	height int
}

func NewModel(w *Widget, styles Styles) Model {
	keys := DefaultKeyMap()
	return Model{
		widget:   w,
		keys:     keys,
		help:     help.New(),
		helpKeys: keys,
		styles:   styles,
	}
}

// SetHelpKeys replaces the bindings shown on the help line, so a parent can
// list its own keys next to the table's.
func (m *Model) SetHelpKeys(k help.KeyMap) { m.helpKeys = k }

// ToggleHelp switches between the short and full help.
func (m *Model) ToggleHelp() { m.help.ShowAll = !m.help.ShowAll }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Widget() *Widget { return m.widget }
func (m Model) Keys() KeyMap    { return m.keys }
func (m Model) Cursor() int     { return m.cursor }

// Focus is the index of the focused header.
func (m Model) Focus() int { return m.focus }

// SetSize sets the area available to the table, help line included. A zero
// height renders every row.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width
	m.clamp()
}

// SetProps forwards new inputs to the widget and keeps the cursor in range.
func (m *Model) SetProps(p Props) {
	m.widget.SetProps(p)
	m.clamp()
}

func (m *Model) clamp() {
	n := m.widget.Len()
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if cols := len(m.widget.Columns()); m.focus >= cols {
		m.focus = max(0, cols-1)
	}
	visible := m.visibleRows()
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	if visible > 0 && m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// visibleRows is the number of data rows that fit, or 0 for no limit.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return 0
	}
	used := 2 + lipgloss.Height(m.help.View(m.helpKeys))
	return max(1, m.height-used)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		page := m.visibleRows()
		if page == 0 {
			page = m.widget.Len()
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor--
		case key.Matches(msg, m.keys.Down):
			m.cursor++
		case key.Matches(msg, m.keys.PageUp):
			m.cursor -= page
		case key.Matches(msg, m.keys.PageDown):
			m.cursor += page
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
		case key.Matches(msg, m.keys.Bottom):
			m.cursor = m.widget.Len() - 1
		case key.Matches(msg, m.keys.Left):
			if m.focus > 0 {
				m.focus--
			}
		case key.Matches(msg, m.keys.Right):
			if m.focus < len(m.widget.Columns())-1 {
				m.focus++
			}
		case key.Matches(msg, m.keys.Sort):
			if cols := m.widget.Columns(); m.focus < len(cols) {
				m.widget.ActivateHeader(cols[m.focus].Key)
			}
		case key.Matches(msg, m.keys.Details):
			m.widget.RequestDetails(m.cursor)
		case key.Matches(msg, m.keys.Export):
			m.widget.RequestExport()
		}
		m.clamp()
	}
	return m, nil
}

func (m Model) View() string {
	headers := m.widget.Headers()
	rows := m.widget.Rows()

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h.Text())
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c.Text))
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], MaxColumnWidth)
	}

	var b strings.Builder

	cells := make([]string, len(headers))
	total := 0
	for i, h := range headers {
		style := m.styles.Header
		if i == m.focus && !h.Actions {
			style = m.styles.FocusedHeader
		}
		cells[i] = style.Render(fit(h.Text(), widths[i]))
		total += widths[i]
	}
	total += len(columnGap) * max(0, len(headers)-1)
	b.WriteString(strings.Join(cells, columnGap) + "\n")
	b.WriteString(m.styles.Separator.Render(strings.Repeat("─", total)) + "\n")

	if len(rows) == 0 {
		b.WriteString(m.styles.Empty.Render("No records") + "\n")
	} else {
		end := len(rows)
		if v := m.visibleRows(); v > 0 {
			end = min(m.offset+v, len(rows))
		}
		for r := m.offset; r < end; r++ {
			b.WriteString(m.renderRow(rows[r], widths, r == m.cursor) + "\n")
		}
	}

	b.WriteString(m.help.View(m.helpKeys))
	return b.String()
}

func (m Model) renderRow(row []Cell, widths []int, selected bool) string {
	parts := make([]string, len(row))
	for i, c := range row {
		text := fit(c.Text, widths[i])
		switch {
		case selected:
			parts[i] = text
		case c.Class != "":
			if style, ok := m.styles.Status[c.Class]; ok {
				parts[i] = style.Render(text)
				continue
			}
			parts[i] = m.styles.Cell.Render(text)
		default:
			parts[i] = m.styles.Cell.Render(text)
		}
	}
	line := strings.Join(parts, columnGap)
	if selected {
		return m.styles.Selected.Render(line)
	}
	return line
}

// fit truncates s to width and pads it with spaces.
func fit(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
