// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/format"
	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/tableview"
)

// Config is what the browser shows and how.
type Config struct {
	Title   string
	Records []*record.Record
	Columns columns.List
	Filter  string
	Sort    tableview.SortState
	// SortCaseSensitive compares the primary sort column case sensitively.
	SortCaseSensitive bool
	// SortRest holds the secondary keys in --sort syntax. They break ties
	// whatever column the user sorts by.
	SortRest    string
	ShowActions bool
	Styles      tableview.Styles
	Dates       format.DateFormatter
	// ExportFile is where x writes. Empty means DefaultExportFile with the
	// format's extension.
	ExportFile   string
	ExportFormat string
}

const DefaultExportFile = "invctl-export"

type requestKind int

const (
	sortRequest requestKind = iota
	detailsRequest
	exportRequest
)

type request struct {
	kind   requestKind
	key    string
	record *record.Record
}

// inbox queues widget requests until the model's Update drains them. It is
// shared by pointer so the listener survives Bubble Tea's value copies.
type inbox struct {
	pending []request
}

func (in *inbox) listener() tableview.Listener {
	return tableview.Handlers{
		OnSort: func(k string) {
			in.pending = append(in.pending, request{kind: sortRequest, key: k})
		},
		OnViewDetails: func(r *record.Record) {
			in.pending = append(in.pending, request{kind: detailsRequest, record: r})
		},
		OnExport: func() {
			in.pending = append(in.pending, request{kind: exportRequest})
		},
	}
}

func (in *inbox) drain() []request {
	out := in.pending
	in.pending = nil
	return out
}

type exportedMsg struct {
	path  string
	count int
	err   error
}

// Model is the Bubble Tea model of the browser.
type Model struct {
	cfg   Config
	inbox *inbox
	table tableview.Model
	keys  keyMap

	sort tableview.SortState
	rows []*record.Record

	detail   *record.Record
	viewport viewport.Model

	status string
	width  int
	height int
	now    func() time.Time
}

func New(cfg Config) Model {
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "csv"
	}
	if cfg.Styles.Status == nil {
		cfg.Styles = tableview.DefaultStyles()
	}

	if c, ok := cfg.Columns.Find(cfg.Sort.Column); ok && cfg.Sort.Column != "" {
		cfg.Sort.Column = c.Key
	}

	in := &inbox{}
	m := Model{
		cfg:   cfg,
		inbox: in,
		sort:  cfg.Sort,
		now:   time.Now,
	}
	m.rows = output.Prepare(cfg.Records, cfg.Columns, cfg.Filter, m.sortSpec())

	w := tableview.New(m.props(), in.listener(), tableview.Options{Dates: cfg.Dates})
	m.table = tableview.NewModel(w, cfg.Styles)
	m.keys = defaultKeyMap(m.table.Keys())
	m.table.SetHelpKeys(m.keys)
	m.viewport = viewport.New(0, 0)
	return m
}

func (m Model) props() tableview.Props {
	return tableview.Props{
		Records:     m.rows,
		Columns:     m.cfg.Columns,
		Sort:        m.sort,
		ShowActions: m.cfg.ShowActions,
	}
}

// sortSpec is the current sort followed by the configured secondary keys.
func (m Model) sortSpec() string {
	spec := m.sort.Spec()
	if spec != "" && m.cfg.SortCaseSensitive {
		spec = "!" + spec
	}
	switch {
	case spec == "":
		return m.cfg.SortRest
	case m.cfg.SortRest == "":
		return spec
	}
	return spec + "," + m.cfg.SortRest
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetSize(msg.Width, max(0, msg.Height-2))
		m.viewport.Width = max(0, msg.Width-4)
		m.viewport.Height = max(0, msg.Height-5)
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			log.Error(msg.err.Error())
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("exported %d records to %s", msg.count, msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.table.ToggleHelp()
			return m, nil
		}

		if m.detail != nil {
			if key.Matches(msg, m.keys.Back) {
				m.detail = nil
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	reqCmd := m.handleRequests()
	return m, tea.Batch(cmd, reqCmd)
}

// handleRequests acts on what the widget asked for during the last update.
func (m *Model) handleRequests() tea.Cmd {
	var cmds []tea.Cmd
	for _, req := range m.inbox.drain() {
		switch req.kind {
		case sortRequest:
			m.sort = m.sort.Next(req.key)
			m.rows = output.Prepare(m.cfg.Records, m.cfg.Columns, m.cfg.Filter, m.sortSpec())
			m.table.SetProps(m.props())
			m.status = fmt.Sprintf("sorted by %s %s", req.key, m.sort.Direction)
		case detailsRequest:
			m.detail = req.record
			m.viewport.SetContent(m.renderDetail(req.record))
			m.viewport.GotoTop()
		case exportRequest:
			cmds = append(cmds, m.exportCmd())
		}
	}
	return tea.Batch(cmds...)
}

// Sort is the current sort state.
func (m Model) Sort() tableview.SortState { return m.sort }

// Rows are the records currently shown, in display order.
func (m Model) Rows() []*record.Record { return m.rows }

// Detail is the record in the detail pane, if open.
func (m Model) Detail() *record.Record { return m.detail }

func (m Model) Status() string { return m.status }

func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.titleLine())

	var body string
	if m.detail != nil {
		body = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Render(m.viewport.View())
	} else {
		body = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, m.status)
}

func (m Model) titleLine() string {
	parts := []string{"invctl"}
	if m.cfg.Title != "" {
		parts = append(parts, m.cfg.Title)
	}
	count := fmt.Sprintf("%d records", len(m.rows))
	if len(m.rows) != len(m.cfg.Records) {
		count = fmt.Sprintf("%d/%d records", len(m.rows), len(m.cfg.Records))
	}
	parts = append(parts, count)
	if m.sort.Column != "" {
		parts = append(parts, "sorted by "+m.sort.Column+" "+m.sort.Direction.Glyph())
	}
	return strings.Join(parts, " · ")
}
