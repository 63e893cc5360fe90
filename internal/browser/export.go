// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/staranto/invctl/internal/output"
	"github.com/staranto/invctl/internal/record"
)

func (m Model) exportPath() string {
	if m.cfg.ExportFile != "" {
		return m.cfg.ExportFile
	}
	return DefaultExportFile + "." + m.cfg.ExportFormat
}

// exportCmd writes the rows as currently filtered and sorted. The slice is
// copied so later sorts do not race the write.
func (m Model) exportCmd() tea.Cmd {
	rows := make([]*record.Record, len(m.rows))
	copy(rows, m.rows)
	path := m.exportPath()
	cols := m.cfg.Columns
	format := m.cfg.ExportFormat

	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return exportedMsg{path: path, err: fmt.Errorf("failed to create export: %w", err)}
		}
		err = output.Export(rows, cols, format, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return exportedMsg{path: path, count: len(rows), err: err}
	}
}
