// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/config"
	"github.com/staranto/invctl/internal/filters"
	"github.com/staranto/invctl/internal/format"
	"github.com/staranto/invctl/internal/record"
	"github.com/staranto/invctl/internal/tableview"
)

// View carries the presentation flags shared by the commands.
type View struct {
	Filter      string
	Sort        string
	Output      string
	Titles      bool
	Color       bool
	ShowActions bool
	Dates       format.DateFormatter
}

// ViewFromCommand reads the common flags off cmd.
func ViewFromCommand(cmd *cli.Command) View {
	v := View{
		Filter:      cmd.String("filter"),
		Sort:        cmd.String("sort"),
		Output:      cmd.String("output"),
		Titles:      cmd.Bool("titles"),
		Color:       cmd.Bool("color"),
		ShowActions: cmd.Bool("actions"),
		Dates:       format.ConfiguredDateFormatter(),
	}
	if cmd.Bool("strict-dates") {
		v.Dates.Strict = true
	}
	return v
}

// Prepare filters and sorts a copy of records. The input slice is left as is.
func Prepare(records []*record.Record, cols columns.List, filter, sort string) []*record.Record {
	prepared := filters.FilterDataset(records, cols, filter)
	SortDataset(prepared, cols, sort)
	return prepared
}

// SliceDiceSpit orchestrates filtering, sorting and rendering of a record set
// according to the view.
func SliceDiceSpit(records []*record.Record, cols columns.List, view View, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	prepared := Prepare(records, cols, view.Filter, view.Sort)
	log.Debugf("records: %d of %d after filter", len(prepared), len(records))

	switch view.Output {
	case "raw":
		return writeRaw(prepared, w)
	case "json", "yaml", "csv":
		return Export(prepared, cols, view.Output, w)
	case "", "text":
		wdg := tableview.New(tableview.Props{
			Records:     prepared,
			Columns:     cols,
			Sort:        tableview.ParseSortState(view.Sort),
			ShowActions: view.ShowActions,
		}, nil, tableview.Options{Dates: view.Dates, Placeholder: "-"})
		return TableWriter(wdg, view, w)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, view.Output)
	}
}

// TableWriter renders the widget's headers and rows in a tabular form
// honoring color, titles and padding options.
func TableWriter(wdg *tableview.Widget, view View, w io.Writer) error {
	if view.Dates.Strict {
		if err := wdg.Check(); err != nil {
			return err
		}
	}

	if wdg.Len() == 0 {
		return nil
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if view.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	cells := wdg.Rows()
	rows := make([][]string, len(cells))
	for r, row := range cells {
		rows[r] = make([]string, len(row))
		for c, cell := range row {
			rows[r][c] = cell.Text
		}
	}

	pad, _ := config.GetInt("padding", 0)
	log.Debugf("padding: %v", pad)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case view.Color && classOf(cells, row, col) != "":
				style = cellStyle.Foreground(lipgloss.Color(tableview.StatusColor(classOf(cells, row, col))))
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if view.Titles {
		var headers []string
		for _, h := range wdg.Headers() {
			headers = append(headers, h.Text())
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}

	_, err := fmt.Fprintln(w, t)
	return err
}

func classOf(cells [][]tableview.Cell, row, col int) string {
	if row < 0 || row >= len(cells) || col < 0 || col >= len(cells[row]) {
		return ""
	}
	return cells[row][col].Class
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// DumpExamples renders a table of example command usages.
func DumpExamples(w io.Writer, examples [][2]string) {
	if len(examples) == 0 {
		return
	}
	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers("Command", "Description").
		BorderHeader(false).
		Rows(rows...)

	fmt.Fprintln(w, t)
}
