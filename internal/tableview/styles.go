// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tableview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/staranto/invctl/internal/config"
	"github.com/staranto/invctl/internal/format"
)

// Styles used by Model. Status maps a status class to its cell style.
type Styles struct {
	Header        lipgloss.Style
	FocusedHeader lipgloss.Style
	Separator     lipgloss.Style
	Cell          lipgloss.Style
	Selected      lipgloss.Style
	Empty         lipgloss.Style
	Status        map[string]lipgloss.Style
}

// Default status colours, overridable with colors.status.<class>.
var defaultStatusColors = map[string]string{
	format.ClassActive:     "#22c55e",
	format.ClassInactive:   "#eab308",
	format.ClassPending:    "#3b82f6",
	format.ClassTerminated: "#ef4444",
	format.ClassUnknown:    "#9ca3af",
}

// StatusColor returns the configured colour for a status class.
func StatusColor(class string) string {
	c, _ := config.GetString("colors.status."+class, defaultStatusColors[class])
	return c
}

// DefaultStyles builds styles from the colors.* config keys.
func DefaultStyles() Styles {
	title, _ := config.GetString("colors.title", "#f6be00")

	s := Styles{
		Header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(title)),
		FocusedHeader: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(title)),
		Separator:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")),
		Cell:          lipgloss.NewStyle(),
		Selected:      lipgloss.NewStyle().Reverse(true),
		Empty:         lipgloss.NewStyle().Faint(true),
		Status:        map[string]lipgloss.Style{},
	}
	for _, class := range format.Classes() {
		s.Status[class] = lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(class)))
	}
	return s
}

// PlainStyles carry no colour. Used when --color is off.
func PlainStyles() Styles {
	return Styles{
		Header:        lipgloss.NewStyle().Bold(true),
		FocusedHeader: lipgloss.NewStyle().Bold(true).Underline(true),
		Separator:     lipgloss.NewStyle(),
		Cell:          lipgloss.NewStyle(),
		Selected:      lipgloss.NewStyle().Reverse(true),
		Empty:         lipgloss.NewStyle(),
		Status:        map[string]lipgloss.Style{},
	}
}
