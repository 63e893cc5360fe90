// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browser

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/staranto/invctl/internal/tableview"
)

type keyMap struct {
	table tableview.KeyMap
	Back  key.Binding
	Quit  key.Binding
	Help  key.Binding
}

func defaultKeyMap(table tableview.KeyMap) keyMap {
	return keyMap{
		table: table,
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.table.ShortHelp(), k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return append(k.table.FullHelp(), []key.Binding{k.Back, k.Help, k.Quit})
}
