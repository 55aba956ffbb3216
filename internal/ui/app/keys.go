// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/psy-tui/internal/ui/chat"
	"github.com/jeranaias/psy-tui/internal/ui/swipe"
)

// KeyMap defines the global bindings.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Theme     key.Binding
	Help      key.Binding
}

// DefaultKeyMap returns the default global bindings. Only ForceQuit works
// while a page has the keyboard.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// helpKeys merges the bindings that apply right now for help.Model.
type helpKeys struct {
	app     KeyMap
	pager   swipe.KeyMap
	chat    chat.KeyMap
	focused bool
	onChat  bool
}

func (h helpKeys) ShortHelp() []key.Binding {
	if h.focused && h.onChat {
		return append(h.chat.ShortHelp(), h.pager.Release)
	}
	if h.focused {
		return []key.Binding{h.pager.Release}
	}
	return append(h.pager.ShortHelp(), h.app.Theme, h.app.Help, h.app.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	groups := h.pager.FullHelp()
	if h.onChat {
		groups = append(groups, h.chat.FullHelp()...)
	}
	return append(groups, []key.Binding{h.app.Theme, h.app.Help, h.app.Quit, h.app.ForceQuit})
}
