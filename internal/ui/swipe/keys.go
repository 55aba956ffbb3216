// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package swipe

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP
// =============================================================================

// KeyMap defines the keys the pager interprets while it has focus.
type KeyMap struct {
	Previous key.Binding
	Next     key.Binding
	Jump     key.Binding
	Focus    key.Binding
	Release  key.Binding
}

// DefaultKeyMap returns the default pager bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Previous: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "go to page"),
		),
		Focus: key.NewBinding(
			key.WithKeys("enter", "i"),
			key.WithHelp("enter/i", "focus page"),
		),
		Release: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to pager"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Jump, k.Focus}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.Jump},
		{k.Focus, k.Release},
	}
}

// digit returns the 1-based page number of a digit key, or 0.
func digit(s string) int {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0
	}
	return int(s[0] - '0')
}
