// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements swipe.Page.
// Layout: conversation (viewport or welcome) + status (1 line) + input (3 lines).
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var body string
	if m.conversation.IsEmpty() {
		body = m.welcome.View()
	} else {
		body = m.viewport.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatus(), m.renderInput())
}

func (m *Model) renderStatus() string {
	var line string
	switch {
	case m.pending.active():
		line = m.spinner.View() + m.theme.Typing.Render(" Psy is typing")
	case m.focused:
		line = m.theme.Status.Render("enter send · esc back to pages")
	default:
		line = m.theme.Status.Render("enter to start typing")
	}
	return ansi.Truncate(line, m.width, "")
}

func (m *Model) renderInput() string {
	style := m.theme.InputContainer
	if m.focused {
		style = m.theme.InputFocused
	}
	w := m.width - 2
	if w < 1 {
		w = 1
	}
	return style.Width(w).Render(m.input.View())
}
