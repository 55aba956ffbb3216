// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME PANEL
// =============================================================================

// Welcome is a centered title and blurb, used for empty states.
type Welcome struct {
	Title string
	Body  string

	width  int
	height int
	theme  *styles.Theme
}

// NewWelcome creates a welcome panel.
func NewWelcome(theme *styles.Theme, title, body string) Welcome {
	return Welcome{Title: title, Body: body, theme: theme}
}

// SetSize sets the area the panel is centered in.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the panel centered in its area.
func (w Welcome) View() string {
	if w.width <= 0 || w.height <= 0 {
		return ""
	}

	textWidth := w.width - 4
	if textWidth > 60 {
		textWidth = 60
	}
	if textWidth < 1 {
		textWidth = 1
	}

	title := w.theme.WelcomeTitle.Width(textWidth).Align(lipgloss.Center).Render(w.Title)
	body := w.theme.WelcomeBody.Width(textWidth).Align(lipgloss.Center).Render(w.Body)
	content := lipgloss.JoinVertical(lipgloss.Center, title, "", body)

	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, content)
}
