// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package swipe

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// PAGES
// =============================================================================

// Page is one screen of the strip.
type Page interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Page, tea.Cmd)
	View() string
	// SetSize gives the page its content area. Every page gets the full
	// viewport width.
	SetSize(width, height int)
}

// Focusable is implemented by pages that take over the keyboard, such as
// a page with a text input.
type Focusable interface {
	Focus() tea.Cmd
	Blur()
}

// =============================================================================
// MESSAGES
// =============================================================================

// FrameMsg advances a running animation by one frame.
type FrameMsg struct {
	Time time.Time
	loop int
}

// PageChangedMsg reports that the current page moved.
type PageChangedMsg struct {
	From int
	To   int
	Name string
}

// AnimationStartedMsg reports the start of a spring run.
type AnimationStartedMsg struct {
	From int
	To   int
}

// SettledMsg reports that the strip came to rest on Index.
type SettledMsg struct {
	Index int
}

// FocusChangedMsg reports a keyboard focus handoff. Page is the active page
// and Focused is true when that page now owns the keyboard.
type FocusChangedMsg struct {
	Page    int
	Focused bool
}

// NavigateMsg asks the view to animate to page Index. It is how code outside
// the key and mouse handlers, such as chat commands, turns the page.
type NavigateMsg struct {
	Index int
}

// emit wraps a message as a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
