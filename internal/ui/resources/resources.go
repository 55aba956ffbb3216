// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resources

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/ui/swipe"
)

// Page texts.
const (
	Title = "Resources"
	Blurb = "Helpful resources and exercises for your mental well-being."
)

const headerHeight = 4

// plainRenderer is used when no markdown renderer is given.
type plainRenderer struct{}

func (plainRenderer) Render(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(content)
}

// KeyMap defines the scroll bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d", " "), key.WithHelp("PgDn", "page down")),
	}
}

// Model is the resources page. Use it by pointer.
type Model struct {
	theme    *styles.Theme
	markdown components.MarkdownRenderer
	keys     KeyMap
	content  string
	viewport viewport.Model
	width    int
	height   int
}

// New creates the page. A nil renderer shows the markdown source wrapped.
func New(theme *styles.Theme, markdown components.MarkdownRenderer) *Model {
	if markdown == nil {
		markdown = plainRenderer{}
	}
	vp := viewport.New(80, 10)
	vp.MouseWheelEnabled = true
	return &Model{
		theme:    theme,
		markdown: markdown,
		keys:     DefaultKeyMap(),
		content:  Content,
		viewport: vp,
	}
}

// Init implements swipe.Page.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements swipe.Page.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	h := height - headerHeight
	if h < 1 {
		h = 1
	}
	m.viewport.Width = width
	m.viewport.Height = h
	m.render()
}

func (m *Model) render() {
	if m.width <= 0 {
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.markdown.Render(m.content, m.width))
	m.viewport.SetYOffset(offset)
}

// Update implements swipe.Page.
func (m *Model) Update(msg tea.Msg) (swipe.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.HalfViewUp()
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.HalfViewDown()
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case styles.ThemeChangedMsg:
		m.render()
	}
	return m, nil
}

// View implements swipe.Page.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PageTitle.Render(Title),
		m.theme.PageBlurb.Render(Blurb),
		"",
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}
