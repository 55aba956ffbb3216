// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/storage"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/ui/swipe"
)

// Page texts.
const (
	Title = "Journal"
	Blurb = "Track your thoughts and emotions over time."

	emptyText   = "No entries yet. Save a chat with ctrl+s, or press enter to write a note."
	placeholder = "Write a note..."
)

// DefaultLimit is the number of entries loaded when no limit is set.
const DefaultLimit = 100

// storeTimeout bounds every database call made from the UI.
const storeTimeout = 5 * time.Second

// previewLines is the number of content lines shown per entry.
const previewLines = 3

const (
	headerHeight = 4
	inputHeight  = 3
)

// ErrNoStore is reported when the page was created without a store.
var ErrNoStore = errors.New("journal: storage unavailable")

// Store is the persistence the page needs.
type Store interface {
	Add(ctx context.Context, content, source string) (storage.Entry, error)
	List(ctx context.Context, limit int) ([]storage.Entry, error)
	Delete(ctx context.Context, id string) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// EntriesLoadedMsg carries a fresh entry list.
type EntriesLoadedMsg struct {
	Entries []storage.Entry
	Err     error
}

// EntrySavedMsg reports the outcome of a save.
type EntrySavedMsg struct {
	Entry storage.Entry
	Err   error
}

// EntryDeletedMsg reports the outcome of a delete.
type EntryDeletedMsg struct {
	ID  string
	Err error
}

// =============================================================================
// KEYS
// =============================================================================

// KeyMap defines the journal bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Delete key.Binding
	Save   key.Binding
}

// DefaultKeyMap returns the default journal bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous entry"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next entry"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete entry"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save note"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Option configures the journal page.
type Option func(*Model)

// WithLimit sets how many entries are loaded.
func WithLimit(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now for relative timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// Model is the journal page. Use it by pointer.
type Model struct {
	theme  *styles.Theme
	store  Store
	keys   KeyMap
	limit  int
	logger *zap.Logger
	now    func() time.Time

	entries  []storage.Entry
	selected int
	loadErr  error

	viewport viewport.Model
	input    textinput.Model
	focused  bool
	width    int
	height   int
}

// New creates a journal page over store. A nil store shows the page in a
// read-only unavailable state.
func New(theme *styles.Theme, store Store, opts ...Option) *Model {
	ti := textinput.New()
	ti.Prompt = "+ "
	ti.Placeholder = placeholder
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = 4096

	vp := viewport.New(80, 10)
	vp.MouseWheelEnabled = true

	m := &Model{
		theme:    theme,
		store:    store,
		keys:     DefaultKeyMap(),
		limit:    DefaultLimit,
		logger:   zap.NewNop(),
		now:      time.Now,
		viewport: vp,
		input:    ti,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init loads the entries.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Entries returns the loaded entries, newest first.
func (m *Model) Entries() []storage.Entry { return m.entries }

// Selected returns the index of the highlighted entry.
func (m *Model) Selected() int { return m.selected }

// Focus implements swipe.Focusable.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur implements swipe.Focusable.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// SetSize implements swipe.Page.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	vpHeight := height - headerHeight - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight

	inputWidth := width - 2 - len(m.input.Prompt) - 1
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.Width = inputWidth
	m.refresh()
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m *Model) load() tea.Cmd {
	store, limit := m.store, m.limit
	return func() tea.Msg {
		if store == nil {
			return EntriesLoadedMsg{Err: ErrNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entries, err := store.List(ctx, limit)
		return EntriesLoadedMsg{Entries: entries, Err: err}
	}
}

// Save stores content as a new entry from source.
func (m *Model) Save(content, source string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return EntrySavedMsg{Err: ErrNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		entry, err := store.Add(ctx, content, source)
		return EntrySavedMsg{Entry: entry, Err: err}
	}
}

func (m *Model) remove(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return EntryDeletedMsg{ID: id, Err: ErrNoStore}
		}
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return EntryDeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements swipe.Page.
func (m *Model) Update(msg tea.Msg) (swipe.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case EntriesLoadedMsg:
		m.loadErr = msg.Err
		if msg.Err != nil {
			m.logger.Warn("journal load failed", zap.Error(msg.Err))
			return m, nil
		}
		m.entries = msg.Entries
		m.selected = clamp(m.selected, len(m.entries))
		m.refresh()
		return m, nil

	case EntrySavedMsg:
		if msg.Err != nil {
			m.logger.Warn("journal save failed", zap.Error(msg.Err))
			return m, components.ShowToast(components.ToastKindError, "Could not save to journal")
		}
		m.logger.Debug("journal entry saved", zap.String("id", msg.Entry.ID), zap.String("source", msg.Entry.Source))
		m.selected = 0
		return m, tea.Batch(m.load(), components.ShowToast(components.ToastKindSuccess, "Saved to journal"))

	case EntryDeletedMsg:
		if msg.Err != nil {
			m.logger.Warn("journal delete failed", zap.String("id", msg.ID), zap.Error(msg.Err))
			return m, components.ShowToast(components.ToastKindError, "Could not delete entry")
		}
		return m, tea.Batch(m.load(), components.ShowToast(components.ToastKindStatus, "Entry deleted"))

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case styles.ThemeChangedMsg:
		m.refresh()
		return m, nil
	}

	if m.focused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.focused {
		if key.Matches(msg, m.keys.Save) {
			note := strings.TrimSpace(m.input.Value())
			if note == "" {
				return nil
			}
			m.input.Reset()
			return m.Save(note, storage.SourceNote)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.selectEntry(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		m.selectEntry(m.selected + 1)
	case key.Matches(msg, m.keys.Delete):
		if len(m.entries) == 0 {
			return nil
		}
		return m.remove(m.entries[m.selected].ID)
	}
	return nil
}

func (m *Model) selectEntry(i int) {
	m.selected = clamp(i, len(m.entries))
	m.refresh()
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// =============================================================================
// VIEW
// =============================================================================

// refresh renders the entry cards into the viewport and keeps the selected
// card in view.
func (m *Model) refresh() {
	if m.width <= 0 {
		return
	}
	cards := make([]string, 0, len(m.entries))
	selectedTop, selectedBottom := 0, 0
	line := 0
	for i, e := range m.entries {
		card := m.renderCard(e, i == m.selected)
		h := lipgloss.Height(card)
		if i == m.selected {
			selectedTop, selectedBottom = line, line+h
		}
		cards = append(cards, card)
		line += h
	}
	m.viewport.SetContent(strings.Join(cards, "\n"))

	switch {
	case selectedTop < m.viewport.YOffset:
		m.viewport.SetYOffset(selectedTop)
	case selectedBottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(selectedBottom - m.viewport.Height)
	}
}

func (m *Model) renderCard(e storage.Entry, selected bool) string {
	inner := m.width - 4
	if inner < 1 {
		inner = 1
	}

	meta := components.FormatTimestamp(e.CreatedAt, m.now())
	if e.Source != "" {
		meta = fmt.Sprintf("%s · %s", meta, e.Source)
	}
	title := m.theme.CardTitle.Render(e.Title())

	lines := strings.Split(strings.TrimSpace(e.Content), "\n")
	if len(lines) > 1 {
		lines = lines[1:]
	} else {
		lines = nil
	}
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], "…")
	}
	parts := []string{title, m.theme.Timestamp.Render(meta)}
	if len(lines) > 0 {
		parts = append(parts, m.theme.CardBody.Render(strings.Join(lines, "\n")))
	}

	card := m.theme.Card
	if selected {
		card = card.BorderForeground(styles.Indigo)
	}
	body := lipgloss.NewStyle().Width(inner).MaxWidth(inner).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	return card.Render(body)
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

	var body string
	switch {
	case m.loadErr != nil:
		body = m.theme.Empty.Render("Journal unavailable: " + m.loadErr.Error())
	case len(m.entries) == 0:
		body = m.theme.Empty.Width(m.width).Render(emptyText)
	default:
		body = m.viewport.View()
	}
	body = lipgloss.NewStyle().Height(m.viewport.Height).MaxHeight(m.viewport.Height).Render(body)

	style := m.theme.InputContainer
	if m.focused {
		style = m.theme.InputFocused
	}
	w := m.width - 2
	if w < 1 {
		w = 1
	}
	input := style.Width(w).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input)
}
