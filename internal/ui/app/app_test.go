// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/psy-tui/internal/commands"
	"github.com/jeranaias/psy-tui/internal/config"
	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/pager"
	"github.com/jeranaias/psy-tui/internal/storage"
	"github.com/jeranaias/psy-tui/internal/ui/chat"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/journal"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/ui/swipe"
)

// =============================================================================
// FIXTURES
// =============================================================================

type echoResponder struct{}

func (echoResponder) Reply(_ context.Context, history []model.Message) (string, error) {
	return "echo: " + history[len(history)-1].Content, nil
}

type memStore struct {
	entries []storage.Entry
}

func (s *memStore) Add(_ context.Context, content, source string) (storage.Entry, error) {
	e := storage.Entry{
		ID:        string(rune('a' + len(s.entries))),
		Source:    source,
		Content:   content,
		CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	s.entries = append([]storage.Entry{e}, s.entries...)
	return e, nil
}

func (s *memStore) List(_ context.Context, _ int) ([]storage.Entry, error) {
	return s.entries, nil
}

func (s *memStore) Delete(context.Context, string) error { return nil }

type plainMarkdown struct{}

func (plainMarkdown) Render(content string, _ int) string { return content }

func newTestApp(t *testing.T, store journal.Store) *Model {
	t.Helper()
	m, err := New(Deps{
		Config:    config.Default(),
		Theme:     styles.NewTheme(styles.ModeDark),
		Responder: echoResponder{},
		Store:     store,
		Markdown:  plainMarkdown{},
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	return m
}

// routed lists the messages the driver feeds back into the app. Timers
// and cursor blinks are left alone so a test never loops on them.
func routed(msg tea.Msg) bool {
	switch msg.(type) {
	case chat.ReplyMsg, chat.SaveToJournalMsg,
		journal.EntriesLoadedMsg, journal.EntrySavedMsg, journal.EntryDeletedMsg,
		components.ToastMsg, styles.ThemeChangedMsg,
		commands.NoteMsg, commands.NavigateMsg, commands.ToggleThemeMsg,
		swipe.PageChangedMsg, swipe.FocusChangedMsg, swipe.SettledMsg, swipe.AnimationStartedMsg:
		return true
	}
	return false
}

// exec runs cmd, giving up on commands that wait on a timer.
func exec(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// drive runs cmd and feeds routed results back into the app until the
// queue drains. It returns every message produced.
func drive(m *Model, cmd tea.Cmd) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := exec(c)
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		seen = append(seen, msg)
		if routed(msg) {
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
	return seen
}

func send(m *Model, msg tea.Msg) []tea.Msg {
	_, cmd := m.Update(msg)
	return drive(m, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func quits(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

// =============================================================================
// TESTS
// =============================================================================

func TestPagerConfig_CopiesTuning(t *testing.T) {
	p := config.Default().Pager
	p.ThresholdFraction = 0.3
	p.Spring.Stiffness = 250
	p.InitialPage = 2

	got := PagerConfig(p)
	assert.Equal(t, 0.3, got.ThresholdFraction)
	assert.Equal(t, 250.0, got.Spring.Stiffness)
	assert.Equal(t, 2, got.InitialIndex)
	assert.Equal(t, p.PageNames, got.PageNames)

	got.PageNames[0] = "changed"
	assert.Equal(t, "Journal", p.PageNames[0], "names are copied")
}

func TestNew_StartsOnChat(t *testing.T) {
	m := newTestApp(t, &memStore{})
	assert.Equal(t, PageChat, m.Swipe().CurrentIndex())
	assert.Contains(t, m.View(), "Chat")
}

func TestView_FillsWindow(t *testing.T) {
	m := newTestApp(t, &memStore{})
	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 30)
	for i, l := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(l), 90, "line %d", i)
	}
}

func TestView_EmptyBeforeSize(t *testing.T) {
	m, err := New(Deps{Theme: styles.NewTheme(styles.ModeDark), Markdown: plainMarkdown{}})
	require.NoError(t, err)
	assert.Empty(t, m.View())
}

func TestQuit_OnlyWhenPagerHasKeys(t *testing.T) {
	m := newTestApp(t, &memStore{})

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.Swipe().Focused())
	assert.False(t, quits(send(m, runes("q"))), "q is typed into the chat")

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Swipe().Focused())
	assert.True(t, quits(send(m, runes("q"))))
}

func TestForceQuit_Always(t *testing.T) {
	m := newTestApp(t, &memStore{})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, quits(send(m, tea.KeyMsg{Type: tea.KeyCtrlC})))
}

func TestThemeKey_Toggles(t *testing.T) {
	m := newTestApp(t, &memStore{})
	require.True(t, m.theme.IsDark)

	msgs := send(m, runes("t"))
	assert.False(t, m.theme.IsDark)
	assert.Contains(t, msgs, tea.Msg(styles.ThemeChangedMsg{Dark: false}))
}

func TestHeaderClick_TogglesTheme(t *testing.T) {
	m := newTestApp(t, &memStore{})
	x := -1
	for i := 0; i < 90; i++ {
		if m.header.ToggleHit(i) {
			x = i
			break
		}
	}
	require.GreaterOrEqual(t, x, 0)

	send(m, tea.MouseMsg{X: x, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, m.theme.IsDark)
}

func TestKeys_NavigatePages(t *testing.T) {
	m := newTestApp(t, &memStore{})

	send(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, PageResources, m.Swipe().CurrentIndex())
	assert.Contains(t, m.header.View(), "Resources")

	send(m, runes("1"))
	assert.Equal(t, PageJournal, m.Swipe().CurrentIndex())
}

func TestMouseDrag_ShiftedBelowHeader(t *testing.T) {
	m := newTestApp(t, &memStore{})

	send(m, tea.MouseMsg{X: 70, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.True(t, m.Swipe().Dragging())

	send(m, tea.MouseMsg{X: 20, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	send(m, tea.MouseMsg{X: 20, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})

	assert.False(t, m.Swipe().Dragging())
	assert.Equal(t, PageResources, m.Swipe().CurrentIndex(), "motion over the header still belongs to the drag")
}

func TestChatSave_LandsInJournal(t *testing.T) {
	store := &memStore{}
	m := newTestApp(t, store)
	drive(m, m.Init())

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Chat().Update(runes("hello"))
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.Chat().Conversation().Messages(), 2)

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	send(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, store.entries, 1)
	assert.Equal(t, storage.SourceChat, store.entries[0].Source)
	assert.Equal(t, "You: hello\n\nAI: echo: hello", store.entries[0].Content)
	require.Len(t, m.Journal().Entries(), 1)

	toast, ok := m.Toasts().Latest()
	require.True(t, ok)
	assert.Equal(t, "Saved to journal", toast.Message)
	assert.Contains(t, m.View(), "Saved to journal")
}

// slash types a command into the focused chat input and submits it.
func slash(m *Model, line string) []tea.Msg {
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Chat().Update(runes(line))
	return send(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestSlashNote_LandsInJournal(t *testing.T) {
	store := &memStore{}
	m := newTestApp(t, store)
	drive(m, m.Init())

	slash(m, "/note walked by the river")

	require.Len(t, store.entries, 1)
	assert.Equal(t, storage.SourceNote, store.entries[0].Source)
	assert.Equal(t, "walked by the river", store.entries[0].Content)
	assert.True(t, m.Chat().Conversation().IsEmpty())
}

func TestSlashPage_TurnsPage(t *testing.T) {
	m := newTestApp(t, &memStore{})

	slash(m, "/resources")
	assert.Equal(t, PageResources, m.Swipe().CurrentIndex())

	send(m, runes("2"))
	require.Equal(t, PageChat, m.Swipe().CurrentIndex())
	slash(m, "/page 1")
	assert.Equal(t, PageJournal, m.Swipe().CurrentIndex())
}

func TestSlashTheme_Toggles(t *testing.T) {
	m := newTestApp(t, &memStore{})
	require.True(t, m.theme.IsDark)

	slash(m, "/theme")
	assert.False(t, m.theme.IsDark)
}

func TestCommandPage(t *testing.T) {
	assert.Equal(t, PageJournal, commandPage(commands.NavigateMsg{Target: commands.TargetJournal}))
	assert.Equal(t, PageResources, commandPage(commands.NavigateMsg{Target: commands.TargetResources}))
	assert.Equal(t, 2, commandPage(commands.NavigateMsg{Index: 2}))
}

func TestFocus_ShownInHeader(t *testing.T) {
	m := newTestApp(t, &memStore{})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.header.View(), "typing")
	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, m.header.View(), "typing")
}

func TestHelp_ExpandsFooter(t *testing.T) {
	m := newTestApp(t, &memStore{})
	short := m.Swipe().ContentHeight()

	send(m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Less(t, m.Swipe().ContentHeight(), short)
	assert.Len(t, strings.Split(m.View(), "\n"), 30)
}

func TestConfigReload_Retunes(t *testing.T) {
	updates := make(chan *config.Config, 1)
	m, err := New(Deps{
		Config:        config.Default(),
		Theme:         styles.NewTheme(styles.ModeDark),
		Markdown:      plainMarkdown{},
		ConfigUpdates: updates,
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})

	cfg := config.Default()
	cfg.Pager.ThresholdFraction = 0.4
	cfg.Pager.PageNames = []string{"Notes", "Talk", "Help"}
	updates <- cfg

	msg := exec(waitForConfig(updates))
	require.IsType(t, ConfigReloadedMsg{}, msg)
	m.Update(msg)

	nav := m.Swipe().Navigator()
	assert.Equal(t, 0.4, nav.Config().ThresholdFraction)
	assert.Equal(t, PageChat, nav.CurrentIndex())
	assert.Equal(t, "Talk", m.Swipe().CurrentName())

	toast, ok := m.Toasts().Latest()
	require.True(t, ok)
	assert.Equal(t, "Config reloaded", toast.Message)
}

func TestConfigReload_WarnsAboutAdjustedValues(t *testing.T) {
	updates := make(chan *config.Config, 1)
	m, err := New(Deps{
		Config:        config.Default(),
		Theme:         styles.NewTheme(styles.ModeDark),
		Markdown:      plainMarkdown{},
		ConfigUpdates: updates,
	})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})

	cfg := config.Default()
	cfg.Pager.FPS = 0
	cfg.Pager.Spring.Mass = -1
	cfg.Sanitize()
	require.Len(t, cfg.Warnings(), 2)
	updates <- cfg

	m.Update(exec(waitForConfig(updates)))

	toast, ok := m.Toasts().Latest()
	require.True(t, ok)
	assert.Equal(t, components.ToastKindWarning, toast.Kind)
	assert.Equal(t, "Config reloaded, 2 value(s) adjusted (see log)", toast.Message)
	assert.Equal(t, config.Default().Pager.FPS, cfg.Pager.FPS)
}

func TestWaitForConfig_Closed(t *testing.T) {
	assert.Nil(t, waitForConfig(nil))

	ch := make(chan *config.Config)
	close(ch)
	assert.Nil(t, waitForConfig(ch)())
}

func TestNew_RejectsBadSwipeSetup(t *testing.T) {
	cfg := config.Default()
	cfg.Pager.PageNames = nil
	m, err := New(Deps{Config: cfg, Theme: styles.NewTheme(styles.ModeDark), Markdown: plainMarkdown{}})
	require.NoError(t, err, "missing names fall back to defaults")
	assert.Equal(t, pager.DefaultConfig().PageNames[PageChat], m.Swipe().CurrentName())
}
