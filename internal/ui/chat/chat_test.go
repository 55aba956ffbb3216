// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/psy-tui/internal/commands"
	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fakeResponder struct {
	mu    sync.Mutex
	reply string
	err   error
	block bool
	calls [][]model.Message
}

func (f *fakeResponder) Reply(ctx context.Context, history []model.Message) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, history)
	block := f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func newTestPage(t *testing.T, r Responder) *Model {
	t.Helper()
	m := New(styles.NewTheme(styles.ModeDark), r)
	m.SetSize(80, 24)
	return m
}

// run executes cmd and every command it batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func press(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

// say types text and presses enter, returning the commands' messages.
func say(m *Model, text string) []tea.Msg {
	m.input.SetValue(text)
	_, cmd := m.Update(press(tea.KeyEnter))
	return run(cmd)
}

// =============================================================================
// CONVERSATION
// =============================================================================

func TestSubmit_RoundTrip(t *testing.T) {
	r := &fakeResponder{reply: "How does that make you feel?"}
	m := newTestPage(t, r)
	m.Focus()

	msgs := say(m, "  I had a long day  ")
	assert.True(t, m.Waiting())
	assert.Equal(t, "", m.input.Value())

	reply, ok := find[ReplyMsg](msgs)
	require.True(t, ok)
	m.Update(reply)

	assert.False(t, m.Waiting())
	got := m.Conversation().Messages()
	require.Len(t, got, 2)
	assert.Equal(t, model.RoleUser, got[0].Role)
	assert.Equal(t, "I had a long day", got[0].Content)
	assert.Equal(t, "How does that make you feel?", got[1].Content)

	require.Len(t, r.calls, 1)
	require.Len(t, r.calls[0], 1)
	assert.Equal(t, "I had a long day", r.calls[0][0].Content)
}

func TestSubmit_BlankIgnored(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})
	m.Focus()

	assert.Empty(t, say(m, "   "))
	assert.True(t, m.Conversation().IsEmpty())
	assert.False(t, m.Waiting())
}

func TestSubmit_IgnoredWhilePending(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	m := newTestPage(t, r)
	m.Focus()

	m.input.SetValue("first")
	_, cmd := m.Update(press(tea.KeyEnter))
	require.NotNil(t, cmd)

	m.input.SetValue("second")
	_, cmd = m.Update(press(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Conversation().Len())
	assert.Equal(t, "second", m.input.Value(), "input is kept for later")
}

func TestSubmit_RequiresFocus(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	assert.Equal(t, "", m.input.Value())

	assert.Empty(t, say(m, "hello"))
	assert.True(t, m.Conversation().IsEmpty())
}

func TestReply_EmptyUsesFallback(t *testing.T) {
	m := newTestPage(t, &fakeResponder{reply: "   "})
	m.Focus()

	reply, ok := find[ReplyMsg](say(m, "hello"))
	require.True(t, ok)
	m.Update(reply)

	got := m.Conversation().Messages()
	require.Len(t, got, 2)
	assert.Equal(t, EmptyReply, got[1].Content)
}

func TestReply_ErrorShowsApology(t *testing.T) {
	m := newTestPage(t, &fakeResponder{err: errors.New("connection refused")})
	m.Focus()

	failure, ok := find[ReplyErrorMsg](say(m, "hello"))
	require.True(t, ok)
	m.Update(failure)

	got := m.Conversation().Messages()
	require.Len(t, got, 2)
	assert.True(t, got[1].IsError)
	assert.Equal(t, ErrorReply, got[1].Content)
	assert.Len(t, m.Conversation().History(), 1, "failure notices are not sent back")
	assert.False(t, m.Waiting())
}

func TestReply_NoResponder(t *testing.T) {
	m := newTestPage(t, nil)
	m.Focus()

	failure, ok := find[ReplyErrorMsg](say(m, "hello"))
	require.True(t, ok)
	assert.ErrorIs(t, failure.Err, ErrNoResponder)
}

func TestReply_StaleAfterReset(t *testing.T) {
	m := newTestPage(t, &fakeResponder{reply: "late"})
	m.Focus()

	reply, ok := find[ReplyMsg](say(m, "hello"))
	require.True(t, ok)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	toast, ok := find[components.ToastMsg](run(cmd))
	require.True(t, ok)
	assert.Equal(t, "New session started", toast.Message)

	m.Update(reply)
	assert.True(t, m.Conversation().IsEmpty())
}

func TestCancel_DropsPendingReply(t *testing.T) {
	r := &fakeResponder{block: true}
	m := newTestPage(t, r)
	m.Focus()

	m.input.SetValue("hello")
	_, cmd := m.Update(press(tea.KeyEnter))
	require.NotNil(t, cmd)

	done := make(chan []tea.Msg, 1)
	go func() { done <- run(cmd) }()

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.calls) == 1
	}, time.Second, 5*time.Millisecond)

	_, cancelCmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.NotNil(t, cancelCmd)
	assert.False(t, m.Waiting())

	var msgs []tea.Msg
	select {
	case msgs = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("request did not observe cancellation")
	}
	failure, ok := find[ReplyErrorMsg](msgs)
	require.True(t, ok)
	assert.ErrorIs(t, failure.Err, context.Canceled)

	m.Update(failure)
	assert.Equal(t, 1, m.Conversation().Len(), "a cancelled reply adds nothing")
}

// =============================================================================
// JOURNAL HANDOFF
// =============================================================================

func TestSave_EmitsTranscript(t *testing.T) {
	m := newTestPage(t, &fakeResponder{reply: "Tell me more."})
	m.Focus()

	reply, _ := find[ReplyMsg](say(m, "I feel anxious"))
	m.Update(reply)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	saved, ok := find[SaveToJournalMsg](run(cmd))
	require.True(t, ok)
	assert.Equal(t, "You: I feel anxious\n\nAI: Tell me more.", saved.Content)
}

func TestSave_EmptyWarns(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	msgs := run(cmd)
	_, saved := find[SaveToJournalMsg](msgs)
	assert.False(t, saved)

	toast, ok := find[components.ToastMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, components.ToastKindWarning, toast.Kind)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestSlash_RunsCommandInsteadOfSending(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	m := newTestPage(t, r)
	m.Focus()

	msgs := say(m, "/note slept better")
	note, ok := find[commands.NoteMsg](msgs)
	require.True(t, ok)
	assert.Equal(t, "slept better", note.Content)
	assert.True(t, m.Conversation().IsEmpty())
	assert.Empty(t, r.calls)
	assert.Equal(t, "", m.input.Value())
}

func TestSlash_ClearAndSaveUsePage(t *testing.T) {
	m := newTestPage(t, &fakeResponder{reply: "I hear you."})
	m.Focus()

	reply, _ := find[ReplyMsg](say(m, "rough week"))
	m.Update(reply)

	saved, ok := find[SaveToJournalMsg](say(m, "/save"))
	require.True(t, ok)
	assert.Equal(t, "You: rough week\n\nAI: I hear you.", saved.Content)

	toast, ok := find[components.ToastMsg](say(m, "/clear"))
	require.True(t, ok)
	assert.Equal(t, "New session started", toast.Message)
	assert.True(t, m.Conversation().IsEmpty())
}

func TestSlash_DoubleSlashSendsText(t *testing.T) {
	r := &fakeResponder{reply: "ok"}
	m := newTestPage(t, r)
	m.Focus()

	say(m, "//shrug")
	require.Len(t, r.calls, 1)
	assert.Equal(t, "/shrug", r.calls[0][0].Content)
}

func TestSlash_UnknownCommandToasts(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})
	m.Focus()

	toast, ok := find[components.ToastMsg](say(m, "/dance"))
	require.True(t, ok)
	assert.Equal(t, components.ToastKindError, toast.Kind)
}

func TestSlash_TabCompletesUniqueName(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})
	m.Focus()

	m.input.SetValue("/th")
	m.input.CursorEnd()
	m.Update(press(tea.KeyTab))
	assert.Equal(t, "/theme ", m.input.Value())

	m.input.SetValue("/r")
	m.Update(press(tea.KeyTab))
	assert.Equal(t, "/r", m.input.Value(), "ambiguous prefix is left alone")
}

// =============================================================================
// VIEW
// =============================================================================

func TestView_WelcomeWhenEmpty(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})
	view := ansi.Strip(m.View())

	assert.Contains(t, view, WelcomeTitle)
	assert.Contains(t, view, Placeholder)
}

func TestView_ShowsConversationAndTyping(t *testing.T) {
	m := newTestPage(t, &fakeResponder{reply: "hi"})
	m.Focus()

	say(m, "hello there")
	view := ansi.Strip(m.View())
	assert.NotContains(t, view, WelcomeTitle)
	assert.Contains(t, view, "hello there")
	assert.Contains(t, view, "Psy is typing")
}

func TestView_FitsSize(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})
	m.SetSize(60, 20)
	assert.Equal(t, 20, len(strings.Split(m.View(), "\n")))

	m.SetSize(0, 0)
	assert.Equal(t, "", m.View())
}

func TestFocusAndBlur(t *testing.T) {
	m := newTestPage(t, &fakeResponder{})
	m.Focus()
	assert.True(t, m.Focused())
	assert.True(t, m.input.Focused())

	m.Blur()
	assert.False(t, m.Focused())
	assert.False(t, m.input.Focused())
}
