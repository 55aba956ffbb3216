// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/commands"
	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/ui/swipe"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements swipe.Page.
func (m *Model) Update(msg tea.Msg) (swipe.Page, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.pending.active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ReplyMsg:
		return m, m.handleReply(msg)

	case ReplyErrorMsg:
		return m, m.handleReplyError(msg)

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
	switch {
	case key.Matches(msg, m.keys.Submit):
		if !m.focused {
			return nil
		}
		return m.submit()

	case key.Matches(msg, m.keys.Complete):
		if m.focused && m.complete() {
			return nil
		}

	case key.Matches(msg, m.keys.Refresh):
		return m.reset()

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Cancel):
		if m.pending.abort() {
			m.logger.Debug("reply cancelled")
			return components.ShowToast(components.ToastKindStatus, "Reply cancelled")
		}
		return nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return nil
	}

	if !m.focused {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// submit sends the input as a user message. Input starting with "/" runs a
// slash command instead; "//" sends a literal slash. Blank input, or a
// message while a reply is still pending, is ignored.
func (m *Model) submit() tea.Cmd {
	raw := m.input.Value()
	if commands.IsCommand(raw) {
		m.input.Reset()
		result := m.parser.Parse(raw)
		m.logger.Debug("slash command", zap.String("command", result.CommandName))
		return m.commands.Execute(result, &commands.Context{Clear: m.reset, Save: m.save})
	}

	content := strings.TrimSpace(commands.Unescape(raw))
	if content == "" || m.pending.active() {
		return nil
	}

	m.conversation.Add(model.NewUserMessage(content))
	m.input.Reset()
	m.refresh()

	ctx, id := m.pending.start(context.Background())
	m.logger.Debug("reply requested", zap.String("request_id", id), zap.Int("messages", m.conversation.Len()))
	return tea.Batch(
		requestReply(ctx, m.responder, id, m.conversation.History()),
		m.spinner.Tick,
	)
}

// complete fills in the command name when exactly one matches what has been
// typed. It reports whether the input changed.
func (m *Model) complete() bool {
	partial := commands.GetPartialCommand(m.input.Value())
	if partial == "" {
		return false
	}
	matches := m.commands.Complete(partial)
	if len(matches) != 1 {
		return false
	}
	m.input.SetValue(matches[0] + " ")
	m.input.CursorEnd()
	return true
}

func (m *Model) handleReply(msg ReplyMsg) tea.Cmd {
	if !m.pending.finish(msg.RequestID) {
		return nil
	}
	reply := model.NewAssistantMessage(strings.TrimSpace(msg.Content))
	if reply.IsBlank() {
		reply = model.NewAssistantMessage(EmptyReply)
	}
	m.conversation.Add(reply)
	m.logger.Debug("reply received", zap.String("request_id", msg.RequestID), zap.Duration("duration", msg.Duration))
	m.refresh()
	return nil
}

func (m *Model) handleReplyError(msg ReplyErrorMsg) tea.Cmd {
	if !m.pending.finish(msg.RequestID) {
		return nil
	}
	if errors.Is(msg.Err, context.Canceled) {
		return nil
	}
	m.logger.Warn("reply failed", zap.String("request_id", msg.RequestID), zap.Error(msg.Err))
	m.conversation.Add(model.NewErrorMessage(ErrorReply))
	m.refresh()
	return nil
}

// reset starts a new conversation, dropping any pending reply.
func (m *Model) reset() tea.Cmd {
	m.pending.abort()
	m.conversation.Clear()
	m.input.Reset()
	m.refresh()
	return components.ShowToast(components.ToastKindStatus, "New session started")
}

// save hands the transcript to the journal.
func (m *Model) save() tea.Cmd {
	transcript := m.conversation.Transcript()
	if strings.TrimSpace(transcript) == "" {
		return components.ShowToast(components.ToastKindWarning, "Nothing to save yet")
	}
	return func() tea.Msg {
		return SaveToJournalMsg{Content: transcript}
	}
}
