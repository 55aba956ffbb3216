// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/psy-tui/internal/model"
)

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyMsg carries a finished reply.
type ReplyMsg struct {
	RequestID string
	Content   string
	Duration  time.Duration
}

// ReplyErrorMsg reports a failed reply.
type ReplyErrorMsg struct {
	RequestID string
	Err       error
}

// =============================================================================
// JOURNAL MESSAGES
// =============================================================================

// SaveToJournalMsg asks the journal to store a chat transcript.
type SaveToJournalMsg struct {
	Content string
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// requestReply asks responder for the next reply to history.
func requestReply(ctx context.Context, responder Responder, requestID string, history []model.Message) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		content, err := responder.Reply(ctx, history)
		if err != nil {
			return ReplyErrorMsg{RequestID: requestID, Err: err}
		}
		return ReplyMsg{RequestID: requestID, Content: content, Duration: time.Since(start)}
	}
}
