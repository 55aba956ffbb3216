// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MarkdownRenderer renders assistant replies. Implementations must return
// text no wider than width.
type MarkdownRenderer interface {
	Render(content string, width int) string
}

// MessageBubble renders one chat message.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	Markdown      MarkdownRenderer
	Now           func() time.Time
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		Now:           time.Now,
		theme:         theme,
	}
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch {
	case b.Message.IsError:
		return b.renderBubble("psy", b.theme.ErrorBubble, lipgloss.Left, false)
	case b.Message.Role == model.RoleUser:
		return b.renderBubble("you", b.theme.UserBubble, lipgloss.Right, false)
	default:
		return b.renderBubble("psy", b.theme.AssistantBubble, lipgloss.Left, b.Markdown != nil)
	}
}

// contentWidth is the widest the bubble body may be: three quarters of the
// page, but never narrower than 20 columns.
func (b *MessageBubble) contentWidth() int {
	w := b.Width * 3 / 4
	if w < 20 {
		w = 20
	}
	if w > b.Width-2 && b.Width > 2 {
		w = b.Width - 2
	}
	return w
}

func (b *MessageBubble) renderBubble(role string, style lipgloss.Style, align lipgloss.Position, markdown bool) string {
	content := strings.TrimSpace(b.Message.Content)
	if content == "" {
		content = "..."
	}

	maxWidth := b.contentWidth()
	var body string
	if markdown {
		body = strings.Trim(b.Markdown.Render(content, maxWidth-2), "\n")
	} else {
		body = wordWrap(content, maxWidth-2)
	}
	bubble := style.MaxWidth(maxWidth).Render(body)

	header := b.theme.Timestamp.Render(role)
	if b.ShowTimestamp {
		if ts := FormatTimestamp(b.Message.Timestamp, b.Now()); ts != "" {
			header += b.theme.Timestamp.Render(" · " + ts)
		}
	}

	block := lipgloss.JoinVertical(align, header, bubble)
	return lipgloss.PlaceHorizontal(b.Width, align, block)
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a conversation.
type MessageList struct {
	Messages      []model.Message
	Width         int
	ShowTimestamp bool
	Markdown      MarkdownRenderer
	theme         *styles.Theme
}

// NewMessageList creates an empty list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{Width: 80, ShowTimestamp: true, theme: theme}
}

// View renders all messages separated by blank lines. System messages are
// never shown.
func (ml *MessageList) View() string {
	bubbles := make([]string, 0, len(ml.Messages))
	for _, msg := range ml.Messages {
		if msg.Role == model.RoleSystem {
			continue
		}
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.Width = ml.Width
		bubble.ShowTimestamp = ml.ShowTimestamp
		bubble.Markdown = ml.Markdown
		bubbles = append(bubbles, bubble.View())
	}
	return strings.Join(bubbles, "\n\n")
}
