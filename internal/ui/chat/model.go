// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/commands"
	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/ui/components"
	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// Page texts.
const (
	WelcomeTitle = "Welcome to Your AI Therapy Session"
	WelcomeBody  = "A safe space for open conversation and personal growth. " +
		"Share your thoughts freely with our empathetic AI companion."
	Placeholder = "Type your message..."

	// ErrorReply is shown in place of a reply when the backend fails.
	ErrorReply = "I apologize, but I'm experiencing some technical difficulties. Could you please try again?"

	// EmptyReply stands in for a reply with no text.
	EmptyReply = "I'm here to listen and support you."
)

// Layout rows below the conversation: status line plus a bordered input.
const (
	statusHeight = 1
	inputHeight  = 3
)

// MaxInputLength caps a single message.
const MaxInputLength = 4096

// ErrNoResponder is returned for replies when the page has no backend.
var ErrNoResponder = errors.New("chat: no responder configured")

// Responder produces the assistant's next message for a conversation.
type Responder interface {
	Reply(ctx context.Context, history []model.Message) (string, error)
}

type noResponder struct{}

func (noResponder) Reply(context.Context, []model.Message) (string, error) {
	return "", ErrNoResponder
}

// =============================================================================
// OPTIONS
// =============================================================================

// Option configures the chat page.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMarkdown renders assistant replies as markdown.
func WithMarkdown(r components.MarkdownRenderer) Option {
	return func(m *Model) { m.markdown = r }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat page. Use it by pointer; it implements swipe.Page and
// swipe.Focusable.
type Model struct {
	theme        *styles.Theme
	responder    Responder
	conversation *model.Conversation
	pending      *pendingReply
	keys         KeyMap
	logger       *zap.Logger
	markdown     components.MarkdownRenderer
	commands     *commands.Registry
	parser       *commands.Parser

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	welcome  components.Welcome

	focused bool
	width   int
	height  int
}

// New creates a chat page that asks responder for replies.
func New(theme *styles.Theme, responder Responder, opts ...Option) *Model {
	if responder == nil {
		responder = noResponder{}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = Placeholder
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.CharLimit = MaxInputLength

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	sp := spinner.New()
	sp.Spinner = styles.TypingSpinner
	sp.Style = theme.Typing

	registry := commands.NewRegistry()
	m := &Model{
		theme:        theme,
		commands:     registry,
		parser:       commands.NewParser(registry),
		responder:    responder,
		conversation: model.NewConversation(),
		pending:      &pendingReply{},
		keys:         DefaultKeyMap(),
		logger:       zap.NewNop(),
		viewport:     vp,
		input:        ti,
		spinner:      sp,
		welcome:      components.NewWelcome(theme, WelcomeTitle, WelcomeBody),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements swipe.Page.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Conversation returns the live conversation.
func (m *Model) Conversation() *model.Conversation { return m.conversation }

// Waiting reports whether a reply is pending.
func (m *Model) Waiting() bool { return m.pending.active() }

// Focused reports whether the input has the keyboard.
func (m *Model) Focused() bool { return m.focused }

// KeyMap returns the active bindings.
func (m *Model) KeyMap() KeyMap { return m.keys }

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

	vpHeight := height - statusHeight - inputHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.welcome.SetSize(width, vpHeight)

	// Border, prompt and cursor.
	inputWidth := width - 2 - len(m.input.Prompt) - 1
	if inputWidth < 1 {
		inputWidth = 1
	}
	m.input.Width = inputWidth
	m.refresh()
}

// refresh re-renders the conversation into the viewport and scrolls to the
// newest message.
func (m *Model) refresh() {
	list := components.NewMessageList(m.theme)
	list.Messages = m.conversation.Messages()
	list.Width = m.width
	list.Markdown = m.markdown
	m.viewport.SetContent(list.View())
	m.viewport.GotoBottom()
}
