// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/commands"
	"github.com/jeranaias/psy-tui/internal/config"
	"github.com/jeranaias/psy-tui/internal/logging"
	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/storage"
	"github.com/jeranaias/psy-tui/internal/ui/chat"
	"github.com/jeranaias/psy-tui/internal/ui/components"
)

const (
	chatPrompt      = "psy> "
	historyFileName = "chat_history"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of input at a time.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// linerReader provides line editing and history on a real terminal.
type linerReader struct {
	state       *liner.State
	historyFile string
}

func newLinerReader(historyFile string, complete liner.Completer) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(complete)

	r := &linerReader{state: state, historyFile: historyFile}
	if f, err := os.Open(historyFile); err == nil {
		_, _ = state.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.state.Prompt(prompt)
}

func (r *linerReader) AppendHistory(line string) {
	r.state.AppendHistory(line)
}

// Close writes the history back with owner-only permissions.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0700); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = r.state.WriteHistory(f)
				f.Close()
			}
		}
	}
	return r.state.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// journalWriter is the part of the journal store the line chat needs.
type journalWriter interface {
	Add(ctx context.Context, content, source string) (storage.Entry, error)
}

// chatSession is a conversation held in line mode. Slash commands share the
// registry with the chat page; page and theme commands have no effect here.
type chatSession struct {
	out       io.Writer
	responder Responder
	journal   journalWriter
	render    answerRenderer
	timeout   time.Duration
	logger    *zap.Logger

	conversation *model.Conversation
	registry     *commands.Registry
	parser       *commands.Parser
}

func newChatSession(out io.Writer, responder Responder, journal journalWriter, render answerRenderer, timeout time.Duration, logger *zap.Logger) *chatSession {
	registry := commands.NewRegistry()
	return &chatSession{
		out:          out,
		responder:    responder,
		journal:      journal,
		render:       render,
		timeout:      timeout,
		logger:       logger,
		conversation: model.NewConversation(),
		registry:     registry,
		parser:       commands.NewParser(registry),
	}
}

// complete offers command names for the line editor.
func (s *chatSession) complete(line string) []string {
	partial := commands.GetPartialCommand(line)
	if partial == "" {
		return nil
	}
	return s.registry.Complete(partial)
}

// handle processes one line. It returns false when the session should end.
func (s *chatSession) handle(ctx context.Context, line string) bool {
	if commands.IsCommand(line) {
		result := s.parser.Parse(line)
		cmd := s.registry.Execute(result, &commands.Context{Clear: s.clear, Save: s.save})
		if cmd == nil {
			return true
		}
		return s.apply(ctx, cmd())
	}

	content := strings.TrimSpace(commands.Unescape(line))
	if content == "" {
		return true
	}
	s.send(ctx, content)
	return true
}

// apply carries out the message a command produced.
func (s *chatSession) apply(ctx context.Context, msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return false

	case components.ToastMsg:
		s.notify(msg.Kind, msg.Message)

	case commands.NoteMsg:
		s.store(ctx, msg.Content, storage.SourceNote, "Note saved to journal")

	case commands.NavigateMsg, commands.ToggleThemeMsg:
		s.notify(components.ToastKindWarning, "That command only works in the full screen UI")
	}
	return true
}

func (s *chatSession) send(ctx context.Context, content string) {
	s.conversation.Add(model.NewUserMessage(content))

	// Ctrl+C while waiting abandons the reply, not the session.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.responder.Reply(ctx, s.conversation.History())
	if err != nil {
		s.logger.Warn("reply failed", zap.Error(err))
		if errors.Is(err, context.Canceled) {
			s.notify(components.ToastKindWarning, "Reply cancelled")
			s.conversation.Add(model.NewErrorMessage("Reply cancelled"))
			return
		}
		s.notify(components.ToastKindError, err.Error())
		s.conversation.Add(model.NewErrorMessage(err.Error()))
		return
	}
	s.logger.Debug("reply received", zap.Duration("duration", time.Since(start)))

	msg := model.NewAssistantMessage(reply)
	if msg.IsBlank() {
		msg = model.NewAssistantMessage(chat.EmptyReply)
	}
	s.conversation.Add(msg)
	fmt.Fprint(s.out, s.render(msg.Content))
}

func (s *chatSession) clear() tea.Cmd {
	s.conversation.Clear()
	return components.ShowToast(components.ToastKindStatus, "New session started")
}

func (s *chatSession) save() tea.Cmd {
	transcript := s.conversation.Transcript()
	return func() tea.Msg {
		if strings.TrimSpace(transcript) == "" {
			return components.ToastMsg{Kind: components.ToastKindWarning, Message: "Nothing to save yet"}
		}
		s.store(context.Background(), transcript, storage.SourceChat, "Saved to journal")
		return nil
	}
}

func (s *chatSession) store(ctx context.Context, content, source, done string) {
	if s.journal == nil {
		s.notify(components.ToastKindError, "Journal is unavailable")
		return
	}
	if _, err := s.journal.Add(ctx, content, source); err != nil {
		s.logger.Warn("journal write failed", zap.Error(err))
		s.notify(components.ToastKindError, "Could not save to journal")
		return
	}
	s.notify(components.ToastKindSuccess, done)
}

func (s *chatSession) notify(kind components.ToastKind, message string) {
	switch kind {
	case components.ToastKindError:
		fmt.Fprintf(s.out, "%s %s\n", styled(ErrorStyle, "[ERROR]"), message)
	case components.ToastKindWarning:
		fmt.Fprintf(s.out, "%s %s\n", styled(WarningStyle, "[WARN]"), message)
	case components.ToastKindSuccess:
		fmt.Fprintf(s.out, "%s %s\n", styled(SuccessStyle, "[OK]"), message)
	default:
		fmt.Fprintln(s.out, styled(DimStyle, message))
	}
}

// runChatLoop reads lines until EOF, Ctrl+C at the prompt, or /quit.
func runChatLoop(ctx context.Context, in lineReader, s *chatSession) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.Prompt(chatPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				return nil
			}
			return NewCommandError("chat", "read input", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		in.AppendHistory(line)
		if !s.handle(ctx, line) {
			return nil
		}
	}
}

// =============================================================================
// COMMAND
// =============================================================================

type chatOptions struct {
	raw     bool
	timeout time.Duration
}

func newChatCommand(global *globalOptions) *cobra.Command {
	opts := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode without the full screen UI",
		Long: `Starts a conversation on the plain terminal with line editing and
history. Slash commands such as /note, /save, /clear and /quit work as they
do in the chat page.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !IsTTY() {
				return ErrNoTerminal
			}
			cfg, err := global.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{Stderr: true, Console: true, Level: levelOr(cfg.Log.Level, "warn")})
			if err != nil {
				return NewCommandError("chat", "open log", err)
			}
			defer func() { _ = logger.Sync() }()

			responder, err := newResponder(cfg, logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := checkBackend(cmd.Context(), cfg.Chat); err != nil {
				fmt.Fprintf(out, "%s %s\n", styled(WarningStyle, "[WARN]"), err.Error())
			}

			var journal journalWriter
			if path, err := cfg.JournalPath(); err == nil {
				if js, err := storage.OpenJournal(path); err != nil {
					logger.Warn("journal unavailable", zap.String("path", path), zap.Error(err))
				} else {
					defer js.Close()
					journal = js
				}
			}

			renderer := plainAnswer
			if !opts.raw && IsStdoutTTY() {
				renderer = markdownAnswer(GetTerminalWidth())
			}
			session := newChatSession(out, responder, journal, renderer, opts.timeout, logger)

			historyFile := ""
			if dir, err := config.ConfigDir(); err == nil {
				historyFile = filepath.Join(dir, historyFileName)
			}
			in := newLinerReader(historyFile, session.complete)
			defer in.Close()

			fmt.Fprintln(out, styled(TitleStyle, "psy")+" "+styled(DimStyle, "type /help for commands, Ctrl+D to leave"))
			return runChatLoop(cmd.Context(), in, session)
		},
	}

	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print replies without markdown rendering")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "give up on a reply after this long")
	return cmd
}
