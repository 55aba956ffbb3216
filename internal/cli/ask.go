// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/logging"
	"github.com/jeranaias/psy-tui/internal/model"
)

// maxStdinMessage bounds a message piped on stdin.
const maxStdinMessage = 64 * 1024

type askOptions struct {
	raw     bool
	timeout time.Duration
}

func newAskCommand(global *globalOptions) *cobra.Command {
	opts := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the reply",
		Long: `Sends a single message through the configured chat backend and prints
the reply. Without arguments the message is read from stdin.`,
		Example: `  psy ask "I keep replaying an argument from work"
  echo "How do I wind down before bed?" | psy ask
  psy ask --provider openai --raw "Suggest a grounding exercise"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := askMessage(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := global.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Options{Stderr: true, Console: true, Level: levelOr(cfg.Log.Level, "warn")})
			if err != nil {
				return NewCommandError("ask", "open log", err)
			}
			defer func() { _ = logger.Sync() }()

			responder, err := newResponder(cfg, logger)
			if err != nil {
				return err
			}
			if err := checkBackend(cmd.Context(), cfg.Chat); err != nil {
				return NewCommandError("ask", "check backend", err)
			}

			renderer := plainAnswer
			if !opts.raw && IsStdoutTTY() {
				renderer = markdownAnswer(GetTerminalWidth())
			}
			return runAsk(cmd.Context(), cmd.OutOrStdout(), responder, message, opts.timeout, renderer, logger)
		},
	}

	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the reply without markdown rendering")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 2*time.Minute, "give up after this long")
	return cmd
}

// askMessage joins the arguments, or reads stdin when there are none.
func askMessage(args []string, stdin io.Reader) (string, error) {
	message := strings.TrimSpace(strings.Join(args, " "))
	if message == "" && len(args) == 0 && stdin != nil {
		data, err := io.ReadAll(io.LimitReader(stdin, maxStdinMessage))
		if err != nil {
			return "", NewCommandError("ask", "read stdin", err)
		}
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		return "", ErrMissingArgument("message", `psy ask "How can I calm down before a meeting?"`)
	}
	return message, nil
}

// answerRenderer formats a reply for the terminal.
type answerRenderer func(reply string) string

func plainAnswer(reply string) string {
	return strings.TrimSpace(reply) + "\n"
}

func markdownAnswer(width int) answerRenderer {
	return func(reply string) string {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width-4),
		)
		if err != nil {
			return plainAnswer(reply)
		}
		out, err := r.Render(reply)
		if err != nil {
			return plainAnswer(reply)
		}
		return out
	}
}

func runAsk(ctx context.Context, out io.Writer, responder Responder, message string, timeout time.Duration, render answerRenderer, logger *zap.Logger) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := responder.Reply(ctx, []model.Message{model.NewUserMessage(message)})
	if err != nil {
		return NewCommandError("ask", "get reply", err)
	}
	logger.Debug("ask reply", zap.Duration("duration", time.Since(start)), zap.Int("reply_len", len(reply)))

	_, err = fmt.Fprint(out, render(reply))
	return err
}

func levelOr(level, fallback string) string {
	if strings.TrimSpace(level) == "" {
		return fallback
	}
	return level
}
