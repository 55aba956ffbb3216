// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant frames conversations for the therapist persona and sends
// them to a chat backend.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/model"
)

// FallbackReply is returned when the backend answers with nothing.
const FallbackReply = "I apologize, but I couldn't generate a response."

// ErrEmptyConversation is returned when there is nothing to answer.
var ErrEmptyConversation = errors.New("conversation has no user message")

// Completer sends a full message list to a model and returns its reply.
type Completer interface {
	Complete(ctx context.Context, messages []model.Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, messages []model.Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []model.Message) (string, error) {
	return f(ctx, messages)
}

// Option configures a Service.
type Option func(*Service)

// WithSystemPrompt replaces the system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) {
		if strings.TrimSpace(prompt) != "" {
			s.systemPrompt = prompt
		}
	}
}

// WithTimeout bounds each reply.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service answers conversations as Psy.
type Service struct {
	completer    Completer
	systemPrompt string
	timeout      time.Duration
	logger       *zap.Logger
}

// New creates a service over completer.
func New(completer Completer, opts ...Option) *Service {
	s := &Service{
		completer:    completer,
		systemPrompt: DefaultSystemPrompt,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SystemPrompt returns the prompt prepended to every conversation.
func (s *Service) SystemPrompt() string {
	return s.systemPrompt
}

// Reply prepends the system prompt to history and returns the model's answer.
// System messages supplied by the caller are dropped.
func (s *Service) Reply(ctx context.Context, history []model.Message) (string, error) {
	messages := s.Frame(history)
	if len(messages) == 1 {
		return "", ErrEmptyConversation
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.logger.Warn("chat completion failed", zap.Error(err), zap.Int("messages", len(messages)))
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	s.logger.Debug("chat completion",
		zap.Duration("duration", time.Since(start)),
		zap.Int("messages", len(messages)),
		zap.Int("reply_len", len(reply)))

	if strings.TrimSpace(reply) == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

// Frame returns the message list sent to the backend: the system prompt
// followed by the non-system messages of history.
func (s *Service) Frame(history []model.Message) []model.Message {
	out := make([]model.Message, 0, len(history)+1)
	out = append(out, model.Message{Role: model.RoleSystem, Content: s.systemPrompt})
	for _, m := range history {
		if m.Role == model.RoleSystem || m.IsError || !m.Role.Valid() {
			continue
		}
		out = append(out, model.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
