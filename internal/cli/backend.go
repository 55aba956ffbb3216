// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/assistant"
	"github.com/jeranaias/psy-tui/internal/cloud"
	"github.com/jeranaias/psy-tui/internal/config"
	"github.com/jeranaias/psy-tui/internal/model"
	"github.com/jeranaias/psy-tui/internal/ollama"
	"github.com/jeranaias/psy-tui/internal/server"
)

// Responder answers a conversation. The chat page, the ask command and the
// HTTP server all take one.
type Responder interface {
	Reply(ctx context.Context, history []model.Message) (string, error)
}

const (
	defaultBackendTimeout = 60 * time.Second
	backendCheckTimeout   = 2 * time.Second
)

func backendTimeout(c config.ChatConfig) time.Duration {
	if c.TimeoutSecs > 0 {
		return time.Duration(c.TimeoutSecs) * time.Second
	}
	return defaultBackendTimeout
}

// newResponder builds the backend named by cfg.Chat.Provider. Local
// providers are wrapped in the assistant so every request carries the
// system prompt; the remote provider is a psy server that does that itself.
func newResponder(cfg *config.Config, logger *zap.Logger) (Responder, error) {
	c := cfg.Chat
	timeout := backendTimeout(c)

	var completer assistant.Completer
	switch c.Provider {
	case config.ProviderOllama:
		completer = ollama.NewClientWithConfig(&ollama.ClientConfig{
			BaseURL:      c.EffectiveBaseURL(),
			Timeout:      timeout,
			DefaultModel: c.EffectiveModel(),
			Options: &ollama.Options{
				Temperature: c.Temperature,
				TopP:        c.TopP,
				NumPredict:  c.MaxTokens,
			},
			Logger: logger.Named("ollama"),
		})

	case config.ProviderOpenAI:
		client := cloud.NewClient(c.APIKey).
			WithBaseURL(c.EffectiveBaseURL()).
			WithModel(c.EffectiveModel()).
			WithSampling(c.Temperature, c.MaxTokens, c.TopP).
			WithTimeout(timeout).
			WithMaxRetries(c.MaxRetries).
			WithBackoff(time.Duration(c.RetryBackoffMS) * time.Millisecond).
			WithLogger(logger.Named("cloud"))
		if !client.IsConfigured() {
			return nil, fmt.Errorf("provider %q: %w (set chat.api_key or PSY_API_KEY)", c.Provider, cloud.ErrNotConfigured)
		}
		completer = client

	case config.ProviderRemote:
		return server.NewClient(c.EffectiveEndpoint()).
			WithTimeout(timeout).
			WithLogger(logger.Named("remote")), nil

	default:
		return nil, &ValidationError{
			Field:   "chat.provider",
			Value:   c.Provider,
			Reason:  "unknown provider",
			Example: "psy config set chat.provider ollama",
		}
	}

	logger.Info("chat backend ready",
		zap.String("provider", c.Provider),
		zap.String("model", c.EffectiveModel()),
		zap.String("base_url", c.EffectiveBaseURL()))

	return assistant.New(completer,
		assistant.WithSystemPrompt(c.SystemPrompt),
		assistant.WithTimeout(timeout),
		assistant.WithLogger(logger.Named("assistant")),
	), nil
}

// checkBackend reports whether the local Ollama server answers. The other
// providers are only reached on the first message.
func checkBackend(ctx context.Context, c config.ChatConfig) error {
	if c.Provider != config.ProviderOllama {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, backendCheckTimeout)
	defer cancel()

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{BaseURL: c.EffectiveBaseURL()})
	if err := client.CheckRunning(ctx); err != nil {
		return fmt.Errorf("ollama not reachable at %s: %w", c.EffectiveBaseURL(), err)
	}
	return nil
}
