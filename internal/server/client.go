// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/model"
)

// DefaultClientTimeout bounds a remote chat request.
const DefaultClientTimeout = 60 * time.Second

// ErrNoEndpoint is returned when the client has no endpoint URL.
var ErrNoEndpoint = errors.New("chat endpoint not configured")

// StatusError is a non-200 reply from a chat server.
type StatusError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chat server returned HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("chat server returned HTTP %d", e.Status)
}

// Client talks to a running psy server over POST /api/chat.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the full endpoint URL, for example
// "http://127.0.0.1:8787/api/chat".
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: DefaultClientTimeout},
		logger:     zap.NewNop(),
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpClient.Timeout = d
	}
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(l *zap.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Reply sends the conversation and returns the server's reply. System
// messages are not sent; the server applies its own prompt.
func (c *Client) Reply(ctx context.Context, history []model.Message) (string, error) {
	if c.endpoint == "" {
		return "", ErrNoEndpoint
	}

	req := ChatRequest{Messages: make([]ChatMessage, 0, len(history))}
	for _, m := range history {
		if m.Role == model.RoleSystem || m.IsError {
			continue
		}
		req.Messages = append(req.Messages, ChatMessage{Role: m.Role.String(), Content: m.Content})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRequestBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("remote chat response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		_ = json.Unmarshal(data, &e)
		return "", &StatusError{Status: resp.StatusCode, Message: e.Error}
	}

	var out ChatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return out.Message, nil
}
