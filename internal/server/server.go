// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/psy-tui/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8787"

	// MaxRequestBodySize is the maximum size for a request body (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxMessageCount is the maximum number of messages in a request.
	MaxMessageCount = 100

	// ChatFailureMessage is the only error text clients ever see.
	ChatFailureMessage = "Failed to process chat request"

	// Version is the server version.
	Version = "0.1.0"
)

// ============================================================================
// SERVER
// ============================================================================

// Replier answers a conversation. *assistant.Service satisfies it.
type Replier interface {
	Reply(ctx context.Context, history []model.Message) (string, error)
}

// Config controls the HTTP server.
type Config struct {
	// Addr is the listen address, "host:port".
	Addr string

	// AllowedOrigins lists CORS origins. "*" allows any origin.
	AllowedOrigins []string

	// RatePerMinute limits chat requests per client IP. Zero disables it.
	RatePerMinute int
}

// Server serves the chat API.
type Server struct {
	cfg     Config
	replier Replier
	logger  *zap.Logger
	limiter *RateLimiter
	router  *http.ServeMux
	started time.Time

	mu     sync.Mutex
	server *http.Server
}

// New creates a server that answers with replier.
func New(replier Replier, cfg Config, logger *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:     cfg,
		replier: replier,
		logger:  logger,
		router:  http.NewServeMux(),
		started: time.Now(),
	}
	if cfg.RatePerMinute > 0 {
		s.limiter = NewRateLimiter(cfg.RatePerMinute, time.Minute)
	}
	s.setupRoutes()
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

func (s *Server) setupRoutes() {
	chat := http.Handler(http.HandlerFunc(s.handleChat))
	if s.limiter != nil {
		chat = RateLimitMiddleware(s.limiter)(chat)
	}
	s.router.Handle("/api/chat", CORSMiddleware(&CORSConfig{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})(chat))
	s.router.HandleFunc("/health", s.handleHealth)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware(),
		LoggingMiddleware(s.logger),
		SecurityHeadersMiddleware(),
	)(s.router)
}

// ============================================================================
// REQUEST/RESPONSE TYPES
// ============================================================================

// ChatMessage is a message on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// toModel converts wire messages, rejecting unknown roles.
func toModel(msgs []ChatMessage) ([]model.Message, error) {
	if len(msgs) == 0 {
		return nil, errors.New("messages is empty")
	}
	if len(msgs) > MaxMessageCount {
		return nil, fmt.Errorf("too many messages: %d (max %d)", len(msgs), MaxMessageCount)
	}
	out := make([]model.Message, 0, len(msgs))
	for i, m := range msgs {
		role := model.Role(m.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("invalid role %q at message %d", m.Role, i)
		}
		out = append(out, model.NewMessage(role, m.Content))
	}
	return out, nil
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleChat handles POST /api/chat. Every failure is reported with the same
// generic message; details only go to the log.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST, OPTIONS")
		s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	reqID := RequestIDFromContext(r.Context())
	fail := func(reason string, err error) {
		s.logger.Warn("chat request failed",
			zap.String("request_id", reqID),
			zap.String("reason", reason),
			zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ChatFailureMessage})
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err != nil {
		fail("read body", err)
		return
	}
	if len(body) > MaxRequestBodySize {
		fail("body too large", fmt.Errorf("body exceeds %d bytes", MaxRequestBodySize))
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		fail("decode body", err)
		return
	}
	history, err := toModel(req.Messages)
	if err != nil {
		fail("validate messages", err)
		return
	}

	reply, err := s.replier.Reply(r.Context(), history)
	if err != nil {
		fail("reply", err)
		return
	}
	s.writeJSON(w, http.StatusOK, ChatResponse{Message: reply})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address. It blocks until the server stops
// and returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	s.logger.Info("server starting", zap.String("addr", s.cfg.Addr), zap.String("version", Version))
	return srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}
