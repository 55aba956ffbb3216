// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the Psy assistant over HTTP and provides the client
// the TUI uses to talk to a running server.
//
// # Endpoints
//
//   - POST    /api/chat - Reply to a conversation
//   - OPTIONS /api/chat - CORS preflight
//   - GET     /health   - Health check
//
// # Middleware
//
//   - Panic recovery with stack trace logging
//   - Request IDs (X-Request-Id)
//   - Structured request logging via zap
//   - Per client rate limiting via golang.org/x/time/rate
//   - CORS headers for browser clients
//
// # Key Types
//
//   - Server: HTTP server with routes and middleware
//   - Config: Listen address, CORS origins and rate limit
//   - Client: Remote chat client used by provider = "remote"
//
// # Usage
//
//	srv := server.New(service, server.Config{Addr: "127.0.0.1:8787"}, logger)
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//		return err
//	}
package server
