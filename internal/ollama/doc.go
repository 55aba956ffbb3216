// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for a local Ollama server.
//
// Only non-streaming chat is used: the chat page shows a typing indicator
// until the whole reply arrives.
//
// # Key Types
//
//   - Client: HTTP client for the Ollama API
//   - Message: Chat message with role and content
//   - ChatRequest / ChatResponse: /api/chat wire types
//   - ClientError: Typed error with sentinel values for common failures
//
// # Usage
//
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{DefaultModel: "llama3.2"})
//	reply, err := client.Complete(ctx, messages)
//	if ollama.IsNotRunning(err) {
//	    // suggest `ollama serve`
//	}
package ollama
