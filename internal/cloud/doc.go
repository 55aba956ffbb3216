// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides a client for OpenAI compatible chat completion APIs.
//
// The default endpoint is Groq's OpenAI compatible API running
// llama-3.3-70b-versatile, but any service exposing /chat/completions works.
//
// # Key Types
//
//   - Client: Chat completions client with retry and backoff
//   - ChatMessage / ChatRequest / ChatResponse: Wire types
//   - APIError: Error body returned by the API
//
// # Usage
//
//	client := cloud.NewClient(apiKey).
//	    WithBaseURL("https://api.groq.com/openai/v1").
//	    WithModel("llama-3.3-70b-versatile")
//	reply, err := client.Complete(ctx, messages)
package cloud
