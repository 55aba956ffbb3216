// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat page of the TUI.
//
// The page shows the conversation in a scrollable viewport, a typing
// indicator while a reply is pending, and a single line input. Replies
// come from a Responder, which is either the in-process assistant or a
// client for a running chat server.
//
// # Keys
//
//   - enter: send the message (blank input is ignored)
//   - ctrl+r: start a new conversation
//   - ctrl+s: save the transcript to the journal
//   - ctrl+x: cancel the pending reply
//   - up/down, pgup/pgdown: scroll
//
// Typed characters only reach the input while the page has focus.
package chat
