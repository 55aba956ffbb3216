// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash commands typed into the chat input.
//
// A line that starts with "/" is parsed as a command instead of being sent
// to the assistant:
//
//	/help              list the commands
//	/clear             start a new conversation
//	/save              save the conversation to the journal
//	/note <text>       write a journal note without leaving the chat
//	/journal           go to the journal page (also /chat, /resources)
//	/page <n|name>     go to a page by number or name
//	/theme             switch between light and dark
//	/quit              leave psy
//
// Handlers return tea.Cmds. Work that belongs to the chat page goes through
// the Context callbacks; everything else is a message for the host.
package commands
