// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for psy.

# Components

Header (header.go) - One line title bar with the brand, current page and the
theme toggle.

Indicator (indicator.go) - Row of clickable page markers with hit testing.

MessageBubble, MessageList (message.go) - Chat message rendering. Assistant
replies go through a MarkdownRenderer when one is set.

Welcome (welcome.go) - Centered title and blurb for empty states.

ToastManager (toast.go) - Short lived one line notices.

# Usage

	header := components.NewHeader(theme)
	header.SetWidth(width)
	header.SetPage("Chat")
	view := header.View()
*/
package components
