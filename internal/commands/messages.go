// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Page targets for NavigateMsg.
const (
	TargetJournal   = "journal"
	TargetChat      = "chat"
	TargetResources = "resources"
)

// NavigateMsg asks the host to turn to a page. Target is one of the Target
// constants, or Index is used when Target is empty.
type NavigateMsg struct {
	Target string
	Index  int
}

// ToggleThemeMsg asks the host to flip the palette.
type ToggleThemeMsg struct{}

// NoteMsg asks the host to store Content as a journal note.
type NoteMsg struct {
	Content string
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
