// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for psy.

All colors are Lip Gloss AdaptiveColor values. The Theme decides which half
of each pair is used: ModeAuto asks the terminal (via termenv), ModeDark and
ModeLight force a palette, and Toggle flips it at runtime.

# Color System (colors.go)

  - Indigo - Brand color and active page marker
  - Teal - Calm accent for journal entries and resources
  - Lavender - Assistant messages and the typing indicator
  - Rose, Amber, Emerald - Errors, warnings, success

# Theme System (theme.go)

	theme := styles.NewTheme(styles.ParseMode(cfg.UI.Theme))
	title := theme.PageTitle.Render("Journal")
	theme.Toggle()

# Animations (animations.go)

TypingSpinner is a bubbles spinner definition for the chat page.
*/
package styles
