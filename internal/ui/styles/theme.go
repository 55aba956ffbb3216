// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode selects the light or dark palette.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// ParseMode parses a config theme value. Unknown values mean ModeAuto.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark
	case ModeLight:
		return ModeLight
	default:
		return ModeAuto
	}
}

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header       lipgloss.Style
	HeaderBrand  lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderToggle lipgloss.Style

	// ==========================================================================
	// PAGE INDICATOR STYLES
	// ==========================================================================

	Indicator         lipgloss.Style
	IndicatorActive   lipgloss.Style
	IndicatorInactive lipgloss.Style

	// ==========================================================================
	// PAGE STYLES
	// ==========================================================================

	PageTitle lipgloss.Style
	PageBlurb lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	CardBody  lipgloss.Style
	Timestamp lipgloss.Style
	Empty     lipgloss.Style

	// ==========================================================================
	// CHAT STYLES
	// ==========================================================================

	WelcomeTitle     lipgloss.Style
	WelcomeBody      lipgloss.Style
	UserBubble       lipgloss.Style
	AssistantBubble  lipgloss.Style
	ErrorBubble      lipgloss.Style
	Typing           lipgloss.Style
	InputContainer   lipgloss.Style
	InputFocused     lipgloss.Style
	InputPlaceholder lipgloss.Style
	Status           lipgloss.Style

	// Help is the key help line at the bottom of the screen.
	Help lipgloss.Style
}

// NewTheme creates a theme for mode. ModeAuto asks the terminal for its
// background color.
func NewTheme(mode Mode) *Theme {
	isDark := true
	switch mode {
	case ModeLight:
		isDark = false
	case ModeDark:
		isDark = true
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{ColorProfile: termenv.ColorProfile()}
	t.SetDark(isDark)
	return t
}

// SetDark switches the palette. AdaptiveColor values resolve against the
// default renderer, so the change applies to every style at once.
func (t *Theme) SetDark(dark bool) {
	t.IsDark = dark
	lipgloss.SetHasDarkBackground(dark)
	t.initStyles()
}

// Toggle flips between the light and dark palette.
func (t *Theme) Toggle() {
	t.SetDark(!t.IsDark)
}

// ThemeChangedMsg is broadcast after the palette flips so views that cache
// rendered text can redraw.
type ThemeChangedMsg struct {
	Dark bool
}

// ModeName returns "dark" or "light".
func (t *Theme) ModeName() string {
	if t.IsDark {
		return string(ModeDark)
	}
	return string(ModeLight)
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.HeaderToggle = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Indicator
	t.Indicator = lipgloss.NewStyle().
		Background(SurfaceDim)

	t.IndicatorActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo)

	t.IndicatorInactive = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim)

	// Pages
	t.PageTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		MarginBottom(1)

	t.PageBlurb = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.CardBody = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Empty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Chat
	t.WelcomeTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.WelcomeBody = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Padding(0, 1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		Padding(0, 1)

	t.Typing = lipgloss.NewStyle().
		Foreground(Lavender)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.InputFocused = t.InputContainer.
		BorderForeground(Indigo)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Status = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 1)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
