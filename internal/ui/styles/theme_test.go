// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"dark", ModeDark},
		{" Light ", ModeLight},
		{"auto", ModeAuto},
		{"", ModeAuto},
		{"neon", ModeAuto},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewTheme_ExplicitModes(t *testing.T) {
	defer lipgloss.SetHasDarkBackground(true)

	light := NewTheme(ModeLight)
	if light.IsDark {
		t.Error("ModeLight theme reports dark")
	}
	if lipgloss.HasDarkBackground() {
		t.Error("ModeLight should set the renderer to a light background")
	}

	dark := NewTheme(ModeDark)
	if !dark.IsDark || dark.ModeName() != "dark" {
		t.Errorf("ModeDark theme = %v/%s", dark.IsDark, dark.ModeName())
	}
}

func TestTheme_Toggle(t *testing.T) {
	defer lipgloss.SetHasDarkBackground(true)

	theme := NewTheme(ModeDark)
	theme.Toggle()
	if theme.IsDark || theme.ModeName() != "light" {
		t.Fatalf("after Toggle: IsDark=%v", theme.IsDark)
	}
	if lipgloss.HasDarkBackground() {
		t.Error("Toggle should update the renderer")
	}
	theme.Toggle()
	if !theme.IsDark {
		t.Error("second Toggle should restore dark")
	}
}

func TestTheme_StylesRender(t *testing.T) {
	theme := NewTheme(ModeDark)
	for name, s := range map[string]lipgloss.Style{
		"Header":          theme.Header,
		"IndicatorActive": theme.IndicatorActive,
		"PageTitle":       theme.PageTitle,
		"UserBubble":      theme.UserBubble,
		"AssistantBubble": theme.AssistantBubble,
		"ErrorBubble":     theme.ErrorBubble,
		"Help":            theme.Help,
	} {
		if s.Render("test") == "" {
			t.Errorf("%s style rendered empty", name)
		}
	}
}

func TestGetLayoutMode(t *testing.T) {
	theme := NewTheme(ModeDark)
	for _, tt := range []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{80, LayoutMedium},
		{120, LayoutWide},
	} {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: GetLayoutMode() = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestTypingSpinner(t *testing.T) {
	if len(TypingSpinner.Frames) == 0 || TypingSpinner.FPS <= 0 {
		t.Errorf("TypingSpinner not configured: %+v", TypingSpinner)
	}
}
