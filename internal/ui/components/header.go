// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// HeaderHeight is the number of rows the header occupies.
const HeaderHeight = 1

// DefaultBrand is the name shown at the left of the header.
const DefaultBrand = "Psy2"

// Header is the one line title bar: brand, current page, focus hint and the
// theme toggle.
type Header struct {
	Brand    string
	PageName string
	Focus    string // e.g. "typing"; empty when the pager has focus
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Brand: DefaultBrand,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetPage updates the page name.
func (h *Header) SetPage(name string) {
	h.PageName = name
}

// SetFocus updates the focus hint.
func (h *Header) SetFocus(focus string) {
	h.Focus = focus
}

// toggleLabel is the theme button. It shows the palette a press switches to.
func (h *Header) toggleLabel() string {
	if h.theme.IsDark {
		return "[t] light"
	}
	return "[t] dark"
}

// ToggleHit reports whether column x falls on the theme toggle.
func (h *Header) ToggleHit(x int) bool {
	w := util.StringWidth(h.toggleLabel())
	// Padding(0, 1) leaves one blank column at the right edge.
	right := h.Width - 1
	return x >= right-w && x < right
}

// View renders the header.
func (h *Header) View() string {
	width := h.Width
	if width <= 0 {
		return ""
	}
	if h.theme.GetLayoutMode() == styles.LayoutNarrow || width < 40 {
		return h.ViewCompact()
	}

	left := h.theme.HeaderBrand.Render(h.Brand)
	if h.PageName != "" {
		left += h.theme.HeaderTitle.Render("  ·  " + h.PageName)
	}
	if h.Focus != "" {
		left += h.theme.HeaderToggle.Render("  (" + h.Focus + ")")
	}
	right := h.theme.HeaderToggle.Render(h.toggleLabel())

	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return h.ViewCompact()
	}

	return h.theme.Header.Width(width).MaxWidth(width).Render(left + strings.Repeat(" ", gap) + right)
}

// ViewCompact renders the header for narrow terminals: brand and toggle only.
func (h *Header) ViewCompact() string {
	width := h.Width
	if width <= 0 {
		return ""
	}
	inner := width - 2
	right := h.theme.HeaderToggle.Render(h.toggleLabel())
	brandWidth := inner - lipgloss.Width(right) - 1
	if brandWidth < 1 {
		return h.theme.Header.Width(width).MaxWidth(width).Render(util.TruncateWidth(h.Brand, inner))
	}
	brand := h.theme.HeaderBrand.Render(util.FitWidth(h.Brand, brandWidth))
	return h.theme.Header.Width(width).MaxWidth(width).Render(brand + " " + right)
}
