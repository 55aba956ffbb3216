// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package swipe

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jeranaias/psy-tui/internal/ui/components"
)

// =============================================================================
// STRIP RENDERING
// =============================================================================

// StripStart returns the strip column at the left edge of the viewport for
// the given offset (in page widths) and width.
func StripStart(offset float64, width int) int {
	return int(math.Round(-offset * float64(width)))
}

// View renders the visible window of the strip above the indicator row.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	content := m.renderStrip()
	if m.height <= components.IndicatorHeight {
		return m.indicator.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, m.indicator.View())
}

// renderStrip cuts the window [start, start+width) out of the pages laid
// side by side. Columns outside the strip are blank.
func (m Model) renderStrip() string {
	w, h := m.width, m.ContentHeight()
	if h <= 0 {
		return ""
	}
	start := StripStart(m.nav.Offset(), w)

	// Only pages that intersect the window are rendered.
	first := floorDiv(start, w)
	last := floorDiv(start+w-1, w)
	box := lipgloss.NewStyle().Width(w).MaxWidth(w).Height(h).MaxHeight(h)

	pageLines := make(map[int][]string, 2)
	for i := first; i <= last; i++ {
		if i < 0 || i >= len(m.pages) {
			continue
		}
		pageLines[i] = strings.Split(box.Render(m.pages[i].View()), "\n")
	}

	rows := make([]string, h)
	for r := 0; r < h; r++ {
		var b strings.Builder
		for i := first; i <= last; i++ {
			lo := max(start, i*w) - i*w
			hi := min(start+w, (i+1)*w) - i*w
			if lo >= hi {
				continue
			}
			lines, ok := pageLines[i]
			if !ok || r >= len(lines) {
				b.WriteString(strings.Repeat(" ", hi-lo))
				continue
			}
			seg := ansi.Cut(lines[r], lo, hi)
			b.WriteString(seg)
			if pad := (hi - lo) - ansi.StringWidth(seg); pad > 0 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		rows[r] = b.String()
	}
	return strings.Join(rows, "\n")
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
