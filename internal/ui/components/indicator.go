// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/psy-tui/internal/ui/styles"
	"github.com/jeranaias/psy-tui/internal/util"
)

// =============================================================================
// PAGE INDICATOR
// =============================================================================

// IndicatorHeight is the number of rows the page indicator occupies.
const IndicatorHeight = 1

// Indicator is a row of clickable page markers, one per page. The row is
// split into equal cells and the last cell absorbs the remainder.
type Indicator struct {
	Names  []string
	Active int
	Width  int
	theme  *styles.Theme
}

// NewIndicator creates an indicator for names.
func NewIndicator(theme *styles.Theme, names []string) *Indicator {
	return &Indicator{Names: names, theme: theme}
}

// cell returns the first column and width of marker i.
func (ind *Indicator) cell(i int) (start, width int) {
	n := len(ind.Names)
	if n == 0 || ind.Width <= 0 {
		return 0, 0
	}
	base := ind.Width / n
	start = base * i
	width = base
	if i == n-1 {
		width = ind.Width - start
	}
	return start, width
}

// HitTest returns the page index under column x, or -1.
func (ind *Indicator) HitTest(x int) int {
	if x < 0 || x >= ind.Width {
		return -1
	}
	for i := range ind.Names {
		start, w := ind.cell(i)
		if x >= start && x < start+w {
			return i
		}
	}
	return -1
}

// label renders marker i's text. Active markers are filled.
func (ind *Indicator) label(i int) string {
	dot := "○ "
	if i == ind.Active {
		dot = "● "
	}
	return dot + ind.Names[i]
}

// View renders the indicator row.
func (ind *Indicator) View() string {
	if len(ind.Names) == 0 || ind.Width <= 0 {
		return ""
	}

	var b strings.Builder
	for i := range ind.Names {
		_, w := ind.cell(i)
		text := util.CenterWidth(ind.label(i), w)
		if i == ind.Active {
			b.WriteString(ind.theme.IndicatorActive.Render(text))
		} else {
			b.WriteString(ind.theme.IndicatorInactive.Render(text))
		}
	}
	return b.String()
}
