// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/psy-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN
// =============================================================================

type glamourKey struct {
	width int
	dark  bool
}

// GlamourRenderer renders markdown with glamour. One renderer is built per
// width and background and reused; the style follows the theme.
type GlamourRenderer struct {
	theme *styles.Theme

	mu        sync.Mutex
	renderers map[glamourKey]*glamour.TermRenderer
}

// NewGlamourRenderer creates a renderer that follows theme.
func NewGlamourRenderer(theme *styles.Theme) *GlamourRenderer {
	return &GlamourRenderer{
		theme:     theme,
		renderers: make(map[glamourKey]*glamour.TermRenderer),
	}
}

func (g *GlamourRenderer) renderer(width int) *glamour.TermRenderer {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := glamourKey{width: width, dark: g.theme.IsDark}
	if r, ok := g.renderers[k]; ok {
		return r
	}

	style := "light"
	if k.dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	g.renderers[k] = r
	return r
}

// Render returns content as styled terminal text. If glamour fails the
// content is word wrapped instead.
func (g *GlamourRenderer) Render(content string, width int) string {
	if width < 1 {
		width = 1
	}
	r := g.renderer(width)
	if r == nil {
		return wordWrap(content, width)
	}
	out, err := r.Render(content)
	if err != nil {
		return wordWrap(content, width)
	}
	// glamour pads every block with a margin line.
	return strings.Trim(out, "\n")
}
