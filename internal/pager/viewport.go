// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// FallbackWidth is used when no terminal is attached to stdout.
const FallbackWidth = 80

// WidthSource reports the usable width of the viewport in columns.
type WidthSource interface {
	Width() int
}

// ViewportTracker holds the last known viewport width.
// The zero value reports a width of 0; use NewViewportTracker or
// NewFixedViewport to construct one.
type ViewportTracker struct {
	width atomic.Int64
}

// NewViewportTracker reads the width of the terminal attached to stdout.
// Headless environments get FallbackWidth.
func NewViewportTracker() *ViewportTracker {
	return NewFixedViewport(DetectWidth(int(os.Stdout.Fd())))
}

// NewFixedViewport returns a tracker that starts at the given width.
func NewFixedViewport(width int) *ViewportTracker {
	v := &ViewportTracker{}
	v.Resize(width)
	return v
}

// DetectWidth returns the column count of the terminal behind fd, or
// FallbackWidth when fd is not a terminal or cannot be queried.
func DetectWidth(fd int) int {
	if !term.IsTerminal(fd) {
		return FallbackWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return FallbackWidth
	}
	return w
}

// Width returns the last recorded width.
func (v *ViewportTracker) Width() int {
	return int(v.width.Load())
}

// Resize records a new width. Negative widths are stored as 0.
func (v *ViewportTracker) Resize(width int) {
	if width < 0 {
		width = 0
	}
	v.width.Store(int64(width))
}
