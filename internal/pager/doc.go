// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pager implements the swipe-gesture page navigation engine.
//
// The engine turns a stream of pointer samples into discrete page changes and
// drives the visual offset between pages with a damped spring. It has no
// dependency on the terminal runtime: callers feed it pointer points, resize
// events and frame deltas, and read back the current index and offset.
//
// # Key Types
//
//   - ViewportTracker: last known usable width, with a headless fallback
//   - GestureInterpreter: pointer samples to a commit/cancel decision
//   - SpringAnimator: critically damped spring over page-width fractions
//   - Navigator: owns the current page and the Resting/Dragging/Animating phase
//
// # Offsets
//
// Offsets are expressed in page widths. The rest position of page i is -i, so
// a three page strip rests at 0, -1 or -2. While dragging past the first or
// last page the offset is displaced elastically and never exceeds the
// configured overscroll limit.
//
// # Usage
//
//	nav, err := pager.New(3, pager.NewViewportTracker(), pager.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	nav.Next()
//	for nav.Step(1.0 / 60) {
//	    render(nav.Offset())
//	}
package pager
