// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package swipe is the Bubble Tea front end of the pager.
//
// A Model lays its pages side by side on a horizontal strip, one viewport
// width each, and shows the window of the strip that the navigator's offset
// points at. Mouse drags, arrow keys, digit keys and clicks on the page
// indicator all go through a single pager.Navigator, so every way of
// changing pages follows the same threshold and spring rules.
//
// # Input routing
//
//   - Left button drags in the content area move the strip
//   - A left click on the indicator row jumps to that page
//   - Wheel events go to the active page
//   - Keys go to the pager until a focusable page takes focus (enter or i),
//     then to that page until esc hands focus back
//   - Every other message is broadcast to all pages
//
// # Frames
//
// While the navigator animates, the model schedules tea.Tick frames at the
// configured rate and steps the spring by the measured frame time. The
// loop stops as soon as the navigator settles.
//
// # Usage
//
//	sw, err := swipe.New(pages, pagerCfg, theme, swipe.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	sw.SetSize(width, height)
package swipe
