// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	changed [][2]int
	started [][2]int
	settled []int
}

func (r *recorder) IndexChanged(from, to int)     { r.changed = append(r.changed, [2]int{from, to}) }
func (r *recorder) AnimationStarted(from, to int) { r.started = append(r.started, [2]int{from, to}) }
func (r *recorder) Settled(index int)             { r.settled = append(r.settled, index) }

func newTestNavigator(t *testing.T, width int) (*Navigator, *recorder) {
	t.Helper()
	rec := &recorder{}
	nav, err := New(3, NewFixedViewport(width), DefaultConfig(), WithObserver(rec))
	require.NoError(t, err)
	return nav, rec
}

func settle(t *testing.T, nav *Navigator) int {
	t.Helper()
	steps := 0
	for nav.Step(frame) {
		steps++
		require.Less(t, steps, 600, "animation did not settle")
	}
	return steps
}

func pt(x, y float64, after time.Duration) Point {
	return Point{PointerID: 1, X: x, Y: y, Time: t0.Add(after)}
}

func drag(nav *Navigator, fromX, toX float64, d time.Duration) Decision {
	nav.DragStart(pt(fromX, 10, 0))
	nav.DragMove(pt(toX, 10, d))
	dec, _ := nav.DragEnd(pt(toX, 10, d))
	return dec
}

func TestNew_NoPages(t *testing.T) {
	_, err := New(0, NewFixedViewport(100), DefaultConfig())
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestNew_InitialState(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	assert.Equal(t, 1, nav.CurrentIndex())
	assert.Equal(t, PhaseResting, nav.Phase())
	assert.Equal(t, -1.0, nav.Offset())
	assert.Equal(t, "Chat", nav.PageName(1))
}

func TestNew_InitialIndexClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialIndex = 9
	nav, err := New(3, NewFixedViewport(100), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, nav.CurrentIndex())
	assert.Equal(t, -2.0, nav.Offset())
}

func TestBoundaryClamp(t *testing.T) {
	nav, rec := newTestNavigator(t, 1000)

	nav.NavigateTo(0)
	settle(t, nav)
	nav.Previous()
	assert.Equal(t, 0, nav.CurrentIndex())
	settle(t, nav)
	assert.Equal(t, 0.0, nav.Offset())

	nav.NavigateTo(7)
	assert.Equal(t, 2, nav.CurrentIndex())
	settle(t, nav)

	nav.Next()
	assert.Equal(t, 2, nav.CurrentIndex())
	settle(t, nav)
	assert.Equal(t, -2.0, nav.Offset())

	nav.NavigateTo(-3)
	assert.Equal(t, 0, nav.CurrentIndex())

	for _, c := range rec.changed {
		assert.NotEqual(t, c[0], c[1])
	}
}

func TestBounceStaysInsideOverscroll(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.NavigateTo(2)
	settle(t, nav)

	nav.Next()
	maxOver := 0.0
	for nav.Step(frame) {
		if over := -2 - nav.Offset(); over > maxOver {
			maxOver = over
		}
	}
	assert.Greater(t, maxOver, 0.0, "expected a visible bounce")
	assert.LessOrEqual(t, maxOver, DefaultElasticOverscrollLimit)
	assert.Equal(t, -2.0, nav.Offset())
}

func TestThresholdCommit(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)

	dec := drag(nav, 600, 449, 10*time.Second)
	assert.Equal(t, DecisionNext, dec)
	assert.Equal(t, 2, nav.CurrentIndex())

	nav, _ = newTestNavigator(t, 1000)
	dec = drag(nav, 600, 451, 10*time.Second)
	assert.Equal(t, DecisionCancel, dec)
	assert.Equal(t, 1, nav.CurrentIndex())
	settle(t, nav)
	assert.Equal(t, -1.0, nav.Offset())
}

func TestVelocityOverride(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	dec := drag(nav, 500, 450, 50*time.Millisecond)
	assert.Equal(t, DecisionNext, dec)
	assert.Equal(t, 2, nav.CurrentIndex())
}

func TestVelocityOverride_TerminalFlick(t *testing.T) {
	// 10 columns in 40ms on an 80 column terminal: short of the 12 column
	// distance threshold but well past the default release speed.
	nav, _ := newTestNavigator(t, 80)
	dec := drag(nav, 50, 40, 40*time.Millisecond)
	assert.Equal(t, DecisionNext, dec)
	assert.Equal(t, 2, nav.CurrentIndex())

	nav, _ = newTestNavigator(t, 80)
	dec = drag(nav, 40, 50, 40*time.Millisecond)
	assert.Equal(t, DecisionPrevious, dec)
	assert.Equal(t, 0, nav.CurrentIndex())

	// The same distance dragged over a second stays put.
	nav, _ = newTestNavigator(t, 80)
	dec = drag(nav, 50, 40, time.Second)
	assert.Equal(t, DecisionCancel, dec)
	assert.Equal(t, 1, nav.CurrentIndex())
}

func TestVelocityWithoutDirectionDoesNotCommit(t *testing.T) {
	th := Thresholds{Fraction: 0.15, Velocity: 500}
	assert.Equal(t, DecisionCancel, th.Decide(0, -2000, 1000, 1, 3))
	assert.Equal(t, DecisionCancel, th.Decide(10, -2000, 1000, 1, 3))
}

func TestNoWraparound(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.NavigateTo(2)
	settle(t, nav)

	dec := drag(nav, 800, 300, 200*time.Millisecond)
	assert.Equal(t, DecisionCancel, dec)
	assert.Equal(t, 2, nav.CurrentIndex())

	nav.NavigateTo(0)
	settle(t, nav)
	dec = drag(nav, 300, 800, 200*time.Millisecond)
	assert.Equal(t, DecisionCancel, dec)
	assert.Equal(t, 0, nav.CurrentIndex())
}

func TestSingleActivePointer(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	require.True(t, nav.DragStart(pt(500, 10, 0)))

	second := Point{PointerID: 2, X: 100, Y: 10, Time: t0}
	assert.False(t, nav.DragStart(second))

	second.X = 900
	nav.DragMove(second)
	assert.Equal(t, -1.0, nav.Offset())

	_, ok := nav.DragEnd(second)
	assert.False(t, ok)
	assert.Equal(t, PhaseDragging, nav.Phase())

	nav.DragMove(pt(400, 10, 100*time.Millisecond))
	assert.InDelta(t, -1.1, nav.Offset(), 1e-9)
}

func TestInterruptInPlace(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.NavigateTo(2)
	for nav.Offset() > -1.4 {
		require.True(t, nav.Step(frame))
	}
	frozen := nav.Offset()
	require.Equal(t, PhaseAnimating, nav.Phase())

	require.True(t, nav.DragStart(pt(500, 10, 0)))
	assert.Equal(t, PhaseDragging, nav.Phase())
	assert.Equal(t, frozen, nav.Offset())

	nav.DragMove(pt(400, 10, 100*time.Millisecond))
	assert.InDelta(t, frozen-0.1, nav.Offset(), 1e-9)
}

func TestInterruptInPlace_NavigateTo(t *testing.T) {
	nav, rec := newTestNavigator(t, 1000)
	nav.NavigateTo(2)
	for nav.Offset() > -1.4 {
		require.True(t, nav.Step(frame))
	}
	live := nav.Offset()

	nav.NavigateTo(0)
	assert.Equal(t, PhaseAnimating, nav.Phase())
	assert.Equal(t, 0, nav.CurrentIndex())
	assert.Equal(t, live, nav.Offset(), "the new run starts where the strip is")

	settle(t, nav)
	assert.Equal(t, 0.0, nav.Offset())
	assert.Equal(t, [][2]int{{1, 2}, {2, 0}}, rec.changed)
	assert.Equal(t, []int{0}, rec.settled, "the interrupted run never settles")
}

func TestNavigateToIdempotent(t *testing.T) {
	nav, rec := newTestNavigator(t, 1000)

	nav.NavigateTo(1)
	assert.Equal(t, PhaseResting, nav.Phase())
	assert.Empty(t, rec.started)

	nav.NavigateTo(2)
	nav.Step(frame)
	nav.NavigateTo(2)
	nav.NavigateTo(2)
	assert.Len(t, rec.started, 1)
	assert.Len(t, rec.changed, 1)
	settle(t, nav)
	assert.Equal(t, []int{2}, rec.settled)
}

func TestEndToEndSwipe(t *testing.T) {
	nav, rec := newTestNavigator(t, 1000)

	require.True(t, nav.DragStart(pt(500, 10, 0)))
	nav.DragMove(pt(420, 10, 50*time.Millisecond))
	nav.DragMove(pt(350, 10, 100*time.Millisecond))
	assert.InDelta(t, -1.15, nav.Offset(), 1e-9)

	dec, ok := nav.DragEnd(pt(350, 10, 100*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, DecisionNext, dec)
	assert.Equal(t, 2, nav.CurrentIndex())
	assert.Equal(t, PhaseAnimating, nav.Phase())

	settle(t, nav)
	assert.Equal(t, PhaseResting, nav.Phase())
	assert.Equal(t, -2.0, nav.Offset())
	assert.Equal(t, [][2]int{{1, 2}}, rec.started)
	assert.Equal(t, []int{2}, rec.settled)
}

func TestNavigateDuringDragDiscardsSample(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.DragStart(pt(500, 10, 0))
	nav.DragMove(pt(450, 10, 50*time.Millisecond))

	nav.NavigateTo(0)
	assert.Equal(t, PhaseAnimating, nav.Phase())
	assert.Equal(t, 0, nav.CurrentIndex())

	_, ok := nav.DragEnd(pt(100, 10, 60*time.Millisecond))
	assert.False(t, ok, "sample must be gone")

	settle(t, nav)
	assert.Equal(t, 0.0, nav.Offset())
}

func TestDragCancelSpringsBack(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.DragStart(pt(500, 10, 0))
	nav.DragMove(pt(200, 10, time.Second))
	nav.DragCancel()

	assert.Equal(t, PhaseAnimating, nav.Phase())
	assert.Equal(t, 1, nav.CurrentIndex())
	settle(t, nav)
	assert.Equal(t, -1.0, nav.Offset())
}

func TestElasticOverscroll(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.NavigateTo(0)
	settle(t, nav)

	nav.DragStart(pt(0, 10, 0))
	nav.DragMove(pt(1000, 10, time.Second))
	assert.InDelta(t, 0.2/1.2, nav.Offset(), 1e-9)

	nav.DragMove(pt(9000, 10, 2*time.Second))
	assert.InDelta(t, 0.2/1.2, nav.Offset(), 1e-9, "travel is limited to one page")
	assert.Less(t, nav.Offset(), DefaultElasticOverscrollLimit)

	nav.DragEnd(pt(9000, 10, 2*time.Second))
	assert.Equal(t, 0, nav.CurrentIndex())
	settle(t, nav)
	assert.Equal(t, 0.0, nav.Offset())
}

func TestVerticalDragIgnored(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)
	nav.DragStart(pt(500, 10, 0))
	nav.DragMove(pt(505, 20, 20*time.Millisecond))
	nav.DragMove(pt(200, 20, 40*time.Millisecond))
	assert.Equal(t, -1.0, nav.Offset())

	dec, ok := nav.DragEnd(pt(200, 20, 40*time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, DecisionCancel, dec)
	assert.Equal(t, 1, nav.CurrentIndex())
}

func TestDirectionLockDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DirectionLock = false
	nav, err := New(3, NewFixedViewport(1000), cfg)
	require.NoError(t, err)

	nav.DragStart(pt(500, 10, 0))
	nav.DragMove(pt(495, 40, 20*time.Millisecond))
	assert.InDelta(t, -1.005, nav.Offset(), 1e-9)
}

func TestZeroWidthViewport(t *testing.T) {
	nav, err := New(3, NewFixedViewport(0), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, nav.Width())

	nav.DragStart(pt(5, 0, 0))
	nav.DragMove(pt(3, 0, time.Second))
	assert.False(t, isNaN(nav.Offset()))
}

func TestResizeAffectsThreshold(t *testing.T) {
	vp := NewFixedViewport(1000)
	nav, err := New(3, vp, DefaultConfig())
	require.NoError(t, err)

	vp.Resize(500)
	dec := drag(nav, 300, 220, 2*time.Second)
	assert.Equal(t, DecisionNext, dec, "80 columns exceeds the 75 column threshold")
}

func TestOffsetNeverLeavesOverscrollBounds(t *testing.T) {
	nav, _ := newTestNavigator(t, 100)
	nav.NavigateTo(2)
	settle(t, nav)

	nav.DragStart(pt(90, 0, 0))
	nav.DragMove(pt(0, 0, 10*time.Millisecond))
	nav.DragEnd(pt(0, 0, 10*time.Millisecond))
	for nav.Step(frame) {
		assert.GreaterOrEqual(t, nav.Offset(), -2-DefaultElasticOverscrollLimit)
		assert.LessOrEqual(t, nav.Offset(), DefaultElasticOverscrollLimit)
	}
}

func isNaN(f float64) bool { return f != f }

func TestReconfigureKeepsPosition(t *testing.T) {
	nav, _ := newTestNavigator(t, 1000)

	cfg := DefaultConfig()
	cfg.ThresholdFraction = 0.5
	cfg.InitialIndex = 0
	cfg.Spring.Stiffness = 200
	nav.Reconfigure(cfg)

	assert.Equal(t, 1, nav.CurrentIndex(), "initial index is ignored")
	assert.Equal(t, -1.0, nav.Offset())
	assert.Equal(t, 0.5, nav.Config().ThresholdFraction)

	// 300 columns slowly: past the old 15% threshold, short of the new 50%.
	assert.Equal(t, DecisionCancel, drag(nav, 600, 300, 2*time.Second))
	settle(t, nav)
	assert.Equal(t, 1, nav.CurrentIndex())

	assert.Equal(t, DecisionNext, drag(nav, 900, 300, 2*time.Second))
	settle(t, nav)
	assert.Equal(t, 2, nav.CurrentIndex())
}

func TestEndToEndSwipe_Right(t *testing.T) {
	// +300 over 3s on a 1000 wide viewport is 100 per second and twice the
	// distance threshold.
	nav, rec := newTestNavigator(t, 1000)

	require.True(t, nav.DragStart(pt(400, 10, 0)))
	nav.DragMove(pt(700, 10, 3*time.Second))
	assert.InDelta(t, -0.7, nav.Offset(), 1e-9)

	dec, ok := nav.DragEnd(pt(700, 10, 3*time.Second))
	require.True(t, ok)
	assert.Equal(t, DecisionPrevious, dec)
	assert.Equal(t, 0, nav.CurrentIndex())

	settle(t, nav)
	assert.Equal(t, PhaseResting, nav.Phase())
	assert.Equal(t, 0.0, nav.Offset())
	assert.Equal(t, []int{0}, rec.settled)
}
