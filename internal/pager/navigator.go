// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"errors"
	"math"

	"go.uber.org/zap"
)

// ErrNoPages is returned when a navigator is created without pages.
var ErrNoPages = errors.New("pager: at least one page is required")

// bounceVelocity is the kick, in page widths per second, applied when
// Next or Previous is requested at the last or first page.
const bounceVelocity = 2.5

// =============================================================================
// PHASE
// =============================================================================

// Phase is the navigator state.
type Phase int

const (
	PhaseResting Phase = iota
	PhaseDragging
	PhaseAnimating
)

func (p Phase) String() string {
	switch p {
	case PhaseDragging:
		return "dragging"
	case PhaseAnimating:
		return "animating"
	default:
		return "resting"
	}
}

// =============================================================================
// OBSERVER
// =============================================================================

// Observer receives navigator events. Callbacks run synchronously on the
// goroutine that drives the navigator.
type Observer interface {
	// IndexChanged fires when the current index moves.
	IndexChanged(from, to int)
	// AnimationStarted fires when a spring run begins toward page to.
	AnimationStarted(from, to int)
	// Settled fires when a run lands on page index.
	Settled(index int)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnIndexChanged     func(from, to int)
	OnAnimationStarted func(from, to int)
	OnSettled          func(index int)
}

func (o ObserverFuncs) IndexChanged(from, to int) {
	if o.OnIndexChanged != nil {
		o.OnIndexChanged(from, to)
	}
}

func (o ObserverFuncs) AnimationStarted(from, to int) {
	if o.OnAnimationStarted != nil {
		o.OnAnimationStarted(from, to)
	}
}

func (o ObserverFuncs) Settled(index int) {
	if o.OnSettled != nil {
		o.OnSettled(index)
	}
}

// =============================================================================
// NAVIGATOR
// =============================================================================

// Option configures a Navigator.
type Option func(*Navigator)

// WithObserver registers an event observer.
func WithObserver(o Observer) Option {
	return func(n *Navigator) { n.observer = o }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigator) {
		if l != nil {
			n.logger = l
		}
	}
}

// Navigator owns the current page and composes the viewport, the gesture
// interpreter and the spring. It is not safe for concurrent use; drive it
// from a single event loop.
type Navigator struct {
	count    int
	cfg      Config
	viewport WidthSource
	gesture  *GestureInterpreter
	spring   *SpringAnimator
	observer Observer
	logger   *zap.Logger

	index    int
	phase    Phase
	offset   float64
	dragBase float64
}

// New creates a navigator over count pages. Malformed config values are
// replaced with defaults and logged as warnings.
func New(count int, viewport WidthSource, cfg Config, opts ...Option) (*Navigator, error) {
	if count < 1 {
		return nil, ErrNoPages
	}
	if viewport == nil {
		viewport = NewFixedViewport(FallbackWidth)
	}

	n := &Navigator{
		count:    count,
		viewport: viewport,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}

	cfg, warnings := cfg.Sanitize(count)
	for _, w := range warnings {
		n.logger.Warn("pager config adjusted", zap.String("detail", w))
	}
	n.cfg = cfg
	n.gesture = NewGestureInterpreter(Thresholds{
		Fraction: cfg.ThresholdFraction,
		Velocity: cfg.VelocityThreshold,
	}, cfg.DirectionLock)
	n.spring = NewSpringAnimator(cfg.Spring)

	n.index = cfg.InitialIndex
	n.offset = -float64(n.index)
	n.spring.Jump(n.offset)
	return n, nil
}

// Reconfigure applies new tuning without moving: the current page, phase
// and offset are kept and cfg.InitialIndex is ignored.
func (n *Navigator) Reconfigure(cfg Config) {
	cfg.InitialIndex = n.index
	cfg, warnings := cfg.Sanitize(n.count)
	for _, w := range warnings {
		n.logger.Warn("pager config adjusted", zap.String("detail", w))
	}
	n.cfg = cfg
	n.gesture.SetThresholds(Thresholds{
		Fraction: cfg.ThresholdFraction,
		Velocity: cfg.VelocityThreshold,
	}, cfg.DirectionLock)
	n.spring.SetConfig(cfg.Spring)
	n.offset = n.clampOffset(n.offset)
}

// Count returns the number of pages.
func (n *Navigator) Count() int { return n.count }

// CurrentIndex returns the current page. During an animation this is the
// page being animated to.
func (n *Navigator) CurrentIndex() int { return n.index }

// Phase returns the current phase.
func (n *Navigator) Phase() Phase { return n.phase }

// Offset returns the live offset in page widths.
func (n *Navigator) Offset() float64 { return n.offset }

// Config returns the sanitized configuration.
func (n *Navigator) Config() Config { return n.cfg }

// PageName returns the display name of page i.
func (n *Navigator) PageName(i int) string {
	if i < 0 || i >= len(n.cfg.PageNames) {
		return ""
	}
	return n.cfg.PageNames[i]
}

// Width returns the viewport width used for thresholds, never less than 1.
func (n *Navigator) Width() int {
	w := n.viewport.Width()
	if w < 1 {
		return 1
	}
	return w
}

// NavigateTo moves to page i, clamped into range. A drag in progress is
// discarded and the strip animates from wherever it is. Requesting the page
// that is already current or already targeted does nothing.
func (n *Navigator) NavigateTo(i int) {
	i = clampIndex(i, n.count)

	if n.phase == PhaseDragging {
		n.gesture.Cancel()
		n.logger.Debug("drag discarded by navigation", zap.Int("target", i))
		n.animateTo(i, n.offset, 0, false)
		return
	}
	if i == n.index {
		return
	}
	n.animateTo(i, n.offset, 0, n.phase == PhaseAnimating)
}

// Next moves one page forward. At the last page the strip bounces in place.
func (n *Navigator) Next() {
	if n.index >= n.count-1 {
		n.bounce(-bounceVelocity)
		return
	}
	n.NavigateTo(n.index + 1)
}

// Previous moves one page back. At the first page the strip bounces in place.
func (n *Navigator) Previous() {
	if n.index <= 0 {
		n.bounce(bounceVelocity)
		return
	}
	n.NavigateTo(n.index - 1)
}

// DragStart begins a drag. It returns false if another pointer is already
// dragging. A running animation freezes in place and becomes the drag base.
func (n *Navigator) DragStart(p Point) bool {
	if !n.gesture.Start(p) {
		return false
	}
	if n.phase == PhaseAnimating {
		n.offset = n.spring.Stop()
	}
	n.dragBase = n.offset
	n.phase = PhaseDragging
	return true
}

// DragMove updates the live offset from pointer motion.
func (n *Navigator) DragMove(p Point) {
	if n.phase != PhaseDragging {
		return
	}
	dx, ok := n.gesture.Move(p)
	if !ok {
		return
	}
	travel := dx / float64(n.Width())
	travel = math.Max(-1, math.Min(1, travel))
	n.offset = n.elastic(n.dragBase + travel)
}

// DragEnd finishes a drag and animates to the decided page. It returns the
// decision, or false if p does not belong to the live drag.
func (n *Navigator) DragEnd(p Point) (Decision, bool) {
	if n.phase != PhaseDragging {
		return DecisionCancel, false
	}
	res, ok := n.gesture.End(p, n.Width(), n.index, n.count)
	if !ok {
		return DecisionCancel, false
	}

	target := n.index
	switch res.Decision {
	case DecisionNext:
		target++
	case DecisionPrevious:
		target--
	}

	velocity := 0.0
	if res.Axis == AxisHorizontal {
		velocity = res.Velocity / float64(n.Width())
	}
	n.logger.Debug("drag ended",
		zap.Stringer("decision", res.Decision),
		zap.Float64("delta_x", res.DeltaX),
		zap.Float64("velocity", res.Velocity),
		zap.Int("target", target))

	n.animateTo(target, n.offset, velocity, false)
	return res.Decision, true
}

// DragCancel abandons the drag and springs back to the current page.
func (n *Navigator) DragCancel() {
	if n.phase != PhaseDragging {
		return
	}
	n.gesture.Cancel()
	n.animateTo(n.index, n.offset, 0, false)
}

// Step advances the animation by dt seconds. It returns true while the
// navigator is still animating.
func (n *Navigator) Step(dt float64) bool {
	if n.phase != PhaseAnimating {
		return false
	}
	pos, settled := n.spring.Step(dt)
	if settled {
		n.offset = -float64(n.index)
		n.phase = PhaseResting
		n.spring.Jump(n.offset)
		if n.observer != nil {
			n.observer.Settled(n.index)
		}
		return false
	}
	n.offset = n.clampOffset(pos)
	return true
}

// =============================================================================
// INTERNALS
// =============================================================================

// animateTo sets the index and starts a run toward it. With inherit the run
// keeps the spring's current velocity.
func (n *Navigator) animateTo(target int, from, velocity float64, inherit bool) {
	prev := n.index
	n.index = target
	if inherit {
		n.spring.Retarget(-float64(target))
	} else {
		n.spring.Launch(from, velocity, -float64(target))
	}
	n.phase = PhaseAnimating

	if n.observer != nil {
		if prev != target {
			n.observer.IndexChanged(prev, target)
		}
		n.observer.AnimationStarted(prev, target)
	}
}

func (n *Navigator) bounce(velocity float64) {
	switch n.phase {
	case PhaseDragging:
		n.gesture.Cancel()
		n.animateTo(n.index, n.offset, velocity, false)
	case PhaseAnimating:
		n.spring.Kick(velocity)
	default:
		n.animateTo(n.index, n.offset, velocity, false)
	}
}

// elastic maps a raw offset to the displayed one. Inside the page range the
// mapping is the identity; past either end the excess x is shown as
// x*L/(x+L), which approaches the overscroll limit L.
func (n *Navigator) elastic(raw float64) float64 {
	limit := n.cfg.ElasticOverscrollLimit
	lo := -float64(n.count - 1)
	switch {
	case raw > 0:
		return damp(raw, limit)
	case raw < lo:
		return lo - damp(lo-raw, limit)
	default:
		return raw
	}
}

func damp(x, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return x * limit / (x + limit)
}

func (n *Navigator) clampOffset(pos float64) float64 {
	limit := n.cfg.ElasticOverscrollLimit
	lo := -float64(n.count-1) - limit
	return math.Max(lo, math.Min(limit, pos))
}
