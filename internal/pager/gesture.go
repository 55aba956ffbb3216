// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"math"
	"time"
)

// =============================================================================
// TYPES
// =============================================================================

// Axis is the classification of a drag under direction lock.
type Axis int

const (
	AxisUndetermined Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "undetermined"
	}
}

// Decision is the outcome of a finished drag.
type Decision int

const (
	DecisionCancel Decision = iota
	DecisionNext
	DecisionPrevious
)

func (d Decision) String() string {
	switch d {
	case DecisionNext:
		return "next"
	case DecisionPrevious:
		return "previous"
	default:
		return "cancel"
	}
}

// Point is one pointer sample.
type Point struct {
	PointerID int
	X, Y      float64
	Time      time.Time
}

// Sample is the live state of one drag. It exists from Start until the drag
// is ended or cancelled.
type Sample struct {
	PointerID          int
	StartX, StartY     float64
	CurrentX, CurrentY float64
	StartTime          time.Time
	LastTime           time.Time
	Axis               Axis
}

// DeltaX returns the horizontal travel so far.
func (s Sample) DeltaX() float64 {
	return s.CurrentX - s.StartX
}

// Result describes a finished drag.
type Result struct {
	Decision Decision
	DeltaX   float64
	// Velocity in columns per second, measured over the whole drag.
	Velocity float64
	Axis     Axis
}

// Thresholds decide when a drag commits.
type Thresholds struct {
	// Fraction of the viewport width.
	Fraction float64
	// Velocity in columns per second.
	Velocity float64
}

// Decide maps a finished drag to a navigation decision.
//
// A drag commits to the next page when it travelled further left than the
// distance threshold, or was released faster than the velocity threshold while
// moving left. The previous page is symmetric. Commits past the first or last
// page become DecisionCancel.
func (t Thresholds) Decide(deltaX, velocity float64, width, index, count int) Decision {
	threshold := float64(width) * t.Fraction

	decision := DecisionCancel
	switch {
	case deltaX < -threshold || (velocity < -t.Velocity && deltaX < 0):
		decision = DecisionNext
	case deltaX > threshold || (velocity > t.Velocity && deltaX > 0):
		decision = DecisionPrevious
	}

	if decision == DecisionNext && index >= count-1 {
		return DecisionCancel
	}
	if decision == DecisionPrevious && index <= 0 {
		return DecisionCancel
	}
	return decision
}

// =============================================================================
// INTERPRETER
// =============================================================================

// GestureInterpreter tracks at most one drag at a time.
type GestureInterpreter struct {
	thresholds    Thresholds
	directionLock bool
	sample        *Sample
}

// NewGestureInterpreter creates an interpreter.
func NewGestureInterpreter(thresholds Thresholds, directionLock bool) *GestureInterpreter {
	return &GestureInterpreter{thresholds: thresholds, directionLock: directionLock}
}

// Thresholds returns the commit thresholds.
func (g *GestureInterpreter) Thresholds() Thresholds {
	return g.thresholds
}

// SetThresholds replaces the commit thresholds and direction lock. A live
// drag is judged against the new values when it ends.
func (g *GestureInterpreter) SetThresholds(thresholds Thresholds, directionLock bool) {
	g.thresholds = thresholds
	g.directionLock = directionLock
}

// Active reports whether a drag is in progress.
func (g *GestureInterpreter) Active() bool {
	return g.sample != nil
}

// Sample returns a copy of the live sample.
func (g *GestureInterpreter) Sample() (Sample, bool) {
	if g.sample == nil {
		return Sample{}, false
	}
	return *g.sample, true
}

// Start begins a drag. It returns false and changes nothing while another
// drag is live.
func (g *GestureInterpreter) Start(p Point) bool {
	if g.sample != nil {
		return false
	}
	axis := AxisUndetermined
	if !g.directionLock {
		axis = AxisHorizontal
	}
	g.sample = &Sample{
		PointerID: p.PointerID,
		StartX:    p.X,
		StartY:    p.Y,
		CurrentX:  p.X,
		CurrentY:  p.Y,
		StartTime: p.Time,
		LastTime:  p.Time,
		Axis:      axis,
	}
	return true
}

// Move records pointer motion and returns the horizontal delta from the start.
// ok is false when there is no drag for this pointer or the drag has been
// classified as vertical.
func (g *GestureInterpreter) Move(p Point) (deltaX float64, ok bool) {
	s := g.sample
	if s == nil || s.PointerID != p.PointerID {
		return 0, false
	}
	s.CurrentX, s.CurrentY = p.X, p.Y
	s.LastTime = p.Time

	dx := s.CurrentX - s.StartX
	dy := s.CurrentY - s.StartY
	if s.Axis == AxisUndetermined && (dx != 0 || dy != 0) {
		if math.Abs(dx) <= math.Abs(dy) {
			s.Axis = AxisVertical
		} else {
			s.Axis = AxisHorizontal
		}
	}
	if s.Axis == AxisVertical {
		return 0, false
	}
	return dx, true
}

// End finishes the drag and decides its outcome. The sample is consumed.
// ok is false when there is no drag for this pointer.
func (g *GestureInterpreter) End(p Point, width, index, count int) (Result, bool) {
	s := g.sample
	if s == nil || s.PointerID != p.PointerID {
		return Result{}, false
	}
	g.sample = nil

	s.CurrentX, s.CurrentY = p.X, p.Y
	s.LastTime = p.Time
	if s.Axis == AxisUndetermined {
		dx := s.CurrentX - s.StartX
		dy := s.CurrentY - s.StartY
		switch {
		case dx == 0 && dy == 0:
		case math.Abs(dx) <= math.Abs(dy):
			s.Axis = AxisVertical
		default:
			s.Axis = AxisHorizontal
		}
	}
	if s.Axis == AxisVertical {
		return Result{Decision: DecisionCancel, Axis: AxisVertical}, true
	}

	dx := s.DeltaX()
	v := Velocity(s.StartX, s.CurrentX, s.LastTime.Sub(s.StartTime))
	return Result{
		Decision: g.thresholds.Decide(dx, v, width, index, count),
		DeltaX:   dx,
		Velocity: v,
		Axis:     s.Axis,
	}, true
}

// Cancel discards the live drag. It reports whether there was one.
func (g *GestureInterpreter) Cancel() bool {
	had := g.sample != nil
	g.sample = nil
	return had
}

// Velocity is the average horizontal speed between two points, in units per
// second. A non-positive duration yields 0.
func Velocity(startX, endX float64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return (endX - startX) / d.Seconds()
}
