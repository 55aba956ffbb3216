// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"testing"
	"time"
)

func TestThresholdsDecide(t *testing.T) {
	th := Thresholds{Fraction: 0.15, Velocity: 500}

	tests := []struct {
		name     string
		deltaX   float64
		velocity float64
		index    int
		want     Decision
	}{
		{"short slow left", -100, -100, 1, DecisionCancel},
		{"past threshold left", -151, -10, 1, DecisionNext},
		{"past threshold right", 151, 10, 1, DecisionPrevious},
		{"exactly threshold", -150, -10, 1, DecisionCancel},
		{"fast flick left", -20, -900, 1, DecisionNext},
		{"fast flick right", 20, 900, 1, DecisionPrevious},
		{"next at last page", -400, -900, 2, DecisionCancel},
		{"previous at first page", 400, 900, 0, DecisionCancel},
		{"no movement", 0, 0, 1, DecisionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := th.Decide(tt.deltaX, tt.velocity, 1000, tt.index, 3)
			if got != tt.want {
				t.Errorf("Decide(%v, %v) = %v, want %v", tt.deltaX, tt.velocity, got, tt.want)
			}
		})
	}
}

func TestVelocity(t *testing.T) {
	if got := Velocity(500, 350, 100*time.Millisecond); got != -1500 {
		t.Errorf("Velocity = %v, want -1500", got)
	}
	if got := Velocity(0, 100, 0); got != 0 {
		t.Errorf("Velocity with zero duration = %v, want 0", got)
	}
}

func TestGestureInterpreter_SingleSample(t *testing.T) {
	g := NewGestureInterpreter(Thresholds{Fraction: 0.15, Velocity: 500}, true)
	if !g.Start(Point{PointerID: 1, X: 10}) {
		t.Fatal("first Start should succeed")
	}
	if g.Start(Point{PointerID: 2, X: 20}) {
		t.Error("second Start should be ignored")
	}
	s, ok := g.Sample()
	if !ok || s.PointerID != 1 || s.StartX != 10 {
		t.Errorf("Sample = %+v, want pointer 1 at 10", s)
	}
	if !g.Cancel() {
		t.Error("Cancel should report a live sample")
	}
	if g.Active() {
		t.Error("sample should be discarded")
	}
	if g.Cancel() {
		t.Error("second Cancel should report nothing")
	}
}

func TestGestureInterpreter_AxisClassification(t *testing.T) {
	g := NewGestureInterpreter(Thresholds{Fraction: 0.15, Velocity: 500}, true)
	g.Start(Point{PointerID: 1, X: 0, Y: 0})

	if _, ok := g.Move(Point{PointerID: 1, X: 3, Y: 1}); !ok {
		t.Fatal("horizontal move should track")
	}
	s, _ := g.Sample()
	if s.Axis != AxisHorizontal {
		t.Errorf("Axis = %v, want horizontal", s.Axis)
	}

	// Classification is fixed after the first movement.
	if dx, ok := g.Move(Point{PointerID: 1, X: 4, Y: 30}); !ok || dx != 4 {
		t.Errorf("Move = (%v, %v), want (4, true)", dx, ok)
	}
}

func TestGestureInterpreter_EndConsumesSample(t *testing.T) {
	g := NewGestureInterpreter(Thresholds{Fraction: 0.15, Velocity: 500}, true)
	g.Start(Point{PointerID: 1, X: 500, Time: t0})
	res, ok := g.End(Point{PointerID: 1, X: 300, Time: t0.Add(time.Second)}, 1000, 1, 3)
	if !ok {
		t.Fatal("End should succeed")
	}
	if res.Decision != DecisionNext || res.DeltaX != -200 || res.Velocity != -200 {
		t.Errorf("End = %+v", res)
	}
	if _, ok := g.End(Point{PointerID: 1}, 1000, 1, 3); ok {
		t.Error("sample should be consumed")
	}
}
