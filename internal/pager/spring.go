// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// RestDelta is the distance from the target, in page widths, under which
	// a run may settle.
	RestDelta = 0.001
	// RestSpeed is the speed, in page widths per second, under which a run
	// may settle.
	RestSpeed = 0.01
	// maxRunSeconds bounds a single run. Reaching it snaps to the target.
	maxRunSeconds = 5.0
)

// SpringAnimator moves a position toward a target with a damped spring.
// It is stepped explicitly; nothing runs in the background.
type SpringAnimator struct {
	omega float64
	zeta  float64

	spring harmonica.Spring
	dt     float64

	pos     float64
	vel     float64
	target  float64
	running bool
	elapsed float64
}

// NewSpringAnimator creates an animator at rest at position 0.
func NewSpringAnimator(cfg SpringConfig) *SpringAnimator {
	return &SpringAnimator{
		omega: cfg.AngularFrequency(),
		zeta:  cfg.DampingRatio(),
	}
}

// SetConfig changes the spring constants. A run in flight continues from
// its current position and velocity under the new constants.
func (a *SpringAnimator) SetConfig(cfg SpringConfig) {
	a.omega = cfg.AngularFrequency()
	a.zeta = cfg.DampingRatio()
	a.dt = 0
}

// Launch starts a run from an explicit position and velocity.
func (a *SpringAnimator) Launch(from, velocity, target float64) {
	a.pos = from
	a.vel = velocity
	a.target = target
	a.running = true
	a.elapsed = 0
}

// Retarget changes the target. A run in flight keeps its position and
// velocity; an idle animator starts from rest at its current position.
func (a *SpringAnimator) Retarget(target float64) {
	if !a.running {
		a.vel = 0
	}
	a.target = target
	a.running = true
	a.elapsed = 0
}

// Kick adds velocity to the current run, starting one if needed.
func (a *SpringAnimator) Kick(velocity float64) {
	if !a.running {
		a.running = true
		a.elapsed = 0
	}
	a.vel += velocity
}

// Stop freezes the animator where it is and returns that position.
func (a *SpringAnimator) Stop() float64 {
	a.running = false
	a.vel = 0
	return a.pos
}

// Jump places the animator at rest at pos.
func (a *SpringAnimator) Jump(pos float64) {
	a.pos = pos
	a.target = pos
	a.vel = 0
	a.running = false
}

// Step advances the run by dt seconds and reports the new position and whether
// the run has settled. A settled run lands exactly on its target.
func (a *SpringAnimator) Step(dt float64) (pos float64, settled bool) {
	if !a.running {
		return a.pos, true
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return a.pos, false
	}
	if dt != a.dt {
		a.spring = harmonica.NewSpring(dt, a.omega, a.zeta)
		a.dt = dt
	}

	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
	a.elapsed += dt

	if (math.Abs(a.pos-a.target) < RestDelta && math.Abs(a.vel) < RestSpeed) || a.elapsed >= maxRunSeconds {
		a.pos = a.target
		a.vel = 0
		a.running = false
		return a.pos, true
	}
	return a.pos, false
}

// Running reports whether a run is in flight.
func (a *SpringAnimator) Running() bool { return a.running }

// Position returns the current position.
func (a *SpringAnimator) Position() float64 { return a.pos }

// Velocity returns the current velocity in units per second.
func (a *SpringAnimator) Velocity() float64 { return a.vel }

// Target returns the position the current run settles at.
func (a *SpringAnimator) Target() float64 { return a.target }
