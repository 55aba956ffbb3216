// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpringConfig_DefaultsAreCriticallyDamped(t *testing.T) {
	s := SpringConfig{Stiffness: 400, Damping: 40, Mass: 1}
	assert.InDelta(t, 20.0, s.AngularFrequency(), 1e-9)
	assert.InDelta(t, 1.0, s.DampingRatio(), 1e-9)
}

func TestSpringAnimator_SettlesExactly(t *testing.T) {
	a := NewSpringAnimator(DefaultConfig().Spring)
	a.Launch(0, 0, -1)

	steps := 0
	for {
		pos, settled := a.Step(frame)
		steps++
		if settled {
			assert.Equal(t, -1.0, pos)
			break
		}
		if steps > 600 {
			t.Fatal("spring did not settle")
		}
	}
	assert.False(t, a.Running())
	assert.Less(t, steps, 120, "critically damped run should finish within two seconds")
}

func TestSpringAnimator_RetargetKeepsMotion(t *testing.T) {
	a := NewSpringAnimator(DefaultConfig().Spring)
	a.Launch(0, 0, -1)
	for i := 0; i < 5; i++ {
		a.Step(frame)
	}
	pos, vel := a.Position(), a.Velocity()
	assert.NotZero(t, vel)

	a.Retarget(-2)
	assert.Equal(t, pos, a.Position())
	assert.Equal(t, vel, a.Velocity())
	assert.Equal(t, -2.0, a.Target())
}

func TestSpringAnimator_StopFreezes(t *testing.T) {
	a := NewSpringAnimator(DefaultConfig().Spring)
	a.Launch(0, 0, -1)
	a.Step(frame)
	a.Step(frame)
	frozen := a.Stop()

	pos, settled := a.Step(frame)
	assert.True(t, settled)
	assert.Equal(t, frozen, pos)
}

func TestSpringAnimator_IgnoresBadDelta(t *testing.T) {
	a := NewSpringAnimator(DefaultConfig().Spring)
	a.Launch(0, 0, -1)
	pos, settled := a.Step(0)
	assert.False(t, settled)
	assert.Equal(t, 0.0, pos)
}

func TestSpringAnimator_VariableFrameRate(t *testing.T) {
	a := NewSpringAnimator(DefaultConfig().Spring)
	a.Launch(-1, 0, -2)
	dts := []float64{1.0 / 30, 1.0 / 120, 1.0 / 60}
	for i := 0; i < 600; i++ {
		if _, settled := a.Step(dts[i%len(dts)]); settled {
			assert.Equal(t, -2.0, a.Position())
			return
		}
	}
	t.Fatal("spring did not settle")
}
