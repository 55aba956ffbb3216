// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package pager

import (
	"fmt"
	"math"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultThresholdFraction is the share of the viewport a drag must cover to commit.
	DefaultThresholdFraction = 0.15

	// DefaultVelocityThreshold is the release speed (columns per second) that
	// commits a drag regardless of distance. A terminal cell is roughly 8-10
	// pixels wide, so this matches a 400-500 px/s flick.
	DefaultVelocityThreshold = 50.0

	// DefaultElasticOverscrollLimit caps the displacement past the first or
	// last page, in page widths.
	DefaultElasticOverscrollLimit = 0.2

	// DefaultInitialIndex is the page shown on start.
	DefaultInitialIndex = 1

	DefaultStiffness = 400.0
	DefaultDamping   = 40.0
	DefaultMass      = 1.0
)

// DefaultPageNames are the panel titles in display order.
var DefaultPageNames = []string{"Journal", "Chat", "Resources"}

// SpringConfig parameterizes the damped harmonic oscillator.
type SpringConfig struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// AngularFrequency returns sqrt(k/m).
func (s SpringConfig) AngularFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.Mass)
}

// DampingRatio returns c / (2*sqrt(k*m)). A ratio of 1 is critically damped.
func (s SpringConfig) DampingRatio() float64 {
	return s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
}

// Config holds the navigator tuning.
type Config struct {
	// ThresholdFraction of the viewport width a drag must exceed to commit.
	ThresholdFraction float64
	// VelocityThreshold in columns per second.
	VelocityThreshold float64
	// ElasticOverscrollLimit in page widths.
	ElasticOverscrollLimit float64
	Spring                 SpringConfig
	PageNames              []string
	InitialIndex           int
	// DirectionLock classifies each drag as horizontal or vertical on its
	// first movement. Vertical drags never change the page.
	DirectionLock bool
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	names := make([]string, len(DefaultPageNames))
	copy(names, DefaultPageNames)
	return Config{
		ThresholdFraction:      DefaultThresholdFraction,
		VelocityThreshold:      DefaultVelocityThreshold,
		ElasticOverscrollLimit: DefaultElasticOverscrollLimit,
		Spring: SpringConfig{
			Stiffness: DefaultStiffness,
			Damping:   DefaultDamping,
			Mass:      DefaultMass,
		},
		PageNames:     names,
		InitialIndex:  DefaultInitialIndex,
		DirectionLock: true,
	}
}

// Sanitize replaces malformed values with defaults and clamps the initial
// index into [0, count-1]. Each replacement is described in the returned
// warnings so the caller can log them.
func (c Config) Sanitize(count int) (Config, []string) {
	var warnings []string
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

	if bad(c.ThresholdFraction) || c.ThresholdFraction <= 0 || c.ThresholdFraction > 1 {
		warnings = append(warnings, fmt.Sprintf("threshold fraction %v out of range (0,1], using %v", c.ThresholdFraction, DefaultThresholdFraction))
		c.ThresholdFraction = DefaultThresholdFraction
	}
	if bad(c.VelocityThreshold) || c.VelocityThreshold <= 0 {
		warnings = append(warnings, fmt.Sprintf("velocity threshold %v must be positive, using %v", c.VelocityThreshold, DefaultVelocityThreshold))
		c.VelocityThreshold = DefaultVelocityThreshold
	}
	if bad(c.ElasticOverscrollLimit) || c.ElasticOverscrollLimit < 0 || c.ElasticOverscrollLimit > 1 {
		warnings = append(warnings, fmt.Sprintf("elastic overscroll limit %v out of range [0,1], using %v", c.ElasticOverscrollLimit, DefaultElasticOverscrollLimit))
		c.ElasticOverscrollLimit = DefaultElasticOverscrollLimit
	}
	if bad(c.Spring.Stiffness) || c.Spring.Stiffness <= 0 {
		warnings = append(warnings, fmt.Sprintf("spring stiffness %v must be positive, using %v", c.Spring.Stiffness, DefaultStiffness))
		c.Spring.Stiffness = DefaultStiffness
	}
	if bad(c.Spring.Damping) || c.Spring.Damping <= 0 {
		warnings = append(warnings, fmt.Sprintf("spring damping %v must be positive, using %v", c.Spring.Damping, DefaultDamping))
		c.Spring.Damping = DefaultDamping
	}
	if bad(c.Spring.Mass) || c.Spring.Mass <= 0 {
		warnings = append(warnings, fmt.Sprintf("spring mass %v must be positive, using %v", c.Spring.Mass, DefaultMass))
		c.Spring.Mass = DefaultMass
	}

	if count > 0 {
		if c.InitialIndex < 0 || c.InitialIndex >= count {
			clamped := clampIndex(c.InitialIndex, count)
			warnings = append(warnings, fmt.Sprintf("initial page %d out of range [0,%d], using %d", c.InitialIndex, count-1, clamped))
			c.InitialIndex = clamped
		}
		names := make([]string, count)
		for i := range names {
			if i < len(c.PageNames) && c.PageNames[i] != "" {
				names[i] = c.PageNames[i]
			} else {
				names[i] = fmt.Sprintf("Page %d", i+1)
			}
		}
		c.PageNames = names
	}

	return c, warnings
}

func clampIndex(i, count int) int {
	if i < 0 {
		return 0
	}
	if i > count-1 {
		return count - 1
	}
	return i
}
