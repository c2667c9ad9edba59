// Package smoothing provides exponential smoothing for per-frame metrics.
package smoothing

import "math"

// DefaultFactor is the weight retained from the previous value.
const DefaultFactor = 0.8

// Smooth blends a new sample into the previous value:
// previous*factor + value*(1-factor). factor is clamped into [0,1] and the result
// always lies between value and previous inclusive.
func Smooth(value, previous, factor float64) float64 {
	if math.IsNaN(factor) || factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	if factor == 0 {
		return value
	}
	if factor == 1 {
		return previous
	}

	out := previous*factor + value*(1-factor)
	lo, hi := math.Min(value, previous), math.Max(value, previous)
	if out < lo {
		return lo
	}
	if out > hi {
		return hi
	}
	return out
}

// Series smooths one metric stream. The zero value is not usable, use NewSeries.
// It only remembers the last output; streams never share a Series.
type Series struct {
	factor float64
	min    float64
	max    float64

	previous float64
	primed   bool
}

// NewSeries returns a Series whose outputs are clamped into [min,max].
func NewSeries(factor, min, max float64) *Series {
	return &Series{factor: factor, min: min, max: max}
}

// Next smooths value against the previous output. The first sample is returned
// as is (after clamping).
func (s *Series) Next(value float64) float64 {
	value = s.clamp(value)
	if !s.primed {
		s.previous = value
		s.primed = true
		return value
	}
	s.previous = s.clamp(Smooth(value, s.previous, s.factor))
	return s.previous
}

// Previous returns the last output and whether one exists.
func (s *Series) Previous() (float64, bool) {
	return s.previous, s.primed
}

// Reset forgets the previous output.
func (s *Series) Reset() {
	s.previous = 0
	s.primed = false
}

func (s *Series) clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.min
	}
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}
