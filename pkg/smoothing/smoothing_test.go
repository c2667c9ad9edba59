package smoothing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmooth(t *testing.T) {
	tests := []struct {
		name             string
		value, prev, fac float64
		want             float64
	}{
		{name: "factor zero returns value", value: 42.5, prev: 10, fac: 0, want: 42.5},
		{name: "factor one returns previous", value: 42.5, prev: 10, fac: 1, want: 10},
		{name: "observed default", value: 100, prev: 50, fac: 0.8, want: 60},
		{name: "half", value: 0, prev: 1, fac: 0.5, want: 0.5},
		{name: "factor clamped low", value: 3, prev: 7, fac: -2, want: 3},
		{name: "factor clamped high", value: 3, prev: 7, fac: 9, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Smooth(tt.value, tt.prev, tt.fac), 1e-12)
		})
	}
}

func TestSmoothStaysBetweenInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		v := rng.Float64()*200 - 100
		p := rng.Float64()*200 - 100
		f := rng.Float64()
		got := Smooth(v, p, f)

		lo, hi := v, p
		if lo > hi {
			lo, hi = hi, lo
		}
		assert.GreaterOrEqual(t, got, lo)
		assert.LessOrEqual(t, got, hi)
	}
}

func TestSeries(t *testing.T) {
	s := NewSeries(0.8, 0, 100)

	_, ok := s.Previous()
	assert.False(t, ok)

	assert.Equal(t, 50.0, s.Next(50))
	assert.InDelta(t, 60.0, s.Next(100), 1e-9)
	assert.InDelta(t, 48.0, s.Next(0), 1e-9)

	prev, ok := s.Previous()
	assert.True(t, ok)
	assert.InDelta(t, 48.0, prev, 1e-9)

	s.Reset()
	assert.Equal(t, 10.0, s.Next(10))
}

func TestSeriesClampsToRange(t *testing.T) {
	s := NewSeries(0.5, 0, 1)

	assert.Equal(t, 1.0, s.Next(7))
	assert.Equal(t, 0.5, s.Next(-3))
	for i := 0; i < 100; i++ {
		v := s.Next(float64(i%5) - 2)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}
