package nnlib

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoidAtZero(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.Equal(t, 0.5, Sigmoid(0, 1))
	assert.Equal(t, 0.5, Sigmoid(0, 0.1))
}

func TestSigmoidKnownValues(t *testing.T) {
	assert.InDelta(t, 0.7310586, Sigmoid(1), 1e-7)
	assert.InDelta(t, 0.2689414, Sigmoid(-1), 1e-7)
	assert.InDelta(t, Sigmoid(2), Sigmoid(1, 0.5), 1e-15)
}

func TestSigmoidRange(t *testing.T) {
	for _, p := range []float64{0.01, 0.5, 1, 4.9} {
		for _, x := range []float64{-1e308, -1000, -40, -1, -1e-9, 0, 1e-9, 1, 40, 1000, 1e308} {
			y := Sigmoid(x, p)
			assert.Greater(t, y, 0.0, "Sigmoid(%v, %v)", x, p)
			assert.Less(t, y, 1.0, "Sigmoid(%v, %v)", x, p)
		}
	}
}

func TestSigmoidMonotonic(t *testing.T) {
	prev := Sigmoid(-10)
	for x := -9.9; x <= 10; x += 0.1 {
		y := Sigmoid(x)
		assert.Greater(t, y, prev, "Sigmoid not increasing at %v", x)
		prev = y
	}
}

func TestSigmoidSteepness(t *testing.T) {
	// Lower p gives a steeper transition.
	assert.Greater(t, Sigmoid(0.5, 0.25), Sigmoid(0.5, 1))
	assert.Less(t, Sigmoid(-0.5, 0.25), Sigmoid(-0.5, 1))
	assert.False(t, math.IsNaN(Sigmoid(3, 2)))
}
