package nnlib

import (
	"math"
)

// DefaultSteepness is the sigmoid steepness every Network evaluates with.
const DefaultSteepness = 1.0

// Sigmoid is the logistic function 1 / (1 + e^(-x/p)).
// params[0], when present, is the steepness p (p > 0); lower values give a
// sharper transition around zero. Without params p is DefaultSteepness.
//
// The result always lies strictly inside (0, 1): values that saturate in
// float64 are pulled back to the nearest representable interior value.
func Sigmoid(x float64, params ...float64) float64 {
	p := DefaultSteepness
	if len(params) > 0 {
		p = params[0]
	}
	y := 1.0 / (1.0 + math.Exp(-x/p))
	switch {
	case y <= 0:
		return math.SmallestNonzeroFloat64
	case y >= 1:
		return math.Nextafter(1, 0)
	}
	return y
}
