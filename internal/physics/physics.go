// Package physics provides the proximity tests used for collisions.
package physics

import "math"

// WithinBox reports whether two points are closer than radius on both axes.
// This is the axis-aligned proximity test used for every hit in the game;
// the bound is strict, so points exactly radius apart do not touch.
func WithinBox(x1, y1, x2, y2, radius float64) bool {
	return math.Abs(x1-x2) < radius && math.Abs(y1-y2) < radius
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
