package angles

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Radians converts an angle in degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts an angle in radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Constrain limits v to the range [lo, hi].
func Constrain[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapRange linearly maps v from the range [inLo, inHi] to [outLo, outHi].
// The result is not clamped: inputs outside the source range extrapolate.
func MapRange[T constraints.Float](v, inLo, inHi, outLo, outHi T) T {
	return (v-inLo)*(outHi-outLo)/(inHi-inLo) + outLo
}

// WrapCD wraps an angle in centidegrees to the range [0, 36000).
func WrapCD(cd float64) float64 {
	wrapped := math.Mod(cd, 36000.0)
	if wrapped < 0 {
		wrapped += 36000.0
	}
	return wrapped
}
