package angles

import "math"

// Standard gravity in m/s².
const gravityMSS = 9.80665

// TurnRateDPS computes the yaw rate of a coordinated level turn
// in degrees per second.
// Formula: rate = g × tan(bank) / airspeed
// A zero or negative airspeed returns 0 (no meaningful turn rate).
func TurnRateDPS(bankDeg, airspeedMS float64) float64 {
	if airspeedMS <= 0 {
		return 0
	}
	return Degrees(gravityMSS * math.Tan(Radians(bankDeg)) / airspeedMS)
}
