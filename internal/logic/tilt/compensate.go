package tilt

import (
	"math"

	"github.com/nCk9/ardupilot/internal/logic/angles"
)

// Tilt angles past this fraction would make the inverse-cosine
// forward compensation blow up, so the factor is frozen here.
const maxCompensationTilt = 0.98

// motorTilting reports whether rotor i is part of the tilt mask.
func (t *Tiltrotor) motorTilting(i int) bool {
	return t.cfg.Mask&(1<<uint(i)) != 0
}

/*
compensateAngle adjusts per-rotor thrust for the tilt angle. The
tilted rotors are first scaled by tiltedMul and the fixed ones by
nonTiltedMul. The tilted rotors are then equalised toward their
average in proportion to the tilt, which keeps the same total while
removing roll authority as the rotors tilt forward, and differential
thrust is added for yaw in proportion to the yaw demand and the sine
of the tilt angle. Finally, if any rotor ends up above 1.0 all
rotors are scaled back together so the mix stays in proportion.
*/
func (t *Tiltrotor) compensateAngle(thrust []float64, nonTiltedMul, tiltedMul float64) {
	tiltCount := 0
	for i := range thrust {
		if t.motorTilting(i) {
			tiltCount++
		}
	}
	if tiltCount == 0 {
		// mask selects none of these rotors, nothing to equalise
		return
	}

	tiltTotal := 0.0
	for i := range thrust {
		if !t.motorTilting(i) {
			thrust[i] *= nonTiltedMul
		} else {
			thrust[i] *= tiltedMul
			tiltTotal += thrust[i]
		}
	}

	largestTilted := 0.0
	sinTilt := math.Sin(angles.Radians(t.currentTilt * 90))
	// yawGain relates the differential thrust we get from tilt, so
	// the yaw control scaling is the same at any tilt angle
	yawGain := math.Sin(angles.Radians(t.cfg.YawAngleDeg))
	avgTiltThrust := tiltTotal / float64(tiltCount)

	for i := range thrust {
		if !t.motorTilting(i) {
			continue
		}
		// move toward the average as tilt increases: same total,
		// no roll control at full tilt
		thrust[i] = t.currentTilt*avgTiltThrust + thrust[i]*(1-t.currentTilt)
		// differential thrust for yaw, scaled by tilt angle
		thrust[i] += t.motors.RollFactor(i) * t.motors.Yaw() * sinTilt * yawGain
		largestTilted = math.Max(largestTilted, thrust[i])
	}

	// if one rotor saturates, reduce all of them to keep the mix in
	// proportion to the original thrust
	if largestTilted > 1.0 {
		scale := 1.0 / largestTilted
		for i := range thrust {
			thrust[i] *= scale
		}
	}
}

// CompensateThrust applies up or down tilt compensation to the rotor
// thrust demands in place. Going to fixed wing the tilted rotors are
// scaled by 1/cos(angle), pushing toward more flight speed; going to
// hover the fixed rotors are scaled by cos(angle), pushing toward
// lower forward thrust.
func (t *Tiltrotor) CompensateThrust(thrust []float64) {
	if t.currentTilt <= 0 {
		// the motors are not tilted, no compensation needed
		return
	}
	if t.inVTOL {
		// transitioning to VTOL flight
		tiltFactor := math.Cos(angles.Radians(t.currentTilt * 90))
		t.compensateAngle(thrust, tiltFactor, 1)
		return
	}
	tiltForFactor := t.currentTilt
	if tiltForFactor > maxCompensationTilt {
		tiltForFactor = maxCompensationTilt
	}
	invTiltFactor := 1.0 / math.Cos(angles.Radians(tiltForFactor*90))
	t.compensateAngle(thrust, 1, invTiltFactor)
}
