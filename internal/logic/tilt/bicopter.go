package tilt

import (
	"math"

	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
)

// full angle deflection of the bicopter tilt outputs
const servoMax = 4500.0

// BicopterOutput drives the left/right tilt servos of a bicopter
// from the multicopter output pass. It is called from the vehicle
// output stage rather than Update, and does nothing for other tilt
// types or while a motor test owns the outputs.
func (t *Tiltrotor) BicopterOutput(fc FlightContext) {
	if !t.setupComplete || t.cfg.Type != TypeBicopter || fc.MotorTestRunning() {
		// never override a motor test
		return
	}

	if !fc.InVTOLMode() && t.FullyForward() {
		t.servos.SetScaled(servo.TiltLeft, -servoMax)
		t.servos.SetScaled(servo.TiltRight, -servoMax)
		return
	}

	throttle := t.servos.Scaled(servo.Throttle)
	if fc.AssistedFlight() {
		t.vtol.HoldStabilize(throttle * 0.01)
		t.vtol.MotorsOutput(true)
	} else {
		t.vtol.MotorsOutput(false)
	}

	// bicopter assumes that trim is up, so scale down to match
	tiltLeft := t.servos.Scaled(servo.TiltLeft)
	tiltRight := t.servos.Scaled(servo.TiltRight)

	if tiltLeft < 0 {
		tiltLeft *= t.cfg.YawAngleDeg / 90.0
	}
	if tiltRight < 0 {
		tiltRight *= t.cfg.YawAngleDeg / 90.0
	}

	// reduce authority as the motors tilt forward
	scaling := math.Cos(t.currentTilt * math.Pi / 2)
	tiltLeft *= scaling
	tiltRight *= scaling

	// add the current tilt and constrain
	tiltLeft = angles.Constrain(-(t.currentTilt*servoMax)+tiltLeft, -servoMax, servoMax)
	tiltRight = angles.Constrain(-(t.currentTilt*servoMax)+tiltRight, -servoMax, servoMax)

	t.servos.SetScaled(servo.TiltLeft, tiltLeft)
	t.servos.SetScaled(servo.TiltRight, tiltRight)
}
