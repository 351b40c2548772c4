package tilt

import (
	"math"

	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
)

const (
	// wait after disarming before allowing tilt servo tests, so the
	// props can spin down first
	disarmedTiltDelayMS = 3000
	// full deflection of surface outputs (elevons, elevator)
	elevonScale = 4500.0
	// the matrix mixer normalises roll factors to 0.5; vectoring uses
	// the same factor so roll gains stay constant as tilt changes
	avgRollFactor = 0.5
)

// vectoring points the individual tilt servos on vectored yaw
// aircraft. In hover the left/right tilts steer yaw and roll, past
// the maximum VTOL angle they trim pitch and yaw like control
// surfaces, and while disarmed they follow the sticks for preflight
// checks.
func (t *Tiltrotor) vectoring(fc FlightContext) {
	// total angle the tilt can travel through
	totalAngle := 90 + t.cfg.YawAngleDeg + t.cfg.FixedAngleDeg
	// output value (0 to 1) to get motors pointed straight up
	zeroOut := t.cfg.YawAngleDeg / totalAngle
	fixedTiltLimit := t.cfg.FixedAngleDeg / totalAngle
	// output value (0 to 1) to get motors pointed straight forward
	levelOut := 1.0 - fixedTiltLimit

	// basic tilt amount from the current tilt fraction
	baseOutput := zeroOut + t.currentTilt*(levelOut-zeroOut)

	now := t.clock.Millis()
	if !fc.Armed() && fc.DisarmedTiltEnabled() {
		// tilt servo testing with the sticks while disarmed. The
		// clock comparison wraps at ~49 days; the consequences are
		// insignificant.
		if now-t.clock.LastArmedChange() > disarmedTiltDelayMS {
			if fc.InVTOLMode() {
				yawOut := fc.RudderInput()
				yawRange := zeroOut

				t.servos.SetScaled(servo.TiltLeft, 1000*angles.Constrain(baseOutput+yawOut*yawRange, 0, 1))
				t.servos.SetScaled(servo.TiltRight, 1000*angles.Constrain(baseOutput-yawOut*yawRange, 0, 1))
				t.servos.SetScaled(servo.TiltRear, 1000*angles.Constrain(baseOutput, 0, 1))
				t.servos.SetScaled(servo.TiltRearLeft, 1000*angles.Constrain(baseOutput+yawOut*yawRange, 0, 1))
				t.servos.SetScaled(servo.TiltRearRight, 1000*angles.Constrain(baseOutput-yawOut*yawRange, 0, 1))
			} else {
				// fixed wing tilt, based on elevon mixing so it
				// accounts for the mixing gain. The rear tilt is
				// based on elevator.
				gain := t.cfg.FixedGain * fixedTiltLimit
				right := gain * t.servos.Scaled(servo.ElevonRight) / elevonScale
				left := gain * t.servos.Scaled(servo.ElevonLeft) / elevonScale
				mid := gain * t.servos.Scaled(servo.Elevator) / elevonScale
				// front tilts are effectively canards, so swap and
				// use negative. Rear motors are treated like elevons.
				t.servos.SetScaled(servo.TiltLeft, 1000*angles.Constrain(baseOutput-right, 0, 1))
				t.servos.SetScaled(servo.TiltRight, 1000*angles.Constrain(baseOutput-left, 0, 1))
				t.servos.SetScaled(servo.TiltRearLeft, 1000*angles.Constrain(baseOutput+left, 0, 1))
				t.servos.SetScaled(servo.TiltRearRight, 1000*angles.Constrain(baseOutput+right, 0, 1))
				t.servos.SetScaled(servo.TiltRear, 1000*angles.Constrain(baseOutput+mid, 0, 1))
			}
		}
		return
	}

	tiltThreshold := t.cfg.MaxAngleDeg / 90.0
	noYaw := t.currentTilt > tiltThreshold
	if noYaw {
		// fixed wing flight: apply inverse scaling with throttle and
		// remove the surface speed scaling, tilt must not vary with
		// airspeed
		scaler := 1.0
		if fc.Mode() != ModeManual {
			scaler = fc.ForwardThrottleScale() / fc.SpeedScaler()
		}
		gain := t.cfg.FixedGain * fixedTiltLimit * scaler
		right := gain * t.servos.Scaled(servo.ElevonRight) / elevonScale
		left := gain * t.servos.Scaled(servo.ElevonLeft) / elevonScale
		mid := gain * t.servos.Scaled(servo.Elevator) / elevonScale
		t.servos.SetScaled(servo.TiltLeft, 1000*angles.Constrain(baseOutput-right, 0, 1))
		t.servos.SetScaled(servo.TiltRight, 1000*angles.Constrain(baseOutput-left, 0, 1))
		t.servos.SetScaled(servo.TiltRearLeft, 1000*angles.Constrain(baseOutput+left, 0, 1))
		t.servos.SetScaled(servo.TiltRearRight, 1000*angles.Constrain(baseOutput+right, 0, 1))
		t.servos.SetScaled(servo.TiltRear, 1000*angles.Constrain(baseOutput+mid, 0, 1))
	} else {
		yawOut := t.motors.Yaw()
		rollOut := t.motors.Roll()
		yawRange := zeroOut

		// vectored thrust for yaw and roll
		tiltRad := angles.Radians(t.currentTilt * 90)
		sinTilt := math.Sin(tiltRad)
		cosTilt := math.Cos(tiltRad)
		tiltOffset := angles.Constrain(yawOut*cosTilt+avgRollFactor*rollOut*sinTilt, -1, 1)

		t.servos.SetScaled(servo.TiltLeft, 1000*angles.Constrain(baseOutput+tiltOffset*yawRange, 0, 1))
		t.servos.SetScaled(servo.TiltRight, 1000*angles.Constrain(baseOutput-tiltOffset*yawRange, 0, 1))
		t.servos.SetScaled(servo.TiltRear, 1000*angles.Constrain(baseOutput, 0, 1))
		t.servos.SetScaled(servo.TiltRearLeft, 1000*angles.Constrain(baseOutput+tiltOffset*yawRange, 0, 1))
		t.servos.SetScaled(servo.TiltRearRight, 1000*angles.Constrain(baseOutput-tiltOffset*yawRange, 0, 1))
	}
}
