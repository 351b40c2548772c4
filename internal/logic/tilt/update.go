package tilt

import (
	"math"

	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
)

// strategy is the per-type tick behavior, chosen once at Setup.
type strategy interface {
	advance(fc FlightContext, dt float64)
}

type continuousTilt struct{ t *Tiltrotor }

func (s continuousTilt) advance(fc FlightContext, dt float64) {
	s.t.continuousUpdate(fc, dt)
}

type binaryTilt struct{ t *Tiltrotor }

func (s binaryTilt) advance(fc FlightContext, dt float64) {
	s.t.binaryUpdate(fc, dt)
}

type vectoredTilt struct{ t *Tiltrotor }

func (s vectoredTilt) advance(fc FlightContext, dt float64) {
	s.t.continuousUpdate(fc, dt)
	s.t.vectoring(fc)
}

// Update advances the tilt state by one control tick of dt seconds.
// It does nothing until Setup has completed or when there are no
// tiltable rotors.
func (t *Tiltrotor) Update(fc FlightContext, dt float64) {
	if !t.setupComplete || !t.cfg.Enabled || t.cfg.Mask == 0 {
		// no motors to tilt
		return
	}

	// latched for the compensator, which runs inside the mixer pass
	t.inVTOL = fc.InVTOLMode()

	t.strategy.advance(fc, dt)
}

// continuousUpdate drives continuously variable tilt servos.
func (t *Tiltrotor) continuousUpdate(fc FlightContext, dt float64) {
	// default to inactive
	t.motorsActive = false

	if !fc.InVTOLMode() && (!fc.Armed() || !fc.AssistedFlight()) {
		// pure fixed wing mode: move the tiltable motors all the way
		// forward and run them as forward motors
		t.slew(1, fc, dt)

		maxChange := t.maxChange(false, fc, dt)

		newThrottle := angles.Constrain(t.servos.Scaled(servo.Throttle)*0.01, 0, 1)
		if t.currentTilt < 1 {
			t.currentThrottle = angles.Constrain(newThrottle,
				t.currentThrottle-maxChange,
				t.currentThrottle+maxChange)
		} else {
			t.currentThrottle = newThrottle
		}
		if !fc.Armed() {
			t.currentThrottle = 0
		} else {
			// prevent motor shutdown
			t.motorsActive = true
		}
		if !fc.MotorTestRunning() {
			// the motors are all the way forward, use them for
			// forward thrust
			mask := t.cfg.Mask
			if t.currentThrottle == 0 {
				mask = 0
			}
			t.motors.OutputMotorMask(t.currentThrottle, mask, fc.RudderDT())
		}
		return
	}

	// remember the throttle level we're using for VTOL flight
	motorsThrottle := t.motors.Throttle()
	maxChange := t.maxChange(motorsThrottle < t.currentThrottle, fc, dt)
	t.currentThrottle = angles.Constrain(motorsThrottle,
		t.currentThrottle-maxChange,
		t.currentThrottle+maxChange)

	/*
	  we are in a VTOL mode and need to work out how much tilt is
	  needed. There are 4 strategies:

	  1) without manual forward throttle control the angle is zero in
	     QAUTOTUNE, QACRO, QSTABILIZE and QHOVER, making them safe
	     recovery modes

	  2) with manual forward throttle control the angle follows the
	     demanded forward throttle from RC input

	  3) in assisted flight the angle follows the demanded throttle
	     up to the configured maximum tilt angle

	  4) past the timed transition phase the rotors go all the way
	     forward
	*/

	if fc.Mode() == ModeQAutotune {
		t.slew(0, fc, dt)
		return
	}

	// if not in assisted flight and in QACRO, QSTABILIZE or QHOVER
	if !fc.AssistedFlight() &&
		(fc.Mode() == ModeQAcro || fc.Mode() == ModeQStabilize || fc.Mode() == ModeQHover) {
		if !fc.HasForwardThrottleRC() {
			// no manual throttle control, set angle to zero
			t.slew(0, fc, dt)
		} else {
			// manual control of forward throttle
			t.slew(0.01*fc.ForwardThrottlePct(), fc, dt)
		}
		return
	}

	if fc.AssistedFlight() && t.transition.State() >= TransitionTimer {
		// transitioning to fixed wing: tilt the motors all the way
		// forward
		t.slew(1, fc, dt)
	} else {
		// until the transition completes the tilt is limited to the
		// maximum VTOL angle. Anything above 50% throttle gets the
		// full angle, below that it decreases linearly.
		setTilt := angles.Constrain(
			(t.servos.Scaled(servo.Throttle)-math.Max(fc.MinThrottlePct(), 0))/50.0, 0, 1)
		t.slew(setTilt*t.cfg.MaxAngleDeg/90.0, fc, dt)
	}
}

// binarySlew drives a retract style servo. The servo output itself is
// binary; currentTilt is still rate limited, which delays the
// throttle handover in binaryUpdate.
func (t *Tiltrotor) binarySlew(forward bool, fc FlightContext, dt float64) {
	if forward {
		t.servos.SetScaled(servo.MotorTilt, 1000)
	} else {
		t.servos.SetScaled(servo.MotorTilt, 0)
	}

	maxChange := t.maxChange(!forward, fc, dt)
	if forward {
		t.currentTilt = angles.Constrain(t.currentTilt+maxChange, 0, 1)
	} else {
		t.currentTilt = angles.Constrain(t.currentTilt-maxChange, 0, 1)
	}
}

// binaryUpdate drives binary (fully up or fully forward) tilt servos.
func (t *Tiltrotor) binaryUpdate(fc FlightContext, dt float64) {
	// motors always active
	t.motorsActive = true

	if !fc.InVTOLMode() {
		// pure fixed wing mode: move the tiltable motors all the way
		// forward and run them as forward motors
		t.binarySlew(true, fc, dt)

		newThrottle := t.servos.Scaled(servo.Throttle) * 0.01
		if t.currentTilt >= 1 {
			mask := t.cfg.Mask
			if newThrottle == 0 {
				mask = 0
			}
			// the motors are all the way forward, use them for
			// forward thrust
			t.motors.OutputMotorMask(newThrottle, mask, fc.RudderDT())
		}
	} else {
		t.binarySlew(false, fc, dt)
	}
}
