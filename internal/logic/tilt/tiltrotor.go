/*
Package tilt implements rotor tilt control for quadplanes whose
rotors swing between hover (pointing up) and forward flight
(pointing forward).

Tilt is a fraction: 0 is rotors fully up, 1 is fully forward. The
controller slews the tilt toward per-mode targets, compensates rotor
thrust for the tilt angle during mixing, and on vectored aircraft
points the individual tilt servos to provide yaw and roll authority
in hover and pitch/yaw trim in forward flight.
*/
package tilt

import (
	"fmt"
	"math"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
)

// Config holds the tilt mechanism parameters. Immutable after Setup.
type Config struct {
	// Enabled gates the whole mechanism. Parameter loaders turn it on
	// automatically when a mask is set or the type is bicopter and no
	// explicit value was configured.
	Enabled bool
	// Mask is the bitmask of tiltable rotors in motor order.
	Mask uint16
	// MaxRateUpDPS is the maximum tilt rate toward hover, deg/s.
	MaxRateUpDPS float64
	// MaxRateDownDPS is the maximum tilt rate toward forward flight,
	// deg/s. Zero means use MaxRateUpDPS.
	MaxRateDownDPS float64
	// MaxAngleDeg is the maximum tilt angle at which multicopter
	// control stays enabled. Beyond it the vehicle flies solely as a
	// fixed wing.
	MaxAngleDeg float64
	// Type selects the mechanism behavior.
	Type Type
	// YawAngleDeg is the tilt servo angle at minimum output in VTOL
	// modes. Non-zero enables vectored yaw control and limits the
	// forward travel of bicopter tilts.
	YawAngleDeg float64
	// FixedAngleDeg is the downward motor tilt at maximum output in
	// forward flight. Non-zero enables vectoring for roll/pitch in
	// forward flight.
	FixedAngleDeg float64
	// FixedGain is the gain for vectoring in forward flight.
	FixedGain float64
}

// Deps are the collaborators the controller drives.
type Deps struct {
	Motors MotorMixer
	Servos *servo.Outputs
	Nav    AttitudeNav
	Clock  Clock
	VTOL   VTOLControl
}

// Tiltrotor owns the tilt state and drives the tilt servos and the
// forward use of the tiltable rotors.
type Tiltrotor struct {
	cfg Config

	motors MotorMixer
	servos *servo.Outputs
	nav    AttitudeNav
	clock  Clock
	vtol   VTOLControl

	currentTilt     float64 // 0 = rotors up, 1 = rotors forward
	currentThrottle float64 // 0..1
	motorsActive    bool
	vectored        bool
	inVTOL          bool // latched from the context each Update
	setupComplete   bool

	strategy   strategy
	transition *Transition
}

// Minimum rate for tilting forward in manual mode or armed
// unassisted fixed-wing flight, deg/s.
const fastTiltRateDPS = 90.0

// New creates the controller. Setup must be called before Update.
func New(cfg Config, deps Deps) *Tiltrotor {
	return &Tiltrotor{
		cfg:    cfg,
		motors: deps.Motors,
		servos: deps.Servos,
		nav:    deps.Nav,
		clock:  deps.Clock,
		vtol:   deps.VTOL,
	}
}

// Setup wires the controller into its collaborators: registers the
// thrust compensator, claims yaw from the mixer on vectored aircraft
// and configures the tilt servo ranges. A disabled controller sets
// nothing up and every later call is a no-op.
func (t *Tiltrotor) Setup() error {
	if !t.cfg.Enabled {
		return nil
	}

	if t.motors == nil {
		return fmt.Errorf("tilt setup: motor mixer is required")
	}
	if t.servos == nil {
		return fmt.Errorf("tilt setup: servo outputs are required")
	}
	if t.clock == nil {
		return fmt.Errorf("tilt setup: clock is required")
	}

	t.vectored = t.cfg.Mask != 0 && t.cfg.Type == TypeVectoredYaw

	if t.vectored {
		if t.nav == nil {
			return fmt.Errorf("tilt setup: attitude source is required for vectored yaw")
		}
		// yaw comes from vectoring instead of differential torque
		t.motors.DisableYawTorque()
	}
	if t.cfg.Type == TypeBicopter && t.vtol == nil {
		return fmt.Errorf("tilt setup: VTOL control is required for bicopter")
	}

	if t.cfg.Mask != 0 {
		t.motors.SetThrustCompensator(t)
		if t.cfg.Type == TypeVectoredYaw {
			// tilt servos for vectored yaw
			t.servos.SetRange(servo.TiltLeft, 1000)
			t.servos.SetRange(servo.TiltRight, 1000)
			t.servos.SetRange(servo.TiltRear, 1000)
			t.servos.SetRange(servo.TiltRearLeft, 1000)
			t.servos.SetRange(servo.TiltRearRight, 1000)
		}
	}
	if t.cfg.Type == TypeBicopter {
		// bicopter tilts are angle outputs around the up position
		t.servos.SetAngleRange(servo.TiltLeft, servoMax)
		t.servos.SetAngleRange(servo.TiltRight, servoMax)
	}

	switch {
	case t.cfg.Type == TypeBinary:
		t.strategy = binaryTilt{t}
	case t.vectored:
		t.strategy = vectoredTilt{t}
	default:
		t.strategy = continuousTilt{t}
	}

	t.transition = newTransition(t)
	t.setupComplete = true

	debug.Info("Tilt mechanism ready: type=%s mask=%#x max=%.0fdeg", t.cfg.Type, t.cfg.Mask, t.cfg.MaxAngleDeg)
	return nil
}

// maxChange returns the largest tilt change allowed this tick, as a
// fraction of the full 90 degree travel. up means tilting back toward
// hover.
func (t *Tiltrotor) maxChange(up bool, fc FlightContext, dt float64) float64 {
	rate := t.cfg.MaxRateUpDPS
	if !up && t.cfg.MaxRateDownDPS > 0 {
		rate = t.cfg.MaxRateDownDPS
	}
	if t.cfg.Type != TypeBinary && !up {
		fastTilt := fc.Mode() == ModeManual
		if fc.Armed() && !fc.InVTOLMode() && !fc.AssistedFlight() {
			fastTilt = true
		}
		if fastTilt {
			// allow a minimum of 90 dps in manual or when we are not
			// stabilising, to give fast control
			rate = math.Max(rate, fastTiltRateDPS)
		}
	}
	return rate * dt / 90.0
}

// slew moves the current tilt toward newTilt within the rate limit
// and outputs it on the common tilt servo.
func (t *Tiltrotor) slew(newTilt float64, fc FlightContext, dt float64) {
	maxChange := t.maxChange(newTilt < t.currentTilt, fc, dt)
	t.currentTilt = angles.Constrain(newTilt, t.currentTilt-maxChange, t.currentTilt+maxChange)

	// translate to 0..1000 range and output
	t.servos.SetScaled(servo.MotorTilt, 1000*t.currentTilt)
}

// CurrentTilt returns the tilt fraction, 0 (up) to 1 (forward).
func (t *Tiltrotor) CurrentTilt() float64 {
	return t.currentTilt
}

// CurrentThrottle returns the slewed forward throttle fraction.
func (t *Tiltrotor) CurrentThrottle() float64 {
	return t.currentThrottle
}

// MotorsActive reports whether the tiltable rotors must keep running.
func (t *Tiltrotor) MotorsActive() bool {
	return t.motorsActive
}

// Vectored reports whether the aircraft uses tilt vectoring for yaw.
func (t *Tiltrotor) Vectored() bool {
	return t.vectored
}

// FullyForward reports whether the rotors are tilted all the way
// forward. Always false when the mechanism is disabled or has no
// tiltable rotors.
func (t *Tiltrotor) FullyForward() bool {
	if !t.cfg.Enabled || t.cfg.Mask == 0 {
		return false
	}
	return t.currentTilt >= 1
}

// Transition returns the transition tracker, or nil when the
// mechanism is disabled.
func (t *Tiltrotor) Transition() *Transition {
	return t.transition
}
