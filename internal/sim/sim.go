/*
Package sim runs a scripted quadplane flight against the tilt
controller without hardware: hover, forward transition, cruise with a
heading change, back transition and landing.

The vehicle is a longitudinal point mass. Forward acceleration is the
thrust component along the flight path minus quadratic drag, so
airspeed builds only as the rotors tilt forward. Heading follows the
coordinated turn rate of the commanded bank.
*/
package sim

import (
	"fmt"
	"time"
)

// Phase is a segment of the scripted flight.
type Phase int

const (
	PhaseHover Phase = iota
	PhaseTransition
	PhaseCruise
	PhaseBack
	PhaseLand
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseHover:
		return "HOVER"
	case PhaseTransition:
		return "TRANSITION"
	case PhaseCruise:
		return "CRUISE"
	case PhaseBack:
		return "BACK_TRANSITION"
	case PhaseLand:
		return "LAND"
	case PhaseDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// Params tune the scripted flight and the point-mass model.
type Params struct {
	// LoopRateHz is the simulation rate. Must divide 1000 evenly.
	LoopRateHz int

	// CruiseSpeedMS is the airspeed the speed controller holds in
	// forward flight. Also the surface scaling reference speed.
	CruiseSpeedMS float64
	// MinAirspeedMS is the minimum flying airspeed; the forward
	// transition waits for it.
	MinAirspeedMS float64
	// HoverThrottlePct is the rotor throttle held in VTOL phases.
	HoverThrottlePct float64

	// MaxAccelMSS is the forward acceleration at full throttle with
	// the rotors fully forward.
	MaxAccelMSS float64
	// DragK is the quadratic drag coefficient, m/s^2 per (m/s)^2.
	DragK float64

	// TransitionTimeMS is the timed phase after minimum airspeed is
	// reached.
	TransitionTimeMS uint32
	// TransitionTimeoutMS aborts a forward transition that never
	// reaches minimum airspeed.
	TransitionTimeoutMS uint32

	HoverMS  uint32
	CruiseMS uint32
	BackMS   uint32
	LandMS   uint32

	// HeadingChangeDeg is the turn flown during cruise.
	HeadingChangeDeg float64
}

// DefaultParams returns a small electric quadplane.
func DefaultParams() Params {
	return Params{
		LoopRateHz:          100,
		CruiseSpeedMS:       18,
		MinAirspeedMS:       9,
		HoverThrottlePct:    45,
		MaxAccelMSS:         6,
		DragK:               0.011,
		TransitionTimeMS:    2000,
		TransitionTimeoutMS: 20000,
		HoverMS:             3000,
		CruiseMS:            8000,
		BackMS:              3000,
		LandMS:              4000,
		HeadingChangeDeg:    90,
	}
}

func (p Params) validate() error {
	if p.LoopRateHz <= 0 || 1000%p.LoopRateHz != 0 {
		return fmt.Errorf("sim: loop rate %d Hz must divide 1000 evenly", p.LoopRateHz)
	}
	if p.MinAirspeedMS <= 0 || p.CruiseSpeedMS <= p.MinAirspeedMS {
		return fmt.Errorf("sim: cruise speed %.1f must exceed minimum airspeed %.1f", p.CruiseSpeedMS, p.MinAirspeedMS)
	}
	if p.MaxAccelMSS <= 0 || p.DragK <= 0 {
		return fmt.Errorf("sim: acceleration and drag must be positive")
	}
	if p.HoverThrottlePct < 0 || p.HoverThrottlePct > 100 {
		return fmt.Errorf("sim: hover throttle %.1f%% out of range", p.HoverThrottlePct)
	}
	return nil
}

func (p Params) stepMS() uint32 {
	return uint32(1000 / p.LoopRateHz)
}

func (p Params) step() time.Duration {
	return time.Second / time.Duration(p.LoopRateHz)
}

// Sample is one simulation step of recorded state.
type Sample struct {
	TimeS       float64
	Phase       string
	Tilt        float64
	ThrottlePct float64
	AirspeedMS  float64
	HeadingDeg  float64
	BankDeg     float64
	YawTargetCD float64
	YawLocked   bool
}
