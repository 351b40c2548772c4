package tilt

import (
	"fmt"
	"math"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/logic/angles"
)

// TransitionState is the phase of a forward transition. Order
// matters: comparisons treat everything at or past TransitionTimer
// as committed to forward flight.
type TransitionState int

const (
	// TransitionAirspeedWait holds until enough airspeed is gained.
	TransitionAirspeedWait TransitionState = iota
	// TransitionTimer is the timed phase after the airspeed is
	// reached; the rotors go all the way forward.
	TransitionTimer
	// TransitionDone is complete forward flight.
	TransitionDone
)

func (s TransitionState) String() string {
	switch s {
	case TransitionAirspeedWait:
		return "airspeed_wait"
	case TransitionTimer:
		return "timer"
	case TransitionDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// re-lock the yaw target if tracking lapses for this long
const yawLockTimeoutMS = 100

// Transition tracks the forward transition phase and the heading to
// hold through it. The tilt controller owns the single instance;
// mode logic advances the phase through SetState.
type Transition struct {
	tilt  *Tiltrotor
	state TransitionState

	yawTargetCD float64
	yawSetMS    uint32
}

func newTransition(t *Tiltrotor) *Transition {
	return &Transition{tilt: t}
}

// State returns the current phase.
func (tr *Transition) State() TransitionState {
	return tr.state
}

// SetState moves the transition to phase s.
func (tr *Transition) SetState(s TransitionState) {
	if s != tr.state {
		debug.Phase(tr.state.String(), s.String())
	}
	tr.state = s
}

// updateYawTarget maintains the heading target during a forward
// transition. The target re-locks to the current heading when
// tracking lapses or the pilot commands yaw, and otherwise follows
// the coordinated turn implied by the navigation bank angle.
func (tr *Transition) updateYawTarget(fc FlightContext) {
	now := tr.tilt.clock.Millis()
	if now-tr.yawSetMS > yawLockTimeoutMS || fc.PilotYawRateCDS() != 0 {
		// lock initial yaw when the transition starts or when the
		// pilot commands a yaw change. This tracks straight in
		// transitions but still allows turns when a level
		// transition is not wanted.
		tr.yawTargetCD = tr.tilt.nav.HeadingCD()
	}

	aspeed, ok := tr.tilt.nav.AirspeedEstimate()
	if ok && math.Abs(tr.tilt.nav.NavRollCD()) > 1000 {
		dt := float64(now-tr.yawSetMS) * 0.001
		// yaw rate of the coordinated turn at the demanded bank
		airspeedMin := math.Max(tr.tilt.nav.MinAirspeed(), 5)
		yawRateCDS := angles.TurnRateDPS(tr.tilt.nav.NavRollCD()*0.01, math.Max(aspeed, airspeedMin)) * 100
		tr.yawTargetCD = angles.WrapCD(tr.yawTargetCD + yawRateCDS*dt)
	}
	tr.yawSetMS = now
}

// UpdateYawTarget returns the heading target in centidegrees for the
// attitude controller to hold. The second result is false when yaw
// target tracking is not active, which is whenever the aircraft is
// not tilt vectored or the transition has completed.
func (tr *Transition) UpdateYawTarget(fc FlightContext) (float64, bool) {
	if !(tr.tilt.vectored && tr.state <= TransitionTimer) {
		return 0, false
	}
	tr.updateYawTarget(fc)
	return tr.yawTargetCD, true
}

// ShowVTOLView reports whether the pilot view and control gains
// should stay in multirotor terms. Vectored yaw aircraft keep
// multirotor controls through the forward transition.
func (tr *Transition) ShowVTOLView(fc FlightContext) bool {
	if fc.InVTOLMode() {
		return true
	}
	return tr.tilt.vectored && tr.state <= TransitionTimer
}
