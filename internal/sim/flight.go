package sim

import (
	"errors"
	"math"

	"go.einride.tech/pid"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
	"github.com/nCk9/ardupilot/internal/logic/mixer"
	"github.com/nCk9/ardupilot/internal/logic/tilt"
)

var errTransitionTimeout = errors.New("forward transition timed out before reaching minimum airspeed")

// Flight is one simulated quadplane: the tilt controller and mixer
// wired to a point-mass model, stepped at a fixed rate.
type Flight struct {
	params Params

	servos *servo.Outputs
	motors *mixer.Quad
	tilt   *tilt.Tiltrotor

	// speed holds cruise airspeed through forward throttle, bank
	// holds the cruise heading through the commanded bank angle.
	speed pid.Controller
	bank  pid.Controller

	phase        Phase
	phaseStartMS uint32
	timerStartMS uint32

	ms          uint32
	lastArmedMS uint32
	armed       bool
	mode        tilt.Mode
	assist      bool

	airspeedMS  float64
	headingCD   float64
	bankDeg     float64
	throttlePct float64
	targetCD    float64

	samples []Sample
}

// New builds a flight around the given tilt configuration. The
// controller is set up against the simulated motors and servos.
func New(params Params, cfg tilt.Config) (*Flight, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	f := &Flight{
		params: params,
		servos: servo.NewOutputs(),
		armed:  true,
		mode:   tilt.ModeQHover,
		speed: pid.Controller{
			Config: pid.ControllerConfig{
				ProportionalGain: 6.0,
				IntegralGain:     1.2,
				DerivativeGain:   0.4,
			},
		},
		bank: pid.Controller{
			Config: pid.ControllerConfig{
				ProportionalGain: 1.2,
				IntegralGain:     0.05,
				DerivativeGain:   0.3,
			},
		},
	}
	f.motors = mixer.NewQuad(f.servos)
	f.tilt = tilt.New(cfg, tilt.Deps{
		Motors: f.motors,
		Servos: f.servos,
		Nav:    f,
		Clock:  f,
		VTOL:   f,
	})
	if err := f.tilt.Setup(); err != nil {
		return nil, err
	}
	return f, nil
}

// Done reports whether the scripted flight has finished.
func (f *Flight) Done() bool {
	return f.phase == PhaseDone
}

// Samples returns the recorded state, one entry per step.
func (f *Flight) Samples() []Sample {
	return f.samples
}

// Tilt returns the controller under simulation.
func (f *Flight) Tilt() *tilt.Tiltrotor {
	return f.tilt
}

// Step advances the flight by one loop period: run the phase script,
// tick the tilt controller and the mixer, then integrate the model.
func (f *Flight) Step() {
	if f.phase == PhaseDone {
		return
	}

	f.script()

	f.servos.SetScaled(servo.Throttle, f.throttlePct)
	if f.mode.IsVTOL() {
		hover := f.params.HoverThrottlePct * 0.01
		if !f.armed {
			hover = 0
		}
		f.motors.SetThrottle(hover)
	}

	dt := f.params.step()
	f.tilt.Update(f, dt.Seconds())
	if f.mode.IsVTOL() || f.assist {
		f.motors.Output()
	}
	f.tilt.BicopterOutput(f)
	yawTarget, yawLocked := f.tilt.Transition().UpdateYawTarget(f)

	f.integrate(dt.Seconds())

	f.samples = append(f.samples, Sample{
		TimeS:       float64(f.ms) / 1000,
		Phase:       f.phase.String(),
		Tilt:        f.tilt.CurrentTilt(),
		ThrottlePct: f.throttlePct,
		AirspeedMS:  f.airspeedMS,
		HeadingDeg:  f.headingCD / 100,
		BankDeg:     f.bankDeg,
		YawTargetCD: yawTarget,
		YawLocked:   yawLocked,
	})

	f.ms += f.params.stepMS()
}

// script drives the phase machine and the per-phase demands.
func (f *Flight) script() {
	elapsed := f.ms - f.phaseStartMS

	switch f.phase {
	case PhaseHover:
		f.throttlePct = 0
		f.bankDeg = 0
		if elapsed >= f.params.HoverMS {
			f.mode = tilt.ModeFBWA
			f.assist = true
			f.tilt.Transition().SetState(tilt.TransitionAirspeedWait)
			f.speed.Reset()
			f.enter(PhaseTransition)
		}

	case PhaseTransition:
		if elapsed >= f.params.TransitionTimeoutMS {
			// never reached flying speed, go back to hover
			debug.Error(errTransitionTimeout)
			f.mode = tilt.ModeQHover
			f.assist = false
			f.tilt.Transition().SetState(tilt.TransitionAirspeedWait)
			f.enter(PhaseBack)
			return
		}
		f.holdAirspeed()
		f.bankDeg = 0
		tr := f.tilt.Transition()
		switch tr.State() {
		case tilt.TransitionAirspeedWait:
			if f.airspeedMS >= f.params.MinAirspeedMS {
				tr.SetState(tilt.TransitionTimer)
				f.timerStartMS = f.ms
			}
		case tilt.TransitionTimer:
			if f.ms-f.timerStartMS >= f.params.TransitionTimeMS {
				tr.SetState(tilt.TransitionDone)
				f.assist = false
				f.targetCD = angles.WrapCD(f.headingCD + f.params.HeadingChangeDeg*100)
				f.bank.Reset()
				f.enter(PhaseCruise)
			}
		}

	case PhaseCruise:
		f.holdAirspeed()
		f.holdHeading()
		if elapsed >= f.params.CruiseMS {
			f.mode = tilt.ModeQHover
			f.assist = false
			f.bankDeg = 0
			f.tilt.Transition().SetState(tilt.TransitionAirspeedWait)
			f.enter(PhaseBack)
		}

	case PhaseBack:
		f.throttlePct = 0
		f.bankDeg = 0
		if f.tilt.CurrentTilt() <= 0 && elapsed >= f.params.BackMS {
			f.armed = false
			f.lastArmedMS = f.ms
			f.enter(PhaseLand)
		}

	case PhaseLand:
		f.throttlePct = 0
		if elapsed >= f.params.LandMS {
			f.enter(PhaseDone)
		}
	}
}

func (f *Flight) enter(p Phase) {
	debug.Phase(f.phase.String(), p.String())
	f.phase = p
	f.phaseStartMS = f.ms
}

// holdAirspeed tracks cruise speed with the forward throttle.
func (f *Flight) holdAirspeed() {
	f.speed.Update(pid.ControllerInput{
		ReferenceSignal:  f.params.CruiseSpeedMS,
		ActualSignal:     f.airspeedMS,
		SamplingInterval: f.params.step(),
	})
	f.throttlePct = angles.Constrain(f.speed.State.ControlSignal, 0, 100)
}

// holdHeading banks toward the cruise target heading.
func (f *Flight) holdHeading() {
	// error wrapped to -180..180 so the turn takes the short way
	errDeg := math.Mod(angles.WrapCD(f.targetCD-f.headingCD), 36000) / 100
	if errDeg > 180 {
		errDeg -= 360
	}
	f.bank.Update(pid.ControllerInput{
		ReferenceSignal:  errDeg,
		ActualSignal:     0,
		SamplingInterval: f.params.step(),
	})
	f.bankDeg = angles.Constrain(f.bank.State.ControlSignal, -30, 30)
}

// integrate advances the point-mass model one step.
func (f *Flight) integrate(dt float64) {
	thrust := f.throttlePct * 0.01
	if f.mode.IsVTOL() {
		thrust = f.motors.Throttle()
	}
	if !f.armed {
		thrust = 0
	}

	forward := math.Sin(f.tilt.CurrentTilt() * math.Pi / 2)
	accel := f.params.MaxAccelMSS*forward*thrust - f.params.DragK*f.airspeedMS*math.Abs(f.airspeedMS)
	f.airspeedMS = math.Max(f.airspeedMS+accel*dt, 0)

	if !f.mode.IsVTOL() && f.airspeedMS > 3 {
		rate := angles.TurnRateDPS(f.bankDeg, f.airspeedMS)
		f.headingCD = angles.WrapCD(f.headingCD + rate*dt*100)
	}
}
