package bench

import (
	"context"
	"time"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/hw/arming"
	"github.com/nCk9/ardupilot/internal/hw/gpio"
	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/mixer"
	"github.com/nCk9/ardupilot/internal/logic/tilt"
)

// Rig bundles the tilt controller with its collaborators for
// scripted bench runs against mock or real servo hardware.
type Rig struct {
	Tilt   *tilt.Tiltrotor
	Motors *mixer.Quad
	Servos *servo.Outputs
	State  *State
	Clock  *Clock

	Driver gpio.Driver
	Pins   map[servo.Channel]int
	Switch *arming.Switch // optional, overrides profile arming
}

// VTOLStage adapts the mixer to the multicopter output hook the
// bicopter path drives.
type VTOLStage struct {
	Motors *mixer.Quad
}

func (v VTOLStage) HoldStabilize(throttle float64) {
	v.Motors.SetRoll(0)
	v.Motors.SetPitch(0)
	v.Motors.SetYaw(0)
	v.Motors.SetThrottle(throttle)
}

func (v VTOLStage) MotorsOutput(runRateController bool) {
	v.Motors.Output()
}

// Runner ticks a rig through a profile at the configured loop rate.
type Runner struct {
	rig     *Rig
	period  time.Duration
	dt      float64
	accumMS float64
}

func NewRunner(rig *Rig, period time.Duration) *Runner {
	return &Runner{
		rig:    rig,
		period: period,
		dt:     period.Seconds(),
	}
}

// Run executes the profile step by step, honoring ctx cancellation
// between ticks.
func (r *Runner) Run(ctx context.Context, p *Profile) error {
	debug.Summary("Profile: " + p.Name)

	for i := range p.Steps {
		step := &p.Steps[i]
		if err := r.applyStep(step); err != nil {
			return err
		}

		ticks := int(step.Duration() / r.period)
		if ticks < 1 {
			ticks = 1
		}
		debug.Live("Step %q: %d ticks of %v", step.Name, ticks, r.period)

		for n := 0; n < ticks; n++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := r.tick(); err != nil {
				return err
			}
			time.Sleep(r.period)
		}

		debug.Tilt(r.rig.Tilt.CurrentTilt(), r.rig.Tilt.CurrentThrottle(), r.rig.Tilt.MotorsActive())
	}

	return nil
}

// applyStep moves the scripted flight state to the step's settings.
func (r *Runner) applyStep(step *Step) error {
	st := r.rig.State

	mode, err := tilt.ParseMode(step.Mode)
	if err != nil {
		return err
	}

	if step.Armed != st.ArmedFlag {
		r.rig.Clock.MarkArmedChange()
	}
	st.ArmedFlag = step.Armed
	st.FlightMode = mode
	st.VTOL = mode.IsVTOL()
	st.Assist = step.Assisted
	st.Rudder = step.Rudder

	debug.Mode(mode.String(), st.VTOL)

	r.rig.Servos.SetScaled(servo.Throttle, step.ThrottlePct)
	if st.VTOL {
		r.rig.Motors.SetThrottle(step.ThrottlePct * 0.01)
	}

	if step.Transition != "" {
		phase, err := ParseTransition(step.Transition)
		if err != nil {
			return err
		}
		if tr := r.rig.Tilt.Transition(); tr != nil {
			tr.SetState(phase)
		}
	}
	return nil
}

// tick runs one control cycle: poll the optional arm switch, advance
// the controller, run the rotor output pass and flush the servos.
func (r *Runner) tick() error {
	rig := r.rig

	if rig.Switch != nil {
		if err := rig.Switch.Poll(rig.Clock.Millis()); err != nil {
			return err
		}
		if rig.Switch.Armed() != rig.State.ArmedFlag {
			rig.State.ArmedFlag = rig.Switch.Armed()
			rig.Clock.MarkArmedChange()
		}
	}

	rig.Tilt.Update(rig.State, r.dt)
	if rig.State.VTOL || rig.State.Assist {
		rig.Motors.Output()
	}
	rig.Tilt.BicopterOutput(rig.State)

	if rig.Driver != nil {
		if err := rig.Servos.Flush(rig.Driver, rig.Pins); err != nil {
			return err
		}
	}

	r.accumMS += r.dt * 1000
	whole := uint32(r.accumMS)
	r.accumMS -= float64(whole)
	rig.Clock.Advance(whole)
	return nil
}

// the scripted types stand in for the flight stack
var (
	_ tilt.FlightContext = (*State)(nil)
	_ tilt.Clock         = (*Clock)(nil)
	_ tilt.AttitudeNav   = (*Heading)(nil)
	_ tilt.VTOLControl   = VTOLStage{}
	_ tilt.MotorMixer    = (*mixer.Quad)(nil)
)
