package sim

import (
	"math"

	"github.com/nCk9/ardupilot/internal/logic/angles"
	"github.com/nCk9/ardupilot/internal/logic/tilt"
)

// The flight feeds the controller from its own state.
var (
	_ tilt.FlightContext = (*Flight)(nil)
	_ tilt.AttitudeNav   = (*Flight)(nil)
	_ tilt.Clock         = (*Flight)(nil)
	_ tilt.VTOLControl   = (*Flight)(nil)
)

func (f *Flight) InVTOLMode() bool     { return f.mode.IsVTOL() }
func (f *Flight) AssistedFlight() bool { return f.assist }
func (f *Flight) Armed() bool          { return f.armed }
func (f *Flight) Mode() tilt.Mode      { return f.mode }

func (f *Flight) HasForwardThrottleRC() bool  { return false }
func (f *Flight) ForwardThrottlePct() float64 { return 0 }
func (f *Flight) MinThrottlePct() float64     { return 0 }

func (f *Flight) RudderInput() float64     { return 0 }
func (f *Flight) RudderDT() float64        { return 0 }
func (f *Flight) PilotYawRateCDS() float64 { return 0 }

func (f *Flight) MotorTestRunning() bool    { return false }
func (f *Flight) DisarmedTiltEnabled() bool { return true }

func (f *Flight) ForwardThrottleScale() float64 { return 1 }

// SpeedScaler mirrors the fixed-wing surface scaler: reference speed
// over airspeed, limited to 0.5..2.
func (f *Flight) SpeedScaler() float64 {
	return angles.Constrain(f.params.CruiseSpeedMS/math.Max(f.airspeedMS, 1), 0.5, 2)
}

func (f *Flight) HeadingCD() float64 { return f.headingCD }
func (f *Flight) NavRollCD() float64 { return f.bankDeg * 100 }

func (f *Flight) AirspeedEstimate() (float64, bool) { return f.airspeedMS, true }
func (f *Flight) MinAirspeed() float64              { return f.params.MinAirspeedMS }

func (f *Flight) Millis() uint32          { return f.ms }
func (f *Flight) LastArmedChange() uint32 { return f.lastArmedMS }

func (f *Flight) HoldStabilize(throttle float64) {
	f.motors.SetRoll(0)
	f.motors.SetPitch(0)
	f.motors.SetYaw(0)
	f.motors.SetThrottle(throttle)
}

func (f *Flight) MotorsOutput(runRateController bool) {
	f.motors.Output()
}
