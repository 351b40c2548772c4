package bench

import (
	"github.com/nCk9/ardupilot/internal/logic/tilt"
)

// State is the scripted flight context the rig feeds the controller.
// Profile steps write the fields; the controller reads them through
// the tilt.FlightContext methods.
type State struct {
	VTOL        bool
	Assist      bool
	ArmedFlag   bool
	FlightMode  tilt.Mode
	FwdThrRC    bool
	FwdThrPct   float64
	ThrMinPct   float64
	Rudder      float64
	RudderDTVal float64
	YawRateCDS  float64
	MotorTest   bool
	DisarmTilt  bool
	FwdThrScale float64
	SpdScale    float64
}

// NewState returns a disarmed manual-mode state with neutral scalers.
func NewState() *State {
	return &State{
		FlightMode:  tilt.ModeManual,
		FwdThrScale: 1,
		SpdScale:    1,
	}
}

func (s *State) InVTOLMode() bool              { return s.VTOL }
func (s *State) AssistedFlight() bool          { return s.Assist }
func (s *State) Armed() bool                   { return s.ArmedFlag }
func (s *State) Mode() tilt.Mode               { return s.FlightMode }
func (s *State) HasForwardThrottleRC() bool    { return s.FwdThrRC }
func (s *State) ForwardThrottlePct() float64   { return s.FwdThrPct }
func (s *State) MinThrottlePct() float64       { return s.ThrMinPct }
func (s *State) RudderInput() float64          { return s.Rudder }
func (s *State) RudderDT() float64             { return s.RudderDTVal }
func (s *State) PilotYawRateCDS() float64      { return s.YawRateCDS }
func (s *State) MotorTestRunning() bool        { return s.MotorTest }
func (s *State) DisarmedTiltEnabled() bool     { return s.DisarmTilt }
func (s *State) ForwardThrottleScale() float64 { return s.FwdThrScale }
func (s *State) SpeedScaler() float64          { return s.SpdScale }

// Clock is the rig's manual millisecond clock.
type Clock struct {
	ms          uint32
	armedChange uint32
}

func (c *Clock) Millis() uint32          { return c.ms }
func (c *Clock) LastArmedChange() uint32 { return c.armedChange }

// Advance moves the clock forward.
func (c *Clock) Advance(ms uint32) { c.ms += ms }

// MarkArmedChange records an arm or disarm at the current time.
func (c *Clock) MarkArmedChange() { c.armedChange = c.ms }

// Heading is the fixed attitude source of the bench: the rig sits on
// a desk, so heading and bank are constant and no airspeed estimate
// is available.
type Heading struct {
	HeadingValueCD float64
	MinAirspeedMS  float64
}

func (h *Heading) HeadingCD() float64 { return h.HeadingValueCD }
func (h *Heading) NavRollCD() float64 { return 0 }
func (h *Heading) AirspeedEstimate() (float64, bool) {
	return 0, false
}
func (h *Heading) MinAirspeed() float64 { return h.MinAirspeedMS }
