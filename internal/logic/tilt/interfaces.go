package tilt

// FlightContext is the per-tick snapshot of vehicle state the
// controller reads. Implementations must return consistent values for
// the duration of one Update call; the controller never writes
// through this interface.
type FlightContext interface {
	// InVTOLMode reports whether the vehicle is flying a VTOL mode.
	InVTOLMode() bool
	// AssistedFlight reports whether the rotors are assisting a
	// fixed-wing mode.
	AssistedFlight() bool
	// Armed reports the vehicle arming state.
	Armed() bool
	// Mode returns the active flight mode.
	Mode() Mode

	// HasForwardThrottleRC reports whether a manual forward throttle
	// input channel is configured.
	HasForwardThrottleRC() bool
	// ForwardThrottlePct returns the manual forward throttle demand
	// in percent (0..100).
	ForwardThrottlePct() float64
	// MinThrottlePct returns the fixed-wing minimum throttle setting
	// in percent. May be negative on reverse-thrust planes.
	MinThrottlePct() float64

	// RudderInput returns the pilot rudder position normalised to
	// -1..1.
	RudderInput() float64
	// RudderDT returns the rudder differential-thrust demand passed
	// through to forward motor output.
	RudderDT() float64
	// PilotYawRateCDS returns the commanded yaw rate in
	// centidegrees/s.
	PilotYawRateCDS() float64

	// MotorTestRunning reports whether a motor test owns the outputs.
	MotorTestRunning() bool
	// DisarmedTiltEnabled reports whether tilt servo movement is
	// allowed while disarmed.
	DisarmedTiltEnabled() bool

	// ForwardThrottleScale returns the inverse-throttle scaling
	// applied to vectoring in forward flight.
	ForwardThrottleScale() float64
	// SpeedScaler returns the airspeed surface scaler the vectoring
	// gain divides out.
	SpeedScaler() float64
}

// MotorMixer is the rotor output stage the controller drives. The
// compensator registered with SetThrustCompensator is invoked
// synchronously during every thrust allocation pass.
type MotorMixer interface {
	// Throttle returns the current VTOL throttle demand (0..1).
	Throttle() float64
	// Roll returns the roll demand (-1..1).
	Roll() float64
	// Yaw returns the yaw demand (-1..1).
	Yaw() float64
	// RollFactor returns the roll mixing factor of rotor i.
	RollFactor(i int) float64

	// DisableYawTorque stops the mixer from using differential
	// torque for yaw; vectoring provides yaw instead.
	DisableYawTorque()
	// OutputMotorMask drives the masked rotors at the given throttle
	// (0..1) as forward motors, with rudder differential, and stops
	// the rest.
	OutputMotorMask(throttle float64, mask uint16, rudderDT float64)
	// SetThrustCompensator registers c for the allocation pass.
	SetThrustCompensator(c ThrustCompensator)
}

// ThrustCompensator adjusts per-rotor thrust demands in place.
type ThrustCompensator interface {
	CompensateThrust(thrust []float64)
}

// AttitudeNav supplies the attitude and navigation values the
// transition yaw tracking needs.
type AttitudeNav interface {
	// HeadingCD returns the current yaw in centidegrees (0..36000).
	HeadingCD() float64
	// NavRollCD returns the navigation bank angle demand in
	// centidegrees.
	NavRollCD() float64
	// AirspeedEstimate returns the estimated airspeed in m/s and
	// whether an estimate is available.
	AirspeedEstimate() (float64, bool)
	// MinAirspeed returns the configured minimum flying airspeed in
	// m/s.
	MinAirspeed() float64
}

// Clock is the millisecond time source. Values wrap at ~49 days; the
// consequences are insignificant.
type Clock interface {
	Millis() uint32
	// LastArmedChange returns the clock value of the last arm or
	// disarm.
	LastArmedChange() uint32
}

// VTOLControl is the multicopter control path the bicopter output
// hooks into.
type VTOLControl interface {
	// HoldStabilize runs attitude stabilisation at the given
	// throttle (0..1).
	HoldStabilize(throttle float64)
	// MotorsOutput runs the multicopter output stage, optionally
	// with the rate controller.
	MotorsOutput(runRateController bool)
}
