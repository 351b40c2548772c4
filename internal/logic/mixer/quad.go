package mixer

import (
	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
	"github.com/nCk9/ardupilot/internal/logic/tilt"
)

// NumMotors is the rotor count of the X frame.
const NumMotors = 4

type factors struct {
	roll, pitch, yaw float64
}

// X configuration, motors in standard order:
// 1 front right CCW, 2 back left CCW, 3 front left CW, 4 back right CW.
// Roll and pitch factors are normalised to 0.5.
var quadX = [NumMotors]factors{
	{roll: -0.5, pitch: 0.5, yaw: 1},
	{roll: 0.5, pitch: -0.5, yaw: 1},
	{roll: 0.5, pitch: 0.5, yaw: -1},
	{roll: -0.5, pitch: -0.5, yaw: -1},
}

// yaw torque contribution per unit of yaw demand
const yawTorqueGain = 0.5

// Quad mixes attitude and throttle demands into four rotor thrusts.
// It sits between the control logic and the servo outputs, and is the
// rotor output stage the tilt controller drives: the registered
// thrust compensator runs inside every Output pass, between demand
// mixing and the servo writes.
type Quad struct {
	servos *servo.Outputs

	roll     float64
	pitch    float64
	yaw      float64
	throttle float64

	thrust [NumMotors]float64

	comp         tilt.ThrustCompensator
	yawTorqueOff bool
}

func NewQuad(servos *servo.Outputs) *Quad {
	return &Quad{servos: servos}
}

// SetRoll sets the roll demand (-1..1).
func (q *Quad) SetRoll(v float64) { q.roll = angles.Constrain(v, -1, 1) }

// SetPitch sets the pitch demand (-1..1).
func (q *Quad) SetPitch(v float64) { q.pitch = angles.Constrain(v, -1, 1) }

// SetYaw sets the yaw demand (-1..1).
func (q *Quad) SetYaw(v float64) { q.yaw = angles.Constrain(v, -1, 1) }

// SetThrottle sets the collective throttle demand (0..1).
func (q *Quad) SetThrottle(v float64) { q.throttle = angles.Constrain(v, 0, 1) }

// Throttle returns the collective throttle demand (0..1).
func (q *Quad) Throttle() float64 { return q.throttle }

// Roll returns the roll demand (-1..1).
func (q *Quad) Roll() float64 { return q.roll }

// Yaw returns the yaw demand (-1..1).
func (q *Quad) Yaw() float64 { return q.yaw }

// RollFactor returns the roll mixing factor of rotor i.
func (q *Quad) RollFactor(i int) float64 {
	if i < 0 || i >= NumMotors {
		return 0
	}
	return quadX[i].roll
}

// DisableYawTorque drops the torque term from the mix; yaw authority
// must then come from thrust vectoring.
func (q *Quad) DisableYawTorque() {
	q.yawTorqueOff = true
}

// SetThrustCompensator registers c to adjust the thrust demands
// during every Output pass.
func (q *Quad) SetThrustCompensator(c tilt.ThrustCompensator) {
	q.comp = c
}

// Thrust returns the last output thrust of rotor i (0..1).
func (q *Quad) Thrust(i int) float64 {
	if i < 0 || i >= NumMotors {
		return 0
	}
	return q.thrust[i]
}

// Output runs one allocation pass: mix the demands per rotor, let the
// compensator adjust for tilt, clamp and write the rotor channels.
func (q *Quad) Output() {
	for i := range q.thrust {
		f := quadX[i]
		t := q.throttle + q.roll*f.roll + q.pitch*f.pitch
		if !q.yawTorqueOff {
			t += q.yaw * f.yaw * yawTorqueGain
		}
		q.thrust[i] = t
	}

	if q.comp != nil {
		q.comp.CompensateThrust(q.thrust[:])
	}

	for i := range q.thrust {
		q.thrust[i] = angles.Constrain(q.thrust[i], 0, 1)
		q.servos.SetScaled(servo.Motor(i), q.thrust[i])
	}
}

// OutputMotorMask drives the masked rotors at the given throttle as
// forward motors with rudder differential, and stops the rest.
func (q *Quad) OutputMotorMask(throttle float64, mask uint16, rudderDT float64) {
	for i := range q.thrust {
		out := 0.0
		if mask&(1<<uint(i)) != 0 {
			// copter frame roll is plane frame yaw here, so the
			// roll factor steers the differential
			out = throttle + q.RollFactor(i)*rudderDT*0.5
		}
		q.thrust[i] = angles.Constrain(out, 0, 1)
		q.servos.SetScaled(servo.Motor(i), q.thrust[i])
	}
}
