package servo

import (
	"fmt"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/hw/gpio"
)

// Channel identifies one output function. The control logic writes
// scaled values to channels; the rig maps channels to physical pins.
type Channel int

const (
	Throttle Channel = iota // forward throttle, 0..100 percent
	MotorTilt               // common tilt servo, 0..1000
	TiltLeft                // vectored tilt servos, 0..1000
	TiltRight
	TiltRear
	TiltRearLeft
	TiltRearRight
	ElevonLeft  // control surfaces, angle +/-4500
	ElevonRight
	Elevator
	Motor1 // individual rotor outputs, 0..1
	Motor2
	Motor3
	Motor4
	numChannels
)

var channelNames = [numChannels]string{
	"throttle",
	"motor_tilt",
	"tilt_left",
	"tilt_right",
	"tilt_rear",
	"tilt_rear_left",
	"tilt_rear_right",
	"elevon_left",
	"elevon_right",
	"elevator",
	"motor1",
	"motor2",
	"motor3",
	"motor4",
}

func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// Motor returns the output channel of rotor i (0-based).
func Motor(i int) Channel {
	return Motor1 + Channel(i)
}

// NumMotors is the number of rotor output channels.
const NumMotors = int(numChannels - Motor1)

type rangeSpec struct {
	lo, hi float64
}

// Outputs is the scaled output registry. Values are stored in each
// channel's scaled range and converted to pulse widths on Flush.
type Outputs struct {
	values [numChannels]float64
	ranges [numChannels]rangeSpec
}

// NewOutputs creates the registry with the standard channel ranges:
// throttle in percent, tilt servos 0..1000, surfaces +/-4500,
// rotors 0..1.
func NewOutputs() *Outputs {
	o := &Outputs{}
	o.ranges[Throttle] = rangeSpec{0, 100}
	for ch := MotorTilt; ch <= TiltRearRight; ch++ {
		o.ranges[ch] = rangeSpec{0, 1000}
	}
	for ch := ElevonLeft; ch <= Elevator; ch++ {
		o.ranges[ch] = rangeSpec{-4500, 4500}
	}
	for ch := Motor1; ch < numChannels; ch++ {
		o.ranges[ch] = rangeSpec{0, 1}
	}
	return o
}

// SetRange configures ch as a one-sided output from 0 to max.
func (o *Outputs) SetRange(ch Channel, max float64) {
	o.ranges[ch] = rangeSpec{0, max}
}

// SetAngleRange configures ch as a symmetric output from -max to max.
func (o *Outputs) SetAngleRange(ch Channel, max float64) {
	o.ranges[ch] = rangeSpec{-max, max}
}

// SetScaled stores a value on ch, clamped to the channel range.
func (o *Outputs) SetScaled(ch Channel, v float64) {
	r := o.ranges[ch]
	if v < r.lo {
		v = r.lo
	}
	if v > r.hi {
		v = r.hi
	}
	o.values[ch] = v
	if debug.IsEnabled(debug.LevelTrace) {
		debug.Servo(ch.String(), v, o.PulseUS(ch))
	}
}

// Scaled returns the current value of ch in its scaled range.
func (o *Outputs) Scaled(ch Channel) float64 {
	return o.values[ch]
}

// PulseUS converts the current value of ch to a standard servo pulse:
// the low end of the range maps to 1000us, the high end to 2000us.
func (o *Outputs) PulseUS(ch Channel) uint32 {
	r := o.ranges[ch]
	if r.hi == r.lo {
		return 1500
	}
	frac := (o.values[ch] - r.lo) / (r.hi - r.lo)
	return uint32(1000 + 1000*frac)
}

// Flush writes the pulse widths of all wired channels to the driver.
// pins maps channels to BCM pins; channels absent from the map (or
// mapped to 0) are skipped.
func (o *Outputs) Flush(d gpio.Driver, pins map[Channel]int) error {
	for ch, pin := range pins {
		if pin <= 0 {
			continue
		}
		if err := d.WriteServoUS(pin, o.PulseUS(ch)); err != nil {
			return fmt.Errorf("flush %s: %w", ch, err)
		}
	}
	return nil
}
