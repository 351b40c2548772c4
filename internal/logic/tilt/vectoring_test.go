package tilt

import (
	"math"
	"testing"

	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/angles"
)

// Reference geometry for vectoredConfig (YAW_ANGLE 10, FIX_ANGLE 5):
//   total travel = 90 + 10 + 5 = 105 degrees
//   zero_out     = 10/105 = 0.095238  (motors pointing straight up)
//   fixed limit  = 5/105  = 0.047619
//   level_out    = 1 - 5/105          (motors pointing straight forward)
const (
	vecZeroOut    = 10.0 / 105.0
	vecFixedLimit = 5.0 / 105.0
	vecLevelOut   = 1.0 - vecFixedLimit
)

func vecBase(tilt float64) float64 {
	return vecZeroOut + tilt*(vecLevelOut-vecZeroOut)
}

func checkTiltServos(t *testing.T, r *testRig, want map[servo.Channel]float64) {
	for ch, w := range want {
		if got := r.servos.Scaled(ch); math.Abs(got-w) > 1e-3 {
			t.Errorf("%s = %v, want %v", ch, got, w)
		}
	}
}

func TestVectoring_HoverCentersAtZeroOut(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover

	r.tilt.vectoring(r.fc)

	want := 1000 * vecZeroOut
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:      want,
		servo.TiltRight:     want,
		servo.TiltRear:      want,
		servo.TiltRearLeft:  want,
		servo.TiltRearRight: want,
	})
}

func TestVectoring_HoverYawTiltsLeftRightOpposite(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover
	r.mixer.yaw = 0.5

	r.tilt.vectoring(r.fc)

	// at zero tilt the offset is the raw yaw demand
	left := 1000 * (vecZeroOut + 0.5*vecZeroOut)
	right := 1000 * (vecZeroOut - 0.5*vecZeroOut)
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:      left,
		servo.TiltRight:     right,
		servo.TiltRear:      1000 * vecZeroOut,
		servo.TiltRearLeft:  left,
		servo.TiltRearRight: right,
	})
}

func TestVectoring_HoverRollTermGrowsWithTilt(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover
	r.mixer.roll = 0.4
	r.tilt.currentTilt = 0.5

	r.tilt.vectoring(r.fc)

	offset := 0.5 * 0.4 * math.Sin(angles.Radians(45))
	base := vecBase(0.5)
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:  1000 * (base + offset*vecZeroOut),
		servo.TiltRight: 1000 * (base - offset*vecZeroOut),
		servo.TiltRear:  1000 * base,
	})
}

func TestVectoring_HoverOffsetClampedToFullRange(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover
	r.mixer.yaw = 2 // over-range demand

	r.tilt.vectoring(r.fc)

	want := 1000 * (vecZeroOut + vecZeroOut)
	if got := r.servos.Scaled(servo.TiltLeft); math.Abs(got-want) > 1e-3 {
		t.Errorf("tilt_left = %v, want clamped %v", got, want)
	}
}

func TestVectoring_ForwardFlightTrimsLikeSurfaces(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.mode = ModeFBWA
	r.fc.fwdScale = 1.2
	r.fc.spdScale = 0.8
	r.tilt.currentTilt = 0.8 // past the 45 degree threshold
	r.servos.SetScaled(servo.ElevonRight, 2250)
	r.servos.SetScaled(servo.ElevonLeft, -1350)
	r.servos.SetScaled(servo.Elevator, 900)

	r.tilt.vectoring(r.fc)

	// inverse throttle scaling: fixed gain * limit * fwdScale/spdScale
	gain := 0.5 * vecFixedLimit * (1.2 / 0.8)
	right := gain * 2250 / 4500
	left := gain * -1350 / 4500
	mid := gain * 900 / 4500
	base := vecBase(0.8)
	// front tilts act as canards: right surface drives the left tilt
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:      1000 * (base - right),
		servo.TiltRight:     1000 * (base - left),
		servo.TiltRearLeft:  1000 * (base + left),
		servo.TiltRearRight: 1000 * (base + right),
		servo.TiltRear:      1000 * (base + mid),
	})
}

func TestVectoring_FullForwardRestsAtLevelOut(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.mode = ModeFBWA
	r.tilt.currentTilt = 1 // no surface deflection, pure cruise trim

	r.tilt.vectoring(r.fc)

	want := 1000 * vecLevelOut
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:      want,
		servo.TiltRight:     want,
		servo.TiltRear:      want,
		servo.TiltRearLeft:  want,
		servo.TiltRearRight: want,
	})
}

func TestVectoring_ManualModeSkipsSpeedScaling(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.mode = ModeManual
	r.fc.fwdScale = 1.2
	r.fc.spdScale = 0.8
	r.tilt.currentTilt = 0.8
	r.servos.SetScaled(servo.ElevonRight, 4500)

	r.tilt.vectoring(r.fc)

	gain := 0.5 * vecFixedLimit // scaler stays 1 in manual
	want := 1000 * (vecBase(0.8) - gain)
	if got := r.servos.Scaled(servo.TiltLeft); math.Abs(got-want) > 1e-3 {
		t.Errorf("tilt_left = %v, want %v", got, want)
	}
}

func TestVectoring_DisarmedWaitsForSpindown(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.disarmedTilt = true
	r.fc.vtol = true
	r.clock.ms = 2000
	r.clock.armedChange = 0
	r.servos.SetScaled(servo.TiltLeft, 777)

	r.tilt.vectoring(r.fc)

	if got := r.servos.Scaled(servo.TiltLeft); got != 777 {
		t.Errorf("tilt_left = %v, want 777 untouched within the spindown delay", got)
	}
}

func TestVectoring_DisarmedRudderSweep(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.disarmedTilt = true
	r.fc.vtol = true
	r.fc.rudder = 1
	r.clock.ms = 5000
	r.clock.armedChange = 0

	r.tilt.vectoring(r.fc)

	left := 1000 * (vecZeroOut + vecZeroOut)
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:      left,
		servo.TiltRight:     0,
		servo.TiltRear:      1000 * vecZeroOut,
		servo.TiltRearLeft:  left,
		servo.TiltRearRight: 0,
	})
}

func TestVectoring_DisarmedFixedWingFollowsSurfaces(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.disarmedTilt = true
	r.clock.ms = 5000
	r.clock.armedChange = 0
	r.servos.SetScaled(servo.ElevonRight, 4500)
	r.servos.SetScaled(servo.ElevonLeft, -4500)

	r.tilt.vectoring(r.fc)

	gain := 0.5 * vecFixedLimit
	base := 1000 * vecZeroOut
	checkTiltServos(t, r, map[servo.Channel]float64{
		servo.TiltLeft:      base - 1000*gain,
		servo.TiltRight:     base + 1000*gain,
		servo.TiltRearLeft:  base - 1000*gain,
		servo.TiltRearRight: base + 1000*gain,
		servo.TiltRear:      base,
	})
}

func TestVectoring_DisarmedWithoutOptionUsesFlightPath(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.vtol = true
	r.fc.mode = ModeQHover

	r.tilt.vectoring(r.fc)

	// without the disarmed tilt option the normal hover vectoring runs
	if got := r.servos.Scaled(servo.TiltRear); math.Abs(got-1000*vecZeroOut) > 1e-3 {
		t.Errorf("tilt_rear = %v, want %v", got, 1000*vecZeroOut)
	}
}

func TestVectoring_RunsFromUpdate(t *testing.T) {
	r := newTestRig(t, vectoredConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover

	r.tilt.Update(r.fc, 0.01)

	if got := r.servos.Scaled(servo.TiltRear); math.Abs(got-1000*vecZeroOut) > 1e-3 {
		t.Errorf("tilt_rear = %v after Update, want %v", got, 1000*vecZeroOut)
	}
}
