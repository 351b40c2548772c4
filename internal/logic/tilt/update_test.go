package tilt

import (
	"math"
	"testing"

	"github.com/nCk9/ardupilot/internal/hw/servo"
)

func TestUpdate_NoTiltableRotorsIsInert(t *testing.T) {
	cfg := continuousConfig()
	cfg.Mask = 0
	r := newTestRig(t, cfg)
	r.fc.armed = true
	r.fc.mode = ModeFBWA

	r.tilt.Update(r.fc, 0.1)

	if len(r.mixer.maskCalls) != 0 {
		t.Error("empty mask should produce no forward motor output")
	}
	if r.tilt.CurrentTilt() != 0 {
		t.Errorf("CurrentTilt() = %v, want 0", r.tilt.CurrentTilt())
	}
}

func TestContinuousUpdate_FixedWing_TiltsForwardAndHandsOver(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.mode = ModeFBWA
	r.fc.rudderDT = 0.25
	r.servos.SetScaled(servo.Throttle, 60)

	dt := 0.1
	r.tilt.Update(r.fc, dt)

	// armed unassisted fixed wing tilts at the 90 deg/s floor
	if math.Abs(r.tilt.CurrentTilt()-0.1) > epsilon {
		t.Errorf("CurrentTilt() = %v, want 0.1", r.tilt.CurrentTilt())
	}
	// the forward throttle handover slews at the same limit
	if math.Abs(r.tilt.CurrentThrottle()-0.1) > epsilon {
		t.Errorf("CurrentThrottle() = %v, want 0.1", r.tilt.CurrentThrottle())
	}
	if !r.tilt.MotorsActive() {
		t.Error("tiltable rotors must stay active in armed fixed-wing flight")
	}
	if len(r.mixer.maskCalls) != 1 {
		t.Fatalf("forward output calls = %d, want 1", len(r.mixer.maskCalls))
	}
	call := r.mixer.maskCalls[0]
	if call.mask != 0xF {
		t.Errorf("mask = %#x, want 0xF", call.mask)
	}
	if math.Abs(call.throttle-0.1) > epsilon {
		t.Errorf("handover throttle = %v, want 0.1", call.throttle)
	}
	if math.Abs(call.rudderDT-0.25) > epsilon {
		t.Errorf("rudder differential = %v, want 0.25", call.rudderDT)
	}

	for i := 0; i < 20; i++ {
		r.tilt.Update(r.fc, dt)
	}
	if !r.tilt.FullyForward() {
		t.Error("expected fully forward after sustained ticks")
	}
	if math.Abs(r.tilt.CurrentThrottle()-0.6) > epsilon {
		t.Errorf("CurrentThrottle() = %v, want the demanded 0.6", r.tilt.CurrentThrottle())
	}
	last := r.mixer.maskCalls[len(r.mixer.maskCalls)-1]
	if math.Abs(last.throttle-0.6) > epsilon {
		t.Errorf("final forward throttle = %v, want 0.6", last.throttle)
	}
}

func TestContinuousUpdate_FixedWing_DisarmedStopsForwardMotors(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.mode = ModeFBWA
	r.servos.SetScaled(servo.Throttle, 80)

	r.tilt.Update(r.fc, 0.1)

	if r.tilt.CurrentThrottle() != 0 {
		t.Errorf("CurrentThrottle() = %v while disarmed, want 0", r.tilt.CurrentThrottle())
	}
	if r.tilt.MotorsActive() {
		t.Error("motors must not be held active while disarmed")
	}
	if len(r.mixer.maskCalls) != 1 {
		t.Fatalf("forward output calls = %d, want 1", len(r.mixer.maskCalls))
	}
	if r.mixer.maskCalls[0].mask != 0 {
		t.Errorf("mask = %#x while disarmed, want 0", r.mixer.maskCalls[0].mask)
	}
}

func TestContinuousUpdate_MotorTestSkipsForwardOutput(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.mode = ModeFBWA
	r.fc.motorTest = true

	r.tilt.Update(r.fc, 0.1)

	if len(r.mixer.maskCalls) != 0 {
		t.Error("motor test owns the outputs, no forward output expected")
	}
	if r.tilt.CurrentTilt() == 0 {
		t.Error("tilt should still move during a motor test")
	}
}

func TestContinuousUpdate_QAutotuneRetracts(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQAutotune
	r.tilt.currentTilt = 0.5

	r.tilt.Update(r.fc, 0.1)

	want := 0.5 - 40.0*0.1/90.0
	if math.Abs(r.tilt.CurrentTilt()-want) > epsilon {
		t.Errorf("CurrentTilt() = %v, want %v", r.tilt.CurrentTilt(), want)
	}
}

func TestContinuousUpdate_QHoverRetractsWithoutForwardRC(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover
	r.mixer.throttle = 0.4
	r.tilt.currentTilt = 0.5

	r.tilt.Update(r.fc, 0.1)

	wantTilt := 0.5 - 40.0*0.1/90.0
	if math.Abs(r.tilt.CurrentTilt()-wantTilt) > epsilon {
		t.Errorf("CurrentTilt() = %v, want %v", r.tilt.CurrentTilt(), wantTilt)
	}
	// the VTOL throttle memory follows the mixer within the slew limit
	wantThrottle := 40.0 * 0.1 / 90.0
	if math.Abs(r.tilt.CurrentThrottle()-wantThrottle) > epsilon {
		t.Errorf("CurrentThrottle() = %v, want %v", r.tilt.CurrentThrottle(), wantThrottle)
	}
}

func TestContinuousUpdate_QHoverFollowsForwardThrottleRC(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQHover
	r.fc.fwdRC = true
	r.fc.fwdPct = 30

	for i := 0; i < 20; i++ {
		r.tilt.Update(r.fc, 0.1)
	}
	if math.Abs(r.tilt.CurrentTilt()-0.3) > epsilon {
		t.Errorf("CurrentTilt() = %v, want 0.3", r.tilt.CurrentTilt())
	}
}

// Reference: throttle 60%, slope (60-0)/50 clamps to 1, the 45 degree
// angle limit caps the tilt at 45/90 = 0.5.
func TestContinuousUpdate_AssistedCapsAtMaxAngle(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.assist = true
	r.fc.mode = ModeFBWA
	r.servos.SetScaled(servo.Throttle, 60)

	for i := 0; i < 30; i++ {
		r.tilt.Update(r.fc, 0.1)
	}
	if math.Abs(r.tilt.CurrentTilt()-0.5) > epsilon {
		t.Errorf("CurrentTilt() = %v, want 0.5", r.tilt.CurrentTilt())
	}
}

// Reference: throttle 35% over a 10% floor, slope (35-10)/50 = 0.5,
// half of the 0.5 angle cap.
func TestContinuousUpdate_AssistedHonorsMinThrottle(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.assist = true
	r.fc.mode = ModeFBWA
	r.fc.thrMin = 10
	r.servos.SetScaled(servo.Throttle, 35)

	for i := 0; i < 30; i++ {
		r.tilt.Update(r.fc, 0.1)
	}
	if math.Abs(r.tilt.CurrentTilt()-0.25) > epsilon {
		t.Errorf("CurrentTilt() = %v, want 0.25", r.tilt.CurrentTilt())
	}
}

func TestContinuousUpdate_QLoiterFollowsThrottleSlope(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.vtol = true
	r.fc.mode = ModeQLoiter
	r.servos.SetScaled(servo.Throttle, 40)

	for i := 0; i < 30; i++ {
		r.tilt.Update(r.fc, 0.1)
	}
	want := (40.0 / 50.0) * 45.0 / 90.0
	if math.Abs(r.tilt.CurrentTilt()-want) > epsilon {
		t.Errorf("CurrentTilt() = %v, want %v", r.tilt.CurrentTilt(), want)
	}
}

func TestContinuousUpdate_AssistedPastTimerGoesFullForward(t *testing.T) {
	r := newTestRig(t, continuousConfig())
	r.fc.armed = true
	r.fc.assist = true
	r.fc.mode = ModeFBWA
	r.tilt.Transition().SetState(TransitionTimer)

	for i := 0; i < 40; i++ {
		r.tilt.Update(r.fc, 0.1)
	}
	if !r.tilt.FullyForward() {
		t.Error("expected fully forward once the transition timer runs")
	}
}

func TestBinaryUpdate_FixedWingServoLeadsThrottleHandover(t *testing.T) {
	cfg := continuousConfig()
	cfg.Type = TypeBinary
	cfg.MaxRateUpDPS = 45
	r := newTestRig(t, cfg)
	r.fc.armed = true
	r.fc.mode = ModeFBWA
	r.servos.SetScaled(servo.Throttle, 50)

	dt := 0.5 // 45 deg/s moves the tracked tilt 0.25 per tick
	r.tilt.Update(r.fc, dt)

	if got := r.servos.Scaled(servo.MotorTilt); math.Abs(got-1000) > epsilon {
		t.Fatalf("binary servo = %v, want 1000 immediately", got)
	}
	if math.Abs(r.tilt.CurrentTilt()-0.25) > epsilon {
		t.Errorf("CurrentTilt() = %v, want 0.25", r.tilt.CurrentTilt())
	}
	if len(r.mixer.maskCalls) != 0 {
		t.Fatal("no forward output until the tracked tilt completes")
	}
	if !r.tilt.MotorsActive() {
		t.Error("binary tilt keeps the motors active")
	}

	for i := 0; i < 3; i++ {
		r.tilt.Update(r.fc, dt)
	}
	if !r.tilt.FullyForward() {
		t.Fatal("expected fully forward after four ticks")
	}
	if len(r.mixer.maskCalls) != 1 {
		t.Fatalf("forward output calls = %d, want 1", len(r.mixer.maskCalls))
	}
	call := r.mixer.maskCalls[0]
	if math.Abs(call.throttle-0.5) > epsilon {
		t.Errorf("forward throttle = %v, want 0.5", call.throttle)
	}
	if call.mask != 0xF {
		t.Errorf("mask = %#x, want 0xF", call.mask)
	}
}

func TestBinaryUpdate_VTOLRetractsServoImmediately(t *testing.T) {
	cfg := continuousConfig()
	cfg.Type = TypeBinary
	cfg.MaxRateUpDPS = 45
	r := newTestRig(t, cfg)
	r.fc.armed = true
	r.fc.mode = ModeFBWA

	dt := 0.5
	for i := 0; i < 4; i++ {
		r.tilt.Update(r.fc, dt)
	}
	if !r.tilt.FullyForward() {
		t.Fatal("setup: expected fully forward")
	}

	r.fc.vtol = true
	r.fc.mode = ModeQHover
	r.tilt.Update(r.fc, dt)

	if got := r.servos.Scaled(servo.MotorTilt); got != 0 {
		t.Errorf("binary servo = %v, want 0 immediately", got)
	}
	if math.Abs(r.tilt.CurrentTilt()-0.75) > epsilon {
		t.Errorf("CurrentTilt() = %v, want 0.75", r.tilt.CurrentTilt())
	}
	if !r.tilt.MotorsActive() {
		t.Error("binary tilt keeps the motors active")
	}
}
