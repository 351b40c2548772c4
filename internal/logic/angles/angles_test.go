package angles

import (
	"math"
	"testing"
)

const epsilon = 0.001 // tolerance for float comparisons

func TestRadians_Degrees_RoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 30, 45, 90, 180, 270, 360, -45} {
		got := Degrees(Radians(deg))
		if math.Abs(got-deg) > epsilon {
			t.Errorf("Degrees(Radians(%v)) = %v, want %v", deg, got, deg)
		}
	}
}

func TestRadians_KnownValues(t *testing.T) {
	if got := Radians(180); math.Abs(got-math.Pi) > epsilon {
		t.Errorf("Radians(180) = %v, want pi", got)
	}
	if got := Radians(90); math.Abs(got-math.Pi/2) > epsilon {
		t.Errorf("Radians(90) = %v, want pi/2", got)
	}
}

func TestConstrain_Float(t *testing.T) {
	cases := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"below", -0.5, 0, 1, 0},
		{"inside", 0.3, 0, 1, 0.3},
		{"above", 1.7, 0, 1, 1},
		{"at_low", 0, 0, 1, 0},
		{"at_high", 1, 0, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Constrain(tc.v, tc.lo, tc.hi); got != tc.want {
				t.Errorf("Constrain(%v, %v, %v) = %v, want %v", tc.v, tc.lo, tc.hi, got, tc.want)
			}
		})
	}
}

func TestConstrain_Int(t *testing.T) {
	if got := Constrain(5000, -4500, 4500); got != 4500 {
		t.Errorf("Constrain(5000, -4500, 4500) = %d, want 4500", got)
	}
	if got := Constrain(-5000, -4500, 4500); got != -4500 {
		t.Errorf("Constrain(-5000, -4500, 4500) = %d, want -4500", got)
	}
}

func TestMapRange_Midpoint(t *testing.T) {
	got := MapRange(5.0, 0, 10, 0, 100)
	if math.Abs(got-50) > epsilon {
		t.Errorf("MapRange(5, 0..10 -> 0..100) = %v, want 50", got)
	}
}

func TestMapRange_Extrapolates(t *testing.T) {
	// MapRange does not clamp: inputs past the source range extrapolate.
	got := MapRange(15.0, 0, 10, 0, 100)
	if math.Abs(got-150) > epsilon {
		t.Errorf("MapRange(15, 0..10 -> 0..100) = %v, want 150", got)
	}
}

func TestMapRange_Inverted(t *testing.T) {
	got := MapRange(0.25, 0, 1, 1000, 2000)
	if math.Abs(got-1250) > epsilon {
		t.Errorf("MapRange(0.25, 0..1 -> 1000..2000) = %v, want 1250", got)
	}
}

func TestWrapCD(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{18000, 18000},
		{36000, 0},
		{36500, 500},
		{-100, 35900},
		{72100, 100},
	}
	for _, tc := range cases {
		if got := WrapCD(tc.in); math.Abs(got-tc.want) > epsilon {
			t.Errorf("WrapCD(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// Reference: 45 deg bank at 20 m/s
// rate = 9.80665 * tan(45 deg) / 20 = 0.4903 rad/s ~ 28.09 deg/s
func TestTurnRateDPS_Bank45_20ms(t *testing.T) {
	got := TurnRateDPS(45, 20)
	want := Degrees(9.80665 / 20.0)
	if math.Abs(got-want) > epsilon {
		t.Errorf("TurnRateDPS(45, 20) = %v, want ~%v", got, want)
	}
}

func TestTurnRateDPS_ZeroBank(t *testing.T) {
	if got := TurnRateDPS(0, 20); math.Abs(got) > epsilon {
		t.Errorf("TurnRateDPS(0, 20) = %v, want 0", got)
	}
}

func TestTurnRateDPS_LeftTurnNegative(t *testing.T) {
	if got := TurnRateDPS(-30, 15); got >= 0 {
		t.Errorf("TurnRateDPS(-30, 15) = %v, want < 0", got)
	}
}

func TestTurnRateDPS_SlowerSpeedTurnsFaster(t *testing.T) {
	slow := TurnRateDPS(30, 10)
	fast := TurnRateDPS(30, 30)
	if slow <= fast {
		t.Errorf("turn rate at 10 m/s (%v) should exceed rate at 30 m/s (%v)", slow, fast)
	}
}

func TestTurnRateDPS_ZeroAirspeed(t *testing.T) {
	if got := TurnRateDPS(45, 0); got != 0 {
		t.Errorf("TurnRateDPS(45, 0) = %v, want 0", got)
	}
}
