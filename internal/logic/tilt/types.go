package tilt

import "fmt"

// Type selects the tilt mechanism behavior.
type Type int

const (
	// TypeContinuous tilts the rotors to any angle on demand.
	TypeContinuous Type = iota
	// TypeBinary assumes a retract style servo that is either fully
	// forward or fully up.
	TypeBinary
	// TypeVectoredYaw uses the tilt of the motors to control yaw in hover.
	TypeVectoredYaw
	// TypeBicopter drives left/right tilt servos directly from the
	// multicopter outputs.
	TypeBicopter
)

var typeNames = map[Type]string{
	TypeContinuous:  "continuous",
	TypeBinary:      "binary",
	TypeVectoredYaw: "vectored_yaw",
	TypeBicopter:    "bicopter",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// ParseType converts a configuration name to a Type.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if s == name {
			return t, nil
		}
	}
	return TypeContinuous, fmt.Errorf("unknown tilt type %q", s)
}

// Mode identifies the flight mode for the checks the controller makes.
// Only identity matters here; mode behavior lives with the caller.
type Mode int

const (
	ModeManual Mode = iota
	ModeFBWA
	ModeCruise
	ModeAuto
	ModeQStabilize
	ModeQHover
	ModeQLoiter
	ModeQAcro
	ModeQAutotune
)

var modeNames = map[Mode]string{
	ModeManual:     "MANUAL",
	ModeFBWA:       "FBWA",
	ModeCruise:     "CRUISE",
	ModeAuto:       "AUTO",
	ModeQStabilize: "QSTABILIZE",
	ModeQHover:     "QHOVER",
	ModeQLoiter:    "QLOITER",
	ModeQAcro:      "QACRO",
	ModeQAutotune:  "QAUTOTUNE",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if s == name {
			return m, nil
		}
	}
	return ModeManual, fmt.Errorf("unknown flight mode %q", s)
}

// IsVTOL reports whether m is one of the VTOL modes. Callers that
// model assistance or transitions separately should use their own
// in-VTOL notion; this is the plain mode classification.
func (m Mode) IsVTOL() bool {
	switch m {
	case ModeQStabilize, ModeQHover, ModeQLoiter, ModeQAcro, ModeQAutotune:
		return true
	}
	return false
}
