package bench

import (
	"fmt"
	"os"
	"time"

	"github.com/nCk9/ardupilot/internal/logic/tilt"
	"gopkg.in/yaml.v3"
)

// Step is one phase of a bench profile. The rig holds the described
// state for the duration, ticking the controller at the loop rate.
type Step struct {
	Name        string  `yaml:"name"`
	DurationMs  int     `yaml:"duration_ms"`
	Armed       bool    `yaml:"armed"`
	Mode        string  `yaml:"mode"`         // flight mode name, e.g. QHOVER
	Assisted    bool    `yaml:"assisted"`     // rotors assisting fixed-wing flight
	ThrottlePct float64 `yaml:"throttle_pct"` // forward throttle servo, percent
	Rudder      float64 `yaml:"rudder"`       // pilot rudder, -1..1
	Transition  string  `yaml:"transition"`   // optional phase: airspeed_wait|timer|done
}

// Profile is a named list of steps.
type Profile struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Duration returns the step length.
func (s *Step) Duration() time.Duration {
	return time.Duration(s.DurationMs) * time.Millisecond
}

// ParseTransition maps a profile phase name to a TransitionState.
func ParseTransition(s string) (tilt.TransitionState, error) {
	switch s {
	case "airspeed_wait":
		return tilt.TransitionAirspeedWait, nil
	case "timer":
		return tilt.TransitionTimer, nil
	case "done":
		return tilt.TransitionDone, nil
	}
	return tilt.TransitionAirspeedWait, fmt.Errorf("unknown transition phase %q", s)
}

// LoadProfile reads a YAML profile file and validates its steps.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}

	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("profile %q has no steps", p.Name)
	}
	for i := range p.Steps {
		step := &p.Steps[i]
		if step.DurationMs <= 0 {
			return nil, fmt.Errorf("step %d (%s): duration_ms must be > 0", i, step.Name)
		}
		if step.Mode == "" {
			step.Mode = "MANUAL"
		}
		if _, err := tilt.ParseMode(step.Mode); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
		}
		if step.Transition != "" {
			if _, err := ParseTransition(step.Transition); err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
			}
		}
		if step.ThrottlePct < 0 || step.ThrottlePct > 100 {
			return nil, fmt.Errorf("step %d (%s): throttle_pct must be 0..100, got %.1f", i, step.Name, step.ThrottlePct)
		}
		if step.Rudder < -1 || step.Rudder > 1 {
			return nil, fmt.Errorf("step %d (%s): rudder must be -1..1, got %.2f", i, step.Name, step.Rudder)
		}
	}

	return &p, nil
}
