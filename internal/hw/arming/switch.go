package arming

import (
	"time"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/hw/gpio"
)

// Switch reads a physical arm/disarm toggle through a GPIO pin.
// The line is HIGH when armed, LOW when disarmed (switch to ground
// with a pull-up). Raw reads are debounced: a change must hold for
// the debounce window before it takes effect.
type Switch struct {
	gpio       gpio.Driver
	pin        int
	debounceMS uint32

	armed        bool
	lastChangeMS uint32

	pending      bool
	pendingArmed bool
	pendingMS    uint32
}

// NewSwitch creates an arming switch on the given pin.
func NewSwitch(g gpio.Driver, pin int, debounce time.Duration) *Switch {
	_ = g.SetupPin(pin, gpio.Input)

	return &Switch{
		gpio:       g,
		pin:        pin,
		debounceMS: uint32(debounce.Milliseconds()),
	}
}

// Poll samples the switch line and updates the debounced state.
// nowMS is the caller's millisecond clock.
func (s *Switch) Poll(nowMS uint32) error {
	level, err := s.gpio.ReadPin(s.pin)
	if err != nil {
		return err
	}
	raw := level == gpio.High

	if raw == s.armed {
		s.pending = false
		return nil
	}

	if !s.pending || s.pendingArmed != raw {
		s.pending = true
		s.pendingArmed = raw
		s.pendingMS = nowMS
		return nil
	}

	if nowMS-s.pendingMS >= s.debounceMS {
		s.armed = raw
		s.lastChangeMS = nowMS
		s.pending = false
		debug.Arming(s.armed, nowMS)
	}
	return nil
}

// Armed returns the debounced switch state.
func (s *Switch) Armed() bool {
	return s.armed
}

// LastChangeMS returns the clock value of the last debounced state
// change. Zero until the first change.
func (s *Switch) LastChangeMS() uint32 {
	return s.lastChangeMS
}
