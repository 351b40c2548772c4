package config

import (
	"fmt"
	"os"
	"time"

	"github.com/nCk9/ardupilot/internal/logic/tilt"
	"gopkg.in/yaml.v3"
)

// TiltConfig holds the tilt mechanism parameters.
// Enable is a pointer so an omitted key can be told apart from an
// explicit 0: when omitted, tilt is enabled automatically if a motor
// mask is set or the type is bicopter.
type TiltConfig struct {
	Enable      *int    `yaml:"enable,omitempty"` // 0/1; omitted = automatic
	Mask        uint16  `yaml:"mask"`             // bitmask of tiltable motors
	RateUpDPS   float64 `yaml:"rate_up_dps"`      // tilt-up rate, deg/s (10-300)
	RateDnDPS   float64 `yaml:"rate_dn_dps"`      // tilt-down rate, deg/s (0 = use rate_up)
	MaxAngleDeg float64 `yaml:"max_angle_deg"`    // max tilt in VTOL assistance (20-80)
	Type        string  `yaml:"type"`             // continuous|binary|vectored_yaw|bicopter
	YawAngleDeg float64 `yaml:"yaw_angle_deg"`    // vectoring yaw range, deg (0-30)
	FixAngleDeg float64 `yaml:"fix_angle_deg"`    // fixed forward tilt, deg (0-30)
	FixGain     float64 `yaml:"fix_gain"`         // fixed-angle vectoring gain (0-1)
}

// FlightConfig holds the surrounding flight parameters the tilt
// controller consumes.
type FlightConfig struct {
	ThrottleMinPct float64 `yaml:"throttle_min_pct"` // forward throttle minimum, % (-100..100)
	AirspeedMinMS  float64 `yaml:"airspeed_min_ms"`  // minimum flying airspeed, m/s
	LoopRateHz     int     `yaml:"loop_rate_hz"`     // control loop rate
	DisarmedTilt   bool    `yaml:"disarmed_tilt"`    // allow tilt servo test while disarmed
}

// ServoPinsConfig maps output channels to BCM pins for the bench rig.
// A zero pin means the channel is not wired to hardware.
type ServoPinsConfig struct {
	Throttle      int `yaml:"throttle"`
	MotorTilt     int `yaml:"motor_tilt"`
	TiltLeft      int `yaml:"tilt_left"`
	TiltRight     int `yaml:"tilt_right"`
	TiltRear      int `yaml:"tilt_rear"`
	TiltRearLeft  int `yaml:"tilt_rear_left"`
	TiltRearRight int `yaml:"tilt_rear_right"`
}

// ArmingConfig describes the optional physical arming switch.
type ArmingConfig struct {
	SwitchPin  int `yaml:"switch_pin"`  // GPIO pin of the arm switch, 0 = none
	DebounceMs int `yaml:"debounce_ms"` // debounce window (ms)
}

// DefaultsConfig contains generic parameters (debug, GPIO backend).
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// Config aggregates all application configuration.
type Config struct {
	Tilt     TiltConfig      `yaml:"tilt"`
	Flight   FlightConfig    `yaml:"flight"`
	Servos   ServoPinsConfig `yaml:"servos"`
	Arming   ArmingConfig    `yaml:"arming"`
	Defaults DefaultsConfig  `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Tilt parameter defaults, then range checks
	if cfg.Tilt.RateUpDPS == 0 {
		cfg.Tilt.RateUpDPS = 40
	}
	if cfg.Tilt.RateUpDPS < 10 || cfg.Tilt.RateUpDPS > 300 {
		return nil, fmt.Errorf("tilt.rate_up_dps must be between 10 and 300, got %.1f", cfg.Tilt.RateUpDPS)
	}
	if cfg.Tilt.RateDnDPS < 0 || cfg.Tilt.RateDnDPS > 300 {
		return nil, fmt.Errorf("tilt.rate_dn_dps must be between 0 and 300, got %.1f", cfg.Tilt.RateDnDPS)
	}
	if cfg.Tilt.MaxAngleDeg == 0 {
		cfg.Tilt.MaxAngleDeg = 45
	}
	if cfg.Tilt.MaxAngleDeg < 20 || cfg.Tilt.MaxAngleDeg > 80 {
		return nil, fmt.Errorf("tilt.max_angle_deg must be between 20 and 80, got %.1f", cfg.Tilt.MaxAngleDeg)
	}
	if cfg.Tilt.Type == "" {
		cfg.Tilt.Type = "continuous"
	}
	if _, err := tilt.ParseType(cfg.Tilt.Type); err != nil {
		return nil, fmt.Errorf("tilt.type: %w", err)
	}
	if cfg.Tilt.YawAngleDeg < 0 || cfg.Tilt.YawAngleDeg > 30 {
		return nil, fmt.Errorf("tilt.yaw_angle_deg must be between 0 and 30, got %.1f", cfg.Tilt.YawAngleDeg)
	}
	if cfg.Tilt.FixAngleDeg < 0 || cfg.Tilt.FixAngleDeg > 30 {
		return nil, fmt.Errorf("tilt.fix_angle_deg must be between 0 and 30, got %.1f", cfg.Tilt.FixAngleDeg)
	}
	if cfg.Tilt.FixGain < 0 || cfg.Tilt.FixGain > 1 {
		return nil, fmt.Errorf("tilt.fix_gain must be between 0 and 1, got %.2f", cfg.Tilt.FixGain)
	}

	// Flight parameter defaults
	if cfg.Flight.ThrottleMinPct < -100 || cfg.Flight.ThrottleMinPct > 100 {
		return nil, fmt.Errorf("flight.throttle_min_pct must be between -100 and 100, got %.1f", cfg.Flight.ThrottleMinPct)
	}
	if cfg.Flight.AirspeedMinMS == 0 {
		cfg.Flight.AirspeedMinMS = 9
	}
	if cfg.Flight.AirspeedMinMS < 1 || cfg.Flight.AirspeedMinMS > 100 {
		return nil, fmt.Errorf("flight.airspeed_min_ms must be between 1 and 100, got %.1f", cfg.Flight.AirspeedMinMS)
	}
	if cfg.Flight.LoopRateHz == 0 {
		cfg.Flight.LoopRateHz = 300
	}
	if cfg.Flight.LoopRateHz < 50 || cfg.Flight.LoopRateHz > 2000 {
		return nil, fmt.Errorf("flight.loop_rate_hz must be between 50 and 2000, got %d", cfg.Flight.LoopRateHz)
	}

	// Arming defaults
	if cfg.Arming.DebounceMs <= 0 {
		cfg.Arming.DebounceMs = 50
	}

	return &cfg, nil
}

// TiltEnabled reports whether the tilt mechanism is active.
// An explicit enable value wins; when the key is omitted, tilt is
// enabled automatically if a motor mask is set or the type is bicopter.
func (c *Config) TiltEnabled() bool {
	if c.Tilt.Enable != nil {
		return *c.Tilt.Enable != 0
	}
	return c.Tilt.Mask != 0 || c.TiltType() == tilt.TypeBicopter
}

// AutoEnabled reports whether TiltEnabled came from the automatic rule
// rather than an explicit enable key.
func (c *Config) AutoEnabled() bool {
	return c.Tilt.Enable == nil && c.TiltEnabled()
}

// TiltType returns the parsed tilt mechanism type.
// Load has already rejected unknown names.
func (c *Config) TiltType() tilt.Type {
	t, _ := tilt.ParseType(c.Tilt.Type)
	return t
}

// TiltParams assembles the controller configuration from the file values.
func (c *Config) TiltParams() tilt.Config {
	return tilt.Config{
		Enabled:        c.TiltEnabled(),
		Mask:           c.Tilt.Mask,
		MaxRateUpDPS:   c.Tilt.RateUpDPS,
		MaxRateDownDPS: c.Tilt.RateDnDPS,
		MaxAngleDeg:    c.Tilt.MaxAngleDeg,
		Type:           c.TiltType(),
		YawAngleDeg:    c.Tilt.YawAngleDeg,
		FixedAngleDeg:  c.Tilt.FixAngleDeg,
		FixedGain:      c.Tilt.FixGain,
	}
}

// LoopPeriod returns the duration of one control tick.
func (c *Config) LoopPeriod() time.Duration {
	return time.Second / time.Duration(c.Flight.LoopRateHz)
}

// LoopDT returns the duration of one control tick in seconds.
func (c *Config) LoopDT() float64 {
	return 1.0 / float64(c.Flight.LoopRateHz)
}

// DebounceDelay returns the arming switch debounce window.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Arming.DebounceMs) * time.Millisecond
}
