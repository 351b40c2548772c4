package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nCk9/ardupilot/internal/config"
	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/hw/arming"
	"github.com/nCk9/ardupilot/internal/hw/gpio"
	"github.com/nCk9/ardupilot/internal/hw/servo"
	"github.com/nCk9/ardupilot/internal/logic/bench"
	"github.com/nCk9/ardupilot/internal/logic/mixer"
	"github.com/nCk9/ardupilot/internal/logic/tilt"
)

func main() {
	// CLI flags
	mock := &mockFlag{}
	flag.Var(mock, "mock", "override GPIO backend; -mock= or -mock true for mock, -mock false for Raspberry Pi")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	profilePath := flag.String("profile", filepath.Join("profiles", "transition.yaml"), "path to bench profile")
	rateUp := flag.Float64("rate_up_dps", 0, "override tilt-up rate in deg/s (10-300)")
	maxAngle := flag.Float64("max_angle_deg", 0, "override max tilt angle in degrees (20-80)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (only non-zero values are applied; zero means "use config default")
	if err := validateOverrides(*rateUp, *maxAngle); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, *rateUp, *maxAngle)
	if mock.isSet() {
		cfg.Defaults.MockGPIO = mock.value()
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Profile path", *profilePath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)

	// Initialize GPIO driver
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Claim the wired output pins
	debug.Step(2, "Preparing servo outputs")
	pins := pinsFromConfig(cfg)
	for ch, pin := range pins {
		if pin <= 0 {
			continue
		}
		if err := gpioDriver.SetupPin(pin, gpio.Servo); err != nil {
			log.Fatalf("setup servo pin %d (%s) failed: %v", pin, ch, err)
		}
	}
	debug.PrintStruct("Servo pins", cfg.Servos)

	debug.Step(3, "Creating tilt controller")
	rig, err := buildRig(cfg, gpioDriver, pins)
	if err != nil {
		log.Fatalf("tilt setup failed: %v", err)
	}
	debug.Value("Tilt type", cfg.Tilt.Type)
	debug.Value("Tilt mask", fmt.Sprintf("%#x", cfg.Tilt.Mask))
	debug.Value("Auto-enabled", cfg.AutoEnabled())
	if rig.Switch != nil {
		debug.Value("Arming switch pin", cfg.Arming.SwitchPin)
	}

	debug.Step(4, "Loading bench profile")
	profile, err := bench.LoadProfile(*profilePath)
	if err != nil {
		log.Fatalf("load profile failed: %v", err)
	}
	debug.Value("Profile", profile.Name)
	debug.Value("Steps", len(profile.Steps))

	debug.Step(5, "Running profile")
	runner := bench.NewRunner(rig, cfg.LoopPeriod())
	if err := runner.Run(ctx, profile); err != nil {
		log.Fatalf("bench run failed: %v", err)
	}

	debug.Section("Profile Complete")
}

// buildRig assembles the controller and its collaborators from the
// configuration. The arming switch is attached only when a pin is set.
func buildRig(cfg *config.Config, driver gpio.Driver, pins map[servo.Channel]int) (*bench.Rig, error) {
	outputs := servo.NewOutputs()
	motors := mixer.NewQuad(outputs)

	state := bench.NewState()
	state.ThrMinPct = cfg.Flight.ThrottleMinPct
	state.DisarmTilt = cfg.Flight.DisarmedTilt

	clock := &bench.Clock{}
	heading := &bench.Heading{MinAirspeedMS: cfg.Flight.AirspeedMinMS}

	ctl := tilt.New(cfg.TiltParams(), tilt.Deps{
		Motors: motors,
		Servos: outputs,
		Nav:    heading,
		Clock:  clock,
		VTOL:   bench.VTOLStage{Motors: motors},
	})
	if err := ctl.Setup(); err != nil {
		return nil, err
	}

	rig := &bench.Rig{
		Tilt:   ctl,
		Motors: motors,
		Servos: outputs,
		State:  state,
		Clock:  clock,
		Driver: driver,
		Pins:   pins,
	}
	if cfg.Arming.SwitchPin > 0 {
		rig.Switch = arming.NewSwitch(driver, cfg.Arming.SwitchPin, cfg.DebounceDelay())
	}
	return rig, nil
}

// pinsFromConfig maps output channels to the configured BCM pins.
// Unset channels map to zero and are skipped at flush time.
func pinsFromConfig(cfg *config.Config) map[servo.Channel]int {
	return map[servo.Channel]int{
		servo.Throttle:      cfg.Servos.Throttle,
		servo.MotorTilt:     cfg.Servos.MotorTilt,
		servo.TiltLeft:      cfg.Servos.TiltLeft,
		servo.TiltRight:     cfg.Servos.TiltRight,
		servo.TiltRear:      cfg.Servos.TiltRear,
		servo.TiltRearLeft:  cfg.Servos.TiltRearLeft,
		servo.TiltRearRight: cfg.Servos.TiltRearRight,
	}
}

// validateOverrides checks that non-zero CLI overrides are within valid ranges.
// Zero values are ignored (they mean "use config default").
func validateOverrides(rateUp, maxAngle float64) error {
	if rateUp != 0 {
		if math.IsNaN(rateUp) || math.IsInf(rateUp, 0) || rateUp < 10 || rateUp > 300 {
			return fmt.Errorf("rate_up_dps must be between 10 and 300, got %g", rateUp)
		}
	}
	if maxAngle != 0 {
		if math.IsNaN(maxAngle) || math.IsInf(maxAngle, 0) || maxAngle < 20 || maxAngle > 80 {
			return fmt.Errorf("max_angle_deg must be between 20 and 80, got %g", maxAngle)
		}
	}
	return nil
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, rateUp, maxAngle float64) {
	if rateUp > 0 {
		cfg.Tilt.RateUpDPS = rateUp
	}
	if maxAngle > 0 {
		cfg.Tilt.MaxAngleDeg = maxAngle
	}
}

// mockFlag implements flag.Value for -mock: unset = use config,
// -mock= or -mock true = mock GPIO, -mock false = real GPIO.
type mockFlag struct {
	set bool
	val bool
}

func (m *mockFlag) String() string {
	if !m.set {
		return ""
	}
	return strconv.FormatBool(m.val)
}

func (m *mockFlag) Set(s string) error {
	if s == "" {
		m.set = true
		m.val = true
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("mock must be true or false, got %q", s)
	}
	m.set = true
	m.val = v
	return nil
}

// IsBoolFlag lets -mock stand alone without a value.
func (m *mockFlag) IsBoolFlag() bool { return true }

func (m *mockFlag) isSet() bool { return m.set }
func (m *mockFlag) value() bool { return m.val }
