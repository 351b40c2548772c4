package debug

import (
	"fmt"
	"log"
	"os"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (setup, phase changes)
	LevelLive    = 2 // Live info (tilt/throttle per interval)
	LevelVerbose = 3 // Verbose (mixer math, slew details)
	LevelTrace   = 4 // Trace (servo pulses, GPIO, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (setup summary, arming, transition phases)
// 2 = live info (tilt angle, throttle, mode changes)
// 3 = verbose (slew limits, compensation factors, vector angles)
// 4 = trace (servo pulse widths, GPIO, very low level)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[quadtilt] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Summary prints an important summary (level 1).
func Summary(title string) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("═══════════════════════════════════════")
		logger.Printf("  %s", title)
		logger.Printf("═══════════════════════════════════════")
	}
}

// Step prints a numbered initialization step (level 1).
func Step(number int, description string) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[STEP %d] %s", number, description)
	}
}

// Phase prints a transition phase change (level 1).
func Phase(from, to string) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] Transition: %s -> %s", from, to)
	}
}

// Arming prints an arming state change (level 1).
func Arming(armed bool, atMS uint32) {
	if level >= LevelInfo && logger != nil {
		state := "DISARMED"
		if armed {
			state = "ARMED"
		}
		logger.Printf("[INFO] %s at t=%dms", state, atMS)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Tilt prints the current tilt and throttle state (level 2).
func Tilt(tilt, throttle float64, active bool) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] tilt=%.3f throttle=%.3f motors_active=%v", tilt, throttle, active)
	}
}

// Mode prints a flight mode change (level 2).
func Mode(name string, vtol bool) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Mode %s (vtol=%v)", name, vtol)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Print prints a level 3 message (alias for Verbose).
func Print(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Printf is an alias for Print for compatibility.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// Println prints a level 3 message followed by a newline.
func Println(args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Println(args...)
	}
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] %s: %+v", name, v)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace, GPIO).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// Servo prints a servo channel write (level 4).
func Servo(channel string, scaled float64, pulseUS uint32) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[SERVO] %s scaled=%.1f pulse=%dus", channel, scaled, pulseUS)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[GPIO] %s pin=%d value=%v", operation, pin, value)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}

// Fmt is a helper function that returns a formatted string
// only if debug is enabled (to avoid unnecessary allocations).
func Fmt(format string, args ...interface{}) string {
	if level > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
