package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/nCk9/ardupilot/internal/debug"
	"github.com/nCk9/ardupilot/internal/logic/tilt"
	"github.com/nCk9/ardupilot/internal/sim"
)

func main() {
	app := cli.NewApp()
	app.Name = "tiltsim"
	app.Usage = "fly a scripted quadplane transition against the tilt controller"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "type",
			Value: "vectored_yaw",
			Usage: "tilt mechanism type (continuous|binary|vectored_yaw|bicopter)",
		},
		cli.IntFlag{
			Name:  "mask",
			Value: 0xF,
			Usage: "bitmask of tiltable motors",
		},
		cli.Float64Flag{
			Name:  "rate_up_dps",
			Value: 40,
			Usage: "tilt rate toward hover, deg/s",
		},
		cli.Float64Flag{
			Name:  "rate_dn_dps",
			Value: 0,
			Usage: "tilt rate toward forward flight, deg/s (0 = use rate_up_dps)",
		},
		cli.Float64Flag{
			Name:  "max_angle_deg",
			Value: 45,
			Usage: "max tilt angle with multicopter control, deg",
		},
		cli.Float64Flag{
			Name:  "yaw_angle_deg",
			Value: 10,
			Usage: "vectored yaw tilt range, deg (0 disables vectoring)",
		},
		cli.Float64Flag{
			Name:  "fix_angle_deg",
			Value: 0,
			Usage: "fixed forward tilt in cruise, deg",
		},
		cli.Float64Flag{
			Name:  "fix_gain",
			Value: 0,
			Usage: "fixed-angle vectoring gain (0-1)",
		},
		cli.Float64Flag{
			Name:  "cruise_speed_ms",
			Value: 18,
			Usage: "airspeed held in forward flight, m/s",
		},
		cli.Float64Flag{
			Name:  "heading_change_deg",
			Value: 90,
			Usage: "turn flown during cruise, deg",
		},
		cli.StringFlag{
			Name:  "plot",
			Usage: "write PNG plots of the run into this directory",
		},
		cli.IntFlag{
			Name:  "debug",
			Value: 1,
			Usage: "debug level 0-4",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	debug.Init(c.GlobalInt("debug"))

	typ, err := tilt.ParseType(c.GlobalString("type"))
	if err != nil {
		return err
	}
	cfg := tilt.Config{
		Enabled:        true,
		Mask:           uint16(c.GlobalInt("mask")),
		MaxRateUpDPS:   c.GlobalFloat64("rate_up_dps"),
		MaxRateDownDPS: c.GlobalFloat64("rate_dn_dps"),
		MaxAngleDeg:    c.GlobalFloat64("max_angle_deg"),
		Type:           typ,
		YawAngleDeg:    c.GlobalFloat64("yaw_angle_deg"),
		FixedAngleDeg:  c.GlobalFloat64("fix_angle_deg"),
		FixedGain:      c.GlobalFloat64("fix_gain"),
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	params := sim.DefaultParams()
	params.CruiseSpeedMS = c.GlobalFloat64("cruise_speed_ms")
	params.HeadingChangeDeg = c.GlobalFloat64("heading_change_deg")

	flight, err := sim.New(params, cfg)
	if err != nil {
		return err
	}
	for !flight.Done() {
		flight.Step()
	}

	samples := flight.Samples()
	printTimeline(samples)

	if dir := c.GlobalString("plot"); dir != "" {
		if err := savePlots(dir, samples); err != nil {
			return err
		}
		fmt.Printf("plots written to %s\n", dir)
	}
	return nil
}

// validateConfig range-checks the mechanism flags the same way the
// config loader does.
func validateConfig(cfg tilt.Config) error {
	if cfg.MaxRateUpDPS < 10 || cfg.MaxRateUpDPS > 300 {
		return fmt.Errorf("rate_up_dps must be between 10 and 300, got %g", cfg.MaxRateUpDPS)
	}
	if cfg.MaxRateDownDPS < 0 || cfg.MaxRateDownDPS > 300 {
		return fmt.Errorf("rate_dn_dps must be between 0 and 300, got %g", cfg.MaxRateDownDPS)
	}
	if cfg.MaxAngleDeg < 20 || cfg.MaxAngleDeg > 80 {
		return fmt.Errorf("max_angle_deg must be between 20 and 80, got %g", cfg.MaxAngleDeg)
	}
	if cfg.YawAngleDeg < 0 || cfg.YawAngleDeg > 30 {
		return fmt.Errorf("yaw_angle_deg must be between 0 and 30, got %g", cfg.YawAngleDeg)
	}
	if cfg.FixedAngleDeg < 0 || cfg.FixedAngleDeg > 30 {
		return fmt.Errorf("fix_angle_deg must be between 0 and 30, got %g", cfg.FixedAngleDeg)
	}
	if cfg.FixedGain < 0 || cfg.FixedGain > 1 {
		return fmt.Errorf("fix_gain must be between 0 and 1, got %g", cfg.FixedGain)
	}
	return nil
}

// printTimeline prints a state line twice per second of simulated
// time, plus a marker at every phase change.
func printTimeline(samples []sim.Sample) {
	lastPhase := ""
	nextPrint := 0.0
	for _, s := range samples {
		if s.Phase != lastPhase {
			fmt.Printf("--- %s at t=%.2fs ---\n", s.Phase, s.TimeS)
			lastPhase = s.Phase
		}
		if s.TimeS >= nextPrint {
			fmt.Printf("t=%6.2fs  tilt=%.2f  thr=%5.1f%%  aspd=%5.1f m/s  hdg=%6.1f  bank=%5.1f\n",
				s.TimeS, s.Tilt, s.ThrottlePct, s.AirspeedMS, s.HeadingDeg, s.BankDeg)
			nextPrint += 0.5
		}
	}
	if n := len(samples); n > 0 {
		last := samples[n-1]
		fmt.Printf("flight complete after %.2fs (%d steps)\n", last.TimeS, n)
	}
}

// savePlots writes one PNG per recorded series.
func savePlots(dir string, samples []sim.Sample) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create plot directory: %w", err)
	}

	times := make([]float64, len(samples))
	tilts := make([]float64, len(samples))
	speeds := make([]float64, len(samples))
	throttles := make([]float64, len(samples))
	headings := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.TimeS
		tilts[i] = s.Tilt
		speeds[i] = s.AirspeedMS
		throttles[i] = s.ThrottlePct
		headings[i] = s.HeadingDeg
	}

	plots := []struct {
		file, title, ylabel string
		ys                  []float64
	}{
		{"tilt.png", "Rotor Tilt", "tilt (0=up, 1=forward)", tilts},
		{"airspeed.png", "Airspeed", "airspeed (m/s)", speeds},
		{"throttle.png", "Forward Throttle", "throttle (%)", throttles},
		{"heading.png", "Heading", "heading (deg)", headings},
	}
	for _, pl := range plots {
		if err := saveLinePlot(filepath.Join(dir, pl.file), pl.title, "time (s)", pl.ylabel, times, pl.ys); err != nil {
			return err
		}
	}
	return nil
}

func saveLinePlot(path, title, xlabel, ylabel string, xs, ys []float64) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("plot data invalid")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
