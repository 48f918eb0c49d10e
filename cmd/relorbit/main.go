package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/m-weigel/relorbit/internal/analysis"
	"github.com/m-weigel/relorbit/internal/config"
	"github.com/m-weigel/relorbit/internal/geodesic"
	"github.com/m-weigel/relorbit/internal/integrators"
	"github.com/m-weigel/relorbit/internal/metric"
	"github.com/m-weigel/relorbit/internal/metrics"
	"github.com/m-weigel/relorbit/internal/sim"
	"github.com/m-weigel/relorbit/internal/spacetime"
	"github.com/m-weigel/relorbit/internal/storage"
	"github.com/m-weigel/relorbit/internal/trajectory"
	"github.com/m-weigel/relorbit/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt         float64
	properTime float64
	integName  string
	adaptive   bool
	tolerance  float64

	mass   float64
	radius float64
	vr     float64
	vphi   float64

	circular bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relorbit",
		Short: "test-particle trajectories in Schwarzschild spacetime",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".relorbit", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a trajectory and store the result",
		RunE:  runTrajectory,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "integrate a trajectory with live visualization",
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "measure the perihelion precession of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset (see 'relorbit presets')")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "proper-time step")
	cmd.Flags().Float64Var(&properTime, "time", config.DefaultMaxProperTime, "proper-time limit")
	cmd.Flags().StringVar(&integName, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step control (rk45 only)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "adaptive error tolerance")
	cmd.Flags().Float64Var(&mass, "mass", 1, "central mass (geometrized)")
	cmd.Flags().Float64Var(&radius, "r", 10, "initial radius")
	cmd.Flags().Float64Var(&vr, "vr", 0, "initial radial velocity dr/dtau")
	cmd.Flags().Float64Var(&vphi, "vphi", 0, "initial azimuthal velocity dphi/dtau")
	cmd.Flags().BoolVar(&circular, "circular", false, "start on the circular orbit at --r")
}

// resolveConfig merges preset, config file and explicit flags, in that
// order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, names)
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.MaxProperTime = properTime
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integName
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("mass") {
		cfg.Units = "geometrized"
		cfg.Mass = mass
	}
	if cmd.Flags().Changed("r") {
		cfg.InitState.R = radius
	}
	if cmd.Flags().Changed("vr") {
		cfg.InitState.VR = vr
	}
	if cmd.Flags().Changed("vphi") {
		cfg.InitState.VPhi = vphi
	}
	if cmd.Flags().Changed("circular") {
		cfg.InitState.Circular = circular
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type setup struct {
	cfg    *config.Config
	metric *metric.Schwarzschild
	integ  spacetime.Integrator
	x0     spacetime.State
	simCfg sim.Config
}

func buildSetup(cmd *cobra.Command) (*setup, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	consts, err := cfg.Constants()
	if err != nil {
		return nil, err
	}
	m, err := cfg.ResolvedMass()
	if err != nil {
		return nil, err
	}
	schw, err := metric.NewSchwarzschild(m, consts)
	if err != nil {
		return nil, err
	}

	var integ spacetime.Integrator
	switch cfg.Integrator {
	case "euler":
		integ = integrators.NewEuler()
	case "rk4":
		integ = integrators.NewRK4()
	case "rk45":
		integ = integrators.NewRK45()
	}

	var x0 spacetime.State
	if cfg.InitState.Circular {
		x0, err = geodesic.CircularOrbit(schw, cfg.InitState.R)
	} else {
		is := cfg.InitState
		x0, err = geodesic.TimelikeState(schw, is.R, is.Theta, is.Phi, is.VR, is.VTheta, is.VPhi)
	}
	if err != nil {
		return nil, err
	}

	minR := cfg.MinRadius
	if minR <= schw.Rs() {
		minR = schw.Rs() * 1.05
	}

	return &setup{
		cfg:    cfg,
		metric: schw,
		integ:  integ,
		x0:     x0,
		simCfg: sim.Config{
			Dt:             cfg.Dt,
			MaxProperTime:  cfg.MaxProperTime,
			MinRadius:      minR,
			MaxRadius:      cfg.MaxRadius,
			Adaptive:       cfg.Adaptive,
			Tolerance:      cfg.Tolerance,
			MinDt:          cfg.MinDt,
			MaxDt:          cfg.MaxDt,
			DriftTolerance: cfg.DriftTolerance,
			DriftCeiling:   cfg.DriftCeiling,
		},
	}, nil
}

func defaultMetrics(schw *metric.Schwarzschild) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewMaxDrift(),
		metrics.NewRMin(),
		metrics.NewRMax(),
		metrics.NewEnergyDrift(schw),
		metrics.NewAngularMomentumDrift(),
	}
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	s, err := buildSetup(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	simulator := sim.New(s.metric, s.integ)
	mets := defaultMetrics(s.metric)
	for _, m := range mets {
		simulator.AddObserver(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("integrating trajectory...")
	start := time.Now()

	rec, status, runErr := simulator.Run(ctx, s.x0, s.simCfg)
	elapsed := time.Since(start)

	if rec == nil {
		return runErr
	}

	runID, err := st.Save(buildMetadata(s, status, mets), rec)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("status: %s\n", status)
	fmt.Printf("samples: %d\n", rec.Len())
	if n := rec.Warnings(); n > 0 {
		fmt.Printf("drift warnings: %d\n", n)
	}
	fmt.Println("\nmetrics:")
	for _, m := range mets {
		fmt.Printf("  %s: %.6g\n", m.Name(), m.Value())
	}
	if runErr != nil {
		fmt.Printf("\nrun ended early: %v\n", runErr)
	}
	return nil
}

func buildMetadata(s *setup, status sim.Status, mets []metrics.Metric) storage.RunMetadata {
	vals := make(map[string]float64, len(mets))
	for _, m := range mets {
		vals[m.Name()] = m.Value()
	}
	return storage.RunMetadata{
		Units:               s.cfg.Units,
		Mass:                s.metric.M,
		SchwarzschildRadius: s.metric.Rs(),
		Integrator:          s.cfg.Integrator,
		Dt:                  s.cfg.Dt,
		MaxProperTime:       s.cfg.MaxProperTime,
		Status:              status.String(),
		Metrics:             vals,
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	s, err := buildSetup(cmd)
	if err != nil {
		return err
	}

	simulator := sim.New(s.metric, s.integ)
	rec := trajectory.NewRecord()
	done := make(chan viz.RunResult, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_, status, runErr := simulator.RunInto(ctx, s.x0, s.simCfg, rec)
		done <- viz.RunResult{Status: status, Err: runErr}
	}()

	p := tea.NewProgram(viz.NewModel(s.metric, rec, done))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tUNITS\tMASS\tINTEG\tSTATUS\tSAMPLES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4g\t%s\t%s\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Units,
			run.Mass,
			run.Integrator,
			run.Status,
			run.Samples,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rec, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("status: %s\n", meta.Status)
	fmt.Printf("samples: %d\n\n", rec.Len())

	fmt.Println(viz.PlotOrbit(rec, meta.SchwarzschildRadius, 60, 24))
	fmt.Println(viz.PlotRadius(rec, 80, 10))
	fmt.Println()
	fmt.Println(viz.PlotTimeDilation(rec, 80, 10))
	fmt.Println()
	fmt.Println(viz.PlotDrift(rec, 80, 10))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rec, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONTo(os.Stdout, *meta, rec)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rec, err := st.LoadRecord(args[0])
	if err != nil {
		return err
	}

	consts := spacetime.Geometrized
	if meta.Units == "si" {
		consts = spacetime.SI
	}
	schw, err := metric.NewSchwarzschild(meta.Mass, consts)
	if err != nil {
		return err
	}

	report, err := analysis.Precession(schw, rec)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "orbits measured\t%d\n", report.Orbits)
	fmt.Fprintf(w, "semi-major axis\t%.6g\n", report.SemiMajor)
	fmt.Fprintf(w, "eccentricity\t%.6g\n", report.Eccentricity)
	fmt.Fprintf(w, "mean advance\t%.6g rad/orbit\n", report.MeanAdvance)
	fmt.Fprintf(w, "advance scatter\t%.3g\n", report.StdDev)
	fmt.Fprintf(w, "first-order prediction\t%.6g rad/orbit\n", report.Predicted)
	if report.Predicted != 0 {
		fmt.Fprintf(w, "measured/predicted\t%.4f\n", report.MeanAdvance/report.Predicted)
	}
	return w.Flush()
}
