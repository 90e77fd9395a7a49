package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/automation"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/gravity"
	"github.com/san-kum/orrery/internal/logging"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/spawn"
	"github.com/san-kum/orrery/internal/storage"
	"github.com/san-kum/orrery/internal/tui"
	"github.com/san-kum/orrery/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	logFormat  string
	logFile    string
	configFile string
	preset     string
	planets    int
	dt         float64
	duration   float64
	seed       int64
	workers    int
	sampleN    int
	noSave     bool
	theme      string
	fadeFrames int
	svgSize    int
	noTrails   bool
	exportOut  string
	frameOut   string
	benchWork  int
	sweepSeeds int
	parallel   int

	log *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "orrery",
		Short:         "toy solar system with collisions and respawns",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			base := config.DefaultConfig().Logging
			if configFile != "" {
				if c, err := config.Load(configFile); err == nil {
					base = c.Logging
				}
			}
			if logFormat != "" {
				base.Format = logFormat
			}
			l, err := logging.New(base, logging.WithLevel(logLevel), logging.WithOutput(logFile))
			if err != nil {
				return err
			}
			log = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orrery", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json); overrides the config file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store samples",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&sampleN, "sample", config.DefaultSampleEvery, "store body states every n ticks (0 disables)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file (.yaml or .toml)",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the gravity step for several body counts",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchWork, "workers", 4, "parallel workers")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeSolar.Name, "color theme (solar, retro, mono)")
	liveCmd.Flags().IntVar(&fadeFrames, "fade", tui.DefaultFadeFrames, "viewer explosion fade in frames")

	frameCmd := &cobra.Command{
		Use:   "frame",
		Short: "simulate headless and write the final frame as svg",
		Args:  cobra.NoArgs,
		RunE:  writeFrame,
	}
	addWorldFlags(frameCmd)
	frameCmd.Flags().StringVarP(&frameOut, "out", "o", "frame.svg", "output file")
	frameCmd.Flags().StringVar(&theme, "theme", viz.ThemeSolar.Name, "color theme")
	frameCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	frameCmd.Flags().BoolVar(&noTrails, "no-trails", false, "omit trails")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of several simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one configuration over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addWorldFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepSeeds, "seeds", 8, "number of seeds")
	sweepCmd.Flags().IntVar(&parallel, "parallel", 4, "concurrent runs")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, exportCmd, presetsCmd, initCmd, benchCmd, liveCmd, frameCmd, scenarioCmd, sweepCmd)

	err := rootCmd.Execute()
	if log != nil {
		_ = log.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&planets, "planets", config.DefaultPlanets, "number of planets")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "gravity workers")
}

// loadConfig resolves file, then preset, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("planets") {
		cfg.Planets = planets
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Lookup("sample") != nil && flags.Changed("sample") {
		cfg.SampleEvery = sampleN
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	w, err := sim.New(cfg, sim.WithLogger(log))
	if err != nil {
		return err
	}

	s := sim.NewSimulator(log)
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewMaxSpeed())
	s.AddMetric(metrics.NewContainment(cfg.Bound))
	s.AddMetric(metrics.NewRespawns())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := s.Run(ctx, w, sim.RunConfig{Dt: cfg.Dt, Duration: cfg.Duration, SampleEvery: cfg.SampleEvery})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("ticks: %d  time: %.2fs  wall: %v\n", result.Ticks, result.Time, elapsed.Round(time.Millisecond))
	fmt.Printf("respawns: %d  degenerate pairs: %d\n", result.Respawns, result.Degenerate)
	for _, name := range []string{"kinetic_energy", "max_speed", "containment", "respawn_rate"} {
		fmt.Printf("  %-16s %.6g\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	runID, err := st.Save(storage.RunMetadata{
		Preset:   cfg.Name,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Planets:  cfg.Planets,
	}, result)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tPLANETS\tRESPAWNS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04"),
			run.Duration,
			run.Planets,
			run.Respawns,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s  preset: %s  seed: %d  planets: %d\n", meta.ID, meta.Preset, meta.Seed, meta.Planets)
	fmt.Printf("ticks: %d  respawns: %d  degenerate pairs: %d\n\n", meta.Ticks, meta.Respawns, meta.Degenerate)

	energy, radius := sampleSeries(samples)
	if len(energy) < 2 {
		fmt.Println("not enough samples to plot")
		return nil
	}

	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("planet kinetic energy"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(radius,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("mean planet distance from sun"),
	))
	fmt.Println()
	return nil
}

// sampleSeries groups samples by tick into total kinetic energy and mean
// planet distance.
func sampleSeries(samples []sim.Sample) (energy, radius []float64) {
	var bodies []body.Body
	flush := func() {
		if len(bodies) == 0 {
			return
		}
		energy = append(energy, metrics.TotalKinetic(bodies))
		var sum float64
		var n int
		for _, b := range bodies {
			if b.Kind == body.Planet {
				sum += b.Position.Len()
				n++
			}
		}
		if n > 0 {
			sum /= float64(n)
		}
		radius = append(radius, sum)
		bodies = bodies[:0]
	}

	tick := -1
	for _, s := range samples {
		if s.Tick != tick {
			flush()
			tick = s.Tick
		}
		bodies = append(bodies, s.Body)
	}
	flush()
	return energy, radius
}

func exportRun(cmd *cobra.Command, args []string) error {
	if err := storage.New(dataDir).ExportJSON(args[0], exportOut, os.Stdout); err != nil {
		return err
	}
	if exportOut != "" {
		fmt.Printf("exported: %s\n", exportOut)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPLANETS\tSUN MASS\tSUN RADIUS\tVELOCITY SCALE")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.1f\t%.0f\n",
			name, p.Planets, p.Constants.SunMass, p.Constants.SunRadius, p.Constants.VelocityScale)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	counts := []int{10, 50, 100, 250, 500}
	const steps = 200

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tSTEPS\tTIME\tSTEPS/SEC")

	for _, n := range counts {
		for _, wk := range []int{1, benchWork} {
			reg, err := benchRegistry(n)
			if err != nil {
				return err
			}
			solver := gravity.New(spawn.DefaultG)
			solver.Workers = wk

			start := time.Now()
			for i := 0; i < steps; i++ {
				solver.Step(reg, config.DefaultDt)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
				n, wk, steps, elapsed.Round(time.Microsecond), float64(steps)/elapsed.Seconds())
			if wk == benchWork {
				break
			}
		}
	}
	return w.Flush()
}

func benchRegistry(n int) (*body.Registry, error) {
	sp := spawn.New(spawn.DefaultConstants(), rand.New(rand.NewSource(1)))
	reg := body.NewRegistry(n)
	if _, err := reg.Insert(sp.Sun()); err != nil {
		return nil, err
	}
	for i := 1; i < n; i++ {
		if _, err := reg.Insert(sp.Planet()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w, err := sim.New(cfg)
	if err != nil {
		return err
	}
	return tui.Run(w, tui.Options{
		Theme:      viz.GetTheme(theme),
		FadeFrames: fadeFrames,
	})
}

func writeFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	w, err := sim.New(cfg, sim.WithLogger(log))
	if err != nil {
		return err
	}
	for i := 0; i < cfg.Steps(); i++ {
		w.Tick(cfg.Dt)
	}

	f, err := os.Create(frameOut)
	if err != nil {
		return err
	}
	defer f.Close()

	extent := cfg.Constants.EntryRadius() * 1.05
	if err := viz.WriteSVG(f, w.Snapshot(), viz.GetTheme(theme), svgSize, extent, !noTrails); err != nil {
		return err
	}
	log.Info("frame written", zap.String("path", frameOut), zap.Int("ticks", w.Ticks()))
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc, st, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tNAME\tTICKS\tRESPAWNS\tCONTAINMENT\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.3f\t%s\n",
			r.Step, r.Name, r.Result.Ticks, r.Result.Respawns, r.Result.Metrics["containment"], r.RunID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, automation.Sweep{
		Base:      cfg,
		Seeds:     sweepSeeds,
		SeedStart: cfg.Seed,
		Parallel:  parallel,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tRESPAWNS\tCONTAINMENT\tKINETIC")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.3f\t%.4g\n", r.Seed, r.Respawns, r.Containment, r.KineticEnergy)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	contained, escaped, mean := automation.SweepStats(results)
	fmt.Printf("\ncontained: %d  escaped: %d  mean respawns: %.2f\n", contained, escaped, mean)
	return nil
}
