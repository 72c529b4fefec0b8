package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/san-kum/arena/internal/automation"
	"github.com/san-kum/arena/internal/config"
	"github.com/san-kum/arena/internal/dynamo"
	"github.com/san-kum/arena/internal/experiment"
	"github.com/san-kum/arena/internal/physics"
	"github.com/san-kum/arena/internal/spawn"
	"github.com/san-kum/arena/internal/storage"
	"github.com/san-kum/arena/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	seed       int64
	gravity    float64
	arenaSide  float64
	numBodies  int
	numRuns    int
	theme      string
	outPath    string
	svgSize    int
	verifyDB   bool
	plotBody   int
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "arena",
		Short:         "bouncing circles in a square arena",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".arena", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&numRuns, "runs", 1, "run an ensemble over consecutive seeds instead of saving one run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure step throughput by body count",
		Args:  cobra.NoArgs,
		RunE:  benchPipeline,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report final energy and containment",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter (gravity, arena_side, dt, count, mass_max)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 600, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, presetsCmd, benchCmd, scenarioCmd, sweepCmd)
	rootCmd.AddCommand(exportCommands()...)
	rootCmd.AddCommand(analyzeCommand(), tuneCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "downward acceleration")
	cmd.Flags().Float64Var(&arenaSide, "arena", config.DefaultArenaSide, "arena side length")
	cmd.Flags().IntVar(&numBodies, "bodies", spawn.DefaultRanges().Count, "number of bodies")
}

// resolveConfig layers preset, then config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		p, err := config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("arena") {
		cfg.ArenaSide = arenaSide
	}
	if flags.Changed("bodies") {
		cfg.Spawn.Count = numBodies
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return cfg, cfg.Validate()
}

func presetLabel() string {
	if configFile != "" {
		return ""
	}
	if preset == "" {
		return "classic"
	}
	return preset
}

func runMetadata(cfg *config.Config, preset string) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:    preset,
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		ArenaSide: cfg.ArenaSide,
		Gravity:   cfg.Gravity,
	}
}

// storeSaver lets scenarios persist runs into the run store.
type storeSaver struct {
	st *storage.Store
}

func (s storeSaver) SaveRun(cfg *config.Config, preset string, result *dynamo.Result) (string, error) {
	return s.st.Save(runMetadata(cfg, preset), result)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if numRuns > 1 {
		return runEnsemble(ctx, cfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %d bodies for %.2fs (seed %d)...\n", len(exp.Bodies()), cfg.Duration, cfg.Seed)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(runMetadata(cfg, presetLabel()), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	for _, e := range result.Errors {
		fmt.Printf("warning: %v\n", e)
	}
	printMetrics(result.Metrics)

	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runEnsemble(ctx context.Context, cfg *config.Config) error {
	fmt.Printf("running %d seeds from %d...\n", numRuns, cfg.Seed)
	start := time.Now()

	results, err := experiment.NewEnsemble(cfg, numRuns).Run(ctx, cfg.RunConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tENERGY_DRIFT\tCONTAINMENT\tCOLLISION_RATE")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.3f\t%.2f/s\n",
			cfg.Seed+int64(i),
			r.StepsTaken,
			r.Metrics["energy_drift"],
			r.Metrics["containment"],
			r.Metrics["collision_rate"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v\n", time.Since(start))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	title := presetLabel()
	if title == "" {
		title = "custom"
	}

	pipe := physics.NewPipeline(cfg.Arena(), cfg.Gravity)
	return viz.Run(viz.NewModel(pipe, exp.Bodies(), title).WithTheme(theme))
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tBODIES\tDURATION\tDT\tGRAVITY\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%.1f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Masses),
			run.Duration,
			run.Dt,
			run.Gravity,
			run.Seed,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tGRAVITY\tARENA\tDT\tDURATION")
	for _, name := range config.ListPresets() {
		p, err := config.GetPreset(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.0f\t%.4f\t%.1fs\n",
			name, p.Spawn.Count, p.Gravity, p.ArenaSide, p.Dt, p.Duration)
	}
	return w.Flush()
}

func benchPipeline(cmd *cobra.Command, args []string) error {
	counts := []int{5, 50, 500}
	const steps = 600

	fmt.Printf("benchmarking %d steps at dt=%.4f\n\n", steps, config.DefaultDt)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSTEPS\tTIME\tSTEPS/SEC\tCOLLISIONS")

	for _, n := range counts {
		cfg := config.DefaultConfig()
		cfg.Spawn.Count = n
		cfg.Spawn.Mass = spawn.Range{Min: 1, Max: 5}
		cfg.Seed = 1

		bodies, err := spawn.New(cfg.Spawn, cfg.Seed).Bodies()
		if err != nil {
			return err
		}
		pipe := physics.NewPipeline(cfg.Arena(), cfg.Gravity)

		start := time.Now()
		for i := 0; i < steps; i++ {
			pipe.Step(bodies, cfg.Dt)
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%d\n",
			n, steps, elapsed.Round(time.Microsecond),
			float64(steps)/elapsed.Seconds(), pipe.Collisions.Resolved)
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	results, err := automation.RunScenario(ctx, sc, os.Stdout, storeSaver{st: st})
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tSEED\tFRAMES\tCONTAINMENT\tCOLLISION_RATE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.3f\t%.2f/s\n",
			r.Step, r.Preset, r.Config.Seed, len(r.Result.Frames),
			r.Result.Metrics["containment"], r.Result.Metrics["collision_rate"])
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL_ENERGY\tCONTAINMENT\tCOLLISION_RATE\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.1f\t%.3f\t%.2f/s\n", r.ParamValue, r.FinalEnergy, r.Containment, r.CollisionRate)
	}
	return w.Flush()
}
