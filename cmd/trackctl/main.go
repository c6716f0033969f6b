package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/trackctl/internal/analysis"
	"github.com/san-kum/trackctl/internal/automation"
	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/export"
	"github.com/san-kum/trackctl/internal/optim"
	"github.com/san-kum/trackctl/internal/path"
	"github.com/san-kum/trackctl/internal/scenario"
	"github.com/san-kum/trackctl/internal/sim"
	"github.com/san-kum/trackctl/internal/storage"
	"github.com/san-kum/trackctl/internal/vehicle"
	"github.com/san-kum/trackctl/internal/viz"
)

var (
	dataDir  string
	logLevel string
	// scenario overrides
	configFile string
	preset     string
	course     string
	speedKmh   float64
	offset     float64
	heading    float64
	maxTime    float64
	gear       string
	runName    string
	// render
	outFile string
	width   int
	height  int
	// tune
	tuneParams []string
	tuneMetric string
	// sweep / monte carlo
	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	lateralSpread float64
	headingSpread float64
	trials        int
	seed          int64
	// analyze
	signalName string
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "trackctl",
		Short: "lqr path tracking lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(viz.NewInteractiveApp(), tea.WithAltScreen()).Run()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".trackctl", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a tracking scenario and store it",
		Args:  cobra.NoArgs,
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "", "run name (defaults to preset or path)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render reference and driven trajectory (svg or png)",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "trajectory.svg", "output file (.svg or .png)")
	renderCmd.Flags().IntVar(&width, "width", 800, "svg width")
	renderCmd.Flags().IntVar(&height, "height", 600, "svg height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH\tSPEED\tOFFSET")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%.0f km/h\t%.2f m\n",
					name, p.Scenario.Path, p.Scenario.TargetSpeedKmh, p.Scenario.Offset.Lateral)
			}
			return w.Flush()
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search lqr and speed gains",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addScenarioFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", []string{"r=0.5,1,2"},
		fmt.Sprintf("name=v1,v2,... (tunable: %s)", strings.Join(optim.Tunable, ", ")))
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "cross_track_rms", "metric to minimise")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run every preset and report timing",
		Args:  cobra.NoArgs,
		RunE:  benchPresets,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum and error portrait of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&signalName, "signal", "steer", "signal to analyse (steer, lateral_error, heading_error)")

	suiteCmd := &cobra.Command{
		Use:   "suite [file]",
		Short: "run a scripted suite of scenarios",
		Args:  cobra.ExactArgs(1),
		RunE:  runSuite,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one tunable parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "r", fmt.Sprintf("parameter (%s)", strings.Join(optim.Tunable, ", ")))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 4, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials with random start offsets",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addScenarioFlags(mcCmd)
	mcCmd.Flags().Float64Var(&lateralSpread, "lateral-spread", 1.0, "lateral offset spread [m]")
	mcCmd.Flags().Float64Var(&headingSpread, "heading-spread", 0.2, "heading offset spread [rad]")
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, showCmd, exportCSVCmd, exportJSONCmd, renderCmd,
		presetsCmd, tuneCmd, benchCmd, analyzeCmd, suiteCmd, sweepCmd, mcCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&course, "path", config.DefaultPath, fmt.Sprintf("reference path (%s)", strings.Join(path.Shapes(), ", ")))
	cmd.Flags().Float64Var(&speedKmh, "speed", config.DefaultTargetSpeedKmh, "target speed [km/h]")
	cmd.Flags().Float64Var(&offset, "offset", 0, "initial lateral offset [m]")
	cmd.Flags().Float64Var(&heading, "heading", 0, "initial heading offset [rad]")
	cmd.Flags().Float64Var(&maxTime, "time", config.DefaultMaxTime, "simulation time budget [s]")
	cmd.Flags().StringVar(&gear, "gear", "drive", "gear (drive, reverse)")
}

// loadConfig applies preset, then file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("path") {
		cfg.Scenario.Path = course
	}
	if cmd.Flags().Changed("speed") {
		cfg.Scenario.TargetSpeedKmh = speedKmh
	}
	if cmd.Flags().Changed("offset") {
		cfg.Scenario.Offset.Lateral = offset
	}
	if cmd.Flags().Changed("heading") {
		cfg.Scenario.Offset.Heading = heading
	}
	if cmd.Flags().Changed("time") {
		cfg.MaxTime = maxTime
	}
	if cmd.Flags().Changed("gear") {
		g, err := vehicle.ParseGear(gear)
		if err != nil {
			return nil, err
		}
		cfg.Scenario.Gear = g
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := sc.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	name := runName
	if name == "" {
		name = lo.Ternary(preset != "", preset, cfg.Scenario.Path)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Println(titleStyle.Render("run " + runID))
	fmt.Printf("%s %s\n", labelStyle.Render("stop:    "), viz.StopStyle(result.Stop).Render(result.Stop.String()))
	fmt.Printf("%s %d (%.1fs simulated, %v wall)\n", labelStyle.Render("steps:   "), result.Steps, final.T, elapsed.Round(time.Millisecond))
	fmt.Printf("%s x=%.2f y=%.2f v=%.2f m/s\n", labelStyle.Render("final:   "), final.X, final.Y, final.V)
	if result.Warnings > 0 {
		fmt.Printf("%s %d\n", labelStyle.Render("warnings:"), result.Warnings)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, k := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "%s\t%.4f\n", k, result.Metrics[k])
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sc, err := scenario.Build(cfg)
	if err != nil {
		return err
	}

	title := lo.Ternary(preset != "", preset, cfg.Scenario.Path)
	m := viz.NewModel(sc.Simulator(), sc.SimConfig(), title)

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}

	if lm, ok := final.(viz.Model); ok {
		stop, samples := lm.Result()
		fmt.Printf("stopped: %s after %d samples\n", stop, len(samples))
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
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPATH\tSTOP\tSTEPS\tTIME\tRMS\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fs\t%.4f\t%s\n",
			r.ID, r.Path, r.Stop, r.Steps, r.Duration,
			r.Metrics["cross_track_rms"],
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("path: %s, stop: %s\n\n", meta.Path, meta.Stop)

	series := []struct {
		caption string
		get     func(sim.Sample) float64
	}{
		{"lateral error [m]", func(s sim.Sample) float64 { return s.LateralError }},
		{"heading error [rad]", func(s sim.Sample) float64 { return s.HeadingError }},
		{"steer [rad]", func(s sim.Sample) float64 { return s.Steer }},
		{"speed [m/s]", func(s sim.Sample) float64 { return s.V }},
	}

	for _, sr := range series {
		data := lo.Map(samples, func(s sim.Sample, _ int) float64 { return sr.get(s) })
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.ExportCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, samples)
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if meta.Config == nil {
		return fmt.Errorf("run %s has no stored config", runID)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	ref, err := path.Named(meta.Config.Scenario.Path, meta.Config.Scenario.Ds)
	if err != nil {
		return err
	}
	refPts := export.FromPath(ref)
	driven := export.FromSamples(samples)

	switch ext := strings.ToLower(filepath.Ext(outFile)); ext {
	case ".svg":
		svg := export.TrajectorySVG(refPts, driven, width, height)
		if svg == "" {
			return fmt.Errorf("not enough points to render")
		}
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	case ".png":
		if err := export.TrajectoryPNG(outFile, refPts, driven); err != nil {
			return err
		}
		errFile := strings.TrimSuffix(outFile, filepath.Ext(outFile)) + "_errors.png"
		if err := export.ErrorsPNG(errFile, samples); err != nil {
			return err
		}
		fmt.Printf("wrote %s, %s\n", outFile, errFile)
	default:
		return fmt.Errorf("unsupported output format: %q", ext)
	}
	return nil
}

// parseParam reads "name=v1,v2,...".
func parseParam(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", s)
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad value in --param %q: %w", s, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var names []string
	var ranges [][]float64
	for _, p := range tuneParams {
		name, vals, err := parseParam(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := optim.NewGridSearch(names, ranges).Search(ctx, cfg, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTOP\t%s\n", strings.ToUpper(strings.Join(names, "\t")), strings.ToUpper(tuneMetric))
	for _, c := range res.Candidates {
		vals := lo.Map(names, func(n string, _ int) string { return strconv.FormatFloat(c.Params[n], 'g', -1, 64) })
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", strings.Join(vals, "\t"), c.Stop, c.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if res.Best == nil {
		fmt.Println("\nno candidate reached the goal")
		return nil
	}
	fmt.Printf("\n%s %v (%s=%.4f)\n", titleStyle.Render("best:"), res.Best, tuneMetric, res.BestValue)
	return nil
}

func benchPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	cfgs := lo.Map(names, func(n string, _ int) *config.Config { return config.GetPreset(n) })

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	results, err := scenario.RunAll(ctx, cfgs)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTOP\tSTEPS\tSIM TIME\tRMS\tMAX ERR")
	total := 0
	for i, r := range results {
		total += r.Steps
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1fs\t%.4f\t%.4f\n",
			names[i], r.Stop, r.Steps, r.Final().T,
			r.Metrics["cross_track_rms"], r.Metrics["max_lateral_error"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", total, elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}

	var get func(sim.Sample) float64
	switch signalName {
	case "steer":
		get = func(s sim.Sample) float64 { return s.Steer }
	case "lateral_error":
		get = func(s sim.Sample) float64 { return s.LateralError }
	case "heading_error":
		get = func(s sim.Sample) float64 { return s.HeadingError }
	default:
		return fmt.Errorf("unknown signal: %s", signalName)
	}
	data := lo.Map(samples, func(s sim.Sample, _ int) float64 { return get(s) })

	dt := config.DefaultDt
	if meta.Config != nil {
		dt = meta.Config.Dt
	}

	sp, err := analysis.AmplitudeSpectrum(data, dt)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s (%s)\n\n", meta.ID, signalName)
	graph := asciigraph.Plot(sp.Amplitude[1:],
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude spectrum, 0 to %.1f hz", sp.Freqs[len(sp.Freqs)-1])),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, amp := sp.Dominant()
	fmt.Printf("dominant frequency: %.3f hz (amplitude %.4f)\n", freq, amp)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	fmt.Printf("zero crossings: %d\n\n", analysis.ZeroCrossings(data, 1e-3))

	portrait := analysis.ErrorPortrait(samples)
	fmt.Printf("x: %s, y: %s\n", portrait.XLabel, portrait.YLabel)
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 70, 20))
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	suite, err := automation.LoadSuite(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSuite(ctx, suite, st)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("suite " + suite.Name))
	if suite.Description != "" {
		fmt.Println(labelStyle.Render(suite.Description))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPATH\tSTOP\tSTEPS\tRMS\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\n",
			r.Name, r.Config.Scenario.Path, r.Result.Stop, r.Result.Steps,
			r.Result.Metrics["cross_track_rms"], lo.Ternary(r.RunID != "", r.RunID, "-"))
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTOP\tRMS\tMAX ERR\tSTEER EFFORT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%s\t%.4f\t%.4f\t%.4f\n",
			r.Value, r.Stop, r.Metrics["cross_track_rms"], r.Metrics["max_lateral_error"], r.Metrics["steer_effort"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:          cfg,
		LateralSpread: lateralSpread,
		HeadingSpread: headingSpread,
		NumTrials:     trials,
		Seed:          seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tLATERAL\tHEADING\tSTOP\tMAX ERR\tRMS")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%+.3f\t%+.3f\t%s\t%.4f\t%.4f\n",
			r.TrialID, r.Offset.Lateral, r.Offset.Heading, r.Stop, r.MaxError, r.RMS)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	reached, failed := automation.MonteCarloStats(results)
	fmt.Printf("\nreached goal: %d, failed: %d (seed %d)\n", reached, failed, seed)
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
