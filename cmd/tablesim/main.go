package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/tablesim/internal/automation"
	"github.com/san-kum/tablesim/internal/config"
	"github.com/san-kum/tablesim/internal/export"
	"github.com/san-kum/tablesim/internal/gui"
	"github.com/san-kum/tablesim/internal/metrics"
	"github.com/san-kum/tablesim/internal/physics"
	"github.com/san-kum/tablesim/internal/pointer"
	"github.com/san-kum/tablesim/internal/sim"
	"github.com/san-kum/tablesim/internal/storage"
	"github.com/san-kum/tablesim/internal/table"
	"github.com/san-kum/tablesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	configFile  string
	preset      string
	mute        bool
	ticks       int
	sampleEvery int
	drags       []string
	stopAtRest  bool
	save        bool
	trace       bool
	plotBall    int
	trail       bool
	outFile     string
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepTicks  int
	sweepDrags  []string
	jsonOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tablesim",
		Short: "drag-and-launch ball table",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tablesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.Flags().BoolVar(&mute, "mute", false, "start without sound")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the table in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&mute, "mute", false, "start without sound")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "play on the table in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" && preset == "" {
				return viz.RunInteractive()
			}
			cfg, err := config.Resolve(configFile, preset)
			if err != nil {
				return err
			}
			return viz.Run(cfg, label())
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the table headless",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks to step")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 10, "keep every n-th tick")
	runCmd.Flags().StringArrayVar(&drags, "drag", nil, "scripted drag i:dx,dy (repeatable)")
	runCmd.Flags().BoolVar(&stopAtRest, "stop-at-rest", false, "stop once every ball has stopped")
	runCmd.Flags().BoolVar(&save, "save", false, "record the run in the data directory")
	runCmd.Flags().BoolVar(&trace, "trace", false, "print collision and bounce events")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot ball speeds of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBall, "ball", -1, "plot a single ball (default all)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().BoolVar(&trail, "trail", false, "draw ball trajectories")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "out", "o", "-", "output file (- for stdout)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of tables",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", false, "record steps that have save_as set")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "repeat a scripted shot across a parameter range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "friction", fmt.Sprintf("parameter to vary %v", automation.SweepParams()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.95, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.995, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 5000, "tick limit per value")
	sweepCmd.Flags().StringArrayVar(&sweepDrags, "drag", []string{"0:100,0"}, "scripted drag i:dx,dy (repeatable)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBALLS\tFRICTION\tTABLE")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.3f\t%gx%g\n", name, len(cfg.Balls), cfg.Physics.Friction, cfg.Table.Width, cfg.Table.Height)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file to start from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve("", preset)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, listCmd, plotCmd, exportSVGCmd, exportJSONCmd, scenarioCmd, sweepCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// label names the configuration in headers and run IDs.
func label() string {
	switch {
	case preset != "":
		return preset
	case configFile != "":
		return "custom"
	default:
		return "default"
	}
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(configFile, preset)
	if err != nil {
		return err
	}
	return gui.Run(cfg, mute)
}

// eventPrinter reports ticks on which something hit something.
type eventPrinter struct{}

func (eventPrinter) OnTick(tick int, balls []table.Ball, st physics.Stats) {
	if st.Collisions == 0 && st.Bounces == 0 {
		return
	}
	fmt.Printf("  tick %5d: %d collisions, %d bounces, impact %.3f\n", tick, st.Collisions, st.Bounces, st.MaxImpact)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(configFile, preset)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	scripted := make([]sim.Drag, 0, len(drags))
	for _, s := range drags {
		d, err := sim.ParseDrag(s)
		if err != nil {
			return err
		}
		scripted = append(scripted, d)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	ctrl := pointer.New(reg, nil, cfg.Input.ImpulseScale)
	s := sim.New(reg, cfg.Stepper(), ctrl)
	for _, m := range metrics.Standard() {
		s.AddMetric(m)
	}
	if trace {
		s.AddObserver(eventPrinter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s table for %d ticks...\n", label(), ticks)
	start := time.Now()

	result, err := s.Run(ctx, sim.Config{
		Ticks:       ticks,
		SampleEvery: sampleEvery,
		Drags:       scripted,
		StopAtRest:  stopAtRest,
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Printf("bounces: %d\n", result.Bounces)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	fmt.Println("\nfinal:")
	for i, b := range result.Final().Balls {
		fmt.Printf("  %d %s pos=(%.2f, %.2f) vel=(%.3f, %.3f)\n", i, b.Color, b.Pos.X, b.Pos.Y, b.Vel.X, b.Vel.Y)
	}

	if !save {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	t := cfg.TableSpec()
	runID, err := st.Save(storage.RunMetadata{
		Preset:      label(),
		Ticks:       result.Ticks,
		SampleEvery: sampleEvery,
		Friction:    cfg.Physics.Friction,
		Width:       t.Width,
		Height:      t.Height,
		Background:  t.Background,
		Drags:       drags,
		Metrics:     result.Metrics,
	}, result.Frames)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tBALLS\tCOLLISIONS\tDRAGS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.0f\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			len(run.Radii),
			run.Metrics["collisions"],
			len(run.Drags),
		)
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(frames))

	n := len(frames[0].Balls)
	first, last := 0, n-1
	if plotBall >= 0 {
		if plotBall >= n {
			return fmt.Errorf("ball %d: %w", plotBall, table.ErrIndexOutOfRange)
		}
		first, last = plotBall, plotBall
	}
	maxPlots := 6
	if last-first+1 > maxPlots {
		last = first + maxPlots - 1
	}

	for i := first; i <= last; i++ {
		data := make([]float64, len(frames))
		for j, f := range frames {
			if i < len(f.Balls) {
				data[j] = f.Balls[i].Speed()
			}
		}
		caption := fmt.Sprintf("ball %d speed (%s)", i, frames[0].Balls[i].Color)
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames in run %s", runID)
	}

	var doc string
	if trail {
		doc = export.TrajectoryToSVG(meta.Table(), frames)
	} else {
		doc = export.FrameToSVG(meta.Table(), frames[len(frames)-1].Balls)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	return export.ExportJSON(jsonOut, meta, frames)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Description != "" {
		fmt.Printf("%s: %s\n", sc.Name, sc.Description)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, sc)
	if err != nil {
		return err
	}

	var st *storage.Store
	if save {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLABEL\tTICKS\tCOLLISIONS\tBOUNCES\tRUN")
	for i, res := range results {
		step := sc.Steps[i]
		runID := "-"
		if st != nil && step.SaveAs != "" {
			cfg, err := config.Resolve(step.Config, step.Preset)
			if err != nil {
				return err
			}
			t := cfg.TableSpec()
			runID, err = st.Save(storage.RunMetadata{
				Preset:      step.SaveAs,
				Ticks:       res.Ticks,
				SampleEvery: step.SampleEvery,
				Friction:    cfg.Physics.Friction,
				Width:       t.Width,
				Height:      t.Height,
				Background:  t.Background,
				Drags:       step.Drags,
				Metrics:     res.Metrics,
			}, res.Frames)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n", i+1, step.Label(), res.Ticks, res.Collisions, res.Bounces, runID)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	scripted := make([]sim.Drag, 0, len(sweepDrags))
	for _, s := range sweepDrags {
		d, err := sim.ParseDrag(s)
		if err != nil {
			return err
		}
		scripted = append(scripted, d)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Preset:    preset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Ticks:     sweepTicks,
		Drags:     scripted,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tTICKS\tCOLLISIONS\tBOUNCES\tPEAK\tREST\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		rest := "yes"
		if r.FinalKE > 0 {
			rest = "no"
		}
		fmt.Fprintf(w, "%.4f\t%d\t%d\t%d\t%.3f\t%s\n", r.ParamValue, r.Ticks, r.Collisions, r.Bounces, r.PeakSpeed, rest)
	}
	return w.Flush()
}
