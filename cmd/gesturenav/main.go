package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goforj/godump"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gesturenav/internal/clock"
	"github.com/san-kum/gesturenav/internal/config"
	"github.com/san-kum/gesturenav/internal/controller"
	"github.com/san-kum/gesturenav/internal/export"
	"github.com/san-kum/gesturenav/internal/geom"
	"github.com/san-kum/gesturenav/internal/history"
	"github.com/san-kum/gesturenav/internal/logging"
	"github.com/san-kum/gesturenav/internal/manifold"
	"github.com/san-kum/gesturenav/internal/scenario"
	"github.com/san-kum/gesturenav/internal/storage"
	"github.com/san-kum/gesturenav/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	variant    string
	seed       int64
	theme      string
	logLevel   string
	// Viewport for the offline commands
	width  float64
	height float64
	// Batch
	runs    int
	workers int
	// Simulate
	save     bool
	jsonFile string
)

// main registers the commands and runs the interactive demo when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "gesturenav",
		Short:        "gesture-driven spatial navigation lab",
		RunE:         runTUI,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gesturenav", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&variant, "variant", config.DefaultVariant, "controller variant (path|orbit)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 = from config or clock)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal demo",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "generate a path and plot distance to the nearest anchor",
		RunE:  showPath,
	}
	orbitCmd := &cobra.Command{
		Use:   "orbit",
		Short: "generate an orbit set",
		RunE:  showOrbits,
	}
	for _, c := range []*cobra.Command{pathCmd, orbitCmd} {
		c.Flags().Float64Var(&width, "width", 1280, "viewport width")
		c.Flags().Float64Var(&height, "height", 800, "viewport height")
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate [scenario.yaml]",
		Short: "play a scripted gesture scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	simulateCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	simulateCmd.Flags().StringVar(&jsonFile, "json", "", "export the full result to a json file")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved simulate runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot dwell progress of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "run randomized property checks concurrently",
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&runs, "runs", 100, "number of seeds")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = NumCPU)")
	batchCmd.Flags().Float64Var(&width, "width", 1280, "viewport width")
	batchCmd.Flags().Float64Var(&height, "height", 800, "viewport height")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "inspect the persisted navigation history",
	}
	historyCmd.AddCommand(
		&cobra.Command{Use: "list", Short: "list history entries", RunE: listHistory},
		&cobra.Command{Use: "clear", Short: "clear history and landing point", RunE: clearHistory},
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "dump a freshly mounted controller",
		RunE:  inspect,
	}
	inspectCmd.Flags().Float64Var(&width, "width", 1280, "viewport width")
	inspectCmd.Flags().Float64Var(&height, "height", 800, "viewport height")

	exportCmd := &cobra.Command{
		Use:   "export [file.svg]",
		Short: "render a freshly mounted controller as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportCmd.Flags().Float64Var(&width, "width", 1280, "viewport width")
	exportCmd.Flags().Float64Var(&height, "height", 800, "viewport height")
	exportCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDWELL\tTRANSITION\tPATH SNAP\tORBIT SNAP\tBLEND")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%dms\t%dms\t%.0fpx\t%.0fpx\t%s\n",
					name, p.Dwell.DwellMs, p.Transition.DelayMs,
					p.Path.SnapThreshold, p.Orbit.SnapThreshold, p.Orbit.Blend)
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(tuiCmd, pathCmd, orbitCmd, simulateCmd, runsCmd, plotCmd, batchCmd, historyCmd, inspectCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers preset, config file and explicitly set flags, in
// that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd.Flags().Changed("variant") || cfg.Variant == "" {
		cfg.Variant = variant
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cfg.History.Dir == "" {
		cfg.History.Dir = filepath.Join(dataDir, "history")
	}
	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Join(dataDir, "logs")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func seedOf(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

func viewport() geom.Rect {
	return geom.Rect{Max: geom.V(width, height)}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lg := logging.New(cfg.Log.Level, cfg.Log.Dir)

	store := history.NewFileStore(cfg.History.Dir, cfg.History.Limit).WithLogger(lg)
	if err := store.Open(); err != nil {
		lg.Warn("history unavailable, starting fresh", "error", err)
	}

	return viz.Run(viz.Options{
		Config:  cfg,
		Variant: cfg.Variant,
		Seed:    seedOf(cfg),
		Theme:   theme,
		Logger:  lg,
		Store:   store,
	})
}

func showPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s := seedOf(cfg)
	path, err := manifold.GeneratePath(rand.New(rand.NewSource(s)), viewport(), cfg.PathOptions().PathOptions)
	if err != nil {
		return err
	}

	start, end := path.Start(), path.End()
	fmt.Printf("seed:     %d\n", s)
	fmt.Printf("samples:  %d\n", len(path.Samples))
	fmt.Printf("length:   %.1fpx\n", path.Length())
	fmt.Printf("%-9s (%.1f, %.1f)\n", cfg.Labels.Start+":", start.X, start.Y)
	fmt.Printf("%-9s (%.1f, %.1f)\n", cfg.Labels.End+":", end.X, end.Y)

	const n = 120
	data := make([]float64, n+1)
	for i := range data {
		p := path.PointAt(float64(i) / n)
		data[i] = math.Min(p.Dist(start), p.Dist(end))
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("distance to nearest anchor over t (snap %.0fpx)", cfg.Path.SnapThreshold)),
	))
	return nil
}

func showOrbits(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s := seedOf(cfg)
	set, err := manifold.GenerateOrbits(rand.New(rand.NewSource(s)), viewport(), cfg.OrbitOptions().OrbitOptions, cfg.Labels.Orbit)
	if err != nil {
		return err
	}

	fmt.Printf("seed: %d  center: (%.1f, %.1f)  radius: %.0f-%.0f\n\n",
		s, set.Center.X, set.Center.Y, set.MinRadius, set.MaxRadius)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tANGLE\tRADIUS\tX\tY")
	for i, o := range set.Orbits {
		a := set.Anchor(i)
		fmt.Fprintf(w, "%s\t%.1f°\t%.1f\t%.1f\t%.1f\n", o.Label, o.Angle, o.Radius, a.X, a.Y)
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		sc.Seed = seed
	}
	lg := logging.New(cfg.Log.Level, cfg.Log.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := scenario.Run(ctx, sc, cfg, lg)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%s)\n\n", sc.Name, res.Final.Variant)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MS\tEVENT\tHANDLE\tCONTROL\tNEAREST\tPHASE\tPROGRESS")
	for _, f := range res.Frames {
		sn := f.Snapshot
		kind := f.Kind
		if f.Prevented {
			kind += "*"
		}
		fmt.Fprintf(w, "%d\t%s\t(%.0f, %.0f)\t(%.0f, %.0f)\t%s %.0fpx\t%s\t%.2f\n",
			f.AtMs, kind, sn.Handle.X, sn.Handle.Y, sn.Control.X, sn.Control.Y,
			sn.Nearest, sn.NearestDistance, sn.Phase, sn.DwellProgress)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, n := range res.Navigations {
		fmt.Printf("%6dms  %-8s %s\n", n.AtMs, n.Kind, n.Label)
	}
	if len(res.Navigations) == 0 {
		fmt.Println("no navigation")
	}

	if len(res.Progress) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(res.Progress,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("dwell progress (%dms samples)", res.SampleMs)),
		))
	}

	if save {
		st := storage.New(filepath.Join(dataDir, "runs"))
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(sc, res)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s\n", id)
	}
	if jsonFile != "" {
		if err := storage.ExportJSON(jsonFile, sc, res); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonFile)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(filepath.Join(dataDir, "runs"))
	list, err := st.List()
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tVARIANT\tTIME\tSTEPS\tNAVIGATED")
	for _, run := range list {
		var navigated []string
		for _, n := range run.Navigations {
			if n.Kind == "navigate" {
				navigated = append(navigated, n.Label)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			strings.Join(navigated, ","),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(filepath.Join(dataDir, "runs"))
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, progress, err := st.LoadProgress(runID)
	if err != nil {
		return err
	}
	if len(progress) < 2 {
		return fmt.Errorf("run %s has no progress samples", runID)
	}

	fmt.Println(asciigraph.Plot(progress,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: dwell progress over %dms", meta.Scenario, times[len(times)-1])),
	))
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := scenario.RunBatch(ctx, cfg, scenario.BatchOptions{
		Runs:     runs,
		Workers:  workers,
		Seed:     seedOf(cfg),
		Viewport: viewport(),
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d runs x %d checks in %s: %d passed, %d failed\n",
		report.Runs, report.Checks, report.Elapsed.Round(time.Millisecond), report.Passed(), len(report.Failures))
	for _, f := range report.Failures {
		fmt.Println("  " + f.Error())
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("%d checks failed", len(report.Failures))
	}
	return nil
}

func openHistory(cmd *cobra.Command) (*history.FileStore, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	store := history.NewFileStore(cfg.History.Dir, cfg.History.Limit)
	return store, store.Open()
}

func listHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	entries := store.Entries()
	if len(entries) == 0 {
		fmt.Println("history is empty")
	}
	for i, e := range entries {
		fmt.Printf("%3d  %s\n", i+1, e)
	}
	if l, ok := store.LastLanding(); ok {
		fmt.Printf("\nlanding: (%.1f, %.1f) from %s\n", l.Point.X, l.Point.Y, l.From)
	}
	return nil
}

func clearHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("history cleared")
	return nil
}

// mountController attaches a controller of cfg.Variant to the viewport
// flags on a virtual clock; nothing moves unless the caller dispatches.
func mountController(cfg *config.Config) (controller.Controller, error) {
	ctl, err := controller.New(cfg.Variant, cfg.PathOptions(), cfg.OrbitOptions(), controller.Deps{
		Scheduler:       clock.NewVirtual(time.Now()),
		Rand:            rand.New(rand.NewSource(seedOf(cfg))),
		Dwell:           cfg.DwellConfig(),
		TransitionDelay: cfg.TransitionDelay(),
	})
	if err != nil {
		return nil, err
	}
	if err := ctl.Attach(viewport(), nil); err != nil {
		ctl.Close()
		return nil, err
	}
	return ctl, nil
}

func inspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctl, err := mountController(cfg)
	if err != nil {
		return err
	}
	defer ctl.Close()

	godump.Dump(ctl.Snapshot())
	switch c := ctl.(type) {
	case *controller.PathController:
		p := c.Path()
		godump.Dump(struct {
			Samples int
			Length  float64
			Start   geom.Vec2
			End     geom.Vec2
		}{len(p.Samples), p.Length(), p.Start(), p.End()})
	case *controller.OrbitController:
		godump.Dump(c.Orbits())
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctl, err := mountController(cfg)
	if err != nil {
		return err
	}
	defer ctl.Close()

	scene := export.Scene{Viewport: viewport(), Snapshot: ctl.Snapshot()}
	switch c := ctl.(type) {
	case *controller.PathController:
		scene.Path = c.Path()
	case *controller.OrbitController:
		scene.Orbits = c.Orbits()
	}

	th := viz.GetTheme(theme)
	pal := export.Palette{
		Background: export.DefaultPalette.Background,
		Manifold:   string(th.Manifold),
		Handle:     string(th.Handle),
		Target:     string(th.Target),
		Text:       string(th.Text),
	}
	if err := os.WriteFile(args[0], []byte(export.SceneToSVG(scene, pal)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
