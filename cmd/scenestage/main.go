package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/scenestage/internal/automation"
	"github.com/san-kum/scenestage/internal/config"
	"github.com/san-kum/scenestage/internal/export"
	"github.com/san-kum/scenestage/internal/logging"
	"github.com/san-kum/scenestage/internal/reactive"
	"github.com/san-kum/scenestage/internal/scene"
	"github.com/san-kum/scenestage/internal/tui"
	"github.com/san-kum/scenestage/internal/viewport"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string
	theme      string
	enforce    string
	// script
	plot bool
	// snapshot
	format string
	output string
	// random
	numOps int
	seed   int64
)

// main registers the commands and flags, launches the interactive UI when no
// subcommand is given and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "scenestage",
		Short:        "track scenes and viewport state in the terminal",
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset scene list")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	rootCmd.PersistentFlags().StringVar(&enforce, "enforce", config.DefaultEnforce, "write enforcement (always, observed, never)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the interactive scene stage",
		Args:  cobra.NoArgs,
		RunE:  runInteractive,
	}

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "replay a yaml scenario against a fresh store",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&plot, "plot", false, "plot scene counts per step")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "export the store state, optionally after replaying a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVar(&format, "format", "json", "output format (json, yaml)")
	snapshotCmd.Flags().StringVarP(&output, "out", "o", "-", "output path, - for stdout")

	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "apply random operations and check the store invariants",
		Args:  cobra.NoArgs,
		RunE:  runRandom,
	}
	randomCmd.Flags().IntVar(&numOps, "ops", 1000, "number of operations")
	randomCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scenestage.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list color themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range tui.ThemeNames() {
				fmt.Println(name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scene presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d scenes\tadd %s\n", name, len(p.Scenes.Seed), p.Scenes.AddURL)
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, scriptCmd, snapshotCmd, randomCmd, configCmd, themesCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by every command: one runtime, one store and the
// window the store syncs its dimensions from.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	rt     *reactive.Runtime
	store  *scene.Store
	window *viewport.Window
}

// setup resolves the configuration (preset, then config file, then changed
// flags) and builds the store. Headless commands log to stderr when no log
// file is set; the interactive UI owns the terminal and discards instead.
func setup(cmd *cobra.Command, headless bool) (*app, error) {
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

	flags := cmd.Flags()
	if flags.Changed("log-level") || cfg.Log.Level == "" {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("theme") || cfg.UI.Theme == "" {
		cfg.UI.Theme = theme
	}
	if flags.Changed("enforce") || cfg.Reactive.Enforce == "" {
		cfg.Reactive.Enforce = enforce
	}

	logOpts := logging.Options{Level: cfg.Log.Level, File: cfg.Log.File}
	if headless {
		logOpts.Writer = os.Stderr
	}
	logger, closer, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}

	mode, err := reactive.ParseEnforceMode(cfg.Reactive.Enforce)
	if err != nil {
		closer.Close()
		return nil, err
	}

	rt := reactive.New(reactive.WithEnforceMode(mode), reactive.WithLogger(logger))
	st, err := scene.New(rt, scene.WithLogger(logger), scene.WithSeedScenes(cfg.Scenes.Seed...))
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to seed scenes: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		closer: closer,
		rt:     rt,
		store:  st,
		window: viewport.NewWindow(rt),
	}, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	a.logger.Info("starting interactive stage", "scenes", len(a.cfg.Scenes.Seed), "enforce", a.rt.EnforceMode())
	return tui.Run(tui.Options{
		Store:  a.store,
		Window: a.window,
		AddURL: a.cfg.Scenes.AddURL,
		Theme:  tui.GetTheme(a.cfg.UI.Theme),
		Logger: a.logger,
	})
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}

	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	start := time.Now()
	report, err := automation.RunScenario(context.Background(), scenario, a.store, a.window, a.logger)
	printReport(report)
	if err != nil {
		return err
	}
	fmt.Printf("\ncompleted %d steps in %v\n", len(report.Steps), time.Since(start))

	if plot && len(report.Steps) > 1 {
		fmt.Println()
		fmt.Println(plotCounts(report))
	}
	return nil
}

func printReport(report *automation.Report) {
	if report == nil {
		return
	}
	if report.Scenario != "" {
		fmt.Printf("scenario: %s\n\n", report.Scenario)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tOP\tTARGET\tSCENES\tLOADED\tSHOWN\tRESULT")
	for _, r := range report.Steps {
		target := r.Step.URL
		if r.Step.Op == automation.OpResize {
			target = fmt.Sprintf("%dx%d", r.Step.Width, r.Step.Height)
		}
		result := "ok"
		if r.Err != nil {
			result = r.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.Index+1, r.Step.Op, target, r.Counts.Scenes, r.Counts.Loaded, r.Counts.Shown, result)
	}
	w.Flush()

	final := report.Final
	current := final.CurrentScene
	if current == "" {
		current = "none"
	}
	fmt.Printf("\ncurrent scene: %s\n", current)
	if final.Width > 0 {
		fmt.Printf("dimensions: %dx%d\n", final.Width, final.Height)
	}
}

func plotCounts(report *automation.Report) string {
	scenes := make([]float64, len(report.Steps))
	loaded := make([]float64, len(report.Steps))
	shown := make([]float64, len(report.Steps))
	for i, r := range report.Steps {
		scenes[i] = float64(r.Counts.Scenes)
		loaded[i] = float64(r.Counts.Loaded)
		shown[i] = float64(r.Counts.Shown)
	}
	return asciigraph.PlotMany([][]float64{scenes, loaded, shown},
		asciigraph.Height(8),
		asciigraph.Precision(0),
		asciigraph.Caption("scenes / loaded / shown per step"),
	)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	if len(args) == 1 {
		scenario, err := automation.LoadScenario(args[0])
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		if _, err := automation.RunScenario(context.Background(), scenario, a.store, a.window, a.logger); err != nil {
			return err
		}
	}

	return export.WriteFile(output, f, a.store.Snapshot())
}

func runRandom(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.closer.Close()

	urls := append([]string{a.cfg.Scenes.AddURL}, a.cfg.Scenes.Seed...)
	urls = append(urls, "https://example.com/a", "https://example.com/b")

	cfg := &automation.RandomConfig{
		URLs:     urls,
		NumOps:   numOps,
		Seed:     seed,
		Viewport: viewport.Size{Width: 80, Height: 24},
	}
	res, err := automation.RunRandom(context.Background(), cfg, a.store, a.window)
	if err != nil {
		return err
	}

	counts := res.Final.Counts()
	fmt.Printf("ops: %d (seed %d)\n", res.Ops, seed)
	for _, op := range []automation.Op{automation.OpAdd, automation.OpLoad, automation.OpShow} {
		fmt.Printf("  %s failures: %d\n", op, res.Failures[op])
	}
	fmt.Printf("scenes: %d loaded: %d shown: %d\n", counts.Scenes, counts.Loaded, counts.Shown)
	fmt.Println("invariants held")
	return nil
}
