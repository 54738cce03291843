package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/portalsim/internal/analysis"
	"github.com/san-kum/portalsim/internal/automation"
	"github.com/san-kum/portalsim/internal/config"
	"github.com/san-kum/portalsim/internal/experiment"
	"github.com/san-kum/portalsim/internal/export"
	"github.com/san-kum/portalsim/internal/graph"
	"github.com/san-kum/portalsim/internal/gui"
	"github.com/san-kum/portalsim/internal/sim"
	"github.com/san-kum/portalsim/internal/storage"
	"github.com/san-kum/portalsim/internal/surface"
	"github.com/san-kum/portalsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	frameRate  int
	logFile    string
	theme      string

	frames     int
	pointer    string
	clickEvery int
	format     string
	outFile    string
	glow       bool

	numRuns int
	noSave  bool
	column  string

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "portalsim",
		Short:        "generative research portal background",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".portalsim", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 = time based)")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the portal in the terminal",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&logFile, "log", "", "write diagnostics to this file")
		c.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the portal in a desktop window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render frames headless and write an image",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate before capture")
	snapshotCmd.Flags().StringVar(&pointer, "pointer", "orbit", "pointer path")
	snapshotCmd.Flags().IntVar(&clickEvery, "click-every", 0, "click every n frames (0 = never)")
	snapshotCmd.Flags().StringVar(&format, "format", "png", "output format (png, svg, braille)")
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default portal.<format>)")
	snapshotCmd.Flags().BoolVar(&glow, "glow", true, "soft glow in png output")

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "settle the concept graph and draw it",
		RunE:  runGraph,
	}
	graphCmd.Flags().StringVarP(&outFile, "out", "o", "", "write svg to file instead of printing")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run a seeded headless ensemble",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&numRuns, "runs", 4, "number of runs")
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	benchCmd.Flags().StringVar(&pointer, "pointer", "orbit", "pointer path")
	benchCmd.Flags().IntVar(&clickEvery, "click-every", 60, "click every n frames (0 = never)")
	benchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "particles", "frame column to plot")
	plotCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the series as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "particles", "frame column to analyze")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "replay a scripted input scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one parameter (" + strings.Join(automation.SweepParams(), ", ") + ")",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&frames, "frames", 300, "frames per run")
	sweepCmd.Flags().StringVar(&pointer, "pointer", "orbit", "pointer path")
	sweepCmd.Flags().IntVar(&clickEvery, "click-every", 30, "click every n frames (0 = never)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, snapshotCmd, graphCmd, benchCmd, listCmd, plotCmd, analyzeCmd, scriptCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults, then a preset, then a config file, then
// any flag the user actually set.
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

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if f := flags.Lookup("theme"); f != nil && f.Changed {
		cfg.Theme = theme
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if logFile != "" {
		f, err := tea.LogToFile(logFile, "portalsim")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m, err := viz.NewModel(cfg, nil)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = p.Run()
	return err
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outFile == "" {
		ext := format
		if ext == "braille" {
			ext = "svg"
		}
		outFile = "portal." + ext
	}

	expCfg := experiment.Config{Portal: cfg, Frames: frames, Seed: cfg.Seed, Pointer: pointer, ClickEvery: clickEvery}
	ctx, cancel := signalContext()
	defer cancel()

	write, res, err := renderSnapshot(ctx, expCfg, format, glow)
	if err != nil {
		return err
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", outFile, err)
	}

	fmt.Printf("frames: %d  particles: %d  fragments: %d\n", len(res.Frames), lastParticles(res), res.Fragments)
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

// renderSnapshot runs the experiment into layers of the given format and
// returns a writer for the composed image. Nothing is written until the
// caller invokes it.
func renderSnapshot(ctx context.Context, expCfg experiment.Config, format string, glow bool) (func(io.Writer) error, *experiment.Result, error) {
	cfg := expCfg.Portal
	var (
		layers sim.Layers
		write  func(io.Writer) error
	)
	switch format {
	case "png":
		pts := export.NewRasterSurface(cfg.Width, cfg.Height, glow)
		ter := export.NewRasterSurface(cfg.Width, cfg.Height, glow)
		par := export.NewRasterSurface(cfg.Width, cfg.Height, glow)
		layers = sim.Layers{Points: pts, Terrain: ter, Particles: par}
		write = func(w io.Writer) error { return export.WritePNG(w, surface.Void, ter, pts, par) }
	case "svg":
		pts := export.NewSVGSurface(cfg.Width, cfg.Height)
		ter := export.NewSVGSurface(cfg.Width, cfg.Height)
		par := export.NewSVGSurface(cfg.Width, cfg.Height)
		layers = sim.Layers{Points: pts, Terrain: ter, Particles: par}
		write = func(w io.Writer) error { return export.WriteSVG(w, surface.Void, ter, pts, par) }
	case "braille":
		scale := cfg.CellPixels
		pts, ter, par := viz.NewLayer(scale), viz.NewLayer(scale), viz.NewLayer(scale)
		layers = sim.Layers{Points: pts, Terrain: ter, Particles: par}
		write = func(w io.Writer) error {
			screen := viz.NewCanvas(viz.CellsFor(cfg.Width, cfg.Height, scale))
			viz.Compose(screen, ter, pts, par)
			_, err := io.WriteString(w, export.CanvasToSVG(screen, 4, surface.Void))
			return err
		}
	default:
		return nil, nil, fmt.Errorf("unknown format: %s (png, svg, braille)", format)
	}
	res, err := runExperiment(ctx, expCfg, layers)
	if err != nil {
		return nil, nil, err
	}
	return write, res, nil
}

func runExperiment(ctx context.Context, cfg experiment.Config, layers sim.Layers) (*experiment.Result, error) {
	exp, err := experiment.New(cfg, layers)
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func lastParticles(res *experiment.Result) int {
	if len(res.Frames) == 0 {
		return 0
	}
	return res.Frames[len(res.Frames)-1].Particles
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rng := newRand(cfg.Seed)
	layout := graph.Default(float64(cfg.Width), float64(cfg.Height), rng)

	ctx, cancel := signalContext()
	defer cancel()
	if err := layout.Run(ctx); err != nil {
		return err
	}

	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.GraphSVG(f, layout, cfg.Width, cfg.Height); err != nil {
			return err
		}
		fmt.Printf("settled after %d ticks, wrote %s\n", layout.Ticks(), outFile)
		return nil
	}

	layer := viz.NewLayer(cfg.CellPixels)
	layer.Resize(cfg.Width, cfg.Height)
	layout.Render(layer)
	fmt.Print(layer.Canvas().Render(viz.GetTheme(cfg.Theme)))
	fmt.Printf("\nsettled after %d ticks\n", layout.Ticks())
	for _, g := range graph.Groups {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(g.Color.Hex())).Render("●")
		fmt.Printf("  %s %s\n", dot, g.Name)
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	ens := experiment.NewEnsemble(experiment.Config{
		Portal:     cfg,
		Frames:     frames,
		Pointer:    pointer,
		ClickEvery: clickEvery,
	}, numRuns, cfg.Seed)
	results, err := ens.Run(ctx)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tPEAK\tMEAN\tEDGES\tFRAGMENTS\tFRAME MS\tID")
	for _, res := range results {
		id := "-"
		if !noSave {
			meta := storage.RunMetadata{
				Preset:  preset,
				FPS:     cfg.FPS,
				Width:   cfg.Width,
				Height:  cfg.Height,
				Pointer: pointer,
			}
			if id, err = st.Save(meta, res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%.0f\t%.1f\t%.3f\t%d\t%.3f\t%s\n",
			res.Seed,
			len(res.Frames),
			res.Metrics["peak_particles"],
			res.Metrics["mean_particles"],
			res.Metrics["edge_density"],
			res.Fragments,
			res.Metrics["frame_ms"],
			id,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\nmean over runs:")
	summary := experiment.Summary(results)
	for _, name := range sortedKeys(summary) {
		fmt.Printf("  %-15s %.4f\n", name, summary[name])
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tFRAMES\tPOINTER\tFRAGMENTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Frames,
			run.Pointer,
			run.Fragments,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	data, err := storage.Series(rows, column)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  seed: %d\n", meta.Preset, meta.Seed)
	fmt.Printf("samples: %d\n\n", len(data))
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(column+" per frame"),
	))

	if outFile != "" {
		svg := export.SeriesToSVG(data, 800, 300, "#00ffaa")
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outFile)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	data, err := storage.Series(rows, column)
	if err != nil {
		return err
	}
	ps, err := analysis.Analyze(data, meta.FPS)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s  samples: %d\n\n", column, len(data))

	plotData := ps.Power
	if len(plotData) > 8 {
		plotData = plotData[:len(plotData)/4]
	}
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum ("+column+")"),
	))
	fmt.Println()

	if ps.Bin == 0 {
		fmt.Println("no periodic component")
		return nil
	}
	fmt.Printf("dominant frequency: %.3f hz\n", ps.FrequencyHz)
	fmt.Printf("period: %.1f frames\n", ps.PeriodFrames)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Preset != "" && !cmd.Flags().Changed("preset") {
		preset = sc.Preset
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if sc.Seed != 0 && !cmd.Flags().Changed("seed") {
		cfg.Seed = sc.Seed
	}

	ctx, cancel := signalContext()
	defer cancel()
	rep, err := automation.RunScenario(ctx, sc, cfg, os.Stdout)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\nframes\t%d\n", rep.Frames)
	fmt.Fprintf(w, "skipped\t%d\n", rep.Skipped)
	fmt.Fprintf(w, "particles\t%d\n", rep.Particles)
	fmt.Fprintf(w, "fragments\t%d\n", rep.Fragments)
	fmt.Fprintf(w, "ripples\t%d\n", rep.Ripples)
	fmt.Fprintf(w, "popups\t%d\n", rep.Popups)
	fmt.Fprintf(w, "drones\t%d\n", rep.Drones)
	fmt.Fprintf(w, "planet\t%s\n", rep.Planet)
	fmt.Fprintf(w, "coordinates\t%s\n", rep.Coordinates)
	fmt.Fprintf(w, "viewport\t%dx%d\n", rep.Viewport.Width, rep.Viewport.Height)
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Param:      args[0],
		Min:        sweepMin,
		Max:        sweepMax,
		NumSteps:   sweepSteps,
		Frames:     frames,
		Pointer:    pointer,
		ClickEvery: clickEvery,
		Seed:       cfg.Seed,
	}, cfg, os.Stderr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN\tPEAK\tEDGES\tFRAGMENTS\n", strings.ToUpper(args[0]))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.1f\t%.0f\t%.3f\t%d\n", r.ParamValue, r.MeanParticles, r.PeakParticles, r.EdgeDensity, r.Fragments)
	}
	return w.Flush()
}
