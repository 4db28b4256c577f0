package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/Phwatang/basic-n-body-simulation/internal/automation"
	"github.com/Phwatang/basic-n-body-simulation/internal/config"
	"github.com/Phwatang/basic-n-body-simulation/internal/experiment"
	"github.com/Phwatang/basic-n-body-simulation/internal/export"
	"github.com/Phwatang/basic-n-body-simulation/internal/storage"
	"github.com/Phwatang/basic-n-body-simulation/internal/viz"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("simulating %s: %d bodies in %dD, %d steps of %g\n",
		cfg.Name, len(cfg.Bodies), cfg.Dimensions, cfg.Steps, cfg.Dt)

	out, runErr := experiment.Run(ctx, cfg)
	if out == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("stopped after %d steps: %v\n", out.StepsTaken, runErr)
	}

	fmt.Printf("done: t=%g in %v\n\n", out.Time, out.Elapsed.Round(time.Millisecond))
	printMetrics(out.Metrics)

	if !noSave {
		runID, err := saveRun(cfg, out)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved run %s (%d samples)\n", runID, len(out.Rows))
	}

	return runErr
}

func saveRun(cfg *config.Config, out *experiment.Outcome) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.RunMetadata{
		Name:       cfg.Name,
		Dimensions: cfg.Dimensions,
		Bodies:     len(cfg.Bodies),
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		StepsTaken: out.StepsTaken,
		Gravity:    cfg.Gravity,
		Workers:    cfg.Workers,
		Elapsed:    out.Elapsed,
		Metrics:    out.Metrics,
	}, cfg, out.Header, out.Rows)
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if b.Description != "" {
		fmt.Printf("%s: %s\n", b.Name, b.Description)
	}
	results, runErr := automation.RunBatch(ctx, b, os.Stdout)

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tDT\tSTEPS\tENERGY DRIFT\tRUN ID")
	for _, r := range results {
		runID := "-"
		if !noSave {
			if runID, err = saveRun(r.Scenario, r.Outcome); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%.3e\t%s\n", r.Scenario.Name, len(r.Scenario.Bodies),
			r.Scenario.Dt, r.Outcome.StepsTaken, r.Outcome.Metrics["energy_drift"], runID)
	}
	w.Flush()

	return runErr
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	mc := automation.MonteCarloConfig{
		Perturbation: perturbation,
		Trials:       trials,
		Seed:         seed,
		EscapeFactor: escape,
		Workers:      runtime.GOMAXPROCS(0),
	}
	fmt.Printf("%s: %d trials, perturbation %g, %d steps of %g\n",
		cfg.Name, mc.Trials, mc.Perturbation, cfg.Steps, cfg.Dt)

	results, err := automation.RunMonteCarlo(ctx, cfg, mc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSTABLE\tENERGY DRIFT\tNOTE")
	for _, r := range results {
		note := ""
		drift := math.NaN()
		if r.Err != nil {
			note = r.Err.Error()
		}
		if r.Outcome != nil {
			drift = r.Outcome.Metrics["energy_drift"]
		}
		fmt.Fprintf(w, "%d\t%v\t%.3e\t%s\n", r.Trial, r.Stable, drift, note)
	}
	w.Flush()

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d  (%.1f%% stable)\n",
		stable, unstable, 100*float64(stable)/float64(len(results)))
	return nil
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, metrics[name])
	}
	w.Flush()
}

func traceSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	err = experiment.Trace(ctx, cfg, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	src, err := experiment.NewSource(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(src, cfg.Name, speed), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	dts := sweepDts
	if len(dts) == 0 {
		dts = []float64{cfg.Dt, cfg.Dt / 2, cfg.Dt / 4, cfg.Dt / 8}
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s to t=%g\n\n", cfg.Name, float64(cfg.Steps)*cfg.Dt)
	points, err := experiment.Sweep(ctx, cfg, dts)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tMOMENTUM DRIFT\tDEVIATION")
	for _, p := range points {
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\t%.3e\n",
			p.Dt, p.Steps, p.Metrics["energy_drift"], p.Metrics["momentum_drift"], p.Deviation)
	}
	return w.Flush()
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	lambda, err := experiment.Lyapunov(ctx, cfg, epsilon, renorm)
	if err != nil {
		return err
	}
	fmt.Printf("%s: largest lyapunov exponent %.4g over t=%g\n", cfg.Name, lambda, float64(cfg.Steps)*cfg.Dt)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tDIM\tBODIES\tDT\tSTEPS\tENERGY DRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%d/%d\t%.3e\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Dimensions,
			run.Bodies,
			run.Dt,
			run.StepsTaken,
			run.Steps,
			run.Metrics["energy_drift"],
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
	header, rows, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", runID)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s (%d bodies in %dD)\n", meta.Name, meta.Bodies, meta.Dimensions)
	fmt.Printf("samples: %d\n\n", len(rows))

	const maxPlots = 6
	plotted := 0
	for b := 0; b < meta.Bodies && plotted < maxPlots; b++ {
		for k := 0; k < meta.Dimensions && plotted < maxPlots; k++ {
			name := fmt.Sprintf("b%d_x%d", b, k)
			data := storage.Column(header, rows, name)
			if data == nil {
				continue
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("body %d, coordinate %d", b+1, k)),
			)
			fmt.Println(graph)
			fmt.Println()
			plotted++
		}
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportCSV(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	header, rows, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	w, closeFn, err := output()
	if err != nil {
		return err
	}
	paths := export.Paths(header, rows, meta.Bodies, meta.Dimensions)
	if err := export.TrajectorySVG(w, paths, svgWidth, svgWidth); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tBODIES\tG\tDT\tSTEPS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%g\t%d\n", name, p.Dimensions, len(p.Bodies), p.Gravity, p.Dt, p.Steps)
	}
	return w.Flush()
}

func printScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	return cfg.Encode(os.Stdout)
}

func benchStep(cmd *cobra.Command, args []string) error {
	maxWorkers := benchWorkers
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}

	fmt.Printf("benchmarking %d bodies in 3D, %d steps per run\n\n", benchN, benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WORKERS\tTOTAL\tPER STEP\tPAIRS/SEC\tSPEEDUP")

	pairs := float64(benchN) * float64(benchN-1) / 2
	var serial time.Duration
	for n := 1; ; n *= 2 {
		n = min(n, maxWorkers)
		r, err := experiment.Bench(benchN, n, benchSteps, 1)
		if err != nil {
			return err
		}
		if n == 1 {
			serial = r.Elapsed
		}
		fmt.Fprintf(w, "%d\t%v\t%v\t%.3g\t%.2fx\n",
			r.Workers,
			r.Elapsed.Round(time.Microsecond),
			r.PerStep().Round(time.Microsecond),
			pairs*float64(r.Steps)/r.Elapsed.Seconds(),
			serial.Seconds()/r.Elapsed.Seconds(),
		)
		if n >= maxWorkers {
			break
		}
	}
	return w.Flush()
}
