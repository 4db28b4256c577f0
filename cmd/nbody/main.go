package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	dt         float64
	steps      int
	workers    int
	every      int
	gravity    float64
	noSave     bool
	speed      int
	epsilon    float64
	renorm     int
	svgWidth   int
	sweepDts   []float64
	outFile    string

	benchN       int
	benchSteps   int
	benchWorkers int

	trials       int
	perturbation float64
	seed         int64
	escape       float64
)

// main registers the commands and runs the root command, exiting with
// status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "nbody",
		Short:         "n-dimensional gravitational n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nbody", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a bounded simulation and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 0, "record every n-th step (default from scenario)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	traceCmd := &cobra.Command{
		Use:   "trace [preset]",
		Short: "print body positions before every step (--steps 0 runs until interrupted)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  traceSimulation,
	}
	scenarioFlags(traceCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "animate a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&speed, "speed", 10, "steps per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "compare time steps over the same simulated interval",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepDts, "dts", nil, "time steps to compare (default dt, dt/2, dt/4, dt/8)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [preset]",
		Short: "estimate the largest Lyapunov exponent of a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLyapunov,
	}
	scenarioFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&epsilon, "epsilon", 1e-8, "initial separation")
	lyapunovCmd.Flags().IntVar(&renorm, "renormalize", 10, "steps between renormalizations")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body coordinates of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and trajectory as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the body paths of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "size", 800, "image width and height in pixels")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [preset]",
		Short: "print a scenario as YAML, as a starting point for --config",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printScenario,
	}
	scenarioFlags(scenarioCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time steps of random 3D bodies with increasing worker counts",
		Args:  cobra.NoArgs,
		RunE:  benchStep,
	}
	benchCmd.Flags().IntVar(&benchN, "bodies", 512, "number of bodies")
	benchCmd.Flags().IntVar(&benchSteps, "steps", 20, "steps per measurement")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "largest worker count (0 = all CPUs)")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run and store every scenario of a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "count perturbed copies of a scenario that stay bound",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	scenarioFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of perturbed runs")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 0.01, "relative perturbation of positions and velocities")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	monteCarloCmd.Flags().Float64Var(&escape, "escape", 10, "escape radius in multiples of the initial extent")

	rootCmd.AddCommand(runCmd, traceCmd, liveCmd, sweepCmd, lyapunovCmd, listCmd, plotCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, scenarioCmd, benchCmd, batchCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "time step (default from scenario)")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (default from scenario)")
	cmd.Flags().IntVar(&workers, "workers", 0, "goroutines for the force phase, 1 = serial (default from scenario)")
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravitational constant (default from scenario)")
}
