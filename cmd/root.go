package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/record"
	"github.com/valuation-lab/rerate-sim/sim/render"
	"github.com/valuation-lab/rerate-sim/sim/trace"
)

const (
	envDBPath = "RERATE_DB"   // default for --db
	envAddr   = "RERATE_ADDR" // default for --addr
)

var (
	logLevel string // Log verbosity level

	// CLI flags for a single run
	seed       int64         // Seed for the fundamental path shocks
	csvPath    string        // Output path for the per-step series CSV
	jsonPath   string        // Output path for the JSON document
	dbPath     string        // SQLite recorder path; empty disables recording
	traceLevel string        // Shock trace verbosity
	runFlags   scenarioFlags // Scenario selection and overrides
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rerate-sim",
	Short: "Stochastic market re-rating simulator",
	Long: `rerate-sim simulates a fundamental (book value) path by geometric Brownian motion
and compares a baseline valuation multiple against a policy-driven re-rating.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes one simulation with the given scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one re-rating simulation",
	Run: func(cmd *cobra.Command, args []string) {
		if err := executeRun(cmd, os.Stdout); err != nil {
			logrus.Fatalf("run failed: %v", err)
		}
	},
}

// executeRun resolves the scenario, runs it and writes every requested output.
func executeRun(cmd *cobra.Command, out io.Writer) error {
	cfg, err := runFlags.resolve(cmd)
	if err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(traceLevel) {
		return fmt.Errorf("unknown trace level %q (valid: none, shocks)", traceLevel)
	}

	logrus.Infof("run: seed=%d steps=%d policy_steps=%d", seed, cfg.TotalSteps(), cfg.PolicySteps())

	pathTrace := trace.NewPathTrace(trace.TraceLevel(traceLevel))
	res, err := sim.Run(cfg, sim.NewRunRNG(seed), sim.WithTrace(pathTrace))
	if err != nil {
		return err
	}

	if err := render.WriteSummary(out, res); err != nil {
		return err
	}
	if pathTrace.Enabled() {
		writeTraceSummary(out, trace.Summarize(pathTrace))
	}

	if csvPath != "" {
		if err := writeFile(csvPath, func(w io.Writer) error { return render.WriteSeriesCSV(w, res) }); err != nil {
			return err
		}
		logrus.Infof("series written to %s", csvPath)
	}
	if jsonPath != "" {
		if err := writeFile(jsonPath, func(w io.Writer) error { return render.WriteJSON(w, res) }); err != nil {
			return err
		}
		logrus.Infof("JSON written to %s", jsonPath)
	}

	path := recorderPath(cmd, dbPath)
	if path == "" {
		return nil
	}
	rec, err := record.NewSQLiteRecorder(path)
	if err != nil {
		return err
	}
	defer rec.Close()
	id, err := rec.RecordRun(seed, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Recorded run %s in %s\n", id, path)
	return nil
}

func writeTraceSummary(out io.Writer, s *trace.TraceSummary) {
	fmt.Fprintln(out, "=== Shock Trace ===")
	fmt.Fprintf(out, "Traced steps: %d\n", s.Steps)
	fmt.Fprintf(out, "Growth factor range: [%.6f, %.6f]\n", s.MinFactor, s.MaxFactor)
	fmt.Fprintf(out, "Largest |shock|: %.4f\n", s.MaxAbsShock)
	if s.FirstNonPositive >= 0 {
		fmt.Fprintf(out, "Non-positive BPS steps: %d (first at step %d)\n", s.NonPositiveSteps, s.FirstNonPositive)
	}
	if s.ClampedSteps > 0 {
		fmt.Fprintf(out, "Clamped steps: %d\n", s.ClampedSteps)
	}
}

// writeFile creates path and streams write into it, reporting close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// recorderPath returns the --db value, falling back to RERATE_DB when the flag was not set.
func recorderPath(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("db") {
		return flagValue
	}
	return envOr(envDBPath, flagValue)
}

// envOr returns the environment value of key, or fallback when unset or blank.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Execute runs the CLI root command
func Execute() {
	// .env is optional; variables already in the environment win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("ignoring .env: %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runFlags.register(runCmd.Flags())
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the fundamental path shocks")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write the per-step series to this CSV file")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "Write summary and series to this JSON file")
	runCmd.Flags().StringVar(&dbPath, "db", "", "Record the run in this SQLite database (default $"+envDBPath+")")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Shock trace level (none, shocks)")

	rootCmd.AddCommand(runCmd)
}
