package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/valuation-lab/rerate-sim/sim/batch"
	"github.com/valuation-lab/rerate-sim/sim/record"
	"github.com/valuation-lab/rerate-sim/sim/render"
)

var (
	// CLI flags for Monte Carlo batches
	batchSeed    int64         // Master seed; run i uses a source derived from it
	batchRuns    int           // Number of independent paths
	batchWorkers int           // Concurrent workers (0 = GOMAXPROCS)
	batchSweep   []float64     // Target multipliers for a sensitivity sweep
	batchDBPath  string        // SQLite recorder path
	batchFlags   scenarioFlags // Scenario selection and overrides
)

// batchCmd runs many independent simulations and reports their distribution
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a Monte Carlo batch or a target-multiplier sweep",
	Run: func(cmd *cobra.Command, args []string) {
		if err := executeBatch(cmd, os.Stdout); err != nil {
			logrus.Fatalf("batch failed: %v", err)
		}
	},
}

func executeBatch(cmd *cobra.Command, out io.Writer) error {
	cfg, err := batchFlags.resolve(cmd)
	if err != nil {
		return err
	}
	bc := batch.BatchConfig{Seed: batchSeed, Runs: batchRuns, Workers: batchWorkers}
	if err := bc.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(batchSweep) > 0 {
		points, err := batch.Sweep(ctx, cfg, bc, batchSweep)
		if err != nil {
			return err
		}
		return render.WriteSweep(out, points)
	}

	res, err := batch.Run(ctx, cfg, bc)
	if err != nil {
		return err
	}
	if err := render.WriteBatchSummary(out, res); err != nil {
		return err
	}

	path := recorderPath(cmd, batchDBPath)
	if path == "" {
		return nil
	}
	rec, err := record.NewSQLiteRecorder(path)
	if err != nil {
		return err
	}
	defer rec.Close()
	id, err := rec.RecordBatch(res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Recorded batch %s in %s\n", id, path)
	return nil
}

func init() {
	batchFlags.register(batchCmd.Flags())
	batchCmd.Flags().Int64Var(&batchSeed, "seed", 42, "Master seed for the batch")
	batchCmd.Flags().IntVar(&batchRuns, "runs", 1000, "Number of independent simulations")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Concurrent workers (0 = GOMAXPROCS)")
	batchCmd.Flags().Float64SliceVar(&batchSweep, "sweep", nil, "Comma-separated target multipliers; runs one batch per target")
	batchCmd.Flags().StringVar(&batchDBPath, "db", "", "Record the batch aggregate in this SQLite database (default $"+envDBPath+")")

	rootCmd.AddCommand(batchCmd)
}
