package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/valuation-lab/rerate-sim/sim/record"
)

var (
	historyDBPath  string // SQLite recorder path
	historyLimit   int    // Maximum rows per table
	historyBatches bool   // List batches instead of single runs
)

// historyCmd prints recently recorded runs or batches
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded runs and batches",
	Run: func(cmd *cobra.Command, args []string) {
		path := recorderPath(cmd, historyDBPath)
		if path == "" {
			logrus.Fatalf("no database: pass --db or set %s", envDBPath)
		}
		rec, err := record.NewSQLiteRecorder(path)
		if err != nil {
			logrus.Fatalf("opening recorder: %v", err)
		}
		defer rec.Close()
		if err := writeHistory(os.Stdout, rec, historyLimit, historyBatches); err != nil {
			logrus.Fatalf("reading history: %v", err)
		}
	},
}

func writeHistory(out io.Writer, rec record.Recorder, limit int, batches bool) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if batches {
		rows, err := rec.ListBatches(limit)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tCREATED\tRUNS\tSEED\tTARGET\tMEAN DIFF\tP5 DIFF\tP95 DIFF\tP(ABOVE)")
		for _, b := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\t%.2f\t%.2f\t%.2f\t%.3f\n",
				b.ID, b.CreatedAt.Format(time.RFC3339), b.Batch.Runs, b.Batch.Seed, b.Config.TargetMultiplier,
				b.MeanDifference, b.P5Difference, b.P95Difference, b.ProbPolicyAbove)
		}
		return tw.Flush()
	}

	rows, err := rec.ListRuns(limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(tw, "ID\tCREATED\tSEED\tPBR\tFINAL BASELINE\tFINAL POLICY\tDIFF")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f -> %.2f\t%.2f\t%.2f\t%.2f\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Seed, r.Config.InitialMultiplier, r.Config.TargetMultiplier,
			r.Summary.FinalBaseline, r.Summary.FinalPolicy, r.Summary.Difference)
	}
	return tw.Flush()
}

func init() {
	historyCmd.Flags().StringVar(&historyDBPath, "db", "", "SQLite database written by run/batch --db (default $"+envDBPath+")")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of rows")
	historyCmd.Flags().BoolVar(&historyBatches, "batches", false, "List batch aggregates instead of single runs")
	rootCmd.AddCommand(historyCmd)
}
