// Package render presents simulation results. It is the only place that
// formats numbers for humans or files; sim/ never prints.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
)

// level formats an index or fundamental value to two decimals.
func level(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

// multiple formats a valuation multiplier to three decimals.
func multiple(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(3)
}

func percent(x float64) string {
	return decimal.NewFromFloat(x * 100).StringFixed(2) + "%"
}

// WriteSummary prints a human-readable summary of one run.
func WriteSummary(w io.Writer, res *sim.Result) error {
	s := res.Summary
	lines := []struct{ label, value string }{
		{"Initial index level", level(s.InitialIndexLevel)},
		{"Initial BPS", level(s.InitialBPS)},
		{"Initial multiplier (PBR)", multiple(s.InitialMultiplier)},
		{"Target multiplier (PBR)", multiple(s.TargetMultiplier)},
		{"Policy horizon", fmt.Sprintf("%d years (%d of %d steps)", s.PolicyYears, s.PolicySteps, s.TotalSteps)},
		{"Final fundamental (BPS)", level(s.FinalFundamental)},
		{"Final baseline index", level(s.FinalBaseline)},
		{"Final policy index", level(s.FinalPolicy)},
		{"Difference at horizon", level(s.Difference)},
		{"Relative uplift", percent(s.RelativeUplift)},
	}
	if _, err := fmt.Fprintln(w, "=== Re-rating Simulation Summary ==="); err != nil {
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-26s: %s\n", l.label, l.value); err != nil {
			return err
		}
	}
	if s.NonPositiveSteps > 0 {
		if _, err := fmt.Fprintf(w, "%-26s: %d (min %s)\n", "Non-positive BPS steps", s.NonPositiveSteps, level(s.MinFundamental)); err != nil {
			return err
		}
	}
	return nil
}

// SeriesHeader is the header row written by WriteSeriesCSV.
var SeriesHeader = []string{
	"step",
	"year",
	"fundamental",
	"baseline_multiplier",
	"policy_multiplier",
	"baseline",
	"policy",
}

// WriteSeriesCSV writes one row per step with the time axis and every series of the run.
func WriteSeriesCSV(w io.Writer, res *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SeriesHeader); err != nil {
		return err
	}
	for i := range res.Fundamental {
		row := []string{
			strconv.Itoa(i),
			fmtFloat(res.TimeAxis[i]),
			fmtFloat(res.Fundamental[i]),
			fmtFloat(res.BaselineMultiplier[i]),
			fmtFloat(res.PolicyMultiplier[i]),
			fmtFloat(res.Baseline[i]),
			fmtFloat(res.Policy[i]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// RunDocument is the JSON shape of one run.
type RunDocument struct {
	Config  sim.SimulationConfig `json:"config"`
	Summary sim.SummaryReport    `json:"summary"`
	Series  *SeriesDocument      `json:"series,omitempty"`
}

// SeriesDocument carries the raw series of a run.
type SeriesDocument struct {
	TimeAxis    []float64 `json:"time_axis"`
	Fundamental []float64 `json:"fundamental"`
	Baseline    []float64 `json:"baseline"`
	Policy      []float64 `json:"policy"`
}

// NewRunDocument builds the JSON document of a run, optionally with the series.
func NewRunDocument(res *sim.Result, includeSeries bool) RunDocument {
	doc := RunDocument{Config: res.Config, Summary: res.Summary}
	if includeSeries {
		doc.Series = &SeriesDocument{
			TimeAxis:    res.TimeAxis,
			Fundamental: res.Fundamental,
			Baseline:    res.Baseline,
			Policy:      res.Policy,
		}
	}
	return doc
}

// WriteJSON writes the run (summary and series) as indented JSON.
func WriteJSON(w io.Writer, res *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewRunDocument(res, true))
}

// WriteBatchSummary prints the aggregate of a Monte Carlo batch.
func WriteBatchSummary(w io.Writer, res *batch.BatchResult) error {
	if _, err := fmt.Fprintf(w, "=== Batch Summary (%d runs, seed %d, target %s) ===\n",
		res.Batch.Runs, res.Batch.Seed, multiple(res.Config.TargetMultiplier)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-16s %12s %12s %12s %12s %12s\n", "", "mean", "std", "p5", "p50", "p95"); err != nil {
		return err
	}
	for _, row := range []struct {
		name string
		d    batch.Distribution
	}{
		{"final baseline", res.FinalBaseline},
		{"final policy", res.FinalPolicy},
		{"difference", res.Difference},
	} {
		if _, err := fmt.Fprintf(w, "%-16s %12s %12s %12s %12s %12s\n", row.name,
			level(row.d.Mean), level(row.d.StdDev), level(row.d.P5), level(row.d.P50), level(row.d.P95)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "P(policy > baseline): %s\n", percent(res.ProbPolicyAbove)); err != nil {
		return err
	}
	if res.RunsWithNonPositive > 0 {
		if _, err := fmt.Fprintf(w, "Runs with non-positive BPS: %d\n", res.RunsWithNonPositive); err != nil {
			return err
		}
	}
	return nil
}

// WriteSweep prints one line per target multiplier of a sensitivity sweep.
func WriteSweep(w io.Writer, points []batch.SweepPoint) error {
	if _, err := fmt.Fprintf(w, "%-8s %14s %14s %14s %10s\n", "target", "policy p50", "diff mean", "diff p5", "P(above)"); err != nil {
		return err
	}
	for _, p := range points {
		r := p.Result
		if _, err := fmt.Fprintf(w, "%-8s %14s %14s %14s %10s\n", multiple(p.TargetMultiplier),
			level(r.FinalPolicy.P50), level(r.Difference.Mean), level(r.Difference.P5), percent(r.ProbPolicyAbove)); err != nil {
			return err
		}
	}
	return nil
}
