// Package batch runs many independent re-rating simulations concurrently for
// Monte Carlo and sensitivity analysis.
//
// Every run gets its own RNG derived from the master seed via sim.PartitionedRNG,
// so results depend only on (config, seed, run index), never on worker count or
// scheduling order.
package batch

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/valuation-lab/rerate-sim/sim"
)

// MaxRuns bounds a single batch.
const MaxRuns = 1_000_000

// BatchConfig controls a Monte Carlo batch.
type BatchConfig struct {
	Seed    int64 `json:"seed" yaml:"seed"`
	Runs    int   `json:"runs" yaml:"runs"`       // number of independent paths (must be > 0)
	Workers int   `json:"workers" yaml:"workers"` // 0 = GOMAXPROCS
}

// Validate checks the batch parameters.
func (bc BatchConfig) Validate() error {
	if bc.Runs <= 0 || bc.Runs > MaxRuns {
		return fmt.Errorf("runs must be in [1, %d], got %d", MaxRuns, bc.Runs)
	}
	if bc.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", bc.Workers)
	}
	return nil
}

func (bc BatchConfig) workers() int {
	if bc.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return bc.Workers
}

// Distribution summarizes one outcome across all runs of a batch.
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"` // 0 for a single run
	Min    float64 `json:"min"`
	P5     float64 `json:"p5"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// BatchResult aggregates the summaries of a batch. Summaries is ordered by run index.
type BatchResult struct {
	Config    sim.SimulationConfig `json:"config"`
	Batch     BatchConfig          `json:"batch"`
	Summaries []sim.SummaryReport  `json:"-"`

	FinalBaseline       Distribution `json:"final_baseline"`
	FinalPolicy         Distribution `json:"final_policy"`
	Difference          Distribution `json:"difference"`
	ProbPolicyAbove     float64      `json:"prob_policy_above"`      // share of runs where policy ends above baseline
	RunsWithNonPositive int          `json:"runs_with_non_positive"` // runs whose fundamental path touched zero or below
}

// Run executes bc.Runs simulations of cfg on a bounded worker pool.
// Cancelling ctx stops dispatching new runs and returns ctx.Err().
func Run(ctx context.Context, cfg sim.SimulationConfig, bc BatchConfig) (*BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := bc.Validate(); err != nil {
		return nil, err
	}

	key := sim.NewSimulationKey(bc.Seed)

	logrus.Debugf("batch: %d runs on %d workers (seed=%d)", bc.Runs, bc.workers(), bc.Seed)

	summaries := make([]sim.SummaryReport, bc.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bc.workers())
	for i := 0; i < bc.Runs; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Sources live only as long as their run.
			res, err := sim.Run(cfg, sim.NewSubsystemRNG(key, sim.SubsystemRun(i)))
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			summaries[i] = res.Summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return aggregate(cfg, bc, summaries), nil
}

func aggregate(cfg sim.SimulationConfig, bc BatchConfig, summaries []sim.SummaryReport) *BatchResult {
	n := len(summaries)
	baseline := make([]float64, n)
	policy := make([]float64, n)
	diff := make([]float64, n)
	above := 0
	nonPositive := 0
	for i, s := range summaries {
		baseline[i] = s.FinalBaseline
		policy[i] = s.FinalPolicy
		diff[i] = s.Difference
		if s.FinalPolicy > s.FinalBaseline {
			above++
		}
		if s.NonPositiveSteps > 0 {
			nonPositive++
		}
	}
	if nonPositive > 0 {
		logrus.Warnf("batch: %d of %d runs produced non-positive fundamental values", nonPositive, n)
	}
	return &BatchResult{
		Config:              cfg,
		Batch:               bc,
		Summaries:           summaries,
		FinalBaseline:       describe(baseline),
		FinalPolicy:         describe(policy),
		Difference:          describe(diff),
		ProbPolicyAbove:     float64(above) / float64(n),
		RunsWithNonPositive: nonPositive,
	}
}

// describe computes a Distribution. x is sorted in place.
func describe(x []float64) Distribution {
	if len(x) == 0 {
		return Distribution{}
	}
	sort.Float64s(x)
	d := Distribution{
		Mean: stat.Mean(x, nil),
		Min:  x[0],
		P5:   stat.Quantile(0.05, stat.Empirical, x, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, x, nil),
		P95:  stat.Quantile(0.95, stat.Empirical, x, nil),
		Max:  x[len(x)-1],
	}
	if len(x) > 1 {
		d.StdDev = stat.StdDev(x, nil)
	}
	if math.IsNaN(d.StdDev) {
		d.StdDev = 0
	}
	return d
}
