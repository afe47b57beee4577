// Package record persists run and batch summaries for later comparison.
package record

import (
	"time"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
)

// RunRecord is one stored single-run summary.
type RunRecord struct {
	ID        string
	CreatedAt time.Time
	Seed      int64
	Config    sim.SimulationConfig
	Summary   sim.SummaryReport
}

// BatchRecord is one stored batch aggregate.
type BatchRecord struct {
	ID              string
	CreatedAt       time.Time
	Config          sim.SimulationConfig
	Batch           batch.BatchConfig
	MeanDifference  float64
	P5Difference    float64
	P95Difference   float64
	ProbPolicyAbove float64
}

// Recorder persists simulation outcomes.
type Recorder interface {
	RecordRun(seed int64, res *sim.Result) (string, error)
	RecordBatch(res *batch.BatchResult) (string, error)
	ListRuns(limit int) ([]RunRecord, error)
	ListBatches(limit int) ([]BatchRecord, error)
	Close() error
}
