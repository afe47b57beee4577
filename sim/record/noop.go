package record

import (
	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
)

// NoopRecorder discards everything; used when no database is configured.
// Record methods return an empty ID.
type NoopRecorder struct{}

var _ Recorder = (*NoopRecorder)(nil)

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ int64, _ *sim.Result) (string, error) { return "", nil }
func (n *NoopRecorder) RecordBatch(_ *batch.BatchResult) (string, error) { return "", nil }
func (n *NoopRecorder) ListRuns(_ int) ([]RunRecord, error) { return nil, nil }
func (n *NoopRecorder) ListBatches(_ int) ([]BatchRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error { return nil }
