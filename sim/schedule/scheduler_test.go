package schedule

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
	"github.com/valuation-lab/rerate-sim/sim/record"
)

func newTestScheduler(t *testing.T, names []string) (*Scheduler, *record.SQLiteRecorder) {
	t.Helper()
	rec, err := record.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })
	presets, err := sim.BuiltinPresets()
	require.NoError(t, err)

	s, err := NewScheduler(context.Background(), rec, presets, names, batch.BatchConfig{Seed: 10, Runs: 20, Workers: 2})
	require.NoError(t, err)
	return s, rec
}

func TestScheduler_RunNow_RecordsOneBatchPerPreset(t *testing.T) {
	// GIVEN a scheduler over two presets
	s, rec := newTestScheduler(t, []string{"reference", "derating"})

	// WHEN one tick runs
	ids, err := s.RunNow()

	// THEN both batches are recorded
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	batches, err := rec.ListBatches(10)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, 1.3, batches[0].Config.InitialMultiplier, "derating was recorded last")
	assert.Equal(t, int64(10), batches[0].Batch.Seed)
}

func TestScheduler_ConsecutiveTicks_AdvanceSeed(t *testing.T) {
	s, rec := newTestScheduler(t, []string{"reference"})

	_, err := s.RunNow()
	require.NoError(t, err)
	_, err = s.RunNow()
	require.NoError(t, err)

	batches, err := rec.ListBatches(10)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, int64(11), batches[0].Batch.Seed)
	assert.Equal(t, int64(10), batches[1].Batch.Seed)
	assert.NotEqual(t, batches[0].MeanDifference, batches[1].MeanDifference)
}

func TestScheduler_Register_RejectsBadSpec(t *testing.T) {
	s, _ := newTestScheduler(t, []string{"reference"})
	assert.Error(t, s.Register("not a cron spec"))
	assert.NoError(t, s.Register("0 0 * * * *"))
}

func TestNewScheduler_Errors(t *testing.T) {
	presets, err := sim.BuiltinPresets()
	require.NoError(t, err)
	rec, err := record.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer rec.Close()
	bc := batch.BatchConfig{Runs: 10}

	tests := []struct {
		name  string
		rec   record.Recorder
		names []string
		bc    batch.BatchConfig
	}{
		{"no recorder", nil, []string{"reference"}, bc},
		{"no presets", rec, nil, bc},
		{"unknown preset", rec, []string{"missing"}, bc},
		{"zero runs", rec, []string{"reference"}, batch.BatchConfig{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScheduler(context.Background(), tc.rec, presets, tc.names, tc.bc)
			assert.Error(t, err)
		})
	}
}
