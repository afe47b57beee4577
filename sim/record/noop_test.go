package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valuation-lab/rerate-sim/sim"
)

func TestNoopRecorder_DiscardsEverything(t *testing.T) {
	// GIVEN a noop recorder and a finished run
	r := NewNoopRecorder()
	res, err := sim.Run(sim.DefaultConfig(), sim.NewRunRNG(1))
	require.NoError(t, err)

	// WHEN recorded
	id, err := r.RecordRun(1, res)

	// THEN nothing is stored and no ID is issued
	require.NoError(t, err)
	assert.Empty(t, id)
	runs, err := r.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
