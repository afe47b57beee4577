// Package schedule re-runs preset batches on a cron schedule and records their
// aggregates, so a long-running API server accumulates a history of outcomes.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/valuation-lab/rerate-sim/sim"
	"github.com/valuation-lab/rerate-sim/sim/batch"
	"github.com/valuation-lab/rerate-sim/sim/record"
)

// Scheduler owns the cron instance and the batch job it fires.
type Scheduler struct {
	Cron     *cron.Cron
	Recorder record.Recorder
	Presets  sim.PresetFile
	Names    []string          // presets run on every tick
	Batch    batch.BatchConfig // Seed is the seed of the first tick

	ctx   context.Context
	mu    sync.Mutex
	ticks int64
}

// NewScheduler creates a scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, rec record.Recorder, presets sim.PresetFile, names []string, bc batch.BatchConfig) (*Scheduler, error) {
	if rec == nil {
		return nil, fmt.Errorf("scheduled batches require a recorder")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("scheduled batches require at least one preset")
	}
	for _, name := range names {
		if _, err := presets.Lookup(name); err != nil {
			return nil, err
		}
	}
	if err := bc.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Recorder: rec,
		Presets:  presets,
		Names:    names,
		Batch:    bc,
		ctx:      ctx,
	}, nil
}

// Register adds the batch job under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { _, _ = s.RunNow() }); err != nil {
		return fmt.Errorf("register batch job %q: %w", spec, err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logrus.Infof("scheduler started: presets=%v runs=%d", s.Names, s.Batch.Runs)
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logrus.Info("scheduler stopped")
}

// RunNow runs one tick immediately and returns the recorded batch IDs in preset order.
// Tick n uses seed Batch.Seed+n, so consecutive ticks sample fresh paths while
// the whole history stays reproducible.
func (s *Scheduler) RunNow() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bc := s.Batch
	bc.Seed += s.ticks
	s.ticks++

	ids := make([]string, 0, len(s.Names))
	for _, name := range s.Names {
		cfg, err := s.Presets.Lookup(name)
		if err != nil {
			logrus.Errorf("scheduled batch %s: %v", name, err)
			return ids, err
		}
		res, err := batch.Run(s.ctx, cfg, bc)
		if err != nil {
			logrus.Errorf("scheduled batch %s: %v", name, err)
			return ids, err
		}
		id, err := s.Recorder.RecordBatch(res)
		if err != nil {
			logrus.Errorf("record scheduled batch %s: %v", name, err)
			return ids, err
		}
		logrus.Infof("scheduled batch %s (seed %d): mean difference %.2f, recorded %s",
			name, bc.Seed, res.Difference.Mean, id)
		ids = append(ids, id)
	}
	return ids, nil
}
