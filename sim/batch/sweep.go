package batch

import (
	"context"
	"fmt"

	"github.com/valuation-lab/rerate-sim/sim"
)

// SweepPoint is the batch outcome for one target multiplier.
type SweepPoint struct {
	TargetMultiplier float64      `json:"target_multiplier"`
	Result           *BatchResult `json:"result"`
}

// Sweep runs one batch per target multiplier. Every batch reuses bc.Seed, so
// the fundamental paths are identical across points and only the re-rating differs.
func Sweep(ctx context.Context, cfg sim.SimulationConfig, bc BatchConfig, targets []float64) ([]SweepPoint, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("sweep requires at least one target multiplier")
	}
	points := make([]SweepPoint, 0, len(targets))
	for _, target := range targets {
		c := cfg
		c.TargetMultiplier = target
		res, err := Run(ctx, c, bc)
		if err != nil {
			return nil, fmt.Errorf("target %.4g: %w", target, err)
		}
		points = append(points, SweepPoint{TargetMultiplier: target, Result: res})
	}
	return points, nil
}
