package sim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// MultiplierPath is the valuation multiplier (PBR) applied at each step.
type MultiplierPath []float64

// ScenarioSeries is a simulated index level series: fundamental × multiplier, element-wise.
type ScenarioSeries []float64

// Last returns the final value of the series, or 0 for an empty series.
func (s ScenarioSeries) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

// BaselineMultiplier returns a flat path at InitialMultiplier.
func BaselineMultiplier(cfg SimulationConfig) (MultiplierPath, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := make(MultiplierPath, cfg.TotalSteps())
	for i := range m {
		m[i] = cfg.InitialMultiplier
	}
	return m, nil
}

// PolicyMultiplier returns the re-rating path: PolicySteps() evenly spaced values
// from InitialMultiplier to TargetMultiplier inclusive, then TargetMultiplier for
// the remaining steps.
//
// Degenerate horizons: zero policy steps means instant re-rating (the whole path is
// the target); a single policy step is the target itself.
func PolicyMultiplier(cfg SimulationConfig) (MultiplierPath, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	total := cfg.TotalSteps()
	ramp := cfg.PolicySteps()
	m := make(MultiplierPath, total)

	if ramp >= 2 {
		floats.Span(m[:ramp], cfg.InitialMultiplier, cfg.TargetMultiplier)
		// Span accumulates rounding; pin the endpoint exactly.
		m[ramp-1] = cfg.TargetMultiplier
	}
	start := ramp
	if ramp < 2 {
		start = 0
	}
	for i := start; i < total; i++ {
		m[i] = cfg.TargetMultiplier
	}
	return m, nil
}

// Combine multiplies a fundamental path by a multiplier path element-wise.
// Returns ErrLengthMismatch if the lengths differ; nothing is truncated or padded.
func Combine(fundamental FundamentalPath, multiplier MultiplierPath) (ScenarioSeries, error) {
	if len(fundamental) != len(multiplier) {
		return nil, fmt.Errorf("%w: fundamental has %d steps, multiplier has %d",
			ErrLengthMismatch, len(fundamental), len(multiplier))
	}
	out := make(ScenarioSeries, len(fundamental))
	floats.MulTo(out, fundamental, multiplier)
	return out, nil
}
