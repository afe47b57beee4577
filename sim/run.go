package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Result holds everything produced by one simulation run.
// All series have length Config.TotalSteps().
type Result struct {
	Config             SimulationConfig
	TimeAxis           []float64
	Fundamental        FundamentalPath
	BaselineMultiplier MultiplierPath
	PolicyMultiplier   MultiplierPath
	Baseline           ScenarioSeries
	Policy             ScenarioSeries
	Summary            SummaryReport
}

// Run executes one complete simulation: fundamental path, both multiplier paths,
// both scenario series and the summary. It is synchronous and performs no I/O;
// concurrent calls are safe as long as each receives its own src.
func Run(cfg SimulationConfig, src NormalSource, opts ...PathOption) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fundamental, err := SimulatePath(cfg, src, opts...)
	if err != nil {
		return nil, err
	}
	baseMult, err := BaselineMultiplier(cfg)
	if err != nil {
		return nil, err
	}
	policyMult, err := PolicyMultiplier(cfg)
	if err != nil {
		return nil, err
	}
	baseline, err := Combine(fundamental, baseMult)
	if err != nil {
		return nil, err
	}
	policy, err := Combine(fundamental, policyMult)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(cfg, fundamental, baseline, policy)
	if err != nil {
		return nil, err
	}

	if err := checkFinite(fundamental, baseline, policy, summary); err != nil {
		return nil, err
	}

	logrus.Debugf("run complete: final baseline=%.2f policy=%.2f diff=%.2f",
		summary.FinalBaseline, summary.FinalPolicy, summary.Difference)

	return &Result{
		Config:             cfg,
		TimeAxis:           TimeAxis(cfg),
		Fundamental:        fundamental,
		BaselineMultiplier: baseMult,
		PolicyMultiplier:   policyMult,
		Baseline:           baseline,
		Policy:             policy,
		Summary:            summary,
	}, nil
}

// checkFinite rejects results that cannot be encoded or compared.
func checkFinite(fundamental FundamentalPath, baseline, policy ScenarioSeries, s SummaryReport) error {
	for _, series := range []struct {
		name   string
		values []float64
	}{
		{"fundamental", fundamental},
		{"baseline", baseline},
		{"policy", policy},
	} {
		for t, v := range series.values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: %s is %v at step %d", ErrNonFiniteResult, series.name, v, t)
			}
		}
	}
	if math.IsNaN(s.Difference) || math.IsInf(s.Difference, 0) ||
		math.IsNaN(s.RelativeUplift) || math.IsInf(s.RelativeUplift, 0) {
		return fmt.Errorf("%w: difference %v, relative uplift %v", ErrNonFiniteResult, s.Difference, s.RelativeUplift)
	}
	return nil
}
