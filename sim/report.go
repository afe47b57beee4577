package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SummaryReport compares the baseline and policy scenarios at the end of the horizon.
type SummaryReport struct {
	InitialIndexLevel float64 `json:"initial_index_level"`
	InitialMultiplier float64 `json:"initial_multiplier"`
	TargetMultiplier  float64 `json:"target_multiplier"`
	PolicyYears       int     `json:"policy_years"`
	FinalBaseline     float64 `json:"final_baseline"`
	FinalPolicy       float64 `json:"final_policy"`
	Difference        float64 `json:"difference"` // FinalPolicy - FinalBaseline

	InitialBPS       float64 `json:"initial_bps"`
	FinalFundamental float64 `json:"final_fundamental"`
	TotalSteps       int     `json:"total_steps"`
	PolicySteps      int     `json:"policy_steps"`
	RelativeUplift   float64 `json:"relative_uplift"` // Difference / |FinalBaseline|; 0 if FinalBaseline is 0
	MinFundamental   float64 `json:"min_fundamental"`
	NonPositiveSteps int     `json:"non_positive_steps"`
}

// Summarize builds the SummaryReport for one run. It is a pure function of its inputs.
// All three series must have the same, non-zero length.
func Summarize(cfg SimulationConfig, fundamental FundamentalPath, baseline, policy ScenarioSeries) (SummaryReport, error) {
	if len(fundamental) != len(baseline) || len(fundamental) != len(policy) {
		return SummaryReport{}, fmt.Errorf("%w: fundamental=%d baseline=%d policy=%d",
			ErrLengthMismatch, len(fundamental), len(baseline), len(policy))
	}
	if len(fundamental) == 0 {
		return SummaryReport{}, fmt.Errorf("cannot summarize empty series")
	}

	r := SummaryReport{
		InitialIndexLevel: cfg.InitialIndexLevel,
		InitialMultiplier: cfg.InitialMultiplier,
		TargetMultiplier:  cfg.TargetMultiplier,
		PolicyYears:       cfg.PolicyYears,
		FinalBaseline:     baseline.Last(),
		FinalPolicy:       policy.Last(),
		InitialBPS:        fundamental[0],
		FinalFundamental:  fundamental.Last(),
		TotalSteps:        cfg.TotalSteps(),
		PolicySteps:       cfg.PolicySteps(),
		MinFundamental:    floats.Min(fundamental),
	}
	r.Difference = r.FinalPolicy - r.FinalBaseline
	if r.FinalBaseline != 0 {
		r.RelativeUplift = r.Difference / math.Abs(r.FinalBaseline)
	}
	for _, v := range fundamental {
		if v <= 0 {
			r.NonPositiveSteps++
		}
	}
	return r, nil
}

// TimeAxis returns TotalSteps() evenly spaced points from 0 to TotalYears inclusive,
// matching linspace(0, total_years, total_steps).
func TimeAxis(cfg SimulationConfig) []float64 {
	n := cfg.TotalSteps()
	if n <= 0 {
		return nil
	}
	axis := make([]float64, n)
	if n == 1 {
		return axis
	}
	floats.Span(axis, 0, float64(cfg.TotalYears))
	return axis
}
