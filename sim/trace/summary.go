package trace

import "math"

// TraceSummary aggregates statistics from a PathTrace.
type TraceSummary struct {
	Steps              int
	MinFactor          float64
	MaxFactor          float64
	MaxAbsShock        float64
	NonPositiveSteps   int // steps whose resulting value was <= 0
	ClampedSteps       int
	FirstNonPositive   int // step index of the first non-positive value; -1 if none
	NonPositiveFactors int // steps whose growth factor was <= 0
}

// Summarize computes aggregate statistics from a PathTrace.
// Safe for nil or empty traces (returns zero-value fields and FirstNonPositive = -1).
func Summarize(pt *PathTrace) *TraceSummary {
	summary := &TraceSummary{FirstNonPositive: -1}
	if pt == nil || len(pt.Shocks) == 0 {
		return summary
	}

	summary.Steps = len(pt.Shocks)
	summary.MinFactor = math.Inf(1)
	summary.MaxFactor = math.Inf(-1)
	for _, s := range pt.Shocks {
		summary.MinFactor = math.Min(summary.MinFactor, s.Factor)
		summary.MaxFactor = math.Max(summary.MaxFactor, s.Factor)
		summary.MaxAbsShock = math.Max(summary.MaxAbsShock, math.Abs(s.Shock))
		if s.Factor <= 0 {
			summary.NonPositiveFactors++
		}
		if s.Clamped {
			summary.ClampedSteps++
		}
		if s.Value <= 0 {
			summary.NonPositiveSteps++
			if summary.FirstNonPositive < 0 {
				summary.FirstNonPositive = s.Step
			}
		}
	}
	return summary
}
