package trace

import "testing"

func TestSummarize_NilAndEmpty_NoNonPositiveStep(t *testing.T) {
	for name, pt := range map[string]*PathTrace{
		"nil":   nil,
		"empty": NewPathTrace(TraceLevelShocks),
	} {
		summary := Summarize(pt)
		if summary.Steps != 0 {
			t.Errorf("%s: expected 0 steps, got %d", name, summary.Steps)
		}
		if summary.FirstNonPositive != -1 {
			t.Errorf("%s: expected FirstNonPositive -1, got %d", name, summary.FirstNonPositive)
		}
	}
}

func TestSummarize_PopulatedTrace_Aggregates(t *testing.T) {
	// GIVEN a trace where step 3 turns the path negative and step 4 is clamped
	pt := NewPathTrace(TraceLevelShocks)
	pt.RecordShock(ShockRecord{Step: 1, Shock: 0.5, Factor: 1.02, Value: 102})
	pt.RecordShock(ShockRecord{Step: 2, Shock: -1.0, Factor: 0.96, Value: 97.92})
	pt.RecordShock(ShockRecord{Step: 3, Shock: -25, Factor: -0.2, Value: -19.584})
	pt.RecordShock(ShockRecord{Step: 4, Shock: 2, Factor: 1.08, Value: 0, Clamped: true})

	// WHEN summarized
	s := Summarize(pt)

	// THEN every aggregate reflects the records
	if s.Steps != 4 {
		t.Errorf("expected 4 steps, got %d", s.Steps)
	}
	if s.MinFactor != -0.2 || s.MaxFactor != 1.08 {
		t.Errorf("expected factor range [-0.2, 1.08], got [%v, %v]", s.MinFactor, s.MaxFactor)
	}
	if s.MaxAbsShock != 25 {
		t.Errorf("expected max |shock| 25, got %v", s.MaxAbsShock)
	}
	if s.NonPositiveSteps != 2 {
		t.Errorf("expected 2 non-positive steps, got %d", s.NonPositiveSteps)
	}
	if s.FirstNonPositive != 3 {
		t.Errorf("expected first non-positive at step 3, got %d", s.FirstNonPositive)
	}
	if s.NonPositiveFactors != 1 {
		t.Errorf("expected 1 non-positive factor, got %d", s.NonPositiveFactors)
	}
	if s.ClampedSteps != 1 {
		t.Errorf("expected 1 clamped step, got %d", s.ClampedSteps)
	}
}
