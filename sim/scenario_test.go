package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselineMultiplier_ConstantAtInitial(t *testing.T) {
	cfg := DefaultConfig()
	m, err := BaselineMultiplier(cfg)
	require.NoError(t, err)
	require.Len(t, m, cfg.TotalSteps())
	for i, v := range m {
		assert.Equal(t, cfg.InitialMultiplier, v, "index %d", i)
	}
}

func TestPolicyMultiplier_RampThenFlat(t *testing.T) {
	// GIVEN the reference 5-of-10-year horizon with monthly steps
	cfg := DefaultConfig()
	policySteps := cfg.PolicySteps()

	// WHEN the policy path is built
	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)
	require.Len(t, m, cfg.TotalSteps())

	// THEN it starts at the initial multiplier, reaches the target at the end of
	// the ramp and holds the target afterwards
	assert.Equal(t, cfg.InitialMultiplier, m[0])
	assert.Equal(t, cfg.TargetMultiplier, m[policySteps-1])
	for i := policySteps; i < len(m); i++ {
		assert.Equal(t, cfg.TargetMultiplier, m[i], "tail index %d", i)
	}

	// AND ramp points are evenly spaced
	step := (cfg.TargetMultiplier - cfg.InitialMultiplier) / float64(policySteps-1)
	for i := 0; i < policySteps; i++ {
		assert.InDelta(t, cfg.InitialMultiplier+step*float64(i), m[i], 1e-12, "ramp index %d", i)
	}
}

func TestPolicyMultiplier_NonDecreasingWhenRerating(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialMultiplier = 0.6
	cfg.TargetMultiplier = 2.3
	cfg.StepsPerYear = 252

	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)
	for i := 1; i < cfg.PolicySteps(); i++ {
		if m[i] < m[i-1] {
			t.Fatalf("ramp decreased at %d: %v < %v", i, m[i], m[i-1])
		}
	}
}

func TestPolicyMultiplier_NonIncreasingWhenDerating(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialMultiplier = 1.5
	cfg.TargetMultiplier = 0.9

	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)
	for i := 1; i < len(m); i++ {
		assert.LessOrEqual(t, m[i], m[i-1], "index %d", i)
	}
	assert.Equal(t, 0.9, m[len(m)-1])
}

func TestPolicyMultiplier_ZeroPolicyYears_InstantRerating(t *testing.T) {
	// GIVEN policy_years = 0
	cfg := DefaultConfig()
	cfg.PolicyYears = 0

	// WHEN built (must not divide by zero)
	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)

	// THEN the whole path is the target
	require.Len(t, m, cfg.TotalSteps())
	for i, v := range m {
		assert.Equal(t, cfg.TargetMultiplier, v, "index %d", i)
	}
}

func TestPolicyMultiplier_FullHorizon_NoTail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PolicyYears = cfg.TotalYears

	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.InitialMultiplier, m[0])
	assert.Equal(t, cfg.TargetMultiplier, m[len(m)-1])
	assert.Less(t, m[len(m)-2], cfg.TargetMultiplier)
}

func TestPolicyMultiplier_SinglePolicyStep_IsTarget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalYears = 3
	cfg.PolicyYears = 1
	cfg.StepsPerYear = 1

	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)
	assert.Equal(t, MultiplierPath{1.4, 1.4, 1.4}, m)
}

func TestPolicyMultiplier_TwoStepRamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalYears = 4
	cfg.PolicyYears = 2
	cfg.StepsPerYear = 1
	cfg.InitialMultiplier = 1
	cfg.TargetMultiplier = 2

	m, err := PolicyMultiplier(cfg)
	require.NoError(t, err)
	assert.Equal(t, MultiplierPath{1, 2, 2, 2}, m)
}

func TestMultiplierBuilders_RejectInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepsPerYear = 0

	_, err := BaselineMultiplier(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = PolicyMultiplier(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCombine_ElementWiseProduct(t *testing.T) {
	got, err := Combine(FundamentalPath{100, 200, -50}, MultiplierPath{1.5, 0.5, 2})
	require.NoError(t, err)
	assert.Equal(t, ScenarioSeries{150, 100, -100}, got)
}

func TestCombine_DoesNotMutateInputs(t *testing.T) {
	f := FundamentalPath{1, 2, 3}
	m := MultiplierPath{2, 2, 2}
	_, err := Combine(f, m)
	require.NoError(t, err)
	assert.Equal(t, FundamentalPath{1, 2, 3}, f)
	assert.Equal(t, MultiplierPath{2, 2, 2}, m)
}

func TestCombine_LengthMismatch(t *testing.T) {
	tests := []struct {
		name string
		f    FundamentalPath
		m    MultiplierPath
	}{
		{"multiplier shorter", FundamentalPath{1, 2, 3}, MultiplierPath{1, 2}},
		{"fundamental shorter", FundamentalPath{1}, MultiplierPath{1, 2}},
		{"one empty", FundamentalPath{}, MultiplierPath{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Combine(tt.f, tt.m)
			assert.ErrorIs(t, err, ErrLengthMismatch)
			assert.Nil(t, got)
		})
	}
}

func TestCombine_BothEmpty(t *testing.T) {
	got, err := Combine(FundamentalPath{}, MultiplierPath{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
