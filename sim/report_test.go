package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_Fields(t *testing.T) {
	// GIVEN hand-built series
	cfg := DefaultConfig()
	fundamental := FundamentalPath{100, 110, 120}
	baseline := ScenarioSeries{95, 104.5, 114}
	policy := ScenarioSeries{95, 130, 168}

	// WHEN summarized
	r, err := Summarize(cfg, fundamental, baseline, policy)
	require.NoError(t, err)

	// THEN the report reflects the config and the final values
	assert.Equal(t, cfg.InitialIndexLevel, r.InitialIndexLevel)
	assert.Equal(t, cfg.InitialMultiplier, r.InitialMultiplier)
	assert.Equal(t, cfg.TargetMultiplier, r.TargetMultiplier)
	assert.Equal(t, cfg.PolicyYears, r.PolicyYears)
	assert.Equal(t, 114.0, r.FinalBaseline)
	assert.Equal(t, 168.0, r.FinalPolicy)
	assert.Equal(t, 54.0, r.Difference)
	assert.InDelta(t, 54.0/114.0, r.RelativeUplift, 1e-12)
	assert.Equal(t, 100.0, r.InitialBPS)
	assert.Equal(t, 120.0, r.FinalFundamental)
	assert.Equal(t, 100.0, r.MinFundamental)
	assert.Equal(t, 0, r.NonPositiveSteps)
}

func TestSummarize_CountsNonPositiveSteps(t *testing.T) {
	r, err := Summarize(DefaultConfig(),
		FundamentalPath{10, -1, 0, 2},
		ScenarioSeries{1, 1, 1, 0},
		ScenarioSeries{1, 1, 1, 5})
	require.NoError(t, err)
	assert.Equal(t, 2, r.NonPositiveSteps)
	assert.Equal(t, -1.0, r.MinFundamental)
	assert.Equal(t, 0.0, r.RelativeUplift, "zero baseline must not divide")
}

func TestSummarize_NegativeBaseline_UpliftFollowsDifferenceSign(t *testing.T) {
	// GIVEN a fundamental path that ended negative, so the policy is further below zero
	r, err := Summarize(DefaultConfig(),
		FundamentalPath{10, -10},
		ScenarioSeries{9.5, -9.5},
		ScenarioSeries{9.5, -14})
	require.NoError(t, err)

	// THEN the uplift is negative like the difference, scaled by the baseline magnitude
	assert.Equal(t, -4.5, r.Difference)
	assert.InDelta(t, -4.5/9.5, r.RelativeUplift, 1e-12)
}

func TestSummarize_LengthMismatch(t *testing.T) {
	_, err := Summarize(DefaultConfig(), FundamentalPath{1, 2}, ScenarioSeries{1, 2}, ScenarioSeries{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSummarize_EmptySeries(t *testing.T) {
	_, err := Summarize(DefaultConfig(), FundamentalPath{}, ScenarioSeries{}, ScenarioSeries{})
	assert.Error(t, err)
}

func TestTimeAxis(t *testing.T) {
	tests := []struct {
		name         string
		totalYears   int
		stepsPerYear int
		wantFirst    float64
		wantLast     float64
	}{
		{"monthly decade", 10, 12, 0, 10},
		{"annual", 5, 1, 0, 5},
		{"single point", 1, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TotalYears = tt.totalYears
			cfg.PolicyYears = 0
			cfg.StepsPerYear = tt.stepsPerYear

			axis := TimeAxis(cfg)
			require.Len(t, axis, tt.totalYears*tt.stepsPerYear)
			assert.Equal(t, tt.wantFirst, axis[0])
			assert.InDelta(t, tt.wantLast, axis[len(axis)-1], 1e-12)
		})
	}
}

func TestTimeAxis_InvalidConfigIsEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepsPerYear = 0
	assert.Nil(t, TimeAxis(cfg))
}
