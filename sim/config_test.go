package sim

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120, cfg.TotalSteps())
	assert.Equal(t, 60, cfg.PolicySteps())
}

func TestSimulationConfig_DerivedStepParameters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AnnualDrift = 0.12
	cfg.AnnualVolatility = 0.2
	cfg.StepsPerYear = 4

	assert.InDelta(t, 0.03, cfg.StepDrift(), 1e-15)
	assert.InDelta(t, 0.1, cfg.StepVolatility(), 1e-15)
	assert.InDelta(t, 2700/0.95, cfg.InitialBPS(), 1e-9)
}

func TestSimulationConfig_Validate_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *SimulationConfig)
	}{
		{"zero total years", func(c *SimulationConfig) { c.TotalYears = 0 }},
		{"negative total years", func(c *SimulationConfig) { c.TotalYears = -3 }},
		{"zero steps per year", func(c *SimulationConfig) { c.StepsPerYear = 0 }},
		{"negative steps per year", func(c *SimulationConfig) { c.StepsPerYear = -12 }},
		{"negative policy years", func(c *SimulationConfig) { c.PolicyYears = -1 }},
		{"policy beyond horizon", func(c *SimulationConfig) { c.PolicyYears = c.TotalYears + 1 }},
		{"zero initial multiplier", func(c *SimulationConfig) { c.InitialMultiplier = 0 }},
		{"negative index level", func(c *SimulationConfig) { c.InitialIndexLevel = -1 }},
		{"negative volatility", func(c *SimulationConfig) { c.AnnualVolatility = -0.1 }},
		{"NaN drift", func(c *SimulationConfig) { c.AnnualDrift = math.NaN() }},
		{"infinite target", func(c *SimulationConfig) { c.TargetMultiplier = math.Inf(1) }},
		{"step product wraps to zero", func(c *SimulationConfig) {
			c.TotalYears = 1 << 32
			c.StepsPerYear = 1 << 32
		}},
		{"step product wraps negative", func(c *SimulationConfig) {
			c.TotalYears = 1 << 62
			c.StepsPerYear = 3
		}},
		{"step product too large", func(c *SimulationConfig) {
			c.TotalYears = 100_000
			c.StepsPerYear = 100_000
		}},
		{"one step over the limit", func(c *SimulationConfig) {
			c.TotalYears = MaxTotalSteps + 1
			c.StepsPerYear = 1
		}},
		{"unknown negative policy", func(c *SimulationConfig) { c.NegativeValues = "wrap" }},
		{"negative clamp floor", func(c *SimulationConfig) {
			c.NegativeValues = NegativeClamp
			c.Floor = -1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfiguration), "got %v", err)
		})
	}
}

func TestSimulationConfig_Validate_AcceptsEdgeHorizons(t *testing.T) {
	// GIVEN policy horizons at both ends of the allowed range
	for _, policyYears := range []int{0, 10} {
		cfg := DefaultConfig()
		cfg.PolicyYears = policyYears
		// THEN the config is valid
		assert.NoError(t, cfg.Validate(), "policy_years=%d", policyYears)
	}
}

func TestSimulationConfig_Validate_AcceptsMaxTotalSteps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalYears = MaxTotalSteps / 250
	cfg.StepsPerYear = 250
	cfg.PolicyYears = 1
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MaxTotalSteps, cfg.TotalSteps())
}

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	// GIVEN a YAML document that overrides only two fields
	data := []byte("target_multiplier: 1.8\nannual_volatility: 0\n")

	// WHEN parsed
	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	// THEN overridden fields change and the rest keep their defaults
	assert.Equal(t, 1.8, cfg.TargetMultiplier)
	assert.Equal(t, 0.0, cfg.AnnualVolatility)
	assert.Equal(t, DefaultConfig().InitialIndexLevel, cfg.InitialIndexLevel)
	assert.Equal(t, DefaultConfig().StepsPerYear, cfg.StepsPerYear)
}

func TestParseConfig_EmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfig_UnknownFieldRejected(t *testing.T) {
	// GIVEN a typo in a field name
	_, err := ParseConfig([]byte("target_multipler: 1.8\n"))
	// THEN strict parsing fails
	assert.Error(t, err)
}

func TestParseConfig_InvalidValuesRejected(t *testing.T) {
	_, err := ParseConfig([]byte("steps_per_year: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy_years: 0\nnegative_values: clamp\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.PolicyYears)
	assert.Equal(t, NegativeClamp, cfg.NegativeValues)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
