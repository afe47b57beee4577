package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// NegativeValuePolicy controls what happens when an extreme negative shock
// drives the fundamental path to zero or below.
type NegativeValuePolicy string

const (
	// NegativeAllow propagates non-positive values unchanged (default).
	NegativeAllow NegativeValuePolicy = "allow"
	// NegativeClamp raises any value below SimulationConfig.Floor to Floor.
	NegativeClamp NegativeValuePolicy = "clamp"
)

// MaxTotalSteps bounds TotalYears*StepsPerYear so every path fits in memory.
const MaxTotalSteps = 1_000_000

// DefaultFloor is the clamp floor used when NegativeClamp is selected without an explicit floor.
const DefaultFloor = 1e-9

var validNegativePolicies = map[NegativeValuePolicy]bool{
	NegativeAllow: true,
	NegativeClamp: true,
	"":            true, // empty defaults to allow
}

// IsValidNegativeValuePolicy returns true if the given name is a recognized policy.
func IsValidNegativeValuePolicy(name string) bool {
	return validNegativePolicies[NegativeValuePolicy(name)]
}

// SimulationConfig holds the immutable parameters of one re-rating run.
// The index level is interpreted as multiplier × fundamental value.
type SimulationConfig struct {
	InitialIndexLevel float64 `yaml:"initial_index_level" json:"initial_index_level"`
	InitialMultiplier float64 `yaml:"initial_multiplier" json:"initial_multiplier"` // PBR at t=0 (must be > 0)
	TargetMultiplier  float64 `yaml:"target_multiplier" json:"target_multiplier"`   // PBR reached at the end of the policy horizon
	TotalYears        int     `yaml:"total_years" json:"total_years"`
	PolicyYears       int     `yaml:"policy_years" json:"policy_years"` // 0 = instant re-rating
	StepsPerYear      int     `yaml:"steps_per_year" json:"steps_per_year"`
	AnnualDrift       float64 `yaml:"annual_drift" json:"annual_drift"`
	AnnualVolatility  float64 `yaml:"annual_volatility" json:"annual_volatility"`

	NegativeValues NegativeValuePolicy `yaml:"negative_values,omitempty" json:"negative_values,omitempty"`
	Floor          float64             `yaml:"floor,omitempty" json:"floor,omitempty"` // only used with NegativeClamp
}

// DefaultConfig returns the reference scenario: a 0.95 → 1.4 PBR re-rating
// over five of ten simulated years with monthly steps.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		InitialIndexLevel: 2700,
		InitialMultiplier: 0.95,
		TargetMultiplier:  1.4,
		TotalYears:        10,
		PolicyYears:       5,
		StepsPerYear:      12,
		AnnualDrift:       0.04,
		AnnualVolatility:  0.15,
		NegativeValues:    NegativeAllow,
	}
}

// TotalSteps returns the length of every path produced for this config.
func (c SimulationConfig) TotalSteps() int {
	return c.TotalYears * c.StepsPerYear
}

// PolicySteps returns the number of steps over which the multiplier ramps.
func (c SimulationConfig) PolicySteps() int {
	return c.PolicyYears * c.StepsPerYear
}

// InitialBPS returns the fundamental value at step 0.
func (c SimulationConfig) InitialBPS() float64 {
	return c.InitialIndexLevel / c.InitialMultiplier
}

// StepDrift converts the annual drift to a per-step drift.
func (c SimulationConfig) StepDrift() float64 {
	return c.AnnualDrift / float64(c.StepsPerYear)
}

// StepVolatility converts the annual volatility to a per-step volatility.
func (c SimulationConfig) StepVolatility() float64 {
	return c.AnnualVolatility * math.Sqrt(1/float64(c.StepsPerYear))
}

// floor returns the effective clamp floor.
func (c SimulationConfig) floor() float64 {
	if c.Floor == 0 {
		return DefaultFloor
	}
	return c.Floor
}

// Validate checks the config and returns an error wrapping ErrInvalidConfiguration
// describing the first violated constraint.
func (c SimulationConfig) Validate() error {
	if c.TotalYears <= 0 {
		return invalidConfig("total_years must be >= 1, got %d", c.TotalYears)
	}
	if c.StepsPerYear <= 0 {
		return invalidConfig("steps_per_year must be >= 1, got %d", c.StepsPerYear)
	}
	// Divide instead of multiplying so huge inputs cannot overflow.
	if c.TotalYears > MaxTotalSteps/c.StepsPerYear {
		return invalidConfig("total_years*steps_per_year must be <= %d, got %d years of %d steps",
			MaxTotalSteps, c.TotalYears, c.StepsPerYear)
	}
	if c.PolicyYears < 0 {
		return invalidConfig("policy_years must be >= 0, got %d", c.PolicyYears)
	}
	if c.PolicyYears > c.TotalYears {
		return invalidConfig("policy_years (%d) must not exceed total_years (%d)", c.PolicyYears, c.TotalYears)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"initial_index_level", c.InitialIndexLevel},
		{"initial_multiplier", c.InitialMultiplier},
		{"target_multiplier", c.TargetMultiplier},
		{"annual_drift", c.AnnualDrift},
		{"annual_volatility", c.AnnualVolatility},
		{"floor", c.Floor},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidConfig("%s must be finite, got %v", f.name, f.v)
		}
	}
	if c.InitialIndexLevel <= 0 {
		return invalidConfig("initial_index_level must be > 0, got %v", c.InitialIndexLevel)
	}
	if c.InitialMultiplier <= 0 {
		return invalidConfig("initial_multiplier must be > 0, got %v", c.InitialMultiplier)
	}
	if c.AnnualVolatility < 0 {
		return invalidConfig("annual_volatility must be >= 0, got %v", c.AnnualVolatility)
	}
	if !IsValidNegativeValuePolicy(string(c.NegativeValues)) {
		return invalidConfig("unknown negative_values policy %q (valid: allow, clamp)", c.NegativeValues)
	}
	if c.NegativeValues == NegativeClamp && c.Floor < 0 {
		return invalidConfig("floor must be >= 0 when clamping (0 selects the default), got %v", c.Floor)
	}
	return nil
}

// LoadConfig reads a YAML scenario file, overlays it onto DefaultConfig and validates the result.
// Unknown keys are rejected so that typos surface as errors.
func LoadConfig(path string) (SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML bytes onto DefaultConfig with strict field checking, then validates.
func ParseConfig(data []byte) (SimulationConfig, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return SimulationConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return SimulationConfig{}, err
	}
	return cfg, nil
}
