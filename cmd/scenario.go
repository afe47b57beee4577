package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/valuation-lab/rerate-sim/sim"
)

// scenarioFlags holds the flags shared by run and batch for selecting a scenario.
type scenarioFlags struct {
	configPath  string
	presetName  string
	presetsPath string

	initialIndex      float64
	initialMultiplier float64
	targetMultiplier  float64
	totalYears        int
	policyYears       int
	stepsPerYear      int
	drift             float64
	volatility        float64
	negativeValues    string
	floor             float64
}

func (f *scenarioFlags) register(fs *pflag.FlagSet) {
	def := sim.DefaultConfig()
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML scenario file")
	fs.StringVar(&f.presetName, "preset", "", "Named preset scenario (list with the presets command)")
	fs.StringVar(&f.presetsPath, "presets-file", "", "Presets YAML file (default: built-in presets)")

	fs.Float64Var(&f.initialIndex, "initial-index", def.InitialIndexLevel, "Initial index level")
	fs.Float64Var(&f.initialMultiplier, "initial-multiplier", def.InitialMultiplier, "Initial valuation multiplier (PBR)")
	fs.Float64Var(&f.targetMultiplier, "target-multiplier", def.TargetMultiplier, "Target valuation multiplier (PBR)")
	fs.IntVar(&f.totalYears, "years", def.TotalYears, "Total simulated years")
	fs.IntVar(&f.policyYears, "policy-years", def.PolicyYears, "Years over which the multiplier ramps to the target (0 = instant)")
	fs.IntVar(&f.stepsPerYear, "steps-per-year", def.StepsPerYear, "Simulation steps per year")
	fs.Float64Var(&f.drift, "drift", def.AnnualDrift, "Annual drift of the fundamental value")
	fs.Float64Var(&f.volatility, "volatility", def.AnnualVolatility, "Annual volatility of the fundamental value")
	fs.StringVar(&f.negativeValues, "negative-values", string(def.NegativeValues), "Handling of non-positive fundamental values (allow, clamp)")
	fs.Float64Var(&f.floor, "floor", 0, "Clamp floor for --negative-values=clamp (0 = default)")
}

// resolve builds the config: preset or file first, then explicitly set flags on top.
func (f *scenarioFlags) resolve(cmd *cobra.Command) (sim.SimulationConfig, error) {
	if f.configPath != "" && f.presetName != "" {
		return sim.SimulationConfig{}, fmt.Errorf("--config and --preset are mutually exclusive")
	}

	cfg := sim.DefaultConfig()
	switch {
	case f.configPath != "":
		loaded, err := sim.LoadConfig(f.configPath)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		cfg = loaded
	case f.presetName != "":
		presets, err := loadPresets(f.presetsPath)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
		cfg, err = presets.Lookup(f.presetName)
		if err != nil {
			return sim.SimulationConfig{}, err
		}
	}

	// Flags override file/preset values only when set explicitly.
	flags := cmd.Flags()
	if flags.Changed("initial-index") {
		cfg.InitialIndexLevel = f.initialIndex
	}
	if flags.Changed("initial-multiplier") {
		cfg.InitialMultiplier = f.initialMultiplier
	}
	if flags.Changed("target-multiplier") {
		cfg.TargetMultiplier = f.targetMultiplier
	}
	if flags.Changed("years") {
		cfg.TotalYears = f.totalYears
	}
	if flags.Changed("policy-years") {
		cfg.PolicyYears = f.policyYears
	}
	if flags.Changed("steps-per-year") {
		cfg.StepsPerYear = f.stepsPerYear
	}
	if flags.Changed("drift") {
		cfg.AnnualDrift = f.drift
	}
	if flags.Changed("volatility") {
		cfg.AnnualVolatility = f.volatility
	}
	if flags.Changed("negative-values") {
		cfg.NegativeValues = sim.NegativeValuePolicy(f.negativeValues)
	}
	if flags.Changed("floor") {
		cfg.Floor = f.floor
	}

	if err := cfg.Validate(); err != nil {
		return sim.SimulationConfig{}, err
	}
	return cfg, nil
}

func loadPresets(path string) (sim.PresetFile, error) {
	if path == "" {
		return sim.BuiltinPresets()
	}
	return sim.LoadPresets(path)
}
