package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/valuation-lab/rerate-sim/sim/trace"
)

// FundamentalPath is the simulated book-value-per-unit sequence of one run.
// Index 0 is InitialIndexLevel / InitialMultiplier. Read-only once produced.
type FundamentalPath []float64

// Last returns the final value of the path, or 0 for an empty path.
func (p FundamentalPath) Last() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1]
}

// PathOption configures optional behavior of SimulatePath.
type PathOption func(*pathOptions)

type pathOptions struct {
	trace *trace.PathTrace
}

// WithTrace records every shock into pt (if pt is enabled).
func WithTrace(pt *trace.PathTrace) PathOption {
	return func(o *pathOptions) {
		o.trace = pt
	}
}

// SimulatePath generates the fundamental path by discretized geometric Brownian motion:
//
//	path[t] = path[t-1] * (1 + step_drift + z*step_vol),  z ~ N(0,1)
//
// Exactly TotalSteps()-1 variates are drawn from src. The config is validated
// before any draw, so an invalid config leaves src untouched.
//
// The multiplicative step does not guarantee positivity: a shock below
// -(1+step_drift)/step_vol drives the path to zero or below. Under NegativeAllow
// such values propagate unchanged; under NegativeClamp they are raised to the floor.
func SimulatePath(cfg SimulationConfig, src NormalSource, opts ...PathOption) (FundamentalPath, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o pathOptions
	for _, opt := range opts {
		opt(&o)
	}

	n := cfg.TotalSteps()
	drift := cfg.StepDrift()
	vol := cfg.StepVolatility()
	clamp := cfg.NegativeValues == NegativeClamp
	floor := cfg.floor()

	logrus.Debugf("simulating %d steps: step_drift=%.6f step_vol=%.6f initial_bps=%.4f",
		n, drift, vol, cfg.InitialBPS())

	path := make(FundamentalPath, n)
	path[0] = cfg.InitialBPS()
	warned := false
	for t := 1; t < n; t++ {
		z := src.NormFloat64()
		factor := 1 + drift + z*vol
		v := path[t-1] * factor
		clamped := false
		if clamp && v < floor {
			v = floor
			clamped = true
		}
		if v <= 0 && !warned {
			logrus.Warnf("fundamental path reached non-positive value %.6g at step %d (shock z=%.3f)", v, t, z)
			warned = true
		}
		path[t] = v
		o.trace.RecordShock(trace.ShockRecord{Step: t, Shock: z, Factor: factor, Value: v, Clamped: clamped})
	}
	return path, nil
}
