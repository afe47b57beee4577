// Package trace provides per-step shock recording for fundamental path analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// ShockRecord captures one multiplicative step of the fundamental path.
type ShockRecord struct {
	Step    int     // index of the value produced by this step (>= 1)
	Shock   float64 // standard-normal draw z
	Factor  float64 // 1 + step_drift + z*step_vol
	Value   float64 // resulting path value after the floor policy was applied
	Clamped bool    // true if the floor policy raised the value
}
