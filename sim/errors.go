package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned before any random draw when a
	// SimulationConfig violates its constraints.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrLengthMismatch is returned when two series that must be combined
	// element-wise have different lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrNonFiniteResult is returned when a valid config still drives a
	// series past the float64 range (for example an extreme drift).
	ErrNonFiniteResult = errors.New("non-finite result")
)

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
