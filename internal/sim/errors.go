package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a run configuration the loop cannot execute.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrUnstable indicates a body state became NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (non-finite body state)")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("sim: run canceled by context")
)

// SimError wraps an error with the tick it happened on.
type SimError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
