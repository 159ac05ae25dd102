package sim

import (
	"errors"

	"github.com/san-kum/tablesim/internal/table"
)

var (
	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("sim: run canceled by context")
)

// RunError wraps an error with the tick it happened on and the table at
// that point.
type RunError struct {
	Tick    int
	Balls   []table.Ball
	Wrapped error
}

func (e *RunError) Error() string {
	return e.Wrapped.Error()
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
