package table

import "errors"

// Domain errors for registry operations.
var (
	// ErrIndexOutOfRange indicates a ball index that is not in the registry.
	ErrIndexOutOfRange = errors.New("table: ball index out of range")

	// ErrInvalidColor indicates a color string that is not #RGB or #RRGGBB.
	ErrInvalidColor = errors.New("table: invalid color")

	// ErrInvalidBall indicates a ball with a non-positive radius.
	ErrInvalidBall = errors.New("table: invalid ball")

	// ErrNonFinite indicates a NaN or Inf coordinate.
	ErrNonFinite = errors.New("table: non-finite value")
)
