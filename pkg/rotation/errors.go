package rotation

import "errors"

var (
	// ErrEmptySet is returned when a controller is built over zero items
	ErrEmptySet = errors.New("rotation: empty rotation set")

	// ErrOutOfRange is returned by JumpTo for an index outside [0, N)
	ErrOutOfRange = errors.New("rotation: index out of range")

	// ErrInvalidInterval is returned for a non-positive tick interval
	ErrInvalidInterval = errors.New("rotation: interval must be positive")

	// ErrInvalidStep is returned for a progress step outside (0, 100]
	ErrInvalidStep = errors.New("rotation: progress step must be in (0, 100]")
)
