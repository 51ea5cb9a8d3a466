package scatter

import "errors"

// Sentinel errors surfaced by the scatter engine. All are detected before
// any write: a call either returns a fully written grid or an error, never
// both.
var (
	// ErrInvalidPolicy is returned at construction for a collision policy
	// outside {Overwrite, Accumulate}.
	ErrInvalidPolicy = errors.New("scatter: invalid collision policy")

	// ErrShapeMismatch is returned when batch or entity-count dimensions
	// disagree between features and coordinates, or when an input has the
	// wrong rank for its role.
	ErrShapeMismatch = errors.New("scatter: shape mismatch")

	// ErrCoordOutOfRange is returned when a coordinate falls outside the
	// target grid. The baseline behavior of letting such coordinates alias
	// into neighboring memory is unsafe and deliberately not reproduced.
	ErrCoordOutOfRange = errors.New("scatter: coordinate out of range")

	// ErrUnsupportedDType is returned when the feature tensor is not a
	// floating-point tensor or the coordinate tensors are not int32.
	ErrUnsupportedDType = errors.New("scatter: unsupported dtype")
)
