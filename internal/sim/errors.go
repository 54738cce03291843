package sim

import "errors"

var (
	// ErrMissingSurface is returned when a coordinator is built without one
	// of its three drawing surfaces.
	ErrMissingSurface = errors.New("sim: missing drawing surface")

	// ErrInvalidConfig indicates options that cannot drive a simulation.
	ErrInvalidConfig = errors.New("sim: invalid configuration")
)
