package camera

import "errors"

var (
	// ErrInvalidArgument is returned when an aspect ratio, view angle or gain is out of range.
	ErrInvalidArgument = errors.New("camera: invalid argument")

	// ErrDegenerateGeometry is returned when a look-at target gives no usable direction.
	ErrDegenerateGeometry = errors.New("camera: degenerate geometry")
)
