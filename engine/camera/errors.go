package camera

import "errors"

var (
	// ErrDegenerateBasis is returned by LookAt when position, target and up cannot form
	// an orthonormal basis: position equals target, up is zero, or up is parallel to the
	// view direction.
	ErrDegenerateBasis = errors.New("degenerate camera basis")

	// ErrInvalidPerspective is returned when perspective parameters are out of range.
	ErrInvalidPerspective = errors.New("invalid perspective parameters")

	// ErrInvalidViewport is returned when a viewport dimension is not positive.
	ErrInvalidViewport = errors.New("invalid viewport size")

	// ErrZoomThroughTarget is returned when a zoom would move the camera onto or past its target.
	ErrZoomThroughTarget = errors.New("zoom would pass through target")
)
