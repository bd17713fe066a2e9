package camera

// TrackballOption is a functional option for configuring a Trackball.
type TrackballOption func(*trackballImpl)

// WithSensitivity sets the multiplier applied to each trackball rotation angle.
// Non-positive values are ignored.
//
// Parameters:
//   - sensitivity: angle multiplier (default 1)
//
// Returns:
//   - TrackballOption: functional option to set the sensitivity
func WithSensitivity(sensitivity float32) TrackballOption {
	return func(t *trackballImpl) {
		if sensitivity > 0 {
			t.sensitivity = sensitivity
		}
	}
}
