package input

import "log/slog"

// DispatcherBuilderOption is a functional option for configuring a Dispatcher.
type DispatcherBuilderOption func(*dispatcherImpl)

// WithRenderer sets the renderer that receives resize and shader reload requests.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithRenderer(r Renderer) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		d.renderer = r
	}
}

// WithLogger sets the structured logger. A nil logger keeps slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPanStep sets the model pan distance per arrow key event. Default 0.1.
//
// Parameters:
//   - step: pan distance in model units, ignored unless positive
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithPanStep(step float32) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if step > 0 {
			d.panStep = step
		}
	}
}

// WithAngleStep sets the model rotation per key event. Default π/10.
//
// Parameters:
//   - radians: rotation angle, ignored unless positive
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithAngleStep(radians float32) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if radians > 0 {
			d.angleStep = radians
		}
	}
}

// WithScaleStep sets the model scale factor per PageUp/PageDown event. Default 1.1.
//
// Parameters:
//   - factor: scale factor, ignored unless greater than 1
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithScaleStep(factor float32) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if factor > 1 {
			d.scaleStep = factor
		}
	}
}

// WithScrollFactor sets the relative zoom per scroll unit. Default 0.1, so one wheel notch
// up moves the camera 10% of the way toward the target.
//
// Parameters:
//   - factor: relative zoom per unit, ignored unless in (0, 1)
//
// Returns:
//   - DispatcherBuilderOption: option function to apply
func WithScrollFactor(factor float32) DispatcherBuilderOption {
	return func(d *dispatcherImpl) {
		if factor > 0 && factor < 1 {
			d.scrollScale = factor
		}
	}
}
