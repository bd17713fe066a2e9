package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option for configuring a Camera.
// Options run in order and the first error aborts NewCamera.
type CameraBuilderOption func(*cameraImpl) error

// WithPerspective sets the camera's projection parameters.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets and validates the perspective
func WithPerspective(fovY, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) error {
		return c.SetPerspective(fovY, near, far)
	}
}

// WithViewport sets the initial viewport size.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets and validates the viewport
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) error {
		return c.SetViewport(width, height)
	}
}

// WithLookAt places the camera with LookAt during construction.
//
// Parameters:
//   - position: camera position in world space
//   - target: look-at point
//   - up: up direction
//
// Returns:
//   - CameraBuilderOption: a function that builds the initial view matrix
func WithLookAt(position, target, up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) error {
		return c.LookAt(position, target, up)
	}
}
