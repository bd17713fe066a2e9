package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// basisEpsilon is the smallest vector length accepted when building a camera basis.
	basisEpsilon = 1e-6

	// minZoomFactor is the smallest relative distance a single zoom step may leave
	// between the camera and its target.
	minZoomFactor = 1e-4

	defaultFovY = float32(math.Pi / 2)
	defaultNear = float32(0.1)
	defaultFar  = float32(10000)
)

// cameraImpl holds the authoritative view matrix plus the projection parameters.
// All fields are owned by the thread that dispatches input and renders, so there is no locking.
type cameraImpl struct {
	// view maps world space into camera space. Rotation rows are the camera X, Y, Z axes,
	// the translation lives in column 3.
	view   mgl32.Mat4
	target mgl32.Vec3

	fovY float32
	near float32
	far  float32

	viewportWidth  int
	viewportHeight int
}

// Camera defines the interface for the viewer camera.
// The camera owns a world-to-camera view matrix, the orbit target and the perspective
// parameters. The projection matrix is derived on demand and never cached.
//
// Matrices use the column-vector convention (v' = M * v) with column-major storage,
// matching github.com/go-gl/mathgl/mgl32 and GLSL/WGSL uniform layout.
type Camera interface {
	// LookAt places the camera at position looking at target with the given up direction.
	// The basis is Z = normalize(position - target), X = normalize(up) × Z, Y = Z × X.
	// The camera is left unchanged if the inputs are degenerate.
	//
	// Parameters:
	//   - position: camera position in world space
	//   - target: the point to look at and orbit around
	//   - up: approximate up direction, must not be parallel to position - target
	//
	// Returns:
	//   - error: wraps ErrDegenerateBasis if no basis can be built
	LookAt(position, target, up mgl32.Vec3) error

	// SetPerspective sets the projection parameters.
	//
	// Parameters:
	//   - fovY: vertical field of view in radians, in (0, π)
	//   - near: near plane distance, > 0
	//   - far: far plane distance, > near
	//
	// Returns:
	//   - error: wraps ErrInvalidPerspective if a parameter is out of range
	SetPerspective(fovY, near, far float32) error

	// SetViewport sets the viewport size used for the projection aspect ratio.
	//
	// Parameters:
	//   - width: viewport width in pixels, > 0
	//   - height: viewport height in pixels, > 0
	//
	// Returns:
	//   - error: wraps ErrInvalidViewport if a dimension is not positive
	SetViewport(width, height int) error

	// Zoom moves the camera along its view direction so the distance to the target is
	// multiplied by (1 + amount). Negative amounts move closer, positive amounts move away.
	//
	// Parameters:
	//   - amount: relative distance change
	//
	// Returns:
	//   - error: wraps ErrZoomThroughTarget if the camera would reach or pass the target
	Zoom(amount float32) error

	// RotateAroundTarget orbits the camera around the target by -angle about axis,
	// so the scene appears to rotate by +angle. The view matrix is rebuilt through LookAt
	// from the rotated position and up vector.
	//
	// Parameters:
	//   - angle: rotation angle in radians
	//   - axis: world-space rotation axis, need not be normalized
	//
	// Returns:
	//   - error: wraps ErrDegenerateBasis if the camera currently sits on its target
	RotateAroundTarget(angle float32, axis mgl32.Vec3) error

	// ViewMatrix returns the world-to-camera matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns a symmetric perspective projection producing clip
	// coordinates in [-1, 1]. An unset viewport uses an aspect ratio of 1.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Rotation returns the rotation block of the view matrix.
	//
	// Returns:
	//   - mgl32.Mat3: world-to-camera rotation
	Rotation() mgl32.Mat3

	// Position returns the camera position in world space.
	Position() mgl32.Vec3

	// Target returns the orbit and zoom target.
	Target() mgl32.Vec3

	// Up returns the camera's current up axis in world space.
	Up() mgl32.Vec3

	// Distance returns the distance between the camera and its target.
	Distance() float32

	// Viewport returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: viewport dimensions, zero until first set
	Viewport() (width, height int)

	// Aspect returns the viewport aspect ratio, or 1 if the viewport is unset.
	Aspect() float32

	// FovY returns the vertical field of view in radians.
	FovY() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with an identity view matrix and the default perspective
// (fovY = π/2, near = 0.1, far = 10000), then applies the options in order.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
//   - error: the first error reported by an option
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		view: mgl32.Ident4(),
		fovY: defaultFovY,
		near: defaultNear,
		far:  defaultFar,
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *cameraImpl) LookAt(position, target, up mgl32.Vec3) error {
	view, err := lookAtMatrix(position, target, up)
	if err != nil {
		return err
	}
	c.view = view
	c.target = target
	return nil
}

func (c *cameraImpl) SetPerspective(fovY, near, far float32) error {
	if err := validatePerspective(fovY, near, far); err != nil {
		return err
	}
	c.fovY = fovY
	c.near = near
	c.far = far
	return nil
}

func (c *cameraImpl) SetViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidViewport, width, height)
	}
	c.viewportWidth = width
	c.viewportHeight = height
	return nil
}

func (c *cameraImpl) Zoom(amount float32) error {
	if amount == 0 {
		return nil
	}
	if 1+amount <= minZoomFactor {
		return fmt.Errorf("%w: amount %g", ErrZoomThroughTarget, amount)
	}

	// Distance to the target measured in camera space, then translate the world along
	// camera Z. Moving the world by -amount*d is the same as moving the camera by +amount*d.
	t := c.view.Mul4x1(c.target.Vec4(1)).Vec3()
	d := t.Len()
	c.view = mgl32.Translate3D(0, 0, -amount*d).Mul4(c.view)
	return nil
}

func (c *cameraImpl) RotateAroundTarget(angle float32, axis mgl32.Vec3) error {
	if angle == 0 || axis.Len() < basisEpsilon {
		return nil
	}

	orbit := common.Translation(c.target[0], c.target[1], c.target[2]).
		Mul(common.AxisAngle(-angle, axis)).
		Mul(common.Translation(-c.target[0], -c.target[1], -c.target[2]))

	position := orbit.TransformPoint(c.Position())
	up := orbit.TransformVector(c.Up())
	return c.LookAt(position, c.target, up)
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.fovY, c.Aspect(), c.near, c.far)
}

func (c *cameraImpl) Rotation() mgl32.Mat3 {
	return c.view.Mat3()
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	return common.AffineFromMat4(c.view).RigidInverse().Translation
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	return c.target
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	return c.view.Row(1).Vec3()
}

func (c *cameraImpl) Distance() float32 {
	return c.Position().Sub(c.target).Len()
}

func (c *cameraImpl) Viewport() (width, height int) {
	return c.viewportWidth, c.viewportHeight
}

func (c *cameraImpl) Aspect() float32 {
	if c.viewportWidth <= 0 || c.viewportHeight <= 0 {
		return 1
	}
	return float32(c.viewportWidth) / float32(c.viewportHeight)
}

func (c *cameraImpl) FovY() float32 {
	return c.fovY
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

// lookAtMatrix builds the world-to-camera matrix for a camera at position looking at target.
//
// Parameters:
//   - position: camera position in world space
//   - target: look-at point in world space
//   - up: approximate up direction
//
// Returns:
//   - mgl32.Mat4: the view matrix, rotation rows [X; Y; Z] and translation -R*position
//   - error: wraps ErrDegenerateBasis for coincident points, zero up, or parallel up
func lookAtMatrix(position, target, up mgl32.Vec3) (mgl32.Mat4, error) {
	back := position.Sub(target)
	if back.Len() < basisEpsilon {
		return mgl32.Mat4{}, fmt.Errorf("%w: position %v coincides with target", ErrDegenerateBasis, position)
	}
	if up.Len() < basisEpsilon {
		return mgl32.Mat4{}, fmt.Errorf("%w: up vector is zero", ErrDegenerateBasis)
	}

	z := back.Normalize()
	x := up.Normalize().Cross(z)
	if x.Len() < basisEpsilon {
		return mgl32.Mat4{}, fmt.Errorf("%w: up %v is parallel to view direction %v", ErrDegenerateBasis, up, z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl32.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(position), -y.Dot(position), -z.Dot(position), 1,
	}, nil
}

// validatePerspective checks that fovY is in (0, π), near is positive and far exceeds near.
func validatePerspective(fovY, near, far float32) error {
	switch {
	case !(fovY > 0 && fovY < math.Pi):
		return fmt.Errorf("%w: fovY %g must be in (0, π)", ErrInvalidPerspective, fovY)
	case !(near > 0):
		return fmt.Errorf("%w: near %g must be positive", ErrInvalidPerspective, near)
	case !(far > near):
		return fmt.Errorf("%w: far %g must exceed near %g", ErrInvalidPerspective, far, near)
	}
	return nil
}
