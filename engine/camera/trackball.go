package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// trackEpsilon is the smallest |p0 × p1| treated as a rotation. Below it a drag step
// carries no usable axis and is skipped.
const trackEpsilon = 1e-7

// TrackingMode is the drag state of a Trackball.
type TrackingMode int

const (
	// NotTracking means pointer motion is recorded but produces no rotation.
	NotTracking TrackingMode = iota
	// Orbiting means pointer motion rotates the camera around its target.
	Orbiting
)

func (m TrackingMode) String() string {
	switch m {
	case NotTracking:
		return "not-tracking"
	case Orbiting:
		return "orbiting"
	default:
		return "unknown"
	}
}

// Trackball defines the interface for the virtual trackball controller.
// It converts successive 2D pointer samples into incremental rotations applied to a
// Camera through RotateAroundTarget. Each rotation is committed as it is produced;
// stopping a drag never rolls back.
type Trackball interface {
	// Start begins a drag. It captures the camera rotation as the reference and clears
	// the previous pointer sample, so the next Track call only records its position.
	Start()

	// Track feeds a pointer sample in window pixel coordinates (origin top-left, y down).
	// While orbiting, the motion since the previous sample is applied to the camera.
	//
	// Parameters:
	//   - x, y: pointer position in pixels, may lie outside the viewport
	//
	// Returns:
	//   - error: the camera error if the rotation could not be applied
	Track(x, y int) error

	// Stop ends the drag and returns to NotTracking.
	Stop()

	// Mode returns the current tracking mode.
	Mode() TrackingMode

	// Camera returns the camera driven by this trackball.
	Camera() Camera

	// ReferenceRotation returns the camera rotation captured by the last Start.
	//
	// Returns:
	//   - mgl32.Mat3: world-to-camera rotation at drag start
	ReferenceRotation() mgl32.Mat3

	// DragRotation returns the rotation applied to the camera since the last Start,
	// expressed as current * reference^T.
	//
	// Returns:
	//   - mgl32.Mat3: the accumulated drag rotation
	DragRotation() mgl32.Mat3

	// LastPosition returns the most recent pointer sample.
	//
	// Returns:
	//   - x, y: the last sample in pixels
	//   - ok: false if no sample was recorded since the last Start
	LastPosition() (x, y int, ok bool)

	// Sensitivity returns the multiplier applied to each rotation angle.
	Sensitivity() float32
}

type trackballImpl struct {
	camera Camera

	mode      TrackingMode
	reference mgl32.Mat3

	lastX, lastY int
	hasLast      bool

	sensitivity float32
}

var _ Trackball = &trackballImpl{}

// NewTrackball creates a Trackball driving cam. The camera is not owned and must outlive
// the trackball.
//
// Parameters:
//   - cam: the camera to rotate
//   - options: functional options to configure the trackball
//
// Returns:
//   - Trackball: the newly created trackball in NotTracking mode
func NewTrackball(cam Camera, options ...TrackballOption) Trackball {
	t := &trackballImpl{
		camera:      cam,
		mode:        NotTracking,
		reference:   cam.Rotation(),
		sensitivity: 1,
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *trackballImpl) Start() {
	t.reference = t.camera.Rotation()
	t.hasLast = false
	t.mode = Orbiting
}

func (t *trackballImpl) Track(x, y int) error {
	prevX, prevY, hadPrev := t.lastX, t.lastY, t.hasLast
	t.lastX, t.lastY, t.hasLast = x, y, true

	if t.mode != Orbiting || !hadPrev || (prevX == x && prevY == y) {
		return nil
	}

	width, height := t.camera.Viewport()
	p0 := projectToSphere(prevX, prevY, width, height)
	p1 := projectToSphere(x, y, width, height)

	axis, angle := rotationBetween(p0, p1)
	if angle == 0 {
		return nil
	}

	// The axis is in camera space; the transpose of the view rotation takes it to world space.
	world := t.camera.Rotation().Transpose().Mul3x1(axis)
	return t.camera.RotateAroundTarget(angle*t.sensitivity, world)
}

func (t *trackballImpl) Stop() {
	t.mode = NotTracking
}

func (t *trackballImpl) Mode() TrackingMode {
	return t.mode
}

func (t *trackballImpl) Camera() Camera {
	return t.camera
}

func (t *trackballImpl) ReferenceRotation() mgl32.Mat3 {
	return t.reference
}

func (t *trackballImpl) DragRotation() mgl32.Mat3 {
	return t.camera.Rotation().Mul3(t.reference.Transpose())
}

func (t *trackballImpl) LastPosition() (x, y int, ok bool) {
	return t.lastX, t.lastY, t.hasLast
}

func (t *trackballImpl) Sensitivity() float32 {
	return t.sensitivity
}

// projectToSphere maps a pixel position onto the unit trackball hemisphere.
// The viewport is treated as a disk of radius min(width, height)/2 centred on its middle,
// with y pointing up. Points inside the disk are lifted to z = sqrt(1 - x² - y²); points
// outside are pulled onto the equator (z = 0) by normalizing (x, y).
//
// Parameters:
//   - px, py: pixel position, origin top-left
//   - width, height: viewport size in pixels; an unset viewport is treated as 1x1
//
// Returns:
//   - mgl32.Vec3: a unit vector on the hemisphere
func projectToSphere(px, py, width, height int) mgl32.Vec3 {
	w := math32.Max(float32(width), 1)
	h := math32.Max(float32(height), 1)
	r := math32.Min(w, h) / 2

	x := (float32(px) - w/2) / r
	y := (h/2 - float32(py)) / r

	d2 := x*x + y*y
	if d2 <= 1 {
		return mgl32.Vec3{x, y, math32.Sqrt(1 - d2)}
	}
	d := math32.Sqrt(d2)
	return mgl32.Vec3{x / d, y / d, 0}
}

// rotationBetween returns the unit axis and angle rotating p0 towards p1.
// The angle is atan2(|p0 × p1|, p0 · p1), exact over the whole [0, π] range. Identical
// samples yield a zero axis and zero angle; opposite samples turn by π about the axis
// perpendicular to p0 in the view plane.
//
// Parameters:
//   - p0, p1: unit vectors on the trackball hemisphere
//
// Returns:
//   - mgl32.Vec3: the unit rotation axis, or zero
//   - float32: the rotation angle in radians, or 0
func rotationBetween(p0, p1 mgl32.Vec3) (mgl32.Vec3, float32) {
	axis := p0.Cross(p1)
	s := axis.Len()
	c := p0.Dot(p1)
	if s >= trackEpsilon {
		return axis.Mul(1 / s), math32.Atan2(s, c)
	}
	if !(c < 0) {
		return mgl32.Vec3{}, 0
	}
	axis = p0.Cross(mgl32.Vec3{0, 0, 1})
	if axis.Len() < trackEpsilon {
		axis = p0.Cross(mgl32.Vec3{1, 0, 0})
	}
	return axis.Normalize(), math32.Pi
}
