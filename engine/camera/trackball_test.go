package camera

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/common/commontest"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrackball(t *testing.T, options ...TrackballOption) (Camera, Trackball) {
	t.Helper()
	cam := newTestCamera(t, mgl32.Vec3{0, 0, 5}, mgl32.Vec3{})
	return cam, NewTrackball(cam, options...)
}

func TestTrackballStateMachine(t *testing.T) {
	cam, tb := newTestTrackball(t)
	assert.Equal(t, NotTracking, tb.Mode())
	assert.Equal(t, cam, tb.Camera())

	tb.Start()
	assert.Equal(t, Orbiting, tb.Mode())
	_, _, ok := tb.LastPosition()
	assert.False(t, ok, "Start must clear the previous sample")

	tb.Stop()
	assert.Equal(t, NotTracking, tb.Mode())
	assert.Equal(t, "not-tracking", NotTracking.String())
	assert.Equal(t, "orbiting", Orbiting.String())
}

func TestTrackballFirstSampleOnlyRecords(t *testing.T) {
	cam, tb := newTestTrackball(t)
	before := cam.ViewMatrix()

	tb.Start()
	require.NoError(t, tb.Track(100, 50))
	assert.Equal(t, before, cam.ViewMatrix())

	x, y, ok := tb.LastPosition()
	assert.True(t, ok)
	assert.Equal(t, 100, x)
	assert.Equal(t, 50, y)
}

func TestTrackballIdenticalSamplesAreIdentity(t *testing.T) {
	cam, tb := newTestTrackball(t)
	before := cam.ViewMatrix()

	tb.Start()
	require.NoError(t, tb.Track(420, 310))
	require.NoError(t, tb.Track(420, 310))

	assert.Equal(t, before, cam.ViewMatrix())
	assert.True(t, tb.DragRotation().ApproxEqualThreshold(mgl32.Ident3(), 1e-6))
}

func TestTrackballIgnoresMotionWhenNotTracking(t *testing.T) {
	cam, tb := newTestTrackball(t)
	before := cam.ViewMatrix()

	require.NoError(t, tb.Track(400, 300))
	require.NoError(t, tb.Track(600, 100))
	assert.Equal(t, before, cam.ViewMatrix())

	x, y, ok := tb.LastPosition()
	assert.True(t, ok)
	assert.Equal(t, 600, x)
	assert.Equal(t, 100, y)
}

func TestTrackballHorizontalDragOrbitsAboutUp(t *testing.T) {
	cam, tb := newTestTrackball(t)

	tb.Start()
	require.NoError(t, tb.Track(400, 300))
	require.NoError(t, tb.Track(460, 300))

	// dragging right turns the scene right, so the camera swings towards -X
	pos := cam.Position()
	assert.Less(t, pos[0], float32(0))
	assert.InDelta(t, 0, pos[1], tol)
	assert.InDelta(t, 5, cam.Distance(), tol)
	assertVec3InDelta(t, yUp, cam.Up(), tol)
}

func TestTrackballVerticalDragOrbitsAboutRight(t *testing.T) {
	cam, tb := newTestTrackball(t)

	tb.Start()
	require.NoError(t, tb.Track(400, 300))
	require.NoError(t, tb.Track(400, 240))

	// dragging up turns the front of the scene upwards, so the camera drops below the target
	pos := cam.Position()
	assert.Less(t, pos[1], float32(0))
	assert.InDelta(t, 0, pos[0], tol)
	assert.InDelta(t, 5, cam.Distance(), tol)
}

func TestTrackballDragRotationTracksCamera(t *testing.T) {
	cam, tb := newTestTrackball(t)
	reference := cam.Rotation()

	tb.Start()
	assert.Equal(t, reference, tb.ReferenceRotation())
	require.NoError(t, tb.Track(400, 300))
	require.NoError(t, tb.Track(500, 200))
	require.NoError(t, tb.Track(520, 260))

	drag := tb.DragRotation()
	assert.True(t, commontest.IsOrthonormal(drag, tol))
	assert.True(t, drag.Mul3(reference).ApproxEqualThreshold(cam.Rotation(), tol))
	assert.False(t, drag.ApproxEqualThreshold(mgl32.Ident3(), 1e-3))
}

func TestTrackballStopKeepsRotation(t *testing.T) {
	cam, tb := newTestTrackball(t)
	before := cam.ViewMatrix()

	tb.Start()
	require.NoError(t, tb.Track(400, 300))
	require.NoError(t, tb.Track(450, 330))
	tb.Stop()

	after := cam.ViewMatrix()
	assert.NotEqual(t, before, after)

	require.NoError(t, tb.Track(10, 10))
	assert.Equal(t, after, cam.ViewMatrix())
}

func TestTrackballFarOutsideViewportStaysFinite(t *testing.T) {
	cam, tb := newTestTrackball(t)

	tb.Start()
	require.NoError(t, tb.Track(400, 300))
	require.NoError(t, tb.Track(1_000_000_000, -1_000_000_000))
	require.NoError(t, tb.Track(-2_000_000_000, 5))

	view := cam.ViewMatrix()
	for i, v := range view {
		assert.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "element %d is %v", i, v)
	}
	assert.True(t, commontest.IsOrthonormal(cam.Rotation(), tol))
	assert.InDelta(t, 5, cam.Distance(), tol)
}

func TestTrackballUnsetViewport(t *testing.T) {
	cam, err := NewCamera(WithLookAt(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, yUp))
	require.NoError(t, err)
	tb := NewTrackball(cam)

	tb.Start()
	require.NoError(t, tb.Track(0, 0))
	require.NoError(t, tb.Track(3, 7))
	assert.True(t, commontest.Finite(cam.Position()))
}

func TestTrackballSensitivity(t *testing.T) {
	slowCam, slow := newTestTrackball(t)
	fastCam, fast := newTestTrackball(t, WithSensitivity(2))
	assert.Equal(t, float32(2), fast.Sensitivity())

	for _, tb := range []Trackball{slow, fast} {
		tb.Start()
		require.NoError(t, tb.Track(400, 300))
		require.NoError(t, tb.Track(430, 300))
	}

	slowAngle := math.Atan2(float64(-slowCam.Position()[0]), float64(slowCam.Position()[2]))
	fastAngle := math.Atan2(float64(-fastCam.Position()[0]), float64(fastCam.Position()[2]))
	assert.InDelta(t, 2*slowAngle, fastAngle, 1e-4)

	_, ignored := newTestTrackball(t, WithSensitivity(-3))
	assert.Equal(t, float32(1), ignored.Sensitivity())
}

func TestProjectToSphere(t *testing.T) {
	center := projectToSphere(400, 300, 800, 600)
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, center, 1e-6)

	// top edge of the disk, y grows upwards
	top := projectToSphere(400, 0, 800, 600)
	assertVec3InDelta(t, mgl32.Vec3{0, 1, 0}, top, 1e-6)

	corner := projectToSphere(800, 600, 800, 600)
	assert.InDelta(t, 1, corner.Len(), 1e-6)
	assert.Equal(t, float32(0), corner[2])
	assert.Greater(t, corner[0], float32(0))
	assert.Less(t, corner[1], float32(0))

	inside := projectToSphere(500, 250, 800, 600)
	assert.InDelta(t, 1, inside.Len(), 1e-6)
	assert.Greater(t, inside[2], float32(0))
}

func TestRotationBetween(t *testing.T) {
	p := mgl32.Vec3{0, 0, 1}
	axis, angle := rotationBetween(p, p)
	assert.Equal(t, mgl32.Vec3{}, axis)
	assert.Zero(t, angle)

	axis, angle = rotationBetween(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	assertVec3InDelta(t, mgl32.Vec3{0, 0, 1}, axis, 1e-6)
	assert.InDelta(t, math.Pi/2, angle, 1e-3)

	// past a quarter turn the angle keeps growing
	_, angle = rotationBetween(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-0.6, 0.8, 0})
	assert.InDelta(t, math.Acos(-0.6), angle, 1e-5)

	// opposite points turn half way round the view-plane perpendicular
	axis, angle = rotationBetween(mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{1, 0, 0})
	assertVec3InDelta(t, mgl32.Vec3{0, 1, 0}, axis, 1e-6)
	assert.InDelta(t, math.Pi, angle, 1e-6)

	// a cross product that overshoots 1 through rounding must not produce NaN
	_, angle = rotationBetween(mgl32.Vec3{1.0000001, 0, 0}, mgl32.Vec3{0, 1.0000001, 0})
	assert.False(t, math.IsNaN(float64(angle)))
	assert.InDelta(t, math.Pi/2, angle, 1e-3)
}

func TestTrackballWideSingleStep(t *testing.T) {
	cam, tb := newTestTrackball(t)

	// left edge to right edge of the disk on the equator is a half turn about Y
	tb.Start()
	require.NoError(t, tb.Track(100, 300))
	require.NoError(t, tb.Track(700, 300))
	tb.Stop()
	assertVec3InDelta(t, mgl32.Vec3{0, 0, -5}, cam.Position(), 1e-3)
	assert.True(t, commontest.IsOrthonormal(cam.Rotation(), tol))

	cam, tb = newTestTrackball(t)
	before := cam.Position()
	tb.Start()
	require.NoError(t, tb.Track(100, 300))
	require.NoError(t, tb.Track(600, 300))
	after := cam.Position()

	// p0 = (-1, 0, 0), p1 = (2/3, 0, sqrt(5)/3): the turn is acos(-2/3), beyond 90 degrees
	turned := math.Acos(float64(before.Dot(after) / (before.Len() * after.Len())))
	assert.InDelta(t, math.Acos(-2.0/3), turned, 1e-3)
	assert.InDelta(t, 5, cam.Distance(), tol)
}
