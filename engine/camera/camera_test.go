package camera

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/oxy-canvas/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func vec3At(buf []byte, offset int) mgl32.Vec3 {
	return mgl32.Vec3{floatAt(buf, offset), floatAt(buf, offset+4), floatAt(buf, offset+8)}
}

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], tol, "component %d of %v", i, got)
	}
}

func newTestCamera(t *testing.T, options ...CameraBuilderOption) Camera {
	t.Helper()
	c, err := NewCamera(16.0/9.0, Degrees(30), options...)
	require.NoError(t, err)
	return c
}

func TestIdentityPack(t *testing.T) {
	c := newTestCamera(t)
	buf := c.Pack()
	require.Len(t, buf, GPUCameraUniformSize)

	want := []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0,
	}
	for i, w := range want {
		assert.Equal(t, w, floatAt(buf, i*4), "float %d", i)
	}
	assert.Equal(t, float32(16.0/9.0), floatAt(buf, 60))
	assert.InDelta(t, 0.57735, floatAt(buf, 64), tol)
	for i := 68; i < 80; i++ {
		assert.Zero(t, buf[i], "tail padding byte %d", i)
	}
}

func TestPitchNinety(t *testing.T) {
	c := newTestCamera(t)
	c.Rotate(Degrees(90), Degrees(0))

	r := c.Orientation()
	assertVec3(t, mgl32.Vec3{1, 0, 0}, r.Row(0))
	assertVec3(t, mgl32.Vec3{0, 0, -1}, r.Row(1))
	assertVec3(t, mgl32.Vec3{0, 1, 0}, r.Row(2))

	// world +Y maps to +Z: the camera now looks straight up
	assertVec3(t, mgl32.Vec3{0, 0, 1}, r.Mul3x1(mgl32.Vec3{0, 1, 0}))
	assert.InDelta(t, 90, c.Pitch().Degrees(), 0.05)
}

func TestForwardTranslate(t *testing.T) {
	c := newTestCamera(t)
	c.Translate(1, 0, 0)
	assertVec3(t, mgl32.Vec3{0, 0, 0.1}, c.Position())
	assertVec3(t, mgl32.Vec3{0, 0, 0.1}, vec3At(c.Pack(), 48))
}

func TestTranslateAxes(t *testing.T) {
	c := newTestCamera(t, WithMoveGain(1, 2, 3))
	c.Translate(0, 1, 0)
	assertVec3(t, mgl32.Vec3{2, 0, 0}, c.Position())
	c.Translate(0, 0, 1)
	assertVec3(t, mgl32.Vec3{2, 3, 0}, c.Position())
}

func TestTranslateFollowsOrientation(t *testing.T) {
	c := newTestCamera(t)
	c.Rotate(Degrees(0), Degrees(90))
	c.Translate(10, 0, 0)
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, c.Position())
}

func TestTranslateZeroIsNoop(t *testing.T) {
	c := newTestCamera(t)
	c.Rotate(Degrees(12), Degrees(-40))
	c.Translate(3, -1, 2)
	before := c.Pack()
	c.Translate(0, 0, 0)
	assert.Equal(t, before, c.Pack())
}

func TestSetAspectPacksBitExact(t *testing.T) {
	c := newTestCamera(t)
	require.NoError(t, c.SetAspect(2.0))
	buf := c.Pack()
	assert.Equal(t, math.Float32bits(2.0), binary.LittleEndian.Uint32(buf[60:]))

	a := float32(1280.0) / float32(719.0)
	require.NoError(t, c.SetAspect(a))
	assert.Equal(t, math.Float32bits(a), binary.LittleEndian.Uint32(c.Pack()[60:]))
}

func TestYawOnly(t *testing.T) {
	c := newTestCamera(t)
	c.Rotate(Degrees(0), Degrees(10))

	assert.InDelta(t, 0, c.Pitch().Degrees(), 1e-3)
	assert.InDelta(t, 10, c.Yaw().Degrees(), 1e-3)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.Orientation().Row(1))
	assert.Less(t, common.OrthonormalityError(c.Orientation()), float32(1e-4))

	// row 0 is the left axis, so positive yaw turns the view to the right
	fwd := c.Orientation().Row(2)
	assertVec3(t, mgl32.Vec3{-0.17364818, 0, 0.98480775}, fwd)
	assert.Greater(t, fwd.Dot(mgl32.Vec3{-1, 0, 0}), float32(0))
}

func TestRotateComposesOnTheRight(t *testing.T) {
	phi := mgl32.DegToRad(10)
	theta := mgl32.DegToRad(25)

	c := newTestCamera(t)
	c.Rotate(Degrees(0), Degrees(10))
	assert.True(t, c.Orientation().ApproxEqualThreshold(mgl32.Rotate3DY(phi), tol))

	c = newTestCamera(t)
	c.Rotate(Degrees(25), Degrees(0))
	assert.True(t, c.Orientation().ApproxEqualThreshold(mgl32.Rotate3DX(theta), tol))

	c = newTestCamera(t)
	c.Rotate(Degrees(25), Degrees(10))
	want := mgl32.Rotate3DX(theta).Mul3(mgl32.Rotate3DY(phi))
	assert.True(t, c.Orientation().ApproxEqualThreshold(want, tol))

	// a later pitch turns about the current left axis, which it keeps
	left := c.Orientation().Row(0)
	c.Rotate(Degrees(-40), Degrees(0))
	assertVec3(t, left, c.Orientation().Row(0))
}

func TestNonFiniteIncrementsIgnored(t *testing.T) {
	c := newTestCamera(t)
	c.Rotate(Degrees(5), Degrees(7))
	c.Translate(1, 2, 3)
	before := c.Pack()

	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	c.Rotate(Radians(nan), Degrees(1))
	c.Rotate(Degrees(1), Radians(inf))
	c.Translate(nan, 0, 0)
	c.Translate(0, 0, inf)
	assert.Equal(t, before, c.Pack())

	// a huge gain overflowing the scaled angle is ignored too
	require.NoError(t, c.SetRotGain(math.MaxFloat32, 1))
	c.Rotate(Radians(math.MaxFloat32), Degrees(0))
	assert.Equal(t, before, c.Pack())
}

func TestRotGainScalesAngles(t *testing.T) {
	c := newTestCamera(t, WithRotGain(0.5, 2))
	c.Rotate(Degrees(20), Degrees(10))
	assert.InDelta(t, 10, c.Pitch().Degrees(), 1e-3)
	assert.InDelta(t, 20, c.Yaw().Degrees(), 1e-3)
}

func TestRandomRotatesStayOrthonormal(t *testing.T) {
	c := newTestCamera(t)
	rng := rand.New(rand.NewPCG(1, 2))
	for range 1000 {
		c.Rotate(Degrees(rng.Float32()*10-5), Degrees(rng.Float32()*10-5))
	}
	r := c.Orientation()
	assert.Less(t, common.OrthonormalityError(r), float32(1e-4))
	assert.InDelta(t, 1, r.Det(), 1e-4)
}

func TestReorthonormalizeInterval(t *testing.T) {
	c := newTestCamera(t, WithReorthonormalizeInterval(1))
	rng := rand.New(rand.NewPCG(3, 4))
	for range 500 {
		c.Rotate(Degrees(rng.Float32()*90-45), Degrees(rng.Float32()*90-45))
	}
	assert.Less(t, common.OrthonormalityError(c.Orientation()), float32(1e-5))
}

func TestLookAtRoundTrip(t *testing.T) {
	c := newTestCamera(t, WithPosition(mgl32.Vec3{1, 2, 3}))
	eye := mgl32.Vec3{4, -2, 10}
	require.NoError(t, c.LookAt(eye))

	want := eye.Sub(mgl32.Vec3{1, 2, 3}).Normalize()
	assertVec3(t, want, vec3At(c.Pack(), 32))

	r := c.Orientation()
	assert.Less(t, common.OrthonormalityError(r), float32(1e-4))
	assert.InDelta(t, 1, r.Det(), 1e-4)
	assert.InDelta(t, 0, r.Row(0)[1], tol, "left axis stays horizontal")
}

func TestLookAtStraightUp(t *testing.T) {
	c := newTestCamera(t)
	require.NoError(t, c.LookAt(mgl32.Vec3{0, 5, 0}))

	r := c.Orientation()
	assertVec3(t, mgl32.Vec3{0, 1, 0}, r.Row(2))
	assertVec3(t, mgl32.Vec3{1, 0, 0}, r.Row(0))
	assert.InDelta(t, 1, r.Det(), 1e-4)
}

func TestLookAtDegenerate(t *testing.T) {
	c := newTestCamera(t, WithPosition(mgl32.Vec3{1, 1, 1}))
	c.Rotate(Degrees(10), Degrees(20))
	before := c.Pack()

	err := c.LookAt(mgl32.Vec3{1, 1, 1})
	require.ErrorIs(t, err, ErrDegenerateGeometry)

	inf := float32(math.Inf(1))
	err = c.LookAt(mgl32.Vec3{inf, 0, 0})
	require.ErrorIs(t, err, ErrDegenerateGeometry)

	assert.Equal(t, before, c.Pack())
}

func TestNewCameraInvalidArguments(t *testing.T) {
	nan := float32(math.NaN())
	cases := []struct {
		name   string
		aspect float32
		angle  Angle
	}{
		{"zero aspect", 0, Degrees(30)},
		{"negative aspect", -1, Degrees(30)},
		{"nan aspect", nan, Degrees(30)},
		{"zero angle", 1, Degrees(0)},
		{"right angle", 1, Degrees(90)},
		{"obtuse angle", 1, Degrees(120)},
		{"nan angle", 1, Radians(nan)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCamera(tc.aspect, tc.angle)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	_, err := NewCamera(1, Degrees(30), WithMoveGain(nan, 0, 0))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSettersLeaveStateOnError(t *testing.T) {
	c := newTestCamera(t)
	before := c.Pack()

	assert.ErrorIs(t, c.SetAspect(-2), ErrInvalidArgument)
	assert.ErrorIs(t, c.SetViewAngle(Radians(2)), ErrInvalidArgument)
	assert.ErrorIs(t, c.SetPosition(mgl32.Vec3{float32(math.NaN()), 0, 0}), ErrInvalidArgument)
	assert.ErrorIs(t, c.SetRotGain(float32(math.Inf(-1)), 1), ErrInvalidArgument)

	assert.Equal(t, before, c.Pack())
}

func TestSetViewAngle(t *testing.T) {
	c := newTestCamera(t)
	require.NoError(t, c.SetViewAngle(Degrees(45)))
	assert.InDelta(t, 1, c.TanHalfFov(), tol)
	assert.InDelta(t, 1, floatAt(c.Pack(), 64), tol)
}

func TestAngleUnits(t *testing.T) {
	assert.InDelta(t, math.Pi, Degrees(180).Radians(), 1e-6)
	assert.InDelta(t, 90, Radians(math.Pi/2).Degrees(), 1e-4)
}
