package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-canvas/common"
	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCamera(t *testing.T) camera.Camera {
	t.Helper()
	c, err := camera.NewCamera(16.0/9.0, camera.Degrees(30))
	require.NoError(t, err)
	return c
}

func TestDefaultKeyBindings(t *testing.T) {
	cases := []struct {
		name string
		code uint32
		want mgl32.Vec3
	}{
		{"forward", common.KeyW, mgl32.Vec3{0, 0, 0.1}},
		{"back", common.KeyS, mgl32.Vec3{0, 0, -0.1}},
		{"left", common.KeyA, mgl32.Vec3{0.1, 0, 0}},
		{"right", common.KeyD, mgl32.Vec3{-0.1, 0, 0}},
		{"up", common.KeySpace, mgl32.Vec3{0, 0.1, 0}},
		{"down", common.KeyLeftShift, mgl32.Vec3{0, -0.1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cam := newCamera(t)
			m := NewMapper()
			assert.True(t, m.Handle(Key{Code: tc.code, Pressed: true}, cam))
			got := cam.Position()
			for i := range 3 {
				assert.InDelta(t, tc.want[i], got[i], 1e-6)
			}
		})
	}
}

func TestReleasedAndUnboundKeysDoNothing(t *testing.T) {
	cam := newCamera(t)
	m := NewMapper()
	before := cam.Pack()

	assert.False(t, m.Handle(Key{Code: common.KeyW, Pressed: false}, cam))
	assert.False(t, m.Handle(Key{Code: common.KeyQ, Pressed: true}, cam))
	assert.Equal(t, before, cam.Pack())
}

func TestMouseMotionRotates(t *testing.T) {
	cam := newCamera(t)
	m := NewMapper()

	assert.True(t, m.Handle(MouseMotion{DX: 10, DY: 0}, cam))
	assert.InDelta(t, 10, cam.Yaw().Degrees(), 1e-3)
	assert.InDelta(t, 0, cam.Pitch().Degrees(), 1e-3)

	assert.True(t, m.Handle(MouseMotion{DX: 0, DY: 5}, cam))
	assert.InDelta(t, 5, cam.Pitch().Degrees(), 1e-3)
}

func TestMouseRightTurnsViewRight(t *testing.T) {
	cam := newCamera(t)
	screenRight := cam.Orientation().Row(0).Mul(-1)

	NewMapper().Handle(MouseMotion{DX: 10}, cam)
	assert.Greater(t, cam.Orientation().Row(2).Dot(screenRight), float32(0))
}

func TestZeroMotionIsNoChange(t *testing.T) {
	cam := newCamera(t)
	assert.False(t, NewMapper().Handle(MouseMotion{}, cam))
}

func TestMouseLookDisabled(t *testing.T) {
	cam := newCamera(t)
	m := NewMapper(WithMouseLook(false))
	assert.False(t, m.Handle(MouseMotion{DX: 3, DY: 4}, cam))
	assert.Equal(t, mgl32.Ident3(), cam.Orientation())
}

func TestResizeSetsAspect(t *testing.T) {
	cam := newCamera(t)
	m := NewMapper()

	assert.True(t, m.Handle(Resize{Width: 800, Height: 400}, cam))
	assert.Equal(t, float32(2), cam.Aspect())

	assert.False(t, m.Handle(Resize{Width: 800, Height: 0}, cam))
	assert.Equal(t, float32(2), cam.Aspect())
}

func TestCustomBindings(t *testing.T) {
	cam := newCamera(t)
	m := NewMapper(
		WithBindings(map[uint32]Step{common.KeyUp: {Forward: 2}}),
		WithBinding(common.KeyE, Step{Up: 1}),
	)

	_, ok := m.Binding(common.KeyW)
	assert.False(t, ok)

	assert.True(t, m.Handle(Key{Code: common.KeyUp, Pressed: true}, cam))
	assert.InDelta(t, 0.2, cam.Position()[2], 1e-6)

	m.SetBinding(common.KeyW, Step{Forward: 1})
	assert.Len(t, m.Bindings(), 3)
}

func TestCloseRequestedIsNoChange(t *testing.T) {
	cam := newCamera(t)
	assert.False(t, NewMapper().Handle(CloseRequested{}, cam))
}
