package content

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-canvas/common"
	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
	"github.com/Carmen-Shannon/oxy-canvas/engine/input"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleCameraForwardsToMapper(t *testing.T) {
	cam, err := camera.NewCamera(16.0/9.0, camera.Degrees(30))
	require.NoError(t, err)

	c := NewSimpleCamera()
	assert.Empty(t, c.ExtraBindings())

	ev := input.Key{Code: common.KeyW, Pressed: true}
	assert.True(t, c.HandleEvent(ev, cam))
	assert.True(t, cam.Position().ApproxEqual(mgl32.Vec3{0, 0, 0.1}))
	assert.Nil(t, c.Update(ev))

	assert.False(t, c.HandleEvent(input.Key{Code: common.KeyW, Pressed: false}, cam))
	assert.False(t, c.HandleEvent(input.CloseRequested{}, cam))
}

func TestSimpleCameraOptions(t *testing.T) {
	cam, err := camera.NewCamera(1, camera.Degrees(30))
	require.NoError(t, err)

	c := NewSimpleCamera(input.WithMouseLook(false), input.WithBinding(common.KeyQ, input.Step{Up: 1}))
	assert.False(t, c.HandleEvent(input.MouseMotion{DX: 5}, cam))
	assert.True(t, c.HandleEvent(input.Key{Code: common.KeyQ, Pressed: true}, cam))
	assert.True(t, cam.Position().ApproxEqual(mgl32.Vec3{0, 0.1, 0}))

	c.Mapper().SetBinding(common.KeyE, input.Step{Up: -1})
	assert.True(t, c.HandleEvent(input.Key{Code: common.KeyE, Pressed: true}, cam))
	assert.True(t, cam.Position().ApproxEqual(mgl32.Vec3{}))
}
