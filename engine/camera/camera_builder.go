package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(p mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithMoveGain sets the translation scale for each local axis.
//
// Parameters:
//   - forward: scale applied along the view direction
//   - left: scale applied along the camera's left axis
//   - up: scale applied along the camera's up axis
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's move gain
func WithMoveGain(forward, left, up float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.moveGain = mgl32.Vec3{forward, left, up}
	}
}

// WithRotGain sets the rotation scale for pitch and yaw.
//
// Parameters:
//   - pitch: scale applied to pitch angles
//   - yaw: scale applied to yaw angles
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's rotation gain
func WithRotGain(pitch, yaw float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.rotGain = mgl32.Vec2{pitch, yaw}
	}
}

// WithReorthonormalizeInterval sets how many rotations are composed before the
// orientation is re-orthonormalized. Values below 1 are clamped to 1.
//
// Parameters:
//   - n: the number of rotations between corrections
//
// Returns:
//   - CameraBuilderOption: a function that sets the correction interval
func WithReorthonormalizeInterval(n int) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.reorthoInterval = max(n, 1)
	}
}
