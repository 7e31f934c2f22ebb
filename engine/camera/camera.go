package camera

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-canvas/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	defaultMoveGain        = 0.1
	defaultReorthoInterval = 128

	// detTolerance is the determinant drift that triggers an immediate correction.
	detTolerance = 1e-5
)

type cameraImpl struct {
	mu *sync.Mutex

	orientation mgl32.Mat3
	position    mgl32.Vec3
	aspect      float32
	tanHalfFov  float32

	moveGain mgl32.Vec3 // forward, left, up
	rotGain  mgl32.Vec2 // pitch, yaw

	reorthoInterval int
	sinceReortho    int
}

// Camera defines the interface for the first-person camera.
// The orientation is a 3x3 rotation whose rows are the camera basis in world space:
// row 0 is the camera's left axis, row 1 its up axis and row 2 the view direction.
type Camera interface {
	// Orientation returns a copy of the orientation matrix.
	//
	// Returns:
	//   - mgl32.Mat3: the rotation whose rows are the camera basis
	Orientation() mgl32.Mat3

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// TanHalfFov returns the tangent of the view half-angle.
	//
	// Returns:
	//   - float32: tan of the view angle
	TanHalfFov() float32

	// MoveGain returns the translation scale indexed (forward, left, up).
	//
	// Returns:
	//   - mgl32.Vec3: the move gain
	MoveGain() mgl32.Vec3

	// RotGain returns the rotation scale indexed (pitch, yaw).
	//
	// Returns:
	//   - mgl32.Vec2: the rotation gain
	RotGain() mgl32.Vec2

	// Yaw returns the heading of the view direction around world +Y, measured
	// from world +Z toward world -X (the camera's right at identity).
	//
	// Returns:
	//   - Angle: the heading
	Yaw() Angle

	// Pitch returns the elevation of the view direction. Positive values look
	// toward world +Y.
	//
	// Returns:
	//   - Angle: the elevation
	Pitch() Angle

	// SetAspect sets the aspect ratio. The camera is unchanged on error.
	//
	// Parameters:
	//   - aspect: the new aspect ratio, finite and > 0
	//
	// Returns:
	//   - error: ErrInvalidArgument if aspect is out of range
	SetAspect(aspect float32) error

	// SetViewAngle sets the view half-angle. The camera is unchanged on error.
	//
	// Parameters:
	//   - viewAngle: the half-angle, finite and in (0, π/2)
	//
	// Returns:
	//   - error: ErrInvalidArgument if the angle is out of range
	SetViewAngle(viewAngle Angle) error

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - p: the new position, all components finite
	//
	// Returns:
	//   - error: ErrInvalidArgument if p is not finite
	SetPosition(p mgl32.Vec3) error

	// SetMoveGain sets the translation scale.
	//
	// Parameters:
	//   - forward, left, up: the per-axis scale, all finite
	//
	// Returns:
	//   - error: ErrInvalidArgument if any gain is not finite
	SetMoveGain(forward, left, up float32) error

	// SetRotGain sets the rotation scale.
	//
	// Parameters:
	//   - pitch, yaw: the per-axis scale, both finite
	//
	// Returns:
	//   - error: ErrInvalidArgument if any gain is not finite
	SetRotGain(pitch, yaw float32) error

	// LookAt points the view direction from the current position toward eye,
	// keeping world +Y as the up reference. The camera is unchanged on error.
	//
	// Parameters:
	//   - eye: the world-space point to look at
	//
	// Returns:
	//   - error: ErrDegenerateGeometry if eye equals the position or is not finite
	LookAt(eye mgl32.Vec3) error

	// Rotate composes R ← R·Rx(dPitch)·Ry(dYaw), where Rx turns about the camera's current
	// left axis and Ry about world +Y. Pitch is applied first. Both angles are scaled by the rotation gain. Positive pitch
	// looks up and positive yaw turns right. Non-finite increments are ignored.
	//
	// Parameters:
	//   - dPitch: the pitch increment
	//   - dYaw: the yaw increment
	Rotate(dPitch, dYaw Angle)

	// Translate moves the camera along its local axes, scaled by the move gain.
	// Non-finite steps are ignored.
	//
	// Parameters:
	//   - forward: steps along the view direction
	//   - left: steps along the left axis
	//   - up: steps along the up axis
	Translate(forward, left, up float32)

	// Uniform returns a snapshot of the camera in its GPU representation.
	//
	// Returns:
	//   - GPUCameraUniform: the snapshot
	Uniform() GPUCameraUniform

	// Pack returns the byte image of the camera uniform (GPUCameraUniformSize bytes).
	//
	// Returns:
	//   - []byte: the serialized uniform
	Pack() []byte
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at the origin looking down world +Z.
//
// Parameters:
//   - aspect: viewport width / height, finite and > 0
//   - viewAngle: view half-angle, finite and in (0, π/2)
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
//   - error: ErrInvalidArgument if aspect, viewAngle or an option value is out of range
func NewCamera(aspect float32, viewAngle Angle, options ...CameraBuilderOption) (Camera, error) {
	if err := validateAspect(aspect); err != nil {
		return nil, err
	}
	tan, err := tanOfViewAngle(viewAngle)
	if err != nil {
		return nil, err
	}

	c := &cameraImpl{
		mu:              &sync.Mutex{},
		orientation:     mgl32.Ident3(),
		aspect:          aspect,
		tanHalfFov:      tan,
		moveGain:        mgl32.Vec3{defaultMoveGain, defaultMoveGain, defaultMoveGain},
		rotGain:         mgl32.Vec2{1, 1},
		reorthoInterval: defaultReorthoInterval,
	}
	for _, option := range options {
		option(c)
	}

	if !common.IsFiniteVec3(c.position) {
		return nil, fmt.Errorf("position %v: %w", c.position, ErrInvalidArgument)
	}
	if !common.IsFiniteVec3(c.moveGain) {
		return nil, fmt.Errorf("move gain %v: %w", c.moveGain, ErrInvalidArgument)
	}
	if !common.IsFinite(c.rotGain[0]) || !common.IsFinite(c.rotGain[1]) {
		return nil, fmt.Errorf("rotation gain %v: %w", c.rotGain, ErrInvalidArgument)
	}
	return c, nil
}

func (c *cameraImpl) Orientation() mgl32.Mat3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) TanHalfFov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tanHalfFov
}

func (c *cameraImpl) MoveGain() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveGain
}

func (c *cameraImpl) RotGain() mgl32.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rotGain
}

func (c *cameraImpl) Yaw() Angle {
	c.mu.Lock()
	defer c.mu.Unlock()
	fwd := c.orientation.Row(2)
	return Radians(math32.Atan2(-fwd[0], fwd[2]))
}

func (c *cameraImpl) Pitch() Angle {
	c.mu.Lock()
	defer c.mu.Unlock()
	fwd := c.orientation.Row(2)
	return Radians(math32.Asin(mgl32.Clamp(fwd[1], -1, 1)))
}

func (c *cameraImpl) SetAspect(aspect float32) error {
	if err := validateAspect(aspect); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	return nil
}

func (c *cameraImpl) SetViewAngle(viewAngle Angle) error {
	tan, err := tanOfViewAngle(viewAngle)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tanHalfFov = tan
	return nil
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) error {
	if !common.IsFiniteVec3(p) {
		return fmt.Errorf("position %v: %w", p, ErrInvalidArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	return nil
}

func (c *cameraImpl) SetMoveGain(forward, left, up float32) error {
	g := mgl32.Vec3{forward, left, up}
	if !common.IsFiniteVec3(g) {
		return fmt.Errorf("move gain %v: %w", g, ErrInvalidArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moveGain = g
	return nil
}

func (c *cameraImpl) SetRotGain(pitch, yaw float32) error {
	if !common.IsFinite(pitch) || !common.IsFinite(yaw) {
		return fmt.Errorf("rotation gain (%v, %v): %w", pitch, yaw, ErrInvalidArgument)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rotGain = mgl32.Vec2{pitch, yaw}
	return nil
}

func (c *cameraImpl) LookAt(eye mgl32.Vec3) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !common.IsFiniteVec3(eye) {
		return fmt.Errorf("look at %v: %w", eye, ErrDegenerateGeometry)
	}
	dir := eye.Sub(c.position)
	if common.IsZeroVec3(dir) {
		return fmt.Errorf("look at %v from %v: %w", eye, c.position, ErrDegenerateGeometry)
	}

	c.orientation = common.LookAtBasis(dir)
	c.sinceReortho = 0
	return nil
}

func (c *cameraImpl) Rotate(dPitch, dYaw Angle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	theta := dPitch.Radians() * c.rotGain[0]
	phi := dYaw.Radians() * c.rotGain[1]
	if !common.IsFinite(theta) || !common.IsFinite(phi) {
		return
	}

	// Right-multiplying by Rx(θ) turns each row by -θ about the left axis:
	// left stays, up and forward turn together.
	if theta != 0 {
		s, co := math32.Sincos(theta)
		left := c.orientation.Row(0)
		up := c.orientation.Row(1)
		fwd := c.orientation.Row(2)
		c.orientation = mgl32.Mat3FromRows(
			left,
			up.Mul(co).Sub(fwd.Mul(s)),
			fwd.Mul(co).Add(up.Mul(s)),
		)
	}

	if phi != 0 {
		// R·Ry(φ) turns each row by -φ about world +Y
		c.orientation = common.RotateRows(c.orientation, mgl32.Rotate3DY(-phi))
	}

	c.sinceReortho++
	if c.sinceReortho >= c.reorthoInterval || math32.Abs(c.orientation.Det()-1) > detTolerance {
		c.orientation = common.Orthonormalize(c.orientation)
		c.sinceReortho = 0
	}
}

func (c *cameraImpl) Translate(forward, left, up float32) {
	if !common.IsFiniteVec3(mgl32.Vec3{forward, left, up}) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	delta := c.orientation.Row(0).Mul(left * c.moveGain[1]).
		Add(c.orientation.Row(1).Mul(up * c.moveGain[2])).
		Add(c.orientation.Row(2).Mul(forward * c.moveGain[0]))
	c.position = c.position.Add(delta)
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniform()
}

func (c *cameraImpl) Pack() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.uniform()
	return u.Marshal()
}

// uniform builds the GPU snapshot. Caller must hold the mutex.
func (c *cameraImpl) uniform() GPUCameraUniform {
	return GPUCameraUniform{
		Right:      c.orientation.Row(0),
		Up:         c.orientation.Row(1),
		Forward:    c.orientation.Row(2),
		Position:   c.position,
		Aspect:     c.aspect,
		TanHalfFov: c.tanHalfFov,
	}
}

func validateAspect(aspect float32) error {
	if !common.IsFinite(aspect) || aspect <= 0 {
		return fmt.Errorf("aspect %v: %w", aspect, ErrInvalidArgument)
	}
	return nil
}

// tanOfViewAngle validates a view half-angle and returns its tangent.
func tanOfViewAngle(viewAngle Angle) (float32, error) {
	r := viewAngle.Radians()
	if !common.IsFinite(r) || r <= 0 || r >= math.Pi/2 {
		return 0, fmt.Errorf("view angle %v rad: %w", r, ErrInvalidArgument)
	}
	tan := math32.Tan(r)
	if !common.IsFinite(tan) || tan <= 0 {
		return 0, fmt.Errorf("view angle %v rad: %w", r, ErrInvalidArgument)
	}
	return tan, nil
}
