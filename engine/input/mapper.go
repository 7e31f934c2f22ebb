package input

import (
	"maps"
	"sync"

	"github.com/Carmen-Shannon/oxy-canvas/common"
	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
)

// Step is a translation in camera-local steps, applied through Camera.Translate.
type Step struct {
	Forward float32
	Left    float32
	Up      float32
}

type mapperImpl struct {
	mu *sync.Mutex

	bindings  map[uint32]Step
	mouseLook bool
}

// Mapper translates device events into camera mutations.
type Mapper interface {
	// Handle applies ev to cam.
	//
	// Parameters:
	//   - ev: the device event
	//   - cam: the camera to mutate
	//
	// Returns:
	//   - bool: true if the camera changed
	Handle(ev Event, cam camera.Camera) bool

	// Binding returns the translation step bound to a key code.
	//
	// Parameters:
	//   - code: the virtual key code
	//
	// Returns:
	//   - Step: the bound step
	//   - bool: false if the key is unbound
	Binding(code uint32) (Step, bool)

	// SetBinding binds a key code to a step at runtime.
	//
	// Parameters:
	//   - code: the virtual key code
	//   - step: the translation applied on each press
	SetBinding(code uint32, step Step)

	// Bindings returns a copy of the binding table.
	//
	// Returns:
	//   - map[uint32]Step: key code to translation step
	Bindings() map[uint32]Step
}

var _ Mapper = &mapperImpl{}

// DefaultBindings returns the WASD / Space / LeftShift movement table.
//
// Returns:
//   - map[uint32]Step: key code to translation step
func DefaultBindings() map[uint32]Step {
	return map[uint32]Step{
		common.KeyW:         {Forward: 1},
		common.KeyS:         {Forward: -1},
		common.KeyA:         {Left: 1},
		common.KeyD:         {Left: -1},
		common.KeySpace:     {Up: 1},
		common.KeyLeftShift: {Up: -1},
	}
}

// NewMapper creates a Mapper with the default bindings and mouse look enabled.
//
// Parameters:
//   - options: functional options to configure the mapper
//
// Returns:
//   - Mapper: the newly created mapper
func NewMapper(options ...MapperBuilderOption) Mapper {
	m := &mapperImpl{
		mu:        &sync.Mutex{},
		bindings:  DefaultBindings(),
		mouseLook: true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *mapperImpl) Handle(ev Event, cam camera.Camera) bool {
	switch e := ev.(type) {
	case MouseMotion:
		if !m.mouseLook || (e.DX == 0 && e.DY == 0) {
			return false
		}
		cam.Rotate(camera.Degrees(float32(e.DY)), camera.Degrees(float32(e.DX)))
		return true

	case Key:
		if !e.Pressed {
			return false
		}
		step, ok := m.Binding(e.Code)
		if !ok {
			return false
		}
		cam.Translate(step.Forward, step.Left, step.Up)
		return true

	case Resize:
		if e.Width <= 0 || e.Height <= 0 {
			return false
		}
		return cam.SetAspect(float32(e.Width)/float32(e.Height)) == nil
	}
	return false
}

func (m *mapperImpl) Binding(code uint32) (Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	step, ok := m.bindings[code]
	return step, ok
}

func (m *mapperImpl) SetBinding(code uint32, step Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[code] = step
}

func (m *mapperImpl) Bindings() map[uint32]Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.bindings)
}
