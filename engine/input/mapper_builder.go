package input

type MapperBuilderOption func(*mapperImpl)

// WithBinding binds a virtual key code to a translation step, replacing any
// existing binding for that key.
//
// Parameters:
//   - code: the virtual key code
//   - step: the translation applied on each press
//
// Returns:
//   - MapperBuilderOption: a function that adds the binding
func WithBinding(code uint32, step Step) MapperBuilderOption {
	return func(m *mapperImpl) {
		m.bindings[code] = step
	}
}

// WithBindings replaces the whole binding table.
//
// Parameters:
//   - bindings: key code to translation step
//
// Returns:
//   - MapperBuilderOption: a function that sets the binding table
func WithBindings(bindings map[uint32]Step) MapperBuilderOption {
	return func(m *mapperImpl) {
		m.bindings = make(map[uint32]Step, len(bindings))
		for code, step := range bindings {
			m.bindings[code] = step
		}
	}
}

// WithMouseLook enables or disables pointer-driven rotation. Enabled by default.
//
// Parameters:
//   - enabled: whether pointer motion rotates the camera
//
// Returns:
//   - MapperBuilderOption: a function that sets mouse look
func WithMouseLook(enabled bool) MapperBuilderOption {
	return func(m *mapperImpl) {
		m.mouseLook = enabled
	}
}
