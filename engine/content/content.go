package content

import (
	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
	"github.com/Carmen-Shannon/oxy-canvas/engine/input"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/bind_group_provider"
)

// Content is the per-scene hook the frame host drives. It decides how events move the camera and
// may own extra GPU bindings that its fragment shader reads next to the camera uniform.
type Content interface {
	// ExtraBindings returns the providers bound after the camera group, each at its own Group().
	// The host initializes them from the pipeline's layout for that group.
	//
	// Returns:
	//   - []bind_group_provider.BindGroupProvider: the extra providers, possibly empty
	ExtraBindings() []bind_group_provider.BindGroupProvider

	// HandleEvent applies one device event to the camera.
	//
	// Parameters:
	//   - ev: the device event
	//   - cam: the host's camera
	//
	// Returns:
	//   - bool: true if the camera changed
	HandleEvent(ev input.Event, cam camera.Camera) bool

	// Update is called after HandleEvent for the same event and returns writes to the extra
	// bindings. The host flushes them with the camera upload, before the next draw.
	//
	// Parameters:
	//   - ev: the device event
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: buffer writes, possibly nil
	Update(ev input.Event) []bind_group_provider.BufferWrite
}

// SimpleCamera is the default Content: a first-person camera driven by an input.Mapper, with no
// extra bindings.
type SimpleCamera struct {
	mapper input.Mapper
}

var _ Content = &SimpleCamera{}

// NewSimpleCamera creates a SimpleCamera whose mapper is built with the given options.
//
// Parameters:
//   - options: mapper options such as input.WithBinding or input.WithMouseLook
//
// Returns:
//   - *SimpleCamera: the content
func NewSimpleCamera(options ...input.MapperBuilderOption) *SimpleCamera {
	return &SimpleCamera{mapper: input.NewMapper(options...)}
}

// Mapper returns the mapper so bindings can be changed at runtime.
func (s *SimpleCamera) Mapper() input.Mapper {
	return s.mapper
}

func (s *SimpleCamera) ExtraBindings() []bind_group_provider.BindGroupProvider {
	return nil
}

func (s *SimpleCamera) HandleEvent(ev input.Event, cam camera.Camera) bool {
	return s.mapper.Handle(ev, cam)
}

func (s *SimpleCamera) Update(input.Event) []bind_group_provider.BufferWrite {
	return nil
}
