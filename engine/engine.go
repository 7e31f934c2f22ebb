package engine

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
	"github.com/Carmen-Shannon/oxy-canvas/engine/content"
	"github.com/Carmen-Shannon/oxy-canvas/engine/input"
	"github.com/Carmen-Shannon/oxy-canvas/engine/profiler"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-canvas/engine/window"
)

const (
	// CameraIncludeName is the include name fragment shaders use for the camera uniform:
	//
	//	//@oxy:include camera
	//	//@oxy:group 0 0 uniform camera camera
	CameraIncludeName = "camera"

	// PipelineKey is the key the canvas pipeline is registered under.
	PipelineKey = "canvas"

	// quadVertexCount is two triangles covering the viewport.
	quadVertexCount = 6
)

var (
	// ErrNoShaders is returned by NewEngine when WithShaders was not given.
	ErrNoShaders = errors.New("engine: vertex and fragment shaders are required")

	// ErrNoCameraBinding is returned by NewEngine when neither shader declares the camera uniform.
	ErrNoCameraBinding = errors.New("engine: shaders declare no camera uniform binding")
)

// engine implements the Engine interface.
// It owns the camera and its uniform buffer and keeps the GPU copy in step with the CPU copy.
type engine struct {
	// mu guards the event queue, which window callbacks append to.
	mu *sync.Mutex

	window   window.Window
	renderer renderer.Renderer
	logger   *slog.Logger

	camera        camera.Camera
	viewAngle     camera.Angle
	cameraOptions []camera.CameraBuilderOption

	content content.Content

	vertexShader, fragmentShader shader.Shader
	pipelineOptions              []pipeline.PipelineBuilderOption
	pipeline                     pipeline.Pipeline

	cameraProvider bind_group_provider.BindGroupProvider
	cameraBinding  int

	events []input.Event

	// dirty is set when the camera changed since the last upload.
	dirty         bool
	pendingWrites []bind_group_provider.BufferWrite
	quitting      bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the frame host. It queues device events from the window, routes them through the
// content to the camera, uploads the camera uniform at most once per frame before the draw, and
// draws the full-viewport quad.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Camera returns the camera owned by the engine.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Push queues an event for the next Frame. Safe to call from window callbacks.
	//
	// Parameters:
	//   - ev: the device event
	Push(ev input.Event)

	// Frame processes queued events, uploads the camera if it changed, and draws one frame.
	//
	// Returns:
	//   - error: a transient error if the frame was skipped; state is kept for the next frame
	Frame() error

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run registers the window callbacks and drives Frame from the window's message loop.
	// Blocks until the window closes.
	Run()

	// Quit requests the window to close. Safe to call multiple times.
	Quit()

	// Release releases the camera and content GPU resources.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates the frame host: it builds the camera from the window's size, registers the
// canvas pipeline, creates the camera uniform bind group and uploads the initial camera image.
//
// Parameters:
//   - win: the window events come from
//   - r: the renderer drawing into win
//   - options: functional options; WithShaders is required
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the camera, pipeline or bind groups could not be created
func NewEngine(win window.Window, r renderer.Renderer, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:        &sync.Mutex{},
		window:    win,
		renderer:  r,
		viewAngle: camera.Degrees(30),
	}
	for _, opt := range options {
		opt(e)
	}
	e.logger = cmp.Or(e.logger, slog.Default())
	e.profiler = profiler.NewProfiler(e.logger)
	if e.content == nil {
		e.content = content.NewSimpleCamera()
	}
	if e.vertexShader == nil || e.fragmentShader == nil {
		return nil, ErrNoShaders
	}

	cam, err := camera.NewCamera(aspectOf(win.Width(), win.Height()), e.viewAngle, e.cameraOptions...)
	if err != nil {
		return nil, fmt.Errorf("engine: camera: %w", err)
	}
	e.camera = cam

	group, binding, err := e.findCameraBinding()
	if err != nil {
		return nil, err
	}
	e.cameraBinding = binding

	e.pipeline = pipeline.NewPipeline(PipelineKey, append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(e.vertexShader),
		pipeline.WithFragmentShader(e.fragmentShader),
	}, e.pipelineOptions...)...)
	if err := r.RegisterPipelines(e.pipeline); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e.cameraProvider = bind_group_provider.NewBindGroupProvider("Camera", bind_group_provider.WithGroup(group))
	if err := r.InitBindGroup(e.cameraProvider, e.pipeline.BindGroupLayoutDescriptor(group)); err != nil {
		return nil, fmt.Errorf("engine: camera bind group: %w", err)
	}
	for _, extra := range e.content.ExtraBindings() {
		if err := r.InitBindGroup(extra, e.pipeline.BindGroupLayoutDescriptor(extra.Group())); err != nil {
			return nil, fmt.Errorf("engine: %s bind group: %w", extra.Label(), err)
		}
	}

	// the first draw must already see the constructed camera
	if err := r.WriteBuffers([]bind_group_provider.BufferWrite{e.cameraWrite()}); err != nil {
		return nil, fmt.Errorf("engine: camera upload: %w", err)
	}

	e.logger.Debug("engine ready",
		slog.Int("camera_group", group),
		slog.Int("camera_binding", binding),
		slog.Float64("aspect", float64(cam.Aspect())),
	)
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Push(ev input.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *engine) Frame() error {
	e.processEvents()

	if err := e.renderer.BeginFrame(); err != nil {
		// Uploads stay pending so the next acquired frame still sees the latest camera.
		return fmt.Errorf("engine: begin frame: %w", err)
	}

	if e.dirty || len(e.pendingWrites) > 0 {
		writes := e.pendingWrites
		if e.dirty {
			writes = append([]bind_group_provider.BufferWrite{e.cameraWrite()}, writes...)
		}
		// Rejected writes would be rejected again, so they are reported and dropped.
		if err := e.renderer.WriteBuffers(writes); err != nil {
			e.logger.Warn("buffer writes dropped", slog.Int("writes", len(writes)), slog.Any("error", err))
		}
		e.dirty = false
		e.pendingWrites = nil
	}

	bindGroups := append([]bind_group_provider.BindGroupProvider{e.cameraProvider}, e.content.ExtraBindings()...)
	drawErr := e.renderer.DrawCall(PipelineKey, quadVertexCount, 1, bindGroups)
	endErr := e.renderer.EndFrame()
	e.renderer.Present()
	return errors.Join(drawErr, endErr)
}

// processEvents drains the queue in arrival order. A close request stops processing; the
// remaining events are dropped.
func (e *engine) processEvents() {
	e.mu.Lock()
	events := e.events
	e.events = nil
	e.mu.Unlock()

	for _, ev := range events {
		if e.quitting {
			return
		}
		switch ev := ev.(type) {
		case input.CloseRequested:
			e.Quit()
			return
		case input.Resize:
			if ev.Width <= 0 || ev.Height <= 0 {
				continue
			}
			if err := e.renderer.Resize(ev.Width, ev.Height); err != nil {
				e.logger.Error("resize failed", slog.Int("width", ev.Width), slog.Int("height", ev.Height), slog.Any("error", err))
			}
			e.dirty = true
		}

		if e.content.HandleEvent(ev, e.camera) {
			e.dirty = true
		}
		e.pendingWrites = append(e.pendingWrites, e.content.Update(ev)...)
	}
}

// cameraWrite snapshots the camera into a write of its uniform buffer.
func (e *engine) cameraWrite() bind_group_provider.BufferWrite {
	return bind_group_provider.BufferWrite{
		Provider: e.cameraProvider,
		Binding:  e.cameraBinding,
		Offset:   0,
		Data:     e.camera.Pack(),
	}
}

// findCameraBinding returns the group and binding of the camera declaration, preferring the
// fragment shader.
func (e *engine) findCameraBinding() (group, binding int, err error) {
	for _, s := range []shader.Shader{e.fragmentShader, e.vertexShader} {
		for _, d := range s.Declarations() {
			if d.Include == CameraIncludeName {
				return d.Group, d.Binding, nil
			}
		}
	}
	return 0, 0, ErrNoCameraBinding
}

func (e *engine) Run() {
	e.window.SetEventCallback(e.Push)
	e.window.SetUpdateCallback(func() {
		start := time.Now()
		if err := e.Frame(); err != nil {
			e.logger.Debug("frame skipped", slog.Any("error", err))
		}

		if e.profilingEnabled {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	})
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quitting = true
	e.window.RequestClose()
}

func (e *engine) Release() {
	for _, extra := range e.content.ExtraBindings() {
		extra.Release()
	}
	if e.cameraProvider != nil {
		e.cameraProvider.Release()
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

// CameraInclude registers the camera uniform struct with a shader so its source can use
// //@oxy:include camera and //@oxy:group ... camera.
//
// Returns:
//   - shader.ShaderBuilderOption: the include option
func CameraInclude() shader.ShaderBuilderOption {
	return shader.WithInclude(CameraIncludeName, camera.GPUCameraUniformTypeName, camera.GPUCameraUniformSource)
}

// aspectOf returns width / height, or 1 for a degenerate size.
func aspectOf(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
