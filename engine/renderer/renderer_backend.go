package renderer

import "errors"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

var (
	// ErrFrameInProgress is returned by BeginFrame when the previous frame was not presented.
	ErrFrameInProgress = errors.New("renderer: previous frame not yet presented")

	// ErrNoFrame is returned by DrawCall outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")

	// ErrPipelineNotFound is returned by DrawCall for an unregistered pipeline key.
	ErrPipelineNotFound = errors.New("renderer: pipeline not found")

	// ErrWriteRejected is returned by WriteBuffers for a write that was not enqueued.
	ErrWriteRejected = errors.New("renderer: buffer write rejected")

	// ErrSurfaceAcquire is returned by BeginFrame when no swapchain texture could be acquired.
	// The surface has been reconfigured at its last size by then.
	ErrSurfaceAcquire = errors.New("renderer: surface texture unavailable")
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
