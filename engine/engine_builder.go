package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
	"github.com/Carmen-Shannon/oxy-canvas/engine/content"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/shader"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithShaders sets the vertex and fragment shaders of the canvas pipeline. Required.
// One of them must declare the camera uniform through the camera include.
//
// Parameters:
//   - vertex: the full-viewport vertex shader
//   - fragment: the scene fragment shader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaders(vertex, fragment shader.Shader) EngineBuilderOption {
	return func(e *engine) {
		e.vertexShader = vertex
		e.fragmentShader = fragment
	}
}

// WithPipelineOptions adds options to the canvas pipeline, e.g. blending.
//
// Parameters:
//   - options: pipeline options applied after the shaders
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPipelineOptions(options ...pipeline.PipelineBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.pipelineOptions = append(e.pipelineOptions, options...)
	}
}

// WithContent sets the content driving the camera. Defaults to content.NewSimpleCamera().
//
// Parameters:
//   - c: the content
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithContent(c content.Content) EngineBuilderOption {
	return func(e *engine) {
		e.content = c
	}
}

// WithViewAngle sets the camera's vertical half view angle. Defaults to 30 degrees.
//
// Parameters:
//   - a: the half angle, in (0, 90) degrees
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewAngle(a camera.Angle) EngineBuilderOption {
	return func(e *engine) {
		e.viewAngle = a
	}
}

// WithCameraOptions passes options through to camera.NewCamera.
//
// Parameters:
//   - options: camera options such as camera.WithPosition or camera.WithMoveGain
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameraOptions(options ...camera.CameraBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.cameraOptions = append(e.cameraOptions, options...)
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}
