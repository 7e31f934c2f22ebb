// Command oxycanvas opens a window and renders a ray-marched scene through a first-person camera.
// Mouse looks around, WASD moves, Space and Left Shift move up and down, Escape quits.
package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-canvas/engine"
	"github.com/Carmen-Shannon/oxy-canvas/engine/camera"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer"
	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-canvas/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

//go:embed shaders/fullscreen.wgsl
var fullscreenSource string

//go:embed shaders/scene.wgsl
var sceneSource string

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("oxycanvas failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	win, err := window.NewWindow(
		window.WithTitle("oxy-canvas"),
		window.WithWidth(1280),
		window.WithHeight(720),
		window.WithCursorCapture(true),
	)
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	defer win.Close()

	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
		renderer.WithClearColor(0, 0, 0, 1),
	)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer r.Release()

	vertex, err := shader.NewShader("fullscreen", shader.ShaderTypeVertex, shader.WithSource(fullscreenSource))
	if err != nil {
		return err
	}
	fragment, err := shader.NewShader("scene", shader.ShaderTypeFragment, shader.WithSource(sceneSource), engine.CameraInclude())
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(win, r,
		engine.WithShaders(vertex, fragment),
		engine.WithLogger(logger),
		engine.WithViewAngle(camera.Degrees(35)),
		engine.WithCameraOptions(camera.WithPosition(mgl32.Vec3{0, 0.5, -6})),
	)
	if err != nil {
		return err
	}
	defer eng.Release()

	logger.Info("running", slog.Int("width", win.Width()), slog.Int("height", win.Height()))
	eng.Run()
	return nil
}
