package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-canvas/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotInitialized is returned by operations on a window whose platform window was never created.
var ErrNotInitialized = errors.New("window: not initialized")

// Window provides platform windowing and input event handling.
// Device input is delivered as input.Event values through a single callback.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetEventCallback sets the function receiving device events. Events are delivered on the
	// thread running ProcessMessages, in arrival order.
	//
	// Parameters:
	//   - callback: function receiving each event (or nil to drop events)
	SetEventCallback(callback func(ev input.Event))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height are the current framebuffer size in pixels.
	width, height int

	// captureCursor hides the cursor and locks it to the window for relative motion.
	captureCursor bool
	// fullscreen opens the window on the primary monitor at its video mode size.
	fullscreen bool

	// cursor turns absolute cursor positions into motion deltas.
	cursor cursorTracker

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onUpdate func()
	onEvent  func(ev input.Event)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:         "oxy-canvas",
		maxWidth:      3840,
		maxHeight:     2160,
		minWidth:      320,
		minHeight:     200,
		width:         1280,
		height:        720,
		captureCursor: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetEventCallback(callback func(ev input.Event)) {
	w.onEvent = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// applyFullscreenMode sizes a fullscreen window to the monitor's video mode. Some platforms
// report an empty mode, in which case the windowed size is kept.
func (w *engineWindow) applyFullscreenMode(modeWidth, modeHeight int) {
	if modeWidth <= 0 || modeHeight <= 0 {
		return
	}
	w.width, w.height = modeWidth, modeHeight
}

// emit forwards an event to the registered callback, if any.
func (w *engineWindow) emit(ev input.Event) {
	if w.onEvent != nil {
		w.onEvent(ev)
	}
}

// cursorTracker converts absolute cursor positions into relative motion. The first position
// after a reset only primes the tracker.
type cursorTracker struct {
	x, y   float64
	primed bool
}

// move records a cursor position and returns the motion since the previous one.
// ok is false when the tracker was not primed or the cursor did not move.
func (c *cursorTracker) move(x, y float64) (ev input.MouseMotion, ok bool) {
	if !c.primed {
		c.x, c.y, c.primed = x, y, true
		return input.MouseMotion{}, false
	}
	ev = input.MouseMotion{DX: x - c.x, DY: y - c.y}
	c.x, c.y = x, y
	return ev, ev.DX != 0 || ev.DY != 0
}

// reset forgets the last position, e.g. after focus loss, so the next move does not jump.
func (c *cursorTracker) reset() {
	c.primed = false
}
