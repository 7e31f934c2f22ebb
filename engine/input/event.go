package input

// Event is a device event delivered by the window to the frame host.
// The set of event types is closed.
type Event interface{ isEvent() }

// MouseMotion is a relative pointer movement in device units.
type MouseMotion struct{ DX, DY float64 }

func (MouseMotion) isEvent() {}

// Key is a key press or release. Code is a virtual key code (see common.Key*).
// Key repeats are delivered as presses.
type Key struct {
	Code    uint32
	Pressed bool
}

func (Key) isEvent() {}

// Resize reports the new framebuffer size in pixels.
type Resize struct{ Width, Height int }

func (Resize) isEvent() {}

// CloseRequested is emitted when the user asks to close the window.
type CloseRequested struct{}

func (CloseRequested) isEvent() {}
