package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-canvas/engine/input"
	"github.com/stretchr/testify/assert"
)

func TestCursorTrackerDeltas(t *testing.T) {
	var c cursorTracker

	_, ok := c.move(100, 50)
	assert.False(t, ok, "first position only primes")

	ev, ok := c.move(103, 46)
	assert.True(t, ok)
	assert.Equal(t, input.MouseMotion{DX: 3, DY: -4}, ev)

	_, ok = c.move(103, 46)
	assert.False(t, ok, "no motion")

	c.reset()
	_, ok = c.move(0, 0)
	assert.False(t, ok, "reset re-primes")
	ev, ok = c.move(-2, 0)
	assert.True(t, ok)
	assert.Equal(t, input.MouseMotion{DX: -2}, ev)
}

func TestUninitializedWindow(t *testing.T) {
	w := &engineWindow{width: 640, height: 480}
	var got []input.Event
	w.SetEventCallback(func(ev input.Event) { got = append(got, ev) })

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.ErrorIs(t, w.Close(), ErrNotInitialized)
	assert.NotPanics(t, w.RequestClose)
	assert.Equal(t, 640, w.Width())
	assert.Equal(t, 480, w.Height())

	w.emit(input.Resize{Width: 1, Height: 2})
	assert.Equal(t, []input.Event{input.Resize{Width: 1, Height: 2}}, got)

	// the loop exits immediately without a platform window
	w.ProcessMessages()
}

func TestWindowOptions(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720, captureCursor: true}
	for _, opt := range []WindowBuilderOption{
		WithTitle("scene"),
		WithWidth(800),
		WithHeight(600),
		WithCursorCapture(false),
		WithFullscreen(true),
	} {
		opt(w)
	}

	assert.Equal(t, "scene", w.title)
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.False(t, w.captureCursor)
	assert.True(t, w.fullscreen)

	WithFullscreen(false)(w)
	assert.False(t, w.fullscreen)
}

func TestFullscreenTakesVideoModeSize(t *testing.T) {
	w := &engineWindow{width: 1280, height: 720, fullscreen: true}

	w.applyFullscreenMode(2560, 1440)
	assert.Equal(t, 2560, w.Width())
	assert.Equal(t, 1440, w.Height())

	// an empty video mode keeps the current size
	w.applyFullscreenMode(0, 0)
	assert.Equal(t, 2560, w.Width())
	assert.Equal(t, 1440, w.Height())
}
