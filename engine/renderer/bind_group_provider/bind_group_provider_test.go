package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("camera")
	assert.Equal(t, "camera", p.Label())
	assert.Equal(t, 0, p.Group())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Empty(t, p.Buffers())

	p = NewBindGroupProvider("extra", WithGroup(1))
	p.SetTextureView(0, nil)
	p.SetSampler(1, nil)
	assert.Equal(t, 1, p.Group())
	assert.Nil(t, p.TextureView(0))
	assert.Nil(t, p.Sampler(1))
}

func TestReleaseWithoutResources(t *testing.T) {
	p := NewBindGroupProvider("camera")
	p.SetTextureView(0, nil)
	p.SetBuffer(0, nil)
	assert.NotPanics(t, p.Release)
	assert.Empty(t, p.Buffers())
	// releasing twice is a no-op
	assert.NotPanics(t, p.Release)
}

func TestBufferWriteFits(t *testing.T) {
	w := BufferWrite{Data: make([]byte, 80)}
	assert.True(t, w.Fits(80))
	assert.False(t, w.Fits(64))

	w.Offset = 16
	assert.False(t, w.Fits(80))
	assert.True(t, w.Fits(96))

	w.Offset = 2
	assert.False(t, w.Fits(1024))

	w = BufferWrite{Data: make([]byte, 6)}
	assert.False(t, w.Fits(1024))
}
