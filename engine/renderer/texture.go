package renderer

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrInvalidTexture is returned by InitTextureView when the pixel data does not match its size.
var ErrInvalidTexture = errors.New("renderer: invalid texture data")

// TextureData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureData struct {
	// Pixels is row-major RGBA, 4 bytes per pixel.
	Pixels []byte
	Width  uint32
	Height uint32
}

// validate reports ErrInvalidTexture for an empty texture or a pixel slice of the wrong length.
func (t TextureData) validate() error {
	if t.Width == 0 || t.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTexture, t.Width, t.Height)
	}
	if want := uint64(t.Width) * uint64(t.Height) * 4; uint64(len(t.Pixels)) != want {
		return fmt.Errorf("%w: %d bytes for %dx%d, want %d", ErrInvalidTexture, len(t.Pixels), t.Width, t.Height, want)
	}
	return nil
}

// SamplerData configures a sampler binding. Zero fields take the defaults: repeat addressing,
// linear filtering, LOD clamp [0, 32] and no anisotropy.
type SamplerData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	// Compare makes this a comparison sampler when set.
	Compare       wgpu.CompareFunction
	MaxAnisotropy uint16
}

func (s SamplerData) descriptor(label string) *wgpu.SamplerDescriptor {
	return &wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  cmp.Or(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  cmp.Or(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  cmp.Or(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     cmp.Or(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     cmp.Or(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  cmp.Or(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   cmp.Or(s.LodMaxClamp, 32),
		MaxAnisotropy: cmp.Or(s.MaxAnisotropy, 1),
		Compare:       s.Compare,
	}
}
