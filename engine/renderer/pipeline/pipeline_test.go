package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-canvas/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vs = `@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

const fs = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`

func TestPipelineDefaults(t *testing.T) {
	p := NewPipeline("scene")

	assert.Equal(t, "scene", p.PipelineKey())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())
	require.NotNil(t, p.BlendState())
	assert.Nil(t, p.RenderPipeline())
	assert.Nil(t, p.Shader(shader.ShaderTypeVertex))
	assert.Nil(t, p.Shader(shader.ShaderTypeFragment))

	// no GPU pipeline yet
	assert.NotPanics(t, p.Release)
}

func TestPipelineOptions(t *testing.T) {
	v, err := shader.NewShader("vs", shader.ShaderTypeVertex, shader.WithSource(vs))
	require.NoError(t, err)
	f, err := shader.NewShader("fs", shader.ShaderTypeFragment, shader.WithSource(fs))
	require.NoError(t, err)

	blend := &wgpu.BlendState{}
	p := NewPipeline("scene",
		WithVertexShader(v),
		WithFragmentShader(f),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithBlendState(blend),
	)

	assert.Same(t, v, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, f, p.Shader(shader.ShaderTypeFragment))
	assert.Nil(t, p.Shader(shader.ShaderType(7)))
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Same(t, blend, p.BlendState())
}

func TestMergeBindGroupLayouts(t *testing.T) {
	uniform := func(binding uint32, vis wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: vis,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 80},
		}
	}

	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniform(1, wgpu.ShaderStageVertex)}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{uniform(0, wgpu.ShaderStageVertex)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniform(1, wgpu.ShaderStageFragment), uniform(0, wgpu.ShaderStageFragment)}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{uniform(0, wgpu.ShaderStageFragment)}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	assert.Len(t, merged, 3)

	g0 := merged[0].Entries
	if assert.Len(t, g0, 2) {
		assert.Equal(t, uint32(0), g0[0].Binding)
		assert.Equal(t, wgpu.ShaderStageFragment, g0[0].Visibility)
		assert.Equal(t, uint32(1), g0[1].Binding)
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, g0[1].Visibility)
	}
	assert.Equal(t, fragment[1], merged[1])
	assert.Equal(t, vertex[2], merged[2])
}

func TestPipelineMergedDescriptors(t *testing.T) {
	const bound = `@group(0) @binding(0) var<uniform> tint: vec4<f32>;
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return tint;
}
`
	v, err := shader.NewShader("vs", shader.ShaderTypeVertex, shader.WithSource(vs))
	require.NoError(t, err)
	f, err := shader.NewShader("fs", shader.ShaderTypeFragment, shader.WithSource(bound))
	require.NoError(t, err)

	p := NewPipeline("tinted", WithVertexShader(v), WithFragmentShader(f))
	desc := p.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[0].Visibility)
	assert.Equal(t, uint64(16), desc.Entries[0].Buffer.MinBindingSize)
	assert.Empty(t, p.BindGroupLayoutDescriptor(1).Entries)

	assert.Empty(t, NewPipeline("bare").BindGroupLayoutDescriptors())
}
