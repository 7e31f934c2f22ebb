package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cameraStruct = `struct CameraUniform {
    right: vec4<f32>,
    up: vec4<f32>,
    forward: vec4<f32>,
    position: vec3<f32>,
    aspect: f32,
    tan_half_fov: f32,
}`

const fragmentSource = `//@oxy:include camera
//@oxy:group 0 0 uniform camera camera

/* block comment with @fragment fn decoy() */
@fragment
fn fs_main(@builtin(position) frag: vec4<f32>) -> @location(0) vec4<f32> {
    return vec4<f32>(camera.position, 1.0); // trailing comment
}
`

const vertexSource = `@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

func TestFragmentShaderWithInclude(t *testing.T) {
	s, err := NewShader("scene", ShaderTypeFragment,
		WithSource(fragmentSource),
		WithInclude("camera", "CameraUniform", cameraStruct),
	)
	require.NoError(t, err)

	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Contains(t, s.Source(), "struct CameraUniform")
	assert.Contains(t, s.Source(), "@group(0) @binding(0) var<uniform> camera: CameraUniform;")

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 1)
	entry := desc.Entries[0]
	assert.Equal(t, uint32(0), entry.Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, entry.Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)
	assert.Equal(t, uint64(80), entry.Buffer.MinBindingSize)

	assert.Equal(t, "camera", s.BindGroupVarName(0, 0))
	require.Len(t, s.Declarations(), 1)
	assert.Equal(t, Declaration{Group: 0, Binding: 0, VarName: "camera", Include: "camera", Line: 2}, s.Declarations()[0])
}

func TestVertexShaderWithoutBindings(t *testing.T) {
	s, err := NewShader("fullscreen", ShaderTypeVertex, WithSource(vertexSource))
	require.NoError(t, err)
	assert.Equal(t, "vs_main", s.EntryPoint())
	assert.Empty(t, s.BindGroupLayoutDescriptors())
	assert.Equal(t, "fullscreen", s.Module().Label)
}

func TestShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vs.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(vertexSource), 0o644))

	s, err := NewShader("from_path", ShaderTypeVertex, WithSourceFromPath(path))
	require.NoError(t, err)
	assert.Equal(t, vertexSource, s.Source())

	_, err = NewShader("missing", ShaderTypeVertex, WithSourceFromPath(filepath.Join(t.TempDir(), "nope.wgsl")))
	assert.Error(t, err)
}

func TestShaderErrors(t *testing.T) {
	_, err := NewShader("empty", ShaderTypeVertex)
	assert.Error(t, err)

	_, err = NewShader("wrong_stage", ShaderTypeFragment, WithSource(vertexSource))
	assert.ErrorIs(t, err, ErrNoEntryPoint)

	_, err = NewShader("broken", ShaderTypeVertex, WithSource("@vertex fn vs_main( -> {"))
	assert.ErrorIs(t, err, ErrInvalidSource)

	_, err = NewShader("unknown_include", ShaderTypeFragment, WithSource(fragmentSource))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "line 1"))
}

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor(map[string]Include{"camera": {Source: cameraStruct, Type: "CameraUniform"}})
	out, err := pp.Process("//@oxy:include camera\n//@oxy:include camera\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct CameraUniform"))
}

func TestPreProcessorMalformed(t *testing.T) {
	pp := NewPreProcessor(map[string]Include{"camera": {Source: cameraStruct, Type: "CameraUniform"}})
	cases := []string{
		"//@oxy:",
		"//@oxy:include",
		"//@oxy:group x 0 uniform camera camera",
		"//@oxy:group 0 y uniform camera camera",
		"//@oxy:group 0 0 private camera camera",
		"//@oxy:group 0 0 uniform camera light",
		"//@oxy:define FOO",
	}
	for _, src := range cases {
		_, err := pp.Process(src)
		assert.Error(t, err, src)
	}
}

func TestUniformBindingSizes(t *testing.T) {
	src := `
struct Inner { a: vec3<f32>, b: f32 }
struct Outer {
    m: mat4x4<f32>,
    items: array<Inner, 3>,
    flag: u32,
}
@group(0) @binding(0) var<uniform> outer: Outer;
@group(0) @binding(1) var<uniform> inner: Inner;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`
	s, err := NewShader("layouts", ShaderTypeFragment, WithSource(src))
	require.NoError(t, err)

	entries := s.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(128), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(16), entries[1].Buffer.MinBindingSize)
	assert.Equal(t, "inner", s.BindGroupVarName(0, 1))
}

func TestClassifyHandles(t *testing.T) {
	src := `
@group(1) @binding(1) var tex: texture_2d<f32>;
@group(1) @binding(0) var samp: sampler;
@group(1) @binding(2) var<storage, read_write> data: array<vec4<f32>, 4>;
@group(1) @binding(3) var<storage, read> ro: array<u32, 2>;
@group(1) @binding(4) var<storage> tail: array<vec4<f32>>;
@group(2) @binding(0) var depth: texture_depth_2d;
@group(2) @binding(1) var cmp: sampler_comparison;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0);
}
`
	s, err := NewShader("handles", ShaderTypeFragment, WithSource(src))
	require.NoError(t, err)

	entries := s.BindGroupLayoutDescriptor(1).Entries
	require.Len(t, entries, 5)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[0].Sampler.Type)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[1].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[1].Texture.SampleType)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, entries[2].Buffer.Type)
	assert.Equal(t, uint64(64), entries[2].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, entries[3].Buffer.Type)
	assert.Equal(t, uint64(8), entries[3].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, entries[4].Buffer.Type)
	assert.Equal(t, uint64(16), entries[4].Buffer.MinBindingSize)

	handles := s.BindGroupLayoutDescriptor(2).Entries
	require.Len(t, handles, 2)
	assert.Equal(t, wgpu.TextureSampleTypeDepth, handles[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeComparison, handles[1].Sampler.Type)

	assert.Equal(t, "tex", s.BindGroupVarName(1, 1))
}
