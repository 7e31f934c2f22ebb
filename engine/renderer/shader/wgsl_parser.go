package shader

import (
	"fmt"
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

var wgslImageDims = map[ir.ImageDimension]wgpu.TextureViewDimension{
	ir.Dim1D:   wgpu.TextureViewDimension1D,
	ir.Dim2D:   wgpu.TextureViewDimension2D,
	ir.Dim3D:   wgpu.TextureViewDimension3D,
	ir.DimCube: wgpu.TextureViewDimensionCube,
}

var wgslSampleTypes = map[ir.ScalarKind]wgpu.TextureSampleType{
	ir.ScalarFloat: wgpu.TextureSampleTypeFloat,
	ir.ScalarSint:  wgpu.TextureSampleTypeSint,
	ir.ScalarUint:  wgpu.TextureSampleTypeUint,
}

// parseModule parses and lowers WGSL source into naga's typed IR.
//
// Parameters:
//   - source: the expanded WGSL source code string
//
// Returns:
//   - *ir.Module: the lowered module with resolved types and entry points
//   - error: ErrInvalidSource wrapping the parser or lowering error
func parseModule(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	return module, nil
}

// parseEntryPoint returns the name of the first entry point of the given stage, or ""
// when the module declares none.
//
// Parameters:
//   - module: the lowered shader module
//   - shaderType: ShaderTypeVertex or ShaderTypeFragment
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(module *ir.Module, shaderType ShaderType) string {
	var stage ir.ShaderStage
	switch shaderType {
	case ShaderTypeVertex:
		stage = ir.StageVertex
	case ShaderTypeFragment:
		stage = ir.StageFragment
	default:
		return ""
	}

	for _, ep := range module.EntryPoints {
		if ep.Stage == stage {
			return ep.Name
		}
	}
	return ""
}

// parseBindGroupLayouts builds a layout entry for every global bound with @group/@binding
// and returns the descriptors keyed by group, with entries sorted by binding. Buffer entries
// get MinBindingSize from the bound type's size under WGSL layout rules.
//
// Parameters:
//   - module: the lowered shader module
//   - visibility: the shader stage visibility set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
func parseBindGroupLayouts(module *ir.Module, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string) {
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)

	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		group := int(gv.Binding.Group)
		binding := int(gv.Binding.Binding)

		groups[group] = append(groups[group], classifyResource(module, gv, visibility))
		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = gv.Name
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames
}

// classifyResource builds the layout entry for one bound global from its address space
// (uniform / storage buffers) or its handle type (samplers, sampled and depth textures).
func classifyResource(module *ir.Module, gv ir.GlobalVariable, visibility wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    gv.Binding.Binding,
		Visibility: visibility,
	}

	switch gv.Space {
	case ir.SpaceUniform:
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		entry.Buffer.MinBindingSize = uint64(ir.TypeSize(module, gv.Type))
	case ir.SpaceStorage:
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if gv.Access == ir.StorageReadWrite {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
		// runtime-sized arrays report one element, the smallest valid binding
		entry.Buffer.MinBindingSize = uint64(ir.TypeSize(module, gv.Type))
	case ir.SpaceHandle:
		if int(gv.Type) >= len(module.Types) {
			break
		}
		switch t := module.Types[gv.Type].Inner.(type) {
		case ir.SamplerType:
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
			if t.Comparison {
				entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
			}
		case ir.ImageType:
			entry.Texture.ViewDimension = imageViewDimension(t)
			entry.Texture.Multisampled = t.Multisampled
			switch t.Class {
			case ir.ImageClassDepth:
				entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
			case ir.ImageClassSampled:
				entry.Texture.SampleType = wgslSampleTypes[t.SampledKind]
			}
		}
	}
	return entry
}

func imageViewDimension(t ir.ImageType) wgpu.TextureViewDimension {
	if t.Arrayed {
		switch t.Dim {
		case ir.Dim2D:
			return wgpu.TextureViewDimension2DArray
		case ir.DimCube:
			return wgpu.TextureViewDimensionCubeArray
		}
	}
	return wgslImageDims[t.Dim]
}
