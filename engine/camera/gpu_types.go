package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUCameraUniformSize is the size in bytes of the camera uniform image.
const GPUCameraUniformSize = 80

// GPUCameraUniformTypeName is the WGSL struct name declared by GPUCameraUniformSource.
const GPUCameraUniformTypeName = "CameraUniform"

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (80 bytes, WGSL uniform address space rules).
// Fragment shaders pull it in with an include directive.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Each orientation row occupies a full vec4 slot; the w component is padding.
type GPUCameraUniform struct {
	Right      [3]float32 // offset  0: row 0 of the orientation (vec4<f32>, w = 0)
	Up         [3]float32 // offset 16: row 1 of the orientation (vec4<f32>, w = 0)
	Forward    [3]float32 // offset 32: row 2 of the orientation (vec4<f32>, w = 0)
	Position   [3]float32 // offset 48: world-space position (vec3<f32>)
	Aspect     float32    // offset 60: viewport width / height
	TanHalfFov float32    // offset 64: tangent of the view half-angle
	// offset 68..80: tail padding to the 16-byte struct alignment
}

// Size returns the size of the serialized uniform in bytes.
//
// Returns:
//   - int: the serialized size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return GPUCameraUniformSize
}

// Marshal serializes the GPUCameraUniform into a little-endian byte buffer suitable
// for GPU upload. All padding bytes are zero.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	putVec3(buf[0:], g.Right)
	putVec3(buf[16:], g.Up)
	putVec3(buf[32:], g.Forward)
	putVec3(buf[48:], g.Position)
	binary.LittleEndian.PutUint32(buf[60:], math.Float32bits(g.Aspect))
	binary.LittleEndian.PutUint32(buf[64:], math.Float32bits(g.TanHalfFov))
	return buf
}

func putVec3(dst []byte, v [3]float32) {
	for i := range 3 {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v[i]))
	}
}
