//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	b, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(b) < 4 || len(b)%4 != 0 {
		return nil, fmt.Errorf("compile shader: malformed SPIR-V (%d bytes)", len(b))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("compile shader: bad SPIR-V magic %#08x", words[0])
	}
	return words, nil
}

// shaderSource returns the module source handed to the device. SPIR-V
// from naga is preferred; the WGSL text is used when naga rejects it so
// the backend can compile the shader itself.
func shaderSource() hal.ShaderSource {
	words, err := CompileSPIRV(meshGradientShaderSource)
	if err != nil {
		slogger().Debug("mesh_gradient: using WGSL source", "reason", err)
		return hal.ShaderSource{WGSL: meshGradientShaderSource}
	}
	return hal.ShaderSource{SPIRV: words}
}
