//go:build !nogpu

package gpu

import _ "embed"

// meshGradientShaderSource is the WGSL source of the mesh gradient
// pipeline. Entry points: vs_main (fullscreen triangle) and fs_main.
//
//go:embed shaders/mesh_gradient.wgsl
var meshGradientShaderSource string

// Shader entry points.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// ShaderSource returns the WGSL source of the mesh gradient shader.
func ShaderSource() string { return meshGradientShaderSource }
