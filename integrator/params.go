// Package integrator implements the path-tracing, direct, eyelight, and
// debug shading algorithms that turn a camera ray into a radiance estimate,
// plus the next-event-estimation light sampling and multiple-importance
// weighting they share.
package integrator

import "lumenrt/math"

// ShaderKind selects which shade_* algorithm Shade dispatches to.
type ShaderKind int

const (
	ShaderPathtrace ShaderKind = iota
	ShaderPathtraceNoMIS
	ShaderDirect
	ShaderEyelight
	ShaderDebugNormal
	ShaderDebugAlbedo
	ShaderDebugTexcoord
)

// Params controls one shading evaluation: how deep to trace, how to handle
// shadows and the environment, and numerical safeguards against fireflies.
type Params struct {
	Shader               ShaderKind
	ShadowNoTransmission bool
	Amb                  math.Vec3
	EnvmapInvisible      bool
	MinDepth             int
	MaxDepth             int
	PixelClamp           float32
	RayEps               float32
}

// DefaultParams mirrors the conventional path-tracing defaults: depth 1..8,
// pixel values clamped at 10 to tame fireflies, and a small ray offset.
func DefaultParams() Params {
	return Params{
		Shader:     ShaderPathtrace,
		MinDepth:   1,
		MaxDepth:   8,
		PixelClamp: 10,
		RayEps:     1e-3,
	}
}
