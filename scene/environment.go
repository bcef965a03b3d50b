package scene

import "lumenrt/math"

// Environment is a distant dome light: a constant or texture-mapped
// emission sampled by direction, evaluated via eval_env_point.
type Environment struct {
	Frame math.Frame3
	Ke    math.Vec3
	KeTxt *TextureRef // equirectangular, optional
}
