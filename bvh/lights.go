package bvh

import (
	"lumenrt/math"
	"lumenrt/scene"
)

// UpdateLights populates s.Lights and rebuilds every emissive shape's
// elem_cdf: one entry per emissive instance (material.Ke != 0) plus the
// environment, if it emits. pointsOnly restricts elem_cdf rebuilding to
// point-element shapes (cheap refresh path when only point radii/positions
// changed and geometry didn't).
func UpdateLights(s *scene.Scene, pointsOnly bool) {
	s.Lights = s.Lights[:0]

	for i := range s.Instances {
		inst := &s.Instances[i]
		sh := s.Shape(inst.Shape)
		if sh == nil {
			continue
		}
		mat := s.Material(sh.Material)
		if mat == nil || isZero(mat.Ke) {
			continue
		}
		if !pointsOnly || sh.Kind == scene.ElementPoints {
			sh.BuildElemCDF()
		} else if len(sh.ElemCDF) != sh.ElementCount() {
			sh.BuildElemCDF()
		}
		s.Lights = append(s.Lights, scene.Light{Kind: scene.LightInstance, Instance: scene.InstanceID(i)})
	}

	if s.Env != nil && !isZero(s.Env.Ke) {
		s.Lights = append(s.Lights, scene.Light{Kind: scene.LightEnvironment})
	}
}

func isZero(v math.Vec3) bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}
