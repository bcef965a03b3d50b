package integrator

import (
	"testing"

	"lumenrt/bvh"
	"lumenrt/math"
	"lumenrt/rng"
	"lumenrt/scene"
)

func quadSceneFacingCamera(emissive bool) *scene.Scene {
	s := &scene.Scene{}
	ke := math.Vec3{}
	if emissive {
		ke = math.Vec3{X: 5, Y: 5, Z: 5}
	}
	matID := s.AddMaterial(scene.Material{
		Kind: scene.MaterialSpecularRoughness,
		Kd:   math.Vec3{X: 0.6, Y: 0.6, Z: 0.6},
		Ks:   math.Vec3{X: 0.04, Y: 0.04, Z: 0.04},
		Rs:   0.5,
		Ke:   ke,
		Op:   1,
	})
	sh := scene.Shape{
		Kind:  scene.ElementQuads,
		Quads: [][4]int32{{0, 1, 2, 3}},
		Positions: []math.Vec3{
			{X: -1, Y: -1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: -1, Y: 1, Z: 0},
		},
		Material: matID,
	}
	bvh.BuildShapeBVH(&sh, true)
	shID := s.AddShape(sh)
	s.AddInstance(scene.Instance{Frame: math.FrameIdentity(), Shape: shID})
	bvh.BuildSceneBVH(s, true)
	if emissive {
		bvh.UpdateLights(s, false)
	}
	return s
}

func TestShadeEyelightHitsQuad(t *testing.T) {
	s := quadSceneFacingCamera(false)
	ray := math.NewRay(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{X: 0, Y: 0, Z: -1})
	p := DefaultParams()
	p.Shader = ShaderEyelight

	radiance, hit := Shade(s, ray, nil, p)
	if !hit {
		t.Fatal("expected eyelight shading to report a hit")
	}
	if radiance.MaxComponent() <= 0 {
		t.Errorf("expected positive radiance from eyelight shading, got %v", radiance)
	}
}

func TestShadeDebugNormalFacesCamera(t *testing.T) {
	s := quadSceneFacingCamera(false)
	ray := math.NewRay(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{X: 0, Y: 0, Z: -1})
	p := DefaultParams()
	p.Shader = ShaderDebugNormal

	radiance, hit := Shade(s, ray, nil, p)
	if !hit {
		t.Fatal("expected a hit")
	}
	if radiance.Z <= 0.5 {
		t.Errorf("expected the encoded +Z normal component above 0.5, got %v", radiance)
	}
}

func TestShadeMissReturnsNoHit(t *testing.T) {
	s := &scene.Scene{}
	bvh.BuildSceneBVH(s, true)
	ray := math.NewRay(math.Vec3{}, math.Vec3{X: 0, Y: 0, Z: -1})
	p := DefaultParams()
	p.Shader = ShaderEyelight

	_, hit := Shade(s, ray, nil, p)
	if hit {
		t.Error("expected no hit against an empty scene")
	}
}

func TestShadePathtraceAccumulatesEmission(t *testing.T) {
	s := quadSceneFacingCamera(true)
	ray := math.NewRay(math.Vec3{X: 0, Y: 0, Z: 5}, math.Vec3{X: 0, Y: 0, Z: -1})
	sm := rng.NewSampler(rng.NewPixelPCG32(1, 0), rng.KindUniform, rng.PixelHash(0, 0), 1)
	sm.StartSample(0)

	p := DefaultParams()
	p.Shader = ShaderPathtrace
	p.MaxDepth = 2

	radiance, hit := Shade(s, ray, sm, p)
	if !hit {
		t.Fatal("expected the primary ray to hit the emissive quad")
	}
	if radiance.MaxComponent() <= 0 {
		t.Errorf("expected positive radiance from direct emission, got %v", radiance)
	}
}
