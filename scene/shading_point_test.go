package scene

import (
	"testing"

	"lumenrt/brdf"
	"lumenrt/math"
)

func triangleShape(mat MaterialID) Shape {
	return Shape{
		Kind:      ElementTriangles,
		Triangles: [][3]int32{{0, 1, 2}},
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Material: mat,
	}
}

func TestEvalShapePointResolvesSpecularRoughness(t *testing.T) {
	s := &Scene{}
	matID := s.AddMaterial(Material{
		Kind: MaterialSpecularRoughness,
		Kd:   math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		Ks:   math.Vec3{X: 0.04, Y: 0.04, Z: 0.04},
		Rs:   0.25,
		Op:   1,
	})
	sh := triangleShape(matID)
	shID := s.AddShape(sh)
	s.AddInstance(Instance{Frame: math.FrameIdentity(), Shape: shID})

	sp := EvalShapePoint(s, 0, 0, 0.25, 0.25, math.Vec3{X: 0, Y: 0, Z: 1})

	if sp.Kind != brdf.Microfacet {
		t.Errorf("expected Microfacet kind for a triangle shape, got %v", sp.Kind)
	}
	wantAlpha := float32(0.25 * 0.25)
	if sp.Alpha != wantAlpha {
		t.Errorf("expected alpha %v, got %v", wantAlpha, sp.Alpha)
	}
	if sp.Frame.Z.Dot(math.Vec3{X: 0, Y: 0, Z: 1}) <= 0 {
		t.Errorf("expected the geometric normal to face +Z, got %v", sp.Frame.Z)
	}
}

func TestEvalShapePointOpacitySplitsIntoTransmission(t *testing.T) {
	s := &Scene{}
	matID := s.AddMaterial(Material{
		Kind: MaterialSpecularRoughness,
		Kd:   math.Vec3{X: 1, Y: 1, Z: 1},
		Op:   0.5,
	})
	sh := triangleShape(matID)
	shID := s.AddShape(sh)
	s.AddInstance(Instance{Frame: math.FrameIdentity(), Shape: shID})

	sp := EvalShapePoint(s, 0, 0, 0.25, 0.25, math.Vec3{X: 0, Y: 0, Z: 1})

	if sp.Kd.X != 0.5 {
		t.Errorf("expected Kd scaled by opacity (0.5), got %v", sp.Kd.X)
	}
	if sp.Kt.X != 0.5 {
		t.Errorf("expected Kt to carry the (1-opacity) residual (0.5), got %v", sp.Kt.X)
	}
}

func TestEvalEnvPointUsesConstantWhenNoTexture(t *testing.T) {
	env := &Environment{Frame: math.FrameIdentity(), Ke: math.Vec3{X: 1, Y: 2, Z: 3}}
	sp := EvalEnvPoint(env, math.Vec3{X: 0, Y: 0, Z: -1})
	if sp.Ke != env.Ke {
		t.Errorf("expected constant environment emission %v, got %v", env.Ke, sp.Ke)
	}
	if sp.EmissionKind == 0 {
		t.Errorf("expected a non-zero emission kind tag")
	}
}
