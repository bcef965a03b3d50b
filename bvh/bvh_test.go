package bvh

import (
	"testing"

	"lumenrt/math"
	"lumenrt/scene"
)

func singleTriangleShape() scene.Shape {
	return scene.Shape{
		Kind:      scene.ElementTriangles,
		Triangles: [][3]int32{{0, 1, 2}},
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
	}
}

func TestBuildShapeBVHSingleTriangleIsLeaf(t *testing.T) {
	sh := singleTriangleShape()
	BuildShapeBVH(&sh, true)
	if sh.BVH == nil || len(sh.BVH.Nodes) != 1 {
		t.Fatalf("expected single-leaf tree, got %+v", sh.BVH)
	}
	if !sh.BVH.Nodes[0].Leaf {
		t.Fatal("sole node should be a leaf")
	}
}

func TestIntersectRayHitsTriangle(t *testing.T) {
	s := &scene.Scene{}
	sh := singleTriangleShape()
	BuildShapeBVH(&sh, true)
	shID := s.AddShape(sh)
	s.AddInstance(scene.Instance{Frame: math.FrameIdentity(), Shape: shID})
	BuildSceneBVH(s, true)

	r := math.NewRay(math.Vec3{X: 0.2, Y: 0.2, Z: 5}, math.Vec3{X: 0, Y: 0, Z: -1})
	hit, ok := IntersectRay(s, r, false)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Distance < 4.9 || hit.Distance > 5.1 {
		t.Fatalf("unexpected hit distance %v", hit.Distance)
	}
	if hit.U+hit.V > 1 || hit.U < 0 || hit.V < 0 {
		t.Fatalf("barycentric out of range: u=%v v=%v", hit.U, hit.V)
	}
}

func TestIntersectRayMissesEmptyScene(t *testing.T) {
	s := &scene.Scene{}
	BuildSceneBVH(s, true)
	r := math.NewRay(math.Vec3{}, math.Vec3{X: 0, Y: 0, Z: -1})
	_, ok := IntersectRay(s, r, false)
	if ok {
		t.Fatal("empty scene must report no hit")
	}
}

func TestQuadParametrizationContinuous(t *testing.T) {
	sh := scene.Shape{
		Kind:  scene.ElementQuads,
		Quads: [][4]int32{{0, 1, 2, 3}},
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
	}
	BuildShapeBVH(&sh, true)

	cases := []struct {
		origin math.Vec3
		want   math.Vec3
	}{
		{math.Vec3{X: 0, Y: 0, Z: 5}, sh.Positions[0]},
		{math.Vec3{X: 1, Y: 0, Z: 5}, sh.Positions[1]},
		{math.Vec3{X: 1, Y: 1, Z: 5}, sh.Positions[2]},
		{math.Vec3{X: 0, Y: 1, Z: 5}, sh.Positions[3]},
	}
	for _, c := range cases {
		r := math.NewRay(c.origin, math.Vec3{X: 0, Y: 0, Z: -1})
		hit, ok := intersectShapeBVH(&sh, r, false)
		if !ok {
			t.Fatalf("expected hit at %v", c.origin)
		}
		u, v := hit.U, hit.V
		got := sh.Positions[0].Mul((1 - u) * (1 - v)).
			Add(sh.Positions[1].Mul(u * (1 - v))).
			Add(sh.Positions[2].Mul(u * v)).
			Add(sh.Positions[3].Mul((1 - u) * v))
		if got.Sub(c.want).LengthSqr() > 1e-8 {
			t.Errorf("ray at %v: (u,v)=(%v,%v) maps to %v, want %v", c.origin, u, v, got, c.want)
		}
	}
}

func TestRefitMatchesRebuildAfterTranslate(t *testing.T) {
	s := &scene.Scene{}
	sh := singleTriangleShape()
	BuildShapeBVH(&sh, true)
	shID := s.AddShape(sh)
	s.AddInstance(scene.Instance{Frame: math.FrameIdentity(), Shape: shID})
	BuildSceneBVH(s, true)

	s.Instances[0].Frame.Origin = math.Vec3{X: 1, Y: 0, Z: 0}
	RefitSceneBVH(s)

	rebuilt := &scene.Scene{Shapes: s.Shapes, Instances: s.Instances}
	BuildSceneBVH(rebuilt, true)

	if s.BVH.Nodes[0].Bounds != rebuilt.BVH.Nodes[0].Bounds {
		t.Fatalf("refit bounds %v != rebuilt bounds %v", s.BVH.Nodes[0].Bounds, rebuilt.BVH.Nodes[0].Bounds)
	}
}
