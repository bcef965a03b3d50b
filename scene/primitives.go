package scene

import (
	stdmath "math"

	"lumenrt/math"
)

// CreateSphere generates a UV-sphere triangle Shape, used by test scenes
// (e.g. the eyelight end-to-end scenario) and as a quick-start primitive
// for callers building scenes without an external mesh file.
func CreateSphere(radius float32, segments, rings int) Shape {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	var positions, normals []math.Vec3
	var uvs []math.Vec2

	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi := float32(stdmath.Sin(phi))
		cosPhi := float32(stdmath.Cos(phi))
		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2 * stdmath.Pi / float64(segments)
			sinTheta := float32(stdmath.Sin(theta))
			cosTheta := float32(stdmath.Cos(theta))

			n := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			positions = append(positions, n.Mul(radius))
			normals = append(normals, n)
			uvs = append(uvs, math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)})
		}
	}

	var tris [][3]int32
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			cur := int32(ring*(segments+1) + seg)
			next := cur + int32(segments+1)
			tris = append(tris, [3]int32{cur, next, cur + 1})
			tris = append(tris, [3]int32{cur + 1, next, next + 1})
		}
	}

	return Shape{
		Kind:      ElementTriangles,
		Triangles: tris,
		Positions: positions,
		Normals:   normals,
		Texcoords: uvs,
	}
}

// CreateQuad generates a single-quad Shape centered at the origin in the
// XY plane, normal +Z, side length size — the building block for the
// Cornell-box test scene's walls and the normal-debug test triangle.
func CreateQuad(size float32) Shape {
	h := size / 2
	positions := []math.Vec3{
		{X: -h, Y: -h, Z: 0},
		{X: h, Y: -h, Z: 0},
		{X: h, Y: h, Z: 0},
		{X: -h, Y: h, Z: 0},
	}
	n := math.Vec3{X: 0, Y: 0, Z: 1}
	normals := []math.Vec3{n, n, n, n}
	uvs := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	return Shape{
		Kind:      ElementQuads,
		Quads:     [][4]int32{{0, 1, 2, 3}},
		Positions: positions,
		Normals:   normals,
		Texcoords: uvs,
	}
}

// CreateBox generates six outward-facing quads forming an axis-aligned box
// of the given side length, used to build the Cornell-box test scene.
func CreateBox(size float32) Shape {
	h := size / 2
	type face struct {
		n          math.Vec3
		u, v       math.Vec3
	}
	faces := []face{
		{math.Vec3{X: 0, Y: 0, Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{X: 0, Y: 0, Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: 1, Y: 0, Z: 0}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1, Y: 0, Z: 0}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{X: 0, Y: 1, Z: 0}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{X: 0, Y: -1, Z: 0}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
	}

	var positions, normals []math.Vec3
	var uvs []math.Vec2
	var quads [][4]int32

	for _, f := range faces {
		center := f.n.Mul(h)
		base := int32(len(positions))
		corners := [4]math.Vec3{
			center.Sub(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Sub(f.v.Mul(h)),
			center.Add(f.u.Mul(h)).Add(f.v.Mul(h)),
			center.Sub(f.u.Mul(h)).Add(f.v.Mul(h)),
		}
		for i, c := range corners {
			positions = append(positions, c)
			normals = append(normals, f.n)
			uvs = append(uvs, math.Vec2{X: float32(i % 2), Y: float32(i / 2)})
		}
		quads = append(quads, [4]int32{base, base + 1, base + 2, base + 3})
	}

	return Shape{
		Kind:      ElementQuads,
		Quads:     quads,
		Positions: positions,
		Normals:   normals,
		Texcoords: uvs,
	}
}
