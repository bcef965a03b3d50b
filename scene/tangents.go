package scene

import "lumenrt/math"

// ComputeTangents generates a per-vertex tangent frame (xyz=tangent,
// w=bitangent sign) for a triangle Shape with texcoords, required for
// tangent-space normal mapping. Triangles with degenerate UV area are
// skipped. Call after geometry load, before BuildShapeBVH.
func ComputeTangents(s *Shape) {
	if s.Kind != ElementTriangles || len(s.Texcoords) == 0 {
		return
	}

	accumT := make([]math.Vec3, len(s.Positions))
	accumB := make([]math.Vec3, len(s.Positions))

	accum := func(i0, i1, i2 int32) {
		v0, v1, v2 := s.Positions[i0], s.Positions[i1], s.Positions[i2]
		uv0, uv1, uv2 := s.Texcoords[i0], s.Texcoords[i1], s.Texcoords[i2]

		e1 := v1.Sub(v0)
		e2 := v2.Sub(v0)
		du1 := uv1.X - uv0.X
		dv1 := uv1.Y - uv0.Y
		du2 := uv2.X - uv0.X
		dv2 := uv2.Y - uv0.Y

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			return
		}
		r := 1 / denom
		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))
		b := e2.Mul(du1 * r).Sub(e1.Mul(du2 * r))

		accumT[i0] = accumT[i0].Add(t)
		accumT[i1] = accumT[i1].Add(t)
		accumT[i2] = accumT[i2].Add(t)
		accumB[i0] = accumB[i0].Add(b)
		accumB[i1] = accumB[i1].Add(b)
		accumB[i2] = accumB[i2].Add(b)
	}

	for _, tri := range s.Triangles {
		accum(tri[0], tri[1], tri[2])
	}

	if len(s.Normals) != len(s.Positions) {
		return
	}

	s.Tangents = make([]math.Vec4, len(s.Positions))
	for i := range s.Positions {
		n := s.Normals[i]
		t := accumT[i].Sub(n.Mul(n.Dot(accumT[i])))
		if t.LengthSqr() < 1e-8 {
			if absf32(n.X) < 0.9 {
				t = math.Vec3{X: 1}.Sub(n.Mul(n.X))
			} else {
				t = math.Vec3{Y: 1}.Sub(n.Mul(n.Y))
			}
		}
		t = t.Normalize()

		sign := float32(1)
		if n.Cross(t).Dot(accumB[i]) < 0 {
			sign = -1
		}
		s.Tangents[i] = t.ToVec4(sign)
	}
}

func absf32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
