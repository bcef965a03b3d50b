package bvh

import (
	stdmath "math"

	"lumenrt/math"
	"lumenrt/scene"
)

// elementAABB returns the local-space bounding box of element i of sh,
// padding degenerate point/line elements by their radius.
func elementAABB(sh *scene.Shape, i int) math.AABB {
	switch sh.Kind {
	case scene.ElementPoints:
		p := sh.Positions[sh.Points[i]]
		r := radiusAt(sh, int(sh.Points[i]))
		return math.AABB{Min: p.Sub(math.Vec3{X: r, Y: r, Z: r}), Max: p.Add(math.Vec3{X: r, Y: r, Z: r})}
	case scene.ElementLines:
		l := sh.Lines[i]
		a, b := sh.Positions[l[0]], sh.Positions[l[1]]
		r := maxf(radiusAt(sh, int(l[0])), radiusAt(sh, int(l[1])))
		box := math.AABBFromPoint(a).Union(math.AABBFromPoint(b))
		return math.AABB{Min: box.Min.Sub(math.Vec3{X: r, Y: r, Z: r}), Max: box.Max.Add(math.Vec3{X: r, Y: r, Z: r})}
	case scene.ElementTriangles:
		t := sh.Triangles[i]
		return math.AABBFromPoint(sh.Positions[t[0]]).
			Union(math.AABBFromPoint(sh.Positions[t[1]])).
			Union(math.AABBFromPoint(sh.Positions[t[2]]))
	case scene.ElementQuads:
		q := sh.Quads[i]
		return math.AABBFromPoint(sh.Positions[q[0]]).
			Union(math.AABBFromPoint(sh.Positions[q[1]])).
			Union(math.AABBFromPoint(sh.Positions[q[2]])).
			Union(math.AABBFromPoint(sh.Positions[q[3]]))
	}
	return math.AABBEmpty()
}

func radiusAt(sh *scene.Shape, idx int) float32 {
	if idx < len(sh.Radius) {
		return sh.Radius[idx]
	}
	return 0
}

// intersectElement dispatches to the element-kind-appropriate intersector,
// returning the hit distance and barycentric (u, v) on success.
func intersectElement(sh *scene.Shape, elem int, r math.Ray) (t, u, v float32, ok bool) {
	switch sh.Kind {
	case scene.ElementPoints:
		return intersectPoint(sh, elem, r)
	case scene.ElementLines:
		return intersectLine(sh, elem, r)
	case scene.ElementTriangles:
		tr := sh.Triangles[elem]
		return intersectTriangle(sh.Positions[tr[0]], sh.Positions[tr[1]], sh.Positions[tr[2]], r)
	case scene.ElementQuads:
		return intersectQuad(sh, elem, r)
	}
	return 0, 0, 0, false
}

func intersectPoint(sh *scene.Shape, elem int, r math.Ray) (t, u, v float32, ok bool) {
	idx := sh.Points[elem]
	p := sh.Positions[idx]
	rad := radiusAt(sh, int(idx))

	oc := p.Sub(r.Origin)
	proj := oc.Dot(r.Direction)
	if proj < r.Tmin || proj > r.Tmax {
		return 0, 0, 0, false
	}
	closest := r.At(proj)
	distSq := closest.Sub(p).LengthSqr()
	if distSq > rad*rad {
		return 0, 0, 0, false
	}
	return proj, 0, 0, true
}

func intersectLine(sh *scene.Shape, elem int, r math.Ray) (t, u, v float32, ok bool) {
	l := sh.Lines[elem]
	p0, p1 := sh.Positions[l[0]], sh.Positions[l[1]]
	r0, r1 := radiusAt(sh, int(l[0])), radiusAt(sh, int(l[1]))

	d1 := r.Direction
	d2 := p1.Sub(p0)
	rOrig := r.Origin.Sub(p0)

	a := d1.Dot(d1)
	b := d1.Dot(d2)
	c := d2.Dot(d2)
	d := d1.Dot(rOrig)
	e := d2.Dot(rOrig)
	denom := a*c - b*b

	var s, segT float32
	if denom > 1e-12 {
		s = (b*e - c*d) / denom
	}
	segT = (b*s + e) / c
	if segT < 0 {
		segT = 0
	} else if segT > 1 {
		segT = 1
	}
	s = (b*segT - d) / a

	if s < r.Tmin || s > r.Tmax {
		return 0, 0, 0, false
	}
	closestOnRay := r.At(s)
	closestOnSeg := p0.Add(d2.Mul(segT))
	rad := r0 + (r1-r0)*segT
	if closestOnRay.Sub(closestOnSeg).LengthSqr() > rad*rad {
		return 0, 0, 0, false
	}
	return s, segT, 0, true
}

// intersectTriangle is the Möller–Trumbore test, returning
// barycentric (u, v) with the implied third weight w = 1 - u - v.
func intersectTriangle(v0, v1, v2 math.Vec3, r math.Ray) (t, u, v float32, ok bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if det > -1e-12 && det < 1e-12 {
		return 0, 0, 0, false
	}
	invDet := 1 / det
	tvec := r.Origin.Sub(v0)
	uu := tvec.Dot(pvec) * invDet
	if uu < 0 || uu > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	vv := r.Direction.Dot(qvec) * invDet
	if vv < 0 || uu+vv > 1 {
		return 0, 0, 0, false
	}
	tt := e2.Dot(qvec) * invDet
	if tt < r.Tmin || tt > r.Tmax {
		return 0, 0, 0, false
	}
	return tt, uu, vv, true
}

// intersectQuad tests both triangles (v0,v1,v3) and (v2,v3,v1), shrinking
// tmax between tests, and remaps the second triangle's (u,v) so the quad's
// parametrization is continuous across both halves: a second-triangle hit
// reports (1-u, 1-v), so v0, v1, v2, v3 sit at (0,0), (1,0), (1,1), (0,1).
func intersectQuad(sh *scene.Shape, elem int, r math.Ray) (t, u, v float32, ok bool) {
	q := sh.Quads[elem]
	v0, v1, v2, v3 := sh.Positions[q[0]], sh.Positions[q[1]], sh.Positions[q[2]], sh.Positions[q[3]]

	best := r
	found := false
	var bt, bu, bv float32

	if tt, uu, vv, hit := intersectTriangle(v0, v1, v3, best); hit {
		best.Tmax = tt
		bt, bu, bv = tt, uu, vv
		found = true
	}
	if q[2] != q[3] {
		if tt, uu, vv, hit := intersectTriangle(v2, v3, v1, best); hit {
			bt = tt
			bu = 1 - uu
			bv = 1 - vv
			found = true
		}
	}
	if !found {
		return 0, 0, 0, false
	}
	return bt, bu, bv, true
}

// closestPointElement returns the nearest point on element elem to p, and
// whether it is within maxDist (maxDist <= 0 disables the gate).
func closestPointElement(sh *scene.Shape, elem int, p math.Vec3, maxDist float32) (math.Vec3, float32, bool) {
	switch sh.Kind {
	case scene.ElementPoints:
		cp := sh.Positions[sh.Points[elem]]
		d := cp.Sub(p).Length()
		return cp, d, maxDist <= 0 || d <= maxDist
	case scene.ElementLines:
		l := sh.Lines[elem]
		cp := closestPointOnSegment(p, sh.Positions[l[0]], sh.Positions[l[1]])
		d := cp.Sub(p).Length()
		return cp, d, maxDist <= 0 || d <= maxDist
	case scene.ElementTriangles:
		t := sh.Triangles[elem]
		cp := closestPointOnTriangle(p, sh.Positions[t[0]], sh.Positions[t[1]], sh.Positions[t[2]])
		d := cp.Sub(p).Length()
		return cp, d, maxDist <= 0 || d <= maxDist
	case scene.ElementQuads:
		q := sh.Quads[elem]
		cp1 := closestPointOnTriangle(p, sh.Positions[q[0]], sh.Positions[q[1]], sh.Positions[q[3]])
		cp := cp1
		if q[2] != q[3] {
			cp2 := closestPointOnTriangle(p, sh.Positions[q[2]], sh.Positions[q[3]], sh.Positions[q[1]])
			if cp2.Sub(p).LengthSqr() < cp1.Sub(p).LengthSqr() {
				cp = cp2
			}
		}
		d := cp.Sub(p).Length()
		return cp, d, maxDist <= 0 || d <= maxDist
	}
	return p, inf(), false
}

func closestPointOnSegment(p, a, b math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom <= 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Mul(t))
}

// closestPointOnTriangle is the standard Ericson-style region test.
func closestPointOnTriangle(p, a, b, c math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

func inf() float32 { return float32(stdmath.Inf(1)) }
