package scene

import "lumenrt/math"

// ElementKind tags which single element array a Shape carries. A shape
// holds exactly one of these non-empty — the invariant the BVH and
// eval_shape_point code paths both depend on.
type ElementKind int

const (
	ElementPoints ElementKind = iota
	ElementLines
	ElementTriangles
	ElementQuads
)

// Shape is leaf geometry: one element array plus per-vertex attributes.
// Degenerate quads with element[2] == element[3] represent triangles and
// are handled by the same two-triangle-split intersector as true quads.
type Shape struct {
	Kind ElementKind

	Points    []int32   // [i]
	Lines     [][2]int32 // [i, j]
	Triangles [][3]int32 // [i, j, k]
	Quads     [][4]int32 // [i, j, k, l]

	Positions []math.Vec3
	Normals   []math.Vec3 // optional, len 0 if absent
	Texcoords []math.Vec2 // optional
	Colors    []math.Vec4 // optional
	Radius    []float32   // optional, points/lines
	Tangents  []math.Vec4 // optional, xyz=tangent w=bitangent sign

	Material MaterialID

	// ElemCDF is the prefix sum of per-element area (triangles/quads) or
	// length (lines) or count (points), built by BuildElemCDF and consumed
	// by light sampling's inverse-CDF element pick.
	ElemCDF []float32

	BVH *BVH
}

// ElementCount returns how many elements the shape's active array holds.
func (s *Shape) ElementCount() int {
	switch s.Kind {
	case ElementPoints:
		return len(s.Points)
	case ElementLines:
		return len(s.Lines)
	case ElementTriangles:
		return len(s.Triangles)
	case ElementQuads:
		return len(s.Quads)
	}
	return 0
}

// BuildElemCDF (re)computes the per-element measure prefix sum used by area
// light sampling: triangle/quad area, line length, or point count (measure 1
// each). Call after geometry changes, before UpdateLights.
func (s *Shape) BuildElemCDF() {
	n := s.ElementCount()
	s.ElemCDF = make([]float32, n)
	var total float32
	for i := 0; i < n; i++ {
		total += s.elementMeasure(i)
		s.ElemCDF[i] = total
	}
}

func (s *Shape) elementMeasure(i int) float32 {
	switch s.Kind {
	case ElementPoints:
		return 1
	case ElementLines:
		l := s.Lines[i]
		return s.Positions[l[0]].Sub(s.Positions[l[1]]).Length()
	case ElementTriangles:
		t := s.Triangles[i]
		return triangleArea(s.Positions[t[0]], s.Positions[t[1]], s.Positions[t[2]])
	case ElementQuads:
		q := s.Quads[i]
		a := triangleArea(s.Positions[q[0]], s.Positions[q[1]], s.Positions[q[3]])
		if q[2] == q[3] {
			return a
		}
		b := triangleArea(s.Positions[q[2]], s.Positions[q[3]], s.Positions[q[1]])
		return a + b
	}
	return 0
}

func triangleArea(a, b, c math.Vec3) float32 {
	return b.Sub(a).Cross(c.Sub(a)).Length() * 0.5
}

// TotalMeasure returns the shape's total area/length/count, the denominator
// used to turn a per-element PDF into the shape-wide light sampling PDF.
func (s *Shape) TotalMeasure() float32 {
	if len(s.ElemCDF) == 0 {
		return 0
	}
	return s.ElemCDF[len(s.ElemCDF)-1]
}
