// Package brdf evaluates and samples the shading-point BRDF/emission
// models the integrator dispatches on: microfacet (GGX) for
// triangles/quads, Kajiya-Kay for lines, and a spherical point BRDF for
// point primitives.
package brdf

import "lumenrt/math"

// Kind tags which reflectance model a Point uses.
type Kind int

const (
	Microfacet Kind = iota
	KajiyaKay
	Point
)

// EmissionKind tags how a Point's emission depends on the outgoing
// direction.
type EmissionKind int

const (
	EmissionNone EmissionKind = iota
	EmissionDiffuseArea
	EmissionLine
	EmissionPoint
	EmissionEnv
)

// ShadingPoint carries everything the BRDF/emission/PDF/sample functions
// need: world position, tangent frame (X,Y = tangent/bitangent, Z =
// shading normal), outgoing direction, emission, and the resolved
// reflectance coefficients.
type ShadingPoint struct {
	Position math.Vec3
	Frame    math.Frame3 // Z is the shading normal
	Wo       math.Vec3   // world-space outgoing direction (points away from the surface)

	EmissionKind EmissionKind
	Ke           math.Vec3

	Kind  Kind
	Kd    math.Vec3
	Ks    math.Vec3
	Alpha float32
	Kt    math.Vec3
}

// ToLocal/ToWorld move a world-space direction into/out of the shading
// frame, where Z is the normal.
func (sp *ShadingPoint) ToLocal(w math.Vec3) math.Vec3 {
	return sp.Frame.InverseTransformVector(w)
}

func (sp *ShadingPoint) ToWorld(w math.Vec3) math.Vec3 {
	return sp.Frame.TransformVector(w)
}
