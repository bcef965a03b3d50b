package integrator

import (
	stdmath "math"

	"lumenrt/brdf"
	"lumenrt/bvh"
	"lumenrt/math"
	"lumenrt/rng"
	"lumenrt/sampling"
	"lumenrt/scene"
)

const pi = float32(stdmath.Pi)

// LightSample is one next-event-estimation draw: a direction and distance
// toward a point on a light, its incoming radiance, and the solid-angle
// pdf of having sampled that direction (already multiplied by the
// 1/len(Lights) light-pick probability).
type LightSample struct {
	Wi       math.Vec3
	Distance float32
	Li       math.Vec3
	Pdf      float32
}

// SampleLights picks one of s.Lights uniformly and samples a point on it,
// returning ok=false when the scene has no lights or the picked light
// degenerates (zero measure).
func SampleLights(s *scene.Scene, sm *rng.Sampler, from math.Vec3) (LightSample, bool) {
	n := len(s.Lights)
	if n == 0 {
		return LightSample{}, false
	}
	idx := sm.Next1i(n)
	light := s.Lights[idx]
	pickPdf := 1 / float32(n)

	if light.Kind == scene.LightEnvironment {
		u, v := sm.Next2f()
		wi := sampling.UniformSphere(u, v)
		sp := scene.EvalEnvPoint(s.Env, wi)
		li := brdf.EvalEmission(&sp)
		pdf := sampling.UniformSpherePdf() * pickPdf
		return LightSample{Wi: wi, Distance: inf32, Li: li, Pdf: pdf}, pdf > 0
	}

	return sampleInstanceLight(s, sm, from, light.Instance, pickPdf)
}

func sampleInstanceLight(s *scene.Scene, sm *rng.Sampler, from math.Vec3, instID scene.InstanceID, pickPdf float32) (LightSample, bool) {
	inst := &s.Instances[instID]
	sh := s.Shape(inst.Shape)
	if sh == nil || len(sh.ElemCDF) == 0 {
		return LightSample{}, false
	}

	elem, _ := sampling.DiscreteIndex(sh.ElemCDF, sm.Next1f())
	u, v := sm.Next2f()

	localPos, localNormal, area := sampleElementPoint(sh, elem, u, v)
	worldPos := inst.Frame.TransformPoint(localPos)
	worldNormal := inst.Frame.TransformVector(localNormal).Normalize()

	toLight := worldPos.Sub(from)
	distSq := toLight.LengthSqr()
	if distSq < 1e-12 {
		return LightSample{}, false
	}
	dist := sqrtf(distSq)
	wi := toLight.Mul(1 / dist)

	cosLight := absf(worldNormal.Dot(wi.Negate()))
	if area <= 0 || cosLight < 1e-6 {
		return LightSample{}, false
	}

	sp := scene.EvalShapePoint(s, instID, int32(elem), u, v, wi.Negate())
	li := brdf.EvalEmission(&sp)

	totalArea := sh.TotalMeasure()
	if totalArea <= 0 {
		return LightSample{}, false
	}
	// Area-measure pdf 1/totalArea converted to solid angle: *dist^2/cos.
	pdf := (1 / totalArea) * (distSq / cosLight) * pickPdf
	return LightSample{Wi: wi, Distance: dist, Li: li, Pdf: pdf}, pdf > 0
}

// sampleElementPoint draws a uniform point on element elem of sh, returning
// its local position, geometric normal, and total element measure (area or
// length, matching BuildElemCDF).
func sampleElementPoint(sh *scene.Shape, elem int, u, v float32) (pos, normal math.Vec3, measure float32) {
	switch sh.Kind {
	case scene.ElementTriangles:
		t := sh.Triangles[elem]
		b0, b1, b2 := sampling.UniformTriangle(u, v)
		p0, p1, p2 := sh.Positions[t[0]], sh.Positions[t[1]], sh.Positions[t[2]]
		pos = p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2))
		normal = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		measure = sh.TotalMeasure()
	case scene.ElementQuads:
		q := sh.Quads[elem]
		tri, b0, b1, b2 := sampling.UniformQuad(u, v)
		var p0, p1, p2 math.Vec3
		if tri == 0 {
			p0, p1, p2 = sh.Positions[q[0]], sh.Positions[q[1]], sh.Positions[q[3]]
		} else {
			p0, p1, p2 = sh.Positions[q[2]], sh.Positions[q[3]], sh.Positions[q[1]]
		}
		pos = p0.Mul(b0).Add(p1.Mul(b1)).Add(p2.Mul(b2))
		normal = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
		measure = sh.TotalMeasure()
	case scene.ElementLines:
		l := sh.Lines[elem]
		pos = sh.Positions[l[0]].Lerp(sh.Positions[l[1]], u)
		normal = sh.Positions[l[1]].Sub(sh.Positions[l[0]]).Normalize()
		measure = sh.TotalMeasure()
	case scene.ElementPoints:
		idx := sh.Points[elem]
		pos = sh.Positions[idx]
		normal = math.Vec3{X: 0, Y: 0, Z: 1}
		measure = sh.TotalMeasure()
	}
	return
}

// LightsPdf is the BRDF-sampling side of MIS: the probability density that
// next-event estimation would have produced direction wi from point from,
// summed over every light (so the balance heuristic's denominator matches
// SampleLights' numerator convention).
func LightsPdf(s *scene.Scene, from math.Vec3, wi math.Vec3) float32 {
	n := len(s.Lights)
	if n == 0 {
		return 0
	}
	pickPdf := 1 / float32(n)

	var total float32
	if s.Env != nil {
		for _, l := range s.Lights {
			if l.Kind == scene.LightEnvironment {
				total += sampling.UniformSpherePdf() * pickPdf
			}
		}
	}

	ray := math.NewRay(from.Add(wi.Mul(1e-3)), wi)
	hit, ok := bvh.IntersectRay(s, ray, false)
	if !ok {
		return total
	}
	inst := &s.Instances[hit.Instance]
	sh := s.Shape(inst.Shape)
	mat := s.Material(sh.Material)
	if mat == nil || isZeroVec(mat.Ke) || len(sh.ElemCDF) == 0 {
		return total
	}

	area := sh.TotalMeasure()
	if area <= 0 {
		return total
	}
	distSq := hit.Distance * hit.Distance

	localNormal := elementGeometricNormal(sh, int(hit.Element))
	worldNormal := inst.Frame.TransformVector(localNormal).Normalize()
	cosLight := absf(worldNormal.Dot(wi.Negate()))
	if cosLight < 1e-6 {
		return total
	}

	total += (1 / area) * (distSq / cosLight) * pickPdf
	return total
}

// elementGeometricNormal returns the flat face normal of element elem,
// independent of any sampled barycentric coordinate.
func elementGeometricNormal(sh *scene.Shape, elem int) math.Vec3 {
	switch sh.Kind {
	case scene.ElementTriangles:
		t := sh.Triangles[elem]
		return sh.Positions[t[1]].Sub(sh.Positions[t[0]]).Cross(sh.Positions[t[2]].Sub(sh.Positions[t[0]])).Normalize()
	case scene.ElementQuads:
		q := sh.Quads[elem]
		return sh.Positions[q[1]].Sub(sh.Positions[q[0]]).Cross(sh.Positions[q[3]].Sub(sh.Positions[q[0]])).Normalize()
	case scene.ElementLines:
		l := sh.Lines[elem]
		return sh.Positions[l[1]].Sub(sh.Positions[l[0]]).Normalize()
	default:
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
}

func isZeroVec(v math.Vec3) bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// BalanceWeight is the two-strategy MIS balance heuristic p/(p+q).
func BalanceWeight(p, q float32) float32 {
	if p+q <= 0 {
		return 0
	}
	return p / (p + q)
}

// Transmittance casts a shadow ray from `from` toward a light sample at
// distance `dist` along wi, returning the fraction of light that arrives:
// 1 if unoccluded, 0 if blocked by an opaque surface, or the accumulated
// Kt product of any transmissive surfaces along the way when
// shadowNoTransmission is false.
func Transmittance(s *scene.Scene, from, wi math.Vec3, dist float32, rayEps float32, shadowNoTransmission bool) math.Vec3 {
	transmittance := math.Vec3{X: 1, Y: 1, Z: 1}
	origin := from.Add(wi.Mul(rayEps))
	remaining := dist - 2*rayEps

	for iter := 0; iter < 16 && remaining > rayEps; iter++ {
		ray := math.Ray{Origin: origin, Direction: wi, Tmin: 1e-5, Tmax: remaining}
		hit, ok := bvh.IntersectRay(s, ray, shadowNoTransmission)
		if !ok {
			return transmittance
		}

		inst := &s.Instances[hit.Instance]
		sh := s.Shape(inst.Shape)
		mat := s.Material(sh.Material)
		if shadowNoTransmission || mat == nil || isZeroVec(mat.Kt) {
			return math.Vec3{}
		}

		transmittance = transmittance.MulVec(mat.Kt)
		origin = ray.At(hit.Distance + rayEps)
		remaining -= hit.Distance + rayEps
	}
	return transmittance
}

func sqrtf(f float32) float32 { return float32(stdmath.Sqrt(float64(f))) }
func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

var inf32 = float32(stdmath.Inf(1))
