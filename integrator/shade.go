package integrator

import (
	"lumenrt/brdf"
	"lumenrt/bvh"
	"lumenrt/math"
	"lumenrt/rng"
	"lumenrt/scene"
)

// Shade traces one camera ray through s and returns its radiance estimate
// plus whether the ray hit anything (used by the alpha channel). It
// dispatches on p.Shader; every variant shares the same ray/Sampler plumbing.
func Shade(s *scene.Scene, ray math.Ray, sm *rng.Sampler, p Params) (math.Vec3, bool) {
	switch p.Shader {
	case ShaderPathtrace:
		return shadePathtrace(s, ray, sm, p, true)
	case ShaderPathtraceNoMIS:
		return shadePathtrace(s, ray, sm, p, false)
	case ShaderDirect:
		return shadeDirect(s, ray, sm, p)
	case ShaderEyelight:
		return shadeEyelight(s, ray, p)
	case ShaderDebugNormal:
		return shadeDebugNormal(s, ray)
	case ShaderDebugAlbedo:
		return shadeDebugAlbedo(s, ray)
	case ShaderDebugTexcoord:
		return shadeDebugTexcoord(s, ray)
	}
	return math.Vec3{}, false
}

// shadePathtrace unrolls the recursive path-tracing integrator into a loop,
// accumulating emission at every bounce, next-event-estimation direct
// lighting (weighted by MIS when useMIS), and Russian-roulette termination
// past p.MinDepth.
func shadePathtrace(s *scene.Scene, ray math.Ray, sm *rng.Sampler, p Params, useMIS bool) (math.Vec3, bool) {
	radiance := math.Vec3{}
	throughput := math.Vec3{X: 1, Y: 1, Z: 1}
	hitAnything := false
	specularBounce := true
	var bsdfPdf float32

	for depth := 0; depth < p.MaxDepth; depth++ {
		hit, ok := bvh.IntersectRay(s, ray, false)
		if !ok {
			radiance = radiance.Add(throughput.MulVec(envRadiance(s, ray, p, specularBounce)))
			break
		}
		hitAnything = true

		sp := scene.EvalShapePoint(s, hit.Instance, hit.Element, hit.U, hit.V, ray.Direction.Negate())

		if specularBounce || !useMIS {
			radiance = radiance.Add(throughput.MulVec(brdf.EvalEmission(&sp)))
		} else if sp.EmissionKind != brdf.EmissionNone {
			lightPdf := LightsPdf(s, ray.Origin, ray.Direction)
			weight := BalanceWeight(bsdfPdf, lightPdf)
			radiance = radiance.Add(throughput.MulVec(brdf.EvalEmission(&sp)).Mul(weight))
		}

		radiance = radiance.Add(throughput.MulVec(sampleLightNEE(s, sm, &sp, p, useMIS)))

		wi := brdf.Sample(&sp, sm.Next1f(), sm.Next1f(), sm.Next1f())
		if wi == (math.Vec3{}) {
			break
		}
		f := brdf.Eval(&sp, wi)
		pdf := brdf.Pdf(&sp, wi)
		if pdf <= 0 || !f.IsFinite() {
			break
		}
		throughput = throughput.MulVec(f).Mul(1 / pdf)
		if !throughput.IsFinite() {
			break
		}
		bsdfPdf = pdf
		specularBounce = false

		if depth >= p.MinDepth {
			survival := clamp01(throughput.MaxComponent())
			if survival < 0.05 {
				survival = 0.05
			}
			if survival > 0.95 {
				survival = 0.95
			}
			if sm.Next1f() > survival {
				break
			}
			throughput = throughput.Mul(1 / survival)
		}

		ray = math.Ray{Origin: sp.Position.Add(wi.Mul(p.RayEps)), Direction: wi, Tmin: 1e-4, Tmax: inf32}
	}

	return clampRadiance(radiance, p.PixelClamp), hitAnything
}

// sampleLightNEE draws one next-event-estimation sample at sp and returns
// its direct-lighting contribution, pre-transmittance-tested. When useMIS
// is true the contribution is weighted by the balance heuristic against the
// BRDF sampling strategy; when false (the nomis shader) the light sample
// contributes directly, unweighted, with no balance against the BSDF side.
func sampleLightNEE(s *scene.Scene, sm *rng.Sampler, sp *brdf.ShadingPoint, p Params, useMIS bool) math.Vec3 {
	sample, ok := SampleLights(s, sm, sp.Position)
	if !ok || sample.Pdf <= 0 {
		return math.Vec3{}
	}
	f := brdf.Eval(sp, sample.Wi)
	if f == (math.Vec3{}) {
		return math.Vec3{}
	}

	weight := float32(1)
	if useMIS {
		bsdfPdf := brdf.Pdf(sp, sample.Wi)
		weight = BalanceWeight(sample.Pdf, bsdfPdf)
	}

	trans := Transmittance(s, sp.Position, sample.Wi, sample.Distance, p.RayEps, p.ShadowNoTransmission)
	if trans == (math.Vec3{}) {
		return math.Vec3{}
	}

	return sample.Li.MulVec(f).MulVec(trans).Mul(weight / sample.Pdf)
}

func envRadiance(s *scene.Scene, ray math.Ray, p Params, primaryRay bool) math.Vec3 {
	if s.Env == nil || (primaryRay && p.EnvmapInvisible) {
		return math.Vec3{}
	}
	sp := scene.EvalEnvPoint(s.Env, ray.Direction)
	return brdf.EvalEmission(&sp)
}

// shadeDirect is a one-bounce estimator: emission plus a single
// next-event-estimation sample and a flat ambient term, no further
// recursion.
func shadeDirect(s *scene.Scene, ray math.Ray, sm *rng.Sampler, p Params) (math.Vec3, bool) {
	hit, ok := bvh.IntersectRay(s, ray, false)
	if !ok {
		if s.Env == nil {
			return math.Vec3{}, false
		}
		sp := scene.EvalEnvPoint(s.Env, ray.Direction)
		return brdf.EvalEmission(&sp), false
	}

	sp := scene.EvalShapePoint(s, hit.Instance, hit.Element, hit.U, hit.V, ray.Direction.Negate())
	radiance := brdf.EvalEmission(&sp)
	radiance = radiance.Add(sampleLightNEE(s, sm, &sp, p, true))
	radiance = radiance.Add(sp.Kd.MulVec(p.Amb))
	return clampRadiance(radiance, p.PixelClamp), true
}

// shadeEyelight evaluates f(wo, wo)*pi at the first hit: a cheap, shadowless
// preview shading mode that lights every surface from the camera.
func shadeEyelight(s *scene.Scene, ray math.Ray, p Params) (math.Vec3, bool) {
	hit, ok := bvh.IntersectRay(s, ray, false)
	if !ok {
		return envRadiance(s, ray, p, true), false
	}
	sp := scene.EvalShapePoint(s, hit.Instance, hit.Element, hit.U, hit.V, ray.Direction.Negate())
	radiance := brdf.EvalEmission(&sp).Add(brdf.Eval(&sp, sp.Wo).Mul(pi))
	return clampRadiance(radiance, p.PixelClamp), true
}

func shadeDebugNormal(s *scene.Scene, ray math.Ray) (math.Vec3, bool) {
	hit, ok := bvh.IntersectRay(s, ray, false)
	if !ok {
		return math.Vec3{}, false
	}
	sp := scene.EvalShapePoint(s, hit.Instance, hit.Element, hit.U, hit.V, ray.Direction.Negate())
	n := sp.Frame.Z
	return n.Mul(0.5).Add(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}), true
}

func shadeDebugAlbedo(s *scene.Scene, ray math.Ray) (math.Vec3, bool) {
	hit, ok := bvh.IntersectRay(s, ray, false)
	if !ok {
		return math.Vec3{}, false
	}
	sp := scene.EvalShapePoint(s, hit.Instance, hit.Element, hit.U, hit.V, ray.Direction.Negate())
	return sp.Kd.Add(sp.Ks), true
}

func shadeDebugTexcoord(s *scene.Scene, ray math.Ray) (math.Vec3, bool) {
	hit, ok := bvh.IntersectRay(s, ray, false)
	if !ok {
		return math.Vec3{}, false
	}
	return math.Vec3{X: hit.U, Y: hit.V, Z: 0}, true
}

func clampRadiance(c math.Vec3, limit float32) math.Vec3 {
	if !c.IsFinite() {
		return math.Vec3{}
	}
	if limit <= 0 {
		return c
	}
	m := c.MaxComponent()
	if m <= limit {
		return c
	}
	return c.Mul(limit / m)
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
