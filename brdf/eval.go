package brdf

import (
	stdmath "math"

	"lumenrt/math"
)

const pi = float32(stdmath.Pi)

// EvalEmission returns sp's emitted radiance toward Wo. Area/diffuse
// emitters only emit from their front face; point/line/env emit
// unconditionally.
func EvalEmission(sp *ShadingPoint) math.Vec3 {
	switch sp.EmissionKind {
	case EmissionDiffuseArea:
		if sp.Frame.Z.Dot(sp.Wo) > 0 {
			return sp.Ke
		}
		return math.Vec3{}
	case EmissionLine, EmissionPoint, EmissionEnv:
		return sp.Ke
	}
	return math.Vec3{}
}

// Eval returns f(wo, wi) * |cos(theta_i)| in world space, where wi points
// away from the surface toward the incoming light direction. Wi = -Wo (the
// transmission delta) returns Kt unconditionally; all other configurations
// below the shading hemisphere on either side contribute nothing for
// Microfacet.
func Eval(sp *ShadingPoint, wi math.Vec3) math.Vec3 {
	localWo := sp.ToLocal(sp.Wo)
	localWi := sp.ToLocal(wi)

	if isOpposite(localWo, localWi) {
		return sp.Kt
	}

	switch sp.Kind {
	case Microfacet:
		return evalMicrofacet(sp, localWo, localWi)
	case KajiyaKay:
		return evalKajiyaKay(sp, localWo, localWi)
	case Point:
		return evalPointBRDF(sp, localWo, localWi)
	}
	return math.Vec3{}
}

func isOpposite(a, b math.Vec3) bool {
	const eps = 1e-4
	return a.Add(b).LengthSqr() < eps
}

func evalMicrofacet(sp *ShadingPoint, wo, wi math.Vec3) math.Vec3 {
	if wo.Z <= 0 || wi.Z <= 0 {
		return math.Vec3{}
	}
	cosI := wi.Z

	diffuse := sp.Kd.Mul(1 / pi)

	wh := wo.Add(wi).Normalize()
	alpha := maxf(sp.Alpha, 1e-4)

	d := ggxD(wh, alpha)
	g := smithG(wo, wi, alpha)
	f := schlickFresnel(sp.Ks, maxf(0, wo.Dot(wh)))
	denom := 4 * wo.Z * wi.Z
	var spec math.Vec3
	if denom > 1e-8 {
		spec = f.Mul(d * g / denom)
	}

	return diffuse.Add(spec).Mul(cosI)
}

func evalKajiyaKay(sp *ShadingPoint, wo, wi math.Vec3) math.Vec3 {
	// Treat local Z as the curve tangent: sin replaces cos in the usual
	// Lambert/Blinn terms (spec.md 4.5).
	sinI := sqrtf(maxf(0, 1-wi.Z*wi.Z))
	diffuse := sp.Kd.Mul(sinI / pi)

	ns := 2/maxf(sp.Alpha, 1e-4) - 2
	halfway := wo.Add(wi).Normalize()
	sinH := sqrtf(maxf(0, 1-halfway.Z*halfway.Z))
	spec := sp.Ks.Mul(powf(sinH, ns) * (ns + 2) / (2 * pi))

	return diffuse.Add(spec).Mul(sinI)
}

func evalPointBRDF(sp *ShadingPoint, wo, wi math.Vec3) math.Vec3 {
	cosTerm := (2*wo.Dot(wi) + 1) / (2 * pi)
	return sp.Kd.Mul(maxf(0, cosTerm))
}

func ggxD(wh math.Vec3, alpha float32) float32 {
	if wh.Z <= 0 {
		return 0
	}
	a2 := alpha * alpha
	cos2 := wh.Z * wh.Z
	denom := cos2*(a2-1) + 1
	return a2 / (pi * denom * denom)
}

// smithG is the height-correlated Smith masking-shadowing term using the
// lambda formulation, G = 1 / (1 + lambda(wo) + lambda(wi)).
func smithG(wo, wi math.Vec3, alpha float32) float32 {
	return 1 / (1 + lambdaGGX(wo, alpha) + lambdaGGX(wi, alpha))
}

func lambdaGGX(w math.Vec3, alpha float32) float32 {
	cosTheta := absf(w.Z)
	if cosTheta >= 1 {
		return 0
	}
	sin2 := maxf(0, 1-cosTheta*cosTheta)
	tan2 := sin2 / (cosTheta * cosTheta)
	a2 := alpha * alpha * tan2
	return (-1 + sqrtf(1+a2)) / 2
}

func schlickFresnel(f0 math.Vec3, cosTheta float32) math.Vec3 {
	m := clamp01(1 - cosTheta)
	m2 := m * m
	m5 := m2 * m2 * m
	one := math.Vec3{X: 1, Y: 1, Z: 1}
	return f0.Add(one.Sub(f0).Mul(m5))
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

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
func sqrtf(f float32) float32 { return float32(stdmath.Sqrt(float64(f))) }
func powf(a, b float32) float32 {
	if a <= 0 {
		return 0
	}
	return float32(stdmath.Pow(float64(a), float64(b)))
}
