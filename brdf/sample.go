package brdf

import (
	stdmath "math"

	"lumenrt/math"
)

// Sample draws an incoming direction wi (world space) from sp's BRDF given
// three canonical random numbers: rc selects which lobe (diffuse, specular,
// transmission) to sample from, and (u, v) drive that lobe's directional
// distribution. Returns the zero vector if sp reflects nothing.
func Sample(sp *ShadingPoint, rc, u, v float32) math.Vec3 {
	kdw, ksw, ktw := lobeWeights(sp)
	if kdw+ksw+ktw <= 0 {
		return math.Vec3{}
	}

	localWo := sp.ToLocal(sp.Wo)

	switch {
	case rc < kdw:
		return sp.ToWorld(sampleDiffuseLobe(sp, localWo, u, v))
	case rc < kdw+ksw:
		return sp.ToWorld(sampleSpecularLobe(sp, localWo, u, v))
	default:
		return sp.ToWorld(localWo.Negate())
	}
}

func sampleDiffuseLobe(sp *ShadingPoint, wo math.Vec3, u, v float32) math.Vec3 {
	switch sp.Kind {
	case Microfacet:
		return cosineHemisphere(u, v)
	default:
		return uniformSphere(u, v)
	}
}

func sampleSpecularLobe(sp *ShadingPoint, wo math.Vec3, u, v float32) math.Vec3 {
	switch sp.Kind {
	case Microfacet:
		alpha := maxf(sp.Alpha, 1e-4)
		wh := sampleGGXHalfVector(alpha, u, v)
		wi := wh.Mul(2 * wo.Dot(wh)).Sub(wo)
		return wi
	default:
		return uniformSphere(u, v)
	}
}

// sampleGGXHalfVector draws a micro-normal from the GGX distribution of
// visible normals' simplified (non-visible) form, used to build the
// reflected specular direction.
func sampleGGXHalfVector(alpha, u, v float32) math.Vec3 {
	cosTheta := sqrtf((1 - u) / (1 + (alpha*alpha-1)*u))
	sinTheta := sqrtf(maxf(0, 1-cosTheta*cosTheta))
	phi := 2 * pi * v
	return math.Vec3{X: sinTheta * cosf(phi), Y: sinTheta * sinf(phi), Z: cosTheta}
}

func cosineHemisphere(u, v float32) math.Vec3 {
	dx, dy := concentricDisk(u, v)
	z := sqrtf(maxf(0, 1-dx*dx-dy*dy))
	return math.Vec3{X: dx, Y: dy, Z: z}
}

func concentricDisk(u, v float32) (float32, float32) {
	ox := 2*u - 1
	oy := 2*v - 1
	if ox == 0 && oy == 0 {
		return 0, 0
	}
	var r, theta float32
	if absf(ox) > absf(oy) {
		r = ox
		theta = (pi / 4) * (oy / ox)
	} else {
		r = oy
		theta = (pi / 2) - (pi/4)*(ox/oy)
	}
	return r * cosf(theta), r * sinf(theta)
}

func uniformSphere(u, v float32) math.Vec3 {
	z := 1 - 2*u
	r := sqrtf(maxf(0, 1-z*z))
	phi := 2 * pi * v
	return math.Vec3{X: r * cosf(phi), Y: r * sinf(phi), Z: z}
}

func cosf(f float32) float32 { return float32(stdmath.Cos(float64(f))) }
func sinf(f float32) float32 { return float32(stdmath.Sin(float64(f))) }
