// Package sampling provides samplers and PDFs for the hemisphere/sphere/
// triangle/quad/disk/cylinder primitives the integrator and light
// sampling routines need. Every sampling function consumes one or two
// canonical [0,1) random numbers and every Pdf is its exact normalized
// density with respect to the stated measure (solid angle or area).
package sampling

import (
	stdmath "math"

	"lumenrt/math"
)

const pi = float32(stdmath.Pi)
const invPi = float32(1 / stdmath.Pi)
const inv2Pi = float32(1 / (2 * stdmath.Pi))
const inv4Pi = float32(1 / (4 * stdmath.Pi))

// UniformHemisphere maps (u, v) in [0,1)^2 to a direction uniformly
// distributed over the +Z hemisphere.
func UniformHemisphere(u, v float32) math.Vec3 {
	z := u
	r := sqrtf(maxf(0, 1-z*z))
	phi := 2 * pi * v
	return math.Vec3{X: r * cosf(phi), Y: r * sinf(phi), Z: z}
}

// UniformHemispherePdf is the constant solid-angle density 1/2π.
func UniformHemispherePdf(w math.Vec3) float32 {
	if w.Z <= 0 {
		return 0
	}
	return inv2Pi
}

// CosineHemisphere maps (u, v) to a +Z-hemisphere direction with density
// proportional to cos(theta), via Malley's concentric-disk method.
func CosineHemisphere(u, v float32) math.Vec3 {
	dx, dy := concentricSampleDisk(u, v)
	z := sqrtf(maxf(0, 1-dx*dx-dy*dy))
	return math.Vec3{X: dx, Y: dy, Z: z}
}

// CosineHemispherePdf returns max(0, w.z)/π.
func CosineHemispherePdf(w math.Vec3) float32 {
	return maxf(0, w.Z) * invPi
}

// CosinePowerHemisphere samples a +Z-hemisphere direction with density
// proportional to cos(theta)^n (n=0 reduces to uniform hemisphere, used by
// the Blinn-style specular lobes).
func CosinePowerHemisphere(u, v, n float32) math.Vec3 {
	z := powf(u, 1/(n+1))
	r := sqrtf(maxf(0, 1-z*z))
	phi := 2 * pi * v
	return math.Vec3{X: r * cosf(phi), Y: r * sinf(phi), Z: z}
}

// CosinePowerHemispherePdf is the matching density (n+1)/2π * cos(theta)^n.
func CosinePowerHemispherePdf(w math.Vec3, n float32) float32 {
	if w.Z <= 0 {
		return 0
	}
	return (n + 1) * inv2Pi * powf(w.Z, n)
}

// UniformSphere maps (u, v) to a direction uniformly distributed over the
// full sphere.
func UniformSphere(u, v float32) math.Vec3 {
	z := 1 - 2*u
	r := sqrtf(maxf(0, 1-z*z))
	phi := 2 * pi * v
	return math.Vec3{X: r * cosf(phi), Y: r * sinf(phi), Z: z}
}

// UniformSpherePdf is the constant solid-angle density 1/4π.
func UniformSpherePdf() float32 {
	return inv4Pi
}

// UniformDisk maps (u, v) to a point uniformly distributed over the unit disk.
func UniformDisk(u, v float32) (float32, float32) {
	return concentricSampleDisk(u, v)
}

// concentricSampleDisk is Shirley & Chiu's mapping from the unit square to
// the unit disk with low distortion, used by CosineHemisphere and UniformDisk.
func concentricSampleDisk(u, v float32) (float32, float32) {
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

// UniformCylinder maps (u, v) to a point on the unit-radius, unit-height
// (z in [0,1]) cylinder's lateral surface.
func UniformCylinder(u, v float32) math.Vec3 {
	phi := 2 * pi * u
	return math.Vec3{X: cosf(phi), Y: sinf(phi), Z: v}
}

// UniformTriangle maps (u, v) to barycentric coordinates (b0, b1, b2) over a
// triangle with density uniform in area, using the square-root remap
// (1-√u, √u(1-v), √u·v).
func UniformTriangle(u, v float32) (float32, float32, float32) {
	su := sqrtf(u)
	b0 := 1 - su
	b1 := su * (1 - v)
	b2 := su * v
	return b0, b1, b2
}

// UniformQuad maps (u, v) to barycentric coordinates over one of the quad's
// two constituent triangles, selected by u < 0.5, with the second
// triangle's (u, v) remapped so the whole quad is covered uniformly by area
// when the two triangles have equal area (the general case additionally
// needs area-ratio-aware selection, left to the caller via elem_cdf).
func UniformQuad(u, v float32) (tri int, b0, b1, b2 float32) {
	if u < 0.5 {
		b0, b1, b2 = UniformTriangle(2*u, v)
		return 0, b0, b1, b2
	}
	b0, b1, b2 = UniformTriangle(2*u-1, v)
	return 1, b0, b1, b2
}

// DiscreteIndex performs inverse-CDF lookup: given a monotonically
// non-decreasing cumulative distribution cdf (its last entry is the total
// measure) and a uniform u in [0, 1), returns the smallest index i such
// that cdf[i] > u*total, plus the remapped-to-[0,1) fraction within that
// element's span (useful for further stratifying inside the chosen element).
func DiscreteIndex(cdf []float32, u float32) (int, float32) {
	if len(cdf) == 0 {
		return 0, 0
	}
	total := cdf[len(cdf)-1]
	if total <= 0 {
		return 0, 0
	}
	target := u * total
	lo, hi := 0, len(cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cdf[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	prev := float32(0)
	if lo > 0 {
		prev = cdf[lo-1]
	}
	span := cdf[lo] - prev
	frac := float32(0)
	if span > 0 {
		frac = (target - prev) / span
	}
	return lo, frac
}

func sqrtf(f float32) float32 { return float32(stdmath.Sqrt(float64(f))) }
func cosf(f float32) float32  { return float32(stdmath.Cos(float64(f))) }
func sinf(f float32) float32  { return float32(stdmath.Sin(float64(f))) }
func powf(a, b float32) float32 {
	if a <= 0 {
		return 0
	}
	return float32(stdmath.Pow(float64(a), float64(b)))
}
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
