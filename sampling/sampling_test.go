package sampling

import (
	"testing"

	"lumenrt/math"
)

func TestUniformHemisphereStaysInUpperHalf(t *testing.T) {
	for i := 0; i < 64; i++ {
		u := float32(i) / 64
		v := float32((i*37)%64) / 64
		w := UniformHemisphere(u, v)
		if w.Z < 0 {
			t.Fatalf("UniformHemisphere(%v,%v) = %v has negative Z", u, v, w)
		}
		if len2 := w.Dot(w); len2 < 0.99 || len2 > 1.01 {
			t.Fatalf("UniformHemisphere(%v,%v) = %v not unit length, len2=%v", u, v, w, len2)
		}
	}
}

func TestCosineHemispherePdfMatchesZ(t *testing.T) {
	w := math.Vec3{X: 0, Y: 0, Z: 1}
	if got := CosineHemispherePdf(w); got-invPi > 1e-5 || invPi-got > 1e-5 {
		t.Fatalf("CosineHemispherePdf(+Z) = %v, want %v", got, invPi)
	}
	below := math.Vec3{X: 0, Y: 0, Z: -1}
	if got := CosineHemispherePdf(below); got != 0 {
		t.Fatalf("CosineHemispherePdf(-Z) = %v, want 0", got)
	}
}

func TestUniformTriangleBarycentricSumsToOne(t *testing.T) {
	for i := 0; i < 32; i++ {
		u := float32(i) / 32
		v := float32((i*13)%32) / 32
		b0, b1, b2 := UniformTriangle(u, v)
		sum := b0 + b1 + b2
		if sum < 0.999 || sum > 1.001 {
			t.Fatalf("barycentric sum = %v, want 1", sum)
		}
		if b0 < 0 || b1 < 0 || b2 < 0 {
			t.Fatalf("negative barycentric coordinate: %v %v %v", b0, b1, b2)
		}
	}
}

func TestUniformQuadSelectsBothTriangles(t *testing.T) {
	tri0, _, _, _ := UniformQuad(0.25, 0.5)
	tri1, _, _, _ := UniformQuad(0.75, 0.5)
	if tri0 != 0 || tri1 != 1 {
		t.Fatalf("UniformQuad triangle selection wrong: got %d, %d want 0, 1", tri0, tri1)
	}
}

func TestDiscreteIndexMonotone(t *testing.T) {
	cdf := []float32{1, 3, 6, 10}
	idx, frac := DiscreteIndex(cdf, 0)
	if idx != 0 {
		t.Fatalf("DiscreteIndex(0) = %d, want 0", idx)
	}
	if frac < 0 || frac > 1 {
		t.Fatalf("fraction out of range: %v", frac)
	}
	idx, _ = DiscreteIndex(cdf, 0.99999)
	if idx != 3 {
		t.Fatalf("DiscreteIndex(~1) = %d, want 3", idx)
	}
}

func TestUniformSphereUnitLength(t *testing.T) {
	for i := 0; i < 16; i++ {
		u := float32(i) / 16
		v := float32((i*7)%16) / 16
		w := UniformSphere(u, v)
		if len2 := w.Dot(w); len2 < 0.99 || len2 > 1.01 {
			t.Fatalf("UniformSphere(%v,%v) = %v not unit length", u, v, w)
		}
	}
}
