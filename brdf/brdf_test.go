package brdf

import (
	"testing"

	"lumenrt/math"
)

func diffuseShadingPoint() *ShadingPoint {
	return &ShadingPoint{
		Frame: math.FrameIdentity(),
		Wo:    math.Vec3{X: 0, Y: 0, Z: 1},
		Kind:  Microfacet,
		Kd:    math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		Alpha: 0.5,
	}
}

func TestEvalEmissionFrontFaceOnly(t *testing.T) {
	sp := diffuseShadingPoint()
	sp.EmissionKind = EmissionDiffuseArea
	sp.Ke = math.Vec3{X: 1, Y: 1, Z: 1}

	if got := EvalEmission(sp); got != sp.Ke {
		t.Errorf("front-facing emission: expected %v, got %v", sp.Ke, got)
	}

	sp.Wo = math.Vec3{X: 0, Y: 0, Z: -1}
	if got := EvalEmission(sp); got != (math.Vec3{}) {
		t.Errorf("back-facing emission: expected zero, got %v", got)
	}
}

func TestEvalEmissionPointAlwaysEmits(t *testing.T) {
	sp := diffuseShadingPoint()
	sp.EmissionKind = EmissionPoint
	sp.Ke = math.Vec3{X: 2, Y: 1, Z: 0}
	sp.Wo = math.Vec3{X: 0, Y: 0, Z: -1}

	if got := EvalEmission(sp); got != sp.Ke {
		t.Errorf("expected unconditional emission %v, got %v", sp.Ke, got)
	}
}

func TestEvalMicrofacetTransmissionDelta(t *testing.T) {
	sp := diffuseShadingPoint()
	sp.Kt = math.Vec3{X: 0.3, Y: 0.3, Z: 0.3}

	wi := sp.Wo.Negate()
	if got := Eval(sp, wi); got != sp.Kt {
		t.Errorf("expected transmission delta %v, got %v", sp.Kt, got)
	}
}

func TestEvalMicrofacetZeroBelowHorizon(t *testing.T) {
	sp := diffuseShadingPoint()
	wi := math.Vec3{X: 0, Y: 0, Z: -1}
	if got := Eval(sp, wi); got != (math.Vec3{}) {
		t.Errorf("expected zero contribution below the horizon, got %v", got)
	}
}

func TestEvalMicrofacetPositiveAboveHorizon(t *testing.T) {
	sp := diffuseShadingPoint()
	wi := math.Vec3{X: 0, Y: 0, Z: 1}
	got := Eval(sp, wi)
	if got.X <= 0 {
		t.Errorf("expected positive reflected radiance, got %v", got)
	}
}

func TestPdfMatchesSampleSupport(t *testing.T) {
	sp := diffuseShadingPoint()
	wi := math.Vec3{X: 0, Y: 0, Z: 1}
	if p := Pdf(sp, wi); p <= 0 {
		t.Errorf("expected positive pdf for a direction above the horizon, got %v", p)
	}
}

func TestSampleStaysOnUpperHemisphereForDiffuse(t *testing.T) {
	sp := diffuseShadingPoint()
	for i := 0; i < 16; i++ {
		u := float32(i) / 16
		wi := Sample(sp, 0.1, u, 1-u)
		if wi.Z < 0 {
			t.Errorf("diffuse sample fell below the horizon: %v", wi)
		}
	}
}

func TestSampleTransmissionIsExactlyOpposite(t *testing.T) {
	sp := diffuseShadingPoint()
	sp.Kd = math.Vec3{}
	sp.Ks = math.Vec3{}
	sp.Kt = math.Vec3{X: 1, Y: 1, Z: 1}

	wi := Sample(sp, 0.99, 0.3, 0.7)
	want := sp.Wo.Negate()
	const eps = 1e-5
	if wi.Sub(want).LengthSqr() > eps {
		t.Errorf("expected transmission sample %v, got %v", want, wi)
	}
}

func TestKajiyaKayEvalUsesSine(t *testing.T) {
	sp := diffuseShadingPoint()
	sp.Kind = KajiyaKay
	sp.Ks = math.Vec3{X: 0.2, Y: 0.2, Z: 0.2}

	grazing := Eval(sp, math.Vec3{X: 1, Y: 0, Z: 0})
	along := Eval(sp, math.Vec3{X: 0, Y: 0, Z: 1})
	if grazing.X <= along.X {
		t.Errorf("expected grazing incidence to out-scatter more than along-tangent: grazing=%v along=%v", grazing, along)
	}
}

func TestPointBRDFBacklobe(t *testing.T) {
	sp := diffuseShadingPoint()
	sp.Kind = Point

	back := Eval(sp, math.Vec3{X: 0, Y: 0, Z: -1})
	if back.X < 0 {
		t.Errorf("point BRDF must clamp negative lobes to zero, got %v", back)
	}
}
