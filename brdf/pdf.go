package brdf

import "lumenrt/math"

// lobeWeights returns the (diffuse, specular, transmission) selection
// weights used both to pick a sampling strategy and to mix their PDFs. They
// are proportional to the largest component of each lobe's coefficient and
// always sum to at most 1.
func lobeWeights(sp *ShadingPoint) (kdw, ksw, ktw float32) {
	kdw = maxComponent(sp.Kd)
	ksw = maxComponent(sp.Ks)
	ktw = maxComponent(sp.Kt)
	total := kdw + ksw + ktw
	if total <= 0 {
		return 0, 0, 0
	}
	return kdw / total, ksw / total, ktw / total
}

func maxComponent(v math.Vec3) float32 {
	return maxf(maxf(v.X, v.Y), v.Z)
}

// Pdf returns the solid-angle probability density of sampling wi from Sample
// given sp, mixing the diffuse/specular/transmission lobes by their
// lobeWeights.
func Pdf(sp *ShadingPoint, wi math.Vec3) float32 {
	kdw, ksw, ktw := lobeWeights(sp)
	if kdw+ksw+ktw <= 0 {
		return 0
	}

	localWo := sp.ToLocal(sp.Wo)
	localWi := sp.ToLocal(wi)

	if isOpposite(localWo, localWi) {
		return ktw
	}

	switch sp.Kind {
	case Microfacet:
		return microfacetPdf(sp, localWo, localWi, kdw, ksw)
	case KajiyaKay, Point:
		// Both lobes are modeled as spherically uniform.
		return (kdw + ksw) * inv4Pi
	}
	return 0
}

const inv4Pi = 1 / (4 * pi)

func microfacetPdf(sp *ShadingPoint, wo, wi math.Vec3, kdw, ksw float32) float32 {
	if wo.Z <= 0 || wi.Z <= 0 {
		return 0
	}
	diffusePdf := wi.Z / pi

	wh := wo.Add(wi).Normalize()
	alpha := maxf(sp.Alpha, 1e-4)
	d := ggxD(wh, alpha)
	whPdf := d * wh.Z
	denom := 4 * absf(wo.Dot(wh))
	var specPdf float32
	if denom > 1e-8 {
		specPdf = whPdf / denom
	}

	return kdw*diffusePdf + ksw*specPdf
}
