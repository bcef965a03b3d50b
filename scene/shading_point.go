package scene

import (
	stdmath "math"

	"lumenrt/brdf"
	"lumenrt/math"
)

// EvalShapePoint resolves a BVH hit on instance inst, element element with
// barycentric/parametric coordinates (u, v), into a world-space
// brdf.ShadingPoint: it interpolates geometry, applies the normal map, and
// resolves the instance's material into the runtime reflectance model
// (brdf.Kind) appropriate for the shape's element kind.
func EvalShapePoint(s *Scene, inst InstanceID, element int32, u, v float32, wo math.Vec3) brdf.ShadingPoint {
	instance := &s.Instances[inst]
	sh := s.Shape(instance.Shape)
	mat := s.Material(sh.Material)
	if mat == nil {
		mat = DefaultMaterial()
	}

	localPos, localNormal, uv, color, tangent := interpolateElement(sh, element, u, v)

	worldPos := instance.Frame.TransformPoint(localPos)
	worldNormal := instance.Frame.TransformVector(localNormal).Normalize()

	if mat.DoubleSided && worldNormal.Dot(wo) < 0 {
		worldNormal = worldNormal.Negate()
	}

	frame := shadingFrame(worldNormal, instance.Frame.TransformVector(tangent.ToVec3()).Normalize())

	if mat.NormalTxt != nil {
		frame = applyNormalMap(frame, mat.NormalTxt, uv, tangent.W)
	}

	sp := brdf.ShadingPoint{
		Position: worldPos,
		Frame:    frame,
		Wo:       wo,
	}

	resolveMaterial(&sp, mat, uv, color)
	sp.Kind = brdfKindFor(sh.Kind)
	sp.EmissionKind = emissionKindFor(sh.Kind, mat.Ke)

	return sp
}

// EvalEnvPoint resolves the environment's emission toward the world-space
// direction dir (typically a miss ray's direction), sampling KeTxt with an
// equirectangular mapping when present.
func EvalEnvPoint(env *Environment, dir math.Vec3) brdf.ShadingPoint {
	ke := env.Ke
	if env.KeTxt != nil {
		local := env.Frame.InverseTransformVector(dir).Normalize()
		u := atan2f(local.X, -local.Z)*0.5/pi + 0.5
		v := acosf(local.Y) / pi
		sample := EvalTexture(env.KeTxt, u, v, true, math.Vec4{X: ke.X, Y: ke.Y, Z: ke.Z, W: 1})
		ke = math.Vec3{X: sample.X, Y: sample.Y, Z: sample.Z}
	}
	return brdf.ShadingPoint{
		Frame:        env.Frame,
		Wo:           dir,
		EmissionKind: brdf.EmissionEnv,
		Ke:           ke,
	}
}

const pi = float32(stdmath.Pi)

func brdfKindFor(k ElementKind) brdf.Kind {
	switch k {
	case ElementLines:
		return brdf.KajiyaKay
	case ElementPoints:
		return brdf.Point
	default:
		return brdf.Microfacet
	}
}

func emissionKindFor(k ElementKind, ke math.Vec3) brdf.EmissionKind {
	if ke.X == 0 && ke.Y == 0 && ke.Z == 0 {
		return brdf.EmissionNone
	}
	switch k {
	case ElementLines:
		return brdf.EmissionLine
	case ElementPoints:
		return brdf.EmissionPoint
	default:
		return brdf.EmissionDiffuseArea
	}
}

// interpolateElement returns the element's local-space position, normal,
// texcoord, vertex color, and tangent (xyz=tangent, w=bitangent sign) at
// barycentric/parametric coordinates (u, v). Missing per-vertex attributes
// fall back to a flat geometric normal, zero texcoord/tangent, and opaque
// white.
func interpolateElement(sh *Shape, element int32, u, v float32) (pos, normal math.Vec3, uv math.Vec2, color math.Vec4, tangent math.Vec4) {
	color = math.Vec4{X: 1, Y: 1, Z: 1, W: 1}

	switch sh.Kind {
	case ElementTriangles:
		t := sh.Triangles[element]
		b0, b1, b2 := 1-u-v, u, v
		return barycentricBlend(sh, t[0], t[1], t[2], b0, b1, b2)
	case ElementQuads:
		q := sh.Quads[element]
		return bilinearBlend(sh, q[0], q[1], q[2], q[3], u, v)
	case ElementLines:
		l := sh.Lines[element]
		pos = sh.Positions[l[0]].Lerp(sh.Positions[l[1]], u)
		tangentDir := sh.Positions[l[1]].Sub(sh.Positions[l[0]]).Normalize()
		normal = tangentDir // curve tangent; shadingFrame treats it as local Z
		if len(sh.Texcoords) > int(l[1]) {
			uv = lerpVec2(sh.Texcoords[l[0]], sh.Texcoords[l[1]], u)
		}
		if len(sh.Colors) > int(l[1]) {
			color = lerpVec4(sh.Colors[l[0]], sh.Colors[l[1]], u)
		}
		return pos, normal, uv, color, math.Vec4{}
	case ElementPoints:
		idx := sh.Points[element]
		pos = sh.Positions[idx]
		if len(sh.Normals) > int(idx) {
			normal = sh.Normals[idx]
		} else {
			normal = math.Vec3{X: 0, Y: 0, Z: 1}
		}
		if len(sh.Texcoords) > int(idx) {
			uv = sh.Texcoords[idx]
		}
		if len(sh.Colors) > int(idx) {
			color = sh.Colors[idx]
		}
		return pos, normal, uv, color, math.Vec4{}
	}
	return
}

func barycentricBlend(sh *Shape, i0, i1, i2 int32, b0, b1, b2 float32) (pos, normal math.Vec3, uv math.Vec2, color math.Vec4, tangent math.Vec4) {
	pos = sh.Positions[i0].Mul(b0).Add(sh.Positions[i1].Mul(b1)).Add(sh.Positions[i2].Mul(b2))

	if len(sh.Normals) > int(i2) {
		normal = sh.Normals[i0].Mul(b0).Add(sh.Normals[i1].Mul(b1)).Add(sh.Normals[i2].Mul(b2)).Normalize()
	} else {
		normal = sh.Positions[i1].Sub(sh.Positions[i0]).Cross(sh.Positions[i2].Sub(sh.Positions[i0])).Normalize()
	}

	if len(sh.Texcoords) > int(i2) {
		uv = math.Vec2{
			X: sh.Texcoords[i0].X*b0 + sh.Texcoords[i1].X*b1 + sh.Texcoords[i2].X*b2,
			Y: sh.Texcoords[i0].Y*b0 + sh.Texcoords[i1].Y*b1 + sh.Texcoords[i2].Y*b2,
		}
	}

	color = math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	if len(sh.Colors) > int(i2) {
		color = lerpVec4Tri(sh.Colors[i0], sh.Colors[i1], sh.Colors[i2], b0, b1, b2)
	}

	if len(sh.Tangents) > int(i2) {
		tangent = lerpVec4Tri(sh.Tangents[i0], sh.Tangents[i1], sh.Tangents[i2], b0, b1, b2)
	}
	return
}

// bilinearBlend interpolates a quad's corners with u spanning v0->v1 and v
// spanning toward v3, matching the continuous (u, v) parametrization
// intersectQuad produces across both constituent triangles.
func bilinearBlend(sh *Shape, i0, i1, i2, i3 int32, u, v float32) (pos, normal math.Vec3, uv math.Vec2, color math.Vec4, tangent math.Vec4) {
	pos = bilerpVec3(sh.Positions[i0], sh.Positions[i1], sh.Positions[i2], sh.Positions[i3], u, v)

	if len(sh.Normals) > int(i3) {
		normal = bilerpVec3(sh.Normals[i0], sh.Normals[i1], sh.Normals[i2], sh.Normals[i3], u, v).Normalize()
	} else {
		normal = sh.Positions[i1].Sub(sh.Positions[i0]).Cross(sh.Positions[i3].Sub(sh.Positions[i0])).Normalize()
	}

	if len(sh.Texcoords) > int(i3) {
		uv = math.Vec2{
			X: bilerp(sh.Texcoords[i0].X, sh.Texcoords[i1].X, sh.Texcoords[i2].X, sh.Texcoords[i3].X, u, v),
			Y: bilerp(sh.Texcoords[i0].Y, sh.Texcoords[i1].Y, sh.Texcoords[i2].Y, sh.Texcoords[i3].Y, u, v),
		}
	}

	color = math.Vec4{X: 1, Y: 1, Z: 1, W: 1}
	if len(sh.Colors) > int(i3) {
		color = bilerpVec4(sh.Colors[i0], sh.Colors[i1], sh.Colors[i2], sh.Colors[i3], u, v)
	}
	if len(sh.Tangents) > int(i3) {
		tangent = bilerpVec4(sh.Tangents[i0], sh.Tangents[i1], sh.Tangents[i2], sh.Tangents[i3], u, v)
	}
	return
}

func bilerpVec3(a, b, c, d math.Vec3, u, v float32) math.Vec3 {
	top := a.Lerp(b, u)
	bot := d.Lerp(c, u)
	return top.Lerp(bot, v)
}

func bilerpVec4(a, b, c, d math.Vec4, u, v float32) math.Vec4 {
	top := lerpVec4(a, b, u)
	bot := lerpVec4(d, c, u)
	return lerpVec4(top, bot, v)
}

func bilerp(a, b, c, d, u, v float32) float32 {
	top := a + (b-a)*u
	bot := d + (c-d)*u
	return top + (bot-top)*v
}

func lerpVec2(a, b math.Vec2, t float32) math.Vec2 {
	return math.Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func lerpVec4(a, b math.Vec4, t float32) math.Vec4 {
	return math.Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}

func lerpVec4Tri(a, b, c math.Vec4, w0, w1, w2 float32) math.Vec4 {
	return math.Vec4{
		X: a.X*w0 + b.X*w1 + c.X*w2,
		Y: a.Y*w0 + b.Y*w1 + c.Y*w2,
		Z: a.Z*w0 + b.Z*w1 + c.Z*w2,
		W: a.W*w0 + b.W*w1 + c.W*w2,
	}
}

// shadingFrame builds an orthonormal tangent frame with Z = n, re-orthogonalizing
// the supplied tangent hint against n (or falling back to an arbitrary basis
// when the shape carries no tangents).
func shadingFrame(n, tangentHint math.Vec3) math.Frame3 {
	if tangentHint.LengthSqr() < 1e-12 {
		x, y := n.OrthonormalBasis()
		return math.Frame3{X: x, Y: y, Z: n}
	}
	t := tangentHint.Sub(n.Mul(n.Dot(tangentHint))).Normalize()
	b := n.Cross(t)
	return math.Frame3{X: t, Y: b, Z: n}
}

// applyNormalMap perturbs frame.Z by the tangent-space normal sampled from
// tex, rebuilding an orthonormal frame around the perturbed normal.
// bitangentSign flips Y to match the mesh's stored handedness.
func applyNormalMap(frame math.Frame3, tex *TextureRef, uv math.Vec2, bitangentSign float32) math.Frame3 {
	sample := EvalTexture(tex, uv.X, uv.Y, false, math.Vec4{X: 0.5, Y: 0.5, Z: 1, W: 1})
	tangentSpaceN := math.Vec3{X: sample.X*2 - 1, Y: sample.Y*2 - 1, Z: sample.Z*2 - 1}

	sign := bitangentSign
	if sign == 0 {
		sign = 1
	}
	bitangent := frame.Z.Cross(frame.X).Mul(sign)

	worldN := frame.X.Mul(tangentSpaceN.X).Add(bitangent.Mul(tangentSpaceN.Y)).Add(frame.Z.Mul(tangentSpaceN.Z)).Normalize()
	return shadingFrame(worldN, frame.X)
}

// resolveMaterial fills sp's Kd/Ks/Kt/Alpha/Ke from mat's coefficients and
// textures per its MaterialKind, then folds in opacity: the coefficients
// scale by Op and the remainder (1-Op) becomes transmission.
func resolveMaterial(sp *brdf.ShadingPoint, mat *Material, uv math.Vec2, vertexColor math.Vec4) {
	ke := sampleCoeff(mat.Ke, mat.KeTxt, uv, true)
	sp.Ke = math.Vec3{X: ke.X * vertexColor.X, Y: ke.Y * vertexColor.Y, Z: ke.Z * vertexColor.Z}

	var kd, ks, kt math.Vec3
	var alpha float32

	switch mat.Kind {
	case MaterialMetallicRoughness:
		base := sampleCoeff(mat.Kd, mat.KdTxt, uv, true)
		mr := sampleCoeff(mat.Ks, mat.KsTxt, uv, false)
		metallic := mr.Z
		roughness := mr.Y
		baseTinted := math.Vec3{X: base.X * vertexColor.X, Y: base.Y * vertexColor.Y, Z: base.Z * vertexColor.Z}
		dielectric := math.Vec3{X: 0.04, Y: 0.04, Z: 0.04}
		kd = baseTinted.Mul(1 - metallic)
		ks = baseTinted.Mul(metallic).Add(dielectric.Mul(1 - metallic))
		alpha = roughness * roughness
		kt = sampleCoeff(mat.Kt, mat.KtTxt, uv, true)

	case MaterialSpecularGlossiness:
		kd = sampleCoeff(mat.Kd, mat.KdTxt, uv, true)
		ks = sampleCoeff(mat.Ks, mat.KsTxt, uv, true)
		glossiness := mat.Rs
		roughness := 1 - glossiness
		alpha = roughness * roughness
		kt = sampleCoeff(mat.Kt, mat.KtTxt, uv, true)

	default: // MaterialSpecularRoughness
		kd = sampleCoeff(mat.Kd, mat.KdTxt, uv, true)
		ks = sampleCoeff(mat.Ks, mat.KsTxt, uv, true)
		roughnessSample := sampleCoeff(math.Vec3{X: mat.Rs, Y: mat.Rs, Z: mat.Rs}, mat.RsTxt, uv, false)
		alpha = roughnessSample.X * roughnessSample.X
		kt = sampleCoeff(mat.Kt, mat.KtTxt, uv, true)
	}

	op := mat.Op
	if op <= 0 {
		op = 1
	}
	sp.Kd = kd.Mul(op)
	sp.Ks = ks.Mul(op)
	sp.Alpha = alpha
	sp.Kt = kt.Mul(op).Add(math.Vec3{X: 1, Y: 1, Z: 1}.Mul(1 - op))
}

func sampleCoeff(base math.Vec3, tex *TextureRef, uv math.Vec2, asLinear bool) math.Vec3 {
	if tex == nil {
		return base
	}
	sample := EvalTexture(tex, uv.X, uv.Y, asLinear, math.Vec4{X: base.X, Y: base.Y, Z: base.Z, W: 1})
	return math.Vec3{X: sample.X, Y: sample.Y, Z: sample.Z}
}
