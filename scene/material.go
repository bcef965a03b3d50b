package scene

import "lumenrt/math"

// MaterialKind tags which coefficient model a Material uses to resolve into
// a runtime BRDF, replacing the source's inheritance-lite material variants
// with an explicit switchable tag.
type MaterialKind int

const (
	MaterialSpecularRoughness MaterialKind = iota
	MaterialMetallicRoughness
	MaterialSpecularGlossiness
)

// Material holds the scene-model surface description: coefficients, their
// optional texture modulation, and shading flags. It is read-only once the
// scene finishes loading; eval_shape_point resolves it into a runtime BRDF.
type Material struct {
	Name string
	Kind MaterialKind

	Ke math.Vec3 // emission
	Kd math.Vec3 // diffuse / base color
	Ks math.Vec3 // specular / metallic-roughness green=rough,blue=metal / glossiness
	Kt math.Vec3 // transmission
	Rs float32   // roughness (specular-roughness, specular-glossiness stores glossiness here)
	Op float32   // opacity

	KeTxt  *TextureRef
	KdTxt  *TextureRef
	KsTxt  *TextureRef
	KtTxt  *TextureRef
	RsTxt  *TextureRef
	NormalTxt *TextureRef
	OcclusionTxt *TextureRef
	BumpTxt *TextureRef
	DisplacementTxt *TextureRef

	DoubleSided bool
	AlphaCutout bool
}

// DefaultMaterial returns a mid-grey non-metal dielectric, the fallback
// used when a shape references no material.
func DefaultMaterial() *Material {
	return &Material{
		Name: "default",
		Kind: MaterialSpecularRoughness,
		Kd:   math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
		Ks:   math.Vec3{X: 0.04, Y: 0.04, Z: 0.04},
		Rs:   0.5,
		Op:   1,
	}
}

// NewMetallicRoughnessMaterial builds a glTF-convention PBR material. Ks
// stores roughness in Y and metalness in Z, matching the Material.Ks doc
// comment and eval_shape_point's resolution.
func NewMetallicRoughnessMaterial(name string, baseColor math.Vec3, metallic, roughness float32) *Material {
	return &Material{
		Name: name,
		Kind: MaterialMetallicRoughness,
		Kd:   baseColor,
		Ks:   math.Vec3{X: 0, Y: roughness, Z: metallic},
		Op:   1,
	}
}
