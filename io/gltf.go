package io

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"lumenrt/math"
	"lumenrt/scene"
)

// LoadGLTF opens a .glb or .gltf file and appends its meshes, materials,
// textures and node transforms to s as Shapes/Materials/Textures/Instances.
// PBR metallic-roughness materials map directly onto
// scene.MaterialMetallicRoughness (see scene/material.go) — no Blinn-Phong
// approximation is needed since the path tracer's metallic-roughness BRDF
// resolution already implements the glTF convention natively.
func LoadGLTF(s *scene.Scene, path string) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)

	texIDs := make([]scene.TextureID, len(doc.Textures))
	haveTex := make([]bool, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil {
			continue
		}
		img := doc.Images[*gt.Source]
		var tex *scene.Texture
		if img.BufferView != nil {
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("gltf_img_%d", *gt.Source)
			}
			tex, err = decodeImageBytes(name, raw)
			if err != nil {
				continue
			}
		} else if img.URI != "" && !img.IsEmbeddedResource() {
			tex, err = scene.LoadTexture(filepath.Join(dir, img.URI))
			if err != nil {
				continue
			}
		}
		if tex != nil {
			texIDs[i] = s.AddTexture(*tex)
			haveTex[i] = true
		}
	}
	texRef := func(idx int) *scene.TextureRef {
		if idx < 0 || idx >= len(texIDs) || !haveTex[idx] {
			return nil
		}
		return &scene.TextureRef{Tex: &s.Textures[texIDs[idx]], Linear: true}
	}

	matIDs := make([]scene.MaterialID, len(doc.Materials))
	for i, gm := range doc.Materials {
		m := scene.Material{Name: gm.Name, Kind: scene.MaterialMetallicRoughness, Op: 1}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			m.Kd = math.Vec3{X: float32(cf[0]), Y: float32(cf[1]), Z: float32(cf[2])}
			m.Op = float32(cf[3])
			if pbr.BaseColorTexture != nil {
				m.KdTxt = texRef(pbr.BaseColorTexture.Index)
			}
			roughness := float32(pbr.RoughnessFactorOrDefault())
			metallic := float32(pbr.MetallicFactorOrDefault())
			m.Ks = math.Vec3{X: 0, Y: roughness, Z: metallic}
			if pbr.MetallicRoughnessTexture != nil {
				m.KsTxt = texRef(pbr.MetallicRoughnessTexture.Index)
			}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			m.NormalTxt = texRef(*gm.NormalTexture.Index)
		}
		if gm.OcclusionTexture != nil && gm.OcclusionTexture.Index != nil {
			m.OcclusionTxt = texRef(*gm.OcclusionTexture.Index)
		}
		if ef := gm.EmissiveFactor; ef != [3]float32{} {
			m.Ke = math.Vec3{X: ef[0], Y: ef[1], Z: ef[2]}
		}
		m.DoubleSided = gm.DoubleSided
		matIDs[i] = s.AddMaterial(m)
	}
	defaultMat := s.AddMaterial(*scene.DefaultMaterial())

	meshShapeIDs := make([][]shapeMat, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			sh, err := loadGLTFPrimitive(doc, *prim)
			if err != nil {
				continue
			}
			matID := defaultMat
			if prim.Material != nil && *prim.Material < len(matIDs) {
				matID = matIDs[*prim.Material]
			}
			sh.Material = matID
			scene.ComputeTangents(&sh)
			id := s.AddShape(sh)
			meshShapeIDs[mi] = append(meshShapeIDs[mi], shapeMat{id, pi})
		}
	}

	var walk func(nodeIdx int, parent math.Frame3)
	walk = func(nodeIdx int, parent math.Frame3) {
		gn := doc.Nodes[nodeIdx]
		local := nodeLocalFrame(gn)
		world := parent.Mul(local)

		if gn.Mesh != nil && int(*gn.Mesh) < len(meshShapeIDs) {
			for _, sm := range meshShapeIDs[*gn.Mesh] {
				s.AddInstance(scene.Instance{Frame: world, Shape: sm.id})
			}
		}
		for _, c := range gn.Children {
			walk(int(c), world)
		}
	}

	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		for _, rootIdx := range doc.Scenes[*doc.Scene].Nodes {
			walk(int(rootIdx), math.FrameIdentity())
		}
	} else {
		hasParent := make([]bool, len(doc.Nodes))
		for _, gn := range doc.Nodes {
			for _, c := range gn.Children {
				hasParent[c] = true
			}
		}
		for i := range doc.Nodes {
			if !hasParent[i] {
				walk(i, math.FrameIdentity())
			}
		}
	}
	return nil
}

type shapeMat struct {
	id   scene.ShapeID
	prim int
}

// nodeLocalFrame approximates a glTF node's TRS as a rigid frame (rotation
// + translation): scale is dropped since Instance.Frame is rigid-only (see
// scene/instance.go) — acceptable for the overwhelming majority of
// path-traced assets, which author geometry at final scale.
func nodeLocalFrame(gn *gltf.Node) math.Frame3 {
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault()
	q := quatToBasis(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3]))
	q.Origin = math.Vec3{X: float32(t[0]), Y: float32(t[1]), Z: float32(t[2])}
	return q
}

func quatToBasis(x, y, z, w float32) math.Frame3 {
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z
	return math.Frame3{
		X: math.Vec3{X: 1 - 2*(yy+zz), Y: 2 * (xy + wz), Z: 2 * (xz - wy)},
		Y: math.Vec3{X: 2 * (xy - wz), Y: 1 - 2*(xx+zz), Z: 2 * (yz + wx)},
		Z: math.Vec3{X: 2 * (xz + wy), Y: 2 * (yz - wx), Z: 1 - 2*(xx+yy)},
	}
}

func loadGLTFPrimitive(doc *gltf.Document, prim gltf.Primitive) (scene.Shape, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return scene.Shape{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return scene.Shape{}, fmt.Errorf("positions: %w", err)
	}

	var normalsRaw [][3]float32
	var uvsRaw [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normalsRaw, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvsRaw, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	pos := make([]math.Vec3, len(positions))
	norm := make([]math.Vec3, len(positions))
	uv := make([]math.Vec2, len(positions))
	for i, p := range positions {
		pos[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		if i < len(normalsRaw) {
			n := normalsRaw[i]
			norm[i] = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvsRaw) {
			uv[i] = math.Vec2{X: uvsRaw[i][0], Y: uvsRaw[i][1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return scene.Shape{}, fmt.Errorf("indices: %w", err)
		}
	}
	var tris [][3]int32
	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			tris = append(tris, [3]int32{int32(indices[i]), int32(indices[i+1]), int32(indices[i+2])})
		}
	} else {
		for i := 0; i+2 < len(pos); i += 3 {
			tris = append(tris, [3]int32{int32(i), int32(i + 1), int32(i + 2)})
		}
	}

	return scene.Shape{
		Kind:      scene.ElementTriangles,
		Triangles: tris,
		Positions: pos,
		Normals:   norm,
		Texcoords: uv,
	}, nil
}

func decodeImageBytes(name string, data []byte) (*scene.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return &scene.Texture{Name: name, Width: bounds.Dx(), Height: bounds.Dy(), Pixels: rgba.Pix}, nil
}
