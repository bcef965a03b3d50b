// Package io loads external scene formats (Wavefront OBJ/MTL, glTF/GLB)
// into a lumenrt/scene.Scene. These are Non-goal-scoped collaborators: the
// path tracer core never parses a file itself, it only consumes the
// scene.Scene arena these loaders populate.
package io

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lumenrt/math"
	"lumenrt/scene"
)

// LoadOBJ parses a Wavefront .obj (+ referenced .mtl) file and appends its
// geometry to s as one triangle Shape per object/group, instanced at the
// identity frame.
func LoadOBJ(s *scene.Scene, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	var positions []math.Vec3
	var normals []math.Vec3
	var uvs []math.Vec2

	matNames := make(map[string]scene.MaterialID)
	defaultMat := s.AddMaterial(*scene.DefaultMaterial())

	type pending struct {
		name     string
		material scene.MaterialID
		tris     [][3]int32
		verts    []objVertex
	}
	vertexMap := map[objVertex]int32{}
	cur := pending{name: "default", material: defaultMat}
	flush := func(out *[]scene.Shape) {
		if len(cur.verts) == 0 {
			return
		}
		positions := make([]math.Vec3, len(cur.verts))
		normalsOut := make([]math.Vec3, len(cur.verts))
		uvsOut := make([]math.Vec2, len(cur.verts))
		for i, v := range cur.verts {
			positions[i] = v.p
			normalsOut[i] = v.n
			uvsOut[i] = v.uv
		}
		*out = append(*out, scene.Shape{
			Kind:      scene.ElementTriangles,
			Triangles: cur.tris,
			Positions: positions,
			Normals:   normalsOut,
			Texcoords: uvsOut,
			Material:  cur.material,
		})
	}

	var shapes []scene.Shape
	curMaterial := defaultMat

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "v":
			if len(parts) >= 4 {
				x, _ := strconv.ParseFloat(parts[1], 32)
				y, _ := strconv.ParseFloat(parts[2], 32)
				z, _ := strconv.ParseFloat(parts[3], 32)
				positions = append(positions, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})
			}
		case "vn":
			if len(parts) >= 4 {
				x, _ := strconv.ParseFloat(parts[1], 32)
				y, _ := strconv.ParseFloat(parts[2], 32)
				z, _ := strconv.ParseFloat(parts[3], 32)
				normals = append(normals, math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)})
			}
		case "vt":
			if len(parts) >= 3 {
				u, _ := strconv.ParseFloat(parts[1], 32)
				v, _ := strconv.ParseFloat(parts[2], 32)
				uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})
			}
		case "f":
			faceVerts := make([]int32, 0, len(parts)-1)
			for _, spec := range parts[1:] {
				ov := parseFaceVertex(spec, positions, normals, uvs)
				if idx, ok := vertexMap[ov]; ok {
					faceVerts = append(faceVerts, idx)
					continue
				}
				idx := int32(len(cur.verts))
				cur.verts = append(cur.verts, ov)
				vertexMap[ov] = idx
				faceVerts = append(faceVerts, idx)
			}
			for i := 2; i < len(faceVerts); i++ {
				cur.tris = append(cur.tris, [3]int32{faceVerts[0], faceVerts[i-1], faceVerts[i]})
			}

		case "o", "g":
			flush(&shapes)
			name := "unnamed"
			if len(parts) > 1 {
				name = parts[1]
			}
			cur = pending{name: name, material: curMaterial}
			vertexMap = map[objVertex]int32{}

		case "usemtl":
			if len(parts) > 1 {
				if id, ok := matNames[parts[1]]; ok {
					curMaterial = id
					cur.material = id
				}
			}

		case "mtllib":
			if len(parts) > 1 {
				mtlPath := filepath.Join(filepath.Dir(path), parts[1])
				if err := loadMTL(s, mtlPath, matNames); err != nil {
					return fmt.Errorf("mtllib %q: %w", mtlPath, err)
				}
			}
		}
	}
	flush(&shapes)
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(shapes) == 0 {
		return fmt.Errorf("no mesh data found in %q", path)
	}

	for _, sh := range shapes {
		id := s.AddShape(sh)
		s.AddInstance(scene.Instance{Frame: math.FrameIdentity(), Shape: id})
	}
	return nil
}

// loadMTL parses a Wavefront .mtl material library, adding each material to
// s and recording its name -> MaterialID in names.
func loadMTL(s *scene.Scene, path string, names map[string]scene.MaterialID) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var cur *scene.Material
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "newmtl":
			if len(parts) > 1 {
				m := scene.DefaultMaterial()
				m.Name = parts[1]
				id := s.AddMaterial(*m)
				names[parts[1]] = id
				cur = s.Material(id)
			}
		case "Kd":
			if cur != nil && len(parts) >= 4 {
				cur.Kd = parseVec3(parts[1:])
			}
		case "Ks":
			if cur != nil && len(parts) >= 4 {
				cur.Ks = parseVec3(parts[1:])
			}
		case "Ke":
			if cur != nil && len(parts) >= 4 {
				cur.Ke = parseVec3(parts[1:])
			}
		case "Ns":
			if cur != nil && len(parts) >= 2 {
				ns, _ := strconv.ParseFloat(parts[1], 32)
				r := 1 - float32(ns)/1000
				if r < 0 {
					r = 0
				}
				cur.Rs = r
			}
		case "d", "Tr":
			if cur != nil && len(parts) >= 2 {
				d, _ := strconv.ParseFloat(parts[1], 32)
				v := float32(d)
				if parts[0] == "Tr" {
					v = 1 - v
				}
				cur.Op = v
			}
		}
	}
	return scanner.Err()
}

func parseVec3(parts []string) math.Vec3 {
	x, _ := strconv.ParseFloat(parts[0], 32)
	y, _ := strconv.ParseFloat(parts[1], 32)
	z, _ := strconv.ParseFloat(parts[2], 32)
	return math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}
}

type objVertex struct {
	p  math.Vec3
	n  math.Vec3
	uv math.Vec2
}

func parseFaceVertex(spec string, positions, normals []math.Vec3, uvs []math.Vec2) objVertex {
	var v objVertex
	parts := strings.Split(spec, "/")

	if len(parts) >= 1 && parts[0] != "" {
		idx, _ := strconv.Atoi(parts[0])
		if idx < 0 {
			idx = len(positions) + idx + 1
		}
		if idx > 0 && idx <= len(positions) {
			v.p = positions[idx-1]
		}
	}
	if len(parts) >= 2 && parts[1] != "" {
		idx, _ := strconv.Atoi(parts[1])
		if idx < 0 {
			idx = len(uvs) + idx + 1
		}
		if idx > 0 && idx <= len(uvs) {
			v.uv = uvs[idx-1]
		}
	}
	if len(parts) >= 3 && parts[2] != "" {
		idx, _ := strconv.Atoi(parts[2])
		if idx < 0 {
			idx = len(normals) + idx + 1
		}
		if idx > 0 && idx <= len(normals) {
			v.n = normals[idx-1]
		}
	}
	return v
}
