package io

import (
	"os"
	"path/filepath"
	"testing"

	"lumenrt/scene"
)

const triangleOBJ = `
v -1 -1 0
v 1 -1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`

func TestLoadOBJBuildsOneTriangleShape(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	s := &scene.Scene{}
	if err := LoadOBJ(s, path); err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(s.Instances) != 1 {
		t.Fatalf("expected 1 instance, got %d", len(s.Instances))
	}
	sh := s.Shape(s.Instances[0].Shape)
	if len(sh.Triangles) != 1 {
		t.Fatalf("expected 1 triangle, got %d", len(sh.Triangles))
	}
	if len(sh.Positions) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(sh.Positions))
	}
}

func TestLoadOBJMissingFileErrors(t *testing.T) {
	s := &scene.Scene{}
	if err := LoadOBJ(s, "/nonexistent/path.obj"); err == nil {
		t.Error("expected an error loading a nonexistent file")
	}
}
