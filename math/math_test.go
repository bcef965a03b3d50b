package math

import (
	"math"
	"testing"
)

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	// Addition
	result := v1.Add(v2)
	expected := NewVec3(5, 7, 9)
	if result != expected {
		t.Errorf("Add: expected %v, got %v", expected, result)
	}

	// Subtraction
	result = v2.Sub(v1)
	expected = NewVec3(3, 3, 3)
	if result != expected {
		t.Errorf("Sub: expected %v, got %v", expected, result)
	}

	// Scalar multiplication
	result = v1.Mul(2)
	expected = NewVec3(2, 4, 6)
	if result != expected {
		t.Errorf("Mul: expected %v, got %v", expected, result)
	}

	// Dot product
	dot := v1.Dot(v2)
	expectedDot := float32(32) // 1*4 + 2*5 + 3*6
	if dot != expectedDot {
		t.Errorf("Dot: expected %v, got %v", expectedDot, dot)
	}

	// Cross product (Right x Up = Front in right-handed system)
	cross := Vec3Right.Cross(Vec3Up)
	if cross != Vec3Front {
		t.Errorf("Cross: expected %v, got %v", Vec3Front, cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	normalized := v.Normalize()
	expected := NewVec3(1, 0, 0)

	if normalized != expected {
		t.Errorf("Normalize: expected %v, got %v", expected, normalized)
	}

	// Check length is 1
	length := normalized.Length()
	if math.Abs(float64(length-1)) > 0.0001 {
		t.Errorf("Normalize: expected length 1, got %v", length)
	}
}

func BenchmarkVec3Add(b *testing.B) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	for i := 0; i < b.N; i++ {
		_ = v1.Add(v2)
	}
}
