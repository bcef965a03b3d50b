package math

import "math"

type Vec3 struct {
	X, Y, Z float32
}

var (
	Vec3Zero  = Vec3{0, 0, 0}
	Vec3One   = Vec3{1, 1, 1}
	Vec3Up    = Vec3{0, 1, 0}
	Vec3Down  = Vec3{0, -1, 0}
	Vec3Right = Vec3{1, 0, 0}
	Vec3Left  = Vec3{-1, 0, 0}
	Vec3Front = Vec3{0, 0, 1}
	Vec3Back  = Vec3{0, 0, -1}
)

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vec3) Mul(scalar float32) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

func (v Vec3) MulVec(other Vec3) Vec3 {
	return Vec3{X: v.X * other.X, Y: v.Y * other.Y, Z: v.Z * other.Z}
}

func (v Vec3) Div(scalar float32) Vec3 {
	return v.Mul(1.0 / scalar)
}

func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

func (v Vec3) LengthSqr() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length > 0 {
		return v.Mul(1.0 / length)
	}
	return v
}

func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return v.Add(other.Sub(v).Mul(t))
}

func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{X: v.X, Y: v.Y, Z: v.Z, W: w}
}

// Reflect reflects v (pointing away from the surface) about normal n.
func (v Vec3) Reflect(n Vec3) Vec3 {
	return n.Mul(2 * n.Dot(v)).Sub(v)
}

// MaxComponent returns the largest of X, Y, Z.
func (v Vec3) MaxComponent() float32 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

// Abs returns the component-wise absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{X: absf(v.X), Y: absf(v.Y), Z: absf(v.Z)}
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

// IsFinite reports whether every component is neither NaN nor Inf.
func (v Vec3) IsFinite() bool {
	return !math.IsNaN(float64(v.X)) && !math.IsInf(float64(v.X), 0) &&
		!math.IsNaN(float64(v.Y)) && !math.IsInf(float64(v.Y), 0) &&
		!math.IsNaN(float64(v.Z)) && !math.IsInf(float64(v.Z), 0)
}

// Luminance returns the Rec. 709 relative luminance of an RGB-interpreted vector.
func (v Vec3) Luminance() float32 {
	return 0.2126*v.X + 0.7152*v.Y + 0.0722*v.Z
}

// Clamp01 clamps every component to [0, 1].
func (v Vec3) Clamp01() Vec3 {
	return Vec3{X: clamp01f(v.X), Y: clamp01f(v.Y), Z: clamp01f(v.Z)}
}

func clamp01f(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// OrthonormalBasis builds an orthonormal (tangent, bitangent) pair around the
// unit vector v, using Duff et al.'s branchless construction.
func (v Vec3) OrthonormalBasis() (Vec3, Vec3) {
	sign := float32(1)
	if v.Z < 0 {
		sign = -1
	}
	a := -1 / (sign + v.Z)
	b := v.X * v.Y * a
	t := Vec3{X: 1 + sign*v.X*v.X*a, Y: sign * b, Z: -sign * v.X}
	bt := Vec3{X: b, Y: sign + v.Y*v.Y*a, Z: -v.Y}
	return t, bt
}
