package math

// AABB is an axis-aligned bounding box. A box with Min.X > Max.X (etc.) is
// the canonical "empty" box produced by AABBEmpty, the identity of Expand
// and Union.
type AABB struct {
	Min, Max Vec3
}

const inf32 = float32(3.402823466e+38)

// AABBEmpty returns a box that Expand/Union treat as the identity element.
func AABBEmpty() AABB {
	return AABB{
		Min: Vec3{X: inf32, Y: inf32, Z: inf32},
		Max: Vec3{X: -inf32, Y: -inf32, Z: -inf32},
	}
}

// AABBFromPoint returns the degenerate box containing a single point.
func AABBFromPoint(p Vec3) AABB {
	return AABB{Min: p, Max: p}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns Max - Min.
func (b AABB) Extent() Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand grows the box (in place semantics via return value) to also contain p.
func (b AABB) Expand(p Vec3) AABB {
	return AABB{
		Min: Vec3{X: minf(b.Min.X, p.X), Y: minf(b.Min.Y, p.Y), Z: minf(b.Min.Z, p.Z)},
		Max: Vec3{X: maxf(b.Max.X, p.X), Y: maxf(b.Max.Y, p.Y), Z: maxf(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: Vec3{X: minf(a.Min.X, b.Min.X), Y: minf(a.Min.Y, b.Min.Y), Z: minf(a.Min.Z, b.Min.Z)},
		Max: Vec3{X: maxf(a.Max.X, b.Max.X), Y: maxf(a.Max.Y, b.Max.Y), Z: maxf(a.Max.Z, b.Max.Z)},
	}
}

// SurfaceArea returns the box's surface area (0 for a degenerate/empty box).
func (b AABB) SurfaceArea() float32 {
	e := b.Extent()
	if e.X < 0 || e.Y < 0 || e.Z < 0 {
		return 0
	}
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// LargestAxis returns 0, 1, or 2 for the axis (X, Y, Z) of largest extent.
func (b AABB) LargestAxis() int {
	e := b.Extent()
	axis := 0
	m := e.X
	if e.Y > m {
		axis, m = 1, e.Y
	}
	if e.Z > m {
		axis = 2
	}
	return axis
}

// Axis returns the box's min/max along the given axis (0=X, 1=Y, 2=Z).
func (b AABB) Axis(axis int) (float32, float32) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

// DistanceSqToPoint returns the squared distance from p to the nearest point
// on (or in) the box; 0 if p is inside.
func (b AABB) DistanceSqToPoint(p Vec3) float32 {
	d := float32(0)
	for axis := 0; axis < 3; axis++ {
		lo, hi := b.Axis(axis)
		var c float32
		switch axis {
		case 0:
			c = p.X
		case 1:
			c = p.Y
		default:
			c = p.Z
		}
		if c < lo {
			d += (lo - c) * (lo - c)
		} else if c > hi {
			d += (c - hi) * (c - hi)
		}
	}
	return d
}

// TransformAABB transforms a local AABB by a rigid frame, using Ericson's
// method of projecting each axis independently via the frame's rotation
// rows rather than transforming all 8 corners and re-bounding by hand.
func TransformAABB(local AABB, f Frame3) AABB {
	out := AABB{Min: f.Origin, Max: f.Origin}
	axes := [3]Vec3{f.X, f.Y, f.Z}
	lo := [3]float32{local.Min.X, local.Min.Y, local.Min.Z}
	hi := [3]float32{local.Max.X, local.Max.Y, local.Max.Z}
	for i := 0; i < 3; i++ {
		a := axes[i]
		for axis := 0; axis < 3; axis++ {
			var comp float32
			switch axis {
			case 0:
				comp = a.X
			case 1:
				comp = a.Y
			default:
				comp = a.Z
			}
			e := comp * lo[i]
			g := comp * hi[i]
			lo2, hi2 := e, g
			if e > g {
				lo2, hi2 = g, e
			}
			switch axis {
			case 0:
				out.Min.X += lo2
				out.Max.X += hi2
			case 1:
				out.Min.Y += lo2
				out.Max.Y += hi2
			default:
				out.Min.Z += lo2
				out.Max.Z += hi2
			}
		}
	}
	return out
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
