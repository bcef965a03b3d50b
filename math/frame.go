package math

// Frame3 is a rigid coordinate frame: an orthonormal rotation (X, Y, Z axes)
// plus a translation (Origin). It is the "rigid frame" the scene model uses
// for cameras, instances, and environments — deliberately not a general
// 4x4 matrix so that instance-bounds transforms (Ericson's method) and
// normal transforms never need a matrix inverse-transpose.
type Frame3 struct {
	X, Y, Z Vec3
	Origin  Vec3
}

// FrameIdentity returns the world-axis-aligned frame at the origin.
func FrameIdentity() Frame3 {
	return Frame3{X: Vec3Right, Y: Vec3Up, Z: Vec3Front, Origin: Vec3Zero}
}

// FrameFromZ builds a right-handed frame whose Z axis is the given
// (already normalized) direction, with arbitrary but stable X/Y.
func FrameFromZ(z Vec3, origin Vec3) Frame3 {
	x, y := z.OrthonormalBasis()
	return Frame3{X: x, Y: y, Z: z, Origin: origin}
}

// TransformPoint maps a point from local into world space.
func (f Frame3) TransformPoint(p Vec3) Vec3 {
	return f.X.Mul(p.X).Add(f.Y.Mul(p.Y)).Add(f.Z.Mul(p.Z)).Add(f.Origin)
}

// TransformVector maps a vector (no translation) from local into world space.
func (f Frame3) TransformVector(v Vec3) Vec3 {
	return f.X.Mul(v.X).Add(f.Y.Mul(v.Y)).Add(f.Z.Mul(v.Z))
}

// TransformDirection is an alias of TransformVector for unit direction vectors.
func (f Frame3) TransformDirection(v Vec3) Vec3 {
	return f.TransformVector(v).Normalize()
}

// InverseTransformPoint maps a world-space point into this frame's local space.
// Valid when X, Y, Z are orthonormal (rotation, no shear/scale).
func (f Frame3) InverseTransformPoint(p Vec3) Vec3 {
	d := p.Sub(f.Origin)
	return Vec3{X: d.Dot(f.X), Y: d.Dot(f.Y), Z: d.Dot(f.Z)}
}

// InverseTransformVector maps a world-space vector into this frame's local space.
func (f Frame3) InverseTransformVector(v Vec3) Vec3 {
	return Vec3{X: v.Dot(f.X), Y: v.Dot(f.Y), Z: v.Dot(f.Z)}
}

// Mul composes two frames: the result transforms local points of `other`
// expressed in f's local space into f's parent space (f applied after other).
func (f Frame3) Mul(other Frame3) Frame3 {
	return Frame3{
		X:      f.TransformVector(other.X),
		Y:      f.TransformVector(other.Y),
		Z:      f.TransformVector(other.Z),
		Origin: f.TransformPoint(other.Origin),
	}
}

// FrameTranslation returns a frame with identity rotation and the given origin.
func FrameTranslation(origin Vec3) Frame3 {
	f := FrameIdentity()
	f.Origin = origin
	return f
}

// FrameLookAt builds a frame at eye looking toward target, with the given up hint.
func FrameLookAt(eye, target, up Vec3) Frame3 {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Frame3{X: x, Y: y, Z: z, Origin: eye}
}
