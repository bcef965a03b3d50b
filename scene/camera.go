package scene

import "lumenrt/math"

// Camera is a thin-lens pinhole/orthographic camera, described by a rigid
// frame (the path tracer never needs a separate view/projection matrix
// pair — camera rays are generated directly from the frame, yfov and lens
// parameters).
type Camera struct {
	Name    string
	Frame   math.Frame3
	Yfov    float32
	Aspect  float32
	Focus   float32 // distance to the focal plane
	Aperture float32 // lens aperture radius; 0 = pinhole
	Ortho   bool
}

// NewCamera builds a pinhole camera (aperture=0) at the identity frame.
func NewCamera(yfov, aspect float32) *Camera {
	return &Camera{
		Frame:  math.FrameIdentity(),
		Yfov:   yfov,
		Aspect: aspect,
		Focus:  1,
	}
}

// LookAt repositions the camera frame to view target from eye with the
// given up hint.
func (c *Camera) LookAt(eye, target, up math.Vec3) {
	c.Frame = math.FrameLookAt(eye, target, up)
}

// OrbitCamera is a specialized camera for orbiting around a target,
// retained for the interactive viewer's navigation (not used by offline
// trace_image, which reads Camera.Frame directly).
type OrbitCamera struct {
	Camera
	Target   math.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32
}

func NewOrbitCamera(target math.Vec3, distance, yfov, aspect float32) *OrbitCamera {
	c := &OrbitCamera{Target: target, Distance: distance, Pitch: 0.3}
	c.Camera = *NewCamera(yfov, aspect)
	c.updatePosition()
	return c
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.updatePosition()
}

func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < 0.1 {
		c.Distance = 0.1
	}
	c.updatePosition()
}

func (c *OrbitCamera) updatePosition() {
	if c.Pitch > 1.5 {
		c.Pitch = 1.5
	}
	if c.Pitch < -1.5 {
		c.Pitch = -1.5
	}
	cosPitch := cosf(c.Pitch)
	sinPitch := sinf(c.Pitch)
	cosYaw := cosf(c.Yaw)
	sinYaw := sinf(c.Yaw)
	offset := math.Vec3{
		X: c.Distance * cosPitch * sinYaw,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosPitch * cosYaw,
	}
	eye := c.Target.Add(offset)
	c.LookAt(eye, c.Target, math.Vec3Up)
}
