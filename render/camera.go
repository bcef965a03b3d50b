package render

import (
	stdmath "math"

	"lumenrt/math"
	"lumenrt/sampling"
	"lumenrt/scene"
)

// CameraRay generates a world-space ray through film position (px, py)
// (pixel coordinates, not necessarily integer — the caller jitters for
// antialiasing) of a width x height image, sampling the lens at (lensU,
// lensV) for depth of field when cam.Aperture > 0.
func CameraRay(cam *scene.Camera, px, py float32, width, height int, lensU, lensV float32) math.Ray {
	filmHeight := float32(2) * tanf(cam.Yfov/2)
	filmWidth := filmHeight * cam.Aspect

	sx := (px/float32(width)*2 - 1) * filmWidth / 2
	sy := (1 - py/float32(height)*2) * filmHeight / 2

	if cam.Ortho {
		origin := cam.Frame.TransformPoint(math.Vec3{X: sx, Y: sy, Z: 0})
		dir := cam.Frame.TransformVector(math.Vec3{X: 0, Y: 0, Z: -1})
		return math.NewRay(origin, dir)
	}

	localDir := math.Vec3{X: sx, Y: sy, Z: -1}

	if cam.Aperture <= 0 {
		origin := cam.Frame.Origin
		dir := cam.Frame.TransformVector(localDir).Normalize()
		return math.NewRay(origin, dir)
	}

	focus := cam.Focus
	if focus <= 0 {
		focus = 1
	}
	t := focus / -localDir.Z
	focalPoint := localDir.Mul(t)

	lx, ly := sampling.UniformDisk(lensU, lensV)
	lensLocal := math.Vec3{X: lx * cam.Aperture, Y: ly * cam.Aperture, Z: 0}

	origin := cam.Frame.TransformPoint(lensLocal)
	dir := cam.Frame.TransformVector(focalPoint.Sub(lensLocal)).Normalize()
	return math.NewRay(origin, dir)
}

func tanf(f float32) float32 { return float32(stdmath.Tan(float64(f))) }
