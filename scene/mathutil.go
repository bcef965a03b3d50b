package scene

import stdmath "math"

func cosf(f float32) float32    { return float32(stdmath.Cos(float64(f))) }
func sinf(f float32) float32    { return float32(stdmath.Sin(float64(f))) }
func atan2f(y, x float32) float32 { return float32(stdmath.Atan2(float64(y), float64(x))) }
func acosf(f float32) float32 {
	if f < -1 {
		f = -1
	} else if f > 1 {
		f = 1
	}
	return float32(stdmath.Acos(float64(f)))
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
