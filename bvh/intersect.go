package bvh

import (
	"lumenrt/math"
	"lumenrt/scene"
)

const rayStackDepth = 64
const pointStackDepth = 128

// IntersectRay finds the closest (or, with earlyExit, any) hit between r
// and the scene's instances, transforming the ray into each candidate
// instance's local frame before testing its shape's local BVH.
func IntersectRay(s *scene.Scene, r math.Ray, earlyExit bool) (Hit, bool) {
	if s.BVH == nil || len(s.BVH.Nodes) == 0 {
		return Hit{}, false
	}

	var best Hit
	found := false
	ray := r

	var stack [rayStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := s.BVH.Nodes[nodeIdx]
		if !slabTest(node.Bounds, ray) {
			continue
		}
		if node.Leaf {
			for i := int32(0); i < node.Count; i++ {
				instIdx := s.BVH.Prims[node.FirstPrim+i]
				inst := s.Instances[instIdx]
				sh := s.Shape(inst.Shape)
				if sh == nil || sh.BVH == nil {
					continue
				}
				localRay := math.TransformRay(ray, inst.Frame)
				if h, ok := intersectShapeBVH(sh, localRay, earlyExit); ok {
					best = Hit{Instance: scene.InstanceID(instIdx), Element: h.Element, U: h.U, V: h.V, Distance: h.Distance}
					found = true
					if earlyExit {
						return best, true
					}
					ray.Tmax = h.Distance
				}
			}
			continue
		}
		near, far := nearFarChild(node, ray)
		stack[sp] = far
		sp++
		stack[sp] = near
		sp++
	}
	return best, found
}

// OverlapPoint finds the closest element to p among all instances within
// maxDist (maxDist <= 0 disables the gate), using a point-to-AABB distance
// gate instead of the slab test.
func OverlapPoint(s *scene.Scene, p math.Vec3, maxDist float32, earlyExit bool) (Hit, bool) {
	if s.BVH == nil || len(s.BVH.Nodes) == 0 {
		return Hit{}, false
	}

	var best Hit
	found := false
	bestDist := maxDist

	var stack [pointStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := s.BVH.Nodes[nodeIdx]
		if bestDist > 0 && node.Bounds.DistanceSqToPoint(p) > bestDist*bestDist {
			continue
		}
		if node.Leaf {
			for i := int32(0); i < node.Count; i++ {
				instIdx := s.BVH.Prims[node.FirstPrim+i]
				inst := s.Instances[instIdx]
				sh := s.Shape(inst.Shape)
				if sh == nil || sh.BVH == nil {
					continue
				}
				localP := inst.Frame.InverseTransformPoint(p)
				if h, ok := closestShapeBVH(sh, localP, bestDist); ok {
					best = Hit{Instance: scene.InstanceID(instIdx), Element: h.Element, U: h.U, V: h.V, Distance: h.Distance}
					found = true
					bestDist = h.Distance
					if earlyExit {
						return best, true
					}
				}
			}
			continue
		}
		stack[sp] = node.FirstChild + 1
		sp++
		stack[sp] = node.FirstChild
		sp++
	}
	return best, found
}

// intersectShapeBVH traverses sh's local tree for the closest (or first, if
// earlyExit) element hit by r.
func intersectShapeBVH(sh *scene.Shape, r math.Ray, earlyExit bool) (Hit, bool) {
	if sh.BVH == nil || len(sh.BVH.Nodes) == 0 {
		return Hit{}, false
	}
	var best Hit
	found := false
	ray := r

	var stack [rayStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := sh.BVH.Nodes[nodeIdx]
		if !slabTest(node.Bounds, ray) {
			continue
		}
		if node.Leaf {
			for i := int32(0); i < node.Count; i++ {
				elem := sh.BVH.Prims[node.FirstPrim+i]
				if t, u, v, ok := intersectElement(sh, int(elem), ray); ok {
					best = Hit{Element: elem, U: u, V: v, Distance: t}
					found = true
					if earlyExit {
						return best, true
					}
					ray.Tmax = t
				}
			}
			continue
		}
		near, far := nearFarChild(node, ray)
		stack[sp] = far
		sp++
		stack[sp] = near
		sp++
	}
	return best, found
}

func closestShapeBVH(sh *scene.Shape, p math.Vec3, maxDist float32) (Hit, bool) {
	if sh.BVH == nil || len(sh.BVH.Nodes) == 0 {
		return Hit{}, false
	}
	var best Hit
	found := false
	bestDist := maxDist

	var stack [pointStackDepth]int32
	sp := 0
	stack[sp] = 0
	sp++

	for sp > 0 {
		sp--
		nodeIdx := stack[sp]
		node := sh.BVH.Nodes[nodeIdx]
		if bestDist > 0 && node.Bounds.DistanceSqToPoint(p) > bestDist*bestDist {
			continue
		}
		if node.Leaf {
			for i := int32(0); i < node.Count; i++ {
				elem := sh.BVH.Prims[node.FirstPrim+i]
				if _, d, ok := closestPointElement(sh, int(elem), p, bestDist); ok {
					best = Hit{Element: elem, Distance: d}
					found = true
					bestDist = d
				}
			}
			continue
		}
		stack[sp] = node.FirstChild + 1
		sp++
		stack[sp] = node.FirstChild
		sp++
	}
	return best, found
}

// nearFarChild orders a node's two children so the near subtree (per the
// ray direction's sign along the split axis) is traversed first.
func nearFarChild(node scene.BVHNode, r math.Ray) (near, far int32) {
	var dirComp float32
	switch node.Axis {
	case 0:
		dirComp = r.Direction.X
	case 1:
		dirComp = r.Direction.Y
	default:
		dirComp = r.Direction.Z
	}
	if dirComp >= 0 {
		return node.FirstChild, node.FirstChild + 1
	}
	return node.FirstChild + 1, node.FirstChild
}

// slabTest is the robust AABB/ray test (Ize 2013): compute inverse
// direction once per call, and scale tmax by 1+2*ulp to avoid false misses
// at corners and with infinite/near-zero ray components.
func slabTest(b math.AABB, r math.Ray) bool {
	inv := r.InvDirection()
	tmin := r.Tmin
	tmax := r.Tmax

	t1 := (b.Min.X - r.Origin.X) * inv.X
	t2 := (b.Max.X - r.Origin.X) * inv.X
	tmin, tmax = slabAxis(tmin, tmax, t1, t2)

	t1 = (b.Min.Y - r.Origin.Y) * inv.Y
	t2 = (b.Max.Y - r.Origin.Y) * inv.Y
	tmin, tmax = slabAxis(tmin, tmax, t1, t2)

	t1 = (b.Min.Z - r.Origin.Z) * inv.Z
	t2 = (b.Max.Z - r.Origin.Z) * inv.Z
	tmin, tmax = slabAxis(tmin, tmax, t1, t2)

	return tmin <= tmax*(1+2*ulpEps)
}

const ulpEps = 1.19209290e-07 // float32 epsilon

func slabAxis(tmin, tmax, t1, t2 float32) (float32, float32) {
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > tmin {
		tmin = t1
	}
	if t2 < tmax {
		tmax = t2
	}
	return tmin, tmax
}
