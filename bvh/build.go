package bvh

import (
	"sort"

	"lumenrt/math"
	"lumenrt/scene"
)

const leafMaxCount = 4

// primInfo is the per-primitive bookkeeping used only during construction:
// its world/local AABB, centroid, and original id.
type primInfo struct {
	bounds math.AABB
	center math.Vec3
	id     int32
}

// BuildShapeBVH (re)builds sh's local tree over its element array. equalSize
// selects the balanced (nth_element-at-median) split heuristic; false uses
// the cheaper middle-of-centroid-extent partition.
func BuildShapeBVH(sh *scene.Shape, equalSize bool) {
	n := sh.ElementCount()
	infos := make([]primInfo, n)
	for i := 0; i < n; i++ {
		b := elementAABB(sh, i)
		infos[i] = primInfo{bounds: b, center: b.Center(), id: int32(i)}
	}
	sh.BVH = build(infos, equalSize)
}

// BuildSceneBVH (re)builds s's top-level tree over instance world bounds.
// Every instance's shape must already have a built BVH (BuildShapeBVH must
// run first) since the instance bound is the transformed shape-root AABB.
func BuildSceneBVH(s *scene.Scene, equalSize bool) {
	n := len(s.Instances)
	infos := make([]primInfo, n)
	for i := 0; i < n; i++ {
		b := s.WorldAABB(scene.InstanceID(i))
		infos[i] = primInfo{bounds: b, center: b.Center(), id: int32(i)}
	}
	s.BVH = build(infos, equalSize)
}

// build is the shared top-down recursive splitter: input is N primitive
// AABBs with centroids and stable ids; output is a densely packed node
// array pre-reserved to 2N and shrunk at the end, with children stored
// contiguously (left at FirstChild, right at FirstChild+1).
func build(infos []primInfo, equalSize bool) *scene.BVH {
	n := len(infos)
	if n == 0 {
		return &scene.BVH{Nodes: []scene.BVHNode{{Bounds: math.AABBEmpty(), Leaf: true}}, Prims: nil}
	}

	nodes := make([]scene.BVHNode, 0, 2*n)
	prims := make([]int32, 0, n)

	var recurse func(nodeIdx int32, lo, hi int)
	recurse = func(nodeIdx int32, lo, hi int) {
		bounds := math.AABBEmpty()
		centroidBounds := math.AABBEmpty()
		for i := lo; i < hi; i++ {
			bounds = bounds.Union(infos[i].bounds)
			centroidBounds = centroidBounds.Union(math.AABBFromPoint(infos[i].center))
		}

		count := hi - lo
		extent := centroidBounds.Extent()
		if count <= leafMaxCount || extent.MaxComponent() <= 0 {
			first := int32(len(prims))
			for i := lo; i < hi; i++ {
				prims = append(prims, infos[i].id)
			}
			nodes[nodeIdx] = scene.BVHNode{Bounds: bounds, FirstPrim: first, Count: int32(count), Leaf: true}
			return
		}

		axis := centroidBounds.LargestAxis()
		sub := infos[lo:hi]

		var mid int
		if equalSize {
			sort.Slice(sub, func(a, b int) bool { return axisOf(sub[a].center, axis) < axisOf(sub[b].center, axis) })
			mid = count / 2
		} else {
			midPoint := (axisOf(centroidBounds.Min, axis) + axisOf(centroidBounds.Max, axis)) / 2
			mid = partition(sub, axis, midPoint)
			if mid == 0 || mid == count {
				mid = count / 2 // degenerate split: fall back to median
			}
		}

		// Reserve both child slots before recursing so the right child is
		// always FirstChild+1.
		left := int32(len(nodes))
		nodes = append(nodes, scene.BVHNode{}, scene.BVHNode{})
		nodes[nodeIdx] = scene.BVHNode{Bounds: bounds, FirstChild: left, Axis: int8(axis)}
		recurse(left, lo, lo+mid)
		recurse(left+1, lo+mid, hi)
	}

	nodes = append(nodes, scene.BVHNode{})
	recurse(0, 0, n)
	nodes = append(make([]scene.BVHNode, 0, len(nodes)), nodes...)
	return &scene.BVH{Nodes: nodes, Prims: prims}
}

func partition(s []primInfo, axis int, mid float32) int {
	i, j := 0, len(s)-1
	for i <= j {
		for i <= j && axisOf(s[i].center, axis) <= mid {
			i++
		}
		for i <= j && axisOf(s[j].center, axis) > mid {
			j--
		}
		if i < j {
			s[i], s[j] = s[j], s[i]
			i++
			j--
		}
	}
	return i
}

func axisOf(v math.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
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
