package scene

import "lumenrt/math"

// BVHNode is one entry of a densely packed BVH node array. Internal nodes
// store their two children contiguously at FirstChild/FirstChild+1; leaves
// store a run of primitive slots at [FirstPrim, FirstPrim+Count) into the
// owning BVH's Prims index-remap array. This struct is populated by package
// bvh's build/refit passes; scene only owns the storage.
type BVHNode struct {
	Bounds     math.AABB
	FirstChild int32 // internal: index of left child (right is FirstChild+1)
	FirstPrim  int32 // leaf: offset into BVH.Prims
	Count      int32 // leaf: number of primitives; 0 for internal nodes
	Axis       int8  // split axis used to order near/far child traversal
	Leaf       bool
}

// BVH is a two-level-capable tree: the same shape serves both a shape's
// local tree (primitives = element indices) and the scene's top-level tree
// (primitives = instance indices).
type BVH struct {
	Nodes []BVHNode
	Prims []int32 // sorted-primitive-slot -> original primitive id
}
