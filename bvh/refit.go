package bvh

import (
	"lumenrt/math"
	"lumenrt/scene"
)

// RefitShapeBVH recomputes sh's local tree bounds bottom-up without
// changing its structure, for use after vertex positions move but the
// element count and adjacency are unchanged.
func RefitShapeBVH(sh *scene.Shape) {
	if sh.BVH == nil || len(sh.BVH.Nodes) == 0 {
		return
	}
	refitNode(sh.BVH, 0, func(elem int32) math.AABB { return elementAABB(sh, int(elem)) })
}

// RefitSceneBVH recomputes s's top-level tree bounds bottom-up, re-deriving
// each instance's world AABB from its (already refit) shape BVH root.
func RefitSceneBVH(s *scene.Scene) {
	if s.BVH == nil || len(s.BVH.Nodes) == 0 {
		return
	}
	refitNode(s.BVH, 0, func(instIdx int32) math.AABB { return s.WorldAABB(scene.InstanceID(instIdx)) })
}

func refitNode(tree *scene.BVH, nodeIdx int32, primBounds func(id int32) math.AABB) math.AABB {
	node := &tree.Nodes[nodeIdx]
	if node.Leaf {
		b := math.AABBEmpty()
		for i := int32(0); i < node.Count; i++ {
			b = b.Union(primBounds(tree.Prims[node.FirstPrim+i]))
		}
		node.Bounds = b
		return b
	}
	left := refitNode(tree, node.FirstChild, primBounds)
	right := refitNode(tree, node.FirstChild+1, primBounds)
	node.Bounds = left.Union(right)
	return node.Bounds
}
