// Package bvh builds, refits and traverses the two-level bounding volume
// hierarchy: a local tree per scene.Shape over its elements, and a
// top-level tree per scene.Scene over instance world bounds. The scene
// package itself stays free of any BVH-construction logic — it only owns
// the BVHNode/BVH storage the functions here populate.
package bvh

import "lumenrt/scene"

// Hit is the result of a successful ray or point query: which instance and
// which element of its shape were hit, barycentric weights (third weight
// implied as 1-U-V for triangles; for lines U is the parameter along the
// segment and V is unused; unused for points), and distance.
type Hit struct {
	Instance scene.InstanceID
	Element  int32
	U, V     float32
	Distance float32
}
