package scene

import "lumenrt/math"

// ShapeID is a stable index into Scene.Shapes.
type ShapeID int32

// MaterialID is a stable index into Scene.Materials.
type MaterialID int32

// TextureID is a stable index into Scene.Textures.
type TextureID int32

// InstanceID is a stable index into Scene.Instances.
type InstanceID int32

// Instance places a Shape in the world via a rigid frame (rotation +
// translation, no scale/shear), matching the data model's "rigid frame"
// requirement so normals transform with the same frame as positions.
// Shape is referenced by stable arena index, not by pointer, so the scene
// graph stays a flat set of slices with no pointer cycles (per the source's
// instance -> shape -> material -> texture DAG).
type Instance struct {
	Frame math.Frame3
	Shape ShapeID
}
