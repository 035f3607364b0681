package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is a world-space pose. When Parent is set the physics system
// keeps the pose glued to the parent at LocalOffset.
type Transform struct {
	Position    mgl64.Vec3
	Rotation    mgl64.Quat
	Parent      uint64
	LocalOffset mgl64.Vec3
}

var TransformComponent = NewComponent[Transform]()
