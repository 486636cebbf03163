package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// NewPose creates a transform at position with the given rotation
func NewPose(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	rotation = rotation.Normalize()
	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// Point converts a point from local space to world space
func (t Transform) Point(local mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(local).Add(t.Position)
}

// LocalPoint converts a point from world space to local space
func (t Transform) LocalPoint(world mgl64.Vec3) mgl64.Vec3 {
	return t.inverseRotation().Rotate(world.Sub(t.Position))
}

// Direction rotates a local direction into world space
func (t Transform) Direction(local mgl64.Vec3) mgl64.Vec3 {
	return t.rotation().Rotate(local)
}

// LocalDirection rotates a world direction into local space
func (t Transform) LocalDirection(world mgl64.Vec3) mgl64.Vec3 {
	return t.inverseRotation().Rotate(world)
}

// A zero Quat is what a struct literal without Rotation gives; treat it as identity.
func (t Transform) rotation() mgl64.Quat {
	if t.Rotation.W == 0 && t.Rotation.V.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return t.Rotation
}

func (t Transform) inverseRotation() mgl64.Quat {
	if t.InverseRotation.W == 0 && t.InverseRotation.V.LenSqr() == 0 {
		return t.rotation().Inverse()
	}
	return t.InverseRotation
}
