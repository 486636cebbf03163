package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// MaxLayer is the highest layer index a collider may use.
const MaxLayer = 31

// Collider is a static piece of world geometry, or a probe shape such as a head sphere.
type Collider struct {
	ID        uuid.UUID
	Transform Transform
	Shape     ShapeInterface
	// Layer selects the bit tested against a query's layer mask
	Layer     uint8
	IsTrigger bool
}

// NewCollider creates a collider on layer 0 and computes its AABB
func NewCollider(transform Transform, shape ShapeInterface) *Collider {
	c := &Collider{
		ID:        uuid.New(),
		Transform: transform,
		Shape:     shape,
	}
	c.Shape.ComputeAABB(c.Transform)

	return c
}

// MoveTo updates the collider's transform and bounds
func (c *Collider) MoveTo(transform Transform) {
	c.Transform = transform
	c.Shape.ComputeAABB(c.Transform)
}

// Center returns the collider's world position
func (c *Collider) Center() mgl64.Vec3 {
	return c.Transform.Position
}

// SupportWorld returns the furthest world point of the collider in direction
func (c *Collider) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	localSupport := c.Shape.Support(c.Transform.LocalDirection(direction))
	return c.Transform.Point(localSupport)
}

// ClosestPointWorld returns the closest world point of the collider to point.
// Points inside the collider are returned unchanged.
func (c *Collider) ClosestPointWorld(point mgl64.Vec3) mgl64.Vec3 {
	return c.Transform.Point(c.Shape.ClosestPoint(c.Transform.LocalPoint(point)))
}

// LayerBit returns the mask bit of the collider's layer
func (c *Collider) LayerBit() uint32 {
	return 1 << (c.Layer & MaxLayer)
}
