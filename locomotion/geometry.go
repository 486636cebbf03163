package locomotion

import (
	"github.com/akmonengine/climber/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Geometry answers the collision queries the solver needs. *climber.World implements it.
type Geometry interface {
	// SphereCast sweeps a sphere and returns the nearest blocking surface, ignoring
	// colliders the sphere overlaps at origin.
	SphereCast(origin mgl64.Vec3, radius float64, direction mgl64.Vec3, maxDistance float64, filter actor.Filter) (actor.Hit, bool)
	OverlapSphere(center mgl64.Vec3, radius float64, filter actor.Filter) []*actor.Collider
	// ComputePenetration returns the direction and distance that move a out of b.
	ComputePenetration(a *actor.Collider, poseA actor.Transform, b *actor.Collider, poseB actor.Transform) (mgl64.Vec3, float64, bool)
}
