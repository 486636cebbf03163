package locomotion

import (
	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// ResolveHeadCollision sweeps the head sphere along movement and reshapes movement against
// the first surface it meets. Walls keep only the normal axis component, floors slide.
func ResolveHeadCollision(geometry Geometry, filter actor.Filter, head, movement mgl64.Vec3, radius, wallThreshold float64) (mgl64.Vec3, bool) {
	length := movement.Len()
	if length < constraint.MinDelta {
		return movement, false
	}

	hit, ok := geometry.SphereCast(head, radius, movement.Mul(1.0/length), length, filter)
	if !ok {
		return movement, false
	}

	return constraint.Redirect(movement, hit.Normal, hit.Distance, wallThreshold), true
}

// ResolveHeadOverlap pushes the head collider, placed at pose, out of everything overlapping
// a sphere of radius around it. The returned correction is the sum of all pushes.
func ResolveHeadOverlap(geometry Geometry, filter actor.Filter, head *actor.Collider, pose actor.Transform, radius float64) mgl64.Vec3 {
	var correction mgl64.Vec3

	for _, c := range geometry.OverlapSphere(pose.Position, radius, filter) {
		if c == head {
			continue
		}

		direction, depth, ok := geometry.ComputePenetration(head, pose, c, c.Transform)
		if !ok || depth <= 0 {
			continue
		}

		push := direction.Mul(depth)
		pose.Position = pose.Position.Add(push)
		correction = correction.Add(push)
	}

	return correction
}
