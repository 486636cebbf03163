package constraint

import (
	"github.com/akmonengine/climber/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// RawPosition applies a hand's local offset in the tracked pose's own orientation.
func RawPosition(pose actor.Transform, offset mgl64.Vec3) mgl64.Vec3 {
	return pose.Point(offset)
}

// ClampReach pulls point back onto the sphere of radius maxReach around head when it lies
// outside of it. The direction from the head is preserved.
func ClampReach(point, head mgl64.Vec3, maxReach float64) mgl64.Vec3 {
	delta := point.Sub(head)
	if delta.LenSqr() <= maxReach*maxReach {
		return point
	}
	return head.Add(SafeDirection(delta).Mul(maxReach))
}

// ConstrainedPosition is where a hand wants to be this frame: the tracked point clamped to
// the reach sphere, biased outward by SeparationBias while the hand holds a surface.
func ConstrainedPosition(pose actor.Transform, offset, head mgl64.Vec3, maxReach float64, inContact bool) mgl64.Vec3 {
	target := ClampReach(RawPosition(pose, offset), head, maxReach)

	if inContact {
		away := SafeDirection(target.Sub(head))
		target = target.Add(away.Mul(SeparationBias))
	}

	return target
}

// ReleasePosition is where a force-released hand snaps to. A hand coincident with the head
// is nudged along Forward first.
func ReleasePosition(pose actor.Transform, offset, head mgl64.Vec3, maxReach float64) mgl64.Vec3 {
	raw := RawPosition(pose, offset)

	delta := raw.Sub(head)
	if delta.LenSqr() < MinDelta {
		delta = Forward.Mul(MinDelta)
		raw = head.Add(delta)
	}

	return ClampReach(raw, head, maxReach)
}
