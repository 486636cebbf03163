package locomotion

import (
	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// slideDamping scales the tangent motion left after the first contact
	slideDamping = 0.03
	// sanityRadiusScale shrinks the fallback probe relative to the primary sphere
	sanityRadiusScale = 0.5
)

// ResolveHandMove sweeps a hand sphere of radius from start along delta.
//
// On contact the hand is placed radius away from the hit surface, then slides a damped
// fraction of the remaining motion along it. Without contact a thinner probe is swept once
// more; if it hits, the hand is held at start. Otherwise end is start+delta.
func ResolveHandMove(geometry Geometry, filter actor.Filter, start, delta mgl64.Vec3, radius, precision float64) (bool, mgl64.Vec3) {
	direction := constraint.SafeDirection(delta)
	length := delta.Len()

	castRadius := radius * precision
	hit, ok := geometry.SphereCast(start, castRadius, direction, length+radius*(1-precision), filter)
	if !ok {
		sanityRadius := castRadius * sanityRadiusScale
		if _, blocked := geometry.SphereCast(start, sanityRadius, direction, length+radius-sanityRadius, filter); blocked {
			return true, start
		}
		return false, start.Add(delta)
	}

	first := hit.Point.Add(hit.Normal.Mul(radius))

	slide := constraint.ProjectOnPlane(start.Add(delta).Sub(first), hit.Normal).Mul(slideDamping)
	slide = constraint.ClampSmall(slide, constraint.MinDelta)
	if slide == (mgl64.Vec3{}) {
		return true, first
	}

	second, ok := geometry.SphereCast(first, castRadius, slide.Normalize(), slide.Len()+radius*(1-precision), filter)
	if ok {
		return true, second.Point.Add(second.Normal.Mul(radius))
	}

	return true, first
}
