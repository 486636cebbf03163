package locomotion

import (
	"github.com/akmonengine/climber/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type castCall struct {
	origin      mgl64.Vec3
	radius      float64
	direction   mgl64.Vec3
	maxDistance float64
}

type penetration struct {
	direction mgl64.Vec3
	depth     float64
}

// fakeGeometry answers casts from a script and records every cast it received
type fakeGeometry struct {
	casts        []castCall
	cast         func(call castCall, n int) (actor.Hit, bool)
	overlaps     []*actor.Collider
	penetrations map[*actor.Collider]penetration
}

func (f *fakeGeometry) SphereCast(origin mgl64.Vec3, radius float64, direction mgl64.Vec3, maxDistance float64, filter actor.Filter) (actor.Hit, bool) {
	call := castCall{origin: origin, radius: radius, direction: direction, maxDistance: maxDistance}
	f.casts = append(f.casts, call)
	if f.cast == nil {
		return actor.Hit{}, false
	}
	return f.cast(call, len(f.casts)-1)
}

func (f *fakeGeometry) OverlapSphere(center mgl64.Vec3, radius float64, filter actor.Filter) []*actor.Collider {
	return f.overlaps
}

func (f *fakeGeometry) ComputePenetration(a *actor.Collider, poseA actor.Transform, b *actor.Collider, poseB actor.Transform) (mgl64.Vec3, float64, bool) {
	p, ok := f.penetrations[b]
	return p.direction, p.depth, ok
}

// hitAtEnd blocks every cast at the end of its sweep, facing back along it
func hitAtEnd(call castCall, _ int) (actor.Hit, bool) {
	return actor.Hit{
		Point:    call.origin.Add(call.direction.Mul(call.maxDistance)),
		Normal:   call.direction.Mul(-1),
		Distance: call.maxDistance,
	}, true
}

// script answers the nth cast with hits[n], missing once the script runs out
func script(hits ...*actor.Hit) func(castCall, int) (actor.Hit, bool) {
	return func(_ castCall, n int) (actor.Hit, bool) {
		if n >= len(hits) || hits[n] == nil {
			return actor.Hit{}, false
		}
		return *hits[n], true
	}
}
