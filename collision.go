package climber

import (
	"math"

	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/epa"
	"github.com/akmonengine/climber/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// castTolerance is the gap at which conservative advancement reports contact
	castTolerance = 1e-6
	// castIterations bounds conservative advancement against boxes
	castIterations = 64
	// castSkin accepts a grazing approach that ran out of iterations
	castSkin = 1e-4
	// castRefineIterations bounds the exact search run when advancement stalls
	castRefineIterations = 100
)

// SphereCast sweeps a sphere from origin along direction for up to maxDistance and reports the
// nearest blocking surface. Colliders the sphere already overlaps at origin are not reported.
func (w *World) SphereCast(origin mgl64.Vec3, radius float64, direction mgl64.Vec3, maxDistance float64, filter actor.Filter) (actor.Hit, bool) {
	if maxDistance <= 0 || direction.LenSqr() < 1e-16 {
		return actor.Hit{}, false
	}
	dir := direction.Normalize()

	var best actor.Hit
	found := false
	for _, c := range w.candidates(actor.SweptSphereAABB(origin, radius, dir.Mul(maxDistance)), filter) {
		hit, ok := castAgainst(c, origin, radius, dir, maxDistance)
		if !ok {
			continue
		}
		if !found || hit.Distance < best.Distance {
			best = hit
			found = true
		}
	}

	return best, found
}

func castAgainst(c *actor.Collider, origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDistance float64) (actor.Hit, bool) {
	switch shape := c.Shape.(type) {
	case *actor.Sphere:
		return castSphere(c, shape, origin, radius, dir, maxDistance)
	case *actor.Plane:
		return castPlane(c, shape, origin, radius, dir, maxDistance)
	default:
		return castConvex(c, origin, radius, dir, maxDistance)
	}
}

func castSphere(c *actor.Collider, sphere *actor.Sphere, origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDistance float64) (actor.Hit, bool) {
	center := c.Center()
	sum := radius + sphere.Radius

	m := origin.Sub(center)
	cc := m.LenSqr() - sum*sum
	if cc < 0 {
		return actor.Hit{}, false
	}

	b := m.Dot(dir)
	if b > 0 {
		return actor.Hit{}, false
	}

	disc := b*b - cc
	if disc < 0 {
		return actor.Hit{}, false
	}

	t := -b - math.Sqrt(disc)
	if t > maxDistance {
		return actor.Hit{}, false
	}
	t = max(t, 0)

	normal := origin.Add(dir.Mul(t)).Sub(center).Mul(1.0 / sum)
	return actor.Hit{
		Point:    center.Add(normal.Mul(sphere.Radius)),
		Normal:   normal,
		Distance: t,
		Collider: c,
	}, true
}

func castPlane(c *actor.Collider, plane *actor.Plane, origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDistance float64) (actor.Hit, bool) {
	normal := c.Transform.Direction(plane.Normal)
	height := plane.SignedDistance(c.Transform.LocalPoint(origin))
	if height < radius {
		return actor.Hit{}, false
	}

	approach := normal.Dot(dir)
	if approach >= 0 {
		return actor.Hit{}, false
	}

	t := (height - radius) / -approach
	if t > maxDistance {
		return actor.Hit{}, false
	}

	center := origin.Add(dir.Mul(t))
	return actor.Hit{
		Point:    center.Sub(normal.Mul(radius)),
		Normal:   normal,
		Distance: t,
		Collider: c,
	}, true
}

// castConvex advances the sphere by the current gap to the collider until it touches;
// the gap never overestimates the free distance along any direction. A shallow approach
// shrinks the gap slowly, so a stalled advancement finishes with refineCast.
func castConvex(c *actor.Collider, origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDistance float64) (actor.Hit, bool) {
	t := 0.0
	var center, closest mgl64.Vec3
	var gap float64

	for i := 0; i < castIterations; i++ {
		center = origin.Add(dir.Mul(t))
		closest = c.ClosestPointWorld(center)
		gap = center.Sub(closest).Len() - radius

		if gap <= 0 && i == 0 {
			return actor.Hit{}, false
		}
		if gap < castTolerance {
			break
		}

		t += gap
		if t > maxDistance {
			return actor.Hit{}, false
		}
	}

	if gap >= castSkin {
		var ok bool
		if t, ok = refineCast(c, origin, radius, dir, t, maxDistance); !ok {
			return actor.Hit{}, false
		}
		center = origin.Add(dir.Mul(t))
		closest = c.ClosestPointWorld(center)
	}

	offset := center.Sub(closest)
	normal := dir.Mul(-1)
	if offset.LenSqr() > 1e-18 {
		normal = offset.Normalize()
	}

	return actor.Hit{
		Point:    closest,
		Normal:   normal,
		Distance: t,
		Collider: c,
	}, true
}

// refineCast searches [from, to] for the first contact. The gap is convex along the sweep:
// its minimum tells whether the path touches at all, and the contact lies between from and
// that minimum.
func refineCast(c *actor.Collider, origin mgl64.Vec3, radius float64, dir mgl64.Vec3, from, to float64) (float64, bool) {
	gapAt := func(t float64) float64 {
		center := origin.Add(dir.Mul(t))
		return center.Sub(c.ClosestPointWorld(center)).Len() - radius
	}

	lo, hi := from, to
	for rangeIdx := 0; rangeIdx < castRefineIterations; rangeIdx++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3
		if gapAt(m1) < gapAt(m2) {
			hi = m2
		} else {
			lo = m1
		}
	}
	deepest := (lo + hi) / 2

	minGap := gapAt(deepest)
	if minGap >= castSkin {
		return 0, false
	}
	if minGap > 0 {
		// grazing pass
		return deepest, true
	}

	lo, hi = from, deepest
	for rangeIdx := 0; rangeIdx < castRefineIterations; rangeIdx++ {
		mid := (lo + hi) / 2
		if gapAt(mid) > castTolerance {
			lo = mid
		} else {
			hi = mid
		}
	}

	return hi, true
}

// OverlapSphere returns every collider accepted by filter that intersects the sphere
func (w *World) OverlapSphere(center mgl64.Vec3, radius float64, filter actor.Filter) []*actor.Collider {
	probe := &actor.Collider{
		Transform: actor.Transform{Position: center},
		Shape:     &actor.Sphere{Radius: radius},
	}

	var result []*actor.Collider
	for _, c := range w.candidates(actor.SphereAABB(center, radius), filter) {
		if overlaps(probe, c) {
			result = append(result, c)
		}
	}

	return result
}

func overlaps(probe *actor.Collider, c *actor.Collider) bool {
	radius := probe.Shape.(*actor.Sphere).Radius
	center := probe.Center()

	switch shape := c.Shape.(type) {
	case *actor.Sphere:
		sum := radius + shape.Radius
		return center.Sub(c.Center()).LenSqr() < sum*sum
	case *actor.Plane:
		return shape.SignedDistance(c.Transform.LocalPoint(center)) < radius
	}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	return gjk.GJK(probe, c, simplex)
}

// ComputePenetration reports the direction and distance that move a, placed at poseA,
// out of b, placed at poseB. ok is false when the shapes do not overlap.
func (w *World) ComputePenetration(a *actor.Collider, poseA actor.Transform, b *actor.Collider, poseB actor.Transform) (mgl64.Vec3, float64, bool) {
	return ComputePenetration(a, poseA, b, poseB)
}

// ComputePenetration is the stateless form of World.ComputePenetration
func ComputePenetration(a *actor.Collider, poseA actor.Transform, b *actor.Collider, poseB actor.Transform) (mgl64.Vec3, float64, bool) {
	if a == nil || b == nil || a.Shape == nil || b.Shape == nil {
		return mgl64.Vec3{}, 0, false
	}

	placedA, placedB := *a, *b
	placedA.Transform = poseA
	placedB.Transform = poseB

	if direction, depth, ok, solved := penetrationAnalytic(&placedA, &placedB); solved {
		return direction, depth, ok
	}
	if direction, depth, ok, solved := penetrationAnalytic(&placedB, &placedA); solved {
		return direction.Mul(-1), depth, ok
	}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(&placedA, &placedB, simplex) {
		return mgl64.Vec3{}, 0, false
	}

	// a polytope that stopped short of converging still carries its best estimate
	penetration, _ := epa.EPA(&placedA, &placedB, simplex)
	if penetration.Depth <= 0 {
		return mgl64.Vec3{}, 0, false
	}

	return penetration.Normal.Mul(-1), penetration.Depth, true
}

// penetrationAnalytic handles a sphere against a sphere, a plane, or a box it is not buried in.
// solved is false when the pair needs the GJK/EPA path.
func penetrationAnalytic(a, b *actor.Collider) (direction mgl64.Vec3, depth float64, ok bool, solved bool) {
	sphere, isSphere := a.Shape.(*actor.Sphere)
	if !isSphere {
		return mgl64.Vec3{}, 0, false, false
	}
	center := a.Center()

	switch shape := b.Shape.(type) {
	case *actor.Sphere:
		offset := center.Sub(b.Center())
		distance := offset.Len()
		sum := sphere.Radius + shape.Radius
		if distance >= sum {
			return mgl64.Vec3{}, 0, false, true
		}
		direction = mgl64.Vec3{0, 1, 0}
		if distance > 1e-9 {
			direction = offset.Mul(1.0 / distance)
		}
		return direction, sum - distance, true, true

	case *actor.Plane:
		height := shape.SignedDistance(b.Transform.LocalPoint(center))
		if height >= sphere.Radius {
			return mgl64.Vec3{}, 0, false, true
		}
		return b.Transform.Direction(shape.Normal), sphere.Radius - height, true, true
	}

	closest := b.ClosestPointWorld(center)
	offset := center.Sub(closest)
	distance := offset.Len()
	if distance < 1e-9 {
		// center buried inside b
		return mgl64.Vec3{}, 0, false, false
	}
	if distance >= sphere.Radius {
		return mgl64.Vec3{}, 0, false, true
	}

	return offset.Mul(1.0 / distance), sphere.Radius - distance, true, true
}
