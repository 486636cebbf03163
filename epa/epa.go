// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA starts from the tetrahedron GJK leaves around the origin and grows it toward the
// boundary of the Minkowski difference. The face nearest the origin at convergence gives the
// minimum translation vector: its normal is the separation direction and its distance the
// penetration depth.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"errors"
	"math"

	"github.com/akmonengine/climber/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion.
	EPAMaxIterations = 64

	// EPAConvergenceTolerance is the smallest distance gain that still counts as progress.
	EPAConvergenceTolerance = 1e-4

	// NormalSnapThreshold clamps nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is the depth reported when only the centers can be used.
	DegeneratePenetrationEstimate = 0.01

	polytopeInitialCapacity = 16
)

// ErrNoConvergence is returned when the polytope stops improving before converging.
var ErrNoConvergence = errors.New("epa: failed to converge")

// Penetration describes how two overlapping shapes must separate.
// Normal points from A toward B: moving B by Normal*Depth (or A by -Normal*Depth) separates them.
type Penetration struct {
	Normal mgl64.Vec3
	Depth  float64
}

// EPA computes the penetration of two overlapping convex shapes from the simplex GJK produced.
func EPA(a, b gjk.Convex, simplex *gjk.Simplex) (Penetration, error) {
	if simplex.Count < 4 {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	var best Penetration
	for rangeIdx := 0; rangeIdx < EPAMaxIterations; rangeIdx++ {
		closest, ok := builder.ClosestFace()
		if !ok {
			break
		}
		best = Penetration{Normal: closest.Normal, Depth: closest.Distance}

		support := gjk.MinkowskiSupport(a, b, closest.Normal)
		if support.Dot(closest.Normal)-closest.Distance < EPAConvergenceTolerance {
			best.Normal = snapNormalToAxis(best.Normal)
			return best, nil
		}

		if !builder.Expand(support) {
			// the support point is already on the hull
			best.Normal = snapNormalToAxis(best.Normal)
			return best, nil
		}
	}

	if best.Normal.LenSqr() > 0 {
		best.Normal = snapNormalToAxis(best.Normal)
		return best, ErrNoConvergence
	}
	return Penetration{}, ErrNoConvergence
}

// handleDegenerateSimplex estimates the penetration when GJK stopped on a point, segment
// or flat triangle (shapes touching rather than overlapping).
func handleDegenerateSimplex(a, b gjk.Convex, simplex *gjk.Simplex) Penetration {
	if simplex.Count >= 2 {
		best := simplex.Points[0]
		for i := 1; i < simplex.Count; i++ {
			if simplex.Points[i].LenSqr() < best.LenSqr() {
				best = simplex.Points[i]
			}
		}

		depth := best.Len()
		if depth > NormalSnapThreshold {
			return Penetration{Normal: snapNormalToAxis(best.Mul(1.0 / depth)), Depth: depth}
		}
	}

	normal := b.Center().Sub(a.Center())
	length := normal.Len()
	if length < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / length)
	}

	return Penetration{Normal: normal, Depth: DegeneratePenetrationEstimate}
}

// snapNormalToAxis clamps nearly-zero components of a normal vector to exactly zero
// and renormalizes it.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length <= 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return normal.Mul(1.0 / length)
}
