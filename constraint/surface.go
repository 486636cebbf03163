package constraint

import "github.com/go-gl/mathgl/mgl64"

// Up is the world up axis.
var Up = mgl64.Vec3{0, 1, 0}

// SurfaceKind classifies a hit surface by slope.
type SurfaceKind uint8

const (
	SurfaceWall SurfaceKind = iota
	SurfaceFloor
)

func (k SurfaceKind) String() string {
	if k == SurfaceFloor {
		return "floor"
	}
	return "wall"
}

// Classify labels normal as floor (or ceiling) when its up component reaches threshold.
func Classify(normal mgl64.Vec3, threshold float64) SurfaceKind {
	if normal.Dot(Up) < threshold {
		return SurfaceWall
	}
	return SurfaceFloor
}

// Project returns the component of v along axis.
func Project(v, axis mgl64.Vec3) mgl64.Vec3 {
	lenSqr := axis.LenSqr()
	if lenSqr < MinDelta*MinDelta {
		return mgl64.Vec3{}
	}
	return axis.Mul(v.Dot(axis) / lenSqr)
}

// ProjectOnPlane removes the component of v along the plane normal.
func ProjectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(Project(v, normal))
}

// Redirect reshapes a body movement that ran into a surface after travelling freeDistance
// along it.
//
// Walls keep only the movement along the normal axis, shortened to the depth reached at
// contact when the path is longer than freeDistance. Floors and ceilings slide: the movement
// is projected onto the surface plane.
func Redirect(movement, normal mgl64.Vec3, freeDistance, threshold float64) mgl64.Vec3 {
	if Classify(normal, threshold) == SurfaceFloor {
		return ProjectOnPlane(movement, normal)
	}

	along := Project(movement, normal.Mul(-1))
	if length := movement.Len(); length > freeDistance && length > 0 {
		along = along.Mul(max(freeDistance, 0) / length)
	}

	return along
}
