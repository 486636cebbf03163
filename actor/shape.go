package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypePlane:
		return "plane"
	}
	return "unknown"
}

// ShapeInterface is the interface that all collision shapes must implement.
// Support and ClosestPoint work in the shape's local space.
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// Bounded is false for shapes with an infinite extent
	Bounded() bool
	Support(direction mgl64.Vec3) mgl64.Vec3
	// ClosestPoint returns the point of the shape closest to point.
	// Points inside the shape are returned unchanged.
	ClosestPoint(point mgl64.Vec3) mgl64.Vec3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) Type() ShapeType { return ShapeTypeBox }

func (b *Box) Bounded() bool { return true }

func (b *Box) ComputeAABB(transform Transform) {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	first := true
	var lo, hi mgl64.Vec3
	for _, sx := range [2]float64{-hx, hx} {
		for _, sy := range [2]float64{-hy, hy} {
			for _, sz := range [2]float64{-hz, hz} {
				corner := transform.Point(mgl64.Vec3{sx, sy, sz})
				if first {
					lo, hi = corner, corner
					first = false
					continue
				}
				for i := 0; i < 3; i++ {
					lo[i] = math.Min(lo[i], corner[i])
					hi[i] = math.Max(hi[i], corner[i])
				}
			}
		}
	}

	b.aabb = AABB{Min: lo, Max: hi}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

func (b *Box) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(point.X(), -b.HalfExtents.X(), b.HalfExtents.X()),
		mgl64.Clamp(point.Y(), -b.HalfExtents.Y(), b.HalfExtents.Y()),
		mgl64.Clamp(point.Z(), -b.HalfExtents.Z(), b.HalfExtents.Z()),
	}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

func (s *Sphere) Bounded() bool { return true }

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	s.aabb = SphereAABB(transform.Position, s.Radius)
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.LenSqr() < 1e-16 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return direction.Normalize().Mul(s.Radius)
}

func (s *Sphere) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	if point.LenSqr() <= s.Radius*s.Radius {
		return point
	}
	return point.Normalize().Mul(s.Radius)
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal.
// Everything behind the plane counts as solid.
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	aabb     AABB
}

const (
	// planeHalfSize bounds the slab used as a support function for the plane.
	planeHalfSize = 1000.0
	// planeThickness is the depth of that slab behind the surface.
	planeThickness = 1.0
)

func (p *Plane) Type() ShapeType { return ShapeTypePlane }

func (p *Plane) Bounded() bool { return false }

func (p *Plane) ComputeAABB(transform Transform) {
	const infinity = 1e10

	normal := transform.Direction(p.Normal)
	planePoint := transform.Point(p.Normal.Mul(-p.Distance))

	lo := planePoint.Sub(normal.Mul(planeThickness))
	hi := planePoint

	for i := 0; i < 3; i++ {
		if math.Abs(normal[i]) < 1.0 {
			lo[i] = -infinity
			hi[i] = infinity
		} else if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}

	p.aabb = AABB{Min: lo, Max: hi}
}

func (p *Plane) GetAABB() AABB {
	return p.aabb
}

// Support treats the plane as a large slab lying behind its surface.
func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	tangent1, tangent2 := TangentBasis(p.Normal)
	origin := p.Normal.Mul(-p.Distance)

	point := origin
	if direction.Dot(tangent1) < 0 {
		point = point.Sub(tangent1.Mul(planeHalfSize))
	} else {
		point = point.Add(tangent1.Mul(planeHalfSize))
	}
	if direction.Dot(tangent2) < 0 {
		point = point.Sub(tangent2.Mul(planeHalfSize))
	} else {
		point = point.Add(tangent2.Mul(planeHalfSize))
	}
	if direction.Dot(p.Normal) <= 0 {
		point = point.Sub(p.Normal.Mul(planeThickness))
	}

	return point
}

// SignedDistance returns the distance of a local point above the plane surface
func (p *Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

func (p *Plane) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	d := p.SignedDistance(point)
	if d <= 0 {
		return point
	}
	return point.Sub(p.Normal.Mul(d))
}

// TangentBasis returns two unit vectors orthogonal to normal and to each other
func TangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
