package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// SphereAABB returns the bounds of a sphere
func SphereAABB(center mgl64.Vec3, radius float64) AABB {
	r := mgl64.Vec3{radius, radius, radius}
	return AABB{Min: center.Sub(r), Max: center.Add(r)}
}

// SweptSphereAABB returns the bounds of a sphere moved from origin by motion
func SweptSphereAABB(origin mgl64.Vec3, radius float64, motion mgl64.Vec3) AABB {
	return SphereAABB(origin, radius).Union(SphereAABB(origin.Add(motion), radius))
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Union returns the smallest AABB enclosing both boxes
func (a AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{min(a.Min[0], other.Min[0]), min(a.Min[1], other.Min[1]), min(a.Min[2], other.Min[2])},
		Max: mgl64.Vec3{max(a.Max[0], other.Max[0]), max(a.Max[1], other.Max[1]), max(a.Max[2], other.Max[2])},
	}
}
