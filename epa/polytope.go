package epa

import (
	"fmt"
	"math"
	"sync"

	"github.com/akmonengine/climber/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangle of the polytope with an outward normal.
type Face struct {
	A, B, C  int
	Normal   mgl64.Vec3
	Distance float64 // distance from the origin to the face plane
}

type edge struct {
	a, b int
}

// PolytopeBuilder holds the expanding polytope; its buffers are reused through a pool.
type PolytopeBuilder struct {
	vertices []mgl64.Vec3
	faces    []Face
	horizon  []edge
}

var polytopeBuilderPool = sync.Pool{
	New: func() interface{} {
		return &PolytopeBuilder{
			vertices: make([]mgl64.Vec3, 0, polytopeInitialCapacity),
			faces:    make([]Face, 0, polytopeInitialCapacity),
			horizon:  make([]edge, 0, polytopeInitialCapacity),
		}
	},
}

// Reset prepares the builder for reuse.
func (b *PolytopeBuilder) Reset() {
	b.vertices = b.vertices[:0]
	b.faces = b.faces[:0]
	b.horizon = b.horizon[:0]
}

// BuildInitialFaces creates the four faces of the GJK tetrahedron.
func (b *PolytopeBuilder) BuildInitialFaces(simplex *gjk.Simplex) error {
	if simplex.Count != 4 {
		return fmt.Errorf("invalid simplex count: %d (expected 4)", simplex.Count)
	}

	b.vertices = append(b.vertices, simplex.Points[:4]...)
	for _, f := range [4][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 1}, {1, 3, 2}} {
		if !b.addFace(f[0], f[1], f[2]) {
			return fmt.Errorf("degenerate tetrahedron")
		}
	}

	return nil
}

// ClosestFace returns the face nearest the origin.
func (b *PolytopeBuilder) ClosestFace() (Face, bool) {
	if len(b.faces) == 0 {
		return Face{}, false
	}

	best := 0
	for i := 1; i < len(b.faces); i++ {
		if b.faces[i].Distance < b.faces[best].Distance {
			best = i
		}
	}

	return b.faces[best], true
}

// Expand adds support to the polytope, replacing every face that can see it with
// faces fanning out from the horizon. It returns false when nothing could be added.
func (b *PolytopeBuilder) Expand(support mgl64.Vec3) bool {
	for _, v := range b.vertices {
		if v.Sub(support).LenSqr() < 1e-18 {
			return false
		}
	}

	b.horizon = b.horizon[:0]
	kept := b.faces[:0]
	removed := 0
	for _, f := range b.faces {
		if f.Normal.Dot(support.Sub(b.vertices[f.A])) > 0 {
			b.toggleEdge(f.A, f.B)
			b.toggleEdge(f.B, f.C)
			b.toggleEdge(f.C, f.A)
			removed++
			continue
		}
		kept = append(kept, f)
	}
	b.faces = kept

	if removed == 0 {
		return false
	}

	b.vertices = append(b.vertices, support)
	index := len(b.vertices) - 1
	for _, e := range b.horizon {
		b.addFace(e.a, e.b, index)
	}

	return len(b.faces) > 0
}

// toggleEdge records a directed edge, cancelling it against its reverse: edges shared by
// two visible faces are interior, the survivors form the horizon.
func (b *PolytopeBuilder) toggleEdge(from, to int) {
	for i, e := range b.horizon {
		if e.a == to && e.b == from {
			b.horizon[i] = b.horizon[len(b.horizon)-1]
			b.horizon = b.horizon[:len(b.horizon)-1]
			return
		}
	}
	b.horizon = append(b.horizon, edge{a: from, b: to})
}

func (b *PolytopeBuilder) addFace(i, j, k int) bool {
	va, vb, vc := b.vertices[i], b.vertices[j], b.vertices[k]
	normal := vb.Sub(va).Cross(vc.Sub(va))
	length := normal.Len()
	if length < 1e-12 {
		return false
	}
	normal = normal.Mul(1.0 / length)

	// orient away from the interior, the vertex centroid stays inside a convex hull
	if normal.Dot(va.Sub(b.centroid())) < 0 {
		normal = normal.Mul(-1)
		j, k = k, j
	}

	b.faces = append(b.faces, Face{
		A:        i,
		B:        j,
		C:        k,
		Normal:   normal,
		Distance: math.Abs(normal.Dot(va)),
	})

	return true
}

func (b *PolytopeBuilder) centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, v := range b.vertices {
		sum = sum.Add(v)
	}
	return sum.Mul(1.0 / float64(len(b.vertices)))
}
