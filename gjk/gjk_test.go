package gjk

import (
	"testing"

	"github.com/akmonengine/climber/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Test helper functions

func createBox(position mgl64.Vec3, halfExtents mgl64.Vec3) *actor.Collider {
	return actor.NewCollider(
		actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
		&actor.Box{HalfExtents: halfExtents},
	)
}

func createSphere(position mgl64.Vec3, radius float64) *actor.Collider {
	return actor.NewCollider(
		actor.Transform{Position: position, Rotation: mgl64.QuatIdent()},
		&actor.Sphere{Radius: radius},
	)
}

func TestMinkowskiSupport(t *testing.T) {
	a := createSphere(mgl64.Vec3{0, 0, 0}, 1.0)
	b := createSphere(mgl64.Vec3{3, 0, 0}, 1.0)

	// max(A.x) - min(B.x) = 1 - 2
	support := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0})
	if support.X() != -1.0 {
		t.Errorf("support.X = %v, want -1", support.X())
	}
}

func TestGJK(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *actor.Collider
		expected bool
	}{
		{
			name:     "overlapping spheres",
			a:        createSphere(mgl64.Vec3{0, 0, 0}, 1),
			b:        createSphere(mgl64.Vec3{1.5, 0, 0}, 1),
			expected: true,
		},
		{
			name:     "separated spheres",
			a:        createSphere(mgl64.Vec3{0, 0, 0}, 1),
			b:        createSphere(mgl64.Vec3{2.5, 0, 0}, 1),
			expected: false,
		},
		{
			name:     "sphere inside box",
			a:        createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 2, 2}),
			b:        createSphere(mgl64.Vec3{0.5, 0.5, 0}, 0.25),
			expected: true,
		},
		{
			name:     "sphere near box corner, outside",
			a:        createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        createSphere(mgl64.Vec3{1.6, 1.6, 1.6}, 0.5),
			expected: false,
		},
		{
			name:     "overlapping boxes",
			a:        createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        createBox(mgl64.Vec3{1.5, 0.5, 0}, mgl64.Vec3{1, 1, 1}),
			expected: true,
		},
		{
			name:     "separated boxes",
			a:        createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        createBox(mgl64.Vec3{0, 3, 0}, mgl64.Vec3{1, 1, 1}),
			expected: false,
		},
		{
			name:     "same center",
			a:        createBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:        createSphere(mgl64.Vec3{0, 0, 0}, 0.5),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			simplex := SimplexPool.Get().(*Simplex)
			defer SimplexPool.Put(simplex)
			simplex.Reset()

			if got := GJK(tt.a, tt.b, simplex); got != tt.expected {
				t.Errorf("GJK() = %v, want %v", got, tt.expected)
			}
		})
	}
}
