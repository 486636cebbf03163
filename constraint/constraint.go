// Package constraint holds the pure geometric rules the locomotion solver applies to hands
// and to the body: the reach sphere around the head and the wall/floor movement redirect.
package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MinDelta is the smallest vector length normalized as-is; shorter vectors are
	// replaced before normalization so directions never become NaN.
	MinDelta = 0.0001

	// SeparationBias pushes a contacting hand away from the head so the next cast does
	// not start on the exact surface point it resolved to.
	SeparationBias = 0.0015
)

// Forward is the substitute direction for degenerate vectors.
var Forward = mgl64.Vec3{0, 0, 1}

// SafeDirection normalizes v, substituting Forward when v is too short to have a direction.
func SafeDirection(v mgl64.Vec3) mgl64.Vec3 {
	if v.LenSqr() < MinDelta*MinDelta {
		return Forward
	}
	return v.Normalize()
}

// ClampSmall returns the zero vector for vectors shorter than threshold.
func ClampSmall(v mgl64.Vec3, threshold float64) mgl64.Vec3 {
	if v.LenSqr() < threshold*threshold {
		return mgl64.Vec3{}
	}
	return v
}
