package locomotion

import "github.com/go-gl/mathgl/mgl64"

// VelocityTracker keeps the last N body velocity samples in a ring and their mean,
// updated in constant time.
type VelocityTracker struct {
	samples      []mgl64.Vec3
	index        int
	average      mgl64.Vec3
	minDeltaTime float64
}

// NewVelocityTracker creates a tracker of n zero samples. n is raised to 1.
func NewVelocityTracker(n int, minDeltaTime float64) *VelocityTracker {
	return &VelocityTracker{
		samples:      make([]mgl64.Vec3, max(1, n)),
		minDeltaTime: minDeltaTime,
	}
}

// Update records delta/dt in place of the oldest sample and returns the new sample.
// dt is floored at the tracker's minimum delta time.
func (v *VelocityTracker) Update(delta mgl64.Vec3, dt float64) mgl64.Vec3 {
	v.index = (v.index + 1) % len(v.samples)
	old := v.samples[v.index]

	sample := delta.Mul(1.0 / max(dt, v.minDeltaTime))
	v.average = v.average.Add(sample.Sub(old).Mul(1.0 / float64(len(v.samples))))
	v.samples[v.index] = sample

	return sample
}

// Average is the running mean of the samples.
func (v *VelocityTracker) Average() mgl64.Vec3 {
	return v.average
}

// Samples returns a copy of the ring, oldest first.
func (v *VelocityTracker) Samples() []mgl64.Vec3 {
	n := len(v.samples)
	out := make([]mgl64.Vec3, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, v.samples[(v.index+i)%n])
	}
	return out
}

func (v *VelocityTracker) Len() int {
	return len(v.samples)
}

// Reset zeroes every sample and the average.
func (v *VelocityTracker) Reset() {
	clear(v.samples)
	v.index = 0
	v.average = mgl64.Vec3{}
}

// LaunchVelocity scales average by forceMultiplier, capped at maxSpeed, once its magnitude is
// strictly above threshold.
func LaunchVelocity(average mgl64.Vec3, threshold, forceMultiplier, maxSpeed float64) (mgl64.Vec3, bool) {
	speed := average.Len()
	if speed <= threshold || speed == 0 {
		return mgl64.Vec3{}, false
	}

	return average.Mul(min(speed*forceMultiplier, maxSpeed) / speed), true
}
