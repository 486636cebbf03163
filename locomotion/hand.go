package locomotion

import (
	"math"

	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Hand is the contact state of one tracked hand.
type Hand struct {
	Side Side
	// Offset is applied in the tracked pose's orientation
	Offset mgl64.Vec3
	// Anchor is the last resolved world position of the hand
	Anchor    mgl64.Vec3
	InContact bool
	// Follower is where the visual hand is drawn
	Follower mgl64.Vec3

	lastTap float64
}

// HandResult is what one frame did to a hand.
type HandResult struct {
	// Hit is the outcome of the first resolution against last frame's head
	Hit bool
	// Movement is the body displacement this hand asked for
	Movement  mgl64.Vec3
	Anchor    mgl64.Vec3
	InContact bool
	Tapped    bool
	Released  bool
}

// Target is the constrained position of the hand for the tracked pose and head.
func (h *Hand) Target(pose actor.Transform, head mgl64.Vec3, maxReach float64) mgl64.Vec3 {
	return constraint.ConstrainedPosition(pose, h.Offset, head, maxReach, h.InContact)
}

// Initialize places the hand at position, free of contact.
func (h *Hand) Initialize(position mgl64.Vec3) {
	h.Anchor = position
	h.Follower = position
	h.InContact = false
	h.lastTap = math.Inf(-1)
}

// ForceRelease drops any contact and snaps the hand to its tracked position, clamped to reach.
func (h *Hand) ForceRelease(pose actor.Transform, head mgl64.Vec3, maxReach float64) {
	h.Anchor = constraint.ReleasePosition(pose, h.Offset, head, maxReach)
	h.Follower = h.Anchor
	h.InContact = false
}

func (h *Hand) result(hit bool, movement mgl64.Vec3) HandResult {
	return HandResult{
		Hit:       hit,
		Movement:  movement,
		Anchor:    h.Anchor,
		InContact: h.InContact,
	}
}
