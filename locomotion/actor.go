// Package locomotion moves a climbing actor from tracked hand and head poses: hands grip the
// world geometry and the body is pulled along by the difference between where the hands
// are held and where the player reaches.
package locomotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SkipNoGeometry    = "no geometry"
	SkipNoHead        = "no head collider"
	SkipNoLeftHand    = "no left hand pose"
	SkipNoRightHand   = "no right hand pose"
	SkipBadDeltaTime  = "invalid delta time"
	SkipNotSphereHead = "head collider is not a sphere"
)

// Input is what the host tracks for one frame.
type Input struct {
	DeltaTime float64
	Head      actor.Transform
	// LeftHand and RightHand are the raw tracked poses; nil skips the frame
	LeftHand  *actor.Transform
	RightHand *actor.Transform
	// MovementSuppressed stops the body from moving and from launching
	MovementSuppressed bool
}

// Frame reports what one Step did.
type Frame struct {
	Skipped    bool
	SkipReason string

	// Movement is the displacement applied from the hands, after head collision
	Movement mgl64.Vec3
	// Correction is the displacement applied by the head overlap pass
	Correction mgl64.Vec3
	Position   mgl64.Vec3
	Head       mgl64.Vec3

	Left, Right HandResult

	Launched bool
	Velocity mgl64.Vec3
}

type Option func(*Actor)

// WithLogger sets the logger used by the actor. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Actor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithID overrides the random actor ID.
func WithID(id uuid.UUID) Option {
	return func(a *Actor) {
		a.ID = id
	}
}

// Actor is one climbing body with its two hands. It is not safe for concurrent use;
// distinct actors can be stepped in parallel over a Geometry whose queries are safe for
// concurrent use, such as a climber.World.
type Actor struct {
	ID       uuid.UUID
	Config   Config
	Geometry Geometry
	// Head is the sphere collider riding on the body at the head position
	Head *actor.Collider

	// Position is the body position moved by Step
	Position mgl64.Vec3
	// Velocity is owned by the host; Step zeroes it on contact and overwrites it on launch
	Velocity mgl64.Vec3

	Left  Hand
	Right Hand

	tracker      *VelocityTracker
	lastHead     mgl64.Vec3
	lastPosition mgl64.Vec3
	time         float64
	initialized  bool
	lastSkip     string

	events Events
	logger *zap.Logger
}

// New creates an actor at the origin. The actor seeds its hands from the first frame it steps,
// or from an explicit Reset.
func New(cfg Config, geometry Geometry, head *actor.Collider, opts ...Option) (*Actor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if head != nil {
		if _, ok := head.Shape.(*actor.Sphere); !ok {
			return nil, fmt.Errorf("%w: head collider must be a sphere", ErrInvalidConfig)
		}
	}

	a := &Actor{
		ID:       uuid.New(),
		Config:   cfg,
		Geometry: geometry,
		Head:     head,
		Left:     Hand{Side: Left},
		Right:    Hand{Side: Right},
		tracker:  NewVelocityTracker(cfg.VelocitySampleCount, cfg.MinDeltaTime),
		events:   NewEvents(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Subscribe adds a listener called at the end of every step that produced eventType.
func (a *Actor) Subscribe(eventType EventType, listener EventListener) {
	a.events.Subscribe(eventType, listener)
}

// Tracker exposes the body velocity history.
func (a *Actor) Tracker() *VelocityTracker {
	return a.tracker
}

// LastHead is the head position at the end of the previous step.
func (a *Actor) LastHead() mgl64.Vec3 {
	return a.lastHead
}

// Reset places the body, seeds both hands free of contact at their constrained tracked positions
// and clears the velocity history.
func (a *Actor) Reset(position mgl64.Vec3, head actor.Transform, left, right actor.Transform) {
	a.Position = position
	a.lastPosition = position
	a.lastHead = head.Position
	a.Velocity = mgl64.Vec3{}
	a.time = 0

	a.Left.InContact = false
	a.Right.InContact = false
	a.Left.Initialize(a.Left.Target(left, head.Position, a.Config.MaxArmReach))
	a.Right.Initialize(a.Right.Target(right, head.Position, a.Config.MaxArmReach))

	if a.tracker.Len() != max(1, a.Config.VelocitySampleCount) {
		a.tracker = NewVelocityTracker(a.Config.VelocitySampleCount, a.Config.MinDeltaTime)
	}
	a.tracker.Reset()
	a.tracker.minDeltaTime = a.Config.MinDeltaTime

	a.initialized = true
}

// Step advances the actor by one frame. A frame missing a required reference is skipped and
// leaves every piece of state untouched.
func (a *Actor) Step(in Input) Frame {
	if reason := a.precondition(in); reason != "" {
		return a.skip(reason)
	}
	if a.lastSkip != "" {
		a.logger.Info("locomotion resumed", zap.Stringer("actor", a.ID))
		a.lastSkip = ""
	}
	if !a.initialized {
		a.Reset(a.Position, in.Head, *in.LeftHand, *in.RightHand)
	}

	cfg := &a.Config
	dt := in.DeltaTime
	a.time += dt
	headRadius := a.Head.Shape.(*actor.Sphere).Radius * cfg.HeadCollisionRadiusScale

	leftWasTouching, rightWasTouching := a.Left.InContact, a.Right.InContact

	leftHit, leftMove := a.handleHand(&a.Left, *in.LeftHand, dt)
	rightHit, rightMove := a.handleHand(&a.Right, *in.RightHand, dt)

	movement := leftMove.Add(rightMove)
	if (leftHit || leftWasTouching) && (rightHit || rightWasTouching) {
		movement = movement.Mul(cfg.DualHandMovementScale)
	}

	if cfg.AllowVerticalMotion {
		movement[1] = mgl64.Clamp(movement[1]*cfg.VerticalMotionScale, -cfg.MaxVerticalStep, cfg.MaxVerticalStep)
	} else {
		movement[1] = 0
	}

	if in.MovementSuppressed {
		movement = mgl64.Vec3{}
	}

	if cfg.EnableHeadCollision {
		movement, _ = ResolveHeadCollision(a.Geometry, cfg.Filter, a.lastHead, movement, headRadius, cfg.WallDotThreshold)
	}

	if movement != (mgl64.Vec3{}) {
		a.Position = a.Position.Add(movement)
	}

	head := in.Head
	head.Position = head.Position.Add(movement)

	correction := ResolveHeadOverlap(a.Geometry, cfg.Filter, a.Head, head, headRadius)
	a.Position = a.Position.Add(correction)
	head.Position = head.Position.Add(correction)
	a.Head.MoveTo(head)
	a.lastHead = head.Position

	a.finalizeHand(&a.Left, *in.LeftHand, leftHit)
	a.finalizeHand(&a.Right, *in.RightHand, rightHit)

	a.tracker.Update(a.Position.Sub(a.lastPosition), dt)
	a.lastPosition = a.Position

	frame := Frame{
		Movement:   movement,
		Correction: correction,
	}

	if cfg.EnableJumping && !in.MovementSuppressed && (leftHit || rightHit) {
		if velocity, ok := LaunchVelocity(a.tracker.Average(), cfg.JumpVelocityThreshold, cfg.JumpForceMultiplier, cfg.MaxJumpSpeed); ok {
			a.Velocity = velocity
			frame.Launched = true
			a.events.emit(LaunchEvent{Actor: a.ID, Velocity: velocity})
			a.logger.Debug("launch",
				zap.Stringer("actor", a.ID),
				zap.Float64s("velocity", velocity[:]),
			)
		}
	}

	var leftReleased, rightReleased bool
	if cfg.EnableHandRelease {
		leftReleased = a.unstick(&a.Left, *in.LeftHand)
		rightReleased = a.unstick(&a.Right, *in.RightHand)
	}

	frame.Left = a.Left.result(leftHit, leftMove)
	frame.Left.Released = leftReleased
	frame.Left.Tapped = a.tap(&a.Left, leftWasTouching)
	frame.Right = a.Right.result(rightHit, rightMove)
	frame.Right.Released = rightReleased
	frame.Right.Tapped = a.tap(&a.Right, rightWasTouching)

	frame.Position = a.Position
	frame.Head = a.lastHead
	frame.Velocity = a.Velocity

	a.events.flush()

	return frame
}

func (a *Actor) precondition(in Input) string {
	switch {
	case a.Geometry == nil:
		return SkipNoGeometry
	case a.Head == nil:
		return SkipNoHead
	case in.LeftHand == nil:
		return SkipNoLeftHand
	case in.RightHand == nil:
		return SkipNoRightHand
	case !(in.DeltaTime > 0) || math.IsInf(in.DeltaTime, 0):
		return SkipBadDeltaTime
	}
	if _, ok := a.Head.Shape.(*actor.Sphere); !ok {
		return SkipNotSphereHead
	}
	return ""
}

func (a *Actor) skip(reason string) Frame {
	if reason != a.lastSkip {
		a.logger.Warn("locomotion frame skipped",
			zap.Stringer("actor", a.ID),
			zap.String("reason", reason),
		)
		a.lastSkip = reason
	} else {
		a.logger.Debug("locomotion frame skipped", zap.String("reason", reason))
	}

	return Frame{
		Skipped:    true,
		SkipReason: reason,
		Position:   a.Position,
		Head:       a.lastHead,
		Left:       a.Left.result(false, mgl64.Vec3{}),
		Right:      a.Right.result(false, mgl64.Vec3{}),
		Velocity:   a.Velocity,
	}
}

// handleHand resolves the hand toward its target against last frame's head and returns
// the body movement it asks for. A held hand pulls the body by how far the player reached
// past the anchor; a new contact pushes it back by how far the target went through the surface.
func (a *Actor) handleHand(h *Hand, pose actor.Transform, dt float64) (bool, mgl64.Vec3) {
	cfg := &a.Config
	target := h.Target(pose, a.lastHead, cfg.MaxArmReach)

	delta := target.Sub(h.Anchor)
	if !h.InContact {
		delta = delta.Sub(constraint.Up.Mul(cfg.HandGravity * cfg.HandGravityMultiplier * dt * dt))
	}

	hit, end := ResolveHandMove(a.Geometry, cfg.Filter, h.Anchor, delta, cfg.MinCastDistance, cfg.CollisionPrecision)
	if !hit {
		return false, mgl64.Vec3{}
	}

	if cfg.ZeroVelocityOnContact {
		a.Velocity = mgl64.Vec3{}
	}

	if h.InContact {
		return true, h.Anchor.Sub(target)
	}
	return true, end.Sub(target)
}

// finalizeHand resolves the hand again against the head's final position and stores the result.
func (a *Actor) finalizeHand(h *Hand, pose actor.Transform, hitThisFrame bool) {
	cfg := &a.Config
	target := h.Target(pose, a.lastHead, cfg.MaxArmReach)

	hit, end := ResolveHandMove(a.Geometry, cfg.Filter, h.Anchor, target.Sub(h.Anchor), cfg.MinCastDistance, cfg.CollisionPrecision)
	if hit {
		h.Anchor = end
		h.InContact = true
	} else {
		h.Anchor = target
		h.InContact = hitThisFrame
	}

	h.Anchor = constraint.ClampReach(h.Anchor, a.lastHead, cfg.MaxArmReach)
	h.Follower = h.Anchor
}

// unstick lets go of a held hand once the player reached further than the release distance
// away from it.
func (a *Actor) unstick(h *Hand, pose actor.Transform) bool {
	if !h.InContact {
		return false
	}

	target := h.Target(pose, a.lastHead, a.Config.MaxArmReach)
	if target.Sub(h.Anchor).Len() <= a.Config.HandReleaseDistance {
		return false
	}

	// the anchor settles on the biased target it was tested against
	h.InContact = false
	h.Anchor = target
	h.Follower = target

	a.events.emit(ReleaseEvent{Actor: a.ID, Side: h.Side, Anchor: h.Anchor})
	a.logger.Debug("hand released",
		zap.Stringer("actor", a.ID),
		zap.Stringer("side", h.Side),
	)

	return true
}

// tap reports a rising contact edge, rate limited per hand by the tap cooldown.
func (a *Actor) tap(h *Hand, wasTouching bool) bool {
	if wasTouching || !h.InContact {
		return false
	}
	if a.time-h.lastTap < a.Config.TapCooldown {
		return false
	}

	h.lastTap = a.time
	a.events.emit(TapEvent{Actor: a.ID, Side: h.Side, Point: h.Anchor})
	a.logger.Debug("hand tap",
		zap.Stringer("actor", a.ID),
		zap.Stringer("side", h.Side),
		zap.Float64s("point", h.Anchor[:]),
	)

	return true
}

// ErrNotInitialized is returned by ForceRelease before the actor's first Reset or Step.
var ErrNotInitialized = errors.New("locomotion actor not initialized")

// ForceRelease drops the side's hand from whatever it holds and snaps it to its tracked pose.
func (a *Actor) ForceRelease(side Side, pose actor.Transform) error {
	if !a.initialized {
		return ErrNotInitialized
	}

	h := &a.Left
	if side == Right {
		h = &a.Right
	}
	h.ForceRelease(pose, a.lastHead, a.Config.MaxArmReach)

	return nil
}
