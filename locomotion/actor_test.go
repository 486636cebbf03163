package locomotion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/constraint"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

const testDeltaTime = 1.0 / 60

func pose(x, y, z float64) *actor.Transform {
	return &actor.Transform{Position: mgl64.Vec3{x, y, z}, Rotation: mgl64.QuatIdent()}
}

func headCollider() *actor.Collider {
	return actor.NewCollider(actor.NewTransform(), &actor.Sphere{Radius: 0.1})
}

func newTestActor(t *testing.T, cfg Config, geometry Geometry) *Actor {
	t.Helper()
	a, err := New(cfg, geometry, headCollider(), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return a
}

// standingInput is a player with the head at 1.6 and both hands forward at chest height
func standingInput() Input {
	return Input{
		DeltaTime: testDeltaTime,
		Head:      *pose(0, 1.6, 0),
		LeftHand:  pose(-0.3, 1.0, 0.3),
		RightHand: pose(0.3, 1.0, 0.3),
	}
}

// gripBoth puts both hands in contact, held 0.2 further forward than the tracked poses
func gripBoth(a *Actor, in Input) {
	a.Reset(mgl64.Vec3{0, 1, 0}, in.Head, *in.LeftHand, *in.RightHand)
	a.Left.InContact, a.Right.InContact = true, true
	a.Left.Anchor = a.Left.Anchor.Add(mgl64.Vec3{0, 0, 0.2})
	a.Right.Anchor = a.Right.Anchor.Add(mgl64.Vec3{0, 0, 0.2})
}

func TestNew(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CollisionPrecision = 2

	_, err := New(cfg, &fakeGeometry{}, headCollider())
	assert.ErrorIs(t, err, ErrInvalidConfig)

	box := actor.NewCollider(actor.NewTransform(), &actor.Box{HalfExtents: mgl64.Vec3{1, 1, 1}})
	_, err = New(DefaultConfig(), &fakeGeometry{}, box)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	a, err := New(DefaultConfig(), &fakeGeometry{}, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, Left, a.Left.Side)
	assert.Equal(t, Right, a.Right.Side)
}

func TestStepSkipsMissingReferences(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	a, err := New(DefaultConfig(), &fakeGeometry{cast: hitAtEnd}, headCollider(), WithLogger(zap.New(core)))
	require.NoError(t, err)

	in := standingInput()
	a.Step(in)
	before := *a
	beforeSamples := a.Tracker().Samples()

	tests := []struct {
		name   string
		modify func(in *Input, a *Actor)
		reason string
	}{
		{"left hand", func(in *Input, a *Actor) { in.LeftHand = nil }, SkipNoLeftHand},
		{"right hand", func(in *Input, a *Actor) { in.RightHand = nil }, SkipNoRightHand},
		{"zero delta time", func(in *Input, a *Actor) { in.DeltaTime = 0 }, SkipBadDeltaTime},
		{"NaN delta time", func(in *Input, a *Actor) { in.DeltaTime = math.NaN() }, SkipBadDeltaTime},
		{"head collider", func(in *Input, a *Actor) { a.Head = nil }, SkipNoHead},
		{"geometry", func(in *Input, a *Actor) { a.Geometry = nil }, SkipNoGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := standingInput()
			head, geometry := a.Head, a.Geometry
			tt.modify(&broken, a)

			frame := a.Step(broken)
			a.Step(broken)
			a.Head, a.Geometry = head, geometry

			assert.True(t, frame.Skipped)
			assert.Equal(t, tt.reason, frame.SkipReason)
			assert.Equal(t, before.Position, a.Position)
			assert.Equal(t, before.Left, a.Left)
			assert.Equal(t, before.Right, a.Right)
			assert.Equal(t, before.Velocity, a.Velocity)
			assert.Equal(t, beforeSamples, a.Tracker().Samples())
		})
	}

	// one warning per change of reason; both delta time cases share theirs
	assert.Equal(t, 5, logs.FilterMessage("locomotion frame skipped").Len())
}

func TestStepSeedsHandsOnFirstFrame(t *testing.T) {
	a := newTestActor(t, DefaultConfig(), &fakeGeometry{})

	in := standingInput()
	in.LeftHand = pose(0, 1.6, 2.5)

	frame := a.Step(in)
	require.False(t, frame.Skipped)

	// the tracked hand sits maxReach+1 from the head, so it lands on the reach sphere
	assert.InDelta(t, a.Config.MaxArmReach, a.Left.Anchor.Sub(frame.Head).Len(), 1e-9)
	assertVec3(t, mgl64.Vec3{0, 1.6, 1.5}, a.Left.Anchor, 1e-9)
	assertVec3(t, mgl64.Vec3{0.3, 1.0, 0.3}, a.Right.Anchor, 1e-9)
	assert.False(t, a.Left.InContact)
	assert.Equal(t, a.Left.Anchor, a.Left.Follower)
}

func TestStepFreeHandsDoNotMoveTheBody(t *testing.T) {
	a := newTestActor(t, DefaultConfig(), &fakeGeometry{})
	a.Position = mgl64.Vec3{0, 1, 0}

	in := standingInput()
	a.Step(in)

	in.LeftHand = pose(-0.2, 1.2, 0.5)
	frame := a.Step(in)

	assert.Equal(t, mgl64.Vec3{}, frame.Movement)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, a.Position)
	assertVec3(t, mgl64.Vec3{-0.2, 1.2, 0.5}, a.Left.Anchor, 1e-12)
	assert.False(t, frame.Left.Hit)
}

func TestStepDualHandScale(t *testing.T) {
	movementWith := func(scale float64) mgl64.Vec3 {
		cfg := DefaultConfig()
		cfg.DualHandMovementScale = scale
		cfg.AllowVerticalMotion = false
		cfg.EnableHeadCollision = false
		cfg.EnableJumping = false

		a := newTestActor(t, cfg, &fakeGeometry{cast: hitAtEnd})
		in := standingInput()
		gripBoth(a, in)

		frame := a.Step(in)
		require.True(t, frame.Left.Hit)
		require.True(t, frame.Right.Hit)
		return frame.Movement
	}

	halved := movementWith(0.5)
	summed := movementWith(1)

	assert.Greater(t, summed.Len(), 0.3)
	assert.InDelta(t, summed.Len()/2, halved.Len(), 1e-12)
	assertVec3(t, summed.Mul(0.5), halved, 1e-12)
}

func TestStepHeldHandsPullTheBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableJumping = false
	cfg.EnableHeadCollision = false
	a := newTestActor(t, cfg, &fakeGeometry{cast: hitAtEnd})

	in := standingInput()
	gripBoth(a, in)

	frame := a.Step(in)

	// both anchors are 0.2 ahead of the hands: the body is pulled forward
	assert.InDelta(t, 0.2, frame.Movement.Z(), 0.01)
	assert.InDelta(t, 0, frame.Movement.X(), 1e-12)
	assert.InDelta(t, 1.0+frame.Movement.Y(), a.Position.Y(), 1e-12)
	assert.InDelta(t, frame.Movement.Z(), a.Position.Z(), 1e-12)
	assertVec3(t, in.Head.Position.Add(frame.Movement), frame.Head, 1e-12)
}

func TestStepVerticalMotion(t *testing.T) {
	run := func(allow bool) mgl64.Vec3 {
		cfg := DefaultConfig()
		cfg.AllowVerticalMotion = allow
		cfg.EnableHeadCollision = false
		cfg.EnableJumping = false
		a := newTestActor(t, cfg, &fakeGeometry{cast: hitAtEnd})

		in := standingInput()
		a.Reset(mgl64.Vec3{0, 1, 0}, in.Head, *in.LeftHand, *in.RightHand)
		a.Left.InContact, a.Right.InContact = true, true
		// anchors held 0.5 above the hands: pushing down lifts the body
		a.Left.Anchor = a.Left.Anchor.Add(mgl64.Vec3{0, 0.5, 0})
		a.Right.Anchor = a.Right.Anchor.Add(mgl64.Vec3{0, 0.5, 0})

		return a.Step(in).Movement
	}

	assert.InDelta(t, DefaultConfig().MaxVerticalStep, run(true).Y(), 1e-12)
	assert.Equal(t, 0.0, run(false).Y())
}

func TestStepMovementSuppressed(t *testing.T) {
	a := newTestActor(t, DefaultConfig(), &fakeGeometry{cast: hitAtEnd})
	in := standingInput()
	in.MovementSuppressed = true
	gripBoth(a, in)

	frame := a.Step(in)

	assert.Equal(t, mgl64.Vec3{}, frame.Movement)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, a.Position)
	assert.False(t, frame.Launched)
}

func TestStepLaunch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VelocitySampleCount = 1
	cfg.AllowVerticalMotion = false
	cfg.EnableHeadCollision = false
	a := newTestActor(t, cfg, &fakeGeometry{cast: hitAtEnd})

	var launches []LaunchEvent
	a.Subscribe(LAUNCH, func(event Event) {
		launches = append(launches, event.(LaunchEvent))
	})

	in := standingInput()
	gripBoth(a, in)
	a.Velocity = mgl64.Vec3{5, 5, 5}

	frame := a.Step(in)

	// the body moved about 0.2 in one frame, far above the threshold: clamped to the max speed
	require.True(t, frame.Launched)
	assert.InDelta(t, cfg.MaxJumpSpeed, a.Velocity.Len(), 1e-9)
	assert.Greater(t, a.Velocity.Z(), 0.0)
	assert.Equal(t, a.Velocity, frame.Velocity)
	require.Len(t, launches, 1)
	assert.Equal(t, a.ID, launches[0].Actor)
	assert.Equal(t, a.Velocity, launches[0].Velocity)
}

func TestStepZeroesVelocityOnContact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableJumping = false
	a := newTestActor(t, cfg, &fakeGeometry{cast: hitAtEnd})

	in := standingInput()
	a.Step(in)
	a.Velocity = mgl64.Vec3{0, -3, 0}
	a.Step(in)

	assert.Equal(t, mgl64.Vec3{}, a.Velocity)
}

func TestStepHeadOverlapCorrection(t *testing.T) {
	ceiling := &actor.Collider{Shape: &actor.Box{HalfExtents: mgl64.Vec3{1, 0.1, 1}}}
	geometry := &fakeGeometry{
		overlaps:     []*actor.Collider{ceiling},
		penetrations: map[*actor.Collider]penetration{ceiling: {direction: mgl64.Vec3{0, -1, 0}, depth: 0.03}},
	}
	a := newTestActor(t, DefaultConfig(), geometry)
	a.Position = mgl64.Vec3{0, 1, 0}

	frame := a.Step(standingInput())

	assertVec3(t, mgl64.Vec3{0, -0.03, 0}, frame.Correction, 1e-12)
	assertVec3(t, mgl64.Vec3{0, 0.97, 0}, a.Position, 1e-12)
	assertVec3(t, mgl64.Vec3{0, 1.57, 0}, a.LastHead(), 1e-12)
	assertVec3(t, a.LastHead(), a.Head.Transform.Position, 1e-12)
}

func TestStepTapCooldown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableJumping = false
	a := newTestActor(t, cfg, &fakeGeometry{cast: hitAtEnd})

	var taps []TapEvent
	a.Subscribe(TAP, func(event Event) {
		taps = append(taps, event.(TapEvent))
	})

	in := standingInput()
	in.DeltaTime = 0.1

	frame := a.Step(in)
	assert.True(t, frame.Left.Tapped)
	assert.True(t, frame.Right.Tapped)
	require.Len(t, taps, 2)
	assert.Equal(t, Left, taps[0].Side)
	assert.Equal(t, Right, taps[1].Side)

	require.NoError(t, a.ForceRelease(Left, *in.LeftHand))
	frame = a.Step(in)
	assert.True(t, a.Left.InContact)
	assert.False(t, frame.Left.Tapped, "second grab inside the cooldown")
	assert.False(t, frame.Right.Tapped, "still holding")

	require.NoError(t, a.ForceRelease(Left, *in.LeftHand))
	frame = a.Step(in)
	assert.True(t, frame.Left.Tapped)
	assert.Len(t, taps, 3)
}

func TestForceReleaseBeforeInit(t *testing.T) {
	a := newTestActor(t, DefaultConfig(), &fakeGeometry{})
	assert.ErrorIs(t, a.ForceRelease(Left, *pose(0, 0, 0)), ErrNotInitialized)
}

func TestStepUnstick(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableJumping = false
	cfg.EnableHeadCollision = false
	cfg.AllowVerticalMotion = false

	run := func(enabled bool) (Frame, *Actor, []ReleaseEvent) {
		cfg.EnableHandRelease = enabled
		// a wall holds the left hand where it is, the right hand stays free
		geometry := &fakeGeometry{cast: func(call castCall, _ int) (actor.Hit, bool) {
			if call.origin.X() >= 0 {
				return actor.Hit{}, false
			}
			return actor.Hit{Point: call.origin, Normal: call.direction.Mul(-1)}, true
		}}
		a := newTestActor(t, cfg, geometry)

		var releases []ReleaseEvent
		a.Subscribe(RELEASE, func(event Event) {
			releases = append(releases, event.(ReleaseEvent))
		})

		in := standingInput()
		in.MovementSuppressed = true
		a.Reset(mgl64.Vec3{0, 1, 0}, in.Head, *in.LeftHand, *in.RightHand)
		a.Left.InContact = true
		a.Left.Anchor = mgl64.Vec3{-0.3, 1.0, -1.2}

		return a.Step(in), a, releases
	}

	frame, a, releases := run(true)
	assert.True(t, frame.Left.Released)
	assert.False(t, a.Left.InContact)
	biased := constraint.ConstrainedPosition(*standingInput().LeftHand, a.Left.Offset, a.LastHead(), cfg.MaxArmReach, true)
	assertVec3(t, biased, a.Left.Anchor, 1e-12)
	assertVec3(t, biased, a.Left.Follower, 1e-12)
	free := a.Left.Target(*standingInput().LeftHand, a.LastHead(), cfg.MaxArmReach)
	assert.InDelta(t, constraint.SeparationBias, biased.Sub(free).Len(), 1e-12, "snap keeps the contact bias")
	require.Len(t, releases, 1)
	assert.Equal(t, Left, releases[0].Side)

	frame, a, releases = run(false)
	assert.False(t, frame.Left.Released)
	assert.True(t, a.Left.InContact)
	assert.Empty(t, releases)
}

func TestStepKeepsHandsInReach(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	geometry := &fakeGeometry{cast: func(call castCall, n int) (actor.Hit, bool) {
		// a coarse random world: some casts hit, most do not
		if rng.Intn(4) != 0 {
			return actor.Hit{}, false
		}
		return hitAtEnd(call, n)
	}}
	a := newTestActor(t, DefaultConfig(), geometry)

	random := func(scale float64) float64 { return (rng.Float64()*2 - 1) * scale }

	for rangeIdx := 0; rangeIdx < 500; rangeIdx++ {
		head := a.Position.Add(mgl64.Vec3{0, 1.6, 0})
		in := Input{
			DeltaTime: testDeltaTime,
			Head:      *pose(head.X(), head.Y(), head.Z()),
			LeftHand:  pose(head.X()+random(3), head.Y()+random(3), head.Z()+random(3)),
			RightHand: pose(head.X()+random(3), head.Y()+random(3), head.Z()+random(3)),
		}

		frame := a.Step(in)
		require.False(t, frame.Skipped)

		for _, h := range []*Hand{&a.Left, &a.Right} {
			raw := in.LeftHand
			if h.Side == Right {
				raw = in.RightHand
			}

			assert.LessOrEqual(t, h.Anchor.Sub(frame.Head).Len(), a.Config.MaxArmReach+1e-9)
			if h.InContact {
				target := h.Target(*raw, frame.Head, a.Config.MaxArmReach)
				assert.LessOrEqual(t, target.Sub(h.Anchor).Len(), a.Config.HandReleaseDistance)
			}
		}
	}
}
