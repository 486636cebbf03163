package main

import (
	"flag"
	"math"
	"os"

	"github.com/akmonengine/climber"
	"github.com/akmonengine/climber/actor"
	"github.com/akmonengine/climber/locomotion"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// FrameDebugger is told about every step of the climb
type FrameDebugger interface {
	DebugFrame(step int, a *locomotion.Actor, frame locomotion.Frame)
	DebugEvent(event locomotion.Event)
}

// LogDebugger writes frames and events to a zap logger
type LogDebugger struct {
	logger *zap.Logger
}

func (d *LogDebugger) DebugFrame(step int, a *locomotion.Actor, frame locomotion.Frame) {
	if frame.Skipped {
		d.logger.Info("frame skipped", zap.Int("step", step), zap.String("reason", frame.SkipReason))
		return
	}

	d.logger.Info("frame",
		zap.Int("step", step),
		zap.Float64s("body", frame.Position[:]),
		zap.Float64s("movement", frame.Movement[:]),
		zap.Float64s("correction", frame.Correction[:]),
		zap.Bool("left_contact", frame.Left.InContact),
		zap.Bool("right_contact", frame.Right.InContact),
		zap.Float64("speed", a.Tracker().Average().Len()),
	)
}

func (d *LogDebugger) DebugEvent(event locomotion.Event) {
	switch e := event.(type) {
	case locomotion.TapEvent:
		d.logger.Info("tap", zap.Stringer("side", e.Side), zap.Float64s("point", e.Point[:]))
	case locomotion.ReleaseEvent:
		d.logger.Info("release", zap.Stringer("side", e.Side), zap.Float64s("anchor", e.Anchor[:]))
	case locomotion.LaunchEvent:
		d.logger.Info("launch", zap.Float64s("velocity", e.Velocity[:]))
	}
}

// SetupScene creates a floor with a climbing wall in front of the player
func SetupScene() *climber.World {
	world := climber.NewWorld(1.0, 4096)

	// Create ground plane (y=0)
	world.AddCollider(actor.NewCollider(actor.NewTransform(), &actor.Plane{
		Normal:   mgl64.Vec3{0, 1, 0},
		Distance: 0.0,
	}))

	// Wall face at z=0.5, 4 units high
	world.AddCollider(actor.NewCollider(
		actor.NewPose(mgl64.Vec3{0, 2, 0.75}, mgl64.QuatIdent()),
		&actor.Box{HalfExtents: mgl64.Vec3{3, 2, 0.25}},
	))

	// A tilted hold sticking out of the wall
	world.AddCollider(actor.NewCollider(
		actor.NewPose(mgl64.Vec3{0.4, 1.8, 0.45}, mgl64.QuatRotate(math.Pi/5, mgl64.Vec3{1, 0, 0})),
		&actor.Box{HalfExtents: mgl64.Vec3{0.15, 0.05, 0.1}},
	))

	return world
}

// ClimbWall scripts both hands reaching onto the wall and pulling down, one after the other
func ClimbWall(cfg locomotion.Config, logger *zap.Logger, debugger FrameDebugger) {
	world := SetupScene()
	head := actor.NewCollider(actor.NewTransform(), &actor.Sphere{Radius: 0.12})

	a, err := locomotion.New(cfg, world, head, locomotion.WithLogger(logger))
	if err != nil {
		logger.Fatal("create actor", zap.Error(err))
	}
	for _, eventType := range []locomotion.EventType{locomotion.TAP, locomotion.RELEASE, locomotion.LAUNCH} {
		a.Subscribe(eventType, debugger.DebugEvent)
	}

	headOffset := mgl64.Vec3{0, 1.6, 0}
	a.Position = mgl64.Vec3{0, 0, 0}

	const dt float64 = 1.0 / 72.0
	const maxSteps int = 360

	for step := 0; step < maxSteps; step++ {
		// each hand alternates a 2.5s cycle: reach up to the wall, then pull down to the hip
		phase := math.Mod(float64(step)*dt, 2.5) / 2.5
		leftY := 1.9 - 0.9*math.Abs(2*phase-1)
		rightY := 1.9 - 0.9*math.Abs(2*math.Mod(phase+0.5, 1)-1)

		body := a.Position
		frame := a.Step(locomotion.Input{
			DeltaTime: dt,
			Head:      actor.NewPose(body.Add(headOffset), mgl64.QuatIdent()),
			LeftHand:  pose(body.Add(mgl64.Vec3{-0.25, leftY, 0.48})),
			RightHand: pose(body.Add(mgl64.Vec3{0.25, rightY, 0.48})),
		})

		debugger.DebugFrame(step, a, frame)
	}

	logger.Info("climb finished",
		zap.Stringer("actor", a.ID),
		zap.Float64s("body", a.Position[:]),
		zap.Float64s("velocity", a.Velocity[:]),
	)
}

func pose(position mgl64.Vec3) *actor.Transform {
	t := actor.NewPose(position, mgl64.QuatIdent())
	return &t
}

func main() {
	configPath := flag.String("config", "", "YAML locomotion config, defaults when empty")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := locomotion.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			logger.Fatal("open config", zap.Error(err))
		}
		cfg, err = locomotion.LoadConfig(f)
		f.Close()
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}

	ClimbWall(cfg, logger, &LogDebugger{logger: logger})
}
