package locomotion

import (
	"errors"
	"fmt"
	"io"

	"github.com/akmonengine/climber/actor"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid locomotion config")

// Config holds the tunables read by every step. It is not modified by the actor.
type Config struct {
	// Filter selects the geometry hands and head collide with
	Filter actor.Filter `yaml:"filter"`

	MaxArmReach         float64 `yaml:"max_arm_reach"`
	HandReleaseDistance float64 `yaml:"hand_release_distance"`
	EnableHandRelease   bool    `yaml:"enable_hand_release"`

	HandGravity           float64 `yaml:"hand_gravity"`
	HandGravityMultiplier float64 `yaml:"hand_gravity_multiplier"`
	ZeroVelocityOnContact bool    `yaml:"zero_velocity_on_contact"`

	VelocitySampleCount   int     `yaml:"velocity_sample_count"`
	JumpVelocityThreshold float64 `yaml:"jump_velocity_threshold"`
	MaxJumpSpeed          float64 `yaml:"max_jump_speed"`
	JumpForceMultiplier   float64 `yaml:"jump_force_multiplier"`
	EnableJumping         bool    `yaml:"enable_jumping"`

	DualHandMovementScale float64 `yaml:"dual_hand_movement_scale"`

	EnableHeadCollision      bool    `yaml:"enable_head_collision"`
	HeadCollisionRadiusScale float64 `yaml:"head_collision_radius_scale"`

	// MinCastDistance is the radius of the sphere swept for each hand
	MinCastDistance float64 `yaml:"min_cast_distance"`
	// CollisionPrecision shrinks the swept hand sphere, in [0.9, 1]
	CollisionPrecision float64 `yaml:"collision_precision"`
	MinDeltaTime       float64 `yaml:"min_delta_time"`
	// WallDotThreshold splits walls from floors on dot(normal, up)
	WallDotThreshold float64 `yaml:"wall_dot_threshold"`

	AllowVerticalMotion bool    `yaml:"allow_vertical_motion"`
	VerticalMotionScale float64 `yaml:"vertical_motion_scale"`
	MaxVerticalStep     float64 `yaml:"max_vertical_step"`

	// TapCooldown is the minimum time in seconds between two taps of the same hand
	TapCooldown float64 `yaml:"tap_cooldown"`
}

// DefaultConfig returns the tuning the solver was designed around.
func DefaultConfig() Config {
	return Config{
		Filter: actor.Filter{
			LayerMask: actor.AllLayers,
			Triggers:  actor.TriggerIgnore,
		},

		MaxArmReach:         1.5,
		HandReleaseDistance: 1,
		EnableHandRelease:   true,

		HandGravity:           9.8,
		HandGravityMultiplier: 2,
		ZeroVelocityOnContact: true,

		VelocitySampleCount:   10,
		JumpVelocityThreshold: 1,
		MaxJumpSpeed:          6,
		JumpForceMultiplier:   1.2,
		EnableJumping:         true,

		DualHandMovementScale: 0.5,

		EnableHeadCollision:      true,
		HeadCollisionRadiusScale: 1,

		MinCastDistance:    0.05,
		CollisionPrecision: 0.995,
		MinDeltaTime:       0.0001,
		WallDotThreshold:   0.7,

		AllowVerticalMotion: true,
		VerticalMotionScale: 0.15,
		MaxVerticalStep:     0.04,

		TapCooldown: 0.15,
	}
}

// Validate reports the first out of range value.
func (c Config) Validate() error {
	switch {
	case c.MaxArmReach <= 0:
		return fmt.Errorf("%w: max_arm_reach must be positive, got %v", ErrInvalidConfig, c.MaxArmReach)
	case c.HandReleaseDistance <= 0:
		return fmt.Errorf("%w: hand_release_distance must be positive, got %v", ErrInvalidConfig, c.HandReleaseDistance)
	case c.HandGravity < 0 || c.HandGravityMultiplier < 0:
		return fmt.Errorf("%w: hand gravity must not be negative", ErrInvalidConfig)
	case c.VelocitySampleCount < 1:
		return fmt.Errorf("%w: velocity_sample_count must be at least 1, got %d", ErrInvalidConfig, c.VelocitySampleCount)
	case c.JumpVelocityThreshold < 0 || c.MaxJumpSpeed < 0 || c.JumpForceMultiplier < 0:
		return fmt.Errorf("%w: jump parameters must not be negative", ErrInvalidConfig)
	case c.DualHandMovementScale < 0:
		return fmt.Errorf("%w: dual_hand_movement_scale must not be negative, got %v", ErrInvalidConfig, c.DualHandMovementScale)
	case c.HeadCollisionRadiusScale <= 0:
		return fmt.Errorf("%w: head_collision_radius_scale must be positive, got %v", ErrInvalidConfig, c.HeadCollisionRadiusScale)
	case c.MinCastDistance <= 0:
		return fmt.Errorf("%w: min_cast_distance must be positive, got %v", ErrInvalidConfig, c.MinCastDistance)
	case c.CollisionPrecision < 0.9 || c.CollisionPrecision > 1:
		return fmt.Errorf("%w: collision_precision must be in [0.9, 1], got %v", ErrInvalidConfig, c.CollisionPrecision)
	case c.MinDeltaTime <= 0:
		return fmt.Errorf("%w: min_delta_time must be positive, got %v", ErrInvalidConfig, c.MinDeltaTime)
	case c.VerticalMotionScale < 0 || c.MaxVerticalStep < 0:
		return fmt.Errorf("%w: vertical motion parameters must not be negative", ErrInvalidConfig)
	case c.TapCooldown < 0:
		return fmt.Errorf("%w: tap_cooldown must not be negative, got %v", ErrInvalidConfig, c.TapCooldown)
	}

	return nil
}

// LoadConfig decodes YAML over DefaultConfig, so omitted keys keep their default, and
// validates the result. Empty input yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode locomotion config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
