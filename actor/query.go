package actor

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// TriggerInteraction controls whether queries report trigger colliders
type TriggerInteraction uint8

const (
	// TriggerUseGlobal defers to the backend default, which ignores triggers
	TriggerUseGlobal TriggerInteraction = iota
	TriggerIgnore
	TriggerCollide
)

func (t TriggerInteraction) String() string {
	switch t {
	case TriggerUseGlobal:
		return "use_global"
	case TriggerIgnore:
		return "ignore"
	case TriggerCollide:
		return "collide"
	}
	return fmt.Sprintf("TriggerInteraction(%d)", uint8(t))
}

// UnmarshalText parses the names returned by String
func (t *TriggerInteraction) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "use_global", "":
		*t = TriggerUseGlobal
	case "ignore":
		*t = TriggerIgnore
	case "collide":
		*t = TriggerCollide
	default:
		return fmt.Errorf("unknown trigger interaction %q", text)
	}
	return nil
}

func (t TriggerInteraction) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// AllLayers is a layer mask accepting every layer
const AllLayers uint32 = 0xFFFFFFFF

// Filter selects which colliders a geometry query may report
type Filter struct {
	LayerMask uint32             `yaml:"layer_mask"`
	Triggers  TriggerInteraction `yaml:"trigger_interaction"`
}

// Accepts reports whether the filter lets the collider through
func (f Filter) Accepts(c *Collider) bool {
	if c == nil || c.Shape == nil {
		return false
	}
	if f.LayerMask&c.LayerBit() == 0 {
		return false
	}
	if c.IsTrigger && f.Triggers != TriggerCollide {
		return false
	}
	return true
}

// Hit is the nearest blocking surface found by a shape cast
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Collider *Collider
}
