package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const (
	TAP EventType = iota
	RELEASE
	LAUNCH
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case TAP:
		return "tap"
	case RELEASE:
		return "release"
	case LAUNCH:
		return "launch"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// TapEvent is sent when a hand starts holding a surface, at most once per tap cooldown.
// Hosts play tap sounds and haptics from it.
type TapEvent struct {
	Actor uuid.UUID
	Side  Side
	Point mgl64.Vec3
}

func (e TapEvent) Type() EventType { return TAP }

// ReleaseEvent is sent when a held hand is pulled past the release distance.
type ReleaseEvent struct {
	Actor  uuid.UUID
	Side   Side
	Anchor mgl64.Vec3
}

func (e ReleaseEvent) Type() EventType { return RELEASE }

// LaunchEvent is sent when a step writes the jump velocity.
type LaunchEvent struct {
	Actor    uuid.UUID
	Velocity mgl64.Vec3
}

func (e LaunchEvent) Type() EventType { return LAUNCH }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers what happens during a step and hands it to listeners once the step is done
type Events struct {
	listeners map[EventType][]EventListener
	buffer    []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 8),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
