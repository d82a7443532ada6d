package engine

import (
	"fmt"

	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/vmath"
)

// EventType identifies what happened during a frame
type EventType uint8

const (
	// EventSpawned: entity inserted | Handle: new entity
	EventSpawned EventType = iota
	// EventDestroyed: entity marked for destruction | Handle: destroyed entity
	EventDestroyed
	// EventFired: projectile spawned | Handle: projectile, Other: shooter
	EventFired
	// EventHit: projectile blocked | Handle: projectile, Other: first body hit (may be zero)
	EventHit
	// EventDamaged: health reduced | Handle: target, Other: projectile, Amount: damage
	EventDamaged
	// EventExpired: projectile lifetime ran out | Handle: projectile
	EventExpired
)

func (t EventType) String() string {
	switch t {
	case EventSpawned:
		return "spawned"
	case EventDestroyed:
		return "destroyed"
	case EventFired:
		return "fired"
	case EventHit:
		return "hit"
	case EventDamaged:
		return "damaged"
	case EventExpired:
		return "expired"
	default:
		return fmt.Sprintf("event(%d)", uint8(t))
	}
}

// GameEvent is a value record published after each frame
type GameEvent struct {
	Type     EventType
	Frame    uint64
	Handle   core.Handle
	Other    core.Handle
	Kind     Kind
	Position vmath.Vec2
	Amount   float64
}

// EventQueueSize bounds the per-frame event backlog; power of two
const EventQueueSize = 256

const eventMask = EventQueueSize - 1

// EventQueue is a fixed ring buffer of game events
// Single-threaded: pushed during the frame, consumed once after render
// Overflow: oldest events are overwritten
type EventQueue struct {
	events [EventQueueSize]GameEvent
	head   uint64 // read index
	tail   uint64 // write index
}

func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push appends an event, dropping the oldest when full
func (q *EventQueue) Push(ev GameEvent) {
	q.events[q.tail&eventMask] = ev
	q.tail++
	if q.tail-q.head > EventQueueSize {
		q.head = q.tail - EventQueueSize
	}
}

// Consume returns pending events in FIFO order and empties the queue
func (q *EventQueue) Consume() []GameEvent {
	n := q.tail - q.head
	if n == 0 {
		return nil
	}
	out := make([]GameEvent, 0, n)
	for i := q.head; i < q.tail; i++ {
		out = append(out, q.events[i&eventMask])
	}
	q.head = q.tail
	return out
}

// Len returns the number of pending events
func (q *EventQueue) Len() int {
	return int(q.tail - q.head)
}
