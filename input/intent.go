// Package input turns terminal key events into per-frame movement and action intent
package input

import "github.com/lixenwraith/arena/vmath"

// Intent is the input snapshot consumed by one frame
type Intent struct {
	Move vmath.Vec2 // desired direction, not normalized; +y is down
	Aim  vmath.Vec2 // unit facing for projectiles
	Fire bool       // fire trigger, edge-latched
	Quit bool
}

// Action is a bindable game action
type Action uint8

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionFire
	ActionQuit

	actionCount
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionFire:
		return "fire"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}
