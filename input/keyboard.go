package input

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arena/vmath"
)

// DefaultHold covers the gap between terminal key-repeat events
const DefaultHold = 150 * time.Millisecond

// Keyboard accumulates key events from the polling goroutine and yields one Intent per frame
// Terminals report presses and repeats but never releases, so a direction counts as held
// until hold elapses without a repeat
type Keyboard struct {
	mu       sync.Mutex
	hold     time.Duration
	lastSeen [actionCount]time.Time
	fire     bool
	quit     bool
	facing   vmath.Vec2
}

// NewKeyboard creates a keyboard with the given hold window, DefaultHold if non-positive
func NewKeyboard(hold time.Duration) *Keyboard {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Keyboard{hold: hold, facing: vmath.V(1, 0)}
}

// HandleEvent maps a tcell key event to an action; returns false for unbound events
func (k *Keyboard) HandleEvent(ev tcell.Event, now time.Time) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	a, ok := bind(key)
	if !ok {
		return false
	}
	k.Press(a, now)
	return true
}

func bind(ev *tcell.EventKey) (Action, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return ActionUp, true
	case tcell.KeyDown:
		return ActionDown, true
	case tcell.KeyLeft:
		return ActionLeft, true
	case tcell.KeyRight:
		return ActionRight, true
	case tcell.KeyEnter:
		return ActionFire, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, true
	case tcell.KeyRune:
		return bindRune(ev.Rune())
	}
	return 0, false
}

func bindRune(r rune) (Action, bool) {
	switch r {
	case 'w', 'W', 'k':
		return ActionUp, true
	case 's', 'S', 'j':
		return ActionDown, true
	case 'a', 'A', 'h':
		return ActionLeft, true
	case 'd', 'D', 'l':
		return ActionRight, true
	case ' ':
		return ActionFire, true
	case 'q', 'Q':
		return ActionQuit, true
	}
	return 0, false
}

// Press records an action at now
func (k *Keyboard) Press(a Action, now time.Time) {
	if a >= actionCount {
		return
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	switch a {
	case ActionFire:
		k.fire = true
	case ActionQuit:
		k.quit = true
	default:
		k.lastSeen[a] = now
		// Opposite direction cancels the held one immediately
		if opp := opposite(a); opp < actionCount {
			k.lastSeen[opp] = time.Time{}
		}
	}
}

func opposite(a Action) Action {
	switch a {
	case ActionUp:
		return ActionDown
	case ActionDown:
		return ActionUp
	case ActionLeft:
		return ActionRight
	case ActionRight:
		return ActionLeft
	}
	return actionCount
}

// Poll returns the intent for the frame starting at now and clears the fire latch
func (k *Keyboard) Poll(now time.Time) Intent {
	k.mu.Lock()
	defer k.mu.Unlock()

	var move vmath.Vec2
	if k.held(ActionUp, now) {
		move.Y -= 1
	}
	if k.held(ActionDown, now) {
		move.Y += 1
	}
	if k.held(ActionLeft, now) {
		move.X -= 1
	}
	if k.held(ActionRight, now) {
		move.X += 1
	}
	if !move.IsZero() {
		k.facing = move.Normalize()
	}

	in := Intent{Move: move, Aim: k.facing, Fire: k.fire, Quit: k.quit}
	k.fire = false
	return in
}

func (k *Keyboard) held(a Action, now time.Time) bool {
	t := k.lastSeen[a]
	return !t.IsZero() && now.Sub(t) < k.hold
}
