package input

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/arena/vmath"
)

func TestPollDirections(t *testing.T) {
	start := time.Unix(1000, 0)
	tests := []struct {
		name    string
		actions []Action
		want    vmath.Vec2
	}{
		{"Nothing held", nil, vmath.Zero},
		{"Up", []Action{ActionUp}, vmath.V(0, -1)},
		{"Down right", []Action{ActionDown, ActionRight}, vmath.V(1, 1)},
		{"Opposite cancels", []Action{ActionLeft, ActionRight}, vmath.V(1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeyboard(100 * time.Millisecond)
			for _, a := range tt.actions {
				k.Press(a, start)
			}
			in := k.Poll(start.Add(10 * time.Millisecond))
			if in.Move != tt.want {
				t.Errorf("Move = %v, want %v", in.Move, tt.want)
			}
		})
	}
}

func TestHoldExpires(t *testing.T) {
	start := time.Unix(1000, 0)
	k := NewKeyboard(100 * time.Millisecond)
	k.Press(ActionLeft, start)

	if in := k.Poll(start.Add(99 * time.Millisecond)); in.Move != vmath.V(-1, 0) {
		t.Errorf("Expected left held, got %v", in.Move)
	}
	if in := k.Poll(start.Add(100 * time.Millisecond)); !in.Move.IsZero() {
		t.Errorf("Expected release after hold window, got %v", in.Move)
	}
}

func TestFireIsLatchedOnce(t *testing.T) {
	now := time.Unix(1000, 0)
	k := NewKeyboard(0)
	k.Press(ActionFire, now)

	if !k.Poll(now).Fire {
		t.Error("Expected fire on first poll")
	}
	if k.Poll(now).Fire {
		t.Error("Fire must clear after being polled")
	}
}

func TestAimFollowsFacing(t *testing.T) {
	now := time.Unix(1000, 0)
	k := NewKeyboard(50 * time.Millisecond)

	if in := k.Poll(now); in.Aim != vmath.V(1, 0) {
		t.Errorf("Default aim = %v, want (1,0)", in.Aim)
	}

	k.Press(ActionUp, now)
	k.Press(ActionLeft, now)
	in := k.Poll(now)
	want := -1 / math.Sqrt2
	if math.Abs(in.Aim.X-want) > 1e-9 || math.Abs(in.Aim.Y-want) > 1e-9 {
		t.Errorf("Aim = %v, want diagonal up-left", in.Aim)
	}

	// Facing persists after release
	after := k.Poll(now.Add(time.Second))
	if after.Aim != in.Aim || !after.Move.IsZero() {
		t.Errorf("Unexpected intent after release: %+v", after)
	}
}

func TestQuitSticky(t *testing.T) {
	now := time.Unix(1000, 0)
	k := NewKeyboard(0)
	k.Press(ActionQuit, now)
	if !k.Poll(now).Quit || !k.Poll(now).Quit {
		t.Error("Quit must stay set")
	}
}

func TestBindRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Action
		ok   bool
	}{
		{'w', ActionUp, true},
		{'S', ActionDown, true},
		{'h', ActionLeft, true},
		{'l', ActionRight, true},
		{' ', ActionFire, true},
		{'q', ActionQuit, true},
		{'x', 0, false},
	}
	for _, tt := range tests {
		got, ok := bindRune(tt.r)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("bindRune(%q) = %v,%v want %v,%v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}
