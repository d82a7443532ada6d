package physics

import (
	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/vmath"
)

// Obstacle is a live body as seen by the resolver
type Obstacle struct {
	Handle   core.Handle
	Position vmath.Vec2
	Collider Collider
}

// Space exposes the live set to collision queries
// Implementations visit only live entities; fn returns false to stop early
type Space interface {
	EachLive(fn func(Obstacle) bool)
}

// Result is the outcome of resolving one entity's displacement for one frame
type Result struct {
	Position vmath.Vec2
	BlockedX bool
	BlockedY bool
	Hits     []core.Handle // distinct bodies that blocked either axis, in visit order
}

// Blocked reports whether any axis was blocked
func (r Result) Blocked() bool {
	return r.BlockedX || r.BlockedY
}

// Displacement returns normalize(intent) * speed * dt, zero without intent
func Displacement(intent vmath.Vec2, speed, dt float64) vmath.Vec2 {
	return intent.Normalize().Scale(speed * dt)
}

// Resolve applies displacement d per axis, each axis tested from the current position
// An axis is blocked outright if its candidate position overlaps any filtered live body;
// there is no partial slide. Self is excluded by handle.
func Resolve(space Space, self core.Handle, pos vmath.Vec2, c Collider, d vmath.Vec2) Result {
	res := Result{Position: pos}
	if d.IsZero() {
		return res
	}

	candX := vmath.V(pos.X+d.X, pos.Y)
	candY := vmath.V(pos.X, pos.Y+d.Y)
	testX := d.X != 0
	testY := d.Y != 0

	space.EachLive(func(o Obstacle) bool {
		if o.Handle == self || !CanCollide(c, o.Collider) {
			return true
		}
		hit := false
		if testX && CheckCollision(candX, c, o.Position, o.Collider) {
			res.BlockedX = true
			hit = true
		}
		if testY && CheckCollision(candY, c, o.Position, o.Collider) {
			res.BlockedY = true
			hit = true
		}
		if hit {
			res.Hits = append(res.Hits, o.Handle)
		}
		return true
	})

	if !res.BlockedX {
		res.Position.X = candX.X
	}
	if !res.BlockedY {
		res.Position.Y = candY.Y
	}
	return res
}

// Move is the boolean form of Resolve: new position and whether any axis was blocked
func Move(space Space, self core.Handle, pos vmath.Vec2, c Collider, d vmath.Vec2) (vmath.Vec2, bool) {
	res := Resolve(space, self, pos, c, d)
	return res.Position, res.Blocked()
}
