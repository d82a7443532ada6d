package engine

import (
	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

// Drawable is one render tuple handed to the external renderer
type Drawable struct {
	Handle   core.Handle
	Kind     Kind
	Position vmath.Vec2
	Collider physics.Collider
	Sprite   Sprite
	Visible  bool    // Sprite is set
	Health   float64 // remaining health fraction in [0,1], 1 without a health component
}

// Behavior is the per-kind dispatch entry
type Behavior interface {
	Update(f *Frame, h core.Handle, e *Entity)
	Draw(h core.Handle, e *Entity) Drawable
}

// UpdateFunc adapts a function to Behavior with the default Draw
type UpdateFunc func(f *Frame, h core.Handle, e *Entity)

func (fn UpdateFunc) Update(f *Frame, h core.Handle, e *Entity) { fn(f, h, e) }
func (fn UpdateFunc) Draw(h core.Handle, e *Entity) Drawable { return drawDefault(h, e) }

func drawDefault(h core.Handle, e *Entity) Drawable {
	d := Drawable{
		Handle:   h,
		Kind:     e.Kind,
		Position: e.Position,
		Collider: e.Collider,
		Health:   1,
	}
	if e.Sprite != nil {
		d.Sprite = *e.Sprite
		d.Visible = true
	}
	if e.Health != nil && e.Health.Max > 0 {
		d.Health = vmath.Clamp(e.Health.Current/e.Health.Max, 0, 1)
	}
	return d
}

// defaultBehaviors returns the built-in dispatch table
func defaultBehaviors() [kindCount]Behavior {
	return [kindCount]Behavior{
		KindStatic:     staticBehavior{},
		KindMoving:     movingBehavior{},
		KindPlayer:     playerBehavior{},
		KindProjectile: projectileBehavior{},
		KindChaser:     chaserBehavior{},
	}
}

type staticBehavior struct{}

func (staticBehavior) Update(*Frame, core.Handle, *Entity) {}
func (staticBehavior) Draw(h core.Handle, e *Entity) Drawable { return drawDefault(h, e) }

// movingBehavior walks along Motion.Intent with axis sliding
type movingBehavior struct{}

func (movingBehavior) Update(f *Frame, h core.Handle, e *Entity) {
	if e.Motion == nil {
		return
	}
	f.Move(h, e)
}

func (movingBehavior) Draw(h core.Handle, e *Entity) Drawable { return drawDefault(h, e) }

// playerBehavior moves by input intent and fires from the weapon
type playerBehavior struct{}

func (playerBehavior) Update(f *Frame, h core.Handle, e *Entity) {
	if e.Motion != nil {
		e.Motion.Intent = f.Input.Move
		f.Move(h, e)
	}

	if !cooldown(f, e.Weapon) || !f.Input.Fire {
		return
	}
	aim := f.Input.Aim
	if aim.IsZero() {
		aim = vmath.V(1, 0)
	}
	fire(f, h, e, aim)
}

func (playerBehavior) Draw(h core.Handle, e *Entity) Drawable { return drawDefault(h, e) }

// cooldown ticks w and reports whether it may fire this frame
func cooldown(f *Frame, w *Weapon) bool {
	if w == nil {
		return false
	}
	if w.Ready > 0 {
		w.Ready -= f.DT
	}
	return w.Ready <= 0
}

// fire spawns one projectile from e's center along aim and restarts the cooldown
// The projectile ignores the shooter's layer
func fire(f *Frame, h core.Handle, e *Entity, aim vmath.Vec2) core.Handle {
	w := e.Weapon
	p := NewProjectile(h, e.Collider.Center(e.Position), aim,
		physics.Circle(w.Projectile.Radius, physics.LayerProjectile, projectileMask(e.Collider.Layer)),
		w.Projectile.Speed, w.Projectile.Damage, w.Projectile.Lifetime)
	if w.Projectile.Glyph != 0 {
		p.WithSprite(w.Projectile.Glyph, w.Projectile.Color)
	}
	ph := f.Insert(p)
	w.Ready = w.Cooldown
	f.Emit(GameEvent{Type: EventFired, Handle: ph, Other: h, Kind: KindProjectile, Position: p.Position})
	return ph
}

// reach is how far a weapon's projectile travels before expiring
func (w *Weapon) reach() float64 {
	return w.Projectile.Speed * w.Projectile.Lifetime
}

// actorLayers are the layers a projectile may hit besides scenery
const actorLayers = physics.LayerPlayer | physics.LayerEnemy

// projectileMask lets a projectile hit scenery and every actor layer except the shooter's
func projectileMask(shooter physics.Layer) physics.Layer {
	return physics.LayerScenery | (actorLayers &^ shooter)
}

// projectileBehavior flies straight, damages whatever blocks it and destroys itself
type projectileBehavior struct{}

func (projectileBehavior) Update(f *Frame, h core.Handle, e *Entity) {
	p := e.Projectile
	if p == nil || e.Motion == nil {
		f.Destroy(h)
		return
	}

	p.Remaining -= f.DT
	if p.Remaining <= 0 {
		f.Emit(GameEvent{Type: EventExpired, Handle: h, Kind: e.Kind, Position: e.Position})
		f.Destroy(h)
		return
	}

	e.Motion.Intent = p.Direction
	res := f.Move(h, e)
	if !res.Blocked() {
		return
	}

	var first core.Handle
	for _, hit := range res.Hits {
		if hit == p.Owner {
			continue
		}
		if first.IsZero() {
			first = hit
		}
		provoke(f, hit, p.Owner)
		f.Damage(hit, p.Damage, h)
	}
	f.Emit(GameEvent{Type: EventHit, Handle: h, Other: first, Kind: e.Kind, Position: e.Position})
	f.Destroy(h)
}

func (projectileBehavior) Draw(h core.Handle, e *Entity) Drawable { return drawDefault(h, e) }

// provoke turns a hit chaser onto the live shooter
func provoke(f *Frame, hit, shooter core.Handle) {
	t, ok := f.Live(hit)
	if !ok || t.Chase == nil {
		return
	}
	if _, ok := f.Live(shooter); ok {
		t.Chase.Target = shooter
	}
}

// chaserBehavior steers toward a live target in range and shoots at it once inside weapon reach
// The target is a weak handle
type chaserBehavior struct{}

func (chaserBehavior) Update(f *Frame, h core.Handle, e *Entity) {
	if e.Motion == nil {
		return
	}
	e.Motion.Intent = vmath.Zero
	ready := cooldown(f, e.Weapon)

	if c := e.Chase; c != nil {
		if target, ok := f.Live(c.Target); ok {
			from := e.Collider.Center(e.Position)
			to := target.Collider.Center(target.Position)
			dist := vmath.Distance(from, to)
			if dist <= c.Range {
				e.Motion.Intent = to.Sub(from)
			}
			if ready && dist > 0 && dist <= e.Weapon.reach() {
				fire(f, h, e, to.Sub(from))
			}
		}
	}
	f.Move(h, e)
}

func (chaserBehavior) Draw(h core.Handle, e *Entity) Drawable { return drawDefault(h, e) }
