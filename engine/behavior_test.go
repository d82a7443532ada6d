package engine

import (
	"testing"

	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/input"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

func enemyBox(x, y, health float64) *Entity {
	e := NewStatic(vmath.V(x, y), physics.Box(10, 10, physics.LayerEnemy, 0))
	e.Health = &Health{Current: health, Max: health}
	return e
}

func TestProjectileHitDamagesAndDestroys(t *testing.T) {
	w := NewWorld(nil, nil)
	target := w.Insert(enemyBox(15, 0, 25))

	c := physics.Circle(2, physics.LayerProjectile, projectileMask(physics.LayerPlayer))
	p := w.Insert(NewProjectile(core.NoHandle, vmath.V(5, 5), vmath.V(1, 0), c, 80, 25, 5))
	w.Events()

	w.Step(dt, input.Intent{})

	if w.State(target) != StateFree {
		t.Errorf("target state = %v, want free", w.State(target))
	}
	if w.State(p) != StateFree {
		t.Errorf("projectile state = %v, want free", w.State(p))
	}

	events := w.Events()
	if countEvents(events, EventDamaged) != 1 || countEvents(events, EventHit) != 1 {
		t.Fatalf("events = %+v", events)
	}
	if got := countEvents(events, EventDestroyed); got != 2 {
		t.Errorf("destroyed events = %d, want 2", got)
	}
	for _, ev := range events {
		if ev.Type == EventHit && ev.Other != target {
			t.Errorf("hit other = %v, want %v", ev.Other, target)
		}
		if ev.Type == EventDamaged && (ev.Handle != target || ev.Other != p || ev.Amount != 25) {
			t.Errorf("damaged event = %+v", ev)
		}
	}
}

func TestProjectileSkipsOwner(t *testing.T) {
	w := NewWorld(nil, nil)
	owner := w.Insert(enemyBox(15, 0, 10))

	// Mask includes the owner's layer; the owner blocks but takes no damage
	c := physics.Circle(2, physics.LayerProjectile, physics.LayerAll)
	p := w.Insert(NewProjectile(owner, vmath.V(5, 5), vmath.V(1, 0), c, 80, 25, 5))
	w.Step(dt, input.Intent{})

	if w.State(owner) != StateLive {
		t.Errorf("owner state = %v, want live", w.State(owner))
	}
	if w.State(p) != StateFree {
		t.Errorf("projectile state = %v, want free", w.State(p))
	}
	events := w.Events()
	if countEvents(events, EventDamaged) != 0 {
		t.Error("owner was damaged")
	}
	for _, ev := range events {
		if ev.Type == EventHit && !ev.Other.IsZero() {
			t.Errorf("hit other = %v, want none", ev.Other)
		}
	}
}

func TestProjectilePassesFilteredLayers(t *testing.T) {
	w := NewWorld(nil, nil)
	ally := NewStatic(vmath.V(15, 0), physics.Box(10, 10, physics.LayerPlayer, 0))
	w.Insert(ally)

	c := physics.Circle(2, physics.LayerProjectile, projectileMask(physics.LayerPlayer))
	proj := NewProjectile(core.NoHandle, vmath.V(5, 5), vmath.V(1, 0), c, 80, 25, 5)
	p := w.Insert(proj)
	w.Step(dt, input.Intent{})

	if w.State(p) != StateLive {
		t.Fatalf("projectile state = %v, want live", w.State(p))
	}
	if proj.Position.X != 15 {
		t.Errorf("projectile x = %v, want 15", proj.Position.X)
	}
}

func TestProjectileExpires(t *testing.T) {
	w := NewWorld(nil, nil)
	c := physics.Circle(1, physics.LayerProjectile, physics.LayerScenery)
	p := w.Insert(NewProjectile(core.NoHandle, vmath.Zero, vmath.V(0, 1), c, 10, 1, 0.2))

	w.Step(dt, input.Intent{})
	if w.State(p) != StateLive {
		t.Fatalf("expired early: %v", w.State(p))
	}
	w.Events()

	w.Step(dt, input.Intent{})
	if w.State(p) != StateFree {
		t.Errorf("state = %v, want free", w.State(p))
	}
	if got := countEvents(w.Events(), EventExpired); got != 1 {
		t.Errorf("expired events = %d, want 1", got)
	}
}

func TestProjectileMask(t *testing.T) {
	tests := []struct {
		shooter physics.Layer
		want    physics.Layer
	}{
		{physics.LayerPlayer, physics.LayerScenery | physics.LayerEnemy},
		{physics.LayerEnemy, physics.LayerScenery | physics.LayerPlayer},
		{physics.LayerNone, physics.LayerScenery | physics.LayerPlayer | physics.LayerEnemy},
	}
	for _, tt := range tests {
		if got := projectileMask(tt.shooter); got != tt.want {
			t.Errorf("projectileMask(%08b) = %08b, want %08b", tt.shooter, got, tt.want)
		}
	}
	if projectileMask(physics.LayerPlayer)&physics.LayerProjectile != 0 {
		t.Error("projectiles must not collide with each other")
	}
}

func TestPlayerMovesByIntent(t *testing.T) {
	w := NewWorld(nil, nil)
	pl := NewPlayer(vmath.Zero, physics.Circle(5, physics.LayerPlayer, physics.LayerScenery), 80, 100, Weapon{})
	w.Insert(pl)

	w.Step(dt, input.Intent{Move: vmath.V(0, -3)})
	if pl.Position != vmath.V(0, -10) {
		t.Errorf("position = %v, want (0,-10)", pl.Position)
	}
	w.Step(dt, input.Intent{})
	if pl.Position != vmath.V(0, -10) {
		t.Errorf("moved without intent: %v", pl.Position)
	}
}

func TestPlayerFireCooldown(t *testing.T) {
	w := NewWorld(nil, nil)
	weapon := Weapon{
		Cooldown:   0.25,
		Projectile: ProjectileSpec{Radius: 1, Speed: 10, Damage: 5, Lifetime: 10, Glyph: '*'},
	}
	pl := NewPlayer(vmath.V(100, 100), physics.Circle(5, physics.LayerPlayer, physics.LayerScenery), 0, 100, weapon)
	ph := w.Insert(pl)

	fire := input.Intent{Fire: true, Aim: vmath.V(0, 1)}
	fired := 0
	for frame := 1; frame <= 3; frame++ {
		w.Step(dt, fire)
		for _, ev := range w.Events() {
			if ev.Type != EventFired {
				continue
			}
			fired++
			if ev.Other != ph {
				t.Errorf("fired by %v, want %v", ev.Other, ph)
			}
			if frame == 2 {
				t.Error("fired during cooldown")
			}
		}
	}
	if fired != 2 {
		t.Fatalf("fired %d times in 3 frames, want 2", fired)
	}

	var projectiles []Drawable
	for _, d := range w.Render(nil) {
		if d.Kind == KindProjectile {
			projectiles = append(projectiles, d)
		}
	}
	// Second projectile still queued
	if len(projectiles) != 1 || w.Queued() != 1 {
		t.Fatalf("live projectiles = %d queued = %d, want 1/1", len(projectiles), w.Queued())
	}
	if !projectiles[0].Visible || projectiles[0].Sprite.Glyph != '*' {
		t.Errorf("projectile sprite = %+v", projectiles[0].Sprite)
	}
	if projectiles[0].Position.X != 100 || projectiles[0].Position.Y <= 100 {
		t.Errorf("projectile at %v, want moving +y from the player center", projectiles[0].Position)
	}
}

func TestPlayerFireDefaultAim(t *testing.T) {
	w := NewWorld(nil, nil)
	weapon := Weapon{Projectile: ProjectileSpec{Radius: 1, Speed: 10, Lifetime: 1}}
	w.Insert(NewPlayer(vmath.Zero, physics.Circle(5, physics.LayerPlayer, 0), 0, 1, weapon))
	w.Step(dt, input.Intent{Fire: true})
	w.Step(dt, input.Intent{})

	for _, d := range w.Render(nil) {
		if d.Kind == KindProjectile && d.Position.X <= 0 {
			t.Errorf("projectile at %v, want moving +x", d.Position)
		}
	}
}

func TestChaser(t *testing.T) {
	tests := []struct {
		name    string
		targetX float64
		destroy bool
		wantX   float64
	}{
		{"in range", 100, false, 10},
		{"out of range", 300, false, 0},
		{"target destroyed", 100, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(nil, nil)
			th := w.Insert(NewStatic(vmath.V(tt.targetX, 0), physics.Circle(5, physics.LayerPlayer, 0)))
			ch := NewChaser(vmath.Zero, physics.Circle(5, physics.LayerEnemy, physics.LayerScenery), 80, 10, th, 250)
			w.Insert(ch)
			if tt.destroy {
				w.Destroy(th)
			}

			w.Step(dt, input.Intent{})
			if ch.Position.X != tt.wantX || ch.Position.Y != 0 {
				t.Errorf("chaser at %v, want (%v,0)", ch.Position, tt.wantX)
			}
		})
	}
}

func armedChaser(x float64, target core.Handle) *Entity {
	c := NewChaser(vmath.V(x, 0), physics.Circle(5, physics.LayerEnemy, physics.LayerScenery), 0, 10, target, 0)
	return c.WithWeapon(Weapon{
		Cooldown:   1,
		Projectile: ProjectileSpec{Radius: 1, Speed: 80, Damage: 10, Lifetime: 1},
	})
}

func TestChaserShootsTargetInReach(t *testing.T) {
	tests := []struct {
		name    string
		targetX float64
		fired   int
		health  float64
	}{
		{"in reach", 40, 1, 90},
		{"beyond reach", 200, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(nil, nil)
			pl := NewPlayer(vmath.V(tt.targetX, 0), physics.Circle(5, physics.LayerPlayer, physics.LayerScenery), 0, 100, Weapon{})
			ph := w.Insert(pl)
			ch := w.Insert(armedChaser(0, ph))

			fired := 0
			for range 5 {
				w.Step(dt, input.Intent{})
				for _, ev := range w.Events() {
					if ev.Type == EventFired {
						fired++
						if ev.Other != ch {
							t.Errorf("fired by %v, want %v", ev.Other, ch)
						}
					}
				}
			}
			if fired != tt.fired {
				t.Errorf("fired = %d, want %d", fired, tt.fired)
			}
			if pl.Health.Current != tt.health {
				t.Errorf("player health = %v, want %v", pl.Health.Current, tt.health)
			}
		})
	}
}

func TestChasersWearDownPlayer(t *testing.T) {
	w := NewWorld(nil, nil)
	pl := NewPlayer(vmath.Zero, physics.Circle(10, physics.LayerPlayer, physics.LayerScenery|physics.LayerEnemy), 0, 100, Weapon{})
	pl.WithImmunity(0.5)
	ph := w.Insert(pl)
	for i := range 5 {
		w.Insert(armedChaser(float64(30+20*i), ph))
	}

	step := 1.0 / 60
	var hitAt []float64
	for range 600 {
		w.Step(step, input.Intent{})
		for _, ev := range w.Events() {
			if ev.Type == EventDamaged && ev.Handle == ph {
				hitAt = append(hitAt, w.Elapsed())
			}
		}
	}
	if pl.Health.Current >= pl.Health.Max || len(hitAt) == 0 {
		t.Fatalf("player health = %v after 10s among armed chasers", pl.Health.Current)
	}
	for i := 1; i < len(hitAt); i++ {
		if gap := hitAt[i] - hitAt[i-1]; gap < 0.5-1e-9 {
			t.Errorf("hits %d and %d only %.3fs apart inside the immunity window", i-1, i, gap)
		}
	}
}

func TestProjectileProvokesChaser(t *testing.T) {
	w := NewWorld(nil, nil)
	decoy := w.Insert(NewStatic(vmath.V(500, 500), physics.Circle(5, physics.LayerPlayer, 0)))
	shooter := w.Insert(NewStatic(vmath.V(-100, 0), physics.Circle(5, physics.LayerPlayer, 0)))
	ch := NewChaser(vmath.V(15, 0), physics.Circle(5, physics.LayerEnemy, physics.LayerScenery), 0, 100, decoy, 0)
	w.Insert(ch)

	c := physics.Circle(2, physics.LayerProjectile, projectileMask(physics.LayerPlayer))
	w.Insert(NewProjectile(shooter, vmath.Zero, vmath.V(1, 0), c, 80, 5, 5))
	w.Step(dt, input.Intent{})

	if ch.Health.Current != 95 {
		t.Fatalf("chaser health = %v, want 95", ch.Health.Current)
	}
	if ch.Chase.Target != shooter {
		t.Errorf("chaser target = %v, want shooter %v", ch.Chase.Target, shooter)
	}
}
