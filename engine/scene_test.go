package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/input"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

func populated(t *testing.T, cfg *config.Config, seed uint64) (*World, []Drawable) {
	t.Helper()
	w := NewWorld(nil, nil)
	ph := Populate(w, cfg, rand.New(rand.NewPCG(seed, seed)))
	if ph.IsZero() {
		t.Fatal("Populate returned no player")
	}
	if w.Len() != 0 {
		t.Fatalf("scene live before first step: %d", w.Len())
	}
	w.Step(0, input.Intent{})
	return w, w.Render(nil)
}

func TestPopulateNoOverlap(t *testing.T) {
	cfg := config.Default()
	_, items := populated(t, cfg, 7)

	counts := map[Kind]int{}
	for _, d := range items {
		counts[d.Kind]++
	}
	if counts[KindPlayer] != 1 {
		t.Errorf("players = %d, want 1", counts[KindPlayer])
	}
	if counts[KindChaser] == 0 || counts[KindStatic] < 4 {
		t.Errorf("counts = %v, want barriers, rocks and chasers", counts)
	}

	for i := range items {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if physics.CheckCollision(a.Position, a.Collider, b.Position, b.Collider) {
				t.Errorf("%v %v overlaps %v %v", a.Kind, a.Position, b.Kind, b.Position)
			}
		}
	}
}

func TestPopulateDeterministic(t *testing.T) {
	cfg := config.Default()
	_, a := populated(t, cfg, 99)
	_, b := populated(t, cfg, 99)

	if len(a) != len(b) {
		t.Fatalf("scene sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Position != b[i].Position || a[i].Kind != b[i].Kind {
			t.Errorf("item %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPopulateConfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Scatter.Rocks = 0
	cfg.Scatter.Chasers = 0
	cfg.World.Barrier = 0
	cfg.Obstacles = []config.ObstacleConfig{
		{Shape: "box", X: 10, Y: 10, Width: 5, Height: 5},
		{Shape: "hexagon"},
		{Shape: "circle", X: 50, Y: 50, Radius: 3, Glyph: "o"},
		// Covers the player spawn
		{Shape: "box", X: cfg.Player.X - 5, Y: cfg.Player.Y - 5, Width: 10, Height: 10},
	}

	w, items := populated(t, cfg, 1)
	if len(items) != 3 {
		t.Fatalf("items = %d, want the player and 2 obstacles", len(items))
	}
	if items[0].Kind != KindPlayer {
		t.Errorf("first item kind = %v, want player", items[0].Kind)
	}
	if items[2].Position != vmath.V(50, 50) || !items[2].Visible || items[2].Sprite.Glyph != 'o' {
		t.Errorf("circle obstacle = %+v", items[2])
	}
	for _, d := range items[1:] {
		if physics.CheckCollision(d.Position, d.Collider, items[0].Position, items[0].Collider) {
			t.Errorf("obstacle %v overlaps the player", d.Position)
		}
	}
	if got := w.Focus(); got != vmath.V(cfg.Player.X, cfg.Player.Y) {
		t.Errorf("focus = %v, want player spawn", got)
	}
}

func TestPopulateChasersTargetPlayer(t *testing.T) {
	cfg := config.Default()
	cfg.Scatter.Rocks = 0
	w := NewWorld(nil, nil)
	ph := Populate(w, cfg, rand.New(rand.NewPCG(3, 3)))
	w.Step(0, input.Intent{})

	found := 0
	w.registry.EachLive(func(_ core.Handle, e *Entity) bool {
		if e.Kind == KindChaser {
			found++
			if e.Chase.Target != ph {
				t.Errorf("chaser target = %v, want %v", e.Chase.Target, ph)
			}
			if e.Collider.Layer != physics.LayerEnemy {
				t.Errorf("chaser layer = %v", e.Collider.Layer)
			}
		}
		return true
	})
	if found == 0 {
		t.Error("no chasers placed")
	}
}

func TestPopulateArmsChasers(t *testing.T) {
	cfg := config.Default()
	cfg.Scatter.Rocks = 0
	cfg.Scatter.Chasers = 2
	cfg.Chaser.Immunity = 0.2
	w, _ := populated(t, cfg, 5)

	w.registry.EachLive(func(_ core.Handle, e *Entity) bool {
		switch e.Kind {
		case KindChaser:
			if e.Weapon == nil || e.Weapon.Cooldown != cfg.Chaser.Cooldown {
				t.Errorf("chaser weapon = %+v", e.Weapon)
			} else if e.Weapon.Projectile.Damage != cfg.Projectile.Damage {
				t.Errorf("chaser projectile = %+v", e.Weapon.Projectile)
			}
			if e.Health.Immunity != 0.2 {
				t.Errorf("chaser immunity = %v", e.Health.Immunity)
			}
		case KindPlayer:
			if e.Health.Immunity != cfg.Player.Immunity {
				t.Errorf("player immunity = %v", e.Health.Immunity)
			}
		}
		return true
	})

	cfg.Chaser.Cooldown = 0
	w, _ = populated(t, cfg, 5)
	w.registry.EachLive(func(_ core.Handle, e *Entity) bool {
		if e.Kind == KindChaser && e.Weapon != nil {
			t.Error("chaser armed with zero cooldown")
		}
		return true
	})
}
