package engine

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

const (
	playerMask = physics.LayerScenery | physics.LayerEnemy
	chaserMask = physics.LayerScenery | physics.LayerPlayer | physics.LayerEnemy
)

// placed is a body already committed to the scene, checked by scatter placement
type placed struct {
	pos vmath.Vec2
	c   physics.Collider
}

type sceneBuilder struct {
	w      *World
	placed []placed
}

func (b *sceneBuilder) add(e *Entity) core.Handle {
	b.placed = append(b.placed, placed{pos: e.Position, c: e.Collider})
	return b.w.Insert(e)
}

// free reports whether a body at pos would overlap nothing placed so far
func (b *sceneBuilder) free(pos vmath.Vec2, c physics.Collider) bool {
	for _, p := range b.placed {
		if physics.CheckCollision(pos, c, p.pos, p.c) {
			return false
		}
	}
	return true
}

// PlayerCollider is the collider the player is built with
func PlayerCollider(cfg *config.Config) physics.Collider {
	return physics.Circle(cfg.Player.Radius, physics.LayerPlayer, playerMask)
}

// ChaserCollider is the collider every scattered chaser is built with
func ChaserCollider(cfg *config.Config) physics.Collider {
	return physics.Circle(cfg.Chaser.Radius, physics.LayerEnemy, chaserMask)
}

// Populate queues the scene described by cfg: barriers framing the world, the player,
// configured obstacles clear of both, then seeded scatter of rocks and chasers that overlap
// nothing placed before them
// Everything becomes live at the next Step. Returns the player handle, also set as focus
func Populate(w *World, cfg *config.Config, rng *rand.Rand) core.Handle {
	b := &sceneBuilder{w: w}
	wall := config.Glyph(cfg.Scatter.RockGlyph, '#')

	if t := cfg.World.Barrier; t > 0 && 2*t < min(cfg.World.Width, cfg.World.Height) {
		width, height := cfg.World.Width, cfg.World.Height
		barriers := []struct {
			pos  vmath.Vec2
			w, h float64
		}{
			{vmath.V(0, 0), width, t},
			{vmath.V(0, height-t), width, t},
			{vmath.V(0, t), t, height - 2*t},
			{vmath.V(width-t, t), t, height - 2*t},
		}
		for _, br := range barriers {
			e := NewStatic(br.pos, physics.Box(br.w, br.h, physics.LayerScenery, physics.LayerNone))
			b.add(e.WithName("barrier").WithSprite(wall, cfg.Scatter.RockColor))
		}
	}

	projectile := ProjectileSpec{
		Radius:   cfg.Projectile.Radius,
		Speed:    cfg.Projectile.Speed,
		Damage:   cfg.Projectile.Damage,
		Lifetime: cfg.Projectile.Lifetime,
		Glyph:    config.Glyph(cfg.Projectile.Glyph, '*'),
		Color:    cfg.Projectile.Color,
	}
	spawn := vmath.V(cfg.Player.X, cfg.Player.Y)
	pc := PlayerCollider(cfg)
	if !b.free(spawn, pc) {
		w.logger.Warn("player spawn overlaps the barrier", zap.Float64("x", spawn.X), zap.Float64("y", spawn.Y))
	}
	player := NewPlayer(spawn, pc, cfg.Player.Speed, cfg.Player.Health, Weapon{Cooldown: cfg.Player.Cooldown, Projectile: projectile}).
		WithImmunity(cfg.Player.Immunity).
		WithSprite(config.Glyph(cfg.Player.Glyph, '@'), cfg.Player.Color)
	ph := b.add(player)
	w.SetFocus(ph)

	for i, o := range cfg.Obstacles {
		c, err := o.Collider()
		if err != nil {
			w.logger.Warn("obstacle skipped", zap.Int("index", i), zap.Error(err))
			continue
		}
		if !b.free(o.Position(), c) {
			w.logger.Warn("obstacle skipped", zap.Int("index", i), zap.String("reason", "overlaps placed body"))
			continue
		}
		e := NewStatic(o.Position(), c).WithName("obstacle")
		if o.Glyph != "" {
			e.WithSprite(config.Glyph(o.Glyph, wall), o.Color)
		}
		b.add(e)
	}

	sc := cfg.Scatter
	attempts := max(sc.Attempts, 1)
	interior := func(margin vmath.Vec2) vmath.Vec2 {
		t := cfg.World.Barrier
		return vmath.V(
			t+rng.Float64()*max(cfg.World.Width-2*t-margin.X, 0),
			t+rng.Float64()*max(cfg.World.Height-2*t-margin.Y, 0),
		)
	}
	clearOfSpawn := func(pos vmath.Vec2, c physics.Collider) bool {
		return vmath.Distance(c.Center(pos), spawn) > sc.SafeZone
	}

	rocks := 0
	for range sc.Rocks {
		for range attempts {
			size := vmath.V(
				sc.RockMin+rng.Float64()*(sc.RockMax-sc.RockMin),
				sc.RockMin+rng.Float64()*(sc.RockMax-sc.RockMin),
			)
			c := physics.Box(size.X, size.Y, physics.LayerScenery, physics.LayerNone)
			pos := interior(size)
			if !clearOfSpawn(pos, c) || !b.free(pos, c) {
				continue
			}
			b.add(NewStatic(pos, c).WithName("rock").WithSprite(wall, sc.RockColor))
			rocks++
			break
		}
	}

	chasers := 0
	cc := ChaserCollider(cfg)
	r := cfg.Chaser.Radius
	for range sc.Chasers {
		for range attempts {
			pos := interior(vmath.V(2*r, 2*r)).Add(vmath.V(r, r))
			if !clearOfSpawn(pos, cc) || !b.free(pos, cc) {
				continue
			}
			e := NewChaser(pos, cc, cfg.Chaser.Speed, cfg.Chaser.Health, ph, cfg.Chaser.Range).
				WithImmunity(cfg.Chaser.Immunity).
				WithSprite(config.Glyph(cfg.Chaser.Glyph, 'E'), cfg.Chaser.Color)
			if cfg.Chaser.Cooldown > 0 {
				e.WithWeapon(Weapon{Cooldown: cfg.Chaser.Cooldown, Projectile: projectile})
			}
			b.add(e)
			chasers++
			break
		}
	}

	w.logger.Info("scene populated",
		zap.Int("bodies", len(b.placed)),
		zap.Int("rocks", rocks),
		zap.Int("chasers", chasers),
		zap.Stringer("player", ph))
	return ph
}
