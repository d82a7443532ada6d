package engine

import (
	"fmt"

	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/vmath"
)

// Kind selects the behavior an entity is dispatched to
type Kind uint8

const (
	KindStatic Kind = iota
	KindMoving
	KindPlayer
	KindProjectile
	KindChaser

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindMoving:
		return "moving"
	case KindPlayer:
		return "player"
	case KindProjectile:
		return "projectile"
	case KindChaser:
		return "chaser"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Motion is the optional moving capability
type Motion struct {
	Velocity vmath.Vec2 // unit-ish direction, recomputed every frame from Intent
	Speed    float64    // world units per second
	Intent   vmath.Vec2 // desired direction for this frame, any length
}

// Health is depleted by projectile hits; the entity is destroyed at zero
// After a hit further damage is ignored for Immunity seconds
type Health struct {
	Current     float64
	Max         float64
	Immunity    float64
	ImmuneUntil float64 // world time in seconds
}

// Projectile state; Owner is never damaged by its own projectile
type Projectile struct {
	Owner     core.Handle
	Direction vmath.Vec2
	Damage    float64
	Remaining float64 // seconds of flight left
}

// Chase steers toward Target while it is live and within Range
type Chase struct {
	Target core.Handle
	Range  float64
}

// ProjectileSpec is the template a weapon spawns from
type ProjectileSpec struct {
	Radius   float64
	Speed    float64
	Damage   float64
	Lifetime float64 // seconds
	Glyph    rune
	Color    uint32
}

// Weapon gates projectile spawns by cooldown
type Weapon struct {
	Cooldown   float64 // seconds between shots
	Ready      float64 // seconds until the next shot is allowed
	Projectile ProjectileSpec
}

// Sprite is the visual handle passed through to the renderer
type Sprite struct {
	Glyph rune
	Color uint32 // 0xRRGGBB
}

// Entity is the flat entity record owned by the registry
// Only Position and Motion.Velocity/Intent change after construction, besides component timers
type Entity struct {
	Kind     Kind
	Name     string
	Position vmath.Vec2
	Collider physics.Collider
	Sprite   *Sprite

	Motion     *Motion
	Health     *Health
	Projectile *Projectile
	Chase      *Chase
	Weapon     *Weapon
}

// NewStatic creates scenery that never updates
func NewStatic(pos vmath.Vec2, c physics.Collider) *Entity {
	return &Entity{Kind: KindStatic, Position: pos, Collider: c}
}

// NewMoving creates a body that moves along Motion.Intent at speed
func NewMoving(pos vmath.Vec2, c physics.Collider, speed float64) *Entity {
	return &Entity{Kind: KindMoving, Position: pos, Collider: c, Motion: &Motion{Speed: speed}}
}

// NewPlayer creates the input-driven actor
func NewPlayer(pos vmath.Vec2, c physics.Collider, speed, health float64, weapon Weapon) *Entity {
	return &Entity{
		Kind:     KindPlayer,
		Name:     "player",
		Position: pos,
		Collider: c,
		Motion:   &Motion{Speed: speed},
		Health:   &Health{Current: health, Max: health},
		Weapon:   &weapon,
	}
}

// NewProjectile creates a projectile flying along dir; dir is normalized
func NewProjectile(owner core.Handle, pos, dir vmath.Vec2, c physics.Collider, speed, damage, lifetime float64) *Entity {
	d := dir.Normalize()
	return &Entity{
		Kind:       KindProjectile,
		Name:       "projectile",
		Position:   pos,
		Collider:   c,
		Motion:     &Motion{Speed: speed, Intent: d},
		Projectile: &Projectile{Owner: owner, Direction: d, Damage: damage, Remaining: lifetime},
	}
}

// NewChaser creates an enemy that follows target within chaseRange
func NewChaser(pos vmath.Vec2, c physics.Collider, speed, health float64, target core.Handle, chaseRange float64) *Entity {
	return &Entity{
		Kind:     KindChaser,
		Name:     "chaser",
		Position: pos,
		Collider: c,
		Motion:   &Motion{Speed: speed},
		Health:   &Health{Current: health, Max: health},
		Chase:    &Chase{Target: target, Range: chaseRange},
	}
}

// WithWeapon arms e and returns it for chaining
func (e *Entity) WithWeapon(w Weapon) *Entity {
	e.Weapon = &w
	return e
}

// WithImmunity sets the post-hit immunity window of an entity with health
func (e *Entity) WithImmunity(seconds float64) *Entity {
	if e.Health != nil {
		e.Health.Immunity = seconds
	}
	return e
}

// WithSprite attaches a visual handle and returns e for chaining
func (e *Entity) WithSprite(glyph rune, color uint32) *Entity {
	e.Sprite = &Sprite{Glyph: glyph, Color: color}
	return e
}

// WithName sets the debug name and returns e for chaining
func (e *Entity) WithName(name string) *Entity {
	e.Name = name
	return e
}
