package engine

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/input"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/status"
	"github.com/lixenwraith/arena/vmath"
)

// World drives one registry through frames: drain, update scan, sweep, render
type World struct {
	registry  *Registry
	behaviors [kindCount]Behavior
	events    *EventQueue
	logger    *zap.Logger

	frame   Frame
	number  uint64
	elapsed float64

	focus     core.Handle
	lastFocus vmath.Vec2

	statFrames    *atomic.Int64
	statLive      *atomic.Int64
	statQueued    *atomic.Int64
	statDestroyed *atomic.Int64
	statBlocked   *atomic.Int64
	statDT        *status.Gauge
}

// NewWorld creates an empty world; nil logger and registry are replaced by no-op defaults
func NewWorld(logger *zap.Logger, reg *status.Registry) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &World{
		registry:      NewRegistry(256),
		behaviors:     defaultBehaviors(),
		events:        NewEventQueue(),
		logger:        logger,
		statFrames:    reg.Counter("frames"),
		statLive:      reg.Counter("entities.live"),
		statQueued:    reg.Counter("entities.queued"),
		statDestroyed: reg.Counter("entities.destroyed"),
		statBlocked:   reg.Counter("moves.blocked"),
		statDT:        reg.Gauge("frame.dt"),
	}
}

// SetBehavior replaces the dispatch entry for kind
func (w *World) SetBehavior(k Kind, b Behavior) {
	if k < kindCount && b != nil {
		w.behaviors[k] = b
	}
}

// Insert queues e; it becomes live at the start of the next Step
func (w *World) Insert(e *Entity) core.Handle {
	h := w.registry.Insert(e)
	w.logger.Debug("entity queued",
		zap.Stringer("handle", h),
		zap.Stringer("kind", e.Kind),
		zap.String("name", e.Name))
	w.events.Push(GameEvent{Type: EventSpawned, Frame: w.number, Handle: h, Kind: e.Kind, Position: e.Position})
	return h
}

// Destroy marks h for destruction; repeated calls are no-ops
func (w *World) Destroy(h core.Handle) bool {
	e, _ := w.registry.Get(h)
	if !w.registry.Destroy(h) {
		return false
	}
	w.statDestroyed.Add(1)
	ev := GameEvent{Type: EventDestroyed, Frame: w.number, Handle: h}
	if e != nil {
		ev.Kind = e.Kind
		ev.Position = e.Position
	}
	w.events.Push(ev)
	w.logger.Debug("entity destroyed", zap.Stringer("handle", h), zap.Stringer("kind", ev.Kind))
	return true
}

// Get resolves queued or live handles
func (w *World) Get(h core.Handle) (*Entity, bool) { return w.registry.Get(h) }

// Live resolves live handles only
func (w *World) Live(h core.Handle) (*Entity, bool) { return w.registry.Live(h) }

// State returns the lifecycle state of h
func (w *World) State(h core.Handle) State { return w.registry.State(h) }

// Len returns the live entity count
func (w *World) Len() int { return w.registry.Len() }

// Queued returns the number of entities awaiting admission
func (w *World) Queued() int { return w.registry.Queued() }

// Elapsed returns the summed dt of every stepped frame in seconds
func (w *World) Elapsed() float64 { return w.elapsed }

// FrameNumber returns the number of the last stepped frame
func (w *World) FrameNumber() uint64 { return w.number }

// SetFocus selects the entity the camera follows
func (w *World) SetFocus(h core.Handle) { w.focus = h }

// Focus returns the center of the focus entity, or its last known center once it is gone
func (w *World) Focus() vmath.Vec2 {
	if e, ok := w.registry.Get(w.focus); ok {
		w.lastFocus = e.Collider.Center(e.Position)
	}
	return w.lastFocus
}

// EachLive implements physics.Space over the live set
func (w *World) EachLive(fn func(physics.Obstacle) bool) {
	w.registry.EachLive(func(h core.Handle, e *Entity) bool {
		return fn(physics.Obstacle{Handle: h, Position: e.Position, Collider: e.Collider})
	})
}

// Step runs one frame: release leftovers, admit the queue, update every live entity once,
// then compact. dt is in seconds
func (w *World) Step(dt float64, in input.Intent) {
	w.number++
	w.elapsed += dt

	// Destroys requested between frames
	w.registry.Sweep()
	admitted := w.registry.Drain()

	w.frame = Frame{DT: dt, Number: w.number, Time: w.elapsed, Input: in, world: w}
	w.registry.Scan(func(h core.Handle, e *Entity) {
		w.behavior(e.Kind).Update(&w.frame, h, e)
	})
	released := w.registry.Sweep()

	w.statFrames.Add(1)
	w.statLive.Store(int64(w.registry.Len()))
	w.statQueued.Store(int64(w.registry.Queued()))
	w.statDT.Set(dt)

	if admitted > 0 || released > 0 {
		w.logger.Debug("frame lifecycle",
			zap.Uint64("frame", w.number),
			zap.Int("admitted", admitted),
			zap.Int("released", released),
			zap.Int("live", w.registry.Len()))
	}
}

// Render appends the draw tuples of the live set to dst in admission order
func (w *World) Render(dst []Drawable) []Drawable {
	w.registry.EachLive(func(h core.Handle, e *Entity) bool {
		dst = append(dst, w.behavior(e.Kind).Draw(h, e))
		return true
	})
	return dst
}

// Events drains the events published since the last call
func (w *World) Events() []GameEvent {
	return w.events.Consume()
}

func (w *World) behavior(k Kind) Behavior {
	if k < kindCount && w.behaviors[k] != nil {
		return w.behaviors[k]
	}
	return staticBehavior{}
}

// Frame is the per-frame context handed to Behavior.Update
type Frame struct {
	DT     float64
	Number uint64
	Time   float64 // world time including this frame's dt
	Input  input.Intent

	world *World
}

// Insert queues an entity for admission next frame
func (f *Frame) Insert(e *Entity) core.Handle { return f.world.Insert(e) }

// Destroy marks an entity; it is invisible to every later update this frame
func (f *Frame) Destroy(h core.Handle) bool { return f.world.Destroy(h) }

// Live resolves another entity only if it is live
func (f *Frame) Live(h core.Handle) (*Entity, bool) { return f.world.Live(h) }

// Emit publishes an event stamped with the frame number
func (f *Frame) Emit(ev GameEvent) {
	ev.Frame = f.Number
	f.world.events.Push(ev)
}

// Move resolves e's motion for this frame and applies the outcome
// Velocity is recomputed from Intent; the result reports blocked axes and hit bodies
func (f *Frame) Move(h core.Handle, e *Entity) physics.Result {
	m := e.Motion
	if m == nil {
		return physics.Result{Position: e.Position}
	}
	m.Velocity = m.Intent.Normalize()
	d := physics.Displacement(m.Intent, m.Speed, f.DT)

	res := physics.Resolve(f.world, h, e.Position, e.Collider, d)
	e.Position = res.Position
	if res.Blocked() {
		f.world.statBlocked.Add(1)
	}
	return res
}

// Damage reduces target health and destroys it at zero
// Targets without health, not live or inside their immunity window are unaffected;
// returns true if the target was destroyed
func (f *Frame) Damage(target core.Handle, amount float64, source core.Handle) bool {
	e, ok := f.world.Live(target)
	if !ok || e.Health == nil || e.Health.ImmuneUntil > f.Time {
		return false
	}
	e.Health.Current -= amount
	e.Health.ImmuneUntil = f.Time + e.Health.Immunity
	f.Emit(GameEvent{Type: EventDamaged, Handle: target, Other: source, Kind: e.Kind, Position: e.Position, Amount: amount})
	if e.Health.Current > 0 {
		return false
	}
	return f.Destroy(target)
}
