package engine

import "github.com/lixenwraith/arena/core"

// State is the lifecycle state of a registry slot
type State uint8

const (
	StateFree           State = iota // never issued or released; handles to it are absent
	StateQueued                      // inserted, awaiting the next frame-start drain
	StateLive                        // visible to scans, collision queries and render
	StatePendingDestroy              // destroyed, awaiting release; invisible to everyone
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateQueued:
		return "queued"
	case StateLive:
		return "live"
	case StatePendingDestroy:
		return "pending-destroy"
	default:
		return "invalid"
	}
}

type slot struct {
	generation uint32
	state      State
	entity     *Entity
}

// Registry is the sole owner of entities: a slot arena addressed by generation-counted handles,
// a FIFO insertion queue and the live set
//
// Insert never touches the live set; Destroy only flips a state bit. The live set is mutated
// at two points only: Drain at frame start and release during Scan/Sweep. Scan iterates the live
// set in place and checks the liveness bit right before each callback, so destruction
// mid-scan needs no restart and no entity is updated twice.
type Registry struct {
	slots []slot
	free  []uint32
	queue []core.Handle
	live  []core.Handle

	scanning  bool
	liveCount int
	released  uint64
}

// NewRegistry creates a registry with room for capacity entities before growing
func NewRegistry(capacity int) *Registry {
	return &Registry{
		slots: make([]slot, 0, capacity),
		free:  make([]uint32, 0, capacity/4),
		queue: make([]core.Handle, 0, 16),
		live:  make([]core.Handle, 0, capacity),
	}
}

// Insert queues e for admission at the next Drain and returns its handle
// The handle resolves through Get immediately; the entity stays invisible to scans,
// collision queries and render until admitted
func (r *Registry) Insert(e *Entity) core.Handle {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{})
	}

	s := &r.slots[idx]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.state = StateQueued
	s.entity = e

	h := core.NewHandle(idx, s.generation)
	r.queue = append(r.queue, h)
	return h
}

// lookup returns the slot addressed by h if h is current
func (r *Registry) lookup(h core.Handle) (*slot, bool) {
	idx := h.Index()
	if h.IsZero() || int(idx) >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[idx]
	if s.generation != h.Generation() || s.state == StateFree {
		return nil, false
	}
	return s, true
}

// Destroy marks the entity pending; idempotent
// Returns true only for the call that performed the transition
func (r *Registry) Destroy(h core.Handle) bool {
	s, ok := r.lookup(h)
	if !ok {
		return false
	}
	switch s.state {
	case StateLive:
		s.state = StatePendingDestroy
		r.liveCount--
		return true
	case StateQueued:
		s.state = StatePendingDestroy
		return true
	default:
		return false
	}
}

// Get resolves a queued or live handle
// The pointer is borrowed for the current frame and must not be retained
func (r *Registry) Get(h core.Handle) (*Entity, bool) {
	s, ok := r.lookup(h)
	if !ok || (s.state != StateQueued && s.state != StateLive) {
		return nil, false
	}
	return s.entity, true
}

// Live resolves a handle only if the entity is live
func (r *Registry) Live(h core.Handle) (*Entity, bool) {
	s, ok := r.lookup(h)
	if !ok || s.state != StateLive {
		return nil, false
	}
	return s.entity, true
}

// State returns the lifecycle state for h; stale and released handles report StateFree
func (r *Registry) State(h core.Handle) State {
	s, ok := r.lookup(h)
	if !ok {
		return StateFree
	}
	return s.state
}

// Drain admits the insertion queue into the live set in FIFO order as one batch
// Entities destroyed while queued are released without ever becoming live
// Returns the number admitted
func (r *Registry) Drain() int {
	if r.scanning {
		return 0
	}

	admitted := 0
	for _, h := range r.queue {
		s := &r.slots[h.Index()]
		if s.generation != h.Generation() {
			continue
		}
		switch s.state {
		case StateQueued:
			s.state = StateLive
			r.live = append(r.live, h)
			r.liveCount++
			admitted++
		case StatePendingDestroy:
			r.release(h.Index())
		}
	}
	clear(r.queue)
	r.queue = r.queue[:0]
	return admitted
}

// Scan calls fn for every live entity in admission order
// The live bit is checked immediately before each call: an entity destroyed earlier in the
// scan is skipped, and a pending entity is released when the cursor reaches it
// Entities inserted during the scan wait in the queue until the next Drain
func (r *Registry) Scan(fn func(core.Handle, *Entity)) {
	if r.scanning {
		return
	}
	r.scanning = true
	defer func() { r.scanning = false }()

	n := len(r.live)
	for i := 0; i < n; i++ {
		h := r.live[i]
		s := &r.slots[h.Index()]
		if s.generation != h.Generation() {
			continue
		}
		switch s.state {
		case StatePendingDestroy:
			r.release(h.Index())
		case StateLive:
			fn(h, s.entity)
		}
	}
}

// Sweep compacts the live set, releasing any pending entities left behind the scan cursor
// Returns the number released
func (r *Registry) Sweep() int {
	if r.scanning {
		return 0
	}

	before := r.released
	kept := r.live[:0]
	for _, h := range r.live {
		s := &r.slots[h.Index()]
		if s.generation != h.Generation() {
			continue
		}
		switch s.state {
		case StateLive:
			kept = append(kept, h)
		case StatePendingDestroy:
			r.release(h.Index())
		}
	}
	clear(r.live[len(kept):])
	r.live = kept
	return int(r.released - before)
}

// EachLive visits live entities in admission order until fn returns false
// Pending and queued entities are never visited
func (r *Registry) EachLive(fn func(core.Handle, *Entity) bool) {
	for _, h := range r.live {
		s := &r.slots[h.Index()]
		if s.generation != h.Generation() || s.state != StateLive {
			continue
		}
		if !fn(h, s.entity) {
			return
		}
	}
}

func (r *Registry) release(idx uint32) {
	s := &r.slots[idx]
	s.state = StateFree
	s.entity = nil
	r.free = append(r.free, idx)
	r.released++
}

// Len returns the number of live entities
func (r *Registry) Len() int { return r.liveCount }

// Queued returns the number of entities awaiting admission
func (r *Registry) Queued() int {
	n := 0
	for _, h := range r.queue {
		if r.State(h) == StateQueued {
			n++
		}
	}
	return n
}

// Released returns the total number of entities released so far
func (r *Registry) Released() uint64 { return r.released }
