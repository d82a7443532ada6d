package core

import "fmt"

// Handle addresses an entity slot in the registry arena
// Low 32 bits hold the slot index, high 32 bits the slot generation
// Generation 0 is never issued, so the zero Handle never resolves
type Handle uint64

// NoHandle is the zero handle, always absent
const NoHandle Handle = 0

// NewHandle packs a slot index and generation
func NewHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h.Generation() == 0 }

func (h Handle) String() string {
	if h.IsZero() {
		return "handle(none)"
	}
	return fmt.Sprintf("handle(%d:%d)", h.Index(), h.Generation())
}
