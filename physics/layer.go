package physics

import (
	"fmt"
	"strings"
)

// Layer is an 8-bit collision category flag set
type Layer uint8

const (
	LayerScenery    Layer = 1 << 0
	LayerPlayer     Layer = 1 << 1
	LayerEnemy      Layer = 1 << 2
	LayerProjectile Layer = 1 << 3

	LayerNone Layer = 0
	LayerAll  Layer = 0xFF
)

var layerNames = map[string]Layer{
	"scenery":    LayerScenery,
	"player":     LayerPlayer,
	"enemy":      LayerEnemy,
	"projectile": LayerProjectile,
	"all":        LayerAll,
	"none":       LayerNone,
}

// ParseLayers folds layer names into a flag set, case-insensitive
func ParseLayers(names []string) (Layer, error) {
	var l Layer
	for _, n := range names {
		bit, ok := layerNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return LayerNone, fmt.Errorf("unknown layer %q", n)
		}
		l |= bit
	}
	return l, nil
}

// CanCollide is the single filtering rule of the engine:
// self considers other a collision candidate iff other's layer intersects self's mask.
// The rule is directional; other's mask is not consulted.
func CanCollide(self, other Collider) bool {
	return other.Layer&self.Mask != 0
}
