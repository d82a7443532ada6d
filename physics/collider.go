// Package physics holds the collider model, the pairwise collision predicate
// and the axis-separated movement resolver
package physics

import (
	"fmt"

	"github.com/lixenwraith/arena/vmath"
)

// Shape discriminates the active collider payload
type Shape uint8

const (
	ShapeCircle Shape = iota + 1
	ShapeBox
)

func (s Shape) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	default:
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
}

// Collider is a tagged shape plus the layer/mask pair used for filtering
// Circles are centered on the entity position
// Boxes are anchored at the entity position and extend toward +x/+y
type Collider struct {
	shape  Shape
	radius float64   // ShapeCircle only
	size   vmath.Vec2 // ShapeBox only

	Layer Layer // categories this collider belongs to
	Mask  Layer // categories this collider's own checks care about
}

// Circle creates a circle collider; radius must be non-negative
func Circle(radius float64, layer, mask Layer) Collider {
	return Collider{shape: ShapeCircle, radius: radius, Layer: layer, Mask: mask}
}

// Box creates an axis-aligned box collider; width and height must be non-negative
func Box(width, height float64, layer, mask Layer) Collider {
	return Collider{shape: ShapeBox, size: vmath.V(width, height), Layer: layer, Mask: mask}
}

func (c Collider) Shape() Shape { return c.shape }

// Radius returns the circle radius, false for boxes
func (c Collider) Radius() (float64, bool) {
	return c.radius, c.shape == ShapeCircle
}

// Size returns the box extents, false for circles
func (c Collider) Size() (vmath.Vec2, bool) {
	return c.size, c.shape == ShapeBox
}

// Center returns the geometric center of the collider placed at pos
func (c Collider) Center(pos vmath.Vec2) vmath.Vec2 {
	switch c.shape {
	case ShapeBox:
		return pos.Add(c.size.Scale(0.5))
	default:
		return pos
	}
}

// Bounds returns the axis-aligned bounding rectangle of the collider placed at pos
func (c Collider) Bounds(pos vmath.Vec2) (min, max vmath.Vec2) {
	switch c.shape {
	case ShapeCircle:
		r := vmath.V(c.radius, c.radius)
		return pos.Sub(r), pos.Add(r)
	case ShapeBox:
		return pos, pos.Add(c.size)
	default:
		return pos, pos
	}
}

// Validate reports malformed extents or a missing shape
// The geometric core never calls it; loaders do
func (c Collider) Validate() error {
	switch c.shape {
	case ShapeCircle:
		if c.radius < 0 {
			return fmt.Errorf("circle radius %v is negative", c.radius)
		}
	case ShapeBox:
		if c.size.X < 0 || c.size.Y < 0 {
			return fmt.Errorf("box size %vx%v has a negative extent", c.size.X, c.size.Y)
		}
	default:
		return fmt.Errorf("unknown collider shape %v", c.shape)
	}
	return nil
}
