package physics

import (
	"math"

	"github.com/lixenwraith/arena/vmath"
)

// CheckCollision tests two placed shapes for overlap
// Pure geometry: layers, masks and identity are ignored
//
// Box vs box overlap is strict, touching edges do not collide
// Circle tests are boundary-inclusive
func CheckCollision(posA vmath.Vec2, a Collider, posB vmath.Vec2, b Collider) bool {
	switch a.shape {
	case ShapeBox:
		switch b.shape {
		case ShapeBox:
			return boxBox(posA, a.size, posB, b.size)
		case ShapeCircle:
			return circleBox(posB, b.radius, posA, a.size)
		}
	case ShapeCircle:
		switch b.shape {
		case ShapeCircle:
			return circleCircle(posA, a.radius, posB, b.radius)
		case ShapeBox:
			return circleBox(posA, a.radius, posB, b.size)
		}
	}
	// Unreachable with well-formed colliders
	return false
}

func boxBox(posA, sizeA, posB, sizeB vmath.Vec2) bool {
	return posA.X < posB.X+sizeB.X &&
		posA.X+sizeA.X > posB.X &&
		posA.Y < posB.Y+sizeB.Y &&
		posA.Y+sizeA.Y > posB.Y
}

func circleCircle(centerA vmath.Vec2, radiusA float64, centerB vmath.Vec2, radiusB float64) bool {
	return vmath.Distance(centerA, centerB) <= radiusA+radiusB
}

// circleBox clamps the circle center onto the box to find the closest point
func circleBox(center vmath.Vec2, radius float64, boxPos, boxSize vmath.Vec2) bool {
	closest := vmath.V(
		vmath.Clamp(center.X, boxPos.X, boxPos.X+boxSize.X),
		vmath.Clamp(center.Y, boxPos.Y, boxPos.Y+boxSize.Y),
	)
	return math.Hypot(center.X-closest.X, center.Y-closest.Y) <= radius
}
