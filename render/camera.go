// Package render draws engine frames onto a tcell screen
package render

import (
	"math"

	"github.com/lixenwraith/arena/vmath"
)

// Camera maps world units to terminal cells around an explicit center
// It is rebuilt every frame from the focus position, nothing in the engine holds it
type Camera struct {
	Center vmath.Vec2
	CellW  float64 // world units per column
	CellH  float64 // world units per row
}

// Origin returns the world position of the top-left corner of a cols x rows viewport
func (c Camera) Origin(cols, rows int) vmath.Vec2 {
	return vmath.V(
		c.Center.X-float64(cols)*c.CellW/2,
		c.Center.Y-float64(rows)*c.CellH/2,
	)
}

// ToCell returns the cell containing world point p; the result may lie off screen
func (c Camera) ToCell(p vmath.Vec2, cols, rows int) (int, int) {
	o := c.Origin(cols, rows)
	return int(math.Floor((p.X - o.X) / c.CellW)), int(math.Floor((p.Y - o.Y) / c.CellH))
}

// CellCenter returns the world position at the center of cell (x, y)
func (c Camera) CellCenter(x, y, cols, rows int) vmath.Vec2 {
	o := c.Origin(cols, rows)
	return vmath.V(o.X+(float64(x)+0.5)*c.CellW, o.Y+(float64(y)+0.5)*c.CellH)
}

// cellSpan returns the clipped cell rectangle covering world bounds [min, max]
// ok is false when the rectangle lies entirely off screen
func (c Camera) cellSpan(min, max vmath.Vec2, cols, rows int) (x0, y0, x1, y1 int, ok bool) {
	x0, y0 = c.ToCell(min, cols, rows)
	x1, y1 = c.ToCell(max, cols, rows)
	if x1 < 0 || y1 < 0 || x0 >= cols || y0 >= rows {
		return 0, 0, 0, 0, false
	}
	return clampInt(x0, 0, cols-1), clampInt(y0, 0, rows-1), clampInt(x1, 0, cols-1), clampInt(y1, 0, rows-1), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
