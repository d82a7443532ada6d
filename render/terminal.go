package render

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arena/engine"
	"github.com/lixenwraith/arena/physics"
	"github.com/lixenwraith/arena/status"
	"github.com/lixenwraith/arena/vmath"
)

// Default palette
var (
	RgbBackground = tcell.NewRGBColor(10, 10, 14)
	RgbDefault    = tcell.NewRGBColor(200, 200, 200)
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)
	RgbStatusBar  = tcell.NewRGBColor(120, 180, 255)
	RgbLowHealth  = tcell.NewRGBColor(255, 64, 64)
)

// lowHealth is the health fraction below which bodies are drawn in RgbLowHealth
const lowHealth = 0.34

var errNoScreen = errors.New("render: no screen")

// Terminal draws engine frames onto a tcell screen and implements engine.Presenter
type Terminal struct {
	screen tcell.Screen
	cellW  float64
	cellH  float64
	hud    bool
	status *status.Registry
}

// NewTerminal creates a renderer; cellW/cellH are world units per terminal cell
// A nil status registry disables the metric part of the HUD
func NewTerminal(screen tcell.Screen, cellW, cellH float64, hud bool, reg *status.Registry) *Terminal {
	return &Terminal{
		screen: screen,
		cellW:  cellW,
		cellH:  cellH,
		hud:    hud,
		status: reg,
	}
}

// Camera returns the camera for a frame focused on center
func (r *Terminal) Camera(center vmath.Vec2) Camera {
	return Camera{Center: center, CellW: r.cellW, CellH: r.cellH}
}

// Present renders one frame: bodies in order, later items over earlier ones, then the HUD
func (r *Terminal) Present(info engine.FrameInfo, items []engine.Drawable) error {
	if r.screen == nil {
		return errNoScreen
	}
	defaultStyle := tcell.StyleDefault.Background(RgbBackground).Foreground(RgbDefault)
	r.screen.SetStyle(defaultStyle)
	r.screen.Clear()

	cols, rows := r.screen.Size()
	fieldRows := rows
	if r.hud && rows > 1 {
		fieldRows--
	}

	cam := r.Camera(info.Focus)
	for i := range items {
		r.drawItem(&items[i], cam, cols, fieldRows, defaultStyle)
	}

	if r.hud && rows > 1 {
		r.drawStatusBar(info, rows-1, cols)
	}

	r.screen.Show()
	return nil
}

func (r *Terminal) drawItem(d *engine.Drawable, cam Camera, cols, rows int, defaultStyle tcell.Style) {
	glyph := defaultGlyph(d)
	style := defaultStyle
	if d.Visible {
		if d.Sprite.Glyph != 0 {
			glyph = d.Sprite.Glyph
		}
		style = style.Foreground(tcell.NewHexColor(int32(d.Sprite.Color & 0xFFFFFF)))
	}
	if d.Health < lowHealth {
		style = style.Foreground(RgbLowHealth)
	}

	min, max := d.Collider.Bounds(d.Position)
	x0, y0, x1, y1, ok := cam.cellSpan(min, max, cols, rows)
	if !ok {
		return
	}

	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if covers(d, cam.CellCenter(x, y, cols, rows)) {
				r.screen.SetContent(x, y, glyph, nil, style)
				drawn = true
			}
		}
	}

	// Bodies smaller than a cell still occupy the cell holding their center
	if !drawn {
		cx, cy := cam.ToCell(d.Collider.Center(d.Position), cols, rows)
		if cx >= 0 && cy >= 0 && cx < cols && cy < rows {
			r.screen.SetContent(cx, cy, glyph, nil, style)
		}
	}
}

// covers reports whether world point p lies inside the drawable's collider
func covers(d *engine.Drawable, p vmath.Vec2) bool {
	switch d.Collider.Shape() {
	case physics.ShapeCircle:
		radius, _ := d.Collider.Radius()
		return vmath.Distance(p, d.Position) <= radius
	case physics.ShapeBox:
		min, max := d.Collider.Bounds(d.Position)
		return p.X >= min.X && p.X < max.X && p.Y >= min.Y && p.Y < max.Y
	default:
		return false
	}
}

func defaultGlyph(d *engine.Drawable) rune {
	switch d.Kind {
	case engine.KindPlayer:
		return '@'
	case engine.KindProjectile:
		return '*'
	case engine.KindChaser:
		return 'E'
	}
	if d.Collider.Shape() == physics.ShapeBox {
		return '#'
	}
	return 'o'
}

// drawStatusBar draws the HUD line at row y
func (r *Terminal) drawStatusBar(info engine.FrameInfo, y, width int) {
	style := tcell.StyleDefault.Foreground(RgbStatusText).Background(RgbStatusBar)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}

	text := fmt.Sprintf(" frame %d  live %d  queued %d  dt %.1fms ",
		info.Number, info.Live, info.Queued, info.DT*1000)
	if r.status != nil {
		text += fmt.Sprintf(" destroyed %d  blocked %d ",
			r.status.Counter("entities.destroyed").Load(),
			r.status.Counter("moves.blocked").Load())
	}

	x := 0
	for _, ch := range text {
		if x >= width {
			break
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
