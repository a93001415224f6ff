package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/companion/internal/behavior"
	"github.com/samdwyer/companion/internal/sim"
	"github.com/samdwyer/companion/internal/world"
)

// Renderer handles drawing the companion to the screen.
type Renderer struct {
	screen   *Screen
	viewport Viewport
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, viewport Viewport) *Renderer {
	return &Renderer{screen: screen, viewport: viewport}
}

// Render draws the taskbar, the character, and a status line.
func (r *Renderer) Render(snap sim.Snapshot, geo world.Geometry) {
	r.screen.Clear()
	width, height := r.screen.Size()

	// Taskbar
	_, floorRow := r.viewport.ToCell(0, geo.TaskbarY)
	barStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, floorRow, '▀', barStyle)
	}

	// Character, drawn at the centre of its canvas
	col, row := r.CharacterCell(snap, geo)
	r.screen.SetContent(col, row, Glyph(snap), r.characterStyle(snap))

	r.RenderMessage(StatusLine(snap), height-1)
	r.screen.Show()
}

// CharacterCell returns the cell the character glyph is drawn in.
func (r *Renderer) CharacterCell(snap sim.Snapshot, geo world.Geometry) (int, int) {
	return r.viewport.ToCell(
		float64(snap.X)+geo.CanvasWidth/2,
		float64(snap.Y)+geo.CanvasHeight/2,
	)
}

func (r *Renderer) characterStyle(snap sim.Snapshot) tcell.Style {
	style := tcell.StyleDefault.Bold(true)
	switch snap.Mode {
	case behavior.ModeSit:
		return style.Foreground(tcell.ColorSteelBlue)
	case behavior.ModeFly:
		return style.Foreground(tcell.ColorAqua)
	default:
		return style.Foreground(tcell.ColorOrange)
	}
}

// RenderMessage displays a message on the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

// StatusLine summarizes a snapshot for the bottom row.
func StatusLine(snap sim.Snapshot) string {
	return fmt.Sprintf("%-4s %s  energy %3.0f  frame %-4d  (%d,%d)  [right-click] move  [s]it [i]dle [f]ly [q]uit",
		snap.Mode, snap.Facing, snap.Energy, snap.Frame, snap.X, snap.Y)
}
