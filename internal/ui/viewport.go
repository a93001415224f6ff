package ui

import (
	"math"

	"github.com/samdwyer/companion/internal/world"
)

// Viewport maps terminal cells to the pixel coordinates the simulation
// works in.
type Viewport struct {
	CellWidth  float64 // pixels per column
	CellHeight float64 // pixels per row
}

// DefaultViewport approximates a typical monospace cell.
var DefaultViewport = Viewport{CellWidth: 10, CellHeight: 20}

// Geometry builds the simulated desktop for a terminal of cols×rows cells.
// The last row is the status line and the row above it is the taskbar; the
// character canvas is two cells square.
func (v Viewport) Geometry(cols, rows int) world.Geometry {
	return world.NewGeometry(
		float64(cols)*v.CellWidth,
		float64(max(rows-2, 1))*v.CellHeight,
		2*v.CellWidth,
		2*v.CellHeight,
	)
}

// ToScreen returns the pixel coordinates of a cell's top-left corner.
func (v Viewport) ToScreen(col, row int) (float64, float64) {
	return float64(col) * v.CellWidth, float64(row) * v.CellHeight
}

// ToCell returns the cell containing a pixel.
func (v Viewport) ToCell(x, y float64) (int, int) {
	return int(math.Floor(x / v.CellWidth)), int(math.Floor(y / v.CellHeight))
}
