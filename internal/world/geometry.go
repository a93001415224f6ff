// Package world describes the desktop the companion lives on: the screen
// bounds, the taskbar it stands on, and the size of its sprite canvas.
package world

import "math"

const (
	// DefaultGroundTolerance is how close (in pixels) the anchor must be to
	// the floor to count as standing on it.
	DefaultGroundTolerance = 5.0

	// Canvas size of the full-size sprite frames.
	DefaultCanvasWidth  = 300
	DefaultCanvasHeight = 300
)

// Random is the subset of *rand.Rand used to sample positions.
type Random interface {
	Float64() float64
}

// Geometry holds screen and canvas dimensions in screen pixels. The anchor
// of the character is the top-left corner of its canvas.
type Geometry struct {
	ScreenWidth     float64
	TaskbarY        float64 // top edge of the taskbar, i.e. the floor line
	CanvasWidth     float64
	CanvasHeight    float64
	GroundTolerance float64
}

// NewGeometry creates a geometry with the default ground tolerance.
func NewGeometry(screenWidth, taskbarY, canvasWidth, canvasHeight float64) Geometry {
	return Geometry{
		ScreenWidth:     screenWidth,
		TaskbarY:        taskbarY,
		CanvasWidth:     canvasWidth,
		CanvasHeight:    canvasHeight,
		GroundTolerance: DefaultGroundTolerance,
	}
}

// GroundY returns the anchor y at which the canvas rests on the taskbar.
func (g Geometry) GroundY() float64 {
	return g.TaskbarY - g.CanvasHeight
}

// OnGround returns true if y is within the ground tolerance of the floor.
func (g Geometry) OnGround(y float64) bool {
	return math.Abs(y-g.GroundY()) < g.GroundTolerance
}

// MaxX returns the largest anchor x that keeps the canvas on screen.
func (g Geometry) MaxX() float64 {
	return math.Max(0, g.ScreenWidth-g.CanvasWidth)
}

// Start returns the initial anchor: centred on the taskbar.
func (g Geometry) Start() (float64, float64) {
	return math.Floor(g.ScreenWidth/2) - math.Floor(g.CanvasWidth/2), g.GroundY()
}

// RandomFloorPoint returns a uniformly random anchor on the floor that keeps
// the canvas within the screen.
func (g Geometry) RandomFloorPoint(rng Random) (float64, float64) {
	return rng.Float64() * g.MaxX(), g.GroundY()
}

// ClampX keeps x within the horizontal screen bounds.
func (g Geometry) ClampX(x float64) float64 {
	return math.Min(math.Max(x, 0), g.MaxX())
}
