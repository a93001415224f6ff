package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/companion/internal/behavior"
	"github.com/samdwyer/companion/internal/sim"
)

func TestViewportGeometry(t *testing.T) {
	geo := DefaultViewport.Geometry(80, 24)

	if geo.ScreenWidth != 800 {
		t.Errorf("ScreenWidth = %v, want 800", geo.ScreenWidth)
	}
	if geo.TaskbarY != 440 {
		t.Errorf("TaskbarY = %v, want 440", geo.TaskbarY)
	}
	if geo.GroundY() != 400 {
		t.Errorf("GroundY() = %v, want 400", geo.GroundY())
	}
}

func TestViewportRoundTrip(t *testing.T) {
	v := DefaultViewport

	x, y := v.ToScreen(12, 7)
	if x != 120 || y != 140 {
		t.Errorf("ToScreen(12,7) = (%v,%v), want (120,140)", x, y)
	}
	col, row := v.ToCell(x+9.9, y+19.9)
	if col != 12 || row != 7 {
		t.Errorf("ToCell = (%d,%d), want (12,7)", col, row)
	}
	col, row = v.ToCell(-0.5, -0.5)
	if col != -1 || row != -1 {
		t.Errorf("ToCell(-0.5,-0.5) = (%d,%d), want (-1,-1)", col, row)
	}
}

func TestFrameCounts(t *testing.T) {
	tests := []struct {
		mode behavior.Mode
		want int
	}{
		{behavior.ModeWalk, 7},
		{behavior.ModeFly, 4},
		{behavior.ModeIdle, 4},
		{behavior.ModeSit, 10},
		{behavior.ModeCircle, 4},
		{behavior.ModeHover, 4},
	}

	for _, tt := range tests {
		if got := FrameCount(tt.mode); got != tt.want {
			t.Errorf("FrameCount(%s) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestGlyphCyclesFrames(t *testing.T) {
	snap := sim.Snapshot{Mode: behavior.ModeWalk, Facing: sim.FacingRight}
	first := Glyph(snap)

	snap.Frame = 7
	if got := Glyph(snap); got != first {
		t.Errorf("frame 7 glyph = %q, want wrap to %q", got, first)
	}

	snap.Facing = sim.FacingLeft
	snap.Frame = 0
	if got := Glyph(snap); got == first {
		t.Errorf("left-facing walk glyph should differ from right-facing %q", first)
	}

	if got := Glyph(sim.Snapshot{Mode: behavior.Mode("bogus")}); got != '?' {
		t.Errorf("unknown mode glyph = %q, want '?'", got)
	}
}

func TestRenderDrawsCharacterOnFloor(t *testing.T) {
	term := tcell.NewSimulationScreen("UTF-8")
	screen, err := WrapScreen(term)
	if err != nil {
		t.Fatalf("WrapScreen failed: %v", err)
	}
	defer screen.Close()
	term.SetSize(80, 24)

	geo := DefaultViewport.Geometry(80, 24)
	r := NewRenderer(screen, DefaultViewport)

	snap := snapshotAt(400, int(geo.GroundY()))
	r.Render(snap, geo)

	col, row := r.CharacterCell(snap, geo)
	if col != 41 || row != 21 {
		t.Fatalf("CharacterCell = (%d,%d), want (41,21)", col, row)
	}

	got, _, _, _ := term.GetContent(col, row)
	if got != Glyph(snap) {
		t.Errorf("cell (%d,%d) = %q, want %q", col, row, got, Glyph(snap))
	}

	bar, _, _, _ := term.GetContent(0, 22)
	if bar != '▀' {
		t.Errorf("taskbar cell = %q, want '▀'", bar)
	}
}

func TestStatusLine(t *testing.T) {
	line := StatusLine(snapshotAt(10, 20))

	for _, want := range []string{"idle", "energy  80", "(10,20)"} {
		if !strings.Contains(line, want) {
			t.Errorf("StatusLine() = %q, missing %q", line, want)
		}
	}
}

func snapshotAt(x, y int) sim.Snapshot {
	return sim.Snapshot{
		Mode:   behavior.ModeIdle,
		Facing: sim.FacingRight,
		X:      x,
		Y:      y,
		Energy: 80,
	}
}
