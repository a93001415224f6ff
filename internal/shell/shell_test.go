package shell

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/companion/internal/behavior"
	"github.com/samdwyer/companion/internal/scheduler"
	"github.com/samdwyer/companion/internal/sim"
	"github.com/samdwyer/companion/internal/ui"
)

func newTestShell(t *testing.T) (*Shell, *sim.Core) {
	t.Helper()

	term := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.WrapScreen(term)
	if err != nil {
		t.Fatalf("WrapScreen failed: %v", err)
	}
	term.SetSize(80, 24)
	t.Cleanup(screen.Close)

	geo := ui.DefaultViewport.Geometry(80, 24)
	core := sim.New(sim.DefaultConfig(geo), sim.WithRandom(rand.New(rand.NewSource(12345))))
	driver := scheduler.New(core, scheduler.Config{
		TickInterval:  10 * time.Millisecond,
		FrameInterval: 10 * time.Millisecond,
	})
	return New(screen, ui.DefaultViewport, core, driver, nil), core
}

func TestRightClickTargetsCanvasCentre(t *testing.T) {
	sh, core := newTestShell(t)
	core.Tick(0) // stand up
	ctx := context.Background()

	// Cell (60,21) is at (600,420); the canvas is 20x40
	sh.HandleEvent(ctx, tcell.NewEventMouse(60, 21, tcell.Button2, tcell.ModNone))

	s := core.State()
	if !s.HasTarget || s.TargetX != 590 || s.TargetY != 400 {
		t.Errorf("target = (%v,%v) has=%v, want (590,400)", s.TargetX, s.TargetY, s.HasTarget)
	}
	if s.Mode != behavior.ModeWalk {
		t.Errorf("mode = %s, want walk", s.Mode)
	}
}

func TestRightClickFiresOnPressOnly(t *testing.T) {
	sh, core := newTestShell(t)
	core.Tick(0)
	ctx := context.Background()

	sh.HandleEvent(ctx, tcell.NewEventMouse(60, 21, tcell.Button2, tcell.ModNone))
	// Drag with the button still held
	sh.HandleEvent(ctx, tcell.NewEventMouse(10, 21, tcell.Button2, tcell.ModNone))

	if s := core.State(); s.TargetX != 590 {
		t.Errorf("drag re-targeted to x=%v, want 590", s.TargetX)
	}

	sh.HandleEvent(ctx, tcell.NewEventMouse(10, 21, tcell.ButtonNone, tcell.ModNone))
	sh.HandleEvent(ctx, tcell.NewEventMouse(10, 21, tcell.Button2, tcell.ModNone))
	if s := core.State(); s.TargetX != 90 {
		t.Errorf("second click target x = %v, want 90", s.TargetX)
	}
}

func TestEdgeClickKeepsCanvasOnScreen(t *testing.T) {
	sh, core := newTestShell(t)
	core.Tick(0)

	sh.ClickCell(context.Background(), 0, 21)
	if s := core.State(); s.TargetX != 0 {
		t.Errorf("target x = %v, want 0", s.TargetX)
	}

	sh.ClickCell(context.Background(), 79, 21)
	if s := core.State(); s.TargetX != 780 {
		t.Errorf("target x = %v, want 780", s.TargetX)
	}
}

func TestLeftClickIgnored(t *testing.T) {
	sh, core := newTestShell(t)
	core.Tick(0)

	sh.HandleEvent(context.Background(), tcell.NewEventMouse(60, 21, tcell.Button1, tcell.ModNone))
	if s := core.State(); s.HasTarget {
		t.Error("left click should not set a target")
	}
}

func TestMenuCommands(t *testing.T) {
	sh, core := newTestShell(t)
	core.Tick(0)
	ctx := context.Background()

	sh.HandleCommand(ctx, 's')
	if s := core.State(); s.Mode != behavior.ModeSit || !s.ForcedSit {
		t.Errorf("after 's' mode=%s forced=%v, want forced sit", s.Mode, s.ForcedSit)
	}

	sh.HandleCommand(ctx, 'i')
	if m := core.State().Mode; m != behavior.ModeIdle {
		t.Errorf("after 'i' mode = %s, want idle", m)
	}

	sh.HandleCommand(ctx, 'f')
	if m := core.State().Mode; m != behavior.ModeFly {
		t.Errorf("after 'f' mode = %s, want fly", m)
	}

	sh.HandleCommand(ctx, 'x')
	if !sh.Running() {
		t.Error("unknown command should not quit")
	}
	sh.HandleCommand(ctx, 'q')
	if sh.Running() {
		t.Error("'q' should quit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sh, _ := newTestShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
