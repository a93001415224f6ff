// Package shell hosts the companion in a terminal: it turns mouse and key
// input into simulation events and redraws whenever the simulation reports
// a visible change.
package shell

import (
	"context"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/companion/internal/scheduler"
	"github.com/samdwyer/companion/internal/sim"
	"github.com/samdwyer/companion/internal/telemetry"
	"github.com/samdwyer/companion/internal/ui"
)

// Shell holds the terminal host state.
type Shell struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	viewport ui.Viewport
	core     *sim.Core
	driver   *scheduler.Driver
	log      logrus.FieldLogger

	running   bool
	rightDown bool
}

// New creates a shell around an initialized screen. The core's geometry
// should come from viewport.Geometry for the screen's size.
func New(screen *ui.Screen, viewport ui.Viewport, core *sim.Core, driver *scheduler.Driver, log logrus.FieldLogger) *Shell {
	if log == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		log = discard
	}
	return &Shell{
		screen:   screen,
		renderer: ui.NewRenderer(screen, viewport),
		viewport: viewport,
		core:     core,
		driver:   driver,
		log:      log,
		running:  true,
	}
}

// Run starts the timers and processes input until the user quits or ctx is
// cancelled. The caller owns the screen and closes it afterwards.
func (s *Shell) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("shell")
	_, initSpan := tracer.Start(ctx, "shell.init")
	cols, rows := s.screen.Size()
	initSpan.SetAttributes(
		attribute.Int("terminal.cols", cols),
		attribute.Int("terminal.rows", rows),
	)
	initSpan.End()

	wake := func(sim.Snapshot) { s.screen.Wake() }
	s.driver.AddListener(scheduler.ListenerFuncs{
		OnModeChanged:   wake,
		OnFrameAdvanced: wake,
	})

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- s.driver.Run(ctx) }()

	// Unblock PollEvent when the caller cancels
	go func() {
		<-ctx.Done()
		s.screen.Wake()
	}()

	for s.running && ctx.Err() == nil {
		s.renderer.Render(s.core.Snapshot(), s.core.Config().Geometry)
		s.HandleEvent(ctx, s.screen.PollEvent())
	}

	cancel()
	return <-done
}

// HandleEvent processes a single terminal event.
func (s *Shell) HandleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		s.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		s.handleMouseEvent(ctx, ev)
	case *tcell.EventResize:
		s.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (s *Shell) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.running = false
	case tcell.KeyRune:
		s.HandleCommand(ctx, ev.Rune())
	}
}

// HandleCommand applies a single-letter menu command.
func (s *Shell) HandleCommand(ctx context.Context, r rune) {
	var changed bool
	switch r {
	case 'q', 'Q':
		s.running = false
		return
	case 's', 'S':
		changed = s.core.ForceSit(ctx)
	case 'i', 'I':
		changed = s.core.ForceStand(ctx)
	case 'f', 'F':
		changed = s.core.FlyUp(ctx)
	default:
		return
	}
	s.log.WithFields(logrus.Fields{"command": string(r), "changed": changed}).Debug("menu command")
}

// handleMouseEvent sends the character toward a right-click. Only the press
// edge counts, so dragging with the button held does not re-target.
func (s *Shell) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button2 != 0
	if pressed && !s.rightDown {
		col, row := ev.Position()
		s.ClickCell(ctx, col, row)
	}
	s.rightDown = pressed
}

// ClickCell right-clicks the centre of the character's canvas onto a cell.
// Clicks near the screen edge are pulled in so the canvas stays visible.
func (s *Shell) ClickCell(ctx context.Context, col, row int) bool {
	geo := s.core.Config().Geometry
	x, y := s.viewport.ToScreen(col, row)
	x = geo.ClampX(x - geo.CanvasWidth/2)
	return s.core.HandleEvent(ctx, sim.Click(x, y-geo.CanvasHeight/2))
}

// Running reports whether the shell is still accepting input.
func (s *Shell) Running() bool {
	return s.running
}
