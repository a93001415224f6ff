// Package scheduler drives the simulation from two independent timers: one
// pacing physics, the other pacing sprite animation.
package scheduler

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/companion/internal/sim"
)

// Listener is notified after the simulation changes in a way that may need
// a redraw.
type Listener interface {
	ModeChanged(snap sim.Snapshot)
	FrameAdvanced(snap sim.Snapshot)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnModeChanged   func(sim.Snapshot)
	OnFrameAdvanced func(sim.Snapshot)
}

func (l ListenerFuncs) ModeChanged(snap sim.Snapshot) {
	if l.OnModeChanged != nil {
		l.OnModeChanged(snap)
	}
}

func (l ListenerFuncs) FrameAdvanced(snap sim.Snapshot) {
	if l.OnFrameAdvanced != nil {
		l.OnFrameAdvanced(snap)
	}
}

// Config holds timer settings.
type Config struct {
	TickInterval  time.Duration
	FrameInterval time.Duration
	// MaxDelta caps the elapsed time applied in one tick so that a long
	// pause (suspend, debugger) does not teleport the character.
	MaxDelta time.Duration

	Now    func() time.Time
	Logger logrus.FieldLogger
}

// Driver feeds elapsed time and frame advances into a sim.Core.
type Driver struct {
	core *sim.Core
	cfg  Config
	log  logrus.FieldLogger

	mu        sync.Mutex
	listeners []Listener
	last      time.Time
}

// New creates a driver for core.
func New(core *sim.Core, cfg Config) *Driver {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	log := cfg.Logger
	if log == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		log = discard
	}
	return &Driver{
		core: core,
		cfg:  cfg,
		log:  log,
	}
}

// AddListener registers l for change notifications.
func (d *Driver) AddListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// Run ticks the simulation until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) error {
	physics := time.NewTicker(d.cfg.TickInterval)
	defer physics.Stop()
	animation := time.NewTicker(d.cfg.FrameInterval)
	defer animation.Stop()

	d.mu.Lock()
	d.last = d.cfg.Now()
	d.mu.Unlock()

	d.log.WithFields(logrus.Fields{
		"tick":  d.cfg.TickInterval,
		"frame": d.cfg.FrameInterval,
	}).Info("scheduler started")

	for {
		select {
		case <-ctx.Done():
			d.log.Info("scheduler stopped")
			return nil
		case <-physics.C:
			d.Step(d.elapsed())
		case <-animation.C:
			d.Frame()
		}
	}
}

// elapsed returns the time since the previous physics tick.
func (d *Driver) elapsed() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.cfg.Now()
	dt := now.Sub(d.last)
	d.last = now
	return dt
}

// Step applies dt to the simulation and notifies listeners if the mode
// changed. It reports whether it did.
func (d *Driver) Step(dt time.Duration) bool {
	if d.cfg.MaxDelta > 0 && dt > d.cfg.MaxDelta {
		d.log.WithFields(logrus.Fields{
			"dt":  dt,
			"max": d.cfg.MaxDelta,
		}).Warn("clamping long tick")
		dt = d.cfg.MaxDelta
	}

	if !d.core.Tick(dt.Seconds()) {
		return false
	}

	snap := d.core.Snapshot()
	for _, l := range d.snapshotListeners() {
		l.ModeChanged(snap)
	}
	return true
}

// Frame advances the animation by one frame and notifies listeners.
func (d *Driver) Frame() {
	d.core.AdvanceFrame()

	snap := d.core.Snapshot()
	for _, l := range d.snapshotListeners() {
		l.FrameAdvanced(snap)
	}
}

func (d *Driver) snapshotListeners() []Listener {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Listener, len(d.listeners))
	copy(out, d.listeners)
	return out
}
