// Package sim implements the companion's behavior simulation: a tick-driven
// state machine owning position, facing, animation frame, energy, and the
// transitions between behavioral modes.
package sim

import (
	"context"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/companion/internal/behavior"
	"github.com/samdwyer/companion/internal/telemetry"
)

// Random is the source of randomness for idle wandering. *rand.Rand
// satisfies it; tests can supply a scripted source.
type Random interface {
	Float64() float64
}

// orbit is the centre and start time (simulation seconds) of a circle flight.
type orbit struct {
	center mgl64.Vec2
	start  float64
}

// Core owns the simulation state. All methods are safe for concurrent use;
// every operation is serialized behind a single mutex so that position and
// mode are always observed together.
type Core struct {
	mu sync.Mutex

	cfg    Config
	table  *behavior.Table
	rng    Random
	log    logrus.FieldLogger
	tracer trace.Tracer

	pos       mgl64.Vec2
	mode      behavior.Mode
	facing    Facing
	frame     uint64
	target    *mgl64.Vec2
	orbit     *orbit
	energy    float64
	forcedSit bool

	idleElapsed float64
	wanderAfter float64 // current randomly drawn idle delay
	clock       float64 // simulation seconds, sum of all tick deltas
}

// Option configures optional collaborators of a Core.
type Option func(*Core)

// WithRandom sets the random source used for idle wandering.
func WithRandom(rng Random) Option {
	return func(c *Core) { c.rng = rng }
}

// WithLogger sets the logger used to report transitions.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Core) { c.log = log }
}

// WithTracer sets the tracer used for discrete events and overrides.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Core) { c.tracer = tracer }
}

// WithTable replaces the embedded transition table.
func WithTable(table *behavior.Table) Option {
	return func(c *Core) { c.table = table }
}

// New creates a core sitting at the start position with full energy.
func New(cfg Config, opts ...Option) *Core {
	x, y := cfg.Geometry.Start()
	c := &Core{
		cfg:    cfg,
		pos:    mgl64.Vec2{x, y},
		mode:   behavior.ModeSit,
		facing: FacingRight,
		energy: maxEnergy,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.table == nil {
		c.table = behavior.MustLoadTable()
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.log == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		c.log = discard
	}
	if c.tracer == nil {
		c.tracer = telemetry.Tracer("sim")
	}

	c.wanderAfter = c.drawWanderDelay()
	return c
}

// HandleEvent applies an event and reports whether the mode changed.
func (c *Core) HandleEvent(ctx context.Context, ev Event) bool {
	if adv, ok := ev.(Advance); ok {
		return c.Tick(adv.DT)
	}

	_, span := c.tracer.Start(ctx, "sim."+ev.name())
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.mode
	var changed bool
	switch ev := ev.(type) {
	case RightClick:
		if !ev.valid() {
			span.SetAttributes(attribute.Bool("sim.ignored", true))
			return false
		}
		changed = c.travelTo(mgl64.Vec2{*ev.X, *ev.Y}, ev.name())
	case Signal:
		changed = c.setMode(c.table.Resolve(c.mode, ev.Name), ev.name())
	}

	span.SetAttributes(
		attribute.String("sim.mode_from", from.String()),
		attribute.String("sim.mode_to", c.mode.String()),
		attribute.Bool("sim.changed", changed),
	)
	return changed
}

// travelTo sets a destination and picks walking or flying from the vertical
// distance to it. Must be called with the lock held.
func (c *Core) travelTo(dest mgl64.Vec2, cause string) bool {
	next := behavior.ModeFly
	if math.Abs(dest.Y()-c.pos.Y()) <= c.cfg.WalkClickThreshold {
		next = behavior.ModeWalk
	}

	changed := c.setMode(next, cause)
	c.target = &dest
	c.orbit = nil
	c.facing = facingToward(dest.X() - c.pos.X())
	return changed
}

// ForceSit sits down on request. Recovery still accrues while sitting, but
// the character stays seated until released by ForceStand or a click. It is
// refused while already sitting or while airborne.
func (c *Core) ForceSit(ctx context.Context) bool {
	return c.override(ctx, "force_sit", func() bool {
		if c.mode == behavior.ModeSit || c.mode.Airborne() {
			return false
		}
		changed := c.setMode(behavior.ModeSit, "force_sit")
		c.forcedSit = true
		return changed
	})
}

// ForceStand stands up from sitting, or stops a flight in place.
func (c *Core) ForceStand(ctx context.Context) bool {
	return c.override(ctx, "force_stand", func() bool {
		switch c.mode {
		case behavior.ModeSit:
			c.forcedSit = false
			return c.setMode(behavior.ModeIdle, "force_stand")
		case behavior.ModeFly, behavior.ModeCircle:
			return c.setMode(c.restingMode(), "force_stand")
		default:
			return false
		}
	})
}

// FlyUp takes off straight up by the configured height.
func (c *Core) FlyUp(ctx context.Context) bool {
	return c.override(ctx, "fly_up", func() bool {
		dest := c.pos.Sub(mgl64.Vec2{0, c.cfg.FlyUpHeight})
		return c.travelTo(dest, "fly_up")
	})
}

func (c *Core) override(ctx context.Context, name string, apply func() bool) bool {
	_, span := c.tracer.Start(ctx, "sim."+name)
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.mode
	changed := apply()
	span.SetAttributes(
		attribute.String("sim.mode_from", from.String()),
		attribute.String("sim.mode_to", c.mode.String()),
		attribute.Bool("sim.changed", changed),
	)
	return changed
}

// AdvanceFrame moves the animation cursor forward by one frame.
func (c *Core) AdvanceFrame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame++
}

// setMode performs a mode transition and keeps the auxiliary state matched
// to the new mode. Must be called with the lock held.
func (c *Core) setMode(to behavior.Mode, cause string) bool {
	if to == c.mode {
		return false
	}

	from := c.mode
	c.mode = to
	c.frame = 0
	c.idleElapsed = 0

	if to != behavior.ModeWalk && to != behavior.ModeFly {
		c.target = nil
	}
	if to == behavior.ModeCircle {
		c.orbit = &orbit{center: c.pos, start: c.clock}
	} else {
		c.orbit = nil
	}
	if from == behavior.ModeSit {
		c.forcedSit = false
	}

	c.log.WithFields(logrus.Fields{
		"from":   from,
		"to":     to,
		"cause":  cause,
		"energy": c.energy,
	}).Debug("mode changed")
	return true
}

// restingMode is where the character ends up when it stops moving at its
// current position.
func (c *Core) restingMode() behavior.Mode {
	if c.cfg.Geometry.OnGround(c.pos.Y()) {
		return behavior.ModeIdle
	}
	return behavior.ModeHover
}

func (c *Core) drawWanderDelay() float64 {
	span := c.cfg.WanderMaxDelay - c.cfg.WanderMinDelay
	if span <= 0 {
		return c.cfg.WanderMinDelay
	}
	return c.cfg.WanderMinDelay + c.rng.Float64()*span
}
