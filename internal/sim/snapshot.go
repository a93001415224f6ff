package sim

import (
	"math"

	"github.com/samdwyer/companion/internal/behavior"
)

// Facing is the horizontal direction the character looks in.
type Facing string

const (
	FacingLeft  Facing = "L"
	FacingRight Facing = "R"
)

// facingToward returns Left for negative dx, Right otherwise.
func facingToward(dx float64) Facing {
	if dx < 0 {
		return FacingLeft
	}
	return FacingRight
}

// Snapshot is the read-only view handed to the rendering and speech layers.
type Snapshot struct {
	Mode   behavior.Mode `json:"mode"` // display mode
	Facing Facing        `json:"facing"`
	Frame  uint64        `json:"frame"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Energy float64       `json:"energy"`
}

// Snapshot returns a consistent copy of the externally visible state.
func (c *Core) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Mode:   c.mode.Display(),
		Facing: c.facing,
		Frame:  c.frame,
		X:      int(math.Round(c.pos.X())),
		Y:      int(math.Round(c.pos.Y())),
		Energy: c.energy,
	}
}

// State is the full internal state, including modes the sprite layer never
// sees. It exists for diagnostics and tests.
type State struct {
	Mode        behavior.Mode
	Facing      Facing
	Frame       uint64
	X, Y        float64
	Energy      float64
	ForcedSit   bool
	IdleElapsed float64

	HasTarget        bool
	TargetX, TargetY float64

	HasOrbit       bool
	OrbitX, OrbitY float64
	OrbitStart     float64
}

// State returns a consistent copy of the full internal state.
func (c *Core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Mode:        c.mode,
		Facing:      c.facing,
		Frame:       c.frame,
		X:           c.pos.X(),
		Y:           c.pos.Y(),
		Energy:      c.energy,
		ForcedSit:   c.forcedSit,
		IdleElapsed: c.idleElapsed,
	}
	if c.target != nil {
		s.HasTarget = true
		s.TargetX, s.TargetY = c.target.X(), c.target.Y()
	}
	if c.orbit != nil {
		s.HasOrbit = true
		s.OrbitX, s.OrbitY = c.orbit.center.X(), c.orbit.center.Y()
		s.OrbitStart = c.orbit.start
	}
	return s
}

// Config returns the configuration the core was built with.
func (c *Core) Config() Config {
	return c.cfg
}
