package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/samdwyer/companion/internal/behavior"
)

// Tick advances the continuous simulation by dt seconds and reports whether
// the mode changed at any point during the tick. Negative and non-finite
// deltas are treated as zero. Large finite deltas are applied as-is; callers
// guard against pauses.
func (c *Core) Tick(dt float64) bool {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock += dt

	changed := c.updateEnergy(dt)

	switch {
	case c.mode == behavior.ModeWalk || c.mode == behavior.ModeFly:
		if c.target != nil {
			changed = c.moveTowardTarget(dt) || changed
		}
	case c.mode == behavior.ModeCircle && c.orbit != nil:
		changed = c.followOrbit() || changed
	}

	c.clampToGround()

	changed = c.wander(dt) || changed
	return changed
}

// updateEnergy drains energy while walking and restores it while sitting.
func (c *Core) updateEnergy(dt float64) bool {
	switch c.mode {
	case behavior.ModeWalk:
		c.energy = math.Max(minEnergy, c.energy-c.cfg.EnergyDecreaseRate*dt)
		if c.energy < c.cfg.TiredThreshold {
			return c.setMode(behavior.ModeSit, string(behavior.EventTired))
		}
	case behavior.ModeSit:
		c.energy = math.Min(maxEnergy, c.energy+c.cfg.EnergyRecoveryRate*(dt/2))
		if c.energy > c.cfg.RecoveryThreshold && !c.forcedSit {
			return c.setMode(behavior.ModeIdle, string(behavior.EventRecovered))
		}
	}
	return false
}

// moveTowardTarget steps along the straight line to the target, or lands on
// it exactly when this tick's increment covers the remaining distance.
func (c *Core) moveTowardTarget(dt float64) bool {
	speed := c.cfg.WalkSpeed
	if c.mode == behavior.ModeFly {
		speed = c.cfg.FlySpeed
	}
	increment := speed * dt

	delta := c.target.Sub(c.pos)
	distance := delta.Len()

	if distance > increment+arrivalEpsilon {
		c.pos = c.pos.Add(delta.Mul(increment / distance))
		c.facing = facingToward(delta.X())
		return false
	}

	c.pos = *c.target
	c.target = nil

	if c.mode == behavior.ModeFly {
		return c.setMode(behavior.ModeCircle, string(behavior.EventTargetReached))
	}
	return c.setMode(c.restingMode(), string(behavior.EventTargetReached))
}

// followOrbit places the character on the circle for the elapsed orbit time
// and ends the orbit once a full revolution has been flown.
func (c *Core) followOrbit() bool {
	elapsed := c.clock - c.orbit.start
	if elapsed+timeEpsilon >= c.cfg.CircleDuration {
		return c.setMode(behavior.ModeIdle, string(behavior.EventCircleComplete))
	}

	angle := elapsed / c.cfg.CircleDuration * 2 * math.Pi
	cos, sin := math.Cos(angle), math.Sin(angle)
	c.pos = c.orbit.center.Add(mgl64.Vec2{cos, sin}.Mul(c.cfg.CircleRadius))
	c.facing = FacingRight
	if cos < 0 {
		c.facing = FacingLeft
	}
	return false
}

// clampToGround snaps grounded modes onto the floor when they are already
// within tolerance of it. A walk toward an off-floor target is left alone so
// that short steps can leave the ground.
func (c *Core) clampToGround() {
	if !c.mode.Grounded() {
		return
	}
	geo := c.cfg.Geometry
	if !geo.OnGround(c.pos.Y()) {
		return
	}
	if c.mode == behavior.ModeWalk && c.target != nil && !geo.OnGround(c.target.Y()) {
		return
	}
	c.pos[1] = geo.GroundY()
}

// wander occasionally sends an idle character for a walk to a random spot on
// the floor.
func (c *Core) wander(dt float64) bool {
	if c.mode != behavior.ModeIdle {
		c.idleElapsed = 0
		return false
	}

	c.idleElapsed += dt
	if c.idleElapsed <= c.wanderAfter {
		return false
	}

	c.idleElapsed = 0
	c.wanderAfter = c.drawWanderDelay()
	if c.rng.Float64() >= c.cfg.WanderChance {
		return false
	}

	x, y := c.cfg.Geometry.RandomFloorPoint(c.rng)
	dest := mgl64.Vec2{x, y}
	changed := c.setMode(behavior.ModeWalk, "wander")
	c.target = &dest
	c.facing = facingToward(dest.X() - c.pos.X())
	return changed
}
