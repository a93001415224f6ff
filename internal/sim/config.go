package sim

import "github.com/samdwyer/companion/internal/world"

// Config holds the immutable tuning constants of the simulation.
type Config struct {
	Geometry world.Geometry

	WalkSpeed float64 // pixels per second
	FlySpeed  float64 // pixels per second

	// A right-click whose vertical distance is at most this many pixels is
	// walked to; anything further is flown to.
	WalkClickThreshold float64

	CircleDuration float64 // seconds for one full orbit
	CircleRadius   float64 // pixels

	EnergyDecreaseRate float64 // energy lost per second while walking
	EnergyRecoveryRate float64 // energy gained per two seconds while sitting
	TiredThreshold     float64 // walking below this forces a sit
	RecoveryThreshold  float64 // sitting above this stands up (unless forced)

	// Idle wandering: after a random delay in [WanderMinDelay, WanderMaxDelay]
	// seconds, walk somewhere with probability WanderChance.
	WanderMinDelay float64
	WanderMaxDelay float64
	WanderChance   float64

	FlyUpHeight float64 // pixels climbed by the fly-up override
}

// DefaultConfig returns the stock tuning for the given screen.
func DefaultConfig(geometry world.Geometry) Config {
	return Config{
		Geometry:           geometry,
		WalkSpeed:          160,
		FlySpeed:           300,
		WalkClickThreshold: 75,
		CircleDuration:     5,
		CircleRadius:       50,
		EnergyDecreaseRate: 2,
		EnergyRecoveryRate: 1,
		TiredThreshold:     10,
		RecoveryThreshold:  30,
		WanderMinDelay:     8,
		WanderMaxDelay:     20,
		WanderChance:       0.5,
		FlyUpHeight:        200,
	}
}

const (
	minEnergy = 0.0
	maxEnergy = 100.0

	// arrivalEpsilon absorbs floating-point residue so that a target exactly
	// n increments away is reached on the nth tick.
	arrivalEpsilon = 1e-9

	// timeEpsilon absorbs the rounding of the summed simulation clock so that
	// ticks adding up to the circle duration end the orbit on the last one.
	timeEpsilon = 1e-9
)
