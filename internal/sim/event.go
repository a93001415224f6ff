package sim

import (
	"math"

	"github.com/samdwyer/companion/internal/behavior"
)

// Event is a stimulus delivered to the core. Context-dependent events carry
// their own resolution logic in the handler; context-free ones are resolved
// through the transition table.
type Event interface {
	name() string
}

// RightClick asks the character to travel to a point. Both coordinates are
// required; a click with a missing or non-finite coordinate is ignored.
type RightClick struct {
	X, Y *float64
}

func (RightClick) name() string { return string(behavior.EventRightClick) }

func (e RightClick) valid() bool {
	return finite(e.X) && finite(e.Y)
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Click builds a RightClick with both coordinates set.
func Click(x, y float64) RightClick {
	return RightClick{X: &x, Y: &y}
}

// Signal is a context-free event looked up in the transition table.
type Signal struct {
	Name behavior.Event
}

func (s Signal) name() string { return string(s.Name) }

// Advance carries elapsed seconds since the previous physics tick.
type Advance struct {
	DT float64
}

func (Advance) name() string { return "tick" }
