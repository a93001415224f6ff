package behavior

// Mode is the companion's current behavioral state.
type Mode string

const (
	ModeIdle   Mode = "idle"
	ModeWalk   Mode = "walk"
	ModeFly    Mode = "fly"
	ModeCircle Mode = "circle" // orbiting after a flight, shown as fly
	ModeSit    Mode = "sit"
	ModeHover  Mode = "hover" // airborne idle, shown as idle
)

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// Grounded reports whether the mode keeps the character on the floor.
func (m Mode) Grounded() bool {
	switch m {
	case ModeWalk, ModeSit, ModeIdle:
		return true
	default:
		return false
	}
}

// Airborne reports whether the mode keeps the character off the floor:
// flying, orbiting, or hovering.
func (m Mode) Airborne() bool {
	switch m {
	case ModeFly, ModeCircle, ModeHover:
		return true
	default:
		return false
	}
}

// Display folds internal-only modes into the mode the sprite layer has
// frames for.
func (m Mode) Display() Mode {
	switch m {
	case ModeCircle:
		return ModeFly
	case ModeHover:
		return ModeIdle
	default:
		return m
	}
}

// Event names a discrete stimulus looked up in the transition table.
type Event string

const (
	EventRightClick     Event = "right_click"
	EventTargetReached  Event = "target_reached"
	EventTired          Event = "tired"
	EventRecovered      Event = "recovered"
	EventCircleComplete Event = "circle_complete"
	EventDefault        Event = "default"
)

// String returns the event name.
func (e Event) String() string {
	return string(e)
}
