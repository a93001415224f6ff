package ui

import (
	"github.com/samdwyer/companion/internal/behavior"
	"github.com/samdwyer/companion/internal/sim"
)

// sprite holds one animation's frames for each facing.
type sprite struct {
	right []rune
	left  []rune
}

// sprites are keyed by display mode: run 7 frames, fly 4, idle 4, sit 10.
var sprites = map[behavior.Mode]sprite{
	behavior.ModeWalk: {
		right: []rune(">}>)>}>"),
		left:  []rune("<{<(<{<"),
	},
	behavior.ModeFly: {
		right: []rune("^'^`"),
		left:  []rune("^`^'"),
	},
	behavior.ModeIdle: {
		right: []rune("oooO"),
		left:  []rune("oooO"),
	},
	behavior.ModeSit: {
		right: []rune("mmmmmmmmnm"),
		left:  []rune("mmmmmmmmnm"),
	},
}

// FrameCount returns the number of animation frames for a display mode.
func FrameCount(mode behavior.Mode) int {
	return len(sprites[mode.Display()].right)
}

// Glyph picks the rune to draw for a snapshot. The frame cursor is
// interpreted modulo the animation length.
func Glyph(snap sim.Snapshot) rune {
	sp, ok := sprites[snap.Mode.Display()]
	if !ok {
		return '?'
	}
	frames := sp.right
	if snap.Facing == sim.FacingLeft {
		frames = sp.left
	}
	return frames[snap.Frame%uint64(len(frames))]
}
