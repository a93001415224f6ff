package bridge

import (
	"errors"
	"fmt"

	"github.com/samdwyer/companion/internal/behavior"
	"github.com/samdwyer/companion/internal/sim"
)

// Command types accepted from clients.
const (
	CommandRightClick = "right_click"
	CommandSit        = "sit"
	CommandStand      = "stand"
	CommandFly        = "fly"
	CommandEvent      = "event"
)

// Message types sent to clients.
const (
	MessageSnapshot = "snapshot"
	MessageAck      = "ack"
	MessageError    = "error"
)

// Snapshot reasons.
const (
	ReasonInitial = "initial"
	ReasonMode    = "mode"
	ReasonFrame   = "frame"
)

var errUnknownCommand = errors.New("unknown command")

// command is a client request. X and Y are pointers so that a click with a
// missing coordinate reaches the core as such and is ignored there.
type command struct {
	Type string   `json:"type"`
	X    *float64 `json:"x,omitempty"`
	Y    *float64 `json:"y,omitempty"`
	Name string   `json:"name,omitempty"`
}

type snapshotMessage struct {
	Type   string       `json:"type"`
	Reason string       `json:"reason"`
	State  sim.Snapshot `json:"state"`
}

type ackMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Changed bool   `json:"changed"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// toEvent maps table-driven command names onto sim signals.
func (c command) toEvent() (sim.Event, error) {
	switch c.Type {
	case CommandRightClick:
		return sim.RightClick{X: c.X, Y: c.Y}, nil
	case CommandEvent:
		switch ev := behavior.Event(c.Name); ev {
		case behavior.EventTired, behavior.EventRecovered,
			behavior.EventCircleComplete, behavior.EventTargetReached:
			return sim.Signal{Name: ev}, nil
		default:
			return nil, fmt.Errorf("%w: event %q", errUnknownCommand, c.Name)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCommand, c.Type)
	}
}
