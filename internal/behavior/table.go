package behavior

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Choice is a transition table entry: either a single next mode or a list of
// candidates that the caller resolves with contextual data.
type Choice struct {
	options []Mode
}

// Single returns the next mode if the entry is unambiguous.
func (c Choice) Single() (Mode, bool) {
	if len(c.options) != 1 {
		return "", false
	}
	return c.options[0], true
}

// Options returns every candidate mode in table order.
func (c Choice) Options() []Mode {
	out := make([]Mode, len(c.options))
	copy(out, c.options)
	return out
}

// Multi reports whether the entry lists more than one candidate.
func (c Choice) Multi() bool {
	return len(c.options) > 1
}

// UnmarshalJSON accepts either "mode" or ["mode", "mode"].
func (c *Choice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var modes []Mode
		if err := json.Unmarshal(data, &modes); err != nil {
			return err
		}
		if len(modes) == 0 {
			return errors.New("empty choice list")
		}
		c.options = modes
		return nil
	}

	var mode Mode
	if err := json.Unmarshal(data, &mode); err != nil {
		return err
	}
	if mode == "" {
		return errors.New("empty mode")
	}
	c.options = []Mode{mode}
	return nil
}

// MarshalJSON writes single entries as a string and multi-choice entries as
// a list, matching the embedded file.
func (c Choice) MarshalJSON() ([]byte, error) {
	if m, ok := c.Single(); ok {
		return json.Marshal(m)
	}
	return json.Marshal(c.options)
}

// Table maps (mode, event) to the next mode. Lookups never fail: a missing
// event falls back to the mode's default entry, and a missing default means
// the mode stays where it is.
type Table struct {
	entries map[Mode]map[Event]Choice
}

// ParseTable decodes a transition table from JSON.
func ParseTable(data []byte) (*Table, error) {
	var entries map[Mode]map[Event]Choice
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse transition table: %w", err)
	}
	return newTable(entries)
}

// tableFile is the embedded default transition table.
const tableFile = "transitions.json"

// LoadTable loads the embedded transitions.json.
func LoadTable() (*Table, error) {
	entries, err := Load[map[Mode]map[Event]Choice](tableFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load transition table: %w", err)
	}
	return newTable(entries)
}

// MustLoadTable loads the embedded table, panicking on error.
func MustLoadTable() *Table {
	table, err := LoadTable()
	if err != nil {
		panic(err)
	}
	return table
}

func newTable(entries map[Mode]map[Event]Choice) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("no modes defined in transition table")
	}
	return &Table{entries: entries}, nil
}

// Next returns the table entry for event under mode.
func (t *Table) Next(mode Mode, event Event) Choice {
	transitions := t.entries[mode]
	if choice, ok := transitions[event]; ok {
		return choice
	}
	if choice, ok := transitions[EventDefault]; ok {
		return choice
	}
	return Choice{options: []Mode{mode}}
}

// Resolve returns the next mode for a context-free event. Multi-choice
// entries resolve to their first option; callers that have context to pick
// between options should use Next instead.
func (t *Table) Resolve(mode Mode, event Event) Mode {
	choice := t.Next(mode, event)
	if len(choice.options) == 0 {
		return mode
	}
	return choice.options[0]
}

// Modes returns the number of modes with explicit entries.
func (t *Table) Modes() int {
	return len(t.entries)
}

// MarshalJSON serializes the table in the embedded file's shape.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.entries)
}
