package behavior

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestLoadTable(t *testing.T) {
	table, err := LoadTable()
	if err != nil {
		t.Fatalf("Failed to load table: %v", err)
	}

	if table.Modes() != 5 {
		t.Errorf("Expected 5 modes, got %d", table.Modes())
	}
}

func TestTableResolve(t *testing.T) {
	table := MustLoadTable()

	tests := []struct {
		mode  Mode
		event Event
		want  Mode
	}{
		{ModeIdle, EventTired, ModeSit},
		{ModeWalk, EventTargetReached, ModeIdle},
		{ModeWalk, EventTired, ModeSit},
		{ModeFly, EventTargetReached, ModeCircle},
		{ModeCircle, EventCircleComplete, ModeIdle},
		{ModeSit, EventRecovered, ModeIdle},

		// Unlisted events fall through to the default self-loop
		{ModeSit, EventTired, ModeSit},
		{ModeIdle, EventRecovered, ModeIdle},
		{ModeFly, EventTired, ModeFly},
		{ModeCircle, EventTargetReached, ModeCircle},

		// Modes without an entry stay put
		{ModeHover, EventTired, ModeHover},
		{Mode("bogus"), Event("bogus"), Mode("bogus")},
	}

	for _, tt := range tests {
		got := table.Resolve(tt.mode, tt.event)
		if got != tt.want {
			t.Errorf("Resolve(%s, %s) = %s, want %s", tt.mode, tt.event, got, tt.want)
		}
	}
}

func TestRightClickIsMultiChoice(t *testing.T) {
	table := MustLoadTable()

	for _, mode := range []Mode{ModeIdle, ModeWalk, ModeFly, ModeCircle, ModeSit} {
		choice := table.Next(mode, EventRightClick)
		if !choice.Multi() {
			t.Errorf("right_click under %s should be multi-choice", mode)
			continue
		}
		opts := choice.Options()
		if len(opts) != 2 || opts[0] != ModeWalk || opts[1] != ModeFly {
			t.Errorf("right_click under %s options = %v, want [walk fly]", mode, opts)
		}
		if _, ok := choice.Single(); ok {
			t.Errorf("Single() on multi-choice entry under %s should report false", mode)
		}
	}
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable([]byte(`{"idle": {"poke": "sit"}}`))
	if err != nil {
		t.Fatalf("ParseTable failed: %v", err)
	}

	if got := table.Resolve(ModeIdle, Event("poke")); got != ModeSit {
		t.Errorf("Resolve(idle, poke) = %s, want sit", got)
	}
	// No default entry: stay in place
	if got := table.Resolve(ModeIdle, EventTired); got != ModeIdle {
		t.Errorf("Resolve(idle, tired) = %s, want idle", got)
	}
}

func TestParseTableErrors(t *testing.T) {
	inputs := []string{
		`not json`,
		`{}`,
		`{"idle": {"tired": []}}`,
		`{"idle": {"tired": ""}}`,
	}

	for _, in := range inputs {
		if _, err := ParseTable([]byte(in)); err == nil {
			t.Errorf("ParseTable(%q) should fail", in)
		}
	}
}

func TestTableRoundTrip(t *testing.T) {
	table := MustLoadTable()

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	again, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable of marshaled table failed: %v", err)
	}

	if got := again.Resolve(ModeFly, EventTargetReached); got != ModeCircle {
		t.Errorf("round-tripped Resolve(fly, target_reached) = %s, want circle", got)
	}
	if !again.Next(ModeSit, EventRightClick).Multi() {
		t.Error("round-tripped right_click entry lost its options")
	}
}

func TestModeDisplay(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected Mode
	}{
		{ModeIdle, ModeIdle},
		{ModeWalk, ModeWalk},
		{ModeFly, ModeFly},
		{ModeCircle, ModeFly},
		{ModeSit, ModeSit},
		{ModeHover, ModeIdle},
	}

	for _, tt := range tests {
		if got := tt.mode.Display(); got != tt.expected {
			t.Errorf("%s.Display() = %s, want %s", tt.mode, got, tt.expected)
		}
	}
}

func TestModeGrounded(t *testing.T) {
	grounded := map[Mode]bool{
		ModeIdle:   true,
		ModeWalk:   true,
		ModeSit:    true,
		ModeFly:    false,
		ModeCircle: false,
		ModeHover:  false,
	}

	for mode, want := range grounded {
		if got := mode.Grounded(); got != want {
			t.Errorf("%s.Grounded() = %v, want %v", mode, got, want)
		}
	}
}

func TestModeAirborne(t *testing.T) {
	airborne := map[Mode]bool{
		ModeIdle:   false,
		ModeWalk:   false,
		ModeSit:    false,
		ModeFly:    true,
		ModeCircle: true,
		ModeHover:  true,
	}

	for mode, want := range airborne {
		if got := mode.Airborne(); got != want {
			t.Errorf("%s.Airborne() = %v, want %v", mode, got, want)
		}
		if mode.Airborne() == mode.Grounded() {
			t.Errorf("%s should be exactly one of grounded or airborne", mode)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load[map[string]any]("missing.json")
	if err == nil {
		t.Fatal("Load of a missing file should fail")
	}
	if !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("error %q should name the file", err)
	}
}
