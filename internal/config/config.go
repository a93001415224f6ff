// Package config reads the companion's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/samdwyer/companion/internal/sim"
	"github.com/samdwyer/companion/internal/telemetry"
	"github.com/samdwyer/companion/internal/world"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds everything main needs to wire the companion together.
type Config struct {
	Sim sim.Config

	TickInterval  time.Duration // physics rate
	FrameInterval time.Duration // animation rate
	MaxTickDelta  time.Duration // longest pause applied as one tick

	// Seed for idle wandering. A seed of 0 means a random seed will be
	// generated.
	Seed int64

	// BridgeAddr is the listen address of the websocket feed; empty disables it.
	BridgeAddr string
	Headless   bool

	LogLevel logrus.Level

	// LogFile receives logs; when empty, logs go to stderr in headless mode
	// and are discarded while the terminal host owns the screen.
	LogFile   string
	Telemetry telemetry.Options
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// Default returns the settings used when no variables are set.
func Default() Config {
	geometry := world.NewGeometry(1920, 1040, world.DefaultCanvasWidth, world.DefaultCanvasHeight)
	return Config{
		Sim:           sim.DefaultConfig(geometry),
		TickInterval:  95 * time.Millisecond,
		FrameInterval: 95 * time.Millisecond,
		MaxTickDelta:  500 * time.Millisecond,
		LogLevel:      logrus.InfoLevel,
		Telemetry: telemetry.Options{
			ServiceName:    "companion",
			ServiceVersion: "0.1.0",
		},
	}
}

// FromEnv overlays COMPANION_* variables on the defaults.
func FromEnv(lookup LookupFunc) (Config, error) {
	cfg := Default()
	r := reader{lookup: lookup}

	geo := &cfg.Sim.Geometry
	r.floatVar("COMPANION_SCREEN_WIDTH", &geo.ScreenWidth)
	r.floatVar("COMPANION_TASKBAR_Y", &geo.TaskbarY)
	r.floatVar("COMPANION_CANVAS_WIDTH", &geo.CanvasWidth)
	r.floatVar("COMPANION_CANVAS_HEIGHT", &geo.CanvasHeight)
	r.floatVar("COMPANION_GROUND_TOLERANCE", &geo.GroundTolerance)

	s := &cfg.Sim
	r.floatVar("COMPANION_WALK_SPEED", &s.WalkSpeed)
	r.floatVar("COMPANION_FLY_SPEED", &s.FlySpeed)
	r.floatVar("COMPANION_WALK_CLICK_THRESHOLD", &s.WalkClickThreshold)
	r.floatVar("COMPANION_CIRCLE_DURATION", &s.CircleDuration)
	r.floatVar("COMPANION_CIRCLE_RADIUS", &s.CircleRadius)
	r.floatVar("COMPANION_ENERGY_DECREASE_RATE", &s.EnergyDecreaseRate)
	r.floatVar("COMPANION_ENERGY_RECOVERY_RATE", &s.EnergyRecoveryRate)
	r.floatVar("COMPANION_TIRED_THRESHOLD", &s.TiredThreshold)
	r.floatVar("COMPANION_RECOVERY_THRESHOLD", &s.RecoveryThreshold)
	r.floatVar("COMPANION_WANDER_MIN_DELAY", &s.WanderMinDelay)
	r.floatVar("COMPANION_WANDER_MAX_DELAY", &s.WanderMaxDelay)
	r.floatVar("COMPANION_WANDER_CHANCE", &s.WanderChance)
	r.floatVar("COMPANION_FLY_UP_HEIGHT", &s.FlyUpHeight)

	r.durationVar("COMPANION_TICK_MS", &cfg.TickInterval)
	r.durationVar("COMPANION_FRAME_MS", &cfg.FrameInterval)
	r.durationVar("COMPANION_MAX_TICK_MS", &cfg.MaxTickDelta)

	r.int64Var("COMPANION_SEED", &cfg.Seed)
	r.stringVar("COMPANION_BRIDGE_ADDR", &cfg.BridgeAddr)
	r.boolVar("COMPANION_HEADLESS", &cfg.Headless)
	r.stringVar("COMPANION_LOG_FILE", &cfg.LogFile)

	if v, ok := r.get("COMPANION_LOG_LEVEL"); ok {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			r.fail("COMPANION_LOG_LEVEL", err)
		} else {
			cfg.LogLevel = level
		}
	}

	r.stringVar("COMPANION_OTLP_ENDPOINT", &cfg.Telemetry.Endpoint)
	if v, ok := r.get("COMPANION_OTLP_HEADERS"); ok {
		headers, err := parseHeaders(v)
		if err != nil {
			r.fail("COMPANION_OTLP_HEADERS", err)
		}
		cfg.Telemetry.Headers = headers
	}

	if r.err != nil {
		return Config{}, r.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects geometry and rates the simulation cannot run with.
func (c Config) Validate() error {
	geo := c.Sim.Geometry
	switch {
	case geo.ScreenWidth <= 0:
		return fmt.Errorf("%w: screen width must be positive, got %v", ErrInvalid, geo.ScreenWidth)
	case geo.TaskbarY <= 0:
		return fmt.Errorf("%w: taskbar y must be positive, got %v", ErrInvalid, geo.TaskbarY)
	case geo.CanvasWidth < 0 || geo.CanvasHeight < 0:
		return fmt.Errorf("%w: canvas size must not be negative", ErrInvalid)
	case c.Sim.CircleDuration <= 0:
		return fmt.Errorf("%w: circle duration must be positive", ErrInvalid)
	case c.Sim.WanderMaxDelay < c.Sim.WanderMinDelay:
		return fmt.Errorf("%w: wander max delay below min delay", ErrInvalid)
	case c.TickInterval <= 0 || c.FrameInterval <= 0:
		return fmt.Errorf("%w: timer intervals must be positive", ErrInvalid)
	}
	return nil
}

// parseHeaders parses "k=v,k2=v2".
func parseHeaders(s string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed header %q", pair)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

// reader records the first parse failure and skips the rest.
type reader struct {
	lookup LookupFunc
	err    error
}

func (r *reader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (r *reader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
}

func (r *reader) floatVar(key string, dst *float64) {
	if v, ok := r.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = f
	}
}

func (r *reader) int64Var(key string, dst *int64) {
	if v, ok := r.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = n
	}
}

func (r *reader) durationVar(key string, dst *time.Duration) {
	if v, ok := r.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = time.Duration(n) * time.Millisecond
	}
}

func (r *reader) boolVar(key string, dst *bool) {
	if v, ok := r.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			r.fail(key, err)
			return
		}
		*dst = b
	}
}

func (r *reader) stringVar(key string, dst *string) {
	if v, ok := r.get(key); ok {
		*dst = v
	}
}
