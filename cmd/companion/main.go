// Package main is the entry point for the desktop companion.
package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samdwyer/companion/internal/bridge"
	"github.com/samdwyer/companion/internal/config"
	"github.com/samdwyer/companion/internal/scheduler"
	"github.com/samdwyer/companion/internal/shell"
	"github.com/samdwyer/companion/internal/sim"
	"github.com/samdwyer/companion/internal/telemetry"
	"github.com/samdwyer/companion/internal/ui"
)

func main() {
	headless := flag.Bool("headless", false, "Run without the terminal host (use with -bridge)")
	bridgeAddr := flag.String("bridge", "", "Listen address for the websocket snapshot feed")
	flag.Parse()

	// Load .env file for local development
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *headless {
		cfg.Headless = true
	}
	if *bridgeAddr != "" {
		cfg.BridgeAddr = *bridgeAddr
	}

	os.Exit(execute(cfg))
}

// execute runs the companion and returns the process exit code. Deferred
// log and telemetry flushes complete before main exits.
func execute(cfg config.Config) int {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Printf("Failed to open log file: %v", err)
		return 1
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.WithError(err).Warn("telemetry setup failed, running without tracing")
	} else {
		defer func() {
			// The run context is already cancelled by now
			if err := shutdown(context.Background()); err != nil {
				logger.WithError(err).Warn("error shutting down telemetry")
			}
		}()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("companion stopped with error")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	var screen *ui.Screen
	if !cfg.Headless {
		var err error
		screen, err = ui.NewScreen()
		if err != nil {
			return err
		}
		defer screen.Close()

		// The terminal is the desktop: derive the geometry from its size
		cols, rows := screen.Size()
		cfg.Sim.Geometry = ui.DefaultViewport.Geometry(cols, rows)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	core := sim.New(cfg.Sim,
		sim.WithRandom(rand.New(rand.NewSource(seed))),
		sim.WithLogger(logger.WithField("component", "sim")),
		sim.WithTracer(telemetry.Tracer("sim")),
	)
	driver := scheduler.New(core, scheduler.Config{
		TickInterval:  cfg.TickInterval,
		FrameInterval: cfg.FrameInterval,
		MaxDelta:      cfg.MaxTickDelta,
		Logger:        logger.WithField("component", "scheduler"),
	})

	logger.WithFields(logrus.Fields{
		"seed":     seed,
		"ground_y": cfg.Sim.Geometry.GroundY(),
		"headless": cfg.Headless,
	}).Info("companion starting")

	if cfg.BridgeAddr != "" {
		stopBridge := serveBridge(ctx, cfg.BridgeAddr, core, driver, logger)
		defer stopBridge()
	}

	if cfg.Headless {
		return driver.Run(ctx)
	}
	return shell.New(screen, ui.DefaultViewport, core, driver, logger.WithField("component", "shell")).Run(ctx)
}

// serveBridge starts the websocket feed and returns a function that stops it.
func serveBridge(ctx context.Context, addr string, core *sim.Core, driver *scheduler.Driver, logger *logrus.Logger) func() {
	hub := bridge.NewHub(core, bridge.Config{Logger: logger.WithField("component", "bridge")})
	driver.AddListener(hub)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.WithField("addr", addr).Info("bridge listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("bridge server failed")
		}
	}()

	return func() {
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("bridge shutdown failed")
		}
	}
}

// newLogger builds the process logger. While the terminal host draws to the
// screen, logs must not go to stderr.
func newLogger(cfg config.Config) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(cfg.LogLevel)

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(f)
		return logger, func() { f.Close() }, nil
	case cfg.Headless:
		logger.SetOutput(os.Stderr)
	default:
		logger.SetOutput(io.Discard)
	}
	return logger, func() {}, nil
}
