package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/roomview/config"
	"github.com/Carmen-Shannon/roomview/engine"
	"github.com/Carmen-Shannon/roomview/engine/remote"
	"github.com/Carmen-Shannon/roomview/engine/window"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	// ── Flags ───────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "TOML room layout (defaults to the built-in room)")
	writeConfig := flag.String("write-config", "", "write the default room layout to this path and exit")
	view := flag.Int("view", 0, "view index to start at")
	duration := flag.Float64("duration", 0.5, "transition duration in seconds")
	headless := flag.Bool("headless", false, "run without a window")
	remoteAddr := flag.String("remote", "", "serve the websocket remote control on this address, e.g. 127.0.0.1:8765")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	workers := flag.Int("workers", 0, "worker pool size for per-wall updates (0 or 1 updates serially)")
	statsAddr := flag.String("statsview", "", "serve live runtime stats on this address")
	flag.Parse()

	logger := logrus.New()
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}

	if *writeConfig != "" {
		if err := config.SaveDefault(*writeConfig); err != nil {
			logger.WithError(err).Fatal("failed writing default config")
		}
		logger.WithField("path", *writeConfig).Info("default config written")
		return
	}

	// Only flags given on the command line override the file.
	var overrides config.Flags
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "view":
			overrides.View = view
		case "duration":
			overrides.Duration = duration
		case "headless":
			overrides.Headless = headless
		case "remote":
			overrides.Remote = remoteAddr
		case "log-level":
			overrides.LogLevel = logLevel
		case "workers":
			overrides.Workers = workers
		case "statsview":
			overrides.Statsview = statsAddr
		}
	})

	// ── Config ──────────────────────────────────────────────────────────
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.WithError(err).Fatal("failed loading config")
		}
		cfg = loaded
	}
	cfg, err := cfg.Resolve(overrides)
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger.SetLevel(level)

	// ── Error reporting + stats ─────────────────────────────────────────
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.WithError(err).Warn("sentry disabled")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if cfg.Statsview != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.Statsview))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	// ── Room ────────────────────────────────────────────────────────────
	scene, err := cfg.Build(logger)
	if err != nil {
		logger.WithError(err).Fatal("failed building room")
	}

	opts := []engine.EngineBuilderOption{
		engine.WithRoom(scene.Room),
		engine.WithCamera(scene.Camera),
		engine.WithTickRate(cfg.TickRate),
		engine.WithProfiling(cfg.Profiling),
		engine.WithLogger(logger),
	}
	if cfg.Remote != "" {
		opts = append(opts, engine.WithRemote(
			remote.WithAddr(cfg.Remote),
			remote.WithAllowedOrigins(cfg.RemoteOrigins...),
		))
	}

	// ── Window ──────────────────────────────────────────────────────────
	if !cfg.Headless {
		w, err := window.NewWindow(
			window.WithTitle("Room View"),
			window.WithWidth(1280),
			window.WithHeight(720),
		)
		if err != nil {
			logger.WithError(err).Warn("no window available, running headless")
		} else {
			scene.Camera.SetAspect(float32(w.Width()) / float32(w.Height()))
			opts = append(opts, engine.WithWindow(w))
		}
	}

	eng, err := engine.NewEngine(opts...)
	if err != nil {
		logger.WithError(err).Fatal("failed creating engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		select {
		case <-ctx.Done():
			eng.Quit()
		case <-eng.Done():
		}
	}()

	logger.WithFields(logrus.Fields{
		"view":     scene.Room.CurrentViewName(),
		"headless": eng.Window() == nil,
		"remote":   cfg.Remote,
	}).Info("room view running")
	eng.Run()
}
