package engine

import (
	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/camera"
	"github.com/Carmen-Shannon/roomview/engine/profiler"
	"github.com/Carmen-Shannon/roomview/engine/remote"
	"github.com/Carmen-Shannon/roomview/engine/room"
	"github.com/Carmen-Shannon/roomview/engine/window"
	"github.com/sirupsen/logrus"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithRoom sets the room the engine hosts. Required.
//
// Parameters:
//   - r: the room
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRoom(r room.Room) EngineBuilderOption {
	return func(e *engine) {
		e.room = r
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithWindow sets the window the engine drives. Without one the engine runs headless.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCamera sets the camera whose aspect ratio follows window resizes.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRemote enables the websocket remote control. The server dispatches commands into this
// engine, is started by Run and is stopped on quit.
//
// Parameters:
//   - options: server options such as remote.WithAddr; the dispatcher is always the engine
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRemote(options ...remote.ServerBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.remoteOptions = append([]remote.ServerBuilderOption{}, options...)
	}
}

// WithQueueSize sets the command queue capacity. Defaults to 64.
func WithQueueSize(n int) EngineBuilderOption {
	return func(e *engine) {
		if n > 0 {
			e.queueSize = n
		}
	}
}

// WithTitle sets the window title prefix; the current view name is appended to it.
func WithTitle(prefix string) EngineBuilderOption {
	return func(e *engine) {
		e.titlePrefix = common.Coalesce(prefix, e.titlePrefix)
	}
}

// WithLogger sets the structured logger. Defaults to logrus.StandardLogger().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger logrus.FieldLogger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
