package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/roomview/engine/camera"
	"github.com/Carmen-Shannon/roomview/engine/profiler"
	"github.com/Carmen-Shannon/roomview/engine/remote"
	"github.com/Carmen-Shannon/roomview/engine/room"
	"github.com/Carmen-Shannon/roomview/engine/transition"
	"github.com/Carmen-Shannon/roomview/engine/window"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// ErrNoRoom is returned by NewEngine when no room was supplied.
var ErrNoRoom = errors.New("no room")

// engine implements the Engine interface.
// Owns the room: every mutation of it happens on the tick goroutine.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running atomic.Bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	commands  chan func(room.Room)
	queueSize int

	room   room.Room
	window window.Window
	camera camera.Camera
	remote remote.Server
	// remoteOptions is non-nil when a remote server should be created.
	remoteOptions []remote.ServerBuilderOption
	logger logrus.FieldLogger

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	titlePrefix    string
}

// Engine hosts a room: it ticks the room at a fixed rate, serialises commands from input and
// remote clients onto the tick goroutine, and keeps the window and remote clients informed
// of transitions.
type Engine interface {
	// Room returns the hosted room.
	//
	// Returns:
	//   - room.Room: the room
	Room() room.Room

	// Window returns the window, or nil when running headless.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Remote returns the remote control server, or nil if none was configured.
	//
	// Returns:
	//   - remote.Server: the server
	Remote() remote.Server

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called each tick after the room has advanced.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Submit queues a command to run against the room on the tick goroutine.
	// Commands run in submission order before the room is ticked.
	//
	// Parameters:
	//   - cmd: the command
	//
	// Returns:
	//   - bool: false if the engine has quit or the queue is full
	Submit(cmd func(room.Room)) bool

	// Run starts the tick loop and the remote server, then blocks.
	// With a window it runs the window message loop on the calling goroutine and quits when the
	// window closes; headless it blocks until Quit is called.
	Run()

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Done returns a channel closed once Quit has been signalled.
	//
	// Returns:
	//   - <-chan struct{}: the quit channel
	Done() <-chan struct{}
}

var _ Engine = &engine{}
var _ remote.Dispatcher = &engine{}

// NewEngine creates a new Engine with the provided options. WithRoom is required.
//
// Parameters:
//   - options: functional options for engine configuration (room, window, remote, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
//   - error: ErrNoRoom if no room was supplied
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		queueSize:       64,
		logger:          logrus.StandardLogger(),
		engineTickRate:  time.Second / 60,
		titlePrefix:     "Room View",
	}

	for _, opt := range options {
		opt(e)
	}

	if e.room == nil {
		return nil, ErrNoRoom
	}
	e.commands = make(chan func(room.Room), e.queueSize)
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}

	if e.window != nil {
		e.window.SetKeyDownCallback(func(key uint32) {
			e.Submit(func(r room.Room) {
				r.HandleKey(key)
			})
		})
		e.window.SetResizeCallback(func(width, height int) {
			if e.camera != nil && height > 0 {
				e.camera.SetAspect(float32(width) / float32(height))
			}
		})
		// The window is owned by the thread running Run, so it closes itself once quit is signalled.
		e.window.SetUpdateCallback(func() {
			select {
			case <-e.quitChannel:
				_ = e.window.Close()
			default:
			}
		})
		e.window.SetTitle(e.title(e.room.CurrentViewName()))
	}

	if e.remoteOptions != nil {
		opts := append([]remote.ServerBuilderOption{remote.WithLogger(e.logger)}, e.remoteOptions...)
		opts = append(opts, remote.WithDispatcher(e))
		srv, err := remote.NewServer(opts...)
		if err != nil {
			return nil, fmt.Errorf("engine: remote control: %w", err)
		}
		e.remote = srv
	}

	e.room.OnStart(func(ev transition.Event) {
		if e.remote != nil {
			e.remote.TransitionStarted(ev)
		}
	})
	e.room.OnComplete(func(ev transition.Event) {
		if e.window != nil {
			e.window.SetTitle(e.title(e.room.CurrentViewName()))
		}
		if e.remote != nil {
			e.remote.TransitionCompleted(ev)
		}
	})

	return e, nil
}

func (e *engine) Room() room.Room {
	return e.room
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Remote() remote.Server {
	return e.remote
}

func (e *engine) Run() {
	e.running.Store(true)
	defer e.running.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if e.remote != nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := e.remote.Start(ctx); err != nil {
				e.logger.WithError(err).Error("remote control stopped")
			}
		}()
	}

	e.handle()

	if e.window != nil {
		e.window.ProcessMessages()
		e.signalQuit()
		_ = e.window.Close()
	} else {
		<-e.quitChannel
	}

	cancel()
	e.wg.Wait()
	e.room.Engine().Close()
	e.logger.Info("engine stopped")
}

// Quit signals all engine goroutines to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) Done() <-chan struct{} {
	return e.quitChannel
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Submit(cmd func(room.Room)) bool {
	if cmd == nil {
		return false
	}
	select {
	case <-e.quitChannel:
		return false
	default:
	}
	select {
	case e.commands <- cmd:
		return true
	default:
		e.logger.WithField("capacity", cap(e.commands)).Warn("command queue full, dropping command")
		return false
	}
}

// handle launches the engine and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleQuit()
}

// handleEngine runs the fixed-rate tick loop in its own goroutine and listens for dynamic rate
// changes via tickRateChannel. Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.engineTickRate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.engineTickRate = newRate
		}
	}
}

// tick drains queued commands, advances the room, then runs the tick callback and profiler.
// A panic is reported and the loop keeps going.
func (e *engine) tick(dt float32) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			e.logger.WithField("panic", r).Error("engine tick recovered from panic")
		}
	}()

	for n := len(e.commands); n > 0; n-- {
		cmd := <-e.commands
		cmd(e.room)
	}

	e.room.Tick(dt)

	if e.tickCallback != nil {
		e.tickCallback(dt)
	}

	if e.profilingEnabled.Load() {
		e.profiler.Tick()
	}
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	if e.running.Load() {
		// Replace any pending update that the loop has not picked up yet.
		select {
		case e.tickRateChannel <- newRate:
		default:
			select {
			case <-e.tickRateChannel:
			default:
			}
			e.tickRateChannel <- newRate
		}
	} else {
		e.engineTickRate = newRate
	}
}

// SetTickCallback registers the function called each engine tick.
// Call it before Run.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) title(view string) string {
	if view == "" {
		return e.titlePrefix
	}
	return e.titlePrefix + " - " + view
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}
