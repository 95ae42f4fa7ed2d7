package transition

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/Carmen-Shannon/roomview/engine/topology"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// DefaultDuration is the length of a view transition in seconds.
const DefaultDuration float32 = 0.5

var (
	// ErrInvalidView is returned for view indices outside [0, 4).
	ErrInvalidView = topology.ErrInvalidView
	// ErrBusy is returned when a request arrives while a transition is running.
	ErrBusy = errors.New("transition in progress")
	// ErrNoRegistry is returned by NewEngine when no wall registry was supplied.
	ErrNoRegistry = errors.New("no wall registry")
)

// Phase is the engine's lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Transitioning
)

func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// Event describes a transition for start and completion callbacks.
type Event struct {
	From     int
	To       int
	Duration float32
}

// State is a snapshot of the engine.
type State struct {
	// View is the last committed view. It only changes when a transition completes.
	View     int
	Phase    Phase
	From     int
	To       int
	Elapsed  float32
	Duration float32
}

type engineImpl struct {
	mu     *sync.Mutex
	logger logrus.FieldLogger

	registry wall.Registry
	topo     *topology.Topology
	camera   game_object.Transform

	duration    float32
	defaultView int
	workers     int
	pool        worker.DynamicWorkerPool

	view    int
	phase   Phase
	from    int
	to      int
	elapsed float32
	plan    *plan

	onStart    []func(Event)
	onComplete []func(Event)
}

// Engine is the view-transition state machine. It moves the camera, the walls that leave and
// enter view, and the objects bound to those walls, all from one eased progress value per tick.
// Only one transition runs at a time; requests made while busy are refused, never queued.
//
// Time only advances through Tick. Hosts that call the engine from several goroutines should
// serialise Tick and RequestView onto one goroutine; the engine's own lock only keeps its state
// consistent.
type Engine interface {
	// RequestView starts a transition to the target view.
	// Requesting the current view while idle is a no-op.
	//
	// Parameters:
	//   - target: the view index in [0, 4)
	//
	// Returns:
	//   - error: ErrInvalidView or ErrBusy, wrapped with context; nil when started or a no-op
	RequestView(target int) error

	// Tick advances a running transition by dt seconds. Negative or NaN deltas count as zero.
	// When the elapsed time reaches the duration, every moved entity is snapped to its endpoint
	// and the target view is committed.
	//
	// Parameters:
	//   - dt: elapsed time since the previous tick, in seconds
	Tick(dt float32)

	// Snap places the camera, walls and objects at the given view immediately, without animating.
	//
	// Parameters:
	//   - view: the view index in [0, 4)
	//
	// Returns:
	//   - error: ErrInvalidView or ErrBusy, wrapped with context
	Snap(view int) error

	// CurrentView returns the last committed view index.
	//
	// Returns:
	//   - int: the view index
	CurrentView() int

	// IsBusy reports whether a transition is running.
	//
	// Returns:
	//   - bool: true while transitioning
	IsBusy() bool

	// State returns a snapshot of the engine state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Duration returns the transition length in seconds.
	//
	// Returns:
	//   - float32: the duration
	Duration() float32

	// Registry returns the wall registry the engine moves.
	//
	// Returns:
	//   - wall.Registry: the registry
	Registry() wall.Registry

	// Topology returns the view table.
	//
	// Returns:
	//   - *topology.Topology: the topology
	Topology() *topology.Topology

	// OnStart registers a callback fired after a transition starts, outside the engine lock.
	//
	// Parameters:
	//   - fn: the callback
	OnStart(fn func(Event))

	// OnComplete registers a callback fired after a transition commits its view, outside the engine lock.
	//
	// Parameters:
	//   - fn: the callback
	OnComplete(fn func(Event))

	// Close stops the worker pool, if any.
	Close()
}

var _ Engine = &engineImpl{}

// NewEngine creates a transition Engine and snaps the scene to the default view.
// A registry is required; the topology defaults to topology.Default() and the camera may be nil.
//
// Parameters:
//   - options: functional options to configure the engine
//
// Returns:
//   - Engine: the engine, idle at the default view
//   - error: ErrNoRegistry or ErrInvalidView, wrapped with context
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engineImpl{
		mu:       &sync.Mutex{},
		logger:   logrus.StandardLogger(),
		duration: DefaultDuration,
	}
	for _, option := range options {
		option(e)
	}

	if e.registry == nil {
		return nil, fmt.Errorf("transition: new engine: %w", ErrNoRegistry)
	}
	if e.topo == nil {
		e.topo = topology.Default()
	}
	if !e.topo.Valid(e.defaultView) {
		return nil, fmt.Errorf("transition: default view %d: %w", e.defaultView, ErrInvalidView)
	}

	// Per-wall tracks are the unit of parallel work, so the pool never needs more than four workers.
	if e.workers > 1 {
		e.pool = worker.NewDynamicWorkerPool(min(e.workers, len(wall.AllWalls)), 16, 1*time.Second)
	}

	e.view = e.defaultView
	e.snap(e.view)
	return e, nil
}

func (e *engineImpl) RequestView(target int) error {
	ev, callbacks, started, err := e.begin(target)
	if err != nil || !started {
		return err
	}

	e.logger.WithFields(logrus.Fields{"from": ev.From, "to": ev.To, "duration": ev.Duration}).Info("view transition started")
	for _, fn := range callbacks {
		fn(ev)
	}
	return nil
}

// begin validates a request and snapshots the plan. Callbacks are returned so they run
// outside the lock.
func (e *engineImpl) begin(target int) (Event, []func(Event), bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.topo.Valid(target) {
		return Event{}, nil, false, fmt.Errorf("transition: request view %d: %w", target, ErrInvalidView)
	}
	if e.phase == Transitioning {
		return Event{}, nil, false, fmt.Errorf("transition: request view %d during %d -> %d: %w", target, e.from, e.to, ErrBusy)
	}
	if target == e.view {
		return Event{}, nil, false, nil
	}

	e.plan = e.buildPlan(e.view, target)
	e.phase = Transitioning
	e.from = e.view
	e.to = target
	e.elapsed = 0

	return Event{From: e.from, To: e.to, Duration: e.duration}, slices.Clone(e.onStart), true, nil
}

func (e *engineImpl) Tick(dt float32) {
	if dt != dt || dt < 0 {
		dt = 0
	}

	ev, callbacks, done := e.advance(dt)
	if !done {
		return
	}

	e.logger.WithField("view", ev.To).Info("view transition complete")
	for _, fn := range callbacks {
		fn(ev)
	}
}

// advance moves the running transition forward by dt and reports whether it completed.
func (e *engineImpl) advance(dt float32) (Event, []func(Event), bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != Transitioning {
		return Event{}, nil, false
	}

	e.elapsed += dt
	if e.duration > 0 && e.elapsed < e.duration {
		e.apply(common.Smoothstep(e.elapsed/e.duration), false)
		return Event{}, nil, false
	}

	e.apply(1, true)
	ev := Event{From: e.from, To: e.to, Duration: e.duration}
	e.view = e.to
	e.phase = Idle
	e.plan = nil
	return ev, slices.Clone(e.onComplete), true
}

func (e *engineImpl) Snap(view int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.topo.Valid(view) {
		return fmt.Errorf("transition: snap to view %d: %w", view, ErrInvalidView)
	}
	if e.phase == Transitioning {
		return fmt.Errorf("transition: snap to view %d during %d -> %d: %w", view, e.from, e.to, ErrBusy)
	}
	e.view = view
	e.snap(view)
	return nil
}

func (e *engineImpl) CurrentView() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

func (e *engineImpl) IsBusy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase == Transitioning
}

func (e *engineImpl) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		View:     e.view,
		Phase:    e.phase,
		From:     e.from,
		To:       e.to,
		Elapsed:  e.elapsed,
		Duration: e.duration,
	}
}

func (e *engineImpl) Duration() float32 {
	return e.duration
}

func (e *engineImpl) Registry() wall.Registry {
	return e.registry
}

func (e *engineImpl) Topology() *topology.Topology {
	return e.topo
}

func (e *engineImpl) OnStart(fn func(Event)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStart = append(e.onStart, fn)
}

func (e *engineImpl) OnComplete(fn func(Event)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = append(e.onComplete, fn)
}

func (e *engineImpl) Close() {
	e.mu.Lock()
	pool := e.pool
	e.pool = nil
	e.mu.Unlock()

	if pool != nil {
		pool.Stop()
	}
}

// apply moves every tracked entity to progress t, or exactly onto its endpoint when final is set.
// Caller must hold the mutex.
func (e *engineImpl) apply(t float32, final bool) {
	if e.plan == nil {
		return
	}

	if e.pool == nil || len(e.plan.groups) < 2 {
		for _, g := range e.plan.groups {
			e.applyGroup(g, t, final)
		}
	} else {
		// Each wall group is independent; the WaitGroup is the per-tick barrier so no entity
		// lags a tick behind the others.
		var wg sync.WaitGroup
		for i, g := range e.plan.groups {
			wg.Add(1)
			gCap := g
			e.pool.SubmitTask(worker.Task{
				ID:      i,
				Payload: gCap.wall,
				Do: func() (any, error) {
					defer wg.Done()
					e.applyGroup(gCap, t, final)
					return nil, nil
				},
			})
		}
		wg.Wait()
	}

	if e.plan.camera != nil {
		e.applyTrack(e.plan.camera, t, final)
	}
}

func (e *engineImpl) applyGroup(g *group, t float32, final bool) {
	for _, tr := range g.tracks {
		e.applyTrack(tr, t, final)
	}
}

func (e *engineImpl) applyTrack(tr *track, t float32, final bool) {
	if tr.lost {
		return
	}
	if tr.fault != nil {
		e.dropTrack(tr, tr.fault)
		return
	}

	alive := true
	if r := guard(func() {
		if alive = game_object.Alive(tr.handle); !alive {
			return
		}
		tr.handle.SetPosition(tr.positionAt(t, final))
		if tr.mode != moveOnly {
			tr.handle.SetRotation(tr.rotationAt(t, final))
		}
	}); r != nil {
		e.dropTrack(tr, r)
		return
	}
	if !alive {
		tr.lost = true
		e.logger.WithField("entity", tr.name).Warn("entity missing, skipping for the rest of the transition")
	}
}

// dropTrack reports a handle that panicked and skips it for the rest of the transition.
func (e *engineImpl) dropTrack(tr *track, r any) {
	tr.lost = true
	sentry.CurrentHub().Recover(r)
	e.logger.WithFields(logrus.Fields{"entity": tr.name, "panic": r}).Error("entity panicked, skipping for the rest of the transition")
}

// guard runs fn and returns the value of any panic it raised.
func guard(fn func()) (r any) {
	defer func() {
		r = recover()
	}()
	fn()
	return nil
}

// snap places everything at a view without interpolation. Caller must hold the mutex
// (or be the constructor).
func (e *engineImpl) snap(view int) {
	hidden := e.registry.HiddenPosition()
	v, _ := e.topo.View(view)

	for _, id := range wall.AllWalls {
		w, _ := e.registry.Wall(id)
		if !v.Shows(id) {
			if game_object.Alive(w.Handle) {
				w.Handle.SetPosition(hidden)
			}
			for _, obj := range e.registry.ObjectsOf(id) {
				if game_object.Alive(obj.Handle) {
					obj.Handle.SetPosition(hidden)
				}
			}
			continue
		}

		if game_object.Alive(w.Handle) {
			w.Handle.SetPosition(w.VisiblePosition)
		}
		wallPose := w.VisiblePose()
		for _, obj := range e.registry.ObjectsOf(id) {
			if !game_object.Alive(obj.Handle) {
				continue
			}
			pose := obj.WorldPose(wallPose)
			obj.Handle.SetPosition(pose.Position)
			obj.Handle.SetRotation(pose.Rotation)
		}
	}

	if game_object.Alive(e.camera) {
		cam := e.topo.CameraPose(view)
		e.camera.SetPosition(cam.Position)
		e.camera.SetRotation(cam.Rotation)
	}
}
