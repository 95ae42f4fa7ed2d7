package transition

import (
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/Carmen-Shannon/roomview/engine/topology"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/sirupsen/logrus"
)

// EngineBuilderOption is a functional option for configuring an Engine during construction.
type EngineBuilderOption func(*engineImpl)

// WithRegistry sets the wall registry the engine moves. Required.
//
// Parameters:
//   - r: the wall registry
//
// Returns:
//   - EngineBuilderOption: functional option to set the registry
func WithRegistry(r wall.Registry) EngineBuilderOption {
	return func(e *engineImpl) {
		e.registry = r
	}
}

// WithTopology sets the view table. Defaults to topology.Default().
//
// Parameters:
//   - t: the topology
//
// Returns:
//   - EngineBuilderOption: functional option to set the topology
func WithTopology(t *topology.Topology) EngineBuilderOption {
	return func(e *engineImpl) {
		e.topo = t
	}
}

// WithCamera sets the camera transform moved between view poses.
//
// Parameters:
//   - cam: the camera, usually a camera.Camera
//
// Returns:
//   - EngineBuilderOption: functional option to set the camera
func WithCamera(cam game_object.Transform) EngineBuilderOption {
	return func(e *engineImpl) {
		e.camera = cam
	}
}

// WithDuration sets the transition length in seconds. Zero or negative durations complete on the
// first tick after a request.
//
// Parameters:
//   - seconds: the transition duration
//
// Returns:
//   - EngineBuilderOption: functional option to set the duration
func WithDuration(seconds float32) EngineBuilderOption {
	return func(e *engineImpl) {
		e.duration = seconds
	}
}

// WithDefaultView sets the view the engine snaps to on construction. Defaults to 0.
//
// Parameters:
//   - view: the initial view index
//
// Returns:
//   - EngineBuilderOption: functional option to set the default view
func WithDefaultView(view int) EngineBuilderOption {
	return func(e *engineImpl) {
		e.defaultView = view
	}
}

// WithWorkers spreads per-wall track updates across a worker pool. Values of 1 or less update
// everything on the ticking goroutine.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - EngineBuilderOption: functional option to set the worker count
func WithWorkers(n int) EngineBuilderOption {
	return func(e *engineImpl) {
		e.workers = n
	}
}

// WithLogger sets the structured logger. Defaults to logrus.StandardLogger().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: functional option to set the logger
func WithLogger(logger logrus.FieldLogger) EngineBuilderOption {
	return func(e *engineImpl) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOnStart registers a callback fired when a transition starts.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - EngineBuilderOption: functional option to add the callback
func WithOnStart(fn func(Event)) EngineBuilderOption {
	return func(e *engineImpl) {
		if fn != nil {
			e.onStart = append(e.onStart, fn)
		}
	}
}

// WithOnComplete registers a callback fired when a transition commits its target view.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - EngineBuilderOption: functional option to add the callback
func WithOnComplete(fn func(Event)) EngineBuilderOption {
	return func(e *engineImpl) {
		if fn != nil {
			e.onComplete = append(e.onComplete, fn)
		}
	}
}
