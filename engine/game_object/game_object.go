package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/go-gl/mathgl/mgl32"
)

// objectCount is an atomic counter used to hand out IDs to objects created without WithID.
var objectCount atomic.Uint64

// Transform is the spatial surface the room engine drives: a world position, an Euler rotation
// in degrees and a destroyed flag. Walls, bound objects and the camera all satisfy it.
type Transform interface {
	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the current position
	Position() mgl32.Vec3

	// Rotation returns the world-space rotation in degrees.
	//
	// Returns:
	//   - mgl32.Vec3: the current rotation (x, y, z)
	Rotation() mgl32.Vec3

	// SetPosition moves the transform to the given world position.
	// Calls on a destroyed transform are ignored.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// SetRotation sets the world-space rotation in degrees.
	// Calls on a destroyed transform are ignored.
	//
	// Parameters:
	//   - r: the new rotation (x, y, z)
	SetRotation(r mgl32.Vec3)

	// Destroyed reports whether the underlying entity is gone.
	// A destroyed transform is skipped by the room engine.
	//
	// Returns:
	//   - bool: true once Destroy has been called
	Destroyed() bool
}

type gameObject struct {
	mu *sync.Mutex

	id        uint64
	name      string
	enabled   atomic.Bool
	destroyed atomic.Bool

	position mgl32.Vec3
	rotation mgl32.Vec3
}

// GameObject defines the interface for a scene entity the room can move around: a wall, an item
// hanging on a wall, a piece of furniture. The object only stores its world pose; rendering is
// left to whatever host reads the pose back each frame.
type GameObject interface {
	Transform

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's display name, which may be empty.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Pose returns the position and rotation together under a single lock.
	//
	// Returns:
	//   - common.Pose: the current pose
	Pose() common.Pose

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetPose sets position and rotation together.
	//
	// Parameters:
	//   - p: the new pose
	SetPose(p common.Pose)

	// Destroy marks the object as gone. Later transform writes are dropped.
	Destroy()
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// Objects start enabled at the origin with zero rotation.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu: &sync.Mutex{},
		id: objectCount.Add(1),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Destroyed() bool {
	return g.destroyed.Load()
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation
}

func (g *gameObject) Pose() common.Pose {
	g.mu.Lock()
	defer g.mu.Unlock()
	return common.Pose{Position: g.position, Rotation: g.rotation}
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	if g.destroyed.Load() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	if g.destroyed.Load() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) SetPose(p common.Pose) {
	if g.destroyed.Load() {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p.Position
	g.rotation = p.Rotation
}

func (g *gameObject) Destroy() {
	g.destroyed.Store(true)
	g.enabled.Store(false)
}

// Alive reports whether t refers to a live entity.
//
// Parameters:
//   - t: the transform to check, may be nil
//
// Returns:
//   - bool: false for nil or destroyed transforms
func Alive(t Transform) bool {
	return t != nil && !t.Destroyed()
}
