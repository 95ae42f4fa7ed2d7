package wall

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
)

type registry struct {
	mu *sync.Mutex

	hiddenPosition mgl32.Vec3
	walls          [4]Wall
	objects        [4]*orderedmap.OrderedMap[any, BoundObject]
}

// objectID keys handles whose dynamic value cannot be hashed.
type objectID uint64

// keyOf returns the identity a handle is bound under: the handle itself when its value is
// comparable, otherwise its ID.
func keyOf(obj game_object.Transform) (any, bool) {
	if reflect.ValueOf(obj).Comparable() {
		return obj, true
	}
	if ided, ok := obj.(interface{ ID() uint64 }); ok {
		return objectID(ided.ID()), true
	}
	return nil, false
}

// Registry owns the four walls, the shared hidden position and the objects bound to each wall.
// Objects keep registration order per wall, and an object belongs to at most one wall.
type Registry interface {
	// HiddenPosition returns the shared off-screen position walls and their objects are parked at.
	//
	// Returns:
	//   - mgl32.Vec3: the hidden position
	HiddenPosition() mgl32.Vec3

	// Wall returns the wall with the given ID. Walls that were never configured come back
	// with a nil Handle.
	//
	// Parameters:
	//   - id: the wall to look up
	//
	// Returns:
	//   - Wall: the wall
	//   - error: ErrUnknownWall if id is not one of the four walls
	Wall(id WallID) (Wall, error)

	// Register binds obj to a wall, capturing its position and rotation in the wall's local frame
	// from the wall's current transform. Registering the same object to the same wall again is a no-op.
	// Handles are identified by value, so a handle that is not comparable must expose ID() uint64.
	//
	// Parameters:
	//   - id: the owning wall
	//   - obj: the object to bind
	//
	// Returns:
	//   - error: ErrUnknownWall, ErrNilObject, ErrUncomparableObject, ErrMissingWall or ErrAlreadyBound,
	//     wrapped with context
	Register(id WallID, obj game_object.Transform) error

	// ObjectsOf returns the objects bound to a wall in registration order.
	// The returned slice is a copy; an unknown wall yields nil.
	//
	// Parameters:
	//   - id: the wall
	//
	// Returns:
	//   - []BoundObject: the bound objects
	ObjectsOf(id WallID) []BoundObject

	// WallOf returns the wall an object is bound to.
	//
	// Parameters:
	//   - obj: the object to look up
	//
	// Returns:
	//   - WallID: the owning wall
	//   - bool: false if the object is not bound
	WallOf(obj game_object.Transform) (WallID, bool)

	// Len returns the number of bound objects across all walls.
	//
	// Returns:
	//   - int: the object count
	Len() int
}

var _ Registry = &registry{}

// NewRegistry creates a wall Registry configured with the given options.
// The hidden position defaults to (0, 10, 0).
//
// Parameters:
//   - options: functional options that configure walls and the hidden position
//
// Returns:
//   - Registry: the new registry
//   - error: ErrUnknownWall if an option names an invalid wall
func NewRegistry(options ...RegistryBuilderOption) (Registry, error) {
	r := &registry{
		mu:             &sync.Mutex{},
		hiddenPosition: mgl32.Vec3{0, 10, 0},
	}
	for _, id := range AllWalls {
		r.walls[id] = Wall{ID: id}
		r.objects[id] = orderedmap.NewOrderedMap[any, BoundObject]()
	}
	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *registry) HiddenPosition() mgl32.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hiddenPosition
}

func (r *registry) Wall(id WallID) (Wall, error) {
	if !id.Valid() {
		return Wall{}, fmt.Errorf("wall: lookup %s: %w", id, ErrUnknownWall)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.walls[id], nil
}

func (r *registry) Register(id WallID, obj game_object.Transform) error {
	if !id.Valid() {
		return fmt.Errorf("wall: register on %s: %w", id, ErrUnknownWall)
	}
	if obj == nil {
		return fmt.Errorf("wall: register on %s: %w", id, ErrNilObject)
	}
	key, ok := keyOf(obj)
	if !ok {
		return fmt.Errorf("wall: register %T on %s: %w", obj, id, ErrUncomparableObject)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.wallOf(key); ok {
		if owner == id {
			return nil
		}
		return fmt.Errorf("wall: register on %s (bound to %s): %w", id, owner, ErrAlreadyBound)
	}

	w := r.walls[id]
	if !game_object.Alive(w.Handle) {
		return fmt.Errorf("wall: register on %s: %w", id, ErrMissingWall)
	}

	parent := common.Pose{Position: w.Handle.Position(), Rotation: w.Handle.Rotation()}
	r.objects[id].Set(key, BoundObject{
		Handle:        obj,
		LocalOffset:   common.WorldToLocal(parent, obj.Position()),
		LocalRotation: common.WorldToLocalRotation(parent.Rotation, obj.Rotation()),
	})
	return nil
}

func (r *registry) ObjectsOf(id WallID) []BoundObject {
	if !id.Valid() {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	objs := make([]BoundObject, 0, r.objects[id].Len())
	for el := r.objects[id].Front(); el != nil; el = el.Next() {
		objs = append(objs, el.Value)
	}
	return objs
}

func (r *registry) WallOf(obj game_object.Transform) (WallID, bool) {
	if obj == nil {
		return 0, false
	}
	key, ok := keyOf(obj)
	if !ok {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wallOf(key)
}

func (r *registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, objs := range r.objects {
		n += objs.Len()
	}
	return n
}

// wallOf finds the owner of a handle key. Caller must hold the mutex.
func (r *registry) wallOf(key any) (WallID, bool) {
	for _, id := range AllWalls {
		if _, ok := r.objects[id].Get(key); ok {
			return id, true
		}
	}
	return 0, false
}
