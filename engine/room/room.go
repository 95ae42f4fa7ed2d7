// Package room is the command surface of the room view: view requests, left/right steps, key
// bindings, dynamic object attachment and the player's inventory.
package room

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/Carmen-Shannon/roomview/engine/inventory"
	"github.com/Carmen-Shannon/roomview/engine/transition"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoEngine    = errors.New("no transition engine")
	ErrInvalidStep = errors.New("step direction must be -1 or +1")
	ErrNoItem      = errors.New("item missing or destroyed")
)

type roomImpl struct {
	logger    logrus.FieldLogger
	engine    transition.Engine
	inventory inventory.Inventory
}

// Room turns player commands into view transitions. Every command that cannot be honoured
// (busy, out of range, unknown name) is logged and has no effect; the error is returned for
// callers that want to inspect it with errors.Is.
type Room interface {
	// RequestView starts a transition to the view at index.
	//
	// Parameters:
	//   - index: the view index in [0, 4)
	//
	// Returns:
	//   - error: transition.ErrInvalidView or transition.ErrBusy when refused
	RequestView(index int) error

	// RequestViewByName starts a transition to a named view such as "SouthEast".
	//
	// Parameters:
	//   - name: the view name, case-insensitive
	//
	// Returns:
	//   - error: topology.ErrUnknownViewName or transition.ErrBusy when refused
	RequestViewByName(name string) error

	// StepView rotates one view to the left (-1) or right (+1) of the current view.
	//
	// Parameters:
	//   - dir: -1 or +1
	//
	// Returns:
	//   - error: ErrInvalidStep or transition.ErrBusy when refused
	StepView(dir int) error

	// StepLeft is StepView(-1).
	StepLeft() error

	// StepRight is StepView(+1).
	StepRight() error

	// RegisterObject binds an object to a wall. If the wall is hidden in the current view the
	// object is pinned to the hidden position straight away. Refused while a transition runs.
	//
	// Parameters:
	//   - id: the owning wall
	//   - obj: the object to bind
	//
	// Returns:
	//   - error: transition.ErrBusy or a wall registry error
	RegisterObject(id wall.WallID, obj game_object.Transform) error

	// PickUp moves an item into the inventory under its name and disables it in the scene.
	//
	// Parameters:
	//   - obj: the item being picked up
	//
	// Returns:
	//   - error: ErrNoItem for missing objects, or an inventory error
	PickUp(obj game_object.GameObject) error

	// UseItem consumes an item named need from the inventory if it is held.
	//
	// Parameters:
	//   - need: the required item name
	//
	// Returns:
	//   - bool: true if the item was held and consumed
	UseItem(need string) bool

	// HandleKey dispatches a key press: arrows step left/right, 1-4 select a view.
	//
	// Parameters:
	//   - key: the key code from common
	//
	// Returns:
	//   - bool: true if the key is bound, whether or not the command was accepted
	HandleKey(key uint32) bool

	// Tick advances the running transition.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	Tick(dt float32)

	// CurrentViewIndex returns the last committed view.
	CurrentViewIndex() int

	// CurrentViewName returns the name of the last committed view, or "" if it has none.
	CurrentViewName() string

	// IsBusy reports whether a transition is running.
	IsBusy() bool

	// OnStart registers a callback fired when a transition starts.
	OnStart(fn func(transition.Event))

	// OnComplete registers a callback fired when a transition commits its view.
	OnComplete(fn func(transition.Event))

	// Engine returns the underlying transition engine.
	Engine() transition.Engine

	// Inventory returns the player's inventory.
	Inventory() inventory.Inventory
}

var _ Room = &roomImpl{}

// NewRoom creates a Room over a transition engine.
//
// Parameters:
//   - options: functional options; WithEngine is required
//
// Returns:
//   - Room: the command surface
//   - error: ErrNoEngine if no engine was supplied
func NewRoom(options ...RoomBuilderOption) (Room, error) {
	r := &roomImpl{
		logger: logrus.StandardLogger(),
	}
	for _, option := range options {
		option(r)
	}
	if r.engine == nil {
		return nil, fmt.Errorf("room: new room: %w", ErrNoEngine)
	}
	if r.inventory == nil {
		r.inventory = inventory.NewInventory()
	}
	return r, nil
}

func (r *roomImpl) RequestView(index int) error {
	return r.refused("request view", r.engine.RequestView(index))
}

func (r *roomImpl) RequestViewByName(name string) error {
	v, err := r.engine.Topology().ViewByName(name)
	if err != nil {
		return r.refused("request view by name", err)
	}
	return r.RequestView(v.Index)
}

func (r *roomImpl) StepView(dir int) error {
	if dir != -1 && dir != 1 {
		return r.refused("step view", fmt.Errorf("room: step %d: %w", dir, ErrInvalidStep))
	}
	target := r.engine.Topology().Step(r.engine.CurrentView(), dir)
	return r.RequestView(target)
}

func (r *roomImpl) StepLeft() error {
	return r.StepView(-1)
}

func (r *roomImpl) StepRight() error {
	return r.StepView(1)
}

func (r *roomImpl) RegisterObject(id wall.WallID, obj game_object.Transform) error {
	if r.engine.IsBusy() {
		return r.refused("register object", fmt.Errorf("room: register on %s: %w", id, transition.ErrBusy))
	}
	reg := r.engine.Registry()
	if err := reg.Register(id, obj); err != nil {
		return r.refused("register object", err)
	}

	v, _ := r.engine.Topology().View(r.engine.CurrentView())
	if !v.Shows(id) && game_object.Alive(obj) {
		obj.SetPosition(reg.HiddenPosition())
	}
	return nil
}

func (r *roomImpl) PickUp(obj game_object.GameObject) error {
	if !game_object.Alive(obj) || !obj.Enabled() {
		return r.refused("pick up", fmt.Errorf("room: pick up: %w", ErrNoItem))
	}
	if err := r.inventory.Add(obj.Name()); err != nil {
		return r.refused("pick up", err)
	}
	obj.SetEnabled(false)
	r.logger.WithFields(logrus.Fields{"item": obj.Name(), "held": r.inventory.Len()}).Info("item picked up")
	return nil
}

func (r *roomImpl) UseItem(need string) bool {
	used := r.inventory.Use(need)
	r.logger.WithFields(logrus.Fields{"need": need, "used": used}).Debug("item use")
	return used
}

func (r *roomImpl) HandleKey(key uint32) bool {
	switch key {
	case common.KeyLeft:
		_ = r.StepLeft()
	case common.KeyRight:
		_ = r.StepRight()
	case common.Key1, common.Key2, common.Key3, common.Key4:
		_ = r.RequestView(int(key - common.Key1))
	default:
		return false
	}
	return true
}

func (r *roomImpl) Tick(dt float32) {
	r.engine.Tick(dt)
}

func (r *roomImpl) CurrentViewIndex() int {
	return r.engine.CurrentView()
}

func (r *roomImpl) CurrentViewName() string {
	v, err := r.engine.Topology().View(r.engine.CurrentView())
	if err != nil {
		return ""
	}
	return v.Name
}

func (r *roomImpl) IsBusy() bool {
	return r.engine.IsBusy()
}

func (r *roomImpl) OnStart(fn func(transition.Event)) {
	r.engine.OnStart(fn)
}

func (r *roomImpl) OnComplete(fn func(transition.Event)) {
	r.engine.OnComplete(fn)
}

func (r *roomImpl) Engine() transition.Engine {
	return r.engine
}

func (r *roomImpl) Inventory() inventory.Inventory {
	return r.inventory
}

// refused logs a rejected command at debug level and passes the error through.
func (r *roomImpl) refused(op string, err error) error {
	if err != nil {
		r.logger.WithError(err).WithField("op", op).Debug("command refused")
	}
	return err
}
