package room

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/Carmen-Shannon/roomview/engine/inventory"
	"github.com/Carmen-Shannon/roomview/engine/topology"
	"github.com/Carmen-Shannon/roomview/engine/transition"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/go-gl/mathgl/mgl32"
)

var hidden = mgl32.Vec3{0, 10, 0}

func newTestRoom(t *testing.T, options ...RoomBuilderOption) (Room, map[wall.WallID]game_object.GameObject) {
	t.Helper()
	walls := map[wall.WallID]game_object.GameObject{
		wall.North: game_object.NewGameObject(game_object.WithPosition(-0.02, 1.5566, 7.08)),
		wall.South: game_object.NewGameObject(game_object.WithPosition(-0.01654, 1.5566, -7.078)),
		wall.East:  game_object.NewGameObject(game_object.WithPosition(-4, 1.5566, 0.014)),
		wall.West:  game_object.NewGameObject(game_object.WithPosition(4, 1.5566, 0.014)),
	}
	regOpts := []wall.RegistryBuilderOption{wall.WithHiddenPosition(hidden)}
	for id, w := range walls {
		regOpts = append(regOpts, wall.WithWall(id, w, w.Position()))
	}
	reg, err := wall.NewRegistry(regOpts...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	eng, err := transition.NewEngine(transition.WithRegistry(reg), transition.WithDuration(0.5))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	r, err := NewRoom(append([]RoomBuilderOption{WithEngine(eng)}, options...)...)
	if err != nil {
		t.Fatalf("NewRoom: %v", err)
	}
	return r, walls
}

func finish(r Room) {
	for i := 0; i < 100 && r.IsBusy(); i++ {
		r.Tick(0.1)
	}
}

func TestNewRoomRequiresEngine(t *testing.T) {
	if _, err := NewRoom(); !errors.Is(err, ErrNoEngine) {
		t.Fatalf("err = %v, want ErrNoEngine", err)
	}
}

func TestStepLeftRight(t *testing.T) {
	r, _ := newTestRoom(t)
	if err := r.StepLeft(); err != nil {
		t.Fatalf("StepLeft: %v", err)
	}
	finish(r)
	if r.CurrentViewIndex() != 3 || r.CurrentViewName() != "NorthWest" {
		t.Fatalf("after left: %d %q", r.CurrentViewIndex(), r.CurrentViewName())
	}
	_ = r.StepRight()
	finish(r)
	_ = r.StepRight()
	finish(r)
	if r.CurrentViewIndex() != 1 {
		t.Fatalf("after two rights: %d", r.CurrentViewIndex())
	}
	if err := r.StepView(2); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("StepView(2): err = %v", err)
	}
}

func TestStepWhileBusyIsDropped(t *testing.T) {
	r, _ := newTestRoom(t)
	_ = r.StepRight()
	if err := r.StepRight(); !errors.Is(err, transition.ErrBusy) {
		t.Fatalf("second step: err = %v", err)
	}
	finish(r)
	if r.CurrentViewIndex() != 1 {
		t.Fatalf("CurrentViewIndex() = %d, want 1", r.CurrentViewIndex())
	}
}

func TestRequestViewByName(t *testing.T) {
	r, walls := newTestRoom(t)
	if err := r.RequestViewByName("southwest"); err != nil {
		t.Fatalf("RequestViewByName: %v", err)
	}
	finish(r)
	if r.CurrentViewIndex() != 2 {
		t.Fatalf("CurrentViewIndex() = %d", r.CurrentViewIndex())
	}
	if walls[wall.North].Position() != hidden || walls[wall.East].Position() != hidden {
		t.Fatal("north and east walls should be hidden in SouthWest")
	}
	if err := r.RequestViewByName("cellar"); !errors.Is(err, topology.ErrUnknownViewName) {
		t.Fatalf("unknown name: err = %v", err)
	}
}

func TestInvalidRequest(t *testing.T) {
	r, _ := newTestRoom(t)
	if err := r.RequestView(5); !errors.Is(err, transition.ErrInvalidView) {
		t.Fatalf("err = %v", err)
	}
	if r.IsBusy() {
		t.Fatal("invalid request started a transition")
	}
}

func TestHandleKey(t *testing.T) {
	r, _ := newTestRoom(t)
	if !r.HandleKey(common.Key3) {
		t.Fatal("key 3 not bound")
	}
	finish(r)
	if r.CurrentViewIndex() != 2 {
		t.Fatalf("after key 3: view %d", r.CurrentViewIndex())
	}
	r.HandleKey(common.KeyRight)
	finish(r)
	if r.CurrentViewIndex() != 3 {
		t.Fatalf("after right arrow: view %d", r.CurrentViewIndex())
	}
	r.HandleKey(common.KeyLeft)
	if !r.IsBusy() {
		t.Fatal("left arrow did not start a transition")
	}
	r.HandleKey(common.Key1)
	finish(r)
	if r.CurrentViewIndex() != 2 {
		t.Fatalf("key press while busy was not dropped: view %d", r.CurrentViewIndex())
	}
	if r.HandleKey('W') {
		t.Fatal("unbound key reported as handled")
	}
}

func TestRegisterObjectOnHiddenWallPins(t *testing.T) {
	r, _ := newTestRoom(t)
	vase := game_object.NewGameObject(game_object.WithPosition(0.5, 1, -6.9))

	if err := r.RegisterObject(wall.South, vase); err != nil {
		t.Fatalf("RegisterObject: %v", err)
	}
	if vase.Position() != hidden {
		t.Fatalf("object on hidden wall at %v, want %v", vase.Position(), hidden)
	}

	_ = r.RequestView(1)
	finish(r)
	if vase.Position() == hidden {
		t.Fatal("object stayed hidden after its wall entered view")
	}
}

func TestRegisterObjectOnVisibleWallStays(t *testing.T) {
	r, _ := newTestRoom(t)
	clock := game_object.NewGameObject(game_object.WithPosition(0.5, 2, 7))

	if err := r.RegisterObject(wall.North, clock); err != nil {
		t.Fatalf("RegisterObject: %v", err)
	}
	if clock.Position() != (mgl32.Vec3{0.5, 2, 7}) {
		t.Fatalf("object on visible wall moved to %v", clock.Position())
	}

	_ = r.RequestView(1)
	finish(r)
	if clock.Position() != hidden {
		t.Fatalf("object not hidden with its wall: %v", clock.Position())
	}
	_ = r.RequestView(0)
	finish(r)
	if !clock.Position().ApproxEqualThreshold(mgl32.Vec3{0.5, 2, 7}, 1e-4) {
		t.Fatalf("object did not return to its place: %v", clock.Position())
	}
}

func TestRegisterObjectWhileBusy(t *testing.T) {
	r, _ := newTestRoom(t)
	_ = r.RequestView(1)
	err := r.RegisterObject(wall.North, game_object.NewGameObject())
	if !errors.Is(err, transition.ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if got := r.Engine().Registry().Len(); got != 0 {
		t.Fatalf("registry has %d objects, want 0", got)
	}
}

func TestPickUpAndUse(t *testing.T) {
	inv := inventory.NewInventory()
	r, _ := newTestRoom(t, WithInventory(inv))
	key := game_object.NewGameObject(game_object.WithName("key"))

	if err := r.PickUp(key); err != nil {
		t.Fatalf("PickUp: %v", err)
	}
	if key.Enabled() || !inv.Has("key") {
		t.Fatal("picked up item should be disabled and held")
	}
	if err := r.PickUp(key); !errors.Is(err, ErrNoItem) {
		t.Fatalf("second pick up: err = %v", err)
	}
	if !r.UseItem("key") || r.UseItem("key") {
		t.Fatal("key should be usable exactly once")
	}
}

func TestCallbacksForwarded(t *testing.T) {
	r, _ := newTestRoom(t)
	var events []transition.Event
	r.OnStart(func(ev transition.Event) { events = append(events, ev) })
	r.OnComplete(func(ev transition.Event) { events = append(events, ev) })
	_ = r.RequestView(2)
	finish(r)
	if len(events) != 2 || events[0].To != 2 || events[1].To != 2 {
		t.Fatalf("events = %+v", events)
	}
}
