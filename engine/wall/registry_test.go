package wall

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

func newTestRegistry(t *testing.T) (Registry, game_object.GameObject) {
	t.Helper()
	north := game_object.NewGameObject(game_object.WithName("north"), game_object.WithPosition(-1.908, 0.015, 2.108))
	reg, err := NewRegistry(
		WithHiddenPosition(mgl32.Vec3{0, 100, 0}),
		WithWall(North, north, mgl32.Vec3{-1.908, 0.015, 2.108}),
		WithWall(East, game_object.NewGameObject(game_object.WithRotation(0, 90, 0)), mgl32.Vec3{2, 0, 1}),
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg, north
}

func TestParseWallID(t *testing.T) {
	for _, id := range AllWalls {
		got, err := ParseWallID(id.String())
		if err != nil || got != id {
			t.Errorf("ParseWallID(%q) = %v, %v", id.String(), got, err)
		}
	}
	if got, err := ParseWallID(" North "); err != nil || got != North {
		t.Errorf("ParseWallID is not case-insensitive: %v, %v", got, err)
	}
	if _, err := ParseWallID("ceiling"); !errors.Is(err, ErrInvalidWallID) {
		t.Errorf("ParseWallID(ceiling) err = %v", err)
	}
}

func TestNewRegistryRejectsInvalidWall(t *testing.T) {
	_, err := NewRegistry(WithWall(WallID(9), nil, mgl32.Vec3{}))
	if !errors.Is(err, ErrUnknownWall) {
		t.Fatalf("err = %v, want ErrUnknownWall", err)
	}
}

func TestRegisterCapturesLocalOffset(t *testing.T) {
	reg, north := newTestRegistry(t)
	painting := game_object.NewGameObject(game_object.WithPosition(-1.5, 1.2, 2.0))

	if err := reg.Register(North, painting); err != nil {
		t.Fatalf("Register: %v", err)
	}
	objs := reg.ObjectsOf(North)
	if len(objs) != 1 {
		t.Fatalf("ObjectsOf(North) has %d objects, want 1", len(objs))
	}

	wallPose := common.Pose{Position: north.Position(), Rotation: north.Rotation()}
	got := objs[0].WorldPose(wallPose).Position
	if !got.ApproxEqualThreshold(painting.Position(), 1e-5) {
		t.Fatalf("world position from offset = %v, want %v", got, painting.Position())
	}
}

func TestRegisterRotatedWall(t *testing.T) {
	reg, _ := newTestRegistry(t)
	east, _ := reg.Wall(East)
	lamp := game_object.NewGameObject(game_object.WithPosition(2, 1, 2), game_object.WithRotation(0, 120, 0))

	if err := reg.Register(East, lamp); err != nil {
		t.Fatalf("Register: %v", err)
	}
	bound := reg.ObjectsOf(East)[0]
	pose := bound.WorldPose(common.Pose{Position: east.Handle.Position(), Rotation: east.Handle.Rotation()})
	if !pose.Position.ApproxEqualThreshold(lamp.Position(), 1e-5) {
		t.Fatalf("position = %v, want %v", pose.Position, lamp.Position())
	}
	if d := common.DeltaAngle(pose.Rotation[1], 120); d > 1e-2 || d < -1e-2 {
		t.Fatalf("yaw = %v, want 120", pose.Rotation[1])
	}
}

func TestRegisterIsIdempotentAndOrdered(t *testing.T) {
	reg, _ := newTestRegistry(t)
	a := game_object.NewGameObject(game_object.WithName("a"))
	b := game_object.NewGameObject(game_object.WithName("b"))
	c := game_object.NewGameObject(game_object.WithName("c"))

	for _, obj := range []game_object.GameObject{a, b, a, c, b} {
		if err := reg.Register(North, obj); err != nil {
			t.Fatalf("Register(%s): %v", obj.Name(), err)
		}
	}
	objs := reg.ObjectsOf(North)
	if len(objs) != 3 || reg.Len() != 3 {
		t.Fatalf("got %d objects (Len %d), want 3", len(objs), reg.Len())
	}
	for i, want := range []game_object.GameObject{a, b, c} {
		if objs[i].Handle != want {
			t.Errorf("objs[%d] = %v, want %s", i, objs[i].Handle, want.Name())
		}
	}
}

func TestRegisterErrors(t *testing.T) {
	reg, _ := newTestRegistry(t)
	obj := game_object.NewGameObject()

	if err := reg.Register(WallID(-1), obj); !errors.Is(err, ErrUnknownWall) {
		t.Errorf("invalid wall: err = %v", err)
	}
	if err := reg.Register(North, nil); !errors.Is(err, ErrNilObject) {
		t.Errorf("nil object: err = %v", err)
	}
	if err := reg.Register(South, obj); !errors.Is(err, ErrMissingWall) {
		t.Errorf("unconfigured wall: err = %v", err)
	}
	if err := reg.Register(North, obj); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(East, obj); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("rebinding: err = %v", err)
	}
	if id, ok := reg.WallOf(obj); !ok || id != North {
		t.Errorf("WallOf = %v, %v; want north", id, ok)
	}
}

func TestObjectsOfReturnsCopy(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_ = reg.Register(North, game_object.NewGameObject())

	objs := reg.ObjectsOf(North)
	objs[0].LocalOffset = mgl32.Vec3{42, 42, 42}
	if reg.ObjectsOf(North)[0].LocalOffset == objs[0].LocalOffset {
		t.Fatal("mutating the returned slice changed the registry")
	}
	if reg.ObjectsOf(WallID(7)) != nil {
		t.Fatal("unknown wall should yield nil")
	}
}

// taggedProp is a value-type handle whose slice field makes it unhashable.
type taggedProp struct {
	tags []string
	pose *common.Pose
}

func (p taggedProp) Position() mgl32.Vec3 { return p.pose.Position }
func (p taggedProp) Rotation() mgl32.Vec3 { return p.pose.Rotation }
func (p taggedProp) SetPosition(pos mgl32.Vec3) { p.pose.Position = pos }
func (p taggedProp) SetRotation(rot mgl32.Vec3) { p.pose.Rotation = rot }
func (p taggedProp) Destroyed() bool { return false }

type numberedProp struct {
	taggedProp
	id uint64
}

func (p numberedProp) ID() uint64 { return p.id }

func TestRegisterUncomparableHandle(t *testing.T) {
	reg, _ := newTestRegistry(t)

	plain := taggedProp{tags: []string{"vase"}, pose: &common.Pose{}}
	if err := reg.Register(North, plain); !errors.Is(err, ErrUncomparableObject) {
		t.Fatalf("Register(unhashable) err = %v, want ErrUncomparableObject", err)
	}
	if _, ok := reg.WallOf(plain); ok {
		t.Fatal("WallOf(unhashable) reported a wall")
	}

	numbered := numberedProp{taggedProp: taggedProp{tags: []string{"clock"}, pose: &common.Pose{}}, id: 42}
	if err := reg.Register(North, numbered); err != nil {
		t.Fatalf("Register(numbered): %v", err)
	}
	if err := reg.Register(North, numbered); err != nil {
		t.Fatalf("re-Register(numbered): %v", err)
	}
	if err := reg.Register(East, numbered); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("Register on second wall err = %v, want ErrAlreadyBound", err)
	}
	if id, ok := reg.WallOf(numbered); !ok || id != North {
		t.Fatalf("WallOf(numbered) = %v, %v", id, ok)
	}
	if got := reg.ObjectsOf(North); len(got) != 1 || got[0].Handle.(numberedProp).id != 42 {
		t.Fatalf("ObjectsOf(North) = %+v", got)
	}
}
