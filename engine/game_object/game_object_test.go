package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewGameObjectDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()
	if a.ID() == b.ID() {
		t.Fatalf("generated IDs collide: %d", a.ID())
	}
	if !a.Enabled() || a.Destroyed() {
		t.Fatalf("new object should be enabled and alive")
	}
	if a.Position() != (mgl32.Vec3{}) || a.Rotation() != (mgl32.Vec3{}) {
		t.Fatalf("new object should sit at the origin, got %v %v", a.Position(), a.Rotation())
	}
}

func TestBuilderOptions(t *testing.T) {
	obj := NewGameObject(
		WithID(7),
		WithName("painting"),
		WithPosition(1, 2, 3),
		WithRotation(0, 90, 0),
		WithEnabled(false),
	)
	if obj.ID() != 7 || obj.Name() != "painting" || obj.Enabled() {
		t.Fatalf("options not applied: id=%d name=%q enabled=%v", obj.ID(), obj.Name(), obj.Enabled())
	}
	want := common.Pose{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.Vec3{0, 90, 0}}
	if obj.Pose() != want {
		t.Fatalf("Pose() = %v, want %v", obj.Pose(), want)
	}
}

func TestDestroyDropsWrites(t *testing.T) {
	obj := NewGameObject(WithPosition(1, 1, 1))
	obj.Destroy()
	obj.SetPosition(mgl32.Vec3{5, 5, 5})
	obj.SetPose(common.Pose{Position: mgl32.Vec3{9, 9, 9}})
	if obj.Position() != (mgl32.Vec3{1, 1, 1}) {
		t.Fatalf("destroyed object moved to %v", obj.Position())
	}
	if !obj.Destroyed() || obj.Enabled() {
		t.Fatalf("destroyed object should report Destroyed and be disabled")
	}
}

func TestAlive(t *testing.T) {
	if Alive(nil) {
		t.Fatal("nil transform reported alive")
	}
	obj := NewGameObject()
	if !Alive(obj) {
		t.Fatal("fresh object reported dead")
	}
	obj.Destroy()
	if Alive(obj) {
		t.Fatal("destroyed object reported alive")
	}
}
