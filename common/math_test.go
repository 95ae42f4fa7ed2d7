package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func anglesClose(a, b mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.Abs(DeltaAngle(a[i], b[i])) > 1e-2 {
			return false
		}
	}
	return true
}

func TestSmoothstepEndpoints(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.5},
		{-3, 0},
		{7, 1},
		{math32.NaN(), 0},
	}
	for _, c := range cases {
		if got := Smoothstep(c.in); got != c.want {
			t.Errorf("Smoothstep(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSmoothstepMonotonic(t *testing.T) {
	prev := Smoothstep(0)
	for i := 1; i <= 100; i++ {
		cur := Smoothstep(float32(i) / 100)
		if cur < prev {
			t.Fatalf("Smoothstep decreased at step %d: %v < %v", i, cur, prev)
		}
		prev = cur
	}
}

func TestLerp(t *testing.T) {
	a := mgl32.Vec3{0, 0, 0}
	b := mgl32.Vec3{2, 4, 6}
	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(t=0) = %v, want %v", got, a)
	}
	if got := Lerp(a, b, 0.5); got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("Lerp(t=0.5) = %v", got)
	}
}

func TestLerpAngleTakesShortestArc(t *testing.T) {
	if got := NormalizeAngle(LerpAngle(350, 10, 0.5)); got != 0 {
		t.Errorf("LerpAngle(350, 10, 0.5) = %v, want 0", got)
	}
	if got := LerpAngle(10, 350, 0.5); got != 0 {
		t.Errorf("LerpAngle(10, 350, 0.5) = %v, want 0", got)
	}
	if got := LerpAngle(310, 40, 1); NormalizeAngle(got) != 40 {
		t.Errorf("LerpAngle(310, 40, 1) = %v, want 40", got)
	}
}

func TestDeltaAngle(t *testing.T) {
	if got := DeltaAngle(0, 180); got != 180 {
		t.Errorf("DeltaAngle(0, 180) = %v", got)
	}
	if got := DeltaAngle(0, 190); got != -170 {
		t.Errorf("DeltaAngle(0, 190) = %v", got)
	}
	if got := DeltaAngle(220, 310); got != 90 {
		t.Errorf("DeltaAngle(220, 310) = %v", got)
	}
}

func TestEulerQuatRoundTrip(t *testing.T) {
	rotations := []mgl32.Vec3{
		{17, 310, 0},
		{17, 40, 0},
		{24.408, 306.719, 0.009},
		{0, 90, 0},
		{45, 0, 30},
	}
	for _, r := range rotations {
		got := QuatToEuler(EulerToQuat(r))
		if !anglesClose(got, r) {
			t.Errorf("QuatToEuler(EulerToQuat(%v)) = %v", r, got)
		}
	}
}

func TestLocalWorldRoundTrip(t *testing.T) {
	parent := Pose{
		Position: mgl32.Vec3{-1.908, 0.015, 2.108},
		Rotation: mgl32.Vec3{0, 90, 0},
	}
	world := mgl32.Vec3{-1.5, 1.2, 2.0}

	local := WorldToLocal(parent, world)
	back := LocalToWorld(parent, local)
	if !back.ApproxEqualThreshold(world, 1e-5) {
		t.Errorf("LocalToWorld(WorldToLocal(p)) = %v, want %v", back, world)
	}
}

func TestLocalToWorldAppliesYaw(t *testing.T) {
	parent := Pose{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.Vec3{0, 90, 0}}
	got := LocalToWorld(parent, mgl32.Vec3{1, 0, 0})
	want := mgl32.Vec3{1, 2, 2}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("LocalToWorld = %v, want %v", got, want)
	}
}

func TestRotationOffsetRoundTrip(t *testing.T) {
	parent := mgl32.Vec3{0, 270, 0}
	child := mgl32.Vec3{10, 300, 5}

	local := WorldToLocalRotation(parent, child)
	got := LocalToWorldRotation(parent, local)
	if !anglesClose(got, child) {
		t.Errorf("LocalToWorldRotation = %v, want %v", got, child)
	}
}

func TestLerpPose(t *testing.T) {
	a := Pose{Position: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.Vec3{17, 310, 0}}
	b := Pose{Position: mgl32.Vec3{4, 0, 0}, Rotation: mgl32.Vec3{17, 40, 0}}
	mid := LerpPose(a, b, 0.5)
	if mid.Position != (mgl32.Vec3{2, 0, 0}) {
		t.Errorf("position = %v", mid.Position)
	}
	if NormalizeAngle(mid.Rotation[1]) != 355 {
		t.Errorf("yaw = %v, want 355", mid.Rotation[1])
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(float32(0), 0.5, 2); got != 0.5 {
		t.Errorf("Coalesce = %v", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce = %q", got)
	}
}
