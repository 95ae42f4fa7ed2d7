package topology

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/roomview/engine/wall"
)

func TestDefaultViews(t *testing.T) {
	topo := Default()
	want := [ViewCount][2]wall.WallID{
		{wall.North, wall.East},
		{wall.South, wall.East},
		{wall.South, wall.West},
		{wall.North, wall.West},
	}
	for i, w := range want {
		if got := topo.VisibleWalls(i); got != w {
			t.Errorf("VisibleWalls(%d) = %v, want %v", i, got, w)
		}
		v, err := topo.View(i)
		if err != nil || v.Index != i {
			t.Errorf("View(%d) = %+v, %v", i, v, err)
		}
	}
}

func TestEveryWallIsVisibleOrHidden(t *testing.T) {
	topo := Default()
	for i := 0; i < ViewCount; i++ {
		hidden := topo.HiddenWalls(i)
		if len(hidden) != 2 {
			t.Fatalf("view %d hides %d walls, want 2", i, len(hidden))
		}
		v, _ := topo.View(i)
		for _, h := range hidden {
			if v.Shows(h) {
				t.Errorf("view %d both shows and hides %s", i, h)
			}
		}
	}
}

func TestAdjacentViewsSwapOneWall(t *testing.T) {
	topo := Default()
	for i := 0; i < ViewCount; i++ {
		next := topo.Step(i, 1)
		exit, okExit := topo.ExitingWall(i, next)
		enter, okEnter := topo.EnteringWall(i, next)
		if !okExit || !okEnter {
			t.Fatalf("views %d -> %d should differ in exactly one wall", i, next)
		}
		if exit == enter {
			t.Errorf("views %d -> %d: wall %s both exits and enters", i, next, exit)
		}
		if len(topo.StayingWalls(i, next)) != 1 {
			t.Errorf("views %d -> %d: want one staying wall", i, next)
		}
	}
}

func TestScenarioNorthEastToSouthEast(t *testing.T) {
	topo := Default()
	if got, _ := topo.ExitingWall(0, 1); got != wall.North {
		t.Errorf("exiting = %s, want north", got)
	}
	if got, _ := topo.EnteringWall(0, 1); got != wall.South {
		t.Errorf("entering = %s, want south", got)
	}
	if got := topo.StayingWalls(0, 1); !reflect.DeepEqual(got, []wall.WallID{wall.East}) {
		t.Errorf("staying = %v, want [east]", got)
	}
}

func TestOppositeViewsTransitionBothWalls(t *testing.T) {
	topo := Default()
	if _, ok := topo.ExitingWall(0, 2); ok {
		t.Fatal("ExitingWall should be undefined for views differing in two walls")
	}
	exiting := topo.ExitingWalls(0, 2)
	entering := topo.EnteringWalls(0, 2)
	if !reflect.DeepEqual(exiting, []wall.WallID{wall.North, wall.East}) {
		t.Errorf("exiting = %v", exiting)
	}
	if !reflect.DeepEqual(entering, []wall.WallID{wall.South, wall.West}) {
		t.Errorf("entering = %v", entering)
	}
	if len(topo.StayingWalls(0, 2)) != 0 {
		t.Errorf("staying = %v, want none", topo.StayingWalls(0, 2))
	}
}

func TestSameViewHasNoMovement(t *testing.T) {
	topo := Default()
	if len(topo.ExitingWalls(1, 1)) != 0 || len(topo.EnteringWalls(1, 1)) != 0 {
		t.Fatal("identical views should move nothing")
	}
}

func TestStepIsCyclic(t *testing.T) {
	topo := Default()
	cases := []struct{ current, dir, want int }{
		{0, -1, 3},
		{3, 1, 0},
		{1, 1, 2},
		{2, -1, 1},
		{2, 0, 2},
		{0, -5, 3},
	}
	for _, c := range cases {
		if got := topo.Step(c.current, c.dir); got != c.want {
			t.Errorf("Step(%d, %d) = %d, want %d", c.current, c.dir, got, c.want)
		}
	}
	for i := 0; i < ViewCount; i++ {
		if topo.Step(topo.Step(i, 1), -1) != i {
			t.Errorf("left after right from %d does not return", i)
		}
		v := i
		for n := 0; n < ViewCount; n++ {
			v = topo.Step(v, 1)
		}
		if v != i {
			t.Errorf("four right steps from %d end at %d", i, v)
		}
	}
}

func TestViewByName(t *testing.T) {
	topo := Default()
	v, err := topo.ViewByName("southwest")
	if err != nil || v.Index != 2 {
		t.Fatalf("ViewByName(southwest) = %+v, %v", v, err)
	}
	if _, err := topo.ViewByName("attic"); !errors.Is(err, ErrUnknownViewName) {
		t.Fatalf("err = %v, want ErrUnknownViewName", err)
	}
}

func TestInvalidIndex(t *testing.T) {
	topo := Default()
	for _, i := range []int{-1, 4, 100} {
		if _, err := topo.View(i); !errors.Is(err, ErrInvalidView) {
			t.Errorf("View(%d) err = %v", i, err)
		}
		if topo.ExitingWalls(0, i) != nil {
			t.Errorf("ExitingWalls(0, %d) should be nil", i)
		}
	}
}

func TestNewRejectsDegenerateViews(t *testing.T) {
	views := Default().Views()
	views[2].Visible = [2]wall.WallID{wall.West, wall.West}
	if _, err := New(views); !errors.Is(err, ErrInvalidTopology) {
		t.Errorf("duplicate wall: err = %v", err)
	}

	views = Default().Views()
	views[1].Visible[1] = wall.WallID(12)
	if _, err := New(views); !errors.Is(err, ErrInvalidTopology) {
		t.Errorf("unknown wall: err = %v", err)
	}

	views = Default().Views()
	views[3].Name = "northeast"
	if _, err := New(views); !errors.Is(err, ErrInvalidTopology) {
		t.Errorf("duplicate name: err = %v", err)
	}
}
