package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultValidates(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Views[0].Name != "NorthEast" || c.Views[1].Walls[0] != "south" {
		t.Errorf("views = %+v", c.Views[:2])
	}
}

func TestParseFillsDefaults(t *testing.T) {
	c, err := Parse([]byte(`
default_view = 2
workers = 2
inventory = ["key", "coin"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Duration != 0.5 || c.TickRate != 60 || c.LogLevel != "info" {
		t.Errorf("scalar defaults = %v %v %q", c.Duration, c.TickRate, c.LogLevel)
	}
	if c.DefaultView != 2 || c.Workers != 2 || len(c.Inventory) != 2 {
		t.Errorf("parsed = %+v", c)
	}
	if len(c.Views) != 4 || len(c.Walls) != 4 || len(c.Hidden) != 3 {
		t.Errorf("layout defaults missing: %d views, %d walls, hidden %v", len(c.Views), len(c.Walls), c.Hidden)
	}
}

func TestParseRejectsBadLayouts(t *testing.T) {
	cases := map[string]string{
		"negative duration": `duration = -1.0`,
		"view out of range": `default_view = 4`,
		"short hidden":      `hidden = [0.0, 10.0]`,
		"bad level":         `log_level = "loud"`,
		"too few views": `
[[views]]
name = "only"
walls = ["north", "east"]
camera_position = [0.0, 0.0, 0.0]
camera_rotation = [0.0, 0.0, 0.0]
`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: err = %v, want ErrInvalidConfig", name, err)
		}
	}
}

func TestValidateWalls(t *testing.T) {
	c := Default()
	c.Views[0].Walls = []string{"north", "North"}
	if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("duplicate view wall: err = %v", err)
	}

	c = Default()
	c.Walls = c.Walls[:3]
	if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("missing wall: err = %v", err)
	}

	c = Default()
	c.Walls[1].Name = "up"
	if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown wall: err = %v", err)
	}
}

func TestResolveAppliesFlags(t *testing.T) {
	view, dur, headless, level := 3, 0.25, true, "debug"
	c, err := Default().Resolve(Flags{View: &view, Duration: &dur, Headless: &headless, LogLevel: &level})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.DefaultView != 3 || c.Duration != 0.25 || !c.Headless || c.LogLevel != "debug" {
		t.Errorf("resolved = %+v", c)
	}
	if c.Workers != 0 || c.Remote != "" {
		t.Errorf("unset flags changed config: %+v", c)
	}

	bad := 7
	if _, err := Default().Resolve(Flags{View: &bad}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad view flag: err = %v", err)
	}
}

func TestSaveDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.toml")
	if err := SaveDefault(path); err != nil {
		t.Fatalf("SaveDefault: %v", err)
	}
	if err := SaveDefault(path); err == nil {
		t.Fatal("SaveDefault overwrote an existing file")
	}

	c, err := Load(path)
	if err != nil {
		data, _ := os.ReadFile(path)
		t.Fatalf("Load: %v\n%s", err, data)
	}
	if c.Views[2].Name != "SouthWest" || len(c.Walls[2].Objects) != 2 {
		t.Errorf("loaded = %+v", c)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func TestBuildStartsAtDefaultView(t *testing.T) {
	c := Default()
	c.DefaultView = 1
	c.Inventory = []string{"key"}

	s, err := c.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Room.Engine().Close()

	if s.Room.CurrentViewIndex() != 1 || s.Room.CurrentViewName() != "SouthEast" {
		t.Fatalf("view = %d %q", s.Room.CurrentViewIndex(), s.Room.CurrentViewName())
	}
	hidden := mgl32.Vec3{0, 10, 0}
	if got := s.Walls[wall.North].Position(); got != hidden {
		t.Errorf("north wall = %v, want hidden", got)
	}
	if got := s.Objects["painting"].Position(); got != hidden {
		t.Errorf("painting = %v, want hidden", got)
	}
	if got := s.Walls[wall.South].Position(); got != (mgl32.Vec3{-0.01654, 1.5566, -7.078}) {
		t.Errorf("south wall = %v", got)
	}
	want := mgl32.Vec3{0, 2.6, -6.95}
	if got := s.Objects["clock"].Position(); !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("clock = %v, want %v", got, want)
	}
	if got := s.Camera.Position(); got != (mgl32.Vec3{5.69, 6.14, 7.56}) {
		t.Errorf("camera = %v", got)
	}
	if !s.Room.Inventory().Has("key") {
		t.Error("inventory not seeded")
	}
}

func TestBuildTransitionMovesObjects(t *testing.T) {
	s, err := Default().Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer s.Room.Engine().Close()

	if err := s.Room.RequestView(1); err != nil {
		t.Fatalf("RequestView: %v", err)
	}
	for i := 0; i < 20 && s.Room.IsBusy(); i++ {
		s.Room.Tick(0.05)
	}
	if s.Room.CurrentViewIndex() != 1 {
		t.Fatalf("view = %d", s.Room.CurrentViewIndex())
	}
	want := mgl32.Vec3{0, 2.6, -6.95}
	if got := s.Objects["clock"].Position(); !got.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("clock = %v, want %v", got, want)
	}
	if got := s.Objects["painting"].Position(); got != (mgl32.Vec3{0, 10, 0}) {
		t.Errorf("painting = %v, want hidden", got)
	}
}

func TestLoadSampleRoom(t *testing.T) {
	c, err := Load(filepath.Join("..", "examples", "room.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Duration != 0.75 || c.Workers != 4 || c.Remote != "127.0.0.1:8765" {
		t.Errorf("settings = %+v", c)
	}
	if len(c.RemoteOrigins) != 1 || c.RemoteOrigins[0] != "http://localhost:3000" {
		t.Errorf("remote origins = %v", c.RemoteOrigins)
	}
	if len(c.Walls[2].Objects) != 1 || c.Walls[2].Objects[0].Name != "chest" {
		t.Errorf("east objects = %+v", c.Walls[2].Objects)
	}
	if len(c.Walls[3].Objects) != 0 {
		t.Errorf("west objects = %+v", c.Walls[3].Objects)
	}
	if c.TickRate != 60 {
		t.Errorf("tick_rate default = %v", c.TickRate)
	}
}
