// Package config loads the room layout and runtime settings from TOML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Carmen-Shannon/roomview/engine/topology"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the whole room: layout plus runtime settings.
// Vectors are three floats, e.g. visible = [-4.0, 1.5566, 0.014]; whole numbers need the decimal point.
type Config struct {
	Duration    float64   `toml:"duration" default:"0.5"`
	DefaultView int       `toml:"default_view"`
	Hidden      []float64 `toml:"hidden"`
	Inventory   []string  `toml:"inventory"`

	TickRate  float64 `toml:"tick_rate" default:"60"`
	Workers   int     `toml:"workers"`
	Headless  bool    `toml:"headless"`
	Remote    string  `toml:"remote"`
	LogLevel  string  `toml:"log_level" default:"info"`
	Statsview string  `toml:"statsview"`
	SentryDSN string  `toml:"sentry_dsn"`
	Profiling bool    `toml:"profiling"`
	// RemoteOrigins lists extra browser origins allowed to use the remote; same-origin is always allowed.
	RemoteOrigins []string `toml:"remote_origins"`

	Views []ViewConfig `toml:"views"`
	Walls []WallConfig `toml:"walls"`
}

// ViewConfig is one camera stop and the two walls it shows.
type ViewConfig struct {
	Name           string    `toml:"name"`
	Walls          []string  `toml:"walls"`
	CameraPosition []float64 `toml:"camera_position"`
	CameraRotation []float64 `toml:"camera_rotation"`
}

// WallConfig places a wall and the objects that move with it. Object positions and rotations are
// world values with the wall at its visible position.
type WallConfig struct {
	Name    string         `toml:"name"`
	Visible []float64      `toml:"visible"`
	Objects []ObjectConfig `toml:"objects"`
}

type ObjectConfig struct {
	Name     string    `toml:"name"`
	Position []float64 `toml:"position"`
	Rotation []float64 `toml:"rotation"`
}

// Flags carries command line overrides. Nil fields leave the config value alone.
type Flags struct {
	View      *int
	Duration  *float64
	Headless  *bool
	Remote    *string
	LogLevel  *string
	Workers   *int
	Statsview *string
}

// Default returns the reference room: four views circling the room, walls 1.5566 high and a
// hidden position 10 units above the floor.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	c := Config{
		Duration: 0.5,
		Hidden:   []float64{0, 10, 0},
		TickRate: 60,
		LogLevel: "info",
	}
	for _, v := range topology.Default().Views() {
		c.Views = append(c.Views, ViewConfig{
			Name:           v.Name,
			Walls:          []string{v.Visible[0].String(), v.Visible[1].String()},
			CameraPosition: vecToSlice(v.Camera.Position),
			CameraRotation: vecToSlice(v.Camera.Rotation),
		})
	}
	c.Walls = []WallConfig{
		{Name: "north", Visible: []float64{-0.02, 1.5566, 7.08}, Objects: []ObjectConfig{
			{Name: "painting", Position: []float64{0.8, 2.2, 6.95}},
		}},
		{Name: "south", Visible: []float64{-0.01654, 1.5566, -7.078}, Objects: []ObjectConfig{
			{Name: "clock", Position: []float64{0, 2.6, -6.95}, Rotation: []float64{0, 180, 0}},
		}},
		{Name: "east", Visible: []float64{-4, 1.5566, 0.014}, Objects: []ObjectConfig{
			{Name: "shelf", Position: []float64{-3.8, 1.2, 1.5}, Rotation: []float64{0, 90, 0}},
			{Name: "key", Position: []float64{-3.7, 1.45, 1.5}, Rotation: []float64{0, 90, 0}},
		}},
		{Name: "west", Visible: []float64{4, 1.5566, 0.014}, Objects: []ObjectConfig{
			{Name: "door", Position: []float64{3.9, 1.1, -1.2}, Rotation: []float64{0, 270, 0}},
		}},
	}
	return c
}

// Load reads a TOML file. Sections left out of the file (hidden, views, walls) fall back to
// Default; scalar settings take their defaults from the struct tags.
//
// Parameters:
//   - path: the TOML file
//
// Returns:
//   - Config: the loaded configuration, validated
//   - error: read, decode or validation errors
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML bytes the same way Load does.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	def := Default()
	if c.Hidden == nil {
		c.Hidden = def.Hidden
	}
	if c.Views == nil {
		c.Views = def.Views
	}
	if c.Walls == nil {
		c.Walls = def.Walls
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// SaveDefault writes the default configuration to path. It refuses to overwrite an existing file.
//
// Parameters:
//   - path: destination file
//
// Returns:
//   - error: if the file exists or cannot be written
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("config: encode default: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the room layout and runtime settings.
//
// Returns:
//   - error: the first problem found, wrapping ErrInvalidConfig
func (c Config) Validate() error {
	if c.Duration < 0 {
		return invalid("duration %v is negative", c.Duration)
	}
	if c.DefaultView < 0 || c.DefaultView >= topology.ViewCount {
		return invalid("default_view %d out of range [0, %d)", c.DefaultView, topology.ViewCount)
	}
	if c.Workers < 0 {
		return invalid("workers %d is negative", c.Workers)
	}
	if !validVec(c.Hidden) {
		return invalid("hidden needs 3 components, got %d", len(c.Hidden))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if len(c.Views) != topology.ViewCount {
		return invalid("need %d views, got %d", topology.ViewCount, len(c.Views))
	}
	for i, v := range c.Views {
		if len(v.Walls) != 2 {
			return invalid("view %d: need 2 walls, got %d", i, len(v.Walls))
		}
		for _, name := range v.Walls {
			if _, err := wall.ParseWallID(name); err != nil {
				return invalid("view %d: %v", i, err)
			}
		}
		if strings.EqualFold(v.Walls[0], v.Walls[1]) {
			return invalid("view %d: wall %s listed twice", i, v.Walls[0])
		}
		if !validVec(v.CameraPosition) || !validVec(v.CameraRotation) {
			return invalid("view %d: camera vectors need 3 components", i)
		}
	}

	seen := make(map[wall.WallID]bool, len(wall.AllWalls))
	for i, w := range c.Walls {
		id, err := wall.ParseWallID(w.Name)
		if err != nil {
			return invalid("wall %d: %v", i, err)
		}
		if seen[id] {
			return invalid("wall %s configured twice", id)
		}
		seen[id] = true
		if !validVec(w.Visible) {
			return invalid("wall %s: visible needs 3 components", id)
		}
		for _, o := range w.Objects {
			if !validVec(o.Position) {
				return invalid("wall %s: object %q: position needs 3 components", id, o.Name)
			}
			if len(o.Rotation) != 0 && !validVec(o.Rotation) {
				return invalid("wall %s: object %q: rotation needs 3 components", id, o.Name)
			}
		}
	}
	for _, id := range wall.AllWalls {
		if !seen[id] {
			return invalid("wall %s is not configured", id)
		}
	}
	return nil
}

// Resolve returns a copy of c with the command line overrides applied.
//
// Parameters:
//   - f: the overrides
//
// Returns:
//   - Config: the resolved configuration
//   - error: if the result no longer validates
func (c Config) Resolve(f Flags) (Config, error) {
	if f.View != nil {
		c.DefaultView = *f.View
	}
	if f.Duration != nil {
		c.Duration = *f.Duration
	}
	if f.Headless != nil {
		c.Headless = *f.Headless
	}
	if f.Remote != nil {
		c.Remote = *f.Remote
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
	if f.Statsview != nil {
		c.Statsview = *f.Statsview
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseLevel maps a level name such as debug, info, warn or error to a logrus level.
// Empty means info.
func ParseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.InfoLevel, nil
	}
	l, err := logrus.ParseLevel(s)
	if err != nil {
		return 0, invalid("log_level %q", s)
	}
	return l, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("config: %s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig)
}

func validVec(v []float64) bool {
	return len(v) == 3
}

func toVec(v []float64) mgl32.Vec3 {
	if len(v) != 3 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vecToSlice(v mgl32.Vec3) []float64 {
	return []float64{float64(v[0]), float64(v[1]), float64(v[2])}
}
