package config

import (
	"fmt"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/camera"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/Carmen-Shannon/roomview/engine/inventory"
	"github.com/Carmen-Shannon/roomview/engine/room"
	"github.com/Carmen-Shannon/roomview/engine/topology"
	"github.com/Carmen-Shannon/roomview/engine/transition"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/sirupsen/logrus"
)

// Scene is a room built from a Config together with the objects it moves.
type Scene struct {
	Room    room.Room
	Camera  camera.Camera
	Walls   map[wall.WallID]game_object.GameObject
	Objects map[string]game_object.GameObject
}

// Topology converts the configured views into a topology.
//
// Returns:
//   - *topology.Topology: the view table
//   - error: if the views do not form a valid topology
func (c Config) Topology() (*topology.Topology, error) {
	if len(c.Views) != topology.ViewCount {
		return nil, invalid("need %d views, got %d", topology.ViewCount, len(c.Views))
	}
	var views [topology.ViewCount]topology.View
	for i, v := range c.Views {
		if len(v.Walls) != 2 {
			return nil, invalid("view %d: need 2 walls, got %d", i, len(v.Walls))
		}
		for j, name := range v.Walls {
			id, err := wall.ParseWallID(name)
			if err != nil {
				return nil, invalid("view %d: %v", i, err)
			}
			views[i].Visible[j] = id
		}
		views[i].Name = v.Name
		views[i].Camera = common.Pose{Position: toVec(v.CameraPosition), Rotation: toVec(v.CameraRotation)}
	}
	t, err := topology.New(views)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return t, nil
}

// Build creates the camera, walls and objects described by c and wires them into a room.
// Objects are registered while their wall is at its visible pose, so configured positions are
// world positions in the visible layout. The room starts snapped to DefaultView.
//
// Parameters:
//   - logger: logger handed to the transition engine and room; nil means logrus.StandardLogger()
//
// Returns:
//   - *Scene: the built room and its objects
//   - error: validation or registration errors
func (c Config) Build(logger logrus.FieldLogger) (*Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	topo, err := c.Topology()
	if err != nil {
		return nil, err
	}

	start := topo.CameraPose(c.DefaultView)
	s := &Scene{
		Camera:  camera.NewCamera(camera.WithPose(start)),
		Walls:   make(map[wall.WallID]game_object.GameObject, len(wall.AllWalls)),
		Objects: make(map[string]game_object.GameObject),
	}

	regOpts := []wall.RegistryBuilderOption{wall.WithHiddenPosition(toVec(c.Hidden))}
	for _, wc := range c.Walls {
		id, _ := wall.ParseWallID(wc.Name)
		visible := toVec(wc.Visible)
		w := game_object.NewGameObject(
			game_object.WithName(id.String()),
			game_object.WithPosition(visible[0], visible[1], visible[2]),
		)
		s.Walls[id] = w
		regOpts = append(regOpts, wall.WithWall(id, w, visible))
	}
	reg, err := wall.NewRegistry(regOpts...)
	if err != nil {
		return nil, fmt.Errorf("config: build registry: %w", err)
	}

	for _, wc := range c.Walls {
		id, _ := wall.ParseWallID(wc.Name)
		for _, oc := range wc.Objects {
			p, r := toVec(oc.Position), toVec(oc.Rotation)
			obj := game_object.NewGameObject(
				game_object.WithName(oc.Name),
				game_object.WithPosition(p[0], p[1], p[2]),
				game_object.WithRotation(r[0], r[1], r[2]),
			)
			if err := reg.Register(id, obj); err != nil {
				return nil, fmt.Errorf("config: register %q on %s: %w", oc.Name, id, err)
			}
			if oc.Name != "" {
				s.Objects[oc.Name] = obj
			}
		}
	}

	eng, err := transition.NewEngine(
		transition.WithRegistry(reg),
		transition.WithTopology(topo),
		transition.WithCamera(s.Camera),
		transition.WithDuration(float32(c.Duration)),
		transition.WithDefaultView(c.DefaultView),
		transition.WithWorkers(c.Workers),
		transition.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("config: build transition engine: %w", err)
	}

	s.Room, err = room.NewRoom(
		room.WithEngine(eng),
		room.WithInventory(inventory.NewInventory(inventory.WithItems(c.Inventory...))),
		room.WithLogger(logger),
	)
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("config: build room: %w", err)
	}
	return s, nil
}
