// Package wall holds the four room walls and the objects bound to them.
package wall

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownWall is returned for a WallID outside the four walls.
	ErrUnknownWall = errors.New("unknown wall")
	// ErrNilObject is returned when registering a nil handle.
	ErrNilObject = errors.New("nil object")
	// ErrUncomparableObject is returned when registering a handle that is neither comparable nor
	// exposes ID() uint64.
	ErrUncomparableObject = errors.New("object handle is not comparable and has no ID")
	// ErrMissingWall is returned when binding to a wall whose handle is nil or destroyed.
	ErrMissingWall = errors.New("wall handle missing or destroyed")
	// ErrAlreadyBound is returned when an object is registered to a second wall.
	ErrAlreadyBound = errors.New("object already bound to another wall")
	// ErrInvalidWallID is returned by ParseWallID for names that are not a wall.
	ErrInvalidWallID = errors.New("invalid wall id")
)

// WallID names one of the four walls of the room.
type WallID int

const (
	North WallID = iota
	South
	East
	West
)

// AllWalls lists every WallID in declaration order.
var AllWalls = [4]WallID{North, South, East, West}

func (w WallID) String() string {
	switch w {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return fmt.Sprintf("wall(%d)", int(w))
}

// Valid reports whether w is one of the four walls.
func (w WallID) Valid() bool {
	return w >= North && w <= West
}

// ParseWallID parses a wall name, case-insensitively.
//
// Parameters:
//   - s: one of "north", "south", "east", "west"
//
// Returns:
//   - WallID: the parsed wall
//   - error: ErrInvalidWallID wrapped with the input if the name is unknown
func ParseWallID(s string) (WallID, error) {
	for _, id := range AllWalls {
		if strings.EqualFold(strings.TrimSpace(s), id.String()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("wall: parse %q: %w", s, ErrInvalidWallID)
}

// Wall is a movable room wall. Handle is owned by the host and only moved by the room engine.
type Wall struct {
	ID              WallID
	Handle          game_object.Transform
	VisiblePosition mgl32.Vec3
}

// VisiblePose is the wall's pose when fully shown: its visible position with its current rotation.
// Walls only translate, so the rotation is read straight from the handle.
func (w Wall) VisiblePose() common.Pose {
	p := common.Pose{Position: w.VisiblePosition}
	if game_object.Alive(w.Handle) {
		p.Rotation = w.Handle.Rotation()
	}
	return p
}

// BoundObject is an object attached to a wall. The offsets are captured once at registration,
// in the wall's local frame, and never change afterwards.
type BoundObject struct {
	Handle        game_object.Transform
	LocalOffset   mgl32.Vec3
	LocalRotation mgl32.Quat
}

// WorldPose places the object relative to a wall pose.
//
// Parameters:
//   - wall: the owning wall's world pose
//
// Returns:
//   - common.Pose: the object's world pose for that wall pose
func (b BoundObject) WorldPose(wall common.Pose) common.Pose {
	return common.Pose{
		Position: common.LocalToWorld(wall, b.LocalOffset),
		Rotation: common.LocalToWorldRotation(wall.Rotation, b.LocalRotation),
	}
}
