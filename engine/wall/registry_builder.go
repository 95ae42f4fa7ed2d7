package wall

import (
	"fmt"

	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// RegistryBuilderOption is a functional option for configuring a Registry during construction.
type RegistryBuilderOption func(*registry) error

// WithHiddenPosition sets the shared off-screen position hidden walls and objects are moved to.
//
// Parameters:
//   - p: the hidden position
//
// Returns:
//   - RegistryBuilderOption: functional option to set the hidden position
func WithHiddenPosition(p mgl32.Vec3) RegistryBuilderOption {
	return func(r *registry) error {
		r.hiddenPosition = p
		return nil
	}
}

// WithWall configures one wall: the host-owned handle the engine moves and the position the wall
// rests at while visible.
//
// Parameters:
//   - id: the wall being configured
//   - handle: the wall's transform, may be nil if the wall has no geometry
//   - visible: the wall's visible position
//
// Returns:
//   - RegistryBuilderOption: functional option to configure the wall
func WithWall(id WallID, handle game_object.Transform, visible mgl32.Vec3) RegistryBuilderOption {
	return func(r *registry) error {
		if !id.Valid() {
			return fmt.Errorf("wall: configure %s: %w", id, ErrUnknownWall)
		}
		r.walls[id] = Wall{ID: id, Handle: handle, VisiblePosition: visible}
		return nil
	}
}
