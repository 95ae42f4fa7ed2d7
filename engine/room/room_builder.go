package room

import (
	"github.com/Carmen-Shannon/roomview/engine/inventory"
	"github.com/Carmen-Shannon/roomview/engine/transition"
	"github.com/sirupsen/logrus"
)

// RoomBuilderOption is a functional option for configuring a Room during construction.
type RoomBuilderOption func(*roomImpl)

// WithEngine sets the transition engine driven by the room. Required.
//
// Parameters:
//   - e: the transition engine
//
// Returns:
//   - RoomBuilderOption: functional option to set the engine
func WithEngine(e transition.Engine) RoomBuilderOption {
	return func(r *roomImpl) {
		r.engine = e
	}
}

// WithInventory sets the player's inventory. Defaults to an empty, unlimited inventory.
//
// Parameters:
//   - inv: the inventory
//
// Returns:
//   - RoomBuilderOption: functional option to set the inventory
func WithInventory(inv inventory.Inventory) RoomBuilderOption {
	return func(r *roomImpl) {
		r.inventory = inv
	}
}

// WithLogger sets the structured logger. Defaults to logrus.StandardLogger().
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RoomBuilderOption: functional option to set the logger
func WithLogger(logger logrus.FieldLogger) RoomBuilderOption {
	return func(r *roomImpl) {
		if logger != nil {
			r.logger = logger
		}
	}
}
