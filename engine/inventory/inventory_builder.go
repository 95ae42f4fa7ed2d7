package inventory

// InventoryBuilderOption is a functional option for configuring an Inventory during construction.
type InventoryBuilderOption func(*inventoryImpl)

// WithCapacity limits how many items can be held. Zero means unlimited.
//
// Parameters:
//   - n: the maximum item count
//
// Returns:
//   - InventoryBuilderOption: functional option to set the capacity
func WithCapacity(n int) InventoryBuilderOption {
	return func(i *inventoryImpl) {
		i.capacity = max(n, 0)
	}
}

// WithItems seeds the inventory with items, in order.
//
// Parameters:
//   - names: the starting items
//
// Returns:
//   - InventoryBuilderOption: functional option to seed items
func WithItems(names ...string) InventoryBuilderOption {
	return func(i *inventoryImpl) {
		for _, name := range names {
			if name == "" {
				continue
			}
			i.nextID++
			i.items.Set(i.nextID, name)
		}
	}
}
