// Package inventory holds the items the player has picked up.
package inventory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrEmptyName    = errors.New("empty item name")
	ErrFull         = errors.New("inventory full")
)

type inventoryImpl struct {
	mu *sync.Mutex

	nextID   uint64
	capacity int
	items    *orderedmap.OrderedMap[uint64, string]
}

// Inventory is an ordered bag of item names. The same name may be held more than once.
type Inventory interface {
	// Add appends an item.
	//
	// Parameters:
	//   - name: the item name
	//
	// Returns:
	//   - error: ErrEmptyName for a blank name, or ErrFull when at capacity
	Add(name string) error

	// Remove drops the oldest item with the given name.
	//
	// Parameters:
	//   - name: the item name
	//
	// Returns:
	//   - error: ErrItemNotFound if no item has that name
	Remove(name string) error

	// Has reports whether an item with the given name is held.
	Has(name string) bool

	// Use consumes one item named need if present.
	//
	// Parameters:
	//   - need: the item the interaction requires
	//
	// Returns:
	//   - bool: true if an item was consumed
	Use(need string) bool

	// Items returns the held item names in pickup order.
	Items() []string

	// Len returns the number of held items.
	Len() int
}

var _ Inventory = &inventoryImpl{}

// NewInventory creates an empty Inventory.
//
// Parameters:
//   - options: functional options to configure the inventory
//
// Returns:
//   - Inventory: the new inventory
func NewInventory(options ...InventoryBuilderOption) Inventory {
	inv := &inventoryImpl{
		mu:    &sync.Mutex{},
		items: orderedmap.NewOrderedMap[uint64, string](),
	}
	for _, option := range options {
		option(inv)
	}
	return inv
}

func (i *inventoryImpl) Add(name string) error {
	if name == "" {
		return fmt.Errorf("inventory: add: %w", ErrEmptyName)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.capacity > 0 && i.items.Len() >= i.capacity {
		return fmt.Errorf("inventory: add %q: %w", name, ErrFull)
	}
	i.nextID++
	i.items.Set(i.nextID, name)
	return nil
}

func (i *inventoryImpl) Remove(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.remove(name) {
		return fmt.Errorf("inventory: remove %q: %w", name, ErrItemNotFound)
	}
	return nil
}

func (i *inventoryImpl) Has(name string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	for el := i.items.Front(); el != nil; el = el.Next() {
		if el.Value == name {
			return true
		}
	}
	return false
}

func (i *inventoryImpl) Use(need string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.remove(need)
}

func (i *inventoryImpl) Items() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	names := make([]string, 0, i.items.Len())
	for el := i.items.Front(); el != nil; el = el.Next() {
		names = append(names, el.Value)
	}
	return names
}

func (i *inventoryImpl) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.items.Len()
}

// remove deletes the oldest entry named name. Caller must hold the mutex.
func (i *inventoryImpl) remove(name string) bool {
	for el := i.items.Front(); el != nil; el = el.Next() {
		if el.Value == name {
			i.items.Delete(el.Key)
			return true
		}
	}
	return false
}
