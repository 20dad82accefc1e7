// Package registry provides a global registry of round variants.
// Variants register themselves in init() functions, allowing the CLI and
// the platform to discover and start rounds without hardcoded lists.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/carmerge/internal/engine"
)

// ErrInvalidVariant is returned by Variant.Validate.
var ErrInvalidVariant = errors.New("invalid variant")

// Fleet is a group of same-type cars placed at round start.
type Fleet struct {
	Type  engine.CarType
	Count int
}

// Variant defines the starting fleet of a round.
type Variant struct {
	// ID is a unique identifier (e.g., "classic"). Used for CLI commands
	// and history storage.
	ID string

	// Title is a human-readable name for display.
	Title string

	// Fleet lists the cars to spawn, in registration order.
	Fleet []Fleet
}

// Total returns the number of cars in the fleet.
func (v Variant) Total() int {
	n := 0
	for _, f := range v.Fleet {
		n += f.Count
	}
	return n
}

// Types returns the distinct car types in fleet order.
func (v Variant) Types() []engine.CarType {
	var types []engine.CarType
	seen := make(map[engine.CarType]bool)
	for _, f := range v.Fleet {
		if !seen[f.Type] {
			seen[f.Type] = true
			types = append(types, f.Type)
		}
	}
	return types
}

// Validate checks that the variant can always be played to the end. With
// at most two types, any three live cars contain a same-type pair, and the
// last two always match each other.
func (v Variant) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidVariant)
	}
	for _, f := range v.Fleet {
		if f.Type == "" {
			return fmt.Errorf("%w: %s: fleet entry without type", ErrInvalidVariant, v.ID)
		}
		if f.Count <= 0 {
			return fmt.Errorf("%w: %s: %s count %d must be positive", ErrInvalidVariant, v.ID, f.Type, f.Count)
		}
	}
	if n := len(v.Types()); n > 2 {
		return fmt.Errorf("%w: %s: %d car types, at most 2 can always be merged down", ErrInvalidVariant, v.ID, n)
	}
	if v.Total() < 2 {
		return fmt.Errorf("%w: %s: need at least 2 cars, got %d", ErrInvalidVariant, v.ID, v.Total())
	}
	return nil
}

// VariantInfo contains metadata about a registered variant.
type VariantInfo struct {
	ID    string
	Title string
	Cars  int
}

var (
	variants = make(map[string]Variant)
	mu       sync.RWMutex
)

// Register adds a variant to the registry.
// Typically called from an init() function.
// Panics if the variant is invalid or its ID is already registered.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()

	if err := v.Validate(); err != nil {
		panic(fmt.Sprintf("registry: %v", err))
	}
	if _, exists := variants[v.ID]; exists {
		panic(fmt.Sprintf("registry: variant %q already registered", v.ID))
	}

	v.Fleet = append([]Fleet(nil), v.Fleet...)
	variants[v.ID] = v
}

// List returns information about all registered variants, sorted by ID.
func List() []VariantInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]VariantInfo, 0, len(variants))
	for id, v := range variants {
		result = append(result, VariantInfo{
			ID:    id,
			Title: v.Title,
			Cars:  v.Total(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create returns a copy of a registered variant.
// Returns an error if the variant ID is not registered.
func Create(id string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := variants[id]
	if !ok {
		return Variant{}, fmt.Errorf("registry: unknown variant %q", id)
	}

	v.Fleet = append([]Fleet(nil), v.Fleet...)
	return v, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := variants[id]
	return ok
}
