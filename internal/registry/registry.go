// Package registry provides a global registry of actor kinds.
// Kinds register themselves in init() functions, allowing level loading and
// save files to create kind state by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/scarab/internal/actor"
)

// Factory returns a new zero-valued state for a kind.
// The result must be a pointer so decoders can fill it in.
type Factory func() actor.State

// KindInfo contains metadata about a registered kind.
type KindInfo struct {
	Name        string
	Description string
}

type entry struct {
	factory     Factory
	description string
}

var (
	kinds = make(map[string]entry)
	mu    sync.RWMutex
)

// Register adds a kind factory to the registry.
// Typically called from a kind package's init() function.
// Panics if the name is taken or the factory disagrees with the name, both of
// which are programming errors caught at startup.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := kinds[name]; exists {
		panic(fmt.Sprintf("registry: kind %q already registered", name))
	}
	if got := f().Kind(); got != name {
		panic(fmt.Sprintf("registry: factory for %q produces kind %q", name, got))
	}

	kinds[name] = entry{factory: f, description: description}
}

// List returns information about all registered kinds, sorted by name.
func List() []KindInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]KindInfo, 0, len(kinds))
	for name, e := range kinds {
		result = append(result, KindInfo{Name: name, Description: e.description})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// New creates a zero state for the named kind.
// Returns an error if the kind is not registered.
func New(name string) (actor.State, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := kinds[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown kind %q", name)
	}

	return e.factory(), nil
}

// Exists checks if a kind with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := kinds[name]
	return ok
}
