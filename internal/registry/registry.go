// Package registry provides a global registry of gesture detectors.
// Detectors register themselves in init() functions, allowing the CLI to
// pick one by name without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gesture-runner/internal/gesture"
)

// DetectorInfo contains metadata about a registered detector.
type DetectorInfo struct {
	Name  string
	Title string
}

var (
	loaders = make(map[string]gesture.Loader)
	titles  = make(map[string]string)
	mu      sync.RWMutex
)

// Register adds a detector loader to the registry.
// Typically called from a detector package's init() function.
// Panics if a detector with the same name is already registered.
func Register(name, title string, l gesture.Loader) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := loaders[name]; exists {
		panic(fmt.Sprintf("registry: detector %q already registered", name))
	}

	loaders[name] = l
	titles[name] = title
}

// List returns information about all registered detectors, sorted by name.
func List() []DetectorInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]DetectorInfo, 0, len(loaders))
	for name := range loaders {
		result = append(result, DetectorInfo{
			Name:  name,
			Title: titles[name],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Lookup returns the loader registered under name.
func Lookup(name string) (gesture.Loader, error) {
	mu.RLock()
	defer mu.RUnlock()

	l, ok := loaders[name]
	if !ok {
		return nil, fmt.Errorf("registry: unknown detector %q", name)
	}
	return l, nil
}

// Exists checks if a detector with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := loaders[name]
	return ok
}
