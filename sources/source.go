// backend/sources/source.go
package sources

import (
	"fmt"
	"sort"
	"sync"

	"github.com/certihub/backend/models"
)

// Source is the two-tier acquisition contract every adapter implements.
//
// Both tier calls fail soft: any operational failure (timeout, 4xx/5xx,
// auth, malformed page) is caught and logged inside the adapter and
// surfaced as an empty slice. An empty result is the explicit "no data"
// outcome that drives the engine to the next tier; it is never an error.
type Source interface {
	// Name returns the registry key of the source.
	Name() string
	// TryOfficialAPI attempts the authoritative API tier.
	TryOfficialAPI() []models.RawRecord
	// TryWebScrape attempts the HTML/DOM collection tier.
	TryWebScrape() []models.RawRecord
	// Close releases adapter resources.
	Close()
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Source)
)

// Register maps a source key to its constructor. Adapters register
// themselves from init; a duplicate key is a programming error.
func Register(name string, constructor func() Source) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("sources: duplicate registration for %q", name))
	}
	registry[name] = constructor
}

// New constructs the adapter registered under name.
func New(name string) (Source, error) {
	registryMu.RLock()
	constructor, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	return constructor(), nil
}

// Names returns all registered source keys, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether name has a registered adapter.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}
