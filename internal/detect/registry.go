package detect

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a Capability.
type Factory func() (Capability, error)

//nolint:gochecknoglobals // Backends register themselves from build-tagged files.
var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		ReferenceName: func() (Capability, error) { return NewReference(), nil },
	}
)

// Register makes a capability available to Open under name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(name)] = f
}

// Open builds the capability registered under name.
func Open(name string) (Capability, error) {
	registryMu.RLock()
	f, ok := registry[strings.ToLower(name)]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownCapability, name, strings.Join(Available(), ", "))
	}
	return f()
}

// Available lists registered capability names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
