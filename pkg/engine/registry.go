package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores engines by name, providing discovery and duplication
// safeguards. Callers can embed or wrap this for dependency injection.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
	}
}

// Register adds an engine by its Name(). Duplicate names return an error.
func (r *Registry) Register(eng Engine) error {
	if eng == nil {
		return fmt.Errorf("engine: engine is required")
	}
	name := eng.Name()
	if name == "" {
		return fmt.Errorf("engine: engine name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("engine: engine %q already registered", name)
	}

	r.engines[name] = eng
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(eng Engine) {
	if err := r.Register(eng); err != nil {
		panic(err)
	}
}

// Get retrieves an engine by name.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eng, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("engine: engine %q not found", name)
	}
	return eng, nil
}

// Names returns the registered engine names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
