package fixture

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Function is a helper callable from rule and check expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the helpers exposed to rule expressions. Lookups are
// case insensitive; the spelling given at registration is kept for errors.
type FunctionRegistry struct {
	mu      sync.RWMutex
	entries map[string]registeredFunction
}

type registeredFunction struct {
	name string
	fn   Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{entries: map[string]registeredFunction{}}
}

func functionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds fn under name. Names already taken, in any casing, are
// rejected.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := functionKey(name)
	if key == "" {
		return fmt.Errorf("fixture: function name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("fixture: function %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]registeredFunction{}
	}
	if existing, ok := r.entries[key]; ok {
		return fmt.Errorf("fixture: function %q already registered as %q", name, existing.name)
	}
	r.entries[key] = registeredFunction{name: strings.TrimSpace(name), fn: fn}
	return nil
}

// Has reports whether name is registered.
func (r *FunctionRegistry) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Len returns the number of registered functions.
func (r *FunctionRegistry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Call runs the function registered for name. Errors returned by the
// function are wrapped with its name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	entry, ok := r.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	out, err := entry.fn(args...)
	if err != nil {
		return nil, fmt.Errorf("fixture: function %q: %w", entry.name, err)
	}
	return out, nil
}

func (r *FunctionRegistry) lookup(name string) (registeredFunction, bool) {
	if r == nil {
		return registeredFunction{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[functionKey(name)]
	return entry, ok
}

// Names returns the lookup keys in sorted order. Evaluators bind functions
// under these names.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for key := range r.entries {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Clone copies the registry so later registrations do not leak into
// evaluators that were already configured.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &FunctionRegistry{entries: make(map[string]registeredFunction, len(r.entries))}
	for key, entry := range r.entries {
		out.entries[key] = entry
	}
	return out
}

// WithFunctionRegistry exposes the functions in registry to rules and checks.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *factoryConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for rules and checks. A name
// that is already taken keeps its first function.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *factoryConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
