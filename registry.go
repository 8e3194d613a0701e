package formcheck

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// table is a lock-protected name -> validator map shared by Registry and
// AsyncRegistry. Lookups never observe a partially applied mutation; a lookup
// racing an Unregister may see either state.
type table[V any] struct {
	mu      sync.RWMutex
	entries map[string]V
	kind    string
	logger  *zap.Logger
}

func (t *table[V]) log() *zap.Logger {
	if t.logger != nil {
		return t.logger
	}
	return zap.L()
}

func (t *table[V]) register(name string, v V, isNil bool) error {
	if isNil {
		return fmt.Errorf("register %s validator %q: %w", t.kind, name, ErrNilValidator)
	}

	t.mu.Lock()
	_, exists := t.entries[name]
	t.entries[name] = v
	t.mu.Unlock()

	if exists {
		t.log().Warn("overwriting registered validator",
			zap.String("kind", t.kind),
			zap.String("name", name),
		)
	}
	return nil
}

// Get returns the validator registered under name.
func (t *table[V]) Get(name string) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[name]
	return v, ok
}

// Has reports whether name is registered.
func (t *table[V]) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// List returns the registered names. The order carries no meaning; names are
// sorted only to keep output stable.
func (t *table[V]) List() []string {
	t.mu.RLock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	t.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Unregister removes name and reports whether it was registered.
func (t *table[V]) Unregister(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[name]; !ok {
		return false
	}
	delete(t.entries, name)
	return true
}

// Clear removes every registered validator.
func (t *table[V]) Clear() {
	t.mu.Lock()
	t.entries = make(map[string]V)
	t.mu.Unlock()
}

// Registry maps names to synchronous custom validators.
//
// A Registry is usually built once by the application's composition root,
// populated at startup and shared by every Validator. It is safe for
// concurrent use.
type Registry struct {
	table[Custom]
}

// NewRegistry creates an empty Registry. A nil logger falls back to zap.L().
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{table: table[Custom]{
		entries: make(map[string]Custom),
		kind:    "custom",
		logger:  logger,
	}}
}

// Register adds c under name. An existing entry is replaced and a warning
// is logged.
func (r *Registry) Register(name string, c Custom) error {
	return r.register(name, c, c == nil)
}

// RegisterFunc is a convenience wrapper around Register for plain functions.
func (r *Registry) RegisterFunc(name string, fn func(value Value, params map[string]any, data Map) bool) error {
	if fn == nil {
		return r.Register(name, nil)
	}
	return r.Register(name, CustomFunc(fn))
}

// RegisterAll registers every entry of m. Names are applied in sorted order
// so overwrite warnings are deterministic. The first error stops the batch.
func (r *Registry) RegisterAll(m map[string]Custom) error {
	for _, name := range sortedKeys(m) {
		if err := r.Register(name, m[name]); err != nil {
			return err
		}
	}
	return nil
}

// AsyncRegistry maps names to asynchronous validators. It is safe for
// concurrent use.
type AsyncRegistry struct {
	table[Async]
}

// NewAsyncRegistry creates an empty AsyncRegistry. A nil logger falls back
// to zap.L().
func NewAsyncRegistry(logger *zap.Logger) *AsyncRegistry {
	return &AsyncRegistry{table: table[Async]{
		entries: make(map[string]Async),
		kind:    "async",
		logger:  logger,
	}}
}

// Register adds a under name. An existing entry is replaced and a warning
// is logged.
func (r *AsyncRegistry) Register(name string, a Async) error {
	return r.register(name, a, a == nil)
}

// RegisterFunc is a convenience wrapper around Register for plain functions.
func (r *AsyncRegistry) RegisterFunc(name string, fn func(ctx context.Context, value Value, params map[string]any, field FieldConfig, data Map) (AsyncResult, error)) error {
	if fn == nil {
		return r.Register(name, nil)
	}
	return r.Register(name, AsyncFunc(fn))
}

// RegisterAll registers every entry of m in sorted name order.
func (r *AsyncRegistry) RegisterAll(m map[string]Async) error {
	for _, name := range sortedKeys(m) {
		if err := r.Register(name, m[name]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
