package factory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// ModuleConfig names a module implementation and carries its raw settings.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory builds a T from raw settings.
type Factory[T any] func(map[string]any) (T, error)

// Registry maps module type names to factories.
type Registry[T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// Register adds a factory under name. Names are case-insensitive.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	if f == nil {
		return fmt.Errorf("factory nil for %s", name)
	}
	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("factory already registered for %s", name)
	}
	r.factories[key] = f
	return nil
}

// Names lists the registered type names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Create instantiates the module described by cfg.
func (r *Registry[T]) Create(cfg ModuleConfig) (T, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(cfg.Type)]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown module type %q (known: %s)", cfg.Type, strings.Join(r.Names(), ", "))
	}
	return f(cfg.Conf)
}

// Decode fills out using the json tags of its fields. Strings such as "30"
// are accepted for numeric fields so environment overrides decode cleanly.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
