package ratelimit

import (
	"sync"
)

// Factory builds a limiter for a preset configuration. It lets the
// registry stay agnostic of whether limits are enforced in memory or
// through a shared store.
type Factory func(cfg Config) Limiter

// Registry holds one limiter per preset name and supports atomic
// replacement when configuration is reloaded. Lookups for unknown
// presets return a pass-through limiter so a misconfigured route
// never hard-fails.
type Registry struct {
	mu       sync.RWMutex
	factory  Factory
	limiters map[string]Limiter
	noop     *NoopLimiter
}

// NewRegistry creates a registry populated from the given presets.
func NewRegistry(factory Factory, presets map[string]Config) *Registry {
	r := &Registry{
		factory:  factory,
		limiters: make(map[string]Limiter),
		noop:     NewNoopLimiter(),
	}
	r.Apply(presets)
	return r
}

// Apply replaces the limiters for every preset in the given map.
// Presets not mentioned keep their current limiter, so a partial
// reload only resets the windows it changes.
func (r *Registry) Apply(presets map[string]Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, cfg := range presets {
		r.limiters[name] = r.factory(cfg)
	}
}

// Get returns the limiter for a preset.
func (r *Registry) Get(preset string) Limiter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if l, ok := r.limiters[preset]; ok {
		return l
	}
	return r.noop
}
