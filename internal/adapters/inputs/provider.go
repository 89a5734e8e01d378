// Package inputs provides in-memory input providers.
package inputs

import (
	"maps"
	"sync"

	"go.trai.ch/derive/internal/core/domain"
)

// MapProvider implements ports.InputProvider over a map.
// It is safe for concurrent use.
type MapProvider struct {
	mu     sync.RWMutex
	values map[string]domain.Value
}

// NewMapProvider creates a provider holding a copy of values.
func NewMapProvider(values map[string]domain.Value) *MapProvider {
	p := &MapProvider{values: make(map[string]domain.Value, len(values))}
	maps.Copy(p.values, values)
	return p
}

// Put stores a value, replacing any previous value under name.
func (p *MapProvider) Put(name string, v domain.Value) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[name] = v
}

// Get returns the value stored under name.
func (p *MapProvider) Get(name string) (domain.Value, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[name]
	return v, ok
}

// Exists reports whether a value is stored under name.
func (p *MapProvider) Exists(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.values[name]
	return ok
}

// Names returns the stored names in no particular order.
func (p *MapProvider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.values))
	for name := range p.values {
		names = append(names, name)
	}
	return names
}
