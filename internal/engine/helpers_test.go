package engine_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/engine"
)

// mapInputs is a concurrency-safe InputProvider with optional per-name latency.
type mapInputs struct {
	mu     sync.Mutex
	values map[string]domain.Value
	delays map[string]time.Duration
	gets   map[string]int
}

func newInputs(values map[string]domain.Value) *mapInputs {
	return &mapInputs{values: values, gets: make(map[string]int)}
}

func (m *mapInputs) Put(name string, v domain.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = v
}

func (m *mapInputs) Get(name string) (domain.Value, bool) {
	m.mu.Lock()
	delay := m.delays[name]
	m.gets[name]++
	v, ok := m.values[name]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return v, ok
}

func (m *mapInputs) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[name]
	return ok
}

func (m *mapInputs) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets[name]
}

// goExecutor runs every task on a new goroutine.
type goExecutor struct{}

func (goExecutor) Execute(task func()) { go task() }

func build(t *testing.T, descs ...domain.ArgumentDescriptor) *engine.Registry {
	t.Helper()
	reg, err := engine.NewBuilder(nil).Build(descs)
	require.NoError(t, err)
	return reg
}

func input(name, typ string) domain.ArgumentDescriptor {
	return domain.ArgumentDescriptor{Name: name, Type: typ}
}

func derived(name, typ, source string) domain.ArgumentDescriptor {
	return domain.ArgumentDescriptor{Name: name, Type: typ, Expression: source}
}

func cached(d domain.ArgumentDescriptor) domain.ArgumentDescriptor {
	d.Cacheable = true
	return d
}

func async(d domain.ArgumentDescriptor) domain.ArgumentDescriptor {
	d.Async = true
	return d
}
