package inputs_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/adapters/inputs"
	"go.trai.ch/derive/internal/core/domain"
)

func TestMapProvider(t *testing.T) {
	src := map[string]domain.Value{"a": domain.Int(1)}
	p := inputs.NewMapProvider(src)

	src["b"] = domain.Int(2)
	assert.False(t, p.Exists("b"), "provider must not alias the source map")

	v, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt())

	p.Put("a", domain.String("x"))
	v, ok = p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "x", v.AsString())

	_, ok = p.Get("missing")
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{"a"}, p.Names())
}

func TestMapProvider_Concurrent(t *testing.T) {
	p := inputs.NewMapProvider(nil)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Put("k", domain.Int(int64(i)))
			_ = p.Exists("k")
			_, _ = p.Get("k")
		}()
	}
	wg.Wait()

	assert.True(t, p.Exists("k"))
}
