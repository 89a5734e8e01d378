package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports/mocks"
	"go.trai.ch/derive/internal/engine"
	"go.uber.org/mock/gomock"
)

func TestSession_IndependentCaches(t *testing.T) {
	reg := build(t,
		cached(input("a", "int")),
		cached(derived("c", "int", "$a * 2")),
	)

	var wg sync.WaitGroup
	results := make([]int64, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := engine.NewSession(reg, newInputs(map[string]domain.Value{"a": domain.Int(int64(i))}))
			v, err := s.Resolve(context.Background(), "c")
			if err != nil {
				t.Errorf("session %d: %v", i, err)
				return
			}
			results[i] = v.AsInt()
		}()
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, int64(i*2), got)
	}
}

func TestSession_ID(t *testing.T) {
	reg := build(t, input("a", "int"))
	one := engine.NewSession(reg, newInputs(nil))
	two := engine.NewSession(reg, newInputs(nil))

	assert.NotEmpty(t, one.ID())
	assert.NotEqual(t, one.ID(), two.ID())
	assert.True(t, reg.Sealed())
}

func TestSession_ResolveAsync(t *testing.T) {
	reg := build(t, input("a", "int"))
	s := engine.NewSession(reg,
		newInputs(map[string]domain.Value{"a": domain.Int(5)}),
		engine.WithExecutor(goExecutor{}),
	)

	select {
	case res := <-s.ResolveAsync(context.Background(), "a"):
		require.NoError(t, res.Err)
		assert.Equal(t, int64(5), res.Value.AsInt())
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for async resolution")
	}
}

func TestCache_FirstPutWins(t *testing.T) {
	c := engine.NewCache()

	stored := c.Put("a", domain.Int(1))
	assert.Equal(t, int64(1), stored.AsInt())

	stored = c.Put("a", domain.Int(2))
	assert.Equal(t, int64(1), stored.AsInt())

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, map[string]domain.Value{"a": domain.Int(1)}, c.Snapshot())

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestStack_PushRelease(t *testing.T) {
	s := engine.NewStack()

	releaseA, err := s.Push("a")
	require.NoError(t, err)
	releaseB, err := s.Push("b")
	require.NoError(t, err)

	_, err = s.Push("a")
	require.ErrorIs(t, err, domain.ErrCircularDependency)
	assert.Equal(t, []string{"a", "b"}, s.Path())

	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, "b", top)

	releaseB()
	releaseB()
	assert.Equal(t, []string{"a"}, s.Path())

	releaseA()
	assert.Equal(t, 0, s.Len())
}

func TestStack_Fork(t *testing.T) {
	s := engine.NewStack()
	release, err := s.Push("root")
	require.NoError(t, err)
	defer release()

	left := s.Fork()
	right := s.Fork()

	_, err = left.Push("shared")
	require.NoError(t, err)
	_, err = right.Push("shared")
	require.NoError(t, err)

	_, err = left.Push("root")
	require.ErrorIs(t, err, domain.ErrCircularDependency)
	assert.Equal(t, []string{"root"}, s.Path())
}

func TestSession_ResolveAllUsesExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any()).Do(func(task func()) { task() }).Times(2)

	reg := build(t, async(input("p", "int")), async(input("q", "int")))
	s := engine.NewSession(reg,
		newInputs(map[string]domain.Value{"p": domain.Int(1), "q": domain.Int(2)}),
		engine.WithExecutor(exec),
	)

	values, err := s.ResolveAll(context.Background(), []string{"p", "q"})
	require.NoError(t, err)
	assert.Len(t, values, 2)
}
