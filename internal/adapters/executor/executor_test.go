package executor_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/derive/internal/adapters/executor"
)

func TestInline_RunsOnCaller(t *testing.T) {
	ran := false
	executor.NewInline().Execute(func() { ran = true })
	assert.True(t, ran)
}

func TestPool_RunsEveryTask(t *testing.T) {
	p := executor.NewPool(2)

	var count atomic.Int32
	for range 20 {
		p.Execute(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		})
	}
	p.Wait()

	assert.Equal(t, int32(20), count.Load())
}

func TestPool_RespectsLimit(t *testing.T) {
	p := executor.NewPool(2)

	var running, peak atomic.Int32
	var mu sync.Mutex
	for range 10 {
		p.Execute(func() {
			n := running.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	p.Wait()

	// Two pool slots plus the submitting goroutine running overflow work.
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestPool_NestedJoinDoesNotDeadlock(t *testing.T) {
	p := executor.NewPool(1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(1)
		p.Execute(func() {
			defer wg.Done()
			var inner sync.WaitGroup
			inner.Add(3)
			for range 3 {
				p.Execute(inner.Done)
			}
			inner.Wait()
		})
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("nested tasks deadlocked the pool")
	}
	p.Wait()
}
