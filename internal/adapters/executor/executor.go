// Package executor provides task executors for the batch resolver.
package executor

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Inline runs every task on the calling goroutine.
type Inline struct{}

// NewInline creates an Inline executor.
func NewInline() Inline {
	return Inline{}
}

// Execute runs task immediately.
func (Inline) Execute(task func()) {
	task()
}

// Pool runs tasks on a bounded set of goroutines.
//
// When every slot is busy the task runs on the calling goroutine instead of waiting
// for a slot, so a task that submits and then joins nested tasks cannot starve the pool.
type Pool struct {
	g *errgroup.Group
}

// NewPool creates a Pool running at most limit tasks concurrently.
// A limit of zero or less uses the number of CPUs.
func NewPool(limit int) *Pool {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	return &Pool{g: g}
}

// Execute schedules task on a free slot, or runs it on the caller when none is free.
func (p *Pool) Execute(task func()) {
	if p.g.TryGo(func() error {
		task()
		return nil
	}) {
		return
	}
	task()
}

// Wait blocks until every scheduled task has returned.
func (p *Pool) Wait() {
	_ = p.g.Wait()
}
