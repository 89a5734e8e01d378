package engine

import (
	"sync"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// flight is the computation of one cacheable argument that other branches of the
// session may wait for.
type flight struct {
	owner   *frame
	waiters map[*frame]struct{}
	done    chan struct{}
	value   domain.Value
	err     error
}

// flights de-duplicates concurrent computations of cacheable arguments within a
// session. It is shared by every fork of the session.
//
// A branch that finds a computation in progress waits for it instead of computing
// again. Waiting is refused when the owner of the computation is itself, through
// other waits, blocked on the branch that wants to wait.
type flights struct {
	mu     sync.Mutex
	byName map[string]*flight
	owned  map[*frame]*flight
}

func newFlights() *flights {
	return &flights{
		byName: make(map[string]*flight),
		owned:  make(map[*frame]*flight),
	}
}

// join returns the flight for name. The caller owns the flight when owner is true and
// must call land; otherwise it must wait on done and call leave.
func (fl *flights) join(name string, self *frame) (f *flight, owner bool, err error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	f, ok := fl.byName[name]
	if !ok {
		f = &flight{
			owner:   self,
			waiters: make(map[*frame]struct{}),
			done:    make(chan struct{}),
		}
		fl.byName[name] = f
		fl.owned[self] = f
		return f, true, nil
	}

	if fl.blocks(f.owner, self) {
		err := zerr.With(zerr.Wrap(domain.ErrCircularDependency, "cannot wait for argument"), "argument", name)
		err = zerr.With(err, "cycle", domain.FormatCycle(self.path()))
		return nil, false, zerr.With(err, "computing", domain.FormatCycle(f.owner.path()))
	}
	f.waiters[self] = struct{}{}
	return f, false, nil
}

// blocks reports whether owner cannot finish before self does. That is the case when
// owner is on the chain of self, or on the chain of a branch waiting for a flight owned
// on the chain of self, and so on.
func (fl *flights) blocks(owner, self *frame) bool {
	seen := make(map[*frame]struct{})
	queue := []*frame{self}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}

		for p := f; p != nil; p = p.parent {
			if p == owner {
				return true
			}
			if g, ok := fl.owned[p]; ok {
				for w := range g.waiters {
					queue = append(queue, w)
				}
			}
		}
	}
	return false
}

// land publishes the outcome of an owned flight and releases its waiters.
func (fl *flights) land(name string, f *flight, v domain.Value, err error) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	f.value, f.err = v, err
	delete(fl.byName, name)
	delete(fl.owned, f.owner)
	close(f.done)
}

// leave removes self from the waiters of f.
func (fl *flights) leave(f *flight, self *frame) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	delete(f.waiters, self)
}
