package engine

import (
	"slices"
	"sync"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

// frame is one immutable link of a call chain. Forks share the frames they were
// created from, so a frame identifies a resolution in progress across branches.
type frame struct {
	name   string
	parent *frame
}

// path returns the names from the outermost frame to f.
func (f *frame) path() []string {
	var names []string
	for p := f; p != nil; p = p.parent {
		names = append(names, p.name)
	}
	slices.Reverse(names)
	return names
}

// Stack holds the names mid-resolution on one call chain.
type Stack struct {
	mu    sync.Mutex
	top   *frame
	depth int
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push marks name as in progress. It fails if name is already on the stack.
// The returned release func pops the frame and must run on every exit path; calling it
// more than once has no further effect.
func (s *Stack) Push(name string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for p := s.top; p != nil; p = p.parent {
		if p.name != name {
			continue
		}
		path := s.top.path()
		path = append(path[slices.Index(path, name):], name)
		err := zerr.With(zerr.Wrap(domain.ErrCircularDependency, "cannot resolve argument"), "argument", name)
		return func() {}, zerr.With(err, "cycle", domain.FormatCycle(path))
	}

	f := &frame{name: name, parent: s.top}
	s.top = f
	s.depth++
	return sync.OnceFunc(func() { s.pop(f) }), nil
}

func (s *Stack) pop(f *frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.top == f {
		s.top = f.parent
		s.depth--
	}
}

// current returns the innermost frame, or nil on an empty stack.
func (s *Stack) current() *frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.top
}

// Top returns the most recently pushed name.
func (s *Stack) Top() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.top == nil {
		return "", false
	}
	return s.top.name, true
}

// Fork returns a new Stack that starts with the current frames.
// Each concurrent branch resolves on its own fork.
func (s *Stack) Fork() *Stack {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &Stack{top: s.top, depth: s.depth}
}

// Len returns the number of frames.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.depth
}

// Path returns the frames, outermost first.
func (s *Stack) Path() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.top.path()
}
