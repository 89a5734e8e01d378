package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

// Trace is a progrock.Writer that prints one line for every finished resolution.
// It writes to io.Discard until an output is set.
type Trace struct {
	mu      sync.Mutex
	out     io.Writer
	printed map[string]struct{}
}

// NewTrace creates a Trace writing to out.
func NewTrace(out io.Writer) *Trace {
	if out == nil {
		out = io.Discard
	}
	return &Trace{
		out:     out,
		printed: make(map[string]struct{}),
	}
}

// SetOutput redirects the trace.
func (t *Trace) SetOutput(w io.Writer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.out = w
}

// WriteStatus implements progrock.Writer.
func (t *Trace) WriteStatus(update *progrock.StatusUpdate) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, v := range update.Vertexes {
		// A vertex id is reused when a resolution repeats within a session.
		if v.Completed == nil {
			delete(t.printed, v.Id)
			continue
		}
		if _, ok := t.printed[v.Id]; ok {
			continue
		}
		t.printed[v.Id] = struct{}{}

		var err error
		switch {
		case v.Error != nil:
			_, err = fmt.Fprintf(t.out, "failed %s: %s\n", v.Name, *v.Error)
		case v.Cached:
			_, err = fmt.Fprintf(t.out, "cached %s\n", v.Name)
		default:
			_, err = fmt.Fprintf(t.out, "done   %s\n", v.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (t *Trace) Close() error {
	return nil
}
