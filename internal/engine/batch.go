package engine

import (
	"context"

	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

type batchResult struct {
	name  string
	value domain.Value
	err   error
}

// ResolveAll resolves names concurrently on the session executor and returns once all
// of them have completed.
//
// The batch fails with the first error observed, unchanged. Remaining resolutions are
// canceled at their next resolution step; they are not interrupted mid-fetch.
func (s *Session) ResolveAll(ctx context.Context, names []string) (map[string]domain.Value, error) {
	unique := dedupe(names)
	out := make(map[string]domain.Value, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan batchResult, len(unique))
	for _, name := range unique {
		branch := s.fork()
		s.executor.Execute(func() {
			v, err := branch.Resolve(ctx, name)
			results <- batchResult{name: name, value: v, err: err}
		})
	}

	for range unique {
		select {
		case res := <-results:
			if res.err != nil {
				return nil, res.err
			}
			out[res.name] = res.value
		case <-ctx.Done():
			return nil, zerr.Wrap(domain.ErrResolutionCanceled, ctx.Err().Error())
		}
	}
	return out, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
