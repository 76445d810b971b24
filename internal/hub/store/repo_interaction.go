package store

import (
	"context"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type interactionRepo struct{ s *Store }

func (r interactionRepo) Append(_ context.Context, in *model.Interaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.interactions = append(r.s.interactions, *in)
	return appendRow(r.s.path(fileInteractions), headerInteractions, interactionRow(in))
}

func (r interactionRepo) All(_ context.Context) ([]model.Interaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Interaction, len(r.s.interactions))
	copy(out, r.s.interactions)
	return out, nil
}

func (r interactionRepo) Recent(_ context.Context, n int) ([]model.Interaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	in := r.s.interactions
	if n > 0 && len(in) > n {
		in = in[len(in)-n:]
	}
	out := make([]model.Interaction, len(in))
	copy(out, in)
	return out, nil
}

func (r interactionRepo) DistinctTargets(_ context.Context, source string, since time.Time) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	targets := map[string]struct{}{}
	for i := range r.s.interactions {
		in := &r.s.interactions[i]
		if in.Source != source || in.Timestamp.Before(since) {
			continue
		}
		targets[in.Target] = struct{}{}
	}
	return len(targets), nil
}

func (r interactionRepo) BlockBySource(_ context.Context, source string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for i := range r.s.interactions {
		if r.s.interactions[i].Source == source && !r.s.interactions[i].Blocked {
			r.s.interactions[i].Blocked = true
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}

	rows := make([][]string, 0, len(r.s.interactions))
	for i := range r.s.interactions {
		rows = append(rows, interactionRow(&r.s.interactions[i]))
	}
	return n, writeTable(r.s.path(fileInteractions), headerInteractions, rows)
}
