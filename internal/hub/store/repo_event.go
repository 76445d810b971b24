package store

import (
	"context"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type eventRepo struct{ s *Store }

func (r eventRepo) Append(_ context.Context, ev *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.events = append(r.s.events, *ev)
	return appendRow(r.s.path(fileEvents), headerEvents, eventRow(ev))
}

func (r eventRepo) All(_ context.Context) ([]model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Event, len(r.s.events))
	copy(out, r.s.events)
	return out, nil
}

type securityLogRepo struct{ s *Store }

func (r securityLogRepo) Append(_ context.Context, ev *model.SecurityEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.security = append(r.s.security, *ev)
	return appendRow(r.s.path(fileSecurityLog), headerSecurityLog, securityEventRow(ev))
}

func (r securityLogRepo) All(_ context.Context) ([]model.SecurityEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.SecurityEvent, len(r.s.security))
	copy(out, r.s.security)
	return out, nil
}
