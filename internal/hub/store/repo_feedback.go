package store

import (
	"context"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type feedbackRepo struct{ s *Store }

func (r feedbackRepo) Append(_ context.Context, fb *model.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.feedback = append(r.s.feedback, *fb)
	return appendRow(r.s.path(fileFeedback), headerFeedback, feedbackRow(fb))
}

func (r feedbackRepo) ByVehicle(_ context.Context, vehicleName string) ([]model.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.Feedback
	for i := range r.s.feedback {
		if r.s.feedback[i].VehicleName == vehicleName {
			out = append(out, r.s.feedback[i])
		}
	}
	return out, nil
}

func (r feedbackRepo) All(_ context.Context) ([]model.Feedback, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Feedback, len(r.s.feedback))
	copy(out, r.s.feedback)
	return out, nil
}

type rcaRepo struct{ s *Store }

func (r rcaRepo) All(_ context.Context) ([]model.RCARecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.RCARecord, len(r.s.rca))
	copy(out, r.s.rca)
	return out, nil
}
