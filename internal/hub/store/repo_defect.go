package store

import (
	"context"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type defectRepo struct{ s *Store }

// Latest picks by reported date; dates are YYYY-MM-DD so a string compare
// orders them correctly.
func (r defectRepo) Latest(_ context.Context, vehicleName string) (*model.Defect, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var latest *model.Defect
	for i := range r.s.defects {
		d := &r.s.defects[i]
		if d.VehicleName != vehicleName {
			continue
		}
		if latest == nil || d.ReportedDate > latest.ReportedDate {
			latest = d
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("defects for %q: %w", vehicleName, core.ErrNotFound)
	}
	d := *latest
	return &d, nil
}

func (r defectRepo) All(_ context.Context) ([]model.Defect, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Defect, len(r.s.defects))
	copy(out, r.s.defects)
	return out, nil
}
