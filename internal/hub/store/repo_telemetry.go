package store

import (
	"context"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type telemetryRepo struct{ s *Store }

func (r telemetryRepo) Append(_ context.Context, snap *model.TelemetrySnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.telemetry = append(r.s.telemetry, *snap)
	return appendRow(r.s.path(fileTelemetry), headerTelemetry, telemetryRow(snap))
}

func (r telemetryRepo) Window(_ context.Context, vehicleID string, n int) ([]model.TelemetrySnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []model.TelemetrySnapshot
	for i := range r.s.telemetry {
		if r.s.telemetry[i].VehicleID == vehicleID {
			out = append(out, r.s.telemetry[i])
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (r telemetryRepo) All(_ context.Context) ([]model.TelemetrySnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.TelemetrySnapshot, len(r.s.telemetry))
	copy(out, r.s.telemetry)
	return out, nil
}
