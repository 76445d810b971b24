package store

import (
	"context"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type vehicleRepo struct{ s *Store }

func (r vehicleRepo) Get(_ context.Context, id string) (*model.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := range r.s.vehicles {
		if r.s.vehicles[i].ID == id {
			v := r.s.vehicles[i]
			return &v, nil
		}
	}
	return nil, fmt.Errorf("vehicle %q: %w", id, core.ErrNotFound)
}

func (r vehicleRepo) GetByName(_ context.Context, name string) (*model.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := range r.s.vehicles {
		if r.s.vehicles[i].Name == name {
			v := r.s.vehicles[i]
			return &v, nil
		}
	}
	return nil, fmt.Errorf("vehicle named %q: %w", name, core.ErrNotFound)
}

func (r vehicleRepo) List(_ context.Context) ([]model.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Vehicle, len(r.s.vehicles))
	copy(out, r.s.vehicles)
	return out, nil
}

func (r vehicleRepo) UpdateRisk(_ context.Context, id string, risk model.RiskLevel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.vehicles {
		if r.s.vehicles[i].ID == id {
			r.s.vehicles[i].Risk = risk
			return r.s.flushVehiclesLocked()
		}
	}
	return fmt.Errorf("vehicle %q: %w", id, core.ErrNotFound)
}

func (s *Store) flushVehiclesLocked() error {
	rows := make([][]string, 0, len(s.vehicles))
	for i := range s.vehicles {
		rows = append(rows, vehicleRow(&s.vehicles[i]))
	}
	return writeTable(s.path(fileVehicles), headerVehicles, rows)
}
