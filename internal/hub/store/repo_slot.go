package store

import (
	"context"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
)

type slotRepo struct{ s *Store }

func (r slotRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.slots), nil
}

func (r slotRepo) Seed(_ context.Context, slots []model.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.slots = make([]model.Slot, len(slots))
	copy(r.s.slots, slots)
	return r.s.flushSlotsLocked()
}

func (r slotRepo) List(_ context.Context) ([]model.Slot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Slot, len(r.s.slots))
	copy(out, r.s.slots)
	return out, nil
}

func (r slotRepo) Get(_ context.Context, id string) (*model.Slot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for i := range r.s.slots {
		if r.s.slots[i].ID == id {
			sl := r.s.slots[i]
			return &sl, nil
		}
	}
	return nil, fmt.Errorf("slot %q: %w", id, core.ErrNotFound)
}

func (r slotRepo) Book(_ context.Context, slotID, vehicleID, priorityLevel string) (*model.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.slots {
		sl := &r.s.slots[i]
		if sl.ID != slotID {
			continue
		}
		if sl.Status != model.SlotAvailable {
			return nil, fmt.Errorf("slot %q: %w", slotID, core.ErrSlotUnavailable)
		}
		sl.Status = model.SlotBooked
		sl.VehicleID = vehicleID
		sl.PriorityLevel = priorityLevel
		if err := r.s.flushSlotsLocked(); err != nil {
			return nil, err
		}
		out := *sl
		return &out, nil
	}
	return nil, fmt.Errorf("slot %q: %w", slotID, core.ErrSlotUnavailable)
}

func (s *Store) flushSlotsLocked() error {
	rows := make([][]string, 0, len(s.slots))
	for i := range s.slots {
		rows = append(rows, slotRow(&s.slots[i]))
	}
	return writeTable(s.path(fileSlots), headerSlots, rows)
}

type centerRepo struct{ s *Store }

func (r centerRepo) All(_ context.Context) ([]model.Center, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]model.Center, len(r.s.centers))
	copy(out, r.s.centers)
	return out, nil
}
