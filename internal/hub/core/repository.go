package core

import (
	"context"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// VehicleRepository provides access to the vehicle roster.
type VehicleRepository interface {
	// Get retrieves a vehicle by its identifier.
	Get(ctx context.Context, id string) (*model.Vehicle, error)

	// GetByName retrieves a vehicle by display name.
	GetByName(ctx context.Context, name string) (*model.Vehicle, error)

	// List returns the full roster.
	List(ctx context.Context) ([]model.Vehicle, error)

	// UpdateRisk persists the latest risk classification for a vehicle.
	UpdateRisk(ctx context.Context, id string, risk model.RiskLevel) error
}

// TelemetryRepository stores the append-only telemetry series.
type TelemetryRepository interface {
	// Append records one snapshot.
	Append(ctx context.Context, snap *model.TelemetrySnapshot) error

	// Window returns the last n snapshots for a vehicle, oldest first.
	// Missing vehicles yield an empty window, not an error.
	Window(ctx context.Context, vehicleID string, n int) ([]model.TelemetrySnapshot, error)

	// All returns every stored snapshot, for model training.
	All(ctx context.Context) ([]model.TelemetrySnapshot, error)
}

// DefectRepository provides the defect history.
type DefectRepository interface {
	// Latest returns the most recent defect for a vehicle by reported date,
	// or ErrNotFound when none exists.
	Latest(ctx context.Context, vehicleName string) (*model.Defect, error)

	// All returns the full defect table.
	All(ctx context.Context) ([]model.Defect, error)
}

// SlotRepository owns the appointment slot pool.
type SlotRepository interface {
	// Count returns the number of slots in the pool.
	Count(ctx context.Context) (int, error)

	// Seed stores an initial pool. Called once when no pool exists.
	Seed(ctx context.Context, slots []model.Slot) error

	// List returns all slots.
	List(ctx context.Context) ([]model.Slot, error)

	// Get returns a slot by identifier, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Slot, error)

	// Book atomically marks an available slot booked for the vehicle with
	// the given priority level. Returns ErrSlotUnavailable when the slot is
	// missing or already booked.
	Book(ctx context.Context, slotID, vehicleID, priorityLevel string) (*model.Slot, error)
}

// CenterRepository provides the static service-center reference data.
type CenterRepository interface {
	All(ctx context.Context) ([]model.Center, error)
}

// FeedbackRepository stores post-service outcomes.
type FeedbackRepository interface {
	// Append records one feedback entry.
	Append(ctx context.Context, fb *model.Feedback) error

	// ByVehicle returns feedback for one vehicle, oldest first.
	ByVehicle(ctx context.Context, vehicleName string) ([]model.Feedback, error)

	// All returns all feedback, oldest first.
	All(ctx context.Context) ([]model.Feedback, error)
}

// RCARepository provides the root-cause / corrective-action reference table.
type RCARepository interface {
	All(ctx context.Context) ([]model.RCARecord, error)
}

// InteractionRepository stores the auditor's interaction log.
type InteractionRepository interface {
	// Append records one observed interaction.
	Append(ctx context.Context, in *model.Interaction) error

	// All returns the full log, oldest first.
	All(ctx context.Context) ([]model.Interaction, error)

	// Recent returns the last n entries, oldest first.
	Recent(ctx context.Context, n int) ([]model.Interaction, error)

	// DistinctTargets counts the distinct targets a source called since the
	// given time.
	DistinctTargets(ctx context.Context, source string, since time.Time) (int, error)

	// BlockBySource retroactively marks every entry from the source as
	// blocked. Returns the number of entries affected.
	BlockBySource(ctx context.Context, source string) (int, error)
}

// EventRepository stores the workflow event log.
type EventRepository interface {
	Append(ctx context.Context, ev *model.Event) error
	All(ctx context.Context) ([]model.Event, error)
}

// SecurityLogRepository stores plain security events.
type SecurityLogRepository interface {
	Append(ctx context.Context, ev *model.SecurityEvent) error
	All(ctx context.Context) ([]model.SecurityEvent, error)
}
