// Package service implements the hub's business logic on top of the
// repository and collaborator ports.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/outlier"
	"github.com/guardian-io/guardian/pkg/log"
)

// minAuditTrainingSize is the number of logged interactions required before
// the auditor's outlier model contributes to scoring.
const minAuditTrainingSize = 50

// Deps collects everything the service needs injected.
type Deps struct {
	Vehicles     core.VehicleRepository
	Telemetry    core.TelemetryRepository
	Defects      core.DefectRepository
	Slots        core.SlotRepository
	Centers      core.CenterRepository
	Feedback     core.FeedbackRepository
	RCA          core.RCARepository
	Interactions core.InteractionRepository
	Events       core.EventRepository
	SecurityLog  core.SecurityLogRepository

	// TextGen may be nil; every call site has a deterministic fallback.
	TextGen core.TextGenerator

	// Voice may be nil; voice alerts are then logged and skipped.
	Voice core.VoiceDispatcher

	// Reports may be nil; service-report intake then fails cleanly.
	Reports core.ReportStore

	// Consistency may be nil; a seeded random placeholder is used.
	Consistency core.ConsistencyChecker
}

// Service is the hub's application core.
type Service struct {
	log log.Logger

	vehicles     core.VehicleRepository
	telemetry    core.TelemetryRepository
	defects      core.DefectRepository
	slots        core.SlotRepository
	centers      core.CenterRepository
	feedback     core.FeedbackRepository
	rca          core.RCARepository
	interactions core.InteractionRepository
	events       core.EventRepository
	securityLog  core.SecurityLogRepository

	textgen     core.TextGenerator
	voice       core.VoiceDispatcher
	reports     core.ReportStore
	consistency core.ConsistencyChecker

	diagScorer  *outlier.Scorer
	auditScorer *outlier.Scorer

	recCache *recommendationCache

	// Injection points for deterministic tests.
	now   func() time.Time
	newID func() string
}

// New builds the service. Call TrainModels before serving traffic.
func New(deps Deps, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	consistency := deps.Consistency
	if consistency == nil {
		consistency = newRandomConsistency(time.Now().UnixNano())
	}
	return &Service{
		log:          logger,
		vehicles:     deps.Vehicles,
		telemetry:    deps.Telemetry,
		defects:      deps.Defects,
		slots:        deps.Slots,
		centers:      deps.Centers,
		feedback:     deps.Feedback,
		rca:          deps.RCA,
		interactions: deps.Interactions,
		events:       deps.Events,
		securityLog:  deps.SecurityLog,
		textgen:      deps.TextGen,
		voice:        deps.Voice,
		reports:      deps.Reports,
		consistency:  consistency,
		diagScorer:   &outlier.Scorer{},
		auditScorer:  &outlier.Scorer{},
		recCache:     newRecommendationCache(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// TrainModels fits the outlier models over the historical tables. The
// diagnosis model trains on the full telemetry feed; the audit model only
// trains once enough interactions exist to be representative.
func (s *Service) TrainModels(ctx context.Context) error {
	snaps, err := s.telemetry.All(ctx)
	if err != nil {
		return err
	}
	samples := make([][]float64, 0, len(snaps))
	for i := range snaps {
		samples = append(samples, telemetryFeatures(&snaps[i]))
	}
	s.diagScorer = outlier.Fit(samples)

	ins, err := s.interactions.All(ctx)
	if err != nil {
		return err
	}
	if len(ins) >= minAuditTrainingSize {
		rows := make([][]float64, 0, len(ins))
		for i := range ins {
			rows = append(rows, interactionFeatures(&ins[i]))
		}
		s.auditScorer = outlier.Fit(rows)
	} else {
		s.auditScorer = &outlier.Scorer{}
	}

	s.log.Info("models trained",
		"telemetry_samples", len(samples),
		"interaction_samples", len(ins),
		"audit_model_fitted", s.auditScorer.Fitted(),
	)
	return nil
}

func telemetryFeatures(t *model.TelemetrySnapshot) []float64 {
	return []float64{t.BatteryVoltage, float64(t.AlarmLevel), t.Vibration}
}

func interactionFeatures(in *model.Interaction) []float64 {
	return []float64{float64(in.PayloadSize), in.LatencyMS, float64(in.FanOut)}
}

// Vehicle returns one roster entry.
func (s *Service) Vehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	return s.vehicles.Get(ctx, id)
}

// VehicleByName returns one roster entry by display name.
func (s *Service) VehicleByName(ctx context.Context, name string) (*model.Vehicle, error) {
	return s.vehicles.GetByName(ctx, name)
}

// ListVehicles returns the full roster.
func (s *Service) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.vehicles.List(ctx)
}

// RecordTelemetry appends one snapshot to the telemetry series.
func (s *Service) RecordTelemetry(ctx context.Context, snap *model.TelemetrySnapshot) error {
	return s.telemetry.Append(ctx, snap)
}

// logEvent appends one row to the workflow event log. Event-log failures
// are logged but never fail the calling operation.
func (s *Service) logEvent(ctx context.Context, vehicleName, agent, action, eventType, status, details string) {
	if s.events == nil {
		return
	}
	ev := &model.Event{
		Timestamp:   s.now(),
		VehicleName: vehicleName,
		Agent:       agent,
		Action:      action,
		EventType:   eventType,
		Status:      status,
		Details:     details,
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.log.Error(err, "append event log", "agent", agent, "action", action)
	}
}
