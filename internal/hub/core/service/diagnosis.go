package service

import (
	"context"
	"strings"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

const (
	// telemetryWindowSize is how many trailing snapshots a diagnosis looks at.
	telemetryWindowSize = 5

	// defaultBatteryVoltage is reported when no telemetry exists.
	defaultBatteryVoltage = 12.6
)

// Evaluate applies the fixed ordered rule table to one telemetry window.
// First match wins; status rules dominate sensor rules which dominate the
// anomaly score. Missing data degrades to the safe low default; Evaluate
// never fails.
func (s *Service) Evaluate(_ context.Context, vehicleID string, window []model.TelemetrySnapshot, staticStatus string) *model.Diagnosis {
	d := &model.Diagnosis{
		VehicleID:      vehicleID,
		Risk:           model.RiskLow,
		Failure:        model.FailureNone,
		Urgency:        "14d",
		BatteryVoltage: defaultBatteryVoltage,
	}

	var latest *model.TelemetrySnapshot
	if len(window) > 0 {
		latest = &window[len(window)-1]
		d.BatteryVoltage = latest.BatteryVoltage
		d.AlarmLevel = latest.AlarmLevel
		d.AnomalyScore = s.diagScorer.Decision(telemetryFeatures(latest))
	}

	switch {
	case strings.Contains(staticStatus, "Fault: Brake Issue"):
		d.Risk, d.Failure, d.Urgency = model.RiskCritical, model.FailureBrake, "2d"
	case strings.Contains(staticStatus, "Fault: Oil Leak"):
		d.Risk, d.Failure, d.Urgency = model.RiskHigh, model.FailureOilLeak, "3d"
	case latest != nil && (latest.BatteryVoltage <= 11.8 || latest.AlarmLevel >= 3):
		d.Risk, d.Failure, d.Urgency = model.RiskHigh, model.FailureBattery, "3d"
	case latest != nil && latest.Towing && !latest.IgnitionOn:
		d.Risk, d.Failure, d.Urgency = model.RiskCritical, model.FailureTowing, "1d"
	case d.AnomalyScore < -0.1:
		d.Risk, d.Failure, d.Urgency = model.RiskMedium, model.FailureTelematics, "7d"
	}

	return d
}

// Diagnose runs a full evaluator pass for a vehicle: loads the status and
// trailing telemetry window, evaluates, and persists the resulting risk
// level on the roster. Unknown vehicles evaluate against empty data and
// nothing is persisted.
func (s *Service) Diagnose(ctx context.Context, vehicleID string) *model.Diagnosis {
	var status string
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err == nil {
		status = vehicle.Status
	}

	window, err := s.telemetry.Window(ctx, vehicleID, telemetryWindowSize)
	if err != nil {
		s.log.Error(err, "load telemetry window", "vehicle", vehicleID)
		window = nil
	}

	d := s.Evaluate(ctx, vehicleID, window, status)

	if vehicle != nil {
		if err := s.vehicles.UpdateRisk(ctx, vehicleID, d.Risk); err != nil {
			s.log.Error(err, "persist risk level", "vehicle", vehicleID)
		}
		s.logEvent(ctx, vehicle.Name, "diagnosis", "evaluate", "diagnosis", string(d.Risk), d.Summary())
	}
	return d
}
