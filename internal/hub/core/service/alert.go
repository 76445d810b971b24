package service

import (
	"context"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
)

// VoiceAlert hands an urgent vehicle off to the telephony gateway. The
// gateway owns the call and its audio cues; only the identifier and risk
// level cross the boundary. Missing dispatcher means the alert is logged
// and skipped, not failed.
func (s *Service) VoiceAlert(ctx context.Context, vehicleID string, risk model.RiskLevel) error {
	vehicleName := vehicleID
	if v, err := s.vehicles.Get(ctx, vehicleID); err == nil {
		vehicleName = v.Name
	}

	if s.voice == nil {
		s.log.Warn("voice dispatcher not configured, skipping alert", "vehicle", vehicleID, "risk", risk)
		s.logEvent(ctx, vehicleName, "voice", "dispatch", "alert", "skipped", string(risk))
		return nil
	}

	if err := s.voice.Dispatch(ctx, vehicleID, risk); err != nil {
		s.logEvent(ctx, vehicleName, "voice", "dispatch", "alert", "failed", err.Error())
		return fmt.Errorf("voice alert for %s: %w", vehicleID, err)
	}

	metrics.VoiceAlertsTotal.WithLabelValues(string(risk)).Inc()
	s.logEvent(ctx, vehicleName, "voice", "dispatch", "alert", "sent", string(risk))
	return nil
}
