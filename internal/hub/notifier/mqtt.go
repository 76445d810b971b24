// Package notifier carries urgent alerts out of the hub over MQTT. The
// telephony gateway subscribes to the alert topics, places the call and
// posts its outcome back over HTTP callbacks.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/pkg/log"
	"github.com/guardian-io/guardian/pkg/mqtt"
	mqtttopic "github.com/guardian-io/guardian/pkg/mqtt/topic"
)

// voiceAlertQoS: alerts must arrive at least once; duplicate calls are
// cheaper than missed ones.
const voiceAlertQoS = 1

type alertPayload struct {
	VehicleID string    `json:"vehicle_id"`
	RiskLevel string    `json:"risk_level"`
	Timestamp time.Time `json:"timestamp"`
}

// VoiceNotifier publishes voice-alert requests for the telephony gateway.
type VoiceNotifier struct {
	client mqtt.Client
	topics *mqtttopic.Builder
	log    log.Logger
}

func NewVoiceNotifier(client mqtt.Client, topics *mqtttopic.Builder, logger log.Logger) *VoiceNotifier {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &VoiceNotifier{client: client, topics: topics, log: logger}
}

// Dispatch publishes one alert. Only the identifier and risk level cross
// the boundary; the gateway owns everything about the call itself.
func (n *VoiceNotifier) Dispatch(ctx context.Context, vehicleID string, risk model.RiskLevel) error {
	payload, err := json.Marshal(alertPayload{
		VehicleID: vehicleID,
		RiskLevel: string(risk),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal voice alert: %w", err)
	}

	topic := n.topics.VoiceAlert(vehicleID)
	if err := n.client.Publish(ctx, topic, voiceAlertQoS, false, payload); err != nil {
		return fmt.Errorf("publish voice alert to %s: %w", topic, err)
	}
	n.log.Info("voice alert published", "vehicle", vehicleID, "risk", risk, "topic", topic)
	return nil
}
