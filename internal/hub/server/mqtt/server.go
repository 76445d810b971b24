// Package mqttserver ingests vehicle telemetry published by telematics
// units.
package mqttserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
	"github.com/guardian-io/guardian/pkg/log"
	"github.com/guardian-io/guardian/pkg/mqtt"
	mqtttopic "github.com/guardian-io/guardian/pkg/mqtt/topic"
)

const telemetryQoS = 1

// Server subscribes to the telemetry wildcard topic and appends every
// snapshot to the store.
type Server struct {
	client mqtt.Client
	topics *mqtttopic.Builder
	svc    *service.Service
	log    log.Logger
}

func New(client mqtt.Client, topics *mqtttopic.Builder, svc *service.Service, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{client: client, topics: topics, svc: svc, log: logger}
}

func (s *Server) Name() string { return "mqtt-telemetry" }

// Run subscribes and blocks until the context is done. The MQTT client
// lifecycle is owned by the hub server; this only manages the
// subscription.
func (s *Server) Run(ctx context.Context) error {
	filter := s.topics.TelemetryWildcard()
	if err := s.client.Subscribe(ctx, filter, telemetryQoS, s.onTelemetry); err != nil {
		return err
	}
	s.log.Info("telemetry subscription active", "filter", filter)

	<-ctx.Done()

	unsubCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.client.Unsubscribe(unsubCtx, filter); err != nil {
		s.log.Warn("telemetry unsubscribe failed", "err", err)
	}
	return nil
}

type telemetryPayload struct {
	BatteryVoltage float64   `json:"battery_voltage"`
	AlarmLevel     int       `json:"alarm_level"`
	Towing         bool      `json:"towing"`
	IgnitionOn     bool      `json:"ignition_on"`
	Vibration      float64   `json:"vibration"`
	Timestamp      time.Time `json:"timestamp"`
}

func (s *Server) onTelemetry(ctx context.Context, topic string, payload []byte) {
	vehicleID := mqtttopic.VehicleID(topic)
	if vehicleID == "" {
		s.log.Warn("telemetry on malformed topic", "topic", topic)
		return
	}

	var p telemetryPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.log.Warn("drop malformed telemetry", "vehicle", vehicleID, "err", err)
		return
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}

	snap := &model.TelemetrySnapshot{
		VehicleID:      vehicleID,
		BatteryVoltage: p.BatteryVoltage,
		AlarmLevel:     p.AlarmLevel,
		Towing:         p.Towing,
		IgnitionOn:     p.IgnitionOn,
		Vibration:      p.Vibration,
		Timestamp:      p.Timestamp,
	}
	if err := s.svc.RecordTelemetry(ctx, snap); err != nil {
		s.log.Error(err, "record telemetry", "vehicle", vehicleID)
		return
	}
	metrics.TelemetryReceivedTotal.Inc()
	s.log.Debug("telemetry recorded", "vehicle", vehicleID, "battery", p.BatteryVoltage)
}
