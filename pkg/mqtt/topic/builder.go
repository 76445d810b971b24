package topic

import (
	"fmt"
	"strings"
)

// Constants defining the standard topic segments.
// These act as the protocol contract between the hub and the edge publishers
// (telematics units, voice gateway). Changing them breaks existing deployments.
const (
	// SuffixTelemetry represents the upstream telemetry topic (Vehicle -> Hub).
	// Structure: {root}/telemetry/{vehicleID}
	SuffixTelemetry = "telemetry"

	// SuffixVoiceAlert represents the downstream voice-alert topic (Hub -> Voice Gateway).
	// Structure: {root}/voice/alert/{vehicleID}
	SuffixVoiceAlert = "voice/alert"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
// It ensures consistency across the entire project.
type Builder struct {
	// root is the base namespace for all topics (e.g., "guardian/v1").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.TrimSuffix(root, "/")}
}

// Telemetry returns the topic a specific vehicle publishes snapshots to.
// Direction: Vehicle -> Hub
func (b *Builder) Telemetry(vehicleID string) string {
	return b.build(SuffixTelemetry, vehicleID)
}

// TelemetryWildcard returns the wildcard filter the hub subscribes to for
// telemetry from ALL vehicles. Result: {root}/telemetry/+
func (b *Builder) TelemetryWildcard() string {
	return b.build(SuffixTelemetry, "+")
}

// VoiceAlert returns the topic for dispatching an outbound voice alert
// for a specific vehicle. Direction: Hub -> Voice Gateway
func (b *Builder) VoiceAlert(vehicleID string) string {
	return b.build(SuffixVoiceAlert, vehicleID)
}

// VehicleID extracts the trailing vehicle identifier from a concrete topic.
func VehicleID(topic string) string {
	idx := strings.LastIndex(topic, "/")
	if idx < 0 || idx == len(topic)-1 {
		return ""
	}
	return topic[idx+1:]
}

func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}
