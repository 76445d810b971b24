package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderTopics(t *testing.T) {
	b := NewBuilder("guardian/v1")

	assert.Equal(t, "guardian/v1/telemetry/V0001", b.Telemetry("V0001"))
	assert.Equal(t, "guardian/v1/telemetry/+", b.TelemetryWildcard())
	assert.Equal(t, "guardian/v1/voice/alert/V0001", b.VoiceAlert("V0001"))
}

func TestBuilderTrimsTrailingSlash(t *testing.T) {
	b := NewBuilder("guardian/v1/")
	assert.Equal(t, "guardian/v1/telemetry/V0002", b.Telemetry("V0002"))
}

func TestVehicleID(t *testing.T) {
	assert.Equal(t, "V0001", VehicleID("guardian/v1/telemetry/V0001"))
	assert.Equal(t, "", VehicleID("guardian/v1/telemetry/"))
	assert.Equal(t, "", VehicleID("no-separator"))
}
