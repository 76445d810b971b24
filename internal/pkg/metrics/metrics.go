package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the hub's metrics registry, served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// WorkflowRunsTotal counts workflow invocations by terminal status.
	WorkflowRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_workflow_runs_total",
			Help: "Total workflow invocations by terminal status.",
		},
		[]string{"status"}, // complete / critical_emergency / error
	)

	// BookingsTotal counts booking attempts by outcome.
	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_bookings_total",
			Help: "Total slot booking attempts by outcome.",
		},
		[]string{"status"}, // reserved / confirmed / unavailable
	)

	// InteractionsBlockedTotal counts interactions the auditor blocked.
	InteractionsBlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guardian_interactions_blocked_total",
			Help: "Total inter-component interactions blocked by the auditor.",
		},
	)

	// TextGenFallbacksTotal counts text-generation calls that fell back to
	// the deterministic template.
	TextGenFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guardian_textgen_fallbacks_total",
			Help: "Total text-generation calls served by the local fallback.",
		},
	)

	// TelemetryReceivedTotal counts telemetry snapshots ingested over MQTT.
	TelemetryReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "guardian_telemetry_received_total",
			Help: "Total telemetry snapshots received.",
		},
	)

	// VoiceAlertsTotal counts dispatched voice alerts by risk level.
	VoiceAlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_voice_alerts_total",
			Help: "Total voice alerts dispatched by risk level.",
		},
		[]string{"risk"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		WorkflowRunsTotal,
		BookingsTotal,
		InteractionsBlockedTotal,
		TextGenFallbacksTotal,
		TelemetryReceivedTotal,
		VoiceAlertsTotal,
	)
}
