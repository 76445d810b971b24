package model

import "time"

// Interaction is one observed inter-component call. Append-only; the only
// permitted mutation is the retroactive Blocked flip done by quarantine.
type Interaction struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source_agent"`
	Target    string    `json:"target_agent"`
	VehicleID string    `json:"vehicle_id"`
	Action    string    `json:"action_type"`

	PayloadSize int     `json:"data_size"`
	LatencyMS   float64 `json:"response_time_ms"`

	// FanOut is the number of distinct targets the source called in the
	// trailing hour, captured at observation time.
	FanOut int `json:"cross_agent_calls"`

	// Consistency is the synthetic data-consistency score in [0,1].
	Consistency float64 `json:"data_consistency"`

	AnomalyScore float64 `json:"anomaly_score"`
	Blocked      bool    `json:"blocked"`
}

// Verdict is the auditor's answer for a single observed call.
type Verdict struct {
	Allowed      bool     `json:"allowed"`
	AnomalyScore float64  `json:"anomaly_score"`
	RiskFactors  []string `json:"risk_factors"`
}

// AuditDashboard summarizes the interaction log for the security view.
type AuditDashboard struct {
	Total     int     `json:"total_interactions"`
	Blocked   int     `json:"blocked_interactions"`
	MeanScore float64 `json:"avg_anomaly_score"`

	// Busiest is the component appearing most often as a source.
	Busiest string `json:"busiest_agent"`

	// Suspicious counts entries with anomaly score above the block
	// threshold.
	Suspicious int `json:"suspicious_patterns"`

	Recent []Interaction `json:"recent"`
}

// SecurityEvent is one row of the plain security log (alerts, simulated
// incidents, quarantine notices).
type SecurityEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	VehicleName string    `json:"vehicle_name"`
	Source      string    `json:"source"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
}

// BehavioralRisk scores a vehicle by its security-log activity.
type BehavioralRisk struct {
	VehicleName string  `json:"vehicle_name"`
	Score       float64 `json:"risk_score"`
}
