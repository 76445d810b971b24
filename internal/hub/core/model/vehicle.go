package model

import "time"

// RiskLevel is the ordinal risk classification assigned per vehicle per
// diagnosis run.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank returns the ordinal position of the risk level, low first.
// Unknown levels rank below low.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskCritical:
		return 4
	default:
		return 0
	}
}

// Urgent reports whether the level qualifies for the high-priority
// slot reserve and emergency handling.
func (r RiskLevel) Urgent() bool {
	return r == RiskHigh || r == RiskCritical
}

// FailureKind is the predicted failure category of a diagnosis.
type FailureKind string

const (
	FailureNone       FailureKind = "none"
	FailureBattery    FailureKind = "battery"
	FailureOilLeak    FailureKind = "oil_leak"
	FailureBrake      FailureKind = "brake"
	FailureTowing     FailureKind = "towing"
	FailureTelematics FailureKind = "telematics"
)

// Vehicle represents the core business entity of a monitored vehicle.
// Created at data load; mutated by the diagnosis evaluator; never deleted
// within a session.
type Vehicle struct {
	// ID is the unique identifier of the vehicle (e.g. "V0001").
	ID string

	// Name is the customer-facing display name (e.g. "Car B").
	Name string

	// Model is the manufacturer model string.
	Model string

	// Status is the static status string from the roster, which may carry
	// fault markers such as "Fault: Brake Issue".
	Status string

	// CustomerID and CustomerName identify the owning customer.
	CustomerID   string
	CustomerName string

	// Risk is the current risk classification from the latest diagnosis.
	Risk RiskLevel
}

// TelemetrySnapshot is one observation from a vehicle's telematics unit.
// Append-only series keyed by vehicle identifier.
type TelemetrySnapshot struct {
	VehicleID      string    `json:"vehicle_id"`
	BatteryVoltage float64   `json:"battery_voltage"`
	AlarmLevel     int       `json:"alarm_level"`
	Towing         bool      `json:"towing"`
	IgnitionOn     bool      `json:"ignition_on"`
	Vibration      float64   `json:"vibration"`
	Timestamp      time.Time `json:"timestamp"`
}

// Diagnosis is the outcome of one evaluator run. Immutable once produced.
type Diagnosis struct {
	VehicleID string `json:"vehicle_id"`

	Risk    RiskLevel   `json:"risk_level"`
	Failure FailureKind `json:"predicted_failure"`

	// Urgency is the recommended time-to-service as a duration string
	// ("1d", "2d", "3d", "7d", "14d"). Shorter always means higher risk.
	Urgency string `json:"urgency"`

	// AnomalyScore is the outlier-model decision value for the evaluated
	// window. Negative values indicate anomalous telemetry.
	AnomalyScore float64 `json:"anomaly_score"`

	// BatteryVoltage and AlarmLevel echo the sensor values the rules saw,
	// including the deterministic defaults for missing data.
	BatteryVoltage float64 `json:"battery_voltage"`
	AlarmLevel     int     `json:"alarm_level"`
}

// Summary renders the diagnosis as one human-readable line for booking
// confirmations and voice alerts.
func (d *Diagnosis) Summary() string {
	if d == nil {
		return "no diagnosis available"
	}
	return "risk " + string(d.Risk) + ", predicted failure " + string(d.Failure) + ", service within " + d.Urgency
}

// Defect is one row of the defect history table.
type Defect struct {
	VehicleID     string
	VehicleName   string
	Type          string
	Severity      string
	Description   string
	EstimatedCost float64
	ReportedDate  string
}
