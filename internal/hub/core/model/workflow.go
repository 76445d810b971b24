package model

import "time"

// WorkflowStatus is the terminal disposition of one workflow invocation.
type WorkflowStatus string

const (
	WorkflowRunning           WorkflowStatus = "running"
	WorkflowComplete          WorkflowStatus = "complete"
	WorkflowCriticalEmergency WorkflowStatus = "critical_emergency"
)

// WorkflowState carries everything one router invocation accumulates.
// Created per invocation, mutated by each transition, discarded at the end.
type WorkflowState struct {
	VehicleID    string `json:"vehicle_id"`
	VehicleName  string `json:"vehicle_name"`
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`

	// Customer location used for slot distance ranking.
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	Diagnosis *Diagnosis `json:"diagnosis,omitempty"`
	Priority  RiskLevel  `json:"priority,omitempty"`

	// Actions is the human-readable audit trail, one line per transition.
	Actions []string `json:"actions"`

	// EngagedOnce guards the single engage loop for medium risk.
	EngagedOnce bool `json:"engaged_once"`

	// WantsBooking records the simulated customer intent.
	WantsBooking bool `json:"wants_booking"`

	Recommendation string         `json:"recommendation,omitempty"`
	Booking        *BookingResult `json:"booking,omitempty"`
	Feedback       *Feedback      `json:"feedback,omitempty"`

	Status WorkflowStatus `json:"final_status"`
}

// Act appends one line to the audit trail.
func (s *WorkflowState) Act(line string) {
	s.Actions = append(s.Actions, line)
}

// Event is one row of the workflow event log (logs.csv).
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	VehicleName string    `json:"vehicle_name"`
	Agent       string    `json:"agent"`
	Action      string    `json:"action"`
	EventType   string    `json:"event_type"`
	Status      string    `json:"status"`
	Details     string    `json:"details"`
}
