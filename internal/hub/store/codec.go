package store

import (
	"strconv"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// Column layouts per table. Order is the contract with the data files.

var (
	headerVehicles     = []string{"vehicle_id", "vehicle_name", "model", "status", "customer_id", "customer_name", "risk"}
	headerTelemetry    = []string{"vehicle_id", "battery_voltage", "alarm_level", "towing", "ignition_on", "vibration", "timestamp"}
	headerDefects      = []string{"vehicle_id", "vehicle_name", "defect_type", "severity", "description", "estimated_cost", "reported_date"}
	headerSlots        = []string{"slot_id", "date", "time", "center", "vehicle_id", "status", "reserved", "priority_level"}
	headerCenters      = []string{"id", "name", "lat", "lon"}
	headerFeedback     = []string{"feedback_id", "vehicle_id", "vehicle_name", "customer_name", "service_date", "user_rating", "issue_resolved", "comments", "sentiment", "mechanic_note", "service_center", "root_cause_ref", "needs_followup"}
	headerRCA          = []string{"issue", "root_cause", "corrective_action"}
	headerInteractions = []string{"id", "timestamp", "source_agent", "target_agent", "vehicle_id", "action_type", "data_size", "response_time_ms", "cross_agent_calls", "data_consistency", "anomaly_score", "blocked"}
	headerEvents       = []string{"timestamp", "vehicle_name", "agent", "action", "event_type", "status", "details"}
	headerSecurityLog  = []string{"timestamp", "vehicle_name", "source", "message", "status"}
)

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func loadVehicles(path string) ([]model.Vehicle, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Vehicle, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Vehicle{
			ID:           field(r, 0),
			Name:         field(r, 1),
			Model:        field(r, 2),
			Status:       field(r, 3),
			CustomerID:   field(r, 4),
			CustomerName: field(r, 5),
			Risk:         model.RiskLevel(field(r, 6)),
		})
	}
	return out, nil
}

func vehicleRow(v *model.Vehicle) []string {
	return []string{v.ID, v.Name, v.Model, v.Status, v.CustomerID, v.CustomerName, string(v.Risk)}
}

func loadTelemetry(path string) ([]model.TelemetrySnapshot, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.TelemetrySnapshot, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.TelemetrySnapshot{
			VehicleID:      field(r, 0),
			BatteryVoltage: parseFloat(field(r, 1)),
			AlarmLevel:     parseInt(field(r, 2)),
			Towing:         parseBool(field(r, 3)),
			IgnitionOn:     parseBool(field(r, 4)),
			Vibration:      parseFloat(field(r, 5)),
			Timestamp:      parseTime(field(r, 6)),
		})
	}
	return out, nil
}

func telemetryRow(t *model.TelemetrySnapshot) []string {
	return []string{
		t.VehicleID,
		formatFloat(t.BatteryVoltage),
		strconv.Itoa(t.AlarmLevel),
		formatBool(t.Towing),
		formatBool(t.IgnitionOn),
		formatFloat(t.Vibration),
		t.Timestamp.Format(time.RFC3339),
	}
}

func loadDefects(path string) ([]model.Defect, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Defect, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Defect{
			VehicleID:     field(r, 0),
			VehicleName:   field(r, 1),
			Type:          field(r, 2),
			Severity:      field(r, 3),
			Description:   field(r, 4),
			EstimatedCost: parseFloat(field(r, 5)),
			ReportedDate:  field(r, 6),
		})
	}
	return out, nil
}

func loadSlots(path string) ([]model.Slot, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Slot, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Slot{
			ID:            field(r, 0),
			Date:          field(r, 1),
			Time:          field(r, 2),
			CenterID:      field(r, 3),
			VehicleID:     field(r, 4),
			Status:        model.SlotStatus(field(r, 5)),
			Reserved:      parseBool(field(r, 6)),
			PriorityLevel: field(r, 7),
		})
	}
	return out, nil
}

func slotRow(s *model.Slot) []string {
	return []string{s.ID, s.Date, s.Time, s.CenterID, s.VehicleID, string(s.Status), formatBool(s.Reserved), s.PriorityLevel}
}

func loadCenters(path string) ([]model.Center, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Center, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Center{
			ID:   field(r, 0),
			Name: field(r, 1),
			Lat:  parseFloat(field(r, 2)),
			Lon:  parseFloat(field(r, 3)),
		})
	}
	return out, nil
}

func loadFeedback(path string) ([]model.Feedback, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Feedback, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Feedback{
			ID:            field(r, 0),
			VehicleID:     field(r, 1),
			VehicleName:   field(r, 2),
			CustomerName:  field(r, 3),
			ServiceDate:   field(r, 4),
			Rating:        parseFloat(field(r, 5)),
			Resolved:      parseBool(field(r, 6)),
			Comments:      field(r, 7),
			Sentiment:     parseFloat(field(r, 8)),
			MechanicNote:  field(r, 9),
			ServiceCenter: field(r, 10),
			RootCauseRef:  field(r, 11),
			NeedsFollowup: parseBool(field(r, 12)),
		})
	}
	return out, nil
}

func feedbackRow(fb *model.Feedback) []string {
	return []string{
		fb.ID,
		fb.VehicleID,
		fb.VehicleName,
		fb.CustomerName,
		fb.ServiceDate,
		formatFloat(fb.Rating),
		formatBool(fb.Resolved),
		fb.Comments,
		formatFloat(fb.Sentiment),
		fb.MechanicNote,
		fb.ServiceCenter,
		fb.RootCauseRef,
		formatBool(fb.NeedsFollowup),
	}
}

func loadRCA(path string) ([]model.RCARecord, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.RCARecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.RCARecord{
			Issue:            field(r, 0),
			RootCause:        field(r, 1),
			CorrectiveAction: field(r, 2),
		})
	}
	return out, nil
}

func loadInteractions(path string) ([]model.Interaction, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Interaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Interaction{
			ID:           field(r, 0),
			Timestamp:    parseTime(field(r, 1)),
			Source:       field(r, 2),
			Target:       field(r, 3),
			VehicleID:    field(r, 4),
			Action:       field(r, 5),
			PayloadSize:  parseInt(field(r, 6)),
			LatencyMS:    parseFloat(field(r, 7)),
			FanOut:       parseInt(field(r, 8)),
			Consistency:  parseFloat(field(r, 9)),
			AnomalyScore: parseFloat(field(r, 10)),
			Blocked:      parseBool(field(r, 11)),
		})
	}
	return out, nil
}

func interactionRow(in *model.Interaction) []string {
	return []string{
		in.ID,
		in.Timestamp.Format(time.RFC3339),
		in.Source,
		in.Target,
		in.VehicleID,
		in.Action,
		strconv.Itoa(in.PayloadSize),
		formatFloat(in.LatencyMS),
		strconv.Itoa(in.FanOut),
		formatFloat(in.Consistency),
		formatFloat(in.AnomalyScore),
		formatBool(in.Blocked),
	}
}

func loadEvents(path string) ([]model.Event, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Event{
			Timestamp:   parseTime(field(r, 0)),
			VehicleName: field(r, 1),
			Agent:       field(r, 2),
			Action:      field(r, 3),
			EventType:   field(r, 4),
			Status:      field(r, 5),
			Details:     field(r, 6),
		})
	}
	return out, nil
}

func eventRow(ev *model.Event) []string {
	return []string{
		ev.Timestamp.Format(time.RFC3339),
		ev.VehicleName,
		ev.Agent,
		ev.Action,
		ev.EventType,
		ev.Status,
		ev.Details,
	}
}

func loadSecurityEvents(path string) ([]model.SecurityEvent, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]model.SecurityEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.SecurityEvent{
			Timestamp:   parseTime(field(r, 0)),
			VehicleName: field(r, 1),
			Source:      field(r, 2),
			Message:     field(r, 3),
			Status:      field(r, 4),
		})
	}
	return out, nil
}

func securityEventRow(ev *model.SecurityEvent) []string {
	return []string{
		ev.Timestamp.Format(time.RFC3339),
		ev.VehicleName,
		ev.Source,
		ev.Message,
		ev.Status,
	}
}
