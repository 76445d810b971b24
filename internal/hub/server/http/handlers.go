package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
)

// maxReportSize bounds uploaded service reports.
const maxReportSize = 10 << 20

// handleScheduleUrgent is the telephony callback for the emergency branch:
// the customer accepted an urgent visit, reserve the nearest priority slot.
func (s *Server) handleScheduleUrgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID string `json:"vehicle_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.VehicleID == "" {
		s.writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	vehicle, err := s.svc.Vehicle(r.Context(), req.VehicleID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "unknown vehicle")
		return
	}

	priority := vehicle.Risk
	if !priority.Urgent() {
		priority = model.RiskHigh
	}
	res, err := s.svc.AutoReserve(r.Context(), req.VehicleID, s.location, priority)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleBook is the telephony callback for a normal booking: slot_id books
// a specific slot, center plus preferences books the earliest one there.
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID    string   `json:"vehicle_id"`
		SlotID       string   `json:"slot_id"`
		Center       string   `json:"center"`
		CustomerName string   `json:"customer_name"`
		Preferences  []string `json:"preferences"`
	}
	if err := decodeJSON(r, &req); err != nil || req.VehicleID == "" {
		s.writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	vehicle, err := s.svc.Vehicle(r.Context(), req.VehicleID)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "unknown vehicle")
		return
	}
	customer := req.CustomerName
	if customer == "" {
		customer = vehicle.CustomerName
	}

	var res *model.BookingResult
	switch {
	case req.SlotID != "":
		res, err = s.svc.Book(r.Context(), req.VehicleID, req.SlotID, customer, vehicle.Risk, true)
	case req.Center != "":
		res, err = s.svc.BookWithPreferences(r.Context(), req.VehicleID, customer, req.Center, req.Preferences)
	default:
		s.writeError(w, http.StatusBadRequest, "slot_id or center is required")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleReminder records that the gateway played a service reminder.
func (s *Server) handleReminder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID string `json:"vehicle_id"`
	}
	if err := decodeJSON(r, &req); err != nil || req.VehicleID == "" {
		s.writeError(w, http.StatusBadRequest, "vehicle_id is required")
		return
	}

	name := req.VehicleID
	if v, err := s.svc.Vehicle(r.Context(), req.VehicleID); err == nil {
		name = v.Name
	}
	s.svc.LogSecurityEvent(r.Context(), name, "voice", "service reminder delivered", "info")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "reminder_logged"})
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.svc.ListVehicles(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := s.svc.Vehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "unknown vehicle")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleDiagnosis(w http.ResponseWriter, r *http.Request) {
	d := s.svc.Diagnose(r.Context(), mux.Vars(r)["id"])
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	vehicle, err := s.svc.Vehicle(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "unknown vehicle")
		return
	}

	text, err := s.svc.Recommend(r.Context(), id, vehicle.CustomerName)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"vehicle_id": id, "recommendation": text})
}

func (s *Server) handleSlots(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	vehicle, err := s.svc.Vehicle(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "unknown vehicle")
		return
	}

	horizon := 7
	if v := r.URL.Query().Get("horizon"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			horizon = n
		}
	}

	slots, err := s.svc.ListAvailable(r.Context(), s.location, horizon, vehicle.Risk)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, slots)
}

// handleWorkflow runs the full maintenance workflow for one vehicle.
func (s *Server) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	st, err := s.router.Run(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRecordFeedback(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		CustomerName string  `json:"customer_name"`
		Rating       float64 `json:"rating"`
		Resolved     bool    `json:"resolved"`
		Comments     string  `json:"comments"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	fb, err := s.svc.RecordFeedback(r.Context(), id, req.CustomerName, req.Rating, req.Resolved, req.Comments)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "unknown vehicle")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, fb)
}

// handleReportUpload stores a post-service report and records the default
// feedback entry referencing it.
func (s *Server) handleReportUpload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		s.writeError(w, http.StatusBadRequest, "filename query parameter is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxReportSize))
	r.Body.Close()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "read body")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fb, key, err := s.svc.IngestServiceReport(r.Context(), id, filename, contentType, data)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"object_key": key, "feedback": fb})
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Insights(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFeedbackMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.svc.AggregateFeedback(r.Context(), r.URL.Query().Get("vehicle"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleFollowups(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.svc.FollowupAlerts(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleAuditDashboard(w http.ResponseWriter, r *http.Request) {
	n := 20
	if v := r.URL.Query().Get("recent"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	d, err := s.svc.AuditDashboard(r.Context(), n)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleQuarantine(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Component string `json:"component"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Component == "" {
		s.writeError(w, http.StatusBadRequest, "component is required")
		return
	}

	n, err := s.svc.Quarantine(r.Context(), req.Component)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"component": req.Component, "blocked": n})
}

func (s *Server) handleBehavioralRisks(w http.ResponseWriter, r *http.Request) {
	risks, err := s.svc.BehavioralRisks(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, risks)
}
