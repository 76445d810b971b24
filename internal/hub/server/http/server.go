// Package httpserver exposes the hub's HTTP surface: telephony callbacks,
// dashboard queries, report intake and operational endpoints.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/hub/workflow"
	"github.com/guardian-io/guardian/internal/pkg/geo"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
	"github.com/guardian-io/guardian/pkg/log"
	"github.com/guardian-io/guardian/pkg/options"
)

// Server is the hub's HTTP front end.
type Server struct {
	svc      *service.Service
	router   *workflow.Router
	location geo.Point
	log      log.Logger

	httpServer *http.Server
}

func New(opts *options.HttpOptions, svc *service.Service, router *workflow.Router, location geo.Point, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Server{svc: svc, router: router, location: location, log: logger}
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.routes(),
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	}
	return s
}

func (s *Server) Name() string { return "http" }

// Run serves until the context is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Telephony gateway callbacks.
	r.HandleFunc("/schedule-urgent", s.handleScheduleUrgent).Methods(http.MethodPost)
	r.HandleFunc("/book", s.handleBook).Methods(http.MethodPost)
	r.HandleFunc("/reminder", s.handleReminder).Methods(http.MethodPost)

	// Vehicle view.
	r.HandleFunc("/vehicles", s.handleListVehicles).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}", s.handleVehicle).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/diagnosis", s.handleDiagnosis).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/recommendation", s.handleRecommendation).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/slots", s.handleSlots).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/workflow", s.handleWorkflow).Methods(http.MethodPost)
	r.HandleFunc("/vehicles/{id}/feedback", s.handleRecordFeedback).Methods(http.MethodPost)
	r.HandleFunc("/vehicles/{id}/report", s.handleReportUpload).Methods(http.MethodPost)

	// Manufacturer analytics view.
	r.HandleFunc("/analytics/insights", s.handleInsights).Methods(http.MethodGet)
	r.HandleFunc("/analytics/feedback", s.handleFeedbackMetrics).Methods(http.MethodGet)
	r.HandleFunc("/analytics/followups", s.handleFollowups).Methods(http.MethodGet)

	// Security view.
	r.HandleFunc("/audit/dashboard", s.handleAuditDashboard).Methods(http.MethodGet)
	r.HandleFunc("/audit/quarantine", s.handleQuarantine).Methods(http.MethodPost)
	r.HandleFunc("/audit/behavioral-risks", s.handleBehavioralRisks).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err, "write response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
