// Package store persists hub state as CSV tables under a data directory.
// Every table is loaded into memory at open. Append-only tables append one
// row to their backing file per write; mutable tables rewrite the whole
// file under the store lock. The dataset is small enough that a full
// rewrite is cheaper than anything clever.
package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/pkg/log"
)

// Table file names under the data directory.
const (
	fileVehicles     = "vehicles.csv"
	fileTelemetry    = "telemetry.csv"
	fileDefects      = "defect_history.csv"
	fileSlots        = "slots.csv"
	fileCenters      = "service_centers.csv"
	fileFeedback     = "feedback.csv"
	fileRCA          = "rca_capa.csv"
	fileInteractions = "interactions.csv"
	fileEvents       = "logs.csv"
	fileSecurityLog  = "security_logs.csv"
)

// Store is the CSV-backed persistence layer. All repository ports are
// served from the same instance and share one lock.
type Store struct {
	dir string
	log log.Logger

	mu           sync.RWMutex
	vehicles     []model.Vehicle
	telemetry    []model.TelemetrySnapshot
	defects      []model.Defect
	slots        []model.Slot
	centers      []model.Center
	feedback     []model.Feedback
	rca          []model.RCARecord
	interactions []model.Interaction
	events       []model.Event
	security     []model.SecurityEvent
}

// Open loads every table under dir, creating the directory if needed.
// Missing table files load as empty tables.
func Open(dir string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	s := &Store{dir: dir, log: logger}
	if err := s.reload(); err != nil {
		return nil, err
	}

	s.log.Info("store opened",
		"dir", dir,
		"vehicles", len(s.vehicles),
		"telemetry", len(s.telemetry),
		"slots", len(s.slots),
	)
	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// reload re-reads every table from disk, replacing the in-memory state.
func (s *Store) reload() error {
	vehicles, err := loadVehicles(s.path(fileVehicles))
	if err != nil {
		return err
	}
	telemetry, err := loadTelemetry(s.path(fileTelemetry))
	if err != nil {
		return err
	}
	defects, err := loadDefects(s.path(fileDefects))
	if err != nil {
		return err
	}
	slots, err := loadSlots(s.path(fileSlots))
	if err != nil {
		return err
	}
	centers, err := loadCenters(s.path(fileCenters))
	if err != nil {
		return err
	}
	feedback, err := loadFeedback(s.path(fileFeedback))
	if err != nil {
		return err
	}
	rca, err := loadRCA(s.path(fileRCA))
	if err != nil {
		return err
	}
	interactions, err := loadInteractions(s.path(fileInteractions))
	if err != nil {
		return err
	}
	events, err := loadEvents(s.path(fileEvents))
	if err != nil {
		return err
	}
	security, err := loadSecurityEvents(s.path(fileSecurityLog))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = vehicles
	s.telemetry = telemetry
	s.defects = defects
	s.slots = slots
	s.centers = centers
	s.feedback = feedback
	s.rca = rca
	s.interactions = interactions
	s.events = events
	s.security = security
	return nil
}

// Repository accessors. Each adapter is a thin view over the shared store.

func (s *Store) Vehicles() core.VehicleRepository         { return vehicleRepo{s} }
func (s *Store) Telemetry() core.TelemetryRepository      { return telemetryRepo{s} }
func (s *Store) Defects() core.DefectRepository           { return defectRepo{s} }
func (s *Store) Slots() core.SlotRepository               { return slotRepo{s} }
func (s *Store) Centers() core.CenterRepository           { return centerRepo{s} }
func (s *Store) Feedback() core.FeedbackRepository        { return feedbackRepo{s} }
func (s *Store) RCA() core.RCARepository                  { return rcaRepo{s} }
func (s *Store) Interactions() core.InteractionRepository { return interactionRepo{s} }
func (s *Store) Events() core.EventRepository             { return eventRepo{s} }
func (s *Store) SecurityLog() core.SecurityLogRepository  { return securityLogRepo{s} }
