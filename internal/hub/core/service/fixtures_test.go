package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/pkg/log"
)

// In-memory repository fakes. They mirror the store semantics closely
// enough for service-level tests without touching the filesystem.

type memVehicles struct {
	mu   sync.Mutex
	list []model.Vehicle
}

func (m *memVehicles) Get(_ context.Context, id string) (*model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			v := m.list[i]
			return &v, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memVehicles) GetByName(_ context.Context, name string) (*model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].Name == name {
			v := m.list[i]
			return &v, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memVehicles) List(_ context.Context) ([]model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Vehicle, len(m.list))
	copy(out, m.list)
	return out, nil
}

func (m *memVehicles) UpdateRisk(_ context.Context, id string, risk model.RiskLevel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			m.list[i].Risk = risk
			return nil
		}
	}
	return core.ErrNotFound
}

type memTelemetry struct {
	mu   sync.Mutex
	list []model.TelemetrySnapshot
}

func (m *memTelemetry) Append(_ context.Context, snap *model.TelemetrySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *snap)
	return nil
}

func (m *memTelemetry) Window(_ context.Context, vehicleID string, n int) ([]model.TelemetrySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.TelemetrySnapshot
	for _, t := range m.list {
		if t.VehicleID == vehicleID {
			out = append(out, t)
		}
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

func (m *memTelemetry) All(_ context.Context) ([]model.TelemetrySnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.TelemetrySnapshot, len(m.list))
	copy(out, m.list)
	return out, nil
}

type memDefects struct {
	list []model.Defect
}

func (m *memDefects) Latest(_ context.Context, vehicleName string) (*model.Defect, error) {
	var latest *model.Defect
	for i := range m.list {
		d := &m.list[i]
		if d.VehicleName != vehicleName {
			continue
		}
		if latest == nil || d.ReportedDate > latest.ReportedDate {
			latest = d
		}
	}
	if latest == nil {
		return nil, core.ErrNotFound
	}
	d := *latest
	return &d, nil
}

func (m *memDefects) All(_ context.Context) ([]model.Defect, error) {
	out := make([]model.Defect, len(m.list))
	copy(out, m.list)
	return out, nil
}

type memSlots struct {
	mu   sync.Mutex
	list []model.Slot
}

func (m *memSlots) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.list), nil
}

func (m *memSlots) Seed(_ context.Context, slots []model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = make([]model.Slot, len(slots))
	copy(m.list, slots)
	return nil
}

func (m *memSlots) List(_ context.Context) ([]model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Slot, len(m.list))
	copy(out, m.list)
	return out, nil
}

func (m *memSlots) Get(_ context.Context, id string) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		if m.list[i].ID == id {
			s := m.list[i]
			return &s, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memSlots) Book(_ context.Context, slotID, vehicleID, priorityLevel string) (*model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.list {
		s := &m.list[i]
		if s.ID != slotID {
			continue
		}
		if s.Status != model.SlotAvailable {
			return nil, core.ErrSlotUnavailable
		}
		s.Status = model.SlotBooked
		s.VehicleID = vehicleID
		s.PriorityLevel = priorityLevel
		out := *s
		return &out, nil
	}
	return nil, core.ErrSlotUnavailable
}

type memCenters struct {
	list []model.Center
}

func (m *memCenters) All(_ context.Context) ([]model.Center, error) {
	out := make([]model.Center, len(m.list))
	copy(out, m.list)
	return out, nil
}

type memFeedback struct {
	mu   sync.Mutex
	list []model.Feedback
}

func (m *memFeedback) Append(_ context.Context, fb *model.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *fb)
	return nil
}

func (m *memFeedback) ByVehicle(_ context.Context, vehicleName string) ([]model.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Feedback
	for _, fb := range m.list {
		if fb.VehicleName == vehicleName {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (m *memFeedback) All(_ context.Context) ([]model.Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Feedback, len(m.list))
	copy(out, m.list)
	return out, nil
}

type memRCA struct {
	list []model.RCARecord
}

func (m *memRCA) All(_ context.Context) ([]model.RCARecord, error) {
	out := make([]model.RCARecord, len(m.list))
	copy(out, m.list)
	return out, nil
}

type memInteractions struct {
	mu   sync.Mutex
	list []model.Interaction
}

func (m *memInteractions) Append(_ context.Context, in *model.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *in)
	return nil
}

func (m *memInteractions) All(_ context.Context) ([]model.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Interaction, len(m.list))
	copy(out, m.list)
	return out, nil
}

func (m *memInteractions) Recent(_ context.Context, n int) ([]model.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in := m.list
	if n > 0 && len(in) > n {
		in = in[len(in)-n:]
	}
	out := make([]model.Interaction, len(in))
	copy(out, in)
	return out, nil
}

func (m *memInteractions) DistinctTargets(_ context.Context, source string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	targets := map[string]struct{}{}
	for _, in := range m.list {
		if in.Source == source && !in.Timestamp.Before(since) {
			targets[in.Target] = struct{}{}
		}
	}
	return len(targets), nil
}

func (m *memInteractions) BlockBySource(_ context.Context, source string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for i := range m.list {
		if m.list[i].Source == source && !m.list[i].Blocked {
			m.list[i].Blocked = true
			n++
		}
	}
	return n, nil
}

type memEvents struct {
	mu   sync.Mutex
	list []model.Event
}

func (m *memEvents) Append(_ context.Context, ev *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *ev)
	return nil
}

func (m *memEvents) All(_ context.Context) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Event, len(m.list))
	copy(out, m.list)
	return out, nil
}

type memSecurityLog struct {
	mu   sync.Mutex
	list []model.SecurityEvent
}

func (m *memSecurityLog) Append(_ context.Context, ev *model.SecurityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, *ev)
	return nil
}

func (m *memSecurityLog) All(_ context.Context) ([]model.SecurityEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.SecurityEvent, len(m.list))
	copy(out, m.list)
	return out, nil
}

// fakeTextGen counts invocations and can be forced to fail.
type fakeTextGen struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (f *fakeTextGen) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeTextGen) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fixedConsistency always returns the same consistency score.
type fixedConsistency struct{ v float64 }

func (f fixedConsistency) Check(string) float64 { return f.v }

// fakeReportStore keeps uploads in a map.
type fakeReportStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeReportStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return key, nil
}

func (f *fakeReportStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return "", errors.New("no such object")
	}
	return "https://storage.local/" + key, nil
}

// harness bundles the fakes behind a freshly wired service.
type harness struct {
	svc *Service

	vehicles     *memVehicles
	telemetry    *memTelemetry
	defects      *memDefects
	slots        *memSlots
	centers      *memCenters
	feedback     *memFeedback
	rca          *memRCA
	interactions *memInteractions
	events       *memEvents
	security     *memSecurityLog
	textgen      *fakeTextGen
}

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newHarness() *harness {
	h := &harness{
		vehicles: &memVehicles{list: []model.Vehicle{
			{ID: "V0001", Name: "Car A", Model: "Falcon X", Status: "Active", CustomerID: "C001", CustomerName: "Asha", Risk: model.RiskLow},
			{ID: "V0002", Name: "Car B", Model: "Falcon Y", Status: "Active", CustomerID: "C002", CustomerName: "Ravi", Risk: model.RiskLow},
			{ID: "V0003", Name: "Car C", Model: "Falcon Z", Status: "Fault: Brake Issue", CustomerID: "C003", CustomerName: "Meera", Risk: model.RiskLow},
		}},
		telemetry:    &memTelemetry{},
		defects:      &memDefects{},
		slots:        &memSlots{},
		centers: &memCenters{list: []model.Center{
			{ID: "SC01", Name: "Downtown", Lat: 19.0760, Lon: 72.8777},
			{ID: "SC02", Name: "Airport", Lat: 19.0896, Lon: 72.8656},
		}},
		feedback:     &memFeedback{},
		rca:          &memRCA{},
		interactions: &memInteractions{},
		events:       &memEvents{},
		security:     &memSecurityLog{},
		textgen:      &fakeTextGen{text: "generated message"},
	}

	h.svc = New(Deps{
		Vehicles:     h.vehicles,
		Telemetry:    h.telemetry,
		Defects:      h.defects,
		Slots:        h.slots,
		Centers:      h.centers,
		Feedback:     h.feedback,
		RCA:          h.rca,
		Interactions: h.interactions,
		Events:       h.events,
		SecurityLog:  h.security,
		TextGen:      h.textgen,
		Consistency:  fixedConsistency{v: 0.95},
	}, log.NewNopLogger())

	h.svc.now = func() time.Time { return testNow }

	seq := 0
	h.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%04d", seq)
	}
	return h
}
