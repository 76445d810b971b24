package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

func TestInsightsEmptyTables(t *testing.T) {
	h := newHarness()

	r, err := h.svc.Insights(context.Background())
	require.NoError(t, err)
	assert.Zero(t, r.FeedbackCount)
	assert.Contains(t, r.Text, "No customer feedback recorded yet.")
	assert.Contains(t, r.Text, "No RCA/CAPA records available.")
}

func TestInsightsAggregates(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.feedback.list = []model.Feedback{
		{VehicleName: "Car A", Rating: 5, Sentiment: 0.8},
		{VehicleName: "Car A", Rating: 4, Sentiment: 0.5},
		{VehicleName: "Car B", Rating: 2, Sentiment: -0.6},
		{VehicleName: "Car B", Rating: 1, Sentiment: -1},
	}
	h.defects.list = []model.Defect{
		{Type: "Brake", Severity: "High"},
		{Type: "Brake", Severity: "High"},
		{Type: "Brake", Severity: "High"},
		{Type: "Battery", Severity: "Medium"},
		{Type: "Battery", Severity: "Medium"},
		{Type: "Oil Leak", Severity: "Low"},
		{Type: "Tyre", Severity: "Low"},
	}
	h.rca.list = []model.RCARecord{
		{Issue: "Brake wear", RootCause: "Pad material", CorrectiveAction: "Switch supplier"},
		{Issue: "Brake wear", RootCause: "Driving style", CorrectiveAction: "Customer advisory"},
		{Issue: "Battery drain", RootCause: "Parasitic load", CorrectiveAction: "Firmware update"},
	}

	r, err := h.svc.Insights(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, r.FeedbackCount)
	assert.InDelta(t, 3.0, r.MeanRating, 1e-9)
	assert.InDelta(t, 4.5, r.PerVehicleMean["Car A"], 1e-9)
	assert.InDelta(t, 1.5, r.PerVehicleMean["Car B"], 1e-9)
	assert.Equal(t, []string{"Car B"}, r.LowRated)
	// Both vehicles sit 1.5 away from the fleet mean of 3.0.
	assert.Equal(t, []string{"Car A", "Car B"}, r.OutlierVehicles)

	require.Len(t, r.TopDefects, 3)
	assert.Equal(t, model.DefectTrend{Type: "Brake", Severity: "High", Count: 3}, r.TopDefects[0])
	assert.Equal(t, model.DefectTrend{Type: "Battery", Severity: "Medium", Count: 2}, r.TopDefects[1])

	require.Len(t, r.RCASummary, 2)
	assert.Equal(t, []string{"Switch supplier", "Customer advisory"}, r.RCASummary["Brake wear"])

	assert.Contains(t, r.Text, "Fleet satisfaction")
	assert.Contains(t, r.Text, "3 RCA/CAPA records cover 2 distinct issues")
}

func TestIngestServiceReport(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	reports := &fakeReportStore{}
	h.svc.reports = reports

	fb, key, err := h.svc.IngestServiceReport(ctx, "V0001", "visit-042.pdf", "application/pdf", []byte("report body"))
	require.NoError(t, err)
	assert.Equal(t, "service_reports/2026/03/visit-042.pdf", key)
	require.NotNil(t, fb)
	assert.InDelta(t, 4.0, fb.Rating, 1e-9)
	assert.True(t, fb.Resolved)
	assert.Contains(t, fb.Comments, key)

	url, err := reports.PresignedURL(ctx, key, 0)
	require.NoError(t, err)
	assert.Contains(t, url, key)
}

func TestIngestServiceReportWithoutStorage(t *testing.T) {
	h := newHarness()

	_, _, err := h.svc.IngestServiceReport(context.Background(), "V0001", "x.pdf", "application/pdf", []byte("x"))
	assert.Error(t, err)
}

type recordingDispatcher struct {
	vehicleIDs []string
	risks      []model.RiskLevel
	err        error
}

func (r *recordingDispatcher) Dispatch(_ context.Context, vehicleID string, risk model.RiskLevel) error {
	r.vehicleIDs = append(r.vehicleIDs, vehicleID)
	r.risks = append(r.risks, risk)
	return r.err
}

func TestVoiceAlertDispatches(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	disp := &recordingDispatcher{}
	h.svc.voice = disp

	require.NoError(t, h.svc.VoiceAlert(ctx, "V0003", model.RiskCritical))
	require.Len(t, disp.vehicleIDs, 1)
	assert.Equal(t, "V0003", disp.vehicleIDs[0])
	assert.Equal(t, model.RiskCritical, disp.risks[0])

	events, err := h.events.All(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "sent", events[len(events)-1].Status)
}

func TestVoiceAlertWithoutDispatcherIsSkipped(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	require.NoError(t, h.svc.VoiceAlert(ctx, "V0003", model.RiskCritical))

	events, err := h.events.All(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "skipped", events[len(events)-1].Status)
}
