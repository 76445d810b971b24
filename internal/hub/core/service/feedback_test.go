package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

func TestRecordFeedbackDerivesSentimentAndRef(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	fb, err := h.svc.RecordFeedback(ctx, "V0001", "Asha", 5, true, "excellent and quick service")
	require.NoError(t, err)
	assert.Equal(t, "Car A", fb.VehicleName)
	assert.Greater(t, fb.Sentiment, 0.0)
	assert.Equal(t, "RCA-20260301", fb.RootCauseRef)
	assert.Equal(t, "2026-03-01", fb.ServiceDate)
	assert.False(t, fb.NeedsFollowup)

	stored, err := h.feedback.All(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestRecordFeedbackFollowupFlags(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	// Low rating flags followup regardless of risk.
	fb, err := h.svc.RecordFeedback(ctx, "V0001", "Asha", 2, true, "slow")
	require.NoError(t, err)
	assert.True(t, fb.NeedsFollowup)

	// High-risk vehicle flags followup even with a good rating.
	require.NoError(t, h.vehicles.UpdateRisk(ctx, "V0002", model.RiskHigh))
	fb, err = h.svc.RecordFeedback(ctx, "V0002", "Ravi", 5, true, "great")
	require.NoError(t, err)
	assert.True(t, fb.NeedsFollowup)
}

func TestAggregateFeedbackMetrics(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.textgen.err = errors.New("down")

	ratings := []float64{5, 4, 2, 1, 3, 5}
	for i, r := range ratings {
		_, err := h.svc.RecordFeedback(ctx, "V0001", "Asha", r, i%2 == 0, "ok")
		require.NoError(t, err)
	}

	m, err := h.svc.AggregateFeedback(ctx, "Car A")
	require.NoError(t, err)
	assert.Equal(t, 6, m.Count)
	assert.InDelta(t, 20.0/6, m.MeanRating, 1e-9)
	assert.Equal(t, 3, m.Unresolved)
	assert.Equal(t, 2, m.LowRatings)
	// Trailing window covers the last five: 4, 2, 1, 3, 5.
	assert.InDelta(t, 3.0, m.TrailingMean, 1e-9)
	assert.Contains(t, m.Insight, "mean rating")
}

func TestAggregateFeedbackFewRecordsNoTrailingMean(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.svc.RecordFeedback(ctx, "V0001", "Asha", 4, true, "fine")
		require.NoError(t, err)
	}

	m, err := h.svc.AggregateFeedback(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, m.Count)
	assert.Zero(t, m.TrailingMean)
}

func TestAggregateFeedbackEmpty(t *testing.T) {
	h := newHarness()

	m, err := h.svc.AggregateFeedback(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, m.Count)
	assert.Equal(t, "No feedback recorded yet.", m.Insight)
}

func TestAggregateFeedbackUsesGeneratedInsight(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.svc.RecordFeedback(ctx, "V0001", "Asha", 4, true, "fine")
	require.NoError(t, err)

	m, err := h.svc.AggregateFeedback(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "generated message", m.Insight)
}

func TestFollowupAlertsCapAndEnrichment(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.textgen.err = errors.New("down")

	// Twelve flagged records; only the last ten qualify.
	for i := 0; i < 12; i++ {
		fb := &model.Feedback{
			ID:          fmt.Sprintf("fb-%02d", i),
			VehicleID:   "V0001",
			VehicleName: "Car A",
			Rating:      2,
			Resolved:    false,
		}
		require.NoError(t, h.feedback.Append(ctx, fb))
	}

	alerts, err := h.svc.FollowupAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 10)
	assert.Equal(t, "fb-02", alerts[0].Feedback.ID)
	for _, a := range alerts {
		require.NotNil(t, a.Diagnosis)
		assert.NotEmpty(t, a.Recommendation)
	}
}

func TestRequestPromptFallback(t *testing.T) {
	h := newHarness()
	h.textgen.err = errors.New("down")

	d := h.svc.Evaluate(context.Background(), "V0001", nil, "Active")
	text := h.svc.RequestPrompt(context.Background(), "V0001", "Asha", d)
	assert.Contains(t, text, "Asha")
	assert.Contains(t, text, "rate")
}
