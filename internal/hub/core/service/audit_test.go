package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardian-io/guardian/internal/hub/core/model"
)

func seedNormalInteractions(t *testing.T, h *harness, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		in := &model.Interaction{
			ID:          fmt.Sprintf("seed-%03d", i),
			Timestamp:   testNow.Add(-24 * time.Hour),
			Source:      "diagnosis",
			Target:      "scheduler",
			VehicleID:   "V0001",
			Action:      "diagnose",
			PayloadSize: 200 + i%7,
			LatencyMS:   100 + float64(i%11),
			FanOut:      1 + i%2,
			Consistency: 0.95,
		}
		require.NoError(t, h.interactions.Append(context.Background(), in))
	}
}

func TestObserveBenignCallIsAllowed(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	v, err := h.svc.Observe(ctx, "diagnosis", "scheduler", "V0001", "diagnose", 256, 120)
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.Zero(t, v.AnomalyScore)
	assert.Empty(t, v.RiskFactors)

	// The call is logged regardless of verdict.
	all, err := h.interactions.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Blocked)
}

func TestObservePenaltiesWithoutModel(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.svc.consistency = fixedConsistency{v: 0.5}

	// Six distinct targets in the trailing hour trips the fan-out penalty.
	for i := 0; i < 6; i++ {
		require.NoError(t, h.interactions.Append(ctx, &model.Interaction{
			ID:        fmt.Sprintf("r-%d", i),
			Timestamp: testNow.Add(-10 * time.Minute),
			Source:    "rogue",
			Target:    fmt.Sprintf("target-%d", i),
		}))
	}

	v, err := h.svc.Observe(ctx, "rogue", "scheduler", "V0001", "probe", 64, 6000)
	require.NoError(t, err)
	// Rules only: 0.2 + 0.15 + 0.25.
	assert.InDelta(t, 0.6, v.AnomalyScore, 1e-9)
	assert.False(t, v.Allowed)
	assert.ElementsMatch(t, []string{"high_fan_out", "high_latency", "low_consistency"}, v.RiskFactors)
}

func TestObserveExtremeInputClampsToOne(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	h.svc.consistency = fixedConsistency{v: 0.5}

	seedNormalInteractions(t, h, 60)
	require.NoError(t, h.svc.TrainModels(ctx))
	require.True(t, h.svc.auditScorer.Fitted())

	for i := 0; i < 6; i++ {
		require.NoError(t, h.interactions.Append(ctx, &model.Interaction{
			ID:        fmt.Sprintf("r-%d", i),
			Timestamp: testNow.Add(-5 * time.Minute),
			Source:    "rogue",
			Target:    fmt.Sprintf("target-%d", i),
		}))
	}

	v, err := h.svc.Observe(ctx, "rogue", "scheduler", "V0001", "exfil", 999999, 6000)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.AnomalyScore, 1e-9, "score clamps at 1.0")
	assert.False(t, v.Allowed)
	assert.Contains(t, v.RiskFactors, "ml_outlier")

	// A blocked interaction lands in the security log.
	events, err := h.security.All(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "blocked", events[len(events)-1].Status)
}

func TestAuditModelNotTrainedOnSmallLog(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	seedNormalInteractions(t, h, 10)
	require.NoError(t, h.svc.TrainModels(ctx))
	assert.False(t, h.svc.auditScorer.Fitted())
}

func TestQuarantineBlocksHistory(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := h.svc.Observe(ctx, "rogue", "scheduler", "V0001", "probe", 64, 100)
		require.NoError(t, err)
	}
	_, err := h.svc.Observe(ctx, "diagnosis", "scheduler", "V0001", "diagnose", 64, 100)
	require.NoError(t, err)

	n, err := h.svc.Quarantine(ctx, "rogue")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	all, err := h.interactions.All(ctx)
	require.NoError(t, err)
	for _, in := range all {
		assert.Equal(t, in.Source == "rogue", in.Blocked, "entry %s", in.ID)
	}

	events, err := h.security.All(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, "quarantine", events[len(events)-1].Status)
}

func TestAuditDashboard(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := h.svc.Observe(ctx, "diagnosis", "scheduler", "V0001", "diagnose", 64, 100)
		require.NoError(t, err)
	}
	_, err := h.svc.Observe(ctx, "scheduler", "feedback", "V0002", "book", 64, 100)
	require.NoError(t, err)

	d, err := h.svc.AuditDashboard(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Total)
	assert.Equal(t, "diagnosis", d.Busiest)
	assert.Len(t, d.Recent, 2)
	assert.Zero(t, d.Blocked)
	assert.Zero(t, d.Suspicious)
}

func TestAuditDashboardEmpty(t *testing.T) {
	h := newHarness()

	d, err := h.svc.AuditDashboard(context.Background(), 5)
	require.NoError(t, err)
	assert.Zero(t, d.Total)
	assert.Empty(t, d.Recent)
}

func TestBehavioralRisks(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.svc.LogSecurityEvent(ctx, "Car A", "auditor", "odd telemetry", "alert")
	h.svc.LogSecurityEvent(ctx, "Car A", "auditor", "blocked call", "blocked")
	h.svc.LogSecurityEvent(ctx, "Car B", "auditor", "odd telemetry", "alert")

	risks, err := h.svc.BehavioralRisks(ctx)
	require.NoError(t, err)
	require.Len(t, risks, 2)

	// Car A: 0.3*2 + 0.7*1 = 1.3; Car B: 0.3.
	assert.Equal(t, "Car A", risks[0].VehicleName)
	assert.InDelta(t, 1.3, risks[0].Score, 1e-9)
	assert.Equal(t, "Car B", risks[1].VehicleName)
	assert.InDelta(t, 0.3, risks[1].Score, 1e-9)
}
