package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/hub/core/service"
	"github.com/guardian-io/guardian/internal/hub/store"
	"github.com/guardian-io/guardian/internal/pkg/geo"
	"github.com/guardian-io/guardian/pkg/log"
)

type recordingDispatcher struct {
	calls []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, vehicleID string, _ model.RiskLevel) error {
	d.calls = append(d.calls, vehicleID)
	return nil
}

type steadyConsistency struct{}

func (steadyConsistency) Check(string) float64 { return 0.95 }

type decliningResponder struct{}

func (decliningResponder) WantsBooking(model.RiskLevel) bool { return false }
func (decliningResponder) ServiceFeedback(string) (float64, string) {
	return 3.5, "It was fine."
}

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestRig(t *testing.T) (*service.Service, *recordingDispatcher, string) {
	t.Helper()
	dir := t.TempDir()

	writeDataFile(t, dir, "vehicles.csv",
		"vehicle_id,vehicle_name,model,status,customer_id,customer_name,risk\n"+
			"V0001,Car A,Falcon X,Active,C001,Asha,low\n"+
			"V0002,Car B,Falcon Y,Active,C002,Ravi,low\n"+
			"V0003,Car C,Falcon Z,Fault: Brake Issue,C003,Meera,low\n")
	writeDataFile(t, dir, "service_centers.csv",
		"id,name,lat,lon\n"+
			"SC01,Downtown,19.0760,72.8777\n"+
			"SC02,Airport,19.0896,72.8656\n")

	st, err := store.Open(dir, log.NewNopLogger())
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	svc := service.New(service.Deps{
		Vehicles:     st.Vehicles(),
		Telemetry:    st.Telemetry(),
		Defects:      st.Defects(),
		Slots:        st.Slots(),
		Centers:      st.Centers(),
		Feedback:     st.Feedback(),
		RCA:          st.RCA(),
		Interactions: st.Interactions(),
		Events:       st.Events(),
		SecurityLog:  st.SecurityLog(),
		Voice:        dispatcher,
		Consistency:  steadyConsistency{},
	}, log.NewNopLogger())

	require.NoError(t, svc.EnsureSlotPool(context.Background()))
	return svc, dispatcher, dir
}

func testLocation() geo.Point { return geo.Point{Lat: 19.0760, Lon: 72.8777} }

func hasActionContaining(st *model.WorkflowState, substr string) bool {
	for _, a := range st.Actions {
		if strings.Contains(a, substr) {
			return true
		}
	}
	return false
}

func TestRunLowRiskGoesStraightToFeedback(t *testing.T) {
	svc, _, _ := newTestRig(t)
	r := New(svc, nil, testLocation(), log.NewNopLogger())

	// No telemetry at all: the diagnosis defaults to low.
	st, err := r.Run(context.Background(), "V0001")
	require.NoError(t, err)

	assert.Equal(t, model.WorkflowComplete, st.Status)
	assert.Equal(t, model.RiskLow, st.Priority)
	assert.Nil(t, st.Booking, "low risk must not schedule")
	assert.False(t, st.EngagedOnce, "low risk must not engage")
	require.NotNil(t, st.Feedback)
	assert.False(t, hasActionContaining(st, "scheduling"))
	assert.True(t, hasActionContaining(st, "feedback recorded"))
}

func TestRunHighRiskSchedulesFromReserve(t *testing.T) {
	svc, _, _ := newTestRig(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordTelemetry(ctx, &model.TelemetrySnapshot{
		VehicleID: "V0002", BatteryVoltage: 11.5, AlarmLevel: 1, IgnitionOn: true,
	}))

	r := New(svc, nil, testLocation(), log.NewNopLogger())
	st, err := r.Run(ctx, "V0002")
	require.NoError(t, err)

	assert.Equal(t, model.WorkflowComplete, st.Status)
	assert.Equal(t, model.RiskHigh, st.Priority)
	require.NotNil(t, st.Diagnosis)
	assert.Equal(t, model.FailureBattery, st.Diagnosis.Failure)
	assert.Equal(t, "3d", st.Diagnosis.Urgency)

	require.NotNil(t, st.Booking)
	assert.Equal(t, model.BookingReserved, st.Booking.Status)
	assert.Equal(t, "Car B", st.Booking.VehicleName)
	assert.NotEmpty(t, st.Booking.Center)
	assert.NotEmpty(t, st.Booking.Date)
	assert.NotEmpty(t, st.Booking.Time)

	require.NotNil(t, st.Feedback)
	assert.False(t, st.EngagedOnce, "high risk skips engagement")
}

func TestRunCriticalEscalatesWithVoiceAlert(t *testing.T) {
	svc, dispatcher, _ := newTestRig(t)

	r := New(svc, nil, testLocation(), log.NewNopLogger())
	st, err := r.Run(context.Background(), "V0003")
	require.NoError(t, err)

	assert.Equal(t, model.WorkflowCriticalEmergency, st.Status)
	assert.Equal(t, model.RiskCritical, st.Priority)
	require.NotNil(t, st.Booking)
	assert.Equal(t, model.BookingReserved, st.Booking.Status)
	assert.Nil(t, st.Feedback, "the emergency branch skips feedback")
	assert.Equal(t, []string{"V0003"}, dispatcher.calls)
	assert.True(t, hasActionContaining(st, "voice alert dispatched"))
}

func TestRunMediumEngagesOnceThenSchedules(t *testing.T) {
	svc, _, _ := newTestRig(t)
	ctx := context.Background()

	// A tight healthy cluster plus one deviating latest sample drives the
	// anomaly rule to medium.
	for i := 0; i < 30; i++ {
		require.NoError(t, svc.RecordTelemetry(ctx, &model.TelemetrySnapshot{
			VehicleID:      "V0001",
			BatteryVoltage: 12.5 + float64(i%3)*0.05,
			AlarmLevel:     i % 2,
			Vibration:      0.3,
			IgnitionOn:     true,
		}))
	}
	require.NoError(t, svc.TrainModels(ctx))
	require.NoError(t, svc.RecordTelemetry(ctx, &model.TelemetrySnapshot{
		VehicleID: "V0001", BatteryVoltage: 12.1, AlarmLevel: 2, Vibration: 4.5, IgnitionOn: true,
	}))

	r := New(svc, nil, testLocation(), log.NewNopLogger())
	st, err := r.Run(ctx, "V0001")
	require.NoError(t, err)

	assert.Equal(t, model.WorkflowComplete, st.Status)
	assert.Equal(t, model.RiskMedium, st.Priority)
	assert.True(t, st.EngagedOnce)
	assert.True(t, st.WantsBooking)
	assert.NotEmpty(t, st.Recommendation)
	require.NotNil(t, st.Booking)
	assert.Equal(t, model.BookingConfirmed, st.Booking.Status)
	require.NotNil(t, st.Feedback)
}

func TestRunMediumDecliningCustomerSkipsScheduling(t *testing.T) {
	svc, _, _ := newTestRig(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		require.NoError(t, svc.RecordTelemetry(ctx, &model.TelemetrySnapshot{
			VehicleID:      "V0001",
			BatteryVoltage: 12.5 + float64(i%3)*0.05,
			AlarmLevel:     i % 2,
			Vibration:      0.3,
			IgnitionOn:     true,
		}))
	}
	require.NoError(t, svc.TrainModels(ctx))
	require.NoError(t, svc.RecordTelemetry(ctx, &model.TelemetrySnapshot{
		VehicleID: "V0001", BatteryVoltage: 12.1, AlarmLevel: 2, Vibration: 4.5, IgnitionOn: true,
	}))

	r := New(svc, decliningResponder{}, testLocation(), log.NewNopLogger())
	st, err := r.Run(ctx, "V0001")
	require.NoError(t, err)

	assert.Equal(t, model.WorkflowComplete, st.Status)
	assert.True(t, st.EngagedOnce)
	assert.False(t, st.WantsBooking)
	assert.Nil(t, st.Booking)
	require.NotNil(t, st.Feedback)
	assert.InDelta(t, 3.5, st.Feedback.Rating, 1e-9)
}

func TestRunAppendsAuditTrailAndInteractions(t *testing.T) {
	svc, _, _ := newTestRig(t)
	ctx := context.Background()

	st, err := New(svc, nil, testLocation(), log.NewNopLogger()).Run(ctx, "V0001")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(st.Actions), 3)

	// Every dispatch is observed by the auditor.
	dash, err := svc.AuditDashboard(ctx, 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, dash.Total, 2)
}
