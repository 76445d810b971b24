package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/geo"
)

func downtown() geo.Point { return geo.Point{Lat: 19.0760, Lon: 72.8777} }

func TestEnsureSlotPoolGeneratesAndFlagsReserve(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	slots, err := h.slots.List(ctx)
	require.NoError(t, err)
	// 7 days x 5 time labels x 2 centers.
	require.Len(t, slots, 70)

	for i, sl := range slots {
		if i%25 < 10 {
			assert.True(t, sl.Reserved, "slot %d", i)
			assert.Equal(t, model.PriorityEmergency, sl.PriorityLevel)
		} else {
			assert.False(t, sl.Reserved, "slot %d", i)
		}
		assert.Equal(t, model.SlotAvailable, sl.Status)
	}
}

func TestEnsureSlotPoolIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	require.NoError(t, h.svc.EnsureSlotPool(ctx))
	booked, err := h.slots.Book(ctx, "S-0001", "V0001", "high")
	require.NoError(t, err)
	require.Equal(t, model.SlotBooked, booked.Status)

	// Second init must not regenerate or reset the pool.
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	n, err := h.slots.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 70, n)

	sl, err := h.slots.Get(ctx, "S-0001")
	require.NoError(t, err)
	assert.Equal(t, model.SlotBooked, sl.Status)
}

func TestListAvailableUrgentSeesReserveOnly(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	urgent, err := h.svc.ListAvailable(ctx, downtown(), 7, model.RiskCritical)
	require.NoError(t, err)
	require.NotEmpty(t, urgent)
	assert.LessOrEqual(t, len(urgent), 10)
	for _, sl := range urgent {
		assert.True(t, sl.Reserved)
	}

	normal, err := h.svc.ListAvailable(ctx, downtown(), 7, model.RiskLow)
	require.NoError(t, err)
	assert.Len(t, normal, 10)
}

func TestListAvailableSortsByDistanceThenDateTime(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	out, err := h.svc.ListAvailable(ctx, downtown(), 7, model.RiskLow)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if prev.DistanceKM != cur.DistanceKM {
			assert.Less(t, prev.DistanceKM, cur.DistanceKM)
			continue
		}
		if prev.Date != cur.Date {
			assert.Less(t, prev.Date, cur.Date)
			continue
		}
		assert.LessOrEqual(t, prev.Time, cur.Time)
	}
	// The customer sits on SC01, so the nearest slot is there.
	assert.Equal(t, "SC01", out[0].CenterID)
}

func TestBookSameSlotTwice(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	first, err := h.svc.Book(ctx, "V0001", "S-0011", "Asha", model.RiskMedium, true)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, first.Status)
	assert.Equal(t, "Car A", first.VehicleName)
	require.NotNil(t, first.Diagnosis)

	second, err := h.svc.Book(ctx, "V0002", "S-0011", "Ravi", model.RiskMedium, true)
	require.NoError(t, err)
	assert.True(t, second.Unavailable())

	// Slot stays assigned to the first vehicle.
	sl, err := h.slots.Get(ctx, "S-0011")
	require.NoError(t, err)
	assert.Equal(t, "V0001", sl.VehicleID)
}

func TestBookMissingSlot(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	res, err := h.svc.Book(ctx, "V0001", "S-9999", "Asha", model.RiskLow, true)
	require.NoError(t, err)
	assert.True(t, res.Unavailable())
	assert.Contains(t, res.Message, "S-9999")
}

func TestBookWithPreferencesPicksEarliestAtCenter(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	prefs := []string{"morning", "weekday"}
	res, err := h.svc.BookWithPreferences(ctx, "V0001", "Asha", "SC02", prefs)
	require.NoError(t, err)
	require.Equal(t, model.BookingConfirmed, res.Status)
	assert.Equal(t, "SC02", res.Center)
	assert.Equal(t, testNow.Format("2006-01-02"), res.Date)
	assert.Equal(t, "09:00", res.Time)
	assert.Equal(t, prefs, res.Preferences)
}

func TestAutoReserveBooksNearestReservedSlot(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	require.NoError(t, h.svc.EnsureSlotPool(ctx))

	// Property-style end-to-end: low battery drives a high diagnosis and an
	// emergency reservation from the priority reserve.
	require.NoError(t, h.telemetry.Append(ctx, &model.TelemetrySnapshot{
		VehicleID: "V0002", BatteryVoltage: 11.5, AlarmLevel: 1, IgnitionOn: true, Timestamp: testNow,
	}))
	d := h.svc.Diagnose(ctx, "V0002")
	require.Equal(t, model.RiskHigh, d.Risk)

	res, err := h.svc.AutoReserve(ctx, "V0002", downtown(), d.Risk)
	require.NoError(t, err)
	assert.Equal(t, model.BookingReserved, res.Status)
	assert.Equal(t, "Car B", res.VehicleName)
	assert.Contains(t, res.Message, "URGENT")
	assert.NotEmpty(t, res.Center)
	assert.NotEmpty(t, res.Date)

	sl, err := h.slots.Get(ctx, res.SlotID)
	require.NoError(t, err)
	assert.True(t, sl.Reserved)
	assert.Equal(t, "V0002", sl.VehicleID)
}
