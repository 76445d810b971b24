package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/guardian-io/guardian/internal/hub/core"
	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/geo"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
)

const (
	// poolDays is the scheduling horizon generated at pool initialization.
	poolDays = 7

	// reserveListCap bounds both the priority reserve listing and the
	// regular listing.
	reserveListCap = 10
)

// timeLabels are the fixed appointment times offered per day.
var timeLabels = []string{"09:00", "11:00", "13:00", "15:00", "17:00"}

// EnsureSlotPool generates the appointment pool if none exists. For each of
// the next 7 days and each time label and each center, one slot is created;
// in generation order the first 10 of every 25 slots form the high-priority
// reserve. Idempotent: an existing pool is left untouched.
func (s *Service) EnsureSlotPool(ctx context.Context) error {
	n, err := s.slots.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	centers, err := s.centers.All(ctx)
	if err != nil {
		return err
	}
	if len(centers) == 0 {
		return errors.New("no service centers configured")
	}

	today := s.now()
	var pool []model.Slot
	i := 0
	for day := 0; day < poolDays; day++ {
		date := today.AddDate(0, 0, day).Format("2006-01-02")
		for _, tl := range timeLabels {
			for _, c := range centers {
				slot := model.Slot{
					ID:       fmt.Sprintf("S-%04d", i+1),
					Date:     date,
					Time:     tl,
					CenterID: c.ID,
					Status:   model.SlotAvailable,
				}
				if i%25 < 10 {
					slot.Reserved = true
					slot.PriorityLevel = model.PriorityEmergency
				}
				pool = append(pool, slot)
				i++
			}
		}
	}

	s.log.Info("slot pool generated", "slots", len(pool), "centers", len(centers))
	return s.slots.Seed(ctx, pool)
}

// ListAvailable returns bookable slots for a customer location, nearest
// first. High and critical priority see only the reserved subset; everyone
// is capped at ten results.
func (s *Service) ListAvailable(ctx context.Context, location geo.Point, horizonDays int, priority model.RiskLevel) ([]model.Slot, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}
	centers, err := s.centers.All(ctx)
	if err != nil {
		return nil, err
	}
	centerByID := make(map[string]model.Center, len(centers))
	for _, c := range centers {
		centerByID[c.ID] = c
	}

	today := s.now().Format("2006-01-02")
	lastDay := s.now().AddDate(0, 0, horizonDays).Format("2006-01-02")

	var out []model.Slot
	for _, sl := range slots {
		if sl.Status != model.SlotAvailable {
			continue
		}
		if sl.Date < today || sl.Date > lastDay {
			continue
		}
		if priority.Urgent() && !sl.Reserved {
			continue
		}
		if c, ok := centerByID[sl.CenterID]; ok {
			sl.DistanceKM = geo.HaversineKM(location, geo.Point{Lat: c.Lat, Lon: c.Lon})
		}
		out = append(out, sl)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].DistanceKM != out[b].DistanceKM {
			return out[a].DistanceKM < out[b].DistanceKM
		}
		if out[a].Date != out[b].Date {
			return out[a].Date < out[b].Date
		}
		return out[a].Time < out[b].Time
	})

	if len(out) > reserveListCap {
		out = out[:reserveListCap]
	}
	return out, nil
}

// Book attempts to book a specific slot. An unavailable slot is a typed
// result, not an error; errors are reserved for storage failures.
func (s *Service) Book(ctx context.Context, vehicleID, slotID, customerName string, priority model.RiskLevel, autoConfirm bool) (*model.BookingResult, error) {
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("book slot %s: %w", slotID, err)
	}

	booked, err := s.slots.Book(ctx, slotID, vehicleID, string(priority))
	if err != nil {
		if errors.Is(err, core.ErrSlotUnavailable) {
			metrics.BookingsTotal.WithLabelValues(string(model.BookingUnavailable)).Inc()
			return &model.BookingResult{
				Status:      model.BookingUnavailable,
				VehicleName: vehicle.Name,
				SlotID:      slotID,
				Message:     fmt.Sprintf("Slot %s is no longer available. Please pick another slot.", slotID),
			}, nil
		}
		return nil, err
	}

	diag := s.Diagnose(ctx, vehicleID)

	status := model.BookingReserved
	if autoConfirm {
		status = model.BookingConfirmed
	}
	metrics.BookingsTotal.WithLabelValues(string(status)).Inc()

	result := &model.BookingResult{
		Status:      status,
		VehicleName: vehicle.Name,
		SlotID:      booked.ID,
		Center:      booked.CenterID,
		Date:        booked.Date,
		Time:        booked.Time,
		Priority:    priority,
		Diagnosis:   diag,
		Message: fmt.Sprintf("%s booked for %s at %s on %s %s (%s).",
			vehicle.Name, customerName, booked.CenterID, booked.Date, booked.Time, diag.Summary()),
	}
	s.logEvent(ctx, vehicle.Name, "scheduler", "book", "booking", string(status), result.Message)
	return result, nil
}

// BookWithPreferences books the earliest available slot at a named center.
// Preferences are echoed back, not matched; slot contents are date and time
// only.
func (s *Service) BookWithPreferences(ctx context.Context, vehicleID, customerName, centerID string, preferences []string) (*model.BookingResult, error) {
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("book at center %s: %w", centerID, err)
	}

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, err
	}

	var pick *model.Slot
	for i := range slots {
		sl := &slots[i]
		if sl.CenterID != centerID || sl.Status != model.SlotAvailable {
			continue
		}
		if pick == nil || sl.Date < pick.Date || (sl.Date == pick.Date && sl.Time < pick.Time) {
			pick = sl
		}
	}
	if pick == nil {
		metrics.BookingsTotal.WithLabelValues(string(model.BookingUnavailable)).Inc()
		return &model.BookingResult{
			Status:      model.BookingUnavailable,
			VehicleName: vehicle.Name,
			Center:      centerID,
			Preferences: preferences,
			Message:     fmt.Sprintf("No available slots at %s.", centerID),
		}, nil
	}

	result, err := s.Book(ctx, vehicleID, pick.ID, customerName, vehicle.Risk, true)
	if err != nil {
		return nil, err
	}
	result.Preferences = preferences
	return result, nil
}

// AutoReserve books the nearest reserved slot for a high or critical
// vehicle without customer confirmation.
func (s *Service) AutoReserve(ctx context.Context, vehicleID string, location geo.Point, priority model.RiskLevel) (*model.BookingResult, error) {
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("auto-reserve for %s: %w", vehicleID, err)
	}

	candidates, err := s.ListAvailable(ctx, location, poolDays, priority)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.BookingsTotal.WithLabelValues(string(model.BookingUnavailable)).Inc()
		return &model.BookingResult{
			Status:      model.BookingUnavailable,
			VehicleName: vehicle.Name,
			Message:     "No priority slots available. Service desk has been notified.",
		}, nil
	}

	result, err := s.Book(ctx, vehicleID, candidates[0].ID, vehicle.CustomerName, priority, false)
	if err != nil {
		return nil, err
	}
	if result.Status != model.BookingUnavailable {
		result.Message = fmt.Sprintf("URGENT: %s has been reserved an emergency service slot at %s on %s %s. Please attend as soon as possible.",
			vehicle.Name, result.Center, result.Date, result.Time)
	}
	return result, nil
}
