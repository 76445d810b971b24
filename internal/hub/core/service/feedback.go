package service

import (
	"context"
	"fmt"

	"github.com/guardian-io/guardian/internal/hub/core/model"
	"github.com/guardian-io/guardian/internal/pkg/metrics"
	"github.com/guardian-io/guardian/internal/pkg/sentiment"
)

const (
	lowRatingThreshold = 3.0
	trailingWindow     = 5
	followupListCap    = 10
)

// RequestPrompt composes the post-service feedback request sent to a
// customer, with a deterministic fallback when generation fails.
func (s *Service) RequestPrompt(ctx context.Context, vehicleID, customerName string, diag *model.Diagnosis) string {
	fallback := fmt.Sprintf("Hi %s, your recent service visit is complete (%s). How would you rate the experience from 1 to 5?",
		customerName, diag.Summary())

	if s.textgen == nil {
		return fallback
	}
	prompt := fmt.Sprintf("Write a short feedback request for customer %s after a vehicle service visit. Context: %s. Ask for a 1-5 rating and a comment.",
		customerName, diag.Summary())

	text, err := s.textgen.Generate(ctx, prompt)
	if err != nil || text == "" {
		metrics.TextGenFallbacksTotal.Inc()
		return fallback
	}
	return text
}

// RecordFeedback stores one post-service outcome. Sentiment is derived from
// the comment text; needs_followup is set for low ratings or vehicles still
// classified high or critical.
func (s *Service) RecordFeedback(ctx context.Context, vehicleID, customerName string, rating float64, resolved bool, comments string) (*model.Feedback, error) {
	vehicle, err := s.vehicles.Get(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("record feedback for %s: %w", vehicleID, err)
	}

	now := s.now()
	fb := &model.Feedback{
		ID:            s.newID(),
		VehicleID:     vehicle.ID,
		VehicleName:   vehicle.Name,
		CustomerName:  customerName,
		ServiceDate:   now.Format("2006-01-02"),
		Rating:        rating,
		Resolved:      resolved,
		Comments:      comments,
		Sentiment:     sentiment.Polarity(comments),
		RootCauseRef:  "RCA-" + now.Format("20060102"),
		NeedsFollowup: rating < lowRatingThreshold || vehicle.Risk.Urgent(),
	}
	if err := s.feedback.Append(ctx, fb); err != nil {
		return nil, fmt.Errorf("record feedback for %s: %w", vehicleID, err)
	}

	s.logEvent(ctx, vehicle.Name, "feedback", "record", "feedback",
		fmt.Sprintf("rating=%.1f", rating), comments)
	return fb, nil
}

// AggregateFeedback computes satisfaction metrics, for one vehicle when
// vehicleName is set or fleet-wide when empty. The insight line comes from
// the text collaborator with a deterministic fallback.
func (s *Service) AggregateFeedback(ctx context.Context, vehicleName string) (*model.FeedbackMetrics, error) {
	var (
		records []model.Feedback
		err     error
	)
	if vehicleName == "" {
		records, err = s.feedback.All(ctx)
	} else {
		records, err = s.feedback.ByVehicle(ctx, vehicleName)
	}
	if err != nil {
		return nil, err
	}

	m := &model.FeedbackMetrics{Count: len(records)}
	if len(records) == 0 {
		m.Insight = "No feedback recorded yet."
		return m, nil
	}

	var sum float64
	for _, fb := range records {
		sum += fb.Rating
		if !fb.Resolved {
			m.Unresolved++
		}
		if fb.Rating < lowRatingThreshold {
			m.LowRatings++
		}
	}
	m.MeanRating = sum / float64(len(records))

	if len(records) >= trailingWindow {
		var tail float64
		for _, fb := range records[len(records)-trailingWindow:] {
			tail += fb.Rating
		}
		m.TrailingMean = tail / trailingWindow
	}

	m.Insight = s.feedbackInsight(ctx, m)
	return m, nil
}

func (s *Service) feedbackInsight(ctx context.Context, m *model.FeedbackMetrics) string {
	fallback := fmt.Sprintf("Across %d responses the mean rating is %.1f with %d unresolved issues; prioritize follow-ups on low ratings.",
		m.Count, m.MeanRating, m.Unresolved)

	if s.textgen == nil {
		return fallback
	}
	prompt := fmt.Sprintf("In one sentence, give an actionable service-quality insight: %d feedback records, mean rating %.2f, %d unresolved, %d low ratings.",
		m.Count, m.MeanRating, m.Unresolved, m.LowRatings)

	text, err := s.textgen.Generate(ctx, prompt)
	if err != nil || text == "" {
		metrics.TextGenFallbacksTotal.Inc()
		return fallback
	}
	return text
}

// FollowupAlerts lists up to the last ten low-rated or unresolved feedback
// records, each with a fresh diagnosis and recommendation attached.
func (s *Service) FollowupAlerts(ctx context.Context) ([]model.FollowupAlert, error) {
	records, err := s.feedback.All(ctx)
	if err != nil {
		return nil, err
	}

	var flagged []model.Feedback
	for _, fb := range records {
		if fb.Rating < lowRatingThreshold || !fb.Resolved {
			flagged = append(flagged, fb)
		}
	}
	if len(flagged) > followupListCap {
		flagged = flagged[len(flagged)-followupListCap:]
	}

	out := make([]model.FollowupAlert, 0, len(flagged))
	for _, fb := range flagged {
		alert := model.FollowupAlert{Feedback: fb}
		alert.Diagnosis = s.Diagnose(ctx, fb.VehicleID)
		if rec, err := s.Recommend(ctx, fb.VehicleID, fb.CustomerName); err == nil {
			alert.Recommendation = rec
		}
		out = append(out, alert)
	}
	return out, nil
}
